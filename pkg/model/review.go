package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Review is a single show review as served by the remote review API
type Review struct {
	ID     string `json:"id" yaml:"id"`
	Show   string `json:"show" yaml:"show"`
	Author string `json:"author" yaml:"author"`
	Rating int    `json:"rating" yaml:"rating"`
	Review string `json:"review" yaml:"review"`
}

// Input returns the editable fields of the review
func (r Review) Input() ReviewInput {
	return ReviewInput{
		Show:   r.Show,
		Author: r.Author,
		Rating: r.Rating,
		Review: r.Review,
	}
}

// ReviewInput is the body sent when creating or updating a review
type ReviewInput struct {
	Show   string `json:"show" validate:"required,max=200"`
	Author string `json:"author" validate:"required,max=200"`
	Rating int    `json:"rating" validate:"min=0,max=5"`
	Review string `json:"review" validate:"required,max=5000"`
}

var validate = validator.New()

// Validate checks the input and returns a single error naming every bad field
func (in ReviewInput) Validate() error {
	err := validate.Struct(in.Normalized())
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid review: %s", strings.Join(msgs, "; "))
}

// ValidateField checks one field, named as in the struct (e.g. "Show"),
// ignoring the others. Used for inline form validation.
func (in ReviewInput) ValidateField(field string) error {
	err := validate.StructPartial(in.Normalized(), field)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return errors.New(fieldMessage(verrs[0]))
}

// Normalized returns the input with surrounding whitespace removed
func (in ReviewInput) Normalized() ReviewInput {
	in.Show = strings.TrimSpace(in.Show)
	in.Author = strings.TrimSpace(in.Author)
	in.Review = strings.TrimSpace(in.Review)
	return in
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return "invalid " + field
	}
}
