package model

import (
	"strings"
	"testing"
)

func TestReviewInput_Validate(t *testing.T) {
	valid := ReviewInput{Show: "Severance", Author: "mia", Rating: 5, Review: "Holds up on rewatch."}

	tests := []struct {
		name    string
		mutate  func(*ReviewInput)
		wantErr string
	}{
		{"valid", func(*ReviewInput) {}, ""},
		{"zero rating allowed", func(in *ReviewInput) { in.Rating = 0 }, ""},
		{"missing show", func(in *ReviewInput) { in.Show = "" }, "show is required"},
		{"blank author", func(in *ReviewInput) { in.Author = "   " }, "author is required"},
		{"missing review", func(in *ReviewInput) { in.Review = "" }, "review is required"},
		{"rating too high", func(in *ReviewInput) { in.Rating = 6 }, "rating must be at most 5"},
		{"rating negative", func(in *ReviewInput) { in.Rating = -1 }, "rating must be at least 0"},
		{"show too long", func(in *ReviewInput) { in.Show = strings.Repeat("x", 201) }, "show must be at most 200 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestReview_Input(t *testing.T) {
	r := Review{ID: "r1", Show: "Dark", Author: "jo", Rating: 4, Review: "Twisty"}
	in := r.Input()
	if in.Show != "Dark" || in.Author != "jo" || in.Rating != 4 || in.Review != "Twisty" {
		t.Errorf("Input() did not copy fields: %+v", in)
	}
}

func TestReviewInput_Normalized(t *testing.T) {
	in := ReviewInput{Show: "  Dark ", Author: "\tjo", Review: "fine \n"}.Normalized()
	if in.Show != "Dark" || in.Author != "jo" || in.Review != "fine" {
		t.Errorf("Normalized() = %+v", in)
	}
}

func TestReviewInput_ValidateField(t *testing.T) {
	in := ReviewInput{Show: "Dark"}
	if err := in.ValidateField("Show"); err != nil {
		t.Errorf("Expected Show valid, got %v", err)
	}
	// Author is empty but only Show is checked
	if err := (ReviewInput{Show: " "}).ValidateField("Show"); err == nil || err.Error() != "show is required" {
		t.Errorf("Expected 'show is required', got %v", err)
	}
	if err := (ReviewInput{Rating: 9}).ValidateField("Rating"); err == nil || err.Error() != "rating must be at most 5" {
		t.Errorf("Expected rating error, got %v", err)
	}
}
