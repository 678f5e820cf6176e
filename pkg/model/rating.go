package model

import "strings"

// Rating scale bounds
const (
	MinRating = 0
	MaxRating = 5
)

var ratingLabels = [...]string{
	0: "Worthless!",
	1: "Poor...",
	2: "Okay",
	3: "Good",
	4: "Great",
	5: "Excellent!",
}

// RatingLabel maps a rating to its label. Ratings off the 0-5 scale have no label.
func RatingLabel(rating int) string {
	if !IsValidRating(rating) {
		return ""
	}
	return ratingLabels[rating]
}

// IsValidRating reports whether rating is on the 0-5 scale
func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// RatingStars renders a read-only star strip, clamping to the scale
func RatingStars(rating int) string {
	rating = ClampRating(rating)
	return strings.Repeat("★", rating) + strings.Repeat("☆", MaxRating-rating)
}

// ClampRating pulls rating into MinRating..MaxRating
func ClampRating(rating int) int {
	if rating < MinRating {
		return MinRating
	}
	if rating > MaxRating {
		return MaxRating
	}
	return rating
}
