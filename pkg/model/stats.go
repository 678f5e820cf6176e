package model

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RatingStats summarizes the ratings of a review collection
type RatingStats struct {
	Count     int
	Mean      float64
	StdDev    float64
	Histogram [MaxRating + 1]int // index is the rating
	Invalid   int                // ratings off the 0-5 scale
}

// ComputeRatingStats calculates mean, spread and histogram over valid ratings
func ComputeRatingStats(reviews []Review) RatingStats {
	var s RatingStats
	values := make([]float64, 0, len(reviews))

	for _, r := range reviews {
		if !IsValidRating(r.Rating) {
			s.Invalid++
			continue
		}
		s.Histogram[r.Rating]++
		values = append(values, float64(r.Rating))
	}

	s.Count = len(values)
	if s.Count == 0 {
		return s
	}

	s.Mean = stat.Mean(values, nil)
	if s.Count > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	if math.IsNaN(s.StdDev) {
		s.StdDev = 0
	}
	return s
}

// MaxBucket returns the largest histogram count, for chart scaling
func (s RatingStats) MaxBucket() int {
	top := 0
	for _, n := range s.Histogram {
		if n > top {
			top = n
		}
	}
	return top
}
