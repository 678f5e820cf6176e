package model

import (
	"math"
	"testing"
)

func TestComputeRatingStats(t *testing.T) {
	reviews := []Review{
		{ID: "a", Rating: 5},
		{ID: "b", Rating: 3},
		{ID: "c", Rating: 4},
		{ID: "d", Rating: 4},
		{ID: "e", Rating: 9},
	}

	s := ComputeRatingStats(reviews)

	if s.Count != 4 {
		t.Errorf("Expected 4 valid ratings, got %d", s.Count)
	}
	if s.Invalid != 1 {
		t.Errorf("Expected 1 invalid rating, got %d", s.Invalid)
	}
	if s.Mean != 4 {
		t.Errorf("Expected mean 4, got %f", s.Mean)
	}
	// sample std dev of 5,3,4,4
	want := math.Sqrt(2.0 / 3.0)
	if math.Abs(s.StdDev-want) > 1e-9 {
		t.Errorf("Expected stddev %f, got %f", want, s.StdDev)
	}
	if s.Histogram[4] != 2 || s.Histogram[5] != 1 || s.Histogram[3] != 1 {
		t.Errorf("Unexpected histogram %v", s.Histogram)
	}
	if s.MaxBucket() != 2 {
		t.Errorf("Expected max bucket 2, got %d", s.MaxBucket())
	}
}

func TestComputeRatingStats_Empty(t *testing.T) {
	s := ComputeRatingStats(nil)
	if s.Count != 0 || s.Mean != 0 || s.StdDev != 0 {
		t.Errorf("Expected zero stats, got %+v", s)
	}
}

func TestComputeRatingStats_Single(t *testing.T) {
	s := ComputeRatingStats([]Review{{Rating: 2}})
	if s.Mean != 2 || s.StdDev != 0 {
		t.Errorf("Expected mean 2 stddev 0, got %+v", s)
	}
}
