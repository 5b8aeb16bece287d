// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// # Rating

const (
	// MaxScore is the top of the regular 0-10 scale.
	MaxScore = 10.0
	// MaxRating is the ceiling of the peak band.
	MaxRating = 11.0
	// ratingStep is the granularity of the regular scale.
	ratingStep = 0.5
)

// RatingKind tells a regular score apart from an off-scale peak rating.
type RatingKind int

const (
	// RatingScore is a value on the 0-10 scale in 0.5 steps.
	RatingScore RatingKind = iota
	// RatingPeak is a value in (10, 11], displayed as "PEAK".
	RatingPeak
)

// Rating is a user's rating of a title.
//
// Values up to [MaxScore] are regular scores; values above it belong to the peak
// band and are kept at full precision.
type Rating float64

// Kind classifies the rating.
func (r Rating) Kind() RatingKind {
	if float64(r) > MaxScore {
		return RatingPeak
	}
	return RatingScore
}

// Valid reports whether r lies within [0, MaxRating].
func (r Rating) Valid() bool {
	v := float64(r)
	return !math.IsNaN(v) && v >= 0 && v <= MaxRating
}

// String renders "PEAK" for the peak band and "7.5/10" otherwise.
func (r Rating) String() string {
	if r.Kind() == RatingPeak {
		return "PEAK"
	}
	return fmt.Sprintf("%.1f/10", float64(r))
}

/*
NormalizeRating turns raw numeric input into a stored [Rating].

Rules:
  - NaN, infinities and negative values are rejected.
  - Values above [MaxRating] are clamped to it.
  - Values up to [MaxScore] are rounded to the nearest 0.5.
  - Values in the peak band are preserved unrounded.
*/
func NormalizeRating(value float64) (Rating, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, ErrInvalidRating
	}
	if value > MaxRating {
		return Rating(MaxRating), nil
	}
	if value <= MaxScore {
		return Rating(math.Round(value/ratingStep) * ratingStep), nil
	}
	return Rating(value), nil
}

// ParseRating parses text input and normalizes it with [NormalizeRating].
func ParseRating(raw string) (Rating, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, ErrInvalidRating
	}
	return NormalizeRating(value)
}
