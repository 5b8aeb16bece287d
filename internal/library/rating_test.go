// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangatrack/internal/library"
)

/*
TestNormalizeRating covers rounding, clamping and the peak band.
*/
func TestNormalizeRating(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  library.Rating
	}{
		{"rounds_to_half", 7.3, 7.5},
		{"rounds_down", 7.2, 7.0},
		{"zero", 0, 0},
		{"ten", 10, 10},
		{"peak_kept", 10.6, 10.6},
		{"clamped", 15, 11},
		{"ceiling", 11, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := library.NormalizeRating(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, float64(tt.want), float64(got), 1e-9)
		})
	}
}

func TestNormalizeRating_Rejects(t *testing.T) {
	for _, input := range []float64{-2, -0.1, math.NaN(), math.Inf(1)} {
		_, err := library.NormalizeRating(input)
		assert.ErrorIs(t, err, library.ErrInvalidRating)
	}
}

func TestParseRating(t *testing.T) {
	got, err := library.ParseRating(" 7.3 ")
	require.NoError(t, err)
	assert.Equal(t, library.Rating(7.5), got)

	_, err = library.ParseRating("great")
	assert.ErrorIs(t, err, library.ErrInvalidRating)

	_, err = library.ParseRating("-2")
	assert.ErrorIs(t, err, library.ErrInvalidRating)
}

func TestRating_Kind(t *testing.T) {
	assert.Equal(t, library.RatingScore, library.Rating(10).Kind())
	assert.Equal(t, library.RatingPeak, library.Rating(10.5).Kind())
	assert.Equal(t, "PEAK", library.Rating(10.6).String())
	assert.Equal(t, "7.5/10", library.Rating(7.5).String())
}
