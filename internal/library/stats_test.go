// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangatrack/internal/library"
)

/*
TestComputeStats checks status counts and the formatted average.
*/
func TestComputeStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		stats := library.ComputeStats(nil)
		assert.Equal(t, 0, stats.Total)
		assert.Equal(t, "0.0", stats.AvgRating)
	})

	t.Run("zero_and_ten", func(t *testing.T) {
		stats := library.ComputeStats([]library.Item{
			{ID: 1, Status: library.StatusReading, UserRating: 0},
			{ID: 2, Status: library.StatusCompleted, UserRating: 10},
		})
		assert.Equal(t, "5.0", stats.AvgRating)
		assert.Equal(t, 2, stats.Total)
		assert.Equal(t, 1, stats.Reading)
		assert.Equal(t, 1, stats.Completed)
	})

	t.Run("all_statuses", func(t *testing.T) {
		stats := library.ComputeStats([]library.Item{
			{ID: 1, Status: library.StatusOnHold, UserRating: 7.5},
			{ID: 2, Status: library.StatusDropped, UserRating: 3},
			{ID: 3, Status: library.StatusOnHold, UserRating: 8},
		})
		assert.Equal(t, 2, stats.OnHold)
		assert.Equal(t, 1, stats.Dropped)
		assert.Equal(t, "6.2", stats.AvgRating)
	})
}

func TestSortByRating(t *testing.T) {
	list := []library.Item{{ID: 1, UserRating: 3}, {ID: 2, UserRating: 10.5}, {ID: 3, UserRating: 3}, {ID: 4, UserRating: 8}}

	sorted := library.SortByRating(list)

	ids := make([]int, 0, len(sorted))
	for _, item := range sorted {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []int{2, 4, 1, 3}, ids)
	assert.Equal(t, 1, list[0].ID, "input order is preserved")
}

func TestFilterByStatus(t *testing.T) {
	list := []library.Item{{ID: 1, Status: library.StatusReading}, {ID: 2, Status: library.StatusDropped}}

	assert.Len(t, library.FilterByStatus(list, ""), 2)
	dropped := library.FilterByStatus(list, library.StatusDropped)
	assert.Len(t, dropped, 1)
	assert.Equal(t, 2, dropped[0].ID)
}

/*
TestSortFeed verifies status priority first, then rating.
*/
func TestSortFeed(t *testing.T) {
	entries := []library.FeedEntry{
		{Item: library.Item{ID: 1, Status: library.StatusDropped, UserRating: 10}, Owner: "a"},
		{Item: library.Item{ID: 2, Status: library.StatusReading, UserRating: 4}, Owner: "b"},
		{Item: library.Item{ID: 3, Status: library.StatusOnHold, UserRating: 9}, Owner: "a"},
		{Item: library.Item{ID: 4, Status: library.StatusReading, UserRating: 9}, Owner: "c"},
		{Item: library.Item{ID: 5, Status: library.StatusCompleted, UserRating: 1}, Owner: "b"},
	}

	sorted := library.SortFeed(entries)

	ids := make([]int, 0, len(sorted))
	for _, entry := range sorted {
		ids = append(ids, entry.ID)
	}
	assert.Equal(t, []int{4, 2, 5, 3, 1}, ids)
}
