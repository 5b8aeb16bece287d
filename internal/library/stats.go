// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/taibuivan/mangatrack/pkg/slice"
)

// Stats summarizes a list by status together with the average rating.
type Stats struct {
	Total     int `json:"total"`
	Reading   int `json:"reading"`
	Completed int `json:"completed"`
	Dropped   int `json:"dropped"`
	OnHold    int `json:"onHold"`
	// AvgRating is the mean rating with one decimal, "0.0" for an empty list.
	AvgRating string `json:"avgRating"`
}

// ComputeStats aggregates list into [Stats].
func ComputeStats(list []Item) Stats {
	stats := Stats{Total: len(list), AvgRating: "0.0"}

	var sum float64
	for _, item := range list {
		switch item.Status {
		case StatusReading:
			stats.Reading++
		case StatusCompleted:
			stats.Completed++
		case StatusDropped:
			stats.Dropped++
		case StatusOnHold:
			stats.OnHold++
		}
		sum += float64(item.UserRating)
	}

	if len(list) > 0 {
		stats.AvgRating = fmt.Sprintf("%.1f", sum/float64(len(list)))
	}
	return stats
}

// # Views

// FilterByStatus returns the items with the given status; an empty status keeps all.
func FilterByStatus(list []Item, status Status) []Item {
	if status == "" {
		return slices.Clone(list)
	}
	return slice.Filter(list, func(item Item) bool { return item.Status == status })
}

// SortByRating returns a copy of list ordered by rating, highest first.
// Items with equal ratings keep their list order.
func SortByRating(list []Item) []Item {
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b Item) int {
		return cmp.Compare(b.UserRating, a.UserRating)
	})
	return out
}

// FeedEntry is an item of another user's list, as shown in the friends view.
type FeedEntry struct {
	Item
	Owner string `json:"ownerUsername"`
}

// SortFeed orders entries by status priority (reading, completed, on hold,
// dropped), then by rating, highest first.
func SortFeed(entries []FeedEntry) []FeedEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b FeedEntry) int {
		if byStatus := cmp.Compare(a.Status.priority(), b.Status.priority()); byStatus != 0 {
			return byStatus
		}
		return cmp.Compare(b.UserRating, a.UserRating)
	})
	return out
}
