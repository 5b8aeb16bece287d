// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"slices"
	"time"
)

// # List Mutations

/*
Add appends a new [Item] built from candidate with default progress fields.

Parameters:
  - list: []Item (current state, not modified)
  - candidate: Candidate (catalog entry)
  - now: time.Time (becomes AddedDate)

Returns:
  - []Item: The next state (the input list when rejected)
  - error: ErrDuplicateItem if the id is already tracked
*/
func Add(list []Item, candidate Candidate, now time.Time) ([]Item, error) {
	if IndexOf(list, candidate.ID) >= 0 {
		return list, ErrDuplicateItem
	}

	item := Item{
		ID:            candidate.ID,
		Title:         candidate.Title,
		TitleJapanese: candidate.TitleJapanese,
		Synopsis:      candidate.Synopsis,
		Images:        candidate.Images,
		TotalChapters: candidate.TotalChapters,
		Score:         candidate.Score,
		Type:          candidate.Type,

		Status:       StatusReading,
		UserRating:   0,
		ChaptersRead: 0,
		Comments:     "",
		AddedDate:    now.UTC(),
	}

	next := make([]Item, 0, len(list)+1)
	next = append(next, list...)
	return append(next, item), nil
}

/*
Update shallow-merges patch into the item with the given id.

Description: Marking an item completed while its total chapter count is known
also sets ChaptersRead to that total, in the same resulting state.

Returns:
  - []Item: The next state (the input list when rejected)
  - error: ErrItemNotFound, or ErrInvalidPatch for out-of-range values
*/
func Update(list []Item, id int, patch Patch) ([]Item, error) {
	index := IndexOf(list, id)
	if index < 0 {
		return list, ErrItemNotFound
	}

	if patch.UserRating != nil && !patch.UserRating.Valid() {
		return list, ErrInvalidPatch
	}
	if patch.ChaptersRead != nil && *patch.ChaptersRead < 0 {
		return list, ErrInvalidPatch
	}
	var status Status
	if patch.Status != nil {
		parsed, ok := ParseStatus(string(*patch.Status))
		if !ok {
			return list, ErrInvalidPatch
		}
		status = parsed
	}

	item := list[index]
	if patch.Status != nil {
		item.Status = status
	}
	if patch.UserRating != nil {
		item.UserRating = *patch.UserRating
	}
	if patch.ChaptersRead != nil {
		item.ChaptersRead = *patch.ChaptersRead
	}
	if patch.Comments != nil {
		item.Comments = *patch.Comments
	}

	// Completing a title with a known length marks every chapter read.
	if status == StatusCompleted {
		if total, ok := item.KnownTotal(); ok {
			item.ChaptersRead = total
		}
	}

	next := slices.Clone(list)
	next[index] = item
	return next, nil
}

// Remove filters out the item with the given id and reports whether one was removed.
// When nothing matches, the input list is returned as is.
func Remove(list []Item, id int) ([]Item, bool) {
	if IndexOf(list, id) < 0 {
		return list, false
	}

	next := make([]Item, 0, len(list)-1)
	for _, item := range list {
		if item.ID != id {
			next = append(next, item)
		}
	}
	return next, true
}

// IndexOf returns the position of the item with the given id, or -1.
func IndexOf(list []Item, id int) int {
	return slices.IndexFunc(list, func(item Item) bool { return item.ID == id })
}

// Find returns the item with the given id.
func Find(list []Item, id int) (Item, bool) {
	index := IndexOf(list, id)
	if index < 0 {
		return Item{}, false
	}
	return list[index], true
}
