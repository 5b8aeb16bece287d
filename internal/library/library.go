// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package library holds the manga-tracking domain shared by the API server and the
device client.

It defines the tracked item entity, the reading status and rating value types,
and the pure list mutation operations (add, update, remove) that compute the next
state of a user's list. Persisting that state is someone else's job.

Architecture:

  - Entities: Item, Candidate, Images, Stats.
  - Value types: Status, Rating.
  - Operations: Add, Update, Remove, ComputeStats, SortByRating, SortFeed.

Every function in this package is synchronous and side-effect free; input slices
are never modified in place.
*/
package library

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// # Errors

var (
	// ErrDuplicateItem is returned by [Add] when the catalog id is already tracked.
	ErrDuplicateItem = errors.New("manga already in list")

	// ErrItemNotFound is returned by [Update] when no item has the given id.
	ErrItemNotFound = errors.New("manga not in list")

	// ErrInvalidRating is returned when a rating cannot be normalized.
	ErrInvalidRating = errors.New("rating must be a number between 0 and 11")

	// ErrInvalidPatch is returned by [Update] when a patch carries out-of-range values.
	ErrInvalidPatch = errors.New("invalid update")
)

// # Status

// Status is the reading state of a tracked item.
type Status string

const (
	StatusReading   Status = "reading"
	StatusCompleted Status = "completed"
	StatusDropped   Status = "dropped"
	StatusOnHold    Status = "on hold"
)

// Statuses lists every status in display priority order.
var Statuses = []Status{StatusReading, StatusCompleted, StatusOnHold, StatusDropped}

// ParseStatus maps user or wire input to a [Status].
//
// The on-hold state is stored as "on hold"; "on_hold", "on-hold" and "onhold"
// are accepted as aliases.
func ParseStatus(raw string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "reading":
		return StatusReading, true
	case "completed":
		return StatusCompleted, true
	case "dropped":
		return StatusDropped, true
	case "on hold", "on_hold", "on-hold", "onhold":
		return StatusOnHold, true
	}
	return "", false
}

// UnmarshalJSON canonicalizes known aliases. Unknown values are kept verbatim.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed, ok := ParseStatus(raw); ok {
		*s = parsed
		return nil
	}
	*s = Status(raw)
	return nil
}

// Next cycles through [Statuses]; unknown values restart at reading.
func (s Status) Next() Status {
	for i, candidate := range Statuses {
		if candidate == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusReading
}

// priority orders statuses for the friends feed. Unknown statuses sort last.
func (s Status) priority() int {
	switch s {
	case StatusReading:
		return 1
	case StatusCompleted:
		return 2
	case StatusOnHold:
		return 3
	case StatusDropped:
		return 4
	}
	return 99
}

// # Entities

// ImageSet holds the cover URLs of one image format.
type ImageSet struct {
	ImageURL      string `json:"image_url,omitempty"`
	SmallImageURL string `json:"small_image_url,omitempty"`
	LargeImageURL string `json:"large_image_url,omitempty"`
}

// Images groups cover art by format, mirroring the catalog payload.
type Images struct {
	JPG  *ImageSet `json:"jpg,omitempty"`
	WebP *ImageSet `json:"webp,omitempty"`
}

// Cover returns the best available cover URL, or "".
func (i *Images) Cover() string {
	if i == nil {
		return ""
	}
	if i.JPG != nil && i.JPG.ImageURL != "" {
		return i.JPG.ImageURL
	}
	if i.WebP != nil {
		return i.WebP.ImageURL
	}
	return ""
}

// Candidate is a catalog entry that can be added to a list.
//
// Its fields are copied onto the [Item] at add time and never refreshed.
type Candidate struct {
	ID            int      `json:"mal_id"`
	Title         string   `json:"title"`
	TitleJapanese string   `json:"title_japanese,omitempty"`
	Synopsis      string   `json:"synopsis,omitempty"`
	Images        *Images  `json:"images,omitempty"`
	TotalChapters *int     `json:"chapters,omitempty"`
	Score         *float64 `json:"score,omitempty"`
	Type          string   `json:"type,omitempty"`
}

// Item is one manga entry in a user's list together with personal progress.
type Item struct {
	ID            int      `json:"mal_id"`
	Title         string   `json:"title"`
	TitleJapanese string   `json:"title_japanese,omitempty"`
	Synopsis      string   `json:"synopsis,omitempty"`
	Images        *Images  `json:"images,omitempty"`
	TotalChapters *int     `json:"chapters,omitempty"`
	Score         *float64 `json:"score,omitempty"`
	Type          string   `json:"type,omitempty"`

	Status       Status    `json:"status"`
	UserRating   Rating    `json:"userRating"`
	ChaptersRead int       `json:"chaptersRead"`
	Comments     string    `json:"comments"`
	AddedDate    time.Time `json:"addedDate,omitzero"`
}

// KnownTotal reports the total chapter count when the catalog knows it.
func (item Item) KnownTotal() (int, bool) {
	if item.TotalChapters == nil || *item.TotalChapters <= 0 {
		return 0, false
	}
	return *item.TotalChapters, true
}

// Patch is a shallow, field-wise update. Nil fields are left untouched.
type Patch struct {
	Status       *Status
	UserRating   *Rating
	ChaptersRead *int
	Comments     *string
}
