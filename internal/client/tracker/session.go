// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tracker holds the reading session used by the terminal UIs.

A [Session] owns the in-memory list of the current user and routes every
change through the persistence facade. Structural changes (add, remove,
status) are saved at once. Typed edits (rating, chapters, comments) update the
in-memory state immediately and are saved after a quiet period, one pending
save per item and field.
*/
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/mangatrack/internal/client/debounce"
	"github.com/taibuivan/mangatrack/internal/client/persist"
	"github.com/taibuivan/mangatrack/internal/library"
	"github.com/taibuivan/mangatrack/pkg/pointer"
	"github.com/taibuivan/mangatrack/pkg/slice"
)

// # Errors

var (
	// ErrBlankUsername is returned when a username is empty after normalization.
	ErrBlankUsername = errors.New("username is required")

	// ErrUsernameTooLong is returned when a username exceeds [library.MaxUsernameLength].
	ErrUsernameTooLong = errors.New("username is too long")
)

// # Dependencies

// Store is the persistence facade the session writes through.
type Store interface {
	GetList(ctx context.Context, username string) []library.Item
	SaveList(ctx context.Context, username string, items []library.Item) persist.SaveResult
	CreateUser(ctx context.Context, username string) (persist.CreateResult, error)
	ListUsers(ctx context.Context) []string
	Stats(ctx context.Context, username string) library.Stats
	Online() bool
}

// Pointer keeps track of the current user between runs.
type Pointer interface {
	CurrentUser(ctx context.Context) string
	SetCurrentUser(ctx context.Context, username string)
}

// Option customizes a [Session].
type Option func(*Session)

// WithNow overrides the clock used for AddedDate.
func WithNow(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// # Session

// Session is the command surface of one device. Methods are safe for
// concurrent use but are meant for a single logical thread of control.
type Session struct {
	store     Store
	pointer   Pointer
	debouncer *debounce.Debouncer
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	user     string
	items    []library.Item
	lastSave persist.SaveResult
}

/*
Open loads the current user and their list.

Parameters:
  - store: Store (usually a [*persist.Facade])
  - pointer: Pointer (usually the device cache)
  - debouncer: *debounce.Debouncer (schedules typed edits)

Returns:
  - *Session: Ready to use; it never fails because reads fall back to the cache
*/
func Open(ctx context.Context, store Store, pointer Pointer, debouncer *debounce.Debouncer, logger *slog.Logger, opts ...Option) *Session {
	s := &Session{
		store:     store,
		pointer:   pointer,
		debouncer: debouncer,
		logger:    logger,
		now:       time.Now,
		lastSave:  persist.SaveResult{RemoteSynced: true},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.user = pointer.CurrentUser(ctx)
	s.items = store.GetList(ctx, s.user)
	return s
}

// CurrentUser returns the username whose list is loaded.
func (s *Session) CurrentUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Items returns a copy of the loaded list in stored order.
func (s *Session) Items() []library.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Visible returns the items matching filter, highest rated first.
// An empty filter selects every item.
func (s *Session) Visible(filter library.Status) []library.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return library.SortByRating(library.FilterByStatus(s.items, filter))
}

// Item returns the loaded item with the given id.
func (s *Session) Item(id int) (library.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return library.Find(s.items, id)
}

// Online reports whether the remote store answered last time it was tried.
func (s *Session) Online() bool {
	return s.store.Online()
}

// LastSave reports where the most recent save ended up.
func (s *Session) LastSave() persist.SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSave
}

// # Users

// Users returns every known username.
func (s *Session) Users(ctx context.Context) []string {
	return s.store.ListUsers(ctx)
}

/*
SwitchUser makes username the current user and loads their list.

Description: Pending edits of the previous user are saved first, so they land
in the previous user's list.

Returns:
  - string: The normalized username now current
  - error: ErrBlankUsername or ErrUsernameTooLong
*/
func (s *Session) SwitchUser(ctx context.Context, raw string) (string, error) {
	username, err := checkUsername(raw)
	if err != nil {
		return "", err
	}

	// Pending callbacks take s.mu, so flush before locking.
	s.debouncer.Flush(ctx)

	items := s.store.GetList(ctx, username)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pointer.SetCurrentUser(ctx, username)
	s.user = username
	s.items = items

	s.logger.InfoContext(ctx, "session_user_switched", slog.String("username", username))
	return username, nil
}

// CreateUser normalizes raw and registers it through the store. The current
// user does not change.
func (s *Session) CreateUser(ctx context.Context, raw string) (string, persist.CreateResult, error) {
	username, err := checkUsername(raw)
	if err != nil {
		return "", 0, err
	}

	result, err := s.store.CreateUser(ctx, username)
	if err != nil {
		return username, 0, err
	}
	return username, result, nil
}

func checkUsername(raw string) (string, error) {
	username := library.NormalizeUsername(raw)
	if username == "" {
		return "", ErrBlankUsername
	}
	if len([]rune(username)) > library.MaxUsernameLength {
		return "", ErrUsernameTooLong
	}
	return username, nil
}

// # Structural Changes

// Add tracks candidate for the current user and saves at once.
func (s *Session) Add(ctx context.Context, candidate library.Candidate) (persist.SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := library.Add(s.items, candidate, s.now())
	if err != nil {
		return persist.SaveResult{}, err
	}
	s.items = next
	return s.saveLocked(ctx), nil
}

// Remove stops tracking id, drops its pending edits and saves at once.
func (s *Session) Remove(ctx context.Context, id int) (persist.SaveResult, error) {
	s.debouncer.CancelItem(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	next, removed := library.Remove(s.items, id)
	if !removed {
		return persist.SaveResult{}, library.ErrItemNotFound
	}
	s.items = next
	return s.saveLocked(ctx), nil
}

// SetStatus changes the reading status of id and saves at once.
func (s *Session) SetStatus(ctx context.Context, id int, status library.Status) (persist.SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.applyLocked(id, library.Patch{Status: pointer.To(status)}); err != nil {
		return persist.SaveResult{}, err
	}
	return s.saveLocked(ctx), nil
}

// # Typed Edits

// SetRating parses raw, applies it to id and schedules a save.
func (s *Session) SetRating(id int, raw string) (library.Rating, error) {
	rating, err := library.ParseRating(raw)
	if err != nil {
		return 0, err
	}
	return rating, s.edit(id, debounce.FieldRating, library.Patch{UserRating: pointer.To(rating)})
}

// SetChapters sets the chapters read of id and schedules a save.
func (s *Session) SetChapters(id, chapters int) error {
	return s.edit(id, debounce.FieldChapters, library.Patch{ChaptersRead: pointer.To(chapters)})
}

// SetComments replaces the comments of id and schedules a save.
func (s *Session) SetComments(id int, text string) error {
	return s.edit(id, debounce.FieldComments, library.Patch{Comments: pointer.To(text)})
}

func (s *Session) edit(id int, field debounce.Field, patch library.Patch) error {
	s.mu.Lock()
	err := s.applyLocked(id, patch)
	owner := s.user
	s.mu.Unlock()

	if err != nil {
		return err
	}

	s.debouncer.Schedule(debounce.Key{ItemID: id, Field: field}, func(ctx context.Context) {
		s.persistPending(ctx, owner)
	})
	return nil
}

// persistPending saves the current list once a typed edit has settled.
func (s *Session) persistPending(ctx context.Context, owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != owner {
		s.logger.WarnContext(ctx, "session_pending_write_dropped",
			slog.String("owner", owner),
			slog.String("current", s.user),
		)
		return
	}
	s.saveLocked(ctx)
}

func (s *Session) applyLocked(id int, patch library.Patch) error {
	next, err := library.Update(s.items, id, patch)
	if err != nil {
		return err
	}
	s.items = next
	return nil
}

func (s *Session) saveLocked(ctx context.Context) persist.SaveResult {
	result := s.store.SaveList(ctx, s.user, slices.Clone(s.items))
	s.lastSave = result
	return result
}

// # Views

// Stats returns the statistics of username, or of the current user when empty.
// The current user's statistics come from the in-memory list, which already
// holds edits that are still pending.
func (s *Session) Stats(ctx context.Context, username string) library.Stats {
	s.mu.Lock()
	if username == "" || username == s.user {
		defer s.mu.Unlock()
		return library.ComputeStats(s.items)
	}
	s.mu.Unlock()

	return s.store.Stats(ctx, username)
}

// Feed returns the items of every other user matching filter, ordered for
// the friends view. An empty filter selects every item.
func (s *Session) Feed(ctx context.Context, filter library.Status) []library.FeedEntry {
	current := s.CurrentUser()

	var entries []library.FeedEntry
	for _, username := range s.store.ListUsers(ctx) {
		if username == current {
			continue
		}
		owned := slice.Map(library.FilterByStatus(s.store.GetList(ctx, username), filter), func(item library.Item) library.FeedEntry {
			return library.FeedEntry{Item: item, Owner: username}
		})
		entries = append(entries, owned...)
	}
	return library.SortFeed(entries)
}

// # Lifecycle

// Close saves every pending edit. The session stays usable.
func (s *Session) Close(ctx context.Context) {
	s.debouncer.Flush(ctx)
}
