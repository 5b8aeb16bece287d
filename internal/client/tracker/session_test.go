// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tracker_test

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangatrack/internal/client/debounce"
	"github.com/taibuivan/mangatrack/internal/client/persist"
	"github.com/taibuivan/mangatrack/internal/client/tracker"
	"github.com/taibuivan/mangatrack/internal/library"
	"github.com/taibuivan/mangatrack/pkg/pointer"
)

// # Fakes

type savedList struct {
	username string
	items    []library.Item
}

type fakeStore struct {
	mu      sync.Mutex
	lists   map[string][]library.Item
	users   []string
	saves   []savedList
	online  bool
	created []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{lists: map[string][]library.Item{}, online: true}
}

func (f *fakeStore) GetList(_ context.Context, username string) []library.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.lists[username])
}

func (f *fakeStore) SaveList(_ context.Context, username string, items []library.Item) persist.SaveResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[username] = slices.Clone(items)
	f.saves = append(f.saves, savedList{username: username, items: slices.Clone(items)})
	return persist.SaveResult{RemoteSynced: f.online}
}

func (f *fakeStore) CreateUser(_ context.Context, username string) (persist.CreateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slices.Contains(f.users, username) {
		return persist.CreateExists, nil
	}
	f.users = append(f.users, username)
	f.created = append(f.created, username)
	return persist.CreateCreated, nil
}

func (f *fakeStore) ListUsers(context.Context) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.users)
}

func (f *fakeStore) Stats(_ context.Context, username string) library.Stats {
	return library.ComputeStats(f.GetList(context.Background(), username))
}

func (f *fakeStore) Online() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeStore) lastSaved() savedList {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves[len(f.saves)-1]
}

type fakePointer struct {
	mu       sync.Mutex
	username string
}

func (p *fakePointer) CurrentUser(context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.username == "" {
		return "default"
	}
	return p.username
}

func (p *fakePointer) SetCurrentUser(_ context.Context, username string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.username = username
}

// manualClock fires timers only when advanced.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	due     time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) debounce.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &manualTimer{clock: c, due: c.now + d, f: f}
	c.timers = append(c.timers, timer)
	return timer
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, timer := range c.timers {
		if !timer.stopped && !timer.fired && timer.due <= c.now {
			timer.fired = true
			due = append(due, timer)
		}
	}
	c.mu.Unlock()

	for _, timer := range due {
		timer.f()
	}
}

// # Fixtures

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func candidate(id int, title string) library.Candidate {
	return library.Candidate{ID: id, Title: title, TotalChapters: pointer.To(100)}
}

type harness struct {
	store   *fakeStore
	pointer *fakePointer
	clock   *manualClock
	session *tracker.Session
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := newFakeStore()
	pointer := &fakePointer{}
	clock := &manualClock{}
	debouncer := debounce.New(clock, 500*time.Millisecond)

	session := tracker.Open(context.Background(), store, pointer, debouncer,
		slog.New(slog.DiscardHandler), tracker.WithNow(func() time.Time { return fixedNow }))
	return &harness{store: store, pointer: pointer, clock: clock, session: session}
}

// # Tests

/*
TestSession_OpenLoadsCurrentUser verifies that Open reads the pointer and the list.
*/
func TestSession_OpenLoadsCurrentUser(t *testing.T) {
	store := newFakeStore()
	store.lists["alice"] = []library.Item{{ID: 1, Title: "Berserk", Status: library.StatusReading}}
	pointer := &fakePointer{username: "alice"}

	session := tracker.Open(context.Background(), store, pointer,
		debounce.New(&manualClock{}, time.Second), slog.New(slog.DiscardHandler))

	assert.Equal(t, "alice", session.CurrentUser())
	assert.Len(t, session.Items(), 1)
}

/*
TestSession_AddSavesImmediately verifies structural changes and duplicate rejection.
*/
func TestSession_AddSavesImmediately(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	result, err := h.session.Add(ctx, candidate(1, "Berserk"))
	require.NoError(t, err)
	assert.True(t, result.RemoteSynced)
	require.Equal(t, 1, h.store.saveCount())

	saved := h.store.lastSaved()
	assert.Equal(t, "default", saved.username)
	require.Len(t, saved.items, 1)
	assert.Equal(t, library.StatusReading, saved.items[0].Status)
	assert.Equal(t, fixedNow, saved.items[0].AddedDate)

	_, err = h.session.Add(ctx, candidate(1, "Berserk"))
	assert.ErrorIs(t, err, library.ErrDuplicateItem)
	assert.Equal(t, 1, h.store.saveCount())
}

/*
TestSession_SetStatusCompletesChapters verifies completion with a known total.
*/
func TestSession_SetStatusCompletesChapters(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.session.Add(ctx, candidate(1, "Berserk"))
	require.NoError(t, err)

	_, err = h.session.SetStatus(ctx, 1, library.StatusCompleted)
	require.NoError(t, err)

	item, ok := h.session.Item(1)
	require.True(t, ok)
	assert.Equal(t, 100, item.ChaptersRead)
	assert.Equal(t, library.StatusCompleted, h.store.lastSaved().items[0].Status)

	_, err = h.session.SetStatus(ctx, 99, library.StatusDropped)
	assert.ErrorIs(t, err, library.ErrItemNotFound)
}

/*
TestSession_TypedEditsAreDebounced verifies optimistic updates and a single coalesced save.
*/
func TestSession_TypedEditsAreDebounced(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.session.Add(ctx, candidate(1, "Berserk"))
	require.NoError(t, err)
	baseline := h.store.saveCount()

	// 1. Several keystrokes on the same field
	for _, raw := range []string{"7", "8", "8.7"} {
		_, err := h.session.SetRating(1, raw)
		require.NoError(t, err)
	}
	require.NoError(t, h.session.SetChapters(1, 12))

	// 2. Visible immediately, not yet saved
	item, _ := h.session.Item(1)
	assert.Equal(t, library.Rating(8.5), item.UserRating)
	assert.Equal(t, 12, item.ChaptersRead)
	assert.Equal(t, baseline, h.store.saveCount())

	// 3. One save per field once the delay elapses
	h.clock.Advance(500 * time.Millisecond)
	assert.Equal(t, baseline+2, h.store.saveCount())

	saved := h.store.lastSaved().items[0]
	assert.Equal(t, library.Rating(8.5), saved.UserRating)
	assert.Equal(t, 12, saved.ChaptersRead)
}

/*
TestSession_TypedEditValidation verifies rejected edits change nothing.
*/
func TestSession_TypedEditValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.session.Add(ctx, candidate(1, "Berserk"))
	require.NoError(t, err)

	_, err = h.session.SetRating(1, "great")
	assert.ErrorIs(t, err, library.ErrInvalidRating)

	assert.ErrorIs(t, h.session.SetChapters(1, -1), library.ErrInvalidPatch)
	assert.ErrorIs(t, h.session.SetComments(2, "nope"), library.ErrItemNotFound)

	h.clock.Advance(time.Second)
	assert.Equal(t, 1, h.store.saveCount())
}

/*
TestSession_RemoveCancelsPendingEdits verifies that a removed item is not resurrected.
*/
func TestSession_RemoveCancelsPendingEdits(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.session.Add(ctx, candidate(1, "Berserk"))
	require.NoError(t, err)
	require.NoError(t, h.session.SetComments(1, "great arc"))

	_, err = h.session.Remove(ctx, 1)
	require.NoError(t, err)
	saves := h.store.saveCount()

	h.clock.Advance(time.Second)
	assert.Equal(t, saves, h.store.saveCount())
	assert.Empty(t, h.store.lastSaved().items)

	_, err = h.session.Remove(ctx, 1)
	assert.ErrorIs(t, err, library.ErrItemNotFound)
}

/*
TestSession_SwitchUserFlushesFirst verifies pending edits land in the previous user's list.
*/
func TestSession_SwitchUserFlushesFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.store.lists["bob"] = []library.Item{{ID: 5, Title: "Monster", Status: library.StatusDropped}}

	_, err := h.session.Add(ctx, candidate(1, "Berserk"))
	require.NoError(t, err)
	require.NoError(t, h.session.SetChapters(1, 40))

	username, err := h.session.SwitchUser(ctx, "  BOB ")
	require.NoError(t, err)
	assert.Equal(t, "bob", username)

	assert.Equal(t, 40, h.store.lists["default"][0].ChaptersRead)
	assert.Equal(t, "bob", h.session.CurrentUser())
	assert.Equal(t, "bob", h.pointer.CurrentUser(ctx))
	require.Len(t, h.session.Items(), 1)
	assert.Equal(t, 5, h.session.Items()[0].ID)

	_, err = h.session.SwitchUser(ctx, "   ")
	assert.ErrorIs(t, err, tracker.ErrBlankUsername)
}

/*
TestSession_CreateUser verifies normalization and delegation.
*/
func TestSession_CreateUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		raw        string
		wantName   string
		wantResult persist.CreateResult
		wantErr    error
	}{
		{name: "Created", raw: " Alice ", wantName: "alice", wantResult: persist.CreateCreated},
		{name: "Exists", raw: "ALICE", wantName: "alice", wantResult: persist.CreateExists},
		{name: "Blank", raw: " ", wantErr: tracker.ErrBlankUsername},
		{name: "TooLong", raw: strings.Repeat("a", 51), wantErr: tracker.ErrUsernameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			username, result, err := h.session.CreateUser(ctx, tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, username)
			assert.Equal(t, tt.wantResult, result)
		})
	}

	assert.Equal(t, []string{"alice"}, h.store.created)
	assert.Equal(t, "default", h.session.CurrentUser())
}

/*
TestSession_StatsIncludesPendingEdits verifies current-user stats use in-memory state.
*/
func TestSession_StatsIncludesPendingEdits(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.session.Add(ctx, candidate(1, "Berserk"))
	require.NoError(t, err)
	_, err = h.session.SetRating(1, "9")
	require.NoError(t, err)

	stats := h.session.Stats(ctx, "")
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, "9.0", stats.AvgRating)

	h.store.lists["bob"] = []library.Item{{ID: 2, Status: library.StatusCompleted}}
	assert.Equal(t, 1, h.session.Stats(ctx, "bob").Completed)
}

/*
TestSession_Feed verifies the friends view excludes the current user and is ordered.
*/
func TestSession_Feed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.store.users = []string{"default", "alice", "bob"}
	h.store.lists["default"] = []library.Item{{ID: 9, Status: library.StatusReading}}
	h.store.lists["alice"] = []library.Item{
		{ID: 1, Status: library.StatusDropped, UserRating: 10},
		{ID: 2, Status: library.StatusReading, UserRating: 6},
	}
	h.store.lists["bob"] = []library.Item{
		{ID: 3, Status: library.StatusReading, UserRating: 9},
		{ID: 4, Status: library.StatusCompleted, UserRating: 8},
	}

	feed := h.session.Feed(ctx, "")
	var got []int
	for _, entry := range feed {
		got = append(got, entry.ID)
	}
	assert.Equal(t, []int{3, 2, 4, 1}, got)
	assert.Equal(t, "bob", feed[0].Owner)

	reading := h.session.Feed(ctx, library.StatusReading)
	assert.Len(t, reading, 2)
}

/*
TestSession_CloseFlushes verifies Close saves every pending edit.
*/
func TestSession_CloseFlushes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.session.Add(ctx, candidate(1, "Berserk"))
	require.NoError(t, err)
	require.NoError(t, h.session.SetComments(1, "reread"))

	h.session.Close(ctx)

	assert.Equal(t, "reread", h.store.lastSaved().items[0].Comments)
	h.clock.Advance(time.Second)
	assert.Equal(t, 2, h.store.saveCount())
}
