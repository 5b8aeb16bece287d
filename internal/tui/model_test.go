// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tui

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangatrack/internal/client/cache"
	"github.com/taibuivan/mangatrack/internal/client/debounce"
	"github.com/taibuivan/mangatrack/internal/client/persist"
	"github.com/taibuivan/mangatrack/internal/client/remote"
	"github.com/taibuivan/mangatrack/internal/client/tracker"
	"github.com/taibuivan/mangatrack/internal/library"
)

// offlineRemote fails every call like an unreachable server.
type offlineRemote struct{}

var errOffline = &remote.Error{Kind: remote.KindNetwork, Message: "connection refused"}

func (offlineRemote) FetchList(context.Context, string) ([]library.Item, error) {
	return nil, errOffline
}

func (offlineRemote) SaveList(context.Context, string, []library.Item) error {
	return errOffline
}

func (offlineRemote) ListUsers(context.Context) ([]string, error) {
	return nil, errOffline
}

func (offlineRemote) CreateUser(context.Context, string) (string, error) {
	return "", errOffline
}

func (offlineRemote) FetchStats(context.Context, string) (library.Stats, error) {
	return library.Stats{}, errOffline
}

type unreachable struct{}

func (unreachable) Reachable() bool { return false }

type fakeCatalog struct {
	results []library.Candidate
	queries []string
}

func (f *fakeCatalog) Search(_ context.Context, query string) ([]library.Candidate, error) {
	f.queries = append(f.queries, query)
	return f.results, nil
}

type fixture struct {
	model   Model
	session *tracker.Session
	local   *cache.Cache
	catalog *fakeCatalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	local := cache.New(cache.NewMemoryStore(), logger)
	facade := persist.New(offlineRemote{}, local, unreachable{}, logger)
	session := tracker.Open(context.Background(), facade, local,
		debounce.New(debounce.SystemClock{}, time.Hour), logger)

	catalog := &fakeCatalog{results: []library.Candidate{
		{ID: 2, Title: "Berserk", Type: "Manga"},
		{ID: 4, Title: "Yotsuba&!", Type: "Manga"},
	}}

	model := New(Options{Session: session, Catalog: catalog})
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &fixture{model: updated.(Model), session: session, local: local, catalog: catalog}
}

// send feeds msg to the model and returns the resulting command.
func (f *fixture) send(msg tea.Msg) tea.Cmd {
	updated, cmd := f.model.Update(msg)
	f.model = updated.(Model)
	return cmd
}

func (f *fixture) typeText(text string) {
	for _, r := range text {
		f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// run executes cmd and feeds its message back, as the runtime would.
func (f *fixture) run(t *testing.T, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	return f.send(cmd())
}

func (f *fixture) addFromSearch(t *testing.T, query string) {
	t.Helper()
	f.typeText("/")
	f.typeText(query)
	f.run(t, f.send(tea.KeyMsg{Type: tea.KeyEnter}))
	f.run(t, f.send(tea.KeyMsg{Type: tea.KeyEnter}))
	f.send(tea.KeyMsg{Type: tea.KeyEsc})
}

/*
TestModel_SearchAndAddOffline verifies adding from search while the server is down.
*/
func TestModel_SearchAndAddOffline(t *testing.T) {
	f := newFixture(t)

	f.addFromSearch(t, "berserk")

	assert.Equal(t, []string{"berserk"}, f.catalog.queries)
	require.Len(t, f.session.Items(), 1)
	assert.Equal(t, "Berserk", f.session.Items()[0].Title)
	assert.Contains(t, f.model.status, "this device only")
	assert.Len(t, f.local.List(context.Background(), "default"), 1)

	view := f.model.View()
	assert.Contains(t, view, "offline")
	assert.Contains(t, view, "Berserk")
}

/*
TestModel_RatingPromptAndQuitFlush verifies typed edits and the flush on quit.
*/
func TestModel_RatingPromptAndQuitFlush(t *testing.T) {
	f := newFixture(t)
	f.addFromSearch(t, "berserk")
	ctx := context.Background()

	// 1. Edit the rating through the prompt
	f.typeText("r")
	require.Equal(t, promptRating, f.model.prompt)
	f.typeText("10.7")
	f.send(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, promptNone, f.model.prompt)
	assert.Equal(t, "Rating: PEAK", f.model.status)
	assert.Equal(t, library.Rating(10.7), f.session.Items()[0].UserRating)

	// 2. The debounced save has not run yet
	assert.Equal(t, library.Rating(0), f.local.List(ctx, "default")[0].UserRating)

	// 3. Quitting flushes it
	cmd := f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, library.Rating(10.7), f.local.List(ctx, "default")[0].UserRating)
}

/*
TestModel_InvalidEditsReportErrors verifies user-visible messages for bad input.
*/
func TestModel_InvalidEditsReportErrors(t *testing.T) {
	f := newFixture(t)
	f.addFromSearch(t, "berserk")

	tests := []struct {
		name  string
		key   string
		input string
		want  string
	}{
		{name: "Rating", key: "r", input: "great", want: library.ErrInvalidRating.Error()},
		{name: "Chapters", key: "c", input: "lots", want: "Chapters must be a whole number"},
		{name: "NegativeChapters", key: "c", input: "-3", want: library.ErrInvalidPatch.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.typeText(tt.key)
			f.model.promptInput.SetValue(tt.input)
			f.send(tea.KeyMsg{Type: tea.KeyEnter})

			assert.True(t, f.model.statusErr)
			assert.Equal(t, tt.want, f.model.status)
		})
	}
}

/*
TestModel_CreateUserOffline verifies the local-only creation message.
*/
func TestModel_CreateUserOffline(t *testing.T) {
	f := newFixture(t)

	f.run(t, f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("4")}))

	f.typeText("a")
	require.Equal(t, promptNewUser, f.model.prompt)
	f.typeText("Alice")
	reload := f.run(t, f.send(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.True(t, strings.HasPrefix(f.model.status, "! Created \"alice\""))

	require.NotNil(t, reload)
	f.run(t, reload)
	assert.Contains(t, f.model.users, "alice")
}

/*
TestModel_ChapterShortcuts verifies increment and decrement on the selected item.
*/
func TestModel_ChapterShortcuts(t *testing.T) {
	f := newFixture(t)
	f.addFromSearch(t, "berserk")

	f.typeText("++-+")
	assert.Equal(t, 2, f.session.Items()[0].ChaptersRead)
	assert.Equal(t, "Chapters read: 2", f.model.status)
}

/*
TestNextFilter verifies the filter cycle.
*/
func TestNextFilter(t *testing.T) {
	var got []library.Status
	current := library.Status("")
	for range 5 {
		current = nextFilter(current)
		got = append(got, current)
	}
	assert.Equal(t, []library.Status{
		library.StatusReading, library.StatusCompleted, library.StatusOnHold, library.StatusDropped, "",
	}, got)
}

/*
TestNextTheme verifies the theme cycle and fallback.
*/
func TestNextTheme(t *testing.T) {
	assert.Equal(t, "dracula", NextTheme("default"))
	assert.Equal(t, "default", NextTheme("dracula"))
	assert.Equal(t, "default", NextTheme("unknown"))
	assert.Equal(t, "default", GetTheme("unknown").Name)
}
