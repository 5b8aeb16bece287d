// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tui provides the interactive Bubble Tea interface of the tracker.

It has four views: the current user's list, catalog search, the friends feed
and the user switcher. Every change goes through a tracker session; typed
edits are saved by the session after a quiet period and flushed on quit.
*/
package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taibuivan/mangatrack/internal/client/persist"
	"github.com/taibuivan/mangatrack/internal/library"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewSearch
	ViewFriends
	ViewUsers
)

// promptKind selects what the edit prompt changes.
type promptKind int

const (
	promptNone promptKind = iota
	promptRating
	promptChapters
	promptComment
	promptNewUser
)

// Session is the tracker session the UI drives.
type Session interface {
	CurrentUser() string
	Visible(filter library.Status) []library.Item
	Online() bool
	Users(ctx context.Context) []string
	SwitchUser(ctx context.Context, raw string) (string, error)
	CreateUser(ctx context.Context, raw string) (string, persist.CreateResult, error)
	Add(ctx context.Context, candidate library.Candidate) (persist.SaveResult, error)
	Remove(ctx context.Context, id int) (persist.SaveResult, error)
	SetStatus(ctx context.Context, id int, status library.Status) (persist.SaveResult, error)
	SetRating(id int, raw string) (library.Rating, error)
	SetChapters(id, chapters int) error
	SetComments(id int, text string) error
	Stats(ctx context.Context, username string) library.Stats
	Feed(ctx context.Context, filter library.Status) []library.FeedEntry
	Close(ctx context.Context)
}

// Catalog searches the manga catalog.
type Catalog interface {
	Search(ctx context.Context, query string) ([]library.Candidate, error)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Session   Session
	Catalog   Catalog
	ThemeName string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx     context.Context
	session Session
	catalog Catalog
	keys    keyMap

	// UI state
	theme  Theme
	help   help.Model
	view   View
	width  int
	height int

	// List state
	filter    library.Status
	items     []library.Item
	listTable table.Model

	// Search state
	searchInput  textinput.Model
	results      []library.Candidate
	resultsTable table.Model
	searching    bool

	// Friends state
	feedFilter library.Status
	feed       []library.FeedEntry
	feedTable  table.Model

	// Users state
	users      []string
	usersTable table.Model

	// Edit prompt
	prompt       promptKind
	promptTarget int
	promptInput  textinput.Model

	// Status line
	status    string
	statusErr bool
	quitting  bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	theme := GetTheme(opts.ThemeName)

	searchInput := textinput.New()
	searchInput.Placeholder = "Search manga (English titles)"
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 100

	promptInput := textinput.New()
	promptInput.CharLimit = 500

	m := Model{
		ctx:          ctx,
		session:      opts.Session,
		catalog:      opts.Catalog,
		keys:         defaultKeyMap(),
		theme:        theme,
		help:         help.New(),
		view:         ViewList,
		listTable:    newTable(theme, listColumns(80)),
		resultsTable: newTable(theme, resultColumns(80)),
		feedTable:    newTable(theme, feedColumns(80)),
		usersTable:   newTable(theme, userColumns(80)),
		searchInput:  searchInput,
		promptInput:  promptInput,
	}
	m.refreshList()
	return m
}

func newTable(theme Theme, columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(theme.Table())
	return t
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case searchResultMsg:
		m.searching = false
		if msg.err != nil {
			m.setError("Search failed: " + msg.err.Error())
			return m, nil
		}
		m.results = msg.results
		m.refreshResults()
		m.setInfo(strconv.Itoa(len(msg.results)) + " results for \"" + msg.query + "\"")
		return m, nil

	case feedMsg:
		m.feed = msg
		m.refreshFeed()
		return m, nil

	case usersMsg:
		m.users = msg
		m.refreshUsers()
		return m, nil

	case actionMsg:
		return m.handleAction(msg)
	}

	return m, nil
}

// # Key Handling

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	if m.view == ViewSearch && m.searchInput.Focused() {
		return m.handleSearchInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.setTheme(GetTheme(NextTheme(m.theme.Name)))
		return m, nil

	case key.Matches(msg, m.keys.ViewList), key.Matches(msg, m.keys.Back):
		m.view = ViewList
		m.refreshList()
		return m, nil

	case key.Matches(msg, m.keys.ViewSearch):
		m.view = ViewSearch
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.ViewFriends):
		m.view = ViewFriends
		return m, m.feedCmd(m.feedFilter)

	case key.Matches(msg, m.keys.ViewUsers):
		m.view = ViewUsers
		return m, m.usersCmd()
	}

	switch m.view {
	case ViewList:
		return m.handleListKey(msg)
	case ViewSearch:
		return m.handleResultsKey(msg)
	case ViewFriends:
		return m.handleFriendsKey(msg)
	case ViewUsers:
		return m.handleUsersKey(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.CycleFilter) {
		m.filter = nextFilter(m.filter)
		m.refreshList()
		return m, nil
	}

	item, ok := m.selectedItem()
	if !ok {
		var cmd tea.Cmd
		m.listTable, cmd = m.listTable.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.CycleStatus):
		return m, m.statusCmd(item.ID, item.Status.Next())

	case key.Matches(msg, m.keys.EditRating):
		value := ""
		if item.UserRating > 0 {
			value = strconv.FormatFloat(float64(item.UserRating), 'f', -1, 64)
		}
		cmd := m.openPrompt(promptRating, item.ID, value)
		return m, cmd

	case key.Matches(msg, m.keys.EditChapters):
		cmd := m.openPrompt(promptChapters, item.ID, strconv.Itoa(item.ChaptersRead))
		return m, cmd

	case key.Matches(msg, m.keys.EditComment):
		cmd := m.openPrompt(promptComment, item.ID, item.Comments)
		return m, cmd

	case key.Matches(msg, m.keys.Increment):
		m.applyEdit(m.session.SetChapters(item.ID, item.ChaptersRead+1), "Chapters read: "+strconv.Itoa(item.ChaptersRead+1))
		return m, nil

	case key.Matches(msg, m.keys.Decrement):
		if item.ChaptersRead > 0 {
			m.applyEdit(m.session.SetChapters(item.ID, item.ChaptersRead-1), "Chapters read: "+strconv.Itoa(item.ChaptersRead-1))
		}
		return m, nil

	case key.Matches(msg, m.keys.Remove):
		return m, m.removeCmd(item.ID, item.Title)
	}

	var cmd tea.Cmd
	m.listTable, cmd = m.listTable.Update(msg)
	return m, cmd
}

func (m Model) handleSearchInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchInput.Blur()
		m.view = ViewList
		m.refreshList()
		return m, nil

	case tea.KeyEnter:
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			return m, nil
		}
		m.searchInput.Blur()
		m.searching = true
		m.setInfo("Searching...")
		return m, m.searchCmd(query)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Confirm) {
		cursor := m.resultsTable.Cursor()
		if cursor >= 0 && cursor < len(m.results) {
			return m, m.addCmd(m.results[cursor])
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.resultsTable, cmd = m.resultsTable.Update(msg)
	return m, cmd
}

func (m Model) handleFriendsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.CycleFilter) {
		m.feedFilter = nextFilter(m.feedFilter)
		return m, m.feedCmd(m.feedFilter)
	}

	var cmd tea.Cmd
	m.feedTable, cmd = m.feedTable.Update(msg)
	return m, cmd
}

func (m Model) handleUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		cursor := m.usersTable.Cursor()
		if cursor >= 0 && cursor < len(m.users) {
			return m, m.switchCmd(m.users[cursor])
		}
		return m, nil

	case key.Matches(msg, m.keys.NewUser):
		cmd := m.openPrompt(promptNewUser, 0, "")
		return m, cmd
	}

	var cmd tea.Cmd
	m.usersTable, cmd = m.usersTable.Update(msg)
	return m, cmd
}

// # Edit Prompt

func (m *Model) openPrompt(kind promptKind, target int, value string) tea.Cmd {
	m.prompt = kind
	m.promptTarget = target
	m.promptInput.Prompt = promptLabel(kind)
	m.promptInput.SetValue(value)
	m.promptInput.CursorEnd()
	return m.promptInput.Focus()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		return m.submitPrompt()
	}

	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m Model) submitPrompt() (tea.Model, tea.Cmd) {
	kind, target, value := m.prompt, m.promptTarget, m.promptInput.Value()
	m.closePrompt()

	switch kind {
	case promptRating:
		rating, err := m.session.SetRating(target, value)
		m.applyEdit(err, "Rating: "+rating.String())

	case promptChapters:
		chapters, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			m.setError("Chapters must be a whole number")
			return m, nil
		}
		m.applyEdit(m.session.SetChapters(target, chapters), "Chapters read: "+strconv.Itoa(chapters))

	case promptComment:
		m.applyEdit(m.session.SetComments(target, value), "Comment saved")

	case promptNewUser:
		return m, m.createUserCmd(value)
	}
	return m, nil
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.promptInput.Blur()
	m.promptInput.SetValue("")
}

func promptLabel(kind promptKind) string {
	switch kind {
	case promptRating:
		return "Rating (0-10, above 10 is PEAK): "
	case promptChapters:
		return "Chapters read: "
	case promptComment:
		return "Comment: "
	case promptNewUser:
		return "New username: "
	}
	return "> "
}

// # State Helpers

// applyEdit reports the outcome of a typed edit and refreshes the list.
func (m *Model) applyEdit(err error, success string) {
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.setInfo(success)
	m.refreshList()
}

func (m Model) handleAction(msg actionMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err != nil:
		m.setError(msg.err.Error())
	case msg.saved != nil && !msg.saved.RemoteSynced:
		m.setWarning(msg.text + " (saved on this device only)")
	default:
		m.setInfo(msg.text)
	}

	m.refreshList()
	if msg.switched {
		m.view = ViewList
	}
	if msg.reloadUsers {
		return m, m.usersCmd()
	}
	return m, nil
}

func (m *Model) setInfo(text string) {
	m.status, m.statusErr = text, false
}

func (m *Model) setWarning(text string) {
	m.status, m.statusErr = "! "+text, false
}

func (m *Model) setError(text string) {
	m.status, m.statusErr = text, true
}

func (m *Model) setTheme(theme Theme) {
	m.theme = theme
	for _, t := range []*table.Model{&m.listTable, &m.resultsTable, &m.feedTable, &m.usersTable} {
		t.SetStyles(theme.Table())
	}
}

func (m Model) selectedItem() (library.Item, bool) {
	cursor := m.listTable.Cursor()
	if cursor < 0 || cursor >= len(m.items) {
		return library.Item{}, false
	}
	return m.items[cursor], true
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	session, ctx := m.session, m.ctx
	return m, func() tea.Msg {
		session.Close(ctx)
		return tea.Quit()
	}
}

var filterCycle = append([]library.Status{""}, library.Statuses...)

// nextFilter cycles all, reading, completed, on hold, dropped.
func nextFilter(current library.Status) library.Status {
	for i, status := range filterCycle {
		if status == current {
			return filterCycle[(i+1)%len(filterCycle)]
		}
	}
	return ""
}
