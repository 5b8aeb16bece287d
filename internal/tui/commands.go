// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taibuivan/mangatrack/internal/client/persist"
	"github.com/taibuivan/mangatrack/internal/library"
)

// # Messages

type searchResultMsg struct {
	query   string
	results []library.Candidate
	err     error
}

type feedMsg []library.FeedEntry

type usersMsg []string

// actionMsg reports a finished session command.
type actionMsg struct {
	text        string
	err         error
	saved       *persist.SaveResult
	switched    bool
	reloadUsers bool
}

// # Commands

func (m Model) searchCmd(query string) tea.Cmd {
	catalog, ctx := m.catalog, m.ctx
	return func() tea.Msg {
		results, err := catalog.Search(ctx, query)
		return searchResultMsg{query: query, results: results, err: err}
	}
}

func (m Model) addCmd(candidate library.Candidate) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		saved, err := session.Add(ctx, candidate)
		return actionMsg{text: "Added " + candidate.Title, err: err, saved: &saved}
	}
}

func (m Model) removeCmd(id int, title string) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		saved, err := session.Remove(ctx, id)
		return actionMsg{text: "Removed " + title, err: err, saved: &saved}
	}
}

func (m Model) statusCmd(id int, status library.Status) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		saved, err := session.SetStatus(ctx, id, status)
		return actionMsg{text: "Status: " + string(status), err: err, saved: &saved}
	}
}

func (m Model) feedCmd(filter library.Status) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		return feedMsg(session.Feed(ctx, filter))
	}
}

func (m Model) usersCmd() tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		return usersMsg(session.Users(ctx))
	}
}

func (m Model) switchCmd(raw string) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		username, err := session.SwitchUser(ctx, raw)
		return actionMsg{text: "Switched to " + username, err: err, switched: err == nil}
	}
}

func (m Model) createUserCmd(raw string) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		username, result, err := session.CreateUser(ctx, raw)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: createText(username, result), reloadUsers: true}
	}
}

func createText(username string, result persist.CreateResult) string {
	switch result {
	case persist.CreateExists:
		return fmt.Sprintf("User %q already exists", username)
	case persist.CreateLocalOnly:
		return fmt.Sprintf("! Created %q on this device only (server unreachable)", username)
	}
	return fmt.Sprintf("Created %q", username)
}
