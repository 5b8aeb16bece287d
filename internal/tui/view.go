// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/taibuivan/mangatrack/internal/library"
)

// chromeHeight is the number of lines around the active table.
const chromeHeight = 7

// # Rows

func listColumns(width int) []table.Column {
	title := max(width-62, 20)
	return []table.Column{
		{Title: "Title", Width: title},
		{Title: "Status", Width: 10},
		{Title: "Rating", Width: 8},
		{Title: "Chapters", Width: 10},
		{Title: "Comments", Width: 24},
	}
}

func resultColumns(width int) []table.Column {
	title := max(width-40, 20)
	return []table.Column{
		{Title: "Title", Width: title},
		{Title: "Type", Width: 10},
		{Title: "Chapters", Width: 9},
		{Title: "Score", Width: 7},
	}
}

func feedColumns(width int) []table.Column {
	title := max(width-60, 20)
	return []table.Column{
		{Title: "Reader", Width: 14},
		{Title: "Title", Width: title},
		{Title: "Status", Width: 10},
		{Title: "Rating", Width: 8},
		{Title: "Chapters", Width: 10},
	}
}

func userColumns(width int) []table.Column {
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "User", Width: max(width-10, 20)},
	}
}

func chaptersCell(read int, total *int) string {
	if total == nil || *total <= 0 {
		return strconv.Itoa(read) + "/?"
	}
	return strconv.Itoa(read) + "/" + strconv.Itoa(*total)
}

func ratingCell(rating library.Rating) string {
	if rating == 0 {
		return "-"
	}
	return rating.String()
}

func truncate(text string, width int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width-1]) + "…"
}

func (m *Model) refreshList() {
	m.items = m.session.Visible(m.filter)
	rows := make([]table.Row, 0, len(m.items))
	for _, item := range m.items {
		rows = append(rows, table.Row{
			item.Title,
			string(item.Status),
			ratingCell(item.UserRating),
			chaptersCell(item.ChaptersRead, item.TotalChapters),
			truncate(item.Comments, 24),
		})
	}
	m.listTable.SetRows(rows)
	if m.listTable.Cursor() >= len(rows) {
		m.listTable.SetCursor(max(len(rows)-1, 0))
	}
}

func (m *Model) refreshResults() {
	rows := make([]table.Row, 0, len(m.results))
	for _, candidate := range m.results {
		score := "-"
		if candidate.Score != nil {
			score = fmt.Sprintf("%.2f", *candidate.Score)
		}
		chapters := "?"
		if candidate.TotalChapters != nil {
			chapters = strconv.Itoa(*candidate.TotalChapters)
		}
		rows = append(rows, table.Row{candidate.Title, candidate.Type, chapters, score})
	}
	m.resultsTable.SetRows(rows)
	m.resultsTable.SetCursor(0)
}

func (m *Model) refreshFeed() {
	rows := make([]table.Row, 0, len(m.feed))
	for _, entry := range m.feed {
		rows = append(rows, table.Row{
			entry.Owner,
			entry.Title,
			string(entry.Status),
			ratingCell(entry.UserRating),
			chaptersCell(entry.ChaptersRead, entry.TotalChapters),
		})
	}
	m.feedTable.SetRows(rows)
	m.feedTable.SetCursor(0)
}

func (m *Model) refreshUsers() {
	current := m.session.CurrentUser()
	rows := make([]table.Row, 0, len(m.users))
	for _, username := range m.users {
		marker := ""
		if username == current {
			marker = "*"
		}
		rows = append(rows, table.Row{marker, username})
	}
	m.usersTable.SetRows(rows)
}

func (m *Model) resize() {
	height := max(m.height-chromeHeight, 3)
	m.listTable.SetColumns(listColumns(m.width))
	m.resultsTable.SetColumns(resultColumns(m.width))
	m.feedTable.SetColumns(feedColumns(m.width))
	m.usersTable.SetColumns(userColumns(m.width))
	for _, t := range []*table.Model{&m.listTable, &m.resultsTable, &m.feedTable, &m.usersTable} {
		t.SetHeight(height)
		t.SetWidth(m.width)
	}
	m.searchInput.Width = max(m.width-6, 10)
	m.promptInput.Width = max(m.width-40, 10)
	m.help.Width = m.width
}

// # Rendering

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	styles := m.theme.Styles()
	sections := []string{m.renderHeader(styles)}

	switch m.view {
	case ViewList:
		sections = append(sections, m.renderListTitle(styles), m.listTable.View())
	case ViewSearch:
		sections = append(sections, m.searchInput.View(), m.resultsTable.View())
	case ViewFriends:
		sections = append(sections, styles.Title.Render("Friends · "+filterName(m.feedFilter)), m.feedTable.View())
	case ViewUsers:
		sections = append(sections, styles.Title.Render("Users"), m.usersTable.View())
	}

	if m.prompt != promptNone {
		sections = append(sections, styles.Box.Render(m.promptInput.View()))
	}

	sections = append(sections, m.renderStatus(styles), styles.Footer.Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(styles Styles) string {
	connection := styles.SuccessText.Render("online")
	if !m.session.Online() {
		connection = styles.WarningText.Render("offline")
	}
	left := styles.Title.Render("mangatrack") + "  " + styles.Text.Render("user: "+m.session.CurrentUser())
	return styles.Header.Render(left + "  " + connection)
}

func (m Model) renderListTitle(styles Styles) string {
	stats := m.session.Stats(m.ctx, "")
	summary := fmt.Sprintf("%d titles · %d reading · %d completed · %d on hold · %d dropped · avg %s",
		stats.Total, stats.Reading, stats.Completed, stats.OnHold, stats.Dropped, stats.AvgRating)

	title := styles.Title.Render("My list · " + filterName(m.filter))
	if item, ok := m.selectedItem(); ok {
		title += "  " + styles.StatusBadge(item.Status)
	}
	return title + "\n" + styles.MutedText.Render(summary)
}

func (m Model) renderStatus(styles Styles) string {
	switch {
	case m.searching:
		return styles.AccentText.Render("Searching...")
	case m.status == "":
		return ""
	case m.statusErr:
		return styles.DangerText.Render(m.status)
	case strings.HasPrefix(m.status, "!"):
		return styles.WarningText.Render(m.status)
	}
	return styles.MutedText.Render(m.status)
}

func filterName(status library.Status) string {
	if status == "" {
		return "all"
	}
	return string(status)
}
