// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Back       key.Binding
	Confirm    key.Binding

	// View switching
	ViewList    key.Binding
	ViewSearch  key.Binding
	ViewFriends key.Binding
	ViewUsers   key.Binding

	// List actions
	CycleFilter  key.Binding
	CycleStatus  key.Binding
	EditRating   key.Binding
	EditChapters key.Binding
	EditComment  key.Binding
	Increment    key.Binding
	Decrement    key.Binding
	Remove       key.Binding

	// Users actions
	NewUser key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "theme"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),

		ViewList: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "my list"),
		),
		ViewSearch: key.NewBinding(
			key.WithKeys("/", "2"),
			key.WithHelp("/", "search"),
		),
		ViewFriends: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "friends"),
		),
		ViewUsers: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "users"),
		),

		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status"),
		),
		EditRating: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rate"),
		),
		EditChapters: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "chapters"),
		),
		EditComment: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "note"),
		),
		Increment: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+/-", "chapter"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove"),
		),

		NewUser: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "new user"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ViewSearch, k.ViewFriends, k.ViewUsers, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ViewList, k.ViewSearch, k.ViewFriends, k.ViewUsers},
		{k.CycleFilter, k.CycleStatus, k.EditRating, k.EditChapters, k.EditComment, k.Increment, k.Remove},
		{k.NewUser, k.Confirm, k.Back},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
