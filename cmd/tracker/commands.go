// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taibuivan/mangatrack/internal/client/persist"
	"github.com/taibuivan/mangatrack/internal/client/remote"
	"github.com/taibuivan/mangatrack/internal/library"
	"github.com/taibuivan/mangatrack/internal/tui"
)

type command struct {
	usage   string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"users":       {usage: "users", summary: "list every known user", run: runUsers},
	"create-user": {usage: "create-user <name>", summary: "register a user", run: runCreateUser},
	"use":         {usage: "use <name>", summary: "switch the current user", run: runUse},
	"whoami":      {usage: "whoami", summary: "show the current user and server state", run: runWhoami},
	"list":        {usage: "list [-status s]", summary: "show your list, highest rated first", run: runList},
	"search":      {usage: "search <query>", summary: "search the catalog", run: runSearch},
	"add":         {usage: "add <mal_id>", summary: "add a catalog entry to your list", run: runAdd},
	"rate":        {usage: "rate <mal_id> <rating>", summary: "rate a title (0-10, above 10 is PEAK)", run: runRate},
	"chapters":    {usage: "chapters <mal_id> <n>", summary: "set chapters read", run: runChapters},
	"status":      {usage: "status <mal_id> <status>", summary: "set reading status", run: runStatus},
	"comment":     {usage: "comment <mal_id> <text>", summary: "replace the comment of a title", run: runComment},
	"remove":      {usage: "remove <mal_id>", summary: "remove a title from your list", run: runRemove},
	"stats":       {usage: "stats [user]", summary: "show list statistics", run: runStats},
	"friends":     {usage: "friends [-status s]", summary: "show what everyone else is reading", run: runFriends},
	"tui":         {usage: "tui", summary: "open the interactive interface", run: runTUI},
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: tracker [-config path] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", commands[name].usage, commands[name].summary)
	}
	_ = tw.Flush()
}

// # Users

func runUsers(ctx context.Context, a *app, args []string) error {
	if len(args) != 0 {
		return usagef("unexpected arguments")
	}
	current := a.session.CurrentUser()
	for _, username := range a.session.Users(ctx) {
		marker := " "
		if username == current {
			marker = "*"
		}
		fmt.Fprintf(a.stdout, "%s %s\n", marker, username)
	}
	return nil
}

func runCreateUser(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return usagef("expected one username")
	}
	username, result, err := a.session.CreateUser(ctx, args[0])
	if err != nil {
		return err
	}

	switch result {
	case persist.CreateExists:
		return fmt.Errorf("username %q already exists", username)
	case persist.CreateLocalOnly:
		fmt.Fprintf(a.stdout, "created %q on this device only (server unreachable)\n", username)
	default:
		fmt.Fprintf(a.stdout, "created %q\n", username)
	}
	return nil
}

func runUse(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return usagef("expected one username")
	}
	username, err := a.session.SwitchUser(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "now tracking as %q\n", username)
	return nil
}

func runWhoami(ctx context.Context, a *app, args []string) error {
	if len(args) != 0 {
		return usagef("unexpected arguments")
	}
	state := "online"
	if err := a.remote.Health(ctx); err != nil {
		state = "offline, using the device cache"
		if !remote.IsKind(err, remote.KindNetwork) {
			state = "server unhealthy, using the device cache"
		}
	}
	fmt.Fprintf(a.stdout, "%s (%s, %s)\n", a.session.CurrentUser(), a.cfg.APIURL, state)
	return nil
}

// # Lists

func statusFlag(name string, args []string) (library.Status, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	raw := flags.String("status", "", "reading, completed, on hold or dropped")
	if err := flags.Parse(args); err != nil {
		return "", usagef("%v", err)
	}
	if flags.NArg() != 0 {
		return "", usagef("unexpected arguments")
	}
	if *raw == "" {
		return "", nil
	}
	status, ok := library.ParseStatus(*raw)
	if !ok {
		return "", usagef("unknown status %q", *raw)
	}
	return status, nil
}

func runList(_ context.Context, a *app, args []string) error {
	filter, err := statusFlag("list", args)
	if err != nil {
		return err
	}

	items := a.session.Visible(filter)
	if len(items) == 0 {
		fmt.Fprintln(a.stdout, "nothing tracked yet; try: tracker search <title>")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tRATING\tCHAPTERS\tCOMMENTS")
	for _, item := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.Title, item.Status, ratingText(item.UserRating),
			chaptersText(item.ChaptersRead, item.TotalChapters), oneLine(item.Comments, 40))
	}
	return tw.Flush()
}

func runSearch(ctx context.Context, a *app, args []string) error {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		return usagef("expected a query")
	}

	results, err := a.catalog.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(a.stdout, "no results with an English title")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tCHAPTERS\tSCORE")
	for _, candidate := range results {
		score := "-"
		if candidate.Score != nil {
			score = strconv.FormatFloat(*candidate.Score, 'f', 2, 64)
		}
		chapters := "?"
		if candidate.TotalChapters != nil {
			chapters = strconv.Itoa(*candidate.TotalChapters)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", candidate.ID, candidate.Title, candidate.Type, chapters, score)
	}
	return tw.Flush()
}

func runAdd(ctx context.Context, a *app, args []string) error {
	id, err := idArg(args, 1, 1)
	if err != nil {
		return err
	}
	candidate, err := a.catalog.Get(ctx, id)
	if err != nil {
		return err
	}
	saved, err := a.session.Add(ctx, candidate)
	if err != nil {
		return err
	}
	report(a.stdout, "added "+candidate.Title, saved)
	return nil
}

func runRemove(ctx context.Context, a *app, args []string) error {
	id, err := idArg(args, 1, 1)
	if err != nil {
		return err
	}
	saved, err := a.session.Remove(ctx, id)
	if err != nil {
		return err
	}
	report(a.stdout, "removed "+strconv.Itoa(id), saved)
	return nil
}

func runStatus(ctx context.Context, a *app, args []string) error {
	id, err := idArg(args, 2, -1)
	if err != nil {
		return err
	}
	status, ok := library.ParseStatus(strings.Join(args[1:], " "))
	if !ok {
		return usagef("unknown status %q", strings.Join(args[1:], " "))
	}
	saved, err := a.session.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	report(a.stdout, "status set to "+string(status), saved)
	return nil
}

// # Typed Edits

func runRate(ctx context.Context, a *app, args []string) error {
	id, err := idArg(args, 2, 2)
	if err != nil {
		return err
	}
	rating, err := a.session.SetRating(id, args[1])
	if err != nil {
		return err
	}
	return settle(ctx, a, "rated "+rating.String())
}

func runChapters(ctx context.Context, a *app, args []string) error {
	id, err := idArg(args, 2, 2)
	if err != nil {
		return err
	}
	chapters, err := strconv.Atoi(args[1])
	if err != nil {
		return usagef("chapters must be a whole number")
	}
	if err := a.session.SetChapters(id, chapters); err != nil {
		return err
	}
	return settle(ctx, a, "chapters read set to "+strconv.Itoa(chapters))
}

func runComment(ctx context.Context, a *app, args []string) error {
	id, err := idArg(args, 1, -1)
	if err != nil {
		return err
	}
	if err := a.session.SetComments(id, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	return settle(ctx, a, "comment saved")
}

// settle flushes the debounced save of a one-shot edit and reports it. The
// flush outlives an interrupt so the edit still reaches the device cache.
func settle(ctx context.Context, a *app, text string) error {
	a.session.Close(context.WithoutCancel(ctx))
	report(a.stdout, text, a.session.LastSave())
	return nil
}

// # Views

func runStats(ctx context.Context, a *app, args []string) error {
	if len(args) > 1 {
		return usagef("expected at most one username")
	}
	username := ""
	if len(args) == 1 {
		username = library.NormalizeUsername(args[0])
	}
	stats := a.session.Stats(ctx, username)
	if username == "" {
		username = a.session.CurrentUser()
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "user\t%s\n", username)
	fmt.Fprintf(tw, "total\t%d\n", stats.Total)
	fmt.Fprintf(tw, "reading\t%d\n", stats.Reading)
	fmt.Fprintf(tw, "completed\t%d\n", stats.Completed)
	fmt.Fprintf(tw, "on hold\t%d\n", stats.OnHold)
	fmt.Fprintf(tw, "dropped\t%d\n", stats.Dropped)
	fmt.Fprintf(tw, "average rating\t%s\n", stats.AvgRating)
	return tw.Flush()
}

func runFriends(ctx context.Context, a *app, args []string) error {
	filter, err := statusFlag("friends", args)
	if err != nil {
		return err
	}

	feed := a.session.Feed(ctx, filter)
	if len(feed) == 0 {
		fmt.Fprintln(a.stdout, "no other readers yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "READER\tTITLE\tSTATUS\tRATING\tCHAPTERS")
	for _, entry := range feed {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", entry.Owner, entry.Title, entry.Status,
			ratingText(entry.UserRating), chaptersText(entry.ChaptersRead, entry.TotalChapters))
	}
	return tw.Flush()
}

func runTUI(ctx context.Context, a *app, args []string) error {
	if len(args) != 0 {
		return usagef("unexpected arguments")
	}
	model := tui.New(tui.Options{
		Context:   ctx,
		Session:   a.session,
		Catalog:   a.catalog,
		ThemeName: a.cfg.Theme,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithInput(a.stdin))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// # Helpers

// idArg checks the argument count and parses args[0] as a catalog id.
// A negative max means any number of trailing arguments.
func idArg(args []string, minArgs, maxArgs int) (int, error) {
	if len(args) < minArgs || (maxArgs >= 0 && len(args) > maxArgs) {
		return 0, usagef("wrong number of arguments")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, usagef("invalid id %q", args[0])
	}
	return id, nil
}

func report(w io.Writer, text string, saved persist.SaveResult) {
	if saved.RemoteSynced {
		fmt.Fprintln(w, text)
		return
	}
	fmt.Fprintf(w, "%s (saved on this device only; the server was unreachable)\n", text)
}

func ratingText(rating library.Rating) string {
	if rating == 0 {
		return "-"
	}
	return rating.String()
}

func chaptersText(read int, total *int) string {
	if total == nil || *total <= 0 {
		return strconv.Itoa(read) + "/?"
	}
	return strconv.Itoa(read) + "/" + strconv.Itoa(*total)
}

func oneLine(text string, width int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width-1]) + "…"
}
