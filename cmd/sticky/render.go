package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aretw0/sticky/pkg/core"
)

var relMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "just now", DivBy: 1},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: humanize.Day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "1 day %s", DivBy: 1},
	{D: humanize.Week, Format: "%d days %s", DivBy: humanize.Day},
}

// relativeDate renders t relative to now; a week or more shows the date.
func relativeDate(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if now.Sub(t) >= humanize.Week {
		return t.Local().Format("Jan 2, 2006")
	}
	if t.After(now) {
		// Clock skew between writers.
		return "just now"
	}
	return humanize.CustomRelTime(t, now, "ago", "from now", relMagnitudes)
}

func renderNote(w io.Writer, position int, n core.Note, now time.Time) {
	title := n.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(w, "%d. %s [%s] %s", position, title, n.Color, n.ID)
	if len(n.Todos) > 0 {
		fmt.Fprintf(w, " (%d/%d pending)", n.Pending(), len(n.Todos))
	}
	fmt.Fprintln(w)

	for _, line := range strings.Split(strings.TrimRight(n.Content, "\n"), "\n") {
		if line != "" {
			fmt.Fprintf(w, "   %s\n", line)
		}
	}
	for _, t := range n.Todos {
		box, flag := "[ ]", " "
		if t.Completed {
			box = "[x]"
		}
		if t.Priority {
			flag = "!"
		}
		fmt.Fprintf(w, "   %s %s %s  %s\n", flag, box, t.Text, t.ID)
	}
	fmt.Fprintf(w, "   Updated %s\n", relativeDate(n.UpdatedAt, now))
}

func renderBoard(w io.Writer, notes []core.Note, query string, now time.Time) {
	if len(notes) == 0 {
		if query != "" {
			fmt.Fprintf(w, "No notes match %q.\n", query)
		} else {
			fmt.Fprintln(w, "No notes yet. Add one with `sticky add`.")
		}
		return
	}
	for i, n := range notes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderNote(w, i+1, n, now)
	}
}
