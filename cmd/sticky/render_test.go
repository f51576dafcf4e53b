package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/sticky/pkg/core"
)

func TestRelativeDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"Seconds", 30 * time.Second, "just now"},
		{"One Minute", 90 * time.Second, "1 minute ago"},
		{"Minutes", 45 * time.Minute, "45 minutes ago"},
		{"One Hour", 61 * time.Minute, "1 hour ago"},
		{"Hours", 5*time.Hour + 59*time.Minute, "5 hours ago"},
		{"One Day", 30 * time.Hour, "1 day ago"},
		{"Days", 6 * 24 * time.Hour, "6 days ago"},
		{"Future", -time.Hour, "just now"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relativeDate(now.Add(-tt.ago), now))
		})
	}

	old := now.Add(-8 * 24 * time.Hour)
	assert.Equal(t, old.Local().Format("Jan 2, 2006"), relativeDate(old, now))
	assert.Equal(t, "never", relativeDate(time.Time{}, now))
}

func TestRenderNote(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	done := now.Add(-time.Hour)
	n := core.Note{
		ID:      "n1",
		Title:   "Groceries",
		Content: "buy stuff",
		Color:   core.ColorGreen,
		Todos: []core.Todo{
			{ID: "t1", Text: "eggs", Priority: true},
			{ID: "t2", Text: "milk"},
			{ID: "t3", Text: "bread", Completed: true, CompletedAt: &done},
		},
		UpdatedAt: now.Add(-3 * time.Minute),
	}

	var buf bytes.Buffer
	renderNote(&buf, 1, n, now)

	want := "1. Groceries [green] n1 (2/3 pending)\n" +
		"   buy stuff\n" +
		"   ! [ ] eggs  t1\n" +
		"     [ ] milk  t2\n" +
		"     [x] bread  t3\n" +
		"   Updated 3 minutes ago\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderBoard_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderBoard(&buf, nil, "", time.Now())
	assert.Contains(t, buf.String(), "No notes yet")

	buf.Reset()
	renderBoard(&buf, nil, "zzz", time.Now())
	assert.Contains(t, buf.String(), `No notes match "zzz"`)
}
