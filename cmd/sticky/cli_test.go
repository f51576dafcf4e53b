package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes one CLI invocation and returns what it printed.
func run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(args...)
	require.NoError(t, err, out)
	return out
}

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags(rootCmd)
		rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}()

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	at := func(args ...string) []string { return append(args, "--store", dir) }

	out := run(t, at("add", "Groceries", "weekly run", "--todo", "milk", "--todo", "eggs", "--color", "pink")...)
	require.True(t, strings.HasPrefix(out, "Note added: "), out)
	id := strings.TrimSpace(strings.TrimPrefix(out, "Note added: "))

	out = run(t, at("todo", "done", id, "1")...)
	assert.Contains(t, out, "Todo toggled: ")

	var records []struct {
		ID    string `json:"id"`
		Color string `json:"color"`
		Todos []struct {
			Text      string `json:"text"`
			Completed bool   `json:"completed"`
		} `json:"todos"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, at("list", "--json")...)), &records))
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].ID)
	assert.Equal(t, "pink", records[0].Color)
	require.Len(t, records[0].Todos, 2)
	// Completed items sort after pending ones.
	assert.Equal(t, "eggs", records[0].Todos[0].Text)
	assert.False(t, records[0].Todos[0].Completed)
	assert.Equal(t, "milk", records[0].Todos[1].Text)
	assert.True(t, records[0].Todos[1].Completed)

	backup := filepath.Join(t.TempDir(), "board.yaml")
	assert.Contains(t, run(t, at("export", backup)...), "Exported 1 notes to")

	assert.Contains(t, run(t, at("delete", id)...), "Note deleted: "+id)
	assert.Contains(t, run(t, at("list")...), "No notes yet.")

	assert.Contains(t, run(t, at("import", backup)...), "Imported 1 notes.")
	out = run(t, at("list")...)
	assert.Contains(t, out, "1. Groceries [pink] "+id)
	assert.Contains(t, out, "[x] milk")
	assert.Contains(t, out, "(1/2 pending)")

	assert.Contains(t, run(t, at("import", backup, "--merge")...), "Merged 0 of 1 notes.")
	assert.Contains(t, run(t, at("list", "-q", "nothing-like-this")...), `No notes match "nothing-like-this".`)
}

func TestCLI_AddTrimsAndRejectsBlankFields(t *testing.T) {
	dir := t.TempDir()
	at := func(args ...string) []string { return append(args, "--store", dir) }

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"blank title", []string{"add", "   ", "content"}, "title must not be empty"},
		{"blank content", []string{"add", "Title", " \t "}, "content must not be empty"},
		{"missing content", []string{"add", "Title"}, "accepts 2 arg(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(at(tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	out := run(t, at("add", "  Padded  ", "  body  ")...)
	id := strings.TrimSpace(strings.TrimPrefix(out, "Note added: "))

	var records []struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, at("list", "--json")...)), &records))
	require.Len(t, records, 1, "rejected adds must not store anything")
	assert.Equal(t, id, records[0].ID)
	assert.Equal(t, "Padded", records[0].Title)
	assert.Equal(t, "body", records[0].Content)

	_, err := execute(at("edit", id, "--title", "  ")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title must not be empty")

	run(t, at("edit", id, "--content", "  new body ")...)
	require.NoError(t, json.Unmarshal([]byte(run(t, at("list", "--json")...)), &records))
	assert.Equal(t, "new body", records[0].Content)
}

func TestCLI_Version(t *testing.T) {
	assert.Regexp(t, `^sticky version \S+\n$`, run(t, "version"))
}
