package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aretw0/sticky"
	"github.com/aretw0/sticky/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	todos := flag.Int("todos", 5, "Checklist items per note")
	keep := flag.Bool("keep", false, "Keep the benchmark directory after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "sticky_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	board := generate(*count, *todos)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	targets := []struct {
		adapter string
		uri     string
	}{
		{"memory", ""},
		{"fs", filepath.Join(benchDir, "fs")},
		{"sqlite", filepath.Join(benchDir, "sticky.db")},
	}

	fmt.Printf("Board: %d notes, %d todos each\n", *count, *todos)
	fmt.Printf("--------------------------------------------------\n")
	for _, target := range targets {
		save, load, size, err := run(target.adapter, target.uri, board, logger)
		if err != nil {
			fmt.Printf("%-8s failed: %v\n", target.adapter, err)
			continue
		}
		fmt.Printf("%-8s save: %-12v load: %-12v payload: %s\n", target.adapter, save, load, humanize.Bytes(uint64(size)))
	}
	fmt.Printf("--------------------------------------------------\n")
}

// run writes the board once through a session and reads it back through a
// fresh one, the way a CLI invocation would.
func run(adapter, uri string, board []core.Note, logger *slog.Logger) (save, load time.Duration, size int, err error) {
	ctx := context.Background()
	storage, err := sticky.Init(ctx, uri, sticky.WithAdapter(adapter), sticky.WithLogger(logger), sticky.WithDevSafety(false))
	if err != nil {
		return 0, 0, 0, err
	}
	opts := []sticky.Option{sticky.WithStorage(storage), sticky.WithLogger(logger)}

	writer, err := sticky.Open(ctx, uri, opts...)
	if err != nil {
		return 0, 0, 0, err
	}
	start := time.Now()
	if err := writer.Gateway().Save(ctx, board); err != nil {
		return 0, 0, 0, err
	}
	save = time.Since(start)

	start = time.Now()
	reader, err := sticky.Open(ctx, uri, opts...)
	if err != nil {
		return 0, 0, 0, err
	}
	load = time.Since(start)
	if reader.Notes().Len() != len(board) {
		return 0, 0, 0, fmt.Errorf("loaded %d notes, want %d", reader.Notes().Len(), len(board))
	}

	data, err := storage.Get(ctx, reader.Gateway().Key())
	if err != nil {
		return 0, 0, 0, err
	}
	if c, ok := storage.(io.Closer); ok {
		_ = c.Close()
	}
	return save, load, len(data), nil
}

func generate(count, todos int) []core.Note {
	now := time.Now().UTC()
	board := make([]core.Note, count)
	for i := range board {
		items := make([]core.Todo, todos)
		for j := range items {
			items[j] = core.Todo{
				ID:        fmt.Sprintf("todo-%d-%d", i, j),
				Text:      fmt.Sprintf("Item %d", j),
				CreatedAt: now,
			}
			if j%2 == 0 {
				items[j].Completed = true
				items[j].CompletedAt = &now
			}
		}
		board[i] = core.Note{
			ID:        fmt.Sprintf("note-%d", i),
			Title:     fmt.Sprintf("Note %d", i),
			Content:   "Benchmark note.",
			Color:     core.Palette()[i%len(core.Palette())],
			Todos:     items,
			UpdatedAt: now.Add(-time.Duration(i) * time.Minute),
		}
	}
	return board
}
