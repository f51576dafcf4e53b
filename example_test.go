package sticky_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/sticky"
)

// Example_basic creates a note, deletes it and brings it back with undo.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "sticky-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	s, err := sticky.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	ctx := context.Background()
	checklist := "milk\neggs"
	note, _, err := s.Submit(ctx, sticky.Draft{Title: "Groceries", Checklist: &checklist})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s (%s): %d pending\n", note.Title, note.Color, note.Pending())

	if _, _, err := s.Delete(ctx, note.ID); err != nil {
		log.Fatal(err)
	}
	fmt.Println("notes after delete:", s.Notes().Len())

	restored, _, err := s.UndoLatest(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("restored:", restored.Title)
	// Output:
	// Groceries (yellow): 2 pending
	// notes after delete: 0
	// restored: Groceries
}

// Example_search filters the board the way the search box does.
func Example_search() {
	s, err := sticky.New("", sticky.WithAdapter("memory"))
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	for _, title := range []string{"Work", "Groceries", "Gym"} {
		if _, _, err := s.Submit(ctx, sticky.Draft{Title: title}); err != nil {
			log.Fatal(err)
		}
	}
	for _, n := range s.Notes().Search("g") {
		fmt.Println(n.Title)
	}
	// Output:
	// Gym
	// Groceries
}
