// Package sticky is the Composition Root of the sticky notes engine.
//
// It connects the note store, the undo stack and the persistence gateway
// (Domain Layer) with a key-value storage adapter (Persistence Layer) using
// the Hexagonal Architecture pattern.
//
// Features:
//
//   - **Ordered Board**: notes live in a user-controlled order; new notes go on top.
//   - **Checklists**: per-note to-dos ordered by priority, pending and completed buckets.
//   - **Undo**: deletes are reversible, either stacked or through a timed single slot.
//   - **Self-Healing Load**: malformed persisted data is repaired or dropped, never fatal.
//   - **Pluggable Storage**: memory, files (with change watching), SQLite or Redis.
//
// Usage:
//
//	s, err := sticky.New("./.sticky",
//		sticky.WithLogger(logger),
//		sticky.WithUndo(sticky.UndoTimed()),
//	)
//
//	note, _, err := s.Submit(ctx, sticky.Draft{Title: "Groceries", Content: "Weekly run"})
package sticky
