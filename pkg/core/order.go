package core

import (
	"slices"
	"time"
)

// OrderTodos returns the display order of a checklist:
// pending priority items (oldest first), then other pending items (oldest
// first), then completed items (most recently completed first).
// Each bucket is stable. Missing timestamps sort after valid ones.
func OrderTodos(todos []Todo) []Todo {
	var priority, pending, done []Todo
	for _, t := range todos {
		switch {
		case t.Completed:
			done = append(done, t)
		case t.Priority:
			priority = append(priority, t)
		default:
			pending = append(pending, t)
		}
	}

	byCreated := func(a, b Todo) int { return compareTimes(a.CreatedAt, b.CreatedAt, false) }
	slices.SortStableFunc(priority, byCreated)
	slices.SortStableFunc(pending, byCreated)
	slices.SortStableFunc(done, func(a, b Todo) int {
		return compareTimes(completedAt(a), completedAt(b), true)
	})

	out := make([]Todo, 0, len(todos))
	out = append(out, priority...)
	out = append(out, pending...)
	return append(out, done...)
}

func completedAt(t Todo) time.Time {
	if t.CompletedAt == nil {
		return time.Time{}
	}
	return *t.CompletedAt
}

// compareTimes orders a before b, treating the zero time as "latest" so it
// lands after every valid timestamp in both directions.
func compareTimes(a, b time.Time, descending bool) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	}
	c := a.Compare(b)
	if descending {
		return -c
	}
	return c
}
