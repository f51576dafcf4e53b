package core

import "time"

// Note is the central entity of the domain.
// It is a user-authored title/content pair with a color tag and a checklist.
// It is agnostic to storage format; see pkg/gateway for the wire shape.
type Note struct {
	ID        string
	Title     string
	Content   string
	Color     Color
	Todos     []Todo
	UpdatedAt time.Time
}

// Todo is a checklist item attached to a Note.
//
// Priority is never true while Completed is true, and CompletedAt is set
// exactly when Completed is true.
type Todo struct {
	ID          string
	Text        string
	Completed   bool
	Priority    bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Clone returns a deep copy of the note, so snapshots (undo entries, render
// models) never alias the store's slices.
func (n Note) Clone() Note {
	out := n
	if n.Todos != nil {
		out.Todos = make([]Todo, len(n.Todos))
		for i, t := range n.Todos {
			out.Todos[i] = t.Clone()
		}
	}
	return out
}

// Clone returns a copy of the to-do that does not share CompletedAt.
func (t Todo) Clone() Todo {
	out := t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		out.CompletedAt = &at
	}
	return out
}

// Pending reports how many to-dos are not completed yet.
func (n Note) Pending() int {
	count := 0
	for _, t := range n.Todos {
		if !t.Completed {
			count++
		}
	}
	return count
}

// Patch is a partial update of a Note. Nil fields are left untouched.
type Patch struct {
	Title   *string
	Content *string
	Color   *Color
	Todos   *[]Todo
}

// Draft is the raw input the presentation layer collects for a note.
// Title and Content are expected to be trimmed and non-empty already.
type Draft struct {
	Title   string
	Content string
	Color   Color
	// Checklist is the multi-line to-do text. Nil means "not edited".
	Checklist *string
}
