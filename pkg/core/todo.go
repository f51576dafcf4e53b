package core

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the ISO 8601 layout used on the wire (millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// NewID mints a random identifier.
func NewID() string {
	return uuid.NewString()
}

// Normalizer validates and repairs to-do records.
// The zero value uses time.Now and NewID.
type Normalizer struct {
	Now   Clock
	NewID IDSource
}

func (n Normalizer) now() time.Time {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	return now().UTC().Truncate(time.Millisecond)
}

func (n Normalizer) mint() string {
	if n.NewID != nil {
		return n.NewID()
	}
	return NewID()
}

// candidate is a to-do before validation, whatever its source shape.
type candidate struct {
	id          string
	text        string
	completed   bool
	priority    bool
	createdAt   time.Time
	completedAt time.Time
}

// NormalizeText trims the text and collapses internal whitespace runs.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SanitizeRaw builds to-dos from arbitrary decoded values (JSON or YAML
// records). Entries that are not records or whose text is empty are dropped.
// The result is ordered with OrderTodos.
func (n Normalizer) SanitizeRaw(raw []any) []Todo {
	candidates := make([]*candidate, len(raw))
	for i, v := range raw {
		if c, ok := candidateFromRaw(v); ok {
			candidates[i] = &c
		}
	}
	return n.build(candidates)
}

// Sanitize repairs an already typed list. It is idempotent.
func (n Normalizer) Sanitize(todos []Todo) []Todo {
	candidates := make([]*candidate, len(todos))
	for i, t := range todos {
		c := candidate{
			id:        t.ID,
			text:      t.Text,
			completed: t.Completed,
			priority:  t.Priority,
			createdAt: t.CreatedAt,
		}
		if t.CompletedAt != nil {
			c.completedAt = *t.CompletedAt
		}
		candidates[i] = &c
	}
	return n.build(candidates)
}

func (n Normalizer) build(candidates []*candidate) []Todo {
	now := n.now()
	out := make([]Todo, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))

	for i, c := range candidates {
		if c == nil {
			continue
		}
		text := NormalizeText(c.text)
		if text == "" {
			continue
		}

		synthetic := now.Add(time.Duration(i) * time.Millisecond)

		id := strings.TrimSpace(c.id)
		if id == "" || seen[id] {
			id = n.mint()
		}
		seen[id] = true

		todo := Todo{
			ID:        id,
			Text:      text,
			Completed: c.completed,
			Priority:  c.priority && !c.completed,
			CreatedAt: c.createdAt,
		}
		if todo.CreatedAt.IsZero() {
			todo.CreatedAt = synthetic
		}
		if todo.Completed {
			at := c.completedAt
			if at.IsZero() {
				at = synthetic
			}
			todo.CompletedAt = &at
		}
		out = append(out, todo)
	}

	return OrderTodos(out)
}

func candidateFromRaw(v any) (candidate, bool) {
	rec, ok := v.(map[string]any)
	if !ok {
		return candidate{}, false
	}
	var c candidate
	c.id, _ = rec["id"].(string)
	c.text, _ = rec["text"].(string)
	c.completed = truthy(rec["completed"])
	c.priority = truthy(rec["priority"])
	c.createdAt = ParseTimestamp(rec["createdAt"])
	c.completedAt = ParseTimestamp(rec["completedAt"])
	return c, true
}

// truthy mirrors the loose boolean coercion stored data was written with.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case int64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}

// ParseTimestamp returns the time held by v, or the zero time when v is
// missing or not a valid ISO 8601 timestamp.
func ParseTimestamp(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x.UTC()
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}

// FormatTimestamp renders t in TimestampLayout, UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// SplitChecklist splits multi-line text into normalized, non-empty lines.
func SplitChecklist(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = NormalizeText(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ChecklistText renders to-dos back into the editable multi-line form.
func ChecklistText(todos []Todo) string {
	lines := make([]string, len(todos))
	for i, t := range todos {
		lines[i] = t.Text
	}
	return strings.Join(lines, "\n")
}

// TodosFromText rebuilds a checklist from text, reusing entries of prev whose
// normalized text matches a line case-insensitively. Each previous entry is
// consumed at most once, in its list order, so repeated lines keep their own
// identities. Unmatched lines become new pending to-dos.
func (n Normalizer) TodosFromText(prev []Todo, text string) []Todo {
	queues := make(map[string][]Todo, len(prev))
	for _, t := range prev {
		key := strings.ToLower(NormalizeText(t.Text))
		queues[key] = append(queues[key], t)
	}

	now := n.now()
	lines := SplitChecklist(text)
	next := make([]Todo, 0, len(lines))
	for i, line := range lines {
		key := strings.ToLower(line)
		if q := queues[key]; len(q) > 0 {
			reused := q[0].Clone()
			reused.Text = line
			queues[key] = q[1:]
			next = append(next, reused)
			continue
		}
		next = append(next, Todo{
			ID:        n.mint(),
			Text:      line,
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
		})
	}

	return n.Sanitize(next)
}
