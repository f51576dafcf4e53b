package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/sticky/pkg/core"
)

// ErrNotArray is returned by codecs when the payload is not a list of records.
var ErrNotArray = errors.New("payload is not an array")

// Codec defines how the notes blob is read and written.
type Codec interface {
	// Name is the short format name (e.g. "json").
	Name() string
	// Encode converts notes to bytes.
	Encode(notes []core.Note) ([]byte, error)
	// Decode parses a payload into loosely typed records, one per note.
	Decode(data []byte) ([]any, error)
}

// Codecs returns the built-in codecs keyed by name.
func Codecs() map[string]Codec {
	return map[string]Codec{
		"json": JSONCodec{},
		"yaml": YAMLCodec{},
		"yml":  YAMLCodec{},
	}
}

// noteRecord is the wire shape of a note.
type noteRecord struct {
	ID        string       `json:"id" yaml:"id"`
	Title     string       `json:"title" yaml:"title"`
	Content   string       `json:"content" yaml:"content"`
	Color     string       `json:"color" yaml:"color"`
	Todos     []todoRecord `json:"todos" yaml:"todos"`
	UpdatedAt string       `json:"updatedAt" yaml:"updatedAt"`
}

type todoRecord struct {
	ID          string  `json:"id" yaml:"id"`
	Text        string  `json:"text" yaml:"text"`
	Completed   bool    `json:"completed" yaml:"completed"`
	Priority    bool    `json:"priority" yaml:"priority"`
	CreatedAt   string  `json:"createdAt" yaml:"createdAt"`
	CompletedAt *string `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
}

func toRecords(notes []core.Note) []noteRecord {
	records := make([]noteRecord, len(notes))
	for i, n := range notes {
		todos := make([]todoRecord, len(n.Todos))
		for j, t := range n.Todos {
			todos[j] = todoRecord{
				ID:        t.ID,
				Text:      t.Text,
				Completed: t.Completed,
				Priority:  t.Priority,
				CreatedAt: core.FormatTimestamp(t.CreatedAt),
			}
			if t.CompletedAt != nil {
				s := core.FormatTimestamp(*t.CompletedAt)
				todos[j].CompletedAt = &s
			}
		}
		records[i] = noteRecord{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			Color:     string(n.Color),
			Todos:     todos,
			UpdatedAt: core.FormatTimestamp(n.UpdatedAt),
		}
	}
	return records
}

// --- JSON Codec ---

// JSONCodec is the storage format: a compact JSON array.
type JSONCodec struct {
	// Indent pretty-prints the output (used for exports).
	Indent bool
}

func (JSONCodec) Name() string { return "json" }

func (c JSONCodec) Encode(notes []core.Note) ([]byte, error) {
	if c.Indent {
		return json.MarshalIndent(toRecords(notes), "", "  ")
	}
	return json.Marshal(toRecords(notes))
}

func (JSONCodec) Decode(data []byte) ([]any, error) {
	var payload any
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	list, ok := payload.([]any)
	if !ok {
		return nil, ErrNotArray
	}
	return list, nil
}

// --- YAML Codec ---

// YAMLCodec reads and writes the notes as a YAML sequence.
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }

func (YAMLCodec) Encode(notes []core.Note) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toRecords(notes)); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAMLCodec) Decode(data []byte) ([]any, error) {
	var payload any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	list, ok := payload.([]any)
	if !ok {
		return nil, ErrNotArray
	}
	return list, nil
}
