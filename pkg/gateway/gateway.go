// Package gateway loads and saves the whole note collection as one blob
// under a single key of a core.Storage backend.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/sticky/pkg/core"
)

// DefaultKey is the storage key holding the notes blob.
const DefaultKey = "sticky-notes-app"

// Config holds the configuration for a Gateway.
type Config struct {
	Key        string
	Codec      Codec
	Normalizer core.Normalizer
	Logger     *slog.Logger
	ReadOnly   bool
}

// Gateway is the persistence boundary of the note store.
type Gateway struct {
	storage core.Storage
	config  Config

	mu   sync.Mutex
	last []byte
}

// New creates a gateway over storage. Zero config values get defaults.
func New(storage core.Storage, config Config) *Gateway {
	if config.Key == "" {
		config.Key = DefaultKey
	}
	if config.Codec == nil {
		config.Codec = JSONCodec{}
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Gateway{storage: storage, config: config}
}

// Key returns the storage key this gateway reads and writes.
func (g *Gateway) Key() string { return g.config.Key }

// Storage returns the backend.
func (g *Gateway) Storage() core.Storage { return g.storage }

// Load reads the collection. A missing key or a corrupt payload yields an
// empty collection; only backend failures are returned as errors.
func (g *Gateway) Load(ctx context.Context) ([]core.Note, Report, error) {
	data, err := g.storage.Get(ctx, g.config.Key)
	if errors.Is(err, core.ErrKeyNotFound) {
		g.remember(nil)
		return []core.Note{}, Report{}, nil
	}
	if err != nil {
		return nil, Report{}, fmt.Errorf("failed to read %s: %w", g.config.Key, err)
	}

	g.remember(data)
	notes, report := g.DecodeWith(g.config.Codec, data)
	return notes, report, nil
}

// Save serializes the full collection and replaces the stored value.
func (g *Gateway) Save(ctx context.Context, notes []core.Note) error {
	if g.config.ReadOnly {
		return core.ErrReadOnly
	}

	data, err := g.config.Codec.Encode(notes)
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}
	if err := g.storage.Set(ctx, g.config.Key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", g.config.Key, err)
	}
	g.remember(data)

	g.config.Logger.Debug("notes saved", "key", g.config.Key, "count", len(notes), "bytes", len(data))
	return nil
}

// Changed reports whether the stored value differs from the last value this
// gateway read or wrote. Used to ignore watch events caused by our own writes.
func (g *Gateway) Changed(ctx context.Context) (bool, error) {
	data, err := g.storage.Get(ctx, g.config.Key)
	if errors.Is(err, core.ErrKeyNotFound) {
		data, err = nil, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", g.config.Key, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return !bytes.Equal(data, g.last), nil
}

func (g *Gateway) remember(data []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = data
}

// Export encodes notes with the given codec.
func (g *Gateway) Export(notes []core.Note, codec Codec) ([]byte, error) {
	return codec.Encode(notes)
}

// DecodeWith runs the decode step over a payload. It never fails: a corrupt
// payload is logged and yields an empty collection.
func (g *Gateway) DecodeWith(codec Codec, data []byte) ([]core.Note, Report) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []core.Note{}, Report{}
	}

	records, err := codec.Decode(data)
	if err != nil {
		g.config.Logger.Warn("failed to load notes from storage, starting empty",
			"key", g.config.Key, "format", codec.Name(), "error", err)
		return []core.Note{}, Report{Corrupt: true}
	}

	now := g.config.Normalizer.Now
	notes := make([]core.Note, 0, len(records))
	report := Report{Total: len(records)}
	seen := make(map[string]bool, len(records))

	for i, raw := range records {
		note, outcome := decodeNote(raw, g.config.Normalizer)
		outcome.Index = i
		if outcome.Accepted && seen[note.ID] {
			outcome = Outcome{Index: i, ID: note.ID, Reason: ReasonDuplicateID}
		}
		if !outcome.Accepted {
			report.Dropped = append(report.Dropped, outcome)
			g.config.Logger.Debug("dropping stored note", "index", i, "id", outcome.ID, "reason", outcome.Reason)
			continue
		}
		if note.UpdatedAt.IsZero() {
			note.UpdatedAt = clockNow(now)
		}
		seen[note.ID] = true
		notes = append(notes, note)
	}

	report.Accepted = len(notes)
	return notes, report
}

// Reasons a stored record is dropped.
const (
	ReasonNotRecord   = "not a record"
	ReasonMissingID   = "missing string id"
	ReasonDuplicateID = "duplicate id"
)

// Outcome is the result of decoding one stored record.
type Outcome struct {
	Index    int
	ID       string
	Accepted bool
	Reason   string
}

// Report summarizes a decode pass.
type Report struct {
	Total    int
	Accepted int
	Dropped  []Outcome
	// Corrupt is set when the payload itself could not be parsed.
	Corrupt bool
}

func decodeNote(raw any, normalizer core.Normalizer) (core.Note, Outcome) {
	rec, ok := raw.(map[string]any)
	if !ok {
		return core.Note{}, Outcome{Reason: ReasonNotRecord}
	}
	id, ok := rec["id"].(string)
	if !ok || strings.TrimSpace(id) == "" {
		return core.Note{}, Outcome{Reason: ReasonMissingID}
	}

	rawTodos, _ := rec["todos"].([]any)
	note := core.Note{
		ID:        id,
		Title:     stringField(rec, "title"),
		Content:   stringField(rec, "content"),
		Color:     core.NormalizeColor(rec["color"]),
		Todos:     normalizer.SanitizeRaw(rawTodos),
		UpdatedAt: core.ParseTimestamp(rec["updatedAt"]),
	}
	return note, Outcome{ID: id, Accepted: true}
}

func stringField(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return s
}

func clockNow(clock core.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC().Truncate(time.Millisecond)
	}
	return clock().UTC().Truncate(time.Millisecond)
}
