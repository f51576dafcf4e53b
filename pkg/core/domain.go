package core

import (
	"fmt"
	"time"
)

// EventType represents the type of change observed on a storage key.
type EventType string

const (
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
	// EventReload is emitted by a session after it replaced its state
	// with the backend's copy.
	EventReload EventType = "RELOAD"
)

// Event represents a change of a storage key.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and lifecycle.Event).
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}

// Clock returns the current time. Injected so tests can pin timestamps.
type Clock func() time.Time

// IDSource mints opaque unique identifiers.
type IDSource func() string
