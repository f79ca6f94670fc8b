package core

import (
	"fmt"
	"time"
)

// EventType represents the type of change seen in storage.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a storage slot.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String makes Event usable as a lifecycle event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s at %s", e.Type, e.Key, time.Unix(e.Timestamp, 0).UTC().Format(time.RFC3339))
}
