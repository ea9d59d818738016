package ui

import "github.com/bamsammich/ddx/internal/event"

// Event is the engine notification consumed by presenters.
type Event = event.Event

// Re-export event types for convenience.
const (
	StateChanged = event.StateChanged
	Progress     = event.Progress
	ReadFailed   = event.ReadFailed
)
