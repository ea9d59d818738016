package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	StateChanged Type = iota + 1
	Progress
	ReadFailed
)

var typeNames = [...]string{
	StateChanged: "StateChanged",
	Progress:     "Progress",
	ReadFailed:   "ReadFailed",
}

func (t Type) String() string {
	if int(t) < len(typeNames) && typeNames[t] != "" {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single notification from the copy engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	State     string // new state (StateChanged)
	Block     uint64 // input blocks consumed so far, or the failing block
	Bytes     uint64 // bytes written so far
	Error     error
}
