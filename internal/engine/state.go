package engine

// State is a phase of a copy. A run moves through Positioning, Transferring
// and Finalizing to Done, or stops in Aborted from any of them.
type State int

const (
	Positioning State = iota
	Transferring
	Finalizing
	Done
	Aborted
)

var stateNames = [...]string{
	Positioning:  "positioning",
	Transferring: "transferring",
	Finalizing:   "finalizing",
	Done:         "done",
	Aborted:      "aborted",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}
