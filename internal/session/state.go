// ABOUTME: Session states for the record toggle
// ABOUTME: Idle, Recording, Processing and Playing
package session

// State is the phase of the voice session
type State int

const (
	Idle State = iota
	Recording
	Processing
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Processing:
		return "processing"
	case Playing:
		return "playing"
	default:
		return "unknown"
	}
}

// Busy reports whether the toggle is ignored in this state
func (s State) Busy() bool {
	return s == Processing || s == Playing
}
