package dock

import "github.com/1broseidon/docktile/internal/platform"

// Phase is the dock's interaction phase. The machine is flat: these two
// phases are the only states. Leaving is an instantaneous event, not a
// phase of its own.
type Phase int

const (
	// PhaseIdle means no pointer is tracked over the dock surface and every
	// icon sits at scale 1.
	PhaseIdle Phase = iota
	// PhaseMagnified means the pointer position is known and icon scales
	// follow it.
	PhaseMagnified
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMagnified:
		return "magnified"
	default:
		return "unknown"
	}
}

// State is the dock's mutable snapshot: the finalized icon set, the last
// known display geometry, and the interaction flags. A single Machine owns it
// and is its only writer; all access goes through the Machine's lock.
type State struct {
	Icons    []Icon
	Display  platform.Display
	Phase    Phase
	PointerX float64 // meaningful only while PhaseMagnified
	Hidden   bool
	Reserved bool // a strip reservation is currently registered
}

// NewState creates the dock state from the finalized icon sequence and the
// initial display geometry.
func NewState(icons []Icon, display platform.Display, hidden bool) *State {
	return &State{
		Icons:   icons,
		Display: display,
		Hidden:  hidden,
	}
}
