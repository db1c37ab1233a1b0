package dock

import (
	"github.com/1broseidon/docktile/internal/config"
	"github.com/1broseidon/docktile/internal/icons"
	"github.com/1broseidon/docktile/internal/layout"
)

// Icon is one dock entry. Index and BaseX are assigned when the icon set is
// finalized and never change afterwards; the scale pair tracks the
// magnification the icon is animating through.
type Icon struct {
	// Index is the icon's stable ordinal position. It matches the icon's
	// left-to-right order: BaseX ascends with Index.
	Index int
	Name  string
	Path  string

	// BaseX is the un-magnified left edge relative to the bar's left edge.
	BaseX float64

	// CurrentScale is the scale last handed to the animation driver as a
	// starting point; TargetScale is the most recent solve's output. Both
	// stay in [1, MaxScale].
	CurrentScale float64
	TargetScale  float64

	// Ref is the opaque bitmap handle owned by the icon provider. A nil Ref
	// renders as a placeholder; the icon keeps its layout slot and stays
	// clickable either way.
	Ref *icons.Ref

	// Running marks that a window of this application is currently open.
	Running bool
}

// BuildIcons finalizes the icon set from the flattened shortcut list. Order
// follows the configuration; indices and base positions are fixed from here
// on, no matter how many sources contributed entries. resolve maps a launch
// command to its bitmap handle and may be nil, in which case every icon
// carries a nil ref.
func BuildIcons(shortcuts []config.Shortcut, a *config.Appearance, resolve func(command string) *icons.Ref) []Icon {
	base := layout.Base(len(shortcuts), a)
	out := make([]Icon, len(shortcuts))
	for i, s := range shortcuts {
		out[i] = Icon{
			Index:        i,
			Name:         s.Name,
			Path:         s.Path,
			BaseX:        base[i],
			CurrentScale: 1,
			TargetScale:  1,
		}
		if resolve != nil {
			out[i].Ref = resolve(s.Path)
		}
	}
	return out
}
