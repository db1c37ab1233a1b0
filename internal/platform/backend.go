package platform

// Rect describes a rectangular region in root (screen) coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display. Scale is the DPI scale factor
// relative to a 96-DPI baseline, 1.0 when it cannot be determined.
type Display struct {
	ID      int
	Name    string
	Bounds  Rect
	Scale   float64
	Primary bool
}

// App is one running application as reported by the host shell. Class and
// Instance carry the window's WM_CLASS pair lowercased; either may be empty.
type App struct {
	PID      int
	Class    string
	Instance string
}

// StripReservation asks the shell to keep a bottom-edge strip clear of
// maximized windows. Height is in physical pixels; X and Width bound the
// strip horizontally in root coordinates.
type StripReservation struct {
	Height int
	X      int
	Width  int
}

// Backend abstracts host-shell operations across platforms. Reservation and
// panel calls are best-effort: a failure degrades the dock (no reserved
// space, panels left alone) but never stops it.
type Backend interface {
	PrimaryDisplay() (Display, error)
	RunningApps() ([]App, error)
	ReserveStrip(req StripReservation) error
	ReleaseStrip() error
	HidePanels() error
	ShowPanels() error
}
