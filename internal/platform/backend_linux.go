//go:build linux

package platform

import (
	"fmt"
	"sync"

	"github.com/1broseidon/docktile/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend adapts an X11 connection to the platform Backend interface.
// The connection must be live; both constructors enforce that.
type LinuxBackend struct {
	conn   *x11.Connection
	panels *x11.PanelManager

	// dockWin is attached after the window exists and read from the
	// machine's goroutine.
	mu      sync.Mutex
	dockWin xproto.Window
}

var _ Backend = (*LinuxBackend)(nil)

func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{
		conn:   conn,
		panels: x11.NewPanelManager(conn),
	}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection. An empty display
// falls back to $DISPLAY.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn), nil
}

// AttachDockWindow hands the backend the dock's top-level window. Struts are
// published as properties on this window, and panel hiding excludes it.
func (b *LinuxBackend) AttachDockWindow(win xproto.Window) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dockWin = win
}

func (b *LinuxBackend) attachedWindow() xproto.Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dockWin
}

func (b *LinuxBackend) Disconnect() { b.conn.Close() }

func (b *LinuxBackend) EventLoop() { b.conn.EventLoop() }

// XUtil and RootWindow expose X11 internals for hotkey registration.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil { return b.conn.XUtil }

func (b *LinuxBackend) RootWindow() xproto.Window { return b.conn.Root }

// PrimaryDisplay returns the display the dock parks on.
func (b *LinuxBackend) PrimaryDisplay() (Display, error) {
	mon, err := b.conn.PrimaryMonitor()
	if err != nil {
		return Display{}, err
	}
	return Display{
		ID:      mon.ID,
		Name:    mon.Name,
		Bounds:  Rect{X: mon.X, Y: mon.Y, Width: mon.Width, Height: mon.Height},
		Scale:   mon.Scale,
		Primary: mon.Primary,
	}, nil
}

// RunningApps returns the identity of every normal client window.
func (b *LinuxBackend) RunningApps() ([]App, error) {
	wins, err := b.conn.ListApplicationWindows()
	if err != nil {
		return nil, err
	}
	apps := make([]App, 0, len(wins))
	for _, w := range wins {
		apps = append(apps, App{PID: w.PID, Class: w.Class, Instance: w.Instance})
	}
	return apps, nil
}

// ReserveStrip publishes a bottom strut covering the dock. The dock window
// must be attached first; struts live as properties on that window.
func (b *LinuxBackend) ReserveStrip(req StripReservation) error {
	win := b.attachedWindow()
	if win == 0 {
		return fmt.Errorf("no dock window attached")
	}

	// Struts measure from the root edge; the primary monitor's bottom tells
	// the strut code how much gap to bridge.
	mon, err := b.conn.PrimaryMonitor()
	if err != nil {
		return fmt.Errorf("failed to resolve monitor for strut: %w", err)
	}

	return b.conn.SetDockStruts(win, x11.StrutRequest{
		HeightPx:      req.Height,
		StartX:        req.X,
		EndX:          req.X + req.Width,
		MonitorBottom: mon.Bottom(),
	})
}

// ReleaseStrip zeroes the strut. Safe to call when nothing was reserved.
func (b *LinuxBackend) ReleaseStrip() error {
	win := b.attachedWindow()
	if win == 0 {
		return nil
	}
	return b.conn.ClearDockStruts(win)
}

// HidePanels unmaps other dock-type windows so the dock has the screen edge
// to itself.
func (b *LinuxBackend) HidePanels() error {
	return b.panels.HidePanels(b.attachedWindow())
}

// ShowPanels restores the panels hidden by HidePanels.
func (b *LinuxBackend) ShowPanels() error {
	return b.panels.ShowPanels()
}
