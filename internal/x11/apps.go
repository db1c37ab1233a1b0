package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// AppWindow is one managed application window with the identity fields the
// running-app reconciler matches against.
type AppWindow struct {
	Window   xproto.Window
	PID      int
	Class    string // WM_CLASS class part, lowercased
	Instance string // WM_CLASS instance part, lowercased
}

// ListApplicationWindows returns every managed client that looks like a
// regular application window. Panels, docks, splash screens and
// notifications are filtered out so the dock never marks itself running.
func (c *Connection) ListApplicationWindows() ([]AppWindow, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	apps := make([]AppWindow, 0, len(clients))
	for _, win := range clients {
		if !c.isNormalWindow(win) {
			continue
		}
		app := AppWindow{Window: win}
		if pid, err := ewmh.WmPidGet(c.XUtil, win); err == nil {
			app.PID = int(pid)
		}
		if class, err := icccm.WmClassGet(c.XUtil, win); err == nil && class != nil {
			app.Class = strings.ToLower(class.Class)
			app.Instance = strings.ToLower(class.Instance)
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// isNormalWindow reports whether win looks like a regular application
// window. A window with no declared type counts as normal; plenty of older
// clients never set one.
func (c *Connection) isNormalWindow(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil || len(types) == 0 {
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return false
}
