// Package x11 owns everything that touches the X server: the connection,
// the dock window and its icon children, monitor geometry, struts, panel
// hiding and the event loop.
package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection bundles the xgbutil handle with the root window it serves.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection dials the X server and primes the keybind state that hotkey
// grabs depend on. An empty display falls back to $DISPLAY.
func NewConnection(display string) (*Connection, error) {
	xu, err := dial(display)
	if err != nil {
		return nil, err
	}
	keybind.Initialize(xu)
	return &Connection{XUtil: xu, Root: xu.RootWin()}, nil
}

func dial(display string) (*xgbutil.XUtil, error) {
	if display != "" {
		return xgbutil.NewConnDisplay(display)
	}
	return xgbutil.NewConn()
}

// EventLoop runs the X event dispatch loop until Quit or disconnect.
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit makes the event loop return after the event being processed.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
