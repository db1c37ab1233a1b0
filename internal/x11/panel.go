package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// PanelManager unmaps other dock-type windows (taskbars, desktop panels)
// while the dock is active and restores exactly the ones it hid.
type PanelManager struct {
	conn *Connection

	mu     sync.Mutex
	hidden []xproto.Window
}

func NewPanelManager(conn *Connection) *PanelManager {
	return &PanelManager{conn: conn}
}

// HidePanels unmaps every managed dock-type client except exclude. Windows
// hidden by a previous call are not collected twice, so repeated calls stay
// safe.
func (p *PanelManager) HidePanels(exclude xproto.Window) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	clients, err := ewmh.ClientListGet(p.conn.XUtil)
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}

	for _, win := range clients {
		if win == exclude || p.isHiddenLocked(win) {
			continue
		}
		if !isDockWindow(p.conn, win) {
			continue
		}
		xproto.UnmapWindow(p.conn.XUtil.Conn(), win)
		p.hidden = append(p.hidden, win)
	}
	return nil
}

// ShowPanels remaps every window hidden by HidePanels. Idempotent; a call
// with nothing hidden does nothing.
func (p *PanelManager) ShowPanels() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, win := range p.hidden {
		xproto.MapWindow(p.conn.XUtil.Conn(), win)
	}
	p.hidden = nil
	return nil
}

func (p *PanelManager) isHiddenLocked(win xproto.Window) bool {
	for _, w := range p.hidden {
		if w == win {
			return true
		}
	}
	return false
}

// isDockWindow reports whether a window advertises _NET_WM_WINDOW_TYPE_DOCK.
func isDockWindow(c *Connection, win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}
