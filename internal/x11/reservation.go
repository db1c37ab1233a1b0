package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// StrutRequest describes a bottom-edge screen reservation in root
// coordinates. EndX is exclusive.
type StrutRequest struct {
	HeightPx      int // thickness in device pixels
	StartX        int
	EndX          int
	MonitorBottom int // root Y of the reserving monitor's bottom edge
}

// SetDockStruts publishes _NET_WM_STRUT_PARTIAL plus the legacy
// _NET_WM_STRUT on the window. Struts measure from the root edge, so a
// monitor that does not touch the root bottom gets the gap below it added
// to the thickness.
func (c *Connection) SetDockStruts(win xproto.Window, req StrutRequest) error {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return fmt.Errorf("failed to get root geometry: %w", err)
	}

	bottom := req.HeightPx + (int(rootGeom.Height) - req.MonitorBottom)
	if bottom < 0 {
		bottom = 0
	}
	startX := req.StartX
	if startX < 0 {
		startX = 0
	}
	endX := req.EndX - 1
	if endX < startX {
		endX = startX
	}

	strut := &ewmh.WmStrutPartial{
		Bottom:       uint(bottom),
		BottomStartX: uint(startX),
		BottomEndX:   uint(endX),
	}
	if err := ewmh.WmStrutPartialSet(c.XUtil, win, strut); err != nil {
		return fmt.Errorf("failed to set strut partial: %w", err)
	}
	// Some window managers only honor the non-partial property.
	if err := ewmh.WmStrutSet(c.XUtil, win, &ewmh.WmStrut{Bottom: uint(bottom)}); err != nil {
		return fmt.Errorf("failed to set strut: %w", err)
	}
	return nil
}

// ClearDockStruts zeroes the reservation. EWMH has no delete verb that
// window managers reliably honor, so zero-thickness struts are written
// instead of removing the properties.
func (c *Connection) ClearDockStruts(win xproto.Window) error {
	if err := ewmh.WmStrutPartialSet(c.XUtil, win, &ewmh.WmStrutPartial{}); err != nil {
		return fmt.Errorf("failed to clear strut partial: %w", err)
	}
	if err := ewmh.WmStrutSet(c.XUtil, win, &ewmh.WmStrut{}); err != nil {
		return fmt.Errorf("failed to clear strut: %w", err)
	}
	return nil
}
