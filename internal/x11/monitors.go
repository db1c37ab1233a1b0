package x11

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Monitor is one active RandR output with the geometry and DPI facts the
// dock needs to park on it.
type Monitor struct {
	ID      int
	Name    string
	X       int
	Y       int
	Width   int
	Height  int
	MmWidth int     // physical width reported by RandR, 0 when unknown
	Scale   float64 // DPI scale factor derived from MmWidth, 1.0 when unknown
	Primary bool
}

// Bottom returns the root Y coordinate of the monitor's bottom edge.
func (m Monitor) Bottom() int {
	return m.Y + m.Height
}

// GetMonitors lists the active monitors via XRandR.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	res, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	// The primary output may be 0 when none is configured.
	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTCs report zero size or no outputs.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		monitors = append(monitors, c.monitorFromCrtc(i, info, res.ConfigTimestamp, primary))
	}
	return monitors, nil
}

func (c *Connection) monitorFromCrtc(id int, info *randr.GetCrtcInfoReply, ts xproto.Timestamp, primary randr.Output) Monitor {
	m := Monitor{
		ID:     id,
		Name:   fmt.Sprintf("Monitor%d", id),
		X:      int(info.X),
		Y:      int(info.Y),
		Width:  int(info.Width),
		Height: int(info.Height),
	}
	if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], ts).Reply(); err == nil {
		m.Name = string(out.Name)
		m.MmWidth = int(out.MmWidth)
	}
	m.Scale = dpiScale(m.Width, m.MmWidth)
	for _, out := range info.Outputs {
		if primary != 0 && out == primary {
			m.Primary = true
			break
		}
	}
	return m
}

// PrimaryMonitor returns the monitor marked primary by RandR, falling back
// to the first active monitor when no primary output is configured.
func (c *Connection) PrimaryMonitor() (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}

	for i := range monitors {
		if monitors[i].Primary {
			return &monitors[i], nil
		}
	}
	return &monitors[0], nil
}

// dpiScale derives a display scale factor from pixel and physical width.
// Monitors that report no physical size (projectors, some VMs) get 1.0.
// The result is snapped to quarter steps and clamped to [1.0, 3.0], matching
// the scale factors desktop environments actually configure.
func dpiScale(widthPx, mmWidth int) float64 {
	if widthPx <= 0 || mmWidth <= 0 {
		return 1.0
	}
	dpi := float64(widthPx) / (float64(mmWidth) / 25.4)
	scale := math.Round(dpi/96.0*4) / 4
	if scale < 1.0 {
		return 1.0
	}
	if scale > 3.0 {
		return 3.0
	}
	return scale
}
