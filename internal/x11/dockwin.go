package x11

import (
	"fmt"
	"image/png"
	"log/slog"
	"math"
	"os"
	"sync"

	"github.com/1broseidon/docktile/internal/anim"
	"github.com/1broseidon/docktile/internal/config"
	"github.com/1broseidon/docktile/internal/layout"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xgraphics"
)

const (
	// Event selection on the dock's top level. Children select nothing, so
	// pointer events propagate up and arrive in top-level coordinates.
	dockEventMask = xproto.EventMaskPointerMotion |
		xproto.EventMaskLeaveWindow |
		xproto.EventMaskButtonPress

	// Fill for icons whose image could not be resolved.
	placeholderPixel = 0x00c8c8c8

	// Running indicator dot, drawn inside the bar's bottom padding.
	dotSize  = 4
	dotPixel = 0x00303030
)

// IconVisual is one icon's render inputs: a display name for logging and an
// optional raster image path. An empty path renders the placeholder fill.
type IconVisual struct {
	Name      string
	ImagePath string
}

// DockWindow owns the dock's X windows: a full-width dock-typed top level
// parked on the bottom edge of one monitor, a bar child, one child per icon,
// and an indicator dot child per icon. Rectangles arrive from the animation
// driver already solved in window coordinates; this type only turns them
// into X requests.
type DockWindow struct {
	conn   *Connection
	cfg    *config.Config
	logger *slog.Logger

	mu        sync.Mutex
	mon       Monitor
	win       xproto.Window
	bar       xproto.Window
	iconWins  []xproto.Window
	dotWins   []xproto.Window
	sources   []*xgraphics.Image // decoded icon bitmaps, nil when unresolved
	scaled    []*xgraphics.Image // cached at the last painted size
	lastSize  []int
	running   []bool
	hidden    bool
	argb      bool
	winHeight int
	strip     int
}

// NewDockWindow creates and maps the dock window tree on the given monitor.
// When the configuration starts hidden, only the thin reveal strip is shown.
func NewDockWindow(conn *Connection, cfg *config.Config, icons []IconVisual, mon Monitor, logger *slog.Logger) (*DockWindow, error) {
	if logger == nil {
		logger = slog.Default()
	}

	n := len(icons)
	dw := &DockWindow{
		conn:      conn,
		cfg:       cfg,
		logger:    logger,
		mon:       mon,
		iconWins:  make([]xproto.Window, n),
		dotWins:   make([]xproto.Window, n),
		sources:   make([]*xgraphics.Image, n),
		scaled:    make([]*xgraphics.Image, n),
		lastSize:  make([]int, n),
		running:   make([]bool, n),
		hidden:    cfg.Behavior.StartHidden,
		winHeight: int(math.Ceil(cfg.Appearance.WindowHeight())),
		strip:     cfg.Behavior.HiddenStrip,
	}
	if dw.strip < 1 {
		dw.strip = 1
	}

	if err := dw.createTopLevel(); err != nil {
		return nil, err
	}
	if err := dw.createChildren(icons); err != nil {
		dw.Destroy()
		return nil, err
	}
	dw.placeDotsLocked()

	xc := conn.XUtil.Conn()
	if !dw.hidden {
		xproto.MapWindow(xc, dw.bar)
		for _, w := range dw.iconWins {
			xproto.MapWindow(xc, w)
		}
	}
	xproto.MapWindow(xc, dw.win)

	dw.logger.Debug("Dock window created",
		"window", dw.win,
		"monitor", mon.Name,
		"icons", n,
		"argb", dw.argb)
	return dw, nil
}

// createTopLevel creates the managed top-level window and sets the EWMH
// properties a window manager needs to treat it as a dock. Properties must
// be in place before mapping or the WM will manage it as a normal client.
func (dw *DockWindow) createTopLevel() error {
	xu := dw.conn.XUtil
	xc := xu.Conn()
	screen := xu.Screen()

	wid, err := xproto.NewWindowId(xc)
	if err != nil {
		return fmt.Errorf("failed to allocate dock window id: %w", err)
	}

	x, y, w, h := dw.topGeometry()

	if visual, ok := dw.conn.argbVisual(); ok {
		// A 32-bit visual keeps the bar's alpha channel alive under a
		// compositor. The top level itself is fully transparent.
		mid, err := xproto.NewColormapId(xc)
		if err != nil {
			return fmt.Errorf("failed to allocate colormap id: %w", err)
		}
		if err := xproto.CreateColormapChecked(xc, xproto.ColormapAllocNone, mid, dw.conn.Root, visual).Check(); err != nil {
			return fmt.Errorf("failed to create ARGB colormap: %w", err)
		}
		// Value list order follows the mask bit order:
		// CwBackPixel, CwBorderPixel, CwEventMask, CwColormap.
		if err := xproto.CreateWindowChecked(
			xc, 32, wid, dw.conn.Root,
			int16(x), int16(y), uint16(w), uint16(h),
			0, xproto.WindowClassInputOutput, visual,
			xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwEventMask|xproto.CwColormap,
			[]uint32{0, 0, dockEventMask, uint32(mid)},
		).Check(); err != nil {
			return fmt.Errorf("failed to create dock window: %w", err)
		}
		dw.argb = true
	} else {
		// Depth 24 fallback: the strip behind the bar is painted in the
		// bar color since true transparency is not available.
		if err := xproto.CreateWindowChecked(
			xc, screen.RootDepth, wid, dw.conn.Root,
			int16(x), int16(y), uint16(w), uint16(h),
			0, xproto.WindowClassInputOutput, screen.RootVisual,
			xproto.CwBackPixel|xproto.CwEventMask,
			[]uint32{dw.cfg.Appearance.BackgroundColor().Pixel(), dockEventMask},
		).Check(); err != nil {
			return fmt.Errorf("failed to create dock window: %w", err)
		}
	}
	dw.win = wid

	ewmh.WmWindowTypeSet(xu, wid, []string{"_NET_WM_WINDOW_TYPE_DOCK"})
	ewmh.WmStateSet(xu, wid, []string{
		"_NET_WM_STATE_STICKY",
		"_NET_WM_STATE_ABOVE",
		"_NET_WM_STATE_SKIP_TASKBAR",
		"_NET_WM_STATE_SKIP_PAGER",
	})
	ewmh.WmDesktopSet(xu, wid, 0xFFFFFFFF)
	ewmh.WmNameSet(xu, wid, "docktile")

	return nil
}

// createChildren creates the bar, icon, and dot windows. Everything starts
// at 1x1; real geometry arrives with the first animation frame.
func (dw *DockWindow) createChildren(icons []IconVisual) error {
	xu := dw.conn.XUtil
	xc := xu.Conn()
	screen := xu.Screen()

	bar, err := xproto.NewWindowId(xc)
	if err != nil {
		return fmt.Errorf("failed to allocate bar window id: %w", err)
	}
	if err := xproto.CreateWindowChecked(
		xc, 0, bar, dw.win,
		0, 0, 1, 1,
		0, xproto.WindowClassCopyFromParent, 0,
		xproto.CwBackPixel,
		[]uint32{dw.barPixel()},
	).Check(); err != nil {
		return fmt.Errorf("failed to create bar window: %w", err)
	}
	dw.bar = bar

	for i := range icons {
		wid, err := xproto.NewWindowId(xc)
		if err != nil {
			return fmt.Errorf("failed to allocate icon window id: %w", err)
		}
		// Icon children always use the root visual: xgraphics pixmaps are
		// root-depth and the window they back must match. A child with a
		// visual differing from its parent has to supply its own border
		// pixel and colormap or the server answers BadMatch.
		if err := xproto.CreateWindowChecked(
			xc, screen.RootDepth, wid, dw.win,
			0, 0, 1, 1,
			0, xproto.WindowClassInputOutput, screen.RootVisual,
			xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwColormap,
			[]uint32{placeholderPixel, 0, uint32(screen.DefaultColormap)},
		).Check(); err != nil {
			return fmt.Errorf("failed to create icon window %d: %w", i, err)
		}
		dw.iconWins[i] = wid

		if icons[i].ImagePath == "" {
			continue
		}
		img, err := loadIconImage(xu, icons[i].ImagePath)
		if err != nil {
			dw.logger.Warn("Failed to load icon image",
				"icon", icons[i].Name,
				"path", icons[i].ImagePath,
				"error", err)
			continue
		}
		dw.sources[i] = img
	}

	// Dots are created after the icon windows so they stack above them.
	for i := range icons {
		wid, err := xproto.NewWindowId(xc)
		if err != nil {
			return fmt.Errorf("failed to allocate indicator window id: %w", err)
		}
		if err := xproto.CreateWindowChecked(
			xc, 0, wid, dw.win,
			0, 0, dotSize, dotSize,
			0, xproto.WindowClassCopyFromParent, 0,
			xproto.CwBackPixel,
			[]uint32{dw.dotPixelValue()},
		).Check(); err != nil {
			return fmt.Errorf("failed to create indicator window %d: %w", i, err)
		}
		dw.dotWins[i] = wid
	}

	return nil
}

// ApplyBar moves the bar background. Frames arriving while the dock is
// hidden are dropped; the solver keeps running but nothing on screen moves.
func (dw *DockWindow) ApplyBar(r anim.Rect) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.hidden {
		return
	}
	dw.configureLocked(dw.bar, r)
}

// ApplyIcon moves one icon window and repaints its bitmap when the size
// changed since the last frame.
func (dw *DockWindow) ApplyIcon(index int, r anim.Rect) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.hidden || index < 0 || index >= len(dw.iconWins) {
		return
	}
	dw.configureLocked(dw.iconWins[index], r)
	dw.repaintIconLocked(index, int(math.Round(r.Width)), int(math.Round(r.Height)))
}

// SetHidden switches between the full dock and the thin reveal strip.
func (dw *DockWindow) SetHidden(hidden bool) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.hidden == hidden {
		return
	}
	dw.hidden = hidden

	xc := dw.conn.XUtil.Conn()
	if hidden {
		xproto.UnmapWindow(xc, dw.bar)
		for _, w := range dw.iconWins {
			xproto.UnmapWindow(xc, w)
		}
		for _, w := range dw.dotWins {
			xproto.UnmapWindow(xc, w)
		}
	}
	dw.moveTopLevelLocked()
	if !hidden {
		xproto.MapWindow(xc, dw.bar)
		for _, w := range dw.iconWins {
			xproto.MapWindow(xc, w)
		}
		for i, w := range dw.dotWins {
			if dw.running[i] {
				xproto.MapWindow(xc, w)
			}
		}
	}
}

// SetRunning shows or hides the running indicator dot under one icon.
func (dw *DockWindow) SetRunning(index int, running bool) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if index < 0 || index >= len(dw.dotWins) {
		return
	}
	dw.running[index] = running
	if dw.hidden {
		return
	}
	if running {
		xproto.MapWindow(dw.conn.XUtil.Conn(), dw.dotWins[index])
	} else {
		xproto.UnmapWindow(dw.conn.XUtil.Conn(), dw.dotWins[index])
	}
}

// UpdateMonitor repositions the dock after a resolution or monitor change.
// Bar and icon geometry is re-solved by the caller; only the top level and
// the static dot positions move here.
func (dw *DockWindow) UpdateMonitor(mon Monitor) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.mon = mon
	dw.moveTopLevelLocked()
	dw.placeDotsLocked()
}

// Window returns the top-level window id for strut, event, and panel calls.
func (dw *DockWindow) Window() xproto.Window {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	return dw.win
}

// Destroy releases every X resource the dock owns. Children are destroyed
// with their parent.
func (dw *DockWindow) Destroy() {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	for i, img := range dw.scaled {
		if img != nil {
			img.Destroy()
			dw.scaled[i] = nil
		}
	}
	if dw.win != 0 {
		xproto.DestroyWindow(dw.conn.XUtil.Conn(), dw.win)
		dw.win = 0
	}
}

func (dw *DockWindow) configureLocked(win xproto.Window, r anim.Rect) {
	xproto.ConfigureWindow(dw.conn.XUtil.Conn(), win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{
			uint32(int(math.Round(r.X))),
			uint32(int(math.Round(r.Y))),
			dim(r.Width),
			dim(r.Height),
		})
}

// repaintIconLocked rescales the icon bitmap when the window size changed.
// Scaled images are cached per size, so a settled dock does no image work.
func (dw *DockWindow) repaintIconLocked(index, w, h int) {
	if dw.sources[index] == nil || w < 1 || h < 1 {
		return
	}
	if dw.lastSize[index] == w {
		return
	}

	img := dw.sources[index].Scale(w, h)
	flattenAlpha(img, dw.cfg.Appearance.BackgroundColor())
	if err := img.XSurfaceSet(dw.iconWins[index]); err != nil {
		dw.logger.Warn("Failed to set icon surface", "index", index, "error", err)
		img.Destroy()
		return
	}
	img.XDraw()
	img.XPaint(dw.iconWins[index])

	// The server keeps its own reference to a window's background pixmap,
	// so the previous image can be freed as soon as the new one is set.
	if old := dw.scaled[index]; old != nil {
		old.Destroy()
	}
	dw.scaled[index] = img
	dw.lastSize[index] = w
}

func (dw *DockWindow) moveTopLevelLocked() {
	x, y, w, h := dw.topGeometry()
	xproto.ConfigureWindow(dw.conn.XUtil.Conn(), dw.win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(x), uint32(y), uint32(w), uint32(h)})
}

func (dw *DockWindow) topGeometry() (x, y, w, h int) {
	if dw.hidden {
		return dw.mon.X, dw.mon.Bottom() - dw.strip, dw.mon.Width, dw.strip
	}
	return dw.mon.X, dw.mon.Bottom() - dw.winHeight, dw.mon.Width, dw.winHeight
}

// placeDotsLocked positions indicator dots under the base icon centers.
// Dots do not follow magnification; they mark slots, not moving icons.
func (dw *DockWindow) placeDotsLocked() {
	n := len(dw.dotWins)
	if n == 0 {
		return
	}
	base := layout.Solve(layout.Unit(n), &dw.cfg.Appearance, float64(dw.mon.Width), dw.cfg.Appearance.WindowHeight())
	y := int(math.Round(base.BarY+base.BarHeight)) - dotSize - 1
	for i, p := range base.Icons {
		x := int(math.Round(p.X+p.Width/2)) - dotSize/2
		xproto.ConfigureWindow(dw.conn.XUtil.Conn(), dw.dotWins[i],
			xproto.ConfigWindowX|xproto.ConfigWindowY,
			[]uint32{uint32(x), uint32(y)})
	}
}

func (dw *DockWindow) barPixel() uint32 {
	bg := dw.cfg.Appearance.BackgroundColor()
	if dw.argb {
		return premultiply(bg)
	}
	return bg.Pixel()
}

func (dw *DockWindow) dotPixelValue() uint32 {
	if dw.argb {
		return 0xff000000 | dotPixel
	}
	return dotPixel
}

// argbVisual finds a 32-bit TrueColor visual for translucent rendering.
func (c *Connection) argbVisual() (xproto.Visualid, bool) {
	for _, depth := range c.XUtil.Screen().AllowedDepths {
		if depth.Depth != 32 {
			continue
		}
		for _, vis := range depth.Visuals {
			if vis.Class == xproto.VisualClassTrueColor {
				return vis.VisualId, true
			}
		}
	}
	return 0, false
}

// premultiply converts a straight-alpha color to the premultiplied ARGB
// pixel format compositors expect.
func premultiply(c config.Color) uint32 {
	a := uint32(c.A)
	r := uint32(c.R) * a / 255
	g := uint32(c.G) * a / 255
	b := uint32(c.B) * a / 255
	return a<<24 | r<<16 | g<<8 | b
}

// flattenAlpha composites an icon over the bar background color in place.
// Icon windows are 24-bit, so transparent icon regions would otherwise show
// whatever bytes the alpha channel happened to land on.
func flattenAlpha(im *xgraphics.Image, bg config.Color) {
	for y := im.Rect.Min.Y; y < im.Rect.Max.Y; y++ {
		for x := im.Rect.Min.X; x < im.Rect.Max.X; x++ {
			i := im.PixOffset(x, y)
			a := uint32(im.Pix[i+3])
			if a == 0xff {
				continue
			}
			// Pixels are premultiplied BGRA; source-over needs only the
			// background's contribution added.
			im.Pix[i+0] = uint8(uint32(im.Pix[i+0]) + uint32(bg.B)*(255-a)/255)
			im.Pix[i+1] = uint8(uint32(im.Pix[i+1]) + uint32(bg.G)*(255-a)/255)
			im.Pix[i+2] = uint8(uint32(im.Pix[i+2]) + uint32(bg.R)*(255-a)/255)
			im.Pix[i+3] = 0xff
		}
	}
}

func loadIconImage(xu *xgbutil.XUtil, path string) (*xgraphics.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return xgraphics.NewConvert(xu, src), nil
}

// dim clamps a solved dimension to the X minimum of one pixel.
func dim(v float64) uint32 {
	d := int(math.Round(v))
	if d < 1 {
		d = 1
	}
	return uint32(d)
}
