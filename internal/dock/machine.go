package dock

import (
	"log/slog"
	"sync"

	"github.com/1broseidon/docktile/internal/anim"
	"github.com/1broseidon/docktile/internal/config"
	"github.com/1broseidon/docktile/internal/layout"
	"github.com/1broseidon/docktile/internal/platform"
)

// Animator receives solved geometry. Post animates toward it, Snap applies
// it immediately. *anim.Driver satisfies this.
type Animator interface {
	Post(bar anim.Rect, icons []anim.Rect)
	Snap(bar anim.Rect, icons []anim.Rect)
}

// Renderer covers the render-side switches that are not animated geometry.
// While hidden, the renderer shows only a thin strip and ignores geometry
// frames; running markers toggle independently of layout.
type Renderer interface {
	SetHidden(hidden bool)
	SetRunning(index int, running bool)
}

// Shell is the host-shell surface the dock coordinates with: screen-space
// reservation plus native panel visibility. platform.Backend satisfies it.
// Release must be idempotent when nothing is reserved.
type Shell interface {
	ReserveStrip(req platform.StripReservation) error
	ReleaseStrip() error
	HidePanels() error
	ShowPanels() error
}

// LeaveArmer asks the event source to deliver exactly one subsequent
// pointer-leave notification. The machine re-arms it on every pointer move.
type LeaveArmer interface {
	ArmLeave()
}

// Launcher starts an application without waiting for it to exit.
type Launcher interface {
	Launch(path string) error
}

// MachineConfig wires a Machine to its collaborators.
type MachineConfig struct {
	Config   *config.Config
	Icons    []Icon
	Display  platform.Display
	Anim     Animator
	Render   Renderer
	Shell    Shell
	Armer    LeaveArmer
	Launcher Launcher
	Logger   *slog.Logger
}

// Machine is the dock's interaction state machine and reservation
// coordinator. Every event funnels through it and it is the State's only
// writer. All event entry points are dispatched from one event loop; the
// lock exists for the multiple callback entry points, not for parallelism,
// and is never held across a call that could re-enter the loop.
type Machine struct {
	mu     sync.Mutex
	cfg    *config.Config
	logger *slog.Logger

	state *State

	// Unit-scale geometry for the current display: hit-testing resolves
	// against baseLayout, and centers feeds magnification. Rebuilt only on
	// geometry change.
	baseLayout layout.DockLayout
	centers    []float64
	last       layout.DockLayout

	anim     Animator
	render   Renderer
	shell    Shell
	armer    LeaveArmer
	launcher Launcher
}

// NewMachine creates the machine with a finalized icon set. Nothing touches
// the shell or the renderer until Activate.
func NewMachine(mc MachineConfig) *Machine {
	m := &Machine{
		cfg:      mc.Config,
		logger:   mc.Logger,
		state:    NewState(mc.Icons, mc.Display, mc.Config.Behavior.StartHidden),
		anim:     mc.Anim,
		render:   mc.Render,
		shell:    mc.Shell,
		armer:    mc.Armer,
		launcher: mc.Launcher,
	}
	m.rebuildBaseLocked()
	m.last = m.baseLayout
	return m
}

// Activate puts the dock on screen: hides native panels when configured,
// issues the initial reservation, and snaps the first layout.
func (m *Machine) Activate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg.Behavior.HidePanel {
		if err := m.shell.HidePanels(); err != nil {
			m.logger.Warn("panel hide failed", "error", err)
		}
	}
	m.render.SetHidden(m.state.Hidden)
	for _, ic := range m.state.Icons {
		if ic.Running {
			m.render.SetRunning(ic.Index, true)
		}
	}
	m.reserveLocked()
	m.applyLocked(false)

	m.logger.Info("dock activated",
		"icons", len(m.state.Icons),
		"display", m.state.Display.Name,
		"hidden", m.state.Hidden)
}

// PointerMoved handles a pointer position over the dock window. The dock
// becomes (or stays) magnified and the leave notification is re-armed; the
// event source owes exactly one PointerLeft per arm.
func (m *Machine) PointerMoved(x float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Phase = PhaseMagnified
	m.state.PointerX = x
	m.applyLocked(true)
	m.armer.ArmLeave()
}

// PointerLeft returns the dock to idle. Idempotent: a stray leave while
// already idle is a fresh identity solve and nothing else.
func (m *Machine) PointerLeft() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Phase = PhaseIdle
	m.applyLocked(true)
}

// ScreenGeometryChanged records new display geometry, re-solves in the
// current phase (keeping the last pointer position if magnified), and
// re-issues the reservation since the strut thickness follows DPI.
func (m *Machine) ScreenGeometryChanged(d platform.Display) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Display = d
	m.rebuildBaseLocked()
	m.applyLocked(false)
	m.reserveLocked()

	m.logger.Info("display geometry changed",
		"display", d.Name,
		"width", d.Bounds.Width,
		"height", d.Bounds.Height,
		"scale", d.Scale)
}

// SetHidden collapses the dock to its thin strip or restores it.
func (m *Machine) SetHidden(hidden bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setHiddenLocked(hidden)
}

// ToggleHidden flips compact mode and reports the new value.
func (m *Machine) ToggleHidden() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setHiddenLocked(!m.state.Hidden)
	return m.state.Hidden
}

func (m *Machine) setHiddenLocked(hidden bool) {
	if m.state.Hidden == hidden {
		return
	}
	m.state.Hidden = hidden
	m.render.SetHidden(hidden)

	// A hidden dock reserves no screen space; un-hiding re-requests the
	// same strip as before.
	m.reserveLocked()

	if !hidden {
		m.applyLocked(false)
	}

	m.logger.Info("dock hidden toggled", "hidden", hidden)
}

// Click hit-tests a press against the un-magnified base layout and launches
// the hit icon. Animation state never shifts what a click lands on. Reports
// whether an icon was hit and the launch attempted. While the dock is
// hidden, any click reveals it instead of launching.
func (m *Machine) Click(x, y float64) bool {
	m.mu.Lock()
	if m.state.Hidden {
		m.setHiddenLocked(false)
		m.mu.Unlock()
		return true
	}
	idx, ok := layout.HitTest(m.baseLayout, x, y)
	var name, path string
	if ok {
		name = m.state.Icons[idx].Name
		path = m.state.Icons[idx].Path
	}
	m.mu.Unlock()

	if !ok {
		return false
	}

	// Launch without the lock; spawning does I/O.
	if err := m.launcher.Launch(path); err != nil {
		m.logger.Warn("launch failed", "name", name, "path", path, "error", err)
		return true
	}
	m.logger.Info("launched", "name", name)
	return true
}

// SetRunning updates one icon's running marker.
func (m *Machine) SetRunning(index int, running bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.state.Icons) {
		return
	}
	if m.state.Icons[index].Running == running {
		return
	}
	m.state.Icons[index].Running = running
	m.render.SetRunning(index, running)
}

// Teardown releases the reservation and restores the native panels. It runs
// unconditionally on shutdown, succeeds even when earlier reservation
// attempts failed, and is safe to call more than once.
func (m *Machine) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.shell.ReleaseStrip(); err != nil {
		m.logger.Warn("reservation release failed", "error", err)
	}
	m.state.Reserved = false

	if m.cfg.Behavior.HidePanel {
		if err := m.shell.ShowPanels(); err != nil {
			m.logger.Warn("panel restore failed", "error", err)
		}
	}

	m.logger.Info("dock torn down")
}

// reserveLocked reconciles the strip reservation with the current state. Any
// live registration is released first, so at most one exists at a time; a
// refused registration logs and leaves the dock unreserved but fully
// interactive.
func (m *Machine) reserveLocked() {
	if m.state.Reserved {
		if err := m.shell.ReleaseStrip(); err != nil {
			m.logger.Warn("reservation release failed", "error", err)
		}
		m.state.Reserved = false
	}

	if m.state.Hidden || !m.cfg.Behavior.ReserveSpace {
		return
	}

	req := platform.StripReservation{
		Height: m.cfg.Behavior.ReservePx(m.state.Display.Scale),
		X:      m.state.Display.Bounds.X,
		Width:  m.state.Display.Bounds.Width,
	}
	if err := m.shell.ReserveStrip(req); err != nil {
		m.logger.Warn("screen reservation failed", "error", err, "height", req.Height)
		return
	}
	m.state.Reserved = true
}

// applyLocked solves the layout for the current phase and hands it to the
// animation driver: animated for pointer transitions, snapped for geometry
// and visibility changes.
func (m *Machine) applyLocked(animate bool) {
	scales := m.scalesLocked()
	l := layout.Solve(scales, &m.cfg.Appearance,
		float64(m.state.Display.Bounds.Width), m.cfg.Appearance.WindowHeight())

	for i := range m.state.Icons {
		m.state.Icons[i].CurrentScale = m.state.Icons[i].TargetScale
		m.state.Icons[i].TargetScale = scales[i]
	}
	m.last = l

	bar, icons := animRects(l)
	if animate {
		m.anim.Post(bar, icons)
	} else {
		m.anim.Snap(bar, icons)
	}
}

func (m *Machine) scalesLocked() []float64 {
	if m.state.Phase == PhaseMagnified {
		return layout.Magnify(m.centers, m.state.PointerX, &m.cfg.Appearance)
	}
	return layout.Unit(len(m.state.Icons))
}

func (m *Machine) rebuildBaseLocked() {
	n := len(m.state.Icons)
	m.baseLayout = layout.Solve(layout.Unit(n), &m.cfg.Appearance,
		float64(m.state.Display.Bounds.Width), m.cfg.Appearance.WindowHeight())
	m.centers = layout.Centers(m.baseLayout)
}

func animRects(l layout.DockLayout) (anim.Rect, []anim.Rect) {
	bar := anim.Rect{X: l.BarX, Y: l.BarY, Width: l.BarWidth, Height: l.BarHeight}
	icons := make([]anim.Rect, len(l.Icons))
	for i, p := range l.Icons {
		icons[i] = anim.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
	}
	return bar, icons
}

// Phase reports the current interaction phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Phase
}

// Hidden reports whether compact mode is active.
func (m *Machine) Hidden() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Hidden
}

// Reserved reports whether a strip reservation is currently registered.
func (m *Machine) Reserved() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Reserved
}

// Icons returns a snapshot of the icon sequence.
func (m *Machine) Icons() []Icon {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Icon, len(m.state.Icons))
	copy(out, m.state.Icons)
	return out
}

// Layout returns the most recently solved layout.
func (m *Machine) Layout() layout.DockLayout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// BaseLayout returns the unit-scale layout for the current display.
func (m *Machine) BaseLayout() layout.DockLayout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseLayout
}

// Display returns the last known display geometry.
func (m *Machine) Display() platform.Display {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Display
}
