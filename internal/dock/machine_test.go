package dock

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/1broseidon/docktile/internal/anim"
	"github.com/1broseidon/docktile/internal/config"
	"github.com/1broseidon/docktile/internal/platform"
)

type postedLayout struct {
	bar   anim.Rect
	icons []anim.Rect
}

type fakeAnimator struct {
	posts []postedLayout
	snaps []postedLayout
}

func (f *fakeAnimator) Post(bar anim.Rect, icons []anim.Rect) {
	f.posts = append(f.posts, postedLayout{bar: bar, icons: icons})
}

func (f *fakeAnimator) Snap(bar anim.Rect, icons []anim.Rect) {
	f.snaps = append(f.snaps, postedLayout{bar: bar, icons: icons})
}

func (f *fakeAnimator) lastPost() postedLayout { return f.posts[len(f.posts)-1] }
func (f *fakeAnimator) lastSnap() postedLayout { return f.snaps[len(f.snaps)-1] }

type runningCall struct {
	index   int
	running bool
}

type fakeRenderer struct {
	hiddenCalls  []bool
	runningCalls []runningCall
}

func (f *fakeRenderer) SetHidden(hidden bool) {
	f.hiddenCalls = append(f.hiddenCalls, hidden)
}

func (f *fakeRenderer) SetRunning(index int, running bool) {
	f.runningCalls = append(f.runningCalls, runningCall{index: index, running: running})
}

type fakeShell struct {
	ops        []string
	reserves   []platform.StripReservation
	releases   int
	panelHides int
	panelShows int

	reserveErr error
	releaseErr error
}

func (f *fakeShell) ReserveStrip(req platform.StripReservation) error {
	f.ops = append(f.ops, "reserve")
	if f.reserveErr != nil {
		return f.reserveErr
	}
	f.reserves = append(f.reserves, req)
	return nil
}

func (f *fakeShell) ReleaseStrip() error {
	f.ops = append(f.ops, "release")
	f.releases++
	return f.releaseErr
}

func (f *fakeShell) HidePanels() error {
	f.panelHides++
	return nil
}

func (f *fakeShell) ShowPanels() error {
	f.panelShows++
	return nil
}

type fakeArmer struct {
	arms int
}

func (f *fakeArmer) ArmLeave() { f.arms++ }

type fakeLauncher struct {
	launched []string
	err      error
}

func (f *fakeLauncher) Launch(path string) error {
	f.launched = append(f.launched, path)
	return f.err
}

type fixture struct {
	machine  *Machine
	anim     *fakeAnimator
	render   *fakeRenderer
	shell    *fakeShell
	armer    *fakeArmer
	launcher *fakeLauncher
	cfg      *config.Config
}

func testShortcuts(n int) []config.Shortcut {
	names := []string{"Browser", "Files", "Terminal", "Editor", "Mail", "Chat"}
	paths := []string{"firefox", "nautilus", "kitty", "code", "thunderbird", "slack"}
	out := make([]config.Shortcut, n)
	for i := 0; i < n; i++ {
		out[i] = config.Shortcut{Name: names[i%len(names)], Path: paths[i%len(paths)]}
	}
	return out
}

func testDisplay() platform.Display {
	return platform.Display{
		ID:      0,
		Name:    "eDP-1",
		Bounds:  platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		Scale:   1,
		Primary: true,
	}
}

func newFixture(t *testing.T, mutate func(*config.Config)) *fixture {
	t.Helper()

	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}

	f := &fixture{
		anim:     &fakeAnimator{},
		render:   &fakeRenderer{},
		shell:    &fakeShell{},
		armer:    &fakeArmer{},
		launcher: &fakeLauncher{},
		cfg:      cfg,
	}
	f.machine = NewMachine(MachineConfig{
		Config:   cfg,
		Icons:    BuildIcons(testShortcuts(5), &cfg.Appearance, nil),
		Display:  testDisplay(),
		Anim:     f.anim,
		Render:   f.render,
		Shell:    f.shell,
		Armer:    f.armer,
		Launcher: f.launcher,
		Logger:   slog.New(slog.DiscardHandler),
	})
	return f
}

func TestActivateSnapsInitialLayoutAndReserves(t *testing.T) {
	f := newFixture(t, nil)
	f.machine.Activate()

	if len(f.anim.snaps) != 1 {
		t.Fatalf("expected 1 initial snap, got %d", len(f.anim.snaps))
	}
	// 5 icons at scale 1: content 5*48 + 4*10 = 280, bar 280+24 = 304,
	// centered in 1920.
	snap := f.anim.lastSnap()
	if snap.bar.Width != 304 {
		t.Errorf("expected initial bar width 304, got %v", snap.bar.Width)
	}
	if snap.bar.X != 808 {
		t.Errorf("expected initial bar x 808, got %v", snap.bar.X)
	}

	if !f.machine.Reserved() {
		t.Error("expected an active reservation after activate")
	}
	if len(f.shell.reserves) != 1 {
		t.Fatalf("expected 1 reservation request, got %d", len(f.shell.reserves))
	}
	req := f.shell.reserves[0]
	if req.Height != 82 || req.X != 0 || req.Width != 1920 {
		t.Errorf("expected reservation 82px over 0..1920, got %+v", req)
	}
	if f.shell.panelHides != 1 {
		t.Errorf("expected native panels hidden once, got %d", f.shell.panelHides)
	}
}

func TestActivateLeavesPanelsAloneWhenDisabled(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Behavior.HidePanel = false })
	f.machine.Activate()

	if f.shell.panelHides != 0 {
		t.Errorf("expected no panel hide, got %d", f.shell.panelHides)
	}
}

func TestPointerMovedMagnifiesAndArmsLeave(t *testing.T) {
	f := newFixture(t, nil)
	f.machine.Activate()

	centers := centersOf(f.machine)
	f.machine.PointerMoved(centers[2])

	if got := f.machine.Phase(); got != PhaseMagnified {
		t.Fatalf("expected phase %v, got %v", PhaseMagnified, got)
	}
	if f.armer.arms != 1 {
		t.Fatalf("expected 1 leave arm, got %d", f.armer.arms)
	}
	if len(f.anim.posts) != 1 {
		t.Fatalf("expected 1 animated post, got %d", len(f.anim.posts))
	}

	// Pointer dead center on icon 2: that icon reaches full magnification.
	wantW := f.cfg.Appearance.MaxScale * f.cfg.Appearance.IconSize
	got := f.anim.lastPost().icons[2].Width
	if got != wantW {
		t.Errorf("expected icon 2 width %v, got %v", wantW, got)
	}

	icons := f.machine.Icons()
	if icons[2].TargetScale != f.cfg.Appearance.MaxScale {
		t.Errorf("expected target scale %v, got %v", f.cfg.Appearance.MaxScale, icons[2].TargetScale)
	}
	if icons[2].CurrentScale != 1 {
		t.Errorf("expected current scale 1 before the transition, got %v", icons[2].CurrentScale)
	}
}

func TestEveryPointerMoveReArmsLeave(t *testing.T) {
	f := newFixture(t, nil)
	f.machine.Activate()

	f.machine.PointerMoved(900)
	f.machine.PointerMoved(910)
	f.machine.PointerMoved(920)

	if f.armer.arms != 3 {
		t.Errorf("expected one arm per move (3), got %d", f.armer.arms)
	}
	if len(f.anim.posts) != 3 {
		t.Errorf("expected 3 posts, got %d", len(f.anim.posts))
	}
}

func TestPointerLeftReturnsToIdle(t *testing.T) {
	f := newFixture(t, nil)
	f.machine.Activate()

	f.machine.PointerMoved(960)
	f.machine.PointerLeft()

	if got := f.machine.Phase(); got != PhaseIdle {
		t.Fatalf("expected phase %v, got %v", PhaseIdle, got)
	}
	for i, r := range f.anim.lastPost().icons {
		if r.Width != f.cfg.Appearance.IconSize {
			t.Errorf("icon %d: expected width back to %v, got %v", i, f.cfg.Appearance.IconSize, r.Width)
		}
	}

	icons := f.machine.Icons()
	if icons[2].TargetScale != 1 {
		t.Errorf("expected target scale 1 after leave, got %v", icons[2].TargetScale)
	}
}

func TestStrayLeaveWhileIdleIsHarmless(t *testing.T) {
	f := newFixture(t, nil)
	f.machine.Activate()

	f.machine.PointerLeft()
	f.machine.PointerLeft()

	if got := f.machine.Phase(); got != PhaseIdle {
		t.Errorf("expected phase %v, got %v", PhaseIdle, got)
	}
}

func TestGeometryChangeReleasesBeforeReserving(t *testing.T) {
	f := newFixture(t, nil)
	f.machine.Activate()

	f.machine.ScreenGeometryChanged(platform.Display{
		ID:      1,
		Name:    "DP-2",
		Bounds:  platform.Rect{X: 0, Y: 0, Width: 2560, Height: 1440},
		Scale:   1.5,
		Primary: true,
	})

	ops := f.shell.ops
	if len(ops) != 3 || ops[0] != "reserve" || ops[1] != "release" || ops[2] != "reserve" {
		t.Fatalf("expected reserve, release, reserve; got %v", ops)
	}

	// ceil(82 * 1.5) = 123 device pixels on the scaled display.
	req := f.shell.reserves[len(f.shell.reserves)-1]
	if req.Height != 123 || req.Width != 2560 {
		t.Errorf("expected reservation 123px over 2560, got %+v", req)
	}
}

func TestGeometryChangePreservesMagnification(t *testing.T) {
	f := newFixture(t, nil)
	f.machine.Activate()

	centers := centersOf(f.machine)
	f.machine.PointerMoved(centers[2])

	f.machine.ScreenGeometryChanged(platform.Display{
		Name:    "DP-2",
		Bounds:  platform.Rect{X: 0, Y: 0, Width: 2560, Height: 1440},
		Scale:   1,
		Primary: true,
	})

	if got := f.machine.Phase(); got != PhaseMagnified {
		t.Fatalf("expected phase %v after geometry change, got %v", PhaseMagnified, got)
	}
	// The re-solve still uses the last pointer position, so some icon is
	// magnified beyond its base width in the snapped layout.
	snap := f.anim.lastSnap()
	magnified := false
	for _, r := range snap.icons {
		if r.Width > f.cfg.Appearance.IconSize {
			magnified = true
		}
	}
	if !magnified {
		t.Error("expected the snapped layout to keep the pointer magnification")
	}
}

func TestReservationFailureIsNonFatal(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.reserveErr = errors.New("no strut support")

	f.machine.Activate()

	if f.machine.Reserved() {
		t.Fatal("expected no reservation after refusal")
	}

	// The dock still solves and animates.
	f.machine.PointerMoved(960)
	if len(f.anim.posts) != 1 {
		t.Errorf("expected animation to proceed unreserved, got %d posts", len(f.anim.posts))
	}
	if got := f.machine.Phase(); got != PhaseMagnified {
		t.Errorf("expected phase %v, got %v", PhaseMagnified, got)
	}
}

func TestHiddenReleasesReservationAndRestoresOnShow(t *testing.T) {
	f := newFixture(t, nil)
	f.machine.Activate()
	initial := f.shell.reserves[0]

	f.machine.SetHidden(true)

	if f.machine.Reserved() {
		t.Fatal("expected hidden dock to hold no reservation")
	}
	if f.shell.releases != 1 {
		t.Errorf("expected 1 release on hide, got %d", f.shell.releases)
	}
	if n := len(f.render.hiddenCalls); n == 0 || !f.render.hiddenCalls[n-1] {
		t.Error("expected renderer switched to hidden")
	}

	f.machine.SetHidden(false)

	if !f.machine.Reserved() {
		t.Fatal("expected reservation back after show")
	}
	again := f.shell.reserves[len(f.shell.reserves)-1]
	if again != initial {
		t.Errorf("expected an equivalent reservation %+v, got %+v", initial, again)
	}
	// Un-hiding snaps the full-height bar back.
	if got := f.anim.lastSnap().bar.Height; got != f.cfg.Appearance.BarHeight() {
		t.Errorf("expected bar height %v restored, got %v", f.cfg.Appearance.BarHeight(), got)
	}
}

func TestSetHiddenSameValueIsNoOp(t *testing.T) {
	f := newFixture(t, nil)
	f.machine.Activate()
	calls := len(f.render.hiddenCalls)

	f.machine.SetHidden(false)

	if len(f.render.hiddenCalls) != calls {
		t.Errorf("expected no renderer call, got %d new", len(f.render.hiddenCalls)-calls)
	}
}

func TestToggleHiddenReportsNewValue(t *testing.T) {
	f := newFixture(t, nil)
	f.machine.Activate()

	if got := f.machine.ToggleHidden(); !got {
		t.Fatal("expected toggle to report hidden")
	}
	if got := f.machine.ToggleHidden(); got {
		t.Fatal("expected second toggle to report shown")
	}
}

func TestStartHiddenSkipsReservation(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Behavior.StartHidden = true })
	f.machine.Activate()

	if len(f.shell.reserves) != 0 {
		t.Errorf("expected no reservation while starting hidden, got %d", len(f.shell.reserves))
	}
	if n := len(f.render.hiddenCalls); n == 0 || !f.render.hiddenCalls[0] {
		t.Error("expected renderer hidden from the start")
	}
}

func TestReserveSpaceDisabledNeverReserves(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Behavior.ReserveSpace = false })
	f.machine.Activate()
	f.machine.SetHidden(true)
	f.machine.SetHidden(false)

	if len(f.shell.reserves) != 0 {
		t.Errorf("expected no reservation requests, got %d", len(f.shell.reserves))
	}
}

func TestClickResolvesAgainstBaseLayout(t *testing.T) {
	f := newFixture(t, nil)
	f.machine.Activate()

	// Magnify hard at the far left so the animated layout shifts right of
	// the base one.
	centers := centersOf(f.machine)
	f.machine.PointerMoved(centers[0])

	base := f.machine.BaseLayout()
	x := base.Icons[3].X + base.Icons[3].Width/2
	y := base.Icons[3].Y + base.Icons[3].Height/2

	if !f.machine.Click(x, y) {
		t.Fatal("expected click on icon 3 to hit")
	}
	if len(f.launcher.launched) != 1 || f.launcher.launched[0] != "code" {
		t.Fatalf("expected launch of %q, got %v", "code", f.launcher.launched)
	}
}

func TestClickInGapMisses(t *testing.T) {
	f := newFixture(t, nil)
	f.machine.Activate()

	base := f.machine.BaseLayout()
	gapX := base.Icons[0].X + base.Icons[0].Width + 5
	y := base.Icons[0].Y + 10

	if f.machine.Click(gapX, y) {
		t.Fatal("expected click in the spacing gap to miss")
	}
	if len(f.launcher.launched) != 0 {
		t.Errorf("expected no launch, got %v", f.launcher.launched)
	}
}

func TestClickWhileHiddenRevealsInsteadOfLaunching(t *testing.T) {
	f := newFixture(t, nil)
	f.machine.Activate()
	f.machine.SetHidden(true)

	base := f.machine.BaseLayout()
	cx := base.Icons[1].X + base.Icons[1].Width/2
	cy := base.Icons[1].Y + base.Icons[1].Height/2

	if !f.machine.Click(cx, cy) {
		t.Fatal("expected click on the hidden strip to be consumed")
	}
	if f.machine.Hidden() {
		t.Error("expected click to reveal the dock")
	}
	if len(f.launcher.launched) != 0 {
		t.Errorf("expected no launch from a reveal click, got %v", f.launcher.launched)
	}

	// The next click lands on a visible dock and launches normally.
	if !f.machine.Click(cx, cy) {
		t.Fatal("expected click on icon 1 to hit")
	}
	if len(f.launcher.launched) != 1 || f.launcher.launched[0] != "nautilus" {
		t.Errorf("expected nautilus launch, got %v", f.launcher.launched)
	}
}

func TestClickToleratesLaunchFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.machine.Activate()
	f.launcher.err = errors.New("exec format error")

	base := f.machine.BaseLayout()
	x := base.Icons[1].X + 1
	y := base.Icons[1].Y + 1

	if !f.machine.Click(x, y) {
		t.Fatal("expected the hit to be reported despite the launch failure")
	}
}

func TestSetRunningUpdatesIconAndRenderer(t *testing.T) {
	f := newFixture(t, nil)
	f.machine.Activate()

	f.machine.SetRunning(2, true)
	if !f.machine.Icons()[2].Running {
		t.Fatal("expected icon 2 marked running")
	}
	if len(f.render.runningCalls) != 1 || f.render.runningCalls[0] != (runningCall{index: 2, running: true}) {
		t.Fatalf("expected one running call for icon 2, got %v", f.render.runningCalls)
	}

	// Same value again: no renderer churn.
	f.machine.SetRunning(2, true)
	if len(f.render.runningCalls) != 1 {
		t.Errorf("expected no duplicate call, got %d", len(f.render.runningCalls))
	}

	// Out of range: ignored.
	f.machine.SetRunning(99, true)
	f.machine.SetRunning(-1, true)
	if len(f.render.runningCalls) != 1 {
		t.Errorf("expected out-of-range updates ignored, got %d calls", len(f.render.runningCalls))
	}
}

func TestTeardownIsUnconditionalAndIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.reserveErr = errors.New("no strut support")
	f.machine.Activate()

	// Even after a failed reservation, teardown releases and restores.
	f.machine.Teardown()
	if f.shell.releases != 1 {
		t.Errorf("expected 1 release, got %d", f.shell.releases)
	}
	if f.shell.panelShows != 1 {
		t.Errorf("expected panels restored once, got %d", f.shell.panelShows)
	}

	// A second teardown must not fail, even if release now errors.
	f.shell.releaseErr = errors.New("connection closed")
	f.machine.Teardown()
	if f.shell.releases != 2 {
		t.Errorf("expected release attempted again, got %d", f.shell.releases)
	}
}

func TestZeroIconsStillSolve(t *testing.T) {
	cfg := config.DefaultConfig()
	f := &fixture{
		anim:     &fakeAnimator{},
		render:   &fakeRenderer{},
		shell:    &fakeShell{},
		armer:    &fakeArmer{},
		launcher: &fakeLauncher{},
		cfg:      cfg,
	}
	f.machine = NewMachine(MachineConfig{
		Config:   cfg,
		Icons:    nil,
		Display:  testDisplay(),
		Anim:     f.anim,
		Render:   f.render,
		Shell:    f.shell,
		Armer:    f.armer,
		Launcher: f.launcher,
		Logger:   slog.New(slog.DiscardHandler),
	})

	f.machine.Activate()
	f.machine.PointerMoved(960)
	f.machine.PointerLeft()

	// Empty bar: just the two horizontal paddings.
	if got := f.anim.lastPost().bar.Width; got != 2*cfg.Appearance.BarPaddingH {
		t.Errorf("expected empty bar width %v, got %v", 2*cfg.Appearance.BarPaddingH, got)
	}
	if f.machine.Click(960, 1070) {
		t.Error("expected no hit with zero icons")
	}
}

func centersOf(m *Machine) []float64 {
	base := m.BaseLayout()
	centers := make([]float64, len(base.Icons))
	for i, ic := range base.Icons {
		centers[i] = ic.X + ic.Width/2
	}
	return centers
}
