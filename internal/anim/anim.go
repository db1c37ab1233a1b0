package anim

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultFrameInterval is the frame pump period, roughly 60 frames/second.
const DefaultFrameInterval = time.Second / 60

// Rect is the animated geometry of one visual in window coordinates.
// Size changes encode scale; there is no separate scale channel at this
// level.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Sink receives interpolated frames. Implementations apply them to whatever
// is on screen; they must not call back into the Driver.
type Sink interface {
	ApplyBar(Rect)
	ApplyIcon(index int, r Rect)
}

// register is the per-visual last-write-wins slot. Posting a new target
// overwrites whatever transition is in flight; nothing queues behind it.
type register struct {
	active     bool
	start      Rect
	target     Rect
	startedAt  time.Time
	current    Rect
	hasCurrent bool
}

// Driver turns layout deltas into short geometry transitions. Post is
// fire-and-forget: it records targets and returns; the frame pump in Run
// interpolates toward the most recent target of each visual. Completion is
// never reported back to the caller.
type Driver struct {
	mu       sync.Mutex
	duration time.Duration
	interval time.Duration
	sink     Sink
	logger   *slog.Logger

	bar   register
	icons []register
}

// NewDriver creates a driver for one bar and iconCount icon visuals.
// The icon count is fixed for the driver's lifetime, matching the dock's
// finalized icon set.
func NewDriver(sink Sink, iconCount int, duration time.Duration, logger *slog.Logger) *Driver {
	if duration < 0 {
		duration = 0
	}
	return &Driver{
		duration: duration,
		interval: DefaultFrameInterval,
		sink:     sink,
		logger:   logger,
		icons:    make([]register, iconCount),
	}
}

// Post replaces the in-flight transition of every visual with a transition
// from its current geometry to the given targets. Last write wins; rapid
// calls never queue.
func (d *Driver) Post(bar Rect, icons []Rect) {
	d.postAt(bar, icons, time.Now())
}

func (d *Driver) postAt(bar Rect, icons []Rect, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.postLocked(&d.bar, bar, now)
	for i := range icons {
		if i >= len(d.icons) {
			d.logger.Warn("animation target beyond icon count", "index", i, "icons", len(d.icons))
			break
		}
		d.postLocked(&d.icons[i], icons[i], now)
	}
}

// Snap applies the given geometry immediately, cancelling any in-flight
// transitions. Used for the initial show and for non-animated re-layouts.
func (d *Driver) Snap(bar Rect, icons []Rect) {
	d.mu.Lock()
	d.snapLocked(&d.bar, bar)
	for i := range icons {
		if i >= len(d.icons) {
			break
		}
		d.snapLocked(&d.icons[i], icons[i])
	}
	d.mu.Unlock()

	// Emit outside the lock; the sink may do X round trips.
	d.sink.ApplyBar(bar)
	for i := range icons {
		if i >= len(d.icons) {
			break
		}
		d.sink.ApplyIcon(i, icons[i])
	}
}

func (d *Driver) postLocked(r *register, target Rect, now time.Time) {
	if !r.hasCurrent || d.duration == 0 {
		// Nothing on screen yet (or animations disabled): land immediately
		// on the next frame.
		r.start = target
		r.current = target
		r.hasCurrent = true
		r.target = target
		r.startedAt = now
		r.active = true
		return
	}
	if !r.active && r.current == target {
		return
	}
	r.start = r.current
	r.target = target
	r.startedAt = now
	r.active = true
}

func (d *Driver) snapLocked(r *register, target Rect) {
	r.active = false
	r.start = target
	r.target = target
	r.current = target
	r.hasCurrent = true
}

// Run drives frames until the context is cancelled. It is the only goroutine
// that touches the sink concurrently with Snap, and it holds the register
// lock only while computing frames, never while applying them.
func (d *Driver) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Debug("animation driver started", "duration", d.duration, "interval", d.interval)

	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("animation driver stopped")
			return
		case now := <-ticker.C:
			d.step(now)
		}
	}
}

type frame struct {
	icon int // -1 for the bar
	rect Rect
}

// step advances every active transition to now and applies the resulting
// frames. Separated from Run so tests can drive time explicitly.
func (d *Driver) step(now time.Time) {
	d.mu.Lock()
	frames := make([]frame, 0, 1+len(d.icons))
	if r, ok := stepRegister(&d.bar, now, d.duration); ok {
		frames = append(frames, frame{icon: -1, rect: r})
	}
	for i := range d.icons {
		if r, ok := stepRegister(&d.icons[i], now, d.duration); ok {
			frames = append(frames, frame{icon: i, rect: r})
		}
	}
	d.mu.Unlock()

	for _, f := range frames {
		if f.icon < 0 {
			d.sink.ApplyBar(f.rect)
		} else {
			d.sink.ApplyIcon(f.icon, f.rect)
		}
	}
}

func stepRegister(r *register, now time.Time, duration time.Duration) (Rect, bool) {
	if !r.active {
		return Rect{}, false
	}

	p := 1.0
	if duration > 0 {
		p = float64(now.Sub(r.startedAt)) / float64(duration)
	}
	// A degenerate transition (start == target) lands in one frame instead
	// of re-emitting the same rect until the clock runs out.
	if p >= 1 || r.start == r.target {
		r.active = false
		r.current = r.target
		return r.target, true
	}
	if p < 0 {
		p = 0
	}

	r.current = lerpRect(r.start, r.target, p)
	return r.current, true
}

func lerpRect(a, b Rect, p float64) Rect {
	return Rect{
		X:      a.X + (b.X-a.X)*p,
		Y:      a.Y + (b.Y-a.Y)*p,
		Width:  a.Width + (b.Width-a.Width)*p,
		Height: a.Height + (b.Height-a.Height)*p,
	}
}
