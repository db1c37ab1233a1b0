package x11

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// PointerSink receives translated input events in dock window coordinates.
type PointerSink interface {
	PointerMoved(x float64)
	PointerLeft()
	Click(x, y float64) bool
}

// Events wires X input on the dock window to the interaction core. Leave
// delivery is one-shot: a leave fires only when armed since the last leave,
// and every pointer move re-arms it. Stray leaves while disarmed are
// swallowed here and never reach the sink.
type Events struct {
	conn           *Connection
	sink           PointerSink
	onScreenChange func()
	logger         *slog.Logger

	armed atomic.Bool
}

// NewEvents builds the event bridge. onScreenChange runs on the X event
// goroutine whenever the root window geometry changes; it may be nil. The
// sink arrives at Attach time so the interaction core can hold a reference
// to the bridge (for ArmLeave) before events start flowing.
func NewEvents(conn *Connection, onScreenChange func(), logger *slog.Logger) *Events {
	if logger == nil {
		logger = slog.Default()
	}
	return &Events{
		conn:           conn,
		onScreenChange: onScreenChange,
		logger:         logger,
	}
}

// ArmLeave marks the next leave event as deliverable.
func (e *Events) ArmLeave() {
	e.armed.Store(true)
}

// Attach connects handlers for the dock window and starts watching the root
// window for screen geometry changes.
func (e *Events) Attach(dockWin xproto.Window, sink PointerSink) error {
	e.sink = sink
	xu := e.conn.XUtil

	xevent.MotionNotifyFun(func(X *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		e.sink.PointerMoved(float64(ev.EventX))
	}).Connect(xu, dockWin)

	xevent.LeaveNotifyFun(func(X *xgbutil.XUtil, ev xevent.LeaveNotifyEvent) {
		// Crossing into a child (an icon window) reports NotifyInferior on
		// the parent; the pointer is still inside the dock.
		if ev.Detail == xproto.NotifyDetailInferior {
			return
		}
		if e.armed.CompareAndSwap(true, false) {
			e.sink.PointerLeft()
		}
	}).Connect(xu, dockWin)

	xevent.ButtonPressFun(func(X *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		if ev.Detail != 1 {
			return
		}
		e.sink.Click(float64(ev.EventX), float64(ev.EventY))
	}).Connect(xu, dockWin)

	// Resolution and monitor layout changes arrive as ConfigureNotify on
	// the root window.
	if err := xwindow.New(xu, e.conn.Root).Listen(xproto.EventMaskStructureNotify); err != nil {
		return fmt.Errorf("failed to listen on root window: %w", err)
	}
	xevent.ConfigureNotifyFun(func(X *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if ev.Window != e.conn.Root {
			return
		}
		e.logger.Debug("Root geometry changed", "width", ev.Width, "height", ev.Height)
		if e.onScreenChange != nil {
			e.onScreenChange()
		}
	}).Connect(xu, e.conn.Root)

	return nil
}
