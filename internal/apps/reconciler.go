package apps

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/1broseidon/docktile/internal/platform"
)

// Lister returns the currently running applications.
type Lister func() ([]platform.App, error)

// RunningSink receives running-state updates for dock icons by index.
type RunningSink interface {
	SetRunning(index int, running bool)
}

// ReconcilerConfig holds configuration for the running-app reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Commands []string // one launch command per icon, index-aligned
	Logger   *slog.Logger
}

// Reconciler periodically polls the window list and keeps each icon's
// running indicator in sync with reality. Windows are matched to icons by
// WM_CLASS: the class or instance must equal the lowercase binary name of
// the icon's launch command.
type Reconciler struct {
	interval time.Duration
	keys     []string
	sink     RunningSink
	list     Lister
	logger   *slog.Logger
}

// NewReconciler creates a reconciler for the given icon commands. The list
// function should return every normal application window.
func NewReconciler(cfg ReconcilerConfig, sink RunningSink, list Lister) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	keys := make([]string, len(cfg.Commands))
	for i, cmd := range cfg.Commands {
		keys[i] = CommandKey(cmd)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		keys:     keys,
		sink:     sink,
		list:     list,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
// One pass runs up front so indicators appear without waiting a full tick.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("app reconciler started", "interval", r.interval)

	r.reconcile()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("app reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single pass. A panic in the sink or lister is
// contained here; the polling loop must outlive a bad pass.
func (r *Reconciler) reconcile() {
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("app reconciler panic recovered", "error", err)
		}
	}()

	apps, err := r.list()
	if err != nil {
		r.logger.Error("app reconciler: failed to list windows", "error", err)
		return
	}

	running := RunningSet(apps)

	// The sink drops no-op updates, so pushing every index each pass is
	// cheap and keeps this loop stateless.
	for i, key := range r.keys {
		if key == "" {
			continue
		}
		r.sink.SetRunning(i, running[key])
	}
}

// RunningSet collects the identity keys of every running application. Both
// WM_CLASS halves go in; apps disagree about which one carries the binary
// name.
func RunningSet(apps []platform.App) map[string]bool {
	running := make(map[string]bool, len(apps))
	for _, app := range apps {
		if app.Class != "" {
			running[app.Class] = true
		}
		if app.Instance != "" {
			running[app.Instance] = true
		}
	}
	return running
}

// CommandKey reduces a launch command to the lowercase binary name windows
// are matched against. WM_CLASS conventionally carries exactly this.
func CommandKey(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(filepath.Base(fields[0]))
}
