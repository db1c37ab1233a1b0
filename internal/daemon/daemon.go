// Package daemon wires the dock together and owns its lifecycle: it loads
// the configuration, builds the window tree and the interaction machine,
// starts the animation and reconciliation goroutines, and runs the X event
// loop until a termination signal arrives.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/docktile/internal/anim"
	"github.com/1broseidon/docktile/internal/apps"
	"github.com/1broseidon/docktile/internal/config"
	"github.com/1broseidon/docktile/internal/dock"
	"github.com/1broseidon/docktile/internal/hotkeys"
	"github.com/1broseidon/docktile/internal/icons"
	"github.com/1broseidon/docktile/internal/launcher"
	"github.com/1broseidon/docktile/internal/platform"
	"github.com/1broseidon/docktile/internal/x11"
)

// Run starts the dock in the foreground and blocks until shutdown. SIGHUP
// tears the dock down and rebuilds it from a fresh config read; shortcut
// changes need a new window tree, so reload is a rebuild rather than an
// in-place update.
func Run(configPath string) error {
	for {
		restart, err := runOnce(configPath)
		if err != nil {
			return err
		}
		if !restart {
			return nil
		}
	}
}

// runOnce builds and runs one dock incarnation. It reports restart=true when
// the event loop was stopped by SIGHUP and the caller should go again.
func runOnce(configPath string) (restart bool, err error) {
	path, err := config.ResolvePath(configPath)
	if err != nil {
		return false, err
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return false, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))

	if cfg.Pinned.GetEnabled() {
		if dir, derr := cfg.PinnedDir(); derr == nil {
			extra, perr := config.DiscoverPinned(dir)
			if perr != nil {
				logger.Warn("pinned discovery failed", "dir", dir, "error", perr)
			} else if len(extra) > 0 {
				cfg.AppendPinned(extra)
				logger.Info("pinned shortcuts discovered", "dir", dir, "count", len(extra))
			}
		}
	}

	shortcuts := cfg.Shortcuts()
	logger.Info("configuration loaded", "path", path, "shortcuts", len(shortcuts), "toggle_hotkey", cfg.ToggleHotkey)
	if len(shortcuts) == 0 {
		logger.Warn("no shortcuts configured, the bar will be empty")
	}

	// Some session managers start us before the environment is complete.
	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}

	conn, err := x11.NewConnection(cfg.Display)
	if err != nil {
		return false, fmt.Errorf("failed to connect to display: %w", err)
	}
	backend := platform.NewLinuxBackend(conn)
	defer backend.Disconnect()

	mon, err := conn.PrimaryMonitor()
	if err != nil {
		return false, fmt.Errorf("failed to resolve primary monitor: %w", err)
	}
	disp, err := backend.PrimaryDisplay()
	if err != nil {
		return false, err
	}

	provider := icons.NewProvider(logger)
	dockIcons := dock.BuildIcons(shortcuts, &cfg.Appearance, provider.Resolve)
	visuals := make([]x11.IconVisual, len(dockIcons))
	for i := range dockIcons {
		visuals[i] = x11.IconVisual{
			Name:      dockIcons[i].Name,
			ImagePath: dockIcons[i].Ref.Path(),
		}
	}

	dockWin, err := x11.NewDockWindow(conn, cfg, visuals, *mon, logger)
	if err != nil {
		return false, fmt.Errorf("failed to create dock window: %w", err)
	}
	backend.AttachDockWindow(dockWin.Window())

	driver := anim.NewDriver(dockWin, len(shortcuts),
		time.Duration(cfg.Appearance.AnimationMS)*time.Millisecond, logger)

	// The screen-change callback fires from the event loop, which starts
	// after the machine is assigned below.
	var machine *dock.Machine
	events := x11.NewEvents(conn, func() {
		newMon, merr := conn.PrimaryMonitor()
		if merr != nil {
			logger.Warn("primary monitor lookup failed after screen change", "error", merr)
			return
		}
		dockWin.UpdateMonitor(*newMon)
		newDisp, derr := backend.PrimaryDisplay()
		if derr != nil {
			logger.Warn("display lookup failed after screen change", "error", derr)
			return
		}
		machine.ScreenGeometryChanged(newDisp)
	}, logger)

	machine = dock.NewMachine(dock.MachineConfig{
		Config:   cfg,
		Icons:    dockIcons,
		Display:  disp,
		Anim:     driver,
		Render:   dockWin,
		Shell:    backend,
		Armer:    events,
		Launcher: launcher.New(logger),
		Logger:   logger,
	})

	if err := events.Attach(dockWin.Window(), machine); err != nil {
		return false, fmt.Errorf("failed to attach event handlers: %w", err)
	}

	hotkeyHandler := hotkeys.NewHandler(backend, logger)
	if cfg.ToggleHotkey != "" {
		if err := hotkeyHandler.RegisterToggle(cfg.ToggleHotkey, machine); err != nil {
			logger.Warn("toggle hotkey registration failed", "hotkey", cfg.ToggleHotkey, "error", err)
		} else {
			logger.Info("toggle hotkey registered", "hotkey", cfg.ToggleHotkey)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go driver.Run(ctx)

	if cfg.Indicator.GetEnabled() && len(shortcuts) > 0 {
		commands := make([]string, len(shortcuts))
		for i, sc := range shortcuts {
			commands[i] = sc.Path
		}
		reconciler := apps.NewReconciler(apps.ReconcilerConfig{
			Interval: time.Duration(cfg.Indicator.GetPollMS()) * time.Millisecond,
			Commands: commands,
			Logger:   logger,
		}, machine, backend.RunningApps)
		go reconciler.Run(ctx)
	}

	machine.Activate()
	logger.Info("dock daemon started")

	restartCh := make(chan struct{}, 1)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				logger.Info("received SIGHUP, reloading config")
				restartCh <- struct{}{}
				machine.Teardown()
				dockWin.Destroy()
				conn.Quit()
				return

			case os.Interrupt, syscall.SIGTERM:
				logger.Info("shutting down dock daemon")
				cancel()
				machine.Teardown()
				dockWin.Destroy()
				os.Exit(0)
			}
		}
	}()

	backend.EventLoop()

	select {
	case <-restartCh:
		return true, nil
	default:
		return false, nil
	}
}

func slogLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
