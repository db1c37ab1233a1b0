package launcher

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Launcher spawns dock applications fire-and-forget: a launch starts the
// process and returns, success meaning only that the spawn worked.
type Launcher struct {
	logger *slog.Logger
}

// New creates a launcher.
func New(logger *slog.Logger) *Launcher {
	return &Launcher{logger: logger}
}

// Launch starts the given command line. The command is split on whitespace;
// no shell quoting is applied.
func (l *Launcher) Launch(command string) error {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return fmt.Errorf("empty launch command")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to spawn %q: %w", argv[0], err)
	}

	// Do not wait; launched applications are long-lived. Reap off-thread so
	// exited children never linger as zombies under the daemon.
	go func() {
		if err := cmd.Wait(); err != nil {
			l.logger.Debug("launched process exited", "command", argv[0], "error", err)
		}
	}()

	return nil
}
