package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/docktile/internal/apps"
	"github.com/1broseidon/docktile/internal/config"
	"github.com/1broseidon/docktile/internal/daemon"
	"github.com/1broseidon/docktile/internal/launcher"
	"github.com/1broseidon/docktile/internal/menu"
	"github.com/1broseidon/docktile/internal/platform"
	"github.com/1broseidon/docktile/internal/tui"
	"gopkg.in/yaml.v3"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "menu":
		os.Exit(runMenu(os.Args[2:]))
	case "launch":
		os.Exit(runLaunch(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "version", "-v", "--version":
		fmt.Println("docktile " + version)
		os.Exit(0)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docktile <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Run the dock in the foreground")
	fmt.Fprintln(w, "  menu                Show all shortcuts in a launcher menu")
	fmt.Fprintln(w, "  launch              Launch a shortcut by index or name")
	fmt.Fprintln(w, "  tui                 Open the interactive settings editor")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config path         Print the config file location")
	fmt.Fprintln(w, "  config show         Print the effective configuration")
	fmt.Fprintln(w, "  config validate     Validate the configuration")
	fmt.Fprintln(w, "  config init         Write a starter config file")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  version             Print the version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'docktile <command> --help' for command-specific options.")
}

// newFlagSet builds a subcommand flag set whose usage output is the given
// text followed by the registered flags, if any.
func newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		var n int
		fs.VisitAll(func(*flag.Flag) { n++ })
		if n > 0 {
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
	}
	return fs
}

// parseArgs parses a subcommand's arguments and enforces the expected number
// of positionals. When the returned bool is false the command must not run
// and the int is the process exit code. Commands without positionals also
// accept a literal "help" argument.
func parseArgs(fs *flag.FlagSet, args []string, want int, complaint string) (int, bool) {
	if want == 0 && len(args) > 0 && args[0] == "help" {
		fs.Usage()
		return 0, false
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	if fs.NArg() != want {
		fmt.Fprintln(os.Stderr, complaint)
		fs.Usage()
		return 2, false
	}
	return 0, true
}

// fail prints err to stderr and returns the generic failure exit code.
func fail(err error) int {
	fmt.Fprintln(os.Stderr, err)
	return 1
}

// configPathFlag registers the shared --config flag on a subcommand flag set.
func configPathFlag(fs *flag.FlagSet) *string {
	return fs.String("config", "", "Config file path (default: $DOCKTILE_CONFIG or ~/.config/docktile/config.yaml)")
}

// loadConfigAt resolves and loads the configuration, honoring the --config
// flag, the DOCKTILE_CONFIG variable, and the standard location in that order.
func loadConfigAt(explicit string) (*config.Config, error) {
	path, err := config.ResolvePath(explicit)
	if err != nil {
		return nil, err
	}
	return config.LoadFromPath(path)
}

// appendPinned folds discovered pinned entries into cfg so one-shot commands
// see the same shortcut list (and indices) as the running dock.
func appendPinned(cfg *config.Config) {
	if !cfg.Pinned.GetEnabled() {
		return
	}
	dir, err := cfg.PinnedDir()
	if err != nil {
		return
	}
	extra, err := config.DiscoverPinned(dir)
	if err != nil {
		return
	}
	cfg.AppendPinned(extra)
}

func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// launchCommand spawns the shortcut command detached from this process.
func launchCommand(command string) int {
	if err := launcher.New(cliLogger()).Launch(command); err != nil {
		return fail(err)
	}
	return 0
}

func runDaemon(args []string) int {
	fs := newFlagSet("daemon", `Usage: docktile daemon [--config PATH]

Run the dock in the foreground. SIGHUP reloads the configuration.`)
	configPath := configPathFlag(fs)
	if code, ok := parseArgs(fs, args, 0, "daemon takes no arguments"); !ok {
		return code
	}

	if err := daemon.Run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "docktile daemon: %v\n", err)
		return 1
	}
	return 0
}

func runMenu(args []string) int {
	fs := newFlagSet("menu", `Usage: docktile menu [--config PATH] [--backend NAME]

Show every shortcut in a launcher menu and launch the selection.
Running applications are highlighted when the backend supports it.`)
	configPath := configPathFlag(fs)
	backendName := fs.String("backend", "", "Menu backend: auto, rofi, fuzzel, wofi, dmenu (default: from config)")
	if code, ok := parseArgs(fs, args, 0, "menu takes no arguments"); !ok {
		return code
	}

	cfg, err := loadConfigAt(*configPath)
	if err != nil {
		return fail(err)
	}
	appendPinned(cfg)

	name := cfg.MenuBackend
	if *backendName != "" {
		name = *backendName
	}
	backend, err := menu.NewBackend(name)
	if err != nil {
		return fail(err)
	}

	command, err := menu.Pick(backend, cfg.Categories, runningChecker(cfg))
	if errors.Is(err, menu.ErrCancelled) {
		return 0
	}
	if err != nil {
		return fail(err)
	}
	return launchCommand(command)
}

// runningChecker snapshots the X11 client list once so the menu can highlight
// running entries. Any failure disables the highlighting; the menu itself
// does not need a display connection.
func runningChecker(cfg *config.Config) func(string) bool {
	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		return nil
	}
	defer backend.Disconnect()

	list, err := backend.RunningApps()
	if err != nil {
		return nil
	}
	running := apps.RunningSet(list)
	return func(command string) bool {
		return running[apps.CommandKey(command)]
	}
}

func runLaunch(args []string) int {
	fs := newFlagSet("launch", `Usage: docktile launch [--config PATH] <index|name>

Launch a configured shortcut by bar position (0-based) or by name.`)
	configPath := configPathFlag(fs)
	if code, ok := parseArgs(fs, args, 1, "launch requires exactly one <index|name> argument"); !ok {
		return code
	}

	cfg, err := loadConfigAt(*configPath)
	if err != nil {
		return fail(err)
	}
	appendPinned(cfg)

	shortcut, err := findShortcut(cfg.Shortcuts(), fs.Arg(0))
	if err != nil {
		return fail(err)
	}
	return launchCommand(shortcut.Path)
}

// findShortcut resolves a launch target: a number selects by bar position,
// anything else matches names case-insensitively.
func findShortcut(shortcuts []config.Shortcut, target string) (config.Shortcut, error) {
	if idx, err := strconv.Atoi(target); err == nil {
		if idx < 0 || idx >= len(shortcuts) {
			return config.Shortcut{}, fmt.Errorf("launch: index %d out of range (%d shortcuts)", idx, len(shortcuts))
		}
		return shortcuts[idx], nil
	}
	for _, sc := range shortcuts {
		if strings.EqualFold(sc.Name, target) {
			return sc, nil
		}
	}
	return config.Shortcut{}, fmt.Errorf("launch: no shortcut named %q", target)
}

func runTUI(args []string) int {
	fs := newFlagSet("tui", `Usage: docktile tui [--config PATH]

Interactive settings editor for the dock configuration.

Keybindings:
  Tab/Shift+Tab  Switch tabs
  1-4            Jump to tab
  e              Edit settings on the active tab
  a/x            Add or remove a shortcut (Shortcuts tab)
  J/K            Reorder the selected shortcut (Shortcuts tab)
  Ctrl+S         Review and save changes
  q, Ctrl+C      Quit`)
	configPath := configPathFlag(fs)
	if code, ok := parseArgs(fs, args, 0, "tui takes no arguments"); !ok {
		return code
	}

	if err := tui.Run(*configPath); err != nil {
		return fail(err)
	}
	return 0
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  docktile config path")
	fmt.Fprintln(w, "  docktile config show [--config PATH] [--defaults]")
	fmt.Fprintln(w, "  docktile config validate [--config PATH]")
	fmt.Fprintln(w, "  docktile config init [--config PATH] [--force]")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "path":
		fs := newFlagSet("config path", `Usage: docktile config path

Print the config file location the daemon would use.`)
		if code, ok := parseArgs(fs, args[1:], 0, "config path takes no arguments"); !ok {
			return code
		}

		path, err := config.ResolvePath("")
		if err != nil {
			return fail(err)
		}
		fmt.Println(path)
		return 0

	case "show":
		fs := newFlagSet("config show", `Usage: docktile config show [--config PATH] [--defaults]

Print the effective configuration as YAML.`)
		configPath := configPathFlag(fs)
		showDefaults := fs.Bool("defaults", false, "Print built-in defaults (ignore config files)")
		if code, ok := parseArgs(fs, args[1:], 0, "config show takes no arguments"); !ok {
			return code
		}

		cfg := config.DefaultConfig()
		if !*showDefaults {
			var err error
			cfg, err = loadConfigAt(*configPath)
			if err != nil {
				return fail(err)
			}
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fail(err)
		}
		fmt.Print(string(data))
		return 0

	case "validate":
		fs := newFlagSet("config validate", `Usage: docktile config validate [--config PATH]

Load and validate the configuration, reporting the first problem found.`)
		configPath := configPathFlag(fs)
		if code, ok := parseArgs(fs, args[1:], 0, "config validate takes no arguments"); !ok {
			return code
		}

		if _, err := loadConfigAt(*configPath); err != nil {
			return fail(err)
		}
		fmt.Println("config: ok")
		return 0

	case "init":
		fs := newFlagSet("config init", `Usage: docktile config init [--config PATH] [--force]

Write a starter config file. Categories are seeded by probing PATH
for commonly installed applications.`)
		configPath := configPathFlag(fs)
		force := fs.Bool("force", false, "Overwrite an existing config file")
		if code, ok := parseArgs(fs, args[1:], 0, "config init takes no arguments"); !ok {
			return code
		}

		path, err := config.ResolvePath(*configPath)
		if err != nil {
			return fail(err)
		}
		if !*force {
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(os.Stderr, "config init: %s already exists (use --force to overwrite)\n", path)
				return 1
			}
		}

		cfg := config.DefaultConfig()
		if err := cfg.SaveTo(path); err != nil {
			return fail(err)
		}
		fmt.Printf("Wrote %s (%d shortcuts discovered)\n", path, len(cfg.Shortcuts()))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}
