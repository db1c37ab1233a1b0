package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/docktile/internal/config"
)

// BehaviorTab shows and edits the hotkey, shell interaction and indicator
// settings.
type BehaviorTab struct {
	cfg    *config.Config
	width  int
	height int

	editing bool
	form    *huh.Form

	// Form-bound values
	fToggleHotkey  string
	fMenuBackend   string
	fLogLevel      string
	fStartHidden   bool
	fHidePanel     bool
	fReserveSpace  bool
	fReserveHeight string
	fHiddenStrip   string
	fIndicator     bool
	fPollMS        string
	fPinned        bool
	fPinnedDir     string
}

// NewBehaviorTab creates a BehaviorTab from the loaded config.
func NewBehaviorTab(cfg *config.Config) BehaviorTab {
	return BehaviorTab{cfg: cfg}
}

// Init implements the tab contract.
func (b BehaviorTab) Init() tea.Cmd { return nil }

// Update sizes the pane, opens the edit form on 'e' and drives it until it
// completes or is cancelled.
func (b BehaviorTab) Update(msg tea.Msg) (BehaviorTab, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		b.width = size.Width
		b.height = size.Height
		if b.editing {
			b.form = b.form.WithWidth(formWidth(b.width))
		}
		return b, nil
	}

	key, isKey := msg.(tea.KeyMsg)
	if !b.editing {
		if isKey && key.String() == "e" {
			b.startEditing()
			return b, b.form.Init()
		}
		return b, nil
	}
	if isKey && key.String() == "esc" {
		b.closeForm()
		return b, nil
	}

	form, cmd, done := stepForm(b.form, msg)
	b.form = form
	if done {
		b.applyForm()
		b.closeForm()
		return b, nil
	}
	return b, cmd
}

func (b *BehaviorTab) closeForm() {
	b.editing = false
	b.form = nil
}

func (b *BehaviorTab) startEditing() {
	cfg := b.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	b.fToggleHotkey = cfg.ToggleHotkey
	b.fMenuBackend = cfg.MenuBackend
	b.fLogLevel = cfg.LogLevel
	b.fStartHidden = cfg.Behavior.StartHidden
	b.fHidePanel = cfg.Behavior.HidePanel
	b.fReserveSpace = cfg.Behavior.ReserveSpace
	b.fReserveHeight = formatFloat(cfg.Behavior.ReserveHeight)
	b.fHiddenStrip = strconv.Itoa(cfg.Behavior.HiddenStrip)
	b.fIndicator = cfg.Indicator.GetEnabled()
	b.fPollMS = strconv.Itoa(cfg.Indicator.GetPollMS())
	b.fPinned = cfg.Pinned.GetEnabled()
	b.fPinnedDir = cfg.Pinned.Dir

	backendOpts := []huh.Option[string]{
		huh.NewOption("auto", "auto"),
		huh.NewOption("rofi", "rofi"),
		huh.NewOption("fuzzel", "fuzzel"),
		huh.NewOption("wofi", "wofi"),
		huh.NewOption("dmenu", "dmenu"),
	}

	levelOpts := []huh.Option[string]{
		huh.NewOption("debug", "debug"),
		huh.NewOption("info", "info"),
		huh.NewOption("warning", "warning"),
		huh.NewOption("error", "error"),
	}

	b.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("toggle_hotkey").
				Title("Toggle Hotkey").
				Description("X11 keybinding to hide/show the dock").
				Value(&b.fToggleHotkey),

			huh.NewSelect[string]().
				Key("menu_backend").
				Title("Menu Backend").
				Description("Launcher used by the menu subcommand").
				Options(backendOpts...).
				Value(&b.fMenuBackend),

			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(levelOpts...).
				Value(&b.fLogLevel),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Key("start_hidden").
				Title("Start Hidden").
				Affirmative("yes").
				Negative("no").
				Value(&b.fStartHidden),

			huh.NewConfirm().
				Key("hide_panel").
				Title("Hide Desktop Panels").
				Description("Unmap other dock windows while visible").
				Affirmative("yes").
				Negative("no").
				Value(&b.fHidePanel),

			huh.NewConfirm().
				Key("reserve_space").
				Title("Reserve Screen Space").
				Description("Publish struts so windows avoid the bar").
				Affirmative("yes").
				Negative("no").
				Value(&b.fReserveSpace),

			huh.NewInput().
				Key("reserve_height").
				Title("Reserve Height").
				Description("Reserved band in logical pixels").
				Value(&b.fReserveHeight),

			huh.NewInput().
				Key("hidden_strip").
				Title("Hidden Strip").
				Description("Pixels left visible while hidden").
				Value(&b.fHiddenStrip),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Key("indicator").
				Title("Running Indicator").
				Description("Mark icons whose application is running").
				Affirmative("yes").
				Negative("no").
				Value(&b.fIndicator),

			huh.NewInput().
				Key("poll_ms").
				Title("Indicator Poll").
				Description("Window list refresh interval in milliseconds").
				Value(&b.fPollMS),

			huh.NewConfirm().
				Key("pinned").
				Title("Pinned Discovery").
				Description("Scan a directory for extra shortcuts").
				Affirmative("yes").
				Negative("no").
				Value(&b.fPinned),

			huh.NewInput().
				Key("pinned_dir").
				Title("Pinned Directory").
				Description("Empty means ~/.config/docktile/pinned").
				Value(&b.fPinnedDir),
		),
	).WithWidth(formWidth(b.width)).WithShowHelp(true).WithShowErrors(true)

	b.editing = true
}

// applyForm copies parseable form values back into the config. Blank strings
// and unparseable numbers keep the old value.
func (b *BehaviorTab) applyForm() {
	if b.cfg == nil {
		return
	}
	cfg := b.cfg

	if b.fToggleHotkey != "" {
		cfg.ToggleHotkey = b.fToggleHotkey
	}
	if b.fMenuBackend != "" {
		cfg.MenuBackend = b.fMenuBackend
	}
	if b.fLogLevel != "" {
		cfg.LogLevel = b.fLogLevel
	}
	cfg.Behavior.StartHidden = b.fStartHidden
	cfg.Behavior.HidePanel = b.fHidePanel
	cfg.Behavior.ReserveSpace = b.fReserveSpace
	if v, err := strconv.ParseFloat(b.fReserveHeight, 64); err == nil && v > 0 {
		cfg.Behavior.ReserveHeight = v
	}
	if v, err := strconv.Atoi(b.fHiddenStrip); err == nil && v >= 1 {
		cfg.Behavior.HiddenStrip = v
	}
	indicator := b.fIndicator
	cfg.Indicator.Enabled = &indicator
	if v, err := strconv.Atoi(b.fPollMS); err == nil && v >= 0 {
		cfg.Indicator.PollMS = v
	}
	pinned := b.fPinned
	cfg.Pinned.Enabled = &pinned
	cfg.Pinned.Dir = strings.TrimSpace(b.fPinnedDir)
}

// View implements the tab contract.
func (b BehaviorTab) View() string {
	if b.editing && b.form != nil {
		return editorPane(b.width, b.height, "Behavior", b.form)
	}
	if b.cfg == nil {
		return centeredNotice(b.width, b.height, "No config loaded")
	}
	return summaryPane(b.width, b.height, b.summaryLines())
}

func (b BehaviorTab) summaryLines() []string {
	cfg := b.cfg

	indicator := yesNo(cfg.Indicator.GetEnabled())
	if cfg.Indicator.GetEnabled() {
		indicator += fmt.Sprintf(" (poll %d ms)", cfg.Indicator.GetPollMS())
	}
	pinned := yesNo(cfg.Pinned.GetEnabled())
	if cfg.Pinned.GetEnabled() && cfg.Pinned.Dir != "" {
		pinned += " (" + cfg.Pinned.Dir + ")"
	}

	return []string{
		"",
		settingsRow("Toggle Hotkey", cfg.ToggleHotkey),
		settingsRow("Menu Backend", cfg.MenuBackend),
		settingsRow("Log Level", cfg.LogLevel),
		"",
		settingsRow("Start Hidden", yesNo(cfg.Behavior.StartHidden)),
		settingsRow("Hide Panels", yesNo(cfg.Behavior.HidePanel)),
		settingsRow("Reserve Space", yesNo(cfg.Behavior.ReserveSpace)),
		settingsRow("Reserve Height", formatFloat(cfg.Behavior.ReserveHeight)),
		settingsRow("Hidden Strip", strconv.Itoa(cfg.Behavior.HiddenStrip)+" px"),
		"",
		settingsRow("Running Indicator", indicator),
		settingsRow("Pinned Discovery", pinned),
		"",
		hintStyle.Render("  Press 'e' to edit settings"),
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
