package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Shortcut is a single launchable dock entry.
type Shortcut struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Category groups shortcuts under a display name. Order in the file is the
// order icons appear in the bar, left to right.
type Category struct {
	Name      string     `yaml:"name"`
	Shortcuts []Shortcut `yaml:"shortcuts"`
}

// Appearance holds the geometry and timing constants of the bar. All
// dimensions are logical pixels before DPI scaling.
type Appearance struct {
	IconSize        float64 `yaml:"icon_size"`
	IconSpacing     float64 `yaml:"icon_spacing"`
	MaxScale        float64 `yaml:"max_scale"`
	Sigma           float64 `yaml:"sigma"`
	BarPaddingH     float64 `yaml:"bar_padding_h"`
	BarPaddingV     float64 `yaml:"bar_padding_v"`
	BarCornerRadius float64 `yaml:"bar_corner_radius"`
	BarBottomMargin float64 `yaml:"bar_bottom_margin"`
	AnimationMS     int     `yaml:"animation_ms"`
	Background      string  `yaml:"background"` // RRGGBB or RRGGBBAA hex
}

// Behavior controls how the dock interacts with the shell.
type Behavior struct {
	StartHidden   bool    `yaml:"start_hidden"`
	HidePanel     bool    `yaml:"hide_panel"`
	ReserveSpace  bool    `yaml:"reserve_space"`
	ReserveHeight float64 `yaml:"reserve_height"` // logical px, scaled by monitor DPI
	HiddenStrip   int     `yaml:"hidden_strip"`   // px shown while hidden
}

// Pinned configures discovery of extra shortcuts from a directory of
// .desktop files or executables, appended as a trailing category.
type Pinned struct {
	Enabled *bool  `yaml:"enabled"`
	Dir     string `yaml:"dir,omitempty"`
}

// Indicator configures the running-application marker under icons.
type Indicator struct {
	Enabled *bool `yaml:"enabled"`
	PollMS  int   `yaml:"poll_ms"`
}

// Config holds the application configuration.
type Config struct {
	ToggleHotkey string     `yaml:"toggle_hotkey"`
	MenuBackend  string     `yaml:"menu_backend"`
	Display      string     `yaml:"display,omitempty"`
	XAuthority   string     `yaml:"xauthority,omitempty"`
	LogLevel     string     `yaml:"log_level"`
	Appearance   Appearance `yaml:"appearance"`
	Behavior     Behavior   `yaml:"behavior"`
	Categories   []Category `yaml:"categories"`
	Pinned       Pinned     `yaml:"pinned"`
	Indicator    Indicator  `yaml:"indicator"`
}

func DefaultConfig() *Config {
	return &Config{
		ToggleHotkey: "Mod4-d", // Super+D to collapse/expand the dock
		MenuBackend:  "auto",
		LogLevel:     "info",
		Appearance: Appearance{
			IconSize:        48,
			IconSpacing:     10,
			MaxScale:        1.8,
			Sigma:           90,
			BarPaddingH:     12,
			BarPaddingV:     6,
			BarCornerRadius: 16,
			BarBottomMargin: 8,
			AnimationMS:     80,
			Background:      "f0f0f0b4",
		},
		Behavior: Behavior{
			StartHidden:   false,
			HidePanel:     true,
			ReserveSpace:  true,
			ReserveHeight: 82,
			HiddenStrip:   4,
		},
		Categories: BuiltinCategories(),
		Indicator: Indicator{
			PollMS: 2000,
		},
	}
}

// GetEnabled returns the effective value, defaulting to true.
func (p *Pinned) GetEnabled() bool {
	if p == nil || p.Enabled == nil {
		return true
	}
	return *p.Enabled
}

// GetEnabled returns the effective value, defaulting to true.
func (i *Indicator) GetEnabled() bool {
	if i == nil || i.Enabled == nil {
		return true
	}
	return *i.Enabled
}

// GetPollMS returns the reconcile interval with the default applied.
func (i *Indicator) GetPollMS() int {
	if i == nil || i.PollMS <= 0 {
		return 2000
	}
	return i.PollMS
}

// PinnedDir returns the directory scanned for pinned entries.
func (c *Config) PinnedDir() (string, error) {
	if strings.TrimSpace(c.Pinned.Dir) != "" {
		return c.Pinned.Dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "docktile", "pinned"), nil
}

// Shortcuts flattens all categories into one ordered list. This is the icon
// order the bar uses; indices into it are stable for the process lifetime.
func (c *Config) Shortcuts() []Shortcut {
	var out []Shortcut
	for _, cat := range c.Categories {
		out = append(out, cat.Shortcuts...)
	}
	return out
}

// Save validates the configuration and writes it to the default path.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to an explicit path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks every field against its documented range. The first
// violation is returned as a *ValidationError naming the offending field.
func (c *Config) Validate() error {
	if c.ToggleHotkey == "" {
		return &ValidationError{Path: "toggle_hotkey", Err: fmt.Errorf("toggle_hotkey is required")}
	}
	switch c.MenuBackend {
	case "auto", "rofi", "fuzzel", "dmenu", "wofi":
	default:
		return &ValidationError{Path: "menu_backend", Err: fmt.Errorf("menu_backend must be auto, rofi, fuzzel, dmenu or wofi")}
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be debug, info, warning or error")}
	}

	if err := validateAppearance(&c.Appearance); err != nil {
		return err
	}
	if err := validateBehavior(&c.Behavior, &c.Appearance); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(c.Categories))
	for i, cat := range c.Categories {
		path := fmt.Sprintf("categories[%d]", i)
		if strings.TrimSpace(cat.Name) == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("category name must not be empty")}
		}
		if _, ok := seen[cat.Name]; ok {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("duplicate category name %q", cat.Name)}
		}
		seen[cat.Name] = struct{}{}
		for j, sc := range cat.Shortcuts {
			scPath := fmt.Sprintf("%s.shortcuts[%d]", path, j)
			if strings.TrimSpace(sc.Name) == "" {
				return &ValidationError{Path: scPath + ".name", Err: fmt.Errorf("shortcut name must not be empty")}
			}
			if strings.TrimSpace(sc.Path) == "" {
				return &ValidationError{Path: scPath + ".path", Err: fmt.Errorf("shortcut path must not be empty")}
			}
		}
	}

	if c.Indicator.PollMS < 0 {
		return &ValidationError{Path: "indicator.poll_ms", Err: fmt.Errorf("poll_ms must be >= 0")}
	}

	return nil
}

func validateAppearance(a *Appearance) error {
	if a.IconSize <= 0 {
		return &ValidationError{Path: "appearance.icon_size", Err: fmt.Errorf("icon_size must be > 0")}
	}
	if a.IconSpacing < 0 {
		return &ValidationError{Path: "appearance.icon_spacing", Err: fmt.Errorf("icon_spacing must be >= 0")}
	}
	if a.MaxScale <= 1 {
		return &ValidationError{Path: "appearance.max_scale", Err: fmt.Errorf("max_scale must be > 1")}
	}
	if a.Sigma <= 0 {
		return &ValidationError{Path: "appearance.sigma", Err: fmt.Errorf("sigma must be > 0")}
	}
	if a.BarPaddingH < 0 || a.BarPaddingV < 0 {
		return &ValidationError{Path: "appearance.bar_padding_h", Err: fmt.Errorf("bar paddings must be >= 0")}
	}
	if a.BarCornerRadius < 0 {
		return &ValidationError{Path: "appearance.bar_corner_radius", Err: fmt.Errorf("bar_corner_radius must be >= 0")}
	}
	if a.BarBottomMargin < 0 {
		return &ValidationError{Path: "appearance.bar_bottom_margin", Err: fmt.Errorf("bar_bottom_margin must be >= 0")}
	}
	if a.AnimationMS < 0 {
		return &ValidationError{Path: "appearance.animation_ms", Err: fmt.Errorf("animation_ms must be >= 0")}
	}
	if _, err := ParseColor(a.Background); err != nil {
		return &ValidationError{Path: "appearance.background", Err: err}
	}
	return nil
}

func validateBehavior(b *Behavior, a *Appearance) error {
	if b.ReserveHeight <= 0 {
		return &ValidationError{Path: "behavior.reserve_height", Err: fmt.Errorf("reserve_height must be > 0")}
	}
	if b.ReserveHeight < a.BarHeight() {
		return &ValidationError{Path: "behavior.reserve_height", Err: fmt.Errorf("reserve_height %.0f is smaller than the bar height %.0f", b.ReserveHeight, a.BarHeight())}
	}
	if b.HiddenStrip < 1 {
		return &ValidationError{Path: "behavior.hidden_strip", Err: fmt.Errorf("hidden_strip must be >= 1")}
	}
	if float64(b.HiddenStrip) >= a.BarHeight() {
		return &ValidationError{Path: "behavior.hidden_strip", Err: fmt.Errorf("hidden_strip must be smaller than the bar height")}
	}
	return nil
}
