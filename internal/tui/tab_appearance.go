package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/docktile/internal/config"
)

// AppearanceTab shows and edits the bar geometry and magnification settings.
type AppearanceTab struct {
	cfg    *config.Config
	width  int
	height int

	editing bool
	form    *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fIconSize     string
	fIconSpacing  string
	fMaxScale     string
	fSigma        string
	fPaddingH     string
	fPaddingV     string
	fCornerRadius string
	fBottomMargin string
	fAnimationMS  string
	fBackground   string
}

// NewAppearanceTab creates an AppearanceTab from the loaded config.
func NewAppearanceTab(cfg *config.Config) AppearanceTab {
	return AppearanceTab{cfg: cfg}
}

// Init implements the tab contract.
func (a AppearanceTab) Init() tea.Cmd { return nil }

// Update sizes the pane, opens the edit form on 'e' and drives it until it
// completes or is cancelled.
func (a AppearanceTab) Update(msg tea.Msg) (AppearanceTab, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = size.Width
		a.height = size.Height
		if a.editing {
			a.form = a.form.WithWidth(formWidth(a.width))
		}
		return a, nil
	}

	key, isKey := msg.(tea.KeyMsg)
	if !a.editing {
		if isKey && key.String() == "e" {
			a.startEditing()
			return a, a.form.Init()
		}
		return a, nil
	}
	if isKey && key.String() == "esc" {
		a.closeForm()
		return a, nil
	}

	form, cmd, done := stepForm(a.form, msg)
	a.form = form
	if done {
		a.applyForm()
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

func (a *AppearanceTab) closeForm() {
	a.editing = false
	a.form = nil
}

func (a *AppearanceTab) startEditing() {
	cfg := a.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ap := cfg.Appearance

	a.fIconSize = formatFloat(ap.IconSize)
	a.fIconSpacing = formatFloat(ap.IconSpacing)
	a.fMaxScale = formatFloat(ap.MaxScale)
	a.fSigma = formatFloat(ap.Sigma)
	a.fPaddingH = formatFloat(ap.BarPaddingH)
	a.fPaddingV = formatFloat(ap.BarPaddingV)
	a.fCornerRadius = formatFloat(ap.BarCornerRadius)
	a.fBottomMargin = formatFloat(ap.BarBottomMargin)
	a.fAnimationMS = strconv.Itoa(ap.AnimationMS)
	a.fBackground = ap.Background

	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("icon_size").
				Title("Icon Size").
				Description("Resting icon edge in logical pixels").
				Value(&a.fIconSize),

			huh.NewInput().
				Key("icon_spacing").
				Title("Icon Spacing").
				Description("Gap between resting icons").
				Value(&a.fIconSpacing),

			huh.NewInput().
				Key("bar_padding_h").
				Title("Bar Padding: Horizontal").
				Value(&a.fPaddingH),

			huh.NewInput().
				Key("bar_padding_v").
				Title("Bar Padding: Vertical").
				Value(&a.fPaddingV),

			huh.NewInput().
				Key("bar_corner_radius").
				Title("Corner Radius").
				Value(&a.fCornerRadius),

			huh.NewInput().
				Key("bar_bottom_margin").
				Title("Bottom Margin").
				Description("Gap between the bar and the screen edge").
				Value(&a.fBottomMargin),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("max_scale").
				Title("Max Scale").
				Description("Icon growth under the pointer (must be > 1)").
				Value(&a.fMaxScale),

			huh.NewInput().
				Key("sigma").
				Title("Sigma").
				Description("Gaussian falloff width in pixels").
				Value(&a.fSigma),

			huh.NewInput().
				Key("animation_ms").
				Title("Animation").
				Description("Transition duration in milliseconds (0 snaps)").
				Value(&a.fAnimationMS),

			huh.NewInput().
				Key("background").
				Title("Background").
				Description("Bar color as RRGGBB or RRGGBBAA hex").
				Value(&a.fBackground),
		),
	).WithWidth(formWidth(a.width)).WithShowHelp(true).WithShowErrors(true)

	a.editing = true
}

// applyForm copies parseable form values back into the config. Entries that
// do not parse, or would fail validation outright, keep their old value.
func (a *AppearanceTab) applyForm() {
	if a.cfg == nil {
		return
	}
	ap := &a.cfg.Appearance

	if v, err := strconv.ParseFloat(a.fIconSize, 64); err == nil && v > 0 {
		ap.IconSize = v
	}
	if v, err := strconv.ParseFloat(a.fIconSpacing, 64); err == nil && v >= 0 {
		ap.IconSpacing = v
	}
	if v, err := strconv.ParseFloat(a.fMaxScale, 64); err == nil && v > 1 {
		ap.MaxScale = v
	}
	if v, err := strconv.ParseFloat(a.fSigma, 64); err == nil && v > 0 {
		ap.Sigma = v
	}
	if v, err := strconv.ParseFloat(a.fPaddingH, 64); err == nil && v >= 0 {
		ap.BarPaddingH = v
	}
	if v, err := strconv.ParseFloat(a.fPaddingV, 64); err == nil && v >= 0 {
		ap.BarPaddingV = v
	}
	if v, err := strconv.ParseFloat(a.fCornerRadius, 64); err == nil && v >= 0 {
		ap.BarCornerRadius = v
	}
	if v, err := strconv.ParseFloat(a.fBottomMargin, 64); err == nil && v >= 0 {
		ap.BarBottomMargin = v
	}
	if v, err := strconv.Atoi(a.fAnimationMS); err == nil && v >= 0 {
		ap.AnimationMS = v
	}
	if _, err := config.ParseColor(a.fBackground); err == nil {
		ap.Background = a.fBackground
	}
}

// View implements the tab contract.
func (a AppearanceTab) View() string {
	if a.editing && a.form != nil {
		return editorPane(a.width, a.height, "Appearance", a.form)
	}
	if a.cfg == nil {
		return centeredNotice(a.width, a.height, "No config loaded")
	}
	return summaryPane(a.width, a.height, a.summaryLines())
}

func (a AppearanceTab) summaryLines() []string {
	ap := a.cfg.Appearance
	padding := fmt.Sprintf("h:%s v:%s", formatFloat(ap.BarPaddingH), formatFloat(ap.BarPaddingV))
	derived := fmt.Sprintf("bar %s px, window %s px", formatFloat(ap.BarHeight()), formatFloat(ap.WindowHeight()))

	return []string{
		"",
		settingsRow("Icon Size", formatFloat(ap.IconSize)),
		settingsRow("Icon Spacing", formatFloat(ap.IconSpacing)),
		settingsRow("Bar Padding", padding),
		settingsRow("Corner Radius", formatFloat(ap.BarCornerRadius)),
		settingsRow("Bottom Margin", formatFloat(ap.BarBottomMargin)),
		"",
		settingsRow("Max Scale", formatFloat(ap.MaxScale)),
		settingsRow("Sigma", formatFloat(ap.Sigma)),
		settingsRow("Animation", strconv.Itoa(ap.AnimationMS)+" ms"),
		settingsRow("Background", "#"+ap.Background),
		"",
		settingsRow("Derived Heights", derived),
		"",
		hintStyle.Render("  Press 'e' to edit settings"),
	}
}

// formatFloat prints a dimension without trailing zeros, matching how the
// values read in the YAML file.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
