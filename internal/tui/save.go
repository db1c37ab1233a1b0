package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/docktile/internal/config"
)

type savePhase int

const (
	saveClosed  savePhase = iota
	saveReview            // change list shown, awaiting confirm
	saveOutcome           // write result shown
)

// pendingChange is one edited setting: a label plus its before and after
// values. An addition leaves old empty, a removal leaves new empty.
type pendingChange struct {
	field string
	old   string
	new   string
}

// SaveOverlay walks the save workflow: a field-by-field change list first,
// then the write outcome. The editor compares structs rather than diffing
// YAML text, so every line maps to a setting the tabs can edit.
type SaveOverlay struct {
	phase     savePhase
	changes   []pendingChange
	err       error
	savedPath string
	scroll    int
}

// Active reports whether the overlay is on screen.
func (s SaveOverlay) Active() bool {
	return s.phase != saveClosed
}

// Show computes the pending changes and opens the review. With nothing to
// save it jumps straight to the outcome message.
func (s *SaveOverlay) Show(original, current *config.Config) {
	s.err = nil
	s.savedPath = ""
	s.scroll = 0

	s.changes = collectChanges(original, current)
	if len(s.changes) == 0 {
		s.phase = saveOutcome
		s.err = fmt.Errorf("no changes to save")
		return
	}
	s.phase = saveReview
}

// SaveSucceeded reports whether the overlay is showing a successful write.
func (s SaveOverlay) SaveSucceeded() bool {
	return s.phase == saveOutcome && s.err == nil
}

// Update handles input while the overlay is active. Confirming validates the
// edited config before writing it, so a save can never produce a file the
// daemon refuses to load.
func (s SaveOverlay) Update(msg tea.Msg, cfg *config.Config, path string) SaveOverlay {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}

	// Any key dismisses the outcome; only the review phase takes input.
	if s.phase == saveOutcome {
		s.phase = saveClosed
		return s
	}
	if s.phase != saveReview {
		return s
	}

	switch km.String() {
	case "esc":
		s.phase = saveClosed
	case "enter", "y":
		s.err = cfg.Validate()
		if s.err == nil {
			s.err = cfg.SaveTo(path)
		}
		if s.err == nil {
			s.savedPath = path
		}
		s.phase = saveOutcome
	case "up", "k":
		if s.scroll > 0 {
			s.scroll--
		}
	case "down", "j":
		s.scroll++
	}
	return s
}

// View renders the overlay centered in the given content area.
func (s SaveOverlay) View(width, height int) string {
	switch s.phase {
	case saveReview:
		return s.viewReview(width, height)
	case saveOutcome:
		return s.viewOutcome(width, height)
	}
	return ""
}

// Diff markers for the change preview.
var (
	diffAdd   = lipgloss.NewStyle().Foreground(colGood)
	diffDel   = lipgloss.NewStyle().Foreground(colBad)
	diffMod   = lipgloss.NewStyle().Foreground(colWarn)
	diffField = lipgloss.NewStyle().Foreground(colText).Width(20)
)

func (s SaveOverlay) viewReview(areaW, areaH int) string {
	boxW := overlayWidth(areaW, 80)

	word := "changes"
	if len(s.changes) == 1 {
		word = "change"
	}
	title := summaryValue.Render(fmt.Sprintf("Save Config (%d %s)", len(s.changes), word))

	// Rows visible inside the box once the title, spacing, footer and border
	// are accounted for.
	visible := areaH - 10
	if visible < 3 {
		visible = 3
	}
	off := s.scroll
	if max := len(s.changes) - visible; off > max {
		off = max
	}
	if off < 0 {
		off = 0
	}
	end := off + visible
	if end > len(s.changes) {
		end = len(s.changes)
	}

	valW := boxW - 28
	if valW < 8 {
		valW = 8
	}

	rows := make([]string, 0, end-off)
	for _, c := range s.changes[off:end] {
		label := diffField.Render(c.field)
		switch {
		case c.old == "":
			rows = append(rows, diffAdd.Render("+ ")+label+diffAdd.Render(trunc(c.new, valW)))
		case c.new == "":
			rows = append(rows, diffDel.Render("- ")+label+diffDel.Render(trunc(c.old, valW)))
		default:
			rows = append(rows, diffMod.Render("~ ")+label+
				trunc(c.old, valW/2)+diffMod.Render(" → ")+trunc(c.new, valW/2))
		}
	}

	scrollHint := ""
	if len(s.changes) > visible {
		scrollHint = fmt.Sprintf("  (%d-%d of %d)", off+1, end, len(s.changes))
	}
	footer := hintStyle.Render("enter: save  esc: cancel  j/k: scroll" + scrollHint)
	content := title + "\n\n" + strings.Join(rows, "\n") + "\n\n" + footer

	return overlayBox(areaW, areaH, boxW, content)
}

func (s SaveOverlay) viewOutcome(areaW, areaH int) string {
	boxW := overlayWidth(areaW, 60)

	var msg string
	if s.err != nil {
		msg = diffDel.Bold(true).Render("Error: " + s.err.Error())
	} else {
		msg = diffAdd.Bold(true).Render("Config saved")
		if s.savedPath != "" {
			msg += "\n" + lipgloss.NewStyle().Foreground(colText).Render(s.savedPath)
		}
		msg += "\n" + hintStyle.Render("the daemon picks it up on restart or SIGHUP")
	}

	content := msg + "\n\n" + hintStyle.Render("press any key to dismiss")
	return overlayBox(areaW, areaH, boxW, content)
}

func trunc(s string, max int) string {
	if max < 1 || len(s) <= max {
		return s
	}
	return s[:max]
}

// --- change collection ---

// collectChanges compares two configs field by field, in the order the tabs
// present them.
func collectChanges(original, current *config.Config) []pendingChange {
	if original == nil || current == nil {
		return nil
	}

	var ch []pendingChange
	mod := func(field, oldV, newV string) {
		if oldV != newV {
			ch = append(ch, pendingChange{field: field, old: oldV, new: newV})
		}
	}

	mod("toggle hotkey", original.ToggleHotkey, current.ToggleHotkey)
	mod("menu backend", original.MenuBackend, current.MenuBackend)
	mod("log level", original.LogLevel, current.LogLevel)

	oa, ca := original.Appearance, current.Appearance
	mod("icon size", formatFloat(oa.IconSize), formatFloat(ca.IconSize))
	mod("icon spacing", formatFloat(oa.IconSpacing), formatFloat(ca.IconSpacing))
	mod("max scale", formatFloat(oa.MaxScale), formatFloat(ca.MaxScale))
	mod("sigma", formatFloat(oa.Sigma), formatFloat(ca.Sigma))
	mod("bar padding h", formatFloat(oa.BarPaddingH), formatFloat(ca.BarPaddingH))
	mod("bar padding v", formatFloat(oa.BarPaddingV), formatFloat(ca.BarPaddingV))
	mod("corner radius", formatFloat(oa.BarCornerRadius), formatFloat(ca.BarCornerRadius))
	mod("bottom margin", formatFloat(oa.BarBottomMargin), formatFloat(ca.BarBottomMargin))
	mod("animation ms", strconv.Itoa(oa.AnimationMS), strconv.Itoa(ca.AnimationMS))
	mod("background", oa.Background, ca.Background)

	ob, cb := original.Behavior, current.Behavior
	mod("start hidden", yesNo(ob.StartHidden), yesNo(cb.StartHidden))
	mod("hide panels", yesNo(ob.HidePanel), yesNo(cb.HidePanel))
	mod("reserve space", yesNo(ob.ReserveSpace), yesNo(cb.ReserveSpace))
	mod("reserve height", formatFloat(ob.ReserveHeight), formatFloat(cb.ReserveHeight))
	mod("hidden strip", strconv.Itoa(ob.HiddenStrip), strconv.Itoa(cb.HiddenStrip))

	mod("running indicator", yesNo(original.Indicator.GetEnabled()), yesNo(current.Indicator.GetEnabled()))
	mod("indicator poll ms", strconv.Itoa(original.Indicator.GetPollMS()), strconv.Itoa(current.Indicator.GetPollMS()))
	mod("pinned discovery", yesNo(original.Pinned.GetEnabled()), yesNo(current.Pinned.GetEnabled()))
	mod("pinned dir", original.Pinned.Dir, current.Pinned.Dir)

	return append(ch, shortcutChanges(original.Shortcuts(), current.Shortcuts())...)
}

// shortcutChanges reports added and removed shortcuts by name. When the set
// is unchanged but positions moved, a single reorder entry stands in for the
// whole permutation.
func shortcutChanges(before, after []config.Shortcut) []pendingChange {
	key := func(sc config.Shortcut) string { return sc.Name + "\x00" + sc.Path }

	oldCount := make(map[string]int, len(before))
	for _, sc := range before {
		oldCount[key(sc)]++
	}
	newCount := make(map[string]int, len(after))
	for _, sc := range after {
		newCount[key(sc)]++
	}

	var ch []pendingChange
	for _, sc := range after {
		if oldCount[key(sc)] == 0 {
			ch = append(ch, pendingChange{field: "shortcut " + sc.Name, new: sc.Path})
		} else {
			oldCount[key(sc)]--
		}
	}
	for _, sc := range before {
		if newCount[key(sc)] == 0 {
			ch = append(ch, pendingChange{field: "shortcut " + sc.Name, old: sc.Path})
		} else {
			newCount[key(sc)]--
		}
	}

	if len(ch) == 0 && !sameOrder(before, after) {
		ch = append(ch, pendingChange{
			field: "icon order",
			old:   joinNames(before),
			new:   joinNames(after),
		})
	}
	return ch
}

func sameOrder(a, b []config.Shortcut) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func joinNames(shortcuts []config.Shortcut) string {
	names := make([]string, len(shortcuts))
	for i, sc := range shortcuts {
		names[i] = sc.Name
	}
	return strings.Join(names, ", ")
}

// cloneConfig deep-copies a Config by round-tripping it through YAML, which
// covers every field the file format can express.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil
	}
	clone := new(config.Config)
	if yaml.Unmarshal(data, clone) != nil {
		return nil
	}
	return clone
}
