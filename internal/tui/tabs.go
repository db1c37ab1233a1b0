package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tab identifies a TUI tab.
type Tab int

const (
	TabAppearance Tab = iota
	TabBehavior
	TabShortcuts
	TabPreview
	tabCount // sentinel for iteration
)

func (t Tab) String() string {
	switch t {
	case TabAppearance:
		return "Appearance"
	case TabBehavior:
		return "Behavior"
	case TabShortcuts:
		return "Shortcuts"
	case TabPreview:
		return "Preview"
	default:
		return "?"
	}
}

var (
	tabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(colBright).
			Background(colAccent).
			Padding(0, 2)

	tabInactive = tabActive.
			Bold(false).
			Foreground(colText).
			Background(colFrame)

	tabBarStyle = lipgloss.NewStyle().MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(colShade).
		SetString(" ")

	statusStyle = lipgloss.NewStyle().
			Background(colShade).
			Foreground(colText).
			Padding(0, 1)

	helpStyle = hintStyle.Padding(0, 1)
)

// renderTabBar lays the numbered tab labels in a row, highlighting the
// active one.
func renderTabBar(active Tab, width int) string {
	gap := tabGap.Render()
	var row strings.Builder
	for t := Tab(0); t < tabCount; t++ {
		if t > 0 {
			row.WriteString(gap)
		}
		label := strconv.Itoa(int(t)+1) + ":" + t.String()
		style := tabInactive
		if t == active {
			style = tabActive
		}
		row.WriteString(style.Render(label))
	}
	return tabBarStyle.Width(width).Render(row.String())
}

// renderStatusBar shows which config file is being edited and how many
// shortcuts it defines.
func renderStatusBar(configPath string, fromFile bool, shortcuts int, loadErr string, width int) string {
	var status string
	switch {
	case loadErr != "":
		status = statusDot(colBad) + " " + loadErr
	case fromFile:
		status = statusDot(colGood) + " " + configPath + "  " + strconv.Itoa(shortcuts) + " shortcuts"
	default:
		status = statusDot(colDim) + " defaults (no config file yet, ctrl+s writes " + configPath + ")"
	}
	return statusStyle.Width(width).Render(status)
}

func statusDot(c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

func renderHelpBar(width int) string {
	help := "1-4: tabs  tab/shift-tab: cycle  ctrl+s: save  q: quit"
	return helpStyle.Width(width).Render(help)
}
