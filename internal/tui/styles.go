package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// The editor draws from one small palette so tabs, panes and overlays read
// as a single surface.
var (
	colAccent = lipgloss.Color("62")  // selection, headings, focus borders
	colBright = lipgloss.Color("15")  // primary values
	colText   = lipgloss.Color("250") // secondary text
	colLabel  = lipgloss.Color("248") // detail pane labels
	colDim    = lipgloss.Color("241") // hints and empty states
	colFrame  = lipgloss.Color("236") // inactive chrome
	colShade  = lipgloss.Color("235") // bar fills
	colGood   = lipgloss.Color("42")
	colWarn   = lipgloss.Color("214")
	colBad    = lipgloss.Color("196")
)

var (
	paneStyle    = lipgloss.NewStyle().Padding(1, 2)
	hintStyle    = lipgloss.NewStyle().Foreground(colDim)
	summaryLabel = lipgloss.NewStyle().Foreground(colText).Width(22).Align(lipgloss.Right).PaddingRight(2)
	summaryValue = lipgloss.NewStyle().Foreground(colBright).Bold(true)
)

// settingsRow renders one aligned "Label   value" line of a summary pane.
func settingsRow(label, value string) string {
	return summaryLabel.Render(label) + summaryValue.Render(value)
}

// summaryPane lays out the read-only lines of a settings tab.
func summaryPane(width, height int, lines []string) string {
	return paneStyle.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

// centeredNotice fills a pane with a dimmed message, used for empty states.
func centeredNotice(width, height int, text string) string {
	return hintStyle.Width(width).Height(height).Align(lipgloss.Center, lipgloss.Center).Render(text)
}

// editorPane renders a huh form under a heading naming what is being edited.
func editorPane(width, height int, heading string, form *huh.Form) string {
	head := lipgloss.NewStyle().Foreground(colAccent).Bold(true).Render("Editing "+heading) +
		hintStyle.Render("  (esc to cancel)")
	return paneStyle.Width(width).Height(height).Render(head + "\n\n" + form.View())
}

// overlayWidth clamps an overlay box between a readable minimum and max.
func overlayWidth(areaW, max int) int {
	w := areaW - 8
	if w > max {
		w = max
	}
	if w < 30 {
		w = 30
	}
	return w
}

// overlayBox centers content in a rounded, accent-bordered box.
func overlayBox(areaW, areaH, boxW int, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colAccent).
		Padding(1, 2).
		Width(boxW).
		Render(content)
	return lipgloss.Place(areaW, areaH, lipgloss.Center, lipgloss.Center, box)
}

// formWidth clamps a form to its pane while keeping narrow windows usable.
func formWidth(paneWidth int) int {
	if w := paneWidth - 4; w >= 40 {
		return w
	}
	return 40
}

// stepForm advances a huh form and reports whether it just completed.
func stepForm(form *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd, bool) {
	next, cmd := form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		form = f
	}
	return form, cmd, form.State == huh.StateCompleted
}
