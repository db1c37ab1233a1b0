package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/docktile/internal/config"
	"github.com/1broseidon/docktile/internal/layout"
)

// previewWindowWidth is the simulated monitor width the preview solves
// against. The canvas maps onto it, so the exact value only sets proportions.
const previewWindowWidth = 1920.0

// PreviewTab renders the solved bar as ASCII art: icons drawn as boxes on the
// bar, magnified around a simulated pointer. Arrow keys sweep the pointer so
// the Gaussian falloff can be eyeballed before saving.
type PreviewTab struct {
	cfg    *config.Config
	width  int
	height int

	// pointer is the simulated pointer x as a fraction of the window width.
	pointer float64
	hover   bool
}

// NewPreviewTab creates a PreviewTab from the loaded config.
func NewPreviewTab(cfg *config.Config) PreviewTab {
	return PreviewTab{cfg: cfg, pointer: 0.5, hover: true}
}

// Init implements tea.Model.
func (p PreviewTab) Init() tea.Cmd { return nil }

// Update handles messages for the preview tab.
func (p PreviewTab) Update(msg tea.Msg) (PreviewTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			p.pointer -= 0.03
			if p.pointer < 0 {
				p.pointer = 0
			}
		case "right", "l":
			p.pointer += 0.03
			if p.pointer > 1 {
				p.pointer = 1
			}
		case "m":
			p.hover = !p.hover
		}
	}
	return p, nil
}

// View implements tea.Model.
func (p PreviewTab) View() string {
	if p.width == 0 || p.height == 0 {
		return ""
	}
	cfg := p.cfg
	if cfg == nil || len(cfg.Shortcuts()) == 0 {
		return centeredNotice(p.width, p.height, "No shortcuts configured")
	}

	header := lipgloss.NewStyle().Foreground(colText).Padding(0, 2).Render(p.summary())
	help := hintStyle.Padding(0, 2).Render("←/→ or h/l: move pointer  m: toggle magnification")

	canvasH := p.height - lipgloss.Height(header) - lipgloss.Height(help) - 2
	if canvasH < 5 {
		canvasH = 5
	}
	canvasW := p.width - 4
	if canvasW < 20 {
		canvasW = 20
	}

	canvas := renderBarPreview(cfg, p.pointer, p.hover, canvasW, canvasH)
	body := lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(canvas, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, help)
}

func (p PreviewTab) summary() string {
	n := len(p.cfg.Shortcuts())
	ap := p.cfg.Appearance
	solved := layout.Solve(layout.Unit(n), &ap, previewWindowWidth, ap.WindowHeight())
	mode := "idle"
	if p.hover {
		mode = "magnified"
	}
	return fmt.Sprintf("%d icons | bar %.0fx%.0f px | %s", n, solved.BarWidth, solved.BarHeight, mode)
}

// renderBarPreview solves the dock geometry for the simulated pointer and
// draws it onto a rune canvas. The window maps onto the canvas, so wide bars
// shrink rather than clip.
func renderBarPreview(cfg *config.Config, pointer float64, hover bool, width, height int) []string {
	ap := cfg.Appearance
	n := len(cfg.Shortcuts())

	windowW := previewWindowWidth
	windowH := ap.WindowHeight()

	base := layout.Solve(layout.Unit(n), &ap, windowW, windowH)
	scales := layout.Unit(n)
	px := pointer * windowW
	if hover {
		scales = layout.Magnify(layout.Centers(base), px, &ap)
	}
	solved := layout.Solve(scales, &ap, windowW, windowH)

	canvas := make([][]rune, height)
	for y := range canvas {
		row := make([]rune, width)
		for x := range row {
			row[x] = ' '
		}
		canvas[y] = row
	}

	// The top row is kept for the pointer marker.
	mapX := func(x float64) int { return int(x * float64(width) / windowW) }
	mapY := func(y float64) int { return 1 + int(y*float64(height-1)/windowH) }

	drawRect(canvas, mapX(solved.BarX), mapY(solved.BarY), mapX(solved.BarX+solved.BarWidth), height-1, width, height)

	for i, icon := range solved.Icons {
		x1 := mapX(icon.X)
		y1 := mapY(icon.Y)
		x2 := mapX(icon.X + icon.Width)
		y2 := mapY(icon.Y + icon.Height)
		drawRect(canvas, x1, y1, x2, y2, width, height)
		drawLabel(canvas, fmt.Sprintf("%d", i+1), (x1+x2)/2, (y1+y2)/2, x1, x2)
	}

	if hover {
		mx := mapX(px)
		if mx >= 0 && mx < width {
			canvas[0][mx] = '▼'
		}
	}

	out := make([]string, len(canvas))
	for y, row := range canvas {
		out[y] = string(row)
	}
	return out
}

// drawRect draws a box outline on the canvas. Icon boxes overwrite the bar
// outline where they overlap, matching the stacking order on screen.
func drawRect(canvas [][]rune, x1, y1, x2, y2, canvasW, canvasH int) {
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 1 {
		y1 = 1
	}
	if x2 >= canvasW {
		x2 = canvasW - 1
	}
	if y2 >= canvasH {
		y2 = canvasH - 1
	}
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}

	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'
}

// drawLabel writes text centered at (cx, cy), clipped to the x1..x2 interior.
func drawLabel(canvas [][]rune, label string, cx, cy, x1, x2 int) {
	if cy < 0 || cy >= len(canvas) {
		return
	}
	startX := cx - len(label)/2
	for i, r := range label {
		x := startX + i
		if x > x1 && x < x2 && x >= 0 && x < len(canvas[cy]) {
			canvas[cy][x] = r
		}
	}
}
