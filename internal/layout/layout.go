package layout

import (
	"math"

	"github.com/1broseidon/docktile/internal/config"
)

// IconPlacement is one icon's solved geometry in window coordinates.
type IconPlacement struct {
	Scale  float64
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// DockLayout is the solved geometry of the bar and every icon. It is a pure
// function of its inputs; two solves with identical inputs are identical.
type DockLayout struct {
	BarX      float64
	BarY      float64
	BarWidth  float64
	BarHeight float64
	Icons     []IconPlacement
}

// Base computes the un-magnified left edge of every icon relative to the
// bar's left edge. Assigned once when the icon set is finalized; ordering is
// ascending and contiguous by construction.
func Base(n int, a *config.Appearance) []float64 {
	base := make([]float64, n)
	for i := 0; i < n; i++ {
		base[i] = a.BarPaddingH + float64(i)*a.Slot()
	}
	return base
}

// Unit returns n scale factors of exactly 1.0, the pointer-absent case.
func Unit(n int) []float64 {
	scales := make([]float64, n)
	for i := range scales {
		scales[i] = 1.0
	}
	return scales
}

// Magnify computes per-icon scale factors for a pointer at x, given icon
// centers in the same coordinate space. The falloff is a Gaussian around
// each icon's own center:
//
//	scale(i) = 1 + (maxScale-1) * exp(-(x-c_i)^2 / (2*sigma^2))
//
// The result is symmetric around each center, decreasing with distance,
// and bounded in [1, maxScale]. A pointer far outside the bar simply
// contributes scales near 1.
func Magnify(centers []float64, x float64, a *config.Appearance) []float64 {
	scales := make([]float64, len(centers))
	denom := 2 * a.Sigma * a.Sigma
	for i, c := range centers {
		d := x - c
		scales[i] = 1 + (a.MaxScale-1)*math.Exp(-(d*d)/denom)
	}
	return scales
}

// Solve packs scaled icons into a horizontally centered bar near the bottom
// of the window.
//
// The bar height is fixed: magnified icons overflow upward out of the bar,
// the bar itself never grows. Icons are bottom-anchored to the bar's inner
// bottom edge so they rise as they magnify. Packing is strictly sequential
// left to right; icon order is never changed by a solve.
//
// A window narrower than the bar produces a negative BarX; clamping is a
// rendering policy, not a solver concern. Zero icons produce an empty bar of
// width 2*BarPaddingH.
func Solve(scales []float64, a *config.Appearance, windowWidth, windowHeight float64) DockLayout {
	contentWidth := 0.0
	for _, s := range scales {
		contentWidth += s * a.IconSize
	}
	if len(scales) > 1 {
		contentWidth += a.IconSpacing * float64(len(scales)-1)
	}

	barWidth := contentWidth + 2*a.BarPaddingH
	barHeight := a.BarHeight()
	barX := (windowWidth - barWidth) / 2
	barY := windowHeight - barHeight - a.BarBottomMargin

	// Icons sit on the bar's inner bottom edge and grow upward.
	bottomInner := barY + barHeight - a.BarPaddingV

	icons := make([]IconPlacement, len(scales))
	x := barX + a.BarPaddingH
	for i, s := range scales {
		w := s * a.IconSize
		h := s * a.IconSize
		icons[i] = IconPlacement{
			Scale:  s,
			X:      x,
			Y:      bottomInner - h,
			Width:  w,
			Height: h,
		}
		x += w + a.IconSpacing
	}

	return DockLayout{
		BarX:      barX,
		BarY:      barY,
		BarWidth:  barWidth,
		BarHeight: barHeight,
		Icons:     icons,
	}
}

// Centers returns each icon's horizontal center from a solved layout. Fed to
// Magnify together with the pointer x, which arrives in the same window
// coordinates.
func Centers(l DockLayout) []float64 {
	centers := make([]float64, len(l.Icons))
	for i, icon := range l.Icons {
		centers[i] = icon.X + icon.Width/2
	}
	return centers
}

// HitTest returns the index of the icon containing (x, y), or false if the
// point falls outside every icon. Gaps between icons do not hit. Callers pass
// the un-magnified base layout: clicks resolve against stable geometry, not
// whatever the animation is showing.
func HitTest(l DockLayout, x, y float64) (int, bool) {
	for i, icon := range l.Icons {
		if x >= icon.X && x < icon.X+icon.Width && y >= icon.Y && y < icon.Y+icon.Height {
			return i, true
		}
	}
	return 0, false
}
