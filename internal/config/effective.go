package config

import (
	"fmt"
	"math"
	"strconv"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Color is a parsed background color. Alpha takes effect on ARGB visuals;
// the 24-bit fallback renders the color opaque.
type Color struct {
	R, G, B, A uint8
}

// Pixel returns the color as a 0x00RRGGBB pixel value.
func (c Color) Pixel() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// ParseColor parses an RRGGBB or RRGGBBAA hex string, with or without a
// leading '#'. Alpha defaults to opaque.
func ParseColor(s string) (Color, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 && len(s) != 8 {
		return Color{}, fmt.Errorf("color %q must be RRGGBB or RRGGBBAA hex", s)
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return Color{}, fmt.Errorf("color %q is not valid hex: %w", s, err)
	}
	c := Color{A: 0xff}
	if len(s) == 8 {
		c.A = uint8(v & 0xff)
		v >>= 8
	}
	c.B = uint8(v & 0xff)
	c.G = uint8((v >> 8) & 0xff)
	c.R = uint8((v >> 16) & 0xff)
	return c, nil
}

// BarHeight is the fixed height of the bar background. Icons overflow above
// it when magnified; the bar itself never grows.
func (a *Appearance) BarHeight() float64 {
	return a.IconSize + 2*a.BarPaddingV
}

// Slot is the horizontal span one un-magnified icon occupies including its
// trailing spacing.
func (a *Appearance) Slot() float64 {
	return a.IconSize + a.IconSpacing
}

// WindowHeight is the dock window height: tall enough for a fully magnified
// icon standing on the bar's inner bottom edge, plus the bottom margin.
func (a *Appearance) WindowHeight() float64 {
	overflow := a.IconSize * (a.MaxScale - 1)
	return a.BarHeight() + a.BarBottomMargin + math.Ceil(overflow)
}

// BackgroundColor returns the parsed bar background. Validate guarantees the
// string parses, so errors here fall back to the default.
func (a *Appearance) BackgroundColor() Color {
	c, err := ParseColor(a.Background)
	if err != nil {
		return Color{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xb4}
	}
	return c
}

// ReservePx is the strut thickness in device pixels for a monitor scale
// factor. The logical height covers the bar, its margin, and hover headroom.
func (b *Behavior) ReservePx(scale float64) int {
	if scale <= 0 {
		scale = 1
	}
	return int(math.Ceil(b.ReserveHeight * scale))
}
