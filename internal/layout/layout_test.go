package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/1broseidon/docktile/internal/config"
)

func testAppearance() *config.Appearance {
	return &config.Appearance{
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
	}
}

func TestUnit_AllOnes(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		scales := Unit(n)
		if len(scales) != n {
			t.Fatalf("expected %d scales, got %d", n, len(scales))
		}
		for i, s := range scales {
			if s != 1.0 {
				t.Fatalf("expected scale 1.0 at %d, got %v", i, s)
			}
		}
	}
}

func TestMagnify_PeakAtCenter(t *testing.T) {
	a := testAppearance()
	centers := []float64{100, 200, 300}

	scales := Magnify(centers, 200, a)
	if scales[1] != a.MaxScale {
		t.Fatalf("expected max scale %v at center, got %v", a.MaxScale, scales[1])
	}
	if scales[0] >= scales[1] || scales[2] >= scales[1] {
		t.Fatalf("expected neighbors below the peak, got %v", scales)
	}
}

func TestMagnify_SymmetricAroundCenter(t *testing.T) {
	a := testAppearance()
	centers := []float64{250}

	for _, d := range []float64{1, 17, 58, 200} {
		left := Magnify(centers, 250-d, a)[0]
		right := Magnify(centers, 250+d, a)[0]
		if left != right {
			t.Fatalf("expected symmetry at d=%v: %v != %v", d, left, right)
		}
	}
}

func TestMagnify_DecreasesWithDistance(t *testing.T) {
	a := testAppearance()
	centers := []float64{250}

	prev := Magnify(centers, 250, a)[0]
	for _, d := range []float64{10, 30, 90, 270, 810} {
		s := Magnify(centers, 250+d, a)[0]
		if s >= prev {
			t.Fatalf("expected scale to decrease with distance, got %v then %v at d=%v", prev, s, d)
		}
		prev = s
	}
}

func TestMagnify_Bounded(t *testing.T) {
	a := testAppearance()
	centers := []float64{0, 58, 116, 174, 232}

	for x := -500.0; x <= 700; x += 13 {
		for i, s := range Magnify(centers, x, a) {
			if s < 1.0 || s > a.MaxScale {
				t.Fatalf("scale out of [1, %v] at icon %d, pointer %v: %v", a.MaxScale, i, x, s)
			}
		}
	}
}

func TestMagnify_FarPointerIsIdentity(t *testing.T) {
	a := testAppearance()
	base := Solve(Unit(5), a, 800, a.WindowHeight())

	scales := Magnify(Centers(base), 100000, a)
	for i, s := range scales {
		if s != 1.0 {
			t.Fatalf("expected scale exactly 1.0 far from the bar, got %v at %d", s, i)
		}
	}
}

func TestSolve_FiveIconBaseline(t *testing.T) {
	a := testAppearance()
	l := Solve(Unit(5), a, 800, a.WindowHeight())

	// 5*48 + 4*10 + 2*12 = 240 + 40 + 24 = 304
	if l.BarWidth != 304 {
		t.Fatalf("expected bar width 304, got %v", l.BarWidth)
	}
	// (800 - 304) / 2 = 248
	if l.BarX != 248 {
		t.Fatalf("expected bar x 248, got %v", l.BarX)
	}
	if l.BarHeight != 60 {
		t.Fatalf("expected bar height 60, got %v", l.BarHeight)
	}
}

func TestSolve_PointerAtIconCenter(t *testing.T) {
	a := testAppearance()
	base := Solve(Unit(5), a, 800, a.WindowHeight())
	centers := Centers(base)

	scales := Magnify(centers, centers[2], a)
	if scales[2] != 1.8 {
		t.Fatalf("expected scale 1.8 at hovered icon, got %v", scales[2])
	}
	if scales[1] != scales[3] {
		t.Fatalf("expected equal neighbor scales, got %v and %v", scales[1], scales[3])
	}
	if scales[1] <= 1.0 || scales[1] >= 1.8 {
		t.Fatalf("expected neighbor scale strictly between 1 and 1.8, got %v", scales[1])
	}
}

func TestSolve_PreservesOrderWithoutOverlap(t *testing.T) {
	a := testAppearance()
	base := Solve(Unit(7), a, 1024, a.WindowHeight())
	scales := Magnify(Centers(base), 512, a)

	l := Solve(scales, a, 1024, a.WindowHeight())
	for i := 0; i < len(l.Icons)-1; i++ {
		cur, next := l.Icons[i], l.Icons[i+1]
		if cur.X+cur.Width > next.X {
			t.Fatalf("icons %d and %d overlap: %v + %v > %v", i, i+1, cur.X, cur.Width, next.X)
		}
	}
}

func TestSolve_Idempotent(t *testing.T) {
	a := testAppearance()
	scales := Magnify([]float64{100, 158, 216}, 170, a)

	first := Solve(scales, a, 640, a.WindowHeight())
	second := Solve(scales, a, 640, a.WindowHeight())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical layouts for identical inputs:\n%+v\n%+v", first, second)
	}
}

func TestSolve_BarWidthMonotonicInScale(t *testing.T) {
	a := testAppearance()
	scales := Unit(4)

	prev := Solve(scales, a, 800, a.WindowHeight()).BarWidth
	for _, s := range []float64{1.1, 1.3, 1.55, 1.8} {
		scales[2] = s
		w := Solve(scales, a, 800, a.WindowHeight()).BarWidth
		if w < prev {
			t.Fatalf("expected bar width to be non-decreasing, got %v then %v at scale %v", prev, w, s)
		}
		prev = w
	}
}

func TestSolve_ZeroIcons(t *testing.T) {
	a := testAppearance()
	l := Solve(Unit(0), a, 800, a.WindowHeight())

	// Empty bar is just the two horizontal paddings.
	if l.BarWidth != 24 {
		t.Fatalf("expected bar width 24, got %v", l.BarWidth)
	}
	if len(l.Icons) != 0 {
		t.Fatalf("expected no icons, got %d", len(l.Icons))
	}
	if l.BarX < 0 {
		t.Fatalf("expected non-negative bar x in a normal window, got %v", l.BarX)
	}
}

func TestSolve_NarrowWindowKeepsBarUnclamped(t *testing.T) {
	a := testAppearance()
	l := Solve(Unit(5), a, 200, a.WindowHeight())

	// (200 - 304) / 2 = -52; clamping is the renderer's call.
	if l.BarX != -52 {
		t.Fatalf("expected bar x -52, got %v", l.BarX)
	}
	if l.BarWidth != 304 {
		t.Fatalf("expected bar width 304, got %v", l.BarWidth)
	}
}

func TestSolve_IconsBottomAnchoredGrowUpward(t *testing.T) {
	a := testAppearance()
	winH := a.WindowHeight()

	base := Solve(Unit(3), a, 640, winH)
	centers := Centers(base)
	magnified := Solve(Magnify(centers, centers[1], a), a, 640, winH)

	bottomInner := base.BarY + base.BarHeight - a.BarPaddingV
	for i, icon := range base.Icons {
		if got := icon.Y + icon.Height; got != bottomInner {
			t.Fatalf("expected icon %d anchored to %v, got %v", i, bottomInner, got)
		}
	}
	for i, icon := range magnified.Icons {
		if got := icon.Y + icon.Height; math.Abs(got-bottomInner) > 1e-9 {
			t.Fatalf("expected magnified icon %d still anchored to %v, got %v", i, bottomInner, got)
		}
	}
	// The hovered icon is taller, so its top edge rises.
	if magnified.Icons[1].Y >= base.Icons[1].Y {
		t.Fatalf("expected magnified icon top to rise: %v >= %v", magnified.Icons[1].Y, base.Icons[1].Y)
	}
}

func TestSolve_BarHeightIndependentOfScale(t *testing.T) {
	a := testAppearance()
	base := Solve(Unit(3), a, 640, a.WindowHeight())
	centers := Centers(base)

	magnified := Solve(Magnify(centers, centers[0], a), a, 640, a.WindowHeight())
	if magnified.BarHeight != base.BarHeight {
		t.Fatalf("expected fixed bar height %v, got %v", base.BarHeight, magnified.BarHeight)
	}
	if magnified.BarY != base.BarY {
		t.Fatalf("expected fixed bar y %v, got %v", base.BarY, magnified.BarY)
	}
}

func TestBase_AscendingContiguous(t *testing.T) {
	a := testAppearance()
	base := Base(4, a)

	for i := range base {
		// pad + i*(48+10)
		want := 12 + float64(i)*58
		if base[i] != want {
			t.Fatalf("expected base[%d]=%v, got %v", i, want, base[i])
		}
	}
}

func TestHitTest(t *testing.T) {
	a := testAppearance()
	l := Solve(Unit(3), a, 640, a.WindowHeight())

	// Dead center of icon 1.
	icon := l.Icons[1]
	idx, ok := HitTest(l, icon.X+icon.Width/2, icon.Y+icon.Height/2)
	if !ok || idx != 1 {
		t.Fatalf("expected hit on icon 1, got %d ok=%v", idx, ok)
	}

	// The spacing gap between icons 0 and 1 misses.
	gapX := l.Icons[0].X + l.Icons[0].Width + a.IconSpacing/2
	if _, ok := HitTest(l, gapX, icon.Y+icon.Height/2); ok {
		t.Fatalf("expected miss in the spacing gap")
	}

	// Outside the bar entirely.
	if _, ok := HitTest(l, -50, 10); ok {
		t.Fatalf("expected miss outside the bar")
	}
}
