package hotkeys

import "testing"

func TestIgnoreCombos_CoversEveryLockCombination(t *testing.T) {
	combos := ignoreCombos([]uint16{2, 16})

	want := map[uint16]bool{0: false, 2: false, 16: false, 18: false}
	if len(combos) != len(want) {
		t.Fatalf("expected %d combinations, got %d (%v)", len(want), len(combos), combos)
	}
	for _, c := range combos {
		seen, ok := want[c]
		if !ok {
			t.Fatalf("unexpected combination %d in %v", c, combos)
		}
		if seen {
			t.Fatalf("duplicate combination %d in %v", c, combos)
		}
		want[c] = true
	}
}

func TestIgnoreCombos_SingleMask(t *testing.T) {
	combos := ignoreCombos([]uint16{2})
	if len(combos) != 2 || combos[0] != 0 || combos[1] != 2 {
		t.Fatalf("expected [0 2], got %v", combos)
	}
}
