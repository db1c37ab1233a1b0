package menu

import (
	"strings"
	"testing"
)

func TestLabelKeyed_DisambiguatesDuplicates(t *testing.T) {
	items := []Item{
		{Label: "Dup", Action: "a"},
		{Label: "Dup", Action: "b"},
		{Label: "Other", Action: "c"},
	}

	lines, shown := labelKeyed(items)

	if lines[0] != "Dup" || lines[1] != "Dup (2)" {
		t.Fatalf("expected duplicate suffix on second line, got %q", lines)
	}
	if shown["Dup"].Action != "a" || shown["Dup (2)"].Action != "b" {
		t.Fatalf("expected suffixed lines to map back to their items, got %#v", shown)
	}
	if items[1].Label != "Dup" {
		t.Fatalf("expected caller's items untouched, got %q", items[1].Label)
	}
}

func TestLabelKeyed_HeadersDoNotCountAsDuplicates(t *testing.T) {
	items := []Item{
		{Label: "Apps", IsHeader: true},
		{Label: "Firefox", Action: "firefox"},
	}

	lines, _ := labelKeyed(items)
	if lines[0] != "Apps" || lines[1] != "Firefox" {
		t.Fatalf("expected labels unchanged, got %q", lines)
	}
}

func TestItemAt_ResolvesIndex(t *testing.T) {
	items := []Item{
		{Label: "a", Action: "a"},
		{Label: "b", Action: "b"},
	}

	got, err := itemAt("1", items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != "b" {
		t.Fatalf("expected action b, got %q", got.Action)
	}
}

func TestItemAt_RejectsNonNumericOutput(t *testing.T) {
	if _, err := itemAt("firefox", []Item{{Label: "a"}}); err == nil {
		t.Fatal("expected error for non-numeric selection output")
	}
}

func TestItemAt_RejectsOutOfRangeIndex(t *testing.T) {
	items := []Item{{Label: "a"}}

	if _, err := itemAt("3", items); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
	if _, err := itemAt("-1", items); err == nil {
		t.Fatal("expected error for negative index")
	}
}

func TestByLabel_UnknownSelection(t *testing.T) {
	_, shown := labelKeyed([]Item{{Label: "a", Action: "a"}})

	if _, err := byLabel("nope", shown); err == nil {
		t.Fatal("expected error for unknown selection")
	}
}

func TestOneLine_CollapsesAndTrims(t *testing.T) {
	if got := oneLine("  a\r\nb  "); got != "a  b" {
		t.Fatalf("expected collapsed label, got %q", got)
	}
}

func TestStripSeparators_ReplacesProtocolBytes(t *testing.T) {
	got := stripSeparators("a\x00b\x1fc\rd\ne")
	if strings.ContainsAny(got, "\x00\x1f\r\n") {
		t.Fatalf("expected protocol bytes replaced, got %q", got)
	}
}

func TestShow_EmptyMenuFails(t *testing.T) {
	if _, err := (fuzzelPicker{}).Show("p", nil, ""); err == nil {
		t.Fatal("expected error for empty menu")
	}
}

func TestNewBackend_UnknownName(t *testing.T) {
	_, err := NewBackend("xyzzy")
	if err == nil || !strings.Contains(err.Error(), "unknown menu backend") {
		t.Fatalf("expected unknown-backend error, got %v", err)
	}
}
