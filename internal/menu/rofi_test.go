package menu

import (
	"strings"
	"testing"
)

func TestRofiRow_SingleNullThenUnitSeparatedOptions(t *testing.T) {
	out := rofiRow(Item{
		Label:    "Header",
		IsHeader: true,
		Icon:     "folder",
		Meta:     "meta",
	})

	if got := strings.Count(out, "\x00"); got != 1 {
		t.Fatalf("expected exactly 1 NUL separator, got %d (%q)", got, out)
	}
	opts := strings.SplitN(out, "\x00", 2)[1]
	if !strings.Contains(opts, "nonselectable\x1ftrue") {
		t.Fatalf("expected nonselectable option, got %q", out)
	}
	if !strings.Contains(opts, "icon\x1ffolder") || !strings.Contains(opts, "meta\x1fmeta") {
		t.Fatalf("expected icon/meta options, got %q", out)
	}
}

func TestRofiRow_BoldHeader(t *testing.T) {
	out := rofiRow(Item{Label: "Internet", IsHeader: true})

	if !strings.HasPrefix(out, "<b>Internet</b>") {
		t.Fatalf("expected bold markup for header, got %q", out)
	}
	if !strings.Contains(out, "nonselectable\x1ftrue") {
		t.Fatalf("expected nonselectable option for header, got %q", out)
	}
}

func TestRofiRow_DimmedDivider(t *testing.T) {
	out := rofiRow(Item{Label: "────", IsDivider: true})

	if !strings.Contains(out, "<span foreground=") {
		t.Fatalf("expected span markup for divider, got %q", out)
	}
	if !strings.Contains(out, "nonselectable\x1ftrue") {
		t.Fatalf("expected nonselectable option for divider, got %q", out)
	}
}

func TestRofiRow_PlainItemHasNoOptions(t *testing.T) {
	out := rofiRow(Item{Label: "Firefox", Action: "firefox"})

	if out != "Firefox" {
		t.Fatalf("expected bare label, got %q", out)
	}
}

func TestRofiRow_RunningRowIsActive(t *testing.T) {
	out := rofiRow(Item{Label: "Firefox", Action: "firefox", IsActive: true})

	if !strings.Contains(out, "active\x1ftrue") {
		t.Fatalf("expected active option for running row, got %q", out)
	}
}

func TestRofiRow_EscapesMarkupInLabels(t *testing.T) {
	out := rofiRow(Item{Label: "R&D <Lab>", Action: "lab"})

	if out != "R&amp;D &lt;Lab&gt;" {
		t.Fatalf("expected escaped label, got %q", out)
	}
}

func TestRofiRow_CollapsesMultilineLabels(t *testing.T) {
	out := rofiRow(Item{Label: "Two\nLines", Action: "x"})

	if strings.ContainsAny(out, "\r\n") {
		t.Fatalf("expected single-line label, got %q", out)
	}
}

func TestRofiRow_StripsSeparatorsFromOptionValues(t *testing.T) {
	out := rofiRow(Item{Label: "x", Icon: "bad\x1ficon\x00name"})

	opts := strings.SplitN(out, "\x00", 2)[1]
	if strings.Contains(opts, "bad\x1ficon") {
		t.Fatalf("expected separators stripped from icon value, got %q", out)
	}
}

func TestActiveRows_SkipsDecoration(t *testing.T) {
	items := []Item{
		{Label: "Apps", IsHeader: true, IsActive: true},
		{Label: "Firefox", Action: "firefox", IsActive: true},
		{Label: "Files", Action: "nautilus"},
		{Label: "Kitty", Action: "kitty", IsActive: true},
	}

	if got := activeRows(items); got != "1,3" {
		t.Fatalf("expected active rows 1,3, got %q", got)
	}
}

func TestActiveRows_EmptyWhenNothingRuns(t *testing.T) {
	items := []Item{{Label: "Firefox", Action: "firefox"}}

	if got := activeRows(items); got != "" {
		t.Fatalf("expected empty active rows, got %q", got)
	}
}

func TestFirstSelectable_SkipsLeadingHeader(t *testing.T) {
	items := []Item{
		{Label: "Apps", IsHeader: true},
		{Label: "Firefox", Action: "firefox"},
	}

	idx, ok := firstSelectable(items)
	if !ok || idx != 1 {
		t.Fatalf("expected first selectable row 1, got %d (ok=%v)", idx, ok)
	}
}

func TestFirstSelectable_AllDecoration(t *testing.T) {
	items := []Item{
		{Label: "Apps", IsHeader: true},
		{Label: "────", IsDivider: true},
	}

	if _, ok := firstSelectable(items); ok {
		t.Fatal("expected no selectable row")
	}
}
