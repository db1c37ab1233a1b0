package menu

import (
	"errors"
	"testing"

	"github.com/1broseidon/docktile/internal/config"
)

type fakeBackend struct {
	result Item
	err    error
	shown  []Item
}

func (f *fakeBackend) Show(prompt string, items []Item, message string) (Item, error) {
	f.shown = items
	if f.err != nil {
		return Item{}, f.err
	}
	return f.result, nil
}

func TestBuild_FlattensCategoriesWithHeaders(t *testing.T) {
	categories := []config.Category{
		{Name: "Internet", Shortcuts: []config.Shortcut{
			{Name: "Firefox", Path: "firefox"},
			{Name: "Mail", Path: "thunderbird"},
		}},
		{Name: "Empty"},
		{Name: "Tools", Shortcuts: []config.Shortcut{
			{Name: "Files", Path: "nautilus"},
		}},
	}

	items := Build(categories, nil)

	want := []struct {
		label    string
		isHeader bool
	}{
		{"Internet", true},
		{"Firefox", false},
		{"Mail", false},
		{"Tools", true},
		{"Files", false},
	}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d (%#v)", len(want), len(items), items)
	}
	for i, w := range want {
		if items[i].Label != w.label || items[i].IsHeader != w.isHeader {
			t.Errorf("item %d: expected (%q, header=%v), got (%q, header=%v)",
				i, w.label, w.isHeader, items[i].Label, items[i].IsHeader)
		}
	}
}

func TestBuild_MarksRunningShortcuts(t *testing.T) {
	categories := []config.Category{
		{Name: "Apps", Shortcuts: []config.Shortcut{
			{Name: "Firefox", Path: "firefox"},
			{Name: "Files", Path: "nautilus"},
		}},
	}

	items := Build(categories, func(command string) bool {
		return command == "firefox"
	})

	if !items[1].IsActive {
		t.Error("expected firefox row to be active")
	}
	if items[2].IsActive {
		t.Error("expected nautilus row to be inactive")
	}
}

func TestBuild_DerivesIconNames(t *testing.T) {
	categories := []config.Category{
		{Name: "Apps", Shortcuts: []config.Shortcut{
			{Name: "Editor", Path: "/usr/bin/Code --no-sandbox"},
		}},
	}

	items := Build(categories, nil)
	if items[1].Icon != "code" {
		t.Fatalf("expected icon name code, got %q", items[1].Icon)
	}
}

func TestPick_ReturnsSelectedCommand(t *testing.T) {
	categories := []config.Category{
		{Name: "Apps", Shortcuts: []config.Shortcut{
			{Name: "Firefox", Path: "firefox"},
		}},
	}
	backend := &fakeBackend{result: Item{Label: "Firefox", Action: "firefox"}}

	got, err := Pick(backend, categories, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "firefox" {
		t.Fatalf("expected command firefox, got %q", got)
	}
}

func TestPick_NoShortcutsConfigured(t *testing.T) {
	backend := &fakeBackend{}
	if _, err := Pick(backend, nil, nil); err == nil {
		t.Fatal("expected error for empty menu")
	}
}

func TestPick_HeaderSelectionCancels(t *testing.T) {
	categories := []config.Category{
		{Name: "Apps", Shortcuts: []config.Shortcut{
			{Name: "Firefox", Path: "firefox"},
		}},
	}
	backend := &fakeBackend{result: Item{Label: "Apps", IsHeader: true}}

	_, err := Pick(backend, categories, nil)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled for header selection, got %v", err)
	}
}

func TestPick_PropagatesCancel(t *testing.T) {
	categories := []config.Category{
		{Name: "Apps", Shortcuts: []config.Shortcut{
			{Name: "Firefox", Path: "firefox"},
		}},
	}
	backend := &fakeBackend{err: ErrCancelled}

	_, err := Pick(backend, categories, nil)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}
