package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverPinned_MissingDirIsEmpty(t *testing.T) {
	got, err := DiscoverPinned(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no shortcuts, got %d", len(got))
	}
}

func TestDiscoverPinned_DesktopFilesAndExecutables(t *testing.T) {
	dir := t.TempDir()

	desktop := `[Desktop Entry]
Type=Application
Name=Image Viewer
Exec=imgview %f
`
	if err := os.WriteFile(filepath.Join(dir, "viewer.desktop"), []byte(desktop), 0644); err != nil {
		t.Fatalf("write desktop file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "mytool"), []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("write executable: %v", err)
	}
	// Non-executable files are skipped.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write plain file: %v", err)
	}

	got, err := DiscoverPinned(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 shortcuts, got %d: %+v", len(got), got)
	}
	// Sorted by name: "Image Viewer" < "mytool".
	if got[0].Name != "Image Viewer" || got[0].Path != "imgview" {
		t.Fatalf("expected desktop entry with field codes stripped, got %+v", got[0])
	}
	if got[1].Name != "mytool" {
		t.Fatalf("expected executable entry, got %+v", got[1])
	}
}

func TestDiscoverPinned_IgnoresOtherSections(t *testing.T) {
	dir := t.TempDir()
	desktop := `[Desktop Action new-window]
Name=New Window
Exec=other --new-window

[Desktop Entry]
Name=Real Name
Exec=/opt/app/run
`
	if err := os.WriteFile(filepath.Join(dir, "app.desktop"), []byte(desktop), 0644); err != nil {
		t.Fatalf("write desktop file: %v", err)
	}

	got, err := DiscoverPinned(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 shortcut, got %d", len(got))
	}
	if got[0].Name != "Real Name" || got[0].Path != "/opt/app/run" {
		t.Fatalf("expected keys from [Desktop Entry] only, got %+v", got[0])
	}
}

func TestAppendPinned_AddsTrailingCategoryWithUniqueName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Categories = []Category{
		{Name: "Pinned", Shortcuts: []Shortcut{{Name: "a", Path: "/a"}}},
	}
	cfg.AppendPinned([]Shortcut{{Name: "b", Path: "/b"}})

	if len(cfg.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cfg.Categories))
	}
	last := cfg.Categories[len(cfg.Categories)-1]
	if last.Name == "Pinned" {
		t.Fatalf("expected a de-duplicated category name, got %q", last.Name)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config should still validate: %v", err)
	}
}

func TestAppendPinned_NoopOnEmpty(t *testing.T) {
	cfg := DefaultConfig()
	before := len(cfg.Categories)
	cfg.AppendPinned(nil)
	if len(cfg.Categories) != before {
		t.Fatalf("expected no category added, got %d", len(cfg.Categories))
	}
}
