package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/docktile/internal/config"
)

func TestRunConfigInitWritesStarterFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if rc := runConfig([]string{"init", "--config", path}); rc != 0 {
		t.Fatalf("runConfig init rc=%d, want 0", rc)
	}

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.ToggleHotkey != "Mod4-d" {
		t.Fatalf("toggle_hotkey=%q, want %q", cfg.ToggleHotkey, "Mod4-d")
	}

	if rc := runConfig([]string{"init", "--config", path}); rc != 1 {
		t.Fatalf("runConfig init over existing file rc=%d, want 1", rc)
	}
	if rc := runConfig([]string{"init", "--force", "--config", path}); rc != 0 {
		t.Fatalf("runConfig init --force rc=%d, want 0", rc)
	}
}

func TestRunConfigInitHonorsEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	t.Setenv(config.EnvConfigPath, path)

	if rc := runConfig([]string{"init"}); rc != 0 {
		t.Fatalf("runConfig init rc=%d, want 0", rc)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected starter file at %s: %v", path, err)
	}
}

func TestRunConfigValidate(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	writeFile(t, good, "toggle_hotkey: Mod4-d\n")
	if rc := runConfig([]string{"validate", "--config", good}); rc != 0 {
		t.Fatalf("validate good config rc=%d, want 0", rc)
	}

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "appearance:\n  max_scale: 0.5\n")
	if rc := runConfig([]string{"validate", "--config", bad}); rc != 1 {
		t.Fatalf("validate bad config rc=%d, want 1", rc)
	}

	unknown := filepath.Join(dir, "unknown.yaml")
	writeFile(t, unknown, "no_such_key: true\n")
	if rc := runConfig([]string{"validate", "--config", unknown}); rc != 1 {
		t.Fatalf("validate unknown key rc=%d, want 1", rc)
	}
}

func TestRunConfigRejectsUnknownSubcommand(t *testing.T) {
	if rc := runConfig([]string{"frobnicate"}); rc != 2 {
		t.Fatalf("runConfig frobnicate rc=%d, want 2", rc)
	}
}

func TestRunLaunchArgumentErrors(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if rc := runLaunch(nil); rc != 2 {
		t.Fatalf("launch without target rc=%d, want 2", rc)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "categories:\n  - name: Tools\n    shortcuts:\n      - name: Editor\n        path: /usr/bin/editor\n")

	if rc := runLaunch([]string{"--config", path, "no-such-app"}); rc != 1 {
		t.Fatalf("launch unknown name rc=%d, want 1", rc)
	}
	if rc := runLaunch([]string{"--config", path, "7"}); rc != 1 {
		t.Fatalf("launch out-of-range index rc=%d, want 1", rc)
	}
}

func TestFindShortcut(t *testing.T) {
	shortcuts := []config.Shortcut{
		{Name: "Firefox", Path: "/usr/bin/firefox"},
		{Name: "Kitty", Path: "/usr/bin/kitty"},
	}

	tests := []struct {
		target   string
		wantPath string
		wantErr  bool
	}{
		{"0", "/usr/bin/firefox", false},
		{"1", "/usr/bin/kitty", false},
		{"2", "", true},
		{"-1", "", true},
		{"firefox", "/usr/bin/firefox", false},
		{"KITTY", "/usr/bin/kitty", false},
		{"emacs", "", true},
	}
	for _, tt := range tests {
		sc, err := findShortcut(shortcuts, tt.target)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("findShortcut(%q): expected error, got %+v", tt.target, sc)
			}
			continue
		}
		if err != nil {
			t.Fatalf("findShortcut(%q): %v", tt.target, err)
		}
		if sc.Path != tt.wantPath {
			t.Fatalf("findShortcut(%q) path=%q, want %q", tt.target, sc.Path, tt.wantPath)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
