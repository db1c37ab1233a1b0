package icons

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestIconName(t *testing.T) {
	tests := []struct {
		command string
		want    string
	}{
		{"firefox", "firefox"},
		{"google-chrome --new-window", "google-chrome"},
		{"/usr/bin/Thunderbird", "thunderbird"},
		{"  kitty  -e htop ", "kitty"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := IconName(tt.command); got != tt.want {
			t.Errorf("IconName(%q): expected %q, got %q", tt.command, tt.want, got)
		}
	}
}

func TestResolvePrefersLargerThemeSizes(t *testing.T) {
	root := t.TempDir()
	small := filepath.Join(root, "hicolor", "48x48", "apps", "firefox.png")
	large := filepath.Join(root, "hicolor", "128x128", "apps", "firefox.png")
	writeFile(t, small)
	writeFile(t, large)

	p := &Provider{Roots: []string{root}, Sizes: []int{128, 96, 64, 48}}

	ref := p.Resolve("firefox")
	if ref == nil {
		t.Fatal("expected a resolution")
	}
	if ref.Path() != large {
		t.Errorf("expected %q, got %q", large, ref.Path())
	}
}

func TestResolveFallsBackToPixmaps(t *testing.T) {
	themes := t.TempDir()
	pixmaps := t.TempDir()
	writeFile(t, filepath.Join(pixmaps, "mutt.png"))

	p := &Provider{
		Roots:   []string{themes},
		Pixmaps: []string{pixmaps},
		Sizes:   []int{48},
	}

	ref := p.Resolve("/usr/bin/mutt -R")
	if ref == nil {
		t.Fatal("expected pixmap fallback to resolve")
	}
	if ref.Path() != filepath.Join(pixmaps, "mutt.png") {
		t.Errorf("unexpected path %q", ref.Path())
	}
}

func TestResolveMissTolerated(t *testing.T) {
	p := &Provider{Roots: []string{t.TempDir()}, Sizes: []int{48}}

	if ref := p.Resolve("no-such-app"); ref != nil {
		t.Fatal("expected a miss")
	}
	if ref := p.Resolve(""); ref != nil {
		t.Fatal("expected a miss for the empty command")
	}
	// A nil ref still answers Path.
	var nilRef *Ref
	if nilRef.Path() != "" {
		t.Error("expected empty path from a nil ref")
	}
}

func TestResolveSkipsDirectories(t *testing.T) {
	pixmaps := t.TempDir()
	// A directory with the candidate name must not resolve.
	if err := os.MkdirAll(filepath.Join(pixmaps, "weird.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	p := &Provider{Pixmaps: []string{pixmaps}, Sizes: []int{48}}
	if ref := p.Resolve("weird"); ref != nil {
		t.Fatal("expected directory candidate to be skipped")
	}
}
