package icons

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Ref is an opaque handle to a resolved icon bitmap. The provider owns the
// underlying file; holders keep the ref alongside the icon and hand it to
// rendering code untouched.
type Ref struct {
	path string
}

// Path reports the image file the handle points at. Safe on nil, which
// stands for "no visual resolved".
func (r *Ref) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// Provider resolves a shortcut's launch command to an icon image file on
// disk. Resolution is best-effort: a miss leaves the icon slot empty but
// clickable, it never removes the slot.
type Provider struct {
	// Roots are freedesktop icon theme roots searched in order, e.g.
	// ~/.local/share/icons, /usr/share/icons.
	Roots []string
	// Pixmaps are flat fallback directories, e.g. /usr/share/pixmaps.
	Pixmaps []string
	// Sizes are the raster sizes probed inside a theme, largest first so a
	// magnified icon has pixels to spare.
	Sizes []int

	logger *slog.Logger
}

// NewProvider creates a provider over the standard freedesktop search path.
func NewProvider(logger *slog.Logger) *Provider {
	return &Provider{
		Roots:   themeRoots(),
		Pixmaps: []string{"/usr/local/share/pixmaps", "/usr/share/pixmaps"},
		Sizes:   []int{128, 96, 64, 48, 32},
		logger:  logger,
	}
}

func themeRoots() []string {
	var roots []string

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	if dataHome != "" {
		roots = append(roots, filepath.Join(dataHome, "icons"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, ".icons"))
	}
	roots = append(roots, "/usr/local/share/icons", "/usr/share/icons")
	return roots
}

// IconName derives the icon lookup name from a launch command: the first
// word's basename, lowercased. "google-chrome --new-window" looks up
// "google-chrome".
func IconName(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(filepath.Base(fields[0]))
}

// Resolve maps a launch command to an icon bitmap handle. Only raster PNGs
// are considered; themes are probed at the configured sizes under hicolor,
// then the flat pixmap directories. A nil return means no visual was found.
func (p *Provider) Resolve(command string) *Ref {
	name := IconName(command)
	if name == "" {
		return nil
	}

	for _, root := range p.Roots {
		for _, size := range p.Sizes {
			candidate := filepath.Join(root, "hicolor",
				fmt.Sprintf("%dx%d", size, size), "apps", name+".png")
			if fileExists(candidate) {
				return &Ref{path: candidate}
			}
		}
	}

	for _, dir := range p.Pixmaps {
		candidate := filepath.Join(dir, name+".png")
		if fileExists(candidate) {
			return &Ref{path: candidate}
		}
	}

	if p.logger != nil {
		p.logger.Debug("no icon found", "name", name)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
