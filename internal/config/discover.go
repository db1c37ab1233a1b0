package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PinnedCategoryName is the display name of the discovered trailing category.
const PinnedCategoryName = "Pinned"

// DiscoverPinned scans dir for pinned entries: .desktop files and plain
// executables. A missing directory is not an error; the dock simply has no
// pinned category. Entries are sorted by name so the icon order is stable
// across runs.
func DiscoverPinned(dir string) ([]Shortcut, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read pinned directory %s: %w", dir, err)
	}

	var out []Shortcut
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		path := filepath.Join(dir, ent.Name())
		if strings.EqualFold(filepath.Ext(ent.Name()), ".desktop") {
			if sc, ok := parseDesktopEntry(path); ok {
				out = append(out, sc)
			}
			continue
		}
		info, err := ent.Info()
		if err != nil {
			continue
		}
		if info.Mode()&0111 == 0 {
			continue
		}
		name := strings.TrimSuffix(ent.Name(), filepath.Ext(ent.Name()))
		out = append(out, Shortcut{Name: name, Path: path})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AppendPinned merges discovered shortcuts into cfg as a trailing category.
// The category name is made unique against existing categories so the
// duplicate-name validation keeps holding.
func (c *Config) AppendPinned(shortcuts []Shortcut) {
	if len(shortcuts) == 0 {
		return
	}
	c.Categories = append(c.Categories, Category{
		Name:      uniqueCategoryName(c.Categories, PinnedCategoryName),
		Shortcuts: shortcuts,
	})
}

// parseDesktopEntry extracts Name and Exec from the [Desktop Entry] section.
// Only the first occurrence of each key counts. Exec field codes (%f, %u and
// friends) are stripped since the dock launches without arguments.
func parseDesktopEntry(path string) (Shortcut, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Shortcut{}, false
	}
	defer f.Close()

	var name, execLine string
	inEntry := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inEntry = line == "[Desktop Entry]"
			continue
		}
		if !inEntry {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Name":
			if name == "" {
				name = strings.TrimSpace(value)
			}
		case "Exec":
			if execLine == "" {
				execLine = strings.TrimSpace(value)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Shortcut{}, false
	}

	execPath := stripExecFieldCodes(execLine)
	if execPath == "" {
		return Shortcut{}, false
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".desktop")
	}
	return Shortcut{Name: name, Path: execPath}, true
}

// stripExecFieldCodes removes %-prefixed field codes from an Exec line and
// rejoins the remaining words into the bare command line.
func stripExecFieldCodes(execLine string) string {
	fields := strings.Fields(execLine)
	var kept []string
	for _, field := range fields {
		if strings.HasPrefix(field, "%") {
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}
