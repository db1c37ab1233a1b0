package config

import (
	"fmt"
	"os/exec"
)

// builtinGroup is a candidate category: command names probed against PATH in
// order, with the display name used when the command resolves.
type builtinGroup struct {
	name    string
	entries [][2]string // display name, command
}

var builtinGroups = []builtinGroup{
	{name: "Internet", entries: [][2]string{
		{"Firefox", "firefox"},
		{"Chromium", "chromium"},
		{"Chrome", "google-chrome"},
	}},
	{name: "Files", entries: [][2]string{
		{"Files", "nautilus"},
		{"Thunar", "thunar"},
		{"Dolphin", "dolphin"},
		{"PCManFM", "pcmanfm"},
	}},
	{name: "Terminals", entries: [][2]string{
		{"Kitty", "kitty"},
		{"Alacritty", "alacritty"},
		{"Ghostty", "ghostty"},
		{"GNOME Terminal", "gnome-terminal"},
		{"Konsole", "konsole"},
		{"XTerm", "xterm"},
	}},
	{name: "Editors", entries: [][2]string{
		{"VS Code", "code"},
		{"Gedit", "gedit"},
		{"Emacs", "emacs"},
		{"GVim", "gvim"},
	}},
}

// BuiltinCategories probes PATH for commonly installed applications and
// returns them as starter categories. Groups with no resolvable command are
// omitted, so the result can be empty on a bare system; an empty dock is
// valid.
func BuiltinCategories() []Category {
	var out []Category
	for _, group := range builtinGroups {
		var shortcuts []Shortcut
		for _, entry := range group.entries {
			path, err := exec.LookPath(entry[1])
			if err != nil {
				continue
			}
			shortcuts = append(shortcuts, Shortcut{Name: entry[0], Path: path})
		}
		if len(shortcuts) == 0 {
			continue
		}
		out = append(out, Category{Name: group.name, Shortcuts: shortcuts})
	}
	return out
}

// uniqueCategoryName returns name, suffixed if needed so it does not collide
// with an existing category.
func uniqueCategoryName(existing []Category, name string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, cat := range existing {
		taken[cat.Name] = struct{}{}
	}
	candidate := name
	for i := 2; ; i++ {
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
		candidate = fmt.Sprintf("%s %d", name, i)
	}
}
