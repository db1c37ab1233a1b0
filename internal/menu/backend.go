package menu

import (
	"fmt"
	"os/exec"
	"strings"
)

// Item is a single row in the launcher menu. Headers and dividers are
// decoration: they carry no Action and selecting one never launches.
type Item struct {
	Label     string // display text
	Action    string // launch command returned on selection
	Icon      string // icon theme name, e.g. "firefox"
	Meta      string // hidden search keywords
	IsHeader  bool   // category header row
	IsDivider bool   // divider row
	IsActive  bool   // application already running
}

// Backend shows the menu and reports the chosen row.
type Backend interface {
	Show(prompt string, items []Item, message string) (Item, error)
}

// pickerPrograms lists the supported menu programs in autodetect priority
// order. Rofi first: it is the only one with icons and non-selectable rows.
var pickerPrograms = []struct {
	name  string
	build func() Backend
}{
	{"rofi", func() Backend { return rofiPicker{} }},
	{"fuzzel", func() Backend { return fuzzelPicker{} }},
	{"wofi", func() Backend { return wofiPicker{} }},
	{"dmenu", func() Backend { return dmenuPicker{} }},
}

// NewBackend resolves a configured backend name to a picker. "auto" (or the
// empty string) walks the priority order and takes the first program found
// in PATH.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	if name == "" || name == "auto" {
		for _, p := range pickerPrograms {
			if _, err := exec.LookPath(p.name); err == nil {
				return p.build(), nil
			}
		}
		return nil, fmt.Errorf("no menu program found in PATH (looked for rofi, fuzzel, wofi, dmenu)")
	}

	for _, p := range pickerPrograms {
		if p.name != name {
			continue
		}
		if _, err := exec.LookPath(p.name); err != nil {
			return nil, fmt.Errorf("menu backend %q not found in PATH", name)
		}
		return p.build(), nil
	}
	return nil, fmt.Errorf("unknown menu backend %q (expected auto, rofi, fuzzel, wofi or dmenu)", name)
}
