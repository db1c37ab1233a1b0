package menu

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// rofiPicker drives rofi in dmenu mode. Rofi is the only picker with row
// metadata: icons, pango markup, non-selectable headers and running-row
// marks all ride its entry protocol, and -format i makes the selection an
// index instead of echoed text.
type rofiPicker struct{}

func (rofiPicker) Show(prompt string, items []Item, message string) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("menu: nothing to show")
	}

	args := []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
	if prompt != "" {
		args = append(args, "-p", prompt)
	}
	if message != "" {
		args = append(args, "-mesg", message)
	}
	if active := activeRows(items); active != "" {
		args = append(args, "-a", active)
	}
	if first, ok := firstSelectable(items); ok {
		args = append(args, "-selected-row", strconv.Itoa(first))
	}

	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = rofiRow(it)
	}

	out, err := runPicker("rofi", args, strings.Join(lines, "\n"))
	if err != nil {
		return Item{}, err
	}
	return itemAt(out, items)
}

// rofiRow renders one input line. Row options follow the label after a
// single NUL, as key/value pairs joined by the unit separator; the label
// itself is pango-escaped because -markup-rows is always on.
func rofiRow(it Item) string {
	label := html.EscapeString(oneLine(it.Label))
	switch {
	case it.IsHeader:
		label = "<b>" + label + "</b>"
	case it.IsDivider:
		label = "<span foreground='#666666'>" + label + "</span>"
	}

	var opts []string
	if it.IsHeader || it.IsDivider {
		opts = append(opts, "nonselectable", "true")
	}
	if it.Icon != "" {
		opts = append(opts, "icon", stripSeparators(it.Icon))
	}
	if it.Meta != "" {
		opts = append(opts, "meta", stripSeparators(it.Meta))
	}
	if it.IsActive {
		opts = append(opts, "active", "true")
	}

	if len(opts) == 0 {
		return label
	}
	return label + "\x00" + strings.Join(opts, "\x1f")
}

// activeRows formats the running-row indices for -a, comma separated.
// Rofi honors -a in dmenu mode more reliably than per-row active options.
func activeRows(items []Item) string {
	var parts []string
	for i, it := range items {
		if it.IsActive && !it.IsHeader && !it.IsDivider {
			parts = append(parts, strconv.Itoa(i))
		}
	}
	return strings.Join(parts, ",")
}

// firstSelectable returns the first non-decoration row, so the cursor does
// not start on a category header.
func firstSelectable(items []Item) (int, bool) {
	for i, it := range items {
		if !it.IsHeader && !it.IsDivider {
			return i, true
		}
	}
	return 0, false
}
