package menu

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCancelled reports that the user dismissed the menu without choosing.
var ErrCancelled = errors.New("menu cancelled")

// fuzzelPicker drives fuzzel in dmenu mode. Fuzzel has no row metadata but
// does report the selection as an index with --index, so duplicate labels
// need no disambiguation.
type fuzzelPicker struct{}

func (fuzzelPicker) Show(prompt string, items []Item, message string) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("menu: nothing to show")
	}
	args := []string{"--dmenu", "--index"}
	if prompt != "" {
		args = append(args, "--prompt", prompt+" ")
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = oneLine(it.Label)
	}
	out, err := runPicker("fuzzel", args, strings.Join(lines, "\n"))
	if err != nil {
		return Item{}, err
	}
	return itemAt(out, items)
}

// wofiPicker drives wofi in dmenu mode. Wofi echoes the chosen line back,
// so input lines double as lookup keys.
type wofiPicker struct{}

func (wofiPicker) Show(prompt string, items []Item, _ string) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("menu: nothing to show")
	}
	args := []string{"--dmenu"}
	if prompt != "" {
		args = append(args, "--prompt", prompt)
	}
	lines, shown := labelKeyed(items)
	out, err := runPicker("wofi", args, strings.Join(lines, "\n"))
	if err != nil {
		return Item{}, err
	}
	return byLabel(out, shown)
}

// dmenuPicker drives plain dmenu, the least capable fallback. Like wofi it
// echoes the chosen line.
type dmenuPicker struct{}

func (dmenuPicker) Show(prompt string, items []Item, _ string) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("menu: nothing to show")
	}
	args := []string{"-i"}
	if prompt != "" {
		args = append(args, "-p", prompt)
	}
	lines, shown := labelKeyed(items)
	out, err := runPicker("dmenu", args, strings.Join(lines, "\n"))
	if err != nil {
		return Item{}, err
	}
	return byLabel(out, shown)
}

// runPicker runs the picker binary with the rows on stdin and returns the
// trimmed selection. A cancel exit status maps to ErrCancelled, anything
// else surfaces the picker's stderr.
func runPicker(bin string, args []string, input string) (string, error) {
	cmd := exec.Command(bin, args...)
	cmd.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	choice := strings.TrimSpace(stdout.String())
	if err != nil {
		if choice == "" && cancelled(err) {
			return "", ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %s", bin, msg)
		}
		return "", fmt.Errorf("%s: %w", bin, err)
	}
	if choice == "" {
		return "", ErrCancelled
	}
	return choice, nil
}

// cancelled reports whether the exit status means "user backed out".
// Pickers exit 1 on escape; 130 shows up when the picker dies on SIGINT.
func cancelled(err error) bool {
	var exit *exec.ExitError
	if !errors.As(err, &exit) {
		return false
	}
	code := exit.ExitCode()
	return code == 1 || code == 130
}

// itemAt resolves an index-format selection against the shown items.
func itemAt(out string, items []Item) (Item, error) {
	idx, err := strconv.Atoi(out)
	if err != nil {
		return Item{}, fmt.Errorf("menu: unexpected selection output %q", out)
	}
	if idx < 0 || idx >= len(items) {
		return Item{}, fmt.Errorf("menu: selection index %d out of range", idx)
	}
	return items[idx], nil
}

// byLabel resolves an echoed-line selection. shown maps each display line
// back to its item.
func byLabel(out string, shown map[string]Item) (Item, error) {
	it, ok := shown[out]
	if !ok {
		return Item{}, fmt.Errorf("menu: unknown selection %q", out)
	}
	return it, nil
}

// labelKeyed flattens items to display lines for pickers that echo the
// chosen text. Duplicate labels get a numeric suffix so the echo maps back
// to exactly one item.
func labelKeyed(items []Item) ([]string, map[string]Item) {
	lines := make([]string, len(items))
	shown := make(map[string]Item, len(items))
	seen := make(map[string]int, len(items))
	for i, it := range items {
		label := oneLine(it.Label)
		if !it.IsHeader && !it.IsDivider {
			seen[label]++
			if n := seen[label]; n > 1 {
				label = fmt.Sprintf("%s (%d)", label, n)
			}
		}
		lines[i] = label
		shown[label] = it
	}
	return lines, shown
}

// oneLine collapses newlines so a label cannot span picker rows.
func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// stripSeparators removes the bytes rofi's row protocol treats as
// delimiters from option values.
func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\x00', '\x1f', '\r', '\n':
			return ' '
		}
		return r
	}, s)
}
