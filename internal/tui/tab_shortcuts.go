package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/docktile/internal/config"
	"github.com/1broseidon/docktile/internal/icons"
)

// shortcutItem is one dock entry in the list, addressed by its position in
// the category tree so edits land on the right config slice.
type shortcutItem struct {
	name     string
	command  string
	category string
	catIdx   int
	scIdx    int
}

func (i shortcutItem) Title() string {
	return lipgloss.NewStyle().Foreground(colGood).Render("●") + " " + i.name
}

func (i shortcutItem) Description() string {
	return i.command + " | " + i.category
}

func (i shortcutItem) FilterValue() string { return i.name }

// addStep tracks the two-prompt add flow: a shortcut needs a display name and
// a launch command.
type addStep int

const (
	addStepName addStep = iota
	addStepCommand
)

// ShortcutsTab is the sub-model for the dock shortcut list. Icon order in the
// bar is the order shown here, top to bottom.
type ShortcutsTab struct {
	list   list.Model
	cfg    *config.Config
	width  int
	height int

	// Add mode
	adding    bool
	step      addStep
	addName   string
	textInput textinput.Model
}

// NewShortcutsTab creates a ShortcutsTab from the loaded config.
func NewShortcutsTab(cfg *config.Config) ShortcutsTab {
	ti := textinput.New()
	ti.CharLimit = 128

	return ShortcutsTab{
		list:      newShortcutList(buildShortcutItems(cfg)),
		cfg:       cfg,
		textInput: ti,
	}
}

func newShortcutList(items []list.Item) list.Model {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(colBright).BorderForeground(colAccent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(colText).BorderForeground(colAccent)

	l := list.New(items, d, 0, 0)
	l.Title = "Dock Shortcuts"
	l.Styles.Title = tabActive.Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

// Init implements the tab contract.
func (s ShortcutsTab) Init() tea.Cmd { return nil }

// Update handles messages for the shortcuts tab.
func (s ShortcutsTab) Update(msg tea.Msg) (ShortcutsTab, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		s.width = size.Width
		s.height = size.Height
		s.list.SetSize(s.listWidth(), s.height)
		return s, nil
	}
	if s.adding {
		return s.updateAdding(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "a":
			return s.beginAdd()
		case "x", "delete":
			if item, ok := s.list.SelectedItem().(shortcutItem); ok {
				s.removeShortcut(item)
				s.reload()
			}
			return s, nil
		case "K":
			s.moveSelected(-1)
			return s, nil
		case "J":
			s.moveSelected(1)
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s ShortcutsTab) beginAdd() (ShortcutsTab, tea.Cmd) {
	s.adding = true
	s.step = addStepName
	s.addName = ""
	s.textInput.Reset()
	s.textInput.Placeholder = "e.g. Firefox"
	s.textInput.Focus()
	return s, textinput.Blink
}

func (s ShortcutsTab) updateAdding(msg tea.Msg) (ShortcutsTab, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			s.adding = false
			s.textInput.Blur()
			return s, nil
		case "enter":
			value := strings.TrimSpace(s.textInput.Value())
			if value == "" {
				return s, nil
			}
			if s.step == addStepName {
				s.addName = value
				s.step = addStepCommand
				s.textInput.Reset()
				s.textInput.Placeholder = "e.g. firefox --new-window"
				return s, nil
			}
			s.addShortcut(s.addName, value)
			s.reload()
			s.adding = false
			s.textInput.Blur()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.textInput, cmd = s.textInput.Update(msg)
	return s, cmd
}

// reload rebuilds the list items after a config edit.
func (s *ShortcutsTab) reload() {
	s.list.SetItems(buildShortcutItems(s.cfg))
}

// listWidth gives the list two fifths of the pane, never collapsing entirely.
func (s ShortcutsTab) listWidth() int {
	if w := s.width * 2 / 5; w > 20 {
		return w
	}
	return 20
}

// addShortcut appends to the selected item's category, or the last category
// when the list is empty. With no categories at all, one is created.
func (s *ShortcutsTab) addShortcut(name, command string) {
	if s.cfg == nil {
		return
	}
	sc := config.Shortcut{Name: name, Path: command}

	if item, ok := s.list.SelectedItem().(shortcutItem); ok && item.catIdx < len(s.cfg.Categories) {
		cat := &s.cfg.Categories[item.catIdx]
		cat.Shortcuts = append(cat.Shortcuts, sc)
		return
	}
	if len(s.cfg.Categories) == 0 {
		s.cfg.Categories = append(s.cfg.Categories, config.Category{Name: "Shortcuts"})
	}
	cat := &s.cfg.Categories[len(s.cfg.Categories)-1]
	cat.Shortcuts = append(cat.Shortcuts, sc)
}

func (s *ShortcutsTab) removeShortcut(item shortcutItem) {
	if s.cfg == nil || item.catIdx >= len(s.cfg.Categories) {
		return
	}
	cat := &s.cfg.Categories[item.catIdx]
	if item.scIdx >= len(cat.Shortcuts) {
		return
	}
	cat.Shortcuts = append(cat.Shortcuts[:item.scIdx], cat.Shortcuts[item.scIdx+1:]...)
}

// moveSelected shifts the selected shortcut within its category and keeps the
// cursor on it.
func (s *ShortcutsTab) moveSelected(delta int) {
	item, ok := s.list.SelectedItem().(shortcutItem)
	if !ok || s.cfg == nil || item.catIdx >= len(s.cfg.Categories) {
		return
	}
	cat := &s.cfg.Categories[item.catIdx]
	j := item.scIdx + delta
	if j < 0 || j >= len(cat.Shortcuts) {
		return
	}
	cat.Shortcuts[item.scIdx], cat.Shortcuts[j] = cat.Shortcuts[j], cat.Shortcuts[item.scIdx]
	s.reload()
	s.list.Select(s.list.Index() + delta)
}

// View splits the tab into the shortcut list on the left and a detail pane
// for the selection on the right.
func (s ShortcutsTab) View() string {
	if s.width == 0 || s.height == 0 {
		return ""
	}

	leftW := s.listWidth()
	rightW := s.width - leftW
	if rightW < 10 {
		rightW = 10
	}

	left := lipgloss.NewStyle().Width(leftW).Height(s.height).Render(s.leftColumn(leftW))

	right := centeredNotice(rightW, s.height, "No shortcuts configured")
	if item, ok := s.list.SelectedItem().(shortcutItem); ok {
		right = renderShortcutDetail(item, s.list.Index(), len(s.list.Items()), rightW, s.height)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// leftColumn renders the list, topped by the add prompt while one is open.
func (s ShortcutsTab) leftColumn(width int) string {
	if !s.adding {
		return s.list.View()
	}

	label := "Shortcut name:"
	if s.step == addStepCommand {
		label = "Launch command for " + s.addName + ":"
	}
	prompt := lipgloss.NewStyle().Foreground(colAccent).Bold(true).Render(label) + "\n" +
		s.textInput.View() + "\n" +
		hintStyle.Render("enter: confirm  esc: cancel")
	block := lipgloss.NewStyle().Padding(0, 1).Width(width).Render(prompt)

	listH := s.height - lipgloss.Height(block)
	if listH < 1 {
		listH = 1
	}
	s.list.SetSize(width, listH)
	return block + "\n" + s.list.View()
}

// buildShortcutItems flattens the config categories into list items, in the
// exact order icons take in the bar.
func buildShortcutItems(cfg *config.Config) []list.Item {
	if cfg == nil {
		return nil
	}
	var items []list.Item
	for ci, cat := range cfg.Categories {
		for si, sc := range cat.Shortcuts {
			items = append(items, shortcutItem{
				name:     sc.Name,
				command:  sc.Path,
				category: cat.Name,
				catIdx:   ci,
				scIdx:    si,
			})
		}
	}
	return items
}

// renderShortcutDetail renders the right-side pane for the selected shortcut.
func renderShortcutDetail(item shortcutItem, index, total, width, height int) string {
	label := lipgloss.NewStyle().Foreground(colLabel).Width(18)
	value := lipgloss.NewStyle().Foreground(colBright)
	field := func(name, v string) string { return label.Render(name) + value.Render(v) }

	slot := lipgloss.NewStyle().Foreground(colGood).
		Render("● slot " + strconv.Itoa(index+1) + " of " + strconv.Itoa(total))

	lines := []string{
		summaryValue.Render(item.name),
		"",
		slot,
		"",
		field("category:", item.category),
		field("command:", item.command),
	}
	if name := icons.IconName(item.command); name != "" {
		lines = append(lines, field("icon name:", name))
	}
	lines = append(lines, "", hintStyle.Italic(true).Render("a: add  x: remove  J/K: reorder"))

	pane := paneStyle.
		Width(width).
		Height(height).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(colFrame)

	return pane.Render(strings.Join(lines, "\n"))
}
