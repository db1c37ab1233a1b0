package menu

import (
	"fmt"

	"github.com/1broseidon/docktile/internal/config"
	"github.com/1broseidon/docktile/internal/icons"
)

// Build flattens the configured categories into one menu: a bold
// non-selectable header per category followed by its shortcuts. isRunning
// marks rows whose application is already running; nil disables the
// highlighting.
func Build(categories []config.Category, isRunning func(command string) bool) []Item {
	var items []Item
	for _, cat := range categories {
		if len(cat.Shortcuts) == 0 {
			continue
		}
		if cat.Name != "" {
			items = append(items, Item{Label: cat.Name, IsHeader: true})
		}
		for _, s := range cat.Shortcuts {
			item := Item{
				Label:  s.Name,
				Action: s.Path,
				Icon:   icons.IconName(s.Path),
				Meta:   s.Path,
			}
			if isRunning != nil {
				item.IsActive = isRunning(s.Path)
			}
			items = append(items, item)
		}
	}
	return items
}

// Pick shows the launcher menu and returns the launch command of the
// selected shortcut. Cancelling returns ErrCancelled.
func Pick(backend Backend, categories []config.Category, isRunning func(command string) bool) (string, error) {
	items := Build(categories, isRunning)
	if len(items) == 0 {
		return "", fmt.Errorf("menu: no shortcuts configured")
	}

	selected, err := backend.Show("docktile", items, "")
	if err != nil {
		return "", err
	}
	// Pickers without row options can still land on a header row.
	if selected.Action == "" {
		return "", ErrCancelled
	}
	return selected.Action, nil
}
