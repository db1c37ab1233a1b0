package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/docktile/internal/config"
)

// model is the root bubbletea model for the TUI. Each tab owns its state;
// the root handles tab switching, window sizing and the save overlay, and
// hands everything else to the active tab.
type model struct {
	configPath string
	cfg        *config.Config
	fromFile   bool
	loadErr    string

	activeTab Tab

	appearanceTab AppearanceTab
	behaviorTab   BehaviorTab
	shortcutsTab  ShortcutsTab
	previewTab    PreviewTab

	// originalConfig is the on-disk state the save overlay diffs against.
	originalConfig *config.Config
	saveOverlay    SaveOverlay

	width  int
	height int
}

// Run starts the interactive configuration editor. An empty configPath means
// the standard location (or DOCKTILE_CONFIG when set).
func Run(configPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	resolved, err := config.ResolvePath(configPath)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newModel(resolved), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func newModel(configPath string) model {
	m := model{configPath: configPath, activeTab: TabAppearance}
	m.loadConfig()
	m.originalConfig = cloneConfig(m.cfg)

	m.appearanceTab = NewAppearanceTab(m.cfg)
	m.behaviorTab = NewBehaviorTab(m.cfg)
	m.shortcutsTab = NewShortcutsTab(m.cfg)
	m.previewTab = NewPreviewTab(m.cfg)
	return m
}

// loadConfig reads the config file, falling back to defaults so the editor
// always opens. A broken file is reported in the status bar rather than
// aborting: the whole point of the editor is fixing the config.
func (m *model) loadConfig() {
	if _, err := os.Stat(m.configPath); err == nil {
		m.fromFile = true
	}

	cfg, err := config.LoadFromPath(m.configPath)
	if err != nil {
		m.loadErr = err.Error()
		m.cfg = config.DefaultConfig()
		return
	}
	m.cfg = cfg
	m.loadErr = ""
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		m.forwardSize()
		return m, nil
	}

	key, isKey := msg.(tea.KeyMsg)
	if isKey && key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// The save overlay swallows all input while it is up.
	if m.saveOverlay.Active() {
		if isKey {
			wasReviewing := m.saveOverlay.phase == saveReview
			m.saveOverlay = m.saveOverlay.Update(key, m.cfg, m.configPath)
			// After a successful save the file matches the edited state.
			if wasReviewing && m.saveOverlay.SaveSucceeded() {
				m.originalConfig = cloneConfig(m.cfg)
				m.fromFile = true
				m.loadErr = ""
			}
		}
		return m, nil
	}

	// ctrl+s opens the overlay from any context, including mid-edit.
	if isKey && key.String() == "ctrl+s" {
		m.saveOverlay.Show(m.originalConfig, m.cfg)
		return m, nil
	}

	// A tab holding a form or text input sees every key until it is done;
	// tab switching and quit would otherwise be unreachable characters.
	if m.capturing() {
		return m, m.updateTab(m.activeTab, msg)
	}

	if isKey {
		switch key.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "1", "2", "3", "4":
			m.activeTab = Tab(key.String()[0] - '1')
			return m, nil
		}
	}

	return m, m.updateTab(m.activeTab, msg)
}

// capturing reports whether the active tab is in an editing state that must
// see every keystroke.
func (m *model) capturing() bool {
	switch m.activeTab {
	case TabAppearance:
		return m.appearanceTab.editing
	case TabBehavior:
		return m.behaviorTab.editing
	case TabShortcuts:
		return m.shortcutsTab.adding
	}
	return false
}

// updateTab routes msg to one tab's sub-model.
func (m *model) updateTab(tab Tab, msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch tab {
	case TabAppearance:
		m.appearanceTab, cmd = m.appearanceTab.Update(msg)
	case TabBehavior:
		m.behaviorTab, cmd = m.behaviorTab.Update(msg)
	case TabShortcuts:
		m.shortcutsTab, cmd = m.shortcutsTab.Update(msg)
	case TabPreview:
		m.previewTab, cmd = m.previewTab.Update(msg)
	}
	return cmd
}

// forwardSize pushes the content-area dimensions to every sub-model.
func (m *model) forwardSize() {
	_, _, _, h := m.chrome()
	subMsg := tea.WindowSizeMsg{Width: m.width, Height: h}
	for t := Tab(0); t < tabCount; t++ {
		m.updateTab(t, subMsg)
	}
}

// chrome renders the three fixed bars and reports the height left over for
// tab content.
func (m model) chrome() (statusBar, tabBar, helpBar string, contentHeight int) {
	statusBar = renderStatusBar(m.configPath, m.fromFile, len(m.cfg.Shortcuts()), m.loadErr, m.width)
	tabBar = renderTabBar(m.activeTab, m.width)
	helpBar = renderHelpBar(m.width)
	contentHeight = m.height - lipgloss.Height(statusBar) - lipgloss.Height(tabBar) - lipgloss.Height(helpBar)
	if contentHeight < 1 {
		contentHeight = 1
	}
	return statusBar, tabBar, helpBar, contentHeight
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar, tabBar, helpBar, contentHeight := m.chrome()

	var content string
	if m.saveOverlay.Active() {
		content = m.saveOverlay.View(m.width, contentHeight)
	} else {
		content = m.tabView(m.activeTab)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}

func (m model) tabView(tab Tab) string {
	switch tab {
	case TabAppearance:
		return m.appearanceTab.View()
	case TabBehavior:
		return m.behaviorTab.View()
	case TabShortcuts:
		return m.shortcutsTab.View()
	case TabPreview:
		return m.previewTab.View()
	}
	return ""
}
