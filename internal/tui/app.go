package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/gateway/internal/config"
	"github.com/1broseidon/gateway/internal/ipc"
)

// model is the root bubbletea model for the TUI.
type model struct {
	configPath string
	cfg        *config.Config
	loadErr    error
	ipcClient  *ipc.Client
	daemon     *ipc.StatusData

	activeTab Tab

	simTab      SimTab
	settingsTab SettingsTab
	bindingsTab BindingsTab

	originalConfig *config.Config
	saveOverlay    SaveOverlay

	width  int
	height int
}

func newModel(configPath string) model {
	m := model{
		configPath: configPath,
		activeTab:  TabSimulator,
		ipcClient:  ipc.NewClient(),
	}

	res, err := loadConfig(configPath)
	if err != nil {
		// Keep going on defaults so the editor can fix a broken file.
		m.loadErr = err
		m.cfg = config.DefaultConfig()
	} else {
		m.cfg = res.Config
	}
	m.originalConfig = cloneConfig(m.cfg)

	if status, err := m.ipcClient.GetStatus(); err == nil {
		m.daemon = status
	}

	sim, err := NewSimulator(cloneConfig(m.cfg))
	m.simTab = NewSimTab(sim, err)
	m.settingsTab = NewSettingsTab(m.cfg)
	m.bindingsTab = NewBindingsTab(m.cfg)
	return m
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

// capturing reports whether the active tab is consuming raw key input.
func (m model) capturing() bool {
	return (m.activeTab == TabSettings && m.settingsTab.editing) ||
		(m.activeTab == TabBindings && m.bindingsTab.adding)
}

func (m model) contentHeight() int {
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.simTab, _ = m.simTab.Update(sub)
		m.settingsTab, _ = m.settingsTab.Update(sub)
		m.bindingsTab, _ = m.bindingsTab.Update(sub)
		return m, nil
	}

	if m.saveOverlay.Active() {
		if km, ok := msg.(tea.KeyMsg); ok {
			if km.String() == "ctrl+c" {
				return m, tea.Quit
			}
			prev := m.saveOverlay.phase
			m.saveOverlay = m.saveOverlay.Update(km, m.cfg, m.configPath, m.ipcClient, m.daemon != nil)
			if prev == savePreview && m.saveOverlay.SaveSucceeded() {
				m.originalConfig = cloneConfig(m.cfg)
			}
		}
		return m, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+s":
			m.saveOverlay.Show(m.originalConfig, m.cfg)
			return m, nil
		}
		if !m.capturing() {
			switch km.String() {
			case "q":
				return m, tea.Quit
			case "tab":
				m.activeTab = (m.activeTab + 1) % tabCount
				return m, nil
			case "shift+tab":
				m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
				return m, nil
			case "1", "2", "3":
				m.activeTab = Tab(km.String()[0] - '1')
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case TabSimulator:
		m.simTab, cmd = m.simTab.Update(msg)
		if m.simTab.sim != nil {
			select {
			case <-m.simTab.sim.Done():
				// The simulated quit command ends the session.
				return m, tea.Quit
			default:
			}
		}
	case TabSettings:
		m.settingsTab, cmd = m.settingsTab.Update(msg)
	case TabBindings:
		m.bindingsTab, cmd = m.bindingsTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.daemon, m.width)
	if m.loadErr != nil {
		statusBar = lipgloss.JoinVertical(lipgloss.Left, statusBar,
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(0, 1).Render("config: "+m.loadErr.Error()))
	}
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	used := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - used
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	if m.saveOverlay.Active() {
		content = m.saveOverlay.View(m.width, contentHeight)
	} else {
		switch m.activeTab {
		case TabSimulator:
			content = m.simTab.View()
		case TabSettings:
			content = m.settingsTab.View()
		case TabBindings:
			content = m.bindingsTab.View()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, tabBar, content, helpBar)
}
