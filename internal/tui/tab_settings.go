package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/gateway/internal/config"
)

// SettingsTab is the sub-model for the general settings tab.
type SettingsTab struct {
	cfg *config.Config

	width  int
	height int

	editing bool
	form    *huh.Form

	// Form-bound values, converted on submit.
	fTerminal          string
	fLauncher          string
	fWindowGaps        string
	fMouseSensitivity  string
	fFocusFollowsMouse bool
	fLayout            string
	fVariant           string
	fLogLevel          string
}

// NewSettingsTab creates a SettingsTab over the loaded config.
func NewSettingsTab(cfg *config.Config) SettingsTab {
	return SettingsTab{cfg: cfg}
}

// Update implements tea.Model.
func (g SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if g.editing {
		return g.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" {
			g.startEditing()
			return g, g.form.Init()
		}
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
	}
	return g, nil
}

func (g SettingsTab) updateEditing(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			g.editing = false
			g.form = nil
			return g, nil
		}
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
	}

	form, cmd := g.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		g.form = f
	}
	if g.form.State == huh.StateCompleted {
		g.applyForm()
		g.editing = false
		g.form = nil
		return g, nil
	}
	return g, cmd
}

func (g *SettingsTab) startEditing() {
	cfg := g.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	g.fTerminal = cfg.Terminal
	g.fLauncher = cfg.Launcher
	g.fWindowGaps = strconv.Itoa(cfg.WindowGaps)
	g.fMouseSensitivity = strconv.FormatFloat(cfg.MouseSensitivity, 'g', -1, 64)
	g.fFocusFollowsMouse = cfg.FocusFollowsMouse
	g.fLayout = cfg.Keyboard.Layout
	g.fVariant = cfg.Keyboard.Variant
	g.fLogLevel = cfg.LogLevel

	w := g.width - 4
	if w < 40 {
		w = 40
	}

	g.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("terminal").
				Title("Terminal").
				Description("Command run by spawn-terminal").
				Value(&g.fTerminal),
			huh.NewInput().
				Key("launcher").
				Title("Launcher").
				Description("Command run by spawn-launcher").
				Value(&g.fLauncher),
			huh.NewInput().
				Key("window_gaps").
				Title("Window Gaps").
				Description("Pixels around each tile").
				Validate(validateNonNegativeInt).
				Value(&g.fWindowGaps),
			huh.NewConfirm().
				Key("focus_follows_mouse").
				Title("Focus Follows Mouse").
				Value(&g.fFocusFollowsMouse),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("mouse_sensitivity").
				Title("Mouse Sensitivity").
				Description("Relative motion multiplier").
				Validate(validatePositiveFloat).
				Value(&g.fMouseSensitivity),
			huh.NewInput().
				Key("keyboard_layout").
				Title("Keyboard Layout").
				Value(&g.fLayout),
			huh.NewInput().
				Key("keyboard_variant").
				Title("Keyboard Variant").
				Value(&g.fVariant),
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warning", "warning"),
					huh.NewOption("error", "error"),
				).
				Value(&g.fLogLevel),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	g.editing = true
}

func validateNonNegativeInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return fmt.Errorf("must be a whole number >= 0")
	}
	return nil
}

func validatePositiveFloat(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a number > 0")
	}
	return nil
}

func (g *SettingsTab) applyForm() {
	if g.cfg == nil {
		return
	}
	if s := strings.TrimSpace(g.fTerminal); s != "" {
		g.cfg.Terminal = s
	}
	if s := strings.TrimSpace(g.fLauncher); s != "" {
		g.cfg.Launcher = s
	}
	if v, err := strconv.Atoi(strings.TrimSpace(g.fWindowGaps)); err == nil && v >= 0 {
		g.cfg.WindowGaps = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(g.fMouseSensitivity), 64); err == nil && v > 0 {
		g.cfg.MouseSensitivity = v
	}
	g.cfg.FocusFollowsMouse = g.fFocusFollowsMouse
	g.cfg.Keyboard.Layout = strings.TrimSpace(g.fLayout)
	g.cfg.Keyboard.Variant = strings.TrimSpace(g.fVariant)
	if g.fLogLevel != "" {
		g.cfg.LogLevel = g.fLogLevel
	}
}

// View implements tea.Model.
func (g SettingsTab) View() string {
	if g.editing && g.form != nil {
		return g.viewEditing()
	}
	return g.viewDisplay()
}

func (g SettingsTab) viewDisplay() string {
	cfg := g.cfg
	if cfg == nil {
		return lipgloss.NewStyle().
			Width(g.width).
			Height(g.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No config loaded")
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(22).
		Align(lipgloss.Right).
		PaddingRight(2)
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	stacks := make([]string, len(cfg.Stacks))
	for i, s := range cfg.Stacks {
		stacks[i] = strconv.Itoa(s.MaxItems)
	}
	keyboard := cfg.Keyboard.Layout
	if cfg.Keyboard.Variant != "" {
		keyboard += " (" + cfg.Keyboard.Variant + ")"
	}

	lines := []string{
		"",
		row("Terminal", cfg.Terminal),
		row("Launcher", cfg.Launcher),
		"",
		row("Window Gaps", strconv.Itoa(cfg.WindowGaps)),
		row("Stacks (max items)", strings.Join(stacks, " ")),
		row("Stacks per Output", strconv.Itoa(cfg.StacksPerOutput)),
		row("Focus Follows Mouse", strconv.FormatBool(cfg.FocusFollowsMouse)),
		row("Mouse Sensitivity", strconv.FormatFloat(cfg.MouseSensitivity, 'g', -1, 64)),
		"",
		row("Keyboard", displayOrDefault(keyboard, "(system)")),
		row("Startup Script", displayOrDefault(cfg.StartupScript, "(none)")),
		row("Log Level", cfg.LogLevel),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}

	return lipgloss.NewStyle().
		Width(g.width).
		Height(g.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (g SettingsTab) viewEditing() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Editing Settings") +
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("  (esc to cancel)")

	return lipgloss.NewStyle().
		Width(g.width).
		Height(g.height).
		Padding(1, 2).
		Render(header + "\n\n" + g.form.View())
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
