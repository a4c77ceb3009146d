package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/gateway/internal/config"
	"github.com/1broseidon/gateway/internal/hotkeys"
)

// bindingItem is a list item for one Logo binding.
type bindingItem struct {
	index   int
	binding config.BindingConfig
}

func (i bindingItem) Title() string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●") + " " + i.binding.Command
}

func (i bindingItem) Description() string {
	shift := i.binding.Shift
	if shift == "" {
		shift = "any"
	}
	return fmt.Sprintf("keycode %d | shift %s", i.binding.Keycode, shift)
}

func (i bindingItem) FilterValue() string { return i.binding.Command }

// BindingsTab lists the Logo binding table and lets entries be added or
// removed. Editing an empty table starts from the built-in bindings.
type BindingsTab struct {
	list   list.Model
	cfg    *config.Config
	width  int
	height int

	adding    bool
	textInput textinput.Model
	inputErr  string
}

// NewBindingsTab creates a BindingsTab over the loaded config.
func NewBindingsTab(cfg *config.Config) BindingsTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(buildBindingItems(cfg), delegate, 0, 0)
	l.Title = "Bindings"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	ti := textinput.New()
	ti.Placeholder = "command keycode [any|on|off]"
	ti.CharLimit = 64

	return BindingsTab{
		list:      l,
		cfg:       cfg,
		textInput: ti,
	}
}

// Update handles messages for the bindings tab.
func (t BindingsTab) Update(msg tea.Msg) (BindingsTab, tea.Cmd) {
	if t.adding {
		return t.updateAdding(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.list.SetSize(t.listWidth(), t.height)
		return t, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "a":
			t.adding = true
			t.inputErr = ""
			t.textInput.Reset()
			t.textInput.Focus()
			return t, textinput.Blink
		case "x", "delete":
			if item, ok := t.list.SelectedItem().(bindingItem); ok {
				t.remove(item.index)
				t.list.SetItems(buildBindingItems(t.cfg))
			}
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.list, cmd = t.list.Update(msg)
	return t, cmd
}

func (t BindingsTab) updateAdding(msg tea.Msg) (BindingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			b, err := parseBindingInput(t.textInput.Value())
			if err != nil {
				t.inputErr = err.Error()
				return t, nil
			}
			t.add(b)
			t.list.SetItems(buildBindingItems(t.cfg))
			t.adding = false
			t.textInput.Blur()
			return t, nil
		case "esc":
			t.adding = false
			t.textInput.Blur()
			return t, nil
		}
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		return t, nil
	}

	var cmd tea.Cmd
	t.textInput, cmd = t.textInput.Update(msg)
	return t, cmd
}

// parseBindingInput reads "command keycode [shift]".
func parseBindingInput(s string) (config.BindingConfig, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 || len(fields) > 3 {
		return config.BindingConfig{}, fmt.Errorf("expected: command keycode [any|on|off]")
	}
	cmd, err := hotkeys.ParseCommand(fields[0])
	if err != nil {
		return config.BindingConfig{}, err
	}
	code, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil || code == 0 {
		return config.BindingConfig{}, fmt.Errorf("keycode must be a positive number")
	}
	b := config.BindingConfig{Command: cmd.String(), Keycode: uint32(code)}
	if len(fields) == 3 {
		switch shift := strings.ToLower(fields[2]); shift {
		case "any", "on", "off":
			b.Shift = shift
		default:
			return config.BindingConfig{}, fmt.Errorf("shift must be one of: any, on, off")
		}
	}
	return b, nil
}

func (t BindingsTab) listWidth() int {
	w := t.width * 2 / 5
	if w < 20 {
		w = 20
	}
	return w
}

// materialize copies the built-in table into the config so it can be
// edited.
func (t *BindingsTab) materialize() {
	if t.cfg == nil || len(t.cfg.Bindings) > 0 {
		return
	}
	t.cfg.Bindings = bindingConfigs(hotkeys.DefaultBindings())
}

func (t *BindingsTab) add(b config.BindingConfig) {
	if t.cfg == nil {
		return
	}
	t.materialize()
	t.cfg.Bindings = append(t.cfg.Bindings, b)
}

func (t *BindingsTab) remove(index int) {
	if t.cfg == nil {
		return
	}
	t.materialize()
	if index < 0 || index >= len(t.cfg.Bindings) || len(t.cfg.Bindings) <= 1 {
		return
	}
	t.cfg.Bindings = append(t.cfg.Bindings[:index], t.cfg.Bindings[index+1:]...)
}

func bindingConfigs(bindings []hotkeys.Binding) []config.BindingConfig {
	out := make([]config.BindingConfig, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, config.BindingConfig{
			Command: b.Command.String(),
			Keycode: b.Code,
			Shift:   shiftName(b.Shift),
		})
	}
	return out
}

func shiftName(s hotkeys.ShiftMode) string {
	switch s {
	case hotkeys.ShiftOn:
		return "on"
	case hotkeys.ShiftOff:
		return "off"
	default:
		return ""
	}
}

func buildBindingItems(cfg *config.Config) []list.Item {
	if cfg == nil {
		return nil
	}
	bindings := cfg.Bindings
	if len(bindings) == 0 {
		bindings = bindingConfigs(hotkeys.DefaultBindings())
	}
	items := make([]list.Item, 0, len(bindings))
	for i, b := range bindings {
		items = append(items, bindingItem{index: i, binding: b})
	}
	return items
}

// View implements tea.Model.
func (t BindingsTab) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}

	leftWidth := t.listWidth()
	rightWidth := t.width - leftWidth
	if rightWidth < 10 {
		rightWidth = 10
	}

	leftContent := t.list.View()
	if t.adding {
		prompt := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Render("Add binding:") + "\n" +
			t.textInput.View() + "\n"
		if t.inputErr != "" {
			prompt += lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(t.inputErr) + "\n"
		}
		prompt += lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("enter: confirm  esc: cancel")
		inputBlock := lipgloss.NewStyle().Padding(0, 1).Width(leftWidth).Render(prompt)
		listHeight := t.height - lipgloss.Height(inputBlock)
		if listHeight < 1 {
			listHeight = 1
		}
		t.list.SetSize(leftWidth, listHeight)
		leftContent = inputBlock + "\n" + t.list.View()
	}

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(t.height).
		Render(leftContent)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, renderBindingDetail(t.cfg, rightWidth, t.height))
}

func renderBindingDetail(cfg *config.Config, width, height int) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	b.WriteString(titleStyle.Render("Logo bindings"))
	b.WriteString("\n\n")

	if cfg == nil || len(cfg.Bindings) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Render("using built-in table"))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render(fmt.Sprintf("%d configured", len(cfg.Bindings))))
	}
	b.WriteString("\n\n")

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	b.WriteString(dim.Render("commands:"))
	b.WriteString("\n")
	for _, c := range hotkeys.Commands() {
		b.WriteString("  " + c.String() + "\n")
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	b.WriteString(helpStyle.Render("a: add  x: remove"))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(lipgloss.Color("236")).
		Render(b.String())
}
