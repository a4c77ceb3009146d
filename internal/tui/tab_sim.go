package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/gateway/internal/hotkeys"
	"github.com/1broseidon/gateway/internal/wm"
)

type simKeyMap struct {
	NewWindow    key.Binding
	Close        key.Binding
	FocusNext    key.Binding
	FocusPrev    key.Binding
	FocusLast    key.Binding
	SwapNext     key.Binding
	SwapPrev     key.Binding
	MoveToFront  key.Binding
	Fullscreen   key.Binding
	Terminal     key.Binding
	Passthrough  key.Binding
	AddOutput    key.Binding
	RemoveOutput key.Binding
	NextOutput   key.Binding
	PrevOutput   key.Binding
	Help         key.Binding
}

func newSimKeyMap() simKeyMap {
	return simKeyMap{
		NewWindow:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new window")),
		Close:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close & advance")),
		FocusNext:    key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "focus next")),
		FocusPrev:    key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "focus prev")),
		FocusLast:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "focus last")),
		SwapNext:     key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "swap next")),
		SwapPrev:     key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "swap prev")),
		MoveToFront:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "move to front")),
		Fullscreen:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fullscreen")),
		Terminal:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "spawn terminal")),
		Passthrough:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "passthrough")),
		AddOutput:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "add output")),
		RemoveOutput: key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "remove output")),
		NextOutput:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next output")),
		PrevOutput:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev output")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	}
}

func (k simKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewWindow, k.Close, k.FocusNext, k.FocusPrev, k.MoveToFront, k.Help}
}

func (k simKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NewWindow, k.Close, k.Terminal},
		{k.FocusNext, k.FocusPrev, k.FocusLast},
		{k.SwapNext, k.SwapPrev, k.MoveToFront, k.Fullscreen},
		{k.AddOutput, k.RemoveOutput, k.NextOutput, k.PrevOutput, k.Passthrough},
	}
}

// command maps a sim key onto the command it runs.
func (k simKeyMap) command(msg tea.KeyMsg) (hotkeys.Command, bool) {
	switch {
	case key.Matches(msg, k.Close):
		return hotkeys.CmdCloseAndAdvance, true
	case key.Matches(msg, k.FocusNext):
		return hotkeys.CmdFocusNext, true
	case key.Matches(msg, k.FocusPrev):
		return hotkeys.CmdFocusPrev, true
	case key.Matches(msg, k.FocusLast):
		return hotkeys.CmdFocusLast, true
	case key.Matches(msg, k.SwapNext):
		return hotkeys.CmdSwapNext, true
	case key.Matches(msg, k.SwapPrev):
		return hotkeys.CmdSwapPrev, true
	case key.Matches(msg, k.MoveToFront):
		return hotkeys.CmdMoveToFront, true
	case key.Matches(msg, k.Fullscreen):
		return hotkeys.CmdToggleFullscreen, true
	case key.Matches(msg, k.Terminal):
		return hotkeys.CmdSpawnTerminal, true
	case key.Matches(msg, k.Passthrough):
		return hotkeys.CmdTogglePassthrough, true
	}
	return hotkeys.CmdNone, false
}

// SimTab is the sub-model for the layout simulator tab.
type SimTab struct {
	sim    *Simulator
	keys   simKeyMap
	help   help.Model
	output int // index into sim.Outputs()
	status string
	err    error

	width  int
	height int
}

// NewSimTab creates the simulator tab. A nil sim shows err instead.
func NewSimTab(sim *Simulator, err error) SimTab {
	return SimTab{
		sim:  sim,
		keys: newSimKeyMap(),
		help: help.New(),
		err:  err,
	}
}

// Update handles messages for the simulator tab.
func (t SimTab) Update(msg tea.Msg) (SimTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.help.Width = msg.Width
		return t, nil
	case tea.KeyMsg:
		if t.sim == nil {
			return t, nil
		}
		t.handleKey(msg)
	}
	return t, nil
}

func (t *SimTab) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, t.keys.Help):
		t.help.ShowAll = !t.help.ShowAll
		return
	case key.Matches(msg, t.keys.NewWindow):
		s := t.sim.AddWindow()
		t.status = fmt.Sprintf("opened surface %d", s)
		return
	case key.Matches(msg, t.keys.AddOutput):
		id := t.sim.AddOutput()
		t.output = len(t.sim.Outputs()) - 1
		t.status = fmt.Sprintf("attached output %d", id)
		return
	case key.Matches(msg, t.keys.RemoveOutput):
		if t.sim.RemoveOutput() {
			t.status = "detached output"
		} else {
			t.status = "the last output stays attached"
		}
		t.clampOutput()
		return
	case key.Matches(msg, t.keys.NextOutput):
		t.output++
		t.clampOutput()
		return
	case key.Matches(msg, t.keys.PrevOutput):
		t.output--
		t.clampOutput()
		return
	}

	cmd, ok := t.keys.command(msg)
	if !ok {
		return
	}
	if t.sim.Run(cmd) {
		t.status = cmd.String()
	} else {
		t.status = cmd.String() + " (not handled)"
	}
}

func (t *SimTab) clampOutput() {
	n := len(t.sim.Outputs())
	if t.output >= n {
		t.output = n - 1
	}
	if t.output < 0 {
		t.output = 0
	}
}

// View renders the selected output next to the view list.
func (t SimTab) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}
	if t.sim == nil {
		return lipgloss.NewStyle().
			Width(t.width).
			Height(t.height).
			Foreground(lipgloss.Color("196")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("simulator unavailable: " + errString(t.err))
	}

	helpView := t.help.View(t.keys)
	canvasH := t.height - lipgloss.Height(helpView) - 2
	if canvasH < 3 {
		canvasH = 3
	}
	sideW := t.width / 3
	if sideW > 40 {
		sideW = 40
	}
	canvasW := t.width - sideW - 1
	if canvasW < 5 {
		canvasW = 5
	}

	outputs := t.sim.Outputs()
	var lines []string
	heading := "no outputs"
	if len(outputs) > 0 {
		o := outputs[t.output]
		heading = fmt.Sprintf("%s  %dx%d @ %d,%d  stacks %v", o.Name, o.Width, o.Height, o.X, o.Y, o.Stacks)
		lines = renderFrame(t.sim.Frame(o.ID), t.sim.Label, o.Width, o.Height, canvasW, canvasH)
	} else {
		lines = emptyCanvas(canvasW, canvasH)
	}

	headStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	left := headStyle.Render(heading) + "\n" + strings.Join(lines, "\n")
	right := renderViewList(t.sim.Snapshot(), sideW, canvasH+1)

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	return lipgloss.JoinVertical(lipgloss.Left, body, statusStyle.Render(t.status), helpView)
}

func renderViewList(snap wm.Snapshot, width, height int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Views"))
	b.WriteString("\n")
	if len(snap.Views) == 0 {
		b.WriteString(dimStyle.Render("press n to open a window"))
	}
	for _, v := range snap.Views {
		line := fmt.Sprintf("%-3d %-12s %-8s", v.ID, v.Title, v.Location)
		if v.StackIndex >= 0 {
			line += fmt.Sprintf(" s%d", v.StackIndex)
		}
		if v.Fullscreen {
			line += " fs"
		}
		if v.ID == snap.Focused {
			b.WriteString(focusStyle.Render("▶ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	mode := "normal"
	if snap.Passthrough {
		mode = "passthrough"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("keys: %s  grab: %s", mode, snap.Grab)))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(lipgloss.Color("236")).
		PaddingLeft(1).
		Render(b.String())
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
