package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/gateway/internal/config"
	"github.com/1broseidon/gateway/internal/ipc"
)

type savePhase int

const (
	saveHidden  savePhase = iota
	savePreview           // listing changed settings, awaiting confirm
	saveResult            // showing outcome message
)

var (
	saveTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	saveAddStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	saveRmStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	savePathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	saveNoteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	saveFootStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	saveBoxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// SaveOverlay lists the settings an edit changed and writes the config on
// confirmation. A running daemon is asked to reload afterwards.
type SaveOverlay struct {
	phase    savePhase
	changes  []settingChange
	err      error
	reloaded bool
	restart  bool
	scroll   int
}

// Active reports whether the overlay is visible.
func (s SaveOverlay) Active() bool {
	return s.phase != saveHidden
}

// Show compares the two configs and opens the preview.
func (s *SaveOverlay) Show(original, current *config.Config) {
	*s = SaveOverlay{changes: diffSettings(original, current)}
	if len(s.changes) == 0 {
		s.phase = saveResult
		s.err = fmt.Errorf("no changes to save")
		return
	}
	for _, c := range s.changes {
		s.restart = s.restart || c.restart
	}
	s.phase = savePreview
}

// SaveSucceeded reports whether the last save completed without error.
func (s SaveOverlay) SaveSucceeded() bool {
	return s.phase == saveResult && s.err == nil
}

// Update handles input while the overlay is active.
func (s SaveOverlay) Update(km tea.KeyMsg, cfg *config.Config, path string, client *ipc.Client, connected bool) SaveOverlay {
	if s.phase == saveResult {
		s.phase = saveHidden
		return s
	}
	if s.phase != savePreview {
		return s
	}
	switch km.String() {
	case "esc":
		s.phase = saveHidden
	case "enter", "y":
		s.err = cfg.Save(path)
		if s.err == nil && connected && client != nil {
			s.reloaded = client.Reload() == nil
		}
		s.phase = saveResult
	case "up", "k":
		s.scroll = max(s.scroll-1, 0)
	case "down", "j":
		s.scroll = min(s.scroll+1, max(len(s.changes)-1, 0))
	}
	return s
}

// View renders the overlay for the given content area dimensions.
func (s SaveOverlay) View(width, height int) string {
	var content string
	boxW := min(max(width-8, 30), 80)
	switch s.phase {
	case savePreview:
		content = s.previewContent(boxW-6, max(height-12, 3))
	case saveResult:
		boxW = min(boxW, 60)
		content = s.resultContent()
	default:
		return ""
	}
	box := saveBoxStyle.Width(boxW).Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (s SaveOverlay) previewContent(innerW, rows int) string {
	start := min(s.scroll, max(len(s.changes)-rows, 0))
	end := min(start+rows, len(s.changes))

	lines := []string{saveTitleStyle.Render(fmt.Sprintf("Save Config: %d changed settings", len(s.changes))), ""}
	for _, c := range s.changes[start:end] {
		lines = append(lines, renderChange(c, innerW))
	}
	if s.restart {
		lines = append(lines, "", saveNoteStyle.Render("stack changes take effect after gateway restarts"))
	}
	lines = append(lines, "", saveFootStyle.Render("enter: save  esc: cancel  j/k: scroll"))
	return strings.Join(lines, "\n")
}

func renderChange(c settingChange, width int) string {
	var line string
	switch {
	case c.added():
		line = saveAddStyle.Render("+ " + c.path + " " + c.after)
	case c.removed():
		line = saveRmStyle.Render("- " + c.path + " " + c.before)
	default:
		line = "  " + savePathStyle.Render(c.path+": ") + saveRmStyle.Render(c.before) + " -> " + saveAddStyle.Render(c.after)
	}
	if lipgloss.Width(line) > width {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}

func (s SaveOverlay) resultContent() string {
	var msg string
	if s.err != nil {
		msg = saveRmStyle.Bold(true).Render("Error: " + s.err.Error())
	} else {
		msg = saveAddStyle.Bold(true).Render("Config saved successfully")
		if s.reloaded {
			msg += "\n" + saveAddStyle.Render("gateway reloaded")
		}
	}
	return msg + "\n\n" + saveFootStyle.Render("press any key to dismiss")
}
