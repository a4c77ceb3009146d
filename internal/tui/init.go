package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/1broseidon/gateway/internal/config"
)

// InitAnswers are the choices collected by the init wizard.
type InitAnswers struct {
	Terminal          string
	Launcher          string
	Layout            string
	Variant           string
	FocusFollowsMouse bool
}

// ApplyTo copies the answers onto cfg. Blank answers keep the default.
func (a InitAnswers) ApplyTo(cfg *config.Config) {
	if s := strings.TrimSpace(a.Terminal); s != "" {
		cfg.Terminal = s
	}
	if s := strings.TrimSpace(a.Launcher); s != "" {
		cfg.Launcher = s
	}
	cfg.Keyboard.Layout = strings.TrimSpace(a.Layout)
	cfg.Keyboard.Variant = strings.TrimSpace(a.Variant)
	cfg.FocusFollowsMouse = a.FocusFollowsMouse
}

// RunInit asks a few questions and returns a config built from the
// defaults and the answers. Without a terminal the defaults are returned
// unchanged.
func RunInit() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return cfg, nil
	}

	a := InitAnswers{
		Terminal:          cfg.Terminal,
		Launcher:          cfg.Launcher,
		Layout:            cfg.Keyboard.Layout,
		Variant:           cfg.Keyboard.Variant,
		FocusFollowsMouse: cfg.FocusFollowsMouse,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Terminal").
				Description("Spawned by Logo+Return").
				Options(
					huh.NewOption("foot", "foot"),
					huh.NewOption("alacritty", "alacritty"),
					huh.NewOption("kitty", "kitty"),
					huh.NewOption("wezterm", "wezterm"),
					huh.NewOption("xterm", "xterm"),
				).
				Value(&a.Terminal),
			huh.NewInput().
				Title("Launcher").
				Description("Command for spawn-launcher").
				Value(&a.Launcher),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Keyboard layout").
				Description("Passed to setxkbmap; blank keeps the system layout").
				Value(&a.Layout),
			huh.NewInput().
				Title("Keyboard variant").
				Value(&a.Variant),
			huh.NewConfirm().
				Title("Focus follows mouse?").
				Value(&a.FocusFollowsMouse),
		),
	)
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("init cancelled: %w", err)
	}

	a.ApplyTo(cfg)
	return cfg, nil
}
