package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/gateway/internal/hotkeys"
)

// KeyboardConfig selects the XKB layout applied at startup.
type KeyboardConfig struct {
	Layout  string `yaml:"layout"`
	Variant string `yaml:"variant"`
}

// StackConfig describes one tiling stack.
type StackConfig struct {
	MaxItems int `yaml:"max_items"`
}

// VolumeConfig holds the commands run by the volume keys.
type VolumeConfig struct {
	Raise string `yaml:"raise"`
	Lower string `yaml:"lower"`
	Mute  string `yaml:"mute"`
}

// BindingConfig overrides one entry of the key binding table. Keycode is
// an evdev code; Shift is "any", "on" or "off".
type BindingConfig struct {
	Command string `yaml:"command"`
	Keycode uint32 `yaml:"keycode"`
	Shift   string `yaml:"shift,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	Terminal          string            `yaml:"terminal"`
	Launcher          string            `yaml:"launcher"`
	MouseSensitivity  float64           `yaml:"mouse_sensitivity"`
	Keyboard          KeyboardConfig    `yaml:"keyboard"`
	WindowGaps        int               `yaml:"window_gaps"`
	FocusFollowsMouse bool              `yaml:"focus_follows_mouse"`
	Stacks            []StackConfig     `yaml:"stacks"`
	StacksPerOutput   int               `yaml:"stacks_per_output"`
	BrightnessStep    float64           `yaml:"brightness_step"`
	Volume            VolumeConfig      `yaml:"volume"`
	StartupScript     string            `yaml:"startup_script"`
	Environment       map[string]string `yaml:"environment"`
	RefreshInterval   time.Duration     `yaml:"refresh_interval"`
	ReconcileInterval time.Duration     `yaml:"reconcile_interval"`
	LogLevel          string            `yaml:"log_level"`
	Bindings          []BindingConfig   `yaml:"bindings,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Terminal:          "foot",
		Launcher:          "fuzzel -b1f301fff -tffffffff -l20",
		MouseSensitivity:  0.5,
		Keyboard:          KeyboardConfig{Layout: "us", Variant: "dvorak"},
		WindowGaps:        8,
		FocusFollowsMouse: true,
		Stacks: []StackConfig{
			{MaxItems: 1},
			{MaxItems: 1},
			{MaxItems: 2},
			{MaxItems: 2},
		},
		StacksPerOutput: 2,
		BrightnessStep:  0.05,
		Volume: VolumeConfig{
			Raise: "pamixer -i 10",
			Lower: "pamixer -d 10",
			Mute:  "pamixer -t",
		},
		StartupScript:     "~/.config/gateway/startup.sh",
		Environment:       map[string]string{"QT_QPA_PLATFORMTHEME": "qt5ct"},
		RefreshInterval:   16 * time.Millisecond,
		ReconcileInterval: 10 * time.Second,
		LogLevel:          "info",
	}
}

// Save writes the configuration to path, or the standard location when
// path is empty.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Terminal) == "" {
		return &ValidationError{Path: "terminal", Err: fmt.Errorf("terminal is required")}
	}
	if strings.TrimSpace(c.Launcher) == "" {
		return &ValidationError{Path: "launcher", Err: fmt.Errorf("launcher is required")}
	}
	if c.MouseSensitivity <= 0 {
		return &ValidationError{Path: "mouse_sensitivity", Err: fmt.Errorf("mouse_sensitivity must be > 0")}
	}
	if c.WindowGaps < 0 {
		return &ValidationError{Path: "window_gaps", Err: fmt.Errorf("window_gaps must be >= 0")}
	}
	if len(c.Stacks) == 0 {
		return &ValidationError{Path: "stacks", Err: fmt.Errorf("stacks must not be empty")}
	}
	for i, st := range c.Stacks {
		if st.MaxItems < 1 {
			return &ValidationError{Path: fmt.Sprintf("stacks.%d.max_items", i), Err: fmt.Errorf("max_items must be >= 1")}
		}
	}
	if c.StacksPerOutput < 1 {
		return &ValidationError{Path: "stacks_per_output", Err: fmt.Errorf("stacks_per_output must be >= 1")}
	}
	if c.StacksPerOutput > len(c.Stacks) {
		return &ValidationError{Path: "stacks_per_output", Err: fmt.Errorf("stacks_per_output (%d) exceeds the number of stacks (%d)", c.StacksPerOutput, len(c.Stacks))}
	}
	if c.BrightnessStep <= 0 || c.BrightnessStep > 1 {
		return &ValidationError{Path: "brightness_step", Err: fmt.Errorf("brightness_step must be in (0, 1]")}
	}
	if c.RefreshInterval <= 0 {
		return &ValidationError{Path: "refresh_interval", Err: fmt.Errorf("refresh_interval must be > 0")}
	}
	if c.ReconcileInterval < 0 {
		return &ValidationError{Path: "reconcile_interval", Err: fmt.Errorf("reconcile_interval must be >= 0")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	for key := range c.Environment {
		if strings.TrimSpace(key) == "" || strings.Contains(key, "=") {
			return &ValidationError{Path: "environment", Err: fmt.Errorf("invalid environment variable name %q", key)}
		}
	}
	if _, err := c.HotkeyBindings(); err != nil {
		return err
	}
	return nil
}

// HotkeyBindings converts the configured binding overrides into a
// dispatcher table. An empty list selects the built-in table. A table
// without toggle-passthrough gets the built-in toggle prepended, so
// passthrough can always be left again. Errors are *ValidationError values
// naming the offending entry, e.g. bindings.2.keycode.
func (c *Config) HotkeyBindings() ([]hotkeys.Binding, error) {
	if len(c.Bindings) == 0 {
		return hotkeys.DefaultBindings(), nil
	}

	type slot struct {
		code  uint32
		shift hotkeys.ShiftMode
	}
	seen := make(map[slot]string, len(c.Bindings))
	out := make([]hotkeys.Binding, 0, len(c.Bindings))
	for i, b := range c.Bindings {
		cmd, err := hotkeys.ParseCommand(b.Command)
		if err != nil {
			return nil, bindingError(i, "command", err)
		}
		if b.Keycode == 0 {
			return nil, bindingError(i, "keycode", fmt.Errorf("keycode is required"))
		}
		var shift hotkeys.ShiftMode
		switch strings.ToLower(b.Shift) {
		case "", "any":
			shift = hotkeys.ShiftAny
		case "on":
			shift = hotkeys.ShiftOn
		case "off":
			shift = hotkeys.ShiftOff
		default:
			return nil, bindingError(i, "shift", fmt.Errorf("shift must be one of: any, on, off"))
		}
		key := slot{code: b.Keycode, shift: shift}
		if prev, dup := seen[key]; dup {
			return nil, bindingError(i, "keycode", fmt.Errorf("keycode %d already bound to %s", b.Keycode, prev))
		}
		seen[key] = cmd.String()
		out = append(out, hotkeys.Binding{Code: b.Keycode, Shift: shift, Command: cmd})
	}

	for _, b := range out {
		if b.Command == hotkeys.CmdTogglePassthrough {
			return out, nil
		}
	}
	toggle := passthroughBinding()
	for i, b := range out {
		if b.Code == toggle.Code {
			return nil, bindingError(i, "keycode", fmt.Errorf("keycode %d is reserved for %s unless the table binds it elsewhere", b.Code, toggle.Command))
		}
	}
	return append([]hotkeys.Binding{toggle}, out...), nil
}

func bindingError(i int, field string, err error) error {
	return &ValidationError{Path: fmt.Sprintf("bindings.%d.%s", i, field), Err: err}
}

func passthroughBinding() hotkeys.Binding {
	for _, b := range hotkeys.DefaultBindings() {
		if b.Command == hotkeys.CmdTogglePassthrough {
			return b
		}
	}
	return hotkeys.Binding{Code: 88, Shift: hotkeys.ShiftAny, Command: hotkeys.CmdTogglePassthrough}
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StartupScriptPath returns the startup script with ~ expanded.
func (c *Config) StartupScriptPath() string {
	return expandHome(c.StartupScript)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
