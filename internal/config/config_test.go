package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/gateway/internal/hotkeys"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func canonical(t *testing.T, path string) string {
	t.Helper()
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	return real
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if len(cfg.Stacks) != 4 {
		t.Fatalf("expected 4 default stacks, got %d", len(cfg.Stacks))
	}
	want := []int{1, 1, 2, 2}
	for i, st := range cfg.Stacks {
		if st.MaxItems != want[i] {
			t.Fatalf("expected stacks[%d].max_items=%d, got %d", i, want[i], st.MaxItems)
		}
	}
	if cfg.Terminal != "foot" || cfg.WindowGaps != 8 || cfg.MouseSensitivity != 0.5 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Launcher != DefaultConfig().Launcher {
		t.Fatalf("expected default launcher, got %q", res.Config.Launcher)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.StacksPerOutput != 2 {
		t.Fatalf("expected stacks_per_output 2, got %d", res.Config.StacksPerOutput)
	}
}

func TestLoadFromPath_OverridesAndExplainSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"terminal: alacritty",
		"window_gaps: 4",
		"refresh_interval: 33ms",
		"keyboard:",
		"  variant: \"\"",
		"stacks:",
		"  - max_items: 3",
		"  - max_items: 1",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Terminal != "alacritty" || cfg.WindowGaps != 4 {
		t.Fatalf("expected overrides, got terminal=%q gaps=%d", cfg.Terminal, cfg.WindowGaps)
	}
	if cfg.RefreshInterval != 33*time.Millisecond {
		t.Fatalf("expected 33ms refresh, got %v", cfg.RefreshInterval)
	}
	if cfg.Keyboard.Layout != "us" || cfg.Keyboard.Variant != "" {
		t.Fatalf("expected layout kept and variant cleared, got %+v", cfg.Keyboard)
	}
	if len(cfg.Stacks) != 2 || cfg.Stacks[0].MaxItems != 3 {
		t.Fatalf("expected stacks replaced, got %+v", cfg.Stacks)
	}

	val, src, err := Explain(res, "window_gaps")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 4 || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("expected file source on line 2 with value 4, got %#v %+v", val, src)
	}

	val, src, err = Explain(res, "stacks.0.max_items")
	if err != nil {
		t.Fatalf("explain stacks: %v", err)
	}
	if val != 3 || src.Kind != SourceFile {
		t.Fatalf("expected stack element from file, got %#v %+v", val, src)
	}

	_, src, err = Explain(res, "launcher")
	if err != nil {
		t.Fatalf("explain launcher: %v", err)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %+v", src)
	}

	if _, _, err := Explain(res, "stacks.9.max_items"); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), canonical(t, path)) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "terminal: foot\nwindow_gaps: -1\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "window_gaps" {
		t.Fatalf("expected path window_gaps, got %q", verr.Path)
	}
	if !strings.HasPrefix(err.Error(), canonical(t, path)+":2:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_ListErrorsPointAtElement(t *testing.T) {
	tests := []struct {
		name string
		yaml []string
		path string
		line int
	}{
		{
			name: "stack max items",
			yaml: []string{"stacks:", "  - max_items: 1", "  - max_items: 0", ""},
			path: "stacks.1.max_items",
			line: 3,
		},
		{
			name: "duplicate binding",
			yaml: []string{
				"bindings:",
				"  - command: toggle-passthrough",
				"    keycode: 88",
				"  - command: focus-next",
				"    keycode: 37",
				"  - command: quit",
				"    keycode: 37",
				"",
			},
			path: "bindings.2.keycode",
			line: 7,
		},
		{
			name: "unknown command",
			yaml: []string{"bindings:", "  - command: fcous-next", "    keycode: 37", ""},
			path: "bindings.0.command",
			line: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, strings.Join(tt.yaml, "\n"))

			_, err := LoadFromPath(path)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
			if verr.Source.Line != tt.line {
				t.Fatalf("expected line %d, got %+v", tt.line, verr.Source)
			}
			if !strings.HasPrefix(err.Error(), canonical(t, path)+":") {
				t.Fatalf("expected file prefix, got %v", err)
			}
		})
	}
}

func TestLoadFromPath_ReplacedListForgetsIncludedElements(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), strings.Join([]string{
		"stacks:",
		"  - max_items: 1",
		"  - max_items: 1",
		"  - max_items: 2",
		"",
	}, "\n"))
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include: base.yaml\nstacks_per_output: 1\nstacks:\n  - max_items: 3\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Config.Stacks) != 1 {
		t.Fatalf("expected the main file's stacks only, got %+v", res.Config.Stacks)
	}
	if _, ok := res.Sources["stacks.2"]; ok {
		t.Fatalf("expected included stack positions dropped, got %+v", res.Sources)
	}
	_, src, err := Explain(res, "stacks.0.max_items")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if src.File != canonical(t, path) || src.Line != 4 {
		t.Fatalf("expected stacks.0 from the main file line 4, got %+v", src)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "window_gaps: 5\nterminal: kitty\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "window_gaps: 6\n")

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include:\n  - config.d\nwindow_gaps: 7\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.WindowGaps != 7 {
		t.Fatalf("expected window_gaps to be 7, got %d", res.Config.WindowGaps)
	}
	if res.Config.Terminal != "kitty" {
		t.Fatalf("expected terminal from include, got %q", res.Config.Terminal)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestMergeEnvironmentAndVolume(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), "environment:\n  A: one\nvolume:\n  raise: up\n")
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include: base.yaml\nenvironment:\n  B: two\nvolume:\n  mute: hush\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	env := res.Config.Environment
	if env["A"] != "one" || env["B"] != "two" || env["QT_QPA_PLATFORMTHEME"] != "qt5ct" {
		t.Fatalf("expected merged environment, got %v", env)
	}
	vol := res.Config.Volume
	if vol.Raise != "up" || vol.Mute != "hush" || vol.Lower != "pamixer -d 10" {
		t.Fatalf("expected merged volume, got %+v", vol)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"empty terminal", func(c *Config) { c.Terminal = " " }, "terminal"},
		{"zero sensitivity", func(c *Config) { c.MouseSensitivity = 0 }, "mouse_sensitivity"},
		{"no stacks", func(c *Config) { c.Stacks = nil }, "stacks"},
		{"zero max items", func(c *Config) { c.Stacks[1].MaxItems = 0 }, "stacks.1.max_items"},
		{"too many per output", func(c *Config) { c.StacksPerOutput = 5 }, "stacks_per_output"},
		{"brightness step", func(c *Config) { c.BrightnessStep = 1.5 }, "brightness_step"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"env name", func(c *Config) { c.Environment["A=B"] = "x" }, "environment"},
		{"bad binding", func(c *Config) {
			c.Bindings = []BindingConfig{{Command: "fcous-next", Keycode: 37}}
		}, "bindings.0.command"},
		{"binding shift", func(c *Config) {
			c.Bindings = []BindingConfig{{Command: "quit", Keycode: 1, Shift: "maybe"}}
		}, "bindings.0.shift"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q (%v)", tt.path, verr.Path, err)
			}
		})
	}
}

func TestHotkeyBindings(t *testing.T) {
	cfg := DefaultConfig()
	got, err := cfg.HotkeyBindings()
	if err != nil {
		t.Fatalf("default bindings: %v", err)
	}
	if len(got) != len(hotkeys.DefaultBindings()) {
		t.Fatalf("expected builtin table, got %d entries", len(got))
	}

	cfg.Bindings = []BindingConfig{
		{Command: "toggle-passthrough", Keycode: 88},
		{Command: "focus_next", Keycode: 37, Shift: "off"},
		{Command: "swap-next", Keycode: 37, Shift: "on"},
	}
	got, err = cfg.HotkeyBindings()
	if err != nil {
		t.Fatalf("custom bindings: %v", err)
	}
	if got[1].Command != hotkeys.CmdFocusNext || got[1].Shift != hotkeys.ShiftOff {
		t.Fatalf("unexpected binding: %+v", got[1])
	}

	cfg.Bindings = append(cfg.Bindings, BindingConfig{Command: "quit", Keycode: 37, Shift: "on"})
	if _, err := cfg.HotkeyBindings(); err == nil || !strings.Contains(err.Error(), "already bound") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestHotkeyBindingsKeepPassthroughToggle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bindings = []BindingConfig{
		{Command: "spawn-terminal", Keycode: 28},
		{Command: "quit", Keycode: 1},
	}
	got, err := cfg.HotkeyBindings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected toggle plus 2 bindings, got %+v", got)
	}
	if got[0].Command != hotkeys.CmdTogglePassthrough || got[0].Code != 88 || got[0].Shift != hotkeys.ShiftAny {
		t.Fatalf("expected F12 toggle first, got %+v", got[0])
	}

	d := hotkeys.NewDispatcher(got)
	cmd, ok := d.Resolve(hotkeys.Key{Code: 88, Mods: hotkeys.ModLogo, Pressed: true})
	if !ok || cmd != hotkeys.CmdTogglePassthrough {
		t.Fatalf("expected F12 to toggle passthrough, got %v/%v", cmd, ok)
	}

	cfg.Bindings = []BindingConfig{{Command: "toggle-passthrough", Keycode: 87}}
	got, err = cfg.HotkeyBindings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Code != 87 {
		t.Fatalf("expected the relocated toggle only, got %+v", got)
	}

	cfg.Bindings = []BindingConfig{{Command: "quit", Keycode: 88}}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "reserved") {
		t.Fatalf("expected reserved keycode error, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Terminal = "wezterm"
	cfg.RefreshInterval = 20 * time.Millisecond
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Terminal != "wezterm" || res.Config.RefreshInterval != 20*time.Millisecond {
		t.Fatalf("expected saved values, got %+v", res.Config)
	}
}

func TestStartupScriptPathExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg := DefaultConfig()
	want := filepath.Join(home, ".config", "gateway", "startup.sh")
	if got := cfg.StartupScriptPath(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "window_gaps: 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	if err := Watch(ctx, path, nil, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("watch: %v", err)
	}

	writeFile(t, filepath.Join(dir, "other.yaml"), "x: 1\n")
	writeFile(t, path, "window_gaps: 2\n")

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatalf("expected change notification")
	}
}
