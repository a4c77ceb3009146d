package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/gateway/internal/config"
	"github.com/1broseidon/gateway/internal/hotkeys"
)

// settingChange is one setting that differs between the loaded and the
// edited configuration. An empty before or after marks a list entry that
// was added or removed.
type settingChange struct {
	path    string
	before  string
	after   string
	restart bool
}

func (c settingChange) added() bool   { return c.before == "" }
func (c settingChange) removed() bool { return c.after == "" }

// diffSettings lists the changed settings in config file order. Paths use
// the same dotted form as `gateway config explain`.
func diffSettings(original, current *config.Config) []settingChange {
	if original == nil || current == nil {
		return nil
	}
	var out []settingChange
	add := func(path string, before, after string) {
		if before != after {
			out = append(out, settingChange{
				path:    path,
				before:  before,
				after:   after,
				restart: path == "stacks_per_output" || strings.HasPrefix(path, "stacks."),
			})
		}
	}

	add("terminal", strconv.Quote(original.Terminal), strconv.Quote(current.Terminal))
	add("launcher", strconv.Quote(original.Launcher), strconv.Quote(current.Launcher))
	add("mouse_sensitivity", fmt.Sprint(original.MouseSensitivity), fmt.Sprint(current.MouseSensitivity))
	add("keyboard.layout", strconv.Quote(original.Keyboard.Layout), strconv.Quote(current.Keyboard.Layout))
	add("keyboard.variant", strconv.Quote(original.Keyboard.Variant), strconv.Quote(current.Keyboard.Variant))
	add("window_gaps", strconv.Itoa(original.WindowGaps), strconv.Itoa(current.WindowGaps))
	add("focus_follows_mouse", strconv.FormatBool(original.FocusFollowsMouse), strconv.FormatBool(current.FocusFollowsMouse))

	for i := 0; i < max(len(original.Stacks), len(current.Stacks)); i++ {
		add(fmt.Sprintf("stacks.%d.max_items", i), stackEntry(original.Stacks, i), stackEntry(current.Stacks, i))
	}
	add("stacks_per_output", strconv.Itoa(original.StacksPerOutput), strconv.Itoa(current.StacksPerOutput))

	add("brightness_step", fmt.Sprint(original.BrightnessStep), fmt.Sprint(current.BrightnessStep))
	add("volume.raise", strconv.Quote(original.Volume.Raise), strconv.Quote(current.Volume.Raise))
	add("volume.lower", strconv.Quote(original.Volume.Lower), strconv.Quote(current.Volume.Lower))
	add("volume.mute", strconv.Quote(original.Volume.Mute), strconv.Quote(current.Volume.Mute))
	add("startup_script", strconv.Quote(original.StartupScript), strconv.Quote(current.StartupScript))

	for _, name := range envNames(original.Environment, current.Environment) {
		add("environment."+name, envEntry(original.Environment, name), envEntry(current.Environment, name))
	}

	add("refresh_interval", original.RefreshInterval.String(), current.RefreshInterval.String())
	add("reconcile_interval", original.ReconcileInterval.String(), current.ReconcileInterval.String())
	add("log_level", original.LogLevel, current.LogLevel)

	// An empty table means the built-in one, so compare what the daemon
	// would actually bind.
	before, after := effectiveBindings(original), effectiveBindings(current)
	for i := 0; i < max(len(before), len(after)); i++ {
		add(fmt.Sprintf("bindings.%d", i), bindingEntry(before, i), bindingEntry(after, i))
	}
	return out
}

func stackEntry(stacks []config.StackConfig, i int) string {
	if i >= len(stacks) {
		return ""
	}
	return strconv.Itoa(stacks[i].MaxItems)
}

func envNames(a, b map[string]string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var names []string
	for _, m := range []map[string]string{a, b} {
		for name := range m {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func envEntry(env map[string]string, name string) string {
	v, ok := env[name]
	if !ok {
		return ""
	}
	return strconv.Quote(v)
}

func effectiveBindings(cfg *config.Config) []config.BindingConfig {
	if len(cfg.Bindings) == 0 {
		return bindingConfigs(hotkeys.DefaultBindings())
	}
	return cfg.Bindings
}

func bindingEntry(bindings []config.BindingConfig, i int) string {
	if i >= len(bindings) {
		return ""
	}
	b := bindings[i]
	shift := b.Shift
	if shift == "" {
		shift = "any"
	}
	return fmt.Sprintf("%s %d shift=%s", b.Command, b.Keycode, shift)
}

// cloneConfig deep-copies cfg through YAML so edits never alias the
// original.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil
	}
	var clone config.Config
	if err := yaml.Unmarshal(data, &clone); err != nil {
		return nil
	}
	return &clone
}
