package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawKeyboardConfig struct {
	Layout  *string `yaml:"layout"`
	Variant *string `yaml:"variant"`
}

type RawVolumeConfig struct {
	Raise *string `yaml:"raise"`
	Lower *string `yaml:"lower"`
	Mute  *string `yaml:"mute"`
}

type RawConfig struct {
	Include           IncludeList        `yaml:"include"`
	Terminal          *string            `yaml:"terminal"`
	Launcher          *string            `yaml:"launcher"`
	MouseSensitivity  *float64           `yaml:"mouse_sensitivity"`
	Keyboard          *RawKeyboardConfig `yaml:"keyboard"`
	WindowGaps        *int               `yaml:"window_gaps"`
	FocusFollowsMouse *bool              `yaml:"focus_follows_mouse"`
	Stacks            []StackConfig      `yaml:"stacks"`
	StacksPerOutput   *int               `yaml:"stacks_per_output"`
	BrightnessStep    *float64           `yaml:"brightness_step"`
	Volume            *RawVolumeConfig   `yaml:"volume"`
	StartupScript     *string            `yaml:"startup_script"`
	Environment       map[string]string  `yaml:"environment"`
	RefreshInterval   *time.Duration     `yaml:"refresh_interval"`
	ReconcileInterval *time.Duration     `yaml:"reconcile_interval"`
	LogLevel          *string            `yaml:"log_level"`
	Bindings          []BindingConfig    `yaml:"bindings"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Terminal != nil {
		out.Terminal = overlay.Terminal
	}
	if overlay.Launcher != nil {
		out.Launcher = overlay.Launcher
	}
	if overlay.MouseSensitivity != nil {
		out.MouseSensitivity = overlay.MouseSensitivity
	}
	if overlay.Keyboard != nil {
		if out.Keyboard == nil {
			out.Keyboard = &RawKeyboardConfig{}
		} else {
			kb := *out.Keyboard
			out.Keyboard = &kb
		}
		if overlay.Keyboard.Layout != nil {
			out.Keyboard.Layout = overlay.Keyboard.Layout
		}
		if overlay.Keyboard.Variant != nil {
			out.Keyboard.Variant = overlay.Keyboard.Variant
		}
	}
	if overlay.WindowGaps != nil {
		out.WindowGaps = overlay.WindowGaps
	}
	if overlay.FocusFollowsMouse != nil {
		out.FocusFollowsMouse = overlay.FocusFollowsMouse
	}
	// Lists replace rather than append.
	if overlay.Stacks != nil {
		out.Stacks = overlay.Stacks
	}
	if overlay.StacksPerOutput != nil {
		out.StacksPerOutput = overlay.StacksPerOutput
	}
	if overlay.BrightnessStep != nil {
		out.BrightnessStep = overlay.BrightnessStep
	}
	if overlay.Volume != nil {
		if out.Volume == nil {
			out.Volume = &RawVolumeConfig{}
		} else {
			vol := *out.Volume
			out.Volume = &vol
		}
		if overlay.Volume.Raise != nil {
			out.Volume.Raise = overlay.Volume.Raise
		}
		if overlay.Volume.Lower != nil {
			out.Volume.Lower = overlay.Volume.Lower
		}
		if overlay.Volume.Mute != nil {
			out.Volume.Mute = overlay.Volume.Mute
		}
	}
	if overlay.StartupScript != nil {
		out.StartupScript = overlay.StartupScript
	}
	if overlay.Environment != nil {
		env := make(map[string]string, len(out.Environment)+len(overlay.Environment))
		for k, v := range out.Environment {
			env[k] = v
		}
		for k, v := range overlay.Environment {
			env[k] = v
		}
		out.Environment = env
	}
	if overlay.RefreshInterval != nil {
		out.RefreshInterval = overlay.RefreshInterval
	}
	if overlay.ReconcileInterval != nil {
		out.ReconcileInterval = overlay.ReconcileInterval
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Bindings != nil {
		out.Bindings = overlay.Bindings
	}

	return out
}
