package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Terminal != nil {
		cfg.Terminal = strings.TrimSpace(*raw.Terminal)
	}
	if raw.Launcher != nil {
		cfg.Launcher = strings.TrimSpace(*raw.Launcher)
	}
	if raw.MouseSensitivity != nil {
		cfg.MouseSensitivity = *raw.MouseSensitivity
	}
	if raw.Keyboard != nil {
		if raw.Keyboard.Layout != nil {
			cfg.Keyboard.Layout = *raw.Keyboard.Layout
		}
		if raw.Keyboard.Variant != nil {
			cfg.Keyboard.Variant = *raw.Keyboard.Variant
		}
	}
	if raw.WindowGaps != nil {
		cfg.WindowGaps = *raw.WindowGaps
	}
	if raw.FocusFollowsMouse != nil {
		cfg.FocusFollowsMouse = *raw.FocusFollowsMouse
	}
	if raw.Stacks != nil {
		cfg.Stacks = append([]StackConfig(nil), raw.Stacks...)
	}
	if raw.StacksPerOutput != nil {
		cfg.StacksPerOutput = *raw.StacksPerOutput
	}
	if raw.BrightnessStep != nil {
		cfg.BrightnessStep = *raw.BrightnessStep
	}
	if raw.Volume != nil {
		if raw.Volume.Raise != nil {
			cfg.Volume.Raise = *raw.Volume.Raise
		}
		if raw.Volume.Lower != nil {
			cfg.Volume.Lower = *raw.Volume.Lower
		}
		if raw.Volume.Mute != nil {
			cfg.Volume.Mute = *raw.Volume.Mute
		}
	}
	if raw.StartupScript != nil {
		cfg.StartupScript = *raw.StartupScript
	}
	if raw.Environment != nil {
		for k, v := range raw.Environment {
			cfg.Environment[k] = v
		}
	}
	if raw.RefreshInterval != nil {
		cfg.RefreshInterval = *raw.RefreshInterval
	}
	if raw.ReconcileInterval != nil {
		cfg.ReconcileInterval = *raw.ReconcileInterval
	}
	if raw.LogLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*raw.LogLevel))
		if level == "warn" {
			level = "warning"
		}
		cfg.LogLevel = level
	}
	if raw.Bindings != nil {
		cfg.Bindings = append([]BindingConfig(nil), raw.Bindings...)
	}

	if len(cfg.Stacks) == 0 {
		return nil, &ValidationError{Path: "stacks", Err: fmt.Errorf("stacks must not be empty")}
	}

	return cfg, nil
}
