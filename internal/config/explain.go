package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	terminal
//	launcher
//	mouse_sensitivity
//	keyboard.layout
//	keyboard.variant
//	window_gaps
//	focus_follows_mouse
//	stacks
//	stacks.<index>.max_items
//	stacks_per_output
//	brightness_step
//	volume.raise
//	startup_script
//	environment
//	environment.<NAME>
//	refresh_interval
//	reconcile_interval
//	log_level
//	bindings
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	// A replaced list owns all of its elements.
	for _, list := range replacedWhole {
		if strings.HasPrefix(path, list+".") {
			if src, ok := res.Sources.nearest(path); ok {
				return value, src, nil
			}
		}
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	scalar := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}

	switch parts[0] {
	case "terminal":
		return scalar(cfg.Terminal)
	case "launcher":
		return scalar(cfg.Launcher)
	case "mouse_sensitivity":
		return scalar(cfg.MouseSensitivity)
	case "window_gaps":
		return scalar(cfg.WindowGaps)
	case "focus_follows_mouse":
		return scalar(cfg.FocusFollowsMouse)
	case "stacks_per_output":
		return scalar(cfg.StacksPerOutput)
	case "brightness_step":
		return scalar(cfg.BrightnessStep)
	case "startup_script":
		return scalar(cfg.StartupScript)
	case "refresh_interval":
		return scalar(cfg.RefreshInterval.String())
	case "reconcile_interval":
		return scalar(cfg.ReconcileInterval.String())
	case "log_level":
		return scalar(cfg.LogLevel)
	case "bindings":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		if len(cfg.Bindings) == 0 {
			return "builtin", nil
		}
		return cfg.Bindings, nil
	case "keyboard":
		if len(parts) == 1 {
			return cfg.Keyboard, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "layout":
			return cfg.Keyboard.Layout, nil
		case "variant":
			return cfg.Keyboard.Variant, nil
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	case "volume":
		if len(parts) == 1 {
			return cfg.Volume, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "raise":
			return cfg.Volume.Raise, nil
		case "lower":
			return cfg.Volume.Lower, nil
		case "mute":
			return cfg.Volume.Mute, nil
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	case "environment":
		if len(parts) == 1 {
			return cfg.Environment, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		v, ok := cfg.Environment[parts[1]]
		if !ok {
			return nil, fmt.Errorf("unknown environment entry %q", parts[1])
		}
		return v, nil
	case "stacks":
		if len(parts) == 1 {
			return cfg.Stacks, nil
		}
		if len(parts) != 3 || parts[2] != "max_items" {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		idx, err := strconv.Atoi(parts[1])
		if err != nil || idx < 0 || idx >= len(cfg.Stacks) {
			return nil, fmt.Errorf("stack index %q out of range (0-%d)", parts[1], len(cfg.Stacks)-1)
		}
		return cfg.Stacks[idx].MaxItems, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
