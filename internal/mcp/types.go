package mcp

import "github.com/1broseidon/gateway/internal/ipc"

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Status ipc.StatusData `json:"status"`
}

// ListViewsInput is the input for the list_views tool.
type ListViewsInput struct {
	Location string `json:"location,omitempty" jsonschema:"Only return views in this list: managed, redirect or unmapped"`
	AppID    string `json:"app_id,omitempty" jsonschema:"Only return views whose app id contains this text (case-insensitive)"`
}

// ListViewsOutput is the output for the list_views tool.
type ListViewsOutput struct {
	Views []ipc.ViewInfo `json:"views"`
}

// ListOutputsInput is the input for the list_outputs tool.
type ListOutputsInput struct{}

// ListOutputsOutput is the output for the list_outputs tool.
type ListOutputsOutput struct {
	Outputs []ipc.OutputInfo `json:"outputs"`
}

// GetStacksInput is the input for the get_stacks tool.
type GetStacksInput struct{}

// GetStacksOutput is the output for the get_stacks tool.
type GetStacksOutput struct {
	Stacks []ipc.StackInfo `json:"stacks"`
}

// RunCommandInput is the input for the run_command tool.
type RunCommandInput struct {
	Command string `json:"command" jsonschema:"Command name, e.g. focus-next, swap-prev, move-to-front, toggle-fullscreen, spawn-terminal, close-and-advance"`
}

// RunCommandOutput is the output for the run_command tool.
type RunCommandOutput struct {
	Command string `json:"command"`
	Handled bool   `json:"handled"`
}

// ListCommandsInput is the input for the list_commands tool.
type ListCommandsInput struct{}

// ListCommandsOutput is the output for the list_commands tool.
type ListCommandsOutput struct {
	Commands []string `json:"commands"`
}

// FocusViewInput is the input for the focus_view tool.
type FocusViewInput struct {
	ViewID uint64 `json:"view_id" jsonschema:"Id of the view to focus, as reported by list_views"`
}

// FocusViewOutput is the output for the focus_view tool.
type FocusViewOutput struct {
	ViewID  uint64 `json:"view_id"`
	Focused bool   `json:"focused"`
}

// ReloadConfigInput is the input for the reload_config tool.
type ReloadConfigInput struct{}

// ReloadConfigOutput is the output for the reload_config tool.
type ReloadConfigOutput struct {
	Reloaded bool `json:"reloaded"`
}
