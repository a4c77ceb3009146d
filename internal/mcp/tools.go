package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gateway/internal/hotkeys"
	"github.com/1broseidon/gateway/internal/ipc"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{Status: *status}, nil
}

func (s *Server) handleListViews(_ context.Context, _ *mcpsdk.CallToolRequest, args ListViewsInput) (*mcpsdk.CallToolResult, ListViewsOutput, error) {
	location := strings.ToLower(strings.TrimSpace(args.Location))
	switch location {
	case "", "managed", "redirect", "unmapped":
	default:
		return nil, ListViewsOutput{}, fmt.Errorf("location must be one of: managed, redirect, unmapped")
	}

	data, err := s.client.ListViews()
	if err != nil {
		return nil, ListViewsOutput{}, err
	}

	appID := strings.ToLower(strings.TrimSpace(args.AppID))
	views := make([]ipc.ViewInfo, 0, len(data.Views))
	for _, v := range data.Views {
		if location != "" && v.Location != location {
			continue
		}
		if appID != "" && !strings.Contains(strings.ToLower(v.AppID), appID) {
			continue
		}
		views = append(views, v)
	}

	s.logger.Debug("mcp list_views", "total", len(data.Views), "returned", len(views))
	return nil, ListViewsOutput{Views: views}, nil
}

func (s *Server) handleListOutputs(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListOutputsInput) (*mcpsdk.CallToolResult, ListOutputsOutput, error) {
	data, err := s.client.ListOutputs()
	if err != nil {
		return nil, ListOutputsOutput{}, err
	}
	outputs := data.Outputs
	if outputs == nil {
		outputs = []ipc.OutputInfo{}
	}
	return nil, ListOutputsOutput{Outputs: outputs}, nil
}

func (s *Server) handleGetStacks(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStacksInput) (*mcpsdk.CallToolResult, GetStacksOutput, error) {
	data, err := s.client.GetStacks()
	if err != nil {
		return nil, GetStacksOutput{}, err
	}
	stacks := data.Stacks
	if stacks == nil {
		stacks = []ipc.StackInfo{}
	}
	return nil, GetStacksOutput{Stacks: stacks}, nil
}

func (s *Server) handleListCommands(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListCommandsInput) (*mcpsdk.CallToolResult, ListCommandsOutput, error) {
	cmds := hotkeys.Commands()
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.String())
	}
	return nil, ListCommandsOutput{Commands: names}, nil
}

func (s *Server) handleRunCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args RunCommandInput) (*mcpsdk.CallToolResult, RunCommandOutput, error) {
	name := strings.TrimSpace(args.Command)
	if name == "" {
		return nil, RunCommandOutput{}, fmt.Errorf("command is required")
	}
	// Validate locally so typos get a suggestion without a round trip.
	if _, err := hotkeys.ParseCommand(name); err != nil {
		return nil, RunCommandOutput{}, err
	}

	data, err := s.client.RunCommand(name)
	if err != nil {
		return nil, RunCommandOutput{}, err
	}
	s.logger.Info("mcp run_command", "command", data.Command, "handled", data.Handled)
	return nil, RunCommandOutput{Command: data.Command, Handled: data.Handled}, nil
}

func (s *Server) handleFocusView(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusViewInput) (*mcpsdk.CallToolResult, FocusViewOutput, error) {
	if args.ViewID == 0 {
		return nil, FocusViewOutput{}, fmt.Errorf("view_id is required")
	}
	if err := s.client.FocusView(args.ViewID); err != nil {
		return nil, FocusViewOutput{}, err
	}
	s.logger.Info("mcp focus_view", "view", args.ViewID)
	return nil, FocusViewOutput{ViewID: args.ViewID, Focused: true}, nil
}

func (s *Server) handleReloadConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadConfigInput) (*mcpsdk.CallToolResult, ReloadConfigOutput, error) {
	if err := s.client.Reload(); err != nil {
		return nil, ReloadConfigOutput{}, err
	}
	s.logger.Info("mcp reload_config")
	return nil, ReloadConfigOutput{Reloaded: true}, nil
}
