// Package mcp exposes a running gateway to MCP clients over stdio. Every
// tool is a thin wrapper around the IPC client.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gateway/internal/ipc"
)

const (
	ServerName    = "gateway"
	ServerVersion = "0.1.0"
)

// Client is the subset of the IPC client the tools use.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	ListViews() (*ipc.ViewsData, error)
	ListOutputs() (*ipc.OutputsData, error)
	GetStacks() (*ipc.StacksData, error)
	RunCommand(name string) (*ipc.RunCommandData, error)
	FocusView(id uint64) error
	Reload() error
}

var _ Client = (*ipc.Client)(nil)

// Server is the MCP server for gateway introspection and control.
type Server struct {
	mcpServer *mcpsdk.Server
	client    Client
	logger    *slog.Logger
}

// NewServer creates an MCP server that talks to the daemon through client.
func NewServer(client Client, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		client: client,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the window manager's state: view and output counts, the focused view, the main output, whether Logo bindings are in passthrough mode, brightness, the interactive grab mode and the cursor position.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_views",
		Description: "List application windows on the focused panel with their id, title, app id, panel list (managed, redirect or unmapped), stack index and geometry. Managed views are listed in tiling order.",
	}, s.handleListViews)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_outputs",
		Description: "List connected outputs with their position, size, refresh rate in mHz and the stack columns they claim.",
	}, s.handleListOutputs)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_stacks",
		Description: "Describe the tiling stack columns: capacity, current item count, whether the column is on screen and its geometry.",
	}, s.handleGetStacks)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_commands",
		Description: "List the command names run_command accepts.",
	}, s.handleListCommands)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_command",
		Description: "Run a window manager command as if its Logo binding had been pressed. handled is false when the command could not apply, e.g. focus-next with fewer than two views.",
	}, s.handleRunCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_view",
		Description: "Give keyboard focus to a view by id and move the pointer onto it.",
	}, s.handleFocusView)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Reload ~/.config/gateway/config.yaml into the running window manager. Stack layout changes need a restart.",
	}, s.handleReloadConfig)
}
