package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing        CommandType = "PING"
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListViews   CommandType = "LIST_VIEWS"
	CommandListOutputs CommandType = "LIST_OUTPUTS"
	CommandGetStacks   CommandType = "GET_STACKS"
	CommandRunCommand  CommandType = "RUN_COMMAND"
	CommandFocusView   CommandType = "FOCUS_VIEW"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Views         int     `json:"views"`
	Managed       int     `json:"managed"`
	Outputs       int     `json:"outputs"`
	FocusedView   uint64  `json:"focused_view"`
	MainOutput    uint64  `json:"main_output"`
	Passthrough   bool    `json:"passthrough"`
	Brightness    float64 `json:"brightness"`
	Grab          string  `json:"grab"`
	CursorX       float64 `json:"cursor_x"`
	CursorY       float64 `json:"cursor_y"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	DaemonRunning bool    `json:"daemon_running"`
}

// ViewInfo describes one view
type ViewInfo struct {
	ID         uint64 `json:"id"`
	Surface    uint64 `json:"surface"`
	Kind       string `json:"kind"`
	Title      string `json:"title"`
	AppID      string `json:"app_id,omitempty"`
	Location   string `json:"location"`
	Stack      int    `json:"stack"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Fullscreen bool   `json:"fullscreen,omitempty"`
	Focused    bool   `json:"focused,omitempty"`
	Override   bool   `json:"override,omitempty"`
}

// ViewsData represents the data returned by LIST_VIEWS
type ViewsData struct {
	Views []ViewInfo `json:"views"`
}

// OutputInfo describes one output
type OutputInfo struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RefreshMHz int    `json:"refresh_mhz"`
	Stacks     []int  `json:"stacks"`
	Main       bool   `json:"main,omitempty"`
}

// OutputsData represents the data returned by LIST_OUTPUTS
type OutputsData struct {
	Outputs []OutputInfo `json:"outputs"`
}

// StackInfo describes one stack
type StackInfo struct {
	Index     int  `json:"index"`
	MaxItems  int  `json:"max_items"`
	ItemCount int  `json:"item_count"`
	Mapped    bool `json:"mapped"`
	X         int  `json:"x"`
	Width     int  `json:"width"`
	Height    int  `json:"height"`
}

// StacksData represents the data returned by GET_STACKS
type StacksData struct {
	Stacks []StackInfo `json:"stacks"`
}

// RunCommandPayload represents the payload for RUN_COMMAND
type RunCommandPayload struct {
	Command string `json:"command"`
}

// RunCommandData reports whether the command applied
type RunCommandData struct {
	Command string `json:"command"`
	Handled bool   `json:"handled"`
}

// FocusViewPayload represents the payload for FOCUS_VIEW
type FocusViewPayload struct {
	ViewID uint64 `json:"view_id"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
