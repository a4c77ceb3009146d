package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/gateway/internal/runtimepath"
)

// Client handles IPC communication with the window manager
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to gateway: %w (is it running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("gateway error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Ping checks if the window manager is responding
func (c *Client) Ping() error {
	return c.call(CommandPing, nil, nil)
}

// Reload asks the window manager to reload its config
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves a status summary
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListViews retrieves every view, managed first
func (c *Client) ListViews() (*ViewsData, error) {
	var data ViewsData
	if err := c.call(CommandListViews, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListOutputs retrieves the attached outputs
func (c *Client) ListOutputs() (*OutputsData, error) {
	var data OutputsData
	if err := c.call(CommandListOutputs, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStacks retrieves the stack table
func (c *Client) GetStacks() (*StacksData, error) {
	var data StacksData
	if err := c.call(CommandGetStacks, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// RunCommand executes a named command as if its key binding fired
func (c *Client) RunCommand(name string) (*RunCommandData, error) {
	var data RunCommandData
	if err := c.call(CommandRunCommand, RunCommandPayload{Command: name}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// FocusView focuses a view by id
func (c *Client) FocusView(id uint64) error {
	return c.call(CommandFocusView, FocusViewPayload{ViewID: id}, nil)
}
