package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/gateway/internal/hotkeys"
	"github.com/1broseidon/gateway/internal/runtimepath"
	"github.com/1broseidon/gateway/internal/wm"
)

// Controller is the window manager side of the IPC server. Implementations
// must be safe to call from connection goroutines.
type Controller interface {
	Snapshot() (wm.Snapshot, error)
	RunCommand(cmd hotkeys.Command) (bool, error)
	FocusView(id wm.ViewID) error
	Reload() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server on the standard socket path
func NewServer(ctrl Controller) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandPing:
		resp, _ := NewOKResponse(nil)
		return resp
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListViews:
		return s.handleListViews()
	case CommandListOutputs:
		return s.handleListOutputs()
	case CommandGetStacks:
		return s.handleGetStacks()
	case CommandRunCommand:
		return s.handleRunCommand(req.Payload)
	case CommandFocusView:
		return s.handleFocusView(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")
	if err := s.ctrl.Reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	log.Println("IPC: Config reloaded successfully")

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) snapshot() (wm.Snapshot, *Response) {
	snap, err := s.ctrl.Snapshot()
	if err != nil {
		return wm.Snapshot{}, NewErrorResponse(fmt.Sprintf("Failed to read state: %v", err))
	}
	return snap, nil
}

func (s *Server) handleGetStatus() *Response {
	snap, errResp := s.snapshot()
	if errResp != nil {
		return errResp
	}

	managed := 0
	for _, v := range snap.Views {
		if v.Location == wm.LocManaged {
			managed++
		}
	}
	status := StatusData{
		Views:         len(snap.Views),
		Managed:       managed,
		Outputs:       len(snap.Outputs),
		FocusedView:   uint64(snap.Focused),
		MainOutput:    uint64(snap.Main),
		Passthrough:   snap.Passthrough,
		Brightness:    snap.Brightness,
		Grab:          snap.Grab,
		CursorX:       snap.CursorX,
		CursorY:       snap.CursorY,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleListViews() *Response {
	snap, errResp := s.snapshot()
	if errResp != nil {
		return errResp
	}
	resp, _ := NewOKResponse(ViewsData{Views: ViewInfos(snap)})
	return resp
}

func (s *Server) handleListOutputs() *Response {
	snap, errResp := s.snapshot()
	if errResp != nil {
		return errResp
	}
	resp, _ := NewOKResponse(OutputsData{Outputs: OutputInfos(snap)})
	return resp
}

func (s *Server) handleGetStacks() *Response {
	snap, errResp := s.snapshot()
	if errResp != nil {
		return errResp
	}
	resp, _ := NewOKResponse(StacksData{Stacks: StackInfos(snap)})
	return resp
}

func (s *Server) handleRunCommand(payload json.RawMessage) *Response {
	var req RunCommandPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid run payload: %v", err))
	}
	cmd, err := hotkeys.ParseCommand(req.Command)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	log.Printf("IPC: Run command %s", cmd)
	handled, err := s.ctrl.RunCommand(cmd)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to run %s: %v", cmd, err))
	}

	resp, _ := NewOKResponse(RunCommandData{Command: cmd.String(), Handled: handled})
	return resp
}

func (s *Server) handleFocusView(payload json.RawMessage) *Response {
	var req FocusViewPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid focus payload: %v", err))
	}
	if req.ViewID == 0 {
		return NewErrorResponse("view_id is required")
	}
	if err := s.ctrl.FocusView(wm.ViewID(req.ViewID)); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to focus view: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}

// ViewInfos converts a snapshot's views for the wire.
func ViewInfos(snap wm.Snapshot) []ViewInfo {
	out := make([]ViewInfo, 0, len(snap.Views))
	for _, v := range snap.Views {
		out = append(out, ViewInfo{
			ID:         uint64(v.ID),
			Surface:    uint64(v.Surface),
			Kind:       v.Kind.String(),
			Title:      v.Title,
			AppID:      v.AppID,
			Location:   v.Location.String(),
			Stack:      v.StackIndex,
			X:          v.X,
			Y:          v.Y,
			Width:      v.Width,
			Height:     v.Height,
			Fullscreen: v.Fullscreen,
			Focused:    v.ID == snap.Focused,
			Override:   v.Override,
		})
	}
	return out
}

// OutputInfos converts a snapshot's outputs for the wire.
func OutputInfos(snap wm.Snapshot) []OutputInfo {
	out := make([]OutputInfo, 0, len(snap.Outputs))
	for _, o := range snap.Outputs {
		out = append(out, OutputInfo{
			ID:         uint64(o.ID),
			Name:       o.Name,
			X:          o.X,
			Y:          o.Y,
			Width:      o.Width,
			Height:     o.Height,
			RefreshMHz: o.Refresh,
			Stacks:     append([]int{}, o.Stacks...),
			Main:       o.ID == snap.Main,
		})
	}
	return out
}

// StackInfos converts a snapshot's stack table for the wire.
func StackInfos(snap wm.Snapshot) []StackInfo {
	out := make([]StackInfo, 0, len(snap.Stacks))
	for i, st := range snap.Stacks {
		out = append(out, StackInfo{
			Index:     i,
			MaxItems:  st.MaxItems,
			ItemCount: st.ItemCount,
			Mapped:    st.Mapped,
			X:         st.CurrentX,
			Width:     st.Width,
			Height:    st.Height,
		})
	}
	return out
}
