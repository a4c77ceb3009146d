package tui

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/gateway/internal/config"
	"github.com/1broseidon/gateway/internal/hotkeys"
	"github.com/1broseidon/gateway/internal/platform"
	"github.com/1broseidon/gateway/internal/wm"
)

const (
	simOutputWidth  = 1920
	simOutputHeight = 1080
	simRefresh      = 60000
)

// Simulator drives a window manager core over a headless host so layouts
// and commands can be tried without a display.
type Simulator struct {
	srv    *wm.Server
	host   *platform.Headless
	nextID wm.OutputID
	nextX  int
	seq    int
}

// NewSimulator creates a simulator with one output attached.
func NewSimulator(cfg *config.Config) (*Simulator, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	host := platform.NewHeadless()
	srv, err := wm.NewServer(cfg, host, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return nil, err
	}
	s := &Simulator{srv: srv, host: host, nextID: 1}
	s.AddOutput()
	return s, nil
}

// pump feeds queued host events to the core and draws every output.
func (s *Simulator) pump() {
	for {
		events := s.host.Drain()
		if len(events) == 0 {
			break
		}
		for _, ev := range events {
			s.srv.Handle(ev)
		}
	}
	for _, id := range s.srv.OutputIDs() {
		s.srv.Handle(wm.OutputRefresh{Output: id})
	}
}

// AddWindow opens a new client window.
func (s *Simulator) AddWindow() wm.SurfaceID {
	s.seq++
	surface := s.host.AddWindow(fmt.Sprintf("window %d", s.seq), "sim")
	s.pump()
	return surface
}

// AddOutput attaches another output to the right of the existing ones.
func (s *Simulator) AddOutput() wm.OutputID {
	id := s.nextID
	s.nextID++
	s.host.AddOutput(id, fmt.Sprintf("SIM-%d", id), s.nextX, simOutputWidth, simOutputHeight, simRefresh)
	s.nextX += simOutputWidth
	s.pump()
	return id
}

// RemoveOutput detaches the most recently added output. The last output is
// never removed.
func (s *Simulator) RemoveOutput() bool {
	ids := s.srv.OutputIDs()
	if len(ids) < 2 {
		return false
	}
	last := ids[len(ids)-1]
	s.host.RemoveOutput(last)
	s.nextX -= simOutputWidth
	s.pump()
	return true
}

// Run executes a command the way a key binding would.
func (s *Simulator) Run(cmd hotkeys.Command) bool {
	handled := s.srv.Execute(cmd)
	s.pump()
	return handled
}

// Done is closed when the quit command ran.
func (s *Simulator) Done() <-chan struct{} {
	return s.srv.Done()
}

// Snapshot copies the core state.
func (s *Simulator) Snapshot() wm.Snapshot {
	return s.srv.Snapshot()
}

// Outputs lists the attached outputs in attach order.
func (s *Simulator) Outputs() []wm.Output {
	var out []wm.Output
	for _, id := range s.srv.OutputIDs() {
		if o, ok := s.srv.Output(id); ok {
			out = append(out, o)
		}
	}
	return out
}

// Frame returns the last presented draw list of an output.
func (s *Simulator) Frame(id wm.OutputID) []wm.DrawEntry {
	return s.host.Frame(id)
}

// Label names a draw entry for display.
func (s *Simulator) Label(e wm.DrawEntry) string {
	switch e.Kind {
	case wm.DrawView:
		if v, ok := s.srv.View(e.View); ok {
			return v.Title
		}
	case wm.DrawLayer:
		return e.Layer.String()
	}
	return ""
}

// Spawned lists the commands spawned so far.
func (s *Simulator) Spawned() []string {
	return s.host.Spawned()
}
