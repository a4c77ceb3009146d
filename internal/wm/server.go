// Package wm is the window-management core: the view registry, the stack
// layout engine, output stack claims, focus, interactive grabs and key
// command execution. A Server is driven from a single goroutine.
package wm

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/1broseidon/gateway/internal/config"
	"github.com/1broseidon/gateway/internal/grab"
	"github.com/1broseidon/gateway/internal/hotkeys"
)

// Server owns every view, panel, output and layer surface.
type Server struct {
	cfg        *config.Config
	host       Host
	logger     *slog.Logger
	dispatcher *hotkeys.Dispatcher

	views     map[ViewID]*View
	bySurface map[SurfaceID]ViewID
	nextView  ViewID

	panels       map[PanelID]*Panel
	focusedPanel PanelID

	outputs     map[OutputID]*Output
	outputOrder []OutputID

	layers []*LayerSurface

	grab       *grab.State
	cursorX    float64
	cursorY    float64
	brightness float64

	quit     chan struct{}
	quitOnce sync.Once
}

// NewServer creates a server with one panel built from cfg.Stacks.
func NewServer(cfg *config.Config, host Host, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if host == nil {
		return nil, fmt.Errorf("host is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	bindings, err := cfg.HotkeyBindings()
	if err != nil {
		return nil, fmt.Errorf("bindings: %w", err)
	}

	maxItems := make([]int, len(cfg.Stacks))
	for i, st := range cfg.Stacks {
		maxItems[i] = st.MaxItems
	}

	s := &Server{
		cfg:          cfg,
		host:         host,
		logger:       logger,
		dispatcher:   hotkeys.NewDispatcher(bindings),
		views:        make(map[ViewID]*View),
		bySurface:    make(map[SurfaceID]ViewID),
		panels:       make(map[PanelID]*Panel),
		outputs:      make(map[OutputID]*Output),
		grab:         grab.NewState(),
		brightness:   1.0,
		quit:         make(chan struct{}),
		focusedPanel: 1,
	}
	s.panels[1] = newPanel(1, maxItems)
	return s, nil
}

// UpdateConfig swaps in a reloaded configuration. The stack table is fixed
// for the process lifetime; a change there is logged and ignored.
func (s *Server) UpdateConfig(cfg *config.Config) error {
	bindings, err := cfg.HotkeyBindings()
	if err != nil {
		return fmt.Errorf("bindings: %w", err)
	}
	if !sameStacks(s.cfg.Stacks, cfg.Stacks) || s.cfg.StacksPerOutput != cfg.StacksPerOutput {
		s.logger.Warn("stack layout changes take effect after restart")
	}
	s.cfg = cfg
	s.dispatcher.SetBindings(bindings)
	return nil
}

func sameStacks(a, b []config.StackConfig) bool {
	return slices.Equal(a, b)
}

// Config returns the active configuration.
func (s *Server) Config() *config.Config {
	return s.cfg
}

// Bindings returns the active key binding table.
func (s *Server) Bindings() []hotkeys.Binding {
	return s.dispatcher.Bindings()
}

// Done is closed once the quit command has run.
func (s *Server) Done() <-chan struct{} {
	return s.quit
}

// Quit requests shutdown.
func (s *Server) Quit() {
	s.quitOnce.Do(func() {
		s.logger.Info("quit requested")
		close(s.quit)
	})
}

// FocusedPanel returns the panel new outputs and views attach to.
func (s *Server) FocusedPanel() *Panel {
	return s.panels[s.focusedPanel]
}

// View returns a copy of a view.
func (s *Server) View(id ViewID) (View, bool) {
	v, ok := s.views[id]
	if !ok {
		return View{}, false
	}
	return *v, true
}

// ViewBySurface resolves a host surface to its view.
func (s *Server) ViewBySurface(surface SurfaceID) (ViewID, bool) {
	id, ok := s.bySurface[surface]
	return id, ok
}

// Output returns a copy of an output.
func (s *Server) Output(id OutputID) (Output, bool) {
	o, ok := s.outputs[id]
	if !ok {
		return Output{}, false
	}
	out := *o
	out.Stacks = append([]int(nil), o.Stacks...)
	return out, true
}

// OutputIDs returns outputs in attach order.
func (s *Server) OutputIDs() []OutputID {
	return append([]OutputID(nil), s.outputOrder...)
}

// Cursor returns the pointer position in layout coordinates.
func (s *Server) Cursor() (float64, float64) {
	return s.cursorX, s.cursorY
}

// Brightness returns the current brightness in [0,1].
func (s *Server) Brightness() float64 {
	return s.brightness
}

// Passthrough reports whether key bindings are suppressed.
func (s *Server) Passthrough() bool {
	return s.dispatcher.Passthrough()
}

// GrabMode returns the interactive grab phase.
func (s *Server) GrabMode() grab.Mode {
	return s.grab.Mode
}

func (s *Server) panelOf(v *View) *Panel {
	if p, ok := s.panels[v.Panel]; ok {
		return p
	}
	return s.FocusedPanel()
}

func (s *Server) viewForSurface(surface SurfaceID) *View {
	id, ok := s.bySurface[surface]
	if !ok {
		return nil
	}
	return s.views[id]
}

func (s *Server) hostErr(op string, err error) {
	if err != nil {
		s.logger.Warn("host call failed", "op", op, "error", err)
	}
}

// Handle applies one inbound event.
func (s *Server) Handle(ev Event) {
	switch e := ev.(type) {
	case SurfaceCreated:
		s.createView(e)
	case SurfaceMapped:
		if v := s.viewForSurface(e.Surface); v != nil {
			s.mapView(v)
		}
	case SurfaceUnmapped:
		if v := s.viewForSurface(e.Surface); v != nil {
			s.unmapView(v)
		}
	case SurfaceDestroyed:
		if v := s.viewForSurface(e.Surface); v != nil {
			s.destroyView(v)
		}
	case SurfaceConfigured:
		if v := s.viewForSurface(e.Surface); v != nil {
			v.Reported = e.Reported
			v.Geometry = e.Geometry
			v.Hints = e.Hints.Sanitize()
		}
	case SurfaceRetitled:
		if v := s.viewForSurface(e.Surface); v != nil {
			v.Title = e.Title
		}
	case SurfaceCommitted:
		if v := s.viewForSurface(e.Surface); v != nil {
			v.HasContent = true
		}
	case FullscreenRequested:
		if v := s.viewForSurface(e.Surface); v != nil {
			v.Fullscreen = e.Fullscreen
			s.hostErr("set_fullscreen", s.host.SetFullscreen(v.Surface, e.Fullscreen))
		}
	case MoveRequested:
		if v := s.viewForSurface(e.Surface); v != nil {
			s.BeginInteractive(v.ID, grab.ModeMove, grab.EdgeNone)
		}
	case ResizeRequested:
		if v := s.viewForSurface(e.Surface); v != nil {
			s.BeginInteractive(v.ID, grab.ModeResize, e.Edges)
		}
	case LayerCreated:
		s.createLayer(e)
	case LayerMapped:
		if l := s.layer(e.Surface); l != nil {
			l.Mapped = true
		}
	case LayerUnmapped:
		if l := s.layer(e.Surface); l != nil {
			l.Mapped = false
		}
	case LayerDestroyed:
		s.destroyLayer(e.Surface)
	case PointerConstraintChanged:
		if v := s.viewForSurface(e.Surface); v != nil {
			v.Constraint = e.Constraint
		}
	case KeyEvent:
		s.handleKey(e.Key)
	case PointerMoved:
		s.handleMotion(e)
	case PointerButton:
		s.handleButton(e)
	case PointerAxis:
		s.host.ForwardAxis(e.Vertical, e.Delta)
	case OutputAdded:
		s.AddOutput(e)
	case OutputRemoved:
		s.RemoveOutput(e.Output)
	case OutputRefresh:
		s.Refresh(e.Output)
	default:
		s.logger.Debug("ignoring unknown event", "event", EventName(ev))
	}
}

func (s *Server) createView(e SurfaceCreated) {
	if _, exists := s.bySurface[e.Surface]; exists {
		return
	}
	s.nextView++
	p := s.FocusedPanel()
	v := &View{
		ID:         s.nextView,
		Surface:    e.Surface,
		Kind:       e.Kind,
		Title:      e.Title,
		AppID:      e.AppID,
		StackIndex: -1,
		Override:   e.Override && e.Kind == KindForeign,
		Reported:   e.Reported,
		Hints:      e.Hints.Sanitize(),
		X:          e.Reported.X,
		Y:          e.Reported.Y,
		Width:      e.Reported.Width,
		Height:     e.Reported.Height,
		Panel:      p.ID,
		Location:   LocUnmapped,
	}
	s.views[v.ID] = v
	s.bySurface[v.Surface] = v.ID
	p.unmapped.PushBack(v.ID)
	s.logger.Debug("view created", "view", v.ID, "surface", v.Surface, "kind", v.Kind)
}

func (s *Server) mapView(v *View) {
	if v.Location == LocManaged {
		return
	}
	p := s.panelOf(v)
	p.moveTo(v, LocManaged)
	v.HasContent = true
	s.logger.Debug("view mapped", "view", v.ID, "surface", v.Surface)

	if p.managed.Len() <= 1 {
		s.Focus(v.ID, p, false)
		if v.Kind == KindToplevel {
			s.recenter(p)
		}
	}
}

func (s *Server) destroyView(v *View) {
	if v.Location == LocManaged || v.Location == LocRedirect {
		s.unmapView(v)
	}
	p := s.panelOf(v)
	p.list(v.Location).Remove(v.ID)
	if p.focused == v.ID {
		p.focused = 0
	}
	if s.grab.Target == uint64(v.ID) {
		s.grab.Release()
	}
	delete(s.views, v.ID)
	delete(s.bySurface, v.Surface)
	s.logger.Debug("view destroyed", "view", v.ID, "surface", v.Surface)
}
