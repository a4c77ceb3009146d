package wm

import (
	"github.com/1broseidon/gateway/internal/grab"
	"github.com/1broseidon/gateway/internal/tiling"
)

// BeginInteractive starts a client-requested move or resize. Requests from
// surfaces that do not hold pointer focus are ignored.
func (s *Server) BeginInteractive(id ViewID, mode grab.Mode, edges grab.Edges) bool {
	v, ok := s.views[id]
	if !ok {
		return false
	}
	if s.host.PointerFocus() != v.Surface {
		s.logger.Debug("denying interactive grab without pointer focus", "view", id, "mode", mode.String())
		return false
	}

	cursor := grab.Point{X: s.cursorX, Y: s.cursorY}
	switch mode {
	case grab.ModeMove:
		s.grab.BeginMove(uint64(id), cursor, v.X, v.Y)
	case grab.ModeResize:
		s.grab.BeginResize(uint64(id), cursor, v.X, v.Y, v.geometryBox(), edges)
	default:
		return false
	}
	s.logger.Debug("interactive grab", "view", id, "mode", mode.String(), "edges", edges.String())
	return true
}

func (s *Server) handleMotion(e PointerMoved) {
	if e.Absolute {
		s.cursorX, s.cursorY = e.X, e.Y
	} else {
		sens := s.cfg.MouseSensitivity
		s.cursorX += e.DX * sens
		s.cursorY += e.DY * sens
	}

	if v := s.views[s.FocusedPanel().focused]; v != nil && v.Constraint != ConstraintNone {
		x, y := s.cursorX, s.cursorY
		r := v.Rect()
		switch v.Constraint {
		case ConstraintLocked:
			cx, cy := r.Center()
			x, y = float64(cx), float64(cy)
		case ConstraintConfined:
			x = min(max(x, float64(r.X)), float64(r.X+r.Width-1))
			y = min(max(y, float64(r.Y)), float64(r.Y+r.Height-1))
		}
		if x != s.cursorX || y != s.cursorY {
			s.warp(int(x), int(y))
		}
	}

	s.processMotion()
}

func (s *Server) processMotion() {
	cursor := grab.Point{X: s.cursorX, Y: s.cursorY}

	switch s.grab.Mode {
	case grab.ModeMove:
		if v := s.views[ViewID(s.grab.Target)]; v != nil {
			v.X, v.Y = s.grab.Move(cursor)
			s.hostErr("configure", s.host.Configure(v.Surface, v.Rect()))
		}
		return
	case grab.ModeResize:
		if v := s.views[ViewID(s.grab.Target)]; v != nil {
			box := s.grab.Resize(cursor)
			geo := v.geometryBox()
			v.X = box.X - geo.X
			v.Y = box.Y - geo.Y
			v.Width, v.Height = box.Width, box.Height
			s.hostErr("configure", s.host.Configure(v.Surface, v.Rect()))
		}
		return
	}

	p := s.FocusedPanel()
	id, sx, sy, ok := s.ViewAt(s.cursorX, s.cursorY)
	if !ok {
		s.host.SetCursor("left_ptr")
		s.host.PointerClear()
		return
	}
	v := s.views[id]
	if s.cfg.FocusFollowsMouse && !v.Override {
		s.Focus(id, p, true)
	}
	s.host.PointerEnter(v.Surface, sx, sy)
}

func (s *Server) handleButton(e PointerButton) {
	if !e.Pressed && s.grab.Active() {
		s.logger.Debug("interactive grab released", "view", s.grab.Target)
		s.grab.Release()
	}
	s.host.ForwardButton(e.Button, e.Pressed)
}

// ViewAt returns the managed view under a layout point and the point in
// surface-local coordinates. The focused view wins, then unfocused
// fullscreen views, then tiled views. Unfocused fullscreen views are only
// hit inside their gap inset.
func (s *Server) ViewAt(x, y float64) (ViewID, float64, float64, bool) {
	p := s.FocusedPanel()
	gap := s.cfg.WindowGaps

	hit := func(v *View, r tiling.Rect) (ViewID, float64, float64, bool) {
		if r.Contains(x, y) {
			return v.ID, x - float64(v.X), y - float64(v.Y), true
		}
		return 0, 0, 0, false
	}

	if v := s.views[p.focused]; v != nil && v.Location == LocManaged {
		if id, sx, sy, ok := hit(v, v.Rect()); ok {
			return id, sx, sy, ok
		}
	}
	for _, id := range p.managed.ids {
		v := s.views[id]
		if v.ID == p.focused || !v.Fullscreen {
			continue
		}
		if id, sx, sy, ok := hit(v, v.Rect().Inset(gap)); ok {
			return id, sx, sy, ok
		}
	}
	for _, id := range p.managed.ids {
		v := s.views[id]
		if v.ID == p.focused || v.Fullscreen {
			continue
		}
		if id, sx, sy, ok := hit(v, v.Rect()); ok {
			return id, sx, sy, ok
		}
	}
	return 0, 0, 0, false
}
