package wm

import "fmt"

// Focus gives view keyboard focus within panel. Unless the change is
// pointer-driven the pointer is first warped to the view's centre.
func (s *Server) Focus(id ViewID, p *Panel, pointerDriven bool) {
	v, ok := s.views[id]
	if !ok || p == nil {
		return
	}

	if !pointerDriven {
		cx, cy := v.Rect().Center()
		s.warp(cx, cy)
	}

	prev := s.host.KeyboardFocus()
	if prev == v.Surface {
		return
	}
	if prev != 0 {
		s.hostErr("activate", s.host.Activate(prev, false))
	}
	for _, other := range p.managed.ids {
		if ov := s.views[other]; ov != nil && ov.Kind == KindForeign {
			s.hostErr("activate", s.host.Activate(ov.Surface, false))
		}
	}

	if old, ok := s.views[p.focused]; ok {
		old.FocusedBy = 0
	}
	p.focused = v.ID
	v.FocusedBy = p.ID

	s.hostErr("activate", s.host.Activate(v.Surface, true))
	s.hostErr("keyboard_enter", s.host.KeyboardEnter(v.Surface))
	s.logger.Debug("focus changed", "view", v.ID, "pointer", pointerDriven)
}

// FocusView focuses a managed view by id and warps the pointer to it.
func (s *Server) FocusView(id ViewID) error {
	v, ok := s.views[id]
	if !ok {
		return fmt.Errorf("view %d not found", id)
	}
	if v.Location == LocUnmapped {
		return fmt.Errorf("view %d is not mapped", id)
	}
	s.Focus(id, s.panelOf(v), false)
	return nil
}

func (s *Server) warp(x, y int) {
	s.cursorX, s.cursorY = float64(x), float64(y)
	s.hostErr("warp_pointer", s.host.WarpPointer(x, y))
}

// unmapView moves v to the unmapped list, handing focus to a neighbour
// when v held it.
func (s *Server) unmapView(v *View) {
	if v.Location == LocUnmapped {
		return
	}
	p := s.panelOf(v)
	list := p.list(v.Location)

	if s.grab.Target == uint64(v.ID) {
		s.grab.Release()
	}

	if p.focused == v.ID {
		if next, ok := list.Next(v.ID); ok {
			s.Focus(next, p, false)
			v.FocusedBy = 0
			p.moveTo(v, LocUnmapped)
			s.recenter(p)
		} else if list.Len() > 1 {
			prev, _ := list.Prev(v.ID)
			s.Focus(prev, p, false)
			v.FocusedBy = 0
			p.moveTo(v, LocUnmapped)
			s.recenter(p)
		} else {
			p.focused = 0
			v.FocusedBy = 0
			p.moveTo(v, LocUnmapped)
		}
	} else {
		p.moveTo(v, LocUnmapped)
	}

	v.HasContent = false
	v.StackIndex = -1
	s.logger.Debug("view unmapped", "view", v.ID, "surface", v.Surface)
}

// recenter runs a layout pass over every output of p, then re-focuses the
// focused view so the pointer lands on its new centre.
func (s *Server) recenter(p *Panel) {
	for _, oid := range p.outputs {
		if o, ok := s.outputs[oid]; ok {
			s.Arrange(p, o)
		}
	}
	s.Focus(p.focused, p, false)
	s.host.SetCursor("")
}
