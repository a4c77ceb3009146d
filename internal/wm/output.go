package wm

import "slices"

// pickMode returns the mode with the highest refresh rate, preferring the
// earliest on ties.
func pickMode(modes []Mode) (Mode, bool) {
	if len(modes) == 0 {
		return Mode{}, false
	}
	best := modes[0]
	for _, m := range modes[1:] {
		if m.Refresh > best.Refresh {
			best = m
		}
	}
	return best, true
}

// AddOutput attaches a new output to the focused panel and claims the
// lowest unclaimed stacks for it.
func (s *Server) AddOutput(e OutputAdded) {
	if _, exists := s.outputs[e.Output]; exists {
		return
	}
	p := s.FocusedPanel()
	o := &Output{
		ID:        e.Output,
		Name:      e.Name,
		X:         e.X,
		Y:         e.Y,
		Transform: "normal",
		Panel:     p.ID,
	}
	if m, ok := pickMode(e.Modes); ok {
		o.Width, o.Height, o.Refresh = m.Width, m.Height, m.Refresh
		s.hostErr("set_mode", s.host.SetMode(o.ID, m))
	}

	want := s.cfg.StacksPerOutput
	for i := range p.stacks {
		if len(o.Stacks) == want {
			break
		}
		if p.stacks[i].Mapped {
			continue
		}
		p.stacks[i].Mapped = true
		o.Stacks = append(o.Stacks, i)
	}
	if len(o.Stacks) < want {
		s.logger.Warn("not enough stacks for output",
			"output", o.Name, "claimed", len(o.Stacks), "wanted", want)
	}

	s.outputs[o.ID] = o
	s.outputOrder = append(s.outputOrder, o.ID)
	p.outputs = append(p.outputs, o.ID)
	if p.main == 0 {
		p.main = o.ID
	}

	for _, l := range s.layers {
		if l.Output == 0 {
			s.placeLayer(l)
		}
	}

	s.logger.Info("output added",
		"output", o.Name, "width", o.Width, "height", o.Height,
		"refresh_mhz", o.Refresh, "stacks", o.Stacks)
}

// RemoveOutput detaches an output and releases its stacks. Views on those
// stacks are reseeded by the next layout pass.
func (s *Server) RemoveOutput(id OutputID) {
	o, ok := s.outputs[id]
	if !ok {
		return
	}
	p := s.panels[o.Panel]
	if p != nil {
		for _, idx := range o.Stacks {
			p.stacks[idx].Mapped = false
			p.stacks[idx].ItemCount = 0
		}
		p.outputs = slices.DeleteFunc(p.outputs, func(x OutputID) bool { return x == id })
		if p.main == id {
			p.main = 0
			if len(p.outputs) > 0 {
				p.main = p.outputs[0]
			}
		}
		for _, vid := range p.managed.ids {
			if v := s.views[vid]; v != nil && o.ContainsStack(v.StackIndex) {
				v.StackIndex = -1
			}
		}
	}

	delete(s.outputs, id)
	s.outputOrder = slices.DeleteFunc(s.outputOrder, func(x OutputID) bool { return x == id })

	for _, l := range s.layers {
		if l.Output == id {
			l.Output = 0
			s.placeLayer(l)
		}
	}

	s.logger.Info("output removed", "output", o.Name)
	if p != nil {
		s.recenter(p)
	}
}
