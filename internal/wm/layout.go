package wm

import (
	"github.com/1broseidon/gateway/internal/grab"
	"github.com/1broseidon/gateway/internal/tiling"
)

// Arrange runs one layout pass of panel p for output o. Every managed view
// is reseeded onto the highest mapped stack and rebalanced from scratch;
// only views whose stack o claims receive new geometry.
func (s *Server) Arrange(p *Panel, o *Output) {
	if p == nil || o == nil {
		return
	}

	// Unmanaged surfaces keep the geometry they asked for.
	for _, id := range p.managed.IDs() {
		v := s.views[id]
		if v == nil || !v.Override {
			continue
		}
		p.moveTo(v, LocRedirect)
		v.X, v.Y = v.Reported.X, v.Reported.Y
		v.Width, v.Height = v.Reported.Width, v.Reported.Height
		v.StackIndex = -1
	}

	for i := range p.stacks {
		if p.stacks[i].Mapped {
			p.stacks[i].ItemCount = 0
		}
	}
	cols := tiling.Columns(o.Rect(), len(o.Stacks))
	for n, idx := range o.Stacks {
		st := &p.stacks[idx]
		st.CurrentX = cols[n].X
		st.CurrentY = cols[n].Y
		st.Width = cols[n].Width
		st.Height = cols[n].Height
	}

	seed := p.highestMappedStack()
	for _, id := range p.managed.ids {
		v := s.views[id]
		v.StackIndex = seed
		if seed >= 0 {
			p.stacks[seed].ItemCount++
		}
	}

	s.rebalance(p)

	gap := s.cfg.WindowGaps
	placed := make(map[int]int, len(o.Stacks))
	for _, id := range p.managed.ids {
		v := s.views[id]
		if v.StackIndex < 0 || !o.ContainsStack(v.StackIndex) {
			continue
		}
		st := &p.stacks[v.StackIndex]
		column := tiling.Rect{X: st.CurrentX, Y: o.Y, Width: st.Width, Height: st.Height}
		r := tiling.Slot(column, placed[v.StackIndex], st.ItemCount, gap)
		placed[v.StackIndex]++
		st.CurrentY += st.Height / st.ItemCount

		if v.Fullscreen {
			r = o.Rect()
		}
		r.Width, r.Height = v.Hints.Clamp(r.Width, r.Height)

		if s.grab.Mode != grab.ModePassthrough && s.grab.Target == uint64(v.ID) {
			continue
		}
		v.X, v.Y, v.Width, v.Height = r.X, r.Y, r.Width, r.Height
		s.hostErr("configure", s.host.Configure(v.Surface, r))
	}
}

// rebalance pulls views toward lower stacks. A view moves to the first
// lower mapped stack that has room and either is empty or holds at least
// two fewer views than the view's current stack.
func (s *Server) rebalance(p *Panel) {
	for _, id := range p.managed.ids {
		v := s.views[id]
		for v.StackIndex > 0 {
			cur := v.StackIndex
			target := -1
			for i := 0; i < cur; i++ {
				st := p.stacks[i]
				if !st.Mapped || st.ItemCount >= st.MaxItems {
					continue
				}
				if st.ItemCount+2 <= p.stacks[cur].ItemCount || st.ItemCount < 1 {
					target = i
					break
				}
			}
			if target < 0 {
				break
			}
			p.stacks[cur].ItemCount--
			p.stacks[target].ItemCount++
			v.StackIndex = target
		}
	}
}

// FinishFrame returns redirect views to the managed list after a frame has
// been presented.
func (s *Server) FinishFrame(p *Panel) {
	for _, id := range p.redirect.IDs() {
		if v := s.views[id]; v != nil {
			p.moveTo(v, LocManaged)
		}
	}
}

// Refresh lays out, draws and presents one output.
func (s *Server) Refresh(id OutputID) {
	o, ok := s.outputs[id]
	if !ok {
		return
	}
	p := s.panels[o.Panel]
	if p == nil {
		return
	}
	s.Arrange(p, o)
	s.hostErr("present", s.host.Present(o.ID, s.DrawList(o.ID)))
	s.FinishFrame(p)
}
