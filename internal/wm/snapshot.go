package wm

// Snapshot is a read-only copy of the server state for status surfaces.
type Snapshot struct {
	Views       []View
	Outputs     []Output
	Stacks      []Stack
	Layers      []LayerSurface
	Focused     ViewID
	Main        OutputID
	Passthrough bool
	Brightness  float64
	Grab        string
	CursorX     float64
	CursorY     float64
}

// Snapshot copies the focused panel's state. Views are listed managed
// first in list order, then redirect, then unmapped.
func (s *Server) Snapshot() Snapshot {
	p := s.FocusedPanel()
	snap := Snapshot{
		Stacks:      p.Stacks(),
		Layers:      s.Layers(),
		Focused:     p.focused,
		Main:        p.main,
		Passthrough: s.dispatcher.Passthrough(),
		Brightness:  s.brightness,
		Grab:        s.grab.Mode.String(),
		CursorX:     s.cursorX,
		CursorY:     s.cursorY,
	}
	for _, list := range []*viewList{&p.managed, &p.redirect, &p.unmapped} {
		for _, id := range list.ids {
			snap.Views = append(snap.Views, *s.views[id])
		}
	}
	for _, id := range s.outputOrder {
		o, _ := s.Output(id)
		snap.Outputs = append(snap.Outputs, o)
	}
	return snap
}
