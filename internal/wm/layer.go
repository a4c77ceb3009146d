package wm

import "slices"

func (s *Server) layer(surface SurfaceID) *LayerSurface {
	for _, l := range s.layers {
		if l.Surface == surface {
			return l
		}
	}
	return nil
}

func (s *Server) createLayer(e LayerCreated) {
	if s.layer(e.Surface) != nil {
		return
	}
	l := &LayerSurface{
		Surface:             e.Surface,
		Layer:               e.Layer,
		Output:              e.Output,
		Anchor:              e.Anchor,
		Width:               e.Width,
		Height:              e.Height,
		KeyboardInteractive: e.KeyboardInteractive,
	}
	if _, ok := s.outputs[l.Output]; !ok {
		l.Output = 0
	}
	s.layers = append(s.layers, l)
	s.placeLayer(l)
}

// placeLayer binds l to the main output when it has none and sends the
// anchored size. Opposite anchors stretch the surface across the output.
func (s *Server) placeLayer(l *LayerSurface) {
	if l.Output == 0 {
		l.Output = s.FocusedPanel().main
	}
	o, ok := s.outputs[l.Output]
	if !ok {
		return
	}
	if l.Anchor&(AnchorTop|AnchorBottom) == AnchorTop|AnchorBottom {
		l.Height = o.Height
	}
	if l.Anchor&(AnchorLeft|AnchorRight) == AnchorLeft|AnchorRight {
		l.Width = o.Width
	}
	s.hostErr("configure_layer", s.host.ConfigureLayer(l.Surface, l.Width, l.Height))
}

func (s *Server) destroyLayer(surface SurfaceID) {
	s.layers = slices.DeleteFunc(s.layers, func(l *LayerSurface) bool { return l.Surface == surface })
}

// Layers returns copies of every layer surface in creation order.
func (s *Server) Layers() []LayerSurface {
	out := make([]LayerSurface, 0, len(s.layers))
	for _, l := range s.layers {
		out = append(out, *l)
	}
	return out
}

func (s *Server) keyboardLayer() *LayerSurface {
	for _, l := range s.layers {
		if l.Mapped && l.KeyboardInteractive {
			return l
		}
	}
	return nil
}
