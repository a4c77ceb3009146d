package wm

import (
	"slices"

	"github.com/1broseidon/gateway/internal/tiling"
)

// DrawKind distinguishes draw list entries.
type DrawKind int

const (
	DrawLayer DrawKind = iota
	DrawView
	DrawDim
)

func (k DrawKind) String() string {
	switch k {
	case DrawLayer:
		return "layer"
	case DrawView:
		return "view"
	case DrawDim:
		return "dim"
	default:
		return "unknown"
	}
}

// DrawEntry is one item of a frame. Rect is output-local.
type DrawEntry struct {
	Kind      DrawKind
	Surface   SurfaceID
	View      ViewID
	Layer     Layer
	Rect      tiling.Rect
	Transform string
	Focused   bool
	// Alpha is only meaningful for DrawDim entries.
	Alpha float64
}

// DrawList returns the bottom-to-top render order for an output.
func (s *Server) DrawList(id OutputID) []DrawEntry {
	o, ok := s.outputs[id]
	if !ok {
		return nil
	}
	p := s.panels[o.Panel]
	if p == nil {
		return nil
	}

	var out []DrawEntry
	addLayers := func(layers ...Layer) {
		for _, want := range layers {
			for _, l := range s.layers {
				if !l.Mapped || l.Layer != want || l.Output != o.ID {
					continue
				}
				out = append(out, DrawEntry{
					Kind:      DrawLayer,
					Surface:   l.Surface,
					Layer:     l.Layer,
					Rect:      l.rect(o),
					Transform: o.Transform,
				})
			}
		}
	}
	addView := func(v *View) {
		if !v.HasContent {
			return
		}
		out = append(out, DrawEntry{
			Kind:      DrawView,
			Surface:   v.Surface,
			View:      v.ID,
			Rect:      v.Rect().Translate(-o.X, -o.Y),
			Transform: o.Transform,
			Focused:   v.FocusedBy == p.ID,
		})
	}
	onOutput := func(v *View) bool {
		return v.StackIndex >= 0 && o.ContainsStack(v.StackIndex)
	}

	addLayers(LayerBackground, LayerBottom)

	managed := p.managed.IDs()
	slices.Reverse(managed)
	for _, id := range managed {
		v := s.views[id]
		if v.FocusedBy != p.ID && !v.Fullscreen && onOutput(v) {
			addView(v)
		}
	}
	for _, id := range managed {
		v := s.views[id]
		if v.FocusedBy != p.ID && v.Fullscreen && onOutput(v) {
			addView(v)
		}
	}
	if v := s.views[p.focused]; v != nil && v.Location == LocManaged && onOutput(v) {
		addView(v)
	}
	redirect := p.redirect.IDs()
	slices.Reverse(redirect)
	for _, id := range redirect {
		addView(s.views[id])
	}

	addLayers(LayerTop, LayerOverlay)

	if s.brightness < 1 {
		out = append(out, DrawEntry{
			Kind:      DrawDim,
			Rect:      tiling.Rect{Width: o.Width, Height: o.Height},
			Transform: o.Transform,
			Alpha:     1 - s.brightness,
		})
	}
	return out
}
