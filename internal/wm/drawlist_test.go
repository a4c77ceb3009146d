package wm

import (
	"testing"

	"github.com/1broseidon/gateway/internal/hotkeys"
	"github.com/1broseidon/gateway/internal/tiling"
)

func TestDrawListOrder(t *testing.T) {
	s, _, ids := threeViews(t)
	s.Handle(FullscreenRequested{Surface: 2, Fullscreen: true})
	s.Handle(SurfaceCreated{Surface: 9, Kind: KindForeign, Override: true, Reported: tiling.Rect{X: 10, Y: 10, Width: 5, Height: 5}})
	s.Handle(SurfaceMapped{Surface: 9})
	popup, _ := s.ViewBySurface(9)

	s.Handle(LayerCreated{Surface: 50, Layer: LayerTop, Output: 1, Height: 30, Anchor: AnchorTop})
	s.Handle(LayerCreated{Surface: 51, Layer: LayerBackground, Output: 1})
	s.Handle(LayerCreated{Surface: 52, Layer: LayerOverlay, Output: 1})
	s.Handle(LayerMapped{Surface: 50})
	s.Handle(LayerMapped{Surface: 51})
	// 52 stays unmapped.

	s.Handle(KeyEvent{Key: hotkeys.Key{Code: 224, Syms: []hotkeys.Keysym{hotkeys.KeysymBrightnessDown}, Pressed: true}})

	p := s.FocusedPanel()
	s.Arrange(p, s.outputs[1])
	entries := s.DrawList(1)

	type want struct {
		kind    DrawKind
		surface SurfaceID
	}
	expected := []want{
		{DrawLayer, 51},
		{DrawView, 3},
		{DrawView, 2},
		{DrawView, 1},
		{DrawView, 9},
		{DrawLayer, 50},
		{DrawDim, 0},
	}
	if len(entries) != len(expected) {
		t.Fatalf("expected %d entries, got %d: %+v", len(expected), len(entries), entries)
	}
	for i, w := range expected {
		if entries[i].Kind != w.kind || entries[i].Surface != w.surface {
			t.Fatalf("entry %d: expected %s/%d, got %s/%d", i, w.kind, w.surface, entries[i].Kind, entries[i].Surface)
		}
	}
	if !entries[3].Focused || entries[1].Focused {
		t.Fatalf("expected only the focused view marked focused")
	}
	if entries[3].View != ids[0] || entries[4].View != popup {
		t.Fatalf("unexpected view ids in draw list")
	}
	if a := entries[6].Alpha; a < 0.049 || a > 0.051 {
		t.Fatalf("expected dim alpha 0.05, got %v", a)
	}
}

func TestDrawListTranslatesToOutputSpace(t *testing.T) {
	s, _ := newTestServer(t, nil)
	addOutput(s, 1, 0)
	addOutput(s, 2, 1920)
	for surface := SurfaceID(1); surface <= 3; surface++ {
		mapToplevel(t, s, surface)
	}
	s.Refresh(2)

	entries := s.DrawList(2)
	if len(entries) != 1 {
		t.Fatalf("expected one view on output 2, got %+v", entries)
	}
	if got := entries[0].Rect; got != (tiling.Rect{X: 8, Y: 8, Width: 944, Height: 1064}) {
		t.Fatalf("expected output-local rect, got %+v", got)
	}
}

func TestDrawListSkipsViewsWithoutContent(t *testing.T) {
	s, _, _ := threeViews(t)
	s.views[2].HasContent = false
	for _, e := range s.DrawList(1) {
		if e.View == 2 {
			t.Fatalf("expected view without content to be skipped")
		}
	}
	if s.DrawList(99) != nil {
		t.Fatalf("expected nil for unknown output")
	}
}

func TestDrawListStacksFullscreenAndPopupsBackToFront(t *testing.T) {
	s, _, ids := threeViews(t)
	s.Handle(FullscreenRequested{Surface: 2, Fullscreen: true})
	s.Handle(FullscreenRequested{Surface: 3, Fullscreen: true})
	for _, surface := range []SurfaceID{9, 10} {
		s.Handle(SurfaceCreated{Surface: surface, Kind: KindForeign, Override: true, Reported: tiling.Rect{X: 10, Y: 10, Width: 5, Height: 5}})
		s.Handle(SurfaceMapped{Surface: surface})
	}
	if got := s.FocusedPanel().Focused(); got != ids[0] {
		t.Fatalf("expected first view to keep focus, got %d", got)
	}

	s.Arrange(s.FocusedPanel(), s.outputs[1])
	entries := s.DrawList(1)

	want := []SurfaceID{3, 2, 1, 10, 9}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), entries)
	}
	for i, surface := range want {
		if entries[i].Surface != surface {
			t.Fatalf("entry %d: expected surface %d, got %d", i, surface, entries[i].Surface)
		}
	}
}
