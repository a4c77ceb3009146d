package platform

import (
	"sort"
	"testing"

	"github.com/1broseidon/gateway/internal/grab"
	"github.com/1broseidon/gateway/internal/wm"
	"github.com/1broseidon/gateway/internal/x11"
)

func TestMoveResizeRequest(t *testing.T) {
	tests := []struct {
		dir   uint32
		mode  grab.Mode
		edges grab.Edges
		ok    bool
	}{
		{dir: 0, mode: grab.ModeResize, edges: grab.EdgeTop | grab.EdgeLeft, ok: true},
		{dir: 3, mode: grab.ModeResize, edges: grab.EdgeRight, ok: true},
		{dir: 4, mode: grab.ModeResize, edges: grab.EdgeBottom | grab.EdgeRight, ok: true},
		{dir: 7, mode: grab.ModeResize, edges: grab.EdgeLeft, ok: true},
		{dir: 8, mode: grab.ModeMove, edges: grab.EdgeNone, ok: true},
		{dir: 11, mode: grab.ModePassthrough, edges: grab.EdgeNone, ok: false},
	}

	for _, tt := range tests {
		mode, edges, ok := moveResizeRequest(tt.dir)
		if mode != tt.mode || edges != tt.edges || ok != tt.ok {
			t.Fatalf("direction %d: expected (%s, %s, %v), got (%s, %s, %v)",
				tt.dir, tt.mode, tt.edges, tt.ok, mode, edges, ok)
		}
	}
}

func TestApplyStateAction(t *testing.T) {
	tests := []struct {
		action  uint32
		current bool
		want    bool
	}{
		{0, true, false},
		{1, false, true},
		{2, false, true},
		{2, true, false},
		{9, true, true},
	}
	for _, tt := range tests {
		if got := applyStateAction(tt.action, tt.current); got != tt.want {
			t.Fatalf("action %d on %v: expected %v, got %v", tt.action, tt.current, tt.want, got)
		}
	}
}

func TestPlacementFor(t *testing.T) {
	if _, ok := placementFor(x11.TypeNormal, x11.Geometry{}, 1080); ok {
		t.Fatalf("expected normal windows to stay views")
	}

	p, _ := placementFor(x11.TypeDesktop, x11.Geometry{}, 1080)
	if p.Layer != wm.LayerBackground || p.Anchor != wm.AnchorTop|wm.AnchorBottom|wm.AnchorLeft|wm.AnchorRight {
		t.Fatalf("unexpected desktop placement %+v", p)
	}

	p, _ = placementFor(x11.TypeDock, x11.Geometry{Y: 0, Height: 30}, 1080)
	if p.Layer != wm.LayerTop || p.Anchor != wm.AnchorTop|wm.AnchorLeft|wm.AnchorRight {
		t.Fatalf("unexpected top dock placement %+v", p)
	}

	p, _ = placementFor(x11.TypeDock, x11.Geometry{Y: 1050, Height: 30}, 1080)
	if p.Anchor != wm.AnchorBottom|wm.AnchorLeft|wm.AnchorRight {
		t.Fatalf("unexpected bottom dock placement %+v", p)
	}

	p, _ = placementFor(x11.TypeNotification, x11.Geometry{}, 1080)
	if p.Layer != wm.LayerOverlay {
		t.Fatalf("expected overlay for notifications, got %s", p.Layer)
	}
}

func TestModesFromMonitor(t *testing.T) {
	m := x11.Monitor{Width: 1920, Height: 1080, Refresh: 60000}
	modes := modesFromMonitor(m)
	if len(modes) != 1 || modes[0] != (wm.Mode{Width: 1920, Height: 1080, Refresh: 60000}) {
		t.Fatalf("expected current geometry as only mode, got %+v", modes)
	}

	m.Modes = []x11.Mode{{Width: 2560, Height: 1440, Refresh: 144000}, {Width: 1920, Height: 1080, Refresh: 60000}}
	modes = modesFromMonitor(m)
	if len(modes) != 2 || modes[0].Refresh != 144000 {
		t.Fatalf("expected modes in order, got %+v", modes)
	}
}

func TestDiffOutputs(t *testing.T) {
	known := map[wm.OutputID]x11.Monitor{
		1: {Output: 1, Name: "DP-1"},
		2: {Output: 2, Name: "DP-2"},
	}
	current := []x11.Monitor{{Output: 2, Name: "DP-2"}, {Output: 3, Name: "HDMI-1"}}

	added, removed := diffOutputs(known, current)
	if len(added) != 1 || added[0].Name != "HDMI-1" {
		t.Fatalf("expected HDMI-1 added, got %+v", added)
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	if len(removed) != 1 || removed[0] != 1 {
		t.Fatalf("expected output 1 removed, got %v", removed)
	}
}
