package wm

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/gateway/internal/config"
	"github.com/1broseidon/gateway/internal/tiling"
)

func TestNewServerRequiresConfigAndHost(t *testing.T) {
	if _, err := NewServer(nil, newFakeHost(), nil); err == nil {
		t.Fatalf("expected error without config")
	}
	if _, err := NewServer(config.DefaultConfig(), nil, nil); err == nil {
		t.Fatalf("expected error without host")
	}
	cfg := config.DefaultConfig()
	cfg.Bindings = []config.BindingConfig{{Command: "nope", Keycode: 1}}
	if _, err := NewServer(cfg, newFakeHost(), slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatalf("expected error for invalid bindings")
	}
}

func TestSurfaceUpdates(t *testing.T) {
	s, _ := newTestServer(t, nil)
	s.Handle(SurfaceCreated{Surface: 1, Kind: KindToplevel, Title: "a"})
	id, _ := s.ViewBySurface(1)

	s.Handle(SurfaceRetitled{Surface: 1, Title: "b"})
	s.Handle(SurfaceConfigured{
		Surface:  1,
		Reported: tiling.Rect{Width: 10, Height: 10},
		Geometry: tiling.Rect{X: 2, Y: 2, Width: 6, Height: 6},
		Hints:    tiling.SizeHints{MinWidth: -5, MinHeight: 200, MaxHeight: 100},
	})
	s.Handle(SurfaceCommitted{Surface: 1})

	v := mustView(t, s, id)
	if v.Title != "b" || !v.HasContent {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.Hints != (tiling.SizeHints{MinHeight: 200}) {
		t.Fatalf("expected sanitized hints, got %+v", v.Hints)
	}
	if v.geometryBox() != v.Geometry {
		t.Fatalf("expected geometry box from client geometry")
	}

	// Duplicate creation keeps the first view.
	s.Handle(SurfaceCreated{Surface: 1, Kind: KindForeign})
	if got, _ := s.ViewBySurface(1); got != id {
		t.Fatalf("expected duplicate create to be ignored")
	}
	// Events for unknown surfaces are dropped.
	s.Handle(SurfaceMapped{Surface: 77})
	s.Handle(PointerAxis{Vertical: true, Delta: 1})
}

func TestSnapshotOrder(t *testing.T) {
	s, _ := newTestServer(t, nil)
	addOutput(s, 1, 0)
	first := mapToplevel(t, s, 1)
	s.Handle(SurfaceCreated{Surface: 2, Kind: KindToplevel})
	hidden, _ := s.ViewBySurface(2)
	second := mapToplevel(t, s, 3)

	snap := s.Snapshot()
	if len(snap.Views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(snap.Views))
	}
	order := []ViewID{snap.Views[0].ID, snap.Views[1].ID, snap.Views[2].ID}
	if !equalIDs(order, []ViewID{first, second, hidden}) {
		t.Fatalf("expected managed then unmapped, got %v", order)
	}
	if snap.Focused != first || snap.Main != 1 || snap.Grab != "passthrough" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Outputs) != 1 || len(snap.Stacks) != 4 {
		t.Fatalf("expected 1 output and 4 stacks, got %d/%d", len(snap.Outputs), len(snap.Stacks))
	}
}

func TestUpdateConfig(t *testing.T) {
	s, _ := newTestServer(t, nil)
	cfg := config.DefaultConfig()
	cfg.Terminal = "kitty"
	cfg.Bindings = []config.BindingConfig{{Command: "spawn-terminal", Keycode: 28}}
	if err := s.UpdateConfig(cfg); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	if s.Config().Terminal != "kitty" || len(s.Bindings()) != 2 {
		t.Fatalf("expected new config applied, got %q with %d bindings", s.Config().Terminal, len(s.Bindings()))
	}

	bad := config.DefaultConfig()
	bad.Bindings = []config.BindingConfig{{Command: "nope", Keycode: 1}}
	if err := s.UpdateConfig(bad); err == nil {
		t.Fatalf("expected error for invalid bindings")
	}
	if s.Config().Terminal != "kitty" {
		t.Fatalf("expected failed update to keep previous config")
	}
}

func TestEventName(t *testing.T) {
	if got := EventName(OutputRefresh{Output: 1}); got != "output_refresh" {
		t.Fatalf("expected output_refresh, got %q", got)
	}
	if got := EventName(nil); got != "nil" {
		t.Fatalf("expected nil, got %q", got)
	}
}

func TestUpdateConfigWarnsOnceAboutStackChanges(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s, err := NewServer(config.DefaultConfig(), newFakeHost(), logger)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	if err := s.UpdateConfig(config.DefaultConfig()); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	if strings.Contains(buf.String(), "restart") {
		t.Fatalf("expected no warning for an unchanged stack table, got %q", buf.String())
	}

	cfg := config.DefaultConfig()
	cfg.StacksPerOutput = 4
	if err := s.UpdateConfig(cfg); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	if got := strings.Count(buf.String(), "take effect after restart"); got != 1 {
		t.Fatalf("expected one restart warning, got %d: %q", got, buf.String())
	}
}
