package platform

import (
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/gateway/internal/config"
	"github.com/1broseidon/gateway/internal/hotkeys"
	"github.com/1broseidon/gateway/internal/wm"
)

func newHeadlessServer(t *testing.T) (*wm.Server, *Headless) {
	t.Helper()
	host := NewHeadless()
	srv, err := wm.NewServer(config.DefaultConfig(), host, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv, host
}

func pump(srv *wm.Server, host *Headless) {
	for {
		events := host.Drain()
		if len(events) == 0 {
			return
		}
		for _, ev := range events {
			srv.Handle(ev)
		}
	}
}

func countViews(entries []wm.DrawEntry) int {
	n := 0
	for _, e := range entries {
		if e.Kind == wm.DrawView {
			n++
		}
	}
	return n
}

func TestHeadlessWindowsAreTiledAndPresented(t *testing.T) {
	srv, host := newHeadlessServer(t)

	host.AddOutput(1, "HEADLESS-1", 0, 1920, 1080, 60000)
	a := host.AddWindow("foot", "foot")
	b := host.AddWindow("firefox", "firefox")
	pump(srv, host)
	srv.Handle(wm.OutputRefresh{Output: 1})

	if got := countViews(host.Frame(1)); got != 2 {
		t.Fatalf("expected 2 views presented, got %d", got)
	}
	ra, ok := host.Configured(a)
	if !ok {
		t.Fatalf("expected surface %d configured", a)
	}
	rb, _ := host.Configured(b)
	if ra.X == rb.X {
		t.Fatalf("expected views in different columns, got %+v and %+v", ra, rb)
	}
	if host.KeyboardFocus() != a {
		t.Fatalf("expected first window to hold keyboard focus, got %d", host.KeyboardFocus())
	}
	if host.Title(b) != "firefox" {
		t.Fatalf("expected title firefox, got %q", host.Title(b))
	}
}

func TestHeadlessSpawnAndClose(t *testing.T) {
	srv, host := newHeadlessServer(t)
	host.AddOutput(1, "HEADLESS-1", 0, 1920, 1080, 60000)
	pump(srv, host)

	if !srv.Execute(hotkeys.CmdSpawnTerminal) {
		t.Fatalf("expected spawn to be handled")
	}
	pump(srv, host)

	if got := host.Spawned(); len(got) != 1 || got[0] != "foot" {
		t.Fatalf("expected [foot] spawned, got %v", got)
	}
	snap := srv.Snapshot()
	if len(snap.Views) != 1 || snap.Views[0].Location != wm.LocManaged {
		t.Fatalf("expected one managed view, got %+v", snap.Views)
	}

	if !srv.Execute(hotkeys.CmdCloseAndAdvance) {
		t.Fatalf("expected close to be handled")
	}
	pump(srv, host)

	if got := len(srv.Snapshot().Views); got != 0 {
		t.Fatalf("expected no views after close, got %d", got)
	}
	live, _ := host.LiveSurfaces()
	if len(live) != 0 {
		t.Fatalf("expected no live surfaces, got %v", live)
	}
}

func TestHeadlessVanishKeepsRegistryUntilReconciled(t *testing.T) {
	srv, host := newHeadlessServer(t)
	s := host.AddWindow("foot", "foot")
	pump(srv, host)

	host.Vanish(s)
	live, _ := host.LiveSurfaces()
	if len(live) != 0 {
		t.Fatalf("expected surface gone from host, got %v", live)
	}
	if _, ok := srv.ViewBySurface(s); !ok {
		t.Fatalf("expected registry to still hold the view")
	}
}

func TestHeadlessRemappedSoleViewRegainsFocus(t *testing.T) {
	srv, host := newHeadlessServer(t)
	host.AddOutput(1, "HEADLESS-1", 0, 1920, 1080, 60000)
	s := host.AddWindow("foot", "foot")
	pump(srv, host)

	id, ok := srv.ViewBySurface(s)
	if !ok {
		t.Fatalf("expected a view for surface %d", s)
	}
	if got := srv.FocusedPanel().Focused(); got != id {
		t.Fatalf("expected view %d focused, got %d", id, got)
	}

	host.Hide(s)
	pump(srv, host)
	if got := srv.FocusedPanel().Focused(); got != 0 {
		t.Fatalf("expected no focus after unmap, got %d", got)
	}
	if got := host.KeyboardFocus(); got != 0 {
		t.Fatalf("expected host keyboard focus cleared after unmap, got %d", got)
	}

	host.Show(s)
	pump(srv, host)
	if got := srv.FocusedPanel().Focused(); got != id {
		t.Fatalf("expected remapped view %d focused, got %d", id, got)
	}
	if got := host.KeyboardFocus(); got != s {
		t.Fatalf("expected host keyboard focus on %d, got %d", s, got)
	}
	v, _ := srv.View(id)
	if v.FocusedBy == 0 {
		t.Fatalf("expected remapped view to record its focusing panel")
	}
}
