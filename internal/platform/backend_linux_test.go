//go:build linux

package platform

import (
	"io"
	"log/slog"
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/gateway/internal/wm"
)

func TestUnmapDropsInputFocus(t *testing.T) {
	const win = xproto.Window(0x600001)
	b := &LinuxBackend{
		events:  make(chan wm.Event, 4),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		clients: map[xproto.Window]*client{win: {kind: clientView}},
	}
	b.kbFocus = wm.SurfaceID(win)
	b.ptrFocus = wm.SurfaceID(win)

	b.onUnmap(win)

	if got := b.KeyboardFocus(); got != 0 {
		t.Fatalf("expected keyboard focus cleared, got %d", got)
	}
	if got := b.PointerFocus(); got != 0 {
		t.Fatalf("expected pointer focus cleared, got %d", got)
	}
	select {
	case ev := <-b.events:
		if u, ok := ev.(wm.SurfaceUnmapped); !ok || u.Surface != wm.SurfaceID(win) {
			t.Fatalf("expected SurfaceUnmapped for %d, got %#v", win, ev)
		}
	default:
		t.Fatalf("expected an unmap event")
	}
}

func TestUnmapKeepsOtherFocus(t *testing.T) {
	b := &LinuxBackend{
		events:  make(chan wm.Event, 4),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		clients: map[xproto.Window]*client{1: {kind: clientView}, 2: {kind: clientView}},
	}
	b.kbFocus = 2

	b.onUnmap(1)

	if got := b.KeyboardFocus(); got != 2 {
		t.Fatalf("expected keyboard focus to stay on 2, got %d", got)
	}
}
