package wm

import (
	"testing"

	"github.com/1broseidon/gateway/internal/hotkeys"
)

func threeViews(t *testing.T) (*Server, *fakeHost, []ViewID) {
	t.Helper()
	s, host := newTestServer(t, nil)
	addOutput(s, 1, 0)
	ids := []ViewID{
		mapToplevel(t, s, 1),
		mapToplevel(t, s, 2),
		mapToplevel(t, s, 3),
	}
	s.Refresh(1)
	return s, host, ids
}

func TestFocusCycleWraps(t *testing.T) {
	s, _, ids := threeViews(t)
	p := s.FocusedPanel()

	tests := []struct {
		name  string
		start ViewID
		cmd   hotkeys.Command
		want  ViewID
	}{
		{"next from front", ids[0], hotkeys.CmdFocusNext, ids[1]},
		{"next wraps", ids[2], hotkeys.CmdFocusNext, ids[0]},
		{"prev wraps", ids[0], hotkeys.CmdFocusPrev, ids[2]},
		{"prev from middle", ids[1], hotkeys.CmdFocusPrev, ids[0]},
		{"last", ids[0], hotkeys.CmdFocusLast, ids[2]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.FocusView(tt.start); err != nil {
				t.Fatalf("FocusView: %v", err)
			}
			if !s.Execute(tt.cmd) {
				t.Fatalf("expected %s to be handled", tt.cmd)
			}
			if got := p.Focused(); got != tt.want {
				t.Fatalf("expected %d focused, got %d", tt.want, got)
			}
		})
	}
}

func TestFocusCommandsNeedTwoViews(t *testing.T) {
	s, _ := newTestServer(t, nil)
	addOutput(s, 1, 0)
	if s.Execute(hotkeys.CmdFocusNext) {
		t.Fatalf("expected focus-next with no views to be unhandled")
	}
	mapToplevel(t, s, 1)
	for _, cmd := range []hotkeys.Command{hotkeys.CmdFocusNext, hotkeys.CmdFocusPrev, hotkeys.CmdFocusLast, hotkeys.CmdSwapNext} {
		if s.Execute(cmd) {
			t.Fatalf("expected %s with one view to be unhandled", cmd)
		}
	}
}

func TestSwapIsAnInvolution(t *testing.T) {
	s, host, ids := threeViews(t)
	p := s.FocusedPanel()

	s.Execute(hotkeys.CmdSwapNext)
	if !equalIDs(p.Managed(), []ViewID{ids[1], ids[0], ids[2]}) {
		t.Fatalf("expected swapped order, got %v", p.Managed())
	}
	if p.Focused() != ids[0] {
		t.Fatalf("expected focus to follow the swapped view")
	}
	if got := host.configured[1]; got.X != 968 {
		t.Fatalf("expected swapped view relaid into the second stack, got %+v", got)
	}

	s.Execute(hotkeys.CmdSwapPrev)
	if !equalIDs(p.Managed(), ids) {
		t.Fatalf("expected original order, got %v", p.Managed())
	}
}

func TestSwapAtBoundaryIsNoop(t *testing.T) {
	s, _, ids := threeViews(t)
	p := s.FocusedPanel()

	if !s.Execute(hotkeys.CmdSwapPrev) {
		t.Fatalf("expected swap-prev at the front to be handled")
	}
	if !equalIDs(p.Managed(), ids) {
		t.Fatalf("expected order unchanged, got %v", p.Managed())
	}
	if err := s.FocusView(ids[2]); err != nil {
		t.Fatalf("FocusView: %v", err)
	}
	s.Execute(hotkeys.CmdSwapNext)
	if !equalIDs(p.Managed(), ids) {
		t.Fatalf("expected order unchanged, got %v", p.Managed())
	}
}

func TestMoveToFront(t *testing.T) {
	s, _, ids := threeViews(t)
	if err := s.FocusView(ids[2]); err != nil {
		t.Fatalf("FocusView: %v", err)
	}
	s.Execute(hotkeys.CmdMoveToFront)
	if got := s.FocusedPanel().Managed(); !equalIDs(got, []ViewID{ids[2], ids[0], ids[1]}) {
		t.Fatalf("expected [%d %d %d], got %v", ids[2], ids[0], ids[1], got)
	}
	if got := mustView(t, s, ids[2]).StackIndex; got != 0 {
		t.Fatalf("expected moved view on stack 0, got %d", got)
	}
}

func TestToggleFullscreen(t *testing.T) {
	s, host, ids := threeViews(t)
	s.Execute(hotkeys.CmdToggleFullscreen)
	if !mustView(t, s, ids[0]).Fullscreen || !host.fullscreen[1] {
		t.Fatalf("expected fullscreen on")
	}
	s.Execute(hotkeys.CmdToggleFullscreen)
	if mustView(t, s, ids[0]).Fullscreen || host.fullscreen[1] {
		t.Fatalf("expected fullscreen off")
	}
}

func TestSpawnCommands(t *testing.T) {
	s, host := newTestServer(t, nil)
	s.Execute(hotkeys.CmdSpawnTerminal)
	s.Execute(hotkeys.CmdSpawnLauncher)
	if len(host.spawned) != 2 || host.spawned[0] != "foot" || host.spawned[1] != s.Config().Launcher {
		t.Fatalf("unexpected spawns: %v", host.spawned)
	}
}

func TestCloseAndAdvance(t *testing.T) {
	s, host, ids := threeViews(t)
	if err := s.FocusView(ids[2]); err != nil {
		t.Fatalf("FocusView: %v", err)
	}
	if !s.Execute(hotkeys.CmdCloseAndAdvance) {
		t.Fatalf("expected close-and-advance to be handled")
	}
	if len(host.closed) != 1 || host.closed[0] != 3 {
		t.Fatalf("expected surface 3 closed, got %v", host.closed)
	}
	if got := s.FocusedPanel().Focused(); got != ids[0] {
		t.Fatalf("expected focus to wrap to %d, got %d", ids[0], got)
	}
	if mustView(t, s, ids[2]).FocusedBy != 0 {
		t.Fatalf("expected closed view back-ref cleared")
	}
}

func TestCloseAndAdvanceSoleView(t *testing.T) {
	s, host := newTestServer(t, nil)
	addOutput(s, 1, 0)
	id := mapToplevel(t, s, 1)
	s.Execute(hotkeys.CmdCloseAndAdvance)
	if len(host.closed) != 1 {
		t.Fatalf("expected close request")
	}
	if s.FocusedPanel().Focused() != 0 || mustView(t, s, id).FocusedBy != 0 {
		t.Fatalf("expected focus cleared")
	}
}

func TestQuitClosesDone(t *testing.T) {
	s, _ := newTestServer(t, nil)
	s.Execute(hotkeys.CmdQuit)
	s.Execute(hotkeys.CmdQuit)
	select {
	case <-s.Done():
	default:
		t.Fatalf("expected Done to be closed")
	}
}

func logoKey(code uint32, mods hotkeys.Modifier) KeyEvent {
	return KeyEvent{Key: hotkeys.Key{Code: code, Mods: hotkeys.ModLogo | mods, Pressed: true}}
}

func TestKeyBindingsRunCommands(t *testing.T) {
	s, host, ids := threeViews(t)

	s.Handle(logoKey(37, 0))
	if got := s.FocusedPanel().Focused(); got != ids[1] {
		t.Fatalf("expected Logo+37 to focus next, got %d", got)
	}
	s.Handle(logoKey(37, hotkeys.ModShift))
	if got := s.FocusedPanel().Managed(); !equalIDs(got, []ViewID{ids[0], ids[2], ids[1]}) {
		t.Fatalf("expected Logo+Shift+37 to swap next, got %v", got)
	}
	if len(host.keys) != 0 {
		t.Fatalf("expected bound keys not to be forwarded, got %d", len(host.keys))
	}
}

func TestPassthroughForwardsBoundKeys(t *testing.T) {
	s, host, ids := threeViews(t)

	s.Handle(logoKey(88, 0))
	if !s.Passthrough() {
		t.Fatalf("expected passthrough on")
	}
	s.Handle(logoKey(37, 0))
	if got := s.FocusedPanel().Focused(); got != ids[0] {
		t.Fatalf("expected focus unchanged in passthrough, got %d", got)
	}
	if len(host.keys) != 1 || host.keys[0].Code != 37 {
		t.Fatalf("expected key forwarded, got %+v", host.keys)
	}

	s.Handle(logoKey(88, 0))
	if s.Passthrough() {
		t.Fatalf("expected passthrough off")
	}

	if !s.Execute(hotkeys.CmdTogglePassthrough) || !s.Passthrough() {
		t.Fatalf("expected Execute to toggle passthrough")
	}
}

func TestVTSwitchAndMediaKeys(t *testing.T) {
	s, host := newTestServer(t, nil)

	s.Handle(KeyEvent{Key: hotkeys.Key{
		Code:    61,
		Mods:    hotkeys.ModCtrl | hotkeys.ModAlt,
		Syms:    []hotkeys.Keysym{hotkeys.KeysymSwitchVT(3)},
		Pressed: true,
	}})
	if len(host.vts) != 1 || host.vts[0] != 3 {
		t.Fatalf("expected switch to VT 3, got %v", host.vts)
	}

	press := func(sym hotkeys.Keysym) {
		s.Handle(KeyEvent{Key: hotkeys.Key{Code: 200, Syms: []hotkeys.Keysym{sym}, Pressed: true}})
	}
	press(hotkeys.KeysymBrightnessDown)
	press(hotkeys.KeysymBrightnessDown)
	if got := s.Brightness(); got < 0.899 || got > 0.901 {
		t.Fatalf("expected brightness 0.9, got %v", got)
	}
	for i := 0; i < 5; i++ {
		press(hotkeys.KeysymBrightnessUp)
	}
	if s.Brightness() != 1 {
		t.Fatalf("expected brightness clamped to 1, got %v", s.Brightness())
	}
	press(hotkeys.KeysymVolumeRaise)
	press(hotkeys.KeysymVolumeMute)
	if len(host.spawned) != 2 || host.spawned[0] != "pamixer -i 10" || host.spawned[1] != "pamixer -t" {
		t.Fatalf("unexpected volume spawns: %v", host.spawned)
	}
	if len(host.keys) != 0 {
		t.Fatalf("expected media keys to be consumed, got %d forwarded", len(host.keys))
	}
}

func TestUnboundKeysGoToFocusedClientOrKeyboardLayer(t *testing.T) {
	s, host, _ := threeViews(t)

	host.kbFocus = 0
	s.Handle(KeyEvent{Key: hotkeys.Key{Code: 30, Pressed: true}})
	s.Handle(KeyEvent{Key: hotkeys.Key{Code: 30, Pressed: false}})
	if host.kbFocus != 1 || len(host.keys) != 2 {
		t.Fatalf("expected keys delivered to surface 1, kb=%d keys=%d", host.kbFocus, len(host.keys))
	}

	s.Handle(LayerCreated{Surface: 50, Layer: LayerOverlay, KeyboardInteractive: true})
	s.Handle(LayerMapped{Surface: 50})
	s.Handle(KeyEvent{Key: hotkeys.Key{Code: 30, Pressed: true}})
	if host.kbFocus != 50 {
		t.Fatalf("expected keyboard-interactive layer to receive keys, got %d", host.kbFocus)
	}
}
