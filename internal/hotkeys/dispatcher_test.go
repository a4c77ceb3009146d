package hotkeys

import (
	"strings"
	"testing"
)

func press(code uint32, mods Modifier) Key {
	return Key{Code: code, Mods: mods, Pressed: true}
}

func TestResolveDefaultTable(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want Command
		ok   bool
	}{
		{"focus prev", press(36, ModLogo), CmdFocusPrev, true},
		{"focus next", press(37, ModLogo), CmdFocusNext, true},
		{"swap prev", press(36, ModLogo|ModShift), CmdSwapPrev, true},
		{"swap next", press(37, ModLogo|ModShift), CmdSwapNext, true},
		{"focus last ignores shift", press(38, ModLogo|ModShift), CmdFocusLast, true},
		{"quit", press(1, ModLogo), CmdQuit, true},
		{"front", press(49, ModLogo), CmdMoveToFront, true},
		{"fullscreen", press(21, ModLogo), CmdToggleFullscreen, true},
		{"terminal", press(28, ModLogo), CmdSpawnTerminal, true},
		{"launcher", press(35, ModLogo), CmdSpawnLauncher, true},
		{"close", press(53, ModLogo|ModShift), CmdCloseAndAdvance, true},
		{"caps lock does not block", press(37, ModLogo|ModLock), CmdFocusNext, true},
		{"no logo", press(37, ModCtrl), CmdNone, false},
		{"release", Key{Code: 37, Mods: ModLogo}, CmdNone, false},
		{"unbound", press(99, ModLogo), CmdNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(nil)
			got, ok := d.Resolve(tt.key)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("expected (%v,%v), got (%v,%v)", tt.want, tt.ok, got, ok)
			}
		})
	}
}

func TestPassthroughSuppressesEverythingButToggle(t *testing.T) {
	d := NewDispatcher(nil)

	if cmd, ok := d.Resolve(press(88, ModLogo)); !ok || cmd != CmdTogglePassthrough {
		t.Fatalf("expected toggle, got (%v,%v)", cmd, ok)
	}
	if !d.Passthrough() {
		t.Fatalf("expected passthrough on")
	}
	for _, code := range []uint32{1, 36, 37, 38, 49, 53} {
		if cmd, ok := d.Resolve(press(code, ModLogo)); ok {
			t.Fatalf("expected code %d suppressed, got %v", code, cmd)
		}
	}
	if _, ok := d.Resolve(press(88, ModLogo)); !ok {
		t.Fatalf("expected toggle to stay live")
	}
	if d.Passthrough() {
		t.Fatalf("expected passthrough off after second toggle")
	}
	if cmd, _ := d.Resolve(press(37, ModLogo)); cmd != CmdFocusNext {
		t.Fatalf("expected bindings restored, got %v", cmd)
	}
}

func TestSetBindingsKeepsPassthrough(t *testing.T) {
	d := NewDispatcher(nil)
	d.Resolve(press(88, ModLogo))
	d.SetBindings([]Binding{{Code: 88, Command: CmdTogglePassthrough}, {Code: 10, Command: CmdQuit}})
	if !d.Passthrough() {
		t.Fatalf("expected passthrough to survive a table swap")
	}
	d.Resolve(press(88, ModLogo))
	if cmd, ok := d.Resolve(press(10, ModLogo)); !ok || cmd != CmdQuit {
		t.Fatalf("expected custom binding, got (%v,%v)", cmd, ok)
	}
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand("Focus_Next")
	if err != nil || cmd != CmdFocusNext {
		t.Fatalf("expected focus-next, got %v (%v)", cmd, err)
	}

	_, err = ParseCommand("focus-nxt")
	if err == nil || !strings.Contains(err.Error(), `did you mean "focus-next"`) {
		t.Fatalf("expected suggestion, got %v", err)
	}

	_, err = ParseCommand("definitely-not-a-command")
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("expected plain error, got %v", err)
	}
}

func TestCommandStringRoundTrip(t *testing.T) {
	for _, c := range Commands() {
		got, err := ParseCommand(c.String())
		if err != nil || got != c {
			t.Fatalf("expected %v, got %v (%v)", c, got, err)
		}
	}
	if Command(99).String() != "unknown" {
		t.Fatalf("expected unknown for out-of-range command")
	}
}

func TestKeysymHelpers(t *testing.T) {
	if n, ok := VTForKeysym(KeysymSwitchVT(3)); !ok || n != 3 {
		t.Fatalf("expected VT 3, got %d (%v)", n, ok)
	}
	if _, ok := VTForKeysym(KeysymSwitchVT(13)); ok {
		t.Fatalf("expected VT 13 to be rejected")
	}
	if _, ok := VTForKeysym(keysymSwitchVTBase); ok {
		t.Fatalf("expected base keysym to be rejected")
	}
	if MediaForKeysym(KeysymVolumeMute) != MediaVolumeMute {
		t.Fatalf("expected mute")
	}
	if MediaForKeysym(Keysym('a')) != MediaNone {
		t.Fatalf("expected none for a letter")
	}
}
