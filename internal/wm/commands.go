package wm

import (
	"github.com/1broseidon/gateway/internal/hotkeys"
)

// Execute runs a command outside of key handling, as IPC does. It reports
// false when the command could not apply.
func (s *Server) Execute(cmd hotkeys.Command) bool {
	if cmd == hotkeys.CmdTogglePassthrough {
		s.dispatcher.TogglePassthrough()
		return true
	}
	return s.run(cmd)
}

// run executes a command against the focused panel. It reports false when
// the command could not apply, so the triggering key can fall through.
func (s *Server) run(cmd hotkeys.Command) bool {
	p := s.FocusedPanel()
	focused := s.views[p.focused]

	switch cmd {
	case hotkeys.CmdTogglePassthrough:
		// Key-driven toggles flip inside the dispatcher.
		return true

	case hotkeys.CmdQuit:
		s.Quit()
		return true

	case hotkeys.CmdFocusPrev, hotkeys.CmdFocusNext:
		if p.managed.Len() < 2 || focused == nil {
			return false
		}
		var target ViewID
		var ok bool
		if cmd == hotkeys.CmdFocusPrev {
			if target, ok = p.managed.Prev(focused.ID); !ok {
				target, _ = p.managed.Back()
			}
		} else {
			if target, ok = p.managed.Next(focused.ID); !ok {
				target, _ = p.managed.Front()
			}
		}
		s.Focus(target, p, false)
		s.recenter(p)
		return true

	case hotkeys.CmdFocusLast:
		if p.managed.Len() < 2 {
			return false
		}
		last, _ := p.managed.Back()
		s.Focus(last, p, false)
		s.recenter(p)
		return true

	case hotkeys.CmdSwapPrev, hotkeys.CmdSwapNext:
		if p.managed.Len() < 2 || focused == nil {
			return false
		}
		var other ViewID
		var ok bool
		if cmd == hotkeys.CmdSwapPrev {
			other, ok = p.managed.Prev(focused.ID)
		} else {
			other, ok = p.managed.Next(focused.ID)
		}
		if ok {
			p.managed.SwapAdjacent(other, focused.ID)
		}
		s.recenter(p)
		return true

	case hotkeys.CmdMoveToFront:
		if focused == nil {
			return false
		}
		p.managed.MoveToFront(focused.ID)
		s.recenter(p)
		return true

	case hotkeys.CmdToggleFullscreen:
		if focused == nil {
			return false
		}
		focused.Fullscreen = !focused.Fullscreen
		s.hostErr("set_fullscreen", s.host.SetFullscreen(focused.Surface, focused.Fullscreen))
		return true

	case hotkeys.CmdSpawnTerminal:
		s.hostErr("spawn", s.host.Spawn(s.cfg.Terminal))
		return true

	case hotkeys.CmdSpawnLauncher:
		s.hostErr("spawn", s.host.Spawn(s.cfg.Launcher))
		return true

	case hotkeys.CmdCloseAndAdvance:
		if focused == nil {
			return false
		}
		next, ok := p.managed.Next(focused.ID)
		if !ok {
			next, _ = p.managed.Front()
		}
		s.hostErr("close", s.host.Close(focused.Surface))
		if next == focused.ID || next == 0 {
			focused.FocusedBy = 0
			p.focused = 0
		} else {
			s.Focus(next, p, false)
		}
		s.recenter(p)
		return true
	}
	return false
}

// handleKey routes one key event: bindings first, then VT switching and
// media keys, then delivery to a client.
func (s *Server) handleKey(k hotkeys.Key) {
	if cmd, ok := s.dispatcher.Resolve(k); ok {
		if s.run(cmd) {
			s.logger.Debug("command", "command", cmd.String())
			return
		}
	}

	if k.Pressed && k.Mods.Has(hotkeys.ModCtrl|hotkeys.ModAlt) {
		for _, sym := range k.Syms {
			if n, ok := hotkeys.VTForKeysym(sym); ok {
				s.hostErr("switch_vt", s.host.SwitchVT(n))
				return
			}
		}
	}

	if k.Pressed {
		for _, sym := range k.Syms {
			if media := hotkeys.MediaForKeysym(sym); media != hotkeys.MediaNone {
				s.runMedia(media)
				return
			}
		}
	}

	if l := s.keyboardLayer(); l != nil {
		s.hostErr("keyboard_enter", s.host.KeyboardEnter(l.Surface))
	} else if v := s.views[s.FocusedPanel().focused]; v != nil {
		s.hostErr("keyboard_enter", s.host.KeyboardEnter(v.Surface))
	}
	s.host.ForwardKey(k)
}

func (s *Server) runMedia(m hotkeys.MediaKey) {
	switch m {
	case hotkeys.MediaBrightnessUp:
		s.brightness = min(s.brightness+s.cfg.BrightnessStep, 1)
	case hotkeys.MediaBrightnessDown:
		s.brightness = max(s.brightness-s.cfg.BrightnessStep, 0)
	case hotkeys.MediaVolumeRaise:
		s.hostErr("spawn", s.host.Spawn(s.cfg.Volume.Raise))
	case hotkeys.MediaVolumeLower:
		s.hostErr("spawn", s.host.Spawn(s.cfg.Volume.Lower))
	case hotkeys.MediaVolumeMute:
		s.hostErr("spawn", s.host.Spawn(s.cfg.Volume.Mute))
	}
	s.logger.Debug("media key", "key", m.String(), "brightness", s.brightness)
}
