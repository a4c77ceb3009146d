package hotkeys

// Modifier is a keyboard modifier mask. Bit values match the X11 core
// protocol state masks.
type Modifier uint16

const (
	ModShift Modifier = 1 << iota
	ModLock
	ModCtrl
	ModAlt
	ModMod2
	ModMod3
	ModLogo
	ModMod5
)

// Has reports whether all bits of m2 are set.
func (m Modifier) Has(m2 Modifier) bool {
	return m&m2 == m2
}

// Key is a single key event. Code is an evdev keycode (X keycode - 8).
type Key struct {
	Code    uint32
	Mods    Modifier
	Syms    []Keysym
	Pressed bool
}

// ShiftMode selects whether a binding requires Shift.
type ShiftMode int

const (
	ShiftAny ShiftMode = iota
	ShiftOff
	ShiftOn
)

func (s ShiftMode) matches(mods Modifier) bool {
	switch s {
	case ShiftOff:
		return !mods.Has(ModShift)
	case ShiftOn:
		return mods.Has(ModShift)
	default:
		return true
	}
}

// Binding maps an evdev keycode, held with Logo, to a command.
type Binding struct {
	Code    uint32
	Shift   ShiftMode
	Command Command
}

// DefaultBindings returns the built-in binding table. Shift-specific entries
// come before ShiftAny entries on the same code.
func DefaultBindings() []Binding {
	return []Binding{
		{Code: 88, Shift: ShiftAny, Command: CmdTogglePassthrough},
		{Code: 1, Shift: ShiftAny, Command: CmdQuit},
		{Code: 36, Shift: ShiftOff, Command: CmdFocusPrev},
		{Code: 37, Shift: ShiftOff, Command: CmdFocusNext},
		{Code: 38, Shift: ShiftAny, Command: CmdFocusLast},
		{Code: 36, Shift: ShiftOn, Command: CmdSwapPrev},
		{Code: 37, Shift: ShiftOn, Command: CmdSwapNext},
		{Code: 49, Shift: ShiftAny, Command: CmdMoveToFront},
		{Code: 21, Shift: ShiftAny, Command: CmdToggleFullscreen},
		{Code: 28, Shift: ShiftAny, Command: CmdSpawnTerminal},
		{Code: 35, Shift: ShiftAny, Command: CmdSpawnLauncher},
		{Code: 53, Shift: ShiftAny, Command: CmdCloseAndAdvance},
	}
}

// Dispatcher resolves Logo-modified key presses to commands and owns the
// passthrough toggle.
type Dispatcher struct {
	bindings    []Binding
	passthrough bool
}

// NewDispatcher creates a dispatcher. A nil table selects DefaultBindings.
func NewDispatcher(bindings []Binding) *Dispatcher {
	d := &Dispatcher{}
	d.SetBindings(bindings)
	return d
}

// SetBindings replaces the binding table. Passthrough state is kept.
func (d *Dispatcher) SetBindings(bindings []Binding) {
	if len(bindings) == 0 {
		bindings = DefaultBindings()
	}
	d.bindings = append([]Binding(nil), bindings...)
}

// Bindings returns a copy of the active table.
func (d *Dispatcher) Bindings() []Binding {
	return append([]Binding(nil), d.bindings...)
}

// Passthrough reports whether bindings are currently suppressed.
func (d *Dispatcher) Passthrough() bool {
	return d.passthrough
}

// TogglePassthrough flips binding suppression and returns the new state.
func (d *Dispatcher) TogglePassthrough() bool {
	d.passthrough = !d.passthrough
	return d.passthrough
}

// Resolve looks up a key event. It only considers presses with Logo held.
// The passthrough toggle flips state here and is always live; while
// passthrough is on every other binding resolves to nothing.
func (d *Dispatcher) Resolve(k Key) (Command, bool) {
	if !k.Pressed || !k.Mods.Has(ModLogo) {
		return CmdNone, false
	}

	b, ok := d.lookup(k)
	if ok && b.Command == CmdTogglePassthrough {
		d.TogglePassthrough()
		return CmdTogglePassthrough, true
	}
	if d.passthrough || !ok {
		return CmdNone, false
	}
	return b.Command, true
}

func (d *Dispatcher) lookup(k Key) (Binding, bool) {
	for _, b := range d.bindings {
		if b.Code == k.Code && b.Shift.matches(k.Mods) {
			return b, true
		}
	}
	return Binding{}, false
}
