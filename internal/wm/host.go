package wm

import (
	"github.com/1broseidon/gateway/internal/hotkeys"
	"github.com/1broseidon/gateway/internal/tiling"
)

// Host is the display-server side the core drives. Implementations own
// rendering, the client protocol, input devices and process spawning.
type Host interface {
	// Configure asks the client to take rect (layout coordinates).
	Configure(s SurfaceID, rect tiling.Rect) error
	Activate(s SurfaceID, active bool) error
	// KeyboardEnter gives keyboard focus to s.
	KeyboardEnter(s SurfaceID) error
	// KeyboardFocus returns the surface holding keyboard focus, or 0.
	KeyboardFocus() SurfaceID
	// PointerFocus returns the surface under pointer focus, or 0.
	PointerFocus() SurfaceID
	PointerEnter(s SurfaceID, sx, sy float64)
	PointerClear()
	WarpPointer(x, y int) error
	// SetCursor sets the cursor image by name; "" hides it.
	SetCursor(name string)
	Close(s SurfaceID) error
	SetFullscreen(s SurfaceID, on bool) error
	SetMode(o OutputID, m Mode) error
	ConfigureLayer(s SurfaceID, width, height int) error
	ForwardKey(k hotkeys.Key)
	ForwardButton(button uint32, pressed bool)
	ForwardAxis(vertical bool, delta float64)
	// Present shows one frame of an output, bottom to top.
	Present(o OutputID, entries []DrawEntry) error
	SwitchVT(n int) error
	Spawn(command string) error
	// LiveSurfaces lists the client surfaces that currently exist.
	LiveSurfaces() ([]SurfaceID, error)
}
