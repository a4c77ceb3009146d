package wm

import (
	"github.com/1broseidon/gateway/internal/grab"
	"github.com/1broseidon/gateway/internal/hotkeys"
	"github.com/1broseidon/gateway/internal/tiling"
)

// Event is an inbound notification from the host. Server.Handle is the
// single entry point for all of them.
type Event interface {
	eventName() string
}

// SurfaceCreated announces a new client surface. It starts unmapped.
type SurfaceCreated struct {
	Surface  SurfaceID
	Kind     Kind
	Override bool
	Reported tiling.Rect
	Hints    tiling.SizeHints
	Title    string
	AppID    string
}

type SurfaceMapped struct{ Surface SurfaceID }

type SurfaceUnmapped struct{ Surface SurfaceID }

type SurfaceDestroyed struct{ Surface SurfaceID }

// SurfaceConfigured carries client-side geometry and hint updates.
type SurfaceConfigured struct {
	Surface  SurfaceID
	Reported tiling.Rect
	Geometry tiling.Rect
	Hints    tiling.SizeHints
}

// SurfaceRetitled carries a title change.
type SurfaceRetitled struct {
	Surface SurfaceID
	Title   string
}

// SurfaceCommitted marks that a surface has drawable content.
type SurfaceCommitted struct{ Surface SurfaceID }

type FullscreenRequested struct {
	Surface    SurfaceID
	Fullscreen bool
}

type MoveRequested struct{ Surface SurfaceID }

type ResizeRequested struct {
	Surface SurfaceID
	Edges   grab.Edges
}

// LayerCreated announces a layer-shell surface. Output 0 selects the main
// output.
type LayerCreated struct {
	Surface             SurfaceID
	Layer               Layer
	Output              OutputID
	Anchor              Anchor
	Width               int
	Height              int
	KeyboardInteractive bool
}

type LayerMapped struct{ Surface SurfaceID }

type LayerUnmapped struct{ Surface SurfaceID }

type LayerDestroyed struct{ Surface SurfaceID }

type PointerConstraintChanged struct {
	Surface    SurfaceID
	Constraint Constraint
}

// KeyEvent is a key press or release.
type KeyEvent struct{ Key hotkeys.Key }

// PointerMoved is either a relative delta or, with Absolute set, a new
// position in layout coordinates.
type PointerMoved struct {
	DX       float64
	DY       float64
	Absolute bool
	X        float64
	Y        float64
}

type PointerButton struct {
	Button  uint32
	Pressed bool
}

type PointerAxis struct {
	Vertical bool
	Delta    float64
}

type OutputAdded struct {
	Output OutputID
	Name   string
	X      int
	Y      int
	// Modes lists supported modes, preferred first.
	Modes []Mode
}

type OutputRemoved struct{ Output OutputID }

// OutputRefresh requests a layout pass and frame for one output.
type OutputRefresh struct{ Output OutputID }

func (SurfaceCreated) eventName() string           { return "surface_created" }
func (SurfaceMapped) eventName() string            { return "surface_mapped" }
func (SurfaceUnmapped) eventName() string          { return "surface_unmapped" }
func (SurfaceDestroyed) eventName() string         { return "surface_destroyed" }
func (SurfaceConfigured) eventName() string        { return "surface_configured" }
func (SurfaceRetitled) eventName() string          { return "surface_retitled" }
func (SurfaceCommitted) eventName() string         { return "surface_committed" }
func (FullscreenRequested) eventName() string      { return "fullscreen_requested" }
func (MoveRequested) eventName() string            { return "move_requested" }
func (ResizeRequested) eventName() string          { return "resize_requested" }
func (LayerCreated) eventName() string             { return "layer_created" }
func (LayerMapped) eventName() string              { return "layer_mapped" }
func (LayerUnmapped) eventName() string            { return "layer_unmapped" }
func (LayerDestroyed) eventName() string           { return "layer_destroyed" }
func (PointerConstraintChanged) eventName() string { return "pointer_constraint_changed" }
func (KeyEvent) eventName() string                 { return "key" }
func (PointerMoved) eventName() string             { return "pointer_moved" }
func (PointerButton) eventName() string            { return "pointer_button" }
func (PointerAxis) eventName() string              { return "pointer_axis" }
func (OutputAdded) eventName() string              { return "output_added" }
func (OutputRemoved) eventName() string            { return "output_removed" }
func (OutputRefresh) eventName() string            { return "output_refresh" }

// EventName returns a stable name for ev, for logs and traces.
func EventName(ev Event) string {
	if ev == nil {
		return "nil"
	}
	return ev.eventName()
}
