package wm

import (
	"github.com/1broseidon/gateway/internal/tiling"
)

// ViewID identifies a view in the server's arena. Zero means none.
type ViewID uint64

// SurfaceID is the host's handle for a client surface (an X window id for
// the X11 host). Zero means none.
type SurfaceID uint64

// OutputID identifies a display output. Zero means none.
type OutputID uint64

// PanelID identifies a panel. Zero means none.
type PanelID uint32

// Kind is the protocol family a view's surface came from.
type Kind int

const (
	KindNone Kind = iota
	// KindToplevel is a native toplevel surface.
	KindToplevel
	// KindForeign is a surface from a compatibility layer. Only foreign
	// surfaces can be unmanaged (override-redirect).
	KindForeign
)

func (k Kind) String() string {
	switch k {
	case KindToplevel:
		return "toplevel"
	case KindForeign:
		return "foreign"
	default:
		return "none"
	}
}

// Location names the panel list a view currently lives in.
type Location int

const (
	LocUnmapped Location = iota
	LocManaged
	LocRedirect
)

func (l Location) String() string {
	switch l {
	case LocManaged:
		return "managed"
	case LocRedirect:
		return "redirect"
	default:
		return "unmapped"
	}
}

// Constraint is a pointer constraint requested by a client.
type Constraint int

const (
	ConstraintNone Constraint = iota
	ConstraintLocked
	ConstraintConfined
)

func (c Constraint) String() string {
	switch c {
	case ConstraintLocked:
		return "locked"
	case ConstraintConfined:
		return "confined"
	default:
		return "none"
	}
}

// View is the core's record of one application window.
type View struct {
	ID      ViewID
	Surface SurfaceID
	Kind    Kind
	Title   string
	AppID   string

	X      int
	Y      int
	Width  int
	Height int

	Fullscreen bool
	StackIndex int // -1 when unassigned
	FocusedBy  PanelID

	// Override marks an unmanaged surface that positions itself.
	Override bool
	// Reported is the geometry the client asked for.
	Reported tiling.Rect
	// Geometry is the client's visible box relative to X/Y. Empty means
	// the whole surface.
	Geometry tiling.Rect
	Hints    tiling.SizeHints

	Constraint Constraint
	HasContent bool

	Panel    PanelID
	Location Location
}

// Rect returns the view's current layout rectangle.
func (v *View) Rect() tiling.Rect {
	return tiling.Rect{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
}

func (v *View) geometryBox() tiling.Rect {
	if v.Geometry.Empty() {
		return tiling.Rect{Width: v.Width, Height: v.Height}
	}
	return v.Geometry
}

// Stack is a vertical column of tiles.
type Stack struct {
	Width     int
	Height    int
	CurrentX  int
	CurrentY  int
	MaxItems  int
	ItemCount int
	Mapped    bool
}

// Mode is a display mode. Refresh is in mHz.
type Mode struct {
	Width   int
	Height  int
	Refresh int
}

// Output is a display attached to a panel.
type Output struct {
	ID        OutputID
	Name      string
	X         int
	Y         int
	Width     int
	Height    int
	Refresh   int
	Transform string
	Panel     PanelID
	Stacks    []int // claimed stack indices, ascending
}

// Rect returns the output's rectangle in layout coordinates.
func (o *Output) Rect() tiling.Rect {
	return tiling.Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
}

// ContainsStack reports whether the output claims stack index i.
func (o *Output) ContainsStack(i int) bool {
	for _, s := range o.Stacks {
		if s == i {
			return true
		}
	}
	return false
}

// Layer is a layer-shell stacking layer.
type Layer int

const (
	LayerBackground Layer = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerBottom:
		return "bottom"
	case LayerTop:
		return "top"
	case LayerOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Anchor is a bitmask of output edges a layer surface is attached to.
type Anchor uint32

const (
	AnchorTop    Anchor = 1
	AnchorBottom Anchor = 2
	AnchorLeft   Anchor = 4
	AnchorRight  Anchor = 8
)

// LayerSurface is a panel, bar, wallpaper or overlay surface.
type LayerSurface struct {
	Surface             SurfaceID
	Layer               Layer
	Output              OutputID
	Anchor              Anchor
	Width               int
	Height              int
	KeyboardInteractive bool
	Mapped              bool
}

// rect places the surface inside o using its anchors, in output-local
// coordinates.
func (l *LayerSurface) rect(o *Output) tiling.Rect {
	r := tiling.Rect{Width: l.Width, Height: l.Height}
	if l.Anchor&AnchorBottom != 0 && l.Anchor&AnchorTop == 0 {
		r.Y = o.Height - l.Height
	}
	if l.Anchor&AnchorRight != 0 && l.Anchor&AnchorLeft == 0 {
		r.X = o.Width - l.Width
	}
	return r
}
