// Package grab tracks interactive move and resize drags started by a client.
package grab

import (
	"github.com/1broseidon/gateway/internal/tiling"
)

// Mode represents the current phase of an interactive grab
type Mode int

const (
	// ModePassthrough means pointer events go to clients
	ModePassthrough Mode = iota
	// ModeMove means the grabbed view follows the pointer
	ModeMove
	// ModeResize means the grabbed view's edges follow the pointer
	ModeResize
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModePassthrough:
		return "passthrough"
	case ModeMove:
		return "move"
	case ModeResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Edges is a bitmask of the window edges being dragged.
type Edges uint32

const (
	EdgeNone   Edges = 0
	EdgeTop    Edges = 1
	EdgeBottom Edges = 2
	EdgeLeft   Edges = 4
	EdgeRight  Edges = 8
)

// Has reports whether all bits of e2 are set in e.
func (e Edges) Has(e2 Edges) bool {
	return e&e2 == e2 && e2 != 0
}

// String renders the edge set as e.g. "top|left".
func (e Edges) String() string {
	if e == EdgeNone {
		return "none"
	}
	out := ""
	for _, n := range []struct {
		edge Edges
		name string
	}{{EdgeTop, "top"}, {EdgeBottom, "bottom"}, {EdgeLeft, "left"}, {EdgeRight, "right"}} {
		if e.Has(n.edge) {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	return out
}

// Point is a cursor position in layout coordinates.
type Point struct {
	X float64
	Y float64
}

// State holds the interactive grab state. The zero value is passthrough.
type State struct {
	Mode   Mode
	Target uint64      // grabbed view (0 if none)
	Grab   Point       // cursor offset from the dragged reference point
	Box    tiling.Rect // geometry box at grab start, layout coordinates
	Edges  Edges
}

// NewState creates a new passthrough state
func NewState() *State {
	return &State{Mode: ModePassthrough}
}

// Active reports whether a move or resize is in progress.
func (s *State) Active() bool {
	return s.Mode != ModePassthrough
}

// BeginMove starts moving target. viewX/viewY is the view's current
// position.
func (s *State) BeginMove(target uint64, cursor Point, viewX, viewY int) {
	s.Mode = ModeMove
	s.Target = target
	s.Edges = EdgeNone
	s.Box = tiling.Rect{}
	s.Grab = Point{X: cursor.X - float64(viewX), Y: cursor.Y - float64(viewY)}
}

// BeginResize starts resizing target along edges. geo is the client's
// geometry box relative to the view position.
func (s *State) BeginResize(target uint64, cursor Point, viewX, viewY int, geo tiling.Rect, edges Edges) {
	borderX := float64(viewX + geo.X)
	if edges.Has(EdgeRight) {
		borderX += float64(geo.Width)
	}
	borderY := float64(viewY + geo.Y)
	if edges.Has(EdgeBottom) {
		borderY += float64(geo.Height)
	}

	s.Mode = ModeResize
	s.Target = target
	s.Edges = edges
	s.Grab = Point{X: cursor.X - borderX, Y: cursor.Y - borderY}
	s.Box = geo.Translate(viewX, viewY)
}

// Move returns the new view position for a cursor position.
func (s *State) Move(cursor Point) (int, int) {
	return int(cursor.X - s.Grab.X), int(cursor.Y - s.Grab.Y)
}

// Resize returns the new geometry box for a cursor position. A dragged
// edge never crosses its opposite edge, so both dimensions stay >= 1.
func (s *State) Resize(cursor Point) tiling.Rect {
	borderX := int(cursor.X - s.Grab.X)
	borderY := int(cursor.Y - s.Grab.Y)

	left := s.Box.X
	right := s.Box.X + s.Box.Width
	top := s.Box.Y
	bottom := s.Box.Y + s.Box.Height

	if s.Edges.Has(EdgeTop) {
		top = borderY
		if top >= bottom {
			top = bottom - 1
		}
	} else if s.Edges.Has(EdgeBottom) {
		bottom = borderY
		if bottom <= top {
			bottom = top + 1
		}
	}

	if s.Edges.Has(EdgeLeft) {
		left = borderX
		if left >= right {
			left = right - 1
		}
	} else if s.Edges.Has(EdgeRight) {
		right = borderX
		if right <= left {
			right = left + 1
		}
	}

	return tiling.Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Release ends any grab and returns to passthrough.
func (s *State) Release() {
	s.Mode = ModePassthrough
	s.Target = 0
	s.Grab = Point{}
	s.Box = tiling.Rect{}
	s.Edges = EdgeNone
}
