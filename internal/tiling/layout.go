package tiling

// Rect represents a window position and size in layout coordinates
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Center returns the integer midpoint of r.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains reports whether the point lies inside r. The right and bottom
// edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= float64(r.X) && x < float64(r.X+r.Width) &&
		y >= float64(r.Y) && y < float64(r.Y+r.Height)
}

// Inset shrinks r by n on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, Width: r.Width - 2*n, Height: r.Height - 2*n}
}

// Translate moves r by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Empty reports whether r covers no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Columns splits area into n equal-width columns left to right. The width is
// integer-divided; any remainder is left unused at the right edge.
func Columns(area Rect, n int) []Rect {
	if n <= 0 {
		return nil
	}
	width := area.Width / n
	cols := make([]Rect, n)
	x := area.X
	for i := range cols {
		cols[i] = Rect{X: x, Y: area.Y, Width: width, Height: area.Height}
		x += width
	}
	return cols
}

// Slot returns the rectangle of the index-th of count items stacked
// vertically in column, with gap applied on every side. Heights are
// integer-divided and the remainder is not redistributed.
func Slot(column Rect, index, count, gap int) Rect {
	if count <= 0 {
		return Rect{}
	}
	h := column.Height / count
	return Rect{
		X:      column.X + gap,
		Y:      column.Y + index*h + gap,
		Width:  column.Width - 2*gap,
		Height: h - 2*gap,
	}
}

// SizeHints are client-declared size limits. Zero means unconstrained.
type SizeHints struct {
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int
}

// Sanitize drops values that cannot be honoured: negatives become zero and a
// maximum smaller than its minimum is ignored.
func (h SizeHints) Sanitize() SizeHints {
	clampZero := func(v int) int {
		if v < 0 {
			return 0
		}
		return v
	}
	h.MinWidth = clampZero(h.MinWidth)
	h.MinHeight = clampZero(h.MinHeight)
	h.MaxWidth = clampZero(h.MaxWidth)
	h.MaxHeight = clampZero(h.MaxHeight)
	if h.MaxWidth > 0 && h.MaxWidth < h.MinWidth {
		h.MaxWidth = 0
	}
	if h.MaxHeight > 0 && h.MaxHeight < h.MinHeight {
		h.MaxHeight = 0
	}
	return h
}

// Clamp applies the hints to a size: minimums raise it first, then any
// positive maximum caps it.
func (h SizeHints) Clamp(width, height int) (int, int) {
	h = h.Sanitize()
	if width < h.MinWidth {
		width = h.MinWidth
	}
	if height < h.MinHeight {
		height = h.MinHeight
	}
	if h.MaxWidth > 0 && width > h.MaxWidth {
		width = h.MaxWidth
	}
	if h.MaxHeight > 0 && height > h.MaxHeight {
		height = h.MaxHeight
	}
	return width, height
}
