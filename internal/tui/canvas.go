package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/gateway/internal/wm"
)

// wideTail fills the cell covered by the right half of a double-width rune.
const wideTail rune = 0

type boxStyle struct {
	h, v, tl, tr, bl, br rune
}

var (
	thinBox  = boxStyle{'─', '│', '┌', '┐', '└', '┘'}
	heavyBox = boxStyle{'━', '┃', '┏', '┓', '┗', '┛'}
	layerBox = boxStyle{'╌', '╎', '+', '+', '+', '+'}
)

// renderFrame draws an output's draw list onto a width x height character
// canvas. label names each entry; the focused view gets a heavy border.
func renderFrame(entries []wm.DrawEntry, label func(wm.DrawEntry) string, outW, outH, width, height int) []string {
	if outW <= 0 || outH <= 0 || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, e := range entries {
		if e.Kind == wm.DrawDim {
			continue
		}
		style := thinBox
		switch {
		case e.Kind == wm.DrawLayer:
			style = layerBox
		case e.Focused:
			style = heavyBox
		}
		drawTile(canvas, e, label(e), style, outW, outH, width, height)
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = rowString(row)
	}
	return lines
}

func rowString(row []rune) string {
	var sb strings.Builder
	for _, r := range row {
		if r == wideTail {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func drawTile(canvas [][]rune, e wm.DrawEntry, label string, style boxStyle, outW, outH, canvasW, canvasH int) {
	r := e.Rect
	x1 := r.X * canvasW / outW
	y1 := r.Y * canvasH / outH
	x2 := (r.X + r.Width) * canvasW / outW
	y2 := (r.Y + r.Height) * canvasH / outH

	if x1 < 1 {
		x1 = 1
	}
	if y1 < 1 {
		y1 = 1
	}
	if x2 >= canvasW-1 {
		x2 = canvasW - 2
	}
	if y2 >= canvasH-1 {
		y2 = canvasH - 2
	}
	if x2 <= x1 || y2 <= y1 {
		return
	}

	// Clear the interior so upper entries occlude lower ones.
	for y := y1 + 1; y < y2; y++ {
		for x := x1 + 1; x < x2; x++ {
			canvas[y][x] = ' '
		}
	}
	for x := x1; x <= x2; x++ {
		canvas[y1][x] = style.h
		canvas[y2][x] = style.h
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = style.v
		canvas[y][x2] = style.v
	}
	canvas[y1][x1] = style.tl
	canvas[y1][x2] = style.tr
	canvas[y2][x1] = style.bl
	canvas[y2][x2] = style.br

	inner := x2 - x1 - 1
	centerY := (y1 + y2) / 2
	if inner < 1 || centerY <= y1 || centerY >= y2 || label == "" {
		return
	}
	label = runewidth.Truncate(label, inner, "…")
	x := x1 + 1 + (inner-runewidth.StringWidth(label))/2
	for _, ch := range label {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if x+w-1 >= x2 {
			break
		}
		canvas[centerY][x] = ch
		if w == 2 {
			canvas[centerY][x+1] = wideTail
		}
		x += w
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if height < 0 {
		height = 0
	}
	if width < 0 {
		width = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
