package tiling

import "testing"

func TestColumnsDropsRemainder(t *testing.T) {
	cols := Columns(Rect{X: 100, Y: 0, Width: 1001, Height: 600}, 2)
	if len(cols) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(cols))
	}
	if cols[0].X != 100 || cols[0].Width != 500 {
		t.Fatalf("expected col0 at x=100 w=500, got %+v", cols[0])
	}
	if cols[1].X != 600 || cols[1].Width != 500 {
		t.Fatalf("expected col1 at x=600 w=500, got %+v", cols[1])
	}
	if cols[1].Height != 600 {
		t.Fatalf("expected full height, got %d", cols[1].Height)
	}
}

func TestColumnsZero(t *testing.T) {
	if got := Columns(Rect{Width: 100, Height: 100}, 0); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestSlotAppliesGapOnEverySide(t *testing.T) {
	col := Rect{X: 0, Y: 0, Width: 960, Height: 1080}
	tests := []struct {
		name  string
		index int
		count int
		want  Rect
	}{
		{name: "single", index: 0, count: 1, want: Rect{X: 8, Y: 8, Width: 944, Height: 1064}},
		{name: "top of two", index: 0, count: 2, want: Rect{X: 8, Y: 8, Width: 944, Height: 524}},
		{name: "bottom of two", index: 1, count: 2, want: Rect{X: 8, Y: 548, Width: 944, Height: 524}},
		{name: "remainder dropped", index: 2, count: 7, want: Rect{X: 8, Y: 316, Width: 944, Height: 138}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slot(col, tt.index, tt.count, 8)
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestSizeHintsClamp(t *testing.T) {
	tests := []struct {
		name  string
		hints SizeHints
		w, h  int
		wantW int
		wantH int
	}{
		{name: "unconstrained", hints: SizeHints{}, w: 300, h: 200, wantW: 300, wantH: 200},
		{name: "min raises", hints: SizeHints{MinWidth: 400, MinHeight: 250}, w: 300, h: 200, wantW: 400, wantH: 250},
		{name: "max caps", hints: SizeHints{MaxWidth: 100, MaxHeight: 50}, w: 300, h: 200, wantW: 100, wantH: 50},
		{name: "zero max ignored", hints: SizeHints{MinWidth: 10, MaxWidth: 0}, w: 300, h: 200, wantW: 300, wantH: 200},
		{name: "max below min ignored", hints: SizeHints{MinWidth: 500, MaxWidth: 100}, w: 300, h: 200, wantW: 500, wantH: 200},
		{name: "negative treated as zero", hints: SizeHints{MinWidth: -5, MaxHeight: -1}, w: 300, h: 200, wantW: 300, wantH: 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.hints.Clamp(tt.w, tt.h)
			if w != tt.wantW || h != tt.wantH {
				t.Fatalf("expected %dx%d, got %dx%d", tt.wantW, tt.wantH, w, h)
			}
		})
	}
}

func TestRectCenterAndContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 101, Height: 51}
	x, y := r.Center()
	if x != 60 || y != 45 {
		t.Fatalf("expected center (60,45), got (%d,%d)", x, y)
	}
	if !r.Contains(10, 20) {
		t.Fatalf("expected top-left corner to be inside")
	}
	if r.Contains(111, 20) {
		t.Fatalf("expected right edge to be exclusive")
	}
	if r.Inset(8).Width != 85 {
		t.Fatalf("expected inset width 85, got %d", r.Inset(8).Width)
	}
}
