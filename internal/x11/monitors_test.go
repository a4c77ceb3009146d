package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/randr"
)

func TestRefreshMHz(t *testing.T) {
	tests := []struct {
		name string
		mode randr.ModeInfo
		want int
	}{
		{
			name: "1080p60",
			mode: randr.ModeInfo{DotClock: 148500000, Htotal: 2200, Vtotal: 1125},
			want: 60000,
		},
		{
			name: "1440p144",
			mode: randr.ModeInfo{DotClock: 586586000, Htotal: 2720, Vtotal: 1497},
			want: 144059,
		},
		{
			name: "zero totals",
			mode: randr.ModeInfo{DotClock: 148500000},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := refreshMHz(tt.mode); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestRotationName(t *testing.T) {
	tests := map[uint16]string{
		randr.RotationRotate0:   "normal",
		randr.RotationRotate90:  "90",
		randr.RotationRotate180: "180",
		randr.RotationRotate270: "270",
	}
	for rot, want := range tests {
		if got := rotationName(rot); got != want {
			t.Fatalf("rotation %d: expected %q, got %q", rot, want, got)
		}
	}
}
