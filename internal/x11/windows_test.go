package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/icccm"
)

func TestClassifyTypes(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  WindowType
	}{
		{name: "unset", types: nil, want: TypeNormal},
		{name: "normal", types: []string{"_NET_WM_WINDOW_TYPE_NORMAL"}, want: TypeNormal},
		{name: "desktop", types: []string{"_NET_WM_WINDOW_TYPE_DESKTOP"}, want: TypeDesktop},
		{name: "dock", types: []string{"_NET_WM_WINDOW_TYPE_DOCK"}, want: TypeDock},
		{name: "notification", types: []string{"_NET_WM_WINDOW_TYPE_NOTIFICATION"}, want: TypeNotification},
		{name: "first known wins", types: []string{"_KDE_NET_WM_WINDOW_TYPE_OVERRIDE", "_NET_WM_WINDOW_TYPE_DOCK", "_NET_WM_WINDOW_TYPE_NORMAL"}, want: TypeDock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyTypes(tt.types); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestHintsFromICCCM(t *testing.T) {
	nh := &icccm.NormalHints{
		Flags:     icccm.SizeHintPMinSize,
		MinWidth:  200,
		MinHeight: 100,
		MaxWidth:  50,
		MaxHeight: 50,
	}
	got := hintsFromICCCM(nh)
	want := SizeHints{MinWidth: 200, MinHeight: 100}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	nh.Flags |= icccm.SizeHintPMaxSize
	got = hintsFromICCCM(nh)
	want = SizeHints{MinWidth: 200, MinHeight: 100, MaxWidth: 50, MaxHeight: 50}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
