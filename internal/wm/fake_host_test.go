package wm

import (
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/gateway/internal/config"
	"github.com/1broseidon/gateway/internal/hotkeys"
	"github.com/1broseidon/gateway/internal/tiling"
)

type warpCall struct{ x, y int }

// fakeHost records every call the core makes.
type fakeHost struct {
	configured map[SurfaceID]tiling.Rect
	configures int
	active     map[SurfaceID]bool
	kbFocus    SurfaceID
	ptrFocus   SurfaceID
	warps      []warpCall
	cursor     string
	cursorSets int
	closed     []SurfaceID
	fullscreen map[SurfaceID]bool
	modes      map[OutputID]Mode
	layerSizes map[SurfaceID][2]int
	keys       []hotkeys.Key
	buttons    []uint32
	axes       []float64
	presented  map[OutputID][]DrawEntry
	vts        []int
	spawned    []string
	live       []SurfaceID
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		configured: make(map[SurfaceID]tiling.Rect),
		active:     make(map[SurfaceID]bool),
		fullscreen: make(map[SurfaceID]bool),
		modes:      make(map[OutputID]Mode),
		layerSizes: make(map[SurfaceID][2]int),
		presented:  make(map[OutputID][]DrawEntry),
	}
}

func (h *fakeHost) Configure(s SurfaceID, rect tiling.Rect) error {
	h.configured[s] = rect
	h.configures++
	return nil
}

func (h *fakeHost) Activate(s SurfaceID, active bool) error {
	h.active[s] = active
	return nil
}

func (h *fakeHost) KeyboardEnter(s SurfaceID) error {
	h.kbFocus = s
	return nil
}

func (h *fakeHost) KeyboardFocus() SurfaceID { return h.kbFocus }
func (h *fakeHost) PointerFocus() SurfaceID  { return h.ptrFocus }

func (h *fakeHost) PointerEnter(s SurfaceID, sx, sy float64) { h.ptrFocus = s }
func (h *fakeHost) PointerClear()                           { h.ptrFocus = 0 }

func (h *fakeHost) WarpPointer(x, y int) error {
	h.warps = append(h.warps, warpCall{x, y})
	return nil
}

func (h *fakeHost) SetCursor(name string) {
	h.cursor = name
	h.cursorSets++
}

func (h *fakeHost) Close(s SurfaceID) error {
	h.closed = append(h.closed, s)
	return nil
}

func (h *fakeHost) SetFullscreen(s SurfaceID, on bool) error {
	h.fullscreen[s] = on
	return nil
}

func (h *fakeHost) SetMode(o OutputID, m Mode) error {
	h.modes[o] = m
	return nil
}

func (h *fakeHost) ConfigureLayer(s SurfaceID, width, height int) error {
	h.layerSizes[s] = [2]int{width, height}
	return nil
}

func (h *fakeHost) ForwardKey(k hotkeys.Key)                  { h.keys = append(h.keys, k) }
func (h *fakeHost) ForwardButton(button uint32, pressed bool) { h.buttons = append(h.buttons, button) }
func (h *fakeHost) ForwardAxis(vertical bool, delta float64)  { h.axes = append(h.axes, delta) }

func (h *fakeHost) Present(o OutputID, entries []DrawEntry) error {
	h.presented[o] = entries
	return nil
}

func (h *fakeHost) SwitchVT(n int) error {
	h.vts = append(h.vts, n)
	return nil
}

func (h *fakeHost) Spawn(command string) error {
	h.spawned = append(h.spawned, command)
	return nil
}

func (h *fakeHost) LiveSurfaces() ([]SurfaceID, error) {
	return append([]SurfaceID(nil), h.live...), nil
}

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *fakeHost) {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	host := newFakeHost()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := NewServer(cfg, host, logger)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s, host
}

// addOutput attaches a 1920x1080 output at x.
func addOutput(s *Server, id OutputID, x int) {
	s.Handle(OutputAdded{
		Output: id,
		Name:   "OUT-" + string(rune('A'+int(id)-1)),
		X:      x,
		Modes:  []Mode{{Width: 1920, Height: 1080, Refresh: 60000}},
	})
}

// mapToplevel creates and maps a native toplevel for surface.
func mapToplevel(t *testing.T, s *Server, surface SurfaceID) ViewID {
	t.Helper()
	s.Handle(SurfaceCreated{Surface: surface, Kind: KindToplevel})
	s.Handle(SurfaceMapped{Surface: surface})
	id, ok := s.ViewBySurface(surface)
	if !ok {
		t.Fatalf("expected view for surface %d", surface)
	}
	return id
}

func mustView(t *testing.T, s *Server, id ViewID) View {
	t.Helper()
	v, ok := s.View(id)
	if !ok {
		t.Fatalf("expected view %d to exist", id)
	}
	return v
}

func equalIDs(a, b []ViewID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
