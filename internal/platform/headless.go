package platform

import (
	"strings"
	"sync"

	"github.com/1broseidon/gateway/internal/hotkeys"
	"github.com/1broseidon/gateway/internal/tiling"
	"github.com/1broseidon/gateway/internal/wm"
)

// Headless is an in-memory host. Clients it creates behave well: they map
// immediately, draw at once and honour close requests. Events it generates
// are queued and collected with Drain.
type Headless struct {
	mu sync.Mutex

	nextSurface wm.SurfaceID
	live        map[wm.SurfaceID]bool
	titles      map[wm.SurfaceID]string
	configured  map[wm.SurfaceID]tiling.Rect
	fullscreen  map[wm.SurfaceID]bool
	frames      map[wm.OutputID][]wm.DrawEntry

	kbFocus  wm.SurfaceID
	ptrFocus wm.SurfaceID
	cursor   string
	warpX    int
	warpY    int
	vt       int
	spawned  []string
	keys     []hotkeys.Key

	pending []wm.Event
}

var _ wm.Host = (*Headless)(nil)

// NewHeadless creates an empty headless host.
func NewHeadless() *Headless {
	return &Headless{
		nextSurface: 0x400000,
		live:        make(map[wm.SurfaceID]bool),
		titles:      make(map[wm.SurfaceID]string),
		configured:  make(map[wm.SurfaceID]tiling.Rect),
		fullscreen:  make(map[wm.SurfaceID]bool),
		frames:      make(map[wm.OutputID][]wm.DrawEntry),
	}
}

// AddWindow queues a new toplevel that maps and draws right away.
func (h *Headless) AddWindow(title, appID string) wm.SurfaceID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.addWindowLocked(title, appID)
}

func (h *Headless) addWindowLocked(title, appID string) wm.SurfaceID {
	h.nextSurface++
	s := h.nextSurface
	h.live[s] = true
	h.titles[s] = title
	h.pending = append(h.pending,
		wm.SurfaceCreated{Surface: s, Kind: wm.KindToplevel, Title: title, AppID: appID},
		wm.SurfaceMapped{Surface: s},
		wm.SurfaceCommitted{Surface: s},
	)
	return s
}

// AddOutput queues a new output with a single mode.
func (h *Headless) AddOutput(id wm.OutputID, name string, x, width, height, refresh int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = append(h.pending, wm.OutputAdded{
		Output: id,
		Name:   name,
		X:      x,
		Modes:  []wm.Mode{{Width: width, Height: height, Refresh: refresh}},
	})
}

// RemoveOutput queues an output removal.
func (h *Headless) RemoveOutput(id wm.OutputID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = append(h.pending, wm.OutputRemoved{Output: id})
	delete(h.frames, id)
}

// Vanish drops a surface without telling the core, as a crashed client
// would when the destroy notification is lost.
func (h *Headless) Vanish(s wm.SurfaceID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.live, s)
}

// Hide unmaps a client without destroying it. The server drops input
// focus from an unmapped window, so the host does too.
func (h *Headless) Hide(s wm.SurfaceID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.live[s] {
		return
	}
	h.dropFocusLocked(s)
	h.pending = append(h.pending, wm.SurfaceUnmapped{Surface: s})
}

// Show maps a hidden client again.
func (h *Headless) Show(s wm.SurfaceID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.live[s] {
		return
	}
	h.pending = append(h.pending, wm.SurfaceMapped{Surface: s}, wm.SurfaceCommitted{Surface: s})
}

func (h *Headless) dropFocusLocked(s wm.SurfaceID) {
	if h.kbFocus == s {
		h.kbFocus = 0
	}
	if h.ptrFocus == s {
		h.ptrFocus = 0
	}
}

// Drain returns and clears the queued events.
func (h *Headless) Drain() []wm.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.pending
	h.pending = nil
	return out
}

// Title returns the title a surface was created with.
func (h *Headless) Title(s wm.SurfaceID) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.titles[s]
}

// Frame returns the last presented draw list for an output.
func (h *Headless) Frame(o wm.OutputID) []wm.DrawEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]wm.DrawEntry(nil), h.frames[o]...)
}

// Configured returns the last rectangle sent to a surface.
func (h *Headless) Configured(s wm.SurfaceID) (tiling.Rect, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.configured[s]
	return r, ok
}

// Spawned lists every command passed to Spawn.
func (h *Headless) Spawned() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.spawned...)
}

// Forwarded lists every key passed through to clients.
func (h *Headless) Forwarded() []hotkeys.Key {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]hotkeys.Key(nil), h.keys...)
}

// VT returns the last virtual terminal switched to.
func (h *Headless) VT() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.vt
}

// CursorName returns the last cursor image set.
func (h *Headless) CursorName() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}

func (h *Headless) Configure(s wm.SurfaceID, rect tiling.Rect) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.configured[s] = rect
	return nil
}

func (h *Headless) Activate(s wm.SurfaceID, active bool) error { return nil }

func (h *Headless) KeyboardEnter(s wm.SurfaceID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.kbFocus = s
	return nil
}

func (h *Headless) KeyboardFocus() wm.SurfaceID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.kbFocus
}

func (h *Headless) PointerFocus() wm.SurfaceID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ptrFocus
}

func (h *Headless) PointerEnter(s wm.SurfaceID, sx, sy float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ptrFocus = s
}

func (h *Headless) PointerClear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ptrFocus = 0
}

func (h *Headless) WarpPointer(x, y int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.warpX, h.warpY = x, y
	return nil
}

func (h *Headless) SetCursor(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cursor = name
}

// Close honours the request at once: the client unmaps and is destroyed.
func (h *Headless) Close(s wm.SurfaceID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.live[s] {
		return nil
	}
	delete(h.live, s)
	delete(h.configured, s)
	h.dropFocusLocked(s)
	h.pending = append(h.pending, wm.SurfaceUnmapped{Surface: s}, wm.SurfaceDestroyed{Surface: s})
	return nil
}

func (h *Headless) SetFullscreen(s wm.SurfaceID, on bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fullscreen[s] = on
	return nil
}

func (h *Headless) SetMode(o wm.OutputID, m wm.Mode) error { return nil }

func (h *Headless) ConfigureLayer(s wm.SurfaceID, width, height int) error { return nil }

func (h *Headless) ForwardKey(k hotkeys.Key) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys = append(h.keys, k)
}

func (h *Headless) ForwardButton(button uint32, pressed bool) {}

func (h *Headless) ForwardAxis(vertical bool, delta float64) {}

func (h *Headless) Present(o wm.OutputID, entries []wm.DrawEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames[o] = append([]wm.DrawEntry(nil), entries...)
	return nil
}

func (h *Headless) SwitchVT(n int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.vt = n
	return nil
}

// Spawn records the command and starts a window titled after its program.
func (h *Headless) Spawn(command string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.spawned = append(h.spawned, command)
	title := command
	if fields := strings.Fields(command); len(fields) > 0 {
		title = fields[0]
	}
	h.addWindowLocked(title, title)
	return nil
}

func (h *Headless) LiveSurfaces() ([]wm.SurfaceID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]wm.SurfaceID, 0, len(h.live))
	for s := range h.live {
		out = append(out, s)
	}
	return out, nil
}
