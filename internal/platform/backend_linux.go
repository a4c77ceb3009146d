//go:build linux

package platform

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/1broseidon/gateway/internal/grab"
	"github.com/1broseidon/gateway/internal/hotkeys"
	"github.com/1broseidon/gateway/internal/tiling"
	"github.com/1broseidon/gateway/internal/wm"
	"github.com/1broseidon/gateway/internal/x11"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	wmName           = "gateway"
	eventBufferSize  = 1024
	clientEventMask  = xproto.EventMaskPropertyChange | xproto.EventMaskEnterWindow
	logoMoveButton   = "Mod4-1"
	logoResizeButton = "Mod4-3"
)

// Logo+right-drag resizes from the bottom-right corner.
const resizeCornerEdges = grab.EdgeBottom | grab.EdgeRight

type clientKind int

const (
	clientView clientKind = iota
	clientOverride
	clientLayer
)

type client struct {
	kind       clientKind
	fullscreen bool
}

// LinuxBackend hosts the window manager on an X11 display. X events are
// translated into wm events on the xevent goroutine; Host calls arrive from
// the daemon loop.
type LinuxBackend struct {
	conn   *x11.Connection
	keys   *hotkeys.Handler
	events chan wm.Event
	logger *slog.Logger

	mu        sync.Mutex
	clients   map[xproto.Window]*client
	outputs   map[wm.OutputID]x11.Monitor
	kbFocus   wm.SurfaceID
	ptrFocus  wm.SurfaceID
	lastStack map[wm.OutputID][]xproto.Window
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend opens the display, takes over window management and
// publishes EWMH support. It fails if another window manager is running.
func NewLinuxBackend(logger *slog.Logger) (*LinuxBackend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	if err := conn.BecomeWM(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.InitRandR(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.PublishSupport(wmName); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to publish EWMH support: %w", err)
	}

	b := &LinuxBackend{
		conn:      conn,
		events:    make(chan wm.Event, eventBufferSize),
		logger:    logger,
		clients:   make(map[xproto.Window]*client),
		outputs:   make(map[wm.OutputID]x11.Monitor),
		lastStack: make(map[wm.OutputID][]xproto.Window),
	}
	b.keys = hotkeys.NewHandler(conn.XUtil, conn.Root, func(k hotkeys.Key) {
		b.emit(wm.KeyEvent{Key: k})
	})
	return b, nil
}

// Events delivers translated X events.
func (b *LinuxBackend) Events() <-chan wm.Event {
	return b.events
}

// GrabKeys installs grabs for the binding table, VT keys and media keys.
func (b *LinuxBackend) GrabKeys(bindings []hotkeys.Binding) error {
	return b.keys.Grab(bindings)
}

// Start connects the X callbacks, adopts existing windows and announces
// the current outputs. Call it before Run.
func (b *LinuxBackend) Start() error {
	xu := b.conn.XUtil
	root := b.conn.Root

	b.keys.Connect()

	xevent.MapRequestFun(func(xu *xgbutil.XUtil, ev xevent.MapRequestEvent) {
		b.manage(ev.Window)
	}).Connect(xu, root)
	xevent.ConfigureRequestFun(b.onConfigureRequest).Connect(xu, root)
	xevent.CreateNotifyFun(func(xu *xgbutil.XUtil, ev xevent.CreateNotifyEvent) {
		if ev.OverrideRedirect {
			b.adoptOverride(ev.Window, x11.Geometry{X: int(ev.X), Y: int(ev.Y), Width: int(ev.Width), Height: int(ev.Height)})
		}
	}).Connect(xu, root)
	xevent.MapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		if b.kindOf(ev.Window) == clientOverride {
			b.emit(wm.SurfaceMapped{Surface: wm.SurfaceID(ev.Window)})
			b.emit(wm.SurfaceCommitted{Surface: wm.SurfaceID(ev.Window)})
		}
	}).Connect(xu, root)
	xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		b.onUnmap(ev.Window)
	}).Connect(xu, root)
	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		b.onDestroy(ev.Window)
	}).Connect(xu, root)
	xevent.ClientMessageFun(b.onClientMessage).Connect(xu, root)
	xevent.MotionNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		b.emit(wm.PointerMoved{Absolute: true, X: float64(ev.RootX), Y: float64(ev.RootY)})
	}).Connect(xu, root)

	if err := b.connectDrag(logoMoveButton, false); err != nil {
		return err
	}
	if err := b.connectDrag(logoResizeButton, true); err != nil {
		return err
	}

	xevent.HookFun(func(xu *xgbutil.XUtil, ev interface{}) bool {
		if _, ok := ev.(randr.ScreenChangeNotifyEvent); ok {
			b.syncOutputs()
		}
		return true
	}).Connect(xu)

	b.syncOutputs()
	b.adoptExisting()
	return nil
}

// Run pumps X events until Stop. The events channel is closed on return.
func (b *LinuxBackend) Run() {
	b.conn.EventLoop()
	close(b.events)
}

// Stop makes Run return.
func (b *LinuxBackend) Stop() {
	b.conn.Quit()
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	b.keys.Ungrab()
	b.conn.Close()
}

func (b *LinuxBackend) emit(ev wm.Event) {
	b.events <- ev
}

func (b *LinuxBackend) kindOf(win xproto.Window) clientKind {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.clients[win]; ok {
		return c.kind
	}
	return -1
}

func (b *LinuxBackend) adoptExisting() {
	children, err := b.conn.Children()
	if err != nil {
		b.logger.Warn("failed to list existing windows", "error", err)
		return
	}
	for _, win := range children {
		attrs, err := xproto.GetWindowAttributes(b.conn.XUtil.Conn(), win).Reply()
		if err != nil || attrs.MapState != xproto.MapStateViewable {
			continue
		}
		if attrs.OverrideRedirect {
			geom, err := b.conn.WindowGeometry(win)
			if err != nil {
				continue
			}
			b.adoptOverride(win, geom)
			b.emit(wm.SurfaceMapped{Surface: wm.SurfaceID(win)})
			b.emit(wm.SurfaceCommitted{Surface: wm.SurfaceID(win)})
			continue
		}
		b.manage(win)
	}
}

func (b *LinuxBackend) adoptOverride(win xproto.Window, geom x11.Geometry) {
	b.mu.Lock()
	if _, ok := b.clients[win]; ok {
		b.mu.Unlock()
		return
	}
	b.clients[win] = &client{kind: clientOverride}
	b.mu.Unlock()

	b.emit(wm.SurfaceCreated{
		Surface:  wm.SurfaceID(win),
		Kind:     wm.KindForeign,
		Override: true,
		Reported: rectFromX(geom),
		Title:    b.conn.Title(win),
		AppID:    b.conn.AppID(win),
	})
}

// manage handles a MapRequest: docks, desktops and notifications become
// layer surfaces, everything else a tiled view.
func (b *LinuxBackend) manage(win xproto.Window) {
	surface := wm.SurfaceID(win)

	b.mu.Lock()
	existing, known := b.clients[win]
	b.mu.Unlock()
	if known {
		b.conn.MapWindow(win)
		if existing.kind == clientLayer {
			b.emit(wm.LayerMapped{Surface: surface})
		} else {
			b.emit(wm.SurfaceMapped{Surface: surface})
		}
		return
	}

	geom, err := b.conn.WindowGeometry(win)
	if err != nil {
		b.logger.Debug("ignoring map request for vanished window", "window", win, "error", err)
		return
	}

	screenHeight := int(b.conn.XUtil.Screen().HeightInPixels)
	if place, ok := placementFor(b.conn.Type(win), geom, screenHeight); ok {
		b.mu.Lock()
		b.clients[win] = &client{kind: clientLayer}
		b.mu.Unlock()

		b.emit(wm.LayerCreated{
			Surface: surface,
			Layer:   place.Layer,
			Anchor:  place.Anchor,
			Width:   geom.Width,
			Height:  geom.Height,
		})
		b.conn.MapWindow(win)
		b.emit(wm.LayerMapped{Surface: surface})
		return
	}

	b.mu.Lock()
	b.clients[win] = &client{kind: clientView}
	b.mu.Unlock()

	xwindow.New(b.conn.XUtil, win).Listen(clientEventMask)
	xevent.PropertyNotifyFun(b.onProperty).Connect(b.conn.XUtil, win)
	xevent.ClientMessageFun(b.onClientMessage).Connect(b.conn.XUtil, win)
	xevent.EnterNotifyFun(func(xu *xgbutil.XUtil, ev xevent.EnterNotifyEvent) {
		b.emit(wm.PointerMoved{Absolute: true, X: float64(ev.RootX), Y: float64(ev.RootY)})
	}).Connect(b.conn.XUtil, win)

	b.emit(wm.SurfaceCreated{
		Surface:  surface,
		Kind:     wm.KindToplevel,
		Reported: rectFromX(geom),
		Hints:    hintsFromX(b.conn.NormalHints(win)),
		Title:    b.conn.Title(win),
		AppID:    b.conn.AppID(win),
	})
	b.conn.MapWindow(win)
	b.emit(wm.SurfaceMapped{Surface: surface})
	b.emit(wm.SurfaceCommitted{Surface: surface})
	b.publishClients()
}

func (b *LinuxBackend) onConfigureRequest(xu *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
	kind := b.kindOf(ev.Window)
	if kind == clientView {
		b.emit(wm.SurfaceConfigured{
			Surface:  wm.SurfaceID(ev.Window),
			Reported: tiling.Rect{X: int(ev.X), Y: int(ev.Y), Width: int(ev.Width), Height: int(ev.Height)},
			Hints:    hintsFromX(b.conn.NormalHints(ev.Window)),
		})
		return
	}
	// Unmanaged and not yet mapped windows get what they ask for.
	flags := int(ev.ValueMask) &^ (xproto.ConfigWindowSibling | xproto.ConfigWindowStackMode)
	xwindow.New(xu, ev.Window).Configure(flags, int(ev.X), int(ev.Y), int(ev.Width), int(ev.Height), 0, 0)
}

func (b *LinuxBackend) onUnmap(win xproto.Window) {
	// The server reverts input focus away from an unmapped window.
	b.dropFocus(wm.SurfaceID(win))

	switch b.kindOf(win) {
	case clientView, clientOverride:
		b.emit(wm.SurfaceUnmapped{Surface: wm.SurfaceID(win)})
	case clientLayer:
		b.emit(wm.LayerUnmapped{Surface: wm.SurfaceID(win)})
	}
}

func (b *LinuxBackend) onDestroy(win xproto.Window) {
	b.mu.Lock()
	c, ok := b.clients[win]
	delete(b.clients, win)
	b.mu.Unlock()
	b.dropFocus(wm.SurfaceID(win))
	if !ok {
		return
	}

	xevent.Detach(b.conn.XUtil, win)
	if c.kind == clientLayer {
		b.emit(wm.LayerDestroyed{Surface: wm.SurfaceID(win)})
		return
	}
	b.emit(wm.SurfaceDestroyed{Surface: wm.SurfaceID(win)})
	b.publishClients()
}

func (b *LinuxBackend) dropFocus(s wm.SurfaceID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.kbFocus == s {
		b.kbFocus = 0
	}
	if b.ptrFocus == s {
		b.ptrFocus = 0
	}
}

func (b *LinuxBackend) onProperty(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	name, err := xprop.AtomName(xu, ev.Atom)
	if err != nil {
		return
	}
	surface := wm.SurfaceID(ev.Window)
	switch name {
	case "WM_NAME", "_NET_WM_NAME":
		b.emit(wm.SurfaceRetitled{Surface: surface, Title: b.conn.Title(ev.Window)})
	case "WM_NORMAL_HINTS":
		geom, err := b.conn.WindowGeometry(ev.Window)
		if err != nil {
			return
		}
		b.emit(wm.SurfaceConfigured{
			Surface:  surface,
			Reported: rectFromX(geom),
			Hints:    hintsFromX(b.conn.NormalHints(ev.Window)),
		})
	}
}

func (b *LinuxBackend) onClientMessage(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
	name, err := xprop.AtomName(xu, ev.Type)
	if err != nil {
		return
	}
	data := ev.Data.Data32
	surface := wm.SurfaceID(ev.Window)

	switch name {
	case "_NET_WM_STATE":
		if len(data) < 3 {
			return
		}
		for _, atom := range data[1:3] {
			if atom == 0 {
				continue
			}
			state, err := xprop.AtomName(xu, xproto.Atom(atom))
			if err != nil || state != "_NET_WM_STATE_FULLSCREEN" {
				continue
			}
			b.mu.Lock()
			c, ok := b.clients[ev.Window]
			current := ok && c.fullscreen
			b.mu.Unlock()
			if !ok {
				return
			}
			b.emit(wm.FullscreenRequested{Surface: surface, Fullscreen: applyStateAction(data[0], current)})
		}
	case "_NET_WM_MOVERESIZE":
		if len(data) < 3 {
			return
		}
		mode, edges, ok := moveResizeRequest(data[2])
		if !ok {
			return
		}
		if mode == grab.ModeMove {
			b.emit(wm.MoveRequested{Surface: surface})
		} else {
			b.emit(wm.ResizeRequested{Surface: surface, Edges: edges})
		}
	}
}

// connectDrag turns a Logo+button press on a client into an interactive
// move or bottom-right resize.
func (b *LinuxBackend) connectDrag(buttonStr string, resize bool) error {
	press := mousebind.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		if ev.Child == 0 || b.kindOf(ev.Child) != clientView {
			return
		}
		surface := wm.SurfaceID(ev.Child)
		b.emit(wm.PointerMoved{Absolute: true, X: float64(ev.RootX), Y: float64(ev.RootY)})
		if resize {
			b.emit(wm.ResizeRequested{Surface: surface, Edges: resizeCornerEdges})
		} else {
			b.emit(wm.MoveRequested{Surface: surface})
		}
	})
	if err := press.Connect(b.conn.XUtil, b.conn.Root, buttonStr, false, true); err != nil {
		return fmt.Errorf("grab %s: %w", buttonStr, err)
	}

	release := mousebind.ButtonReleaseFun(func(xu *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		b.emit(wm.PointerButton{Button: uint32(ev.Detail), Pressed: false})
	})
	if err := release.Connect(b.conn.XUtil, b.conn.Root, buttonStr, false, false); err != nil {
		return fmt.Errorf("grab %s release: %w", buttonStr, err)
	}
	return nil
}

// syncOutputs re-enumerates RandR outputs and reports the difference.
func (b *LinuxBackend) syncOutputs() {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		b.logger.Warn("failed to enumerate outputs", "error", err)
		return
	}

	b.mu.Lock()
	added, removed := diffOutputs(b.outputs, monitors)
	for _, id := range removed {
		delete(b.outputs, id)
		delete(b.lastStack, id)
	}
	for _, m := range added {
		b.outputs[wm.OutputID(m.Output)] = m
	}
	b.mu.Unlock()

	for _, id := range removed {
		b.emit(wm.OutputRemoved{Output: id})
	}
	for _, m := range added {
		b.logger.Info("output detected", "name", m.Name, "width", m.Width, "height", m.Height, "refresh_mhz", m.Refresh)
		b.emit(wm.OutputAdded{
			Output: wm.OutputID(m.Output),
			Name:   m.Name,
			X:      m.X,
			Y:      m.Y,
			Modes:  modesFromMonitor(m),
		})
	}
}

func (b *LinuxBackend) publishClients() {
	b.mu.Lock()
	var wins []xproto.Window
	for win, c := range b.clients {
		if c.kind == clientView {
			wins = append(wins, win)
		}
	}
	b.mu.Unlock()
	slices.Sort(wins)
	if err := b.conn.SetClientList(wins); err != nil {
		b.logger.Debug("failed to publish client list", "error", err)
	}
}

// Configure moves and resizes a client.
func (b *LinuxBackend) Configure(s wm.SurfaceID, rect tiling.Rect) error {
	return b.conn.MoveResizeWindow(xproto.Window(s), rect.X, rect.Y, rect.Width, rect.Height)
}

// Activate is a no-op: X clients learn activation from focus events.
func (b *LinuxBackend) Activate(s wm.SurfaceID, active bool) error {
	return nil
}

func (b *LinuxBackend) KeyboardEnter(s wm.SurfaceID) error {
	if err := b.conn.FocusWindow(xproto.Window(s)); err != nil {
		return err
	}
	b.mu.Lock()
	b.kbFocus = s
	b.mu.Unlock()
	return nil
}

func (b *LinuxBackend) KeyboardFocus() wm.SurfaceID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.kbFocus
}

func (b *LinuxBackend) PointerFocus() wm.SurfaceID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ptrFocus
}

func (b *LinuxBackend) PointerEnter(s wm.SurfaceID, sx, sy float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ptrFocus = s
}

func (b *LinuxBackend) PointerClear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ptrFocus = 0
}

func (b *LinuxBackend) WarpPointer(x, y int) error {
	return b.conn.WarpPointer(x, y)
}

// SetCursor sets the root cursor. Core X11 cannot hide the cursor, so an
// empty name leaves it unchanged.
func (b *LinuxBackend) SetCursor(name string) {
	if name == "" {
		return
	}
	if err := b.conn.SetRootCursor(name); err != nil {
		b.logger.Debug("failed to set cursor", "cursor", name, "error", err)
	}
}

func (b *LinuxBackend) Close(s wm.SurfaceID) error {
	return b.conn.CloseWindow(xproto.Window(s))
}

func (b *LinuxBackend) SetFullscreen(s wm.SurfaceID, on bool) error {
	b.mu.Lock()
	if c, ok := b.clients[xproto.Window(s)]; ok {
		c.fullscreen = on
	}
	b.mu.Unlock()
	return b.conn.SetFullscreenState(xproto.Window(s), on)
}

// SetMode switches an output to the RandR mode matching m.
func (b *LinuxBackend) SetMode(o wm.OutputID, m wm.Mode) error {
	b.mu.Lock()
	mon, ok := b.outputs[o]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("output %d not found", o)
	}
	for _, md := range mon.Modes {
		if md.Width == m.Width && md.Height == m.Height && md.Refresh == m.Refresh {
			return b.conn.SetMode(mon, md.ID)
		}
	}
	// Current geometry without RandR mode info needs no change.
	return nil
}

func (b *LinuxBackend) ConfigureLayer(s wm.SurfaceID, width, height int) error {
	xwindow.New(b.conn.XUtil, xproto.Window(s)).Resize(width, height)
	return nil
}

// ForwardKey delivers a grabbed key the core did not consume to the
// focused client.
func (b *LinuxBackend) ForwardKey(k hotkeys.Key) {
	target := xproto.Window(b.KeyboardFocus())
	if target == 0 {
		return
	}
	detail := xproto.Keycode(k.Code + 8)
	var payload string
	if k.Pressed {
		ev := xproto.KeyPressEvent{Detail: detail, Root: b.conn.Root, Event: target, State: uint16(k.Mods), SameScreen: true}
		payload = string(ev.Bytes())
	} else {
		ev := xproto.KeyReleaseEvent{Detail: detail, Root: b.conn.Root, Event: target, State: uint16(k.Mods), SameScreen: true}
		payload = string(ev.Bytes())
	}
	mask := uint32(xproto.EventMaskKeyPress | xproto.EventMaskKeyRelease)
	if err := xproto.SendEventChecked(b.conn.XUtil.Conn(), true, target, mask, payload).Check(); err != nil {
		b.logger.Debug("failed to forward key", "code", k.Code, "error", err)
	}
}

// ForwardButton is a no-op: only Logo drags are grabbed and those are
// consumed; every other button reaches clients directly.
func (b *LinuxBackend) ForwardButton(button uint32, pressed bool) {}

// ForwardAxis is a no-op: scroll arrives at clients as buttons 4 to 7.
func (b *LinuxBackend) ForwardAxis(vertical bool, delta float64) {}

// Present applies a frame's stacking order. Layer surfaces are positioned
// here since their rectangles are only known to the draw list. The stack is
// only touched when the order changed.
func (b *LinuxBackend) Present(o wm.OutputID, entries []wm.DrawEntry) error {
	b.mu.Lock()
	mon, ok := b.outputs[o]
	last := b.lastStack[o]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("output %d not found", o)
	}

	order := make([]xproto.Window, 0, len(entries))
	for _, e := range entries {
		if e.Kind == wm.DrawDim {
			continue
		}
		win := xproto.Window(e.Surface)
		if e.Kind == wm.DrawLayer {
			r := e.Rect.Translate(mon.X, mon.Y)
			if err := b.conn.MoveResizeWindow(win, r.X, r.Y, r.Width, r.Height); err != nil {
				b.logger.Debug("failed to place layer surface", "surface", e.Surface, "error", err)
			}
		}
		order = append(order, win)
	}
	if slices.Equal(order, last) {
		return nil
	}

	var below xproto.Window
	for _, win := range order {
		b.conn.RaiseAbove(win, below)
		below = win
	}

	b.mu.Lock()
	b.lastStack[o] = order
	b.mu.Unlock()
	return nil
}

// SwitchVT runs chvt; the X server owns the VT so this needs privileges.
func (b *LinuxBackend) SwitchVT(n int) error {
	return SpawnShell(fmt.Sprintf("chvt %d", n))
}

func (b *LinuxBackend) Spawn(command string) error {
	return SpawnShell(command)
}

// LiveSurfaces lists the root window's children.
func (b *LinuxBackend) LiveSurfaces() ([]wm.SurfaceID, error) {
	children, err := b.conn.Children()
	if err != nil {
		return nil, err
	}
	out := make([]wm.SurfaceID, 0, len(children))
	for _, win := range children {
		out = append(out, wm.SurfaceID(win))
	}
	return out, nil
}
