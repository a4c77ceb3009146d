package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowType classifies a client window by its _NET_WM_WINDOW_TYPE.
type WindowType int

const (
	TypeNormal WindowType = iota
	TypeDesktop
	TypeDock
	TypeNotification
)

// Geometry is a window rectangle in root coordinates.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

// SizeHints are the WM_NORMAL_HINTS minimum and maximum sizes. Zero means
// unset.
type SizeHints struct {
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, []uint32{
		uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height),
	}).Check()
}

// RaiseAbove restacks windowID directly above sibling, or to the top when
// sibling is 0.
func (c *Connection) RaiseAbove(windowID, sibling xproto.Window) {
	win := xwindow.New(c.XUtil, windowID)
	if sibling == 0 {
		win.Stack(xproto.StackModeAbove)
		return
	}
	win.StackSibling(sibling, xproto.StackModeAbove)
}

// MapWindow maps a window.
func (c *Connection) MapWindow(windowID xproto.Window) {
	xwindow.New(c.XUtil, windowID).Map()
}

// FocusWindow gives keyboard focus to a window and publishes it as active.
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	if windowID == 0 {
		windowID = c.Root
	}
	err := xproto.SetInputFocusChecked(
		c.XUtil.Conn(),
		xproto.InputFocusPointerRoot,
		windowID,
		xproto.TimeCurrentTime,
	).Check()
	if err != nil {
		return fmt.Errorf("failed to focus window %d: %w", windowID, err)
	}
	if windowID == c.Root {
		return ewmh.ActiveWindowSet(c.XUtil, 0)
	}
	return ewmh.ActiveWindowSet(c.XUtil, windowID)
}

// CloseWindow requests graceful close via WM_DELETE_WINDOW, falling back to
// KillClient when the window does not take part in the protocol.
func (c *Connection) CloseWindow(windowID xproto.Window) error {
	protocols, err := icccm.WmProtocolsGet(c.XUtil, windowID)
	if err == nil {
		for _, p := range protocols {
			if p == "WM_DELETE_WINDOW" {
				return c.sendDelete(windowID)
			}
		}
	}
	return xproto.KillClientChecked(c.XUtil.Conn(), uint32(windowID)).Check()
}

func (c *Connection) sendDelete(windowID xproto.Window) error {
	deleteReply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len("WM_DELETE_WINDOW")), "WM_DELETE_WINDOW").Reply()
	if err != nil {
		return err
	}
	protocolsReply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len("WM_PROTOCOLS")), "WM_PROTOCOLS").Reply()
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   protocolsReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteReply.Atom), 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		windowID,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

// SetFullscreenState adds or removes _NET_WM_STATE_FULLSCREEN.
func (c *Connection) SetFullscreenState(windowID xproto.Window, on bool) error {
	states, _ := ewmh.WmStateGet(c.XUtil, windowID)
	out := make([]string, 0, len(states)+1)
	for _, s := range states {
		if s != "_NET_WM_STATE_FULLSCREEN" {
			out = append(out, s)
		}
	}
	if on {
		out = append(out, "_NET_WM_STATE_FULLSCREEN")
	}
	return ewmh.WmStateSet(c.XUtil, windowID, out)
}

// WarpPointer moves the pointer to root coordinates.
func (c *Connection) WarpPointer(x, y int) error {
	return xproto.WarpPointerChecked(c.XUtil.Conn(), 0, c.Root, 0, 0, 0, 0, int16(x), int16(y)).Check()
}

// SetRootCursor sets the cursor shown over the root window. Unknown names
// fall back to left_ptr.
func (c *Connection) SetRootCursor(name string) error {
	shape := uint16(xcursor.LeftPtr)
	switch name {
	case "fleur":
		shape = xcursor.Fleur
	case "bottom_right_corner":
		shape = xcursor.BottomRightCorner
	}
	cursor, err := xcursor.CreateCursor(c.XUtil, shape)
	if err != nil {
		return err
	}
	return xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), c.Root, xproto.CwCursor, []uint32{uint32(cursor)}).Check()
}

// Children lists the root window's children.
func (c *Connection) Children() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query window tree: %w", err)
	}
	return tree.Children, nil
}

// WindowGeometry returns a window's rectangle in root coordinates.
func (c *Connection) WindowGeometry(windowID xproto.Window) (Geometry, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Geometry{}, err
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// OverrideRedirect reports whether a window positions itself.
func (c *Connection) OverrideRedirect(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	return attrs.OverrideRedirect
}

// Type classifies a window from its _NET_WM_WINDOW_TYPE list.
func (c *Connection) Type(windowID xproto.Window) WindowType {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return TypeNormal
	}
	return classifyTypes(types)
}

func classifyTypes(types []string) WindowType {
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_DESKTOP":
			return TypeDesktop
		case "_NET_WM_WINDOW_TYPE_DOCK":
			return TypeDock
		case "_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return TypeNotification
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return TypeNormal
		}
	}
	return TypeNormal
}

// NormalHints reads the WM_NORMAL_HINTS size limits.
func (c *Connection) NormalHints(windowID xproto.Window) SizeHints {
	nh, err := icccm.WmNormalHintsGet(c.XUtil, windowID)
	if err != nil {
		return SizeHints{}
	}
	return hintsFromICCCM(nh)
}

func hintsFromICCCM(nh *icccm.NormalHints) SizeHints {
	var h SizeHints
	if nh.Flags&icccm.SizeHintPMinSize != 0 {
		h.MinWidth = int(nh.MinWidth)
		h.MinHeight = int(nh.MinHeight)
	}
	if nh.Flags&icccm.SizeHintPMaxSize != 0 {
		h.MaxWidth = int(nh.MaxWidth)
		h.MaxHeight = int(nh.MaxHeight)
	}
	return h
}

// Title returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) Title(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// AppID returns the WM_CLASS class.
func (c *Connection) AppID(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}
