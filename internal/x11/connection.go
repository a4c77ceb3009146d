// Package x11 is the thin xgb/xgbutil layer the X11 host is built on: it
// becomes the window manager, enumerates RandR outputs, reads ICCCM and
// EWMH properties and issues window requests.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

// rootEventMask is what the window manager selects on the root window.
const rootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskPropertyChange |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskStructureNotify

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection establishes a connection to the X11 server and initializes required extensions
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	// Initialize keybind module (required for global hotkeys)
	keybind.Initialize(xu)
	mousebind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// BecomeWM selects SubstructureRedirect on the root window. Only one client
// may hold it, so failure means another window manager is running.
func (c *Connection) BecomeWM() error {
	err := xproto.ChangeWindowAttributesChecked(
		c.XUtil.Conn(),
		c.Root,
		xproto.CwEventMask,
		[]uint32{uint32(rootEventMask)},
	).Check()
	if err != nil {
		return fmt.Errorf("another window manager is already running: %w", err)
	}
	return nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit makes EventLoop return. The loop only checks for quit between
// events, so a client message is sent to the root window to wake it.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)

	atom, err := xprop.Atm(c.XUtil, "_GATEWAY_WAKE")
	if err != nil {
		return
	}
	cm, err := xevent.NewClientMessage(32, c.Root, atom)
	if err != nil {
		return
	}
	xproto.SendEvent(c.XUtil.Conn(), false, c.Root, xproto.EventMaskSubstructureNotify, string(cm.Bytes()))
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
