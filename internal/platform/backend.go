// Package platform provides the hosts the window manager core runs on: the
// X11 backend for real sessions and a headless host for the simulator and
// tests.
package platform

import (
	"github.com/1broseidon/gateway/internal/hotkeys"
	"github.com/1broseidon/gateway/internal/wm"
)

// Backend is a display server host the daemon can drive.
type Backend interface {
	wm.Host
	// Events delivers inbound notifications. It is closed when Run returns.
	Events() <-chan wm.Event
	// GrabKeys installs key grabs for the binding table.
	GrabKeys(bindings []hotkeys.Binding) error
	// Start connects event handlers and announces existing outputs and
	// windows. It must be called before Run.
	Start() error
	// Run pumps display server events until Stop is called.
	Run()
	Stop()
	Disconnect()
}
