package platform

import (
	"github.com/1broseidon/gateway/internal/grab"
	"github.com/1broseidon/gateway/internal/tiling"
	"github.com/1broseidon/gateway/internal/wm"
	"github.com/1broseidon/gateway/internal/x11"
)

// _NET_WM_MOVERESIZE directions.
const (
	moveResizeSizeTopLeft uint32 = iota
	moveResizeSizeTop
	moveResizeSizeTopRight
	moveResizeSizeRight
	moveResizeSizeBottomRight
	moveResizeSizeBottom
	moveResizeSizeBottomLeft
	moveResizeSizeLeft
	moveResizeMove
)

// moveResizeRequest maps a _NET_WM_MOVERESIZE direction to a grab.
func moveResizeRequest(direction uint32) (grab.Mode, grab.Edges, bool) {
	switch direction {
	case moveResizeSizeTopLeft:
		return grab.ModeResize, grab.EdgeTop | grab.EdgeLeft, true
	case moveResizeSizeTop:
		return grab.ModeResize, grab.EdgeTop, true
	case moveResizeSizeTopRight:
		return grab.ModeResize, grab.EdgeTop | grab.EdgeRight, true
	case moveResizeSizeRight:
		return grab.ModeResize, grab.EdgeRight, true
	case moveResizeSizeBottomRight:
		return grab.ModeResize, grab.EdgeBottom | grab.EdgeRight, true
	case moveResizeSizeBottom:
		return grab.ModeResize, grab.EdgeBottom, true
	case moveResizeSizeBottomLeft:
		return grab.ModeResize, grab.EdgeBottom | grab.EdgeLeft, true
	case moveResizeSizeLeft:
		return grab.ModeResize, grab.EdgeLeft, true
	case moveResizeMove:
		return grab.ModeMove, grab.EdgeNone, true
	default:
		return grab.ModePassthrough, grab.EdgeNone, false
	}
}

// applyStateAction resolves a _NET_WM_STATE action (0 remove, 1 add,
// 2 toggle) against the current value.
func applyStateAction(action uint32, current bool) bool {
	switch action {
	case 0:
		return false
	case 1:
		return true
	case 2:
		return !current
	default:
		return current
	}
}

// layerPlacement is how a non-normal window type is shown as a layer
// surface.
type layerPlacement struct {
	Layer  wm.Layer
	Anchor wm.Anchor
}

// placementFor maps a window type to a layer. Docks in the lower half of
// the screen anchor to the bottom edge. ok is false for normal windows.
func placementFor(t x11.WindowType, geom x11.Geometry, screenHeight int) (layerPlacement, bool) {
	switch t {
	case x11.TypeDesktop:
		return layerPlacement{
			Layer:  wm.LayerBackground,
			Anchor: wm.AnchorTop | wm.AnchorBottom | wm.AnchorLeft | wm.AnchorRight,
		}, true
	case x11.TypeDock:
		edge := wm.AnchorTop
		if geom.Y+geom.Height/2 > screenHeight/2 {
			edge = wm.AnchorBottom
		}
		return layerPlacement{
			Layer:  wm.LayerTop,
			Anchor: edge | wm.AnchorLeft | wm.AnchorRight,
		}, true
	case x11.TypeNotification:
		return layerPlacement{
			Layer:  wm.LayerOverlay,
			Anchor: wm.AnchorTop | wm.AnchorRight,
		}, true
	default:
		return layerPlacement{}, false
	}
}

func hintsFromX(h x11.SizeHints) tiling.SizeHints {
	return tiling.SizeHints{
		MinWidth:  h.MinWidth,
		MinHeight: h.MinHeight,
		MaxWidth:  h.MaxWidth,
		MaxHeight: h.MaxHeight,
	}
}

func rectFromX(g x11.Geometry) tiling.Rect {
	return tiling.Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

// modesFromMonitor lists a monitor's modes for OutputAdded. A monitor
// without mode information yields its current geometry.
func modesFromMonitor(m x11.Monitor) []wm.Mode {
	modes := make([]wm.Mode, 0, len(m.Modes))
	for _, md := range m.Modes {
		modes = append(modes, wm.Mode{Width: md.Width, Height: md.Height, Refresh: md.Refresh})
	}
	if len(modes) == 0 {
		modes = append(modes, wm.Mode{Width: m.Width, Height: m.Height, Refresh: m.Refresh})
	}
	return modes
}

// diffOutputs compares the known outputs with a fresh enumeration.
func diffOutputs(known map[wm.OutputID]x11.Monitor, current []x11.Monitor) (added []x11.Monitor, removed []wm.OutputID) {
	seen := make(map[wm.OutputID]bool, len(current))
	for _, m := range current {
		id := wm.OutputID(m.Output)
		seen[id] = true
		if _, ok := known[id]; !ok {
			added = append(added, m)
		}
	}
	for id := range known {
		if !seen[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}
