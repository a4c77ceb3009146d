package x11

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Mode is a RandR display mode. Refresh is in mHz.
type Mode struct {
	ID      randr.Mode
	Width   int
	Height  int
	Refresh int
}

// Monitor represents a physical display driven by a CRTC
type Monitor struct {
	Output    randr.Output
	Crtc      randr.Crtc
	Name      string
	X         int
	Y         int
	Width     int
	Height    int
	Refresh   int
	Transform string
	// Modes lists the output's modes, preferred first.
	Modes []Mode
}

// InitRandR initializes the extension and asks for screen change events on
// the root window.
func (c *Connection) InitRandR() error {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return fmt.Errorf("randr init failed: %w", err)
	}
	mask := uint16(randr.NotifyMaskScreenChange | randr.NotifyMaskCrtcChange | randr.NotifyMaskOutputChange)
	if err := randr.SelectInputChecked(c.XUtil.Conn(), c.Root, mask).Check(); err != nil {
		return fmt.Errorf("randr select input failed: %w", err)
	}
	return nil
}

// GetMonitors retrieves all active monitors using XRandR, ordered by output id.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResourcesCurrent(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	modeInfo := make(map[randr.Mode]randr.ModeInfo, len(resources.Modes))
	for _, m := range resources.Modes {
		modeInfo[randr.Mode(m.Id)] = m
	}

	var monitors []Monitor

	// Query each CRTC for active monitors
	for _, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		mon := Monitor{
			Output:    crtcInfo.Outputs[0],
			Crtc:      crtc,
			Name:      fmt.Sprintf("CRTC-%d", crtc),
			X:         int(crtcInfo.X),
			Y:         int(crtcInfo.Y),
			Width:     int(crtcInfo.Width),
			Height:    int(crtcInfo.Height),
			Transform: rotationName(crtcInfo.Rotation),
		}
		if info, ok := modeInfo[crtcInfo.Mode]; ok {
			mon.Refresh = refreshMHz(info)
		}

		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), mon.Output, resources.ConfigTimestamp).Reply()
		if err == nil {
			mon.Name = string(outputInfo.Name)
			for _, id := range outputInfo.Modes {
				info, ok := modeInfo[id]
				if !ok {
					continue
				}
				mon.Modes = append(mon.Modes, Mode{
					ID:      id,
					Width:   int(info.Width),
					Height:  int(info.Height),
					Refresh: refreshMHz(info),
				})
			}
		}

		monitors = append(monitors, mon)
	}

	sort.Slice(monitors, func(i, j int) bool {
		return monitors[i].Output < monitors[j].Output
	})

	return monitors, nil
}

// SetMode switches a monitor's CRTC to mode, keeping position and rotation.
func (c *Connection) SetMode(mon Monitor, mode randr.Mode) error {
	crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), mon.Crtc, 0).Reply()
	if err != nil {
		return fmt.Errorf("failed to read crtc %d: %w", mon.Crtc, err)
	}
	if crtcInfo.Mode == mode {
		return nil
	}
	reply, err := randr.SetCrtcConfig(
		c.XUtil.Conn(),
		mon.Crtc,
		xproto.TimeCurrentTime,
		crtcInfo.Timestamp,
		crtcInfo.X,
		crtcInfo.Y,
		mode,
		crtcInfo.Rotation,
		crtcInfo.Outputs,
	).Reply()
	if err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", mon.Name, err)
	}
	if reply.Status != randr.SetConfigSuccess {
		return fmt.Errorf("failed to set mode on %s: status %d", mon.Name, reply.Status)
	}
	return nil
}

// refreshMHz derives the vertical refresh rate of a mode in mHz.
func refreshMHz(m randr.ModeInfo) int {
	total := uint64(m.Htotal) * uint64(m.Vtotal)
	if total == 0 {
		return 0
	}
	return int(uint64(m.DotClock) * 1000 / total)
}

func rotationName(rot uint16) string {
	switch {
	case rot&randr.RotationRotate90 != 0:
		return "90"
	case rot&randr.RotationRotate180 != 0:
		return "180"
	case rot&randr.RotationRotate270 != 0:
		return "270"
	default:
		return "normal"
	}
}
