package hotkeys

// Keysym is an X keysym value.
type Keysym uint32

const (
	keysymSwitchVTBase Keysym = 0x1008FE00

	KeysymBrightnessUp   Keysym = 0x1008FF02
	KeysymBrightnessDown Keysym = 0x1008FF03
	KeysymVolumeLower    Keysym = 0x1008FF11
	KeysymVolumeMute     Keysym = 0x1008FF12
	KeysymVolumeRaise    Keysym = 0x1008FF13
)

// KeysymSwitchVT returns the XF86Switch_VT_n keysym.
func KeysymSwitchVT(n int) Keysym {
	return keysymSwitchVTBase + Keysym(n)
}

// VTForKeysym maps an XF86Switch_VT_n keysym to n (1..12).
func VTForKeysym(sym Keysym) (int, bool) {
	if sym <= keysymSwitchVTBase || sym > keysymSwitchVTBase+12 {
		return 0, false
	}
	return int(sym - keysymSwitchVTBase), true
}

// MediaKey is a brightness or volume key.
type MediaKey int

const (
	MediaNone MediaKey = iota
	MediaBrightnessUp
	MediaBrightnessDown
	MediaVolumeRaise
	MediaVolumeLower
	MediaVolumeMute
)

func (m MediaKey) String() string {
	switch m {
	case MediaBrightnessUp:
		return "brightness-up"
	case MediaBrightnessDown:
		return "brightness-down"
	case MediaVolumeRaise:
		return "volume-raise"
	case MediaVolumeLower:
		return "volume-lower"
	case MediaVolumeMute:
		return "volume-mute"
	default:
		return "none"
	}
}

// MediaForKeysym classifies a keysym as a media key.
func MediaForKeysym(sym Keysym) MediaKey {
	switch sym {
	case KeysymBrightnessUp:
		return MediaBrightnessUp
	case KeysymBrightnessDown:
		return MediaBrightnessDown
	case KeysymVolumeRaise:
		return MediaVolumeRaise
	case KeysymVolumeLower:
		return MediaVolumeLower
	case KeysymVolumeMute:
		return MediaVolumeMute
	default:
		return MediaNone
	}
}

// mediaKeyNames are the X keysym names grabbed without modifiers.
var mediaKeyNames = []string{
	"XF86MonBrightnessUp",
	"XF86MonBrightnessDown",
	"XF86AudioRaiseVolume",
	"XF86AudioLowerVolume",
	"XF86AudioMute",
}
