package control

// Keycode is an Android KEYCODE integer as injected via RemoteKeyInject.
type Keycode int32

// Keycodes a remote control needs to reach; not the full Android KEYCODE
// space, just the subset a TV remote exposes.
const (
	KeycodeHome       Keycode = 3
	KeycodeBack       Keycode = 4
	KeycodeDpadUp     Keycode = 19
	KeycodeDpadDown   Keycode = 20
	KeycodeDpadLeft   Keycode = 21
	KeycodeDpadRight  Keycode = 22
	KeycodeDpadCenter Keycode = 23
	KeycodeVolumeUp   Keycode = 24
	KeycodeVolumeDown Keycode = 25
	KeycodePower      Keycode = 26
	KeycodeSearch     Keycode = 84
	KeycodePlayPause  Keycode = 85
	KeycodeMute       Keycode = 164
)

var keycodesByName = map[string]Keycode{
	"home":        KeycodeHome,
	"back":        KeycodeBack,
	"dpad_up":     KeycodeDpadUp,
	"up":          KeycodeDpadUp,
	"dpad_down":   KeycodeDpadDown,
	"down":        KeycodeDpadDown,
	"dpad_left":   KeycodeDpadLeft,
	"left":        KeycodeDpadLeft,
	"dpad_right":  KeycodeDpadRight,
	"right":       KeycodeDpadRight,
	"dpad_center": KeycodeDpadCenter,
	"select":      KeycodeDpadCenter,
	"ok":          KeycodeDpadCenter,
	"volume_up":   KeycodeVolumeUp,
	"vol_up":      KeycodeVolumeUp,
	"volume_down": KeycodeVolumeDown,
	"vol_down":    KeycodeVolumeDown,
	"power":       KeycodePower,
	"search":      KeycodeSearch,
	"play_pause":  KeycodePlayPause,
	"play":        KeycodePlayPause,
	"mute":        KeycodeMute,
}

// ParseKeycode resolves a human-typed key name (case-sensitive, lowercase)
// to its Android keycode.
func ParseKeycode(name string) (Keycode, bool) {
	kc, ok := keycodesByName[name]
	return kc, ok
}
