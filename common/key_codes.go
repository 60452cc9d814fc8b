package common

import "strconv"

// Key codes for the controls the renderer reacts to.
// Values match GLFW key codes, which use ASCII for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87 // W key (ASCII)
	KeyA     = 65 // A key (ASCII)
	KeyS     = 83 // S key (ASCII)
	KeyD     = 68 // D key (ASCII)
	KeySpace = 32 // Spacebar (ASCII)
	KeyEsc   = 256
)

// Arrow and modifier keys (GLFW)
const (
	KeyRight      = 262
	KeyLeft       = 263
	KeyDown       = 264
	KeyUp         = 265
	KeyLeftShift  = 340
	KeyRightShift = 344
)

// KeyName returns a short human readable name for the known control keys, used in debug logging.
//
// Parameters:
//   - keyCode: the GLFW key code
//
// Returns:
//   - string: the key name, or "key(<code>)" for keys without a name
func KeyName(keyCode uint32) string {
	switch keyCode {
	case KeyW:
		return "W"
	case KeyA:
		return "A"
	case KeyS:
		return "S"
	case KeyD:
		return "D"
	case KeySpace:
		return "Space"
	case KeyEsc:
		return "Esc"
	case KeyRight:
		return "Right"
	case KeyLeft:
		return "Left"
	case KeyDown:
		return "Down"
	case KeyUp:
		return "Up"
	case KeyLeftShift:
		return "LeftShift"
	case KeyRightShift:
		return "RightShift"
	}
	return "key(" + strconv.FormatUint(uint64(keyCode), 10) + ")"
}
