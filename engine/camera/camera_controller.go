package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController turns the keys held during a frame into camera motion. Translation follows
// the camera's current basis; rotation changes pitch and yaw.
type CameraController interface {
	// MoveSpeed returns the translation speed in world units per second.
	//
	// Returns:
	//   - float32: the move speed
	MoveSpeed() float32

	// RotateSpeed returns the rotation speed in radians per second.
	//
	// Returns:
	//   - float32: the rotate speed
	RotateSpeed() float32

	// Movement computes the translation and orientation deltas for one frame.
	// A pitch delta that would take pitch outside the open interval (-π/2, π/2) is dropped.
	//
	// Parameters:
	//   - basis: the camera basis at the start of the frame
	//   - orientation: the camera orientation at the start of the frame
	//   - held: the key codes held this frame
	//   - dt: the frame delta in seconds
	//
	// Returns:
	//   - translation: the position delta
	//   - rotation: the orientation delta (pitch, yaw, roll)
	Movement(basis Basis, orientation mgl32.Vec3, held []uint32, dt float32) (translation, rotation mgl32.Vec3)

	// Step applies one frame of movement to cam.
	//
	// Parameters:
	//   - cam: the camera to move
	//   - held: the key codes held this frame
	//   - dt: the frame delta in seconds
	//
	// Returns:
	//   - Basis: the camera basis after the move
	Step(cam Camera, held []uint32, dt float32) Basis
}
