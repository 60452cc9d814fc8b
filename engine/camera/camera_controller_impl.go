package camera

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Motion names one key-driven camera motion.
type Motion int

const (
	MotionLeft Motion = iota
	MotionRight
	MotionForward
	MotionBackward
	MotionUp
	MotionDown
	MotionYawRight
	MotionYawLeft
	MotionPitchUp
	MotionPitchDown
	motionCount
)

// pitchLimit is the open bound on |pitch|.
const pitchLimit = math32.Pi / 2

// cameraControllerImpl is the fly-style implementation of CameraController.
type cameraControllerImpl struct {
	moveSpeed   float32
	rotateSpeed float32
	bindings    [motionCount]uint32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a fly controller with a move speed of 5 units/s, a rotate speed of
// 3 rad/s and the default bindings: A/D strafe, W/S forward and back, Space/LeftShift up and down,
// Right/Left arrows yaw, Up/Down arrows pitch.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		moveSpeed:   5.0,
		rotateSpeed: 3.0,
		bindings: [motionCount]uint32{
			MotionLeft:      common.KeyA,
			MotionRight:     common.KeyD,
			MotionForward:   common.KeyW,
			MotionBackward:  common.KeyS,
			MotionUp:        common.KeySpace,
			MotionDown:      common.KeyLeftShift,
			MotionYawRight:  common.KeyRight,
			MotionYawLeft:   common.KeyLeft,
			MotionPitchUp:   common.KeyUp,
			MotionPitchDown: common.KeyDown,
		},
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) MoveSpeed() float32 {
	return cc.moveSpeed
}

func (cc *cameraControllerImpl) RotateSpeed() float32 {
	return cc.rotateSpeed
}

func (cc *cameraControllerImpl) Movement(basis Basis, orientation mgl32.Vec3, held []uint32, dt float32) (translation, rotation mgl32.Vec3) {
	if len(held) == 0 {
		return
	}
	active := func(m Motion) bool {
		return slices.Contains(held, cc.bindings[m])
	}

	move := cc.moveSpeed * dt
	if active(MotionLeft) {
		translation = translation.Sub(basis.Left.Mul(move))
	}
	if active(MotionRight) {
		translation = translation.Add(basis.Left.Mul(move))
	}
	if active(MotionForward) {
		translation = translation.Add(basis.Front.Mul(move))
	}
	if active(MotionBackward) {
		translation = translation.Sub(basis.Front.Mul(move))
	}
	if active(MotionUp) {
		translation = translation.Add(basis.Up.Mul(move))
	}
	if active(MotionDown) {
		translation = translation.Sub(basis.Up.Mul(move))
	}

	turn := cc.rotateSpeed * dt
	if active(MotionYawRight) {
		rotation[1] += turn
	}
	if active(MotionYawLeft) {
		rotation[1] -= turn
	}
	if active(MotionPitchUp) {
		rotation[0] -= turn
	}
	if active(MotionPitchDown) {
		rotation[0] += turn
	}

	if next := orientation.X() + rotation[0]; next <= -pitchLimit || next >= pitchLimit {
		rotation[0] = 0
	}
	return translation, rotation
}

func (cc *cameraControllerImpl) Step(cam Camera, held []uint32, dt float32) Basis {
	basis := cam.Basis()
	orientation := cam.Orientation()
	translation, rotation := cc.Movement(basis, orientation, held, dt)
	if translation == (mgl32.Vec3{}) && rotation == (mgl32.Vec3{}) {
		return basis
	}

	next := orientation.Add(rotation)
	next[1] = wrapAngle(next[1])
	return cam.Set(
		WithPosition(cam.Position().Add(translation)),
		WithOrientation(next),
	)
}

// wrapAngle maps a into [-π, π).
func wrapAngle(a float32) float32 {
	a = math32.Mod(a+math32.Pi, 2*math32.Pi)
	if a < 0 {
		a += 2 * math32.Pi
	}
	return a - math32.Pi
}
