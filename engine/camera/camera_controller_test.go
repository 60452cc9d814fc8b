package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

var worldBasis = Basis{
	Left:  mgl32.Vec3{1, 0, 0},
	Up:    mgl32.Vec3{0, 1, 0},
	Front: mgl32.Vec3{0, 0, 1},
}

func TestMovementKeyMapping(t *testing.T) {
	cases := []struct {
		key         uint32
		translation mgl32.Vec3
		rotation    mgl32.Vec3
	}{
		{common.KeyA, mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{}},
		{common.KeyD, mgl32.Vec3{5, 0, 0}, mgl32.Vec3{}},
		{common.KeyW, mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}},
		{common.KeyS, mgl32.Vec3{0, 0, -5}, mgl32.Vec3{}},
		{common.KeySpace, mgl32.Vec3{0, 5, 0}, mgl32.Vec3{}},
		{common.KeyLeftShift, mgl32.Vec3{0, -5, 0}, mgl32.Vec3{}},
		{common.KeyRight, mgl32.Vec3{}, mgl32.Vec3{0, 3, 0}},
		{common.KeyLeft, mgl32.Vec3{}, mgl32.Vec3{0, -3, 0}},
		{common.KeyUp, mgl32.Vec3{}, mgl32.Vec3{-3, 0, 0}},
		{common.KeyDown, mgl32.Vec3{}, mgl32.Vec3{3, 0, 0}},
	}
	cc := NewCameraController()
	for _, tc := range cases {
		t.Run(common.KeyName(tc.key), func(t *testing.T) {
			const dt = 0.1
			translation, rotation := cc.Movement(worldBasis, mgl32.Vec3{}, []uint32{tc.key}, dt)
			assertVec3InDelta(t, tc.translation.Mul(dt), translation, 1e-6)
			assertVec3InDelta(t, tc.rotation.Mul(dt), rotation, 1e-6)
		})
	}
}

func TestMovementIgnoresUnboundKeys(t *testing.T) {
	cc := NewCameraController()
	translation, rotation := cc.Movement(worldBasis, mgl32.Vec3{}, []uint32{common.KeyEsc, 12345}, 1)
	assert.Equal(t, mgl32.Vec3{}, translation)
	assert.Equal(t, mgl32.Vec3{}, rotation)
}

func TestOpposingKeysCancel(t *testing.T) {
	cc := NewCameraController()
	translation, _ := cc.Movement(worldBasis, mgl32.Vec3{}, []uint32{common.KeyW, common.KeyS}, 0.5)
	assertVec3InDelta(t, mgl32.Vec3{}, translation, 1e-6)
}

func TestPitchSuppressedNearLimit(t *testing.T) {
	const eps = 0.01
	cc := NewCameraController()

	near := mgl32.Vec3{math32.Pi/2 - eps, 0, 0}
	_, rotation := cc.Movement(worldBasis, near, []uint32{common.KeyDown}, 0.1)
	assert.Equal(t, float32(0), rotation.X(), "increment past +π/2 is dropped")

	_, rotation = cc.Movement(worldBasis, near, []uint32{common.KeyUp}, 0.1)
	assert.InDelta(t, -0.3, rotation.X(), 1e-6, "moving away from the limit is allowed")

	low := mgl32.Vec3{-math32.Pi/2 + eps, 0, 0}
	_, rotation = cc.Movement(worldBasis, low, []uint32{common.KeyUp}, 0.1)
	assert.Equal(t, float32(0), rotation.X(), "increment past -π/2 is dropped")
}

func TestStepMovesCamera(t *testing.T) {
	cam := NewCamera()
	cc := NewCameraController(WithMoveSpeed(2))

	cc.Step(cam, []uint32{common.KeyW}, 0.5)
	assertVec3InDelta(t, mgl32.Vec3{0, 0, 1}, cam.Position(), 1e-6)

	cc.Step(cam, nil, 0.5)
	assertVec3InDelta(t, mgl32.Vec3{0, 0, 1}, cam.Position(), 1e-6)
}

func TestStepWrapsYaw(t *testing.T) {
	cam := NewCamera(WithOrientation(mgl32.Vec3{0, math32.Pi - 0.01, 0}))
	cc := NewCameraController()

	cc.Step(cam, []uint32{common.KeyRight}, 0.1)
	yaw := cam.Orientation().Y()
	assert.InDelta(t, -math32.Pi+0.29, yaw, 1e-4)
}

func TestKeyBindingOverride(t *testing.T) {
	cc := NewCameraController(WithKeyBinding(MotionForward, common.KeyUp), WithRotateSpeed(0))
	translation, _ := cc.Movement(worldBasis, mgl32.Vec3{}, []uint32{common.KeyUp}, 1)
	assertVec3InDelta(t, mgl32.Vec3{0, 0, 5}, translation, 1e-6)
	assert.Equal(t, float32(0), cc.RotateSpeed())
}
