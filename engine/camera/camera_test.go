package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec3InDelta(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestNewCameraDefaults(t *testing.T) {
	cam := NewCamera()
	assert.Equal(t, float32(90), cam.Fov())
	assert.Equal(t, float32(16.0/9.0), cam.Aspect())
	assert.Equal(t, float32(1), cam.Near())
	assert.Equal(t, float32(1000), cam.Far())
	assert.Equal(t, DerivationLocalToWorld, cam.Derivation())
}

func TestLocalToWorldBasisAtOriginMatchesWorldAxes(t *testing.T) {
	cam := NewCamera()
	basis := cam.Basis()
	assertVec3InDelta(t, mgl32.Vec3{1, 0, 0}, basis.Left, 1e-5)
	assertVec3InDelta(t, mgl32.Vec3{0, 1, 0}, basis.Up, 1e-5)
	assertVec3InDelta(t, mgl32.Vec3{0, 0, 1}, basis.Front, 1e-5)
}

func TestDerivationIsIdempotent(t *testing.T) {
	for _, d := range []Derivation{DerivationLocalToWorld, DerivationViewProjection} {
		t.Run(d.String(), func(t *testing.T) {
			cam := NewCamera(WithDerivation(d))
			pos := mgl32.Vec3{1, -2, 3}
			ang := mgl32.Vec3{0.3, 1.1, -0.2}

			first := cam.SetAll(pos, ang, 70, 0.5, 500)
			firstTransform := cam.Transform()
			second := cam.SetAll(pos, ang, 70, 0.5, 500)

			assert.Equal(t, first, second)
			assert.Equal(t, firstTransform, cam.Transform())
		})
	}
}

func TestPartialSetLeavesOtherParametersAlone(t *testing.T) {
	cam := NewCamera(WithDerivation(DerivationViewProjection))
	cam.SetAll(mgl32.Vec3{4, 5, 6}, mgl32.Vec3{0.1, 0.2, 0.3}, 60, 2, 200)
	before := cam.Params()

	cam.Set(WithFov(75))

	after := cam.Params()
	assert.Equal(t, float32(75), after.Fov)
	assert.Equal(t, before.Position, after.Position)
	assert.Equal(t, before.Orientation, after.Orientation)
	assert.Equal(t, before.Near, after.Near)
	assert.Equal(t, before.Far, after.Far)
	assert.Equal(t, before.Aspect, after.Aspect)
	assert.Equal(t, DeriveViewProjection(after), cam.Transform(), "derived state recomputed")
}

func TestSetPositionKeepsOrientationOutputs(t *testing.T) {
	for _, d := range []Derivation{DerivationLocalToWorld, DerivationViewProjection} {
		t.Run(d.String(), func(t *testing.T) {
			cam := NewCamera(WithDerivation(d))
			cam.SetAll(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0.4, -0.7, 0.2}, 70, 0.5, 500)
			basisBefore := cam.Basis()
			transformBefore := cam.Transform()

			cam.Set(WithPosition(mgl32.Vec3{-8, 13, 0.25}))

			assert.Equal(t, mgl32.Vec3{-8, 13, 0.25}, cam.Position())
			assert.Equal(t, basisBefore, cam.Basis())
			transformAfter := cam.Transform()
			for col := range 3 {
				assert.Equal(t, transformBefore.Col(col), transformAfter.Col(col), "column %d", col)
			}
			assert.NotEqual(t, transformBefore.Col(3), transformAfter.Col(3))
		})
	}
}

func TestSetWithNoOptionsStillRecomputes(t *testing.T) {
	cam := NewCamera()
	basis := cam.Set()
	assert.Equal(t, cam.Basis(), basis)
}

func TestViewProjectionFoldsInViewOffset(t *testing.T) {
	p := Params{Fov: 90, Aspect: 16.0 / 9.0, Near: 1, Far: 1000}
	want := mgl32.Perspective(mgl32.DegToRad(90), 16.0/9.0, 1, 1000).Mul4(mgl32.Translate3D(0, 0, -5))
	assert.True(t, want.ApproxEqualThreshold(DeriveViewProjection(p), 1e-6))
}

func TestLocalToWorldCarriesPosition(t *testing.T) {
	m := DeriveLocalToWorld(Params{Position: mgl32.Vec3{7, 8, 9}})
	assert.Equal(t, mgl32.Vec4{7, 8, 9, 1}, m.Col(3))
}

func TestYawRotatesFrontTowardsLeft(t *testing.T) {
	basis := BasisFromTransform(DeriveLocalToWorld(Params{Orientation: mgl32.Vec3{0, math32.Pi / 2, 0}}))
	assertVec3InDelta(t, mgl32.Vec3{1, 0, 0}, basis.Front, 1e-5)
	assertVec3InDelta(t, mgl32.Vec3{0, 1, 0}, basis.Up, 1e-5)
}

func TestNaNPropagates(t *testing.T) {
	cam := NewCamera()
	cam.Set(WithPosition(mgl32.Vec3{math32.NaN(), 0, 0}))
	assert.True(t, math32.IsNaN(cam.Transform().Col(3).X()))
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	cam := NewCamera(WithPosition(mgl32.Vec3{1, 2, 3}), WithFov(60))
	u := NewGPUCameraUniform(cam, 1280, 720, 4)
	buf := u.Marshal()

	require.Len(t, buf, GPUCameraUniformSize)
	assert.Equal(t, float32(1), common.Float32At(buf, 0))
	assert.Equal(t, float32(1), common.Float32At(buf, 48), "translation x in column 3")
	assert.Equal(t, float32(3), common.Float32At(buf, 72))
	assert.Equal(t, uint32(0), common.Uint32At(buf, 76), "vec3 pad word")
	assert.Equal(t, float32(1280), common.Float32At(buf, 80))
	assert.Equal(t, float32(720), common.Float32At(buf, 84))
	assert.Equal(t, float32(60), common.Float32At(buf, 88))
	assert.Equal(t, float32(4), common.Float32At(buf, 92))
}

func TestGPUCameraUniformUsesLocalToWorldForViewProjectionCamera(t *testing.T) {
	cam := NewCamera(WithDerivation(DerivationViewProjection), WithPosition(mgl32.Vec3{1, 2, 3}))
	u := NewGPUCameraUniform(cam, 8, 8, 1)
	assert.Equal(t, DeriveLocalToWorld(cam.Params()), u.Transform())
}
