package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ViewOffset is the fixed eye offset folded into the view-projection translation.
var ViewOffset = mgl32.Vec3{0, 0, -5}

// Params is the full input to a transform derivation.
type Params struct {
	// Position is the world-space camera position.
	Position mgl32.Vec3

	// Orientation holds pitch (X), yaw (Y) and roll (Z) in radians.
	Orientation mgl32.Vec3

	// Fov is the vertical field of view in degrees.
	Fov float32

	Aspect float32
	Near   float32
	Far    float32
}

// Basis holds the three unit vectors read from columns 0, 1 and 2 of a camera transform.
type Basis struct {
	Left  mgl32.Vec3
	Up    mgl32.Vec3
	Front mgl32.Vec3
}

// Derivation selects which transform a camera caches. The two variants are not interchangeable:
// a rasterizer wants view-projection, the raytracer wants local-to-world.
type Derivation int

const (
	// DerivationLocalToWorld produces S · T · R, mapping camera space into the world.
	DerivationLocalToWorld Derivation = iota

	// DerivationViewProjection produces P · R · T, mapping the world into clip space.
	DerivationViewProjection
)

// String returns the derivation name.
func (d Derivation) String() string {
	switch d {
	case DerivationLocalToWorld:
		return "local-to-world"
	case DerivationViewProjection:
		return "view-projection"
	default:
		return "unknown"
	}
}

// Derive runs the derivation selected by d.
//
// Parameters:
//   - p: the camera parameters
//
// Returns:
//   - mgl32.Mat4: the derived transform
func (d Derivation) Derive(p Params) mgl32.Mat4 {
	if d == DerivationViewProjection {
		return DeriveViewProjection(p)
	}
	return DeriveLocalToWorld(p)
}

// Rotation builds R = R_y(yaw) · R_x(pitch) · R_z(roll).
//
// Parameters:
//   - orientation: pitch (X), yaw (Y) and roll (Z) in radians
//
// Returns:
//   - mgl32.Mat4: the rotation matrix
func Rotation(orientation mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(orientation.Y()).
		Mul4(mgl32.HomogRotate3DX(orientation.X())).
		Mul4(mgl32.HomogRotate3DZ(orientation.Z()))
}

// DeriveViewProjection computes P · R · T where T translates by ViewOffset − position and P is
// a perspective projection of the field of view (degrees), aspect, near and far.
//
// Parameters:
//   - p: the camera parameters
//
// Returns:
//   - mgl32.Mat4: the view-projection transform
func DeriveViewProjection(p Params) mgl32.Mat4 {
	t := ViewOffset.Sub(p.Position)
	projection := mgl32.Perspective(mgl32.DegToRad(p.Fov), p.Aspect, p.Near, p.Far)
	return projection.Mul4(Rotation(p.Orientation)).Mul4(mgl32.Translate3D(t.X(), t.Y(), t.Z()))
}

// DeriveLocalToWorld computes S · T · R with an identity scale and T translating by position.
//
// Parameters:
//   - p: the camera parameters; the optics are ignored
//
// Returns:
//   - mgl32.Mat4: the local-to-world transform
func DeriveLocalToWorld(p Params) mgl32.Mat4 {
	scale := mgl32.Scale3D(1, 1, 1)
	translate := mgl32.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z())
	return scale.Mul4(translate).Mul4(Rotation(p.Orientation))
}

// BasisFromTransform normalizes columns 0, 1 and 2 of m into left, up and front.
//
// Parameters:
//   - m: a derived camera transform
//
// Returns:
//   - Basis: the unit basis vectors
func BasisFromTransform(m mgl32.Mat4) Basis {
	return Basis{
		Left:  m.Col(0).Vec3().Normalize(),
		Up:    m.Col(1).Vec3().Normalize(),
		Front: m.Col(2).Vec3().Normalize(),
	}
}
