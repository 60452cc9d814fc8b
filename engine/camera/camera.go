package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	position    mgl32.Vec3
	orientation mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	derivation Derivation
	transform  mgl32.Mat4
	basis      Basis
}

// Camera holds the camera parameters and the transform and basis derived from them.
// Every mutation recomputes the derived state before returning, so readers never observe a
// transform that is stale relative to the parameters.
type Camera interface {
	// Set overwrites only the supplied parameters and recomputes the derived state.
	// Values are not validated; NaN or Inf inputs propagate into the transform.
	//
	// Parameters:
	//   - options: the parameters to overwrite
	//
	// Returns:
	//   - Basis: the recomputed basis vectors
	Set(options ...CameraBuilderOption) Basis

	// SetAll overwrites position, orientation, fov, near and far and recomputes the derived state.
	//
	// Parameters:
	//   - position: the world-space position
	//   - orientation: pitch, yaw and roll in radians
	//   - fov: the field of view in degrees
	//   - near: the near clip distance
	//   - far: the far clip distance
	//
	// Returns:
	//   - Basis: the recomputed basis vectors
	SetAll(position, orientation mgl32.Vec3, fov, near, far float32) Basis

	// Position returns the world-space camera position.
	Position() mgl32.Vec3

	// Orientation returns pitch (X), yaw (Y) and roll (Z) in radians.
	Orientation() mgl32.Vec3

	// Fov returns the field of view in degrees.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clip distance.
	Near() float32

	// Far returns the far clip distance.
	Far() float32

	// Derivation returns the transform variant this camera caches.
	Derivation() Derivation

	// Params returns a copy of all parameters.
	Params() Params

	// Transform returns the cached transform.
	Transform() mgl32.Mat4

	// Left returns the unit vector from transform column 0.
	Left() mgl32.Vec3

	// Up returns the unit vector from transform column 1.
	Up() mgl32.Vec3

	// Front returns the unit vector from transform column 2.
	Front() mgl32.Vec3

	// Basis returns all three basis vectors.
	Basis() Basis
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera at the origin with zero orientation, a 90 degree field of view,
// a 16:9 aspect ratio and clip distances 1 and 1000, then applies options and derives the
// initial transform.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		fov:        90,
		aspect:     16.0 / 9.0,
		near:       1,
		far:        1000,
		derivation: DerivationLocalToWorld,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Set(options ...CameraBuilderOption) Basis {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c.basis
}

func (c *cameraImpl) SetAll(position, orientation mgl32.Vec3, fov, near, far float32) Basis {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
	c.orientation = orientation
	c.fov = fov
	c.near = near
	c.far = far
	c.updateMatrices()
	return c.basis
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Orientation() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orientation
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Derivation() Derivation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.derivation
}

func (c *cameraImpl) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params()
}

func (c *cameraImpl) Transform() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transform
}

func (c *cameraImpl) Left() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.basis.Left
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.basis.Up
}

func (c *cameraImpl) Front() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.basis.Front
}

func (c *cameraImpl) Basis() Basis {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.basis
}

func (c *cameraImpl) params() Params {
	return Params{
		Position:    c.position,
		Orientation: c.orientation,
		Fov:         c.fov,
		Aspect:      c.aspect,
		Near:        c.near,
		Far:         c.far,
	}
}

// updateMatrices recomputes the transform and basis from the current parameters.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.transform = c.derivation.Derive(c.params())
	c.basis = BasisFromTransform(c.transform)
}
