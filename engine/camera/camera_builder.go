package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption sets one camera parameter. Options are used both at construction and
// with Camera.Set; the camera recomputes its derived state once after applying them.
type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the world-space camera position.
//
// Parameters:
//   - position: the position to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(position mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = position
	}
}

// WithOrientation sets pitch (X), yaw (Y) and roll (Z) in radians.
//
// Parameters:
//   - orientation: the orientation angles to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's orientation
func WithOrientation(orientation mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.orientation = orientation
	}
}

// WithFov sets the camera's field of view in degrees.
//
// Parameters:
//   - fov: field of view in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear sets the near clip distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clip distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithDerivation selects which transform the camera caches.
//
// Parameters:
//   - derivation: the transform variant
//
// Returns:
//   - CameraBuilderOption: functional option to set the derivation
func WithDerivation(derivation Derivation) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.derivation = derivation
	}
}
