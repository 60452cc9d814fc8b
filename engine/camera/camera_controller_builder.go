package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithMoveSpeed sets the translation speed in world units per second.
//
// Parameters:
//   - speed: the move speed
//
// Returns:
//   - CameraControllerOption: functional option to set the move speed
func WithMoveSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.moveSpeed = speed
	}
}

// WithRotateSpeed sets the rotation speed in radians per second.
//
// Parameters:
//   - speed: the rotate speed
//
// Returns:
//   - CameraControllerOption: functional option to set the rotate speed
func WithRotateSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.rotateSpeed = speed
	}
}

// WithKeyBinding overrides the key code that drives one motion.
//
// Parameters:
//   - motion: the motion to rebind
//   - keyCode: the key code that triggers it
//
// Returns:
//   - CameraControllerOption: functional option to rebind the motion
func WithKeyBinding(motion Motion, keyCode uint32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.bindings[motion] = keyCode
	}
}
