package raytracer

import (
	"github.com/Carmen-Shannon/oxy-rt/engine/camera"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer"
)

// HandlerOption is a functional option for configuring a Handler.
type HandlerOption func(h *handler)

// WithCamera sets the camera. The handler overwrites its aspect ratio from the surface size.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - HandlerOption: option function to apply
func WithCamera(c camera.Camera) HandlerOption {
	return func(h *handler) {
		h.camera = c
	}
}

// WithController sets the controller that moves the camera from held keys.
//
// Parameters:
//   - c: the camera controller
//
// Returns:
//   - HandlerOption: option function to apply
func WithController(c camera.CameraController) HandlerOption {
	return func(h *handler) {
		h.controller = c
	}
}

// WithSettings sets the raytracing settings.
//
// Parameters:
//   - s: the settings
//
// Returns:
//   - HandlerOption: option function to apply
func WithSettings(s Settings) HandlerOption {
	return func(h *handler) {
		h.settings = s
	}
}

// WithCapacity sets how many spheres and triangles the scene buffers reserve.
// Non-positive values keep the defaults of 64 spheres and 1024 triangles.
//
// Parameters:
//   - spheres: the sphere capacity
//   - triangles: the triangle capacity
//
// Returns:
//   - HandlerOption: option function to apply
func WithCapacity(spheres, triangles int) HandlerOption {
	return func(h *handler) {
		if spheres > 0 {
			h.sphereCapacity = spheres
		}
		if triangles > 0 {
			h.triangleCapacity = triangles
		}
	}
}

// WithRendererOptions passes options to the default renderer factory.
func WithRendererOptions(options ...renderer.RendererBuilderOption) HandlerOption {
	return func(h *handler) {
		h.rendererOps = append(h.rendererOps, options...)
	}
}

// WithRendererFactory replaces the default WGPU renderer.
//
// Parameters:
//   - factory: creates the renderer during Init
//
// Returns:
//   - HandlerOption: option function to apply
func WithRendererFactory(factory RendererFactory) HandlerOption {
	return func(h *handler) {
		h.newRenderer = factory
	}
}
