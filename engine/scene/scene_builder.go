package scene

import "github.com/Carmen-Shannon/oxy-rt/engine/raytracing"

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithSpheres adds initial spheres to the scene.
//
// Parameters:
//   - spheres: the sphere records to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSpheres(spheres ...raytracing.GPUSphere) SceneBuilderOption {
	return func(s *scene) {
		for _, sp := range spheres {
			s.addSphere(sp)
		}
	}
}

// WithTriangles adds initial triangles to the scene.
//
// Parameters:
//   - triangles: the triangle records to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTriangles(triangles ...raytracing.GPUTriangle) SceneBuilderOption {
	return func(s *scene) {
		for _, t := range triangles {
			s.addTriangle(t)
		}
	}
}

// WithPackWorkers sets the number of worker goroutines that marshal records during Flush.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPackWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.packWorkers = max(n, 1)
	}
}

// WithPackChunkSize sets how many records one worker task marshals. Record sets no larger
// than one chunk are marshaled on the calling goroutine.
//
// Parameters:
//   - n: records per task
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPackChunkSize(n int) SceneBuilderOption {
	return func(s *scene) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}
