package config

import (
	"github.com/Carmen-Shannon/oxy-rt/engine/camera"
	"github.com/Carmen-Shannon/oxy-rt/engine/raytracer"
	"github.com/Carmen-Shannon/oxy-rt/engine/raytracing"
	"github.com/Carmen-Shannon/oxy-rt/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// NewCamera creates the camera described by the camera section.
//
// Returns:
//   - camera.Camera: the camera, deriving local-to-world
func (c *Config) NewCamera() camera.Camera {
	o := c.Camera.Orientation
	return camera.NewCamera(
		camera.WithPosition(mgl32.Vec3(c.Camera.Position)),
		camera.WithOrientation(mgl32.Vec3{mgl32.DegToRad(o[0]), mgl32.DegToRad(o[1]), mgl32.DegToRad(o[2])}),
		camera.WithFov(c.Camera.Fov),
		camera.WithAspect(float32(c.Window.Width)/float32(c.Window.Height)),
		camera.WithNear(c.Camera.Near),
		camera.WithFar(c.Camera.Far),
	)
}

// NewController creates the fly controller described by the controls section.
func (c *Config) NewController() camera.CameraController {
	return camera.NewCameraController(
		camera.WithMoveSpeed(c.Controls.MoveSpeed),
		camera.WithRotateSpeed(c.Controls.RotateSpeed),
	)
}

// Settings returns the raytracing section as handler settings.
func (c *Config) Settings() raytracer.Settings {
	return raytracer.Settings{
		MaxBounces:      c.Raytracing.MaxBounces,
		RaysPerFrag:     c.Raytracing.RaysPerPixel,
		DivergeStrength: c.Raytracing.DivergeStrength,
		FocusDistance:   c.Raytracing.FocusDistance,
	}
}

// NewScene creates a scene holding every sphere, triangle and quad of the scene section.
//
// Parameters:
//   - options: extra scene options, e.g. packing workers
//
// Returns:
//   - scene.Scene: the populated scene
func (c *Config) NewScene(options ...scene.SceneBuilderOption) scene.Scene {
	s := c.Scene
	spheres := make([]raytracing.GPUSphere, len(s.Spheres))
	for i, sp := range s.Spheres {
		spheres[i] = raytracing.NewSphere(mgl32.Vec3(sp.Center), sp.Radius, sp.Material.GPU())
	}
	triangles := make([]raytracing.GPUTriangle, len(s.Triangles))
	for i, t := range s.Triangles {
		v := t.Vertices
		triangles[i] = raytracing.NewTriangle(mgl32.Vec3(v[0]), mgl32.Vec3(v[1]), mgl32.Vec3(v[2]), t.Material.GPU())
	}

	options = append([]scene.SceneBuilderOption{
		scene.WithSpheres(spheres...),
		scene.WithTriangles(triangles...),
	}, options...)
	sc := scene.NewScene(s.Name, options...)
	for _, q := range s.Quads {
		v := q.Vertices
		sc.AddQuad(mgl32.Vec3(v[0]), mgl32.Vec3(v[1]), mgl32.Vec3(v[2]), mgl32.Vec3(v[3]), q.Material.GPU())
	}
	return sc
}

// GPU converts the material to its GPU record.
func (m MaterialConfig) GPU() raytracing.GPUMaterial {
	mat := raytracing.NewMaterial(mgl32.Vec3(m.Color), m.Smoothness)
	if m.SpecularChance > 0 {
		mat = mat.WithSpecular(mgl32.Vec3(m.Specular), m.SpecularChance)
	}
	if m.EmissionStrength > 0 {
		mat = mat.WithEmission(mgl32.Vec3(m.Emission), m.EmissionStrength)
	}
	return mat
}
