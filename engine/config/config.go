// Package config loads the YAML run configuration: window, camera, controls, raytracing
// settings and the scene. Values missing from the file keep the defaults, which reproduce the
// demo scene.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete run configuration.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Camera     CameraConfig     `yaml:"camera"`
	Controls   ControlsConfig   `yaml:"controls"`
	Raytracing RaytracingConfig `yaml:"raytracing"`
	Scene      SceneConfig      `yaml:"scene"`
}

// WindowConfig contains window and presentation settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`

	// FrameLimit caps the render loop in frames per second; 0 is uncapped.
	FrameLimit float64 `yaml:"frame_limit"`
}

// CameraConfig contains the initial camera state. Orientation is pitch, yaw, roll in degrees.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Orientation [3]float32 `yaml:"orientation"`
	Fov         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
}

// ControlsConfig contains the fly controller speeds.
type ControlsConfig struct {
	MoveSpeed   float32 `yaml:"move_speed"`   // world units per second
	RotateSpeed float32 `yaml:"rotate_speed"` // radians per second
}

// RaytracingConfig contains the per-frame raytracing settings.
type RaytracingConfig struct {
	MaxBounces      uint32  `yaml:"max_bounces"`
	RaysPerPixel    uint32  `yaml:"rays_per_pixel"`
	DivergeStrength float32 `yaml:"diverge_strength"`
	FocusDistance   float32 `yaml:"focus_distance"`
}

// SceneConfig describes the objects to draw and how much GPU space to reserve for them.
type SceneConfig struct {
	Name             string           `yaml:"name"`
	SphereCapacity   int              `yaml:"sphere_capacity"`
	TriangleCapacity int              `yaml:"triangle_capacity"`
	Spheres          []SphereConfig   `yaml:"spheres"`
	Triangles        []TriangleConfig `yaml:"triangles"`
	Quads            []QuadConfig     `yaml:"quads"`
}

// MaterialConfig is the YAML form of a raytracing material.
type MaterialConfig struct {
	Color            [3]float32 `yaml:"color"`
	Smoothness       float32    `yaml:"smoothness"`
	Specular         [3]float32 `yaml:"specular"`
	SpecularChance   float32    `yaml:"specular_chance"`
	Emission         [3]float32 `yaml:"emission"`
	EmissionStrength float32    `yaml:"emission_strength"`
}

// SphereConfig is one sphere.
type SphereConfig struct {
	Center   [3]float32     `yaml:"center"`
	Radius   float32        `yaml:"radius"`
	Material MaterialConfig `yaml:"material"`
}

// TriangleConfig is one flat-shaded triangle wound counter-clockwise.
type TriangleConfig struct {
	Vertices [3][3]float32  `yaml:"vertices"`
	Material MaterialConfig `yaml:"material"`
}

// QuadConfig is a planar quad a, b, c, d split into two triangles.
type QuadConfig struct {
	Vertices [4][3]float32  `yaml:"vertices"`
	Material MaterialConfig `yaml:"material"`
}

// Load reads a YAML file over the defaults and validates the result.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - *Config: the loaded configuration
//   - error: a read, parse or validation error
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *Config: the parsed configuration
//   - error: a parse or validation error
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every value and reports all problems at once.
//
// Returns:
//   - error: nil, or an error wrapping ErrInvalid and each problem
func (c *Config) Validate() error {
	var problems []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	check(c.Window.FrameLimit >= 0, "window.frame_limit %v must not be negative", c.Window.FrameLimit)

	check(c.Camera.Fov > 0 && c.Camera.Fov < 180, "camera.fov %v must be in (0, 180)", c.Camera.Fov)
	check(c.Camera.Near > 0, "camera.near %v must be positive", c.Camera.Near)
	check(c.Camera.Far > c.Camera.Near, "camera.far %v must exceed camera.near %v", c.Camera.Far, c.Camera.Near)

	check(c.Controls.MoveSpeed >= 0, "controls.move_speed %v must not be negative", c.Controls.MoveSpeed)
	check(c.Controls.RotateSpeed >= 0, "controls.rotate_speed %v must not be negative", c.Controls.RotateSpeed)

	check(c.Raytracing.RaysPerPixel >= 1, "raytracing.rays_per_pixel must be at least 1")
	check(c.Raytracing.FocusDistance > 0, "raytracing.focus_distance %v must be positive", c.Raytracing.FocusDistance)
	check(c.Raytracing.DivergeStrength >= 0, "raytracing.diverge_strength %v must not be negative", c.Raytracing.DivergeStrength)

	s := c.Scene
	check(s.SphereCapacity >= 1, "scene.sphere_capacity %d must be at least 1", s.SphereCapacity)
	check(s.TriangleCapacity >= 1, "scene.triangle_capacity %d must be at least 1", s.TriangleCapacity)
	check(len(s.Spheres) <= s.SphereCapacity, "scene has %d spheres for capacity %d", len(s.Spheres), s.SphereCapacity)
	check(s.TriangleCount() <= s.TriangleCapacity, "scene has %d triangles for capacity %d", s.TriangleCount(), s.TriangleCapacity)
	for i, sp := range s.Spheres {
		check(sp.Radius > 0, "scene.spheres[%d].radius %v must be positive", i, sp.Radius)
		check(validMaterial(sp.Material), "scene.spheres[%d].material has a value out of range", i)
	}
	for i, t := range s.Triangles {
		v := t.Vertices
		check(hasArea(v[0], v[1], v[2]), "scene.triangles[%d] is degenerate", i)
		check(validMaterial(t.Material), "scene.triangles[%d].material has a value out of range", i)
	}
	for i, q := range s.Quads {
		v := q.Vertices
		check(hasArea(v[0], v[1], v[2]) && hasArea(v[0], v[2], v[3]), "scene.quads[%d] is degenerate", i)
		check(validMaterial(q.Material), "scene.quads[%d].material has a value out of range", i)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(problems...))
	}
	return nil
}

// TriangleCount returns the number of triangles the scene produces, counting two per quad.
func (s SceneConfig) TriangleCount() int {
	return len(s.Triangles) + 2*len(s.Quads)
}

// hasArea reports whether a-b-c spans a finite, non-zero area, so its face normal is defined.
func hasArea(a, b, c [3]float32) bool {
	va := mgl32.Vec3(a)
	n := mgl32.Vec3(b).Sub(va).Cross(mgl32.Vec3(c).Sub(va)).Len()
	return n > 0 && !math32.IsInf(n, 0)
}

func validMaterial(m MaterialConfig) bool {
	return m.Smoothness >= 0 && m.Smoothness <= 1 &&
		m.SpecularChance >= 0 && m.SpecularChance <= 1 &&
		m.EmissionStrength >= 0
}
