package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
window:
  width: 800
  vsync: false
raytracing:
  max_bounces: 9
scene:
  name: box
  spheres:
    - center: [0, 1, 4]
      radius: 0.5
      material:
        color: [1, 1, 1]
        emission: [1, 0, 0]
        emission_strength: 2
  quads:
    - vertices: [[-1, 0, 3], [1, 0, 3], [1, 0, 5], [-1, 0, 5]]
      material:
        color: [0.5, 0.5, 0.5]
`))
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.False(t, cfg.Window.VSync)
	assert.Equal(t, "oxy-rt", cfg.Window.Title)
	assert.Equal(t, uint32(9), cfg.Raytracing.MaxBounces)
	assert.Equal(t, uint32(8), cfg.Raytracing.RaysPerPixel)
	assert.Equal(t, float32(90), cfg.Camera.Fov)

	require.Len(t, cfg.Scene.Spheres, 1, "a listed scene replaces the demo spheres")
	assert.Equal(t, float32(0.5), cfg.Scene.Spheres[0].Radius)
	assert.Equal(t, 2, cfg.Scene.TriangleCount())
}

func TestValidateCollectsProblems(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Camera.Fov = 180
	cfg.Raytracing.RaysPerPixel = 0
	cfg.Scene.Spheres[1].Radius = -1
	cfg.Scene.Spheres[2].Material.Smoothness = 2

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	for _, want := range []string{"window size", "camera.fov", "rays_per_pixel", "spheres[1].radius", "spheres[2].material"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateCapacities(t *testing.T) {
	cfg := Default()
	cfg.Scene.SphereCapacity = len(cfg.Scene.Spheres)
	require.NoError(t, cfg.Validate(), "capacity equal to the object count is accepted")

	cfg.Scene.SphereCapacity--
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg = Default()
	cfg.Scene.TriangleCapacity = 1
	cfg.Scene.Quads = []QuadConfig{{}}
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "2 triangles for capacity 1")
}

func TestValidateRejectsDegenerateTriangles(t *testing.T) {
	cfg := Default()
	cfg.Scene.Triangles = []TriangleConfig{
		{Vertices: [3][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}},
		{Vertices: [3][3]float32{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}}},
		{Vertices: [3][3]float32{{1, 2, 3}, {1, 2, 3}, {0, 1, 0}}},
	}
	// a-b-c has area, a-c-d collapses onto a line
	cfg.Scene.Quads = []QuadConfig{
		{Vertices: [4][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {2, 2, 0}}},
	}

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	assert.NotContains(t, err.Error(), "triangles[0] is degenerate")
	assert.Contains(t, err.Error(), "triangles[1] is degenerate")
	assert.Contains(t, err.Error(), "triangles[2] is degenerate")
	assert.Contains(t, err.Error(), "quads[0] is degenerate")
}

func TestParseRejectsMalformed(t *testing.T) {
	for name, doc := range map[string]string{
		"syntax":       "window: [",
		"short vector": "camera:\n  position: [1, 2]\n",
		"wrong type":   "window:\n  width: wide\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("controls:\n  move_speed: 12\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(12), cfg.Controls.MoveSpeed)
	assert.Equal(t, float32(3), cfg.Controls.RotateSpeed)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewScene(t *testing.T) {
	cfg := Default()
	cfg.Scene.Triangles = []TriangleConfig{{Vertices: [3][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}}
	cfg.Scene.Quads = []QuadConfig{{Vertices: [4][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}}}

	sc := cfg.NewScene()
	defer sc.Close()
	assert.Equal(t, "demo", sc.Name())
	assert.Equal(t, len(cfg.Scene.Spheres), sc.SphereCount())
	assert.Equal(t, 3, sc.TriangleCount())
	assert.Equal(t, float32(1000), sc.Spheres()[0].Radius)
}

func TestMaterialGPU(t *testing.T) {
	plain := MaterialConfig{Color: [3]float32{0.1, 0.2, 0.3}, Smoothness: 0.4}.GPU()
	assert.Equal(t, float32(0.2), plain.Color.G)
	assert.Zero(t, plain.Emission.A)
	assert.Zero(t, plain.Specular.A)

	lit := MaterialConfig{
		Specular:         [3]float32{0.5, 0.5, 0.5},
		SpecularChance:   0.25,
		Emission:         [3]float32{1, 0.5, 0},
		EmissionStrength: 3,
	}.GPU()
	assert.Equal(t, float32(0.5), lit.Specular.R)
	assert.Equal(t, float32(0.25), lit.Specular.A)
	assert.Equal(t, float32(0.5), lit.Emission.G)
	assert.Equal(t, float32(3), lit.Emission.A)
}

func TestCameraControllerAndSettings(t *testing.T) {
	cfg := Default()
	cfg.Camera.Orientation = [3]float32{0, 90, 0}
	cfg.Controls.MoveSpeed = 7

	cam := cfg.NewCamera()
	assert.InDelta(t, math32.Pi/2, cam.Orientation().Y(), 1e-6)
	assert.InDelta(t, 1280.0/720.0, cam.Aspect(), 1e-6)
	assert.Equal(t, float32(0.5), cam.Position().Y())

	assert.Equal(t, float32(7), cfg.NewController().MoveSpeed())

	settings := cfg.Settings()
	assert.Equal(t, cfg.Raytracing.RaysPerPixel, settings.RaysPerFrag)
	assert.Equal(t, cfg.Raytracing.FocusDistance, settings.FocusDistance)
}
