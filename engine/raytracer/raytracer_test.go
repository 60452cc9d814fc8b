package raytracer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/Carmen-Shannon/oxy-rt/engine"
	"github.com/Carmen-Shannon/oxy-rt/engine/camera"
	"github.com/Carmen-Shannon/oxy-rt/engine/raytracing"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/scene_buffer"
	"github.com/Carmen-Shannon/oxy-rt/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	width, height int
}

func (s fakeSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (s fakeSurface) Width() int                                 { return s.width }
func (s fakeSurface) Height() int                                { return s.height }

// fakeRenderer records GPU calls. It never sets buffers on providers, so Release is a no-op.
type fakeRenderer struct {
	layouts   []wgpu.BindGroupLayoutDescriptor
	sizes     []map[int]uint64
	writes    []bind_group_provider.BufferWrite
	pipelines []pipeline.Pipeline
	resized   [][2]int
	draws     [][]bind_group_provider.BindGroupProvider
	beginErr  error
	ends      int
	presents  int
}

var _ Renderer = &fakeRenderer{}

func (r *fakeRenderer) InitBindGroup(_ bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, _ map[int]wgpu.BufferUsage, sizes map[int]uint64) error {
	r.layouts = append(r.layouts, descriptor)
	r.sizes = append(r.sizes, sizes)
	return nil
}

func (r *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		w.Data = append([]byte(nil), w.Data...)
		r.writes = append(r.writes, w)
	}
}

func (r *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	r.pipelines = append(r.pipelines, pipelines...)
	return nil
}

func (r *fakeRenderer) Resize(width, height int) {
	r.resized = append(r.resized, [2]int{width, height})
}

func (r *fakeRenderer) BeginFrame() error {
	return r.beginErr
}

func (r *fakeRenderer) DrawFullscreen(key string, groups []bind_group_provider.BindGroupProvider) error {
	if key != PipelineKey {
		return errors.New("unknown pipeline " + key)
	}
	r.draws = append(r.draws, groups)
	return nil
}

func (r *fakeRenderer) EndFrame() { r.ends++ }
func (r *fakeRenderer) Present()  { r.presents++ }

func (r *fakeRenderer) take() []bind_group_provider.BufferWrite {
	out := r.writes
	r.writes = nil
	return out
}

func ball(radius float32) raytracing.GPUSphere {
	return raytracing.NewSphere(mgl32.Vec3{0, 0, 5}, radius, raytracing.NewMaterial(mgl32.Vec3{1, 1, 1}, 0))
}

func newTestHandler(t *testing.T, sc scene.Scene, options ...HandlerOption) (*handler, *fakeRenderer) {
	t.Helper()
	fr := &fakeRenderer{}
	options = append([]HandlerOption{
		WithRendererFactory(func(renderer.Surface) (Renderer, error) { return fr, nil }),
	}, options...)
	h := NewHandler(fakeSurface{width: 800, height: 600}, sc, options...).(*handler)
	t.Cleanup(h.Close)
	return h, fr
}

func TestInitBindsGlobalsAndScene(t *testing.T) {
	h, fr := newTestHandler(t, scene.NewScene("init"), WithCapacity(4, 8))
	require.NoError(t, h.Init())

	require.Len(t, fr.pipelines, 1)
	assert.Equal(t, PipelineKey, fr.pipelines[0].PipelineKey())

	// globals, spheres, triangles
	require.Len(t, fr.layouts, 3)
	assert.Len(t, fr.layouts[0].Entries, 2)
	assert.Equal(t, uint64(4*raytracing.GPUSphereSize), fr.sizes[1][0])
	assert.Equal(t, uint64(8*raytracing.GPUTriangleSize), fr.sizes[2][0])

	assert.InDelta(t, 800.0/600.0, h.Camera().Aspect(), 1e-6)
}

func TestFrameUploadsAndDraws(t *testing.T) {
	sc := scene.NewScene("frame", scene.WithSpheres(ball(1), ball(2)))
	h, fr := newTestHandler(t, sc, WithSettings(Settings{MaxBounces: 3, RaysPerFrag: 2, DivergeStrength: 0.5, FocusDistance: 2}))
	require.NoError(t, h.Init())
	fr.take()

	require.NoError(t, h.Frame(engine.FrameContext{Frame: 7}))
	writes := fr.take()
	// camera, settings, sphere data, sphere info, triangle info
	require.Len(t, writes, 5)

	cam := writes[0]
	assert.Equal(t, cameraBinding, cam.Binding)
	require.Len(t, cam.Data, camera.GPUCameraUniformSize)
	assert.Equal(t, float32(800), common.Float32At(cam.Data, 80))
	assert.Equal(t, float32(600), common.Float32At(cam.Data, 84))
	assert.Equal(t, float32(2), common.Float32At(cam.Data, 92))

	settings := writes[1]
	assert.Equal(t, settingsBinding, settings.Binding)
	assert.Equal(t, uint32(3), common.Uint32At(settings.Data, 0))
	assert.Equal(t, uint32(2), common.Uint32At(settings.Data, 4))
	assert.Equal(t, uint32(7), common.Uint32At(settings.Data, 12))

	assert.Len(t, writes[2].Data, 2*raytracing.GPUSphereSize)

	require.Len(t, fr.draws, 1)
	groups := fr.draws[0]
	require.Len(t, groups, 3)
	assert.Equal(t, "raytrace globals", groups[0].Label())
	assert.Equal(t, "frame spheres", groups[1].Label())
	assert.Equal(t, "frame triangles", groups[2].Label())
	assert.Equal(t, 1, fr.ends)
	assert.Equal(t, 1, fr.presents)

	// an unchanged scene is not uploaded again
	require.NoError(t, h.Frame(engine.FrameContext{Frame: 8}))
	assert.Len(t, fr.take(), 2)
}

func TestHeldKeysMoveCamera(t *testing.T) {
	h, _ := newTestHandler(t, scene.NewScene("move"))
	require.NoError(t, h.Init())
	front := h.Camera().Front()

	require.NoError(t, h.Frame(engine.FrameContext{Delta: 1, Held: []uint32{common.KeyW}}))
	got := h.Camera().Position()
	want := front.Mul(5)
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-5)
	}
}

func TestBeginFrameFailureSkipsDraw(t *testing.T) {
	h, fr := newTestHandler(t, scene.NewScene("skip"))
	require.NoError(t, h.Init())
	fr.beginErr = errors.New("surface outdated")

	require.NoError(t, h.Frame(engine.FrameContext{}))
	assert.Empty(t, fr.draws)
	assert.Zero(t, fr.presents)
	assert.NotEmpty(t, fr.take())
}

func TestResizeAppliesOnNextFrame(t *testing.T) {
	h, fr := newTestHandler(t, scene.NewScene("resize"))
	require.NoError(t, h.Init())
	fr.take()

	h.Resize(1024, 512)
	h.Resize(0, 0)
	assert.InDelta(t, 800.0/600.0, h.Camera().Aspect(), 1e-6)

	require.NoError(t, h.Frame(engine.FrameContext{}))
	assert.Equal(t, [][2]int{{1024, 512}}, fr.resized)
	assert.InDelta(t, 2.0, h.Camera().Aspect(), 1e-6)
	cam := fr.take()[0]
	assert.Equal(t, float32(1024), common.Float32At(cam.Data, 80))
	assert.Equal(t, float32(512), common.Float32At(cam.Data, 84))

	require.NoError(t, h.Frame(engine.FrameContext{}))
	assert.Len(t, fr.resized, 1)
}

func TestSceneOverCapacityFailsFrame(t *testing.T) {
	sc := scene.NewScene("full", scene.WithSpheres(ball(1), ball(2)))
	h, fr := newTestHandler(t, sc, WithCapacity(1, 1))
	require.NoError(t, h.Init())

	err := h.Frame(engine.FrameContext{})
	assert.ErrorIs(t, err, scene_buffer.ErrCapacityExceeded)
	assert.Empty(t, fr.draws)
}

func TestFrameBeforeInit(t *testing.T) {
	h, _ := newTestHandler(t, scene.NewScene("early"))
	assert.ErrorIs(t, h.Frame(engine.FrameContext{}), ErrNotInitialized)
}

func TestInitRendererError(t *testing.T) {
	errNoAdapter := errors.New("no adapter")
	h := NewHandler(fakeSurface{}, scene.NewScene("fail"), WithRendererFactory(func(renderer.Surface) (Renderer, error) {
		return nil, errNoAdapter
	}))
	defer h.Close()
	assert.ErrorIs(t, h.Init(), errNoAdapter)
}

func TestShaderLayoutsMatchRecords(t *testing.T) {
	vs, fs, err := Shaders()
	require.NoError(t, err)
	assert.Equal(t, "vs_main", vs.EntryPoint())
	assert.Equal(t, "fs_main", fs.EntryPoint())

	spheres, ok := fs.Binding(SphereBinding.StorageVar)
	require.True(t, ok)
	assert.NoError(t, scene_buffer.CheckLayout(raytracing.GPUSphere{}.Layout(), spheres, fs))

	triangles, ok := fs.Binding(TriangleBinding.StorageVar)
	require.True(t, ok)
	assert.NoError(t, scene_buffer.CheckLayout(raytracing.GPUTriangle{}.Layout(), triangles, fs))

	cam, ok := fs.StructLayout("CameraUniform")
	require.True(t, ok)
	assert.Equal(t, uint64(camera.GPUCameraUniformSize), cam.Size)
	screen, ok := cam.Field("screenSize")
	require.True(t, ok)
	assert.Equal(t, uint64(80), screen.Offset)
}
