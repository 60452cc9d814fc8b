// Package raytracer is the frame handler that draws a scene with the full-screen raytrace pass.
// Each frame it moves the camera from the held keys, uploads the camera and settings uniforms,
// flushes the scene buffers and draws one triangle covering the viewport.
package raytracer

import (
	_ "embed"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-rt/engine"
	"github.com/Carmen-Shannon/oxy-rt/engine/camera"
	"github.com/Carmen-Shannon/oxy-rt/engine/log"
	"github.com/Carmen-Shannon/oxy-rt/engine/raytracing"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/scene_buffer"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-rt/engine/scene"
)

var logger = log.New("raytracer")

//go:embed assets/fullscreen.wgsl
var fullscreenSource string

//go:embed assets/raytrace.wgsl
var raytraceSource string

// PipelineKey is the key the raytrace pipeline is registered under.
const PipelineKey = "raytrace"

// Group 0 of the raytrace shader holds the per-frame uniforms.
const (
	globalsGroup    = 0
	cameraBinding   = 0
	settingsBinding = 1
)

var (
	// SphereBinding names the sphere buffer and its info uniform in the raytrace shader.
	SphereBinding = scene.BufferBinding{Group: 1, StorageVar: "spheres", InfoVar: "sphereInfo"}

	// TriangleBinding names the triangle buffer and its info uniform in the raytrace shader.
	TriangleBinding = scene.BufferBinding{Group: 2, StorageVar: "triangles", InfoVar: "triangleInfo"}
)

// ErrNotInitialized is returned by Frame before Init succeeded.
var ErrNotInitialized = errors.New("raytracer is not initialized")

// Renderer is the part of renderer.Renderer the raytracer draws through.
type Renderer interface {
	scene_buffer.Writer
	RegisterPipelines(pipelines ...pipeline.Pipeline) error
	Resize(width, height int)
	BeginFrame() error
	DrawFullscreen(pipelineKey string, bindGroups []bind_group_provider.BindGroupProvider) error
	EndFrame()
	Present()
}

// RendererFactory creates the renderer on the render goroutine during Init.
type RendererFactory func(surface renderer.Surface) (Renderer, error)

// Settings are the raytracing parameters uploaded with every frame.
type Settings struct {
	// MaxBounces is how many times a ray may scatter before it is dropped.
	MaxBounces uint32

	// RaysPerFrag is how many rays are averaged per pixel per frame.
	RaysPerFrag uint32

	// DivergeStrength jitters primary ray origins, in pixels; 0 disables depth of field.
	DivergeStrength float32

	// FocusDistance is the distance from the camera to the plane in focus.
	FocusDistance float32
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		MaxBounces:      4,
		RaysPerFrag:     8,
		DivergeStrength: 1,
		FocusDistance:   1,
	}
}

// GPU returns the uniform form of the settings for frame.
func (s Settings) GPU(frame uint32) raytracing.GPURTSettings {
	return raytracing.GPURTSettings{
		MaxBounces:      s.MaxBounces,
		RaysPerFrag:     s.RaysPerFrag,
		DivergeStrength: s.DivergeStrength,
		Frame:           frame,
	}
}

// handler is the implementation of the Handler interface.
type handler struct {
	surface     renderer.Surface
	newRenderer RendererFactory
	rendererOps []renderer.RendererBuilderOption

	camera     camera.Camera
	controller camera.CameraController
	scene      scene.Scene
	settings   Settings

	sphereCapacity   int
	triangleCapacity int

	renderer Renderer
	pipeline pipeline.Pipeline
	globals  bind_group_provider.BindGroupProvider

	width, height int

	// pendingSize holds width<<32 | height from the last Resize not yet applied; 0 when none
	pendingSize atomic.Uint64
}

// Handler is an engine.FrameHandler that raytraces a scene.
type Handler interface {
	engine.FrameHandler

	// Camera returns the camera the handler moves and uploads.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Scene returns the scene the handler draws.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Settings returns the raytracing settings.
	//
	// Returns:
	//   - Settings: the settings
	Settings() Settings
}

var _ Handler = &handler{}

// NewHandler creates a raytracer for sc drawing into surface. No GPU work happens until Init.
//
// Parameters:
//   - surface: the presentation target, usually the window
//   - sc: the scene to draw
//   - options: functional options
//
// Returns:
//   - Handler: the frame handler
func NewHandler(surface renderer.Surface, sc scene.Scene, options ...HandlerOption) Handler {
	h := &handler{
		surface:          surface,
		scene:            sc,
		settings:         DefaultSettings(),
		sphereCapacity:   64,
		triangleCapacity: 1024,
	}
	for _, opt := range options {
		opt(h)
	}
	if h.camera == nil {
		h.camera = camera.NewCamera()
	}
	if h.controller == nil {
		h.controller = camera.NewCameraController()
	}
	if h.newRenderer == nil {
		ops := h.rendererOps
		h.newRenderer = func(s renderer.Surface) (Renderer, error) {
			r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, s, ops...)
			if err != nil {
				return nil, err
			}
			return r, nil
		}
	}
	return h
}

func (h *handler) Camera() camera.Camera {
	return h.camera
}

func (h *handler) Scene() scene.Scene {
	return h.scene
}

func (h *handler) Settings() Settings {
	return h.settings
}

// Shaders parses the embedded vertex and fragment programs of the raytrace pass.
//
// Returns:
//   - vertex: the full-screen triangle shader
//   - fragment: the raytrace shader
//   - err: a parse error
func Shaders() (vertex, fragment shader.Shader, err error) {
	vertex, err = shader.NewShaderFromSource("fullscreen", shader.ShaderTypeVertex, fullscreenSource)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load fullscreen shader: %w", err)
	}
	fragment, err = shader.NewShaderFromSource("raytrace", shader.ShaderTypeFragment, raytraceSource)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load raytrace shader: %w", err)
	}
	return vertex, fragment, nil
}

func (h *handler) Init() error {
	vs, fs, err := Shaders()
	if err != nil {
		return err
	}

	r, err := h.newRenderer(h.surface)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	h.renderer = r

	p := pipeline.NewPipeline(PipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	)
	if err := r.RegisterPipelines(p); err != nil {
		return fmt.Errorf("failed to register %s pipeline: %w", PipelineKey, err)
	}
	h.pipeline = p

	globals := bind_group_provider.NewBindGroupProvider("raytrace globals")
	if err := r.InitBindGroup(globals, p.BindGroupLayouts()[globalsGroup], nil, nil); err != nil {
		return fmt.Errorf("failed to create raytrace globals: %w", err)
	}
	h.globals = globals

	spheres, triangles := SphereBinding, TriangleBinding
	spheres.Capacity = h.sphereCapacity
	triangles.Capacity = h.triangleCapacity
	if err := h.scene.Bind(r, fs, spheres, triangles); err != nil {
		return err
	}

	h.setSize(h.surface.Width(), h.surface.Height())
	logger.Infof("raytracer ready: %d bounces, %d rays per pixel", h.settings.MaxBounces, h.settings.RaysPerFrag)
	return nil
}

func (h *handler) Frame(ctx engine.FrameContext) error {
	if h.renderer == nil {
		return ErrNotInitialized
	}
	h.applyResize()

	h.controller.Step(h.camera, ctx.Held, ctx.Delta)
	h.writeUniforms(uint32(ctx.Frame))

	if _, err := h.scene.Flush(); err != nil {
		return fmt.Errorf("failed to upload scene: %w", err)
	}

	if err := h.renderer.BeginFrame(); err != nil {
		logger.Debugf("skipping frame %d: %v", ctx.Frame, err)
		return nil
	}
	groups := append([]bind_group_provider.BindGroupProvider{h.globals}, h.scene.BindGroups()...)
	err := h.renderer.DrawFullscreen(PipelineKey, groups)
	h.renderer.EndFrame()
	if err != nil {
		return err
	}
	h.renderer.Present()
	return nil
}

func (h *handler) Resize(width, height int) {
	// a minimized window reports 0x0; the surface keeps its last size
	if width <= 0 || height <= 0 {
		return
	}
	h.pendingSize.Store(uint64(uint32(width))<<32 | uint64(uint32(height)))
}

func (h *handler) Close() {
	h.scene.Close()
	if h.globals != nil {
		h.globals.Release()
		h.globals = nil
	}
	h.renderer = nil
}

// applyResize reconfigures the surface and the camera aspect for the last pending size.
func (h *handler) applyResize() {
	packed := h.pendingSize.Swap(0)
	if packed == 0 {
		return
	}
	width, height := int(packed>>32), int(uint32(packed))
	h.renderer.Resize(width, height)
	h.setSize(width, height)
	logger.Debugf("resized to %dx%d", width, height)
}

func (h *handler) setSize(width, height int) {
	h.width, h.height = width, height
	if width > 0 && height > 0 {
		h.camera.Set(camera.WithAspect(float32(width) / float32(height)))
	}
}

// writeUniforms queues the camera and settings uploads for frame.
func (h *handler) writeUniforms(frame uint32) {
	cam := camera.NewGPUCameraUniform(h.camera, uint32(h.width), uint32(h.height), h.settings.FocusDistance)
	settings := h.settings.GPU(frame)
	h.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: h.globals, Binding: cameraBinding, Data: cam.Marshal()},
		{Provider: h.globals, Binding: settingsBinding, Data: settings.Marshal()},
	})
}
