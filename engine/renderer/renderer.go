package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-rt/engine/log"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

var logger = log.New("renderer")

// Surface is the presentation target a renderer draws into. window.Window satisfies it.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
// It caches registered pipelines and forwards GPU work to the selected backend.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	forceFallbackAdapter bool
	presentMode          PresentMode
	clearColor           wgpu.Color
}

// Renderer is the GPU front end used by the frame handler. It owns the device, the surface
// configuration and the registered pipelines, and draws one full-screen pass per frame.
type Renderer interface {
	// Pipeline returns a registered pipeline.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline, or nil if none is registered under key
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates GPU pipelines for each pipeline not yet registered.
	//
	// Parameters:
	//   - pipelines: the pipelines to register
	//
	// Returns:
	//   - error: the first creation error
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface for a new framebuffer size.
	//
	// Parameters:
	//   - width: the framebuffer width in pixels
	//   - height: the framebuffer height in pixels
	Resize(width, height int)

	// InitBindGroup creates the buffers and bind group for provider from a layout descriptor.
	// Buffer sizes default to the binding's minimum size unless overridden.
	//
	// Parameters:
	//   - provider: the provider receiving the GPU objects
	//   - descriptor: the bind group layout
	//   - bufferUsageOverrides: extra buffer usage keyed by binding index
	//   - bufferSizeOverrides: buffer sizes keyed by binding index
	//
	// Returns:
	//   - error: an error if GPU object creation failed
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// WriteBuffers queues buffer uploads.
	//
	// Parameters:
	//   - writes: the writes to queue
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next surface image and opens the render pass.
	//
	// Returns:
	//   - error: an error if the frame could not begin
	BeginFrame() error

	// DrawFullscreen draws the full-screen triangle with a registered pipeline.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered pipeline
	//   - bindGroups: providers bound to groups 0..n-1
	//
	// Returns:
	//   - error: an error if the pipeline is not registered
	DrawFullscreen(pipelineKey string, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame closes the pass and submits it.
	EndFrame()

	// Present presents the frame.
	Present()

	// SetPresentMode changes the present mode and reconfigures the surface at its current size.
	SetPresentMode(mode PresentMode)
}

var _ Renderer = &renderer{}

// NewRenderer creates a renderer for surface and configures the surface at its current size.
// Must be called on the render goroutine, which must stay locked to its OS thread.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - surface: the presentation target
//   - options: functional options
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the GPU device could not be created
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeVSync,
		clearColor:    DefaultClearColor,
	}

	for _, opt := range options {
		opt(r)
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer backend: %w", err)
	}

	r.backend.SetPresentMode(r.presentMode)
	r.backend.SetClearColor(r.clearColor)
	r.backend.ConfigureSurface(surface.Width(), surface.Height())
	logger.Infof("renderer ready: %dx%d, present mode %s", surface.Width(), surface.Height(), r.presentMode)
	return r, nil
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
	r.presentMode = mode
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("pipeline %s: %w", key, err)
		}
		r.pipelineCache[key] = p
		logger.Debugf("registered pipeline %s", key)
	}
	return nil
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.BeginFrame()
}

func (r *renderer) DrawFullscreen(pipelineKey string, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}

	r.backend.DrawFullscreen(p, bindGroups)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}
