package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestPresentModeMapping(t *testing.T) {
	assert.Equal(t, wgpu.PresentModeFifo, PresentModeVSync.wgpuPresentMode())
	assert.Equal(t, wgpu.PresentModeImmediate, PresentModeUncapped.wgpuPresentMode())
	assert.Equal(t, "vsync", PresentModeVSync.String())
	assert.Equal(t, "uncapped", PresentModeUncapped.String())
	assert.Equal(t, "unknown", PresentMode(9).String())
}

func TestBuilderOptions(t *testing.T) {
	r := &renderer{presentMode: PresentModeVSync, clearColor: DefaultClearColor}
	for _, opt := range []RendererBuilderOption{
		WithPresentMode(PresentModeUncapped),
		WithClearColor(wgpu.Color{R: 1, A: 1}),
		WithForceSoftwareRenderer(true),
	} {
		opt(r)
	}
	assert.Equal(t, PresentModeUncapped, r.presentMode)
	assert.Equal(t, wgpu.Color{R: 1, A: 1}, r.clearColor)
	assert.True(t, r.forceFallbackAdapter)
}

func TestDefaultClearColor(t *testing.T) {
	assert.InDelta(t, 0.04, DefaultClearColor.R, 1e-9)
	assert.InDelta(t, 0.05, DefaultClearColor.G, 1e-9)
	assert.InDelta(t, 0.09, DefaultClearColor.B, 1e-9)
	assert.Equal(t, 1.0, DefaultClearColor.A)
}
