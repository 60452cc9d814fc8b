package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vertexSrc = `
struct Params { scale: f32 };
@group(0) @binding(1) var<uniform> params: Params;
@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(params.scale);
}
`

const fragmentSrc = `
struct Params { scale: f32 };
struct Tint { rgba: vec4<f32> };
@group(0) @binding(0) var<uniform> tint: Tint;
@group(0) @binding(1) var<uniform> params: Params;
@group(1) @binding(0) var<storage, read> values: array<f32>;
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return tint.rgba * params.scale * values[0];
}
`

func newStages(t *testing.T) (shader.Shader, shader.Shader) {
	t.Helper()
	vs, err := shader.NewShaderFromSource("vs", shader.ShaderTypeVertex, vertexSrc)
	require.NoError(t, err)
	fs, err := shader.NewShaderFromSource("fs", shader.ShaderTypeFragment, fragmentSrc)
	require.NoError(t, err)
	return vs, fs
}

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("fullscreen")
	assert.Equal(t, "fullscreen", p.PipelineKey())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.Nil(t, p.RenderPipeline())
}

func TestValidateRequiresBothStages(t *testing.T) {
	vs, fs := newStages(t)

	assert.ErrorIs(t, NewPipeline("none").Validate(), ErrMissingShader)
	assert.ErrorIs(t, NewPipeline("vs", WithVertexShader(vs)).Validate(), ErrMissingShader)
	assert.NoError(t, NewPipeline("both", WithVertexShader(vs), WithFragmentShader(fs)).Validate())
}

func TestBindGroupLayoutsMergeVisibility(t *testing.T) {
	vs, fs := newStages(t)
	p := NewPipeline("merged", WithVertexShader(vs), WithFragmentShader(fs))

	layouts := p.BindGroupLayouts()
	require.Len(t, layouts, 2)

	group0 := layouts[0].Entries
	require.Len(t, group0, 2)
	assert.Equal(t, uint32(0), group0[0].Binding)
	assert.Equal(t, wgpu.ShaderStageFragment, group0[0].Visibility)
	assert.Equal(t, uint32(1), group0[1].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, group0[1].Visibility)

	group1 := layouts[1].Entries
	require.Len(t, group1, 1)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, group1[0].Buffer.Type)
}

func TestBuilderOptions(t *testing.T) {
	blend := &wgpu.BlendState{}
	p := NewPipeline("opts",
		WithBlendEnabled(true),
		WithBlendState(blend),
		WithCullMode(wgpu.CullModeBack),
		WithFrontFace(wgpu.FrontFaceCW),
		WithTopology(wgpu.PrimitiveTopologyTriangleStrip),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)
	assert.True(t, p.BlendEnabled())
	assert.Same(t, blend, p.BlendState())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleStrip, p.Topology())
	assert.Equal(t, wgpu.ColorWriteMaskRed, p.WriteMask())
	assert.Nil(t, p.Shader(shader.ShaderTypeVertex))
}
