package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneFragment = `
//@oxy:include camera
//@oxy:include material
//@oxy:include sphere
//@oxy:include triangle
//@oxy:include buffer_info

//@oxy:group 0 0 storage_uniform camera camera
//@oxy:group 1 0 storage_read spheres array<sphere>
//@oxy:group 1 1 storage_uniform sphereInfo buffer_info
//@oxy:group 2 0 storage_read triangles array<triangle>

@fragment
fn fs_main(@builtin(position) p: vec4<f32>) -> @location(0) vec4<f32> {
    return vec4<f32>(spheres[0].radius, triangles[0].posA.x, f32(sphereInfo.count), camera.fov);
}
`

func TestNewShaderFromSourceResolvesRecordLayouts(t *testing.T) {
	s, err := NewShaderFromSource("scene", ShaderTypeFragment, sceneFragment)
	require.NoError(t, err)
	assert.Equal(t, "fs_main", s.EntryPoint())

	cases := []struct {
		name  string
		size  uint64
		field string
		off   uint64
	}{
		{"Material", 64, "smoothness", 48},
		{"Sphere", 96, "radius", 16},
		{"Sphere", 96, "material", 32},
		{"Triangle", 160, "normC", 80},
		{"Triangle", 160, "material", 96},
		{"CameraUniform", 96, "screenSize", 80},
		{"CameraUniform", 96, "focusDistance", 92},
		{"BufferInfo", 16, "capacity", 4},
	}
	for _, tc := range cases {
		t.Run(tc.name+"."+tc.field, func(t *testing.T) {
			layout, ok := s.StructLayout(tc.name)
			require.True(t, ok)
			assert.Equal(t, tc.size, layout.Size)
			f, ok := layout.Field(tc.field)
			require.True(t, ok)
			assert.Equal(t, tc.off, f.Offset)
		})
	}
}

func TestStorageBindingLookup(t *testing.T) {
	s, err := NewShaderFromSource("scene", ShaderTypeFragment, sceneFragment)
	require.NoError(t, err)

	b, ok := s.Binding("spheres")
	require.True(t, ok)
	assert.Equal(t, 1, b.Group)
	assert.Equal(t, 0, b.Binding)
	assert.True(t, b.IsStorage())
	assert.True(t, b.Runtime)
	assert.Equal(t, "Sphere", b.ElementType)
	assert.Equal(t, uint64(96), b.Stride)

	info, ok := s.Binding("sphereInfo")
	require.True(t, ok)
	assert.True(t, info.IsUniform())
	assert.False(t, info.Runtime)
	assert.Equal(t, uint64(16), info.Stride)

	_, ok = s.Binding("lights")
	assert.False(t, ok)

	idx, ok := s.BindGroupFromVarName(2, "triangles")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "sphereInfo", s.BindGroupVarName(1, 1))

	bindings := s.Bindings()
	require.Len(t, bindings, 4)
	assert.Equal(t, "camera", bindings[0].Name)
	assert.Equal(t, "triangles", bindings[3].Name)
}

func TestBindGroupLayoutDescriptors(t *testing.T) {
	s, err := NewShaderFromSource("scene", ShaderTypeFragment, sceneFragment)
	require.NoError(t, err)

	group1 := s.BindGroupLayoutDescriptor(1)
	require.Len(t, group1.Entries, 2)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, group1.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(96), group1.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, group1.Entries[1].Buffer.Type)
	assert.Equal(t, wgpu.ShaderStageFragment, group1.Entries[0].Visibility)
	assert.Len(t, s.Declarations(), 4)
}

func TestExplicitAlignAndSizeAttributes(t *testing.T) {
	src := `
struct Padded {
    a: f32,
    @align(16) b: f32,
    @size(32) c: vec2<f32>,
    d: u32,
};
@group(0) @binding(0) var<uniform> padded: Padded;
@vertex
fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(padded.a); }
`
	s, err := NewShaderFromSource("padded", ShaderTypeVertex, src)
	require.NoError(t, err)
	layout, ok := s.StructLayout("Padded")
	require.True(t, ok)

	b, _ := layout.Field("b")
	c, _ := layout.Field("c")
	d, _ := layout.Field("d")
	assert.Equal(t, uint64(16), b.Offset)
	assert.Equal(t, uint64(24), c.Offset)
	assert.Equal(t, uint64(32), c.Size)
	assert.Equal(t, uint64(56), d.Offset)
	assert.Equal(t, uint64(64), layout.Size)
}

func TestNewShaderErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"missing entry point", "struct A { x: f32 };"},
		{"unknown include", "//@oxy:include lights\n@fragment fn fs_main() {}"},
		{"texture binding", "@group(0) @binding(0) var tex: texture_2d<f32>;\n@fragment fn fs_main() {}"},
		{"malformed group", "//@oxy:group 0 x storage_uniform camera camera\n@fragment fn fs_main() {}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewShaderFromSource("bad", ShaderTypeFragment, tc.src)
			assert.Error(t, err)
		})
	}

	_, err := NewShader("missing", ShaderTypeFragment, "/nonexistent/shader.wgsl")
	assert.Error(t, err)
}
