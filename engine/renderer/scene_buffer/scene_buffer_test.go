package scene_buffer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/Carmen-Shannon/oxy-rt/engine/raytracing"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneSrc = `
//@oxy:include material
//@oxy:include sphere
//@oxy:include triangle
//@oxy:include buffer_info

//@oxy:group 1 0 storage_read spheres array<sphere>
//@oxy:group 1 1 storage_uniform sphereInfo buffer_info
//@oxy:group 2 0 storage_read triangles array<triangle>
//@oxy:group 2 1 storage_uniform triangleInfo buffer_info

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(spheres[0].radius, triangles[0].posA.x, f32(sphereInfo.count), f32(triangleInfo.count));
}
`

// swappedSrc declares a Sphere with the same stride but radius ahead of center.
const swappedSrc = `
struct Sphere {
    radius: f32,
    center: vec3<f32>,
    pad: array<vec4<f32>, 4>,
};
@group(0) @binding(0) var<storage, read> spheres: array<Sphere>;
@fragment
fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(spheres[0].radius); }
`

type initCall struct {
	label      string
	descriptor wgpu.BindGroupLayoutDescriptor
	sizes      map[int]uint64
}

// fakeWriter stands in for the renderer: it hands out placeholder buffers and records writes.
type fakeWriter struct {
	inits   []initCall
	writes  []bind_group_provider.BufferWrite
	initErr error
}

func (f *fakeWriter) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, _ map[int]wgpu.BufferUsage, sizes map[int]uint64) error {
	if f.initErr != nil {
		return f.initErr
	}
	f.inits = append(f.inits, initCall{label: provider.Label(), descriptor: descriptor, sizes: sizes})
	for _, e := range descriptor.Entries {
		provider.SetBuffer(int(e.Binding), &wgpu.Buffer{})
	}
	return nil
}

func (f *fakeWriter) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		w.Data = append([]byte(nil), w.Data...)
		f.writes = append(f.writes, w)
	}
}

func (f *fakeWriter) reset() {
	f.writes = nil
}

func parse(t *testing.T, src string) shader.Shader {
	t.Helper()
	sh, err := shader.NewShaderFromSource("scene", shader.ShaderTypeFragment, src)
	require.NoError(t, err)
	return sh
}

func spheres(n int) []raytracing.GPUSphere {
	out := make([]raytracing.GPUSphere, n)
	for i := range out {
		out[i] = raytracing.NewSphere(mgl32.Vec3{float32(i), 0, 0}, float32(i+1), raytracing.NewMaterial(mgl32.Vec3{1, 1, 1}, 0))
	}
	return out
}

func TestNewAllocatesCapacityTimesStride(t *testing.T) {
	w := &fakeWriter{}
	buf, err := New[raytracing.GPUSphere](w, parse(t, sceneSrc), 1, "spheres", 8, WithInfoVar("sphereInfo"))
	require.NoError(t, err)

	assert.Equal(t, 8, buf.Capacity())
	assert.Equal(t, 0, buf.Count())
	assert.Equal(t, raytracing.GPUSphereSize, buf.Stride())
	assert.Equal(t, 1, buf.Group())
	assert.Equal(t, "spheres", buf.Provider().Label())

	require.Len(t, w.inits, 1)
	assert.Equal(t, uint64(8*raytracing.GPUSphereSize), w.inits[0].sizes[0])
	assert.Len(t, w.inits[0].descriptor.Entries, 2)

	// the info uniform starts at count 0 with the capacity filled in
	require.Len(t, w.writes, 1)
	assert.Equal(t, 1, w.writes[0].Binding)
	assert.Equal(t, uint32(0), common.Uint32At(w.writes[0].Data, 0))
	assert.Equal(t, uint32(8), common.Uint32At(w.writes[0].Data, 4))
}

func TestNewErrors(t *testing.T) {
	sh := parse(t, sceneSrc)
	cases := []struct {
		name  string
		build func(w Writer) error
		want  error
	}{
		{"unknown storage var", func(w Writer) error {
			_, err := New[raytracing.GPUSphere](w, sh, 1, "lights", 4)
			return err
		}, ErrStorageBlockNotFound},
		{"uniform is not a storage block", func(w Writer) error {
			_, err := New[raytracing.GPUSphere](w, sh, 1, "sphereInfo", 4)
			return err
		}, ErrStorageBlockNotFound},
		{"wrong group", func(w Writer) error {
			_, err := New[raytracing.GPUSphere](w, sh, 2, "spheres", 4)
			return err
		}, ErrStorageBlockNotFound},
		{"missing info var", func(w Writer) error {
			_, err := New[raytracing.GPUSphere](w, sh, 1, "spheres", 4, WithInfoVar("triangleInfo"))
			return err
		}, ErrStorageBlockNotFound},
		{"stride mismatch", func(w Writer) error {
			_, err := New[raytracing.GPUSphere](w, sh, 2, "triangles", 4)
			return err
		}, ErrLayoutMismatch},
		{"member offset mismatch", func(w Writer) error {
			_, err := New[raytracing.GPUSphere](w, parse(t, swappedSrc), 0, "spheres", 4)
			return err
		}, ErrLayoutMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := &fakeWriter{}
			assert.ErrorIs(t, tc.build(w), tc.want)
			assert.Empty(t, w.inits)
			assert.Empty(t, w.writes)
		})
	}

	_, err := New[raytracing.GPUSphere](&fakeWriter{}, sh, 1, "spheres", 0)
	assert.Error(t, err)

	boom := errors.New("out of memory")
	_, err = New[raytracing.GPUSphere](&fakeWriter{initErr: boom}, sh, 1, "spheres", 4)
	assert.ErrorIs(t, err, boom)
}

func TestUpdateAtCapacityWritesRecordsAndCount(t *testing.T) {
	w := &fakeWriter{}
	buf, err := New[raytracing.GPUSphere](w, parse(t, sceneSrc), 1, "spheres", 3, WithInfoVar("sphereInfo"))
	require.NoError(t, err)
	w.reset()
	bufferBefore := buf.Provider().Buffer(0)

	require.NoError(t, buf.Update(spheres(3)))
	assert.Equal(t, 3, buf.Count())
	assert.Same(t, bufferBefore, buf.Provider().Buffer(0))

	require.Len(t, w.writes, 2)
	data := w.writes[0]
	assert.Equal(t, 0, data.Binding)
	assert.Equal(t, uint64(0), data.Offset)
	require.Len(t, data.Data, 3*raytracing.GPUSphereSize)
	// radius of record 2 sits at stride*2 + 16
	assert.Equal(t, float32(3), common.Float32At(data.Data, 2*raytracing.GPUSphereSize+16))

	info := w.writes[1]
	assert.Equal(t, 1, info.Binding)
	assert.Equal(t, uint32(3), common.Uint32At(info.Data, 0))
}

func TestUpdateOverCapacityWritesNothing(t *testing.T) {
	w := &fakeWriter{}
	buf, err := New[raytracing.GPUSphere](w, parse(t, sceneSrc), 1, "spheres", 3, WithInfoVar("sphereInfo"))
	require.NoError(t, err)
	require.NoError(t, buf.Update(spheres(2)))
	w.reset()

	err = buf.Update(spheres(4))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Empty(t, w.writes)
	assert.Equal(t, 2, buf.Count())
}

func TestUpdateEmptyOnlyPublishesCount(t *testing.T) {
	w := &fakeWriter{}
	buf, err := New[raytracing.GPUTriangle](w, parse(t, sceneSrc), 2, "triangles", 2, WithInfoVar("triangleInfo"), WithLabel("tris"))
	require.NoError(t, err)
	assert.Equal(t, "tris", buf.Provider().Label())
	w.reset()

	require.NoError(t, buf.Update(nil))
	require.Len(t, w.writes, 1)
	assert.Equal(t, 1, w.writes[0].Binding)
	assert.Equal(t, uint32(0), common.Uint32At(w.writes[0].Data, 0))
	assert.Equal(t, uint32(2), common.Uint32At(w.writes[0].Data, 4))
}

type countingPacker struct {
	calls int
}

func (p *countingPacker) Pack(dst []byte, stride, n int, put func(i int, out []byte)) {
	p.calls++
	SerialPacker{}.Pack(dst, stride, n, put)
}

func TestWithPacker(t *testing.T) {
	p := &countingPacker{}
	w := &fakeWriter{}
	buf, err := New[raytracing.GPUSphere](w, parse(t, sceneSrc), 1, "spheres", 4, WithPacker(p))
	require.NoError(t, err)
	require.NoError(t, buf.Update(spheres(4)))
	assert.Equal(t, 1, p.calls)
}
