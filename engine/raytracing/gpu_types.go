// Package raytracing defines the fixed-layout records the raytrace shader reads from its
// storage and uniform buffers. Each Go type mirrors a WGSL struct byte for byte; sizes are
// pinned at compile time and member offsets are checked at buffer creation.
package raytracing

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// GPUMaterialSource is the WGSL definition of the Material struct (64 bytes).
	//
	//go:embed assets/material.wgsl
	GPUMaterialSource string

	// GPUSphereSource is the WGSL definition of the Sphere struct (96 bytes).
	//
	//go:embed assets/sphere.wgsl
	GPUSphereSource string

	// GPUTriangleSource is the WGSL definition of the Triangle struct (160 bytes).
	//
	//go:embed assets/triangle.wgsl
	GPUTriangleSource string

	// GPURTSettingsSource is the WGSL definition of the RTSettings uniform (16 bytes).
	//
	//go:embed assets/rt_settings.wgsl
	GPURTSettingsSource string

	// GPUBufferInfoSource is the WGSL definition of the BufferInfo uniform (16 bytes).
	//
	//go:embed assets/buffer_info.wgsl
	GPUBufferInfoSource string
)

const (
	GPUMaterialSize   = 64
	GPUSphereSize     = 96
	GPUTriangleSize   = 160
	GPURTSettingsSize = 16
	GPUBufferInfoSize = 16
)

var (
	_ = [1]struct{}{}[unsafe.Sizeof(GPUMaterial{})-GPUMaterialSize]
	_ = [1]struct{}{}[unsafe.Sizeof(GPUSphere{})-GPUSphereSize]
	_ = [1]struct{}{}[unsafe.Sizeof(GPUTriangle{})-GPUTriangleSize]
	_ = [1]struct{}{}[unsafe.Sizeof(GPURTSettings{})-GPURTSettingsSize]
	_ = [1]struct{}{}[unsafe.Sizeof(GPUBufferInfo{})-GPUBufferInfoSize]
)

// Record is a fixed-size value that can be packed into a GPU storage buffer.
type Record interface {
	// Size returns the record stride in bytes.
	Size() int

	// MarshalInto writes exactly Size() bytes into dst, which must be at least that long.
	MarshalInto(dst []byte)

	// Layout returns the record's member layout.
	Layout() RecordLayout
}

var (
	_ Record = GPUMaterial{}
	_ Record = GPUSphere{}
	_ Record = GPUTriangle{}
)

// GPUMaterial is the surface description shared by every scene object.
type GPUMaterial struct {
	Color      common.RGBA // offset  0: albedo
	Emission   common.RGBA // offset 16: emission color in rgb, emission strength in a
	Specular   common.RGBA // offset 32: specular color in rgb, chance of a specular bounce in a
	Smoothness float32     // offset 48: 0 is fully diffuse, 1 is a perfect mirror
	_          [3]float32  // offset 52: padding to 64 bytes
}

// NewMaterial creates a non-emissive material. With no specular chance every bounce blends the
// diffuse and mirror directions by smoothness.
//
// Parameters:
//   - color: the albedo
//   - smoothness: the surface smoothness in [0, 1]
//
// Returns:
//   - GPUMaterial: the material
func NewMaterial(color mgl32.Vec3, smoothness float32) GPUMaterial {
	return GPUMaterial{
		Color:      common.RGBA{R: color[0], G: color[1], B: color[2], A: 1},
		Specular:   common.RGBA{R: 1, G: 1, B: 1},
		Smoothness: smoothness,
	}
}

// WithEmission returns a copy of m that emits color at the given strength.
//
// Parameters:
//   - color: the emitted color
//   - strength: the emission strength
//
// Returns:
//   - GPUMaterial: the emissive material
func (m GPUMaterial) WithEmission(color mgl32.Vec3, strength float32) GPUMaterial {
	m.Emission = common.RGBA{R: color[0], G: color[1], B: color[2], A: strength}
	return m
}

// WithSpecular returns a copy of m whose bounces are specular with the given probability,
// tinted by color.
func (m GPUMaterial) WithSpecular(color mgl32.Vec3, probability float32) GPUMaterial {
	m.Specular = common.RGBA{R: color[0], G: color[1], B: color[2], A: probability}
	return m
}

func (m GPUMaterial) Size() int {
	return GPUMaterialSize
}

func (m GPUMaterial) MarshalInto(dst []byte) {
	off := m.Color.PutInto(dst, 0)
	off = m.Emission.PutInto(dst, off)
	off = m.Specular.PutInto(dst, off)
	common.PutFloat32s(dst, off, m.Smoothness, 0, 0, 0)
}

func (m GPUMaterial) Layout() RecordLayout {
	return RecordLayout{
		Name: "Material",
		Size: int(unsafe.Sizeof(m)),
		Fields: []FieldLayout{
			field("color", "vec4<f32>", unsafe.Offsetof(m.Color), unsafe.Sizeof(m.Color)),
			field("emission", "vec4<f32>", unsafe.Offsetof(m.Emission), unsafe.Sizeof(m.Emission)),
			field("specular", "vec4<f32>", unsafe.Offsetof(m.Specular), unsafe.Sizeof(m.Specular)),
			field("smoothness", "f32", unsafe.Offsetof(m.Smoothness), unsafe.Sizeof(m.Smoothness)),
		},
	}
}

// GPUSphere is one sphere in the spheres storage buffer.
type GPUSphere struct {
	Center   common.Vec3Padded // offset  0
	Radius   float32           // offset 16: own 16-byte slot
	_        [3]float32        // offset 20
	Material GPUMaterial       // offset 32
}

// NewSphere creates a sphere record.
//
// Parameters:
//   - center: the world-space center
//   - radius: the radius
//   - material: the surface material
//
// Returns:
//   - GPUSphere: the sphere record
func NewSphere(center mgl32.Vec3, radius float32, material GPUMaterial) GPUSphere {
	return GPUSphere{
		Center:   common.PadVec3(center),
		Radius:   radius,
		Material: material,
	}
}

func (s GPUSphere) Size() int {
	return GPUSphereSize
}

func (s GPUSphere) MarshalInto(dst []byte) {
	off := s.Center.PutInto(dst, 0)
	off = common.PutFloat32s(dst, off, s.Radius, 0, 0, 0)
	s.Material.MarshalInto(dst[off:])
}

func (s GPUSphere) Layout() RecordLayout {
	return RecordLayout{
		Name: "Sphere",
		Size: int(unsafe.Sizeof(s)),
		Fields: []FieldLayout{
			field("center", "vec3<f32>", unsafe.Offsetof(s.Center), unsafe.Sizeof(s.Center)),
			field("radius", "f32", unsafe.Offsetof(s.Radius), unsafe.Sizeof(s.Radius)),
			field("material", "Material", unsafe.Offsetof(s.Material), unsafe.Sizeof(s.Material)),
		},
	}
}

// GPUTriangle is one triangle in the triangles storage buffer, with per-vertex normals.
type GPUTriangle struct {
	PosA     common.Vec3Padded // offset   0
	PosB     common.Vec3Padded // offset  16
	PosC     common.Vec3Padded // offset  32
	NormA    common.Vec3Padded // offset  48
	NormB    common.Vec3Padded // offset  64
	NormC    common.Vec3Padded // offset  80
	Material GPUMaterial       // offset  96
}

// NewTriangle creates a flat-shaded triangle whose three normals are the face normal of the
// counter-clockwise winding a, b, c.
//
// Parameters:
//   - a, b, c: the vertex positions
//   - material: the surface material
//
// Returns:
//   - GPUTriangle: the triangle record
func NewTriangle(a, b, c mgl32.Vec3, material GPUMaterial) GPUTriangle {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return NewSmoothTriangle([3]mgl32.Vec3{a, b, c}, [3]mgl32.Vec3{n, n, n}, material)
}

// NewSmoothTriangle creates a triangle with explicit per-vertex normals.
//
// Parameters:
//   - positions: the vertex positions A, B, C
//   - normals: the vertex normals A, B, C
//   - material: the surface material
//
// Returns:
//   - GPUTriangle: the triangle record
func NewSmoothTriangle(positions, normals [3]mgl32.Vec3, material GPUMaterial) GPUTriangle {
	return GPUTriangle{
		PosA:     common.PadVec3(positions[0]),
		PosB:     common.PadVec3(positions[1]),
		PosC:     common.PadVec3(positions[2]),
		NormA:    common.PadVec3(normals[0]),
		NormB:    common.PadVec3(normals[1]),
		NormC:    common.PadVec3(normals[2]),
		Material: material,
	}
}

func (t GPUTriangle) Size() int {
	return GPUTriangleSize
}

func (t GPUTriangle) MarshalInto(dst []byte) {
	off := 0
	for _, v := range [...]common.Vec3Padded{t.PosA, t.PosB, t.PosC, t.NormA, t.NormB, t.NormC} {
		off = v.PutInto(dst, off)
	}
	t.Material.MarshalInto(dst[off:])
}

func (t GPUTriangle) Layout() RecordLayout {
	return RecordLayout{
		Name: "Triangle",
		Size: int(unsafe.Sizeof(t)),
		Fields: []FieldLayout{
			field("posA", "vec3<f32>", unsafe.Offsetof(t.PosA), unsafe.Sizeof(t.PosA)),
			field("posB", "vec3<f32>", unsafe.Offsetof(t.PosB), unsafe.Sizeof(t.PosB)),
			field("posC", "vec3<f32>", unsafe.Offsetof(t.PosC), unsafe.Sizeof(t.PosC)),
			field("normA", "vec3<f32>", unsafe.Offsetof(t.NormA), unsafe.Sizeof(t.NormA)),
			field("normB", "vec3<f32>", unsafe.Offsetof(t.NormB), unsafe.Sizeof(t.NormB)),
			field("normC", "vec3<f32>", unsafe.Offsetof(t.NormC), unsafe.Sizeof(t.NormC)),
			field("material", "Material", unsafe.Offsetof(t.Material), unsafe.Sizeof(t.Material)),
		},
	}
}

// GPURTSettings is the raytracer settings uniform.
type GPURTSettings struct {
	MaxBounces      uint32  // offset  0: bounces per ray
	RaysPerFrag     uint32  // offset  4: rays traced per fragment
	DivergeStrength float32 // offset  8: jitter applied to primary ray origins
	Frame           uint32  // offset 12: frame index used to seed the shader's RNG
}

// Size returns the size of the GPURTSettings struct in bytes.
func (g *GPURTSettings) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the settings for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPURTSettings) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutUint32s(buf, 0, g.MaxBounces, g.RaysPerFrag)
	off = common.PutFloat32s(buf, off, g.DivergeStrength)
	common.PutUint32s(buf, off, g.Frame)
	return buf
}

// GPUBufferInfo is the companion uniform of a scene buffer, carrying how many records are live.
type GPUBufferInfo struct {
	Count    uint32    // offset 0: live records
	Capacity uint32    // offset 4: reserved records
	_        [2]uint32 // offset 8: padding to 16 bytes
}

// Size returns the size of the GPUBufferInfo struct in bytes.
func (g *GPUBufferInfo) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the info for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUBufferInfo) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutUint32s(buf, 0, g.Count, g.Capacity, 0, 0)
	return buf
}

// Layouts returns the layouts of every storage record, in dependency order.
func Layouts() []RecordLayout {
	return []RecordLayout{
		GPUMaterial{}.Layout(),
		GPUSphere{}.Layout(),
		GPUTriangle{}.Layout(),
	}
}
