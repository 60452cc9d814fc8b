package camera

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (96 bytes).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned representation of the raytracer's camera uniform.
// Matches the WGSL CameraUniform struct layout exactly (see GPUCameraUniformSource).
type GPUCameraUniform struct {
	LocalToWorld  [16]float32       // offset  0: camera-to-world transform (mat4x4<f32>)
	Position      common.Vec3Padded // offset 64: world-space camera position (vec3<f32>)
	ScreenSize    [2]float32        // offset 80: framebuffer size in pixels (vec2<f32>)
	Fov           float32           // offset 88: vertical field of view in degrees
	FocusDistance float32           // offset 92: distance to the focal plane
}

// GPUCameraUniformSize is the size of GPUCameraUniform in bytes.
const GPUCameraUniformSize = 96

var _ = [1]struct{}{}[unsafe.Sizeof(GPUCameraUniform{})-GPUCameraUniformSize]

// NewGPUCameraUniform fills the uniform from a camera's current state.
//
// Parameters:
//   - cam: the camera to read
//   - width, height: the framebuffer size in pixels
//   - focusDistance: the distance to the focal plane
//
// Returns:
//   - GPUCameraUniform: the populated uniform
func NewGPUCameraUniform(cam Camera, width, height uint32, focusDistance float32) GPUCameraUniform {
	p := cam.Params()
	transform := cam.Transform()
	if cam.Derivation() != DerivationLocalToWorld {
		transform = DeriveLocalToWorld(p)
	}
	return GPUCameraUniform{
		LocalToWorld:  [16]float32(transform),
		Position:      common.PadVec3(p.Position),
		ScreenSize:    [2]float32{float32(width), float32(height)},
		Fov:           p.Fov,
		FocusDistance: focusDistance,
	}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutFloat32s(buf, 0, g.LocalToWorld[:]...)
	off = g.Position.PutInto(buf, off)
	common.PutFloat32s(buf, off, g.ScreenSize[0], g.ScreenSize[1], g.Fov, g.FocusDistance)
	return buf
}

// Transform returns the local-to-world matrix as an mgl32 matrix.
func (g *GPUCameraUniform) Transform() mgl32.Mat4 {
	return mgl32.Mat4(g.LocalToWorld)
}
