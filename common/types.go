// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec3Padded is the 16-byte GPU representation of a 3-component vector. WGSL aligns vec3<f32>
// to 16 bytes, so every vec3 field in a GPU record occupies a full 16-byte slot and the fourth
// word is always written as zero.
type Vec3Padded struct {
	X, Y, Z float32
	_       float32
}

// Vec3PaddedSize is the size of Vec3Padded in bytes.
const Vec3PaddedSize = 16

var _ = [1]struct{}{}[unsafe.Sizeof(Vec3Padded{})-Vec3PaddedSize]

// PadVec3 converts an mgl32 vector to its padded GPU form.
//
// Parameters:
//   - v: the vector to pad
//
// Returns:
//   - Vec3Padded: the padded vector
func PadVec3(v mgl32.Vec3) Vec3Padded {
	return Vec3Padded{X: v[0], Y: v[1], Z: v[2]}
}

// Vec3 returns the unpadded vector.
func (v Vec3Padded) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// PutInto writes the vector into dst at offset, zeroing the pad word.
//
// Parameters:
//   - dst: the destination byte slice
//   - offset: the byte offset of the slot
//
// Returns:
//   - int: the byte offset just past the 16-byte slot
func (v Vec3Padded) PutInto(dst []byte, offset int) int {
	return PutFloat32s(dst, offset, v.X, v.Y, v.Z, 0)
}

// RGBA is a linear color with alpha, laid out as a WGSL vec4<f32>.
type RGBA struct {
	R, G, B, A float32
}

// PutInto writes the color into dst at offset.
//
// Parameters:
//   - dst: the destination byte slice
//   - offset: the byte offset of the slot
//
// Returns:
//   - int: the byte offset just past the 16-byte slot
func (c RGBA) PutInto(dst []byte, offset int) int {
	return PutFloat32s(dst, offset, c.R, c.G, c.B, c.A)
}
