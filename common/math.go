package common

import (
	"encoding/binary"
	"math"
)

// PutFloat32s writes values as little-endian float32 words into dst starting at offset.
// The caller guarantees dst is large enough; GPU record marshaling sizes its buffers up front.
//
// Parameters:
//   - dst: the destination byte slice
//   - offset: the byte offset of the first value
//   - values: the float32 values to write in order
//
// Returns:
//   - int: the byte offset just past the last written value
func PutFloat32s(dst []byte, offset int, values ...float32) int {
	for _, v := range values {
		binary.LittleEndian.PutUint32(dst[offset:], math.Float32bits(v))
		offset += 4
	}
	return offset
}

// PutUint32s writes values as little-endian uint32 words into dst starting at offset.
//
// Parameters:
//   - dst: the destination byte slice
//   - offset: the byte offset of the first value
//   - values: the uint32 values to write in order
//
// Returns:
//   - int: the byte offset just past the last written value
func PutUint32s(dst []byte, offset int, values ...uint32) int {
	for _, v := range values {
		binary.LittleEndian.PutUint32(dst[offset:], v)
		offset += 4
	}
	return offset
}

// Float32At reads a little-endian float32 from src at offset.
func Float32At(src []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(src[offset:]))
}

// Uint32At reads a little-endian uint32 from src at offset.
func Uint32At(src []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(src[offset:])
}
