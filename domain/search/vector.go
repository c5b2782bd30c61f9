// Package search implements exact nearest-match search over packed caption
// embeddings.
package search

import (
	"encoding/binary"
	"fmt"
	"math"
)

// bytesPerFloat32 is the width of one packed vector component.
const bytesPerFloat32 = 4

// EncodeVector packs a float32 vector into its durable byte form:
// fixed-width little-endian 32-bit floats, length = len(v) * 4.
func EncodeVector(v []float32) []byte {
	buf := make([]byte, len(v)*bytesPerFloat32)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*bytesPerFloat32:], math.Float32bits(f))
	}
	return buf
}

// DecodeVector unpacks little-endian float32 bytes into a vector.
// The byte length must be a multiple of four.
func DecodeVector(data []byte) ([]float32, error) {
	if len(data)%bytesPerFloat32 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of float32s", ErrDimensionMismatch, len(data))
	}
	v := make([]float32, len(data)/bytesPerFloat32)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*bytesPerFloat32:]))
	}
	return v, nil
}

// Dot returns the dot product of two vectors of equal length.
// For unit-norm vectors this equals their cosine similarity.
func Dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Normalize returns a unit-norm copy of v, or an unchanged copy if v has
// zero magnitude. Embedders that cannot guarantee unit-norm output must run
// their vectors through this before they reach the engine.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)

	var norm2 float64
	for _, f := range v {
		norm2 += float64(f) * float64(f)
	}
	if norm2 == 0 {
		return out
	}

	inv := 1 / math.Sqrt(norm2)
	for i := range out {
		out[i] = float32(float64(out[i]) * inv)
	}
	return out
}
