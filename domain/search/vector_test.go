package search

import (
	"errors"
	"math"
	"testing"
)

func TestEncodeVector(t *testing.T) {
	v := []float32{1.0, -0.5, 0.25}

	data := EncodeVector(v)
	if len(data) != 12 {
		t.Fatalf("encoded length = %d, want 12", len(data))
	}

	// 1.0 is 0x3f800000 little-endian
	if data[0] != 0x00 || data[1] != 0x00 || data[2] != 0x80 || data[3] != 0x3f {
		t.Errorf("first float encoded as % x, want 00 00 80 3f", data[:4])
	}
}

func TestEncodeVector_Empty(t *testing.T) {
	data := EncodeVector(nil)
	if len(data) != 0 {
		t.Errorf("encoded length = %d, want 0", len(data))
	}
}

func TestDecodeVector_RoundTrip(t *testing.T) {
	v := []float32{0.6, 0.8, -1.5, 0, math.MaxFloat32}

	got, err := DecodeVector(EncodeVector(v))
	if err != nil {
		t.Fatalf("DecodeVector: %v", err)
	}
	if len(got) != len(v) {
		t.Fatalf("decoded length = %d, want %d", len(got), len(v))
	}
	for i := range v {
		if got[i] != v[i] {
			t.Errorf("component %d = %v, want %v", i, got[i], v[i])
		}
	}
}

func TestDecodeVector_TruncatedBytes(t *testing.T) {
	_, err := DecodeVector(make([]byte, 7))
	if err == nil {
		t.Fatal("expected error for 7 bytes")
	}
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("error should match ErrDimensionMismatch, got %v", err)
	}
}

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
	}{
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"identical unit", []float32{1, 0}, []float32{1, 0}, 1},
		{"opposite", []float32{0, 1}, []float32{0, -1}, -1},
		{"general", []float32{0.6, 0.8}, []float32{0.8, 0.6}, 0.96},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dot(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-6 {
				t.Errorf("Dot = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	v := []float32{3, 4}

	got := Normalize(v)

	if math.Abs(float64(got[0])-0.6) > 1e-6 || math.Abs(float64(got[1])-0.8) > 1e-6 {
		t.Errorf("Normalize = %v, want [0.6 0.8]", got)
	}
	if v[0] != 3 || v[1] != 4 {
		t.Error("Normalize should not mutate its input")
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	got := Normalize([]float32{0, 0, 0})
	for i, f := range got {
		if f != 0 {
			t.Errorf("component %d = %v, want 0", i, f)
		}
	}
}
