package search

import (
	"errors"
	"math"
	"testing"

	"github.com/capdex/capdex/domain/gallery"
)

func row(caption string, embedding []float32) gallery.Row {
	return gallery.NewRow(EncodeVector(embedding), caption, []byte(caption))
}

func TestNearestMatch(t *testing.T) {
	rows := []gallery.Row{
		row("cat", []float32{1, 0}),
		row("dog", []float32{0, 1}),
	}

	match, err := NearestMatch([]float32{0.9, 0.1}, rows)
	if err != nil {
		t.Fatalf("NearestMatch: %v", err)
	}

	if match.Caption() != "cat" {
		t.Errorf("Caption() = %q, want %q", match.Caption(), "cat")
	}
	if string(match.ImageBytes()) != "cat" {
		t.Errorf("ImageBytes() = %q, want %q", match.ImageBytes(), "cat")
	}
	if math.Abs(match.Score()-0.9) > 1e-6 {
		t.Errorf("Score() = %v, want 0.9", match.Score())
	}
}

func TestNearestMatch_ScoreIsDotProduct(t *testing.T) {
	rows := []gallery.Row{row("only", []float32{0.7, 0.7})}

	match, err := NearestMatch([]float32{1, 0}, rows)
	if err != nil {
		t.Fatalf("NearestMatch: %v", err)
	}

	if math.Abs(match.Score()-0.7) > 1e-6 {
		t.Errorf("Score() = %v, want 0.7", match.Score())
	}
}

func TestNearestMatch_TieFirstInsertedWins(t *testing.T) {
	// Identical embeddings: the earlier row must win under strict >.
	rows := []gallery.Row{
		row("first", []float32{0.6, 0.8}),
		row("second", []float32{0.6, 0.8}),
		row("third", []float32{0.6, 0.8}),
	}

	match, err := NearestMatch([]float32{0.6, 0.8}, rows)
	if err != nil {
		t.Fatalf("NearestMatch: %v", err)
	}

	if match.Caption() != "first" {
		t.Errorf("Caption() = %q, want %q", match.Caption(), "first")
	}
}

func TestNearestMatch_AllNegativeScores(t *testing.T) {
	// The initial best must not beat a store whose scores are all below
	// zero.
	rows := []gallery.Row{
		row("far", []float32{-1, 0}),
		row("less far", []float32{-0.6, -0.8}),
	}

	match, err := NearestMatch([]float32{1, 0}, rows)
	if err != nil {
		t.Fatalf("NearestMatch: %v", err)
	}

	if match.Caption() != "less far" {
		t.Errorf("Caption() = %q, want %q", match.Caption(), "less far")
	}
	if math.Abs(match.Score()-(-0.6)) > 1e-6 {
		t.Errorf("Score() = %v, want -0.6", match.Score())
	}
}

func TestNearestMatch_EmptyStore(t *testing.T) {
	_, err := NearestMatch([]float32{1, 0}, nil)
	if !errors.Is(err, ErrEmptyStore) {
		t.Errorf("error should match ErrEmptyStore, got %v", err)
	}
}

func TestNearestMatch_DimensionMismatch(t *testing.T) {
	rows := []gallery.Row{
		row("three", []float32{1, 0, 0}),
	}

	_, err := NearestMatch([]float32{1, 0}, rows)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("error should match ErrDimensionMismatch, got %v", err)
	}
}

func TestNearestMatch_MalformedStoredEmbedding(t *testing.T) {
	rows := []gallery.Row{
		gallery.NewRow([]byte{1, 2, 3}, "broken", []byte("broken")),
	}

	_, err := NearestMatch([]float32{1, 0}, rows)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("error should match ErrDimensionMismatch, got %v", err)
	}
}
