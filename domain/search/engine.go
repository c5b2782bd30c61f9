package search

import (
	"errors"
	"fmt"

	"github.com/capdex/capdex/domain/gallery"
)

// Search errors.
var (
	// ErrEmptyStore indicates a search ran against zero stored records.
	ErrEmptyStore = errors.New("no images stored")

	// ErrDimensionMismatch indicates a stored embedding disagrees in length
	// with the query embedding.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Match is the best-scoring stored row for a query.
type Match struct {
	caption    string
	imageBytes []byte
	score      float64
}

// NewMatch creates a Match.
func NewMatch(caption string, imageBytes []byte, score float64) Match {
	return Match{
		caption:    caption,
		imageBytes: imageBytes,
		score:      score,
	}
}

// Caption returns the matched record's caption.
func (m Match) Caption() string { return m.caption }

// ImageBytes returns the matched record's compressed image payload.
func (m Match) ImageBytes() []byte { return m.imageBytes }

// Score returns the dot-product similarity score.
func (m Match) Score() float64 { return m.score }

// NearestMatch scans rows exhaustively and returns the single row whose
// embedding has the highest dot product with query. Scoring assumes both
// the query and the stored vectors are unit-norm (the Embedder contract);
// then the dot product equals cosine similarity.
//
// The running maximum uses strict greater-than, so among equal scores the
// row earliest in insertion order wins. The scan is exact, not an
// approximation.
func NearestMatch(query []float32, rows []gallery.Row) (Match, error) {
	if len(rows) == 0 {
		return Match{}, ErrEmptyStore
	}

	best := -1
	bestScore := 0.0

	for i, row := range rows {
		vec, err := DecodeVector(row.Embedding())
		if err != nil {
			return Match{}, fmt.Errorf("row %d: %w", i, err)
		}
		if len(vec) != len(query) {
			return Match{}, fmt.Errorf("%w: stored dimension %d, query dimension %d",
				ErrDimensionMismatch, len(vec), len(query))
		}

		score := Dot(vec, query)
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}

	row := rows[best]
	return NewMatch(row.Caption(), row.ImageBytes(), bestScore), nil
}
