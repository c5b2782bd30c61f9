// Package gallery defines the stored-image domain: the durable ImageRecord,
// the Store contract, and the error taxonomy enforced at write time.
package gallery

import (
	"errors"
	"fmt"
)

// Validation and persistence errors.
var (
	// ErrValidation indicates caller-supplied record fields violate the
	// record invariants.
	ErrValidation = errors.New("invalid image record")

	// ErrDuplicateName indicates an insert was rejected because the image
	// name already exists. The store is left unchanged.
	ErrDuplicateName = errors.New("image name already exists")

	// ErrStorage indicates an underlying persistence fault. Fatal, never
	// retried by the store.
	ErrStorage = errors.New("storage failure")
)

// bytesPerFloat32 is the width of one packed embedding component.
const bytesPerFloat32 = 4

// Record is a stored image with its caption and caption embedding.
// Records are immutable once created; the embedding is kept in its packed
// little-endian float32 form together with its dimension so readers can
// reconstruct the vector without assuming a global model size.
type Record struct {
	id           int64
	name         string
	width        int
	height       int
	caption      string
	imageBytes   []byte
	embedding    []byte
	embeddingDim int
}

// NewRecord validates the caller-supplied fields and builds a Record ready
// for insertion. The id is assigned by the store.
func NewRecord(name string, width, height int, caption string, imageBytes, embedding []byte, embeddingDim int) (Record, error) {
	if name == "" {
		return Record{}, fmt.Errorf("%w: empty image name", ErrValidation)
	}
	if width <= 0 || height <= 0 {
		return Record{}, fmt.Errorf("%w: dimensions %dx%d must be positive", ErrValidation, width, height)
	}
	if caption == "" {
		return Record{}, fmt.Errorf("%w: empty caption", ErrValidation)
	}
	if len(imageBytes) == 0 {
		return Record{}, fmt.Errorf("%w: empty image payload", ErrValidation)
	}
	if embeddingDim <= 0 {
		return Record{}, fmt.Errorf("%w: embedding dimension %d must be positive", ErrValidation, embeddingDim)
	}
	if len(embedding) != embeddingDim*bytesPerFloat32 {
		return Record{}, fmt.Errorf("%w: embedding is %d bytes, want %d for dimension %d",
			ErrValidation, len(embedding), embeddingDim*bytesPerFloat32, embeddingDim)
	}

	return Record{
		name:         name,
		width:        width,
		height:       height,
		caption:      caption,
		imageBytes:   imageBytes,
		embedding:    embedding,
		embeddingDim: embeddingDim,
	}, nil
}

// ID returns the store-assigned record id (zero before insertion).
func (r Record) ID() int64 { return r.id }

// Name returns the unique image name.
func (r Record) Name() string { return r.name }

// Width returns the stored image width in pixels.
func (r Record) Width() int { return r.width }

// Height returns the stored image height in pixels.
func (r Record) Height() int { return r.height }

// Caption returns the machine-generated caption.
func (r Record) Caption() string { return r.caption }

// ImageBytes returns the compressed image payload.
func (r Record) ImageBytes() []byte { return r.imageBytes }

// Embedding returns the packed little-endian float32 embedding bytes.
func (r Record) Embedding() []byte { return r.embedding }

// EmbeddingDim returns the number of floats packed in Embedding.
func (r Record) EmbeddingDim() int { return r.embeddingDim }

// WithID returns a copy of the record carrying the store-assigned id.
func (r Record) WithID(id int64) Record {
	r.id = id
	return r
}
