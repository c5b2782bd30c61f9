package gallery

import "context"

// Row is one entry of a read-only store snapshot: the fields the search
// engine needs, with names instead of positions.
type Row struct {
	embedding  []byte
	caption    string
	imageBytes []byte
}

// NewRow creates a snapshot row.
func NewRow(embedding []byte, caption string, imageBytes []byte) Row {
	return Row{
		embedding:  embedding,
		caption:    caption,
		imageBytes: imageBytes,
	}
}

// Embedding returns the packed little-endian float32 embedding bytes.
func (r Row) Embedding() []byte { return r.embedding }

// Caption returns the stored caption.
func (r Row) Caption() string { return r.caption }

// ImageBytes returns the compressed image payload.
func (r Row) ImageBytes() []byte { return r.imageBytes }

// Store persists image records. Implementations must make Insert atomic:
// a rejected insert leaves no partial row behind, and concurrent inserts
// with the same name cannot both succeed.
type Store interface {
	// Insert appends one record in a single transaction and returns the
	// assigned id. Fails with ErrDuplicateName if the name exists, or an
	// ErrStorage-wrapped error on any other persistence fault.
	Insert(ctx context.Context, record Record) (int64, error)

	// ScanAll returns a committed snapshot of all rows in insertion order
	// of id. The ordering is load-bearing: the search engine's tie-break
	// awards equal scores to the earliest inserted row.
	ScanAll(ctx context.Context) ([]Row, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)
}
