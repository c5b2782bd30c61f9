// Package service contains the application services gluing collaborators to
// the store: the ingestion pipeline and the search service.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/capdex/capdex/domain/gallery"
	"github.com/capdex/capdex/domain/search"
	"github.com/capdex/capdex/infrastructure/codec"
	"github.com/capdex/capdex/infrastructure/provider"
)

// Ingestion persists new images. It compresses the raw upload, serializes
// the embedding, and inserts the record inside the store's single insert
// transaction. Stateless per call.
type Ingestion struct {
	store      gallery.Store
	compressor codec.Compressor
	captioner  provider.Captioner
	embedder   provider.Embedder
	logger     *slog.Logger
}

// NewIngestion creates an Ingestion service.
func NewIngestion(store gallery.Store, compressor codec.Compressor, captioner provider.Captioner, embedder provider.Embedder, logger *slog.Logger) *Ingestion {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestion{
		store:      store,
		compressor: compressor,
		captioner:  captioner,
		embedder:   embedder,
		logger:     logger,
	}
}

// Ingest persists one image whose caption and embedding were already
// produced. The embedding dimension is recorded alongside the packed bytes
// so readers never depend on a globally fixed model size.
//
// gallery.ErrDuplicateName propagates unchanged; nothing is retried, and
// codec output is discarded when the insert fails.
func (s *Ingestion) Ingest(ctx context.Context, raw []byte, filename, caption string, embedding []float32) (int64, error) {
	compressed, width, height, err := s.compressor.Compress(ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", gallery.ErrValidation, err)
	}

	record, err := gallery.NewRecord(
		filename,
		width,
		height,
		caption,
		compressed,
		search.EncodeVector(embedding),
		len(embedding),
	)
	if err != nil {
		return 0, err
	}

	id, err := s.store.Insert(ctx, record)
	if err != nil {
		return 0, err
	}

	s.logger.Info("image ingested",
		"id", id,
		"name", filename,
		"width", width,
		"height", height,
		"dim", len(embedding),
	)
	return id, nil
}

// CaptionImage runs the full caption-image operation: caption the raw
// image, embed the caption, then ingest. Returns the generated caption.
func (s *Ingestion) CaptionImage(ctx context.Context, raw []byte, filename string) (string, error) {
	caption, err := s.captioner.Caption(ctx, raw)
	if err != nil {
		return "", err
	}

	embedding, err := s.embedder.Embed(ctx, caption)
	if err != nil {
		return "", err
	}

	if _, err := s.Ingest(ctx, raw, filename, caption, embedding); err != nil {
		return "", err
	}
	return caption, nil
}
