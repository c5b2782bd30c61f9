package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/capdex/capdex/domain/gallery"
	"github.com/capdex/capdex/domain/search"
	"github.com/capdex/capdex/infrastructure/provider"
)

// Search answers nearest-match queries against the store. Each query embeds
// its input, takes a committed snapshot of all rows, and scans it
// exhaustively. Stateless per call; never mutates the store.
type Search struct {
	store     gallery.Store
	captioner provider.Captioner
	embedder  provider.Embedder
	logger    *slog.Logger
}

// NewSearch creates a Search service.
func NewSearch(store gallery.Store, captioner provider.Captioner, embedder provider.Embedder, logger *slog.Logger) *Search {
	if logger == nil {
		logger = slog.Default()
	}
	return &Search{
		store:     store,
		captioner: captioner,
		embedder:  embedder,
		logger:    logger,
	}
}

// ByImage captions the query image, embeds the caption, and returns the
// stored record whose caption embedding is nearest.
func (s *Search) ByImage(ctx context.Context, raw []byte) (search.Match, error) {
	caption, err := s.captioner.Caption(ctx, raw)
	if err != nil {
		return search.Match{}, err
	}

	match, err := s.byEmbeddedText(ctx, caption)
	if err != nil {
		return search.Match{}, err
	}

	s.logger.Debug("search by image", "query_caption", caption, "score", match.Score())
	return match, nil
}

// ByDescription embeds the free-text description and returns the stored
// record whose caption embedding is nearest.
func (s *Search) ByDescription(ctx context.Context, description string) (search.Match, error) {
	if description == "" {
		return search.Match{}, fmt.Errorf("%w: empty description", gallery.ErrValidation)
	}

	match, err := s.byEmbeddedText(ctx, description)
	if err != nil {
		return search.Match{}, err
	}

	s.logger.Debug("search by description", "score", match.Score())
	return match, nil
}

func (s *Search) byEmbeddedText(ctx context.Context, text string) (search.Match, error) {
	query, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return search.Match{}, err
	}

	rows, err := s.store.ScanAll(ctx)
	if err != nil {
		return search.Match{}, err
	}

	return search.NearestMatch(query, rows)
}
