package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/capdex/capdex/domain/gallery"
	"github.com/capdex/capdex/internal/database"
	"gorm.io/gorm"
)

// ImageStore implements gallery.Store on SQLite via GORM.
// Inserts run in a single transaction; the unique index on image_name is
// the serialization point for concurrent inserts of the same name.
type ImageStore struct {
	db     database.Database
	logger *slog.Logger
}

// NewImageStore creates an ImageStore.
func NewImageStore(db database.Database, logger *slog.Logger) *ImageStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageStore{db: db, logger: logger}
}

var _ gallery.Store = (*ImageStore)(nil)

// Insert appends one record atomically and returns the assigned id.
func (s *ImageStore) Insert(ctx context.Context, record gallery.Record) (int64, error) {
	model := toModel(record)

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return 0, fmt.Errorf("%w: %q", gallery.ErrDuplicateName, record.Name())
		}
		return 0, fmt.Errorf("%w: insert image %q: %w", gallery.ErrStorage, record.Name(), err)
	}

	s.logger.Debug("image record inserted", "id", model.ID, "name", model.ImageName, "dim", model.EmbeddingDim)
	return model.ID, nil
}

// ScanAll returns a committed snapshot of all rows ordered by id ascending.
func (s *ImageStore) ScanAll(ctx context.Context) ([]gallery.Row, error) {
	var models []ImageModel
	err := s.db.Session(ctx).
		Select("embedding", "caption", "image_bytes").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("%w: scan images: %w", gallery.ErrStorage, err)
	}

	rows := make([]gallery.Row, len(models))
	for i, m := range models {
		rows[i] = gallery.NewRow(m.Embedding, m.Caption, m.ImageBytes)
	}
	return rows, nil
}

// Count returns the number of stored records.
func (s *ImageStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.Session(ctx).Model(&ImageModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: count images: %w", gallery.ErrStorage, err)
	}
	return count, nil
}

// isDuplicateKey reports whether err is a unique-constraint violation.
// GORM's TranslateError covers the common case; the string check catches
// drivers that surface the raw SQLite message.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
