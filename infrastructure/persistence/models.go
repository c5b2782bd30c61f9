// Package persistence provides the GORM-backed image store.
package persistence

import (
	"github.com/capdex/capdex/domain/gallery"
	"github.com/capdex/capdex/internal/database"
)

// ImageModel is the GORM model for one stored image record.
type ImageModel struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ImageName    string `gorm:"column:image_name;type:varchar(255);not null;uniqueIndex"`
	Width        int    `gorm:"column:width;not null"`
	Height       int    `gorm:"column:height;not null"`
	Caption      string `gorm:"column:caption;type:text;not null"`
	ImageBytes   []byte `gorm:"column:image_bytes;not null"`
	Embedding    []byte `gorm:"column:embedding;not null"`
	EmbeddingDim int    `gorm:"column:embedding_dim;not null"`
}

// TableName maps the model to the images table.
func (ImageModel) TableName() string { return "images" }

// toModel converts a domain record into its GORM model.
func toModel(r gallery.Record) ImageModel {
	return ImageModel{
		ImageName:    r.Name(),
		Width:        r.Width(),
		Height:       r.Height(),
		Caption:      r.Caption(),
		ImageBytes:   r.ImageBytes(),
		Embedding:    r.Embedding(),
		EmbeddingDim: r.EmbeddingDim(),
	}
}

// AutoMigrate runs GORM auto migration for all models.
func AutoMigrate(db database.Database) error {
	return db.GORM().AutoMigrate(&ImageModel{})
}
