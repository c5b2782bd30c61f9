// Package capdex stores images with machine-generated captions and caption
// embeddings, and finds the stored image whose caption is most similar to a
// query image or free-text description.
//
// Basic usage:
//
//	client, err := capdex.New(
//	    capdex.WithSQLite(".capdex/capdex.db"),
//	    capdex.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	caption, err := client.Ingestion.CaptionImage(ctx, imageBytes, "cat.jpg")
//	match, err := client.Search.ByDescription(ctx, "a cat sitting on a mat")
package capdex

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/capdex/capdex/application/service"
	"github.com/capdex/capdex/domain/gallery"
	"github.com/capdex/capdex/infrastructure/codec"
	"github.com/capdex/capdex/infrastructure/persistence"
	"github.com/capdex/capdex/internal/database"
)

// Construction errors.
var (
	// ErrNoDatabase indicates no database was configured.
	ErrNoDatabase = errors.New("no database configured: use WithSQLite or WithDatabaseURL")

	// ErrNoProvider indicates the captioner or embedder is missing.
	ErrNoProvider = errors.New("no AI provider configured: use WithOpenAI or supply WithCaptioner and WithEmbedder")
)

// Client is the main entry point for the capdex library.
//
// Access operations via struct fields:
//
//	client.Ingestion.CaptionImage(ctx, raw, name)
//	client.Search.ByImage(ctx, raw)
//	client.Search.ByDescription(ctx, text)
type Client struct {
	// Public service fields (direct access)
	Ingestion *service.Ingestion
	Search    *service.Search

	db     database.Database
	store  *persistence.ImageStore
	codec  *codec.ImageCodec
	logger *slog.Logger
	closed atomic.Bool
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.dbURL == "" {
		return nil, ErrNoDatabase
	}
	if cfg.captioner == nil || cfg.embedder == nil {
		return nil, ErrNoProvider
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	db, err := database.NewDatabase(context.Background(), cfg.dbURL)
	if err != nil {
		return nil, err
	}
	if err := persistence.AutoMigrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := persistence.NewImageStore(db, logger)
	imageCodec := codec.New(cfg.codec, logger)

	return &Client{
		Ingestion: service.NewIngestion(store, imageCodec, cfg.captioner, cfg.embedder, logger),
		Search:    service.NewSearch(store, cfg.captioner, cfg.embedder, logger),
		db:        db,
		store:     store,
		codec:     imageCodec,
		logger:    logger,
	}, nil
}

// Store returns the record store.
func (c *Client) Store() gallery.Store {
	return c.store
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Count returns the number of stored images.
func (c *Client) Count(ctx context.Context) (int64, error) {
	return c.store.Count(ctx)
}

// Close releases the database connection. Safe to call more than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.db.Close()
}
