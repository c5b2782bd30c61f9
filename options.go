package capdex

import (
	"log/slog"

	"github.com/capdex/capdex/infrastructure/provider"
	"github.com/capdex/capdex/internal/config"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	dbURL     string
	codec     config.CodecConfig
	captioner provider.Captioner
	embedder  provider.Embedder
	logger    *slog.Logger
}

// newClientConfig creates a clientConfig with defaults from internal/config.
func newClientConfig() *clientConfig {
	return &clientConfig{
		codec: config.NewCodecConfig(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the database, stored at the given path.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.dbURL = "sqlite:///" + path
	}
}

// WithDatabaseURL configures the database from a URL, e.g.
// "sqlite:///home/user/.capdex/capdex.db".
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.dbURL = url
	}
}

// WithOpenAI sets OpenAI as the AI provider (captions + embeddings).
func WithOpenAI(apiKey string) Option {
	return func(c *clientConfig) {
		p := provider.NewOpenAIProvider(apiKey)
		c.captioner = p
		c.embedder = p
	}
}

// WithOpenAIConfig sets OpenAI with custom configuration.
func WithOpenAIConfig(cfg provider.OpenAIConfig) Option {
	return func(c *clientConfig) {
		p := provider.NewOpenAIProviderFromConfig(cfg)
		c.captioner = p
		c.embedder = p
	}
}

// WithCaptioner sets a custom caption provider.
func WithCaptioner(p provider.Captioner) Option {
	return func(c *clientConfig) {
		c.captioner = p
	}
}

// WithEmbedder sets a custom embedding provider.
func WithEmbedder(p provider.Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = p
	}
}

// WithCodecConfig sets the image compression configuration.
func WithCodecConfig(cfg config.CodecConfig) Option {
	return func(c *clientConfig) {
		c.codec = cfg
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
