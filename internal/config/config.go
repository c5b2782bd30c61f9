// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultHost                  = "0.0.0.0"
	DefaultPort                  = 8080
	DefaultLogLevel              = "INFO"
	DefaultEndpointTimeout       = 60 * time.Second
	DefaultEndpointMaxRetries    = 5
	DefaultEndpointInitialDelay  = 2 * time.Second
	DefaultEndpointBackoffFactor = 2.0
	DefaultCodecMaxSide          = 1024
	DefaultCodecQuality          = 80
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// DefaultDataDir returns the default data directory (~/.capdex, falling
// back to .capdex in the working directory when the home dir is unknown).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".capdex"
	}
	return filepath.Join(home, ".capdex")
}

// AppConfig holds the resolved application configuration.
type AppConfig struct {
	host              string
	port              int
	dataDir           string
	dbURL             string
	logLevel          string
	logFormat         LogFormat
	corsOrigins       []string
	codec             CodecConfig
	captionEndpoint   Endpoint
	embeddingEndpoint Endpoint
}

// NewAppConfig creates an AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:        DefaultHost,
		port:        DefaultPort,
		dataDir:     DefaultDataDir(),
		logLevel:    DefaultLogLevel,
		logFormat:   LogFormatPretty,
		corsOrigins: []string{"*"},
		codec:       NewCodecConfig(),
	}
}

// Host returns the server host.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port.
func (c AppConfig) Port() int { return c.port }

// Addr returns the host:port address to bind to.
func (c AppConfig) Addr() string { return fmt.Sprintf("%s:%d", c.host, c.port) }

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database URL, defaulting to a SQLite file in the data dir.
func (c AppConfig) DBURL() string {
	if c.dbURL != "" {
		return c.dbURL
	}
	return "sqlite:///" + filepath.Join(c.dataDir, "capdex.db")
}

// LogLevel returns the log level name.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// CORSOrigins returns the allowed CORS origins.
func (c AppConfig) CORSOrigins() []string {
	origins := make([]string, len(c.corsOrigins))
	copy(origins, c.corsOrigins)
	return origins
}

// Codec returns the image codec configuration.
func (c AppConfig) Codec() CodecConfig { return c.codec }

// CaptionEndpoint returns the captioning AI endpoint configuration.
func (c AppConfig) CaptionEndpoint() Endpoint { return c.captionEndpoint }

// EmbeddingEndpoint returns the embedding AI endpoint configuration.
func (c AppConfig) EmbeddingEndpoint() Endpoint { return c.embeddingEndpoint }

// WithHost returns a copy with the host replaced.
func (c AppConfig) WithHost(host string) AppConfig {
	c.host = host
	return c
}

// WithPort returns a copy with the port replaced.
func (c AppConfig) WithPort(port int) AppConfig {
	c.port = port
	return c
}

// WithDataDir returns a copy with the data directory replaced.
func (c AppConfig) WithDataDir(dir string) AppConfig {
	c.dataDir = dir
	return c
}

// WithDBURL returns a copy with the database URL replaced.
func (c AppConfig) WithDBURL(url string) AppConfig {
	c.dbURL = url
	return c
}

// WithCodec returns a copy with the codec configuration replaced.
func (c AppConfig) WithCodec(codec CodecConfig) AppConfig {
	c.codec = codec
	return c
}

// EnsureDataDir creates the data directory if it does not exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// Endpoint configures an AI service endpoint.
type Endpoint struct {
	baseURL       string
	model         string
	apiKey        string
	timeout       time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// NewEndpoint creates an Endpoint with defaults.
func NewEndpoint() Endpoint {
	return Endpoint{
		timeout:       DefaultEndpointTimeout,
		maxRetries:    DefaultEndpointMaxRetries,
		initialDelay:  DefaultEndpointInitialDelay,
		backoffFactor: DefaultEndpointBackoffFactor,
	}
}

// BaseURL returns the base URL for the endpoint.
func (e Endpoint) BaseURL() string { return e.baseURL }

// Model returns the model identifier.
func (e Endpoint) Model() string { return e.model }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Timeout returns the request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the maximum retry count.
func (e Endpoint) MaxRetries() int { return e.maxRetries }

// InitialDelay returns the initial retry delay.
func (e Endpoint) InitialDelay() time.Duration { return e.initialDelay }

// BackoffFactor returns the retry backoff multiplier.
func (e Endpoint) BackoffFactor() float64 { return e.backoffFactor }

// IsConfigured returns true if the endpoint has an API key.
func (e Endpoint) IsConfigured() bool {
	return e.apiKey != ""
}
