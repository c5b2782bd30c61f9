package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use an underscore delimiter (e.g. EMBEDDING_ENDPOINT_MODEL).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.capdex
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/capdex.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// CORSOrigins is a comma-separated list of allowed CORS origins.
	// Env: CORS_ORIGINS (default: *)
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"*"`

	// CodecConfigPath points at an optional YAML file tuning the image codec.
	// Env: CODEC_CONFIG
	CodecConfigPath string `envconfig:"CODEC_CONFIG"`

	// CaptionEndpoint configures the captioning AI service.
	CaptionEndpoint EndpointEnv `envconfig:"CAPTION_ENDPOINT"`

	// EmbeddingEndpoint configures the embedding AI service.
	EmbeddingEndpoint EndpointEnv `envconfig:"EMBEDDING_ENDPOINT"`
}

// EndpointEnv holds environment configuration for an AI endpoint.
type EndpointEnv struct {
	// BaseURL is the base URL for the endpoint.
	// Env: *_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the model identifier (e.g. text-embedding-3-small).
	// Env: *_MODEL
	Model string `envconfig:"MODEL"`

	// APIKey is the API key for authentication.
	// Env: *_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Timeout is the request timeout in seconds.
	// Env: *_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// MaxRetries is the maximum number of retries.
	// Env: *_MAX_RETRIES (default: 5)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"5"`

	// InitialDelay is the initial retry delay in seconds.
	// Env: *_INITIAL_DELAY (default: 2.0)
	InitialDelay float64 `envconfig:"INITIAL_DELAY" default:"2.0"`

	// BackoffFactor is the retry backoff multiplier.
	// Env: *_BACKOFF_FACTOR (default: 2.0)
	BackoffFactor float64 `envconfig:"BACKOFF_FACTOR" default:"2.0"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts environment configuration into an AppConfig,
// resolving defaults and loading the optional codec YAML file.
func (e EnvConfig) ToAppConfig() (AppConfig, error) {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg.host = e.Host
	}
	if e.Port != 0 {
		cfg.port = e.Port
	}
	if e.DataDir != "" {
		cfg.dataDir = e.DataDir
	}
	cfg.dbURL = e.DBURL
	if e.LogLevel != "" {
		cfg.logLevel = strings.ToUpper(e.LogLevel)
	}
	if strings.EqualFold(e.LogFormat, string(LogFormatJSON)) {
		cfg.logFormat = LogFormatJSON
	}
	cfg.corsOrigins = splitCommaList(e.CORSOrigins)

	codec, err := LoadCodecConfig(e.CodecConfigPath)
	if err != nil {
		return AppConfig{}, err
	}
	cfg.codec = codec

	cfg.captionEndpoint = e.CaptionEndpoint.toEndpoint()
	cfg.embeddingEndpoint = e.EmbeddingEndpoint.toEndpoint()

	return cfg, nil
}

func (e EndpointEnv) toEndpoint() Endpoint {
	ep := NewEndpoint()
	ep.baseURL = e.BaseURL
	ep.model = e.Model
	ep.apiKey = e.APIKey
	if e.Timeout > 0 {
		ep.timeout = time.Duration(e.Timeout * float64(time.Second))
	}
	if e.MaxRetries > 0 {
		ep.maxRetries = e.MaxRetries
	}
	if e.InitialDelay > 0 {
		ep.initialDelay = time.Duration(e.InitialDelay * float64(time.Second))
	}
	if e.BackoffFactor > 0 {
		ep.backoffFactor = e.BackoffFactor
	}
	return ep
}

func splitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		out = []string{"*"}
	}
	return out
}
