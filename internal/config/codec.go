package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CodecConfig tunes the image codec: how far images are downscaled and how
// aggressively they are re-encoded before storage.
type CodecConfig struct {
	MaxSide int    `yaml:"maxSide"`
	Format  string `yaml:"format"`
	Quality int    `yaml:"quality"`
}

// NewCodecConfig creates a CodecConfig with defaults.
func NewCodecConfig() CodecConfig {
	return CodecConfig{
		MaxSide: DefaultCodecMaxSide,
		Format:  "jpeg",
		Quality: DefaultCodecQuality,
	}
}

// LoadCodecConfig reads codec settings from a YAML file. Missing fields keep
// their defaults. An empty path returns the defaults without touching disk.
func LoadCodecConfig(path string) (CodecConfig, error) {
	cfg := NewCodecConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return CodecConfig{}, fmt.Errorf("read codec config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CodecConfig{}, fmt.Errorf("parse codec config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return CodecConfig{}, fmt.Errorf("invalid codec config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the codec settings for usable values.
func (c CodecConfig) Validate() error {
	if c.MaxSide <= 0 {
		return fmt.Errorf("maxSide must be positive, got %d", c.MaxSide)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be in [1, 100], got %d", c.Quality)
	}
	switch c.Format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("unsupported codec format %q", c.Format)
	}
}
