package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/capdex/capdex"
	"github.com/capdex/capdex/infrastructure/api"
	"github.com/capdex/capdex/infrastructure/provider"
	"github.com/capdex/capdex/internal/config"
	"github.com/capdex/capdex/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                         Server host to bind to (default: 0.0.0.0)
  PORT                         Server port to listen on (default: 8080)
  DATA_DIR                     Data directory (default: ~/.capdex)
  DB_URL                       Database URL (default: sqlite:///{data_dir}/capdex.db)
  LOG_LEVEL                    Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                   Log format: pretty, json (default: pretty)
  CORS_ORIGINS                 Comma-separated allowed origins (default: *)
  CODEC_CONFIG                 Path to a YAML codec configuration file

  CAPTION_ENDPOINT_*           Caption AI service configuration
    BASE_URL                   Base URL (e.g., https://api.openai.com/v1)
    MODEL                      Model identifier (e.g., gpt-4o-mini)
    API_KEY                    API key for authentication
    TIMEOUT                    Request timeout in seconds (default: 60)
    MAX_RETRIES                Retry attempts (default: 5)

  EMBEDDING_ENDPOINT_*         Embedding AI service configuration
    (same fields as CAPTION_ENDPOINT)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(ctx context.Context, envFile, host string, port int) error {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Flags take precedence over env vars.
	if host != "" {
		cfg = cfg.WithHost(host)
	}
	if port != 0 {
		cfg = cfg.WithPort(port)
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.Configure(cfg)

	opts := clientOptions(cfg, logger)

	logger.Info("starting capdex",
		slog.String("version", version),
		slog.String("addr", cfg.Addr()),
		slog.String("db_url", cfg.DBURL()),
	)

	client, err := capdex.New(opts...)
	if err != nil {
		return fmt.Errorf("create capdex client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close capdex client", slog.Any("error", err))
		}
	}()

	server := api.NewServer(cfg.Addr(), client, cfg.CORSOrigins())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// clientOptions translates the app config into capdex client options.
func clientOptions(cfg config.AppConfig, logger *slog.Logger) []capdex.Option {
	opts := []capdex.Option{
		capdex.WithDatabaseURL(cfg.DBURL()),
		capdex.WithCodecConfig(cfg.Codec()),
		capdex.WithLogger(logger),
	}

	if ep := cfg.CaptionEndpoint(); ep.IsConfigured() {
		opts = append(opts, capdex.WithCaptioner(provider.NewOpenAIProviderFromConfig(provider.OpenAIConfig{
			APIKey:        ep.APIKey(),
			BaseURL:       ep.BaseURL(),
			ChatModel:     ep.Model(),
			Timeout:       ep.Timeout(),
			MaxRetries:    ep.MaxRetries(),
			InitialDelay:  ep.InitialDelay(),
			BackoffFactor: ep.BackoffFactor(),
		})))
	}

	if ep := cfg.EmbeddingEndpoint(); ep.IsConfigured() {
		opts = append(opts, capdex.WithEmbedder(provider.NewOpenAIProviderFromConfig(provider.OpenAIConfig{
			APIKey:         ep.APIKey(),
			BaseURL:        ep.BaseURL(),
			EmbeddingModel: ep.Model(),
			Timeout:        ep.Timeout(),
			MaxRetries:     ep.MaxRetries(),
			InitialDelay:   ep.InitialDelay(),
			BackoffFactor:  ep.BackoffFactor(),
		})))
	}

	// OPENAI_API_KEY alone configures both providers with default models.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" &&
		!cfg.CaptionEndpoint().IsConfigured() && !cfg.EmbeddingEndpoint().IsConfigured() {
		opts = append(opts, capdex.WithOpenAI(key))
	}

	return opts
}
