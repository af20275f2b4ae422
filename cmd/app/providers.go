package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/linwei/smartliving/internal/domain/assistant"
	"github.com/linwei/smartliving/internal/domain/auth"
	"github.com/linwei/smartliving/internal/domain/devices"
	"github.com/linwei/smartliving/internal/domain/environment"
	"github.com/linwei/smartliving/internal/domain/feedback"
	"github.com/linwei/smartliving/internal/domain/forum"
	"github.com/linwei/smartliving/internal/domain/photos"
	"github.com/linwei/smartliving/internal/domain/plants"
	"github.com/linwei/smartliving/internal/domain/telemetry"
	"github.com/linwei/smartliving/internal/domain/uploads"
	"github.com/linwei/smartliving/internal/infra/config"
	"github.com/linwei/smartliving/internal/infra/devicerepo"
	"github.com/linwei/smartliving/internal/infra/embedder"
	"github.com/linwei/smartliving/internal/infra/feedbackrepo"
	"github.com/linwei/smartliving/internal/infra/forumrepo"
	"github.com/linwei/smartliving/internal/infra/llm/deepseek"
	"github.com/linwei/smartliving/internal/infra/objstore"
	"github.com/linwei/smartliving/internal/infra/openmeteo"
	"github.com/linwei/smartliving/internal/infra/pexels"
	"github.com/linwei/smartliving/internal/infra/pisensor"
	"github.com/linwei/smartliving/internal/infra/plantrepo"
	"github.com/linwei/smartliving/internal/infra/readingstore"
	"github.com/linwei/smartliving/pkg/metrics"
)

func provideOpenMeteoClient(cfg *config.Config, reg *metrics.Registry) *openmeteo.Client {
	return openmeteo.NewClient(cfg.Geo.BaseURL, cfg.Weather.BaseURL, cfg.AirQuality.BaseURL, reg)
}

func provideEnvironmentConfig(cfg *config.Config) environment.Config {
	return environment.Config{ReadingTTL: cfg.Readings.TTL}
}

func provideReadingStore(cfg *config.Config, logger *slog.Logger) environment.Store {
	if cfg.Readings.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg.Readings.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return readingstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return readingstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey reading store enabled", "addr", cfg.Readings.Valkey.Addr)
			return readingstore.NewValkeyStore(client, "readings")
		}
	}
	return readingstore.NewMemoryStore()
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideDeepSeekClient(cfg *config.Config, reg *metrics.Registry) *deepseek.Client {
	return deepseek.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, reg)
}

func provideAssistantConfig(cfg *config.Config) assistant.Config {
	return assistant.Config{
		Model:        cfg.LLM.Model,
		Temperature:  cfg.LLM.Temperature,
		MaxTokens:    cfg.LLM.MaxTokens,
		PromptBudget: cfg.LLM.PromptBudget,
	}
}

func providePexelsClient(cfg *config.Config, reg *metrics.Registry) *pexels.Client {
	return pexels.NewClient(cfg.Photos.APIKey, cfg.Photos.BaseURL, cfg.Photos.PerPage, cfg.Photos.Orientation, reg)
}

func providePhotosConfig(cfg *config.Config) photos.Config {
	return photos.Config{FallbackURL: cfg.Photos.FallbackURL}
}

func providePoller(cfg *config.Config, reg *metrics.Registry, logger *slog.Logger) *telemetry.Poller {
	fetcher := pisensor.NewClient(cfg.Telemetry.Endpoint, reg)
	return telemetry.NewPoller(fetcher, cfg.Telemetry.Interval, reg, logger)
}

// providePgxPool opens the shared postgres pool. A nil pool switches every
// repository to its in-memory fallback.
func providePgxPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Storage.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Storage.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Storage.MaxConns
	}
	if cfg.Storage.MinConns > 0 {
		poolConfig.MinConns = cfg.Storage.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideDeviceRepository(pool *pgxpool.Pool) devices.Repository {
	if pool == nil {
		return devicerepo.NewMemoryRepository()
	}
	return devicerepo.NewPostgresRepository(pool)
}

func providePlantRepository(pool *pgxpool.Pool) plants.Repository {
	if pool == nil {
		return plantrepo.NewMemoryRepository(plantrepo.DefaultCatalog()...)
	}
	return plantrepo.NewPostgresRepository(pool)
}

func provideForumRepository(pool *pgxpool.Pool) forum.Repository {
	if pool == nil {
		return forumrepo.NewMemoryRepository()
	}
	return forumrepo.NewPostgresRepository(pool)
}

func provideFeedbackRepository(pool *pgxpool.Pool) feedback.Repository {
	if pool == nil {
		return feedbackrepo.NewMemoryRepository()
	}
	return feedbackrepo.NewPostgresRepository(pool)
}

// provideEmbedder picks the LLM embeddings API when configured and the
// deterministic local embedder otherwise, so forum search always works.
func provideEmbedder(cfg *config.Config, client *deepseek.Client, logger *slog.Logger) forum.Embedder {
	if cfg.LLM.APIKey != "" && cfg.LLM.EmbeddingModel != "" {
		return embedder.NewDeepSeekEmbedder(client, cfg.LLM.EmbeddingModel, logger)
	}
	logger.Info("embeddings api not configured, using local embedder")
	return embedder.NewLocalEmbedder()
}

func provideUploadsService(cfg *config.Config, logger *slog.Logger) uploads.Service {
	var store uploads.ObjectStore
	if cfg.Uploads.Endpoint != "" && cfg.Uploads.Bucket != "" {
		s, err := objstore.NewMinioStore(cfg.Uploads.Endpoint, cfg.Uploads.AccessKey, cfg.Uploads.SecretKey, cfg.Uploads.Bucket, cfg.Uploads.Region, logger)
		if err != nil {
			logger.Error("failed to initialize object store, uploads disabled", "error", err)
		} else {
			store = s
		}
	}
	return uploads.NewService(store, cfg.Uploads.PublicURL, logger)
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:    cfg.Auth.JWTSecret,
		IssuerURL: cfg.Auth.IssuerURL,
	}
}
