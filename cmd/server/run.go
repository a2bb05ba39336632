package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"heart-risk/internal/api"
	"heart-risk/internal/backoff"
	"heart-risk/internal/config"
	"heart-risk/internal/history"
	"heart-risk/internal/logs"
	"heart-risk/internal/metrics"
	"heart-risk/internal/model"
	"heart-risk/internal/patient"
	"heart-risk/internal/prediction"
	"heart-risk/internal/render"
	"heart-risk/internal/store"
	"heart-risk/internal/ttl"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// run wires the service from cfg and serves until ctx is cancelled, then shuts the
// HTTP server down gracefully. Any startup failure is returned before serving.
func run(ctx context.Context, cfg *config.Config, ring *logs.Ring, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Metrics
	metricsRegistry := metrics.NewRegistry()

	// Classifier, loaded once and shared by every request
	classifier, err := loadClassifier(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load classifier: %w", err)
	}
	declared, err := model.CheckSchema(classifier, patient.FeatureOrder)
	if err != nil {
		return fmt.Errorf("classifier %s does not match the patient feature order: %w",
			classifier.Version(), err)
	}
	if !declared {
		logger.Warn("classifier declares no feature names; only the feature count was checked",
			zap.Int("features", classifier.NumFeatures()))
	}
	logger.Info("classifier loaded", zap.String("model_version", classifier.Version()))
	if note := model.DescriptionOf(classifier); note != "" {
		logger.Info("model artifact description", zap.String("description", note))
	}

	retry := backoff.DefaultPolicy()
	retry.MaxRetries = cfg.Startup.Retries
	retry.BaseBackoff = cfg.Startup.Backoff

	// Prediction cache
	cache, closeCache, err := openCache(ctx, cfg, retry, metricsRegistry, logger)
	if err != nil {
		return fmt.Errorf("open prediction cache: %w", err)
	}
	defer closeCache()

	// Prediction history
	var repo history.Repository
	if cfg.HistoryEnabled {
		db, err := openHistory(ctx, cfg, retry)
		if err != nil {
			return fmt.Errorf("open prediction history: %w", err)
		}
		defer db.Close()

		pg := history.NewPostgresRepository(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("prepare prediction history: %w", err)
		}
		repo = pg
		logger.Info("prediction history enabled", zap.String("db_host", cfg.Database.Host))
	}

	opts := prediction.Options{Cache: cache, CacheTTL: cfg.Cache.TTL}
	if repo != nil {
		opts.History = repo
	}
	service := prediction.NewService(classifier, metricsRegistry, logger, opts)

	// API
	renderer, err := render.NewRenderer()
	if err != nil {
		return err
	}
	handler := api.NewHandler(service, renderer, metricsRegistry, ring, repo, logger)
	mux := http.NewServeMux()
	server := api.NewServer(cfg.HTTP.Addr, api.RegisterRoutes(mux, handler, logger), logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		// Start returns ErrServerClosed once Shutdown begins; a bind error can race it.
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}

func loadClassifier(ctx context.Context, cfg *config.Config) (model.Classifier, error) {
	if cfg.Model.URL != "" {
		return model.NewRemote(ctx, cfg.Model.URL, cfg.Model.Timeout)
	}
	return model.Load(cfg.Model.Path)
}

// openCache returns a nil KV when caching is disabled. The memory backend gets a TTL
// cleaner that runs until ctx is cancelled. The returned func releases the backend.
func openCache(
	ctx context.Context,
	cfg *config.Config,
	retry backoff.Policy,
	reg *metrics.Registry,
	logger *zap.Logger,
) (store.KV, func(), error) {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		logger.Info("prediction cache disabled")
		return nil, func() {}, nil

	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		err := backoff.Retry(ctx, retry, func() error {
			return client.Ping(ctx).Err()
		})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		logger.Info("prediction cache backed by redis", zap.String("addr", cfg.Redis.Addr))
		return store.NewRedisKV(client), func() { _ = client.Close() }, nil

	default:
		kv := store.NewMemoryKV(reg, cfg.Cache.MaxEntries)
		cleaner := ttl.NewCleaner(kv, cfg.Cache.CleanupInterval, logger, reg)
		go cleaner.Start(ctx)
		logger.Info("prediction cache in memory",
			zap.Duration("ttl", cfg.Cache.TTL), zap.Int("max_entries", cfg.Cache.MaxEntries))
		return kv, func() {}, nil
	}
}

func openHistory(ctx context.Context, cfg *config.Config, retry backoff.Policy) (*sql.DB, error) {
	var db *sql.DB
	err := backoff.Retry(ctx, retry, func() error {
		var err error
		db, err = history.Open(&cfg.Database)
		return err
	})
	return db, err
}
