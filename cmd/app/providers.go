package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/glow-advisor/internal/domain/analysis"
	"github.com/yanqian/glow-advisor/internal/domain/analysisjob"
	"github.com/yanqian/glow-advisor/internal/domain/profile"
	"github.com/yanqian/glow-advisor/internal/domain/recommend"
	"github.com/yanqian/glow-advisor/internal/domain/selfie"
	"github.com/yanqian/glow-advisor/internal/infra/catalog"
	"github.com/yanqian/glow-advisor/internal/infra/config"
	"github.com/yanqian/glow-advisor/internal/infra/imagestore"
	"github.com/yanqian/glow-advisor/internal/infra/inference"
	"github.com/yanqian/glow-advisor/internal/infra/jobqueue"
	"github.com/yanqian/glow-advisor/internal/infra/jobstore"
	"github.com/yanqian/glow-advisor/internal/infra/profilerepo"
	"github.com/yanqian/glow-advisor/internal/infra/reccache"
)

func provideAnalysisConfig(cfg *config.Config) analysis.Config {
	return analysis.Config{
		MaxConcerns:        cfg.Analysis.MaxConcerns,
		MaxRecommendations: cfg.Analysis.MaxRecommendations,
	}
}

func provideProfileConfig(cfg *config.Config) profile.Config {
	return profile.Config{HistoryLimit: cfg.Analysis.HistoryLimit}
}

func provideRecommendConfig(cfg *config.Config) recommend.Config {
	return recommend.Config{
		DefaultLimit: cfg.Recommend.DefaultLimit,
		CacheTTL:     cfg.Recommend.CacheTTL,
	}
}

func provideJobConfig(cfg *config.Config) analysisjob.Config {
	return analysisjob.Config{Timeout: cfg.Analysis.JobTimeout}
}

func provideSelfieConfig(cfg *config.Config) selfie.Config {
	return selfie.Config{MaxBytes: cfg.Storage.MaxImageBytes}
}

func provideHeuristicExtractor(cfg *config.Config, logger *slog.Logger) *analysis.HeuristicExtractor {
	return analysis.NewHeuristicExtractor(analysis.HeuristicConfig{
		MinLatency:  cfg.Analysis.MinLatency,
		MaxLatency:  cfg.Analysis.MaxLatency,
		WarmupDelay: cfg.Analysis.WarmupDelay,
	}, logger)
}

// provideMetricExtractor guards the model behind a circuit breaker.
func provideMetricExtractor(cfg *config.Config, model *analysis.HeuristicExtractor, logger *slog.Logger) *inference.BreakerExtractor {
	b := cfg.Analysis.Breaker
	return inference.NewBreakerExtractor(inference.BreakerConfig{
		MaxRequests:  b.MaxRequests,
		Interval:     b.Interval,
		Timeout:      b.Timeout,
		MinRequests:  b.MinRequests,
		FailureRatio: b.FailureRatio,
	}, model, logger)
}

func provideCatalog(cfg *config.Config, logger *slog.Logger) (*catalog.Catalog, error) {
	c, err := catalog.Load(cfg.Recommend.CatalogPath)
	if err != nil {
		return nil, err
	}
	source := cfg.Recommend.CatalogPath
	if source == "" {
		source = "embedded"
	}
	logger.Info("product catalog loaded", "source", source, "products", c.Len())
	return c, nil
}

func provideProfileRepository(cfg *config.Config, logger *slog.Logger) profile.Repository {
	fallback := profilerepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory profile repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory profile repository", "error", err)
		return fallback
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory profile repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory profile repository", "error", err)
		pool.Close()
		return fallback
	}
	repo := profilerepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("postgres schema setup failed, using memory profile repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("postgres profile repository enabled")
	return repo
}

// provideValkeyClient returns nil when valkey is disabled or unreachable;
// consumers fall back to in-process implementations.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) valkey.Client {
	if !cfg.Valkey.Enabled {
		return nil
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory", "error", err)
		return nil
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory", "error", err)
		client.Close()
		return nil
	}
	logger.Info("valkey enabled", "addr", cfg.Valkey.Addr)
	return client
}

func provideRecommendCache(cfg *config.Config, client valkey.Client) recommend.Cache {
	if client == nil {
		return reccache.NewMemoryCache()
	}
	return reccache.NewValkeyCache(client, cfg.Valkey.Prefix)
}

func provideJobStore(cfg *config.Config, client valkey.Client) analysisjob.Store {
	if client == nil {
		return jobstore.NewMemoryStore(cfg.Analysis.JobTTL)
	}
	return jobstore.NewValkeyStore(client, cfg.Valkey.Prefix+":job", cfg.Analysis.JobTTL)
}

func provideJobQueue(cfg *config.Config, client valkey.Client, logger *slog.Logger) jobqueue.HandlerQueue {
	if client == nil {
		logger.Info("analysis jobs run in-process")
		return jobqueue.NewImmediateQueue()
	}
	logger.Info("analysis jobs queued in valkey", "queue", cfg.Valkey.QueueKey)
	return jobqueue.NewValkeyQueue(client, cfg.Valkey.QueueKey, logger)
}

func provideAnalysisQueue(queue jobqueue.HandlerQueue) analysisjob.JobQueue {
	return queue
}

func provideJobProfiles(svc profile.Service) analysisjob.Profiles {
	return svc
}

func provideRecommendSource(svc profile.Service) recommend.ContextSource {
	return svc
}

func provideObjectStorage(cfg *config.Config, logger *slog.Logger) selfie.ObjectStorage {
	limit := humanize.IBytes(uint64(cfg.Storage.MaxImageBytes))
	r2 := imagestore.R2Config{
		Endpoint:  cfg.Storage.R2.Endpoint,
		AccessKey: cfg.Storage.R2.AccessKey,
		SecretKey: cfg.Storage.R2.SecretKey,
		Bucket:    cfg.Storage.R2.Bucket,
		Region:    cfg.Storage.R2.Region,
	}
	if !r2.Enabled() {
		logger.Info("r2 storage not configured, using memory selfie storage", "max_image", limit)
		return imagestore.NewMemoryStorage()
	}
	storage, err := imagestore.NewR2Storage(r2, logger)
	if err != nil {
		logger.Error("failed to initialize r2 storage, using memory selfie storage", "error", err)
		return imagestore.NewMemoryStorage()
	}
	logger.Info("r2 selfie storage enabled", "bucket", r2.Bucket, "max_image", limit)
	return storage
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
