package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/adapter"
	"github.com/kapu/affiliate-hub-go/internal/catalog"
	"github.com/kapu/affiliate-hub-go/internal/command"
	"github.com/kapu/affiliate-hub-go/internal/config"
	"github.com/kapu/affiliate-hub-go/internal/domain"
	"github.com/kapu/affiliate-hub-go/internal/metrics"
	"github.com/kapu/affiliate-hub-go/internal/server"
	"github.com/kapu/affiliate-hub-go/internal/service/ai"
	"github.com/kapu/affiliate-hub-go/internal/service/cache"
	"github.com/kapu/affiliate-hub-go/internal/service/catalogsync"
	"github.com/kapu/affiliate-hub-go/internal/service/database"
	"github.com/kapu/affiliate-hub-go/internal/service/favorites"
	"github.com/kapu/affiliate-hub-go/internal/service/notion"
	"github.com/kapu/affiliate-hub-go/internal/service/storage"
)

// Container bundles the assembled services shared by the CLI commands.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Store       *catalog.Store
	Favorites   *favorites.Set
	Sync        *catalogsync.Service
	Models      *ai.ModelManager
	Recommender *ai.Recommender
	Formatter   *adapter.ResponseFormatter
	Metrics     *metrics.PrometheusMetrics
	Registry    *prometheus.Registry

	closers []func()
}

// Build assembles storage, sync and AI services. Optional backends (Postgres
// snapshots, Notion, model providers) degrade to their fallbacks when absent.
// The catalog is not loaded; call LoadCatalog.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Container{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c.Metrics = metrics.NewPrometheusMetrics(c.Registry)

	kv, err := c.openFavoritesBackend()
	if err != nil {
		return nil, err
	}
	c.Favorites = favorites.NewSet(kv, logger)
	if err := c.Favorites.Load(ctx); err != nil {
		logger.Warn("Failed to load favorites, starting empty", zap.Error(err))
	}

	c.Store = catalog.NewStore(c.Favorites, logger)
	c.Formatter = adapter.NewResponseFormatter(c.Store.IsFavorite)

	source := notion.NewSource(notion.Config{
		APIKey:     cfg.Notion.APIKey,
		DatabaseID: cfg.Notion.DatabaseID,
	}, logger)
	if !source.Configured() {
		logger.Info("Notion credentials not set, sync will use the bundled dataset")
	}

	var snapshots catalogsync.SnapshotRepository
	if repo := c.openSnapshotRepository(ctx); repo != nil {
		snapshots = repo
	}
	c.Sync = catalogsync.NewService(source, c.Store, snapshots, c.Metrics, logger)

	c.Models, err = ai.NewModelManager(ctx, ai.ModelManagerConfig{
		GeminiAPIKey:       cfg.Gemini.APIKey,
		OpenAIAPIKey:       cfg.OpenAI.APIKey,
		DefaultGeminiModel: cfg.Gemini.Model,
		DefaultOpenAIModel: cfg.OpenAI.Model,
		EnableFallback:     cfg.OpenAI.EnableFallback,
	}, c.Metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model manager: %w", err)
	}
	preset, err := ai.ParsePreset(cfg.Concierge.Preset)
	if err != nil {
		return nil, fmt.Errorf("invalid concierge preset: %w", err)
	}
	c.Recommender = ai.NewRecommender(c.Models, c.Store, c.Metrics, logger).
		WithGeneration(preset, float32(cfg.Concierge.Temperature))

	logger.Info("Container built",
		zap.String("favorites_backend", cfg.Favorites.Backend),
		zap.Bool("notion", source.Configured()),
		zap.Bool("snapshots", snapshots != nil),
		zap.String("model_provider", c.Models.PrimaryName()),
		zap.String("concierge_preset", string(c.Recommender.Preset())),
	)
	return c, nil
}

// LoadCatalog fills the store from the last snapshot or the bundled dataset.
func (c *Container) LoadCatalog(ctx context.Context) catalogsync.Result {
	return c.Sync.LoadInitial(ctx)
}

func (c *Container) NewServer() *server.Server {
	return server.New(server.Config{
		Addr:           c.Config.HTTP.Addr,
		AllowedOrigins: c.Config.HTTP.AllowedOrigins,
		ChatPerMinute:  c.Config.Chat.RatePerMinute,
	}, server.Dependencies{
		Store:          c.Store,
		Syncer:         c.Sync,
		Recommender:    c.Recommender,
		Concierge:      c.Models,
		Metrics:        c.Metrics,
		MetricsHandler: c.MetricsHandler(),
	}, c.Logger)
}

func (c *Container) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})
}

// NewDispatcher wires the command registry to send, for one-shot CLI use.
// session may be nil for commands that do not chat.
func (c *Container) NewDispatcher(session command.ChatSession, send func(command.Frame) error) command.Dispatcher {
	deps := &command.Dependencies{
		Catalog: c.Store,
		Session: session,
		Send:    send,
		Logger:  c.Logger,
	}
	return command.NewSequentialDispatcher(command.NewDefaultRegistry(deps), nil)
}

// Close releases backends in reverse order of opening.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func (c *Container) openFavoritesBackend() (favorites.KeyValueStore, error) {
	switch c.Config.Favorites.Backend {
	case config.FavoritesRedis:
		cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
			Host:     c.Config.Redis.Host,
			Port:     c.Config.Redis.Port,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		}, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", err)
		}
		c.closers = append(c.closers, func() { _ = cacheSvc.Close() })
		return cacheSvc, nil
	case config.FavoritesBolt:
		boltStore, err := storage.OpenBoltStore(c.Config.Favorites.BoltPath, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open favorites store: %w", err)
		}
		c.closers = append(c.closers, func() { _ = boltStore.Close() })
		return boltStore, nil
	default:
		return favorites.NewMemoryStore(), nil
	}
}

// openSnapshotRepository returns nil when Postgres is not configured or not
// reachable; snapshots are an optimisation, never a startup requirement.
func (c *Container) openSnapshotRepository(ctx context.Context) *database.ToolRepository {
	pgCfg := database.PostgresConfig{
		Host:     c.Config.Postgres.Host,
		Port:     c.Config.Postgres.Port,
		User:     c.Config.Postgres.User,
		Password: c.Config.Postgres.Password,
		Database: c.Config.Postgres.Database,
	}
	if !pgCfg.Enabled() {
		return nil
	}

	postgresSvc, err := database.NewPostgresService(pgCfg, c.Logger)
	if err != nil {
		c.Logger.Warn("Postgres unavailable, catalog snapshots disabled", zap.Error(err))
		return nil
	}
	c.closers = append(c.closers, func() { _ = postgresSvc.Close() })

	repo := database.NewToolRepository(postgresSvc.GetDB(), c.Logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		c.Logger.Warn("Failed to prepare snapshot schema, catalog snapshots disabled", zap.Error(err))
		return nil
	}
	return repo
}

var _ domain.ToolProvider = (*catalog.Store)(nil)
