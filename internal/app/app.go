package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/oneshop/internal/catalog"
	"github.com/MrSnakeDoc/oneshop/internal/config"
	"github.com/MrSnakeDoc/oneshop/internal/connect"
	"github.com/MrSnakeDoc/oneshop/internal/httpserver"
	"github.com/MrSnakeDoc/oneshop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/oneshop/internal/index"
	"github.com/MrSnakeDoc/oneshop/internal/logger"
	"github.com/MrSnakeDoc/oneshop/internal/redis"
	"github.com/MrSnakeDoc/oneshop/internal/scheduler"
	"github.com/MrSnakeDoc/oneshop/internal/store/postgres"
	redisstore "github.com/MrSnakeDoc/oneshop/internal/store/redis"
	"github.com/MrSnakeDoc/oneshop/internal/tracking"
	"github.com/MrSnakeDoc/oneshop/internal/utils"
	"github.com/MrSnakeDoc/oneshop/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	pgPool      *pgxpool.Pool
	memIndex    *index.MemoryIndex
	tracker     *tracking.Tracker
	reloader    *scheduler.CatalogReloader
	watcher     *scheduler.CatalogWatcher
	collector   *scheduler.HistoryCollector
}

// clickBackend is a durable click store that can report its health
type clickBackend interface {
	tracking.ClickStore
	deps.HealthChecker
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	retry := connect.RetryOptions{
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}
	redisClient, err := redis.New(context.Background(), redis.ConnectOptions{
		Addr:         cfg.RedisAddr,
		User:         cfg.RedisUser,
		Password:     cfg.RedisPassword,
		RedisDB:      cfg.RedisDB,
		DialTimeout:  cfg.RedisDT,
		ReadTimeout:  cfg.RedisRT,
		WriteTimeout: cfg.RedisWT,
		PoolSize:     cfg.RedisPoolSize,
		Retry:        retry,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Initialize memory index
	memIndex := index.NewMemoryIndex()

	// Initialize Redis store
	store := redisstore.NewStore(redisClient)

	// Select the durable click store
	var clicks clickBackend = store
	var pgPool *pgxpool.Pool
	if cfg.ClickStore == config.ClickStorePostgres {
		pgPool, err = connectPostgres(cfg.PostgresDSN, retry, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Postgres: %v", err)
			os.Exit(1)
		}
		clicks = postgres.NewClickStore(pgPool)
	}
	loggerClient.Info("click store selected",
		logger.String("backend", clicks.Name()))

	// Restore the last published snapshot and counters from Redis
	syncer := scheduler.NewRedisSyncer(store, memIndex, logger.Component(loggerClient, "redis-sync"))
	if err := syncer.Sync(context.Background()); err != nil {
		loggerClient.Warn("failed to sync from redis on startup, will load from catalog file",
			logger.Error(err))
	}
	if pgPool != nil {
		if counts, err := clicks.ClickCounts(context.Background()); err == nil {
			memIndex.MergeClickCounts(counts)
		} else {
			loggerClient.Warn("failed to load click counters from postgres",
				logger.Error(err))
		}
	}

	manager := catalog.NewManager(memIndex, store, logger.Component(loggerClient, "catalog"))
	tracker := tracking.NewTracker(clicks, memIndex, logger.Component(loggerClient, "tracker"), tracking.Options{
		PersistTimeout: cfg.TrackPersistTimeout,
		MaxInFlight:    int64(cfg.TrackMaxInFlight),
	})

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewCatalogReloader(
		cfg.CatalogFile,
		manager,
		logger.Component(loggerClient, "reloader"),
		cfg.ReloadInterval,
		reloadTrigger,
	)

	var watcher *scheduler.CatalogWatcher
	if cfg.WatchCatalog {
		watcher, err = scheduler.NewCatalogWatcher(cfg.CatalogFile, reloadTrigger, logger.Component(loggerClient, "watcher"), cfg.WatchDebounce)
		if err != nil {
			loggerClient.Warn("catalog file watch disabled",
				logger.Error(err))
			watcher = nil
		}
	}

	collector := scheduler.NewHistoryCollector(
		store,
		memIndex,
		logger.Component(loggerClient, "history"),
		cfg.HistoryInterval,
		cfg.HistoryRetention,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		TimeNow:          time.Now,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		AllowedOrigins:   cfg.AllowedOrigins,
		TrustProxy:       cfg.TrustProxy,
		CatalogFile:      cfg.CatalogFile,
		RedisClient:      redisClient,
		MemoryIndex:      memIndex,
		Catalog:          manager,
		Tracker:          tracker,
		ClickStore:       clicks,
		ProbeTimeout:     cfg.ProbeTimeout,
		ProbeConcurrency: cfg.ProbeConcurrency,
		ClickRateBurst:   cfg.ClickRateBurst,
		ClickRatePerMin:  cfg.ClickRatePerMin,
		ReloadTrigger:    reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		pgPool:      pgPool,
		memIndex:    memIndex,
		tracker:     tracker,
		reloader:    reloader,
		watcher:     watcher,
		collector:   collector,
	}
}

// connectPostgres opens the pool and creates the clicks table
func connectPostgres(dsn string, retry connect.RetryOptions, log logger.Logger) (*pgxpool.Pool, error) {
	ctx := context.Background()

	pool, err := postgres.Connect(ctx, dsn, retry, log)
	if err != nil {
		return nil, err
	}

	schemaCtx, cancel := context.WithTimeout(ctx, retry.PingTimeout)
	defer cancel()
	if err := postgres.NewClickStore(pool).EnsureSchema(schemaCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	log.Info("Postgres initialized successfully")
	return pool, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting oneshop v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("oneshop %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start catalog reloader (loads the file and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start catalog reloader: %w", err)
	}
	a.logger.Info("catalog reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	if a.watcher != nil {
		if err := a.watcher.Start(ctx); err != nil {
			a.logger.Warn("failed to start catalog watcher", logger.Error(err))
			a.watcher = nil
		}
	}

	// Start history collector
	if err := a.collector.Start(ctx); err != nil {
		return fmt.Errorf("failed to start history collector: %w", err)
	}
	a.logger.Info("history collector started",
		logger.Duration("interval", a.cfg.HistoryInterval))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})

	runErr := g.Wait()
	a.shutdown()
	return runErr
}

// shutdown stops background jobs, drains pending clicks and closes storage
func (a *App) shutdown() {
	a.reloader.Stop()
	if a.watcher != nil {
		if err := a.watcher.Stop(); err != nil {
			a.logger.Warn("failed to stop catalog watcher", logger.Error(err))
		}
	}
	a.collector.Stop()

	drainCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.tracker.Close(drainCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			a.logger.Warn("pending click persists abandoned at shutdown")
		} else {
			a.logger.Warn("failed to drain click tracker", logger.Error(err))
		}
	}

	if a.pgPool != nil {
		a.pgPool.Close()
		a.logger.Info("✅ Postgres closed cleanly")
	}

	if a.redisClient != nil {
		utils.CloseLogged(a.redisClient, a.logger, "redis")
		a.logger.Info("✅ Redis closed")
	}

	a.logger.Info("✅ oneshop stopped cleanly")
}
