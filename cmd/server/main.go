// Package main is the entry point of the GradePulse REST API.
//
// The server stores subject records in PostgreSQL, MongoDB or process
// memory (STORAGE_DRIVER), optionally caches the subject list in Redis, and
// serves the subject collection, the analytics report and book suggestions.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gradepulse/gradepulse/config"
	"github.com/gradepulse/gradepulse/internal/application/command"
	"github.com/gradepulse/gradepulse/internal/application/query"
	"github.com/gradepulse/gradepulse/internal/domain/library"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
	"github.com/gradepulse/gradepulse/internal/infrastructure/persistence/memory"
	mongostore "github.com/gradepulse/gradepulse/internal/infrastructure/persistence/mongo"
	"github.com/gradepulse/gradepulse/internal/infrastructure/persistence/postgres"
	"github.com/gradepulse/gradepulse/internal/infrastructure/persistence/redis"
	httpapi "github.com/gradepulse/gradepulse/internal/interface/http"
	"github.com/gradepulse/gradepulse/internal/interface/http/handlers"
	"github.com/gradepulse/gradepulse/pkg/logger"
	"github.com/gradepulse/gradepulse/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting GradePulse API",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.StorageDriver(string(cfg.Storage.Driver)),
	)

	health := handlers.NewCompositeHealthChecker(cfg.App.Version, string(cfg.Storage.Driver))

	// ─────────────────────────────────────────────────────────────────────────
	// 3. STORAGE
	// ─────────────────────────────────────────────────────────────────────────
	repo, closeStorage, err := openStorage(ctx, cfg, log, health)
	if err != nil {
		return err
	}
	defer closeStorage()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS LIST CACHE (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var listCache subject.ListCache
	if !cfg.Redis.Disabled {
		cache, err := openRedis(ctx, cfg, log)
		if err != nil {
			log.Warn("redis unavailable, list cache disabled", logger.Err(err))
		} else {
			defer cache.Close()
			listCache = redis.NewSubjectListCache(cache, cfg.Redis.ListTTL)
			health.AddCheck("cache", handlers.NewPingCheck(cache))
			log.Info("redis list cache enabled")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	catalog, err := library.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("failed to load book catalogue: %w", err)
	}

	var managerOpts []command.SubjectManagerOption
	if listCache != nil {
		managerOpts = append(managerOpts, command.WithListCache(listCache))
	}

	deps := httpapi.Dependencies{
		ListSubjects:  query.NewListSubjectsHandler(repo, listCache, log),
		GetReport:     query.NewGetReportHandler(repo),
		SuggestBooks:  query.NewSuggestBooksHandler(repo, catalog),
		Subjects:      command.NewSubjectManager(repo, log, managerOpts...),
		HealthChecker: health,
		Logger:        log,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	server := httpapi.NewServer(httpapi.Config{
		Host:           cfg.HTTP.Host,
		Port:           cfg.HTTP.Port,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		MaxBodyBytes:   1 << 20,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}, deps)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. RUN UNTIL SIGNAL
	// ─────────────────────────────────────────────────────────────────────────
	g, gctx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("GradePulse API stopped")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SETUP HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func setupLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		Format:    logger.Format(cfg.Observability.LogFormat),
		AddCaller: cfg.App.Debug,
	}).With(logger.String("app", cfg.App.Name))
}

func connectRetrier(cfg *config.Config, log *logger.Logger, target string) *retry.Retrier {
	return retry.ConnectRetrier(cfg.Storage.ConnectAttempts, func(attempt int, err error, delay time.Duration) {
		log.Warn("connection attempt failed",
			logger.String("target", target),
			logger.Int("attempt", attempt),
			logger.Duration("retry_in", delay),
			logger.Err(err),
		)
	})
}

// openStorage connects the configured repository and registers its health
// check. The returned func releases the connection.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger, health handlers.HealthChecker) (subject.Repository, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pgCfg := postgres.DefaultConfig()
		pgCfg.URL = cfg.Database.URL
		pgCfg.MaxConns = int32(cfg.Database.MaxConns)
		pgCfg.MinConns = int32(cfg.Database.MinConns)
		pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
		pgCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

		conn, err := retry.DoWithData(ctx, connectRetrier(cfg, log, "postgres"), func(ctx context.Context) (*postgres.Connection, error) {
			return postgres.NewConnection(ctx, pgCfg)
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		if cfg.Database.AutoMigrate {
			applied, err := postgres.NewMigrator(conn).Migrate(ctx)
			if err != nil {
				conn.Close()
				return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info("database schema is up to date", logger.Int("applied", applied))
		}

		health.AddCheck("database", handlers.NewPingCheck(conn))
		log.Info("postgres connection established")
		return postgres.NewSubjectRepository(conn), conn.Close, nil

	case config.StorageMongo:
		mCfg := mongostore.DefaultConfig()
		mCfg.URI = cfg.Mongo.URI
		mCfg.Database = cfg.Mongo.Database
		mCfg.Collection = cfg.Mongo.Collection
		mCfg.ConnectTimeout = cfg.Mongo.ConnectTimeout
		mCfg.MaxPoolSize = uint64(cfg.Mongo.MaxPoolSize)

		client, err := retry.DoWithData(ctx, connectRetrier(cfg, log, "mongo"), func(ctx context.Context) (*mongostore.Client, error) {
			return mongostore.Connect(ctx, mCfg)
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}

		repo := mongostore.NewSubjectRepository(client, mCfg)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = mongostore.Disconnect(client)
			return nil, nil, err
		}

		health.AddCheck("database", handlers.NewPingCheck(repo))
		log.Info("mongo connection established")
		return repo, func() { _ = mongostore.Disconnect(client) }, nil

	default:
		log.Warn("using in-memory storage; records are lost on restart")
		return memory.NewSubjectRepository(), func() {}, nil
	}
}

func openRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) (*redis.Cache, error) {
	rCfg := redis.DefaultConfig()
	rCfg.URL = cfg.Redis.URL
	rCfg.Host = cfg.Redis.Host
	rCfg.Port = cfg.Redis.Port
	rCfg.Password = cfg.Redis.Password
	rCfg.DB = cfg.Redis.DB
	rCfg.PoolSize = cfg.Redis.PoolSize
	rCfg.DialTimeout = cfg.Redis.DialTimeout
	rCfg.ReadTimeout = cfg.Redis.ReadTimeout
	rCfg.WriteTimeout = cfg.Redis.WriteTimeout

	return retry.DoWithData(ctx, connectRetrier(cfg, log, "redis"), func(ctx context.Context) (*redis.Cache, error) {
		return redis.NewCache(ctx, rCfg)
	})
}
