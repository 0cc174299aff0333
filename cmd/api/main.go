package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/broddo-baggins/ovenai-insights/internal/conversations"
	"github.com/broddo-baggins/ovenai-insights/internal/events"
	apphttp "github.com/broddo-baggins/ovenai-insights/internal/http"
	"github.com/broddo-baggins/ovenai-insights/internal/http/router"
	"github.com/broddo-baggins/ovenai-insights/internal/leads"
	"github.com/broddo-baggins/ovenai-insights/internal/metrics"
	"github.com/broddo-baggins/ovenai-insights/internal/whatsapp"
	"github.com/broddo-baggins/ovenai-insights/platform/config"
	"github.com/broddo-baggins/ovenai-insights/platform/db"
	"github.com/broddo-baggins/ovenai-insights/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Redis-backed snapshot cache; the dashboard works without it.
	redisClient := initRedisClient(cfg, log)
	if redisClient != nil {
		defer func() {
			_ = redisClient.Close()
		}()
	}
	snapshotCache := metrics.NewSnapshotCache(redisClient, cfg.GetMetricsRefreshInterval())

	// MinIO snapshot archive, optional.
	archiver, err := metrics.NewArchiver(cfg)
	if err != nil {
		log.Error("failed to initialize snapshot archiver", "error", err)
		panic("failed to initialize snapshot archiver: " + err.Error())
	}
	if archiver != nil {
		if err := withRetry(ctx, log, "ensure snapshot bucket", 5, 2*time.Second, func() error {
			return archiver.EnsureBucketExists(ctx)
		}); err != nil {
			log.Error("failed to ensure snapshot bucket exists", "error", err)
			panic("failed to ensure snapshot bucket exists: " + err.Error())
		}
		log.Info("snapshot archiver initialized", "bucket", cfg.GetSnapshotBucket())
	}

	whatsappClient := whatsapp.NewClient(cfg, log)
	if whatsappClient == nil {
		log.Warn("WHATSAPP_URL not configured; demo relay disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule := leads.NewModule(pool, log)
	metricsModule := metrics.NewModule(leadsModule.Repository(), snapshotCache, cfg, eventBus, log)

	var demoSender conversations.MessageSender
	if whatsappClient != nil {
		demoSender = whatsappClient
	}
	conversationsModule, err := conversations.NewModule(cfg, demoSender, eventBus, log)
	if err != nil {
		log.Error("failed to initialize conversations module", "error", err)
		panic("failed to initialize conversations module: " + err.Error())
	}

	metricsModule.RegisterHandlers(eventBus)
	conversationsModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			metricsModule,
			leadsModule,
			conversationsModule,
		},
	}

	engine := router.New(app)

	// Background snapshot refresh keeps the cache warm between requests.
	go metricsModule.Refresher().Run(ctx)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedisClient(cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		log.Warn("REDIS_URL not configured; snapshot cache disabled")
		return nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Error("invalid REDIS_URL", "error", err)
		return nil
	}
	if opt.TLSConfig != nil && cfg.GetRedisTLSInsecure() {
		opt.TLSConfig.InsecureSkipVerify = true
	}

	return redis.NewClient(opt)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
