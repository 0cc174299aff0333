package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/broddo-baggins/ovenai-insights/internal/email"
	"github.com/broddo-baggins/ovenai-insights/internal/events"
	"github.com/broddo-baggins/ovenai-insights/internal/leads/repository"
	"github.com/broddo-baggins/ovenai-insights/internal/metrics"
	"github.com/broddo-baggins/ovenai-insights/internal/scheduler"
	"github.com/broddo-baggins/ovenai-insights/platform/config"
	"github.com/broddo-baggins/ovenai-insights/platform/db"
	"github.com/broddo-baggins/ovenai-insights/platform/logger"

	"github.com/redis/go-redis/v9"
)

// digestHour is the local wall-clock hour at which the daily digest goes out.
const digestHour = 18

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env).WithComponent("worker")
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	var redisClient *redis.Client
	if opt, err := redis.ParseURL(cfg.GetRedisURL()); err == nil {
		if opt.TLSConfig != nil && cfg.GetRedisTLSInsecure() {
			opt.TLSConfig.InsecureSkipVerify = true
		}
		redisClient = redis.NewClient(opt)
		defer func() {
			_ = redisClient.Close()
		}()
	}
	cache := metrics.NewSnapshotCache(redisClient, cfg.GetMetricsRefreshInterval())

	archiver, err := metrics.NewArchiver(cfg)
	if err != nil {
		log.Error("failed to initialize snapshot archiver", "error", err)
		panic("failed to initialize snapshot archiver: " + err.Error())
	}
	if archiver != nil {
		if err := archiver.EnsureBucketExists(ctx); err != nil {
			log.Error("failed to ensure snapshot bucket exists", "error", err)
			panic("failed to ensure snapshot bucket exists: " + err.Error())
		}
	}

	repo := repository.New(pool)
	svc := metrics.NewService(repo, cfg, log.WithComponent("metrics"))
	refresher := metrics.NewRefresher(svc, cache, eventBus, cfg.GetMetricsRefreshInterval(), log.WithComponent("metrics-refresher"))
	eventBus.Subscribe(events.MetricsRefreshed{}.EventName(), metrics.NewDegradationMonitor(log.WithComponent("metrics-monitor")))
	digest := email.NewDigestSender(cfg)
	if digest == nil {
		log.Warn("digest email disabled; no SMTP host or recipients configured")
	}

	worker, err := scheduler.NewWorker(cfg, refresher, svc, archiver, digest, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() {
		_ = client.Close()
	}()

	go scheduleDailyDigest(ctx, client, cfg.GetMetricsLocation(), log)

	worker.Run(ctx)
	log.Info("worker stopped")
}

// scheduleDailyDigest enqueues one digest task per local day at digestHour.
func scheduleDailyDigest(ctx context.Context, client *scheduler.Client, loc *time.Location, log *logger.Logger) {
	for {
		now := time.Now().In(loc)
		next := time.Date(now.Year(), now.Month(), now.Day(), digestHour, 0, 0, 0, loc)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}

		payload := scheduler.MetricsDigestPayload{Date: next.Format("2006-01-02")}
		if err := client.ScheduleMetricsDigest(ctx, payload, next); err != nil {
			log.Warn("failed to schedule digest", "error", err)
		} else {
			log.Info("digest scheduled", "runAt", next)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next) + time.Minute):
		}
	}
}
