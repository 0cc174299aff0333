package scheduler

import (
	"context"
	"fmt"

	"github.com/broddo-baggins/ovenai-insights/internal/email"
	"github.com/broddo-baggins/ovenai-insights/internal/metrics"
	"github.com/broddo-baggins/ovenai-insights/platform/config"
	"github.com/broddo-baggins/ovenai-insights/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	refresher *metrics.Refresher
	svc       *metrics.Service
	archiver  *metrics.Archiver
	digest    *email.DigestSender
	log       *logger.Logger
}

func NewWorker(
	cfg config.RedisConfig,
	refresher *metrics.Refresher,
	svc *metrics.Service,
	archiver *metrics.Archiver,
	digest *email.DigestSender,
	log *logger.Logger,
) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		refresher: refresher,
		svc:       svc,
		archiver:  archiver,
		digest:    digest,
		log:       log,
	}

	mux.HandleFunc(TaskMetricsRefresh, w.handleMetricsRefresh)
	mux.HandleFunc(TaskMetricsDigest, w.handleMetricsDigest)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleMetricsRefresh(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseMetricsRefreshPayload(task)
	if err != nil {
		return err
	}

	trigger := payload.TriggerKind
	if trigger == "" {
		trigger = "worker"
	}

	if payload.ProjectID != nil {
		id, err := uuid.Parse(*payload.ProjectID)
		if err != nil {
			return err
		}
		// Scoped snapshots are not cached; compute to warm nothing but
		// validate the data path and log degradation early.
		w.svc.Snapshot(ctx, &id)
		return nil
	}

	snapshot := w.refresher.Refresh(ctx, trigger)
	if w.archiver != nil {
		if err := w.archiver.Archive(ctx, snapshot); err != nil {
			w.log.Warn("snapshot archive failed", "error", err)
		}
	}

	return nil
}

func (w *Worker) handleMetricsDigest(ctx context.Context, task *asynq.Task) error {
	if w.digest == nil {
		return nil
	}

	if _, err := ParseMetricsDigestPayload(task); err != nil {
		return err
	}

	snapshot := w.svc.Snapshot(ctx, nil)
	trend := w.svc.Trend(ctx, nil)

	return w.digest.SendDigest(ctx, snapshot, trend)
}
