package metrics

import (
	"context"
	"time"

	"github.com/broddo-baggins/ovenai-insights/internal/events"
	"github.com/broddo-baggins/ovenai-insights/platform/logger"
)

// Refresher recomputes and caches the unscoped snapshot on a fixed
// interval. It stops when its context is cancelled; nothing keeps
// fetching after teardown.
type Refresher struct {
	svc      *Service
	cache    *SnapshotCache
	bus      events.Bus
	interval time.Duration
	log      *logger.Logger
}

// NewRefresher creates a refresher. The interval defaults to five
// minutes when unset.
func NewRefresher(svc *Service, cache *SnapshotCache, bus events.Bus, interval time.Duration, log *logger.Logger) *Refresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Refresher{
		svc:      svc,
		cache:    cache,
		bus:      bus,
		interval: interval,
		log:      log,
	}
}

// Run refreshes once immediately, then on every tick until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	r.Refresh(ctx, "startup")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("metrics refresher stopped")
			return
		case <-ticker.C:
			r.Refresh(ctx, "timer")
		}
	}
}

// Refresh computes the unscoped snapshot, caches it, and announces it.
func (r *Refresher) Refresh(ctx context.Context, trigger string) MessageMetrics {
	snapshot := r.svc.Snapshot(ctx, nil)

	if err := r.cache.Set(ctx, nil, snapshot); err != nil {
		r.log.Warn("snapshot cache write failed", "error", err)
	}

	if r.bus != nil {
		r.bus.Publish(ctx, events.MetricsRefreshed{
			BaseEvent:   events.NewBaseEvent(),
			Degraded:    snapshot.isZero(),
			ComputedAt:  snapshot.LastUpdated,
			TriggerKind: trigger,
		})
	}

	return snapshot
}

// isZero reports whether every numeric field is zero, i.e. the snapshot
// is either an empty pipeline or the fallback.
func (m MessageMetrics) isZero() bool {
	return m.FirstMessagesSentToday == 0 &&
		m.RepliesToFirstMessages == 0 &&
		m.MeetingsScheduledFromMessages == 0 &&
		m.LeadsProcessedToday == 0 &&
		m.LeadsQueuedForTomorrow == 0 &&
		m.TotalActiveConversations == 0 &&
		m.ResponseRate == 0 &&
		m.MeetingConversionRate == 0 &&
		m.AverageResponseTimeHours == 0
}
