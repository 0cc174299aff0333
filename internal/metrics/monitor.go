package metrics

import (
	"context"
	"sync"

	"github.com/broddo-baggins/ovenai-insights/internal/events"
	"github.com/broddo-baggins/ovenai-insights/platform/logger"
)

// DegradationMonitor subscribes to snapshot refresh events and logs the
// transitions between healthy snapshots and the all-zero fallback. A
// stretch of failing refreshes produces one warning when it starts and
// one info line when it recovers, instead of a line per tick.
type DegradationMonitor struct {
	log *logger.Logger

	mu       sync.Mutex
	degraded bool
}

// NewDegradationMonitor creates a monitor that starts in the healthy state.
func NewDegradationMonitor(log *logger.Logger) *DegradationMonitor {
	return &DegradationMonitor{log: log}
}

// Handle tracks the degraded flag of each refresh and logs state changes.
// Events of other types are ignored.
func (m *DegradationMonitor) Handle(ctx context.Context, event events.Event) error {
	refreshed, ok := event.(events.MetricsRefreshed)
	if !ok {
		return nil
	}

	m.mu.Lock()
	changed := refreshed.Degraded != m.degraded
	m.degraded = refreshed.Degraded
	m.mu.Unlock()

	if !changed {
		return nil
	}

	if refreshed.Degraded {
		m.log.Warn("metrics snapshot degraded",
			"trigger", refreshed.TriggerKind,
			"computedAt", refreshed.ComputedAt,
		)
	} else {
		m.log.Info("metrics snapshot recovered",
			"trigger", refreshed.TriggerKind,
			"computedAt", refreshed.ComputedAt,
		)
	}

	return nil
}

// Compile-time check that DegradationMonitor implements events.Handler
var _ events.Handler = (*DegradationMonitor)(nil)
