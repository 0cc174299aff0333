// Package metrics provides the dashboard metrics bounded context module.
package metrics

import (
	"github.com/broddo-baggins/ovenai-insights/internal/events"
	apphttp "github.com/broddo-baggins/ovenai-insights/internal/http"
	"github.com/broddo-baggins/ovenai-insights/platform/config"
	"github.com/broddo-baggins/ovenai-insights/platform/logger"
)

// Module is the metrics bounded context module implementing http.Module.
type Module struct {
	handler   *Handler
	service   *Service
	refresher *Refresher
	monitor   *DegradationMonitor
}

// NewModule creates and initializes the metrics module.
func NewModule(source LeadSource, cache *SnapshotCache, cfg config.MetricsConfig, bus events.Bus, log *logger.Logger) *Module {
	svc := NewService(source, cfg, log.WithComponent("metrics"))
	refresher := NewRefresher(svc, cache, bus, cfg.GetMetricsRefreshInterval(), log.WithComponent("metrics-refresher"))
	handler := NewHandler(svc, cache)

	return &Module{
		handler:   handler,
		service:   svc,
		refresher: refresher,
		monitor:   NewDegradationMonitor(log.WithComponent("metrics-monitor")),
	}
}

// RegisterHandlers subscribes the degradation monitor to snapshot
// refresh events.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.MetricsRefreshed{}.EventName(), m.monitor)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "metrics"
}

// Service returns the aggregator for worker tasks and the digest email.
func (m *Module) Service() *Service {
	return m.service
}

// Refresher returns the background refresher for the composition root to run.
func (m *Module) Refresher() *Refresher {
	return m.refresher
}

// RegisterRoutes mounts metrics routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/metrics")
	group.GET("/messages", m.handler.GetMessages)
	group.GET("/messages/trend", m.handler.GetTrend)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
