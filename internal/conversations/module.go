// Package conversations provides the demo conversation bounded context module.
package conversations

import (
	"context"

	"github.com/broddo-baggins/ovenai-insights/internal/events"
	apphttp "github.com/broddo-baggins/ovenai-insights/internal/http"
	"github.com/broddo-baggins/ovenai-insights/platform/config"
	"github.com/broddo-baggins/ovenai-insights/platform/logger"
	"github.com/broddo-baggins/ovenai-insights/platform/validator"
)

// Module is the demo conversations bounded context implementing http.Module.
type Module struct {
	handler *Handler
	log     *logger.Logger
}

// NewModule creates and initializes the demo conversations module.
// sender may be nil when no WhatsApp gateway is configured; the relay
// endpoint then reports unavailable.
func NewModule(cfg config.DemoConfig, sender MessageSender, bus events.Bus, log *logger.Logger) (*Module, error) {
	store, err := NewStore()
	if err != nil {
		return nil, err
	}

	player := NewPlayer(store)
	relayer := NewRelayer(player, sender, bus, log.WithComponent("demo-relay"))
	handler := NewHandler(store, player, relayer, validator.New(), cfg.GetDemoBaseURL())

	return &Module{handler: handler, log: log.WithComponent("demo")}, nil
}

// RegisterHandlers subscribes the module's relay audit log to demo events.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.FlowRelayed{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.FlowRelayed:
		m.log.Info("demo flow relayed",
			"flow", e.FlowID,
			"language", e.Language,
			"phone", e.Phone,
			"messages", e.Messages,
		)
		return nil
	default:
		return nil
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "conversations"
}

// RegisterRoutes mounts the demo routes. Playback endpoints are public;
// the relay endpoint sits behind the stricter per-IP rate limiter since
// it triggers outbound WhatsApp traffic.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/demo/conversations")
	group.GET("/random", m.handler.GetRandom)
	group.GET("/flows", m.handler.ListFlows)
	group.GET("/:id", m.handler.GetByID)
	group.GET("/:id/opener", m.handler.GetOpener)
	group.GET("/:id/qr", m.handler.GetQR)
	group.POST("/:id/relay", ctx.RelayRateLimiter.RateLimit(), m.handler.PostRelay)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
