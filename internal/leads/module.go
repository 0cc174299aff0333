// Package leads provides the leads bounded context module.
package leads

import (
	apphttp "github.com/broddo-baggins/ovenai-insights/internal/http"
	"github.com/broddo-baggins/ovenai-insights/internal/leads/handler"
	"github.com/broddo-baggins/ovenai-insights/internal/leads/repository"
	"github.com/broddo-baggins/ovenai-insights/internal/leads/service"
	"github.com/broddo-baggins/ovenai-insights/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context implementing http.Module.
type Module struct {
	handler    *handler.Handler
	repository *repository.Repository
}

// NewModule creates and initializes the leads module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log.WithComponent("leads"))

	return &Module{
		handler:    handler.New(svc),
		repository: repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Repository exposes the lead reader for the metrics aggregator, which
// consumes the same whole-collection reads.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes mounts the leads read routes behind authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.Get)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
