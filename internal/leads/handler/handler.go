// Package handler serves the leads read endpoints.
package handler

import (
	"net/http"

	"github.com/broddo-baggins/ovenai-insights/internal/leads/service"
	"github.com/broddo-baggins/ovenai-insights/internal/leads/transport"
	"github.com/broddo-baggins/ovenai-insights/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// List returns all leads with derived scores, hottest first, optionally
// scoped to ?projectId=.
func (h *Handler) List(c *gin.Context) {
	var projectID *uuid.UUID
	if raw := c.Query("projectId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid projectId", nil)
			return
		}
		projectID = &id
	}

	scored, err := h.svc.List(c.Request.Context(), projectID)
	if httpkit.HandleError(c, err) {
		return
	}

	leads := make([]transport.LeadResponse, 0, len(scored))
	for _, item := range scored {
		leads = append(leads, transport.ToLeadResponse(item.Lead, item.Score))
	}

	httpkit.OK(c, transport.ListLeadsResponse{Leads: leads, Total: len(leads)})
}

// Get returns a single lead by id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	item, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(item.Lead, item.Score))
}
