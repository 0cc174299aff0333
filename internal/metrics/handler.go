package metrics

import (
	"net/http"

	"github.com/broddo-baggins/ovenai-insights/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler serves the dashboard metrics endpoints.
type Handler struct {
	svc   *Service
	cache *SnapshotCache
}

// NewHandler creates a metrics handler.
func NewHandler(svc *Service, cache *SnapshotCache) *Handler {
	return &Handler{svc: svc, cache: cache}
}

// GetMessages returns the current MessageMetrics snapshot, optionally
// scoped to ?projectId=. Requests are served from the cache when a
// fresh snapshot is available for the requested scope; the background
// refresher keeps the unscoped entry warm, scoped entries warm up on
// first request.
func (h *Handler) GetMessages(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	if cached, hit := h.cache.Get(c.Request.Context(), projectID); hit {
		httpkit.OK(c, cached)
		return
	}

	snapshot := h.svc.Snapshot(c.Request.Context(), projectID)
	// Best effort: a cache write failure never degrades the response.
	_ = h.cache.Set(c.Request.Context(), projectID, snapshot)

	httpkit.OK(c, snapshot)
}

// GetTrend returns the trailing seven-day trend, oldest day first.
func (h *Handler) GetTrend(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	httpkit.OK(c, gin.H{"days": h.svc.Trend(c.Request.Context(), projectID)})
}

func parseProjectID(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("projectId")
	if raw == "" {
		return nil, true
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid projectId", nil)
		return nil, false
	}
	return &id, true
}
