package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newTestRouter(t *testing.T, source *fakeSource) (*gin.Engine, *SnapshotCache) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	cache, _ := newTestCache(t)
	svc := newTestService(source, time.UTC, time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC))
	handler := NewHandler(svc, cache)

	engine := gin.New()
	engine.GET("/metrics/messages", handler.GetMessages)
	return engine, cache
}

func getMessages(t *testing.T, engine *gin.Engine, query string) MessageMetrics {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics/messages"+query, nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got MessageMetrics
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return got
}

func TestGetMessagesScopedServedFromCache(t *testing.T) {
	source := &fakeSource{}
	engine, cache := newTestRouter(t, source)

	projectID := uuid.New()
	warm := MessageMetrics{
		FirstMessagesSentToday: 7,
		ResponseRate:           50.0,
		LastUpdated:            time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	}
	if err := cache.Set(context.Background(), &projectID, warm); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got := getMessages(t, engine, "?projectId="+projectID.String())

	if got.FirstMessagesSentToday != 7 || got.ResponseRate != 50.0 {
		t.Errorf("got %+v, want cached snapshot", got)
	}
	if source.leadsCalls != 0 {
		t.Errorf("leadsCalls = %d, want 0 for a cache hit", source.leadsCalls)
	}
}

func TestGetMessagesScopedMissWarmsCache(t *testing.T) {
	source := &fakeSource{}
	engine, _ := newTestRouter(t, source)

	projectID := uuid.New()
	query := "?projectId=" + projectID.String()

	getMessages(t, engine, query)
	if source.leadsCalls != 1 {
		t.Fatalf("leadsCalls = %d after miss, want 1", source.leadsCalls)
	}

	getMessages(t, engine, query)
	if source.leadsCalls != 1 {
		t.Errorf("leadsCalls = %d after second request, want 1 (cache hit)", source.leadsCalls)
	}
}

func TestGetMessagesRejectsBadProjectID(t *testing.T) {
	source := &fakeSource{}
	engine, _ := newTestRouter(t, source)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics/messages?projectId=not-a-uuid", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
