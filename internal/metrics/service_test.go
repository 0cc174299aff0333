package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/broddo-baggins/ovenai-insights/internal/leads/domain"
	"github.com/broddo-baggins/ovenai-insights/platform/logger"

	"github.com/google/uuid"
)

type fakeSource struct {
	leads         []domain.Lead
	conversations []domain.Conversation
	leadsErr      error
	convsErr      error
	leadsCalls    int
}

func (f *fakeSource) FetchAllLeads(ctx context.Context) ([]domain.Lead, error) {
	f.leadsCalls++
	return f.leads, f.leadsErr
}

func (f *fakeSource) FetchAllConversations(ctx context.Context) ([]domain.Conversation, error) {
	return f.conversations, f.convsErr
}

type fixedMetricsConfig struct {
	loc *time.Location
}

func (c fixedMetricsConfig) GetMetricsRefreshInterval() time.Duration { return 5 * time.Minute }
func (c fixedMetricsConfig) GetMetricsLocation() *time.Location      { return c.loc }

func newTestService(source *fakeSource, loc *time.Location, now time.Time) *Service {
	svc := NewService(source, fixedMetricsConfig{loc: loc}, logger.New("test"))
	svc.now = func() time.Time { return now }
	return svc
}

func timePtr(t time.Time) *time.Time { return &t }

func TestSnapshotResponseRateScenario(t *testing.T) {
	// 4 leads first-contacted today with no reply, 3 older leads that
	// replied, 3 untouched leads: responseRate = 3/4*100 = 75.0.
	loc := time.UTC
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)
	yesterday := now.AddDate(0, 0, -3)

	leads := make([]domain.Lead, 0, 10)
	for i := 0; i < 4; i++ {
		leads = append(leads, domain.Lead{
			FirstInteraction: timePtr(now.Add(-time.Hour)),
			InteractionCount: 1,
		})
	}
	for i := 0; i < 3; i++ {
		leads = append(leads, domain.Lead{
			FirstInteraction: timePtr(yesterday),
			LastInteraction:  timePtr(yesterday.Add(2 * time.Hour)),
			InteractionCount: 3,
		})
	}
	for i := 0; i < 3; i++ {
		leads = append(leads, domain.Lead{})
	}

	svc := newTestService(&fakeSource{leads: leads}, loc, now)
	m := svc.Snapshot(context.Background(), nil)

	if m.FirstMessagesSentToday != 4 {
		t.Errorf("FirstMessagesSentToday = %d, want 4", m.FirstMessagesSentToday)
	}
	if m.RepliesToFirstMessages != 3 {
		t.Errorf("RepliesToFirstMessages = %d, want 3", m.RepliesToFirstMessages)
	}
	if m.ResponseRate != 75.0 {
		t.Errorf("ResponseRate = %v, want 75.0", m.ResponseRate)
	}
}

func TestSnapshotZeroDenominatorYieldsZeroNotNaN(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)
	old := now.AddDate(0, 0, -10)

	// Replies exist but nothing was first-contacted today.
	leads := []domain.Lead{
		{FirstInteraction: timePtr(old), LastInteraction: timePtr(old.Add(time.Hour)), InteractionCount: 2},
	}

	svc := newTestService(&fakeSource{leads: leads}, loc, now)
	m := svc.Snapshot(context.Background(), nil)

	if m.FirstMessagesSentToday != 0 {
		t.Fatalf("FirstMessagesSentToday = %d, want 0", m.FirstMessagesSentToday)
	}
	if m.ResponseRate != 0 {
		t.Errorf("ResponseRate = %v, want 0", m.ResponseRate)
	}
	if m.MeetingConversionRate != 0 {
		t.Errorf("MeetingConversionRate = %v, want 0", m.MeetingConversionRate)
	}
}

func TestSnapshotRatesAreClamped(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)
	old := now.AddDate(0, 0, -5)

	// Bad data: 1 first message today, 3 global replies. The rate must
	// clamp at 100 rather than exceed it.
	leads := []domain.Lead{
		{FirstInteraction: timePtr(now.Add(-time.Hour)), InteractionCount: 1},
	}
	for i := 0; i < 3; i++ {
		leads = append(leads, domain.Lead{
			FirstInteraction: timePtr(old),
			LastInteraction:  timePtr(old.Add(time.Hour)),
			InteractionCount: 4,
		})
	}

	svc := newTestService(&fakeSource{leads: leads}, loc, now)
	m := svc.Snapshot(context.Background(), nil)

	if m.ResponseRate != 100 {
		t.Errorf("ResponseRate = %v, want clamped 100", m.ResponseRate)
	}
}

func TestSnapshotFallsBackToZeroOnFetchError(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)

	svc := newTestService(&fakeSource{leadsErr: errors.New("connection refused")}, loc, now)

	m := svc.Snapshot(context.Background(), nil)

	if !m.isZero() {
		t.Errorf("snapshot should be all-zero on fetch error, got %+v", m)
	}
	if !m.LastUpdated.Equal(now) {
		t.Errorf("LastUpdated = %v, want fresh timestamp %v", m.LastUpdated, now)
	}
}

func TestSnapshotConversationFetchErrorAlsoFallsBack(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)

	source := &fakeSource{
		leads:    []domain.Lead{{FirstInteraction: timePtr(now), InteractionCount: 1}},
		convsErr: errors.New("timeout"),
	}

	svc := newTestService(source, loc, now)
	m := svc.Snapshot(context.Background(), nil)

	if !m.isZero() {
		t.Errorf("snapshot should be all-zero when either fetch fails, got %+v", m)
	}
}

func TestSnapshotDayBoundaryIsLocalWallClock(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)

	lastInstantToday := time.Date(2026, 3, 10, 23, 59, 59, 999000000, loc)
	firstInstantTomorrow := time.Date(2026, 3, 11, 0, 0, 0, 0, loc)

	leads := []domain.Lead{
		{FirstInteraction: timePtr(lastInstantToday), InteractionCount: 1},
		{FirstInteraction: timePtr(firstInstantTomorrow), InteractionCount: 1},
	}

	svc := newTestService(&fakeSource{leads: leads}, loc, now)
	m := svc.Snapshot(context.Background(), nil)

	if m.FirstMessagesSentToday != 1 {
		t.Errorf("FirstMessagesSentToday = %d, want 1 (23:59:59.999 in, 00:00:00.000 out)", m.FirstMessagesSentToday)
	}
}

func TestSnapshotQueuedCountIsStateOnly(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)

	leads := []domain.Lead{
		{ProcessingState: domain.ProcessingPending},
		{ProcessingState: domain.ProcessingQueued},
		{ProcessingState: domain.ProcessingCompleted},
		{ProcessingState: domain.ProcessingOther},
	}

	svc := newTestService(&fakeSource{leads: leads}, loc, now)
	m := svc.Snapshot(context.Background(), nil)

	if m.LeadsQueuedForTomorrow != 2 {
		t.Errorf("LeadsQueuedForTomorrow = %d, want 2", m.LeadsQueuedForTomorrow)
	}
}

func TestSnapshotActiveConversations(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)

	conversations := []domain.Conversation{
		{Status: "active"},
		{Status: "active"},
		{Status: "closed"},
	}

	svc := newTestService(&fakeSource{conversations: conversations}, loc, now)
	m := svc.Snapshot(context.Background(), nil)

	if m.TotalActiveConversations != 2 {
		t.Errorf("TotalActiveConversations = %d, want 2", m.TotalActiveConversations)
	}
}

func TestSnapshotAverageResponseTime(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)
	base := now.AddDate(0, 0, -2)

	leads := []domain.Lead{
		{FirstInteraction: timePtr(base), LastInteraction: timePtr(base.Add(2 * time.Hour)), InteractionCount: 3},
		{FirstInteraction: timePtr(base), LastInteraction: timePtr(base.Add(4 * time.Hour)), InteractionCount: 2},
		// Single-touch lead is excluded from the mean.
		{FirstInteraction: timePtr(base), LastInteraction: timePtr(base), InteractionCount: 1},
	}

	svc := newTestService(&fakeSource{leads: leads}, loc, now)
	m := svc.Snapshot(context.Background(), nil)

	if m.AverageResponseTimeHours != 3.0 {
		t.Errorf("AverageResponseTimeHours = %v, want 3.0", m.AverageResponseTimeHours)
	}
}

func TestSnapshotProjectFilter(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)
	project := uuid.New()
	other := uuid.New()

	leads := []domain.Lead{
		{ProjectID: &project, FirstInteraction: timePtr(now.Add(-time.Hour)), InteractionCount: 1},
		{ProjectID: &other, FirstInteraction: timePtr(now.Add(-time.Hour)), InteractionCount: 1},
		{FirstInteraction: timePtr(now.Add(-time.Hour)), InteractionCount: 1},
	}

	svc := newTestService(&fakeSource{leads: leads}, loc, now)

	scoped := svc.Snapshot(context.Background(), &project)
	if scoped.FirstMessagesSentToday != 1 {
		t.Errorf("scoped FirstMessagesSentToday = %d, want 1", scoped.FirstMessagesSentToday)
	}

	unscoped := svc.Snapshot(context.Background(), nil)
	if unscoped.FirstMessagesSentToday != 3 {
		t.Errorf("unscoped FirstMessagesSentToday = %d, want 3", unscoped.FirstMessagesSentToday)
	}
}

func TestTrendReturnsSevenDaysOldestFirst(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)

	twoDaysAgo := time.Date(2026, 3, 8, 10, 0, 0, 0, loc)
	leads := []domain.Lead{
		{FirstInteraction: timePtr(twoDaysAgo), InteractionCount: 1},
		{FirstInteraction: timePtr(twoDaysAgo.Add(time.Hour)), LastInteraction: timePtr(twoDaysAgo.Add(3 * time.Hour)), InteractionCount: 2},
	}

	svc := newTestService(&fakeSource{leads: leads}, loc, now)
	days := svc.Trend(context.Background(), nil)

	if len(days) != trendDays {
		t.Fatalf("len(days) = %d, want %d", len(days), trendDays)
	}
	if days[0].Date != "2026-03-04" {
		t.Errorf("days[0].Date = %q, want oldest day 2026-03-04", days[0].Date)
	}
	if days[trendDays-1].Date != "2026-03-10" {
		t.Errorf("last day = %q, want 2026-03-10", days[trendDays-1].Date)
	}

	var march8 *TrendPoint
	for i := range days {
		if days[i].Date == "2026-03-08" {
			march8 = &days[i]
		}
	}
	if march8 == nil {
		t.Fatal("2026-03-08 missing from trend")
	}
	if march8.FirstMessages != 2 || march8.RepliesStarted != 1 {
		t.Errorf("2026-03-08 = %+v, want FirstMessages=2 RepliesStarted=1", *march8)
	}
	if march8.ConversionRate != 50.0 {
		t.Errorf("2026-03-08 ConversionRate = %v, want 50.0", march8.ConversionRate)
	}
}

func TestTrendFallsBackToZeroDaysOnFetchError(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)

	svc := newTestService(&fakeSource{leadsErr: errors.New("boom")}, loc, now)
	days := svc.Trend(context.Background(), nil)

	if len(days) != trendDays {
		t.Fatalf("len(days) = %d, want %d", len(days), trendDays)
	}
	for _, day := range days {
		if day.FirstMessages != 0 || day.RepliesStarted != 0 || day.ConversionRate != 0 {
			t.Errorf("day %s not zero: %+v", day.Date, day)
		}
	}
}

func TestRateRounding(t *testing.T) {
	tests := []struct {
		num, den int
		want     float64
	}{
		{1, 3, 33.3},
		{2, 3, 66.7},
		{0, 0, 0},
		{5, 0, 0},
		{3, 4, 75.0},
		{7, 7, 100.0},
		{9, 4, 100.0},
	}

	for _, tc := range tests {
		if got := rate(tc.num, tc.den); got != tc.want {
			t.Errorf("rate(%d, %d) = %v, want %v", tc.num, tc.den, got, tc.want)
		}
	}
}
