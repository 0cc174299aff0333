// Package metrics turns raw lead and conversation collections into the
// fixed-shape dashboard snapshot. All filtering happens here, client
// side, after a whole-collection fetch.
package metrics

import (
	"context"
	"math"
	"time"

	"github.com/broddo-baggins/ovenai-insights/internal/leads/domain"
	"github.com/broddo-baggins/ovenai-insights/platform/config"
	"github.com/broddo-baggins/ovenai-insights/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const trendDays = 7

// LeadSource is the data-access collaborator. No filtering, pagination,
// or sorting contract is required of it.
type LeadSource interface {
	FetchAllLeads(ctx context.Context) ([]domain.Lead, error)
	FetchAllConversations(ctx context.Context) ([]domain.Conversation, error)
}

// Service computes dashboard metrics snapshots.
type Service struct {
	source LeadSource
	loc    *time.Location
	log    *logger.Logger
	now    func() time.Time
}

// NewService creates a metrics service. Day boundaries follow the
// configured wall-clock location, not UTC.
func NewService(source LeadSource, cfg config.MetricsConfig, log *logger.Logger) *Service {
	return &Service{
		source: source,
		loc:    cfg.GetMetricsLocation(),
		log:    log,
		now:    time.Now,
	}
}

// Snapshot computes the current metrics for the optional active project.
// It never returns an error: any fetch failure collapses into the
// all-zero snapshot with a fresh timestamp, logged but not surfaced.
func (s *Service) Snapshot(ctx context.Context, projectID *uuid.UUID) MessageMetrics {
	leads, conversations, err := s.fetch(ctx)
	if err != nil {
		s.log.MetricsFallback("snapshot", err)
		return zeroSnapshot(s.now())
	}

	return s.compute(leads, conversations, projectID)
}

// Trend recomputes each of the trailing seven calendar days from scratch,
// oldest first. A fetch failure produces seven all-zero days.
func (s *Service) Trend(ctx context.Context, projectID *uuid.UUID) []TrendPoint {
	leads, _, err := s.fetch(ctx)
	if err != nil {
		s.log.MetricsFallback("trend", err)
		leads = nil
	}

	leads = filterLeadsByProject(leads, projectID)

	todayStart := s.dayStart(s.now())
	points := make([]TrendPoint, 0, trendDays)
	for offset := trendDays - 1; offset >= 0; offset-- {
		dayStart := todayStart.AddDate(0, 0, -offset)
		dayEnd := dayStart.AddDate(0, 0, 1)

		firstMessages := 0
		repliesStarted := 0
		for _, lead := range leads {
			if lead.FirstInteraction == nil || !inWindow(*lead.FirstInteraction, dayStart, dayEnd) {
				continue
			}
			firstMessages++
			if lead.InteractionCount > 1 {
				repliesStarted++
			}
		}

		points = append(points, TrendPoint{
			Date:           dayStart.Format("2006-01-02"),
			FirstMessages:  firstMessages,
			RepliesStarted: repliesStarted,
			ConversionRate: rate(repliesStarted, firstMessages),
		})
	}

	return points
}

// fetch loads both collections concurrently. The two fetches are an
// unordered join: neither may assume the other finished first.
func (s *Service) fetch(ctx context.Context) ([]domain.Lead, []domain.Conversation, error) {
	var (
		leads         []domain.Lead
		conversations []domain.Conversation
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		fetched, err := s.source.FetchAllLeads(groupCtx)
		if err != nil {
			return err
		}
		leads = fetched
		return nil
	})
	group.Go(func() error {
		fetched, err := s.source.FetchAllConversations(groupCtx)
		if err != nil {
			return err
		}
		conversations = fetched
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	return leads, conversations, nil
}

func (s *Service) compute(leads []domain.Lead, conversations []domain.Conversation, projectID *uuid.UUID) MessageMetrics {
	leads = filterLeadsByProject(leads, projectID)
	conversations = filterConversationsByProject(conversations, projectID)

	now := s.now()
	todayStart := s.dayStart(now)
	tomorrowStart := todayStart.AddDate(0, 0, 1)

	m := MessageMetrics{LastUpdated: now}

	var (
		responseHours  float64
		respondedLeads int
	)

	for _, lead := range leads {
		if lead.FirstInteraction != nil && inWindow(*lead.FirstInteraction, todayStart, tomorrowStart) {
			m.FirstMessagesSentToday++
		}

		// Replies count globally, not just today's first contacts.
		if lead.FirstInteraction != nil && lead.InteractionCount > 1 {
			m.RepliesToFirstMessages++
		}

		if ok, _ := MeetingScheduled(lead); ok {
			m.MeetingsScheduledFromMessages++
		}

		if inWindow(lead.CreatedAt, todayStart, tomorrowStart) || inWindow(lead.UpdatedAt, todayStart, tomorrowStart) {
			m.LeadsProcessedToday++
		}

		// Name is historical: this filters by state only, never by date.
		if lead.ProcessingState == domain.ProcessingPending || lead.ProcessingState == domain.ProcessingQueued {
			m.LeadsQueuedForTomorrow++
		}

		if lead.InteractionCount > 1 && lead.FirstInteraction != nil && lead.LastInteraction != nil {
			responseHours += lead.LastInteraction.Sub(*lead.FirstInteraction).Hours()
			respondedLeads++
		}
	}

	for _, conv := range conversations {
		if conv.Status == domain.ConversationStatusActive {
			m.TotalActiveConversations++
		}
	}

	m.ResponseRate = rate(m.RepliesToFirstMessages, m.FirstMessagesSentToday)
	m.MeetingConversionRate = rate(m.MeetingsScheduledFromMessages, m.FirstMessagesSentToday)
	if respondedLeads > 0 {
		m.AverageResponseTimeHours = responseHours / float64(respondedLeads)
	}

	return m
}

// dayStart truncates to local midnight using wall-clock date components.
func (s *Service) dayStart(t time.Time) time.Time {
	local := t.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
}

// inWindow reports start <= t < end.
func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// rate computes numerator/denominator as a percentage rounded to one
// decimal, clamped to [0, 100]. A zero denominator yields 0, never NaN.
func rate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}

	value := float64(numerator) / float64(denominator) * 100
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return math.Round(value*10) / 10
}

func filterLeadsByProject(leads []domain.Lead, projectID *uuid.UUID) []domain.Lead {
	if projectID == nil {
		return leads
	}

	filtered := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.ProjectID != nil && *lead.ProjectID == *projectID {
			filtered = append(filtered, lead)
		}
	}
	return filtered
}

func filterConversationsByProject(conversations []domain.Conversation, projectID *uuid.UUID) []domain.Conversation {
	if projectID == nil {
		return conversations
	}

	filtered := make([]domain.Conversation, 0, len(conversations))
	for _, conv := range conversations {
		if conv.ProjectID != nil && *conv.ProjectID == *projectID {
			filtered = append(filtered, conv)
		}
	}
	return filtered
}

func zeroSnapshot(now time.Time) MessageMetrics {
	return MessageMetrics{LastUpdated: now}
}
