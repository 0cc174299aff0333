// Package service implements the leads read operations: listing with
// derived temperature scores, and single-lead lookup.
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/broddo-baggins/ovenai-insights/internal/leads/domain"
	"github.com/broddo-baggins/ovenai-insights/internal/leads/repository"
	"github.com/broddo-baggins/ovenai-insights/internal/scoring"
	"github.com/broddo-baggins/ovenai-insights/platform/apperr"
	"github.com/broddo-baggins/ovenai-insights/platform/logger"

	"github.com/google/uuid"
)

// LeadReader is the repository dependency.
type LeadReader interface {
	FetchAllLeads(ctx context.Context) ([]domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
}

// ScoredLead pairs a lead with its derived temperature.
type ScoredLead struct {
	Lead  domain.Lead
	Score scoring.Result
}

// Service provides the leads read surface.
type Service struct {
	repo LeadReader
	log  *logger.Logger
	now  func() time.Time
}

func New(repo LeadReader, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// List returns all leads, optionally scoped to a project, scored and
// sorted hottest first.
func (s *Service) List(ctx context.Context, projectID *uuid.UUID) ([]ScoredLead, error) {
	leads, err := s.repo.FetchAllLeads(ctx)
	if err != nil {
		s.log.DatabaseError("list_leads", err)
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load leads", err)
	}

	now := s.now()
	scored := make([]ScoredLead, 0, len(leads))
	for _, lead := range leads {
		if projectID != nil && (lead.ProjectID == nil || *lead.ProjectID != *projectID) {
			continue
		}
		scored = append(scored, ScoredLead{Lead: lead, Score: scoring.Score(lead, now)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score.Score > scored[j].Score.Score
	})

	return scored, nil
}

// Get returns one lead with its derived score.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (ScoredLead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ScoredLead{}, apperr.NotFound("lead not found")
		}
		s.log.DatabaseError("get_lead", err)
		return ScoredLead{}, apperr.Wrap(apperr.KindInternal, "failed to load lead", err)
	}

	return ScoredLead{Lead: lead, Score: scoring.Score(lead, s.now())}, nil
}
