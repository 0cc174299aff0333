package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/broddo-baggins/ovenai-insights/internal/leads/domain"
	"github.com/broddo-baggins/ovenai-insights/internal/leads/repository"
	"github.com/broddo-baggins/ovenai-insights/platform/apperr"
	"github.com/broddo-baggins/ovenai-insights/platform/logger"

	"github.com/google/uuid"
)

type fakeReader struct {
	leads []domain.Lead
	err   error
}

func (f *fakeReader) FetchAllLeads(ctx context.Context) ([]domain.Lead, error) {
	return f.leads, f.err
}

func (f *fakeReader) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	if f.err != nil {
		return domain.Lead{}, f.err
	}
	for _, lead := range f.leads {
		if lead.ID == id {
			return lead, nil
		}
	}
	return domain.Lead{}, repository.ErrNotFound
}

func newTestService(reader *fakeReader, now time.Time) *Service {
	svc := New(reader, logger.New("test"))
	svc.now = func() time.Time { return now }
	return svc
}

func TestListSortsHottestFirst(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour)

	cold := domain.Lead{ID: uuid.New(), Name: "cold"}
	hot := domain.Lead{
		ID:               uuid.New(),
		Name:             "hot",
		Budget:           domain.BANTQualified,
		Authority:        domain.BANTQualified,
		Need:             domain.BANTQualified,
		Timeline:         domain.BANTQualified,
		LastInteraction:  &recent,
		InteractionCount: 6,
	}

	svc := newTestService(&fakeReader{leads: []domain.Lead{cold, hot}}, now)
	scored, err := svc.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(scored) != 2 {
		t.Fatalf("len = %d, want 2", len(scored))
	}
	if scored[0].Lead.Name != "hot" {
		t.Errorf("first lead = %q, want the hottest", scored[0].Lead.Name)
	}
	if scored[0].Score.Score <= scored[1].Score.Score {
		t.Errorf("scores not descending: %d then %d", scored[0].Score.Score, scored[1].Score.Score)
	}
}

func TestListFiltersByProject(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	project := uuid.New()
	other := uuid.New()

	leads := []domain.Lead{
		{ID: uuid.New(), ProjectID: &project},
		{ID: uuid.New(), ProjectID: &other},
		{ID: uuid.New()},
	}

	svc := newTestService(&fakeReader{leads: leads}, now)
	scored, err := svc.List(context.Background(), &project)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(scored) != 1 {
		t.Errorf("len = %d, want 1 lead in the project", len(scored))
	}
}

func TestListRepositoryError(t *testing.T) {
	svc := newTestService(&fakeReader{err: errors.New("down")}, time.Now())

	if _, err := svc.List(context.Background(), nil); !apperr.Is(err, apperr.KindInternal) {
		t.Errorf("err = %v, want internal kind", err)
	}
}

func TestGetUnknownLead(t *testing.T) {
	svc := newTestService(&fakeReader{}, time.Now())

	if _, err := svc.Get(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("err = %v, want not-found kind", err)
	}
}
