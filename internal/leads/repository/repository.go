// Package repository reads lead and conversation records from the shared
// CRM database. The aggregator needs whole collections: no server-side
// filtering, pagination, or sorting is offered here beyond a stable order.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/broddo-baggins/ovenai-insights/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// leadColumns selects every field the read model needs. project_id is
// coalesced with the legacy current_project_id column left behind by the
// 2025 schema rename, so callers see one normalized field.
const leadColumns = `
	id,
	COALESCE(project_id, current_project_id) AS project_id,
	COALESCE(name, ''),
	COALESCE(phone, ''),
	COALESCE(budget_status, ''),
	COALESCE(authority_status, ''),
	COALESCE(need_status, ''),
	COALESCE(timeline_status, ''),
	COALESCE(bant_status, ''),
	COALESCE(state, ''),
	COALESCE(status, ''),
	COALESCE(processing_state, ''),
	COALESCE(requires_human_review, false),
	first_interaction,
	last_interaction,
	COALESCE(interaction_count, 0),
	created_at,
	updated_at
`

// FetchAllLeads returns the full lead collection in creation order.
func (r *Repository) FetchAllLeads(ctx context.Context) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return leads, nil
}

// GetByID returns a single lead, or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id = $1
	`, id)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, ErrNotFound
		}
		return domain.Lead{}, err
	}
	return lead, nil
}

// FetchAllConversations returns the full conversation collection.
func (r *Repository) FetchAllConversations(ctx context.Context) ([]domain.Conversation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			id,
			lead_id,
			COALESCE(project_id, current_project_id) AS project_id,
			COALESCE(status, ''),
			created_at,
			updated_at
		FROM conversations
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := make([]domain.Conversation, 0)
	for rows.Next() {
		var conv domain.Conversation
		if err := rows.Scan(
			&conv.ID,
			&conv.LeadID,
			&conv.ProjectID,
			&conv.Status,
			&conv.CreatedAt,
			&conv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return conversations, nil
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var (
		lead            domain.Lead
		budget          string
		authority       string
		need            string
		timeline        string
		processingState string
		first           *time.Time
		last            *time.Time
	)

	if err := row.Scan(
		&lead.ID,
		&lead.ProjectID,
		&lead.Name,
		&lead.Phone,
		&budget,
		&authority,
		&need,
		&timeline,
		&lead.BANTStatus,
		&lead.State,
		&lead.Status,
		&processingState,
		&lead.RequiresHumanReview,
		&first,
		&last,
		&lead.InteractionCount,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		return domain.Lead{}, err
	}

	lead.Budget = domain.NormalizeBANT(budget)
	lead.Authority = domain.NormalizeBANT(authority)
	lead.Need = domain.NormalizeBANT(need)
	lead.Timeline = domain.NormalizeBANT(timeline)
	lead.ProcessingState = domain.NormalizeProcessingState(processingState)
	lead.FirstInteraction = first
	lead.LastInteraction = last

	return lead, nil
}
