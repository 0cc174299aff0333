// Package transport defines the JSON shapes of the leads read API.
package transport

import (
	"time"

	"github.com/broddo-baggins/ovenai-insights/internal/leads/domain"
	"github.com/broddo-baggins/ovenai-insights/internal/scoring"

	"github.com/google/uuid"
)

// BANTResponse is the per-dimension qualification block.
type BANTResponse struct {
	Budget    string `json:"budget"`
	Authority string `json:"authority"`
	Need      string `json:"need"`
	Timeline  string `json:"timeline"`
	Qualified int    `json:"qualifiedDimensions"`
}

// ScoreResponse is the derived temperature block.
type ScoreResponse struct {
	Score   int                `json:"score"`
	Heat    string             `json:"heat"`
	Factors map[string]float64 `json:"factors"`
}

// LeadResponse is the full lead read shape.
type LeadResponse struct {
	ID                  uuid.UUID     `json:"id"`
	ProjectID           *uuid.UUID    `json:"projectId,omitempty"`
	Name                string        `json:"name"`
	Phone               string        `json:"phone"`
	BANT                BANTResponse  `json:"bant"`
	State               string        `json:"state"`
	Status              string        `json:"status"`
	ProcessingState     string        `json:"processingState"`
	RequiresHumanReview bool          `json:"requiresHumanReview"`
	FirstInteraction    *time.Time    `json:"firstInteraction,omitempty"`
	LastInteraction     *time.Time    `json:"lastInteraction,omitempty"`
	InteractionCount    int           `json:"interactionCount"`
	Score               ScoreResponse `json:"score"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

// ListLeadsResponse wraps the collection read.
type ListLeadsResponse struct {
	Leads []LeadResponse `json:"leads"`
	Total int            `json:"total"`
}

// ToLeadResponse maps a domain lead plus its derived score to the API shape.
func ToLeadResponse(lead domain.Lead, score scoring.Result) LeadResponse {
	return LeadResponse{
		ID:        lead.ID,
		ProjectID: lead.ProjectID,
		Name:      lead.Name,
		Phone:     lead.Phone,
		BANT: BANTResponse{
			Budget:    string(lead.Budget),
			Authority: string(lead.Authority),
			Need:      string(lead.Need),
			Timeline:  string(lead.Timeline),
			Qualified: lead.QualifiedDimensions(),
		},
		State:               lead.State,
		Status:              lead.Status,
		ProcessingState:     string(lead.ProcessingState),
		RequiresHumanReview: lead.RequiresHumanReview,
		FirstInteraction:    lead.FirstInteraction,
		LastInteraction:     lead.LastInteraction,
		InteractionCount:    lead.InteractionCount,
		Score: ScoreResponse{
			Score:   score.Score,
			Heat:    string(score.Heat),
			Factors: score.Factors,
		},
		CreatedAt: lead.CreatedAt,
		UpdatedAt: lead.UpdatedAt,
	}
}
