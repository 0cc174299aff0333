// Package scoring computes lead temperature from BANT qualification and
// engagement recency. Scores are derived on read and never persisted.
package scoring

import (
	"time"

	"github.com/broddo-baggins/ovenai-insights/internal/leads/domain"
)

const (
	// Base score - leads start at 20 and factors add/subtract from this.
	baseScore = 20.0

	// Each qualified BANT dimension is worth the same fixed slice.
	// Four qualified dimensions contribute the full maxBANTContribution.
	maxBANTContribution = 48.0
	perDimension        = maxBANTContribution / 4

	// A dimension assessed and rejected is a stronger signal than one
	// not yet assessed.
	notQualifiedPenalty = 6.0

	// Engagement contributions.
	maxRecencyContribution = 20.0
	maxVolumeContribution  = 12.0

	// Review flag: a human already decided this lead is worth attention.
	humanReviewBonus = 8.0
)

// HeatLevel is the coarse temperature label shown on the dashboard.
type HeatLevel string

const (
	HeatCold    HeatLevel = "cold"
	HeatWarm    HeatLevel = "warm"
	HeatHot     HeatLevel = "hot"
	HeatBurning HeatLevel = "burning"
)

// Heat thresholds over the 0-100 score.
const (
	burningThreshold = 80
	hotThreshold     = 60
	warmThreshold    = 35
)

// Result holds scoring output and per-factor details.
type Result struct {
	Score   int
	Heat    HeatLevel
	Factors map[string]float64
}

// Score computes the lead temperature score at the given instant.
// It is a pure function over the lead record.
func Score(lead domain.Lead, now time.Time) Result {
	score := baseScore
	factors := map[string]float64{}

	bant := 0.0
	for name, dim := range map[string]domain.BANTStatus{
		"budget":    lead.Budget,
		"authority": lead.Authority,
		"need":      lead.Need,
		"timeline":  lead.Timeline,
	} {
		switch dim {
		case domain.BANTQualified:
			factors[name] = perDimension
			bant += perDimension
		case domain.BANTNotQualified:
			factors[name] = -notQualifiedPenalty
			bant -= notQualifiedPenalty
		default:
			factors[name] = 0
		}
	}
	score += bant

	recency := scoreRecency(lead.LastInteraction, now)
	factors["recency"] = recency
	score += recency

	volume := scoreVolume(lead.InteractionCount)
	factors["volume"] = volume
	score += volume

	if lead.RequiresHumanReview {
		factors["human_review"] = humanReviewBonus
		score += humanReviewBonus
	}

	final := clamp(score)
	return Result{
		Score:   final,
		Heat:    heatFor(final),
		Factors: factors,
	}
}

// scoreRecency rewards leads touched recently. The decay is stepped, not
// continuous: the dashboard only needs the coarse buckets.
func scoreRecency(last *time.Time, now time.Time) float64 {
	if last == nil {
		return 0
	}

	age := now.Sub(*last)
	switch {
	case age < 0:
		// Clock skew from the CRM write path; treat as fresh.
		return maxRecencyContribution
	case age <= 24*time.Hour:
		return maxRecencyContribution
	case age <= 72*time.Hour:
		return maxRecencyContribution * 0.6
	case age <= 7*24*time.Hour:
		return maxRecencyContribution * 0.3
	default:
		return 0
	}
}

func scoreVolume(interactions int) float64 {
	switch {
	case interactions >= 10:
		return maxVolumeContribution
	case interactions >= 5:
		return maxVolumeContribution * 0.75
	case interactions >= 2:
		return maxVolumeContribution * 0.5
	case interactions == 1:
		return maxVolumeContribution * 0.25
	default:
		return 0
	}
}

func heatFor(score int) HeatLevel {
	switch {
	case score >= burningThreshold:
		return HeatBurning
	case score >= hotThreshold:
		return HeatHot
	case score >= warmThreshold:
		return HeatWarm
	default:
		return HeatCold
	}
}

func clamp(score float64) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score + 0.5)
}
