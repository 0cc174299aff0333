package scoring

import (
	"testing"
	"time"

	"github.com/broddo-baggins/ovenai-insights/internal/leads/domain"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestScoreFullyQualifiedRecentLeadIsBurning(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	lead := domain.Lead{
		Budget:           domain.BANTQualified,
		Authority:        domain.BANTQualified,
		Need:             domain.BANTQualified,
		Timeline:         domain.BANTQualified,
		LastInteraction:  timePtr(now.Add(-2 * time.Hour)),
		InteractionCount: 6,
	}

	result := Score(lead, now)
	if result.Heat != HeatBurning {
		t.Errorf("Heat = %q, want %q (score %d)", result.Heat, HeatBurning, result.Score)
	}
	if result.Score < burningThreshold || result.Score > 100 {
		t.Errorf("Score = %d, want within [%d, 100]", result.Score, burningThreshold)
	}
}

func TestScoreUntouchedLeadIsCold(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	result := Score(domain.Lead{}, now)

	if result.Heat != HeatCold {
		t.Errorf("Heat = %q, want %q (score %d)", result.Heat, HeatCold, result.Score)
	}
}

func TestScoreIsClampedToHundred(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	lead := domain.Lead{
		Budget:              domain.BANTQualified,
		Authority:           domain.BANTQualified,
		Need:                domain.BANTQualified,
		Timeline:            domain.BANTQualified,
		LastInteraction:     timePtr(now.Add(-1 * time.Hour)),
		InteractionCount:    50,
		RequiresHumanReview: true,
	}

	result := Score(lead, now)
	if result.Score > 100 {
		t.Errorf("Score = %d, want <= 100", result.Score)
	}
}

func TestScoreRecencyBuckets(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		last *time.Time
		want float64
	}{
		{"nil", nil, 0},
		{"future (clock skew)", timePtr(now.Add(time.Hour)), maxRecencyContribution},
		{"same day", timePtr(now.Add(-6 * time.Hour)), maxRecencyContribution},
		{"three days", timePtr(now.Add(-48 * time.Hour)), maxRecencyContribution * 0.6},
		{"this week", timePtr(now.Add(-5 * 24 * time.Hour)), maxRecencyContribution * 0.3},
		{"stale", timePtr(now.Add(-30 * 24 * time.Hour)), 0},
	}

	for _, tc := range tests {
		if got := scoreRecency(tc.last, now); got != tc.want {
			t.Errorf("scoreRecency(%s) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestNotQualifiedScoresBelowUnassessed(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	unassessed := Score(domain.Lead{}, now)
	rejected := Score(domain.Lead{
		Budget:    domain.BANTNotQualified,
		Authority: domain.BANTNotQualified,
		Need:      domain.BANTNotQualified,
		Timeline:  domain.BANTNotQualified,
	}, now)

	if rejected.Score >= unassessed.Score {
		t.Errorf("rejected lead score %d should be below unassessed score %d", rejected.Score, unassessed.Score)
	}
}
