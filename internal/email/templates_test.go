package email

import (
	"strings"
	"testing"
)

func TestRenderDigestTemplate(t *testing.T) {
	content, err := renderEmailTemplate("digest.html", digestEmailData{
		baseEmailData: baseEmailData{
			Title:   "Daily messaging digest",
			Heading: "Daily messaging digest",
		},
		Date:                   "Tuesday, 10 March 2026",
		FirstMessagesSentToday: 4,
		RepliesToFirstMessages: 3,
		ResponseRate:           75.0,
		Trend: []trendRow{
			{Date: "2026-03-09", FirstMessages: 2, RepliesStarted: 1, ConversionRate: 50.0},
		},
	})
	if err != nil {
		t.Fatalf("renderEmailTemplate: %v", err)
	}

	for _, want := range []string{
		"Daily messaging digest",
		"Tuesday, 10 March 2026",
		"75%",
		"2026-03-09",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("rendered digest missing %q", want)
		}
	}
}
