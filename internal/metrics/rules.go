package metrics

import (
	"strings"

	"github.com/broddo-baggins/ovenai-insights/internal/leads/domain"
)

// recognizedMeetingStates are the state values the dashboard has
// historically treated as "a meeting came out of this".
var recognizedMeetingStates = map[string]struct{}{
	"meeting_scheduled": {},
	"meeting_booked":    {},
	"demo_scheduled":    {},
	"calendly_booked":   {},
}

// meetingRule is one independently evaluated condition. The policy is an
// OR over all rules: the first match wins and its label is reported.
type meetingRule struct {
	label string
	match func(domain.Lead) bool
}

// meetingRules is the ordered rule table behind
// MeetingsScheduledFromMessages. The substring matches are case-sensitive
// on purpose: the CRM writes these status values in lowercase and the
// dashboard has always matched them verbatim.
var meetingRules = []meetingRule{
	{
		label: "human_review",
		match: func(l domain.Lead) bool { return l.RequiresHumanReview },
	},
	{
		label: "meeting_state",
		match: func(l domain.Lead) bool {
			_, ok := recognizedMeetingStates[l.State]
			return ok
		},
	},
	{
		label: "bant_need_qualified",
		match: func(l domain.Lead) bool { return l.BANTStatus == "need_qualified" },
	},
	{
		label: "status_substring",
		match: func(l domain.Lead) bool {
			return strings.Contains(l.Status, "qualified") || strings.Contains(l.Status, "contact")
		},
	},
}

// MeetingScheduled reports whether the lead counts toward
// MeetingsScheduledFromMessages, and which rule matched.
func MeetingScheduled(lead domain.Lead) (bool, string) {
	for _, rule := range meetingRules {
		if rule.match(lead) {
			return true, rule.label
		}
	}
	return false, ""
}
