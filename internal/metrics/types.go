package metrics

import "time"

// MessageMetrics is the dashboard snapshot. It has no identity of its
// own: every refresh recomputes the whole struct from the current lead
// and conversation collections.
type MessageMetrics struct {
	FirstMessagesSentToday        int       `json:"firstMessagesSentToday"`
	RepliesToFirstMessages        int       `json:"repliesToFirstMessages"`
	MeetingsScheduledFromMessages int       `json:"meetingsScheduledFromMessages"`
	LeadsProcessedToday           int       `json:"leadsProcessedToday"`
	LeadsQueuedForTomorrow        int       `json:"leadsQueuedForTomorrow"`
	TotalActiveConversations      int       `json:"totalActiveConversations"`
	ResponseRate                  float64   `json:"responseRate"`
	MeetingConversionRate         float64   `json:"meetingConversionRate"`
	AverageResponseTimeHours      float64   `json:"averageResponseTimeHours"`
	LastUpdated                   time.Time `json:"lastUpdated"`
}

// TrendPoint is one calendar day in the trailing seven-day trend,
// oldest first.
type TrendPoint struct {
	Date           string  `json:"date"`
	FirstMessages  int     `json:"firstMessages"`
	RepliesStarted int     `json:"repliesStarted"`
	ConversionRate float64 `json:"conversionRate"`
}
