// Package domain holds the read-model types for leads and conversations.
// Records are written by the CRM's message-processing pipeline; this
// service only ever reads them.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BANTStatus is the canonical qualification value for one BANT dimension.
// The CRM stores a zoo of spellings; everything is normalized to this
// three-value enum at scan time.
type BANTStatus string

const (
	// BANTUnqualified means the dimension has not been assessed yet.
	BANTUnqualified BANTStatus = "unqualified"
	// BANTQualified means the dimension was assessed and passed.
	BANTQualified BANTStatus = "qualified"
	// BANTNotQualified means the dimension was assessed and rejected.
	BANTNotQualified BANTStatus = "not_qualified"
)

// NormalizeBANT maps raw stored values onto the canonical enum. Unknown
// values collapse to unqualified rather than erroring: a lead with a
// malformed dimension is still a lead.
func NormalizeBANT(raw string) BANTStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "qualified", "yes", "true":
		return BANTQualified
	case "not_qualified", "disqualified", "no", "false":
		return BANTNotQualified
	default:
		return BANTUnqualified
	}
}

// ProcessingState is the outreach pipeline position of a lead.
type ProcessingState string

const (
	ProcessingPending   ProcessingState = "pending"
	ProcessingQueued    ProcessingState = "queued"
	ProcessingCompleted ProcessingState = "completed"
	ProcessingOther     ProcessingState = "other"
)

// NormalizeProcessingState collapses unknown states into ProcessingOther.
func NormalizeProcessingState(raw string) ProcessingState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return ProcessingPending
	case "queued":
		return ProcessingQueued
	case "completed":
		return ProcessingCompleted
	default:
		return ProcessingOther
	}
}

// Lead is the read model for one CRM lead. ProjectID is already
// normalized over the legacy column split at the repository layer.
//
// Assumed but unenforced: InteractionCount > 1 implies both interaction
// timestamps are set with LastInteraction >= FirstInteraction. The
// aggregator skips records only where FirstInteraction is nil.
type Lead struct {
	ID        uuid.UUID
	ProjectID *uuid.UUID
	Name      string
	Phone     string

	Budget    BANTStatus
	Authority BANTStatus
	Need      BANTStatus
	Timeline  BANTStatus

	// BANTStatus is the CRM's free-text overall label (for example
	// "need_qualified"), kept raw for the meeting rule table.
	BANTStatus string

	// State and Status are free-text pipeline fields used for ad hoc
	// substring matching. Kept verbatim, case included.
	State  string
	Status string

	ProcessingState     ProcessingState
	RequiresHumanReview bool

	FirstInteraction *time.Time
	LastInteraction  *time.Time
	InteractionCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// QualifiedDimensions counts BANT dimensions assessed as qualified.
func (l Lead) QualifiedDimensions() int {
	count := 0
	for _, dim := range []BANTStatus{l.Budget, l.Authority, l.Need, l.Timeline} {
		if dim == BANTQualified {
			count++
		}
	}
	return count
}

// ConversationStatusActive marks a conversation still in progress.
const ConversationStatusActive = "active"

// Conversation is the read model for one CRM conversation thread.
type Conversation struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	ProjectID *uuid.UUID
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
