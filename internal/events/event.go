// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"github.com/broddo-baggins/ovenai-insights/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Metrics Domain Events
// =============================================================================

// MetricsRefreshed is published after the aggregator recomputes the
// dashboard snapshot, whether from the timer, the worker, or on demand.
type MetricsRefreshed struct {
	BaseEvent
	Degraded    bool      `json:"degraded"`
	ComputedAt  time.Time `json:"computedAt"`
	TriggerKind string    `json:"triggerKind"`
}

func (e MetricsRefreshed) EventName() string { return "metrics.snapshot.refreshed" }

// =============================================================================
// Demo Domain Events
// =============================================================================

// FlowRelayed is published when a scripted conversation flow is forwarded
// to the WhatsApp gateway for a live demo.
type FlowRelayed struct {
	BaseEvent
	FlowID   string `json:"flowId"`
	Language string `json:"language"`
	Phone    string `json:"phone"`
	Messages int    `json:"messages"`
}

func (e FlowRelayed) EventName() string { return "demo.flow.relayed" }
