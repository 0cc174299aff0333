package conversations

import (
	"context"
	"fmt"

	"github.com/broddo-baggins/ovenai-insights/internal/events"
	"github.com/broddo-baggins/ovenai-insights/platform/apperr"
	"github.com/broddo-baggins/ovenai-insights/platform/logger"
	"github.com/broddo-baggins/ovenai-insights/platform/phone"
)

// MessageSender delivers a single text message to a phone number through
// the WhatsApp gateway.
type MessageSender interface {
	SendText(ctx context.Context, toPhone, text string) error
}

// Relayer pushes a flow's agent-side messages to a real phone so a demo
// audience sees the scripted conversation arrive live.
type Relayer struct {
	player *Player
	sender MessageSender
	bus    events.Bus
	log    *logger.Logger
}

func NewRelayer(player *Player, sender MessageSender, bus events.Bus, log *logger.Logger) *Relayer {
	return &Relayer{player: player, sender: sender, bus: bus, log: log}
}

// Relay sends the agent messages of the identified flow to the given
// phone number, in stored order. Lead-side lines are skipped: the demo
// recipient plays the lead. Delivery stops at the first gateway error.
func (r *Relayer) Relay(ctx context.Context, lang Language, flowID, rawPhone string) (int, error) {
	if r.sender == nil {
		return 0, apperr.Unavailable("whatsapp gateway not configured")
	}

	if !phone.IsValid(rawPhone) {
		return 0, apperr.Validation("phone number is not valid")
	}
	normalized := phone.NormalizeE164(rawPhone)

	flow, _, err := r.player.PickByID(lang, flowID)
	if err != nil {
		return 0, apperr.NotFound("conversation flow not found")
	}

	sent := 0
	for _, msg := range flow.Messages {
		if msg.Sender != SenderAgent {
			continue
		}
		if err := r.sender.SendText(ctx, normalized, msg.Text); err != nil {
			return sent, fmt.Errorf("relay flow %s after %d messages: %w", flow.ID, sent, err)
		}
		sent++
	}

	r.bus.Publish(ctx, events.FlowRelayed{
		BaseEvent: events.NewBaseEvent(),
		FlowID:    flow.ID,
		Language:  lang.String(),
		Phone:     normalized,
		Messages:  sent,
	})

	return sent, nil
}
