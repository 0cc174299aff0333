package conversations

import (
	"context"
	"errors"
	"testing"

	"github.com/broddo-baggins/ovenai-insights/internal/events"
	"github.com/broddo-baggins/ovenai-insights/platform/apperr"
	"github.com/broddo-baggins/ovenai-insights/platform/logger"
)

type fakeSender struct {
	sent    []string
	to      []string
	failAt  int
	failErr error
}

func (f *fakeSender) SendText(ctx context.Context, toPhone, text string) error {
	if f.failErr != nil && len(f.sent) == f.failAt {
		return f.failErr
	}
	f.sent = append(f.sent, text)
	f.to = append(f.to, toPhone)
	return nil
}

func newTestRelayer(t *testing.T, sender MessageSender) *Relayer {
	t.Helper()

	log := logger.New("test")
	player := newTestPlayer(t)
	return NewRelayer(player, sender, events.NewInMemoryBus(log), log)
}

func TestRelaySendsAgentMessagesInOrder(t *testing.T) {
	sender := &fakeSender{}
	relayer := newTestRelayer(t, sender)

	sent, err := relayer.Relay(context.Background(), LanguageEnglish, "investor-airbnb", "054-613-4567")
	if err != nil {
		t.Fatalf("Relay: %v", err)
	}

	flow, _, _ := newTestPlayer(t).PickByID(LanguageEnglish, "investor-airbnb")
	wantAgent := 0
	for _, msg := range flow.Messages {
		if msg.Sender == SenderAgent {
			wantAgent++
		}
	}

	if sent != wantAgent || len(sender.sent) != wantAgent {
		t.Errorf("relayed %d messages, want %d agent lines", sent, wantAgent)
	}
	for _, to := range sender.to {
		if to != "+972546134567" {
			t.Errorf("sent to %q, want normalized +972546134567", to)
		}
	}
}

func TestRelayStopsAtFirstGatewayError(t *testing.T) {
	sender := &fakeSender{failAt: 1, failErr: errors.New("gateway down")}
	relayer := newTestRelayer(t, sender)

	sent, err := relayer.Relay(context.Background(), LanguageEnglish, "investor-airbnb", "0546134567")
	if err == nil {
		t.Fatal("expected gateway error")
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1 before the failure", sent)
	}
}

func TestRelayUnknownFlow(t *testing.T) {
	relayer := newTestRelayer(t, &fakeSender{})

	_, err := relayer.Relay(context.Background(), LanguageEnglish, "does-not-exist", "0546134567")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("err = %v, want not-found kind", err)
	}
}

func TestRelayRejectsInvalidPhone(t *testing.T) {
	sender := &fakeSender{}
	relayer := newTestRelayer(t, sender)

	_, err := relayer.Relay(context.Background(), LanguageEnglish, "investor-airbnb", "not a phone")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("err = %v, want validation kind", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("gateway called %d times for invalid phone", len(sender.sent))
	}
}

func TestRelayWithoutGatewayIsUnavailable(t *testing.T) {
	relayer := newTestRelayer(t, nil)

	_, err := relayer.Relay(context.Background(), LanguageEnglish, "investor-airbnb", "0546134567")
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Errorf("err = %v, want unavailable kind", err)
	}
}
