package conversations

import (
	"errors"
	"strings"
	"testing"
)

func newTestPlayer(t *testing.T) *Player {
	t.Helper()

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return NewPlayer(store)
}

func TestPickRandomCoversAllFlows(t *testing.T) {
	player := newTestPlayer(t)

	for _, lang := range []Language{LanguageEnglish, LanguageHebrew} {
		flowCount := len(player.store.flows(lang))
		seen := make(map[string]struct{})
		for i := 0; i < 1000; i++ {
			flow, messages := player.PickRandom(lang)
			seen[flow.ID] = struct{}{}
			if len(messages) == 0 {
				t.Fatalf("%s: PickRandom returned empty messages for %s", lang, flow.ID)
			}
		}

		// With uniform selection over a handful of flows, 1000 draws
		// missing any flow would be astronomically unlikely.
		if len(seen) != flowCount {
			t.Errorf("%s: saw %d distinct flows in 1000 draws, library has %d", lang, len(seen), flowCount)
		}
	}
}

func TestPickRandomIsUniformOverIndexes(t *testing.T) {
	player := newTestPlayer(t)

	var calls []int
	player.intN = func(n int) int {
		calls = append(calls, n)
		return 0
	}

	flows := player.store.flows(LanguageEnglish)
	flow, _ := player.PickRandom(LanguageEnglish)

	if len(calls) != 1 || calls[0] != len(flows) {
		t.Errorf("selection drew from %v, want one draw over %d flows", calls, len(flows))
	}
	if flow.ID != flows[0].ID {
		t.Errorf("index 0 selected %q, want %q", flow.ID, flows[0].ID)
	}
}

func TestPickByIDUnknownIDReturnsSentinel(t *testing.T) {
	player := newTestPlayer(t)

	_, messages, err := player.PickByID(LanguageHebrew, "nonexistent-id")
	if !errors.Is(err, ErrFlowNotFound) {
		t.Fatalf("err = %v, want ErrFlowNotFound", err)
	}
	if messages != nil {
		t.Errorf("messages = %v, want nil on lookup miss", messages)
	}
}

func TestPickByIDInvestorAirbnb(t *testing.T) {
	player := newTestPlayer(t)

	flow, messages, err := player.PickByID(LanguageEnglish, "investor-airbnb")
	if err != nil {
		t.Fatalf("PickByID: %v", err)
	}

	if len(messages) != len(flow.Messages) {
		t.Fatalf("rendered %d messages, stored flow has %d", len(messages), len(flow.Messages))
	}

	first := messages[0]
	if first.Sender != DisplayAgent {
		t.Errorf("first sender = %q, want agent", first.Sender)
	}
	if !strings.Contains(strings.ToLower(first.Text), "short-term rental") {
		t.Errorf("first message should pitch short-term rentals, got %q", first.Text)
	}

	last := messages[len(messages)-1]
	if !strings.Contains(last.Text, "calendly.com") {
		t.Errorf("last message should carry a calendar-booking link, got %q", last.Text)
	}
}

func TestPickByIDPreservesOrderAndMapsSenders(t *testing.T) {
	player := newTestPlayer(t)

	for _, lang := range []Language{LanguageEnglish, LanguageHebrew} {
		for _, stored := range player.store.flows(lang) {
			_, messages, err := player.PickByID(lang, stored.ID)
			if err != nil {
				t.Fatalf("%s/%s: %v", lang, stored.ID, err)
			}
			if len(messages) != len(stored.Messages) {
				t.Fatalf("%s/%s: %d rendered vs %d stored", lang, stored.ID, len(messages), len(stored.Messages))
			}

			for i, msg := range messages {
				if msg.Text != stored.Messages[i].Text {
					t.Errorf("%s/%s message %d: text reordered or altered", lang, stored.ID, i)
				}

				want := DisplayAgent
				if stored.Messages[i].Sender == SenderLead {
					want = DisplayUser
				}
				if msg.Sender != want {
					t.Errorf("%s/%s message %d: sender %q mapped to %q, want %q",
						lang, stored.ID, i, stored.Messages[i].Sender, msg.Sender, want)
				}
			}
		}
	}
}

func TestDescribeOpener(t *testing.T) {
	player := newTestPlayer(t)

	tests := []struct {
		lang        Language
		id          string
		wantProject string
		wantLead    string
	}{
		{LanguageEnglish, "investor-airbnb", "Sunset Towers", "Daniel"},
		{LanguageEnglish, "family-first-home", "Rothschild Garden", "Maya"},
		{LanguageHebrew, "penthouse-upgrade-he", "Park Heights", "Avi"},
	}

	for _, tc := range tests {
		info, err := player.DescribeOpener(tc.lang, tc.id)
		if err != nil {
			t.Fatalf("%s/%s: %v", tc.lang, tc.id, err)
		}
		if info.InferredProject != tc.wantProject {
			t.Errorf("%s/%s InferredProject = %q, want %q", tc.lang, tc.id, info.InferredProject, tc.wantProject)
		}
		if info.InferredLead != tc.wantLead {
			t.Errorf("%s/%s InferredLead = %q, want %q", tc.lang, tc.id, info.InferredLead, tc.wantLead)
		}
		if info.Opener == "" {
			t.Errorf("%s/%s: empty opener", tc.lang, tc.id)
		}
	}
}

func TestDescribeOpenerFallsBackToGenerics(t *testing.T) {
	store := &Store{libraries: map[Language]library{
		LanguageEnglish: {Flows: []Flow{{
			ID:       "unknown-names",
			Messages: []Message{{Sender: SenderAgent, Text: "Hello there, quick update on the listing."}},
		}}},
	}}
	player := NewPlayer(store)

	info, err := player.DescribeOpener(LanguageEnglish, "unknown-names")
	if err != nil {
		t.Fatalf("DescribeOpener: %v", err)
	}
	if info.InferredProject != genericProject || info.InferredLead != genericLead {
		t.Errorf("got (%q, %q), want generic fallbacks", info.InferredProject, info.InferredLead)
	}
	if info.StartsWithQuestion {
		t.Error("StartsWithQuestion = true for a statement opener")
	}
}

func TestDescribeOpenerUnknownFlow(t *testing.T) {
	player := newTestPlayer(t)

	if _, err := player.DescribeOpener(LanguageEnglish, "does-not-exist"); !errors.Is(err, ErrFlowNotFound) {
		t.Errorf("err = %v, want ErrFlowNotFound", err)
	}
}
