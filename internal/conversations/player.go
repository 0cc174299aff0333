package conversations

import (
	"errors"
	"math/rand/v2"
	"strings"
)

// ErrFlowNotFound is the lookup-miss sentinel for by-id playback.
var ErrFlowNotFound = errors.New("conversation flow not found")

// Player produces displayable message sequences from the store. It holds
// no playback position: every call is independent, and the same flow may
// be selected twice in a row.
type Player struct {
	store *Store
	// intN is swapped in tests for deterministic selection.
	intN func(n int) int
}

// NewPlayer creates a player with unseeded uniform selection.
func NewPlayer(store *Store) *Player {
	return &Player{store: store, intN: rand.IntN}
}

// PickRandom selects a uniformly random flow from the language's library
// and renders it for display.
func (p *Player) PickRandom(lang Language) (Flow, []DisplayMessage) {
	flows := p.store.flows(lang)
	flow := flows[p.intN(len(flows))]
	return flow, renderMessages(flow)
}

// PickByID renders a specific flow. Unknown ids return ErrFlowNotFound,
// never a sequence.
func (p *Player) PickByID(lang Language, id string) (Flow, []DisplayMessage, error) {
	flow, ok := p.store.flowByID(lang, id)
	if !ok {
		return Flow{}, nil, ErrFlowNotFound
	}
	return flow, renderMessages(flow), nil
}

// renderMessages maps stored senders onto the display vocabulary while
// preserving order exactly.
func renderMessages(flow Flow) []DisplayMessage {
	rendered := make([]DisplayMessage, 0, len(flow.Messages))
	for _, msg := range flow.Messages {
		sender := DisplayAgent
		if msg.Sender == SenderLead {
			sender = DisplayUser
		}
		rendered = append(rendered, DisplayMessage{Sender: sender, Text: msg.Text})
	}
	return rendered
}

// OpenerInfo is the display metadata derived from a flow's first message.
type OpenerInfo struct {
	Opener             string `json:"opener"`
	InferredProject    string `json:"inferredProject"`
	InferredLead       string `json:"inferredLead"`
	StartsWithQuestion bool   `json:"startsWithQuestion"`
}

// openerSignal is one known substring and what its presence implies.
type openerSignal struct {
	token   string
	project string
	lead    string
}

// openerSignals is the best-effort lookup table behind DescribeOpener.
// It only knows the names that appear in the shipped libraries; anything
// else falls through to the generic descriptions.
var openerSignals = []openerSignal{
	{token: "Sunset Towers", project: "Sunset Towers"},
	{token: "Rothschild Garden", project: "Rothschild Garden"},
	{token: "Park Heights", project: "Park Heights"},
	{token: "Harbor View", project: "Harbor View"},
	{token: "מגדלי שקיעה", project: "Sunset Towers"},
	{token: "גן רוטשילד", project: "Rothschild Garden"},
	{token: "פארק הייטס", project: "Park Heights"},
	{token: "Daniel", lead: "Daniel"},
	{token: "דניאל", lead: "Daniel"},
	{token: "Maya", lead: "Maya"},
	{token: "מאיה", lead: "Maya"},
	{token: "Avi", lead: "Avi"},
	{token: "אבי", lead: "Avi"},
	{token: "Noa", lead: "Noa"},
}

const (
	genericProject = "one of our projects"
	genericLead    = "a prospective buyer"
)

// DescribeOpener derives opener metadata for a flow by scanning its first
// message for known project and lead names. This is a heuristic lookup,
// not parsing: unknown content yields the generic fallbacks.
func (p *Player) DescribeOpener(lang Language, id string) (OpenerInfo, error) {
	flow, ok := p.store.flowByID(lang, id)
	if !ok {
		return OpenerInfo{}, ErrFlowNotFound
	}

	opener := flow.Messages[0].Text
	info := OpenerInfo{
		Opener:             opener,
		InferredProject:    genericProject,
		InferredLead:       genericLead,
		StartsWithQuestion: strings.HasSuffix(strings.TrimSpace(opener), "?"),
	}

	for _, signal := range openerSignals {
		if !strings.Contains(opener, signal.token) {
			continue
		}
		if signal.project != "" && info.InferredProject == genericProject {
			info.InferredProject = signal.project
		}
		if signal.lead != "" && info.InferredLead == genericLead {
			info.InferredLead = signal.lead
		}
	}

	return info, nil
}
