package conversations

// Sender values as stored in the flow libraries.
const (
	SenderLead  = "lead"
	SenderAgent = "agent"
)

// Display sender values as the chat UI expects them.
const (
	DisplayUser  = "user"
	DisplayAgent = "agent"
)

// Message is one scripted line in a flow. Order within a flow is
// meaningful and preserved verbatim on playback.
type Message struct {
	Sender string `yaml:"sender" json:"sender"`
	Text   string `yaml:"text" json:"text"`
}

// Flow is a complete scripted exchange. Flows are build-time data and
// never mutated at runtime.
type Flow struct {
	ID       string    `yaml:"id" json:"id"`
	Scenario string    `yaml:"scenario" json:"scenario"`
	Messages []Message `yaml:"messages" json:"messages"`
}

// FlowSummary is the listing shape: id and scenario only.
type FlowSummary struct {
	ID       string `json:"id"`
	Scenario string `json:"scenario"`
}

// DisplayMessage is a playback message with the sender already mapped to
// the UI vocabulary ("user" or "agent").
type DisplayMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// library is one language's YAML document.
type library struct {
	Hooks []string `yaml:"hooks"`
	Flows []Flow   `yaml:"flows"`
}
