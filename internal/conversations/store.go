package conversations

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed flows/en.yaml flows/he.yaml
var flowFS embed.FS

// Store holds the compiled-in flow libraries, one per language. It is
// immutable after construction and safe for concurrent reads.
type Store struct {
	libraries map[Language]library
}

// NewStore parses the embedded libraries. Duplicate flow ids within a
// language are a build-content bug and fail construction.
func NewStore() (*Store, error) {
	files := map[Language]string{
		LanguageEnglish: "flows/en.yaml",
		LanguageHebrew:  "flows/he.yaml",
	}

	libraries := make(map[Language]library, len(files))
	for lang, path := range files {
		data, err := flowFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read flow library %s: %w", path, err)
		}

		var lib library
		if err := yaml.Unmarshal(data, &lib); err != nil {
			return nil, fmt.Errorf("parse flow library %s: %w", path, err)
		}
		if len(lib.Flows) == 0 {
			return nil, fmt.Errorf("flow library %s has no flows", path)
		}

		seen := make(map[string]struct{}, len(lib.Flows))
		for _, flow := range lib.Flows {
			if flow.ID == "" {
				return nil, fmt.Errorf("flow library %s: flow with empty id", path)
			}
			if _, dup := seen[flow.ID]; dup {
				return nil, fmt.Errorf("flow library %s: duplicate flow id %q", path, flow.ID)
			}
			seen[flow.ID] = struct{}{}

			if len(flow.Messages) == 0 {
				return nil, fmt.Errorf("flow library %s: flow %q has no messages", path, flow.ID)
			}
			for i, msg := range flow.Messages {
				if msg.Sender != SenderLead && msg.Sender != SenderAgent {
					return nil, fmt.Errorf("flow library %s: flow %q message %d has sender %q", path, flow.ID, i, msg.Sender)
				}
			}
		}

		libraries[lang] = lib
	}

	return &Store{libraries: libraries}, nil
}

// AllFlows lists a language's flows as id/scenario summaries, in library
// order.
func (s *Store) AllFlows(lang Language) []FlowSummary {
	lib := s.libraries[lang]
	summaries := make([]FlowSummary, 0, len(lib.Flows))
	for _, flow := range lib.Flows {
		summaries = append(summaries, FlowSummary{ID: flow.ID, Scenario: flow.Scenario})
	}
	return summaries
}

// Hooks returns a language's opening hook lines.
func (s *Store) Hooks(lang Language) []string {
	return s.libraries[lang].Hooks
}

// flows returns the full flow list for a language.
func (s *Store) flows(lang Language) []Flow {
	return s.libraries[lang].Flows
}

// flowByID looks a flow up within one language's library.
func (s *Store) flowByID(lang Language, id string) (Flow, bool) {
	for _, flow := range s.libraries[lang].Flows {
		if flow.ID == id {
			return flow, true
		}
	}
	return Flow{}, false
}
