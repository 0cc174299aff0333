// Package conversations serves the scripted demo chat content: static
// language-keyed flow libraries, random or by-id playback, and a relay
// path that pushes a flow through the WhatsApp gateway.
package conversations

import "fmt"

// Language selects one of the two compiled-in flow libraries. The set is
// closed: there is no generic locale support here, only the two demo
// libraries that ship with the binary.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHebrew  Language = "he"
)

// ParseLanguage maps a request-supplied language value onto the closed
// set. The empty string defaults to English so the demo works without a
// query parameter.
func ParseLanguage(raw string) (Language, error) {
	switch raw {
	case "", "en", "english":
		return LanguageEnglish, nil
	case "he", "hebrew":
		return LanguageHebrew, nil
	default:
		return "", fmt.Errorf("unsupported language %q", raw)
	}
}

func (l Language) String() string { return string(l) }
