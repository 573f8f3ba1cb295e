package learning

import (
	"strings"
	"unicode/utf8"
)

// Kind is the template family chosen for a request.
type Kind uint8

const (
	KindTopic Kind = iota + 1
	KindProse
	KindPoetry
	KindPasted
	KindTutor
)

func (k Kind) String() string {
	switch k {
	case KindTopic:
		return "topic"
	case KindProse:
		return "prose"
	case KindPoetry:
		return "poetry"
	case KindPasted:
		return "pasted"
	case KindTutor:
		return "tutor"
	default:
		return "unknown"
	}
}

// PastedThreshold is the rune count above which the instruction field is
// treated as pasted study material.
const PastedThreshold = 80

var poemKeywords = []string{
	"poem", "poetry", "sonnet", "ode", "ballad",
	"by william blake", "by wordsworth", "by keats",
	"by shelley", "by robert frost", "by yeats",
}

var knownPoems = []string{
	"london",
	"the daffodils",
	"the road not taken",
	"ode to a nightingale",
	"sonnet 18",
}

// IsPoemTopic reports whether text mentions a poem keyword or a known poem
// title. Matching is a case-insensitive substring test.
func IsPoemTopic(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, k := range poemKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	for _, p := range knownPoems {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsPasted reports whether the instruction field carries pasted material.
func IsPasted(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) > PastedThreshold
}

// Classify picks the template family. Pasted material wins, then poetry
// detection on the subject, then an explicit tutor request; everything else
// is a topic request, with english routed to the prose template.
func Classify(subject, pasted string, mode Mode) Kind {
	switch {
	case IsPasted(pasted):
		return KindPasted
	case IsPoemTopic(subject):
		return KindPoetry
	case mode == ModeTutor:
		return KindTutor
	case mode == ModeEnglish:
		return KindProse
	default:
		return KindTopic
	}
}
