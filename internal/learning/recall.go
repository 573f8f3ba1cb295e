package learning

import (
	"errors"
	"fmt"
	"strings"

	"studymate/internal/providers/generation"
)

// RecallQuestionCount is the number of questions in a memory test.
const RecallQuestionCount = 5

// ErrNoQuestions is returned when the backend reply yields no questions.
var ErrNoQuestions = errors.New("no recall questions generated")

const recallTemplate = `
Create EXACTLY 5 ACTIVE RECALL questions.

NOTES:
%s

QUESTIONS:
`

// RecallPrompt asks for active-recall questions over a note body.
func RecallPrompt(noteContent string) generation.Call {
	return generation.Call{
		Prompt:      fmt.Sprintf(recallTemplate, strings.TrimSpace(noteContent)),
		MaxTokens:   300,
		Temperature: 0.2,
	}
}

// ParseQuestions keeps the first non-blank lines of reply, up to
// RecallQuestionCount.
func ParseQuestions(reply string) ([]string, error) {
	var out []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == RecallQuestionCount {
			break
		}
	}
	if len(out) == 0 {
		return nil, ErrNoQuestions
	}
	return out, nil
}
