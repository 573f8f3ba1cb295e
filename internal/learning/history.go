package learning

import (
	"fmt"
	"strings"
)

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleStudent   Role = "student"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the conversational window.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// HistoryLimit bounds the tutor conversation window.
const HistoryLimit = 12

// AppendTurns appends turns and drops the oldest entries beyond limit. The
// input slice is never modified.
func AppendTurns(history []Turn, limit int, turns ...Turn) []Turn {
	out := make([]Turn, 0, len(history)+len(turns))
	out = append(out, history...)
	out = append(out, turns...)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Exchange is a stored question and answer pair.
type Exchange struct {
	Question string
	Answer   string
}

// RenderExchanges formats exchanges oldest first as a plain-text transcript.
func RenderExchanges(exchanges []Exchange) string {
	var b strings.Builder
	for _, ex := range exchanges {
		fmt.Fprintf(&b, "Student: %s\n", ex.Question)
		fmt.Fprintf(&b, "Assistant: %s\n\n", ex.Answer)
	}
	return b.String()
}
