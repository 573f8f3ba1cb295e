package generation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Message is one prior conversation entry sent as context.
type Message struct {
	Role    string
	Content string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Call is a single generation request.
type Call struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
	History     []Message
}

// Generator sends a prompt to a text-generation backend.
type Generator interface {
	Generate(ctx context.Context, call Call) (string, error)
	Name() string
}

// ErrEmptyPrompt is returned before any network call when the prompt is blank.
var ErrEmptyPrompt = errors.New("generation: empty prompt")

// Kind classifies a backend failure.
type Kind string

const (
	KindMisconfigured     Kind = "misconfigured"
	KindRateLimited       Kind = "rate_limited"
	KindUnauthorized      Kind = "unauthorized"
	KindTimeout           Kind = "timeout"
	KindUnreachable       Kind = "unreachable"
	KindBadStatus         Kind = "bad_status"
	KindEmptyResponse     Kind = "empty_response"
	KindMalformedResponse Kind = "malformed_response"
)

// Error is the typed failure every Generator returns.
type Error struct {
	Kind     Kind
	Provider string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Provider, e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the failure kind carried by err, or "" when err is not a
// generation failure.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

// SystemPrompt is the persona sent ahead of every conversation.
const SystemPrompt = `You are a friendly, patient, human-like AI Tutor.

Behavior Rules:
- Talk like a real teacher
- Remember previous conversation
- Understand follow-up questions
- Be conversational and natural
- Ask small questions back
- Encourage the student
- Explain in simple language
- Never act robotic`

func misconfigured(provider, detail string) *Error {
	return &Error{Kind: KindMisconfigured, Provider: provider, Err: errors.New(detail)}
}

// transportError classifies errors raised before a response was received.
func transportError(provider string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Provider: provider, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Provider: provider, Err: err}
	}
	return &Error{Kind: KindUnreachable, Provider: provider, Err: err}
}

// statusError classifies a non-2xx HTTP status.
func statusError(provider string, status int, err error) *Error {
	kind := KindBadStatus
	switch status {
	case http.StatusTooManyRequests:
		kind = KindRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = KindUnauthorized
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		kind = KindTimeout
	}
	if err == nil {
		err = fmt.Errorf("status %d", status)
	}
	return &Error{Kind: kind, Provider: provider, Status: status, Err: err}
}
