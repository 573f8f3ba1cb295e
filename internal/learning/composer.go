package learning

import (
	"errors"
	"fmt"
	"strings"

	"studymate/internal/domain"
)

// ErrEmptySubject is returned when a request carries no subject text.
var ErrEmptySubject = errors.New("subject is required")

// Token ceilings per plan. The composer never returns more than these.
const (
	FreeTokenCeiling = 320
	ProTokenCeiling  = 800
)

// TokenCeiling returns the output budget ceiling for plan.
func TokenCeiling(plan domain.UserPlan) int {
	if plan == domain.UserPlanPro {
		return ProTokenCeiling
	}
	return FreeTokenCeiling
}

// Request is a single content-generation request.
type Request struct {
	Subject     string
	Mode        Mode
	Instruction string
	Plan        domain.UserPlan
	History     []Turn
}

// Prompt is the composed instruction text with its sampling parameters.
type Prompt struct {
	Kind        Kind
	Text        string
	Temperature float64
	MaxTokens   int
}

type template struct {
	body        string
	temperature float64
	maxTokens   int
}

// Compose classifies req and expands the matching template. The result is a
// pure function of req.
func Compose(req Request) (Prompt, error) {
	if !req.Mode.Valid() {
		return Prompt{}, ErrInvalidMode
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return Prompt{}, ErrEmptySubject
	}
	kind := Classify(subject, req.Instruction, req.Mode)
	return ComposeKind(kind, req)
}

// ComposeKind expands the template for an already chosen kind.
func ComposeKind(kind Kind, req Request) (Prompt, error) {
	subject := strings.TrimSpace(req.Subject)
	instruction := strings.TrimSpace(req.Instruction)

	var (
		tpl template
		err error
	)
	switch kind {
	case KindPasted:
		tpl, err = pastedTemplate(req.Mode, instruction)
		// the pasted text is the body, so it is not repeated as an instruction
		instruction = ""
	case KindPoetry:
		tpl = template{body: fmt.Sprintf(poetryTemplate, subject), temperature: 0.22, maxTokens: 500}
	case KindTutor:
		tpl = template{body: fmt.Sprintf(tutorTemplate, subject), temperature: 0.35, maxTokens: 700}
	case KindProse:
		tpl = template{body: fmt.Sprintf(proseTemplate, subject), temperature: 0.22, maxTokens: 550}
	case KindTopic:
		tpl, err = topicTemplate(req.Mode, subject)
	default:
		err = ErrInvalidMode
	}
	if err != nil {
		return Prompt{}, err
	}
	return render(kind, tpl, instruction, req.Plan), nil
}

func render(kind Kind, tpl template, instruction string, plan domain.UserPlan) Prompt {
	var b strings.Builder
	b.WriteString(policyBlock)
	b.WriteString("\n")
	b.WriteString(tpl.body)
	if instruction != "" {
		fmt.Fprintf(&b, instructionSection, instruction)
	}

	return Prompt{
		Kind:        kind,
		Text:        b.String(),
		Temperature: tpl.temperature,
		MaxTokens:   min(tpl.maxTokens, TokenCeiling(plan)),
	}
}

// ComposeTutor wraps a tutor state-machine turn. Tutor turns skip
// classification so lesson text that happens to mention poetry stays in the
// tutor persona. The turn body owns its closing line, so the wrapper adds none.
func ComposeTutor(body string, plan domain.UserPlan) (Prompt, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Prompt{}, ErrEmptySubject
	}
	tpl := template{body: fmt.Sprintf(tutorTurnTemplate, body), temperature: 0.35, maxTokens: 700}
	return render(KindTutor, tpl, "", plan), nil
}

func pastedTemplate(mode Mode, text string) (template, error) {
	preamble := fmt.Sprintf(pastedPreamble, text)
	switch mode {
	case ModeBoard:
		return template{body: preamble + pastedStructuredSchema, temperature: 0.16, maxTokens: 450}, nil
	case ModeCollege:
		return template{body: preamble + pastedStructuredSchema, temperature: 0.18, maxTokens: 450}, nil
	case ModeEnglish:
		return template{body: preamble + pastedProseSchema, temperature: 0.20, maxTokens: 550}, nil
	case ModeShort:
		return template{body: preamble + pastedShortSchema, temperature: 0.12, maxTokens: 350}, nil
	case ModeMCQ:
		return template{body: preamble + pastedMCQSchema, temperature: 0.10, maxTokens: 500}, nil
	case ModeTutor:
		return template{}, fmt.Errorf("%w: no pasted-text template for %s", ErrInvalidMode, mode)
	default:
		return template{}, ErrInvalidMode
	}
}

func topicTemplate(mode Mode, subject string) (template, error) {
	switch mode {
	case ModeBoard:
		return template{body: fmt.Sprintf(topicBoardTemplate, subject), temperature: 0.15, maxTokens: 320}, nil
	case ModeCollege:
		return template{body: fmt.Sprintf(topicCollegeTemplate, subject), temperature: 0.18, maxTokens: 320}, nil
	case ModeShort:
		return template{body: fmt.Sprintf(topicShortTemplate, subject), temperature: 0.12, maxTokens: 250}, nil
	case ModeMCQ:
		return template{body: fmt.Sprintf(topicMCQTemplate, subject), temperature: 0.10, maxTokens: 400}, nil
	case ModeEnglish:
		return template{body: fmt.Sprintf(proseTemplate, subject), temperature: 0.22, maxTokens: 550}, nil
	case ModeTutor:
		return template{body: fmt.Sprintf(tutorTemplate, subject), temperature: 0.35, maxTokens: 700}, nil
	default:
		return template{}, ErrInvalidMode
	}
}
