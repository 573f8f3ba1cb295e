package learning

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNothingToResume is returned for "continue" when no lesson is active.
var ErrNothingToResume = errors.New("no lesson to continue")

// ErrEmptyQuestion is returned when the student sends blank input.
var ErrEmptyQuestion = errors.New("question is required")

// Phase is the derived position of a TutorState in the tutor state machine.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseTeaching
	PhasePaused
)

func (p Phase) String() string {
	switch p {
	case PhaseTeaching:
		return "teaching"
	case PhasePaused:
		return "paused"
	default:
		return "idle"
	}
}

// TutorState is the externally persisted tutor session.
type TutorState struct {
	Topic           string `json:"topic"`
	LastExplanation string `json:"last_explanation"`
	Paused          bool   `json:"paused"`
	History         []Turn `json:"history"`
	Nickname        string `json:"nickname,omitempty"`
}

// Phase derives the state machine position. A pause flag without a topic
// cannot occur through the transitions below and is reported as idle.
func (s TutorState) Phase() Phase {
	switch {
	case s.Topic == "":
		return PhaseIdle
	case s.Paused:
		return PhasePaused
	default:
		return PhaseTeaching
	}
}

// Pause marks the current lesson as interrupted by a doubt. Idle stays idle.
func (s TutorState) Pause() TutorState {
	if s.Phase() == PhaseIdle {
		return s
	}
	s.Paused = true
	return s
}

// Clear returns to idle and drops the conversation window.
func (s TutorState) Clear() TutorState {
	return TutorState{Nickname: s.Nickname}
}

// ResetTopic returns to idle but keeps the conversation window.
func (s TutorState) ResetTopic() TutorState {
	s.Topic = ""
	s.LastExplanation = ""
	s.Paused = false
	return s
}

// InputType distinguishes a typed question from a pasted lesson.
type InputType string

const (
	InputQuestion InputType = "question"
	InputLesson   InputType = "lesson"
)

// TutorInput is one student message.
type TutorInput struct {
	Text     string
	Type     InputType
	Language string
}

// Action names the transition a step performs.
type Action string

const (
	ActionTeach  Action = "teach"
	ActionLesson Action = "lesson"
	ActionDoubt  Action = "doubt"
	ActionResume Action = "resume"
)

// Step is a planned tutor transition: the instruction body to send and how
// the state changes once the answer arrives.
type Step struct {
	Action Action
	Body   string
	Topic  string
	// RecordProgress is set for new-topic and lesson interactions only.
	RecordProgress bool
	question       string
}

// TopicLimit caps the stored topic length in runes.
const TopicLimit = 120

// DoubtClose is the scripted line every doubt answer ends with.
const DoubtClose = "Did that clear your doubt? Shall I continue from where we left off?"

// TeachClose is the scripted line every new-topic answer ends with.
const TeachClose = "Did you understand? Shall I explain differently?"

// LanguageDirective returns the reply-language instruction for a language code.
func LanguageDirective(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "hi":
		return "Reply ONLY in Hindi language."
	case "kn":
		return "Reply ONLY in Kannada language."
	default:
		return "Reply ONLY in simple English."
	}
}

// MemoryLimit is the number of recent progress topics fed back as memory.
const MemoryLimit = 5

// RenderMemory formats recent progress topics, oldest first.
func RenderMemory(topics []string) string {
	if len(topics) > MemoryLimit {
		topics = topics[len(topics)-MemoryLimit:]
	}
	var b strings.Builder
	for _, t := range topics {
		fmt.Fprintf(&b, "Previously studied: %s\n", t)
	}
	return b.String()
}

// IsContinue reports whether text is the resume command.
func IsContinue(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), "continue")
}

// PlanTurn decides the transition for in and builds its instruction body.
// memory holds recent progress topics.
func PlanTurn(s TutorState, in TutorInput, memory []string) (Step, error) {
	question := strings.TrimSpace(in.Text)
	if question == "" {
		return Step{}, ErrEmptyQuestion
	}
	lang := LanguageDirective(in.Language)

	if IsContinue(question) {
		if s.Phase() == PhaseIdle {
			return Step{}, ErrNothingToResume
		}
		return Step{
			Action:   ActionResume,
			Topic:    s.Topic,
			Body:     fmt.Sprintf(resumeTemplate, lang, s.Topic, s.LastExplanation),
			question: question,
		}, nil
	}

	mem := RenderMemory(memory)

	if s.Phase() == PhasePaused {
		return Step{
			Action:   ActionDoubt,
			Topic:    s.Topic,
			Body:     fmt.Sprintf(doubtTemplate, lang, mem, s.Topic, question, DoubtClose),
			question: question,
		}, nil
	}

	topic := truncateRunes(question, TopicLimit)
	if in.Type == InputLesson {
		return Step{
			Action:         ActionLesson,
			Topic:          topic,
			Body:           fmt.Sprintf(lessonTemplate, lang, mem, question),
			RecordProgress: true,
			question:       question,
		}, nil
	}
	return Step{
		Action:         ActionTeach,
		Topic:          topic,
		Body:           fmt.Sprintf(teachTemplate, lang, mem, question, TeachClose),
		RecordProgress: true,
		question:       question,
	}, nil
}

// Advance applies the step's transition once answer has been generated.
func (s TutorState) Advance(step Step, answer string) TutorState {
	next := s
	next.History = AppendTurns(s.History, HistoryLimit,
		Turn{Role: RoleStudent, Text: step.question},
		Turn{Role: RoleAssistant, Text: answer},
	)
	switch step.Action {
	case ActionTeach, ActionLesson:
		next.Topic = step.Topic
		next.Paused = false
		next.LastExplanation = answer
	case ActionResume:
		next.Paused = false
		next.LastExplanation = answer
	case ActionDoubt:
		// the lesson stays interrupted until the student says continue
	}
	return next
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

const resumeTemplate = `%s

VERY IMPORTANT INSTRUCTIONS:

You are currently teaching ONLY this topic:

TOPIC: %s

This was your LAST explanation:
%s

Now CONTINUE teaching EXACTLY the same topic.

STRICT RULES:
- Continue only from the next logical point
- Never change topic
- Never start a new subject
- Do NOT repeat what you already explained
- Continue in the same teaching style

End with one small checking question.
`

const doubtTemplate = `%s

STUDENT MEMORY:
%s
You were explaining this topic:
%s

Student doubt:
%s

Explain ONLY this doubt clearly and simply.

Rules:
- Focus only on solving the doubt
- Do NOT continue the main lesson
- Do NOT repeat the full topic

At the END of your answer ALWAYS ask exactly this:

"%s"
`

const lessonTemplate = `%s

STUDENT MEMORY:
%s
The student pasted a full lesson.

Explain it like a friendly teacher:

- Step by step
- Simple language
- Clear points
- Easy examples
- Ask one small question at the end

LESSON:
%s
`

const teachTemplate = `%s

STUDENT MEMORY:
%s
QUESTION:
%s

Explain like a kind teacher with examples and simple steps.

At the end ask:

"%s"
`

const imageTemplate = `The student uploaded an image containing this text:

%s

Explain it like a friendly teacher:
- In simple steps
- With examples
- In easy language
- Ask one small question at the end
`

// ImageBody builds the tutor instruction for text extracted from an image.
func ImageBody(extracted string) string {
	return fmt.Sprintf(imageTemplate, strings.TrimSpace(extracted))
}
