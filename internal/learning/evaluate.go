package learning

import (
	"fmt"
	"strings"

	"studymate/internal/domain"
	"studymate/internal/providers/generation"
)

// Input bounds for answer evaluation, in runes.
const (
	EvaluationQuestionLimit = 1000
	EvaluationAnswerLimit   = 3000
)

const evaluationTemplate = `
You are a strict and experienced exam paper evaluator.

FOLLOW THESE RULES STRICTLY:
- Evaluate like a real teacher
- Be unbiased and fair
- Focus on exam marks
- No unnecessary extra text
- Clear structured response
- Simple professional language

REQUIRED RESPONSE FORMAT ONLY:

SCORE:
(Give marks out of 10)

STRENGTHS:
- Point 1
- Point 2

WEAKNESSES:
- Point 1
- Point 2

IMPROVEMENT:
- Practical steps to improve

MODEL ANSWER:
(Write a short, ideal exam-ready answer)

----------------------------------------

QUESTION:
%s

STUDENT ANSWER:
%s
`

// EvaluationPrompt builds the exam-evaluator call. Both inputs are required
// and are rejected when over their limits.
func EvaluationPrompt(question, answer string) (generation.Call, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return generation.Call{}, fmt.Errorf("%w: question and answer cannot be empty", ErrEmptyQuestion)
	}
	if len([]rune(question)) > EvaluationQuestionLimit {
		return generation.Call{}, fmt.Errorf("%w: question exceeds %d characters", domain.ErrInvalidInput, EvaluationQuestionLimit)
	}
	if len([]rune(answer)) > EvaluationAnswerLimit {
		return generation.Call{}, fmt.Errorf("%w: answer exceeds %d characters", domain.ErrInvalidInput, EvaluationAnswerLimit)
	}
	return generation.Call{
		Prompt:      fmt.Sprintf(evaluationTemplate, question, answer),
		MaxTokens:   450,
		Temperature: 0.15,
	}, nil
}
