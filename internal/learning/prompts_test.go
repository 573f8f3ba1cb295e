package learning

import (
	"errors"
	"strings"
	"testing"

	"studymate/internal/domain"
)

func TestParseQuestions(t *testing.T) {
	t.Parallel()
	qs, err := ParseQuestions("\n1. What is a cell?\n\n2. Define tissue.\n3. a\n4. b\n5. c\n6. d\n")
	if err != nil {
		t.Fatalf("ParseQuestions returned error: %v", err)
	}
	if len(qs) != RecallQuestionCount {
		t.Fatalf("len = %d, want %d", len(qs), RecallQuestionCount)
	}
	if qs[0] != "1. What is a cell?" {
		t.Fatalf("qs[0] = %q", qs[0])
	}
	if _, err := ParseQuestions(" \n\n "); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("ParseQuestions(blank) error = %v", err)
	}
}

func TestEvaluationPromptBounds(t *testing.T) {
	t.Parallel()
	call, err := EvaluationPrompt("Define osmosis", "Water moves across a membrane")
	if err != nil {
		t.Fatalf("EvaluationPrompt returned error: %v", err)
	}
	if call.MaxTokens != 450 || call.Temperature != 0.15 {
		t.Fatalf("call params = %d/%v", call.MaxTokens, call.Temperature)
	}
	if _, err := EvaluationPrompt("", "x"); !errors.Is(err, ErrEmptyQuestion) {
		t.Fatalf("empty question error = %v", err)
	}
	if _, err := EvaluationPrompt("q", strings.Repeat("a", EvaluationAnswerLimit+1)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("long answer error = %v", err)
	}
}

func TestChatTitle(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"What is\nosmosis?":     "What is osmosis?",
		"   ":                   domain.DefaultChatTitle,
		strings.Repeat("a", 41): strings.Repeat("a", 40) + "...",
		strings.Repeat("b", 40): strings.Repeat("b", 40),
	}
	for in, want := range cases {
		if got := ChatTitle(in); got != want {
			t.Fatalf("ChatTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestChatPromptIncludesContext(t *testing.T) {
	t.Parallel()
	call := ChatPrompt("And in animals?", []Exchange{{Question: "What is respiration?", Answer: "Releasing energy."}})
	if !strings.Contains(call.Prompt, "Student: What is respiration?\nAssistant: Releasing energy.") {
		t.Fatalf("prompt missing context: %q", call.Prompt)
	}
	if !strings.Contains(call.Prompt, "QUESTION:\nAnd in animals?") {
		t.Fatalf("prompt missing question")
	}
}
