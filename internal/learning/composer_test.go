package learning

import (
	"errors"
	"strings"
	"testing"

	"studymate/internal/domain"
)

func TestComposeCapsTokensByPlan(t *testing.T) {
	t.Parallel()
	for m := range modeNames {
		for _, plan := range []domain.UserPlan{domain.UserPlanFree, domain.UserPlanPro} {
			p, err := Compose(Request{Subject: "Photosynthesis", Mode: m, Plan: plan})
			if err != nil {
				t.Fatalf("Compose(%s, %s) returned error: %v", m, plan, err)
			}
			if p.MaxTokens > TokenCeiling(plan) {
				t.Fatalf("Compose(%s, %s).MaxTokens = %d, exceeds %d", m, plan, p.MaxTokens, TokenCeiling(plan))
			}
			if p.MaxTokens <= 0 {
				t.Fatalf("Compose(%s, %s).MaxTokens = %d", m, plan, p.MaxTokens)
			}
		}
	}
}

func TestComposeFreePlanClampsTutor(t *testing.T) {
	t.Parallel()
	free, err := Compose(Request{Subject: "Photosynthesis", Mode: ModeTutor, Plan: domain.UserPlanFree})
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if free.MaxTokens != FreeTokenCeiling {
		t.Fatalf("free MaxTokens = %d, want %d", free.MaxTokens, FreeTokenCeiling)
	}
	pro, err := Compose(Request{Subject: "Photosynthesis", Mode: ModeTutor, Plan: domain.UserPlanPro})
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if pro.MaxTokens != 700 {
		t.Fatalf("pro MaxTokens = %d, want 700", pro.MaxTokens)
	}
	if pro.Temperature != 0.35 {
		t.Fatalf("pro Temperature = %v, want 0.35", pro.Temperature)
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	t.Parallel()
	req := Request{Subject: "Newton's laws", Mode: ModeCollege, Instruction: "include numericals", Plan: domain.UserPlanPro}
	a, err := Compose(req)
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	b, _ := Compose(req)
	if a != b {
		t.Fatalf("Compose is not deterministic: %+v vs %+v", a, b)
	}
}

func TestComposeRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	mode, err := ParseMode("essay")
	if err == nil {
		t.Fatalf("ParseMode(essay) returned nil error")
	}
	if _, err := Compose(Request{Subject: "x", Mode: mode}); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("Compose(invalid mode) error = %v, want ErrInvalidMode", err)
	}
	if _, err := Compose(Request{Subject: "  ", Mode: ModeBoard}); !errors.Is(err, ErrEmptySubject) {
		t.Fatalf("Compose(blank subject) error = %v, want ErrEmptySubject", err)
	}
	long := strings.Repeat("chlorophyll absorbs light ", 5)
	if _, err := Compose(Request{Subject: "Biology", Mode: ModeTutor, Instruction: long}); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("Compose(pasted tutor) error = %v, want ErrInvalidMode", err)
	}
}

func TestComposeInstructionPlacement(t *testing.T) {
	t.Parallel()
	p, err := Compose(Request{Subject: "Photosynthesis", Mode: ModeBoard, Instruction: "focus on the dark reaction"})
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if !strings.HasPrefix(p.Text, policyBlock) {
		t.Fatalf("prompt does not start with the policy block")
	}
	if !strings.HasSuffix(p.Text, "USER INSTRUCTION:\nfocus on the dark reaction\n") {
		t.Fatalf("instruction not appended at the end: %q", p.Text[len(p.Text)-80:])
	}

	pasted := strings.Repeat("The mitochondria is the powerhouse of the cell. ", 3)
	pp, err := Compose(Request{Subject: "Biology", Mode: ModeShort, Instruction: pasted})
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if pp.Kind != KindPasted {
		t.Fatalf("Kind = %v, want pasted", pp.Kind)
	}
	if strings.Contains(pp.Text, "USER INSTRUCTION:") {
		t.Fatalf("pasted material repeated as an instruction")
	}
	if strings.Count(pp.Text, strings.TrimSpace(pasted)) != 1 {
		t.Fatalf("pasted material should appear exactly once")
	}
}

func TestComposeTutorSkipsPoetryDetection(t *testing.T) {
	t.Parallel()
	p, err := ComposeTutor("Explain this code snippet", domain.UserPlanPro)
	if err != nil {
		t.Fatalf("ComposeTutor returned error: %v", err)
	}
	if p.Kind != KindTutor {
		t.Fatalf("Kind = %v, want tutor", p.Kind)
	}
	if strings.Contains(p.Text, TutorClose) {
		t.Fatalf("tutor turn wrapper must not add its own closing line")
	}
	// "code" contains "ode", which Compose would route to poetry
	c, _ := Compose(Request{Subject: "Explain this code snippet", Mode: ModeTutor})
	if c.Kind != KindPoetry {
		t.Fatalf("Compose Kind = %v, want poetry", c.Kind)
	}
}

func TestComposeTutorKeepsTurnClosingLine(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name  string
		state TutorState
		input string
		close string
	}{
		{name: "new topic", input: "What is photosynthesis?", close: TeachClose},
		{name: "doubt", state: TutorState{Topic: "Photosynthesis", LastExplanation: "Plants make food.", Paused: true}, input: "Why is it green?", close: DoubtClose},
	} {
		t.Run(tc.name, func(t *testing.T) {
			step, err := PlanTurn(tc.state, TutorInput{Text: tc.input, Type: InputQuestion}, nil)
			if err != nil {
				t.Fatalf("PlanTurn returned error: %v", err)
			}
			p, err := ComposeTutor(step.Body, domain.UserPlanFree)
			if err != nil {
				t.Fatalf("ComposeTutor returned error: %v", err)
			}
			if strings.Count(p.Text, "Shall I") != 1 || !strings.Contains(p.Text, tc.close) {
				t.Fatalf("want exactly one closing line %q in:\n%s", tc.close, p.Text)
			}
		})
	}
	if _, err := ComposeTutor("  ", domain.UserPlanFree); !errors.Is(err, ErrEmptySubject) {
		t.Fatalf("blank body error = %v", err)
	}
}
