package learning

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"studymate/internal/providers/generation"
)

// replyByQuestion answers a grading call based on the question it carries.
type replyByQuestion struct {
	mu      sync.Mutex
	replies map[string]string
	fail    map[string]error
	calls   []generation.Call
}

func (r *replyByQuestion) Name() string { return "stub" }

func (r *replyByQuestion) Generate(_ context.Context, call generation.Call) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
	for q, err := range r.fail {
		if strings.Contains(call.Prompt, q) {
			return "", err
		}
	}
	for q, reply := range r.replies {
		if strings.Contains(call.Prompt, q) {
			return reply, nil
		}
	}
	return "", errors.New("unexpected prompt")
}

func TestParseScore(t *testing.T) {
	t.Parallel()
	cases := []struct {
		reply string
		want  float64
		ok    bool
	}{
		{"1", 1, true},
		{"0.5", 0.5, true},
		{" 0 \n", 0, true},
		{"1.", 1, true},
		{".5", 0.5, true},
		{"0.75", 0, false},
		{"2", 0, false},
		{"Score: 1", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseScore(tc.reply)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseScore(%q) = %v, %v; want %v, %v", tc.reply, got, ok, tc.want, tc.ok)
		}
	}
}

func TestAggregate(t *testing.T) {
	t.Parallel()
	res := Aggregate([]Score{{Value: 1, Parsed: true}, {Value: 0.5, Parsed: true}})
	if res.Percentage != 75.0 || res.Score != 1.5 || res.Total != 2 {
		t.Fatalf("Aggregate = %+v, want 75%%", res)
	}
	if empty := Aggregate(nil); empty.Percentage != 0 || empty.Total != 0 {
		t.Fatalf("Aggregate(nil) = %+v", empty)
	}
	third := Aggregate([]Score{{Value: 1}, {}, {}})
	if third.Percentage != 33.33 {
		t.Fatalf("Percentage = %v, want 33.33", third.Percentage)
	}
}

func TestScoreAll(t *testing.T) {
	t.Parallel()
	gen := &replyByQuestion{replies: map[string]string{
		"What is osmosis?":   "1",
		"Define diffusion.":  "0.5",
		"Name a plant cell.": "probably 1",
	}}
	scorer := NewScorer(gen, 2)
	res, err := scorer.ScoreAll(context.Background(),
		[]string{"What is osmosis?", "Define diffusion.", "Name a plant cell.", "What is ATP?"},
		[]string{"movement of water", "spread of particles", "guard cell", ""},
	)
	if err != nil {
		t.Fatalf("ScoreAll returned error: %v", err)
	}
	if res.Total != 4 {
		t.Fatalf("Total = %d, want 4", res.Total)
	}
	if res.Score != 1.5 {
		t.Fatalf("Score = %v, want 1.5", res.Score)
	}
	if res.Percentage != 37.5 {
		t.Fatalf("Percentage = %v, want 37.5", res.Percentage)
	}
	if res.Scores[2].Parsed {
		t.Fatalf("unparseable reply marked as parsed")
	}
	if res.Scores[1].Question != "Define diffusion." {
		t.Fatalf("scores out of order: %+v", res.Scores)
	}
	if len(gen.calls) != 3 {
		t.Fatalf("calls = %d, want 3 (blank answer skipped)", len(gen.calls))
	}
	for _, c := range gen.calls {
		if c.MaxTokens != 5 || c.Temperature != 0 {
			t.Fatalf("grading call params = %d/%v", c.MaxTokens, c.Temperature)
		}
	}
}

func TestScoreAllScoresFailedCallAsZero(t *testing.T) {
	t.Parallel()
	gen := &replyByQuestion{
		replies: map[string]string{"Q1": "1", "Q3": "1", "Q4": "1"},
		fail:    map[string]error{"Q2": &generation.Error{Kind: generation.KindRateLimited, Provider: "stub", Status: 429}},
	}
	res, err := NewScorer(gen, 0).ScoreAll(context.Background(),
		[]string{"Q1", "Q2", "Q3", "Q4"}, []string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatalf("ScoreAll returned error: %v", err)
	}
	if res.Total != 4 || res.Score != 3 || res.Percentage != 75 {
		t.Fatalf("result = %+v, want 3/4 (75%%)", res)
	}
	if !res.Scores[1].Failed || res.Scores[1].Parsed || res.Scores[1].Value != 0 {
		t.Fatalf("failed question = %+v", res.Scores[1])
	}
	if res.Scores[0].Failed {
		t.Fatalf("successful question marked failed")
	}
}

func TestScoreAllAbortsWhenCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := &replyByQuestion{fail: map[string]error{"Q1": context.Canceled}}
	if _, err := NewScorer(gen, 1).ScoreAll(ctx, []string{"Q1"}, []string{"a"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("ScoreAll error = %v, want context.Canceled", err)
	}
}
