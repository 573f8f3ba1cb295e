package learning

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"studymate/internal/providers/generation"
)

const scoreTemplate = `
You are evaluating an ACTIVE RECALL answer.

RULES:
- Respond with ONLY ONE NUMBER
- Allowed values: 1, 0.5, 0
- No explanation, no text

SCORING:
1   = fully correct
0.5 = partially correct
0   = wrong or irrelevant

QUESTION:
%s

STUDENT ANSWER:
%s

SCORE:
`

// ScorePrompt builds the constrained-output grading call for one pair.
func ScorePrompt(question, answer string) generation.Call {
	return generation.Call{
		Prompt:      fmt.Sprintf(scoreTemplate, strings.TrimSpace(question), strings.TrimSpace(answer)),
		MaxTokens:   5,
		Temperature: 0,
	}
}

// ParseScore reads a grader reply. Only the bare literals 0, 0.5 and 1 are
// accepted; anything else reports false.
func ParseScore(reply string) (float64, bool) {
	s := strings.TrimSpace(reply)
	s = strings.TrimRight(s, ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	switch v {
	case 0, 0.5, 1:
		return v, true
	}
	return 0, false
}

// Score is the grading outcome for one question.
type Score struct {
	Question string
	Answer   string
	Value    float64
	// Parsed is false when the answer was blank, the reply was not a valid
	// score or the grader call failed. Such questions still count toward Total.
	Parsed bool
	// Failed marks a grader call that returned an error.
	Failed bool
}

// Result aggregates a test.
type Result struct {
	Scores     []Score
	Score      float64
	Total      int
	Percentage float64
}

// Aggregate sums scores over the number of questions. Percentage is rounded
// to two decimals and is 0 for an empty test.
func Aggregate(scores []Score) Result {
	res := Result{Scores: scores, Total: len(scores)}
	for _, s := range scores {
		res.Score += s.Value
	}
	if res.Total > 0 {
		res.Percentage = math.Round(res.Score/float64(res.Total)*100*100) / 100
	}
	return res
}

// DefaultScoreConcurrency bounds parallel grader calls for one test.
const DefaultScoreConcurrency = 3

// Scorer grades answers through a Generator, one independent call per pair.
type Scorer struct {
	gen         generation.Generator
	concurrency int
	logger      zerolog.Logger
}

func NewScorer(gen generation.Generator, concurrency int) *Scorer {
	if concurrency <= 0 {
		concurrency = DefaultScoreConcurrency
	}
	return &Scorer{gen: gen, concurrency: concurrency, logger: zerolog.Nop()}
}

// WithLogger sets where failed grader calls are reported.
func (s *Scorer) WithLogger(logger zerolog.Logger) *Scorer {
	s.logger = logger
	return s
}

// ScoreAnswer grades one pair with gen. ok is false when the reply is not
// one of the allowed scores; a blank answer returns 0, false without a call.
func ScoreAnswer(ctx context.Context, gen generation.Generator, question, answer string) (float64, bool, error) {
	if strings.TrimSpace(answer) == "" {
		return 0, false, nil
	}
	reply, err := gen.Generate(ctx, ScorePrompt(question, answer))
	if err != nil {
		return 0, false, err
	}
	v, ok := ParseScore(reply)
	return v, ok, nil
}

// ScoreOne grades a single pair. A blank answer scores 0 without a call.
func (s *Scorer) ScoreOne(ctx context.Context, question, answer string) (Score, error) {
	out := Score{Question: question, Answer: answer}
	v, ok, err := ScoreAnswer(ctx, s.gen, question, answer)
	if err != nil {
		return out, err
	}
	out.Value, out.Parsed = v, ok
	return out, nil
}

// ScoreAll grades every question against the answer at the same index and
// returns scores in question order. Missing answers count as blank. A failed
// grader call scores that question 0 and the rest of the test still counts;
// only cancellation of ctx aborts the batch.
func (s *Scorer) ScoreAll(ctx context.Context, questions, answers []string) (Result, error) {
	scores := make([]Score, len(questions))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, q := range questions {
		var ans string
		if i < len(answers) {
			ans = answers[i]
		}
		g.Go(func() error {
			sc, err := s.ScoreOne(ctx, q, ans)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return fmt.Errorf("score question %d: %w", i+1, ctxErr)
				}
				s.logger.Warn().Err(err).
					Int("question", i+1).
					Str("provider", s.gen.Name()).
					Str("kind", string(generation.KindOf(err))).
					Msg("grader call failed; scoring question as 0")
				sc = Score{Question: q, Answer: ans, Failed: true}
			}
			scores[i] = sc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return Aggregate(scores), nil
}
