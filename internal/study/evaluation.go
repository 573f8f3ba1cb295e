package study

import (
	"context"

	"studymate/internal/domain"
	"studymate/internal/learning"
	"studymate/internal/providers/generation"
)

// Evaluator grades a written answer into a structured report.
type Evaluator struct {
	gen generation.Generator
}

func NewEvaluator(gen generation.Generator) *Evaluator {
	return &Evaluator{gen: gen}
}

func (e *Evaluator) Evaluate(ctx context.Context, user domain.User, question, answer string) (string, error) {
	if err := learning.RequirePro(user, learning.FeatureEvaluation); err != nil {
		return "", err
	}
	call, err := learning.EvaluationPrompt(question, answer)
	if err != nil {
		return "", err
	}
	return generate(ctx, e.gen, call)
}
