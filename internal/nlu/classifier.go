// Package nlu classifies natural-language roster questions into intents.
// Classification is a fixed chain of stages tried in order; the first
// stage that resolves wins, and the chain always terminates with a
// resolution because the final stage cannot fail.
package nlu

import (
	"context"
	"log/slog"

	"rosterlens.app/engine/internal/model"
)

// Resolution is the outcome of classifying one query.
type Resolution struct {
	Intent     model.Intent
	Confidence float64
	Method     model.Method
	Params     model.QueryParams
}

// Stage is one classifier in the chain. A stage returns ok=false to pass
// the query to the next stage; an error also passes the query on, after
// being logged, so a degraded stage never blocks classification.
type Stage interface {
	Name() string
	Resolve(ctx context.Context, query string) (Resolution, bool, error)
}

// Classifier runs the stage chain.
type Classifier struct {
	stages []Stage
}

// NewClassifier builds the standard chain: semantic matching when an
// embedder is available, then keyword rules, then the unknown terminal.
// Pass a nil matcher to skip the semantic stage entirely.
func NewClassifier(sem *SemanticMatcher) *Classifier {
	var stages []Stage
	if sem != nil {
		stages = append(stages, sem)
	}
	stages = append(stages, NewRuleStage(), unknownStage{})
	return &Classifier{stages: stages}
}

// Classify resolves a query. It always returns a resolution; an
// unclassifiable query resolves to the unknown intent rather than an error.
func (c *Classifier) Classify(ctx context.Context, query string) Resolution {
	for _, st := range c.stages {
		res, ok, err := st.Resolve(ctx, query)
		if err != nil {
			slog.WarnContext(ctx, "classifier stage degraded, trying next",
				"stage", st.Name(),
				"error", err)
			continue
		}
		if ok {
			slog.DebugContext(ctx, "query classified",
				"stage", st.Name(),
				"intent", string(res.Intent),
				"confidence", res.Confidence)
			return res
		}
	}
	// Unreachable: the terminal stage always resolves.
	return Resolution{Intent: model.IntentUnknown, Method: model.MethodUnknown}
}

// unknownStage terminates the chain. It never declines and never fails.
type unknownStage struct{}

func (unknownStage) Name() string { return "unknown" }

func (unknownStage) Resolve(_ context.Context, _ string) (Resolution, bool, error) {
	return Resolution{
		Intent:     model.IntentUnknown,
		Confidence: 0,
		Method:     model.MethodUnknown,
	}, true, nil
}
