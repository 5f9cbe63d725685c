// Package narrative renders prediction and simulation results as text.
// Two interchangeable generators exist: fixed templates and an external
// completion service. The scoring core never depends on either; callers
// pick one and consume opaque text.
package narrative

import (
	"context"

	"github.com/trendpulse/trendpulse/internal/domain/predict"
)

// Input is the data a generator may draw on. It is a finished
// prediction; generators never recompute scores.
type Input struct {
	TrendName  string
	Prediction *predict.Result
}

// Generator produces the headline narrative for one analysis.
type Generator interface {
	Generate(ctx context.Context, in Input) (string, error)
}
