// Package pipeline coordinates one full trend analysis: it runs the four
// signal evaluators over a series, feeds their normalized scores into
// the decline predictor and assembles the unified report.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/trendpulse/trendpulse/internal/domain/predict"
	"github.com/trendpulse/trendpulse/internal/domain/signals"
	"github.com/trendpulse/trendpulse/internal/domain/trend"
	"github.com/trendpulse/trendpulse/internal/narrative"
)

// Metadata describes the analyzed series.
type Metadata struct {
	TrendName  string    `json:"trend_name"`
	DataPoints int       `json:"data_points"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// Report is the unified analysis payload consumed by dashboards and the
// HTTP layer.
type Report struct {
	Metadata        Metadata                        `json:"metadata"`
	Signals         map[signals.Kind]signals.Result `json:"signals"`
	Prediction      *predict.Result                 `json:"prediction"`
	Narrative       string                          `json:"narrative,omitempty"`
	Recommendations []string                        `json:"recommendations,omitempty"`
}

// Analyzer wires the evaluators, predictor and narrative generator for
// repeated analysis calls. It holds no per-call state; concurrent
// analyses of different trends need no coordination.
type Analyzer struct {
	engagement *signals.Engagement
	sentiment  *signals.Sentiment
	influencer *signals.Influencer
	saturation *signals.Saturation
	predictor  *predict.Predictor
	narrator   narrative.Generator
}

// NewAnalyzer builds an analyzer around a predictor and a narrative
// generator. A nil generator skips narrative rendering.
func NewAnalyzer(p *predict.Predictor, gen narrative.Generator) *Analyzer {
	return &Analyzer{
		engagement: signals.NewEngagement(),
		sentiment:  signals.NewSentiment(),
		influencer: signals.NewInfluencer(),
		saturation: signals.NewSaturation(),
		predictor:  p,
		narrator:   gen,
	}
}

// Predictor exposes the bound predictor so callers can share it with a
// simulation engine.
func (a *Analyzer) Predictor() *predict.Predictor { return a.predictor }

// Analyze runs the full workflow for one series.
func (a *Analyzer) Analyze(ctx context.Context, series *trend.Series) (*Report, error) {
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("validate series: %w", err)
	}

	start := time.Now()
	log.Info().Str("trend", series.Name).Int("days", series.Len()).
		Msg("Starting trend analysis")

	results := map[signals.Kind]signals.Result{
		signals.KindEngagement: a.engagement.Evaluate(series),
		signals.KindSentiment:  a.sentiment.Evaluate(series),
		signals.KindInfluencer: a.influencer.Evaluate(series),
		signals.KindSaturation: a.saturation.Evaluate(series),
	}

	// Substituted evaluator results go to the predictor as missing so it
	// owns the neutral-default accounting and the confidence penalty.
	score := func(kind signals.Kind) float64 {
		if results[kind].Substituted {
			return math.NaN()
		}
		return results[kind].Score
	}
	set := predict.SignalSet{
		Engagement: score(signals.KindEngagement),
		Sentiment:  score(signals.KindSentiment),
		Influencer: score(signals.KindInfluencer),
		Saturation: score(signals.KindSaturation),
		Velocity:   a.engagement.DecaySpeed(series),
	}

	prediction, err := a.predictor.Predict(set)
	if err != nil {
		return nil, fmt.Errorf("predict %q: %w", series.Name, err)
	}

	report := &Report{
		Metadata: Metadata{
			TrendName:  series.Name,
			DataPoints: series.Len(),
			StartDate:  series.Start().Format("2006-01-02"),
			EndDate:    series.End().Format("2006-01-02"),
			AnalyzedAt: time.Now().UTC(),
		},
		Signals:         results,
		Prediction:      prediction,
		Recommendations: narrative.Recommendations(prediction),
	}

	if a.narrator != nil {
		text, err := a.narrator.Generate(ctx, narrative.Input{
			TrendName:  series.Name,
			Prediction: prediction,
		})
		if err != nil {
			// Narrative is presentation, not control flow; a failed
			// generator never fails the analysis.
			log.Warn().Err(err).Str("trend", series.Name).Msg("Narrative generation failed")
		} else {
			report.Narrative = text
		}
	}

	log.Info().Str("trend", series.Name).
		Float64("decline_probability", prediction.DeclineProbability).
		Str("stage", string(prediction.LifecycleStage)).
		Bool("early_warning", prediction.EarlyWarning.Active).
		Dur("elapsed", time.Since(start)).
		Msg("Trend analysis completed")

	return report, nil
}
