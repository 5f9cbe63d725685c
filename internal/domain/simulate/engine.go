// Package simulate reruns the decline model under perturbed signal
// inputs to estimate the impact of what-if interventions.
package simulate

import (
	"fmt"

	"github.com/trendpulse/trendpulse/internal/domain/predict"
	"github.com/trendpulse/trendpulse/internal/domain/trend"
)

// Deltas are the per-signal perturbations of one scenario. Boosts are
// fractions (0.30 = 30%) applied multiplicatively against the baseline
// decline score: a positive boost reduces the score, a negative boost
// worsens it. SaturationDelta is additive in score points. Each delta is
// applied independently; there is no cross-signal coupling.
type Deltas struct {
	EngagementBoost float64 `json:"engagement_boost,omitempty" yaml:"engagement_boost"`
	InfluencerBoost float64 `json:"influencer_boost,omitempty" yaml:"influencer_boost"`
	SentimentBoost  float64 `json:"sentiment_boost,omitempty" yaml:"sentiment_boost"`
	SaturationDelta float64 `json:"saturation_delta,omitempty" yaml:"saturation_delta"`
}

// AppliedDelta records one signal's before/after values for the
// narrative layer.
type AppliedDelta struct {
	Signal string  `json:"signal"`
	Delta  float64 `json:"delta"`
	Before float64 `json:"before"`
	After  float64 `json:"after"`
}

// Result is the comparative outcome of one scenario run. It carries
// enough structured detail that the narrative layer never recomputes
// anything.
type Result struct {
	ScenarioName      string          `json:"scenario_name"`
	OriginalProb      float64         `json:"original_decline_probability"`
	NewProb           float64         `json:"new_decline_probability"`
	ProbabilityChange float64         `json:"probability_change"` // signed; negative = improvement
	OriginalStage     predict.Stage   `json:"original_lifecycle_stage"`
	NewStage          predict.Stage   `json:"new_lifecycle_stage"`
	OriginalCollapse  string          `json:"original_days_to_collapse"`
	NewCollapse       string          `json:"new_days_to_collapse"`
	Applied           []AppliedDelta  `json:"parameter_changes"`
	ImpactCategory    string          `json:"impact_analysis"`
	RecoveryPotential string          `json:"recovery_potential"`
	Prediction        *predict.Result `json:"full_prediction"`
}

// Engine reruns a predictor over modified baselines. Stateless; safe for
// concurrent use.
type Engine struct {
	predictor *predict.Predictor
}

// NewEngine builds a simulation engine around an existing predictor so
// baseline and scenario share one configuration.
func NewEngine(p *predict.Predictor) *Engine {
	return &Engine{predictor: p}
}

// Simulate applies the deltas to the baseline signals, reruns the
// decline model and reports the comparative result. Two calls with
// identical baseline and deltas yield identical results: there is no
// randomness and no time dependence.
func (e *Engine) Simulate(baseline predict.SignalSet, d Deltas, scenario string) (*Result, error) {
	original, err := e.predictor.Predict(baseline)
	if err != nil {
		return nil, fmt.Errorf("baseline prediction: %w", err)
	}

	// Perturb the filled baseline so substituted neutral defaults stay in
	// place rather than going missing again.
	modified := original.SignalScores
	applied := make([]AppliedDelta, 0, 4)

	apply := func(name string, before float64, after float64, delta float64) float64 {
		if delta == 0 {
			return before
		}
		after = trend.Clamp(after, 0, 100)
		applied = append(applied, AppliedDelta{Signal: name, Delta: delta, Before: before, After: after})
		return after
	}

	modified.Engagement = apply("engagement", modified.Engagement,
		modified.Engagement*(1-d.EngagementBoost), d.EngagementBoost)
	modified.Influencer = apply("influencer", modified.Influencer,
		modified.Influencer*(1-d.InfluencerBoost), d.InfluencerBoost)
	modified.Sentiment = apply("sentiment", modified.Sentiment,
		modified.Sentiment*(1-d.SentimentBoost), d.SentimentBoost)
	modified.Saturation = apply("saturation", modified.Saturation,
		modified.Saturation+d.SaturationDelta, d.SaturationDelta)

	next, err := e.predictor.Predict(modified)
	if err != nil {
		return nil, fmt.Errorf("scenario %q prediction: %w", scenario, err)
	}

	change := next.DeclineProbability - original.DeclineProbability

	return &Result{
		ScenarioName:      scenario,
		OriginalProb:      original.DeclineProbability,
		NewProb:           next.DeclineProbability,
		ProbabilityChange: change,
		OriginalStage:     original.LifecycleStage,
		NewStage:          next.LifecycleStage,
		OriginalCollapse:  original.DaysToCollapse,
		NewCollapse:       next.DaysToCollapse,
		Applied:           applied,
		ImpactCategory:    impactCategory(change),
		RecoveryPotential: recoveryPotential(change),
		Prediction:        next,
	}, nil
}

// Scenario pairs a named delta set for the canned suite.
type Scenario struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Deltas Deltas `json:"deltas" yaml:"deltas"`
}

// DefaultScenarios returns the canned optimistic/realistic/pessimistic
// what-if suite.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			ID:   "optimistic",
			Name: "Optimistic Recovery",
			Deltas: Deltas{
				InfluencerBoost: 0.30,
				EngagementBoost: 0.25,
				SentimentBoost:  0.20,
			},
		},
		{
			ID:   "realistic",
			Name: "Realistic Improvement",
			Deltas: Deltas{
				InfluencerBoost: 0.15,
				EngagementBoost: 0.10,
				SentimentBoost:  0.05,
			},
		},
		{
			ID:   "pessimistic",
			Name: "Pessimistic Decline",
			Deltas: Deltas{
				InfluencerBoost: -0.20,
				EngagementBoost: -0.15,
				SentimentBoost:  -0.10,
			},
		},
	}
}

// RunScenarios runs every scenario against one baseline.
func (e *Engine) RunScenarios(baseline predict.SignalSet, scenarios []Scenario) (map[string]*Result, error) {
	results := make(map[string]*Result, len(scenarios))
	for _, sc := range scenarios {
		res, err := e.Simulate(baseline, sc.Deltas, sc.Name)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.ID, err)
		}
		results[sc.ID] = res
	}
	return results, nil
}

func impactCategory(change float64) string {
	switch {
	case change < -15:
		return "Significant Improvement"
	case change < -5:
		return "Moderate Improvement"
	case change < 5:
		return "Minimal Change"
	case change < 15:
		return "Moderate Deterioration"
	default:
		return "Significant Deterioration"
	}
}

func recoveryPotential(change float64) string {
	switch {
	case change < -20:
		return "High"
	case change < -10:
		return "Moderate"
	case change < 0:
		return "Low"
	default:
		return "None"
	}
}
