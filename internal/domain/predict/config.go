package predict

import (
	"fmt"
	"math"

	"github.com/trendpulse/trendpulse/internal/domain/signals"
)

// Weights holds the per-signal model weights. A valid set sums to 1.0
// exactly; customized sets that do not are rejected at predictor
// construction rather than silently renormalized.
type Weights struct {
	Engagement float64 `yaml:"engagement" json:"engagement"`
	Influencer float64 `yaml:"influencer" json:"influencer"`
	Sentiment  float64 `yaml:"sentiment" json:"sentiment"`
	Saturation float64 `yaml:"saturation" json:"saturation"`
}

// DefaultWeights returns the documented signal weights.
func DefaultWeights() Weights {
	return Weights{
		Engagement: 0.35,
		Influencer: 0.25,
		Sentiment:  0.20,
		Saturation: 0.20,
	}
}

// Sum returns the weight total.
func (w Weights) Sum() float64 {
	return w.Engagement + w.Influencer + w.Sentiment + w.Saturation
}

// Of returns the weight for one signal kind.
func (w Weights) Of(kind signals.Kind) float64 {
	switch kind {
	case signals.KindEngagement:
		return w.Engagement
	case signals.KindInfluencer:
		return w.Influencer
	case signals.KindSentiment:
		return w.Sentiment
	case signals.KindSaturation:
		return w.Saturation
	default:
		return 0
	}
}

const weightTolerance = 1e-9

// Stage is one lifecycle bucket of the decline probability.
type Stage string

const (
	StageGrowth        Stage = "Growth"
	StagePeak          Stage = "Peak"
	StageEarlyDecline  Stage = "Early Decline"
	StageRapidCollapse Stage = "Rapid Collapse"
	StageDeadTrend     Stage = "Dead Trend"
)

// StageCutpoints are the inclusive lower bounds of the Peak, Early
// Decline, Rapid Collapse and Dead Trend stages. Growth always starts at
// 0 and Dead Trend is closed at 100.
type StageCutpoints struct {
	Peak          float64 `yaml:"peak" json:"peak"`
	EarlyDecline  float64 `yaml:"early_decline" json:"early_decline"`
	RapidCollapse float64 `yaml:"rapid_collapse" json:"rapid_collapse"`
	DeadTrend     float64 `yaml:"dead_trend" json:"dead_trend"`
}

// DefaultStageCutpoints returns the documented lifecycle table:
// Growth[0,25) Peak[25,45) Early Decline[45,65) Rapid Collapse[65,85)
// Dead Trend[85,100].
func DefaultStageCutpoints() StageCutpoints {
	return StageCutpoints{
		Peak:          25,
		EarlyDecline:  45,
		RapidCollapse: 65,
		DeadTrend:     85,
	}
}

// WarningLevels bucket the same probability axis for urgency. They are a
// separate concern from lifecycle stages and configured independently,
// even though the default cutpoints overlap the stage table.
type WarningLevels struct {
	Moderate float64 `yaml:"moderate" json:"moderate"`
	High     float64 `yaml:"high" json:"high"`
	Critical float64 `yaml:"critical" json:"critical"`
}

// DefaultWarningLevels returns the 45/60/75 urgency buckets.
func DefaultWarningLevels() WarningLevels {
	return WarningLevels{Moderate: 45, High: 60, Critical: 75}
}

// CollapseTable maps (stage, velocity tier) to a human-readable day
// range. Discrete lookup by design: the estimate is a heuristic bucket,
// not a regression.
type CollapseTable map[Stage]map[signals.DecaySpeed]string

// DefaultCollapseTable returns the documented day-range buckets.
func DefaultCollapseTable() CollapseTable {
	return CollapseTable{
		StageGrowth: {
			signals.DecaySlow:     "60+ days",
			signals.DecayModerate: "60+ days",
			signals.DecayRapid:    "60+ days",
		},
		StagePeak: {
			signals.DecaySlow:     "45-60 days",
			signals.DecayModerate: "45-60 days",
			signals.DecayRapid:    "45-60 days",
		},
		StageEarlyDecline: {
			signals.DecaySlow:     "35-45 days",
			signals.DecayModerate: "25-35 days",
			signals.DecayRapid:    "15-25 days",
		},
		StageRapidCollapse: {
			signals.DecaySlow:     "15-20 days",
			signals.DecayModerate: "10-15 days",
			signals.DecayRapid:    "5-10 days",
		},
		StageDeadTrend: {
			signals.DecaySlow:     "Already Collapsed",
			signals.DecayModerate: "Already Collapsed",
			signals.DecayRapid:    "Already Collapsed",
		},
	}
}

// Config is the full explicit configuration surface of the predictor.
// All of it is bound at construction; there is no package-global mutable
// state, so concurrent predictors with different configs cannot
// interfere.
type Config struct {
	Weights          Weights        `yaml:"weights" json:"weights"`
	Stages           StageCutpoints `yaml:"stages" json:"stages"`
	WarningThreshold float64        `yaml:"warning_threshold" json:"warning_threshold"`
	WarningLevels    WarningLevels  `yaml:"warning_levels" json:"warning_levels"`
	Collapse         CollapseTable  `yaml:"collapse" json:"collapse"`
}

// DefaultConfig returns the documented model constants.
func DefaultConfig() Config {
	return Config{
		Weights:          DefaultWeights(),
		Stages:           DefaultStageCutpoints(),
		WarningThreshold: 45,
		WarningLevels:    DefaultWarningLevels(),
		Collapse:         DefaultCollapseTable(),
	}
}

// Validate fails fast on a weight set that does not sum to 1.0, on
// unordered stage cutpoints, or on an out-of-range warning threshold.
func (c Config) Validate() error {
	if math.Abs(c.Weights.Sum()-1.0) > weightTolerance {
		return fmt.Errorf("weights sum to %.6f, want 1.0: %w", c.Weights.Sum(), ErrInvalidWeights)
	}
	for _, w := range []float64{c.Weights.Engagement, c.Weights.Influencer, c.Weights.Sentiment, c.Weights.Saturation} {
		if w < 0 {
			return fmt.Errorf("negative weight %.4f: %w", w, ErrInvalidWeights)
		}
	}

	s := c.Stages
	if !(0 < s.Peak && s.Peak < s.EarlyDecline && s.EarlyDecline < s.RapidCollapse &&
		s.RapidCollapse < s.DeadTrend && s.DeadTrend <= 100) {
		return fmt.Errorf("stage cutpoints %+v not strictly ascending within (0,100]: %w", s, ErrInvalidConfig)
	}

	if c.WarningThreshold < 0 || c.WarningThreshold > 100 {
		return fmt.Errorf("warning threshold %.2f outside [0,100]: %w", c.WarningThreshold, ErrInvalidConfig)
	}
	wl := c.WarningLevels
	if !(wl.Moderate <= wl.High && wl.High <= wl.Critical) {
		return fmt.Errorf("warning levels %+v not ascending: %w", wl, ErrInvalidConfig)
	}

	for _, stage := range []Stage{StageGrowth, StagePeak, StageEarlyDecline, StageRapidCollapse, StageDeadTrend} {
		if _, ok := c.Collapse[stage]; !ok {
			return fmt.Errorf("collapse table missing stage %q: %w", stage, ErrInvalidConfig)
		}
	}

	return nil
}
