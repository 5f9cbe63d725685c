// Package signals holds the four independent signal evaluators that feed
// the decline predictor. Each evaluator is a pure function over one trend
// series: it produces a 0-100 decline score (higher = stronger evidence
// of decline) plus qualitative labels, and never fails on a well-formed
// series.
package signals

import (
	"github.com/trendpulse/trendpulse/internal/domain/trend"
)

// Kind identifies one of the tracked signal dimensions.
type Kind string

const (
	KindEngagement Kind = "engagement"
	KindSentiment  Kind = "sentiment"
	KindInfluencer Kind = "influencer"
	KindSaturation Kind = "saturation"
)

// Kinds lists all signal dimensions in weight order.
func Kinds() []Kind {
	return []Kind{KindEngagement, KindInfluencer, KindSentiment, KindSaturation}
}

// RiskLevel is the shared four-value risk enum every evaluator reports,
// so the predictor can aggregate them consistently.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// DecaySpeed categorizes how fast a dimension is deteriorating.
type DecaySpeed string

const (
	DecaySlow     DecaySpeed = "slow"
	DecayModerate DecaySpeed = "moderate"
	DecayRapid    DecaySpeed = "rapid"
)

// Result is the immutable output of one evaluator run.
type Result struct {
	Kind      Kind      `json:"kind"`
	Score     float64   `json:"score"` // 0-100 normalized decline score
	RiskLevel RiskLevel `json:"risk_level"`
	Label     string    `json:"label"` // evaluator-specific qualitative label

	// Substituted marks a neutral-default result produced because the
	// series carried no usable data for this dimension. It feeds the
	// predictor's confidence penalty instead of failing the pipeline.
	Substituted bool `json:"substituted,omitempty"`

	// Metrics carries evaluator-specific diagnostic values for the
	// narrative layer and the report payload.
	Metrics map[string]float64 `json:"metrics,omitempty"`

	// Details carries evaluator-specific diagnostics that do not reduce
	// to a number, such as the saturation time-to-peak estimate.
	Details map[string]string `json:"details,omitempty"`
}

// NeutralScore is the stand-in decline score for a missing dimension.
const NeutralScore = 50.0

// Evaluator is the common shape of the four signal agents.
type Evaluator interface {
	Kind() Kind
	Evaluate(s *trend.Series) Result
}

// neutral builds the substituted mid-risk result for a missing dimension.
func neutral(kind Kind) Result {
	return Result{
		Kind:        kind,
		Score:       NeutralScore,
		RiskLevel:   RiskModerate,
		Label:       "No Data",
		Substituted: true,
	}
}
