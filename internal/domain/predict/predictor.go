// Package predict implements the weighted-sum decline model: it folds
// the four normalized signal scores into a decline probability, buckets
// it into a lifecycle stage, runs early-warning detection and estimates
// a collapse window.
package predict

import (
	"fmt"
	"math"
	"sort"

	"github.com/trendpulse/trendpulse/internal/domain/signals"
)

// SignalSet carries the four normalized 0-100 decline scores. NaN marks
// a missing signal; the predictor substitutes the neutral default for it
// and records the substitution.
type SignalSet struct {
	Engagement float64 `json:"engagement"`
	Sentiment  float64 `json:"sentiment"`
	Influencer float64 `json:"influencer"`
	Saturation float64 `json:"saturation"`

	// Velocity is the decay tier used by the days-to-collapse lookup.
	// The zero value falls back to moderate.
	Velocity signals.DecaySpeed `json:"velocity,omitempty"`
}

// MissingSet returns a SignalSet with every signal marked missing.
func MissingSet() SignalSet {
	nan := math.NaN()
	return SignalSet{Engagement: nan, Sentiment: nan, Influencer: nan, Saturation: nan}
}

// Of returns the score for one signal kind.
func (s SignalSet) Of(kind signals.Kind) float64 {
	switch kind {
	case signals.KindEngagement:
		return s.Engagement
	case signals.KindSentiment:
		return s.Sentiment
	case signals.KindInfluencer:
		return s.Influencer
	case signals.KindSaturation:
		return s.Saturation
	default:
		return math.NaN()
	}
}

func (s *SignalSet) set(kind signals.Kind, v float64) {
	switch kind {
	case signals.KindEngagement:
		s.Engagement = v
	case signals.KindSentiment:
		s.Sentiment = v
	case signals.KindInfluencer:
		s.Influencer = v
	case signals.KindSaturation:
		s.Saturation = v
	}
}

// Factor is one signal's ranked contribution to the decline probability.
type Factor struct {
	Signal   signals.Kind `json:"signal"`
	Rank     int          `json:"rank"`
	RawScore float64      `json:"raw_score"`
	Weighted float64      `json:"weighted_contribution"`
	// Percent is the share of the total probability, renormalized over
	// the weighted terms; zero-filled in the degenerate all-zero case.
	Percent float64 `json:"contribution_percent"`
}

// EarlyWarning is the urgency assessment, thresholded independently of
// the lifecycle stage.
type EarlyWarning struct {
	Active             bool               `json:"active"`
	Level              signals.RiskLevel  `json:"warning_level"`
	Threshold          float64            `json:"warning_threshold"`
	ApproachingCrit    bool               `json:"approaching_critical"`
	ActiveWarnings     []string           `json:"active_warnings"`
	WarningCount       int                `json:"warning_count"`
	DaysToCriticalZone string             `json:"days_to_critical_zone"`
	RecommendedAction  string             `json:"recommended_action"`
}

// Result is the full prediction payload. It is a derived value,
// recomputed on every call and never mutated in place.
type Result struct {
	DeclineProbability float64           `json:"decline_probability"`
	LifecycleStage     Stage             `json:"lifecycle_stage"`
	DaysToCollapse     string            `json:"days_to_collapse"`
	RiskLevel          signals.RiskLevel `json:"risk_level"`
	Confidence         float64           `json:"confidence"`
	EarlyWarning       EarlyWarning      `json:"early_warning"`
	SignalScores       SignalSet         `json:"signal_scores"`
	Factors            []Factor          `json:"contributing_factors"`

	// Substituted lists signals replaced by the neutral default.
	Substituted []string `json:"substituted_signals,omitempty"`
	// Degenerate marks the all-zero probability case where contribution
	// renormalization is undefined and percentages are zero-filled.
	Degenerate bool `json:"degenerate_contributions,omitempty"`
	// Clamped records that the weighted sum was clamped into [0,100].
	Clamped bool `json:"probability_clamped,omitempty"`
}

// Predictor folds signal scores into a decline prediction. Construct one
// per configuration; it is stateless after construction and safe for
// concurrent use.
type Predictor struct {
	cfg Config
}

// New builds a predictor, failing fast on invalid configuration.
func New(cfg Config) (*Predictor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Predictor{cfg: cfg}, nil
}

// NewDefault builds a predictor with the documented default constants.
func NewDefault() *Predictor {
	p, err := New(DefaultConfig())
	if err != nil {
		panic(err) // defaults are known-valid
	}
	return p
}

// Config returns the bound configuration.
func (p *Predictor) Config() Config { return p.cfg }

// Predict computes the decline probability, lifecycle stage, early
// warning and factor ranking for one signal set.
func (p *Predictor) Predict(set SignalSet) (*Result, error) {
	filled, substituted, err := p.fillMissing(set)
	if err != nil {
		return nil, err
	}

	weighted := 0.0
	for _, kind := range signals.Kinds() {
		weighted += filled.Of(kind) * p.cfg.Weights.Of(kind)
	}

	probability := weighted
	clamped := false
	if probability < 0 || probability > 100 {
		probability = math.Max(0, math.Min(100, probability))
		clamped = true
	}

	stage := p.ClassifyStage(probability)
	velocity := filled.Velocity
	if velocity == "" {
		velocity = signals.DecayModerate
	}

	result := &Result{
		DeclineProbability: round2(probability),
		LifecycleStage:     stage,
		DaysToCollapse:     p.daysToCollapse(stage, velocity),
		RiskLevel:          p.riskLevel(probability, stage),
		Confidence:         p.confidence(substituted),
		SignalScores:       filled,
		Substituted:        substituted,
		Clamped:            clamped,
	}
	result.Factors, result.Degenerate = p.rankFactors(filled, probability)
	result.EarlyWarning = p.detectEarlyWarning(probability, filled, velocity)

	return result, nil
}

// fillMissing substitutes the neutral default for NaN signals, erroring
// only when every signal is missing. Present signals outside [0,100] are
// rejected.
func (p *Predictor) fillMissing(set SignalSet) (SignalSet, []string, error) {
	var substituted []string
	missing := 0

	for _, kind := range signals.Kinds() {
		v := set.Of(kind)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			missing++
			substituted = append(substituted, string(kind))
			set.set(kind, signals.NeutralScore)
			continue
		}
		if v < 0 || v > 100 {
			return set, nil, fmt.Errorf("%s=%g: %w", kind, v, ErrSignalOutOfRange)
		}
	}

	if missing == len(signals.Kinds()) {
		return set, nil, ErrInsufficientSignals
	}
	return set, substituted, nil
}

// ClassifyStage maps a probability onto exactly one lifecycle stage:
// inclusive lower bound, exclusive upper bound, terminal stage closed at
// 100.
func (p *Predictor) ClassifyStage(probability float64) Stage {
	s := p.cfg.Stages
	switch {
	case probability < s.Peak:
		return StageGrowth
	case probability < s.EarlyDecline:
		return StagePeak
	case probability < s.RapidCollapse:
		return StageEarlyDecline
	case probability < s.DeadTrend:
		return StageRapidCollapse
	default:
		return StageDeadTrend
	}
}

func (p *Predictor) daysToCollapse(stage Stage, velocity signals.DecaySpeed) string {
	if byVelocity, ok := p.cfg.Collapse[stage]; ok {
		if days, ok := byVelocity[velocity]; ok {
			return days
		}
		if days, ok := byVelocity[signals.DecayModerate]; ok {
			return days
		}
	}
	return "Unknown"
}

// riskLevel grades overall urgency from probability and stage combined.
func (p *Predictor) riskLevel(probability float64, stage Stage) signals.RiskLevel {
	switch {
	case probability >= 75 || stage == StageRapidCollapse || stage == StageDeadTrend:
		return signals.RiskCritical
	case probability >= 55 || stage == StageEarlyDecline:
		return signals.RiskHigh
	case probability >= 35 || stage == StagePeak:
		return signals.RiskModerate
	default:
		return signals.RiskLow
	}
}

// confidence applies a flat penalty per substituted signal against a
// full-coverage baseline of 100.
func (p *Predictor) confidence(substituted []string) float64 {
	const penaltyPerSignal = 20.0
	return math.Max(0, 100-penaltyPerSignal*float64(len(substituted)))
}

// rankFactors sorts the weighted contributions descending and assigns
// contribution percentages renormalized over the weighted total. The
// all-zero case reports zero-filled percentages instead of dividing by
// zero.
func (p *Predictor) rankFactors(set SignalSet, probability float64) ([]Factor, bool) {
	total := 0.0
	factors := make([]Factor, 0, len(signals.Kinds()))
	for _, kind := range signals.Kinds() {
		weighted := set.Of(kind) * p.cfg.Weights.Of(kind)
		total += weighted
		factors = append(factors, Factor{
			Signal:   kind,
			RawScore: round2(set.Of(kind)),
			Weighted: round2(weighted),
		})
	}

	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Weighted > factors[j].Weighted
	})

	degenerate := probability == 0 || total == 0
	for i := range factors {
		factors[i].Rank = i + 1
		if !degenerate {
			factors[i].Percent = round2(factors[i].Weighted / total * 100)
		}
	}
	return factors, degenerate
}

// detectEarlyWarning fires when the probability crosses the warning
// threshold and collects per-signal warning conditions. The warning
// level escalates with the number of active conditions.
func (p *Predictor) detectEarlyWarning(probability float64, set SignalSet, velocity signals.DecaySpeed) EarlyWarning {
	var warnings []string

	if set.Engagement > 40 {
		warnings = append(warnings, "Engagement showing early decline signs")
	}
	if set.Influencer > 35 {
		warnings = append(warnings, "Influencer disengagement detected")
	}
	if set.Sentiment > 30 {
		warnings = append(warnings, "Sentiment deterioration observed")
	}
	if set.Saturation > 60 {
		warnings = append(warnings, "Market saturation approaching critical levels")
	}
	if velocity == signals.DecayRapid {
		warnings = append(warnings, "Rapid decay velocity detected")
	}

	highRisk := 0
	for _, kind := range signals.Kinds() {
		if set.Of(kind) > 50 {
			highRisk++
		}
	}
	if highRisk >= 2 {
		warnings = append(warnings, "Multiple signals at high risk, cascading failure possible")
	}

	// Urgency is a secondary bucketing of the probability itself,
	// configured independently of the lifecycle cutpoints even though the
	// defaults overlap them.
	wl := p.cfg.WarningLevels
	level := signals.RiskLow
	switch {
	case probability >= wl.Critical:
		level = signals.RiskCritical
	case probability >= wl.High:
		level = signals.RiskHigh
	case probability >= wl.Moderate:
		level = signals.RiskModerate
	}

	threshold := p.cfg.WarningThreshold
	criticalZone := p.cfg.Stages.RapidCollapse
	daysToCritical := "Not applicable"
	switch {
	case probability >= criticalZone:
		daysToCritical = "Already in critical zone"
	case probability >= threshold:
		daysToCritical = "5-15 days until critical zone"
	}

	return EarlyWarning{
		Active:             probability >= threshold,
		Level:              level,
		Threshold:          threshold,
		ApproachingCrit:    probability >= threshold && probability < criticalZone,
		ActiveWarnings:     warnings,
		WarningCount:       len(warnings),
		DaysToCriticalZone: daysToCritical,
		RecommendedAction:  warningAction(level),
	}
}

func warningAction(level signals.RiskLevel) string {
	switch level {
	case signals.RiskCritical:
		return "Immediate intervention required, deploy emergency retention strategies"
	case signals.RiskHigh:
		return "Urgent attention needed, activate mitigation measures within 48 hours"
	case signals.RiskModerate:
		return "Close monitoring required, prepare contingency plans"
	default:
		return "Continue routine monitoring"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
