package signals

import (
	"fmt"
	"math"
	"strings"

	"github.com/trendpulse/trendpulse/internal/domain/trend"
)

// Sentiment detects shifts in audience sentiment between the early and
// late phases of a trend.
type Sentiment struct {
	// Category cutpoints on the 0-1 sentiment scale.
	PositiveThreshold float64
	NeutralThreshold  float64
}

// NewSentiment returns the sentiment evaluator with the default
// Positive>=0.6 / Neutral>=0.4 buckets.
func NewSentiment() *Sentiment {
	return &Sentiment{PositiveThreshold: 0.6, NeutralThreshold: 0.4}
}

func (a *Sentiment) Kind() Kind { return KindSentiment }

// Impact multipliers applied to the absolute change percent when
// producing the 0-100 decline score.
var impactMultiplier = map[RiskLevel]float64{
	RiskLow:      0.5,
	RiskModerate: 1.0,
	RiskHigh:     1.5,
	RiskCritical: 2.0,
}

// Evaluate compares first-week and last-week sentiment means, detects
// the category shift across early/late thirds, and escalates the impact
// level with the magnitude of the shift.
func (a *Sentiment) Evaluate(s *trend.Series) Result {
	if !s.HasDimension("sentiment") || s.Len() == 0 {
		return neutral(KindSentiment)
	}

	scores := s.SentimentScores()
	initial := trend.LeadingMean(scores, trend.RollingWindow)
	current := trend.TrailingMean(scores, trend.RollingWindow)

	changePercent := trend.PercentChange(initial, current)
	volatility := trend.StdDev(scores)
	shift := a.detectShift(scores)
	impact := a.impactLevel(shift, volatility, changePercent)
	score := trend.Clamp(math.Abs(changePercent)*impactMultiplier[impact], 0, 100)

	return Result{
		Kind:      KindSentiment,
		Score:     score,
		RiskLevel: impact,
		Label:     shift,
		Metrics: map[string]float64{
			"initial_sentiment": initial,
			"current_sentiment": current,
			"overall_sentiment": trend.Mean(scores),
			"change_percent":    changePercent,
			"volatility":        volatility,
		},
	}
}

// detectShift compares the early and late thirds of the timeline.
func (a *Sentiment) detectShift(scores []float64) string {
	early, _, late := trend.Thirds(scores)

	earlyCat := a.categorize(early)
	lateCat := a.categorize(late)
	if earlyCat == lateCat {
		return "Stable"
	}
	return fmt.Sprintf("%s → %s", earlyCat, lateCat)
}

func (a *Sentiment) categorize(score float64) string {
	switch {
	case score >= a.PositiveThreshold:
		return "Positive"
	case score >= a.NeutralThreshold:
		return "Neutral"
	default:
		return "Negative"
	}
}

func (a *Sentiment) impactLevel(shift string, volatility, changePercent float64) RiskLevel {
	switch {
	case shift == "Positive → Negative" || changePercent < -30:
		return RiskCritical
	case strings.HasSuffix(shift, "Negative") && volatility > 0.15:
		return RiskHigh
	case changePercent < -20 || volatility > 0.20:
		return RiskHigh
	case strings.HasSuffix(shift, "Neutral") || (volatility > 0.10 && changePercent < -10):
		return RiskModerate
	default:
		return RiskLow
	}
}
