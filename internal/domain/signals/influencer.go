package signals

import (
	"github.com/trendpulse/trendpulse/internal/domain/trend"
)

// Influencer measures the drop in influencer participation and the
// remaining influence impact of the trend.
type Influencer struct{}

// NewInfluencer returns the influencer evaluator.
func NewInfluencer() *Influencer { return &Influencer{} }

func (a *Influencer) Kind() Kind { return KindInfluencer }

// Evaluate computes the participation drop between the first and last
// weeks, the phase-based disengagement status, and an influence impact
// score; the decline score blends the drop with the impact deficit.
func (a *Influencer) Evaluate(s *trend.Series) Result {
	if !s.HasDimension("influencer") || s.Len() == 0 {
		return neutral(KindInfluencer)
	}

	ratios := s.InfluencerRatios()
	initial := trend.LeadingMean(ratios, trend.RollingWindow)
	current := trend.TrailingMean(ratios, trend.RollingWindow)

	dropPercent := 0.0
	if initial > 0 {
		dropPercent = (initial - current) / initial * 100
	}

	disengagement := a.disengagementStatus(ratios)
	impact := a.impactScore(current, dropPercent, ratios)
	risk := a.riskLevel(dropPercent, disengagement, current)

	// participation drop dominates; a weak remaining impact score adds
	// the rest, mirroring the predictor's influencer normalization.
	score := trend.Clamp(dropPercent*0.7+(100-impact)*0.3, 0, 100)

	return Result{
		Kind:      KindInfluencer,
		Score:     score,
		RiskLevel: risk,
		Label:     disengagement,
		Metrics: map[string]float64{
			"participation_drop_percent": dropPercent,
			"influence_impact_score":     impact,
			"initial_ratio":              initial,
			"current_ratio":              current,
			"peak_ratio":                 trend.Peak(ratios),
		},
	}
}

// disengagementStatus compares the early/mid/late phase means.
func (a *Influencer) disengagementStatus(ratios []float64) string {
	early, mid, late := trend.Thirds(ratios)

	earlyToMid := trend.PercentChange(early, mid) * -1
	midToLate := trend.PercentChange(mid, late) * -1

	switch {
	case earlyToMid > 30 && midToLate > 30:
		return "Severe Disengagement"
	case earlyToMid > 20 || midToLate > 20:
		return "Moderate Disengagement"
	case earlyToMid > 10 || midToLate > 10:
		return "Slight Disengagement"
	case earlyToMid < -10 || midToLate < -10:
		return "Increasing Engagement"
	default:
		return "Stable Engagement"
	}
}

// impactScore estimates remaining influencer pull on a 0-100 scale:
// current participation carries half the weight, then a drop penalty and
// a trend modifier.
func (a *Influencer) impactScore(current, dropPercent float64, ratios []float64) float64 {
	base := current * 500 // 0-1 ratio onto 0-50 points
	penalty := dropPercent * 0.5
	if penalty > 30 {
		penalty = 30
	}

	modifier := 0.0
	slope := trend.Slope(ratios, 10)
	if slope > 0.001 {
		modifier = 20
	} else if slope < -0.001 {
		modifier = -20
	}

	return trend.Clamp(base-penalty+modifier, 0, 100)
}

func (a *Influencer) riskLevel(dropPercent float64, disengagement string, current float64) RiskLevel {
	switch {
	case disengagement == "Severe Disengagement" || dropPercent > 60:
		return RiskCritical
	case disengagement == "Moderate Disengagement" || dropPercent > 40:
		return RiskHigh
	case dropPercent > 20 || current < 0.05:
		return RiskModerate
	default:
		return RiskLow
	}
}
