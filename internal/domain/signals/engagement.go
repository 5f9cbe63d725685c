package signals

import (
	"github.com/trendpulse/trendpulse/internal/domain/trend"
)

// Engagement measures how far engagement has fallen from its peak and
// how fast it is decaying.
type Engagement struct{}

// NewEngagement returns the engagement evaluator.
func NewEngagement() *Engagement { return &Engagement{} }

func (e *Engagement) Kind() Kind { return KindEngagement }

// Decay multipliers applied to the raw decline percent when producing
// the 0-100 decline score.
var decayMultiplier = map[DecaySpeed]float64{
	DecaySlow:     0.8,
	DecayModerate: 1.0,
	DecayRapid:    1.3,
}

// Evaluate computes percent decline from peak engagement to the current
// value, categorizes decay speed from the trailing week against the
// prior period, and maps the pair onto a risk level.
func (e *Engagement) Evaluate(s *trend.Series) Result {
	if !s.HasDimension("engagement") || s.Len() == 0 {
		return neutral(KindEngagement)
	}

	rates := s.EngagementRates()
	peak := trend.Peak(rates)
	current := trend.Last(rates)

	declinePercent := 0.0
	if peak > 0 {
		declinePercent = (peak - current) / peak * 100
	}

	speed := e.decaySpeed(rates)
	risk := e.riskLevel(declinePercent, speed)
	score := trend.Clamp(declinePercent*decayMultiplier[speed], 0, 100)

	return Result{
		Kind:      KindEngagement,
		Score:     score,
		RiskLevel: risk,
		Label:     string(speed) + " decay",
		Metrics: map[string]float64{
			"decline_percent":    declinePercent,
			"peak_engagement":    peak,
			"current_engagement": current,
			"average_engagement": trend.Mean(rates),
			"volatility":         trend.StdDev(rates),
		},
	}
}

// DecaySpeed compares the trailing-week mean against the prior period.
// Exported because the predictor keys its days-to-collapse table on it.
func (e *Engagement) DecaySpeed(s *trend.Series) DecaySpeed {
	if !s.HasDimension("engagement") || s.Len() == 0 {
		return DecayModerate
	}
	return e.decaySpeed(s.EngagementRates())
}

func (e *Engagement) decaySpeed(rates []float64) DecaySpeed {
	window := trend.RollingWindow
	if window > len(rates) {
		window = len(rates)
	}

	recent := trend.TrailingMean(rates, window)
	previous := recent
	if len(rates) > window {
		previous = trend.Mean(rates[:len(rates)-window])
	}

	decayRate := 0.0
	if previous > 0 {
		decayRate = (previous - recent) / previous * 100
	}

	switch {
	case decayRate < 10:
		return DecaySlow
	case decayRate < 30:
		return DecayModerate
	default:
		return DecayRapid
	}
}

// riskLevel is a decline×decay matrix: larger drops matter more when
// they are also fast.
func (e *Engagement) riskLevel(declinePercent float64, speed DecaySpeed) RiskLevel {
	switch {
	case declinePercent < 20:
		if speed == DecayRapid {
			return RiskModerate
		}
		return RiskLow
	case declinePercent < 50:
		switch speed {
		case DecaySlow:
			return RiskLow
		case DecayModerate:
			return RiskModerate
		default:
			return RiskHigh
		}
	default:
		switch speed {
		case DecaySlow:
			return RiskModerate
		case DecayModerate:
			return RiskHigh
		default:
			return RiskCritical
		}
	}
}
