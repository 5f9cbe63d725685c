package signals

import (
	"fmt"

	"github.com/trendpulse/trendpulse/internal/domain/trend"
)

// PeakThreshold is the saturation score treated as full market
// penetration when projecting time to peak.
const PeakThreshold = 95.0

// Saturation reads market penetration and flags content fatigue.
type Saturation struct {
	FatigueThreshold  float64
	CriticalThreshold float64
	SafeThreshold     float64
}

// NewSaturation returns the saturation evaluator with the documented
// fatigue (70), critical (85) and safe (50) thresholds.
func NewSaturation() *Saturation {
	return &Saturation{
		FatigueThreshold:  70,
		CriticalThreshold: 85,
		SafeThreshold:     50,
	}
}

func (a *Saturation) Kind() Kind { return KindSaturation }

// Evaluate reads the current saturation score (already 0-100, so it is
// the decline score directly), measures the saturation velocity over the
// trailing week, and grades fatigue and repetition risk.
func (a *Saturation) Evaluate(s *trend.Series) Result {
	if !s.HasDimension("saturation") || s.Len() == 0 {
		return neutral(KindSaturation)
	}

	scores := s.SaturationScores()
	current := trend.Last(scores)
	velocity := trend.Slope(scores, trend.RollingWindow)
	breaches := a.detectBreaches(scores)
	risk := a.impactLevel(current, velocity, len(breaches))

	fatigue := 0.0
	if current >= a.FatigueThreshold {
		fatigue = 1
	}

	metrics := map[string]float64{
		"current_saturation":  current,
		"peak_saturation":     trend.Peak(scores),
		"average_saturation":  trend.Mean(scores),
		"saturation_velocity": velocity,
		"threshold_breaches":  float64(len(breaches)),
		"fatigue_detected":    fatigue,
	}
	for _, b := range breaches {
		metrics[b.name+"_breach_day"] = float64(b.day)
	}

	return Result{
		Kind:      KindSaturation,
		Score:     trend.Clamp(current, 0, 100),
		RiskLevel: risk,
		Label:     a.repetitionRisk(current, velocity) + " repetition risk",
		Metrics:   metrics,
		Details: map[string]string{
			"time_to_peak": a.timeToPeak(current, velocity),
		},
	}
}

// thresholdBreach records the first day a saturation threshold was
// crossed. Days are 1-indexed from the start of the series.
type thresholdBreach struct {
	name string
	day  int
}

// detectBreaches reports the first crossing of the fatigue and critical
// thresholds, in that order.
func (a *Saturation) detectBreaches(scores []float64) []thresholdBreach {
	var breaches []thresholdBreach
	for _, t := range []struct {
		name  string
		value float64
	}{
		{"content_fatigue", a.FatigueThreshold},
		{"critical_saturation", a.CriticalThreshold},
	} {
		for i, v := range scores {
			if v >= t.value {
				breaches = append(breaches, thresholdBreach{name: t.name, day: i + 1})
				break
			}
		}
	}
	return breaches
}

// timeToPeak projects how many days the trend needs to reach peak
// saturation at the current velocity.
func (a *Saturation) timeToPeak(current, velocity float64) string {
	if current >= PeakThreshold {
		return "Already Peaked"
	}
	if velocity <= 0 {
		return "Not Trending to Peak"
	}
	days := int((PeakThreshold - current) / velocity)
	if days > 100 {
		return "100+ days"
	}
	return fmt.Sprintf("%d days", days)
}

func (a *Saturation) repetitionRisk(current, velocity float64) string {
	switch {
	case current >= a.CriticalThreshold && velocity > 1.5:
		return "Extreme"
	case current >= a.FatigueThreshold && velocity > 1.0:
		return "High"
	case current >= a.SafeThreshold:
		return "Moderate"
	default:
		return "Low"
	}
}

func (a *Saturation) impactLevel(current, velocity float64, breaches int) RiskLevel {
	switch {
	case current >= a.CriticalThreshold || breaches >= 2:
		return RiskCritical
	case current >= a.FatigueThreshold || (current >= 60 && velocity > 1.5):
		return RiskHigh
	case current >= a.SafeThreshold || velocity > 1.0:
		return RiskModerate
	default:
		return RiskLow
	}
}
