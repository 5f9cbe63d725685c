package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendpulse/trendpulse/internal/domain/trend"
)

// seriesOf builds a series where every dimension is driven by the same
// index, using per-dimension value slices of equal length.
func seriesOf(t *testing.T, engagement, sentiment, influencer, saturation []float64) *trend.Series {
	t.Helper()
	n := len(engagement)
	require.Equal(t, n, len(sentiment))
	require.Equal(t, n, len(influencer))
	require.Equal(t, n, len(saturation))

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	days := make([]trend.Day, n)
	for i := 0; i < n; i++ {
		days[i] = trend.Day{
			Date:            start.AddDate(0, 0, i),
			EngagementRate:  engagement[i],
			SentimentScore:  sentiment[i],
			InfluencerRatio: influencer[i],
			SaturationScore: saturation[i],
		}
	}
	s := &trend.Series{Name: "#fixture", Days: days}
	require.NoError(t, s.Validate())
	return s
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func stepDown(high, low float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i < n/2 {
			out[i] = high
		} else {
			out[i] = low
		}
	}
	return out
}

func TestEngagement_CollapsingTrendIsCritical(t *testing.T) {
	s := seriesOf(t,
		stepDown(0.10, 0.02, 14),
		repeat(0.5, 14),
		repeat(0.5, 14),
		repeat(50, 14),
	)

	res := NewEngagement().Evaluate(s)
	assert.Equal(t, KindEngagement, res.Kind)
	// 80% off peak with rapid decay hits the clamp.
	assert.Equal(t, 100.0, res.Score)
	assert.Equal(t, RiskCritical, res.RiskLevel)
	assert.Equal(t, "rapid decay", res.Label)
	assert.InDelta(t, 80.0, res.Metrics["decline_percent"], 1e-9)
	assert.False(t, res.Substituted)
}

func TestEngagement_FlatTrendIsLowRisk(t *testing.T) {
	s := seriesOf(t, repeat(0.10, 14), repeat(0.5, 14), repeat(0.5, 14), repeat(50, 14))

	res := NewEngagement().Evaluate(s)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, RiskLow, res.RiskLevel)
	assert.Equal(t, "slow decay", res.Label)
}

func TestEngagement_DecaySpeedTiers(t *testing.T) {
	e := NewEngagement()

	flat := seriesOf(t, repeat(0.10, 14), repeat(0.5, 14), repeat(0.5, 14), repeat(50, 14))
	assert.Equal(t, DecaySlow, e.DecaySpeed(flat))

	// 20% drop of the trailing week against the prior period.
	moderate := seriesOf(t, stepDown(0.10, 0.08, 14), repeat(0.5, 14), repeat(0.5, 14), repeat(50, 14))
	assert.Equal(t, DecayModerate, e.DecaySpeed(moderate))

	rapid := seriesOf(t, stepDown(0.10, 0.02, 14), repeat(0.5, 14), repeat(0.5, 14), repeat(50, 14))
	assert.Equal(t, DecayRapid, e.DecaySpeed(rapid))
}

func TestEngagement_MissingDimensionSubstitutes(t *testing.T) {
	s := seriesOf(t, repeat(0, 7), repeat(0.5, 7), repeat(0.5, 7), repeat(50, 7))
	s.Missing = []string{"engagement"}

	res := NewEngagement().Evaluate(s)
	assert.True(t, res.Substituted)
	assert.Equal(t, NeutralScore, res.Score)
	assert.Equal(t, RiskModerate, res.RiskLevel)
	assert.Equal(t, DecayModerate, NewEngagement().DecaySpeed(s))
}

func TestSentiment_PositiveToNegativeShiftIsCritical(t *testing.T) {
	s := seriesOf(t,
		repeat(0.10, 14),
		stepDown(0.8, 0.2, 14),
		repeat(0.5, 14),
		repeat(50, 14),
	)

	res := NewSentiment().Evaluate(s)
	assert.Equal(t, "Positive → Negative", res.Label)
	assert.Equal(t, RiskCritical, res.RiskLevel)
	assert.Equal(t, 100.0, res.Score)
	assert.InDelta(t, -75.0, res.Metrics["change_percent"], 1e-9)
}

func TestSentiment_StableIsLowRisk(t *testing.T) {
	s := seriesOf(t, repeat(0.10, 14), repeat(0.5, 14), repeat(0.5, 14), repeat(50, 14))

	res := NewSentiment().Evaluate(s)
	assert.Equal(t, "Stable", res.Label)
	assert.Equal(t, RiskLow, res.RiskLevel)
	assert.Equal(t, 0.0, res.Score)
}

func TestSentiment_MissingDimensionSubstitutes(t *testing.T) {
	s := seriesOf(t, repeat(0.10, 7), repeat(0.5, 7), repeat(0.5, 7), repeat(50, 7))
	s.Missing = []string{"sentiment"}

	res := NewSentiment().Evaluate(s)
	assert.True(t, res.Substituted)
	assert.Equal(t, NeutralScore, res.Score)
}

func TestInfluencer_ExodusIsCritical(t *testing.T) {
	s := seriesOf(t,
		repeat(0.10, 14),
		repeat(0.5, 14),
		stepDown(1.0, 0.2, 14),
		repeat(50, 14),
	)

	res := NewInfluencer().Evaluate(s)
	assert.Equal(t, RiskCritical, res.RiskLevel)
	assert.Equal(t, "Moderate Disengagement", res.Label)
	assert.InDelta(t, 80.0, res.Metrics["participation_drop_percent"], 1e-9)
	assert.Greater(t, res.Score, 50.0)
}

func TestInfluencer_GrowingParticipationIsLowRisk(t *testing.T) {
	up := make([]float64, 14)
	for i := range up {
		up[i] = 0.2 + float64(i)*0.05
	}
	s := seriesOf(t, repeat(0.10, 14), repeat(0.5, 14), up, repeat(50, 14))

	res := NewInfluencer().Evaluate(s)
	assert.Equal(t, RiskLow, res.RiskLevel)
	assert.Equal(t, "Increasing Engagement", res.Label)
	assert.Less(t, res.Metrics["participation_drop_percent"], 0.0)
}

func TestSaturation_OverexposedTrendIsCritical(t *testing.T) {
	rising := []float64{60, 65, 70, 75, 80, 85, 90}
	s := seriesOf(t, repeat(0.10, 7), repeat(0.5, 7), repeat(0.5, 7), rising)

	res := NewSaturation().Evaluate(s)
	assert.Equal(t, 90.0, res.Score)
	assert.Equal(t, RiskCritical, res.RiskLevel)
	assert.Equal(t, "Extreme repetition risk", res.Label)
	assert.Equal(t, 2.0, res.Metrics["threshold_breaches"])
	assert.Equal(t, 1.0, res.Metrics["fatigue_detected"])
	assert.Equal(t, 3.0, res.Metrics["content_fatigue_breach_day"])
	assert.Equal(t, 6.0, res.Metrics["critical_saturation_breach_day"])
}

func TestSaturation_FreshTrendIsLowRisk(t *testing.T) {
	s := seriesOf(t, repeat(0.10, 7), repeat(0.5, 7), repeat(0.5, 7), repeat(20, 7))

	res := NewSaturation().Evaluate(s)
	assert.Equal(t, 20.0, res.Score)
	assert.Equal(t, RiskLow, res.RiskLevel)
	assert.Equal(t, "Low repetition risk", res.Label)
	assert.Equal(t, 0.0, res.Metrics["fatigue_detected"])
	assert.NotContains(t, res.Metrics, "content_fatigue_breach_day")
	assert.NotContains(t, res.Metrics, "critical_saturation_breach_day")
}

func TestSaturation_TimeToPeakEstimate(t *testing.T) {
	cases := []struct {
		name       string
		saturation []float64
		want       string
	}{
		{
			// velocity 5/day, 5 points left to 95
			name:       "climbing fast",
			saturation: []float64{60, 65, 70, 75, 80, 85, 90},
			want:       "1 days",
		},
		{
			// velocity 0.5/day, 144 days to 95
			name:       "climbing slowly",
			saturation: []float64{20, 20.5, 21, 21.5, 22, 22.5, 23},
			want:       "100+ days",
		},
		{
			name:       "already peaked",
			saturation: repeat(96, 7),
			want:       "Already Peaked",
		},
		{
			name:       "flat",
			saturation: repeat(20, 7),
			want:       "Not Trending to Peak",
		},
		{
			name:       "cooling off",
			saturation: []float64{80, 75, 70, 65, 60, 55, 50},
			want:       "Not Trending to Peak",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := seriesOf(t, repeat(0.10, 7), repeat(0.5, 7), repeat(0.5, 7), tc.saturation)

			res := NewSaturation().Evaluate(s)
			assert.Equal(t, tc.want, res.Details["time_to_peak"])
		})
	}
}

func TestEvaluators_ImplementEvaluator(t *testing.T) {
	evaluators := []Evaluator{NewEngagement(), NewSentiment(), NewInfluencer(), NewSaturation()}
	kinds := map[Kind]bool{}
	for _, e := range evaluators {
		kinds[e.Kind()] = true
	}
	assert.Len(t, kinds, 4)
}
