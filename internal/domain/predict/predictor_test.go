package predict

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendpulse/trendpulse/internal/domain/signals"
)

func TestPredict_WeightedComposite(t *testing.T) {
	p := NewDefault()

	res, err := p.Predict(SignalSet{
		Engagement: 80,
		Sentiment:  60,
		Influencer: 70,
		Saturation: 75,
		Velocity:   signals.DecayModerate,
	})
	require.NoError(t, err)

	// 80*0.35 + 60*0.20 + 70*0.25 + 75*0.20 = 72.5
	assert.Equal(t, 72.5, res.DeclineProbability)
	assert.Equal(t, StageRapidCollapse, res.LifecycleStage)
	assert.Equal(t, signals.RiskCritical, res.RiskLevel)
	assert.Equal(t, 100.0, res.Confidence)
	assert.Equal(t, "10-15 days", res.DaysToCollapse)
	assert.False(t, res.Clamped)
	assert.False(t, res.Degenerate)
	assert.Empty(t, res.Substituted)

	require.Len(t, res.Factors, 4)
	assert.Equal(t, signals.KindEngagement, res.Factors[0].Signal)
	assert.Equal(t, 1, res.Factors[0].Rank)
	assert.Equal(t, 28.0, res.Factors[0].Weighted)
}

func TestPredict_FactorPercentagesSumToHundred(t *testing.T) {
	p := NewDefault()

	res, err := p.Predict(SignalSet{Engagement: 80, Sentiment: 60, Influencer: 70, Saturation: 75})
	require.NoError(t, err)

	sum := 0.0
	for _, f := range res.Factors {
		sum += f.Percent
	}
	assert.InDelta(t, 100.0, sum, 0.05)

	// Ranks are contiguous and weighted contributions descend.
	for i, f := range res.Factors {
		assert.Equal(t, i+1, f.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, res.Factors[i-1].Weighted, f.Weighted)
		}
	}
}

func TestPredict_AllZeroSignalsIsDegenerate(t *testing.T) {
	p := NewDefault()

	res, err := p.Predict(SignalSet{Engagement: 0, Sentiment: 0, Influencer: 0, Saturation: 0})
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.DeclineProbability)
	assert.Equal(t, StageGrowth, res.LifecycleStage)
	assert.True(t, res.Degenerate)
	for _, f := range res.Factors {
		assert.Equal(t, 0.0, f.Percent)
	}
	assert.False(t, res.EarlyWarning.Active)
}

func TestPredict_MissingSignalSubstitution(t *testing.T) {
	p := NewDefault()

	res, err := p.Predict(SignalSet{
		Engagement: 80,
		Sentiment:  math.NaN(),
		Influencer: 70,
		Saturation: 75,
	})
	require.NoError(t, err)

	// Sentiment replaced by the neutral 50: 28 + 10 + 17.5 + 15 = 70.5
	assert.Equal(t, 70.5, res.DeclineProbability)
	assert.Equal(t, []string{"sentiment"}, res.Substituted)
	assert.Equal(t, 80.0, res.Confidence)
	assert.Equal(t, 50.0, res.SignalScores.Sentiment)
}

func TestPredict_TwoMissingSignalsDoubleThePenalty(t *testing.T) {
	p := NewDefault()

	res, err := p.Predict(SignalSet{
		Engagement: 80,
		Sentiment:  math.NaN(),
		Influencer: math.NaN(),
		Saturation: 75,
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, res.Confidence)
	assert.Len(t, res.Substituted, 2)
}

func TestPredict_AllSignalsMissingFails(t *testing.T) {
	p := NewDefault()

	_, err := p.Predict(MissingSet())
	assert.ErrorIs(t, err, ErrInsufficientSignals)
}

func TestPredict_SignalOutOfRangeFails(t *testing.T) {
	p := NewDefault()

	_, err := p.Predict(SignalSet{Engagement: 120, Sentiment: 50, Influencer: 50, Saturation: 50})
	assert.ErrorIs(t, err, ErrSignalOutOfRange)

	_, err = p.Predict(SignalSet{Engagement: -5, Sentiment: 50, Influencer: 50, Saturation: 50})
	assert.ErrorIs(t, err, ErrSignalOutOfRange)
}

func TestClassifyStage_CoversWholeAxis(t *testing.T) {
	p := NewDefault()

	cases := []struct {
		probability float64
		want        Stage
	}{
		{0, StageGrowth},
		{24.99, StageGrowth},
		{25, StagePeak},
		{44.99, StagePeak},
		{45, StageEarlyDecline},
		{64.99, StageEarlyDecline},
		{65, StageRapidCollapse},
		{84.99, StageRapidCollapse},
		{85, StageDeadTrend},
		{100, StageDeadTrend},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, p.ClassifyStage(tc.probability), "probability %.2f", tc.probability)
	}
}

func TestEarlyWarning_ThresholdBoundary(t *testing.T) {
	p := NewDefault()

	// 44.9 = 0.35*40 + 0.20*40 + 0.25*50 + 0.20*52
	below, err := p.Predict(SignalSet{Engagement: 40, Sentiment: 40, Influencer: 50, Saturation: 52})
	require.NoError(t, err)
	assert.Less(t, below.DeclineProbability, 45.0)
	assert.False(t, below.EarlyWarning.Active)

	// 45.0 = 0.35*40 + 0.20*40 + 0.25*50 + 0.20*52.5
	at, err := p.Predict(SignalSet{Engagement: 40, Sentiment: 40, Influencer: 50, Saturation: 52.5})
	require.NoError(t, err)
	assert.Equal(t, 45.0, at.DeclineProbability)
	assert.True(t, at.EarlyWarning.Active)
	assert.Equal(t, signals.RiskModerate, at.EarlyWarning.Level)
	assert.True(t, at.EarlyWarning.ApproachingCrit)
}

func TestEarlyWarning_LevelBucketsProbability(t *testing.T) {
	p := NewDefault()

	high, err := p.Predict(SignalSet{Engagement: 60, Sentiment: 60, Influencer: 60, Saturation: 60})
	require.NoError(t, err)
	assert.Equal(t, 60.0, high.DeclineProbability)
	assert.Equal(t, signals.RiskHigh, high.EarlyWarning.Level)

	critical, err := p.Predict(SignalSet{Engagement: 80, Sentiment: 80, Influencer: 80, Saturation: 80})
	require.NoError(t, err)
	assert.Equal(t, signals.RiskCritical, critical.EarlyWarning.Level)
	assert.Equal(t, "Already in critical zone", critical.EarlyWarning.DaysToCriticalZone)
	assert.False(t, critical.EarlyWarning.ApproachingCrit)
}

func TestEarlyWarning_CollectsSignalConditions(t *testing.T) {
	p := NewDefault()

	res, err := p.Predict(SignalSet{
		Engagement: 55,
		Sentiment:  35,
		Influencer: 55,
		Saturation: 65,
		Velocity:   signals.DecayRapid,
	})
	require.NoError(t, err)

	w := res.EarlyWarning
	assert.Equal(t, len(w.ActiveWarnings), w.WarningCount)
	assert.Contains(t, w.ActiveWarnings, "Engagement showing early decline signs")
	assert.Contains(t, w.ActiveWarnings, "Influencer disengagement detected")
	assert.Contains(t, w.ActiveWarnings, "Sentiment deterioration observed")
	assert.Contains(t, w.ActiveWarnings, "Market saturation approaching critical levels")
	assert.Contains(t, w.ActiveWarnings, "Rapid decay velocity detected")
	assert.Contains(t, w.ActiveWarnings, "Multiple signals at high risk, cascading failure possible")
}

func TestPredict_DeterministicForIdenticalInput(t *testing.T) {
	p := NewDefault()
	set := SignalSet{Engagement: 66.6, Sentiment: 12.3, Influencer: 45.2, Saturation: 88.8}

	a, err := p.Predict(set)
	require.NoError(t, err)
	b, err := p.Predict(set)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDaysToCollapse_FallsBackToModerate(t *testing.T) {
	cfg := DefaultConfig()
	p, err := New(cfg)
	require.NoError(t, err)

	res, err := p.Predict(SignalSet{Engagement: 50, Sentiment: 50, Influencer: 50, Saturation: 50})
	require.NoError(t, err)
	// Empty velocity defaults to moderate before the lookup.
	assert.Equal(t, "25-35 days", res.DaysToCollapse)
}
