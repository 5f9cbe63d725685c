package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendpulse/trendpulse/internal/domain/signals"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate_RejectsBadWeightSum(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Engagement = 0.50

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidWeights)

	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestConfigValidate_RejectsNegativeWeight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Engagement = -0.10
	cfg.Weights.Saturation = 0.65

	assert.ErrorIs(t, cfg.Validate(), ErrInvalidWeights)
}

func TestConfigValidate_RejectsUnorderedCutpoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stages.EarlyDecline = 20 // below Peak

	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestConfigValidate_RejectsOutOfRangeThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WarningThreshold = 120

	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestConfigValidate_RejectsIncompleteCollapseTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Collapse = CollapseTable{StageGrowth: cfg.Collapse[StageGrowth]}

	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestWeights_OfMatchesFields(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, 0.35, w.Of(signals.KindEngagement))
	assert.Equal(t, 0.25, w.Of(signals.KindInfluencer))
	assert.Equal(t, 0.20, w.Of(signals.KindSentiment))
	assert.Equal(t, 0.20, w.Of(signals.KindSaturation))
	assert.InDelta(t, 1.0, w.Sum(), 1e-12)
}

func TestDefaultCollapseTable_CoversAllStagesAndSpeeds(t *testing.T) {
	table := DefaultCollapseTable()
	stages := []Stage{StageGrowth, StagePeak, StageEarlyDecline, StageRapidCollapse, StageDeadTrend}
	speeds := []signals.DecaySpeed{signals.DecaySlow, signals.DecayModerate, signals.DecayRapid}

	for _, stage := range stages {
		byVelocity, ok := table[stage]
		require.True(t, ok, "stage %s", stage)
		for _, speed := range speeds {
			assert.NotEmpty(t, byVelocity[speed], "stage %s speed %s", stage, speed)
		}
	}

	assert.Equal(t, "Already Collapsed", table[StageDeadTrend][signals.DecayRapid])
	assert.Equal(t, "5-10 days", table[StageRapidCollapse][signals.DecayRapid])
}
