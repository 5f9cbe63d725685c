package trend

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawDay(date string, likes, comments, shares, views, influencers float64, sentiment string) RawDay {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return RawDay{
		Date:            d,
		Likes:           likes,
		Comments:        comments,
		Shares:          shares,
		Views:           views,
		InfluencerCount: influencers,
		SentimentLabel:  sentiment,
		SentimentValue:  math.NaN(),
	}
}

func TestNormalize_BuildsOrderedSeries(t *testing.T) {
	n := NewNormalizer()

	// Supplied out of order on purpose.
	raw := []RawDay{
		rawDay("2026-01-03", 500, 100, 50, 10000, 5, "neutral"),
		rawDay("2026-01-01", 1000, 200, 100, 10000, 10, "positive"),
		rawDay("2026-01-02", 800, 150, 80, 10000, 8, "positive"),
	}

	s, err := n.Normalize("#dance", raw)
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	require.Equal(t, 3, s.Len())

	// (1000+200+100)/10000 = 0.13 on the first day.
	assert.InDelta(t, 0.13, s.Days[0].EngagementRate, 1e-9)
	assert.Equal(t, "2026-01-01", s.Start().Format("2006-01-02"))

	// Influencer ratio normalized against the series maximum.
	assert.InDelta(t, 1.0, s.Days[0].InfluencerRatio, 1e-9)
	assert.InDelta(t, 0.5, s.Days[2].InfluencerRatio, 1e-9)

	// Sentiment labels map onto the fixed scale.
	assert.InDelta(t, 0.8, s.Days[0].SentimentScore, 1e-9)
	assert.InDelta(t, 0.5, s.Days[2].SentimentScore, 1e-9)

	// Saturation grows with age against the 90-day horizon.
	assert.InDelta(t, 0.0, s.Days[0].SaturationScore, 1e-9)
	assert.InDelta(t, 2.0/90*100, s.Days[2].SaturationScore, 1e-9)
}

func TestNormalize_EmptyInputFails(t *testing.T) {
	_, err := NewNormalizer().Normalize("#empty", nil)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestNormalize_ZeroViewsIsZeroEngagement(t *testing.T) {
	s, err := NewNormalizer().Normalize("#dead", []RawDay{
		rawDay("2026-01-01", 100, 10, 5, 0, 2, "neutral"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Days[0].EngagementRate)
}

func TestNormalize_MergesSameDayPosts(t *testing.T) {
	raw := []RawDay{
		rawDay("2026-01-01", 100, 10, 5, 1000, 2, "positive"),
		rawDay("2026-01-01", 200, 20, 15, 1000, 3, "positive"),
		rawDay("2026-01-02", 150, 15, 10, 1000, 2, "neutral"),
	}

	s, err := NewNormalizer().Normalize("#merged", raw)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	// Counts summed: (300+30+20)/2000 = 0.175.
	assert.InDelta(t, 0.175, s.Days[0].EngagementRate, 1e-9)
}

func TestNormalize_ImputesMissingNumericValues(t *testing.T) {
	missing := rawDay("2026-01-02", math.NaN(), 10, 5, 1000, 2, "neutral")

	s, err := NewNormalizer().Normalize("#sparse", []RawDay{
		rawDay("2026-01-01", 100, 10, 5, 1000, 2, "neutral"),
		missing,
		rawDay("2026-01-03", 300, 10, 5, 1000, 2, "neutral"),
	})
	require.NoError(t, err)

	// Likes imputed with the median of 100 and 300.
	assert.InDelta(t, (200.0+10+5)/1000, s.Days[1].EngagementRate, 1e-9)
}

func TestNormalize_ImputesSentimentLabelWithMode(t *testing.T) {
	s, err := NewNormalizer().Normalize("#mode", []RawDay{
		rawDay("2026-01-01", 1, 1, 1, 100, 1, "negative"),
		rawDay("2026-01-02", 1, 1, 1, 100, 1, "negative"),
		rawDay("2026-01-03", 1, 1, 1, 100, 1, ""),
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, s.Days[2].SentimentScore, 1e-9)
}

func TestNormalize_NumericSentimentWinsOverLabel(t *testing.T) {
	raw := rawDay("2026-01-01", 1, 1, 1, 100, 1, "positive")
	raw.SentimentValue = 0.33

	s, err := NewNormalizer().Normalize("#numeric", []RawDay{raw})
	require.NoError(t, err)
	assert.InDelta(t, 0.33, s.Days[0].SentimentScore, 1e-9)
}

func TestNormalize_IsDeterministic(t *testing.T) {
	raw := []RawDay{
		rawDay("2026-01-01", 100, 10, 5, 1000, 2, "positive"),
		rawDay("2026-01-02", 90, 9, 4, 1000, 2, ""),
		rawDay("2026-01-03", math.NaN(), 8, 3, 1000, 1, "neutral"),
	}

	a, err := NewNormalizer().Normalize("#det", raw)
	require.NoError(t, err)
	b, err := NewNormalizer().Normalize("#det", raw)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
