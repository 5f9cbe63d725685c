package trend

import (
	"fmt"
	"time"
)

// RollingWindow is the minimum number of daily records required for
// rolling-mean and volatility statistics. Shorter series still analyze,
// but windowed stats collapse to whole-series aggregates.
const RollingWindow = 7

// Day is one normalized daily observation of a trend.
type Day struct {
	Date            time.Time `json:"date"`
	EngagementRate  float64   `json:"engagement_rate"`  // 0-1
	SentimentScore  float64   `json:"sentiment_score"`  // 0-1
	InfluencerRatio float64   `json:"influencer_ratio"` // 0-1
	SaturationScore float64   `json:"saturation_score"` // 0-100
}

// Series is an ordered run of daily records for a single trend,
// sorted by date ascending.
type Series struct {
	Name string `json:"name"`
	Days []Day  `json:"days"`

	// Missing lists dimensions ("engagement", "sentiment", "influencer",
	// "saturation") for which the source dataset carried no usable column.
	// Evaluators substitute a neutral default for these instead of
	// failing, at a confidence cost.
	Missing []string `json:"missing,omitempty"`
}

// HasDimension reports whether the named dimension carried real data.
func (s *Series) HasDimension(name string) bool {
	for _, m := range s.Missing {
		if m == name {
			return false
		}
	}
	return true
}

// Validate checks the structural invariants: at least one record,
// dates strictly ascending, all scores inside their documented ranges.
func (s *Series) Validate() error {
	if len(s.Days) == 0 {
		return fmt.Errorf("series %q: %w", s.Name, ErrEmptySeries)
	}

	for i, d := range s.Days {
		if i > 0 && !s.Days[i-1].Date.Before(d.Date) {
			return fmt.Errorf("series %q: day %d (%s) not after day %d: %w",
				s.Name, i, d.Date.Format("2006-01-02"), i-1, ErrUnsortedSeries)
		}
		if err := checkRange(d.EngagementRate, 0, 1, "engagement_rate"); err != nil {
			return fmt.Errorf("series %q day %d: %w", s.Name, i, err)
		}
		if err := checkRange(d.SentimentScore, 0, 1, "sentiment_score"); err != nil {
			return fmt.Errorf("series %q day %d: %w", s.Name, i, err)
		}
		if err := checkRange(d.InfluencerRatio, 0, 1, "influencer_ratio"); err != nil {
			return fmt.Errorf("series %q day %d: %w", s.Name, i, err)
		}
		if err := checkRange(d.SaturationScore, 0, 100, "saturation_score"); err != nil {
			return fmt.Errorf("series %q day %d: %w", s.Name, i, err)
		}
	}

	return nil
}

func checkRange(v, lo, hi float64, field string) error {
	if v < lo || v > hi {
		return fmt.Errorf("%s=%g outside [%g,%g]: %w", field, v, lo, hi, ErrValueOutOfRange)
	}
	return nil
}

// Len returns the number of daily records.
func (s *Series) Len() int { return len(s.Days) }

// Start returns the first recorded date.
func (s *Series) Start() time.Time {
	if len(s.Days) == 0 {
		return time.Time{}
	}
	return s.Days[0].Date
}

// End returns the last recorded date.
func (s *Series) End() time.Time {
	if len(s.Days) == 0 {
		return time.Time{}
	}
	return s.Days[len(s.Days)-1].Date
}

// EngagementRates extracts the engagement dimension as a slice.
func (s *Series) EngagementRates() []float64 {
	return s.extract(func(d Day) float64 { return d.EngagementRate })
}

// SentimentScores extracts the sentiment dimension as a slice.
func (s *Series) SentimentScores() []float64 {
	return s.extract(func(d Day) float64 { return d.SentimentScore })
}

// InfluencerRatios extracts the influencer dimension as a slice.
func (s *Series) InfluencerRatios() []float64 {
	return s.extract(func(d Day) float64 { return d.InfluencerRatio })
}

// SaturationScores extracts the saturation dimension as a slice.
func (s *Series) SaturationScores() []float64 {
	return s.extract(func(d Day) float64 { return d.SaturationScore })
}

func (s *Series) extract(f func(Day) float64) []float64 {
	out := make([]float64, len(s.Days))
	for i, d := range s.Days {
		out[i] = f(d)
	}
	return out
}
