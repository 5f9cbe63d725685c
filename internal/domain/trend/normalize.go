package trend

import (
	"math"
	"sort"
	"strings"
	"time"
)

// RawDay is one day of unnormalized platform metrics as supplied by a
// dataset loader. Zero or negative counts are legal; missing numeric
// fields are marked with NaN and imputed during normalization.
type RawDay struct {
	Date            time.Time
	Likes           float64
	Comments        float64
	Shares          float64
	Views           float64
	InfluencerCount float64
	SentimentLabel  string  // positive / neutral / negative, may be empty
	SentimentValue  float64 // optional numeric sentiment, NaN when absent
}

// Normalizer converts raw per-day metrics into the four tracked 0-100
// (or 0-1) dimensions. The saturation horizon is the trend age, in days,
// treated as full saturation.
type Normalizer struct {
	SaturationHorizonDays float64
}

// NewNormalizer returns a normalizer with the default 90-day saturation
// horizon.
func NewNormalizer() *Normalizer {
	return &Normalizer{SaturationHorizonDays: 90}
}

// Sentiment label mapping for categorical inputs.
const (
	sentimentPositive = 0.8
	sentimentNeutral  = 0.5
	sentimentNegative = 0.2
)

// Normalize builds a Series from raw daily metrics. Input is sorted by
// date, missing numeric values are imputed with the series median and
// missing sentiment labels with the series mode, so identical input
// always yields an identical series.
func (n *Normalizer) Normalize(name string, raw []RawDay) (*Series, error) {
	if len(raw) == 0 {
		return nil, ErrEmptySeries
	}

	days := make([]RawDay, len(raw))
	copy(days, raw)
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	days = mergeSameDay(days)

	imputeNumeric(days)
	imputeSentimentLabels(days)

	maxInfluencers := 0.0
	for _, d := range days {
		if d.InfluencerCount > maxInfluencers {
			maxInfluencers = d.InfluencerCount
		}
	}

	start := days[0].Date
	out := &Series{Name: name, Days: make([]Day, len(days))}
	for i, d := range days {
		out.Days[i] = Day{
			Date:            d.Date,
			EngagementRate:  engagementRate(d),
			SentimentScore:  sentimentScore(d),
			InfluencerRatio: influencerRatio(d, maxInfluencers),
			SaturationScore: n.saturationScore(d.Date, start),
		}
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// engagementRate is (likes + comments + shares) / views clipped to [0,1].
// Zero views is a defined zero rate, never a division error.
func engagementRate(d RawDay) float64 {
	if d.Views <= 0 {
		return 0
	}
	return Clamp((d.Likes+d.Comments+d.Shares)/d.Views, 0, 1)
}

func sentimentScore(d RawDay) float64 {
	if !math.IsNaN(d.SentimentValue) {
		return Clamp(d.SentimentValue, 0, 1)
	}
	switch strings.ToLower(strings.TrimSpace(d.SentimentLabel)) {
	case "positive":
		return sentimentPositive
	case "negative":
		return sentimentNegative
	default:
		return sentimentNeutral
	}
}

func influencerRatio(d RawDay, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return Clamp(d.InfluencerCount/max, 0, 1)
}

// saturationScore maps trend age onto 0-100 against the horizon.
func (n *Normalizer) saturationScore(date, start time.Time) float64 {
	horizon := n.SaturationHorizonDays
	if horizon <= 0 {
		horizon = 90
	}
	age := date.Sub(start).Hours() / 24
	return Clamp(age/horizon*100, 0, 100)
}

// mergeSameDay collapses multiple posts on one calendar day into a
// single record: counts are summed, numeric sentiment averaged, and the
// last non-empty label kept. Input must already be date-sorted.
func mergeSameDay(days []RawDay) []RawDay {
	out := days[:0]
	for _, d := range days {
		if len(out) == 0 || !sameDay(out[len(out)-1].Date, d.Date) {
			out = append(out, d)
			continue
		}
		last := &out[len(out)-1]
		last.Likes = addPreservingNaN(last.Likes, d.Likes)
		last.Comments = addPreservingNaN(last.Comments, d.Comments)
		last.Shares = addPreservingNaN(last.Shares, d.Shares)
		last.Views = addPreservingNaN(last.Views, d.Views)
		last.InfluencerCount = addPreservingNaN(last.InfluencerCount, d.InfluencerCount)
		switch {
		case math.IsNaN(last.SentimentValue):
			last.SentimentValue = d.SentimentValue
		case !math.IsNaN(d.SentimentValue):
			last.SentimentValue = (last.SentimentValue + d.SentimentValue) / 2
		}
		if d.SentimentLabel != "" {
			last.SentimentLabel = d.SentimentLabel
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// addPreservingNaN sums two counts while letting a single present value
// survive a missing partner.
func addPreservingNaN(a, b float64) float64 {
	switch {
	case math.IsNaN(a):
		return b
	case math.IsNaN(b):
		return a
	default:
		return a + b
	}
}

// imputeNumeric replaces NaN numeric fields with the median of the
// non-missing values in that column.
func imputeNumeric(days []RawDay) {
	fields := []struct {
		get func(*RawDay) *float64
	}{
		{func(d *RawDay) *float64 { return &d.Likes }},
		{func(d *RawDay) *float64 { return &d.Comments }},
		{func(d *RawDay) *float64 { return &d.Shares }},
		{func(d *RawDay) *float64 { return &d.Views }},
		{func(d *RawDay) *float64 { return &d.InfluencerCount }},
	}

	for _, f := range fields {
		var present []float64
		for i := range days {
			if v := *f.get(&days[i]); !math.IsNaN(v) {
				present = append(present, v)
			}
		}
		fill := median(present)
		for i := range days {
			if math.IsNaN(*f.get(&days[i])) {
				*f.get(&days[i]) = fill
			}
		}
	}
}

// imputeSentimentLabels fills empty labels with the mode of the present
// labels, falling back to neutral. Ties break alphabetically so the fill
// is deterministic.
func imputeSentimentLabels(days []RawDay) {
	counts := map[string]int{}
	for _, d := range days {
		label := strings.ToLower(strings.TrimSpace(d.SentimentLabel))
		if label != "" {
			counts[label]++
		}
	}

	mode := "neutral"
	best := 0
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > best {
			best = counts[k]
			mode = k
		}
	}

	for i := range days {
		if strings.TrimSpace(days[i].SentimentLabel) == "" && math.IsNaN(days[i].SentimentValue) {
			days[i].SentimentLabel = mode
		}
	}
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
