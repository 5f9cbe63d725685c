package handlers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/trendpulse/trendpulse/internal/domain/trend"
)

// DayInput is one raw day of platform metrics in an analyze request.
// Optional fields left out of the JSON are imputed during
// normalization.
type DayInput struct {
	Date            string   `json:"date"`
	Likes           float64  `json:"likes"`
	Comments        float64  `json:"comments"`
	Shares          float64  `json:"shares"`
	Views           float64  `json:"views"`
	InfluencerCount float64  `json:"influencer_count"`
	Sentiment       string   `json:"sentiment,omitempty"`
	SentimentScore  *float64 `json:"sentiment_score,omitempty"`
}

// AnalyzeRequest is the POST /analyze payload.
type AnalyzeRequest struct {
	TrendName string     `json:"trend_name"`
	Days      []DayInput `json:"days"`
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func (d DayInput) raw() (trend.RawDay, error) {
	var date time.Time
	var err error
	for _, layout := range dateLayouts {
		if date, err = time.Parse(layout, d.Date); err == nil {
			break
		}
	}
	if err != nil {
		return trend.RawDay{}, err
	}

	score := math.NaN()
	if d.SentimentScore != nil {
		score = *d.SentimentScore
	}
	return trend.RawDay{
		Date:            date,
		Likes:           d.Likes,
		Comments:        d.Comments,
		Shares:          d.Shares,
		Views:           d.Views,
		InfluencerCount: d.InfluencerCount,
		SentimentLabel:  d.Sentiment,
		SentimentValue:  score,
	}, nil
}

// Analyze handles POST /analyze: normalize the submitted daily metrics
// and run the full prediction pipeline.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.TrendName == "" {
		h.writeError(w, r, http.StatusBadRequest, "missing_trend_name", "trend_name is required")
		return
	}
	if len(req.Days) == 0 {
		h.writeError(w, r, http.StatusBadRequest, "missing_days", "at least one day of metrics is required")
		return
	}

	raw := make([]trend.RawDay, 0, len(req.Days))
	for i, d := range req.Days {
		rd, err := d.raw()
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, "invalid_date",
				"day "+req.Days[i].Date+": unrecognized date format")
			return
		}
		raw = append(raw, rd)
	}

	series, err := h.normalizer.Normalize(req.TrendName, raw)
	if err != nil {
		h.writeError(w, r, http.StatusUnprocessableEntity, "normalization_failed", err.Error())
		return
	}

	start := time.Now()
	report, err := h.analyzer.Analyze(r.Context(), series)
	if err != nil {
		h.metrics.ObserveAnalysis("", "", false, time.Since(start), err)
		if errors.Is(err, trend.ErrValueOutOfRange) {
			h.writeError(w, r, http.StatusUnprocessableEntity, "value_out_of_range", err.Error())
			return
		}
		h.writeError(w, r, http.StatusInternalServerError, "analysis_failed", err.Error())
		return
	}

	warning := report.Prediction.EarlyWarning
	h.metrics.ObserveAnalysis(string(report.Prediction.LifecycleStage),
		string(warning.Level), warning.Active, time.Since(start), nil)

	h.writeJSON(w, http.StatusOK, report)
}
