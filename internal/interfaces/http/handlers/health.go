package handlers

import (
	"net/http"
	"time"
)

// HealthResponse reports service liveness and the active model
// constants, so operators can confirm which configuration is serving.
type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	UptimeSec float64      `json:"uptime_seconds"`
	Model     ModelSummary `json:"model"`
}

// ModelSummary is the health view of the prediction configuration.
type ModelSummary struct {
	Weights          map[string]float64 `json:"weights"`
	WarningThreshold float64            `json:"warning_threshold"`
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	cfg := h.analyzer.Predictor().Config()

	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		UptimeSec: time.Since(h.started).Seconds(),
		Model: ModelSummary{
			Weights: map[string]float64{
				"engagement": cfg.Weights.Engagement,
				"sentiment":  cfg.Weights.Sentiment,
				"influencer": cfg.Weights.Influencer,
				"saturation": cfg.Weights.Saturation,
			},
			WarningThreshold: cfg.WarningThreshold,
		},
	})
}
