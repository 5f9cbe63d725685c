// Package handlers implements the JSON endpoint handlers for the
// analysis API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/trendpulse/trendpulse/internal/application/pipeline"
	"github.com/trendpulse/trendpulse/internal/domain/simulate"
	"github.com/trendpulse/trendpulse/internal/domain/trend"
)

// Metrics is the slice of the metrics registry the handlers record to.
type Metrics interface {
	ObserveAnalysis(stage, warningLevel string, warned bool, elapsed time.Duration, err error)
	ObserveSimulation(change float64)
}

// noopMetrics lets the handlers run without a registry, as in tests.
type noopMetrics struct{}

func (noopMetrics) ObserveAnalysis(string, string, bool, time.Duration, error) {}
func (noopMetrics) ObserveSimulation(float64)                                  {}

// Handlers holds the endpoint dependencies.
type Handlers struct {
	analyzer   *pipeline.Analyzer
	engine     *simulate.Engine
	normalizer *trend.Normalizer
	metrics    Metrics
	started    time.Time
}

// NewHandlers wires the endpoints to an analyzer and its simulation
// engine. A nil metrics falls back to a no-op recorder.
func NewHandlers(analyzer *pipeline.Analyzer, engine *simulate.Engine, metrics Metrics) *Handlers {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Handlers{
		analyzer:   analyzer,
		engine:     engine,
		normalizer: trend.NewNormalizer(),
		metrics:    metrics,
		started:    time.Now(),
	}
}

type contextKey int

const requestIDKey contextKey = iota

// WithRequestID stores the request identifier the error payloads echo
// back. The server middleware calls this for every request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// writeJSON writes a JSON response with proper error handling.
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"json_encoding_failed"}`, http.StatusInternalServerError)
	}
}

// writeError writes a standardized error response.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID, _ := r.Context().Value(requestIDKey).(string)
	if requestID == "" {
		requestID = "unknown"
	}

	h.writeJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      code,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
	})
}

// decode reads a JSON request body, rejecting unknown fields so typos
// in scenario payloads surface as errors instead of silent zeros.
func (h *Handlers) decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// NotFound handles 404 responses.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.writeError(w, r, http.StatusNotFound, "endpoint_not_found",
		"The requested endpoint does not exist")
}
