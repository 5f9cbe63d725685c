package handlers

import (
	"errors"
	"math"
	"net/http"

	"github.com/trendpulse/trendpulse/internal/domain/predict"
	"github.com/trendpulse/trendpulse/internal/domain/signals"
	"github.com/trendpulse/trendpulse/internal/domain/simulate"
	"github.com/trendpulse/trendpulse/internal/narrative"
)

// signalVelocity maps the optional velocity field onto a decay speed,
// defaulting to moderate for unknown or empty values.
func signalVelocity(raw string) signals.DecaySpeed {
	switch signals.DecaySpeed(raw) {
	case signals.DecaySlow, signals.DecayModerate, signals.DecayRapid:
		return signals.DecaySpeed(raw)
	default:
		return signals.DecayModerate
	}
}

// SignalInput carries baseline signal scores for a simulation. Nil
// fields are treated as missing and substituted with the neutral
// default, mirroring the analysis pipeline.
type SignalInput struct {
	Engagement *float64 `json:"engagement"`
	Sentiment  *float64 `json:"sentiment"`
	Influencer *float64 `json:"influencer"`
	Saturation *float64 `json:"saturation"`
	Velocity   string   `json:"velocity,omitempty"`
}

func (s SignalInput) set() predict.SignalSet {
	val := func(p *float64) float64 {
		if p == nil {
			return math.NaN()
		}
		return *p
	}
	velocity := signalVelocity(s.Velocity)
	return predict.SignalSet{
		Engagement: val(s.Engagement),
		Sentiment:  val(s.Sentiment),
		Influencer: val(s.Influencer),
		Saturation: val(s.Saturation),
		Velocity:   velocity,
	}
}

// SimulateRequest is the POST /simulate payload.
type SimulateRequest struct {
	ScenarioName string          `json:"scenario_name"`
	Signals      SignalInput     `json:"signals"`
	Changes      simulate.Deltas `json:"changes"`
}

// SimulateResponse wraps the engine result with its explanation.
type SimulateResponse struct {
	*simulate.Result
	Explanation string `json:"explanation"`
}

// ScenariosRequest is the POST /simulate/scenarios payload. An empty
// scenario list runs the canned optimistic, realistic and pessimistic
// suite.
type ScenariosRequest struct {
	Signals   SignalInput         `json:"signals"`
	Scenarios []simulate.Scenario `json:"scenarios,omitempty"`
}

// Simulate handles POST /simulate: rerun the decline model for one
// what-if scenario against the supplied baseline signals.
func (h *Handlers) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	name := req.ScenarioName
	if name == "" {
		name = "custom"
	}

	result, err := h.engine.Simulate(req.Signals.set(), req.Changes, name)
	if err != nil {
		h.simulateError(w, r, err)
		return
	}
	h.metrics.ObserveSimulation(result.ProbabilityChange)

	h.writeJSON(w, http.StatusOK, SimulateResponse{
		Result:      result,
		Explanation: narrative.ExplainSimulation(result),
	})
}

// Scenarios handles POST /simulate/scenarios: run a suite of scenarios
// against one baseline and return the comparative results by name.
func (h *Handlers) Scenarios(w http.ResponseWriter, r *http.Request) {
	var req ScenariosRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	scenarios := req.Scenarios
	if len(scenarios) == 0 {
		scenarios = simulate.DefaultScenarios()
	}

	results, err := h.engine.RunScenarios(req.Signals.set(), scenarios)
	if err != nil {
		h.simulateError(w, r, err)
		return
	}

	out := make(map[string]SimulateResponse, len(results))
	for name, res := range results {
		h.metrics.ObserveSimulation(res.ProbabilityChange)
		out[name] = SimulateResponse{Result: res, Explanation: narrative.ExplainSimulation(res)}
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) simulateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, predict.ErrInsufficientSignals):
		h.writeError(w, r, http.StatusUnprocessableEntity, "insufficient_signals", err.Error())
	case errors.Is(err, predict.ErrSignalOutOfRange):
		h.writeError(w, r, http.StatusUnprocessableEntity, "signal_out_of_range", err.Error())
	default:
		h.writeError(w, r, http.StatusInternalServerError, "simulation_failed", err.Error())
	}
}
