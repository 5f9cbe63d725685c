package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// RemoteConfig configures the external completion service client.
type RemoteConfig struct {
	Endpoint  string
	Model     string
	APIKey    string
	Timeout   time.Duration
	MaxTokens int
	// RPS bounds outbound calls; the default 1 rps with burst 2 keeps a
	// dashboard refresh loop inside typical free-tier quotas.
	RPS   float64
	Burst int
}

// DefaultRemoteConfig returns conservative client defaults.
func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		Endpoint:  "https://api.featherless.ai/v1/completions",
		Model:     "mistralai/Mistral-7B-Instruct-v0.2",
		Timeout:   30 * time.Second,
		MaxTokens: 400,
		RPS:       1,
		Burst:     2,
	}
}

// RemoteGenerator calls an external completion API for the narrative and
// falls back to the template generator on any failure. A circuit breaker
// sheds load once the upstream starts failing, so a dead narrative
// service never slows analysis calls down to their timeout.
type RemoteGenerator struct {
	cfg      RemoteConfig
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	limiter  *rate.Limiter
	fallback *TemplateGenerator
}

// NewRemoteGenerator builds the remote generator. The API key is
// required; configuration without one should select the template
// generator instead.
func NewRemoteGenerator(cfg RemoteConfig) (*RemoteGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("remote narrative generator requires an API key")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("remote narrative generator requires an endpoint")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRemoteConfig().Timeout
	}
	if cfg.RPS <= 0 {
		cfg.RPS = DefaultRemoteConfig().RPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRemoteConfig().Burst
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultRemoteConfig().MaxTokens
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "narrative-api",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("Narrative API circuit breaker state change")
		},
	})

	return &RemoteGenerator{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		breaker:  breaker,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		fallback: NewTemplateGenerator(),
	}, nil
}

type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// Generate asks the completion service for a narrative, falling back to
// templates on rate-limit exhaustion, breaker open, transport failure or
// an empty completion.
func (g *RemoteGenerator) Generate(ctx context.Context, in Input) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return g.fallbackWith(ctx, in, err)
	}

	text, err := g.breaker.Execute(func() (interface{}, error) {
		return g.complete(ctx, in)
	})
	if err != nil {
		return g.fallbackWith(ctx, in, err)
	}

	narrative := strings.TrimSpace(text.(string))
	if narrative == "" {
		return g.fallbackWith(ctx, in, fmt.Errorf("empty completion"))
	}
	return narrative, nil
}

func (g *RemoteGenerator) fallbackWith(ctx context.Context, in Input, cause error) (string, error) {
	log.Warn().Err(cause).Str("trend", in.TrendName).
		Msg("Remote narrative unavailable, using template fallback")
	return g.fallback.Generate(ctx, in)
}

func (g *RemoteGenerator) complete(ctx context.Context, in Input) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       g.cfg.Model,
		Prompt:      buildPrompt(in),
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: 0.7,
		TopP:        0.9,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completion API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion API returned %d", resp.StatusCode)
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Text, nil
}

func buildPrompt(in Input) string {
	res := in.Prediction

	drivers := make([]string, 0, 3)
	for i, f := range res.Factors {
		if i >= 3 {
			break
		}
		drivers = append(drivers, string(f.Signal))
	}

	return fmt.Sprintf(`You are a social media trend analyst. Analyze this trend decline prediction and explain it clearly.

Trend Analysis:
- Trend: %s
- Decline Probability: %.1f%%
- Lifecycle Stage: %s
- Risk Level: %s
- Top Decline Drivers: %s

Provide a concise business explanation (3-4 sentences) covering:
1. Why the trend is declining
2. Key decline drivers
3. Business interpretation
4. Strategic outlook

Response:`, in.TrendName, res.DeclineProbability, res.LifecycleStage, res.RiskLevel,
		strings.Join(drivers, ", "))
}
