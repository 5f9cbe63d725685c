package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/trendpulse/trendpulse/internal/domain/predict"
	"github.com/trendpulse/trendpulse/internal/domain/signals"
	"github.com/trendpulse/trendpulse/internal/domain/simulate"
)

// TemplateGenerator fills fixed natural-language templates keyed by
// lifecycle stage, risk level and top driver. Deterministic; also the
// fallback when the remote generator is unavailable.
type TemplateGenerator struct{}

// NewTemplateGenerator returns the template-based generator.
func NewTemplateGenerator() *TemplateGenerator { return &TemplateGenerator{} }

// Generate renders the headline narrative.
func (g *TemplateGenerator) Generate(_ context.Context, in Input) (string, error) {
	res := in.Prediction
	if res == nil {
		return "", fmt.Errorf("narrative input has no prediction")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The trend is currently in the %s phase with a %.1f%% decline probability. ",
		res.LifecycleStage, res.DeclineProbability)

	switch res.RiskLevel {
	case signals.RiskCritical:
		b.WriteString("This represents a critical risk level requiring immediate intervention. ")
	case signals.RiskHigh:
		b.WriteString("This indicates high risk and warrants urgent attention. ")
	case signals.RiskModerate:
		b.WriteString("This shows moderate risk that should be monitored closely. ")
	default:
		b.WriteString("The trend remains relatively healthy with manageable risk. ")
	}

	if len(res.Factors) > 0 && !res.Degenerate {
		fmt.Fprintf(&b, "The primary decline driver is %s", res.Factors[0].Signal)
		if len(res.Factors) > 1 {
			fmt.Fprintf(&b, ", followed by %s", res.Factors[1].Signal)
		}
		b.WriteString(". ")
	}

	if res.DaysToCollapse != "" && res.DaysToCollapse != "Unknown" {
		fmt.Fprintf(&b, "Without intervention, the trend is estimated to collapse in %s.", res.DaysToCollapse)
	}

	return b.String(), nil
}

// ExplainSimulation renders a before/after explanation from the
// structured simulation result alone.
func ExplainSimulation(res *simulate.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "In the %q scenario, ", res.ScenarioName)

	if len(res.Applied) > 0 {
		parts := make([]string, 0, len(res.Applied))
		for _, a := range res.Applied {
			parts = append(parts, fmt.Sprintf("%s moves from %.1f to %.1f", a.Signal, a.Before, a.After))
		}
		fmt.Fprintf(&b, "with %s, ", strings.Join(parts, ", "))
	}

	change := res.ProbabilityChange
	switch {
	case change < -10:
		fmt.Fprintf(&b, "the decline risk significantly improves, dropping from %.1f%% to %.1f%%. "+
			"This represents a favorable outcome with reduced collapse risk.", res.OriginalProb, res.NewProb)
	case change < 0:
		fmt.Fprintf(&b, "the decline risk slightly improves from %.1f%% to %.1f%%. "+
			"This shows modest positive impact.", res.OriginalProb, res.NewProb)
	case change > 10:
		fmt.Fprintf(&b, "the decline risk significantly worsens, increasing from %.1f%% to %.1f%%. "+
			"This scenario should be avoided.", res.OriginalProb, res.NewProb)
	default:
		fmt.Fprintf(&b, "the decline risk remains relatively stable at %.1f%%. "+
			"The changes have minimal impact.", res.NewProb)
	}

	if res.OriginalStage != res.NewStage {
		fmt.Fprintf(&b, " The lifecycle stage shifts from %s to %s.", res.OriginalStage, res.NewStage)
	}

	return b.String()
}

// driver-keyed and stage-keyed recommendation templates.
var driverRecommendations = map[signals.Kind][]string{
	signals.KindEngagement: {
		"Launch interactive challenges or contests to boost engagement",
		"Increase posting frequency with high-quality, varied content",
		"Create user-generated content campaigns to drive participation",
	},
	signals.KindInfluencer: {
		"Re-engage key influencers with exclusive partnership opportunities",
		"Identify and activate emerging micro-influencers in the space",
		"Create influencer incentive programs with performance rewards",
	},
	signals.KindSentiment: {
		"Address negative sentiment through transparent communication",
		"Improve content quality based on user feedback",
		"Launch positive PR campaign highlighting success stories",
	},
	signals.KindSaturation: {
		"Introduce fresh variations and creative twists to combat fatigue",
		"Pivot to adjacent niches or sub-trends",
		"Create scarcity through limited-time or exclusive content",
	},
}

var stageRecommendations = map[predict.Stage]string{
	predict.StagePeak:          "Prepare sustainability plan and diversification strategy",
	predict.StageEarlyDecline:  "Implement retention strategies and loyalty programs immediately",
	predict.StageRapidCollapse: "Consider strategic pivot or controlled wind-down to preserve brand equity",
}

const maxRecommendations = 8

// Recommendations assembles deduplicated action items keyed on the top
// driver and lifecycle stage, capped at eight entries.
func Recommendations(res *predict.Result) []string {
	var recs []string

	if len(res.Factors) > 0 && !res.Degenerate {
		top := res.Factors[0]
		if top.Weighted > 10 {
			recs = append(recs, driverRecommendations[top.Signal]...)
		}
	}

	if stageRec, ok := stageRecommendations[res.LifecycleStage]; ok {
		recs = append(recs, stageRec)
	}

	if res.DeclineProbability > 50 {
		recs = append(recs,
			"Partner with major brands for co-branded revival campaign",
			"Create nostalgia-driven content to re-engage original audience",
		)
	}

	recs = append(recs, "Amplify top-performing content through paid promotion")

	seen := make(map[string]bool, len(recs))
	unique := recs[:0]
	for _, r := range recs {
		if !seen[r] {
			seen[r] = true
			unique = append(unique, r)
		}
	}
	if len(unique) > maxRecommendations {
		unique = unique[:maxRecommendations]
	}
	if len(unique) == 0 {
		unique = []string{"Continue current strategy"}
	}
	return unique
}
