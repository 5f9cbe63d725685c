package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trendpulse/trendpulse/internal/data"
	"github.com/trendpulse/trendpulse/internal/domain/simulate"
	"github.com/trendpulse/trendpulse/internal/narrative"
)

var (
	simInput           string
	simTrend           string
	simFormat          string
	simEngagementBoost float64
	simInfluencerBoost float64
	simSentimentBoost  float64
	simSaturationDelta float64
	simSuite           bool
)

// simulateCmd runs what-if scenarios against a trend's baseline
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run what-if intervention scenarios for a trend",
	Long: `Analyze a trend's baseline, apply intervention deltas and report the
change in decline probability.

Boosts are fractions: --engagement-boost 0.3 simulates a 30% engagement
recovery. Negative boosts simulate further deterioration.

Examples:
  trendpulse simulate --input data/trends.csv --trend "#DanceChallenge" --engagement-boost 0.3
  trendpulse simulate --input data/trends.csv --trend "#DanceChallenge" --suite`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVar(&simInput, "input", "", "Path to CSV dataset")
	simulateCmd.Flags().StringVar(&simTrend, "trend", "", "Trend to simulate")
	simulateCmd.Flags().StringVar(&simFormat, "format", "table", "Output format: table, json")
	simulateCmd.Flags().Float64Var(&simEngagementBoost, "engagement-boost", 0, "Engagement recovery fraction")
	simulateCmd.Flags().Float64Var(&simInfluencerBoost, "influencer-boost", 0, "Influencer re-engagement fraction")
	simulateCmd.Flags().Float64Var(&simSentimentBoost, "sentiment-boost", 0, "Sentiment improvement fraction")
	simulateCmd.Flags().Float64Var(&simSaturationDelta, "saturation-delta", 0, "Additive saturation change in points")
	simulateCmd.Flags().BoolVar(&simSuite, "suite", false, "Run the optimistic/realistic/pessimistic suite")
	simulateCmd.MarkFlagRequired("input")
	simulateCmd.MarkFlagRequired("trend")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	analyzer, err := buildAnalyzer(false)
	if err != nil {
		return err
	}

	series, err := data.NewLoader().LoadFile(simInput)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	matched := filterSeries(series, simTrend)
	if len(matched) == 0 {
		return fmt.Errorf("trend %q not found in %s", simTrend, simInput)
	}

	report, err := analyzer.Analyze(context.Background(), matched[0])
	if err != nil {
		return fmt.Errorf("baseline analysis: %w", err)
	}
	baseline := report.Prediction.SignalScores

	engine := simulate.NewEngine(analyzer.Predictor())

	if simSuite {
		results, err := engine.RunScenarios(baseline, simulate.DefaultScenarios())
		if err != nil {
			return err
		}
		if strings.ToLower(simFormat) == "json" {
			return outputJSON(results)
		}
		return outputScenarioTable(results)
	}

	deltas := simulate.Deltas{
		EngagementBoost: simEngagementBoost,
		InfluencerBoost: simInfluencerBoost,
		SentimentBoost:  simSentimentBoost,
		SaturationDelta: simSaturationDelta,
	}
	result, err := engine.Simulate(baseline, deltas, "custom")
	if err != nil {
		return err
	}

	if strings.ToLower(simFormat) == "json" {
		return outputJSON(result)
	}
	fmt.Println(narrative.ExplainSimulation(result))
	return nil
}

func outputScenarioTable(results map[string]*simulate.Result) error {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tBEFORE\tAFTER\tCHANGE\tSTAGE\tIMPACT\tRECOVERY")
	for _, id := range ids {
		r := results[id]
		fmt.Fprintf(w, "%s\t%.1f%%\t%.1f%%\t%+.1f\t%s\t%s\t%s\n",
			r.ScenarioName,
			r.OriginalProb,
			r.NewProb,
			r.ProbabilityChange,
			r.NewStage,
			r.ImpactCategory,
			r.RecoveryPotential,
		)
	}
	return w.Flush()
}
