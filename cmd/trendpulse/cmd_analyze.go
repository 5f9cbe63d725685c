package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/trendpulse/trendpulse/internal/application/pipeline"
	"github.com/trendpulse/trendpulse/internal/config"
	"github.com/trendpulse/trendpulse/internal/data"
	"github.com/trendpulse/trendpulse/internal/domain/predict"
	"github.com/trendpulse/trendpulse/internal/domain/trend"
)

var (
	analyzeInput     string
	analyzeTrend     string
	analyzeFormat    string
	analyzeNarrative bool
)

// analyzeCmd scores every trend in a CSV dataset
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score trends in a CSV dataset for decline risk",
	Long: `Load daily trend metrics from a CSV file, normalize them and run the
full decline analysis for each trend.

Examples:
  trendpulse analyze --input data/trends.csv
  trendpulse analyze --input data/trends.csv --trend "#DanceChallenge"
  trendpulse analyze --input data/trends.csv --format json --narrative`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "Path to CSV dataset")
	analyzeCmd.Flags().StringVar(&analyzeTrend, "trend", "", "Analyze only the named trend")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "table", "Output format: table, json")
	analyzeCmd.Flags().BoolVar(&analyzeNarrative, "narrative", false, "Include the narrative summary")
	analyzeCmd.MarkFlagRequired("input")
}

// buildAnalyzer assembles the pipeline from the configuration file.
func buildAnalyzer(withNarrative bool) (*pipeline.Analyzer, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	predictor, err := predict.New(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("build predictor: %w", err)
	}

	if withNarrative {
		generator, err := cfg.BuildGenerator()
		if err != nil {
			return nil, fmt.Errorf("build narrative generator: %w", err)
		}
		return pipeline.NewAnalyzer(predictor, generator), nil
	}
	return pipeline.NewAnalyzer(predictor, nil), nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	analyzer, err := buildAnalyzer(analyzeNarrative)
	if err != nil {
		return err
	}

	series, err := data.NewLoader().LoadFile(analyzeInput)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if analyzeTrend != "" {
		series = filterSeries(series, analyzeTrend)
		if len(series) == 0 {
			return fmt.Errorf("trend %q not found in %s", analyzeTrend, analyzeInput)
		}
	}

	ctx := context.Background()
	reports := make([]*pipeline.Report, 0, len(series))
	for _, s := range series {
		report, err := analyzer.Analyze(ctx, s)
		if err != nil {
			log.Error().Err(err).Str("trend", s.Name).Msg("Analysis failed")
			continue
		}
		reports = append(reports, report)
	}
	if len(reports) == 0 {
		return fmt.Errorf("no trend could be analyzed")
	}

	switch strings.ToLower(analyzeFormat) {
	case "json":
		return outputJSON(reports)
	default:
		return outputAnalysisTable(reports)
	}
}

func filterSeries(series []*trend.Series, name string) []*trend.Series {
	out := series[:0]
	for _, s := range series {
		if strings.EqualFold(s.Name, name) {
			out = append(out, s)
		}
	}
	return out
}

func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func outputAnalysisTable(reports []*pipeline.Report) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TREND\tPROBABILITY\tSTAGE\tRISK\tCOLLAPSE\tCONFIDENCE\tTOP DRIVER")

	for _, r := range reports {
		p := r.Prediction
		topDriver := "-"
		if len(p.Factors) > 0 {
			topDriver = string(p.Factors[0].Signal)
		}
		fmt.Fprintf(w, "%s\t%.1f%%\t%s\t%s\t%s\t%.0f%%\t%s\n",
			r.Metadata.TrendName,
			p.DeclineProbability,
			p.LifecycleStage,
			p.RiskLevel,
			p.DaysToCollapse,
			p.Confidence,
			topDriver,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, r := range reports {
		if r.Prediction.EarlyWarning.Active {
			fmt.Printf("\n⚠ %s: %s warning. %s\n",
				r.Metadata.TrendName,
				r.Prediction.EarlyWarning.Level,
				r.Prediction.EarlyWarning.RecommendedAction)
		}
		if analyzeNarrative && r.Narrative != "" {
			fmt.Printf("\n%s\n", r.Narrative)
		}
	}
	return nil
}
