package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	flagConfig  string
	flagVerbose bool
)

// rootCmd is the base command for the TrendPulse CLI
var rootCmd = &cobra.Command{
	Use:   "trendpulse",
	Short: "TrendPulse social media trend decline analyzer",
	Long: `TrendPulse scores social media trends for decline risk. It combines
engagement decay, sentiment shift, influencer exodus and content saturation
into a single decline probability with lifecycle staging, collapse estimates
and what-if simulation.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("TrendPulse trend decline analyzer")
		fmt.Println("Use 'trendpulse analyze --input data.csv' to score trends")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

// setupLogging picks console output on a terminal and JSON otherwise,
// so piped output stays machine readable.
func setupLogging() {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if flagVerbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
