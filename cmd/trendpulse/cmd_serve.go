package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/trendpulse/trendpulse/internal/application/pipeline"
	"github.com/trendpulse/trendpulse/internal/config"
	"github.com/trendpulse/trendpulse/internal/domain/predict"
	"github.com/trendpulse/trendpulse/internal/domain/simulate"
	api "github.com/trendpulse/trendpulse/internal/interfaces/http"
	"github.com/trendpulse/trendpulse/internal/interfaces/http/handlers"
)

var (
	serveHost string
	servePort int
)

// serveCmd runs the analysis HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the trend analysis HTTP API",
	Long: `Start the local JSON API with analyze, simulate, health and Prometheus
metrics endpoints.

Examples:
  trendpulse serve
  trendpulse serve --port 9090
  trendpulse serve --config config/trendpulse.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "Bind host (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Bind port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	predictor, err := predict.New(cfg.Model)
	if err != nil {
		return fmt.Errorf("build predictor: %w", err)
	}
	generator, err := cfg.BuildGenerator()
	if err != nil {
		return fmt.Errorf("build narrative generator: %w", err)
	}

	analyzer := pipeline.NewAnalyzer(predictor, generator)
	engine := simulate.NewEngine(predictor)
	metrics := api.NewMetricsRegistry()
	h := handlers.NewHandlers(analyzer, engine, metrics)

	server, err := api.NewServer(cfg.Server, h, metrics)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
