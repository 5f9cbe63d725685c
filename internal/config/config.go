// Package config loads the application configuration from YAML, layering
// file values over the documented model defaults and validating the
// result fail-fast.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/trendpulse/trendpulse/internal/domain/predict"
	"github.com/trendpulse/trendpulse/internal/narrative"
)

// ServerConfig holds the HTTP layer settings.
type ServerConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	IdleTimeout  Duration `yaml:"idle_timeout"`
}

// RemoteNarrativeConfig is the YAML surface of the remote narrative
// client.
type RemoteNarrativeConfig struct {
	Endpoint  string   `yaml:"endpoint"`
	Model     string   `yaml:"model"`
	APIKey    string   `yaml:"api_key"`
	Timeout   Duration `yaml:"timeout"`
	MaxTokens int      `yaml:"max_tokens"`
	RPS       float64  `yaml:"rps"`
	Burst     int      `yaml:"burst"`
}

// ToClient converts the YAML surface into the client configuration.
func (r RemoteNarrativeConfig) ToClient() narrative.RemoteConfig {
	return narrative.RemoteConfig{
		Endpoint:  r.Endpoint,
		Model:     r.Model,
		APIKey:    r.APIKey,
		Timeout:   r.Timeout.Std(),
		MaxTokens: r.MaxTokens,
		RPS:       r.RPS,
		Burst:     r.Burst,
	}
}

// NarrativeConfig selects and configures the narrative generator.
type NarrativeConfig struct {
	// Mode is "template" or "remote". Empty defaults to template; remote
	// without an API key falls back to template with a warning.
	Mode   string                `yaml:"mode"`
	Remote RemoteNarrativeConfig `yaml:"remote"`
}

// Config is the full application configuration.
type Config struct {
	Model     predict.Config  `yaml:"model"`
	Server    ServerConfig    `yaml:"server"`
	Narrative NarrativeConfig `yaml:"narrative"`
}

// Default returns the documented defaults: model constants from the
// predictor package, a local-only server, template narratives.
func Default() Config {
	return Config{
		Model: predict.DefaultConfig(),
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			ReadTimeout:  Duration(10 * time.Second),
			WriteTimeout: Duration(10 * time.Second),
			IdleTimeout:  Duration(60 * time.Second),
		},
		Narrative: NarrativeConfig{
			Mode:   "template",
			Remote: defaultRemoteNarrative(),
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	// The API key never belongs in the config file checked into a repo;
	// the environment wins when set.
	if key := os.Getenv("TRENDPULSE_NARRATIVE_API_KEY"); key != "" {
		cfg.Narrative.Remote.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the model constants and server settings.
func (c Config) Validate() error {
	if err := c.Model.Validate(); err != nil {
		return err
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	switch c.Narrative.Mode {
	case "", "template", "remote":
	default:
		return fmt.Errorf("narrative mode %q not one of template, remote", c.Narrative.Mode)
	}
	return nil
}

// defaultRemoteNarrative mirrors the client package defaults onto the
// YAML surface.
func defaultRemoteNarrative() RemoteNarrativeConfig {
	d := narrative.DefaultRemoteConfig()
	return RemoteNarrativeConfig{
		Endpoint:  d.Endpoint,
		Model:     d.Model,
		Timeout:   Duration(d.Timeout),
		MaxTokens: d.MaxTokens,
		RPS:       d.RPS,
		Burst:     d.Burst,
	}
}

// BuildGenerator constructs the configured narrative generator.
func (c Config) BuildGenerator() (narrative.Generator, error) {
	if c.Narrative.Mode == "remote" && c.Narrative.Remote.APIKey != "" {
		return narrative.NewRemoteGenerator(c.Narrative.Remote.ToClient())
	}
	return narrative.NewTemplateGenerator(), nil
}
