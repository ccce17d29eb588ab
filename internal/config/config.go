// Package config provides unified configuration loading for colonysim.
// Order: defaults -> YAML file -> COLONYSIM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/talgya/colony-sim/internal/engine"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "COLONYSIM_"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

var validate = validator.New()

// Config contains all colonysim settings.
type Config struct {
	Model   ModelConfig   `yaml:"model" envPrefix:"MODEL_"`
	Sweep   SweepConfig   `yaml:"sweep" envPrefix:"SWEEP_"`
	Store   StoreConfig   `yaml:"store" envPrefix:"STORE_"`
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOG_"`
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`

	// RandomOrgKey enables random.org seeds for live trials.
	RandomOrgKey string `yaml:"random_org_key,omitempty" env:"RANDOM_ORG_KEY"`
}

// ModelConfig holds the constants shared by every trial.
type ModelConfig struct {
	InitialPopulation   float64 `yaml:"initial_population" env:"INITIAL_POPULATION" validate:"gt=0"`
	CarryingCapacity    float64 `yaml:"carrying_capacity" env:"CARRYING_CAPACITY" validate:"gte=0"`
	GrowthRate          float64 `yaml:"growth_rate" env:"GROWTH_RATE" validate:"gt=0"`
	ShockSpread         float64 `yaml:"shock_spread" env:"SHOCK_SPREAD" validate:"gte=0"`
	ExtinctionThreshold float64 `yaml:"extinction_threshold" env:"EXTINCTION_THRESHOLD" validate:"gte=0"`
	// MaxYears caps trials that run until extinction.
	MaxYears int `yaml:"max_years" env:"MAX_YEARS" validate:"gt=0"`
}

// SweepConfig is the default Monte Carlo sweep.
type SweepConfig struct {
	Trials               int       `yaml:"trials" env:"TRIALS" validate:"gt=0"`
	Probabilities        []float64 `yaml:"probabilities" env:"PROBABILITIES" validate:"min=1,dive,gte=0,lte=1"`
	SelectionCoefficient float64   `yaml:"selection_coefficient" env:"SELECTION_COEFFICIENT"`
	ShockSeverity        float64   `yaml:"shock_severity" env:"SHOCK_SEVERITY" validate:"gte=0,lte=1"`
	Workers              int       `yaml:"workers" env:"WORKERS" validate:"gte=0"`
	Seed                 *int64    `yaml:"seed,omitempty" env:"SEED"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path" env:"PATH" validate:"required"`
}

// LoggingConfig configures log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LEVEL" validate:"omitempty,oneof=info debug trace warn error"`
}

// MetricsConfig configures the Prometheus endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr" env:"ADDR"`
}

// Default returns the reference model and a ten-point sweep.
func Default() *Config {
	probs := make([]float64, 11)
	for i := range probs {
		probs[i] = float64(i) / 10
	}
	return &Config{
		Model: ModelConfig{
			InitialPopulation:   engine.DefaultInitialPopulation,
			CarryingCapacity:    engine.DefaultCarryingCapacity,
			GrowthRate:          engine.DefaultGrowthRate,
			ShockSpread:         engine.DefaultShockSpread,
			ExtinctionThreshold: engine.DefaultExtinctionThreshold,
			MaxYears:            engine.DefaultMaxYears,
		},
		Sweep: SweepConfig{
			Trials:               100,
			Probabilities:        probs,
			SelectionCoefficient: 1.0,
			ShockSeverity:        0.5,
		},
		Store:   StoreConfig{Path: "data/colonysim.db"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Engine returns the simulator constants.
func (c *Config) Engine() engine.Config {
	return engine.Config{
		InitialPopulation:   c.Model.InitialPopulation,
		CarryingCapacity:    c.Model.CarryingCapacity,
		GrowthRate:          c.Model.GrowthRate,
		ShockSpread:         c.Model.ShockSpread,
		ExtinctionThreshold: c.Model.ExtinctionThreshold,
		MaxYears:            c.Model.MaxYears,
	}
}

// SweepRequest returns the configured sweep.
func (c *Config) SweepRequest() engine.SweepRequest {
	return engine.SweepRequest{
		Trials:               c.Sweep.Trials,
		Probabilities:        append([]float64(nil), c.Sweep.Probabilities...),
		SelectionCoefficient: c.Sweep.SelectionCoefficient,
		ShockSeverity:        c.Sweep.ShockSeverity,
		Workers:              c.Sweep.Workers,
		Seed:                 c.Sweep.Seed,
	}
}
