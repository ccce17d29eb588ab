package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/colony-sim/internal/engine"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, engine.DefaultConfig(), cfg.Engine())
	assert.Equal(t, 100, cfg.Sweep.Trials)
	assert.Len(t, cfg.Sweep.Probabilities, 11)
	assert.Equal(t, 0.0, cfg.Sweep.Probabilities[0])
	assert.Equal(t, 1.0, cfg.Sweep.Probabilities[10])
	assert.Nil(t, cfg.Sweep.Seed)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colonysim.yaml")
	content := `
model:
  max_years: 500
  growth_rate: 1.2
sweep:
  trials: 250
  probabilities: [0.1, 0.2]
  shock_severity: 0.9
  seed: 12
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Model.MaxYears)
	assert.Equal(t, 1.2, cfg.Model.GrowthRate)
	assert.Equal(t, float64(engine.DefaultCarryingCapacity), cfg.Model.CarryingCapacity, "unset keys keep defaults")
	assert.Equal(t, 250, cfg.Sweep.Trials)
	assert.Equal(t, []float64{0.1, 0.2}, cfg.Sweep.Probabilities)
	require.NotNil(t, cfg.Sweep.Seed)
	assert.Equal(t, int64(12), *cfg.Sweep.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)

	req := cfg.SweepRequest()
	assert.Equal(t, 250, req.Trials)
	assert.Equal(t, 0.9, req.ShockSeverity)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COLONYSIM_SWEEP_TRIALS", "42")
	t.Setenv("COLONYSIM_SWEEP_PROBABILITIES", "0.3,0.6")
	t.Setenv("COLONYSIM_MODEL_MAX_YEARS", "77")
	t.Setenv("COLONYSIM_STORE_PATH", "/tmp/runs.db")
	t.Setenv("COLONYSIM_LOG_LEVEL", "trace")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Sweep.Trials)
	assert.Equal(t, []float64{0.3, 0.6}, cfg.Sweep.Probabilities)
	assert.Equal(t, 77, cfg.Model.MaxYears)
	assert.Equal(t, "/tmp/runs.db", cfg.Store.Path)
	assert.Equal(t, "trace", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero trials", func(c *Config) { c.Sweep.Trials = 0 }},
		{"probability above one", func(c *Config) { c.Sweep.Probabilities = []float64{0.5, 1.1} }},
		{"no probabilities", func(c *Config) { c.Sweep.Probabilities = nil }},
		{"severity negative", func(c *Config) { c.Sweep.ShockSeverity = -0.2 }},
		{"zero max years", func(c *Config) { c.Model.MaxYears = 0 }},
		{"zero growth rate", func(c *Config) { c.Model.GrowthRate = 0 }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"empty store path", func(c *Config) { c.Store.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}
