package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/talgya/colony-sim/internal/config"
	"github.com/talgya/colony-sim/internal/engine"
	"github.com/talgya/colony-sim/internal/entropy"
	"github.com/talgya/colony-sim/internal/growth"
	"github.com/talgya/colony-sim/internal/logging"
	"github.com/talgya/colony-sim/internal/metrics"
	"github.com/talgya/colony-sim/internal/persistence"
)

// app holds what every subcommand shares once flags are parsed.
type app struct {
	cfg     *config.Config
	sim     *engine.Simulator
	seeds   entropy.Source
	db      *persistence.DB
	jsonOut bool
}

func (a *app) init(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	a.jsonOut, _ = cmd.Flags().GetBool("json")

	logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	client := entropy.NewClient(cfg.RandomOrgKey)
	if client.Enabled() {
		slog.Info("random.org seeds enabled")
	}
	a.cfg = cfg
	a.seeds = client
	a.sim = engine.NewSimulator(cfg.Engine(), growth.Logistic).
		WithEntropy(client).
		WithLogger(logger)

	metrics.Serve(cmd.Context(), cfg.Metrics.Addr)
	return nil
}

// store opens the database lazily; only commands that persist need it.
func (a *app) store() (*persistence.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	if dir := filepath.Dir(a.cfg.Store.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := persistence.Open(a.cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	slog.Debug("database opened", "path", a.cfg.Store.Path)
	a.db = db
	return db, nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func (a *app) writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
