package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/colony-sim/internal/entropy"
	"github.com/talgya/colony-sim/internal/metrics"
	"github.com/talgya/colony-sim/internal/scenario"
)

// SweepRequest describes a Monte Carlo sweep over shock probabilities.
type SweepRequest struct {
	Trials               int       `json:"trials"`
	Probabilities        []float64 `json:"probabilities"`
	SelectionCoefficient float64   `json:"selection_coefficient"`
	ShockSeverity        float64   `json:"shock_severity"`
	Workers              int       `json:"workers"` // <= 0 uses GOMAXPROCS
	Seed                 *int64    `json:"seed,omitempty"`
}

// Validate checks the request before any trial runs.
func (r SweepRequest) Validate() error {
	if err := scenario.CheckPositive("trials", r.Trials); err != nil {
		return err
	}
	if len(r.Probabilities) == 0 {
		return fmt.Errorf("%w: no shock probabilities to sweep", ErrInvalidParameter)
	}
	for i, p := range r.Probabilities {
		if err := scenario.CheckUnit(fmt.Sprintf("probabilities[%d]", i), p); err != nil {
			return err
		}
	}
	return Params{SelectionCoefficient: r.SelectionCoefficient, ShockSeverity: r.ShockSeverity}.Validate()
}

// Row is the result for one swept probability.
type Row struct {
	Probability float64 `json:"probability" db:"probability"`
	ColonyWins  int     `json:"colony_wins" db:"colony_wins"`
	Trials      int     `json:"trials" db:"trials"`
	Fraction    float64 `json:"fraction" db:"fraction"`
}

// Table is the win fraction table, in the order of the input probabilities.
type Table struct {
	Rows     []Row `json:"rows"`
	RootSeed int64 `json:"root_seed"` // Reproduces the sweep when passed as Seed
}

// Fractions returns the colony win fraction per probability.
func (t *Table) Fractions() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Fraction
	}
	return out
}

// WinFractions runs trials extinction-mode trials per probability and returns
// the fraction won by the colony strategy, one per probability in input order.
func (s *Simulator) WinFractions(ctx context.Context, trials int, probabilities []float64, selection, severity float64) ([]float64, error) {
	table, err := s.Sweep(ctx, SweepRequest{
		Trials:               trials,
		Probabilities:        probabilities,
		SelectionCoefficient: selection,
		ShockSeverity:        severity,
	})
	if err != nil {
		return nil, err
	}
	return table.Fractions(), nil
}

// Sweep runs the request across a bounded pool of workers. Every trial gets
// its own seed stream, derived from one root seed in submission order, so a
// fixed Seed yields the same table for any worker count. Without Seed the
// root seed is drawn from the simulator's entropy source.
func (s *Simulator) Sweep(ctx context.Context, req SweepRequest) (*Table, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var rootSeed int64
	if req.Seed != nil {
		rootSeed = *req.Seed
	} else {
		seed, err := s.entropy.Seed()
		if err != nil {
			return nil, fmt.Errorf("sweep root seed: %w", err)
		}
		rootSeed = seed
	}
	root := entropy.NewDeterministic(rootSeed)

	masters := make([][]int64, len(req.Probabilities))
	for i := range masters {
		masters[i] = make([]int64, req.Trials)
		for j := range masters[i] {
			masters[i][j] = root.Int63()
		}
	}

	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	s.log.Info("sweep started",
		"trials", req.Trials,
		"probabilities", len(req.Probabilities),
		"workers", workers,
		"root_seed", rootSeed,
	)

	start := time.Now()
	wins := make([]atomic.Int64, len(req.Probabilities))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, prob := range req.Probabilities {
		params := Params{
			ShockProbability:     prob,
			SelectionCoefficient: req.SelectionCoefficient,
			ShockSeverity:        req.ShockSeverity,
		}
		for _, master := range masters[i] {
			g.Go(func() error {
				trial, err := s.RunUntilExtinction(gCtx, params, entropy.NewDeterministic(master))
				if err != nil {
					return err
				}
				if trial.Outcome() == ColonyWin {
					wins[i].Add(1)
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}

	table := &Table{Rows: make([]Row, len(req.Probabilities)), RootSeed: rootSeed}
	for i, prob := range req.Probabilities {
		w := int(wins[i].Load())
		table.Rows[i] = Row{
			Probability: prob,
			ColonyWins:  w,
			Trials:      req.Trials,
			Fraction:    float64(w) / float64(req.Trials),
		}
		s.log.Info("probability swept",
			"shock_probability", prob,
			"colony_wins", w,
			"trials", req.Trials,
			"fraction", fmt.Sprintf("%.4f", table.Rows[i].Fraction),
		)
	}

	metrics.ObserveSweep(time.Since(start))
	return table, nil
}
