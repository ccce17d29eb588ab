package engine

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/talgya/colony-sim/internal/entropy"
	"github.com/talgya/colony-sim/internal/ledger"
	"github.com/talgya/colony-sim/internal/logging"
	"github.com/talgya/colony-sim/internal/metrics"
	"github.com/talgya/colony-sim/internal/scenario"
)

// yearStream is the fixed second PCG word; the year seed supplies the first.
const yearStream = 0x9e3779b97f4a7c15

// seedFunc yields the seed for a year: drawn and recorded live, or read back
// from a ledger during replay.
type seedFunc func(year int) (int64, error)

// RunYears runs a trial for a fixed number of years, recording every year's
// seed in a new ledger.
func (s *Simulator) RunYears(ctx context.Context, p Params, years int, seeds entropy.Source) (*Trial, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := scenario.CheckPositive("years", years); err != nil {
		return nil, err
	}
	return s.record(ctx, p, years, false, seeds)
}

// RunUntilExtinction runs a trial until either strategy falls below the
// extinction threshold, or Config.MaxYears is reached.
func (s *Simulator) RunUntilExtinction(ctx context.Context, p Params, seeds entropy.Source) (*Trial, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.record(ctx, p, s.cfg.MaxYears, true, seeds)
}

func (s *Simulator) record(ctx context.Context, p Params, limit int, untilExtinction bool, seeds entropy.Source) (*Trial, error) {
	if seeds == nil {
		seeds = entropy.Crypto{}
	}
	l := ledger.New(p)
	seedFor := func(year int) (int64, error) {
		seed, err := seeds.Seed()
		if err != nil {
			return 0, fmt.Errorf("seed year %d: %w", year, err)
		}
		if err := l.Record(year, seed); err != nil {
			return 0, err
		}
		return seed, nil
	}

	trial, err := s.simulate(ctx, p, limit, untilExtinction, seedFor)
	l.Seal()
	if err != nil {
		return nil, err
	}
	trial.Ledger = l
	s.observe(trial, "live")
	return trial, nil
}

// simulate is the year loop shared by live runs and replay.
func (s *Simulator) simulate(ctx context.Context, p Params, limit int, untilExtinction bool, seedFor seedFunc) (*Trial, error) {
	rates := s.rates(p)
	hint := min(limit, 1024)
	series := newSeries(s.cfg.InitialPopulation, hint)
	shocks := make([]Shock, 0, hint)

	pcg := rand.NewPCG(0, yearStream)
	rng := rand.New(pcg)

	extinct := false
	for year := 0; year < limit; year++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		colony, lone := series.Last()
		colony, lone = s.step(colony, lone, rates)
		series.Append(colony, lone)

		// The seed is fixed before any draw of this year.
		seed, err := seedFor(year)
		if err != nil {
			return nil, err
		}
		pcg.Seed(uint64(seed), yearStream)

		shock := Shock{Year: year}
		if rng.Float64() < p.ShockProbability {
			shock.Occurred = true
			shock.Multiplier = (1 - p.ShockSeverity) + s.cfg.ShockSpread*rng.NormFloat64()
			series.Colony[series.Len()-1] *= shock.Multiplier
		}
		shocks = append(shocks, shock)

		if s.log.Enabled(ctx, logging.LevelTrace) {
			s.log.Log(ctx, logging.LevelTrace, "year simulated",
				"year", year,
				"seed", seed,
				"shock", shock.Occurred,
				"multiplier", shock.Multiplier,
				"colony", series.Colony[series.Len()-1],
				"lone", lone,
			)
		}

		if untilExtinction && series.Extinct(s.cfg.ExtinctionThreshold) {
			extinct = true
			break
		}
	}

	return &Trial{
		Params:     p,
		Series:     series,
		Shocks:     shocks,
		CapReached: untilExtinction && !extinct,
		threshold:  s.cfg.ExtinctionThreshold,
	}, nil
}

func (s *Simulator) observe(t *Trial, mode string) {
	outcome := t.Outcome()
	metrics.ObserveTrial(outcome.String(), mode, t.Years(), t.ShockCount(), t.CapReached)
	s.log.Debug("trial finished",
		"mode", mode,
		"outcome", outcome,
		"years", t.Years(),
		"shocks", t.ShockCount(),
		"capped", t.CapReached,
		"shock_probability", t.Params.ShockProbability,
	)
}
