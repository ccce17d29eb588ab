package engine

import (
	"context"
	"fmt"

	"github.com/talgya/colony-sim/internal/ledger"
)

// Replay re-executes a recorded trial for exactly the years in its ledger,
// re-seeding every year from the ledger instead of drawing fresh seeds.
func (s *Simulator) Replay(ctx context.Context, l *ledger.Ledger) (*Trial, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: nil ledger", ErrMalformedLedger)
	}
	return s.ReplayYears(ctx, l, l.Len())
}

// ReplayYears replays a ledger for the given number of years. The count must
// equal the ledger length; a mismatch is never truncated or extended.
func (s *Simulator) ReplayYears(ctx context.Context, l *ledger.Ledger, years int) (*Trial, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: nil ledger", ErrMalformedLedger)
	}
	if l.Len() == 0 {
		return nil, fmt.Errorf("%w: no seeds recorded", ErrMalformedLedger)
	}
	if years != l.Len() {
		return nil, fmt.Errorf("%w: replay of %d years requested, ledger has %d seeds",
			ErrMalformedLedger, years, l.Len())
	}
	p := l.Params()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLedger, err)
	}

	trial, err := s.simulate(ctx, p, years, false, l.SeedAt)
	if err != nil {
		return nil, err
	}
	trial.Ledger = l
	trial.Replayed = true
	s.observe(trial, "replay")
	return trial, nil
}
