// Package ledger records the per-year seeds of a trial so the trial can be
// replayed exactly. A ledger is written once while the trial runs, sealed when
// it ends, and read-only afterwards.
package ledger

import (
	"errors"
	"fmt"

	"github.com/talgya/colony-sim/internal/scenario"
)

// ErrMalformed is returned when a persisted ledger is incomplete or does not
// match the replay being requested.
var ErrMalformed = errors.New("malformed ledger")

// ErrSealed is returned when recording into a ledger whose trial has ended.
var ErrSealed = errors.New("ledger sealed")

// Entry is the seed captured before a year's random draws.
type Entry struct {
	Year int   `json:"year"`
	Seed int64 `json:"seed"`
}

// Ledger holds a trial's parameters and its ordered per-year seeds.
type Ledger struct {
	params  scenario.Params
	entries []Entry
	sealed  bool
}

// New creates an empty ledger for a trial with the given parameters.
func New(p scenario.Params) *Ledger {
	return &Ledger{params: p}
}

// FromSeeds builds a sealed ledger from a persisted seed list.
func FromSeeds(p scenario.Params, seeds []int64) *Ledger {
	l := &Ledger{params: p, entries: make([]Entry, len(seeds)), sealed: true}
	for i, s := range seeds {
		l.entries[i] = Entry{Year: i, Seed: s}
	}
	return l
}

// Record appends the seed for year. Years must arrive in order starting at 0.
func (l *Ledger) Record(year int, seed int64) error {
	if l.sealed {
		return ErrSealed
	}
	if year != len(l.entries) {
		return fmt.Errorf("record year %d: expected year %d", year, len(l.entries))
	}
	l.entries = append(l.entries, Entry{Year: year, Seed: seed})
	return nil
}

// Seal marks the trial as finished. Further Record calls fail.
func (l *Ledger) Seal() {
	l.sealed = true
}

// Sealed reports whether the ledger is closed for writing.
func (l *Ledger) Sealed() bool {
	return l.sealed
}

// Len returns the number of recorded years.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Seeds returns a copy of the seeds in year order.
func (l *Ledger) Seeds() []int64 {
	seeds := make([]int64, len(l.entries))
	for i, e := range l.entries {
		seeds[i] = e.Seed
	}
	return seeds
}

// Entries returns a copy of the recorded entries.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// SeedAt returns the seed recorded for year.
func (l *Ledger) SeedAt(year int) (int64, error) {
	if year < 0 || year >= len(l.entries) {
		return 0, fmt.Errorf("%w: no seed for year %d (ledger has %d)", ErrMalformed, year, len(l.entries))
	}
	return l.entries[year].Seed, nil
}

// Params returns the trial parameters the ledger was recorded with.
func (l *Ledger) Params() scenario.Params { return l.params }

// ShockProbability returns the recorded yearly shock probability.
func (l *Ledger) ShockProbability() float64 { return l.params.ShockProbability }

// SelectionCoefficient returns the recorded colony selection coefficient.
func (l *Ledger) SelectionCoefficient() float64 { return l.params.SelectionCoefficient }

// ShockSeverity returns the recorded mean shock severity.
func (l *Ledger) ShockSeverity() float64 { return l.params.ShockSeverity }
