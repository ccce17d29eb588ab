// Package engine runs colony-versus-lone trials: the year-by-year loop with
// pandemic shocks, exact replay from a seed ledger, outcome classification,
// and Monte Carlo sweeps over shock probabilities.
package engine

import (
	"log/slog"

	"github.com/talgya/colony-sim/internal/entropy"
	"github.com/talgya/colony-sim/internal/growth"
	"github.com/talgya/colony-sim/internal/ledger"
	"github.com/talgya/colony-sim/internal/scenario"
)

// Params are the three scalars defining one trial.
type Params = scenario.Params

var (
	// ErrInvalidParameter is returned before any simulation starts when a
	// parameter is out of range.
	ErrInvalidParameter = scenario.ErrInvalidParameter
	// ErrMalformedLedger is returned by replay when a ledger cannot drive it.
	ErrMalformedLedger = ledger.ErrMalformed
)

// Model defaults.
const (
	DefaultInitialPopulation   = 3000
	DefaultCarryingCapacity    = 10000
	DefaultGrowthRate          = 1.5
	DefaultShockSpread         = 0.1
	DefaultExtinctionThreshold = 1.0
	DefaultMaxYears            = 10000
)

// Config holds the model constants shared by every trial.
type Config struct {
	InitialPopulation   float64 // Starting size of both strategies
	CarryingCapacity    float64
	GrowthRate          float64
	ShockSpread         float64 // Stddev of the shock multiplier
	ExtinctionThreshold float64 // Populations below this are extinct
	MaxYears            int     // Cap for extinction-mode trials
}

// DefaultConfig returns the constants of the reference model.
func DefaultConfig() Config {
	return Config{
		InitialPopulation:   DefaultInitialPopulation,
		CarryingCapacity:    DefaultCarryingCapacity,
		GrowthRate:          DefaultGrowthRate,
		ShockSpread:         DefaultShockSpread,
		ExtinctionThreshold: DefaultExtinctionThreshold,
		MaxYears:            DefaultMaxYears,
	}
}

// Simulator runs trials. It holds no per-trial state and is safe for
// concurrent use.
type Simulator struct {
	cfg     Config
	step    growth.StepFunc
	entropy entropy.Source
	log     *slog.Logger
}

// NewSimulator creates a simulator. A nil step uses growth.Logistic.
func NewSimulator(cfg Config, step growth.StepFunc) *Simulator {
	if step == nil {
		step = growth.Logistic
	}
	if cfg.MaxYears <= 0 {
		cfg.MaxYears = DefaultMaxYears
	}
	return &Simulator{
		cfg:     cfg,
		step:    step,
		entropy: entropy.Crypto{},
		log:     slog.Default(),
	}
}

// WithEntropy sets the root source used for sweeps without a fixed seed.
func (s *Simulator) WithEntropy(src entropy.Source) *Simulator {
	if src != nil {
		s.entropy = src
	}
	return s
}

// WithLogger sets the logger.
func (s *Simulator) WithLogger(l *slog.Logger) *Simulator {
	if l != nil {
		s.log = l
	}
	return s
}

// Config returns the model constants.
func (s *Simulator) Config() Config {
	return s.cfg
}

func (s *Simulator) rates(p Params) growth.Rates {
	return growth.Rates{
		Capacity:   s.cfg.CarryingCapacity,
		GrowthRate: s.cfg.GrowthRate,
		Selection:  p.SelectionCoefficient,
	}
}

// Series holds both populations indexed by simulated year.
type Series struct {
	Colony []float64 `json:"colony"`
	Lone   []float64 `json:"lone"`
}

func newSeries(initial float64, capacity int) Series {
	s := Series{
		Colony: make([]float64, 0, capacity+1),
		Lone:   make([]float64, 0, capacity+1),
	}
	s.Append(initial, initial)
	return s
}

// Append adds one year to both series.
func (s *Series) Append(colony, lone float64) {
	s.Colony = append(s.Colony, colony)
	s.Lone = append(s.Lone, lone)
}

// Len returns the number of entries, including the starting year.
func (s *Series) Len() int {
	return len(s.Colony)
}

// Last returns the latest populations.
func (s *Series) Last() (colony, lone float64) {
	n := len(s.Colony) - 1
	return s.Colony[n], s.Lone[n]
}

// Extinct reports whether either latest value is below threshold.
func (s *Series) Extinct(threshold float64) bool {
	c, l := s.Last()
	return c < threshold || l < threshold
}

// Shock is the pandemic outcome of one year.
type Shock struct {
	Year       int     `json:"year"`
	Occurred   bool    `json:"occurred"`
	Multiplier float64 `json:"multiplier,omitempty"`
}

// Trial is a completed run.
type Trial struct {
	Params     Params
	Series     Series
	Shocks     []Shock
	Ledger     *ledger.Ledger // Recorded seeds (live) or the replayed ledger
	CapReached bool           // Extinction mode stopped by Config.MaxYears
	Replayed   bool

	threshold float64
}

// Years returns the number of simulated years.
func (t *Trial) Years() int {
	return len(t.Shocks)
}

// ShockCount returns how many years applied a shock.
func (t *Trial) ShockCount() int {
	n := 0
	for _, sh := range t.Shocks {
		if sh.Occurred {
			n++
		}
	}
	return n
}

// Outcome classifies the trial by its final colony population.
func (t *Trial) Outcome() Outcome {
	return Classify(t.Series.Colony, t.threshold)
}
