// Package scenario defines the parameters of one simulated trial.
package scenario

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned when a trial or sweep parameter is out of range.
var ErrInvalidParameter = errors.New("invalid parameter")

// Params are the three scalars that define a trial. Immutable once a trial starts.
type Params struct {
	ShockProbability     float64 `json:"shock_probability" db:"shock_probability"`
	SelectionCoefficient float64 `json:"selection_coefficient" db:"selection_coefficient"`
	ShockSeverity        float64 `json:"shock_severity" db:"shock_severity"`
}

// Validate checks that probability and severity lie in [0,1] and that the
// selection coefficient is finite.
func (p Params) Validate() error {
	if err := CheckUnit("shock_probability", p.ShockProbability); err != nil {
		return err
	}
	if err := CheckUnit("shock_severity", p.ShockSeverity); err != nil {
		return err
	}
	if math.IsNaN(p.SelectionCoefficient) || math.IsInf(p.SelectionCoefficient, 0) {
		return fmt.Errorf("%w: selection_coefficient must be finite, got %v", ErrInvalidParameter, p.SelectionCoefficient)
	}
	return nil
}

// CheckUnit reports an ErrInvalidParameter if v is outside [0,1] or NaN.
func CheckUnit(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidParameter, name, v)
	}
	return nil
}

// CheckPositive reports an ErrInvalidParameter if n is not positive.
func CheckPositive(name string, n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidParameter, name, n)
	}
	return nil
}
