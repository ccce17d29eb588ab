// Package growth provides the deterministic per-year population update used by
// the trial simulator. The step is pure: no randomness, no shared state.
package growth

// Rates holds the per-trial constants fed into every growth step.
type Rates struct {
	Capacity   float64 // Carrying capacity K of each strategy
	GrowthRate float64 // Intrinsic growth rate r
	Selection  float64 // Multiplier on the colony growth rate (1.0 = neutral)
}

// StepFunc advances both populations by one year, absent any shock.
type StepFunc func(colony, lone float64, r Rates) (nextColony, nextLone float64)

// Logistic applies the Beverton-Holt form of discrete logistic growth,
// x' = (1+g)·x / (1 + g·x/K), to each strategy. The colony uses
// g = GrowthRate·Selection, the lone strategy g = GrowthRate. For x >= 0 and
// g >= 0 the result is non-negative and approaches K without overshooting.
func Logistic(colony, lone float64, r Rates) (float64, float64) {
	if r.Capacity == 0 {
		// No room to grow; leave populations as they are.
		return colony, lone
	}
	nextColony := bevertonHolt(colony, r.GrowthRate*r.Selection, r.Capacity)
	nextLone := bevertonHolt(lone, r.GrowthRate, r.Capacity)
	return nextColony, nextLone
}

func bevertonHolt(x, g, k float64) float64 {
	if x <= 0 {
		// Extinct or shocked below zero; growth cannot revive it.
		return x
	}
	d := 1 + g*x/k
	if g <= -1 || d <= 0 {
		return 0
	}
	return (1 + g) * x / d
}

// Project runs step alone for the given number of years from equal starting
// populations. Index 0 holds the starting value.
func Project(step StepFunc, initial float64, years int, r Rates) (colony, lone []float64) {
	colony = make([]float64, 1, years+1)
	lone = make([]float64, 1, years+1)
	colony[0], lone[0] = initial, initial
	for i := 0; i < years; i++ {
		c, l := step(colony[i], lone[i], r)
		colony = append(colony, c)
		lone = append(lone, l)
	}
	return colony, lone
}
