package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		colony []float64
		want   Outcome
	}{
		{"exactly one survives", []float64{3000, 1.0}, ColonyWin},
		{"just below one", []float64{3000, 0.999999}, LoneWin},
		{"next float below one", []float64{math.Nextafter(1, 0)}, LoneWin},
		{"negative after shock", []float64{3000, -42}, LoneWin},
		{"zero", []float64{0}, LoneWin},
		{"thriving", []float64{3000, 9500}, ColonyWin},
		{"only last value counts", []float64{0.5, 2}, ColonyWin},
		{"empty", nil, LoneWin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.colony, DefaultExtinctionThreshold))
		})
	}
}

// TestClassify_IgnoresLone documents that an extinct lone strategy is not
// itself checked: the trial outcome depends on the colony value alone.
func TestClassify_IgnoresLone(t *testing.T) {
	trial := &Trial{
		Series:    Series{Colony: []float64{3000, 10}, Lone: []float64{3000, 0.1}},
		threshold: DefaultExtinctionThreshold,
	}
	assert.Equal(t, ColonyWin, trial.Outcome())
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "colony", ColonyWin.String())
	assert.Equal(t, "lone", LoneWin.String())
	assert.Equal(t, "unknown", Outcome(7).String())
}
