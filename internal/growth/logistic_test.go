package growth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultRates = Rates{Capacity: 10000, GrowthRate: 1.5, Selection: 1.0}

// TestLogistic_NeutralConverges checks the 3000/3000, K=10000, r=1.5 scenario.
func TestLogistic_NeutralConverges(t *testing.T) {
	colony, lone := Project(Logistic, 3000, 50, defaultRates)
	require.Len(t, colony, 51)
	require.Len(t, lone, 51)

	for i := range colony {
		assert.Equal(t, colony[i], lone[i], "neutral selection must keep series equal at year %d", i)
	}
	assert.InDelta(t, 10000, colony[50], 1e-6)
}

func TestLogistic_SelectionFavorsColony(t *testing.T) {
	r := defaultRates
	r.Selection = 1.2

	c, l := Logistic(3000, 3000, r)
	assert.Greater(t, c, l)
	assert.InDelta(t, 2.8*3000/(1+1.8*0.3), c, 1e-9)
	assert.InDelta(t, 2.5*3000/(1+1.5*0.3), l, 1e-9)
}

func TestLogistic_ZeroCapacity(t *testing.T) {
	c, l := Logistic(42, 7, Rates{Capacity: 0, GrowthRate: 1.5, Selection: 1})
	assert.Equal(t, 42.0, c)
	assert.Equal(t, 7.0, l)
}

func TestLogistic_FixedPoints(t *testing.T) {
	c, l := Logistic(0, 10000, defaultRates)
	assert.Equal(t, 0.0, c)
	assert.Equal(t, 10000.0, l)
}

func TestLogistic_FiniteNonNegative(t *testing.T) {
	populations := []float64{0, 0.5, 1, 500, 3000, 9999, 10000, 10001, 15000, 20000, 30000}
	selections := []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 5, 10}

	for _, s := range selections {
		r := defaultRates
		r.Selection = s
		for _, x := range populations {
			c, l := Logistic(x, x, r)
			assert.False(t, math.IsNaN(c) || math.IsInf(c, 0), "colony x=%v s=%v", x, s)
			assert.False(t, math.IsNaN(l) || math.IsInf(l, 0), "lone x=%v s=%v", x, s)
			assert.GreaterOrEqual(t, c, 0.0, "colony x=%v s=%v", x, s)
			assert.GreaterOrEqual(t, l, 0.0, "lone x=%v s=%v", x, s)
		}
	}
}

// TestLogistic_StrongSelectionConverges checks that a favoured colony settles
// at capacity instead of overshooting into negative values.
func TestLogistic_StrongSelectionConverges(t *testing.T) {
	for _, s := range []float64{2, 2.5, 3, 5} {
		r := defaultRates
		r.Selection = s

		colony, lone := Project(Logistic, 3000, 100, r)
		for i := 1; i < len(colony); i++ {
			assert.GreaterOrEqual(t, colony[i], colony[i-1]-1e-9, "s=%v year %d", s, i)
			assert.LessOrEqual(t, colony[i], r.Capacity+1e-9, "s=%v year %d", s, i)
		}
		assert.InDelta(t, 10000, colony[100], 1e-6, "s=%v", s)
		assert.InDelta(t, 10000, lone[100], 1e-6, "s=%v", s)
	}
}

func TestLogistic_AboveCapacityDeclines(t *testing.T) {
	r := defaultRates
	r.Selection = 2.5
	c, l := Logistic(20000, 30000, r)
	assert.Greater(t, c, r.Capacity)
	assert.Less(t, c, 20000.0)
	assert.Greater(t, l, r.Capacity)
	assert.Less(t, l, 30000.0)
}

func TestLogistic_NegativeInputUnchanged(t *testing.T) {
	c, _ := Logistic(-12.5, 3000, defaultRates)
	assert.Equal(t, -12.5, c)
}
