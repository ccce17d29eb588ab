package engine

import (
	"io"
	"log/slog"
	"math"
	"testing"
)

func newTestSimulator(maxYears int) *Simulator {
	cfg := DefaultConfig()
	cfg.MaxYears = maxYears
	return NewSimulator(cfg, nil).WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// requireBitEqual fails unless both slices hold identical float64 bit patterns.
func requireBitEqual(t *testing.T, want, got []float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("length mismatch: want %d, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Float64bits(want[i]) != math.Float64bits(got[i]) {
			t.Fatalf("year %d: want %v (%#x), got %v (%#x)",
				i, want[i], math.Float64bits(want[i]), got[i], math.Float64bits(got[i]))
		}
	}
}
