package engine

// Outcome is the discrete result of a trial.
type Outcome int

const (
	LoneWin Outcome = iota
	ColonyWin
)

func (o Outcome) String() string {
	switch o {
	case ColonyWin:
		return "colony"
	case LoneWin:
		return "lone"
	default:
		return "unknown"
	}
}

// Classify inspects only the final colony value: below threshold is a lone
// win, anything else a colony win. The lone series is not inspected.
// An empty series has no survivor and counts as a lone win.
func Classify(colony []float64, threshold float64) Outcome {
	if len(colony) == 0 {
		return LoneWin
	}
	if colony[len(colony)-1] < threshold {
		return LoneWin
	}
	return ColonyWin
}
