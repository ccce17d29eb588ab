package ledger

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/talgya/colony-sim/internal/scenario"
)

// record is the persisted form. Pointer fields detect absent parameters.
type record struct {
	ShockProbability     *float64 `json:"shock_probability"`
	SelectionCoefficient *float64 `json:"selection_coefficient"`
	ShockSeverity        *float64 `json:"shock_severity"`
	Seeds                []int64  `json:"seeds"`
}

// Marshal encodes a ledger as a single JSON record.
func Marshal(l *Ledger) ([]byte, error) {
	p := l.Params()
	rec := record{
		ShockProbability:     &p.ShockProbability,
		SelectionCoefficient: &p.SelectionCoefficient,
		ShockSeverity:        &p.ShockSeverity,
		Seeds:                l.Seeds(),
	}
	return json.Marshal(rec)
}

// Unmarshal decodes a persisted ledger. The result is sealed.
func Unmarshal(data []byte) (*Ledger, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch {
	case rec.ShockProbability == nil:
		return nil, fmt.Errorf("%w: missing shock_probability", ErrMalformed)
	case rec.SelectionCoefficient == nil:
		return nil, fmt.Errorf("%w: missing selection_coefficient", ErrMalformed)
	case rec.ShockSeverity == nil:
		return nil, fmt.Errorf("%w: missing shock_severity", ErrMalformed)
	case len(rec.Seeds) == 0:
		return nil, fmt.Errorf("%w: no seeds recorded", ErrMalformed)
	}

	p := scenario.Params{
		ShockProbability:     *rec.ShockProbability,
		SelectionCoefficient: *rec.SelectionCoefficient,
		ShockSeverity:        *rec.ShockSeverity,
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return FromSeeds(p, rec.Seeds), nil
}

// WriteFile persists a ledger to path.
func WriteFile(path string, l *Ledger) error {
	data, err := Marshal(l)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

// ReadFile loads a ledger written by WriteFile.
func ReadFile(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return Unmarshal(data)
}
