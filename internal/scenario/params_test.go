package scenario

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"neutral", Params{0.5, 1.0, 0.5}, false},
		{"bounds inclusive", Params{0, 1.0, 1}, false},
		{"upper bounds inclusive", Params{1, 1.0, 0}, false},
		{"probability negative", Params{-0.01, 1.0, 0.5}, true},
		{"probability above one", Params{1.01, 1.0, 0.5}, true},
		{"severity above one", Params{0.5, 1.0, 1.5}, true},
		{"severity NaN", Params{0.5, 1.0, math.NaN()}, true},
		{"selection infinite", Params{0.5, math.Inf(1), 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCheckPositive(t *testing.T) {
	assert.NoError(t, CheckPositive("trials", 1))
	assert.ErrorIs(t, CheckPositive("trials", 0), ErrInvalidParameter)
	assert.ErrorIs(t, CheckPositive("years", -3), ErrInvalidParameter)
}
