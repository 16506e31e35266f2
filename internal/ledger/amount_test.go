package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	got, err := ToMinorUnits(1.5, 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500_000_000), got)

	got, err = ToMinorUnits(10, 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000_000), got)

	// fractions below precision are floored, not rounded
	got, err = ToMinorUnits(0.0000019, 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got)
}

func TestToMinorUnitsRejectsBadInput(t *testing.T) {
	for _, amount := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := ToMinorUnits(amount, 9)
		assert.Error(t, err)
	}

	// below the token's smallest unit
	_, err := ToMinorUnits(0.0000001, 6)
	assert.Error(t, err)
}

func TestFromMinorUnits(t *testing.T) {
	assert.InDelta(t, 1.5, FromMinorUnits(1_500_000_000, 9), 1e-9)
	assert.InDelta(t, 10, FromMinorUnits(10_000_000, 6), 1e-9)
}
