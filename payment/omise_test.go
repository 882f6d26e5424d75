package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(2499), ToMinorUnits(24.99, "usd"))
	assert.Equal(t, int64(12900), ToMinorUnits(129, "thb"))
	assert.Equal(t, int64(5745), ToMinorUnits(19.95+37.50, "usd"))
	assert.Equal(t, int64(130), ToMinorUnits(129.6, "JPY"))
}

func TestOmiseGateway_NotConfigured(t *testing.T) {
	g, err := NewOmiseGateway("", "")
	require.NoError(t, err)

	_, err = g.Charge(100, "usd", "tokn_test", "order")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, g.PublicKey())
}
