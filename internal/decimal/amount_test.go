package decimal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dec "github.com/fiscalmx/cfdi-processor/internal/decimal"
)

func TestFromString(t *testing.T) {
	d, err := dec.FromString("640.00")
	require.NoError(t, err)
	// Written precision survives the round trip.
	assert.Equal(t, "640.00", d.String())

	d, err = dec.FromString("0.160000")
	require.NoError(t, err)
	assert.Equal(t, "0.160000", d.String())

	_, err = dec.FromString("not-a-number")
	require.Error(t, err)

	_, err = dec.FromString("")
	require.Error(t, err)
}

func TestHasMaxSixDecimals(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"100", true},
		{"100.1", true},
		{"0.000001", true},
		{"0.1234567", false},
		{"1.0000000", true}, // trailing zeros beyond six are harmless
		{"-0.1234567", false},
	}

	for _, tt := range tests {
		d := dec.MustFromString(tt.in)
		assert.Equal(t, tt.want, dec.HasMaxSixDecimals(d), "value %s", tt.in)
	}
}

func TestIsPositiveAmount(t *testing.T) {
	assert.True(t, dec.IsPositiveAmount(dec.MustFromString("0.000001")))
	assert.True(t, dec.IsPositiveAmount(dec.MustFromString("1")))
	assert.False(t, dec.IsPositiveAmount(dec.MustFromString("0")))
	assert.False(t, dec.IsPositiveAmount(dec.MustFromString("0.0000009")))
	assert.False(t, dec.IsPositiveAmount(dec.MustFromString("-1")))
}

func TestIsNonNegative(t *testing.T) {
	assert.True(t, dec.IsNonNegative(dec.Zero))
	assert.True(t, dec.IsNonNegative(dec.MustFromString("0.01")))
	assert.False(t, dec.IsNonNegative(dec.MustFromString("-0.01")))
}

func TestSum(t *testing.T) {
	total := dec.Sum(
		dec.MustFromString("47.84"),
		dec.MustFromString("7.33"),
		dec.MustFromString("16.55"),
		dec.MustFromString("16.55"),
	)
	assert.Equal(t, "88.27", total.String())

	assert.True(t, dec.Sum().IsZero())
}
