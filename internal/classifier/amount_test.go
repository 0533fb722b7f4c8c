package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1,234.56", 1234.56},
		{"$1,234.56", 1234.56},
		{"1,234.56-", -1234.56},
		{"-1,234.56", -1234.56},
		{"(45.00)", -45.00},
		{"($45.00)", -45.00},
		{"45.00+", 45.00},
		{"+45.00", 45.00},
		{" 1 234.56 ", 1234.56},
		{".31", 0.31},
		{"0.00", 0},
		{"", 0},
		{"garbage", 0},
		{"--", 0},
		{"$", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeAmount(tt.in), 1e-9)
		})
	}
}

func TestNormalizeAmountSignalsFailure(t *testing.T) {
	_, ok := normalizeAmount("not a number")
	assert.False(t, ok)

	v, ok := normalizeAmount("12.00")
	assert.True(t, ok)
	assert.InDelta(t, 12.0, v, 1e-9)
}

func TestApplySign(t *testing.T) {
	assert.InDelta(t, 50.0, applySign(-50, +1), 1e-9)
	assert.InDelta(t, 50.0, applySign(50, +1), 1e-9)
	assert.InDelta(t, -50.0, applySign(50, -1), 1e-9)
	assert.InDelta(t, -50.0, applySign(-50, -1), 1e-9)
	assert.InDelta(t, -50.0, applySign(-50, 0), 1e-9)
}
