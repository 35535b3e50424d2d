package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyRate_RoundHalfUp(t *testing.T) {
	tests := []struct {
		name     string
		amount   Amount
		rate     BasisPoints
		expected Amount
	}{
		{"10 percent of 100.00", 10000, 1000, 1000},
		{"19 percent of 100.00", 10000, 1900, 1900},
		{"rounds half up", 105, 1000, 11},      // 10.5 -> 11
		{"rounds down below half", 104, 1000, 10}, // 10.4 -> 10
		{"zero rate", 10000, 0, 0},
		{"zero amount", 0, 1900, 0},
		{"negative amount clamps to zero", -100, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ApplyRate(tt.amount, tt.rate))
		})
	}
}

func TestApplyRate_Deterministic(t *testing.T) {
	// Повторные вызовы с теми же аргументами дают тот же результат
	first := ApplyRate(99999, 1234)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, ApplyRate(99999, 1234))
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "123.45", Amount(12345).String())
	assert.Equal(t, "0.05", Amount(5).String())
	assert.Equal(t, "-1.00", Amount(-100).String())
	assert.Equal(t, "0.00", Amount(0).String())
}

func TestMin(t *testing.T) {
	assert.Equal(t, Amount(5), Min(5, 10))
	assert.Equal(t, Amount(5), Min(10, 5))
}
