package transaction

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"0.01", false},
		{"250.00", false},
		{"9999.99", false},
		{"10000.00", false}, // boundary is not high-risk
		{"10000.01", true},
		{"12500.00", true},
		{"999999999999.99", true},
	}

	for _, tc := range tests {
		t.Run(tc.amount, func(t *testing.T) {
			amount := decimal.RequireFromString(tc.amount)
			assert.Equal(t, tc.want, Classify(amount, DefaultHighRiskThreshold))
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	amount := decimal.RequireFromString("10000.01")
	first := Classify(amount, DefaultHighRiskThreshold)
	second := Classify(amount, DefaultHighRiskThreshold)
	assert.Equal(t, first, second)
	assert.True(t, first)
}

func TestClassifyCustomThreshold(t *testing.T) {
	threshold := decimal.RequireFromString("500.00")
	assert.False(t, Classify(decimal.RequireFromString("500.00"), threshold))
	assert.True(t, Classify(decimal.RequireFromString("500.01"), threshold))
}
