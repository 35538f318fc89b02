package transaction

import "github.com/shopspring/decimal"

// DefaultHighRiskThreshold is the amount above which a transaction is
// flagged as high-risk. The boundary value itself is not high-risk.
var DefaultHighRiskThreshold = decimal.New(1000000, -2) // 10000.00

// Classify reports whether amount strictly exceeds threshold. The
// comparison is exact fixed-point, never float.
func Classify(amount, threshold decimal.Decimal) bool {
	return amount.GreaterThan(threshold)
}
