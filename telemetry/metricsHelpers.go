package telemetry

// IncBatchIngested records one accepted batch: its size and how many of
// its transactions were flagged high-risk.
func IncBatchIngested(created, highRisk int) {
	batchesIngestedTotal.Inc()
	transactionsCreatedTotal.Add(float64(created))
	highRiskTransactionsTotal.Add(float64(highRisk))
	batchSizeTransactions.Observe(float64(created))
}

// Increments the rejected-batch counter with a bounded reason.
// Reasons: "malformed", "validation", "db".
func IncBatchRejected(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	batchesRejectedTotal.WithLabelValues(reason).Inc()
}
