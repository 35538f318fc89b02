package api

import (
	"time"

	"sales-batch-service/internal/storage"
	"sales-batch-service/internal/transaction"
)

// TransactionResponse is one persisted transaction as returned to the
// client. Amount is rendered with exactly two fractional digits and date
// without a time component.
type TransactionResponse struct {
	ID            int64     `json:"id"`
	TransactionID string    `json:"transaction_id"`
	Amount        string    `json:"amount"`
	Date          string    `json:"date"`
	CustomerID    string    `json:"customer_id"`
	HighRisk      bool      `json:"high_risk"`
	CreatedAt     time.Time `json:"created_at"`
}

// BatchCreateResponse is the 201 body of POST /transactions/batch.
type BatchCreateResponse struct {
	Created      int                   `json:"created"`
	Transactions []TransactionResponse `json:"transactions"`
}

func toBatchResponse(res *transaction.Result) BatchCreateResponse {
	out := make([]TransactionResponse, 0, len(res.Transactions))
	for _, t := range res.Transactions {
		out = append(out, toTransactionResponse(t))
	}
	return BatchCreateResponse{Created: res.Created, Transactions: out}
}

func toTransactionResponse(t storage.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		TransactionID: t.TransactionID,
		Amount:        t.Amount.StringFixed(2),
		Date:          t.Date.Format(transaction.DateLayout),
		CustomerID:    t.CustomerID,
		HighRisk:      t.HighRisk,
		CreatedAt:     t.CreatedAt,
	}
}
