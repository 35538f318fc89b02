package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sales-batch-service/internal/storage"
)

// TransactionCreatedEvent is the wire shape of one created-transaction
// event, versioned by the embedded schema.
type TransactionCreatedEvent struct {
	ID            int64  `json:"id"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	CustomerID    string `json:"customer_id"`
	HighRisk      bool   `json:"high_risk"`
	CreatedAt     string `json:"created_at"`
}

// Publisher emits one schema-validated event per created transaction.
// Publication is best-effort: failures are logged, never propagated.
type Publisher struct {
	log *zap.Logger
	p   *Producer
	v   *Validator
}

func NewPublisher(log *zap.Logger, p *Producer, v *Validator) *Publisher {
	return &Publisher{log: log, p: p, v: v}
}

// BatchCreated publishes every record of a persisted batch, keyed by
// transaction_id.
func (pub *Publisher) BatchCreated(ctx context.Context, txs []storage.Transaction) {
	for _, t := range txs {
		ev := TransactionCreatedEvent{
			ID:            t.ID,
			TransactionID: t.TransactionID,
			Amount:        t.Amount.StringFixed(2),
			Date:          t.Date.Format("2006-01-02"),
			CustomerID:    t.CustomerID,
			HighRisk:      t.HighRisk,
			CreatedAt:     t.CreatedAt.Format(time.RFC3339Nano),
		}
		if err := pub.v.Validate(ev); err != nil {
			pub.log.Error("event schema validation failed",
				zap.String("tx_id", t.TransactionID), zap.Error(err))
			continue
		}
		if err := pub.p.Publish(ctx, t.TransactionID, ev); err != nil {
			pub.log.Error("event publish failed",
				zap.String("tx_id", t.TransactionID), zap.Error(err))
		}
	}
}
