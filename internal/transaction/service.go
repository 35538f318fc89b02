package transaction

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sales-batch-service/internal/storage"
)

// BatchRequest is the raw payload shape for one ingestion call. The
// pointer distinguishes a missing "transactions" key from an empty list.
type BatchRequest struct {
	Transactions *[]Candidate `json:"transactions"`
}

// Result is a successful ingestion: the created count and the persisted
// records in submission order.
type Result struct {
	Created      int
	Transactions []storage.Transaction
}

// Service runs the batch ingestion pipeline: validate, classify, persist,
// assemble. One call processes one batch to completion; there are no
// retries and no shared state between calls.
type Service struct {
	log       *zap.Logger
	repo      storage.TxRepo
	v         *validator.Validate
	threshold decimal.Decimal

	// Publish, when set, is invoked with the created records after a
	// successful insert. Best-effort: it must not fail the request.
	Publish func(ctx context.Context, txs []storage.Transaction)
}

func NewService(log *zap.Logger, repo storage.TxRepo, v *validator.Validate, threshold decimal.Decimal) *Service {
	return &Service{log: log, repo: repo, v: v, threshold: threshold}
}

// IngestBatch validates and persists one batch. Validation failures return
// a *BatchError and leave the store untouched; persistence failures are
// returned wrapped and opaque. On success every record carries its
// assigned id, created_at and computed high_risk flag.
func (s *Service) IngestBatch(ctx context.Context, req BatchRequest) (*Result, error) {
	if req.Transactions == nil {
		return nil, &BatchError{Batch: CodeMissingTransactions}
	}

	records, berr := ValidateBatch(s.v, *req.Transactions)
	if berr != nil {
		return nil, berr
	}

	txs := make([]storage.Transaction, len(records))
	for i, r := range records {
		txs[i] = storage.Transaction{
			TransactionID: r.TransactionID,
			Amount:        r.Amount,
			Date:          r.Date,
			CustomerID:    r.CustomerID,
			HighRisk:      Classify(r.Amount, s.threshold),
		}
	}

	created, err := s.repo.BulkInsert(ctx, txs)
	if err != nil {
		return nil, fmt.Errorf("bulk insert: %w", err)
	}

	s.log.Info("batch ingested",
		zap.Int("created", len(created)),
	)

	if s.Publish != nil {
		s.Publish(ctx, created)
	}

	return &Result{Created: len(created), Transactions: created}, nil
}
