package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ErrDuplicateTransactionID is returned when a transaction_id collides with
// an already-persisted record.
var ErrDuplicateTransactionID = errors.New("transaction_id already exists")

// Transaction is a persisted sales transaction. ID and CreatedAt are
// assigned by the store on insert and are zero before persistence.
type Transaction struct {
	ID            int64
	TransactionID string
	Amount        decimal.Decimal
	Date          time.Time
	CustomerID    string
	HighRisk      bool
	CreatedAt     time.Time
}

// TxRepo is the persistence gateway for sales transactions. BulkInsert is
// atomic: either every record in the batch is persisted or none is. The
// returned slice preserves input order and carries the assigned ID and
// CreatedAt for each record.
type TxRepo interface {
	BulkInsert(ctx context.Context, txs []Transaction) ([]Transaction, error)
}

// MemoryStore implements TxRepo without a database. Used when no DSN is
// configured, and in tests.
type MemoryStore struct {
	mu   sync.Mutex
	seq  int64
	byID map[string]Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Transaction)}
}

func (s *MemoryStore) BulkInsert(_ context.Context, txs []Transaction) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Uniqueness is checked for the whole batch before anything is written,
	// so a collision leaves the store untouched.
	for _, t := range txs {
		if _, ok := s.byID[t.TransactionID]; ok {
			return nil, ErrDuplicateTransactionID
		}
	}

	now := time.Now().UTC()
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		s.seq++
		t.ID = s.seq
		t.CreatedAt = now
		s.byID[t.TransactionID] = t
		out = append(out, t)
	}
	return out, nil
}

// Len reports how many transactions are stored.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
