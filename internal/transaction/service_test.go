package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sales-batch-service/internal/storage"
)

// failRepo fails every insert and records whether it was called.
type failRepo struct {
	called bool
	err    error
}

func (r *failRepo) BulkInsert(_ context.Context, _ []storage.Transaction) ([]storage.Transaction, error) {
	r.called = true
	return nil, r.err
}

func newTestService(repo storage.TxRepo) *Service {
	return NewService(zap.NewNop(), repo, NewValidator(), DefaultHighRiskThreshold)
}

func batchOf(cands ...Candidate) BatchRequest {
	return BatchRequest{Transactions: &cands}
}

func TestIngestBatchSuccess(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := newTestService(store)

	req := batchOf(
		Candidate{TransactionID: "TXN-001", Amount: "250.00", Date: "2024-03-10", CustomerID: "CUST-V01"},
		Candidate{TransactionID: "TXN-002", Amount: "12500.00", Date: "2024-03-11", CustomerID: "CUST-V02"},
	)

	res, err := svc.IngestBatch(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 2, res.Created)
	require.Len(t, res.Transactions, 2)

	first, second := res.Transactions[0], res.Transactions[1]
	assert.Equal(t, "TXN-001", first.TransactionID)
	assert.False(t, first.HighRisk)
	assert.Equal(t, "TXN-002", second.TransactionID)
	assert.True(t, second.HighRisk)

	// ids and timestamps assigned by the store
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.False(t, second.CreatedAt.IsZero())
}

func TestIngestBatchHighRiskBoundary(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := newTestService(store)

	res, err := svc.IngestBatch(context.Background(), batchOf(
		Candidate{TransactionID: "TXN-B", Amount: "10000.00", Date: "2024-01-01", CustomerID: "CUST-B"},
		Candidate{TransactionID: "TXN-A", Amount: "10000.01", Date: "2024-01-01", CustomerID: "CUST-A"},
	))
	require.NoError(t, err)
	assert.False(t, res.Transactions[0].HighRisk)
	assert.True(t, res.Transactions[1].HighRisk)
}

func TestIngestBatchMissingTransactionsKey(t *testing.T) {
	svc := newTestService(storage.NewMemoryStore())

	_, err := svc.IngestBatch(context.Background(), BatchRequest{})
	var berr *BatchError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, CodeMissingTransactions, berr.Batch)
}

func TestIngestBatchEmpty(t *testing.T) {
	svc := newTestService(storage.NewMemoryStore())

	_, err := svc.IngestBatch(context.Background(), batchOf())
	var berr *BatchError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, CodeEmptyBatch, berr.Batch)
}

func TestIngestBatchValidationFailureSkipsPersistence(t *testing.T) {
	repo := &failRepo{err: errors.New("should not be reached")}
	svc := newTestService(repo)

	_, err := svc.IngestBatch(context.Background(), batchOf(
		Candidate{Amount: "-50", Date: "2024-01-01", CustomerID: "C1"},
	))
	var berr *BatchError
	require.ErrorAs(t, err, &berr)
	assert.False(t, repo.called, "gateway must not be invoked for an invalid batch")
}

func TestIngestBatchCrossBatchDuplicate(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := newTestService(store)

	_, err := svc.IngestBatch(context.Background(), batchOf(
		Candidate{TransactionID: "TXN-001", Amount: "100.00", Date: "2024-01-01", CustomerID: "C1"},
	))
	require.NoError(t, err)

	// second batch reuses TXN-001; the new TXN-002 must not be committed either
	_, err = svc.IngestBatch(context.Background(), batchOf(
		Candidate{TransactionID: "TXN-001", Amount: "100.00", Date: "2024-01-02", CustomerID: "C2"},
		Candidate{TransactionID: "TXN-002", Amount: "100.00", Date: "2024-01-02", CustomerID: "C3"},
	))
	require.ErrorIs(t, err, storage.ErrDuplicateTransactionID)
	assert.Equal(t, 1, store.Len())
}

func TestIngestBatchPersistenceFailureIsOpaque(t *testing.T) {
	repo := &failRepo{err: errors.New("connection reset")}
	svc := newTestService(repo)

	_, err := svc.IngestBatch(context.Background(), batchOf(
		Candidate{TransactionID: "TXN-001", Amount: "100.00", Date: "2024-01-01", CustomerID: "C1"},
	))
	require.Error(t, err)
	var berr *BatchError
	assert.False(t, errors.As(err, &berr), "gateway errors are not validation errors")
	assert.Contains(t, err.Error(), "connection reset")
	assert.True(t, repo.called)
}

func TestIngestBatchInvokesPublishHook(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := newTestService(store)

	var published []storage.Transaction
	svc.Publish = func(_ context.Context, txs []storage.Transaction) {
		published = txs
	}

	res, err := svc.IngestBatch(context.Background(), batchOf(
		Candidate{TransactionID: "TXN-001", Amount: "100.00", Date: "2024-01-01", CustomerID: "C1"},
	))
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, res.Transactions[0].ID, published[0].ID)
}

func TestIngestBatchNoPublishOnValidationFailure(t *testing.T) {
	svc := newTestService(storage.NewMemoryStore())

	published := false
	svc.Publish = func(_ context.Context, _ []storage.Transaction) { published = true }

	_, err := svc.IngestBatch(context.Background(), batchOf())
	require.Error(t, err)
	assert.False(t, published)
}
