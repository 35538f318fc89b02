package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type PostgresStore struct {
	DB *sql.DB
}

// NewPostgres opens a pooled connection, pings it and runs pending
// migrations.
func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(1 * time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	p := &PostgresStore{DB: db}
	if err := p.runMigrations(); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return p, nil
}

func (p *PostgresStore) runMigrations() error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(string(goose.DialectPostgres)); err != nil {
		return err
	}
	return goose.Up(p.DB, "migrations")
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}

// BulkInsert persists the whole batch in a single database transaction.
// Any failure rolls the transaction back, so no partial batch is ever
// visible. A unique_violation on transaction_id is mapped to
// ErrDuplicateTransactionID.
func (p *PostgresStore) BulkInsert(ctx context.Context, txs []Transaction) ([]Transaction, error) {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO sales_transactions (transaction_id, amount, date, customer_id, high_risk)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			t.TransactionID, t.Amount, t.Date, t.CustomerID, t.HighRisk,
		).Scan(&t.ID, &t.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
				return nil, fmt.Errorf("%w: %s", ErrDuplicateTransactionID, t.TransactionID)
			}
			return nil, fmt.Errorf("insert transaction %s: %w", t.TransactionID, err)
		}
		out = append(out, t)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return out, nil
}
