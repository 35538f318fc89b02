package transaction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Field and batch error codes surfaced to the client.
const (
	CodeEmptyField          = "empty_field"
	CodeInvalidAmount       = "invalid_amount"
	CodeInvalidDate         = "invalid_date"
	CodeEmptyBatch          = "empty_batch"
	CodeMissingTransactions = "missing_transactions"
)

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

// Candidate is an unvalidated input record. Server-computed fields (id,
// high_risk, created_at) are deliberately absent: if a client sends them
// they are ignored.
type Candidate struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	Amount        string `json:"amount"         validate:"required,amount"`
	Date          string `json:"date"           validate:"required,dateonly"`
	CustomerID    string `json:"customer_id"    validate:"required"`
}

// Record is a candidate that passed validation: ids trimmed, amount and
// date parsed.
type Record struct {
	TransactionID string
	Amount        decimal.Decimal
	Date          time.Time
	CustomerID    string
}

// FieldErrors maps a JSON field name to its error code.
type FieldErrors map[string]string

// BatchError aggregates every validation failure of one batch: a
// batch-level code, per-item field errors keyed by position, and duplicate
// transaction ids. It is never partial: all items are validated even after
// the first failure.
type BatchError struct {
	Batch      string              `json:"batch,omitempty"`
	Items      map[int]FieldErrors `json:"items,omitempty"`
	Duplicates []string            `json:"duplicate_transaction_ids,omitempty"`
}

func (e *BatchError) Error() string {
	switch e.Batch {
	case CodeEmptyBatch:
		return "batch validation failed: empty batch"
	case CodeMissingTransactions:
		return `batch validation failed: missing "transactions"`
	}
	return fmt.Sprintf("batch validation failed: %d invalid item(s), %d duplicate id(s)",
		len(e.Items), len(e.Duplicates))
}

// NewValidator returns a validator with the custom amount and date
// validations registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return amountInRange(d)
	})
	_ = v.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	return v
}

// amountInRange enforces NUMERIC(14,2) semantics: strictly positive, at
// most 2 fractional digits and at most 12 integer digits.
func amountInRange(d decimal.Decimal) bool {
	if d.Sign() <= 0 {
		return false
	}
	if !d.Equal(d.Truncate(2)) {
		return false
	}
	return len(d.Abs().Truncate(0).String()) <= 12
}

// validateRecord validates one candidate and collects every applicable
// field error. On success it returns the parsed, trimmed record.
func validateRecord(v *validator.Validate, c Candidate) (Record, FieldErrors) {
	c.TransactionID = strings.TrimSpace(c.TransactionID)
	c.CustomerID = strings.TrimSpace(c.CustomerID)
	c.Amount = strings.TrimSpace(c.Amount)
	c.Date = strings.TrimSpace(c.Date)

	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Record{}, FieldErrors{"non_field_errors": "invalid"}
		}
		ferrs := FieldErrors{}
		for _, fe := range verrs {
			switch fe.StructField() {
			case "TransactionID":
				ferrs["transaction_id"] = CodeEmptyField
			case "CustomerID":
				ferrs["customer_id"] = CodeEmptyField
			case "Amount":
				ferrs["amount"] = CodeInvalidAmount
			case "Date":
				ferrs["date"] = CodeInvalidDate
			}
		}
		return Record{}, ferrs
	}

	amount, _ := decimal.NewFromString(c.Amount)
	date, _ := time.Parse(DateLayout, c.Date)
	return Record{
		TransactionID: c.TransactionID,
		Amount:        amount,
		Date:          date,
		CustomerID:    c.CustomerID,
	}, nil
}

// ValidateBatch validates every candidate and checks transaction_id
// uniqueness across the whole batch (case-sensitive, after trimming).
// It returns either the full ordered record slice or a *BatchError
// carrying everything that is wrong with the batch.
func ValidateBatch(v *validator.Validate, candidates []Candidate) ([]Record, *BatchError) {
	if len(candidates) == 0 {
		return nil, &BatchError{Batch: CodeEmptyBatch}
	}

	be := &BatchError{}
	records := make([]Record, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	reported := make(map[string]bool)

	for i, c := range candidates {
		rec, ferrs := validateRecord(v, c)
		if len(ferrs) > 0 {
			if be.Items == nil {
				be.Items = make(map[int]FieldErrors)
			}
			be.Items[i] = ferrs
		} else {
			records = append(records, rec)
		}

		// Duplicate detection runs over every candidate regardless of its
		// own field errors.
		id := strings.TrimSpace(c.TransactionID)
		if id == "" {
			continue
		}
		if seen[id] && !reported[id] {
			be.Duplicates = append(be.Duplicates, id)
			reported[id] = true
		}
		seen[id] = true
	}

	if be.Items != nil || len(be.Duplicates) > 0 {
		return nil, be
	}
	return records, nil
}
