// Package finance is the boundary to the finance domain. The ownership
// ledger only ever posts expense transactions through the LedgerWriter
// interface; account and transaction management belong to the finance side.
package finance

import (
	"context"
	"errors"
	"time"
)

// Typed errors surfaced by the ledger writer
var (
	ErrUnknownAccount    = errors.New("finance account not found")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
)

// Expense is a monetary outflow to post against a finance account. Reference
// is the caller-supplied idempotency token: posting the same reference twice
// returns the original transaction instead of double-posting.
type Expense struct {
	AccountID uint
	Amount    float64
	Category  string
	Note      string
	Date      time.Time
	Reference string
}

// LedgerWriter records monetary transactions against finance accounts
type LedgerWriter interface {
	PostExpense(ctx context.Context, e Expense) (txID uint, err error)
}
