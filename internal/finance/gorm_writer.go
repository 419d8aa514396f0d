package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/gearbook/gearbook-api/internal/models"
	"gorm.io/gorm"
)

// gormLedgerWriter posts expenses into the finance domain's tables
type gormLedgerWriter struct {
	db *gorm.DB
}

// NewLedgerWriter creates a database-backed ledger writer
func NewLedgerWriter(db *gorm.DB) LedgerWriter {
	return &gormLedgerWriter{db: db}
}

// PostExpense validates the expense and inserts it, keyed by reference so a
// retried workflow step cannot double-post.
func (w *gormLedgerWriter) PostExpense(ctx context.Context, e Expense) (uint, error) {
	if e.Amount <= 0 {
		return 0, ErrNonPositiveAmount
	}

	var account models.FinanceAccount
	if err := w.db.WithContext(ctx).First(&account, e.AccountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUnknownAccount
		}
		return 0, fmt.Errorf("failed to load finance account: %w", err)
	}

	// Idempotent on reference: a retry after partial workflow failure finds
	// the already-posted transaction.
	var existing models.FinanceTransaction
	err := w.db.WithContext(ctx).Where("reference = ?", e.Reference).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("failed to check transaction reference: %w", err)
	}

	tx := models.FinanceTransaction{
		AccountID: e.AccountID,
		Amount:    e.Amount,
		Category:  e.Category,
		Note:      e.Note,
		TxDate:    e.Date,
		Reference: e.Reference,
	}
	if err := w.db.WithContext(ctx).Create(&tx).Error; err != nil {
		return 0, fmt.Errorf("failed to post expense: %w", err)
	}
	return tx.ID, nil
}
