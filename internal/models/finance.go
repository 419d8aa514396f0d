package models

import (
	"time"
)

// FinanceTransaction is a monetary transaction posted against a finance
// account. It belongs to the finance domain; the ownership ledger only writes
// through the LedgerWriter interface and never mutates these records.
type FinanceTransaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"not null;index" json:"account_id"`
	Amount    float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Category  string    `gorm:"index" json:"category"`
	Note      string    `json:"note"`
	TxDate    time.Time `gorm:"type:date;not null;index" json:"tx_date"`
	Reference string    `gorm:"uniqueIndex;not null" json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for FinanceTransaction
func (FinanceTransaction) TableName() string {
	return "finance_transactions"
}

// FinanceAccount is a spending account in the finance domain. Only the fields
// the ledger writer needs to validate a post are modeled here.
type FinanceAccount struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for FinanceAccount
func (FinanceAccount) TableName() string {
	return "finance_accounts"
}
