package models

import (
	"time"
)

// LedgerEntry is one recorded vehicle-related expense or event. Entries are
// append-only in normal operation; an entry linked to a finance transaction is
// immutable except for administrative correction.
type LedgerEntry struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	VehicleID            uint      `gorm:"not null;index" json:"vehicle_id"`
	ObligationID         *uint     `gorm:"index" json:"obligation_id,omitempty"`
	Category             string    `gorm:"not null;index" json:"category"`
	Amount               float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	EntryDate            time.Time `gorm:"type:date;not null;index" json:"entry_date"`
	Odometer             *int64    `json:"odometer,omitempty"`
	Notes                *string   `gorm:"type:text" json:"notes,omitempty"`
	FinanceTransactionID *uint     `gorm:"index" json:"finance_transaction_id,omitempty"`
	CreatedAt            time.Time `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName specifies the table name for LedgerEntry
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// Entry category constants
const (
	EntryCategoryFuel      = "fuel"
	EntryCategoryService   = "service"
	EntryCategoryEMI       = "emi"
	EntryCategoryInsurance = "insurance"
	EntryCategoryOther     = "other"
)

// ValidEntryCategory reports whether c is a known entry category
func ValidEntryCategory(c string) bool {
	switch c {
	case EntryCategoryFuel, EntryCategoryService, EntryCategoryEMI, EntryCategoryInsurance, EntryCategoryOther:
		return true
	}
	return false
}

// IsFinanceLinked returns true if the entry was posted to the finance ledger
func (e *LedgerEntry) IsFinanceLinked() bool {
	return e.FinanceTransactionID != nil
}

// LedgerEntryResponse is the JSON response format for ledger entries
type LedgerEntryResponse struct {
	ID            uint      `json:"id"`
	VehicleID     uint      `json:"vehicle_id"`
	ObligationID  *uint     `json:"obligation_id,omitempty"`
	Category      string    `json:"category"`
	Amount        float64   `json:"amount"`
	EntryDate     time.Time `json:"entry_date"`
	Odometer      *int64    `json:"odometer,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	FinanceLinked bool      `json:"finance_linked"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToResponse converts LedgerEntry to LedgerEntryResponse
func (e *LedgerEntry) ToResponse() LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:            e.ID,
		VehicleID:     e.VehicleID,
		ObligationID:  e.ObligationID,
		Category:      e.Category,
		Amount:        e.Amount,
		EntryDate:     e.EntryDate,
		Odometer:      e.Odometer,
		Notes:         e.Notes,
		FinanceLinked: e.IsFinanceLinked(),
		CreatedAt:     e.CreatedAt,
	}
}
