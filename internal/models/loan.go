package models

import (
	"time"
)

// Loan represents a vehicle loan with fixed EMI terms. RemainingPrincipal is
// the authoritative running balance, decremented by each payment's principal
// component and floored at 0; reaching 0 closes the loan.
type Loan struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	VehicleID          uint       `gorm:"not null;index" json:"vehicle_id"`
	Lender             string     `gorm:"not null" json:"lender"`
	Principal          float64    `gorm:"type:decimal(14,2);not null" json:"principal"`
	AnnualRate         float64    `gorm:"type:decimal(6,3);not null" json:"annual_rate"`
	InterestKind       string     `gorm:"not null;default:reducing" json:"interest_kind"`
	TenureMonths       int        `gorm:"not null" json:"tenure_months"`
	StartDate          time.Time  `gorm:"type:date;not null" json:"start_date"`
	DueDay             int        `gorm:"not null;default:1" json:"due_day"` // 1-31
	EMI                float64    `gorm:"type:decimal(12,2)" json:"emi"`
	TotalPayable       float64    `gorm:"type:decimal(14,2)" json:"total_payable"`
	TotalInterest      float64    `gorm:"type:decimal(14,2)" json:"total_interest"`
	RemainingPrincipal float64    `gorm:"type:decimal(14,2)" json:"remaining_principal"`
	Status             string     `gorm:"default:active;not null;index" json:"status"`
	LockVersion        int        `gorm:"not null;default:0" json:"lock_version"`
	ClosedAt           *time.Time `json:"closed_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Associations
	Payments []LoanPayment `gorm:"foreignKey:LoanID" json:"payments,omitempty"`
}

// TableName specifies the table name for Loan
func (Loan) TableName() string {
	return "loans"
}

// Loan status constants
const (
	LoanStatusActive = "active"
	LoanStatusClosed = "closed"
)

// Interest convention constants
const (
	InterestKindReducing = "reducing"
	InterestKindFlat     = "flat"
)

// IsClosed returns true once the loan has been closed. Closed loans never
// revert to active, even if more payments are erroneously appended.
func (l *Loan) IsClosed() bool {
	return l.Status == LoanStatusClosed
}

// MayClose returns true if the loan can transition to closed
func (l *Loan) MayClose() bool {
	return l.Status == LoanStatusActive && l.RemainingPrincipal <= 0
}

// LoanPayment is one posted payment against a loan. Append-only; once posted
// it participates in all downstream balance and overdue computations.
type LoanPayment struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	LoanID             uint      `gorm:"not null;index" json:"loan_id"`
	PaymentDate        time.Time `gorm:"type:date;not null" json:"payment_date"`
	Amount             float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	PrincipalComponent float64   `gorm:"type:decimal(12,2)" json:"principal_component"`
	InterestComponent  float64   `gorm:"type:decimal(12,2)" json:"interest_component"`
	PenaltyComponent   float64   `gorm:"type:decimal(12,2)" json:"penalty_component"`
	DiscountComponent  float64   `gorm:"type:decimal(12,2)" json:"discount_component"`
	Category           string    `gorm:"not null;default:emi;index" json:"category"`
	AccountID          *uint     `json:"account_id,omitempty"`
	Reference          string    `gorm:"uniqueIndex" json:"reference"` // idempotency token for the finance post
	Notes              *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// TableName specifies the table name for LoanPayment
func (LoanPayment) TableName() string {
	return "loan_payments"
}

// Payment category constants
const (
	PaymentCategoryEMI        = "emi"
	PaymentCategoryPrepayment = "prepayment"
	PaymentCategoryPenalty    = "penalty"
)

// ValidPaymentCategory reports whether category is a known payment category
func ValidPaymentCategory(category string) bool {
	switch category {
	case PaymentCategoryEMI, PaymentCategoryPrepayment, PaymentCategoryPenalty:
		return true
	}
	return false
}

// LoanResponse is the JSON response format for loans
type LoanResponse struct {
	ID                 uint       `json:"id"`
	VehicleID          uint       `json:"vehicle_id"`
	Lender             string     `json:"lender"`
	Principal          float64    `json:"principal"`
	AnnualRate         float64    `json:"annual_rate"`
	InterestKind       string     `json:"interest_kind"`
	TenureMonths       int        `json:"tenure_months"`
	StartDate          time.Time  `json:"start_date"`
	DueDay             int        `json:"due_day"`
	EMI                float64    `json:"emi"`
	TotalPayable       float64    `json:"total_payable"`
	TotalInterest      float64    `json:"total_interest"`
	RemainingPrincipal float64    `json:"remaining_principal"`
	Status             string     `json:"status"`
	ClosedAt           *time.Time `json:"closed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ToResponse converts Loan to LoanResponse
func (l *Loan) ToResponse() LoanResponse {
	return LoanResponse{
		ID:                 l.ID,
		VehicleID:          l.VehicleID,
		Lender:             l.Lender,
		Principal:          l.Principal,
		AnnualRate:         l.AnnualRate,
		InterestKind:       l.InterestKind,
		TenureMonths:       l.TenureMonths,
		StartDate:          l.StartDate,
		DueDay:             l.DueDay,
		EMI:                l.EMI,
		TotalPayable:       l.TotalPayable,
		TotalInterest:      l.TotalInterest,
		RemainingPrincipal: l.RemainingPrincipal,
		Status:             l.Status,
		ClosedAt:           l.ClosedAt,
		CreatedAt:          l.CreatedAt,
	}
}
