package repository

import (
	"context"
	"errors"

	"github.com/gearbook/gearbook-api/internal/models"
	"gorm.io/gorm"
)

// LoanRepository defines the interface for loan data access
type LoanRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Loan, error)
	FindByIDWithPayments(ctx context.Context, id uint) (*models.Loan, error)
	FindByVehicle(ctx context.Context, vehicleID uint) ([]models.Loan, error)
	FindActiveByVehicle(ctx context.Context, vehicleID uint) (*models.Loan, error)
	FindActiveAll(ctx context.Context) ([]models.Loan, error)
	Create(ctx context.Context, loan *models.Loan) error
	Update(ctx context.Context, loan *models.Loan) error
	Delete(ctx context.Context, id uint) error

	AppendPayment(ctx context.Context, payment *models.LoanPayment) error
	FindPayments(ctx context.Context, loanID uint) ([]models.LoanPayment, error)
	FindPaymentByReference(ctx context.Context, reference string) (*models.LoanPayment, error)
}

type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) FindByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	if err := r.db.WithContext(ctx).First(&loan, id).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) FindByIDWithPayments(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC, id ASC")
		}).
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) FindByVehicle(ctx context.Context, vehicleID uint) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("created_at ASC").
		Find(&loans).Error
	return loans, err
}

// FindActiveByVehicle returns "the" active loan for derived views: the oldest
// non-closed loan, or nil when the vehicle has none.
func (r *loanRepository) FindActiveByVehicle(ctx context.Context, vehicleID uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND status = ?", vehicleID, models.LoanStatusActive).
		Order("created_at ASC").
		First(&loan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// FindActiveAll is used by the background delinquency scan
func (r *loanRepository) FindActiveAll(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Where("status = ?", models.LoanStatusActive).
		Find(&loans).Error
	return loans, err
}

func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// Update persists loan state with a compare-and-swap on lock_version. The
// remaining principal is shared mutable state between concurrent payment
// workflows, so last-write-wins is not acceptable here.
func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	res := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ? AND lock_version = ?", loan.ID, loan.LockVersion).
		Updates(map[string]interface{}{
			"lender":              loan.Lender,
			"remaining_principal": loan.RemainingPrincipal,
			"status":              loan.Status,
			"closed_at":           loan.ClosedAt,
			"lock_version":        loan.LockVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleRecord
	}
	loan.LockVersion++
	return nil
}

func (r *loanRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Select("Payments").Delete(&models.Loan{ID: id}).Error
}

func (r *loanRepository) AppendPayment(ctx context.Context, payment *models.LoanPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *loanRepository) FindPayments(ctx context.Context, loanID uint) ([]models.LoanPayment, error) {
	var payments []models.LoanPayment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("payment_date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

// FindPaymentByReference supports idempotent payment workflows: a retried
// request with the same reference finds the already-appended payment.
func (r *loanRepository) FindPaymentByReference(ctx context.Context, reference string) (*models.LoanPayment, error) {
	var payment models.LoanPayment
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
