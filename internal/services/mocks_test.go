package services

import (
	"context"
	"time"

	"github.com/gearbook/gearbook-api/internal/finance"
	"github.com/gearbook/gearbook-api/internal/models"
	"github.com/gearbook/gearbook-api/internal/repository"
)

// Mock VehicleRepository
type mockVehicleRepository struct {
	repository.VehicleRepository
	mockFindByID      func(ctx context.Context, id uint) (*models.Vehicle, error)
	mockUpdate        func(ctx context.Context, vehicle *models.Vehicle) error
	mockGetPreference func(ctx context.Context, ownerID uint) (*models.OwnerPreference, error)
}

func (m *mockVehicleRepository) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func (m *mockVehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, vehicle)
	}
	return nil
}

func (m *mockVehicleRepository) GetPreference(ctx context.Context, ownerID uint) (*models.OwnerPreference, error) {
	if m.mockGetPreference != nil {
		return m.mockGetPreference(ctx, ownerID)
	}
	return &models.OwnerPreference{OwnerID: ownerID}, nil
}

// Mock ObligationRepository
type mockObligationRepository struct {
	repository.ObligationRepository
	mockFindByID      func(ctx context.Context, id uint) (*models.MaintenanceObligation, error)
	mockCreate        func(ctx context.Context, obligation *models.MaintenanceObligation) error
	mockDelete        func(ctx context.Context, id uint) error
	mockFindByVehicle func(ctx context.Context, vehicleID uint, status string) ([]models.MaintenanceObligation, error)
}

func (m *mockObligationRepository) FindByVehicle(ctx context.Context, vehicleID uint, status string) ([]models.MaintenanceObligation, error) {
	if m.mockFindByVehicle != nil {
		return m.mockFindByVehicle(ctx, vehicleID, status)
	}
	return nil, nil
}

func (m *mockObligationRepository) FindByID(ctx context.Context, id uint) (*models.MaintenanceObligation, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func (m *mockObligationRepository) Create(ctx context.Context, obligation *models.MaintenanceObligation) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, obligation)
	}
	return nil
}

func (m *mockObligationRepository) Delete(ctx context.Context, id uint) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, id)
	}
	return nil
}

// Mock EntryRepository
type mockEntryRepository struct {
	repository.EntryRepository
	mockCreate func(ctx context.Context, entry *models.LedgerEntry) error
}

func (m *mockEntryRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, entry)
	}
	return nil
}

// Mock LoanRepository
type mockLoanRepository struct {
	repository.LoanRepository
	mockFindByIDWithPayments   func(ctx context.Context, id uint) (*models.Loan, error)
	mockAppendPayment          func(ctx context.Context, payment *models.LoanPayment) error
	mockFindPaymentByReference func(ctx context.Context, reference string) (*models.LoanPayment, error)
	mockUpdate                 func(ctx context.Context, loan *models.Loan) error
	mockCreate                 func(ctx context.Context, loan *models.Loan) error
	mockFindActiveByVehicle    func(ctx context.Context, vehicleID uint) (*models.Loan, error)
	mockFindPayments           func(ctx context.Context, loanID uint) ([]models.LoanPayment, error)
}

func (m *mockLoanRepository) FindActiveByVehicle(ctx context.Context, vehicleID uint) (*models.Loan, error) {
	if m.mockFindActiveByVehicle != nil {
		return m.mockFindActiveByVehicle(ctx, vehicleID)
	}
	return nil, nil
}

func (m *mockLoanRepository) FindPayments(ctx context.Context, loanID uint) ([]models.LoanPayment, error) {
	if m.mockFindPayments != nil {
		return m.mockFindPayments(ctx, loanID)
	}
	return nil, nil
}

func (m *mockLoanRepository) FindByIDWithPayments(ctx context.Context, id uint) (*models.Loan, error) {
	if m.mockFindByIDWithPayments != nil {
		return m.mockFindByIDWithPayments(ctx, id)
	}
	return nil, nil
}

func (m *mockLoanRepository) AppendPayment(ctx context.Context, payment *models.LoanPayment) error {
	if m.mockAppendPayment != nil {
		return m.mockAppendPayment(ctx, payment)
	}
	return nil
}

func (m *mockLoanRepository) FindPaymentByReference(ctx context.Context, reference string) (*models.LoanPayment, error) {
	if m.mockFindPaymentByReference != nil {
		return m.mockFindPaymentByReference(ctx, reference)
	}
	return nil, nil
}

func (m *mockLoanRepository) Update(ctx context.Context, loan *models.Loan) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, loan)
	}
	return nil
}

func (m *mockLoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, loan)
	}
	return nil
}

// Mock StatsRepository
type mockStatsRepository struct {
	mockTotalSpend               func(ctx context.Context, vehicleID uint) (float64, error)
	mockSpendBetween             func(ctx context.Context, vehicleID uint, from, to time.Time) (float64, error)
	mockMonthlyTotals            func(ctx context.Context, vehicleID uint, from time.Time) ([]repository.MonthTotal, error)
	mockBreakdown                func(ctx context.Context, vehicleID uint) ([]repository.CategoryTotal, error)
	mockHistoricalMonthlyAverage func(ctx context.Context, vehicleID uint, before time.Time) (float64, error)
}

func (m *mockStatsRepository) TotalSpend(ctx context.Context, vehicleID uint) (float64, error) {
	if m.mockTotalSpend != nil {
		return m.mockTotalSpend(ctx, vehicleID)
	}
	return 0, nil
}

func (m *mockStatsRepository) SpendBetween(ctx context.Context, vehicleID uint, from, to time.Time) (float64, error) {
	if m.mockSpendBetween != nil {
		return m.mockSpendBetween(ctx, vehicleID, from, to)
	}
	return 0, nil
}

func (m *mockStatsRepository) MonthlyTotals(ctx context.Context, vehicleID uint, from time.Time) ([]repository.MonthTotal, error) {
	if m.mockMonthlyTotals != nil {
		return m.mockMonthlyTotals(ctx, vehicleID, from)
	}
	return nil, nil
}

func (m *mockStatsRepository) Breakdown(ctx context.Context, vehicleID uint) ([]repository.CategoryTotal, error) {
	if m.mockBreakdown != nil {
		return m.mockBreakdown(ctx, vehicleID)
	}
	return nil, nil
}

func (m *mockStatsRepository) HistoricalMonthlyAverage(ctx context.Context, vehicleID uint, before time.Time) (float64, error) {
	if m.mockHistoricalMonthlyAverage != nil {
		return m.mockHistoricalMonthlyAverage(ctx, vehicleID, before)
	}
	return 0, nil
}

// Mock LedgerWriter
type mockLedgerWriter struct {
	mockPostExpense func(ctx context.Context, e finance.Expense) (uint, error)
	posted          []finance.Expense
}

func (m *mockLedgerWriter) PostExpense(ctx context.Context, e finance.Expense) (uint, error) {
	m.posted = append(m.posted, e)
	if m.mockPostExpense != nil {
		return m.mockPostExpense(ctx, e)
	}
	return 1, nil
}
