package amortization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gearbook/gearbook-api/internal/models"
)

func resolverLoan() models.Loan {
	return models.Loan{
		Principal:          200000,
		AnnualRate:         8.5,
		InterestKind:       models.InterestKindReducing,
		TenureMonths:       60,
		StartDate:          time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		DueDay:             10,
		EMI:                4103,
		TotalPayable:       246180,
		TotalInterest:      46180,
		RemainingPrincipal: 200000,
		Status:             models.LoanStatusActive,
	}
}

func emiPayments(n int) []models.LoanPayment {
	payments := make([]models.LoanPayment, n)
	for i := range payments {
		payments[i] = models.LoanPayment{
			Amount:   4103,
			Category: models.PaymentCategoryEMI,
		}
	}
	return payments
}

func TestResolveBeforeFirstInstallment(t *testing.T) {
	now := time.Date(2024, time.January, 9, 0, 0, 0, 0, time.UTC)

	st := Resolve(resolverLoan(), nil, now)

	assert.Equal(t, 0, st.ExpectedInstallments)
	assert.False(t, st.IsOverdue)
	assert.Equal(t, models.LoanStatusActive, st.Status)
}

func TestResolveOnFirstDueDayUnpaid(t *testing.T) {
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	st := Resolve(resolverLoan(), nil, now)

	assert.Equal(t, 1, st.ExpectedInstallments)
	assert.True(t, st.IsOverdue)
	assert.Equal(t, "overdue", st.Status)
	assert.Equal(t, 0, st.DaysLate)
}

func TestResolveExpectedInstallmentsOverTime(t *testing.T) {
	loan := resolverLoan()

	tests := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2024, time.January, 9, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2024, time.February, 9, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), 2},
		{time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), 3},
	}
	for _, tt := range tests {
		st := Resolve(loan, nil, tt.now)
		assert.Equal(t, tt.want, st.ExpectedInstallments, "at %s", tt.now)
	}
}

func TestResolveBehindSchedule(t *testing.T) {
	// Three installments expected, two paid
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	st := Resolve(resolverLoan(), emiPayments(2), now)

	assert.Equal(t, 2, st.InstallmentsPaid)
	assert.Equal(t, 3, st.ExpectedInstallments)
	assert.True(t, st.IsOverdue)
	assert.Equal(t, "overdue", st.Status)
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), st.NextInstallmentDate)
	assert.Equal(t, 5, st.DaysLate)
	assert.InDelta(t, 246180-2*4103, st.RemainingBalance, 1e-9)
}

func TestResolveOnSchedule(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	st := Resolve(resolverLoan(), emiPayments(3), now)

	assert.False(t, st.IsOverdue)
	assert.Equal(t, models.LoanStatusActive, st.Status)
	assert.Equal(t, 0, st.DaysLate)
}

func TestResolveExpectedInstallmentsCappedByTenure(t *testing.T) {
	// Eight years in on a five-year loan: only the tenure can come due
	now := time.Date(2032, time.June, 15, 0, 0, 0, 0, time.UTC)

	st := Resolve(resolverLoan(), emiPayments(60), now)

	assert.False(t, st.IsOverdue)
	assert.Equal(t, models.LoanStatusClosed, st.Status)
}

func TestResolveClosesWhenFullyPaid(t *testing.T) {
	loan := resolverLoan()
	payments := emiPayments(59)
	payments = append(payments, models.LoanPayment{
		Amount:   loan.TotalPayable - 59*4103,
		Category: models.PaymentCategoryEMI,
	})
	now := time.Date(2029, time.January, 15, 0, 0, 0, 0, time.UTC)

	st := Resolve(loan, payments, now)

	assert.Equal(t, models.LoanStatusClosed, st.Status)
	assert.Equal(t, 0.0, st.RemainingBalance)
}

func TestResolveClosedNeverReverts(t *testing.T) {
	loan := resolverLoan()
	loan.Status = models.LoanStatusClosed

	// No payments at all and well past several due dates: still closed
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	st := Resolve(loan, nil, now)

	assert.Equal(t, models.LoanStatusClosed, st.Status)
}

func TestResolvePrepaymentsCountTowardBalanceNotInstallments(t *testing.T) {
	now := time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)
	payments := append(emiPayments(2), models.LoanPayment{
		Amount:   20000,
		Category: models.PaymentCategoryPrepayment,
	})

	st := Resolve(resolverLoan(), payments, now)

	assert.Equal(t, 2, st.InstallmentsPaid)
	assert.InDelta(t, 246180-2*4103-20000, st.RemainingBalance, 1e-9)
	assert.False(t, st.IsOverdue)
}
