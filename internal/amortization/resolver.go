package amortization

import (
	"time"

	"github.com/gearbook/gearbook-api/internal/models"
)

// LoanStatus is the resolved position of a loan against its payment history.
// "Now" is an input, so this is recomputed on every read instead of cached.
type LoanStatus struct {
	InstallmentsPaid     int       `json:"installments_paid"`
	ExpectedInstallments int       `json:"expected_installments"`
	TotalPaid            float64   `json:"total_paid"`
	RemainingBalance     float64   `json:"remaining_balance"`
	RemainingInterest    float64   `json:"remaining_interest"`
	IsOverdue            bool      `json:"is_overdue"`
	DaysLate             int       `json:"days_late"`
	Status               string    `json:"status"`
	NextInstallmentDate  time.Time `json:"next_installment_date"`
}

// Resolve combines a loan's terms with its recorded payments to produce the
// paid count, balances and overdue/active/closed status as of now.
func Resolve(loan models.Loan, payments []models.LoanPayment, now time.Time) LoanStatus {
	st := LoanStatus{}

	for _, p := range payments {
		st.TotalPaid += p.Amount
		if p.Category == models.PaymentCategoryEMI {
			st.InstallmentsPaid++
		}
	}

	st.ExpectedInstallments = expectedInstallments(loan, now)

	due := st.ExpectedInstallments
	if loan.TenureMonths < due {
		due = loan.TenureMonths
	}
	st.IsOverdue = st.InstallmentsPaid < due

	st.RemainingBalance = loan.TotalPayable - st.TotalPaid
	if st.RemainingBalance < 0 {
		st.RemainingBalance = 0
	}
	paidInterest := st.TotalPaid - (loan.Principal - loan.RemainingPrincipal)
	st.RemainingInterest = loan.TotalInterest - paidInterest
	if st.RemainingInterest < 0 {
		st.RemainingInterest = 0
	}

	st.NextInstallmentDate = installmentDate(loan.StartDate, st.InstallmentsPaid+1, loan.DueDay)
	if st.IsOverdue {
		st.DaysLate = wholeDays(st.NextInstallmentDate, now)
		if st.DaysLate < 0 {
			st.DaysLate = 0
		}
	}

	// A loan already marked closed never reverts, regardless of history.
	switch {
	case loan.IsClosed() || st.RemainingBalance <= 0:
		st.Status = models.LoanStatusClosed
	case st.IsOverdue:
		st.Status = "overdue"
	default:
		st.Status = models.LoanStatusActive
	}

	return st
}

// expectedInstallments counts whole months elapsed since the start date, plus
// one more when the current day-of-month has reached the due-day (this
// month's installment has also come due).
func expectedInstallments(loan models.Loan, now time.Time) int {
	months := (now.Year()-loan.StartDate.Year())*12 + int(now.Month()) - int(loan.StartDate.Month())
	if now.Day() < loan.StartDate.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	if now.Day() >= loan.DueDay {
		months++
	}
	return months
}

// wholeDays returns now - from in whole days at date granularity
func wholeDays(from, now time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(n.Sub(f).Hours() / 24)
}
