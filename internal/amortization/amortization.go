// Package amortization holds the pure loan math: EMI computation under the
// reducing-balance and flat-rate conventions, month-by-month schedule
// generation, prepayment simulation and the loan status resolver.
package amortization

import (
	"math"
	"time"

	"github.com/gearbook/gearbook-api/internal/models"
)

// prepaymentIterationCap bounds payoff simulations against runaway loops
// when the EMI barely covers the monthly interest.
const prepaymentIterationCap = 120

// Figures are the derived installment numbers for a loan's terms
type Figures struct {
	EMI           float64 `json:"emi"`
	TotalPayable  float64 `json:"total_payable"`
	TotalInterest float64 `json:"total_interest"`
}

// Compute derives EMI, total payable and total interest for principal p,
// annual rate percent and tenure n months under the given interest
// convention. Degenerate inputs (p, rate or n <= 0) yield all zeros so
// callers never divide by zero.
func Compute(p, rate float64, n int, kind string) Figures {
	if p <= 0 || rate <= 0 || n <= 0 {
		return Figures{}
	}

	switch kind {
	case models.InterestKindFlat:
		totalInterest := p * (rate / 100) * (float64(n) / 12)
		emi := math.Round((p + totalInterest) / float64(n))
		return Figures{
			EMI:           emi,
			TotalPayable:  p + totalInterest,
			TotalInterest: totalInterest,
		}
	default: // reducing balance
		r := rate / 1200
		pow := math.Pow(1+r, float64(n))
		emi := math.Round(p * r * pow / (pow - 1))
		total := emi * float64(n)
		return Figures{
			EMI:           emi,
			TotalPayable:  total,
			TotalInterest: total - p,
		}
	}
}

// ScheduleRow is one month of the repayment breakdown
type ScheduleRow struct {
	Month       int       `json:"month"`
	PaymentDate time.Time `json:"payment_date"`
	EMI         float64   `json:"emi"`
	Principal   float64   `json:"principal"`
	Interest    float64   `json:"interest"`
	Balance     float64   `json:"balance"`
}

// Schedule generates the month-by-month breakdown for display and audit.
// The balance tracked here is illustrative; the loan's RemainingPrincipal
// stays authoritative for state. The final row clamps the principal to the
// remaining balance so the schedule always closes at exactly zero, and
// iteration stops once the balance is repaid (length <= tenure).
func Schedule(loan models.Loan) []ScheduleRow {
	fig := Compute(loan.Principal, loan.AnnualRate, loan.TenureMonths, loan.InterestKind)
	if fig.EMI <= 0 {
		return nil
	}

	r := loan.AnnualRate / 1200
	flatInterest := fig.TotalInterest / float64(loan.TenureMonths)

	rows := make([]ScheduleRow, 0, loan.TenureMonths)
	balance := loan.Principal
	for i := 1; i <= loan.TenureMonths && balance > 0; i++ {
		var interest float64
		if loan.InterestKind == models.InterestKindFlat {
			interest = flatInterest
		} else {
			interest = balance * r
		}

		principal := fig.EMI - interest
		if principal > balance || i == loan.TenureMonths {
			principal = balance
		}
		balance -= principal

		rows = append(rows, ScheduleRow{
			Month:       i,
			PaymentDate: installmentDate(loan.StartDate, i, loan.DueDay),
			EMI:         fig.EMI,
			Principal:   principal,
			Interest:    interest,
			Balance:     balance,
		})
	}
	return rows
}

// installmentDate is the payment date for month i: the start date advanced by
// i-1 months, with the day pinned to the loan's due-day when due-day <= 28
// (days 29-31 would overflow short months).
func installmentDate(start time.Time, i, dueDay int) time.Time {
	d := addMonthsClamped(start, i-1)
	if dueDay >= 1 && dueDay <= 28 {
		return time.Date(d.Year(), d.Month(), dueDay, 0, 0, 0, 0, d.Location())
	}
	return d
}

// addMonthsClamped adds months, clamping day-of-month to the target month
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	anchor := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	last := time.Date(anchor.Year(), anchor.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if d > last {
		d = last
	}
	return time.Date(anchor.Year(), anchor.Month(), d, 0, 0, 0, 0, t.Location())
}

// PrepaymentResult reports the outcome of applying a lump sum against the
// current balance with unchanged EMI and rate.
type PrepaymentResult struct {
	FullClosure      bool    `json:"full_closure"`
	InterestSaved    float64 `json:"interest_saved"`
	MonthsSaved      int     `json:"months_saved"`
	BaselineMonths   int     `json:"baseline_months"`
	BaselineInterest float64 `json:"baseline_interest"`
	PrepaidMonths    int     `json:"prepaid_months"`
	PrepaidInterest  float64 `json:"prepaid_interest"`
}

// SimulatePrepayment compares two reducing-balance payoff trajectories: the
// baseline starting at the current balance, and one starting at balance-extra.
// When extra covers the whole balance the loan closes outright and no
// simulation runs.
func SimulatePrepayment(balance, extra, emi, annualRate float64) PrepaymentResult {
	if extra >= balance {
		return PrepaymentResult{FullClosure: true}
	}

	r := annualRate / 1200
	baseMonths, baseInterest := payoff(balance, emi, r)
	preMonths, preInterest := payoff(balance-extra, emi, r)

	res := PrepaymentResult{
		BaselineMonths:   baseMonths,
		BaselineInterest: baseInterest,
		PrepaidMonths:    preMonths,
		PrepaidInterest:  preInterest,
		InterestSaved:    baseInterest - preInterest,
		MonthsSaved:      baseMonths - preMonths,
	}
	if res.InterestSaved < 0 {
		res.InterestSaved = 0
	}
	if res.MonthsSaved < 0 {
		res.MonthsSaved = 0
	}
	return res
}

// payoff iterates a reducing-balance trajectory month by month until the
// balance reaches zero or the iteration cap, returning months taken and
// interest accumulated.
func payoff(balance, emi, r float64) (int, float64) {
	months := 0
	interest := 0.0
	for balance > 0 && months < prepaymentIterationCap {
		m := balance * r
		principal := emi - m
		if principal <= 0 {
			// EMI no longer covers interest; the cap is the only exit
			months = prepaymentIterationCap
			break
		}
		if principal > balance {
			principal = balance
		}
		interest += m
		balance -= principal
		months++
	}
	return months, interest
}
