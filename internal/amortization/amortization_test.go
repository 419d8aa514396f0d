package amortization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearbook/gearbook-api/internal/models"
)

func TestComputeReducingWorkedExample(t *testing.T) {
	// 200,000 at 8.5% over 60 months
	fig := Compute(200000, 8.5, 60, models.InterestKindReducing)

	assert.Equal(t, float64(4103), fig.EMI)
	assert.InDelta(t, 246180, fig.TotalPayable, 1)
	assert.InDelta(t, 46180, fig.TotalInterest, 1)
}

func TestComputeFlat(t *testing.T) {
	// 100,000 at 10% flat over 24 months: interest = P * r * years
	fig := Compute(100000, 10, 24, models.InterestKindFlat)

	assert.Equal(t, float64(5000), fig.EMI)
	assert.Equal(t, float64(120000), fig.TotalPayable)
	assert.Equal(t, float64(20000), fig.TotalInterest)
}

func TestComputeFlatCostsMoreThanReducing(t *testing.T) {
	flat := Compute(200000, 8.5, 60, models.InterestKindFlat)
	reducing := Compute(200000, 8.5, 60, models.InterestKindReducing)

	assert.Greater(t, flat.TotalInterest, reducing.TotalInterest)
}

func TestComputeDegenerateInputs(t *testing.T) {
	assert.Equal(t, Figures{}, Compute(0, 8.5, 60, models.InterestKindReducing))
	assert.Equal(t, Figures{}, Compute(200000, 0, 60, models.InterestKindReducing))
	assert.Equal(t, Figures{}, Compute(200000, 8.5, 0, models.InterestKindFlat))
}

func testLoan(kind string) models.Loan {
	return models.Loan{
		Principal:    200000,
		AnnualRate:   8.5,
		InterestKind: kind,
		TenureMonths: 60,
		StartDate:    time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		DueDay:       10,
	}
}

func TestScheduleClosesAtZero(t *testing.T) {
	for _, kind := range []string{models.InterestKindReducing, models.InterestKindFlat} {
		t.Run(kind, func(t *testing.T) {
			rows := Schedule(testLoan(kind))

			require.NotEmpty(t, rows)
			assert.LessOrEqual(t, len(rows), 60)

			last := rows[len(rows)-1]
			assert.InDelta(t, 0, last.Balance, 1e-9)

			var principalSum float64
			for _, row := range rows {
				principalSum += row.Principal
			}
			assert.InDelta(t, 200000, principalSum, 1e-6)
		})
	}
}

func TestScheduleBalanceDecreasesMonotonically(t *testing.T) {
	rows := Schedule(testLoan(models.InterestKindReducing))

	prev := 200000.0
	for _, row := range rows {
		assert.Less(t, row.Balance, prev, "month %d", row.Month)
		prev = row.Balance
	}
}

func TestScheduleInstallmentDates(t *testing.T) {
	rows := Schedule(testLoan(models.InterestKindReducing))

	require.True(t, len(rows) >= 2)
	assert.Equal(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), rows[0].PaymentDate)
	assert.Equal(t, time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), rows[1].PaymentDate)
}

func TestInstallmentDateHighDueDayClamps(t *testing.T) {
	// Due-day 31 cannot be pinned; the clamped month arithmetic applies
	start := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), installmentDate(start, 2, 31))
	assert.Equal(t, time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), installmentDate(start, 3, 31))
}

func TestSimulatePrepaymentFullClosure(t *testing.T) {
	res := SimulatePrepayment(50000, 50000, 4103, 8.5)
	assert.True(t, res.FullClosure)

	res = SimulatePrepayment(50000, 60000, 4103, 8.5)
	assert.True(t, res.FullClosure)
}

func TestSimulatePrepaymentSavesInterestAndMonths(t *testing.T) {
	res := SimulatePrepayment(150000, 30000, 4103, 8.5)

	assert.False(t, res.FullClosure)
	assert.Greater(t, res.InterestSaved, 0.0)
	assert.Greater(t, res.MonthsSaved, 0)
	assert.Less(t, res.PrepaidMonths, res.BaselineMonths)
	assert.Less(t, res.PrepaidInterest, res.BaselineInterest)
}

func TestSimulatePrepaymentMonotonicInExtra(t *testing.T) {
	prevSaved := -1.0
	for _, extra := range []float64{10000, 20000, 40000, 80000} {
		res := SimulatePrepayment(150000, extra, 4103, 8.5)
		require.False(t, res.FullClosure)
		assert.GreaterOrEqual(t, res.InterestSaved, prevSaved, "extra %v", extra)
		prevSaved = res.InterestSaved
	}
}

func TestSimulatePrepaymentEMIBelowInterestHitsCap(t *testing.T) {
	// 100 EMI never covers monthly interest on 100,000 at 20%
	res := SimulatePrepayment(100000, 1000, 100, 20)

	assert.Equal(t, prepaymentIterationCap, res.BaselineMonths)
	assert.Equal(t, prepaymentIterationCap, res.PrepaidMonths)
	assert.Equal(t, 0, res.MonthsSaved)
}
