package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearbook/gearbook-api/internal/maintenance"
	"github.com/gearbook/gearbook-api/internal/models"
	"github.com/gearbook/gearbook-api/internal/repository"
	"github.com/gearbook/gearbook-api/internal/watch"
)

func newStatsService(vehicle *models.Vehicle, statsRepo *mockStatsRepository, obligationRepo *mockObligationRepository) *StatsService {
	vehicleRepo := &mockVehicleRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Vehicle, error) {
			return vehicle, nil
		},
	}
	vehicleSvc := NewVehicleService(vehicleRepo, obligationRepo, NewAuditService(nil), watch.NewHub())
	return NewStatsService(statsRepo, obligationRepo, vehicleSvc, maintenance.DefaultThresholds)
}

func TestFillTrendLabelsByMonthAbbreviation(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	totals := []repository.MonthTotal{
		{Year: 2024, Month: 1, Total: 1200},
		{Year: 2024, Month: 3, Total: 300},
	}

	trend := fillTrend(totals, start, 6)

	require.Len(t, trend, 6)
	labels := make([]string, 0, len(trend))
	amounts := make([]float64, 0, len(trend))
	for _, p := range trend {
		labels = append(labels, p.Month)
		amounts = append(amounts, p.Amount)
	}
	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}, labels)
	assert.Equal(t, []float64{1200, 0, 300, 0, 0, 0}, amounts)
}

func TestFillTrendZeroFillsEmptyHistory(t *testing.T) {
	start := time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)

	trend := fillTrend(nil, start, 6)

	require.Len(t, trend, 6)
	assert.Equal(t, "Nov", trend[0].Month)
	assert.Equal(t, "Apr", trend[5].Month, "labels roll over the year boundary")
	for _, p := range trend {
		assert.Zero(t, p.Amount)
	}
}

func TestHealthScoreTenPointsPerOverdue(t *testing.T) {
	cases := []struct {
		overdue int
		want    int
	}{
		{0, 100},
		{1, 90},
		{2, 80},
		{10, 0},
		{12, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, healthScore(tc.overdue), "overdue=%d", tc.overdue)
	}
}

func TestGetVehicleStats(t *testing.T) {
	vehicle := ownedVehicle()
	vehicle.PurchaseDate = time.Now().AddDate(-1, 0, 0)

	yesterday := time.Now().AddDate(0, 0, -1)
	nextYear := time.Now().AddDate(1, 0, 0)
	statsRepo := &mockStatsRepository{
		mockTotalSpend: func(ctx context.Context, vehicleID uint) (float64, error) {
			return 24000, nil
		},
		mockSpendBetween: func(ctx context.Context, vehicleID uint, from, to time.Time) (float64, error) {
			return 2000, nil
		},
		mockBreakdown: func(ctx context.Context, vehicleID uint) ([]repository.CategoryTotal, error) {
			return []repository.CategoryTotal{
				{Category: models.EntryCategoryFuel, Total: 10000},
				{Category: models.EntryCategoryService, Total: 14000},
			}, nil
		},
	}
	obligationRepo := &mockObligationRepository{
		mockFindByVehicle: func(ctx context.Context, vehicleID uint, status string) ([]models.MaintenanceObligation, error) {
			return []models.MaintenanceObligation{
				{Name: "Oil Change", TriggerKind: models.TriggerKindDate, DueDate: &yesterday, Status: models.ObligationStatusPending},
				{Name: "Brake Inspection", TriggerKind: models.TriggerKindDate, DueDate: &nextYear, Status: models.ObligationStatusPending},
			}, nil
		},
	}
	svc := newStatsService(vehicle, statsRepo, obligationRepo)

	stats, err := svc.GetVehicleStats(context.Background(), 1, 4)

	require.NoError(t, err)
	assert.Equal(t, 24000.0, stats.TotalSpend)
	assert.Equal(t, 2000.0, stats.MonthSpend)
	assert.Equal(t, map[string]float64{"fuel": 10000, "service": 14000}, stats.Breakdown)
	assert.Len(t, stats.Trend, trendMonths)

	months := vehicle.MonthsOwned(time.Now())
	assert.Equal(t, 24000.0/float64(months), stats.CostPerMonth)
	assert.Equal(t, 1.0, stats.CostPerKm, "24000 spend over 24000 km")
	assert.Equal(t, 1, stats.OverdueCount, "only the lapsed obligation counts")
	assert.Equal(t, 90, stats.HealthScore)
}

func TestGetVehicleStatsRecomputesIdentically(t *testing.T) {
	vehicle := ownedVehicle()
	vehicle.PurchaseDate = time.Now().AddDate(-2, 0, 0)

	statsRepo := &mockStatsRepository{
		mockTotalSpend: func(ctx context.Context, vehicleID uint) (float64, error) {
			return 5000, nil
		},
	}
	svc := newStatsService(vehicle, statsRepo, &mockObligationRepository{})

	first, err := svc.GetVehicleStats(context.Background(), 1, 4)
	require.NoError(t, err)
	second, err := svc.GetVehicleStats(context.Background(), 1, 4)
	require.NoError(t, err)

	assert.Equal(t, first, second, "derivation over unchanged state must be stable")
}

func TestGetVehicleStatsDefaultsMissingData(t *testing.T) {
	vehicle := ownedVehicle()
	vehicle.Odometer = 0
	vehicle.PurchaseDate = time.Now()
	svc := newStatsService(vehicle, &mockStatsRepository{}, &mockObligationRepository{})

	stats, err := svc.GetVehicleStats(context.Background(), 1, 4)

	require.NoError(t, err)
	assert.Zero(t, stats.TotalSpend)
	assert.Zero(t, stats.CostPerKm, "zero odometer never divides")
	assert.Equal(t, 100, stats.HealthScore)
	assert.Len(t, stats.Trend, trendMonths)
	assert.Empty(t, stats.Breakdown)
}
