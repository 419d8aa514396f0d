package services

import (
	"context"
	"time"

	"github.com/gearbook/gearbook-api/internal/maintenance"
	"github.com/gearbook/gearbook-api/internal/models"
	"github.com/gearbook/gearbook-api/internal/repository"
)

// StatsService aggregates a vehicle's ledger into ownership-cost figures.
// Everything here is derived on read; nothing is cached or persisted.
type StatsService struct {
	statsRepo      repository.StatsRepository
	obligationRepo repository.ObligationRepository
	vehicleSvc     *VehicleService
	thresholds     maintenance.Thresholds
}

func NewStatsService(
	statsRepo repository.StatsRepository,
	obligationRepo repository.ObligationRepository,
	vehicleSvc *VehicleService,
	thresholds maintenance.Thresholds,
) *StatsService {
	return &StatsService{
		statsRepo:      statsRepo,
		obligationRepo: obligationRepo,
		vehicleSvc:     vehicleSvc,
		thresholds:     thresholds,
	}
}

const trendMonths = 6

// GetVehicleStats computes the ownership-cost summary for one vehicle
func (s *StatsService) GetVehicleStats(ctx context.Context, ownerID, vehicleID uint) (*models.VehicleStats, error) {
	vehicle, err := s.vehicleSvc.Get(ctx, ownerID, vehicleID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := &models.VehicleStats{VehicleID: vehicleID}

	stats.TotalSpend, err = s.statsRepo.TotalSpend(ctx, vehicleID)
	if err != nil {
		return nil, NewCollaboratorError("total_spend", err)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	stats.MonthSpend, err = s.statsRepo.SpendBetween(ctx, vehicleID, monthStart, now)
	if err != nil {
		return nil, NewCollaboratorError("month_spend", err)
	}

	trendStart := monthStart.AddDate(0, -(trendMonths - 1), 0)
	totals, err := s.statsRepo.MonthlyTotals(ctx, vehicleID, trendStart)
	if err != nil {
		return nil, NewCollaboratorError("monthly_totals", err)
	}
	stats.Trend = fillTrend(totals, trendStart, trendMonths)

	categories, err := s.statsRepo.Breakdown(ctx, vehicleID)
	if err != nil {
		return nil, NewCollaboratorError("breakdown", err)
	}
	stats.Breakdown = make(map[string]float64, len(categories))
	for _, c := range categories {
		stats.Breakdown[c.Category] = c.Total
	}

	months := vehicle.MonthsOwned(now)
	stats.CostPerMonth = stats.TotalSpend / float64(months)
	if vehicle.Odometer > 0 {
		stats.CostPerKm = stats.TotalSpend / float64(vehicle.Odometer)
	}

	stats.OverdueCount, err = s.overdueCount(ctx, vehicle, now)
	if err != nil {
		return nil, err
	}
	stats.HealthScore = healthScore(stats.OverdueCount)

	return stats, nil
}

// fillTrend expands sparse month totals into a dense series, zero-filling
// the months with no spend so the chart always has a fixed width. Buckets
// are matched on year-month internally and labeled by month abbreviation.
func fillTrend(totals []repository.MonthTotal, start time.Time, months int) []models.TrendPoint {
	byMonth := make(map[string]float64, len(totals))
	for _, t := range totals {
		key := time.Date(t.Year, time.Month(t.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
		byMonth[key] = t.Total
	}
	trend := make([]models.TrendPoint, 0, months)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0)
		trend = append(trend, models.TrendPoint{Month: m.Format("Jan"), Amount: byMonth[m.Format("2006-01")]})
	}
	return trend
}

func (s *StatsService) overdueCount(ctx context.Context, vehicle *models.Vehicle, now time.Time) (int, error) {
	obligations, err := s.obligationRepo.FindByVehicle(ctx, vehicle.ID, models.ObligationStatusPending)
	if err != nil {
		return 0, NewCollaboratorError("list_obligations", err)
	}
	count := 0
	for _, o := range obligations {
		if maintenance.Classify(o, now, vehicle.Odometer, s.thresholds) == maintenance.StateOverdue {
			count++
		}
	}
	return count, nil
}

// healthScore grades a vehicle 0-100: each overdue obligation costs 10
// points, floored at zero.
func healthScore(overdueObligations int) int {
	score := 100 - overdueObligations*10
	if score < 0 {
		score = 0
	}
	return score
}
