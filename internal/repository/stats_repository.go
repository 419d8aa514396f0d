package repository

import (
	"context"
	"time"

	"github.com/gearbook/gearbook-api/internal/models"
	"gorm.io/gorm"
)

// CategoryTotal is a per-category spend sum
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// MonthTotal is a per-calendar-month spend sum
type MonthTotal struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

// StatsRepository runs the aggregate queries behind derived views. Every
// method is a pure read over ledger entries; aggregation is recomputed on
// demand rather than incrementally maintained.
type StatsRepository interface {
	TotalSpend(ctx context.Context, vehicleID uint) (float64, error)
	SpendBetween(ctx context.Context, vehicleID uint, from, to time.Time) (float64, error)
	MonthlyTotals(ctx context.Context, vehicleID uint, from time.Time) ([]MonthTotal, error)
	Breakdown(ctx context.Context, vehicleID uint) ([]CategoryTotal, error)
	HistoricalMonthlyAverage(ctx context.Context, vehicleID uint, before time.Time) (float64, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) TotalSpend(ctx context.Context, vehicleID uint) (float64, error) {
	var result struct {
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("vehicle_id = ?", vehicleID).
		Scan(&result).Error
	return result.Total, err
}

func (r *statsRepository) SpendBetween(ctx context.Context, vehicleID uint, from, to time.Time) (float64, error) {
	var result struct {
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("vehicle_id = ? AND entry_date >= ? AND entry_date < ?", vehicleID, from, to).
		Scan(&result).Error
	return result.Total, err
}

// MonthlyTotals returns per-month sums for entries dated on or after from,
// oldest first. Months without entries are absent; the caller fills gaps.
func (r *statsRepository) MonthlyTotals(ctx context.Context, vehicleID uint, from time.Time) ([]MonthTotal, error) {
	var rows []MonthTotal
	err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Select("EXTRACT(YEAR FROM entry_date)::int as year, EXTRACT(MONTH FROM entry_date)::int as month, COALESCE(SUM(amount), 0) as total").
		Where("vehicle_id = ? AND entry_date >= ?", vehicleID, from).
		Group("1, 2").
		Order("1, 2").
		Scan(&rows).Error
	return rows, err
}

func (r *statsRepository) Breakdown(ctx context.Context, vehicleID uint) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Select("category, COALESCE(SUM(amount), 0) as total").
		Where("vehicle_id = ?", vehicleID).
		Group("category").
		Scan(&rows).Error
	return rows, err
}

// HistoricalMonthlyAverage is the vehicle's mean spend over the months that
// have at least one entry before the cutoff (usually the start of the
// current month). Zero when there is no history yet.
func (r *statsRepository) HistoricalMonthlyAverage(ctx context.Context, vehicleID uint, before time.Time) (float64, error) {
	var result struct {
		Avg float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Select("COALESCE(SUM(amount) / NULLIF(COUNT(DISTINCT date_trunc('month', entry_date)), 0), 0) as avg").
		Where("vehicle_id = ? AND entry_date < ?", vehicleID, before).
		Scan(&result).Error
	return result.Avg, err
}
