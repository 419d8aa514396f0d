package repository

import (
	"context"

	"github.com/gearbook/gearbook-api/internal/models"
	"gorm.io/gorm"
)

// EntryRepository defines the interface for ledger entry data access
type EntryRepository interface {
	FindByID(ctx context.Context, id uint) (*models.LedgerEntry, error)
	FindByVehicle(ctx context.Context, vehicleID uint, query *ListQuery) ([]models.LedgerEntry, int64, error)
	LatestByCategory(ctx context.Context, vehicleID uint, category string) (*models.LedgerEntry, error)
	Create(ctx context.Context, entry *models.LedgerEntry) error
	Update(ctx context.Context, entry *models.LedgerEntry) error
	Delete(ctx context.Context, id uint) error
}

type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new ledger entry repository
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) FindByID(ctx context.Context, id uint) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository) FindByVehicle(ctx context.Context, vehicleID uint, query *ListQuery) ([]models.LedgerEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.LedgerEntry{}).Where("vehicle_id = ?", vehicleID)

	if category := query.Filters["category"]; category != "" {
		q = q.Where("category = ?", category)
	}
	if from := query.Filters["start_date"]; from != "" {
		q = q.Where("entry_date >= ?", from)
	}
	if to := query.Filters["end_date"]; to != "" {
		q = q.Where("entry_date <= ?", to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.LedgerEntry
	err := q.Order("entry_date DESC, created_at DESC").
		Limit(query.PerPage).
		Offset(query.Offset()).
		Find(&entries).Error
	return entries, total, err
}

// LatestByCategory returns the most recent entry of a category, or
// gorm.ErrRecordNotFound when the vehicle has none.
func (r *entryRepository) LatestByCategory(ctx context.Context, vehicleID uint, category string) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND category = ?", vehicleID, category).
		Order("entry_date DESC, created_at DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *entryRepository) Update(ctx context.Context, entry *models.LedgerEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *entryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.LedgerEntry{}, id).Error
}
