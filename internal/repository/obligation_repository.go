package repository

import (
	"context"

	"github.com/gearbook/gearbook-api/internal/models"
	"gorm.io/gorm"
)

// ObligationRepository defines the interface for maintenance obligation data access
type ObligationRepository interface {
	FindByID(ctx context.Context, id uint) (*models.MaintenanceObligation, error)
	FindByVehicle(ctx context.Context, vehicleID uint, status string) ([]models.MaintenanceObligation, error)
	FindPendingAll(ctx context.Context) ([]models.MaintenanceObligation, error)
	Create(ctx context.Context, obligation *models.MaintenanceObligation) error
	CreateBatch(ctx context.Context, obligations []models.MaintenanceObligation) error
	Update(ctx context.Context, obligation *models.MaintenanceObligation) error
	Delete(ctx context.Context, id uint) error
}

type obligationRepository struct {
	db *gorm.DB
}

// NewObligationRepository creates a new obligation repository
func NewObligationRepository(db *gorm.DB) ObligationRepository {
	return &obligationRepository{db: db}
}

func (r *obligationRepository) FindByID(ctx context.Context, id uint) (*models.MaintenanceObligation, error) {
	var obligation models.MaintenanceObligation
	if err := r.db.WithContext(ctx).First(&obligation, id).Error; err != nil {
		return nil, err
	}
	return &obligation, nil
}

func (r *obligationRepository) FindByVehicle(ctx context.Context, vehicleID uint, status string) ([]models.MaintenanceObligation, error) {
	var obligations []models.MaintenanceObligation
	q := r.db.WithContext(ctx).Where("vehicle_id = ?", vehicleID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("due_date ASC NULLS LAST, due_odometer ASC NULLS LAST").Find(&obligations).Error
	return obligations, err
}

// FindPendingAll is used by the background overdue scan
func (r *obligationRepository) FindPendingAll(ctx context.Context) ([]models.MaintenanceObligation, error) {
	var obligations []models.MaintenanceObligation
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ObligationStatusPending).
		Find(&obligations).Error
	return obligations, err
}

func (r *obligationRepository) Create(ctx context.Context, obligation *models.MaintenanceObligation) error {
	return r.db.WithContext(ctx).Create(obligation).Error
}

func (r *obligationRepository) CreateBatch(ctx context.Context, obligations []models.MaintenanceObligation) error {
	if len(obligations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&obligations).Error
}

func (r *obligationRepository) Update(ctx context.Context, obligation *models.MaintenanceObligation) error {
	return r.db.WithContext(ctx).Save(obligation).Error
}

func (r *obligationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.MaintenanceObligation{}, id).Error
}
