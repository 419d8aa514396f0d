package repository

import (
	"context"
	"errors"

	"github.com/gearbook/gearbook-api/internal/models"
	"gorm.io/gorm"
)

// VehicleRepository defines the interface for vehicle data access
type VehicleRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Vehicle, error)
	FindByOwner(ctx context.Context, ownerID uint, includeArchived bool) ([]models.Vehicle, error)
	Create(ctx context.Context, vehicle *models.Vehicle) error
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id uint) error

	GetPreference(ctx context.Context, ownerID uint) (*models.OwnerPreference, error)
	SetActiveVehicle(ctx context.Context, ownerID uint, vehicleID *uint) error
}

type vehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) FindByOwner(ctx context.Context, ownerID uint, includeArchived bool) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if !includeArchived {
		q = q.Where("archived = ?", false)
	}
	err := q.Order("created_at ASC").Find(&vehicles).Error
	return vehicles, err
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

// Update persists the vehicle with a compare-and-swap on lock_version.
// Concurrent writers race on odometer and archive flips; the loser gets
// ErrStaleRecord and must re-read.
func (r *vehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	res := r.db.WithContext(ctx).Model(&models.Vehicle{}).
		Where("id = ? AND lock_version = ?", vehicle.ID, vehicle.LockVersion).
		Updates(map[string]interface{}{
			"name":         vehicle.Name,
			"vehicle_type": vehicle.VehicleType,
			"odometer":     vehicle.Odometer,
			"archived":     vehicle.Archived,
			"lock_version": vehicle.LockVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleRecord
	}
	vehicle.LockVersion++
	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Vehicle{}, id).Error
}

func (r *vehicleRepository) GetPreference(ctx context.Context, ownerID uint) (*models.OwnerPreference, error) {
	var pref models.OwnerPreference
	err := r.db.WithContext(ctx).First(&pref, "owner_id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.OwnerPreference{OwnerID: ownerID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// SetActiveVehicle upserts the single per-owner preference record. A nil
// vehicleID clears the selection.
func (r *vehicleRepository) SetActiveVehicle(ctx context.Context, ownerID uint, vehicleID *uint) error {
	pref := models.OwnerPreference{OwnerID: ownerID, ActiveVehicleID: vehicleID}
	return r.db.WithContext(ctx).Save(&pref).Error
}
