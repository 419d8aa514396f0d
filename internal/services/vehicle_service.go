package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gearbook/gearbook-api/internal/maintenance"
	"github.com/gearbook/gearbook-api/internal/models"
	"github.com/gearbook/gearbook-api/internal/repository"
	"github.com/gearbook/gearbook-api/internal/watch"
	"github.com/gearbook/gearbook-api/pkg/logger"
)

// VehicleService owns vehicle CRUD, the per-owner active selection and the
// monotonic odometer invariant.
type VehicleService struct {
	repo           repository.VehicleRepository
	obligationRepo repository.ObligationRepository
	auditSvc       *AuditService
	hub            *watch.Hub
}

func NewVehicleService(repo repository.VehicleRepository, obligationRepo repository.ObligationRepository, auditSvc *AuditService, hub *watch.Hub) *VehicleService {
	return &VehicleService{
		repo:           repo,
		obligationRepo: obligationRepo,
		auditSvc:       auditSvc,
		hub:            hub,
	}
}

// CreateVehicleInput carries the fields an owner supplies for a new vehicle
type CreateVehicleInput struct {
	Name         string    `json:"name"`
	VehicleType  string    `json:"vehicle_type"`
	Odometer     int64     `json:"odometer"`
	PurchaseDate time.Time `json:"purchase_date"`
}

// Create inserts the vehicle, seeds the standard obligation catalogue for its
// type and makes it the owner's active vehicle when it is the first one.
func (s *VehicleService) Create(ctx context.Context, ownerID uint, input CreateVehicleInput) (*models.Vehicle, error) {
	if input.Name == "" {
		return nil, NewValidationError("name", "is required")
	}
	if input.Odometer < 0 {
		return nil, NewValidationError("odometer", "must not be negative")
	}
	if input.VehicleType == "" {
		input.VehicleType = models.VehicleTypeCar
	}
	if input.PurchaseDate.IsZero() {
		input.PurchaseDate = time.Now()
	}

	vehicle := &models.Vehicle{
		OwnerID:      ownerID,
		Name:         input.Name,
		VehicleType:  input.VehicleType,
		Odometer:     input.Odometer,
		PurchaseDate: input.PurchaseDate,
	}
	if err := s.repo.Create(ctx, vehicle); err != nil {
		return nil, NewCollaboratorError("create_vehicle", err)
	}

	seeded := maintenance.SeedObligations(vehicle.ID, vehicle.VehicleType, time.Now(), vehicle.Odometer)
	if err := s.obligationRepo.CreateBatch(ctx, seeded); err != nil {
		// The vehicle exists; seeding is not rolled back automatically
		return nil, NewCollaboratorError("seed_obligations", err)
	}

	existing, err := s.repo.FindByOwner(ctx, ownerID, false)
	if err == nil && len(existing) == 1 {
		if err := s.repo.SetActiveVehicle(ctx, ownerID, &vehicle.ID); err != nil {
			logger.Warn("Failed to set first vehicle active", "vehicle_id", vehicle.ID, "error", err)
		}
	}

	_ = s.auditSvc.Log(ctx, ownerID, "create", "vehicle", vehicle.ID, fmt.Sprintf("seeded %d obligations", len(seeded)))
	s.hub.Publish(watch.Event{Collection: watch.CollectionVehicles, Op: watch.OpCreate, RecordID: vehicle.ID, VehicleID: vehicle.ID})

	return vehicle, nil
}

// Get loads a vehicle, scoped to its owner
func (s *VehicleService) Get(ctx context.Context, ownerID, id uint) (*models.Vehicle, error) {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	if vehicle.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return vehicle, nil
}

// List returns the owner's vehicles with the active flag resolved from the
// preference record.
func (s *VehicleService) List(ctx context.Context, ownerID uint, includeArchived bool) ([]models.VehicleResponse, error) {
	vehicles, err := s.repo.FindByOwner(ctx, ownerID, includeArchived)
	if err != nil {
		return nil, err
	}
	pref, err := s.repo.GetPreference(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]models.VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		active := pref.ActiveVehicleID != nil && *pref.ActiveVehicleID == v.ID
		out = append(out, v.ToResponse(active))
	}
	return out, nil
}

// ActiveVehicleID resolves the owner's current selection, nil when unset
func (s *VehicleService) ActiveVehicleID(ctx context.Context, ownerID uint) (*uint, error) {
	pref, err := s.repo.GetPreference(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return pref.ActiveVehicleID, nil
}

// UpdateVehicleInput carries optional field edits
type UpdateVehicleInput struct {
	Name        *string `json:"name"`
	VehicleType *string `json:"vehicle_type"`
	Odometer    *int64  `json:"odometer"`
}

// Update edits vehicle fields. An explicit odometer edit below the stored
// reading violates the monotonic invariant and is rejected.
func (s *VehicleService) Update(ctx context.Context, ownerID, id uint, input UpdateVehicleInput) (*models.Vehicle, error) {
	vehicle, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, NewValidationError("name", "is required")
		}
		vehicle.Name = *input.Name
	}
	if input.VehicleType != nil {
		vehicle.VehicleType = *input.VehicleType
	}
	if input.Odometer != nil {
		if *input.Odometer < vehicle.Odometer {
			return nil, NewValidationError("odometer", "must not decrease")
		}
		vehicle.Odometer = *input.Odometer
	}

	if err := s.repo.Update(ctx, vehicle); err != nil {
		return nil, translateRepoErr(err)
	}
	s.hub.Publish(watch.Event{Collection: watch.CollectionVehicles, Op: watch.OpUpdate, RecordID: vehicle.ID, VehicleID: vehicle.ID})
	return vehicle, nil
}

// Activate makes the vehicle the owner's active one. Archived vehicles
// cannot be activated.
func (s *VehicleService) Activate(ctx context.Context, ownerID, id uint) error {
	vehicle, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if vehicle.Archived {
		return NewValidationError("vehicle", "archived vehicles cannot be activated")
	}
	if err := s.repo.SetActiveVehicle(ctx, ownerID, &vehicle.ID); err != nil {
		return NewCollaboratorError("set_active_vehicle", err)
	}
	_ = s.auditSvc.Log(ctx, ownerID, "activate", "vehicle", vehicle.ID, "")
	return nil
}

// Archive retires the vehicle and clears the active selection when it was
// the selected one.
func (s *VehicleService) Archive(ctx context.Context, ownerID, id uint) error {
	vehicle, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if vehicle.Archived {
		return nil
	}
	vehicle.Archived = true
	if err := s.repo.Update(ctx, vehicle); err != nil {
		return translateRepoErr(err)
	}

	pref, err := s.repo.GetPreference(ctx, ownerID)
	if err == nil && pref.ActiveVehicleID != nil && *pref.ActiveVehicleID == id {
		if err := s.repo.SetActiveVehicle(ctx, ownerID, nil); err != nil {
			logger.Warn("Failed to clear active vehicle after archive", "vehicle_id", id, "error", err)
		}
	}

	_ = s.auditSvc.Log(ctx, ownerID, "archive", "vehicle", id, "")
	s.hub.Publish(watch.Event{Collection: watch.CollectionVehicles, Op: watch.OpUpdate, RecordID: id, VehicleID: id})
	return nil
}

// Delete removes the vehicle record. Cleaning up referencing entries is the
// owner's responsibility; no cascade is enforced here.
func (s *VehicleService) Delete(ctx context.Context, ownerID, id uint) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return NewCollaboratorError("delete_vehicle", err)
	}
	_ = s.auditSvc.Log(ctx, ownerID, "delete", "vehicle", id, "")
	s.hub.Publish(watch.Event{Collection: watch.CollectionVehicles, Op: watch.OpDelete, RecordID: id, VehicleID: id})
	return nil
}

// ApplyOdometer records a reading observed from an entry. Readings that are
// not an increase are skipped with a consistency warning rather than failing
// the surrounding workflow.
func (s *VehicleService) ApplyOdometer(ctx context.Context, vehicle *models.Vehicle, reading int64) error {
	if !vehicle.MayRecordOdometer(reading) {
		if reading > 0 {
			logger.Warn("Odometer update skipped, reading is not an increase",
				"vehicle_id", vehicle.ID, "stored", vehicle.Odometer, "reading", reading)
		}
		return nil
	}
	vehicle.Odometer = reading
	if err := s.repo.Update(ctx, vehicle); err != nil {
		return translateRepoErr(err)
	}
	s.hub.Publish(watch.Event{Collection: watch.CollectionVehicles, Op: watch.OpUpdate, RecordID: vehicle.ID, VehicleID: vehicle.ID})
	return nil
}
