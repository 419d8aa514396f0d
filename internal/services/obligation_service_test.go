package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearbook/gearbook-api/internal/finance"
	"github.com/gearbook/gearbook-api/internal/maintenance"
	"github.com/gearbook/gearbook-api/internal/models"
	"github.com/gearbook/gearbook-api/internal/watch"
)

type completionFixture struct {
	vehicleRepo    *mockVehicleRepository
	obligationRepo *mockObligationRepository
	entryRepo      *mockEntryRepository
	writer         *mockLedgerWriter
	svc            *ObligationService
}

func newCompletionFixture(vehicle *models.Vehicle, obligation *models.MaintenanceObligation) *completionFixture {
	f := &completionFixture{
		vehicleRepo: &mockVehicleRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.Vehicle, error) {
				return vehicle, nil
			},
		},
		obligationRepo: &mockObligationRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.MaintenanceObligation, error) {
				return obligation, nil
			},
		},
		entryRepo: &mockEntryRepository{},
		writer:    &mockLedgerWriter{},
	}

	hub := watch.NewHub()
	audit := NewAuditService(nil)
	vehicleSvc := NewVehicleService(f.vehicleRepo, f.obligationRepo, audit, hub)
	f.svc = NewObligationService(f.obligationRepo, f.entryRepo, vehicleSvc, f.writer, audit, hub, maintenance.DefaultThresholds)
	return f
}

func pendingOilChange() *models.MaintenanceObligation {
	due := time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC)
	dueOdo := int64(25000)
	return &models.MaintenanceObligation{
		ID:            9,
		VehicleID:     4,
		Name:          "Oil Change",
		TriggerKind:   models.TriggerKindBoth,
		DueDate:       &due,
		DueOdometer:   &dueOdo,
		Recurring:     true,
		IntervalValue: 6,
		IntervalUnit:  models.IntervalUnitMonths,
		IntervalKm:    10000,
		Status:        models.ObligationStatusPending,
	}
}

func ownedVehicle() *models.Vehicle {
	return &models.Vehicle{
		ID:       4,
		OwnerID:  1,
		Name:     "Daily Driver",
		Odometer: 24000,
	}
}

func TestCompleteRunsAllSteps(t *testing.T) {
	vehicle := ownedVehicle()
	obligation := pendingOilChange()
	f := newCompletionFixture(vehicle, obligation)

	var createdEntry *models.LedgerEntry
	f.entryRepo.mockCreate = func(ctx context.Context, entry *models.LedgerEntry) error {
		entry.ID = 77
		createdEntry = entry
		return nil
	}
	var deletedID uint
	f.obligationRepo.mockDelete = func(ctx context.Context, id uint) error {
		deletedID = id
		return nil
	}
	var successor *models.MaintenanceObligation
	f.obligationRepo.mockCreate = func(ctx context.Context, o *models.MaintenanceObligation) error {
		o.ID = 10
		successor = o
		return nil
	}
	var updatedVehicle *models.Vehicle
	f.vehicleRepo.mockUpdate = func(ctx context.Context, v *models.Vehicle) error {
		updatedVehicle = v
		return nil
	}

	accountID := uint(2)
	result, err := f.svc.Complete(context.Background(), 1, 9, CompletionDetails{
		Date:           time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
		Odometer:       24800,
		Cost:           1500,
		AccountID:      &accountID,
		IdempotencyKey: "key-123",
	})

	require.NoError(t, err)
	require.NotNil(t, result)

	// Finance post carries the idempotency reference
	require.Len(t, f.writer.posted, 1)
	assert.Equal(t, "key-123", f.writer.posted[0].Reference)
	assert.Equal(t, 1500.0, f.writer.posted[0].Amount)

	// Entry is linked to the posted transaction and tagged service
	require.NotNil(t, createdEntry)
	assert.Equal(t, models.EntryCategoryService, createdEntry.Category)
	require.NotNil(t, createdEntry.FinanceTransactionID)
	assert.Equal(t, uint(1), *createdEntry.FinanceTransactionID)
	require.NotNil(t, createdEntry.ObligationID)
	assert.Equal(t, uint(9), *createdEntry.ObligationID)

	// Odometer advanced
	require.NotNil(t, updatedVehicle)
	assert.Equal(t, int64(24800), updatedVehicle.Odometer)

	// Fulfilled obligation removed, successor anchored at completion
	assert.Equal(t, uint(9), deletedID)
	require.NotNil(t, successor)
	require.NotNil(t, successor.DueDate)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), *successor.DueDate)
	require.NotNil(t, successor.DueOdometer)
	assert.Equal(t, int64(34800), *successor.DueOdometer)
	assert.Equal(t, successor, result.Successor)
}

func TestCompleteFinanceFailureAbortsRemainingSteps(t *testing.T) {
	f := newCompletionFixture(ownedVehicle(), pendingOilChange())

	f.writer.mockPostExpense = func(ctx context.Context, e finance.Expense) (uint, error) {
		return 0, errors.New("finance unavailable")
	}
	entryCreated := false
	f.entryRepo.mockCreate = func(ctx context.Context, entry *models.LedgerEntry) error {
		entryCreated = true
		return nil
	}
	deleted := false
	f.obligationRepo.mockDelete = func(ctx context.Context, id uint) error {
		deleted = true
		return nil
	}

	accountID := uint(2)
	_, err := f.svc.Complete(context.Background(), 1, 9, CompletionDetails{
		Odometer:  24800,
		Cost:      1500,
		AccountID: &accountID,
	})

	require.Error(t, err)
	var cerr *CollaboratorError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "finance_post", cerr.Step)

	assert.False(t, entryCreated, "entry must not be written after a failed finance post")
	assert.False(t, deleted, "obligation must survive an aborted workflow")
}

func TestCompleteEntryFailureLeavesObligation(t *testing.T) {
	f := newCompletionFixture(ownedVehicle(), pendingOilChange())

	f.entryRepo.mockCreate = func(ctx context.Context, entry *models.LedgerEntry) error {
		return errors.New("store down")
	}
	deleted := false
	f.obligationRepo.mockDelete = func(ctx context.Context, id uint) error {
		deleted = true
		return nil
	}

	_, err := f.svc.Complete(context.Background(), 1, 9, CompletionDetails{Odometer: 24800, Cost: 900})

	var cerr *CollaboratorError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "append_entry", cerr.Step)
	assert.False(t, deleted)
}

func TestCompleteAlreadyCompleted(t *testing.T) {
	obligation := pendingOilChange()
	obligation.Status = models.ObligationStatusCompleted
	f := newCompletionFixture(ownedVehicle(), obligation)

	_, err := f.svc.Complete(context.Background(), 1, 9, CompletionDetails{Cost: 100})

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCompleteAccountWithoutCost(t *testing.T) {
	f := newCompletionFixture(ownedVehicle(), pendingOilChange())

	accountID := uint(2)
	_, err := f.svc.Complete(context.Background(), 1, 9, CompletionDetails{
		Cost:      0,
		AccountID: &accountID,
	})

	assert.True(t, IsValidation(err))
	assert.Empty(t, f.writer.posted)
}

func TestCompleteZeroCostSkipsFinancePost(t *testing.T) {
	f := newCompletionFixture(ownedVehicle(), pendingOilChange())

	var createdEntry *models.LedgerEntry
	f.entryRepo.mockCreate = func(ctx context.Context, entry *models.LedgerEntry) error {
		createdEntry = entry
		return nil
	}

	_, err := f.svc.Complete(context.Background(), 1, 9, CompletionDetails{Odometer: 24800})

	require.NoError(t, err)
	assert.Empty(t, f.writer.posted)
	require.NotNil(t, createdEntry)
	assert.Nil(t, createdEntry.FinanceTransactionID)
}

func TestCompleteLowerOdometerSkipsVehicleUpdate(t *testing.T) {
	vehicle := ownedVehicle() // at 24000
	f := newCompletionFixture(vehicle, pendingOilChange())

	updated := false
	f.vehicleRepo.mockUpdate = func(ctx context.Context, v *models.Vehicle) error {
		updated = true
		return nil
	}

	_, err := f.svc.Complete(context.Background(), 1, 9, CompletionDetails{Odometer: 20000, Cost: 500})

	require.NoError(t, err, "a non-increasing reading is a warning, not a failure")
	assert.False(t, updated)
}

func TestCompleteNonRecurringLeavesNoSuccessor(t *testing.T) {
	obligation := pendingOilChange()
	obligation.Recurring = false
	f := newCompletionFixture(ownedVehicle(), obligation)

	created := false
	f.obligationRepo.mockCreate = func(ctx context.Context, o *models.MaintenanceObligation) error {
		created = true
		return nil
	}

	result, err := f.svc.Complete(context.Background(), 1, 9, CompletionDetails{Odometer: 24800, Cost: 500})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Nil(t, result.Successor)
}

func TestCompleteOtherOwnersObligation(t *testing.T) {
	f := newCompletionFixture(ownedVehicle(), pendingOilChange())

	_, err := f.svc.Complete(context.Background(), 99, 9, CompletionDetails{Cost: 100})

	assert.ErrorIs(t, err, ErrNotFound)
}
