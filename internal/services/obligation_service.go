package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gearbook/gearbook-api/internal/finance"
	"github.com/gearbook/gearbook-api/internal/maintenance"
	"github.com/gearbook/gearbook-api/internal/models"
	"github.com/gearbook/gearbook-api/internal/repository"
	"github.com/gearbook/gearbook-api/internal/statemachine"
	"github.com/gearbook/gearbook-api/internal/watch"
	"github.com/gearbook/gearbook-api/pkg/logger"
)

// ObligationService owns the maintenance obligation lifecycle, including the
// multi-step completion workflow. The workflow steps are separate writes with
// no shared transaction: a failure aborts the remaining steps and surfaces a
// CollaboratorError naming the failed step, without rolling back earlier ones.
type ObligationService struct {
	repo       repository.ObligationRepository
	entryRepo  repository.EntryRepository
	vehicleSvc *VehicleService
	writer     finance.LedgerWriter
	auditSvc   *AuditService
	hub        *watch.Hub
	thresholds maintenance.Thresholds
}

func NewObligationService(
	repo repository.ObligationRepository,
	entryRepo repository.EntryRepository,
	vehicleSvc *VehicleService,
	writer finance.LedgerWriter,
	auditSvc *AuditService,
	hub *watch.Hub,
	thresholds maintenance.Thresholds,
) *ObligationService {
	return &ObligationService{
		repo:       repo,
		entryRepo:  entryRepo,
		vehicleSvc: vehicleSvc,
		writer:     writer,
		auditSvc:   auditSvc,
		hub:        hub,
		thresholds: thresholds,
	}
}

// Create inserts an owner-defined obligation after validating its trigger
// invariants.
func (s *ObligationService) Create(ctx context.Context, ownerID uint, obligation *models.MaintenanceObligation) error {
	if _, err := s.vehicleSvc.Get(ctx, ownerID, obligation.VehicleID); err != nil {
		return err
	}
	if obligation.Name == "" {
		return NewValidationError("name", "is required")
	}
	if err := obligation.Validate(); err != nil {
		return NewValidationError("trigger", err.Error())
	}
	obligation.Status = models.ObligationStatusPending

	if err := s.repo.Create(ctx, obligation); err != nil {
		return NewCollaboratorError("create_obligation", err)
	}
	s.hub.Publish(watch.Event{Collection: watch.CollectionObligations, Op: watch.OpCreate, RecordID: obligation.ID, VehicleID: obligation.VehicleID})
	return nil
}

// Get loads an obligation scoped to the owner
func (s *ObligationService) Get(ctx context.Context, ownerID, id uint) (*models.MaintenanceObligation, error) {
	obligation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	if _, err := s.vehicleSvc.Get(ctx, ownerID, obligation.VehicleID); err != nil {
		return nil, err
	}
	return obligation, nil
}

// List returns a vehicle's obligations with each one classified against
// today's date and the vehicle's current odometer.
func (s *ObligationService) List(ctx context.Context, ownerID, vehicleID uint, status string) ([]models.ObligationResponse, error) {
	vehicle, err := s.vehicleSvc.Get(ctx, ownerID, vehicleID)
	if err != nil {
		return nil, err
	}
	obligations, err := s.repo.FindByVehicle(ctx, vehicleID, status)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]models.ObligationResponse, 0, len(obligations))
	for _, o := range obligations {
		state := ""
		if o.Status == models.ObligationStatusPending {
			state = maintenance.Classify(o, now, vehicle.Odometer, s.thresholds)
		}
		out = append(out, o.ToResponse(state))
	}
	return out, nil
}

// Delete dismisses an obligation without recording anything
func (s *ObligationService) Delete(ctx context.Context, ownerID, id uint) error {
	obligation, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return NewCollaboratorError("delete_obligation", err)
	}
	_ = s.auditSvc.Log(ctx, ownerID, "dismiss", "obligation", id, obligation.Name)
	s.hub.Publish(watch.Event{Collection: watch.CollectionObligations, Op: watch.OpDelete, RecordID: id, VehicleID: obligation.VehicleID})
	return nil
}

// CompletionDetails carries the fulfillment facts for an obligation
type CompletionDetails struct {
	Date           time.Time `json:"date"`
	Odometer       int64     `json:"odometer"`
	Cost           float64   `json:"cost"`
	AccountID      *uint     `json:"account_id"`
	Notes          *string   `json:"notes"`
	IdempotencyKey string    `json:"idempotency_key"`
}

// CompletionResult reports what the completion workflow produced
type CompletionResult struct {
	Entry     *models.LedgerEntry           `json:"entry"`
	Successor *models.MaintenanceObligation `json:"successor,omitempty"`
}

// Complete runs the obligation completion workflow:
//
//  1. optionally post the cost to the finance ledger (idempotent on reference)
//  2. append the ledger entry, tagged with the obligation's category
//  3. bump the vehicle odometer when the reading is an increase
//  4. delete the fulfilled obligation
//  5. insert the recurring successor computed from this completion
func (s *ObligationService) Complete(ctx context.Context, ownerID, id uint, details CompletionDetails) (*CompletionResult, error) {
	obligation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	vehicle, err := s.vehicleSvc.Get(ctx, ownerID, obligation.VehicleID)
	if err != nil {
		return nil, err
	}

	if details.Cost < 0 {
		return nil, NewValidationError("cost", "must not be negative")
	}
	if details.AccountID != nil && details.Cost <= 0 {
		return nil, NewValidationError("cost", "is required when posting to an account")
	}
	if details.Date.IsZero() {
		details.Date = time.Now()
	}

	fsm := statemachine.NewObligationFSM(obligation)
	if err := fsm.Complete(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	category := obligation.EntryCategory()
	entry := &models.LedgerEntry{
		VehicleID:    obligation.VehicleID,
		ObligationID: &obligation.ID,
		Category:     category,
		Amount:       details.Cost,
		EntryDate:    details.Date,
		Notes:        details.Notes,
	}
	if details.Odometer > 0 {
		entry.Odometer = &details.Odometer
	}

	// Step 1: finance post
	if details.Cost > 0 && details.AccountID != nil {
		reference := details.IdempotencyKey
		if reference == "" {
			reference = uuid.NewString()
		}
		txID, err := s.writer.PostExpense(ctx, finance.Expense{
			AccountID: *details.AccountID,
			Amount:    details.Cost,
			Category:  category,
			Note:      fmt.Sprintf("%s - %s", vehicle.Name, obligation.Name),
			Date:      details.Date,
			Reference: reference,
		})
		if err != nil {
			return nil, NewCollaboratorError("finance_post", err)
		}
		entry.FinanceTransactionID = &txID
		_ = s.auditSvc.Log(ctx, ownerID, "finance_post", "obligation", id, reference)
	}

	// Step 2: append the ledger entry
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, NewCollaboratorError("append_entry", err)
	}
	s.hub.Publish(watch.Event{Collection: watch.CollectionEntries, Op: watch.OpCreate, RecordID: entry.ID, VehicleID: entry.VehicleID})

	// Step 3: odometer (skipped with a warning when not an increase)
	if details.Odometer > 0 {
		if err := s.vehicleSvc.ApplyOdometer(ctx, vehicle, details.Odometer); err != nil {
			return nil, NewCollaboratorError("update_odometer", err)
		}
	}

	// Step 4: remove the fulfilled obligation
	if err := s.repo.Delete(ctx, obligation.ID); err != nil {
		return nil, NewCollaboratorError("delete_obligation", err)
	}
	s.hub.Publish(watch.Event{Collection: watch.CollectionObligations, Op: watch.OpDelete, RecordID: obligation.ID, VehicleID: obligation.VehicleID})

	result := &CompletionResult{Entry: entry}

	// Step 5: recurring successor anchored at this completion
	if obligation.Recurring {
		successor := maintenance.NextOccurrence(*obligation, details.Date, details.Odometer)
		if successor.DueDate != nil || successor.DueOdometer != nil {
			if err := s.repo.Create(ctx, &successor); err != nil {
				return nil, NewCollaboratorError("insert_successor", err)
			}
			s.hub.Publish(watch.Event{Collection: watch.CollectionObligations, Op: watch.OpCreate, RecordID: successor.ID, VehicleID: successor.VehicleID})
			result.Successor = &successor
		} else {
			logger.Warn("Recurring obligation has no usable interval, successor skipped", "obligation_id", obligation.ID)
		}
	}

	_ = s.auditSvc.Log(ctx, ownerID, "complete", "obligation", id,
		fmt.Sprintf("entry %d, cost %.2f", entry.ID, details.Cost))

	return result, nil
}
