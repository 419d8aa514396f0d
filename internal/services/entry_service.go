package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gearbook/gearbook-api/internal/finance"
	"github.com/gearbook/gearbook-api/internal/models"
	"github.com/gearbook/gearbook-api/internal/repository"
	"github.com/gearbook/gearbook-api/internal/watch"
	"github.com/gearbook/gearbook-api/pkg/logger"
)

// EntryService manages the per-vehicle expense ledger. Entries created
// through obligation completion or EMI posting arrive via their own
// workflows; this service covers ad-hoc records (fuel fill-ups, one-off
// repairs) and reads.
type EntryService struct {
	repo       repository.EntryRepository
	vehicleSvc *VehicleService
	writer     finance.LedgerWriter
	auditSvc   *AuditService
	hub        *watch.Hub
}

func NewEntryService(
	repo repository.EntryRepository,
	vehicleSvc *VehicleService,
	writer finance.LedgerWriter,
	auditSvc *AuditService,
	hub *watch.Hub,
) *EntryService {
	return &EntryService{repo: repo, vehicleSvc: vehicleSvc, writer: writer, auditSvc: auditSvc, hub: hub}
}

// CreateEntryInput is the request payload for an ad-hoc ledger entry
type CreateEntryInput struct {
	VehicleID      uint      `json:"vehicle_id" binding:"required"`
	Category       string    `json:"category" binding:"required"`
	Amount         float64   `json:"amount"`
	EntryDate      time.Time `json:"entry_date"`
	Odometer       *int64    `json:"odometer"`
	Notes          *string   `json:"notes"`
	AccountID      *uint     `json:"account_id"`
	IdempotencyKey string    `json:"idempotency_key"`
}

// Create records an ad-hoc expense. When an account is supplied the amount
// is also posted to the finance ledger and the entry keeps the resulting
// transaction id; the post happens first so a collaborator failure leaves
// no orphan entry behind.
func (s *EntryService) Create(ctx context.Context, ownerID uint, input CreateEntryInput) (*models.LedgerEntry, error) {
	vehicle, err := s.vehicleSvc.Get(ctx, ownerID, input.VehicleID)
	if err != nil {
		return nil, err
	}
	if !models.ValidEntryCategory(input.Category) {
		return nil, NewValidationError("category", "is not a known category")
	}
	if input.Amount < 0 {
		return nil, NewValidationError("amount", "must not be negative")
	}
	if input.AccountID != nil && input.Amount <= 0 {
		return nil, NewValidationError("amount", "is required when posting to an account")
	}
	if input.EntryDate.IsZero() {
		input.EntryDate = time.Now()
	}

	entry := &models.LedgerEntry{
		VehicleID: input.VehicleID,
		Category:  input.Category,
		Amount:    input.Amount,
		EntryDate: input.EntryDate,
		Odometer:  input.Odometer,
		Notes:     input.Notes,
	}

	if input.Amount > 0 && input.AccountID != nil {
		reference := input.IdempotencyKey
		if reference == "" {
			reference = uuid.NewString()
		}
		txID, err := s.writer.PostExpense(ctx, finance.Expense{
			AccountID: *input.AccountID,
			Amount:    input.Amount,
			Category:  input.Category,
			Note:      fmt.Sprintf("%s - %s", vehicle.Name, input.Category),
			Date:      input.EntryDate,
			Reference: reference,
		})
		if err != nil {
			return nil, NewCollaboratorError("finance_post", err)
		}
		entry.FinanceTransactionID = &txID
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, NewCollaboratorError("append_entry", err)
	}

	if input.Odometer != nil && *input.Odometer > 0 {
		if err := s.vehicleSvc.ApplyOdometer(ctx, vehicle, *input.Odometer); err != nil {
			return nil, NewCollaboratorError("update_odometer", err)
		}
	}

	_ = s.auditSvc.Log(ctx, ownerID, "create", "entry", entry.ID,
		fmt.Sprintf("%s %.2f", entry.Category, entry.Amount))
	s.hub.Publish(watch.Event{Collection: watch.CollectionEntries, Op: watch.OpCreate, RecordID: entry.ID, VehicleID: entry.VehicleID})

	return entry, nil
}

// List returns a filtered, paginated page of a vehicle's ledger
func (s *EntryService) List(ctx context.Context, ownerID, vehicleID uint, query *repository.ListQuery) ([]models.LedgerEntry, int64, error) {
	if _, err := s.vehicleSvc.Get(ctx, ownerID, vehicleID); err != nil {
		return nil, 0, err
	}
	return s.repo.FindByVehicle(ctx, vehicleID, query)
}

// Latest returns the most recent entry of a category, or nil when the
// vehicle has none.
func (s *EntryService) Latest(ctx context.Context, ownerID, vehicleID uint, category string) (*models.LedgerEntry, error) {
	if _, err := s.vehicleSvc.Get(ctx, ownerID, vehicleID); err != nil {
		return nil, err
	}
	return s.repo.LatestByCategory(ctx, vehicleID, category)
}

// Delete removes a ledger entry. Finance-linked entries stay deletable, but
// the linked transaction is not reversed; the gap is logged for the owner's
// reconciliation.
func (s *EntryService) Delete(ctx context.Context, ownerID, id uint) error {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return translateRepoErr(err)
	}
	if _, err := s.vehicleSvc.Get(ctx, ownerID, entry.VehicleID); err != nil {
		return err
	}
	if entry.IsFinanceLinked() {
		logger.Warn("Deleting finance-linked entry, transaction not reversed",
			"entry_id", entry.ID, "transaction_id", *entry.FinanceTransactionID)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return NewCollaboratorError("delete_entry", err)
	}
	_ = s.auditSvc.Log(ctx, ownerID, "delete", "entry", id, entry.Category)
	s.hub.Publish(watch.Event{Collection: watch.CollectionEntries, Op: watch.OpDelete, RecordID: id, VehicleID: entry.VehicleID})
	return nil
}
