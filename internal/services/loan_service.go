package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/gearbook/gearbook-api/internal/amortization"
	"github.com/gearbook/gearbook-api/internal/finance"
	"github.com/gearbook/gearbook-api/internal/models"
	"github.com/gearbook/gearbook-api/internal/repository"
	"github.com/gearbook/gearbook-api/internal/statemachine"
	"github.com/gearbook/gearbook-api/internal/watch"
	"github.com/gearbook/gearbook-api/pkg/logger"
)

// LoanService manages vehicle loans: origination with derived EMI figures,
// payment recording, live status resolution, schedules and prepayment
// simulation.
type LoanService struct {
	repo       repository.LoanRepository
	entryRepo  repository.EntryRepository
	vehicleSvc *VehicleService
	writer     finance.LedgerWriter
	auditSvc   *AuditService
	hub        *watch.Hub
}

func NewLoanService(
	repo repository.LoanRepository,
	entryRepo repository.EntryRepository,
	vehicleSvc *VehicleService,
	writer finance.LedgerWriter,
	auditSvc *AuditService,
	hub *watch.Hub,
) *LoanService {
	return &LoanService{repo: repo, entryRepo: entryRepo, vehicleSvc: vehicleSvc, writer: writer, auditSvc: auditSvc, hub: hub}
}

// CreateLoanInput is the origination payload. EMI and the totals are always
// derived server-side from principal, rate, tenure and convention.
type CreateLoanInput struct {
	VehicleID    uint      `json:"vehicle_id" binding:"required"`
	Lender       string    `json:"lender" binding:"required"`
	Principal    float64   `json:"principal" binding:"required"`
	AnnualRate   float64   `json:"annual_rate"`
	InterestKind string    `json:"interest_kind"`
	TenureMonths int       `json:"tenure_months" binding:"required"`
	StartDate    time.Time `json:"start_date"`
	DueDay       int       `json:"due_day"`
}

// Create originates a loan against a vehicle
func (s *LoanService) Create(ctx context.Context, ownerID uint, input CreateLoanInput) (*models.Loan, error) {
	if _, err := s.vehicleSvc.Get(ctx, ownerID, input.VehicleID); err != nil {
		return nil, err
	}
	if input.Principal <= 0 {
		return nil, NewValidationError("principal", "must be positive")
	}
	if input.AnnualRate < 0 {
		return nil, NewValidationError("annual_rate", "must not be negative")
	}
	if input.TenureMonths <= 0 {
		return nil, NewValidationError("tenure_months", "must be positive")
	}
	if input.InterestKind == "" {
		input.InterestKind = models.InterestKindReducing
	}
	if input.InterestKind != models.InterestKindReducing && input.InterestKind != models.InterestKindFlat {
		return nil, NewValidationError("interest_kind", "must be reducing or flat")
	}
	if input.StartDate.IsZero() {
		input.StartDate = time.Now()
	}
	if input.DueDay <= 0 {
		input.DueDay = input.StartDate.Day()
	}
	if input.DueDay > 31 {
		return nil, NewValidationError("due_day", "must be between 1 and 31")
	}

	figures := amortization.Compute(input.Principal, input.AnnualRate, input.TenureMonths, input.InterestKind)

	loan := &models.Loan{
		VehicleID:          input.VehicleID,
		Lender:             input.Lender,
		Principal:          input.Principal,
		AnnualRate:         input.AnnualRate,
		InterestKind:       input.InterestKind,
		TenureMonths:       input.TenureMonths,
		StartDate:          input.StartDate,
		DueDay:             input.DueDay,
		EMI:                figures.EMI,
		TotalPayable:       figures.TotalPayable,
		TotalInterest:      figures.TotalInterest,
		RemainingPrincipal: input.Principal,
		Status:             models.LoanStatusActive,
	}
	if err := s.repo.Create(ctx, loan); err != nil {
		return nil, NewCollaboratorError("create_loan", err)
	}
	_ = s.auditSvc.Log(ctx, ownerID, "create", "loan", loan.ID,
		fmt.Sprintf("%s %.2f over %d months", loan.Lender, loan.Principal, loan.TenureMonths))
	s.hub.Publish(watch.Event{Collection: watch.CollectionLoans, Op: watch.OpCreate, RecordID: loan.ID, VehicleID: loan.VehicleID})
	return loan, nil
}

// Get loads a loan scoped to the owner, with its payments preloaded
func (s *LoanService) Get(ctx context.Context, ownerID, id uint) (*models.Loan, error) {
	loan, err := s.repo.FindByIDWithPayments(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	if _, err := s.vehicleSvc.Get(ctx, ownerID, loan.VehicleID); err != nil {
		return nil, err
	}
	return loan, nil
}

// ListByVehicle returns all loans recorded against a vehicle
func (s *LoanService) ListByVehicle(ctx context.Context, ownerID, vehicleID uint) ([]models.Loan, error) {
	if _, err := s.vehicleSvc.Get(ctx, ownerID, vehicleID); err != nil {
		return nil, err
	}
	return s.repo.FindByVehicle(ctx, vehicleID)
}

// RecordPaymentInput is the payload for an EMI, prepayment or penalty
type RecordPaymentInput struct {
	Amount         float64   `json:"amount" binding:"required"`
	Category       string    `json:"category"`
	Discount       float64   `json:"discount"`
	PaidAt         time.Time `json:"paid_at"`
	AccountID      *uint     `json:"account_id"`
	Notes          *string   `json:"notes"`
	IdempotencyKey string    `json:"idempotency_key"`
}

// RecordPayment runs the payment workflow: append the payment with its
// interest/principal split, mirror it into the vehicle ledger, optionally
// post it to the finance ledger, reduce the outstanding balance and close
// the loan once it reaches zero. Replays with the same idempotency key
// return the already-recorded payment.
func (s *LoanService) RecordPayment(ctx context.Context, ownerID, loanID uint, input RecordPaymentInput) (*models.LoanPayment, error) {
	loan, err := s.Get(ctx, ownerID, loanID)
	if err != nil {
		return nil, err
	}
	if loan.IsClosed() {
		return nil, fmt.Errorf("%w: loan is closed", ErrInvalidState)
	}
	if input.Amount <= 0 {
		return nil, NewValidationError("amount", "must be positive")
	}
	if input.Category == "" {
		input.Category = models.PaymentCategoryEMI
	}
	if !models.ValidPaymentCategory(input.Category) {
		return nil, NewValidationError("category", "must be emi, prepayment or penalty")
	}
	if input.PaidAt.IsZero() {
		input.PaidAt = time.Now()
	}
	if input.Discount < 0 || (input.Discount > 0 && input.Category != models.PaymentCategoryEMI) {
		// Non-fatal consistency warning: the payment still posts, without the discount.
		logger.Warn("Ignoring unusable discount on loan payment",
			"loan_id", loanID, "discount", input.Discount, "category", input.Category)
		input.Discount = 0
	}

	reference := input.IdempotencyKey
	if reference == "" {
		reference = uuid.NewString()
	} else if existing, err := s.repo.FindPaymentByReference(ctx, reference); err != nil {
		return nil, NewCollaboratorError("payment_lookup", err)
	} else if existing != nil {
		logger.Debug("Replayed loan payment returned from reference", "loan_id", loanID, "reference", reference)
		return existing, nil
	}

	payment := &models.LoanPayment{
		LoanID:            loanID,
		Amount:            input.Amount,
		Category:          input.Category,
		DiscountComponent: input.Discount,
		PaymentDate:       input.PaidAt,
		AccountID:         input.AccountID,
		Reference:         reference,
		Notes:             input.Notes,
	}
	splitPayment(loan, payment)
	if err := s.repo.AppendPayment(ctx, payment); err != nil {
		return nil, NewCollaboratorError("append_payment", err)
	}

	// A payment posted against an account is mirrored into the vehicle's
	// expense ledger so cost aggregation sees it alongside the finance post.
	if input.AccountID != nil {
		txID, err := s.writer.PostExpense(ctx, finance.Expense{
			AccountID: *input.AccountID,
			Amount:    input.Amount,
			Category:  models.EntryCategoryEMI,
			Note:      fmt.Sprintf("%s loan %s", loan.Lender, input.Category),
			Date:      input.PaidAt,
			Reference: reference,
		})
		if err != nil {
			return nil, NewCollaboratorError("finance_post", err)
		}
		entry := &models.LedgerEntry{
			VehicleID:            loan.VehicleID,
			Category:             models.EntryCategoryEMI,
			Amount:               input.Amount,
			EntryDate:            input.PaidAt,
			Notes:                input.Notes,
			FinanceTransactionID: &txID,
		}
		if err := s.entryRepo.Create(ctx, entry); err != nil {
			return nil, NewCollaboratorError("append_entry", err)
		}
		s.hub.Publish(watch.Event{Collection: watch.CollectionEntries, Op: watch.OpCreate, RecordID: entry.ID, VehicleID: entry.VehicleID})
	}

	loan.RemainingPrincipal = math.Max(0, loan.RemainingPrincipal-payment.PrincipalComponent)
	if loan.RemainingPrincipal <= 0 {
		fsm := statemachine.NewLoanFSM(loan)
		if err := fsm.Close(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
		logger.Info("Loan fully paid, closing", "loan_id", loan.ID)
	}
	if err := s.repo.Update(ctx, loan); err != nil {
		return nil, translateRepoErr(err)
	}

	_ = s.auditSvc.Log(ctx, ownerID, "payment", "loan", loanID,
		fmt.Sprintf("%s %.2f, balance %.2f", input.Category, input.Amount, loan.RemainingPrincipal))
	s.hub.Publish(watch.Event{Collection: watch.CollectionLoans, Op: watch.OpUpdate, RecordID: loan.ID, VehicleID: loan.VehicleID})

	return payment, nil
}

// splitPayment fills in a payment's components. Prepayments are pure
// principal and penalties pure penalty; EMIs split per the loan's convention
// against the current principal balance. A discount waives part of the
// installment's interest, so the waived portion flows to principal instead.
func splitPayment(loan *models.Loan, p *models.LoanPayment) {
	switch p.Category {
	case models.PaymentCategoryPrepayment:
		p.PrincipalComponent = p.Amount
		return
	case models.PaymentCategoryPenalty:
		p.PenaltyComponent = p.Amount
		return
	}
	var interest float64
	switch loan.InterestKind {
	case models.InterestKindFlat:
		if loan.TenureMonths > 0 {
			interest = math.Round(loan.TotalInterest / float64(loan.TenureMonths))
		}
	default:
		interest = math.Round(loan.RemainingPrincipal * loan.AnnualRate / 1200)
	}
	interest -= p.DiscountComponent
	if interest < 0 {
		interest = 0
	}
	if interest > p.Amount {
		interest = p.Amount
	}
	p.InterestComponent = interest
	p.PrincipalComponent = p.Amount - interest
}

// DetailedStatus resolves a loan's live position from its payment history
func (s *LoanService) DetailedStatus(ctx context.Context, ownerID, id uint) (*amortization.LoanStatus, error) {
	loan, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	status := amortization.Resolve(*loan, loan.Payments, time.Now())
	return &status, nil
}

// Schedule returns the month-by-month amortization table
func (s *LoanService) Schedule(ctx context.Context, ownerID, id uint) ([]amortization.ScheduleRow, error) {
	loan, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return amortization.Schedule(*loan), nil
}

// SimulatePrepayment answers "what if I paid this much extra right now"
// against the loan's current balance. It never mutates the loan.
func (s *LoanService) SimulatePrepayment(ctx context.Context, ownerID, id uint, extra float64) (*amortization.PrepaymentResult, error) {
	if extra <= 0 {
		return nil, NewValidationError("amount", "must be positive")
	}
	loan, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if loan.IsClosed() {
		return nil, fmt.Errorf("%w: loan is closed", ErrInvalidState)
	}
	result := amortization.SimulatePrepayment(loan.RemainingPrincipal, extra, loan.EMI, loan.AnnualRate)
	return &result, nil
}

// Delete removes a loan and its payment history
func (s *LoanService) Delete(ctx context.Context, ownerID, id uint) error {
	loan, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return NewCollaboratorError("delete_loan", err)
	}
	_ = s.auditSvc.Log(ctx, ownerID, "delete", "loan", id, loan.Lender)
	s.hub.Publish(watch.Event{Collection: watch.CollectionLoans, Op: watch.OpDelete, RecordID: id, VehicleID: loan.VehicleID})
	return nil
}
