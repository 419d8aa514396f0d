package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"
	"github.com/gearbook/gearbook-api/internal/models"
)

// LoanFSM wraps a loan with its state machine. Closing is one-way: a closed
// loan never transitions back to active, even if payments keep arriving.
type LoanFSM struct {
	loan *models.Loan
	fsm  *fsm.FSM
}

// NewLoanFSM creates a new loan state machine
func NewLoanFSM(loan *models.Loan) *LoanFSM {
	l := &LoanFSM{
		loan: loan,
	}

	l.fsm = fsm.NewFSM(
		loan.Status,
		fsm.Events{
			{Name: "close", Src: []string{models.LoanStatusActive}, Dst: models.LoanStatusClosed},
		},
		fsm.Callbacks{},
	)

	return l
}

// Close transitions the loan to closed once the balance is repaid
func (l *LoanFSM) Close(ctx context.Context) error {
	if !l.loan.MayClose() {
		return fmt.Errorf("loan cannot be closed in current state: %s (remaining %.2f)", l.loan.Status, l.loan.RemainingPrincipal)
	}

	if err := l.fsm.Event(ctx, "close"); err != nil {
		return fmt.Errorf("failed to close loan: %w", err)
	}

	l.loan.Status = l.fsm.Current()
	now := time.Now()
	l.loan.ClosedAt = &now
	return nil
}

// Current returns the current state
func (l *LoanFSM) Current() string {
	return l.fsm.Current()
}

// Can checks if a transition is possible
func (l *LoanFSM) Can(event string) bool {
	return l.fsm.Can(event)
}
