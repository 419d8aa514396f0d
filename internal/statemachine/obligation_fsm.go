package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/gearbook/gearbook-api/internal/models"
)

// ObligationFSM wraps a maintenance obligation with its state machine.
// The lifecycle is short: pending -> completed, terminal for that instance
// (a recurring obligation is replaced by a freshly generated successor).
type ObligationFSM struct {
	obligation *models.MaintenanceObligation
	fsm        *fsm.FSM
}

// NewObligationFSM creates a new obligation state machine
func NewObligationFSM(obligation *models.MaintenanceObligation) *ObligationFSM {
	o := &ObligationFSM{
		obligation: obligation,
	}

	o.fsm = fsm.NewFSM(
		obligation.Status,
		fsm.Events{
			{Name: "complete", Src: []string{models.ObligationStatusPending}, Dst: models.ObligationStatusCompleted},
		},
		fsm.Callbacks{},
	)

	return o
}

// Complete transitions the obligation to completed
func (o *ObligationFSM) Complete(ctx context.Context) error {
	if !o.obligation.MayComplete() {
		return fmt.Errorf("obligation cannot be completed in current state: %s", o.obligation.Status)
	}

	if err := o.fsm.Event(ctx, "complete"); err != nil {
		return fmt.Errorf("failed to complete obligation: %w", err)
	}

	o.obligation.Status = o.fsm.Current()
	return nil
}

// Current returns the current state
func (o *ObligationFSM) Current() string {
	return o.fsm.Current()
}

// Can checks if a transition is possible
func (o *ObligationFSM) Can(event string) bool {
	return o.fsm.Can(event)
}
