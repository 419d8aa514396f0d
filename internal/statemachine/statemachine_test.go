package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearbook/gearbook-api/internal/models"
)

func TestObligationCompleteFromPending(t *testing.T) {
	obligation := &models.MaintenanceObligation{Status: models.ObligationStatusPending}
	fsm := NewObligationFSM(obligation)

	require.True(t, fsm.Can("complete"))
	require.NoError(t, fsm.Complete(context.Background()))
	assert.Equal(t, models.ObligationStatusCompleted, obligation.Status)
}

func TestObligationCompleteIsTerminal(t *testing.T) {
	obligation := &models.MaintenanceObligation{Status: models.ObligationStatusCompleted}
	fsm := NewObligationFSM(obligation)

	err := fsm.Complete(context.Background())
	assert.Error(t, err)
	assert.Equal(t, models.ObligationStatusCompleted, obligation.Status)
}

func TestLoanCloseRequiresZeroBalance(t *testing.T) {
	loan := &models.Loan{Status: models.LoanStatusActive, RemainingPrincipal: 1500}
	fsm := NewLoanFSM(loan)

	err := fsm.Close(context.Background())
	assert.Error(t, err)
	assert.Equal(t, models.LoanStatusActive, loan.Status)
	assert.Nil(t, loan.ClosedAt)
}

func TestLoanCloseAtZeroBalance(t *testing.T) {
	loan := &models.Loan{Status: models.LoanStatusActive, RemainingPrincipal: 0}
	fsm := NewLoanFSM(loan)

	require.NoError(t, fsm.Close(context.Background()))
	assert.Equal(t, models.LoanStatusClosed, loan.Status)
	require.NotNil(t, loan.ClosedAt)
}

func TestLoanCloseIsOneWay(t *testing.T) {
	loan := &models.Loan{Status: models.LoanStatusClosed, RemainingPrincipal: 0}
	fsm := NewLoanFSM(loan)

	assert.False(t, fsm.Can("close"))
	assert.Error(t, fsm.Close(context.Background()))
}
