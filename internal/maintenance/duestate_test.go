package maintenance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gearbook/gearbook-api/internal/models"
)

func dateObligation(due time.Time) models.MaintenanceObligation {
	return models.MaintenanceObligation{
		Name:        "Pollution Check",
		TriggerKind: models.TriggerKindDate,
		DueDate:     &due,
		Status:      models.ObligationStatusPending,
	}
}

func odoObligation(due int64) models.MaintenanceObligation {
	return models.MaintenanceObligation{
		Name:        "Tire Rotation",
		TriggerKind: models.TriggerKindOdometer,
		DueOdometer: &due,
		Status:      models.ObligationStatusPending,
	}
}

func TestClassifyDateWindows(t *testing.T) {
	today := time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)
	th := DefaultThresholds

	tests := []struct {
		name string
		due  time.Time
		want string
	}{
		{"yesterday is overdue", today.AddDate(0, 0, -1), StateOverdue},
		{"today is due soon", today, StateDueSoon},
		{"edge of window is due soon", today.AddDate(0, 0, 14), StateDueSoon},
		{"past the window is later", today.AddDate(0, 0, 15), StateLater},
		{"far future is later", today.AddDate(0, 6, 0), StateLater},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(dateObligation(tt.due), today, 0, th))
		})
	}
}

func TestClassifyOdometerWindows(t *testing.T) {
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	th := DefaultThresholds

	tests := []struct {
		name     string
		due      int64
		odometer int64
		want     string
	}{
		{"reading past due is overdue", 10000, 10500, StateOverdue},
		{"reading at due is overdue", 10000, 10000, StateOverdue},
		{"inside window is due soon", 10000, 9500, StateDueSoon},
		{"outside window is later", 10000, 9499, StateLater},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(odoObligation(tt.due), today, tt.odometer, th))
		})
	}
}

func TestClassifyDualTriggerAnyOverdueWins(t *testing.T) {
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	th := DefaultThresholds

	dueDate := today.AddDate(0, 3, 0) // date leg comfortably later
	dueOdo := int64(10000)
	o := models.MaintenanceObligation{
		Name:        "Oil Change",
		TriggerKind: models.TriggerKindBoth,
		DueDate:     &dueDate,
		DueOdometer: &dueOdo,
		Status:      models.ObligationStatusPending,
	}

	// Odometer leg overdue while date leg is far out
	assert.Equal(t, StateOverdue, Classify(o, today, 12000, th))

	// Odometer leg in the due-soon window, date leg later
	assert.Equal(t, StateDueSoon, Classify(o, today, 9700, th))

	// Neither leg near
	assert.Equal(t, StateLater, Classify(o, today, 5000, th))
}

func TestClassifyDueSoonNeverMasksOverdue(t *testing.T) {
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	dueDate := today.AddDate(0, 0, 3) // due soon by date
	dueOdo := int64(10000)            // overdue by odometer
	o := models.MaintenanceObligation{
		Name:        "Brake Inspection",
		TriggerKind: models.TriggerKindBoth,
		DueDate:     &dueDate,
		DueOdometer: &dueOdo,
		Status:      models.ObligationStatusPending,
	}

	assert.Equal(t, StateOverdue, Classify(o, today, 11000, DefaultThresholds))
}

func TestClassifyCustomThresholds(t *testing.T) {
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	tight := Thresholds{DueSoonDays: 3, DueSoonKm: 100}

	assert.Equal(t, StateLater, Classify(dateObligation(today.AddDate(0, 0, 7)), today, 0, tight))
	assert.Equal(t, StateDueSoon, Classify(dateObligation(today.AddDate(0, 0, 2)), today, 0, tight))
	assert.Equal(t, StateLater, Classify(odoObligation(10000), today, 9800, tight))
	assert.Equal(t, StateDueSoon, Classify(odoObligation(10000), today, 9950, tight))
}
