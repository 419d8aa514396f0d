package maintenance

import (
	"time"

	"github.com/gearbook/gearbook-api/internal/models"
)

// Due state constants
const (
	StateOverdue = "overdue"
	StateDueSoon = "due_soon"
	StateLater   = "later"
)

// Thresholds configures the "due soon" windows for both trigger kinds
type Thresholds struct {
	DueSoonDays int
	DueSoonKm   int64
}

// DefaultThresholds are the windows the original product shipped with
var DefaultThresholds = Thresholds{DueSoonDays: 14, DueSoonKm: 500}

// Classify maps an obligation plus "now" (date, odometer) to its urgency.
// Every applicable trigger is evaluated: the obligation is overdue when any
// trigger is overdue, due-soon when any is due-soon and none overdue, and
// later otherwise. Classification is pure and never mutates the obligation.
func Classify(o models.MaintenanceObligation, today time.Time, odometer int64, th Thresholds) string {
	overdue := false
	dueSoon := false

	if o.HasDateTrigger() {
		days := daysBetween(today, *o.DueDate)
		switch {
		case days < 0:
			overdue = true
		case days <= th.DueSoonDays:
			dueSoon = true
		}
	}

	if o.HasOdometerTrigger() {
		remaining := *o.DueOdometer - odometer
		switch {
		case remaining <= 0:
			overdue = true
		case remaining <= th.DueSoonKm:
			dueSoon = true
		}
	}

	switch {
	case overdue:
		return StateOverdue
	case dueSoon:
		return StateDueSoon
	default:
		return StateLater
	}
}

// daysBetween returns due - today in whole days at date granularity
func daysBetween(today, due time.Time) int {
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(t).Hours() / 24)
}
