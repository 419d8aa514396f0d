// Package maintenance holds the pure domain rules for maintenance
// obligations: recurrence, due-state classification and the template
// catalogue used to seed new vehicles. Nothing here touches storage.
package maintenance

import (
	"time"

	"github.com/gearbook/gearbook-api/internal/models"
)

// AddInterval advances t by the given interval. Month and year arithmetic
// clamps the day-of-month to the target month's last valid day instead of
// overflowing into the next month (Jan 31 + 1 month is Feb 28/29, never Mar 3).
func AddInterval(t time.Time, value int, unit string) time.Time {
	switch unit {
	case models.IntervalUnitDays:
		return t.AddDate(0, 0, value)
	case models.IntervalUnitMonths:
		return addMonthsClamped(t, value)
	case models.IntervalUnitYears:
		return addMonthsClamped(t, value*12)
	}
	return t
}

// addMonthsClamped adds months to t, clamping the day-of-month
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	anchor := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	if last := daysInMonth(anchor.Year(), anchor.Month()); d > last {
		d = last
	}
	return time.Date(anchor.Year(), anchor.Month(), d, 0, 0, 0, 0, t.Location())
}

// daysInMonth returns the number of days in the given month
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextOccurrence computes the successor for a recurring obligation fulfilled
// at the given completion date and odometer reading. The result is a fresh
// pending obligation without an id; the caller assigns one on insert.
//
// Each trigger leg is advanced independently: a date interval from the
// completion date, an odometer interval from the reading at completion. Since
// intervals are positive, the successor is never due before the completion
// instant.
func NextOccurrence(o models.MaintenanceObligation, completedOn time.Time, odometer int64) models.MaintenanceObligation {
	next := models.MaintenanceObligation{
		VehicleID:     o.VehicleID,
		Name:          o.Name,
		Category:      o.Category,
		TriggerKind:   o.TriggerKind,
		Recurring:     o.Recurring,
		IntervalValue: o.IntervalValue,
		IntervalUnit:  o.IntervalUnit,
		IntervalKm:    o.IntervalKm,
		Status:        models.ObligationStatusPending,
	}

	if (o.TriggerKind == models.TriggerKindDate || o.TriggerKind == models.TriggerKindBoth) && o.IntervalValue > 0 {
		due := AddInterval(completedOn, o.IntervalValue, o.IntervalUnit)
		next.DueDate = &due
	}
	if (o.TriggerKind == models.TriggerKindOdometer || o.TriggerKind == models.TriggerKindBoth) && o.IntervalKm > 0 {
		dueOdo := odometer + o.IntervalKm
		next.DueOdometer = &dueOdo
	}

	return next
}
