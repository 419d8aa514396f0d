package maintenance

import (
	"time"

	"github.com/gearbook/gearbook-api/internal/models"
)

// Template describes a standard maintenance obligation seeded on vehicle
// creation. AppliesTo lists the vehicle types the template is relevant for;
// empty means all types.
type Template struct {
	Name          string
	Category      string
	TriggerKind   string
	IntervalValue int
	IntervalUnit  string
	IntervalKm    int64
	AppliesTo     []string
}

// Catalogue is the standard obligation set, filtered by vehicle type at
// seeding time.
var Catalogue = []Template{
	{
		Name:          "Oil Change",
		Category:      models.EntryCategoryService,
		TriggerKind:   models.TriggerKindBoth,
		IntervalValue: 6,
		IntervalUnit:  models.IntervalUnitMonths,
		IntervalKm:    10000,
	},
	{
		Name:          "Insurance Renewal",
		Category:      models.EntryCategoryInsurance,
		TriggerKind:   models.TriggerKindDate,
		IntervalValue: 1,
		IntervalUnit:  models.IntervalUnitYears,
	},
	{
		Name:          "Pollution Check",
		Category:      models.EntryCategoryService,
		TriggerKind:   models.TriggerKindDate,
		IntervalValue: 6,
		IntervalUnit:  models.IntervalUnitMonths,
	},
	{
		Name:          "Air Filter Replacement",
		Category:      models.EntryCategoryService,
		TriggerKind:   models.TriggerKindOdometer,
		IntervalKm:    15000,
		AppliesTo:     []string{models.VehicleTypeCar, models.VehicleTypeCommercial},
	},
	{
		Name:          "Tire Rotation",
		Category:      models.EntryCategoryService,
		TriggerKind:   models.TriggerKindOdometer,
		IntervalKm:    8000,
		AppliesTo:     []string{models.VehicleTypeCar, models.VehicleTypeCommercial},
	},
	{
		Name:          "Chain Lubrication",
		Category:      models.EntryCategoryService,
		TriggerKind:   models.TriggerKindOdometer,
		IntervalKm:    1000,
		AppliesTo:     []string{models.VehicleTypeBike},
	},
	{
		Name:          "Brake Inspection",
		Category:      models.EntryCategoryService,
		TriggerKind:   models.TriggerKindBoth,
		IntervalValue: 1,
		IntervalUnit:  models.IntervalUnitYears,
		IntervalKm:    20000,
	},
}

// appliesTo reports whether the template is relevant for the vehicle type
func (t Template) appliesTo(vehicleType string) bool {
	if len(t.AppliesTo) == 0 {
		return true
	}
	for _, vt := range t.AppliesTo {
		if vt == vehicleType {
			return true
		}
	}
	return false
}

// Instantiate builds a pending obligation from the template, anchored at the
// given moment and odometer reading.
func (t Template) Instantiate(vehicleID uint, anchor time.Time, odometer int64) models.MaintenanceObligation {
	o := models.MaintenanceObligation{
		VehicleID:     vehicleID,
		Name:          t.Name,
		Category:      t.Category,
		TriggerKind:   t.TriggerKind,
		Recurring:     true,
		IntervalValue: t.IntervalValue,
		IntervalUnit:  t.IntervalUnit,
		IntervalKm:    t.IntervalKm,
		Status:        models.ObligationStatusPending,
	}
	if t.TriggerKind == models.TriggerKindDate || t.TriggerKind == models.TriggerKindBoth {
		due := AddInterval(anchor, t.IntervalValue, t.IntervalUnit)
		o.DueDate = &due
	}
	if t.TriggerKind == models.TriggerKindOdometer || t.TriggerKind == models.TriggerKindBoth {
		dueOdo := odometer + t.IntervalKm
		o.DueOdometer = &dueOdo
	}
	return o
}

// SeedObligations instantiates every catalogue template applicable to the
// vehicle type, anchored at the vehicle's creation moment.
func SeedObligations(vehicleID uint, vehicleType string, anchor time.Time, odometer int64) []models.MaintenanceObligation {
	var out []models.MaintenanceObligation
	for _, t := range Catalogue {
		if t.appliesTo(vehicleType) {
			out = append(out, t.Instantiate(vehicleID, anchor, odometer))
		}
	}
	return out
}
