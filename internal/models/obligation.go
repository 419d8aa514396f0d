package models

import (
	"errors"
	"strings"
	"time"
)

// MaintenanceObligation is a tracked maintenance or renewal task with one or
// more due conditions (calendar date, odometer distance, or both).
type MaintenanceObligation struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	VehicleID     uint       `gorm:"not null;index" json:"vehicle_id"`
	Name          string     `gorm:"not null" json:"name"`
	Category      string     `gorm:"index" json:"category"` // optional; inferred from Name when empty
	TriggerKind   string     `gorm:"not null" json:"trigger_kind"`
	DueDate       *time.Time `gorm:"type:date;index" json:"due_date"`
	DueOdometer   *int64     `json:"due_odometer"`
	Recurring     bool       `gorm:"default:false" json:"recurring"`
	IntervalValue int        `json:"interval_value"`
	IntervalUnit  string     `json:"interval_unit"` // days, months, years
	IntervalKm    int64      `json:"interval_km"`
	Status        string     `gorm:"default:pending;not null;index" json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for MaintenanceObligation
func (MaintenanceObligation) TableName() string {
	return "maintenance_obligations"
}

// Trigger kind constants
const (
	TriggerKindDate     = "date"
	TriggerKindOdometer = "odometer"
	TriggerKindBoth     = "both"
)

// Obligation status constants
const (
	ObligationStatusPending   = "pending"
	ObligationStatusCompleted = "completed"
)

// Interval unit constants
const (
	IntervalUnitDays   = "days"
	IntervalUnitMonths = "months"
	IntervalUnitYears  = "years"
)

// Validate enforces the trigger invariants: a date trigger always carries a due
// date, an odometer trigger a due odometer, and "both" at least one of the two.
func (o *MaintenanceObligation) Validate() error {
	switch o.TriggerKind {
	case TriggerKindDate:
		if o.DueDate == nil {
			return errors.New("date trigger requires a due date")
		}
	case TriggerKindOdometer:
		if o.DueOdometer == nil {
			return errors.New("odometer trigger requires a due odometer")
		}
	case TriggerKindBoth:
		if o.DueDate == nil && o.DueOdometer == nil {
			return errors.New("dual trigger requires a due date or a due odometer")
		}
	default:
		return errors.New("unknown trigger kind: " + o.TriggerKind)
	}
	if o.Recurring && o.IntervalValue <= 0 && o.IntervalKm <= 0 {
		return errors.New("recurring obligation requires an interval")
	}
	return nil
}

// MayComplete returns true if the obligation can transition to completed
func (o *MaintenanceObligation) MayComplete() bool {
	return o.Status == ObligationStatusPending
}

// HasDateTrigger reports whether the date condition applies
func (o *MaintenanceObligation) HasDateTrigger() bool {
	return (o.TriggerKind == TriggerKindDate || o.TriggerKind == TriggerKindBoth) && o.DueDate != nil
}

// HasOdometerTrigger reports whether the odometer condition applies
func (o *MaintenanceObligation) HasOdometerTrigger() bool {
	return (o.TriggerKind == TriggerKindOdometer || o.TriggerKind == TriggerKindBoth) && o.DueOdometer != nil
}

// EntryCategory returns the explicit category when set, otherwise the keyword
// heuristic the original UI relied on: "fuel" and "insurance" in the task name
// map to their categories, everything else is a service.
func (o *MaintenanceObligation) EntryCategory() string {
	if o.Category != "" {
		return o.Category
	}
	name := strings.ToLower(o.Name)
	switch {
	case strings.Contains(name, "fuel"):
		return EntryCategoryFuel
	case strings.Contains(name, "insurance"):
		return EntryCategoryInsurance
	default:
		return EntryCategoryService
	}
}

// ObligationResponse is the JSON response format for maintenance obligations
type ObligationResponse struct {
	ID            uint       `json:"id"`
	VehicleID     uint       `json:"vehicle_id"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	TriggerKind   string     `json:"trigger_kind"`
	DueDate       *time.Time `json:"due_date"`
	DueOdometer   *int64     `json:"due_odometer"`
	Recurring     bool       `json:"recurring"`
	IntervalValue int        `json:"interval_value"`
	IntervalUnit  string     `json:"interval_unit"`
	IntervalKm    int64      `json:"interval_km"`
	Status        string     `json:"status"`
	DueState      string     `json:"due_state,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToResponse converts MaintenanceObligation to ObligationResponse. DueState is
// a derived classification against "now", so the caller supplies it.
func (o *MaintenanceObligation) ToResponse(dueState string) ObligationResponse {
	return ObligationResponse{
		ID:            o.ID,
		VehicleID:     o.VehicleID,
		Name:          o.Name,
		Category:      o.EntryCategory(),
		TriggerKind:   o.TriggerKind,
		DueDate:       o.DueDate,
		DueOdometer:   o.DueOdometer,
		Recurring:     o.Recurring,
		IntervalValue: o.IntervalValue,
		IntervalUnit:  o.IntervalUnit,
		IntervalKm:    o.IntervalKm,
		Status:        o.Status,
		DueState:      dueState,
		CreatedAt:     o.CreatedAt,
	}
}
