package models

import (
	"time"
)

// Vehicle represents an owned vehicle whose maintenance and financing are tracked
type Vehicle struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OwnerID      uint      `gorm:"not null;index" json:"owner_id"`
	Name         string    `gorm:"not null" json:"name"`
	VehicleType  string    `gorm:"not null;default:car" json:"vehicle_type"`
	Odometer     int64     `gorm:"not null;default:0" json:"odometer"`
	PurchaseDate time.Time `gorm:"type:date;not null" json:"purchase_date"`
	Archived     bool      `gorm:"default:false;index" json:"archived"`
	LockVersion  int       `gorm:"not null;default:0" json:"lock_version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Obligations []MaintenanceObligation `gorm:"foreignKey:VehicleID" json:"obligations,omitempty"`
	Entries     []LedgerEntry           `gorm:"foreignKey:VehicleID" json:"entries,omitempty"`
	Loans       []Loan                  `gorm:"foreignKey:VehicleID" json:"loans,omitempty"`
}

// TableName specifies the table name for Vehicle
func (Vehicle) TableName() string {
	return "vehicles"
}

// Vehicle type constants
const (
	VehicleTypeCar        = "car"
	VehicleTypeBike       = "bike"
	VehicleTypeScooter    = "scooter"
	VehicleTypeCommercial = "commercial"
)

// MayRecordOdometer returns true if the reading keeps the odometer monotonic
func (v *Vehicle) MayRecordOdometer(reading int64) bool {
	return reading > v.Odometer
}

// MonthsOwned returns whole months since the purchase date, floored at 1
func (v *Vehicle) MonthsOwned(now time.Time) int {
	months := (now.Year()-v.PurchaseDate.Year())*12 + int(now.Month()) - int(v.PurchaseDate.Month())
	if now.Day() < v.PurchaseDate.Day() {
		months--
	}
	if months < 1 {
		return 1
	}
	return months
}

// VehicleResponse is the JSON response format for vehicles
type VehicleResponse struct {
	ID           uint      `json:"id"`
	OwnerID      uint      `json:"owner_id"`
	Name         string    `json:"name"`
	VehicleType  string    `json:"vehicle_type"`
	Odometer     int64     `json:"odometer"`
	PurchaseDate time.Time `json:"purchase_date"`
	Archived     bool      `json:"archived"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToResponse converts Vehicle to VehicleResponse. Active is owned by the
// per-owner preference record, so the caller supplies it.
func (v *Vehicle) ToResponse(active bool) VehicleResponse {
	return VehicleResponse{
		ID:           v.ID,
		OwnerID:      v.OwnerID,
		Name:         v.Name,
		VehicleType:  v.VehicleType,
		Odometer:     v.Odometer,
		PurchaseDate: v.PurchaseDate,
		Archived:     v.Archived,
		Active:       active,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

// OwnerPreference stores per-owner selections, currently only the active vehicle.
// A single record per owner replaces an active flag fanned out across vehicles.
type OwnerPreference struct {
	OwnerID         uint      `gorm:"primaryKey" json:"owner_id"`
	ActiveVehicleID *uint     `gorm:"index" json:"active_vehicle_id"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for OwnerPreference
func (OwnerPreference) TableName() string {
	return "owner_preferences"
}
