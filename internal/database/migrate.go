package database

import (
	"gorm.io/gorm"

	"github.com/gearbook/gearbook-api/internal/models"
)

// Migrate applies the schema for all tracked entities
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Vehicle{},
		&models.OwnerPreference{},
		&models.MaintenanceObligation{},
		&models.LedgerEntry{},
		&models.Loan{},
		&models.LoanPayment{},
		&models.FinanceAccount{},
		&models.FinanceTransaction{},
		&models.AuditLog{},
	)
}
