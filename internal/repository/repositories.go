package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Vehicle    VehicleRepository
	Obligation ObligationRepository
	Entry      EntryRepository
	Loan       LoanRepository
	Stats      StatsRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Vehicle:    NewVehicleRepository(db),
		Obligation: NewObligationRepository(db),
		Entry:      NewEntryRepository(db),
		Loan:       NewLoanRepository(db),
		Stats:      NewStatsRepository(db),
	}
}
