package postgres

import (
	"database/sql"

	"rentalops-backend/internal/repository"

	_ "github.com/lib/pq"
)

// SettingsDefaults seeds the singleton system settings row on first access.
type SettingsDefaults struct {
	CompanyName           string
	Currency              string
	VatRate               float64
	InvoicePrefix         string
	InitialInvoiceCounter int64
}

type Store struct {
	db *sql.DB
	repository.CarRepository
	repository.BookingRepository
	repository.InvoiceRepository
	repository.PaymentRepository
	repository.SeasonRepository
	repository.SettingsRepository
	repository.ClientRepository
}

func NewStore(db *sql.DB, defaults SettingsDefaults) *Store {
	return &Store{
		db:                 db,
		CarRepository:      NewCarRepository(db),
		BookingRepository:  NewBookingRepository(db),
		InvoiceRepository:  NewInvoiceRepository(db),
		PaymentRepository:  NewPaymentRepository(db),
		SeasonRepository:   NewSeasonRepository(db),
		SettingsRepository: NewSettingsRepository(db, defaults),
		ClientRepository:   NewClientRepository(db),
	}
}
