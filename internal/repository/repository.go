package repository

import (
	"context"
	"errors"
	"time"

	"rentalops-backend/internal/domain"
)

// ErrBookingConflict is returned by BookingRepository.Create when the guarded
// insert finds an overlapping non-cancelled booking for the same car.
var ErrBookingConflict = errors.New("booking dates conflict")

// ErrDuplicatePlate is returned by CarRepository when the unique plate
// constraint is violated.
var ErrDuplicatePlate = errors.New("duplicate license plate")

type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id string) (*domain.Car, error)
	Update(ctx context.Context, car *domain.Car) error
	UpdateStatus(ctx context.Context, id string, status domain.CarStatus) error
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) error
	ListByStatus(ctx context.Context, status domain.CarStatus) ([]domain.Car, error)
}

type BookingRepository interface {
	// Create inserts the booking inside a transaction that locks the car row
	// and re-checks for overlap, so two concurrent creations cannot both
	// succeed. Returns ErrBookingConflict when the slot is taken.
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
	// FindConflict returns any non-cancelled booking for the car whose closed
	// date interval overlaps [start, end], excluding excludeID when non-empty.
	FindConflict(ctx context.Context, carID string, start, end time.Time, excludeID string) (*domain.Booking, error)
	// FindActiveConflict is the narrower reactivation-time check: Active
	// bookings only.
	FindActiveConflict(ctx context.Context, carID string, start, end time.Time, excludeID string) (*domain.Booking, error)
	FindActiveByCar(ctx context.Context, carID string) (*domain.Booking, error)
	ListUpcomingDue(ctx context.Context, today time.Time) ([]domain.Booking, error)
	HasUnresolvedForCar(ctx context.Context, carID string) (bool, error)
	// DeleteCascade removes the booking with its invoice and payments and,
	// when freeCar is set, restores the car to Available, all in one
	// transaction.
	DeleteCascade(ctx context.Context, bookingID, carID string, freeCar bool) error
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Invoice, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	UpdateStatus(ctx context.Context, id string, status domain.InvoiceStatus) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	Update(ctx context.Context, p *domain.Payment) error
	Delete(ctx context.Context, id string) error
	// DeleteOutstandingByBooking removes the booking's unsettled payments,
	// both Pending and Overdue.
	DeleteOutstandingByBooking(ctx context.Context, bookingID string) error
	ListByBooking(ctx context.Context, bookingID string) ([]domain.Payment, error)
	// FindOutstandingByBooking returns the booking's single unsettled payment
	// (Pending or Overdue), or nil when there is none.
	FindOutstandingByBooking(ctx context.Context, bookingID string) (*domain.Payment, error)
	// MarkOverdue flips Pending payments due strictly before the cutoff to
	// Overdue and reports how many rows changed.
	MarkOverdue(ctx context.Context, cutoff time.Time) (int64, error)
}

type SeasonRepository interface {
	Create(ctx context.Context, s *domain.Season) error
	Delete(ctx context.Context, id string) error
	// List returns all seasons ordered by start date. The pricing
	// calculator's first-match-wins rule depends on this order.
	List(ctx context.Context) ([]domain.Season, error)
	ListOverlapping(ctx context.Context, start, end time.Time) ([]domain.Season, error)
}

type SettingsRepository interface {
	// Get returns the singleton settings record, creating it with defaults on
	// first access.
	Get(ctx context.Context) (*domain.SystemSettings, error)
	Update(ctx context.Context, s *domain.SystemSettings) error
	// NextInvoiceCounter advances the invoice counter by step and returns the
	// new value in a single atomic statement.
	NextInvoiceCounter(ctx context.Context, step int64) (int64, error)
}

type ClientRepository interface {
	// UpsertByName keeps the denormalized customer registry in sync. Callers
	// treat failures as non-fatal.
	UpsertByName(ctx context.Context, name string) error
}
