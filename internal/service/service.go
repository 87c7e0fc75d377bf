package service

import (
	"context"
	"time"

	"rentalops-backend/internal/domain"
)

// BookingInput carries the shape-validated fields of a booking request. The
// services still re-check every domain invariant themselves.
type BookingInput struct {
	CustomerName   string
	CarID          string
	StartDate      time.Time
	EndDate        time.Time
	DiscountPerDay float64
}

// CarInput carries the fields of a fleet create/update request.
type CarInput struct {
	Make      string
	Model     string
	Year      int32
	Plate     string
	Category  domain.CarCategory
	DailyRate float64
	Status    domain.CarStatus
	Image     string
	OwnerID   *string
}

// SeasonInput carries the fields of a season create request.
type SeasonInput struct {
	Name            string
	StartDate       time.Time
	EndDate         time.Time
	PriceMultiplier float64
}

// SettingsInput carries the editable company/financial defaults.
type SettingsInput struct {
	CompanyName        string
	CompanyEmail       string
	CompanyPhone       string
	CompanyAddress     string
	Currency           string
	VatRate            float64
	MpesaPaybill       string
	BankDetails        string
	TermsAndConditions string
	InvoicePrefix      string
}

type BookingService interface {
	Create(ctx context.Context, actor domain.Actor, in BookingInput) domain.Result
	Approve(ctx context.Context, actor domain.Actor, bookingID string) domain.Result
	Update(ctx context.Context, actor domain.Actor, bookingID string, in BookingInput) domain.Result
	Cancel(ctx context.Context, actor domain.Actor, bookingID string) domain.Result
	Complete(ctx context.Context, actor domain.Actor, bookingID string) domain.Result
	Reactivate(ctx context.Context, actor domain.Actor, bookingID string) domain.Result
	Delete(ctx context.Context, actor domain.Actor, bookingID string) domain.Result
	Get(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error)
}

type PaymentService interface {
	// MarkPaid settles a payment. An amount below the payment's value records
	// a partial payment; zero or anything at or above it settles in full.
	MarkPaid(ctx context.Context, actor domain.Actor, paymentID, method string, amount float64) domain.Result
	MarkUnpaid(ctx context.Context, actor domain.Actor, paymentID string) domain.Result
	Record(ctx context.Context, actor domain.Actor, bookingID string, amount float64, method string) domain.Result
	Ledger(ctx context.Context, bookingID string) (*domain.BookingLedger, error)
	ListByBooking(ctx context.Context, bookingID string) ([]domain.Payment, error)
}

type FleetService interface {
	AddCar(ctx context.Context, actor domain.Actor, in CarInput) domain.Result
	UpdateCar(ctx context.Context, actor domain.Actor, carID string, in CarInput) domain.Result
	DeleteCar(ctx context.Context, actor domain.Actor, carID string) domain.Result
	GetCar(ctx context.Context, carID string) (*domain.Car, error)
}

type SeasonService interface {
	CreateSeason(ctx context.Context, actor domain.Actor, in SeasonInput) domain.Result
	DeleteSeason(ctx context.Context, actor domain.Actor, seasonID string) domain.Result
	ListSeasons(ctx context.Context) ([]domain.Season, error)
}

type SettingsService interface {
	Get(ctx context.Context) (*domain.SystemSettings, error)
	Update(ctx context.Context, actor domain.Actor, in SettingsInput) domain.Result
}

type SweeperService interface {
	// Sweep promotes due Upcoming bookings to Active and closes out ended
	// Active bookings, correcting car statuses along the way. Safe to run
	// repeatedly.
	Sweep(ctx context.Context) error
	// MarkOverduePayments flips Pending payments past their due date to
	// Overdue and reports the number of rows changed.
	MarkOverduePayments(ctx context.Context) (int64, error)
}
