package service

import (
	"context"
	"time"

	"rentalops-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockCarRepo
type MockCarRepo struct {
	mock.Mock
}

func (m *MockCarRepo) Create(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) Update(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) UpdateStatus(ctx context.Context, id string, status domain.CarStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockCarRepo) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	args := m.Called(ctx, id, deletedAt)
	return args.Error(0)
}
func (m *MockCarRepo) ListByStatus(ctx context.Context, status domain.CarStatus) ([]domain.Car, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Car), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockBookingRepo) FindConflict(ctx context.Context, carID string, start, end time.Time, excludeID string) (*domain.Booking, error) {
	args := m.Called(ctx, carID, start, end, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) FindActiveConflict(ctx context.Context, carID string, start, end time.Time, excludeID string) (*domain.Booking, error) {
	args := m.Called(ctx, carID, start, end, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) FindActiveByCar(ctx context.Context, carID string) (*domain.Booking, error) {
	args := m.Called(ctx, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListUpcomingDue(ctx context.Context, today time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) HasUnresolvedForCar(ctx context.Context, carID string) (bool, error) {
	args := m.Called(ctx, carID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) DeleteCascade(ctx context.Context, bookingID, carID string, freeCar bool) error {
	args := m.Called(ctx, bookingID, carID, freeCar)
	return args.Error(0)
}

// MockInvoiceRepo
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
func (m *MockInvoiceRepo) GetByBookingID(ctx context.Context, bookingID string) (*domain.Invoice, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
func (m *MockInvoiceRepo) UpdateStatus(ctx context.Context, id string, status domain.InvoiceStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPaymentRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPaymentRepo) DeleteOutstandingByBooking(ctx context.Context, bookingID string) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}
func (m *MockPaymentRepo) ListByBooking(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) FindOutstandingByBooking(ctx context.Context, bookingID string) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) MarkOverdue(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockSeasonRepo
type MockSeasonRepo struct {
	mock.Mock
}

func (m *MockSeasonRepo) Create(ctx context.Context, s *domain.Season) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockSeasonRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockSeasonRepo) List(ctx context.Context) ([]domain.Season, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Season), args.Error(1)
}
func (m *MockSeasonRepo) ListOverlapping(ctx context.Context, start, end time.Time) ([]domain.Season, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Season), args.Error(1)
}

// MockSettingsRepo
type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) Get(ctx context.Context) (*domain.SystemSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemSettings), args.Error(1)
}
func (m *MockSettingsRepo) Update(ctx context.Context, s *domain.SystemSettings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockSettingsRepo) NextInvoiceCounter(ctx context.Context, step int64) (int64, error) {
	args := m.Called(ctx, step)
	return args.Get(0).(int64), args.Error(1)
}

// MockClientRepo
type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) UpsertByName(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
