package service

import (
	"context"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/repository"
)

type sweeperService struct {
	bookingRepo repository.BookingRepository
	carRepo     repository.CarRepository
	paymentRepo repository.PaymentRepository
	nowFn       func() time.Time
}

func NewSweeperService(
	bookingRepo repository.BookingRepository,
	carRepo repository.CarRepository,
	paymentRepo repository.PaymentRepository,
) SweeperService {
	return &sweeperService{
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		paymentRepo: paymentRepo,
		nowFn:       time.Now,
	}
}

// today returns the current day at midnight. All sweep decisions compare
// whole days, never clock times.
func (s *sweeperService) today() time.Time {
	now := s.nowFn()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (s *sweeperService) Sweep(ctx context.Context) error {
	today := s.today()

	if err := s.completeEnded(ctx, today); err != nil {
		return err
	}
	return s.promoteDue(ctx, today)
}

// completeEnded walks the rented fleet: cars whose active booking has ended
// are released, and cars marked Rented with no active booking at all are
// self-healed back to Available.
func (s *sweeperService) completeEnded(ctx context.Context, today time.Time) error {
	rented, err := s.carRepo.ListByStatus(ctx, domain.CarStatusRented)
	if err != nil {
		return err
	}

	for i := range rented {
		car := &rented[i]
		active, err := s.bookingRepo.FindActiveByCar(ctx, car.ID)
		if err != nil {
			return err
		}

		if active == nil {
			logger.Warn("Rented car has no active booking, releasing",
				"car_id", car.ID, "plate", car.Plate)
			if err := s.carRepo.UpdateStatus(ctx, car.ID, domain.CarStatusAvailable); err != nil {
				return err
			}
			continue
		}

		if active.EndDate.Before(today) {
			if err := s.bookingRepo.UpdateStatus(ctx, active.ID, domain.BookingStatusCompleted); err != nil {
				return err
			}
			if err := s.carRepo.UpdateStatus(ctx, car.ID, domain.CarStatusAvailable); err != nil {
				return err
			}
			logger.Info("Completed ended booking",
				"booking_id", active.ID, "car_id", car.ID)
		}
	}
	return nil
}

// promoteDue activates Upcoming bookings whose start date has arrived.
func (s *sweeperService) promoteDue(ctx context.Context, today time.Time) error {
	due, err := s.bookingRepo.ListUpcomingDue(ctx, today)
	if err != nil {
		return err
	}

	for i := range due {
		booking := &due[i]
		if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.BookingStatusActive); err != nil {
			return err
		}
		if err := s.carRepo.UpdateStatus(ctx, booking.CarID, domain.CarStatusRented); err != nil {
			return err
		}
		logger.Info("Activated upcoming booking",
			"booking_id", booking.ID, "car_id", booking.CarID)
	}
	return nil
}

func (s *sweeperService) MarkOverduePayments(ctx context.Context) (int64, error) {
	return s.paymentRepo.MarkOverdue(ctx, s.today())
}
