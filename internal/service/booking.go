package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/pricing"
	"rentalops-backend/internal/repository"
)

// invoiceCounterStep is the fixed increment applied to the invoice numbering
// counter for every invoice issued.
const invoiceCounterStep = 10

type bookingService struct {
	bookingRepo  repository.BookingRepository
	carRepo      repository.CarRepository
	seasonRepo   repository.SeasonRepository
	settingsRepo repository.SettingsRepository
	clientRepo   repository.ClientRepository
	*reconciler
	nowFn func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	carRepo repository.CarRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	seasonRepo repository.SeasonRepository,
	settingsRepo repository.SettingsRepository,
	clientRepo repository.ClientRepository,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		carRepo:      carRepo,
		seasonRepo:   seasonRepo,
		settingsRepo: settingsRepo,
		clientRepo:   clientRepo,
		reconciler:   &reconciler{bookingRepo: bookingRepo, invoiceRepo: invoiceRepo, paymentRepo: paymentRepo},
		nowFn:        time.Now,
	}
}

func validateBookingInput(in BookingInput) map[string][]string {
	errs := map[string][]string{}
	if in.CustomerName == "" {
		errs["customerName"] = append(errs["customerName"], "Customer name is required")
	}
	if in.CarID == "" {
		errs["carId"] = append(errs["carId"], "Car selection is required")
	}
	if in.StartDate.IsZero() {
		errs["startDate"] = append(errs["startDate"], "Invalid start date")
	}
	if in.EndDate.IsZero() {
		errs["endDate"] = append(errs["endDate"], "Invalid end date")
	} else if !in.EndDate.After(in.StartDate) {
		errs["endDate"] = append(errs["endDate"], "End date must be after start date")
	}
	if in.DiscountPerDay < 0 {
		errs["discountPerDay"] = append(errs["discountPerDay"], "Discount cannot be negative")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// initialStatus derives a booking's schedulable status from the clock: Active
// while now is inside [start, end), Upcoming otherwise.
func (s *bookingService) initialStatus(start, end time.Time) domain.BookingStatus {
	now := s.nowFn()
	if !start.After(now) && end.After(now) {
		return domain.BookingStatusActive
	}
	return domain.BookingStatusUpcoming
}

// quote prices the booking against the seasons overlapping its range.
func (s *bookingService) quote(ctx context.Context, car *domain.Car, in BookingInput) (pricing.Breakdown, error) {
	seasons, err := s.seasonRepo.ListOverlapping(ctx, in.StartDate, in.EndDate)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	return pricing.Quote(car.DailyRate, in.StartDate, in.EndDate, in.DiscountPerDay, seasons), nil
}

func (s *bookingService) invoiceItems(car *domain.Car, q pricing.Breakdown, currency string, discountPerDay float64) []domain.InvoiceItem {
	items := []domain.InvoiceItem{
		{Description: fmt.Sprintf("Car Rental: %s %s (%d days)", car.Make, car.Model, q.Days), Amount: q.BaseAmount},
	}
	if discountPerDay > 0 {
		items = append(items, domain.InvoiceItem{
			Description: fmt.Sprintf("Discount (%s %g/day)", currency, discountPerDay),
			Amount:      -q.DiscountTotal,
		})
	}
	return items
}

// upsertClient maintains the denormalized customer registry. Failures are
// logged and never fail the booking.
func (s *bookingService) upsertClient(ctx context.Context, name string) {
	if err := s.clientRepo.UpsertByName(ctx, name); err != nil {
		logger.Warn("Failed to upsert client record", "customer", name, "error", err)
	}
}

func (s *bookingService) Create(ctx context.Context, actor domain.Actor, in BookingInput) domain.Result {
	if errs := validateBookingInput(in); errs != nil {
		return domain.Invalid(errs)
	}

	car, err := s.carRepo.GetByID(ctx, in.CarID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Fail("Selected car not found.")
	}
	if err != nil {
		logger.Error("Failed to load car", "car_id", in.CarID, "error", err)
		return domain.Fail("Failed to create booking.")
	}
	if car.DeletedAt != nil {
		return domain.Fail("Selected car not found.")
	}
	if !actor.IsAdmin() && !car.OwnedBy(actor.ID) {
		return domain.Fail("Unauthorized: You can only book your own cars.")
	}

	conflict, err := s.bookingRepo.FindConflict(ctx, in.CarID, in.StartDate, in.EndDate, "")
	if err != nil {
		logger.Error("Failed to check booking conflicts", "car_id", in.CarID, "error", err)
		return domain.Fail("Failed to create booking.")
	}
	if conflict != nil {
		return domain.Fail("Car is already booked for these dates.")
	}

	q, err := s.quote(ctx, car, in)
	if err != nil {
		logger.Error("Failed to load seasons", "error", err)
		return domain.Fail("Failed to create booking.")
	}

	status := domain.BookingStatusPendingApproval
	if actor.IsAdmin() {
		status = s.initialStatus(in.StartDate, in.EndDate)
	}

	s.upsertClient(ctx, in.CustomerName)

	booking := &domain.Booking{
		CarID:          in.CarID,
		CustomerName:   in.CustomerName,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		DiscountPerDay: in.DiscountPerDay,
		TotalAmount:    q.Total,
		Status:         status,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrBookingConflict) {
			return domain.Fail("Car is already booked for these dates.")
		}
		logger.Error("Failed to create booking", "car_id", in.CarID, "error", err)
		return domain.Fail("Failed to create booking.")
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		logger.Error("Failed to load system settings", "error", err)
		return domain.Fail("Failed to create booking.")
	}
	counter, err := s.settingsRepo.NextInvoiceCounter(ctx, invoiceCounterStep)
	if err != nil {
		logger.Error("Failed to advance invoice counter", "error", err)
		return domain.Fail("Failed to create booking.")
	}

	invoice := &domain.Invoice{
		BookingID:     booking.ID,
		InvoiceNumber: fmt.Sprintf("%s/I/%d/%d", settings.InvoicePrefix, counter, s.nowFn().Year()),
		Date:          in.StartDate,
		Items:         s.invoiceItems(car, q, settings.Currency, in.DiscountPerDay),
		Total:         q.Total,
		Status:        domain.InvoiceStatusPending,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		logger.Error("Failed to create invoice", "booking_id", booking.ID, "error", err)
		return domain.Fail("Failed to create booking.")
	}

	payment := &domain.Payment{
		BookingID: booking.ID,
		Amount:    q.Total,
		DueDate:   in.EndDate,
		Status:    domain.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		logger.Error("Failed to create pending payment", "booking_id", booking.ID, "error", err)
		return domain.Fail("Failed to create booking.")
	}

	if status == domain.BookingStatusActive {
		if err := s.carRepo.UpdateStatus(ctx, car.ID, domain.CarStatusRented); err != nil {
			logger.Error("Failed to mark car as rented", "car_id", car.ID, "error", err)
			return domain.Fail("Failed to create booking.")
		}
	}

	if status == domain.BookingStatusPendingApproval {
		return domain.OK("Booking request submitted for approval!")
	}
	return domain.OK("Booking created successfully!")
}

func (s *bookingService) Approve(ctx context.Context, actor domain.Actor, bookingID string) domain.Result {
	if !actor.IsAdmin() {
		return domain.Fail("Unauthorized: Only Admins can approve bookings.")
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Fail("Booking not found.")
	}
	if err != nil {
		logger.Error("Failed to load booking", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to approve booking.")
	}
	if booking.Status != domain.BookingStatusPendingApproval {
		return domain.Fail("Booking is not pending approval.")
	}

	newStatus := s.initialStatus(booking.StartDate, booking.EndDate)
	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		logger.Error("Failed to approve booking", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to approve booking.")
	}
	if newStatus == domain.BookingStatusActive {
		if err := s.carRepo.UpdateStatus(ctx, booking.CarID, domain.CarStatusRented); err != nil {
			logger.Error("Failed to mark car as rented", "car_id", booking.CarID, "error", err)
			return domain.Fail("Failed to approve booking.")
		}
	}
	return domain.OK("Booking approved successfully!")
}

func (s *bookingService) Update(ctx context.Context, actor domain.Actor, bookingID string, in BookingInput) domain.Result {
	if errs := validateBookingInput(in); errs != nil {
		return domain.Invalid(errs)
	}

	car, err := s.carRepo.GetByID(ctx, in.CarID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Fail("Selected car not found.")
	}
	if err != nil {
		logger.Error("Failed to load car", "car_id", in.CarID, "error", err)
		return domain.Fail("Failed to update booking.")
	}
	if car.DeletedAt != nil {
		return domain.Fail("Selected car not found.")
	}
	if !actor.IsAdmin() && !car.OwnedBy(actor.ID) {
		return domain.Fail("Unauthorized: You can only book your own cars.")
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Fail("Booking not found.")
	}
	if err != nil {
		logger.Error("Failed to load booking", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to update booking.")
	}

	// Ownership must hold on the car the booking is moving away from too.
	if !actor.IsAdmin() && booking.CarID != in.CarID {
		oldCar, err := s.carRepo.GetByID(ctx, booking.CarID)
		if err != nil {
			logger.Error("Failed to load car", "car_id", booking.CarID, "error", err)
			return domain.Fail("Failed to update booking.")
		}
		if !oldCar.OwnedBy(actor.ID) {
			return domain.Fail("Unauthorized: You can only edit bookings for your own cars.")
		}
	}

	conflict, err := s.bookingRepo.FindConflict(ctx, in.CarID, in.StartDate, in.EndDate, bookingID)
	if err != nil {
		logger.Error("Failed to check booking conflicts", "car_id", in.CarID, "error", err)
		return domain.Fail("Failed to update booking.")
	}
	if conflict != nil {
		return domain.Fail("Car is already booked for these dates.")
	}

	q, err := s.quote(ctx, car, in)
	if err != nil {
		logger.Error("Failed to load seasons", "error", err)
		return domain.Fail("Failed to update booking.")
	}

	s.upsertClient(ctx, in.CustomerName)

	booking.CarID = in.CarID
	booking.CustomerName = in.CustomerName
	booking.StartDate = in.StartDate
	booking.EndDate = in.EndDate
	booking.DiscountPerDay = in.DiscountPerDay
	booking.TotalAmount = q.Total
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		logger.Error("Failed to update booking", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to update booking.")
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		logger.Error("Failed to load system settings", "error", err)
		return domain.Fail("Failed to update booking.")
	}

	invoice, err := s.invoiceRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		logger.Error("Failed to load invoice", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to update booking.")
	}
	invoice.Total = q.Total
	invoice.Items = s.invoiceItems(car, q, settings.Currency, in.DiscountPerDay)
	invoice.Date = in.StartDate
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		logger.Error("Failed to update invoice", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to update booking.")
	}

	if err := s.rebalanceOutstanding(ctx, booking); err != nil {
		logger.Error("Failed to rebalance payments", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to update booking.")
	}
	if err := s.reconcileInvoice(ctx, bookingID); err != nil {
		logger.Error("Failed to reconcile invoice", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to update booking.")
	}

	return domain.OK("Booking updated successfully!")
}

// loadAuthorized fetches a booking and enforces car ownership for
// non-privileged callers.
func (s *bookingService) loadAuthorized(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, domain.Result, bool) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Fail("Booking not found."), false
	}
	if err != nil {
		logger.Error("Failed to load booking", "booking_id", bookingID, "error", err)
		return nil, domain.Fail("Failed to load booking."), false
	}
	if !actor.IsAdmin() {
		car, err := s.carRepo.GetByID(ctx, booking.CarID)
		if err != nil {
			logger.Error("Failed to load car", "car_id", booking.CarID, "error", err)
			return nil, domain.Fail("Failed to load booking."), false
		}
		if !car.OwnedBy(actor.ID) {
			return nil, domain.Fail("Unauthorized: You can only manage bookings for your own cars."), false
		}
	}
	return booking, domain.Result{}, true
}

func (s *bookingService) Cancel(ctx context.Context, actor domain.Actor, bookingID string) domain.Result {
	booking, res, ok := s.loadAuthorized(ctx, actor, bookingID)
	if !ok {
		return res
	}
	if booking.Status == domain.BookingStatusCancelled {
		return domain.Fail("Booking is already cancelled.")
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingStatusCancelled); err != nil {
		logger.Error("Failed to cancel booking", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to cancel booking.")
	}

	if booking.Status == domain.BookingStatusActive {
		if err := s.carRepo.UpdateStatus(ctx, booking.CarID, domain.CarStatusAvailable); err != nil {
			logger.Error("Failed to free car", "car_id", booking.CarID, "error", err)
			return domain.Fail("Failed to cancel booking.")
		}
	}

	invoice, err := s.invoiceRepo.GetByBookingID(ctx, bookingID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Error("Failed to load invoice", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to cancel booking.")
	}
	if invoice != nil {
		if err := s.invoiceRepo.UpdateStatus(ctx, invoice.ID, domain.InvoiceStatusVoid); err != nil {
			logger.Error("Failed to void invoice", "booking_id", bookingID, "error", err)
			return domain.Fail("Failed to cancel booking.")
		}
	}

	if err := s.paymentRepo.DeleteOutstandingByBooking(ctx, bookingID); err != nil {
		logger.Error("Failed to delete outstanding payments", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to cancel booking.")
	}

	return domain.OK("Booking cancelled successfully!")
}

func (s *bookingService) Complete(ctx context.Context, actor domain.Actor, bookingID string) domain.Result {
	booking, res, ok := s.loadAuthorized(ctx, actor, bookingID)
	if !ok {
		return res
	}
	if booking.Status != domain.BookingStatusActive {
		return domain.Fail("Only active bookings can be completed.")
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingStatusCompleted); err != nil {
		logger.Error("Failed to complete booking", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to complete booking.")
	}
	if err := s.carRepo.UpdateStatus(ctx, booking.CarID, domain.CarStatusAvailable); err != nil {
		logger.Error("Failed to free car", "car_id", booking.CarID, "error", err)
		return domain.Fail("Failed to complete booking.")
	}
	return domain.OK("Booking completed successfully!")
}

func (s *bookingService) Reactivate(ctx context.Context, actor domain.Actor, bookingID string) domain.Result {
	booking, res, ok := s.loadAuthorized(ctx, actor, bookingID)
	if !ok {
		return res
	}
	if booking.Status != domain.BookingStatusCompleted {
		return domain.Fail("Only completed bookings can be reactivated.")
	}

	// A Completed or Upcoming booking on the same dates is not a blocker
	// here; only a live rental is.
	conflict, err := s.bookingRepo.FindActiveConflict(ctx, booking.CarID, booking.StartDate, booking.EndDate, bookingID)
	if err != nil {
		logger.Error("Failed to check booking conflicts", "car_id", booking.CarID, "error", err)
		return domain.Fail("Failed to reactivate booking.")
	}
	if conflict != nil {
		return domain.Fail("Cannot reactivate: Car is currently active in another booking for these dates.")
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingStatusActive); err != nil {
		logger.Error("Failed to reactivate booking", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to reactivate booking.")
	}
	if err := s.carRepo.UpdateStatus(ctx, booking.CarID, domain.CarStatusRented); err != nil {
		logger.Error("Failed to mark car as rented", "car_id", booking.CarID, "error", err)
		return domain.Fail("Failed to reactivate booking.")
	}
	return domain.OK("Booking reactivated successfully!")
}

func (s *bookingService) Delete(ctx context.Context, actor domain.Actor, bookingID string) domain.Result {
	booking, res, ok := s.loadAuthorized(ctx, actor, bookingID)
	if !ok {
		return res
	}

	freeCar := booking.Status.Occupying()
	if err := s.bookingRepo.DeleteCascade(ctx, bookingID, booking.CarID, freeCar); err != nil {
		logger.Error("Failed to delete booking", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to delete booking.")
	}
	return domain.OK("Booking deleted successfully!")
}

func (s *bookingService) Get(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		car, err := s.carRepo.GetByID(ctx, booking.CarID)
		if err != nil {
			return nil, err
		}
		if !car.OwnedBy(actor.ID) {
			return nil, errors.New("unauthorized")
		}
	}
	return booking, nil
}
