package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/repository"
)

// reconciler keeps a booking's invoice and payment rows consistent with each
// other. Both the booking and payment services run it after any mutation that
// can change the booking's financial position.
type reconciler struct {
	bookingRepo repository.BookingRepository
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
}

func (r *reconciler) paidSum(ctx context.Context, bookingID string) (float64, error) {
	payments, err := r.paymentRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	var paid float64
	for _, p := range payments {
		if p.Status == domain.PaymentStatusPaid {
			paid += p.Amount
		}
	}
	return paid, nil
}

// reconcileInvoice derives the invoice status from the paid total: Paid when
// payments cover the invoice, Pending otherwise. Void invoices and cancelled
// bookings are left alone.
func (r *reconciler) reconcileInvoice(ctx context.Context, bookingID string) error {
	invoice, err := r.invoiceRepo.GetByBookingID(ctx, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if invoice.Status == domain.InvoiceStatusVoid {
		return nil
	}

	booking, err := r.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil
	}

	paid, err := r.paidSum(ctx, bookingID)
	if err != nil {
		return err
	}

	want := domain.InvoiceStatusPending
	if paid >= invoice.Total {
		want = domain.InvoiceStatusPaid
	}
	if invoice.Status == want {
		return nil
	}
	return r.invoiceRepo.UpdateStatus(ctx, invoice.ID, want)
}

// rebalanceOutstanding resizes the booking's outstanding payment (Pending or
// Overdue) to the unpaid balance: grown or shrunk in place while a balance
// remains, deleted once the booking is fully covered. A resized row goes back
// to Pending since its due date moves to the new end date; the overdue pass
// re-flags it if that date lapses too.
func (r *reconciler) rebalanceOutstanding(ctx context.Context, booking *domain.Booking) error {
	paid, err := r.paidSum(ctx, booking.ID)
	if err != nil {
		return err
	}
	balance := booking.TotalAmount - paid

	outstanding, err := r.paymentRepo.FindOutstandingByBooking(ctx, booking.ID)
	if err != nil {
		return err
	}

	if balance <= 0 {
		if outstanding != nil {
			return r.paymentRepo.Delete(ctx, outstanding.ID)
		}
		return nil
	}

	if outstanding != nil {
		outstanding.Amount = balance
		outstanding.DueDate = booking.EndDate
		outstanding.Status = domain.PaymentStatusPending
		return r.paymentRepo.Update(ctx, outstanding)
	}
	return r.paymentRepo.Create(ctx, &domain.Payment{
		BookingID: booking.ID,
		Amount:    balance,
		DueDate:   booking.EndDate,
		Status:    domain.PaymentStatusPending,
	})
}

type paymentService struct {
	carRepo repository.CarRepository
	*reconciler
	nowFn func() time.Time
}

func NewPaymentService(
	bookingRepo repository.BookingRepository,
	carRepo repository.CarRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
) PaymentService {
	return &paymentService{
		carRepo:    carRepo,
		reconciler: &reconciler{bookingRepo: bookingRepo, invoiceRepo: invoiceRepo, paymentRepo: paymentRepo},
		nowFn:      time.Now,
	}
}

func (s *paymentService) authorize(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, domain.Result, bool) {
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
			return nil, domain.Fail("Unauthorized: You can only manage payments for your own cars."), false
		}
	}
	return booking, domain.Result{}, true
}

// settle applies a received amount to an outstanding payment. An amount below
// the payment's value splits off a Paid slice and shrinks the payment to the
// remainder; anything else converts the payment itself to Paid in place.
func (s *paymentService) settle(ctx context.Context, payment *domain.Payment, method string, amount float64) error {
	var m *string
	if method != "" {
		m = &method
	}

	if amount > 0 && amount < payment.Amount {
		received := &domain.Payment{
			BookingID: payment.BookingID,
			Amount:    amount,
			DueDate:   payment.DueDate,
			Status:    domain.PaymentStatusPaid,
			Method:    m,
		}
		if err := s.paymentRepo.Create(ctx, received); err != nil {
			return err
		}
		payment.Amount -= amount
		return s.paymentRepo.Update(ctx, payment)
	}

	payment.Status = domain.PaymentStatusPaid
	payment.Method = m
	return s.paymentRepo.Update(ctx, payment)
}

func (s *paymentService) MarkPaid(ctx context.Context, actor domain.Actor, paymentID, method string, amount float64) domain.Result {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Fail("Payment not found.")
	}
	if err != nil {
		logger.Error("Failed to load payment", "payment_id", paymentID, "error", err)
		return domain.Fail("Failed to update payment.")
	}

	booking, res, ok := s.authorize(ctx, actor, payment.BookingID)
	if !ok {
		return res
	}

	if err := s.settle(ctx, payment, method, amount); err != nil {
		logger.Error("Failed to update payment", "payment_id", paymentID, "error", err)
		return domain.Fail("Failed to update payment.")
	}

	if err := s.reconcileInvoice(ctx, booking.ID); err != nil {
		logger.Error("Failed to reconcile invoice", "booking_id", booking.ID, "error", err)
		return domain.Fail("Failed to update payment.")
	}
	return domain.OK("Payment marked as paid.")
}

func (s *paymentService) MarkUnpaid(ctx context.Context, actor domain.Actor, paymentID string) domain.Result {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Fail("Payment not found.")
	}
	if err != nil {
		logger.Error("Failed to load payment", "payment_id", paymentID, "error", err)
		return domain.Fail("Failed to update payment.")
	}

	booking, res, ok := s.authorize(ctx, actor, payment.BookingID)
	if !ok {
		return res
	}

	payment.Status = domain.PaymentStatusPending
	payment.Method = nil
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		logger.Error("Failed to update payment", "payment_id", paymentID, "error", err)
		return domain.Fail("Failed to update payment.")
	}

	if err := s.reconcileInvoice(ctx, booking.ID); err != nil {
		logger.Error("Failed to reconcile invoice", "booking_id", booking.ID, "error", err)
		return domain.Fail("Failed to update payment.")
	}
	return domain.OK("Payment marked as unpaid (pending).")
}

func (s *paymentService) Record(ctx context.Context, actor domain.Actor, bookingID string, amount float64, method string) domain.Result {
	if amount <= 0 {
		return domain.Invalid(map[string][]string{
			"amount": {"Amount must be greater than zero"},
		})
	}

	_, res, ok := s.authorize(ctx, actor, bookingID)
	if !ok {
		return res
	}

	// Route through the booking's outstanding payment when one exists, so a
	// covering amount converts it in place instead of leaving an orphan.
	outstanding, err := s.paymentRepo.FindOutstandingByBooking(ctx, bookingID)
	if err != nil {
		logger.Error("Failed to load payments", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to record payment.")
	}
	if outstanding != nil {
		if err := s.settle(ctx, outstanding, method, amount); err != nil {
			logger.Error("Failed to record payment", "booking_id", bookingID, "error", err)
			return domain.Fail("Failed to record payment.")
		}
	} else {
		var m *string
		if method != "" {
			m = &method
		}
		received := &domain.Payment{
			BookingID: bookingID,
			Amount:    amount,
			DueDate:   s.nowFn(),
			Status:    domain.PaymentStatusPaid,
			Method:    m,
		}
		if err := s.paymentRepo.Create(ctx, received); err != nil {
			logger.Error("Failed to record payment", "booking_id", bookingID, "error", err)
			return domain.Fail("Failed to record payment.")
		}
	}

	if err := s.reconcileInvoice(ctx, bookingID); err != nil {
		logger.Error("Failed to reconcile invoice", "booking_id", bookingID, "error", err)
		return domain.Fail("Failed to record payment.")
	}
	return domain.OK("Payment recorded successfully!")
}

func (s *paymentService) Ledger(ctx context.Context, bookingID string) (*domain.BookingLedger, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	paid, err := s.paidSum(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &domain.BookingLedger{
		BookingID:   bookingID,
		Total:       booking.TotalAmount,
		Paid:        paid,
		Outstanding: math.Max(0, booking.TotalAmount-paid),
		Overpaid:    math.Max(0, paid-booking.TotalAmount),
	}, nil
}

func (s *paymentService) ListByBooking(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	return s.paymentRepo.ListByBooking(ctx, bookingID)
}
