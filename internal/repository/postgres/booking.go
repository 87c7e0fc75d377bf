package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"

	"github.com/google/uuid"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, car_id, customer_name, start_date, end_date, discount_per_day, total_amount, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(&b.ID, &b.CarID, &b.CustomerName, &b.StartDate, &b.EndDate, &b.DiscountPerDay, &b.TotalAmount, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// conflictClause matches any booking on the car whose closed interval overlaps
// the candidate range. Touching endpoints count as a conflict.
const conflictClause = `car_id = $1 AND start_date <= $3 AND end_date >= $2 AND ($4 = '' OR id <> $4)`

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	// Lock the car row so the overlap re-check and the insert act as one
	// unit against concurrent creations for the same car.
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var carID string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM cars WHERE id = $1 FOR UPDATE`, b.CarID).Scan(&carID); err != nil {
		return err
	}

	var conflictID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM bookings WHERE `+conflictClause+` AND status <> $5 LIMIT 1`,
		b.CarID, b.StartDate, b.EndDate, "", domain.BookingStatusCancelled,
	).Scan(&conflictID)
	if err == nil {
		return repository.ErrBookingConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bookings (`+bookingColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.CarID, b.CustomerName, b.StartDate, b.EndDate, b.DiscountPerDay, b.TotalAmount, b.Status, now, now)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.db.QueryRowContext(ctx, query, id))
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET car_id=$1, customer_name=$2, start_date=$3, end_date=$4, discount_per_day=$5, total_amount=$6, status=$7, updated_at=$8 WHERE id=$9`
	_, err := r.db.ExecContext(ctx, query, b.CarID, b.CustomerName, b.StartDate, b.EndDate, b.DiscountPerDay, b.TotalAmount, b.Status, time.Now(), b.ID)
	return err
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status=$1, updated_at=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

func (r *bookingRepository) findConflict(ctx context.Context, carID string, start, end time.Time, excludeID string, activeOnly bool) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + conflictClause
	if activeOnly {
		query += ` AND status = $5`
	} else {
		query += ` AND status <> $5`
	}
	query += ` LIMIT 1`

	status := domain.BookingStatusCancelled
	if activeOnly {
		status = domain.BookingStatusActive
	}
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, carID, start, end, excludeID, status))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *bookingRepository) FindConflict(ctx context.Context, carID string, start, end time.Time, excludeID string) (*domain.Booking, error) {
	return r.findConflict(ctx, carID, start, end, excludeID, false)
}

func (r *bookingRepository) FindActiveConflict(ctx context.Context, carID string, start, end time.Time, excludeID string) (*domain.Booking, error) {
	return r.findConflict(ctx, carID, start, end, excludeID, true)
}

func (r *bookingRepository) FindActiveByCar(ctx context.Context, carID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE car_id = $1 AND status = $2 LIMIT 1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, carID, domain.BookingStatusActive))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *bookingRepository) ListUpcomingDue(ctx context.Context, today time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 AND start_date <= $2 ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, domain.BookingStatusUpcoming, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) HasUnresolvedForCar(ctx context.Context, carID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE car_id = $1 AND status IN ($2, $3, $4))`
	err := r.db.QueryRowContext(ctx, query, carID,
		domain.BookingStatusActive, domain.BookingStatusUpcoming, domain.BookingStatusPendingApproval).Scan(&exists)
	return exists, err
}

func (r *bookingRepository) DeleteCascade(ctx context.Context, bookingID, carID string, freeCar bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE booking_id = $1`, bookingID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM invoices WHERE booking_id = $1`, bookingID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID); err != nil {
		return err
	}
	if freeCar {
		if _, err := tx.ExecContext(ctx, `UPDATE cars SET status=$1, updated_at=$2 WHERE id=$3`, domain.CarStatusAvailable, time.Now(), carID); err != nil {
			return err
		}
	}
	return tx.Commit()
}
