package postgres

import (
	"context"
	"testing"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "car_id", "customer_name", "start_date", "end_date", "discount_per_day", "total_amount", "status", "created_at", "updated_at"})
}

func TestBookingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		booking := &domain.Booking{
			CarID:        "car-1",
			CustomerName: "Alice Wanjiru",
			StartDate:    start,
			EndDate:      end,
			TotalAmount:  15000,
			Status:       domain.BookingStatusUpcoming,
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM cars WHERE id = \$1 FOR UPDATE`).
			WithArgs("car-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("car-1"))
		mock.ExpectQuery(`SELECT id FROM bookings WHERE car_id = \$1`).
			WithArgs("car-1", start, end, "", string(domain.BookingStatusCancelled)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec(`INSERT INTO bookings`).
			WithArgs(sqlmock.AnyArg(), "car-1", "Alice Wanjiru", start, end, 0.0, 15000.0, string(domain.BookingStatusUpcoming), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Create(ctx, booking)
		assert.NoError(t, err)
		assert.NotEmpty(t, booking.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ConflictDetectedUnderLock", func(t *testing.T) {
		booking := &domain.Booking{
			CarID:        "car-1",
			CustomerName: "Alice Wanjiru",
			StartDate:    start,
			EndDate:      end,
			Status:       domain.BookingStatusUpcoming,
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM cars WHERE id = \$1 FOR UPDATE`).
			WithArgs("car-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("car-1"))
		mock.ExpectQuery(`SELECT id FROM bookings WHERE car_id = \$1`).
			WithArgs("car-1", start, end, "", string(domain.BookingStatusCancelled)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("other-booking"))
		mock.ExpectRollback()

		err := repo.Create(ctx, booking)
		assert.ErrorIs(t, err, repository.ErrBookingConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_FindConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)

	t.Run("Found", func(t *testing.T) {
		rows := bookingRows().
			AddRow("bk-2", "car-1", "Bob", start, end, 0.0, 10000.0, "Upcoming", time.Now(), time.Now())

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE car_id = \$1 AND start_date <= \$3 AND end_date >= \$2`).
			WithArgs("car-1", start, end, "bk-1", string(domain.BookingStatusCancelled)).
			WillReturnRows(rows)

		b, err := repo.FindConflict(ctx, "car-1", start, end, "bk-1")
		assert.NoError(t, err)
		assert.NotNil(t, b)
		assert.Equal(t, "bk-2", b.ID)
	})

	t.Run("NoneReturnsNil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE car_id = \$1`).
			WithArgs("car-1", start, end, "", string(domain.BookingStatusCancelled)).
			WillReturnRows(bookingRows())

		b, err := repo.FindConflict(ctx, "car-1", start, end, "")
		assert.NoError(t, err)
		assert.Nil(t, b)
	})
}

func TestBookingRepository_DeleteCascade(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("FreesCar", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM payments WHERE booking_id = \$1`).
			WithArgs("bk-1").WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM invoices WHERE booking_id = \$1`).
			WithArgs("bk-1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM bookings WHERE id = \$1`).
			WithArgs("bk-1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE cars SET status=\$1`).
			WithArgs(string(domain.CarStatusAvailable), sqlmock.AnyArg(), "car-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.DeleteCascade(ctx, "bk-1", "car-1", true)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("KeepsCarStatus", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM payments WHERE booking_id = \$1`).
			WithArgs("bk-1").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM invoices WHERE booking_id = \$1`).
			WithArgs("bk-1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM bookings WHERE id = \$1`).
			WithArgs("bk-1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.DeleteCascade(ctx, "bk-1", "car-1", false)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_ListUpcomingDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	today := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	rows := bookingRows().
		AddRow("bk-1", "car-1", "Alice", today, today.AddDate(0, 0, 3), 0.0, 15000.0, "Upcoming", time.Now(), time.Now())

	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE status = \$1 AND start_date <= \$2`).
		WithArgs(string(domain.BookingStatusUpcoming), today).
		WillReturnRows(rows)

	bookings, err := repo.ListUpcomingDue(ctx, today)
	assert.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, "bk-1", bookings[0].ID)
}
