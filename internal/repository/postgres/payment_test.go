package postgres

import (
	"context"
	"testing"
	"time"

	"rentalops-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func paymentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "booking_id", "amount", "due_date", "status", "method", "created_at", "updated_at"})
}

func TestPaymentRepository_FindOutstandingByBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewPaymentRepository(db)
	ctx := context.Background()

	t.Run("FindsPending", func(t *testing.T) {
		rows := paymentRows().
			AddRow("pay-1", "bk-1", 15000.0, time.Now(), "Pending", nil, time.Now(), time.Now())

		mock.ExpectQuery(`SELECT (.+) FROM payments WHERE booking_id = \$1 AND status IN \(\$2, \$3\)`).
			WithArgs("bk-1", string(domain.PaymentStatusPending), string(domain.PaymentStatusOverdue)).
			WillReturnRows(rows)

		p, err := repo.FindOutstandingByBooking(ctx, "bk-1")
		assert.NoError(t, err)
		assert.NotNil(t, p)
		assert.Equal(t, "pay-1", p.ID)
	})

	t.Run("FindsOverdue", func(t *testing.T) {
		rows := paymentRows().
			AddRow("pay-1", "bk-1", 15000.0, time.Now(), "Overdue", nil, time.Now(), time.Now())

		mock.ExpectQuery(`SELECT (.+) FROM payments WHERE booking_id = \$1 AND status IN \(\$2, \$3\)`).
			WithArgs("bk-1", string(domain.PaymentStatusPending), string(domain.PaymentStatusOverdue)).
			WillReturnRows(rows)

		p, err := repo.FindOutstandingByBooking(ctx, "bk-1")
		assert.NoError(t, err)
		assert.NotNil(t, p)
		assert.Equal(t, domain.PaymentStatusOverdue, p.Status)
	})

	t.Run("NoneReturnsNil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM payments WHERE booking_id = \$1 AND status IN \(\$2, \$3\)`).
			WithArgs("bk-1", string(domain.PaymentStatusPending), string(domain.PaymentStatusOverdue)).
			WillReturnRows(paymentRows())

		p, err := repo.FindOutstandingByBooking(ctx, "bk-1")
		assert.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestPaymentRepository_DeleteOutstandingByBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewPaymentRepository(db)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM payments WHERE booking_id = \$1 AND status IN \(\$2, \$3\)`).
		WithArgs("bk-1", string(domain.PaymentStatusPending), string(domain.PaymentStatusOverdue)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err = repo.DeleteOutstandingByBooking(ctx, "bk-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_MarkOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewPaymentRepository(db)
	ctx := context.Background()

	cutoff := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE payments SET status=\$1`).
		WithArgs(string(domain.PaymentStatusOverdue), sqlmock.AnyArg(), string(domain.PaymentStatusPending), cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.MarkOverdue(ctx, cutoff)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
