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

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, booking_id, amount, due_date, status, method, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := row.Scan(&p.ID, &p.BookingID, &p.Amount, &p.DueDate, &p.Status, &p.Method, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	query := `INSERT INTO payments (` + paymentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.BookingID, p.Amount, p.DueDate, p.Status, p.Method, now, now)
	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(r.db.QueryRowContext(ctx, query, id))
}

func (r *paymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	query := `UPDATE payments SET amount=$1, due_date=$2, status=$3, method=$4, updated_at=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, p.Amount, p.DueDate, p.Status, p.Method, time.Now(), p.ID)
	return err
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return err
}

func (r *paymentRepository) DeleteOutstandingByBooking(ctx context.Context, bookingID string) error {
	query := `DELETE FROM payments WHERE booking_id = $1 AND status IN ($2, $3)`
	_, err := r.db.ExecContext(ctx, query, bookingID, domain.PaymentStatusPending, domain.PaymentStatusOverdue)
	return err
}

func (r *paymentRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) FindOutstandingByBooking(ctx context.Context, bookingID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1 AND status IN ($2, $3) LIMIT 1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, bookingID, domain.PaymentStatusPending, domain.PaymentStatusOverdue))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *paymentRepository) MarkOverdue(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE payments SET status=$1, updated_at=$2 WHERE status=$3 AND due_date < $4`
	res, err := r.db.ExecContext(ctx, query, domain.PaymentStatusOverdue, time.Now(), domain.PaymentStatusPending, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
