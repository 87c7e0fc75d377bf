package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"

	"github.com/google/uuid"
)

type invoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) repository.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return err
	}
	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	query := `INSERT INTO invoices (id, booking_id, invoice_number, date, items, total, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.db.ExecContext(ctx, query, inv.ID, inv.BookingID, inv.InvoiceNumber, inv.Date, items, inv.Total, inv.Status, now, now)
	return err
}

func (r *invoiceRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Invoice, error) {
	inv := &domain.Invoice{}
	var items []byte
	query := `SELECT id, booking_id, invoice_number, date, items, total, status, created_at, updated_at FROM invoices WHERE booking_id = $1`
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(&inv.ID, &inv.BookingID, &inv.InvoiceNumber, &inv.Date, &items, &inv.Total, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return err
	}
	query := `UPDATE invoices SET date=$1, items=$2, total=$3, status=$4, updated_at=$5 WHERE id=$6`
	_, err = r.db.ExecContext(ctx, query, inv.Date, items, inv.Total, inv.Status, time.Now(), inv.ID)
	return err
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id string, status domain.InvoiceStatus) error {
	query := `UPDATE invoices SET status=$1, updated_at=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}
