package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"

	"github.com/google/uuid"
)

type settingsRepository struct {
	db       *sql.DB
	defaults SettingsDefaults
}

func NewSettingsRepository(db *sql.DB, defaults SettingsDefaults) repository.SettingsRepository {
	return &settingsRepository{db: db, defaults: defaults}
}

const settingsColumns = `id, company_name, company_email, company_phone, company_address, currency, vat_rate, mpesa_paybill, bank_details, terms_and_conditions, invoice_prefix, last_invoice_counter`

func (r *settingsRepository) Get(ctx context.Context) (*domain.SystemSettings, error) {
	s := &domain.SystemSettings{}
	query := `SELECT ` + settingsColumns + ` FROM system_settings LIMIT 1`
	err := r.db.QueryRowContext(ctx, query).Scan(&s.ID, &s.CompanyName, &s.CompanyEmail, &s.CompanyPhone, &s.CompanyAddress, &s.Currency, &s.VatRate, &s.MpesaPaybill, &s.BankDetails, &s.TermsAndConditions, &s.InvoicePrefix, &s.LastInvoiceCounter)
	if errors.Is(err, sql.ErrNoRows) {
		return r.bootstrap(ctx)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// bootstrap creates the singleton settings row with configured defaults.
func (r *settingsRepository) bootstrap(ctx context.Context) (*domain.SystemSettings, error) {
	s := &domain.SystemSettings{
		ID:                 uuid.NewString(),
		CompanyName:        r.defaults.CompanyName,
		Currency:           r.defaults.Currency,
		VatRate:            r.defaults.VatRate,
		InvoicePrefix:      r.defaults.InvoicePrefix,
		LastInvoiceCounter: r.defaults.InitialInvoiceCounter,
	}
	query := `INSERT INTO system_settings (id, company_name, currency, vat_rate, invoice_prefix, last_invoice_counter)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.CompanyName, s.Currency, s.VatRate, s.InvoicePrefix, s.LastInvoiceCounter)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *settingsRepository) Update(ctx context.Context, s *domain.SystemSettings) error {
	query := `UPDATE system_settings SET company_name=$1, company_email=$2, company_phone=$3, company_address=$4, currency=$5, vat_rate=$6, mpesa_paybill=$7, bank_details=$8, terms_and_conditions=$9, invoice_prefix=$10 WHERE id=$11`
	_, err := r.db.ExecContext(ctx, query, s.CompanyName, s.CompanyEmail, s.CompanyPhone, s.CompanyAddress, s.Currency, s.VatRate, s.MpesaPaybill, s.BankDetails, s.TermsAndConditions, s.InvoicePrefix, s.ID)
	return err
}

// NextInvoiceCounter increments and reads the counter in one statement so
// concurrent booking creations can never be handed the same invoice number.
func (r *settingsRepository) NextInvoiceCounter(ctx context.Context, step int64) (int64, error) {
	var counter int64
	query := `UPDATE system_settings SET last_invoice_counter = last_invoice_counter + $1 RETURNING last_invoice_counter`
	err := r.db.QueryRowContext(ctx, query, step).Scan(&counter)
	if errors.Is(err, sql.ErrNoRows) {
		// First invoice ever issued on a fresh database.
		if _, err := r.bootstrap(ctx); err != nil {
			return 0, err
		}
		err = r.db.QueryRowContext(ctx, query, step).Scan(&counter)
	}
	if err != nil {
		return 0, err
	}
	return counter, nil
}
