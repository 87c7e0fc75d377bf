package service

import (
	"context"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/repository"
)

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) Get(ctx context.Context) (*domain.SystemSettings, error) {
	return s.settingsRepo.Get(ctx)
}

func (s *settingsService) Update(ctx context.Context, actor domain.Actor, in SettingsInput) domain.Result {
	if !actor.IsAdmin() {
		return domain.Fail("Unauthorized: Only Admins can update settings.")
	}

	errs := map[string][]string{}
	if in.CompanyName == "" {
		errs["companyName"] = append(errs["companyName"], "Company name is required")
	}
	if in.Currency == "" {
		errs["currency"] = append(errs["currency"], "Currency is required")
	}
	if in.VatRate < 0 {
		errs["vatRate"] = append(errs["vatRate"], "VAT rate cannot be negative")
	}
	if in.InvoicePrefix == "" {
		errs["invoicePrefix"] = append(errs["invoicePrefix"], "Invoice prefix is required")
	}
	if len(errs) > 0 {
		return domain.Invalid(errs)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		logger.Error("Failed to load system settings", "error", err)
		return domain.Fail("Failed to update settings.")
	}

	// The invoice counter is never editable here; only invoice issuance
	// advances it.
	settings.CompanyName = in.CompanyName
	settings.CompanyEmail = in.CompanyEmail
	settings.CompanyPhone = in.CompanyPhone
	settings.CompanyAddress = in.CompanyAddress
	settings.Currency = in.Currency
	settings.VatRate = in.VatRate
	settings.MpesaPaybill = in.MpesaPaybill
	settings.BankDetails = in.BankDetails
	settings.TermsAndConditions = in.TermsAndConditions
	settings.InvoicePrefix = in.InvoicePrefix

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		logger.Error("Failed to update system settings", "error", err)
		return domain.Fail("Failed to update settings.")
	}
	return domain.OK("Settings updated successfully!")
}
