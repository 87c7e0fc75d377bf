package domain

// SystemSettings is a singleton record holding company/financial defaults and
// the invoice numbering counter.
type SystemSettings struct {
	ID                 string  `json:"id"`
	CompanyName        string  `json:"company_name"`
	CompanyEmail       string  `json:"company_email"`
	CompanyPhone       string  `json:"company_phone"`
	CompanyAddress     string  `json:"company_address"`
	Currency           string  `json:"currency"`
	VatRate            float64 `json:"vat_rate"`
	MpesaPaybill       string  `json:"mpesa_paybill"`
	BankDetails        string  `json:"bank_details"`
	TermsAndConditions string  `json:"terms_and_conditions"`
	InvoicePrefix      string  `json:"invoice_prefix"`
	LastInvoiceCounter int64   `json:"last_invoice_counter"`
}
