package domain

import "time"

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "Pending"
	InvoiceStatusPaid    InvoiceStatus = "Paid"
	InvoiceStatusVoid    InvoiceStatus = "Void"
)

// InvoiceItem is one line on an invoice. Discounts are negative amounts.
type InvoiceItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type Invoice struct {
	ID            string        `json:"id"`
	BookingID     string        `json:"booking_id"`
	InvoiceNumber string        `json:"invoice_number"`
	Date          time.Time     `json:"date"`
	Items         []InvoiceItem `json:"items"`
	Total         float64       `json:"total"`
	Status        InvoiceStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
