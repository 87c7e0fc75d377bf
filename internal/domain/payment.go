package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusOverdue PaymentStatus = "Overdue"
)

type Payment struct {
	ID        string        `json:"id"`
	BookingID string        `json:"booking_id"`
	Amount    float64       `json:"amount"`
	DueDate   time.Time     `json:"due_date"`
	Status    PaymentStatus `json:"status"`
	Method    *string       `json:"method,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// BookingLedger is the derived payment position of one booking. Overpaid is
// reporting-only; overpayment is never rejected and never creates a refund
// ledger entry.
type BookingLedger struct {
	BookingID   string  `json:"booking_id"`
	Total       float64 `json:"total"`
	Paid        float64 `json:"paid"`
	Outstanding float64 `json:"outstanding"`
	Overpaid    float64 `json:"overpaid"`
}
