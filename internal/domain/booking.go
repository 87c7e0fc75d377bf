package domain

import "time"

type BookingStatus string

// Status values are stored as-is, so they keep their display spelling.
const (
	BookingStatusPendingApproval BookingStatus = "Pending Approval"
	BookingStatusUpcoming        BookingStatus = "Upcoming"
	BookingStatusActive          BookingStatus = "Active"
	BookingStatusCompleted       BookingStatus = "Completed"
	BookingStatusCancelled       BookingStatus = "Cancelled"
)

// Terminal reports whether no further automatic transitions apply. Completed
// bookings can still be reactivated explicitly, Cancelled ones cannot.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// Occupying reports whether a booking in this status keeps its car reserved.
func (s BookingStatus) Occupying() bool {
	return s == BookingStatusActive || s == BookingStatusUpcoming
}

type Booking struct {
	ID             string        `json:"id"`
	CarID          string        `json:"car_id"`
	CustomerName   string        `json:"customer_name"`
	StartDate      time.Time     `json:"start_date"`
	EndDate        time.Time     `json:"end_date"`
	DiscountPerDay float64       `json:"discount_per_day"`
	TotalAmount    float64       `json:"total_amount"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
