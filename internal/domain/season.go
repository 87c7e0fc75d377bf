package domain

import "time"

// Season is a date range whose price multiplier scales the daily rate for
// every day it covers. Both endpoints are inclusive.
type Season struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	PriceMultiplier float64   `json:"price_multiplier"`
}

// Contains reports whether the given day falls inside the season.
func (s *Season) Contains(day time.Time) bool {
	return !day.Before(s.StartDate) && !day.After(s.EndDate)
}
