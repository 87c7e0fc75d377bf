package domain

import "time"

type CarStatus string

const (
	CarStatusAvailable   CarStatus = "Available"
	CarStatusRented      CarStatus = "Rented"
	CarStatusMaintenance CarStatus = "Maintenance"
)

type CarCategory string

const (
	CarCategorySedan      CarCategory = "Sedan"
	CarCategoryMidSUV     CarCategory = "Mid-SUV"
	CarCategoryFullSUV    CarCategory = "Full SUV"
	CarCategoryCommercial CarCategory = "Commercial"
)

type Car struct {
	ID        string      `json:"id"`
	Make      string      `json:"make"`
	Model     string      `json:"model"`
	Year      int32       `json:"year"`
	Plate     string      `json:"plate"`
	Category  CarCategory `json:"category"`
	DailyRate float64     `json:"daily_rate"`
	Status    CarStatus   `json:"status"`
	Image     string      `json:"image"`
	OwnerID   *string     `json:"owner_id,omitempty"`
	DeletedAt *time.Time  `json:"deleted_at,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OwnedBy reports whether the car belongs to the given user.
func (c *Car) OwnedBy(userID string) bool {
	return c.OwnerID != nil && *c.OwnerID == userID
}
