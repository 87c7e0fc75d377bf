package domain

// Client is the loosely maintained customer registry. Bookings reference
// customers by free-text name only; this record is upserted best-effort as a
// secondary index, not a foreign-key relationship.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
