package domain

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleOwner Role = "Owner"
)

// Actor identifies the already-authenticated caller of an operation.
// Authorization (ownership and role checks) is still enforced by the services.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
