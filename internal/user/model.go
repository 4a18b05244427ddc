package user

import "time"

// Role is the single source of truth for authorization boundaries. It is
// fixed at issuance time and never re-derived from client input.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleStaff    Role = "STAFF"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole maps a raw string onto a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID        uint
	Name      string
	Email     string
	Password  string
	Phone     *string
	Role      Role
	CreatedAt time.Time
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    *string
}

type UpdateProfileInput struct {
	Name  string `json:"name" validate:"required"`
	Phone *string
}
