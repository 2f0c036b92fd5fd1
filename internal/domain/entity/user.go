package entity

import "time"

// Roles válidos para User. El rol no cambia después del registro.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// User representa un cliente o un administrador.
type User struct {
	ID           string
	Email        string // normalizado en minúsculas
	Name         string
	Role         string
	PasswordSalt string // hex
	PasswordHash string // hex, PBKDF2-SHA512
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario es administrador.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
