package entity

import "time"

// Session sesión de refresh ligada a un usuario y un dispositivo. Solo se guarda el
// hash SHA-256 del refresh token.
type Session struct {
	ID             string
	UserID         string
	DeviceID       string
	TokenHash      string
	ExpiresAt      time.Time
	LastActivityAt time.Time
	CreatedAt      time.Time
}

// IsExpired indica si la sesión venció en el instante now.
func (s *Session) IsExpired(now time.Time) bool { return !now.Before(s.ExpiresAt) }
