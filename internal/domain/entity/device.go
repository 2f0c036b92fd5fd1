package entity

import "time"

// Device dispositivo físico de un usuario. DeviceID lo envía el cliente y es único
// en todo el sistema; el dispositivo nunca cambia de dueño.
type Device struct {
	ID          string
	DeviceID    string
	UserID      string
	Description string
	Verified    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BelongsTo indica si el dispositivo es del usuario.
func (d *Device) BelongsTo(userID string) bool { return d.UserID == userID }

// Filtros de listado de dispositivos para el panel de administración.
const (
	DeviceStatusAll      = "all"
	DeviceStatusPending  = "pending"
	DeviceStatusVerified = "verified"
)

// ValidDeviceStatus indica si s es un filtro de estado conocido.
func ValidDeviceStatus(s string) bool {
	switch s {
	case DeviceStatusAll, DeviceStatusPending, DeviceStatusVerified:
		return true
	}
	return false
}
