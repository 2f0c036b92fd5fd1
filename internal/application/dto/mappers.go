package dto

import "github.com/jhoicas/ahorro-api/internal/domain/entity"

// NewUserResponse proyección segura de un usuario.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt}
}

// NewDeviceResponse proyección de un dispositivo.
func NewDeviceResponse(d *entity.Device) DeviceResponse {
	return DeviceResponse{
		ID:          d.ID,
		DeviceID:    d.DeviceID,
		UserID:      d.UserID,
		Description: d.Description,
		Verified:    d.Verified,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// NewTransactionResponse proyección de un movimiento.
func NewTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Type:        t.Type,
		Amount:      t.Amount,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}
