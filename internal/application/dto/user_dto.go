package dto

import "time"

// RegisterRequest entrada para registro de clientes: credenciales y el dispositivo desde el que se registra.
type RegisterRequest struct {
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=8"`
	Name              string `json:"name" validate:"required,max=200"`
	DeviceID          string `json:"deviceId" validate:"required,max=255"`
	DeviceDescription string `json:"deviceDescription" validate:"omitempty,max=255"`
}

// LoginRequest entrada para login de clientes y administradores.
type LoginRequest struct {
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required"`
	DeviceID          string `json:"deviceId" validate:"required,max=255"`
	DeviceDescription string `json:"deviceDescription" validate:"omitempty,max=255"`
}

// RefreshRequest entrada para renovar el token de acceso.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UserResponse salida de un usuario (sin sal ni hash).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// TokenPair tokens emitidos tras un login exitoso.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"` // siempre "Bearer"
	ExpiresIn    int    `json:"expiresIn"` // segundos de vida del token de acceso
}

// RegisterResponse salida del registro: el dispositivo queda pendiente de aprobación.
type RegisterResponse struct {
	User          UserResponse   `json:"user"`
	Device        DeviceResponse `json:"device"`
	DevicePending bool           `json:"devicePending"`
	Message       string         `json:"message"`
}

// LoginResponse salida del login. Con dispositivo pendiente solo lleva DevicePending, DeviceID y Message.
type LoginResponse struct {
	DevicePending bool          `json:"devicePending"`
	DeviceID      string        `json:"deviceId,omitempty"`
	User          *UserResponse `json:"user,omitempty"`
	Tokens        *TokenPair    `json:"tokens,omitempty"`
	Message       string        `json:"message"`
}

// RefreshResponse salida del refresh. RefreshToken es el mismo recibido si la rotación está desactivada.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Message      string `json:"message"`
}

// LogoutResponse salida del logout.
type LogoutResponse struct {
	Message         string `json:"message"`
	SessionsDeleted int64  `json:"sessionsDeleted"`
}
