package auth

import (
	"context"
	"time"

	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
	"github.com/jhoicas/ahorro-api/pkg/jwt"
)

// TxRunner transacciones que necesita el orquestador.
type TxRunner interface {
	// RunRegistration crea usuario, dispositivo y cuenta en una sola transacción.
	RunRegistration(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		deviceRepo repository.DeviceRepository,
		accountRepo repository.AccountRepository,
	) error) error
	// RunDevices emite o renueva sesiones con la fila del dispositivo bloqueada.
	RunDevices(ctx context.Context, fn func(
		deviceRepo repository.DeviceRepository,
		sessionRepo repository.SessionRepository,
	) error) error
}

// PasswordHasher deriva y verifica credenciales.
type PasswordHasher interface {
	Hash(password, salt string) (string, string, error)
	Verify(password, salt, hash string) bool
}

// TokenManager emite y valida tokens.
type TokenManager interface {
	GenerateAccess(userID, email, role, deviceID string) (string, error)
	GenerateRefresh(userID, deviceID, sessionID string) (string, error)
	ParseRefresh(token string) (*jwt.RefreshClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// DeviceService alta/búsqueda de dispositivos durante el login.
type DeviceService interface {
	FindOrCreate(ctx context.Context, userID, deviceID, description string) (*entity.Device, error)
}
