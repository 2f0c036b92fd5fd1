package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ahorro-api/internal/domain/entity"
)

// DeviceRepository puerto de persistencia de dispositivos.
// Las búsquedas devuelven (nil, nil) cuando no hay fila.
type DeviceRepository interface {
	Create(ctx context.Context, device *entity.Device) error
	GetByDeviceID(ctx context.Context, deviceID string) (*entity.Device, error)
	// GetByDeviceIDForUpdate bloquea la fila (SELECT ... FOR UPDATE). Solo tiene efecto dentro de una tx.
	GetByDeviceIDForUpdate(ctx context.Context, deviceID string) (*entity.Device, error)
	// GetByDeviceIDForShare bloquea la fila en modo compartido (FOR SHARE): varios refresh
	// concurrentes conviven, pero un unverify espera a que terminen.
	GetByDeviceIDForShare(ctx context.Context, deviceID string) (*entity.Device, error)
	SetVerified(ctx context.Context, deviceID string, verified bool, now time.Time) error
	// List filtra por estado (entity.DeviceStatus*) y devuelve la página y el total.
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Device, int, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Device, error)
}
