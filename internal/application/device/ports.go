package device

import (
	"context"

	"github.com/jhoicas/ahorro-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con repositorios de dispositivos y sesiones atados a ella.
// El cambio de estado de un dispositivo y el borrado de sus sesiones ocurren juntos o no ocurren.
type TxRunner interface {
	RunDevices(ctx context.Context, fn func(
		deviceRepo repository.DeviceRepository,
		sessionRepo repository.SessionRepository,
	) error) error
}
