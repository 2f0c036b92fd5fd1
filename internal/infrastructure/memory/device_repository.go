package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
)

var _ repository.DeviceRepository = (*DeviceRepo)(nil)

// DeviceRepo implementa repository.DeviceRepository. Los bloqueos FOR UPDATE / FOR SHARE
// los cubre el mutex de la transacción.
type DeviceRepo struct {
	s    *Store
	inTx bool
}

// NewDeviceRepository construye el repositorio.
func NewDeviceRepository(s *Store) *DeviceRepo {
	return &DeviceRepo{s: s}
}

// Create inserta el dispositivo. Un device_id repetido devuelve ErrDeviceAlreadyRegistered.
func (r *DeviceRepo) Create(ctx context.Context, d *entity.Device) error {
	return r.s.exec(ctx, r.inTx, "device.Create", func(st *state) error {
		if _, ok := st.devices[d.DeviceID]; ok {
			return domain.ErrDeviceAlreadyRegistered
		}
		if _, ok := st.users[d.UserID]; !ok {
			return fmt.Errorf("insert device: usuario %s inexistente", d.UserID)
		}
		st.devices[d.DeviceID] = *d
		return nil
	})
}

// GetByDeviceID obtiene el dispositivo o (nil, nil).
func (r *DeviceRepo) GetByDeviceID(ctx context.Context, deviceID string) (*entity.Device, error) {
	return r.get(ctx, "device.GetByDeviceID", deviceID)
}

// GetByDeviceIDForUpdate igual que GetByDeviceID.
func (r *DeviceRepo) GetByDeviceIDForUpdate(ctx context.Context, deviceID string) (*entity.Device, error) {
	return r.get(ctx, "device.GetByDeviceIDForUpdate", deviceID)
}

// GetByDeviceIDForShare igual que GetByDeviceID.
func (r *DeviceRepo) GetByDeviceIDForShare(ctx context.Context, deviceID string) (*entity.Device, error) {
	return r.get(ctx, "device.GetByDeviceIDForShare", deviceID)
}

func (r *DeviceRepo) get(ctx context.Context, op, deviceID string) (*entity.Device, error) {
	var out *entity.Device
	err := r.s.exec(ctx, r.inTx, op, func(st *state) error {
		if d, ok := st.devices[deviceID]; ok {
			out = &d
		}
		return nil
	})
	return out, err
}

// SetVerified cambia el estado de verificación.
func (r *DeviceRepo) SetVerified(ctx context.Context, deviceID string, verified bool, now time.Time) error {
	return r.s.exec(ctx, r.inTx, "device.SetVerified", func(st *state) error {
		d, ok := st.devices[deviceID]
		if !ok {
			return domain.ErrDeviceNotFound
		}
		d.Verified = verified
		d.UpdatedAt = now
		// la clave es la del propio registro, nunca el string del llamador
		st.devices[d.DeviceID] = d
		return nil
	})
}

// List filtra por estado, ordenado por fecha de alta.
func (r *DeviceRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Device, int, error) {
	var (
		page  []*entity.Device
		total int
	)
	err := r.s.exec(ctx, r.inTx, "device.List", func(st *state) error {
		all := make([]*entity.Device, 0, len(st.devices))
		for _, d := range st.devices {
			switch {
			case status == entity.DeviceStatusPending && d.Verified,
				status == entity.DeviceStatusVerified && !d.Verified:
				continue
			}
			d := d
			all = append(all, &d)
		}
		sortDevices(all)
		total = len(all)
		page = paginate(all, limit, offset)
		return nil
	})
	return page, total, err
}

// ListByUser devuelve los dispositivos del usuario.
func (r *DeviceRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Device, error) {
	var out []*entity.Device
	err := r.s.exec(ctx, r.inTx, "device.ListByUser", func(st *state) error {
		for _, d := range st.devices {
			if d.UserID == userID {
				d := d
				out = append(out, &d)
			}
		}
		sortDevices(out)
		return nil
	})
	return out, err
}

func sortDevices(list []*entity.Device) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].DeviceID < list[j].DeviceID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
