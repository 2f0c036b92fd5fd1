package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
)

var _ repository.DeviceRepository = (*DeviceRepo)(nil)

const deviceColumns = `id, device_id, user_id, description, verified, created_at, updated_at`

// DeviceRepo implementación de DeviceRepository sobre PostgreSQL (usable con pool o tx).
type DeviceRepo struct {
	q Querier
}

// NewDeviceRepository construye el adaptador de dispositivos. Pasar pool o tx (Querier).
func NewDeviceRepository(q Querier) *DeviceRepo {
	return &DeviceRepo{q: q}
}

// Create inserta el dispositivo. Un device_id repetido devuelve ErrDeviceAlreadyRegistered.
func (r *DeviceRepo) Create(ctx context.Context, d *entity.Device) error {
	query := `
		INSERT INTO devices (` + deviceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.DeviceID, d.UserID, d.Description, d.Verified, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDeviceAlreadyRegistered
		}
		return fmt.Errorf("insert device: %w", err)
	}
	return nil
}

// GetByDeviceID obtiene el dispositivo sin bloquear.
func (r *DeviceRepo) GetByDeviceID(ctx context.Context, deviceID string) (*entity.Device, error) {
	return r.getOne(ctx, `SELECT `+deviceColumns+` FROM devices WHERE device_id = $1`, deviceID)
}

// GetByDeviceIDForUpdate obtiene el dispositivo y bloquea la fila (SELECT FOR UPDATE).
func (r *DeviceRepo) GetByDeviceIDForUpdate(ctx context.Context, deviceID string) (*entity.Device, error) {
	return r.getOne(ctx, `SELECT `+deviceColumns+` FROM devices WHERE device_id = $1 FOR UPDATE`, deviceID)
}

// GetByDeviceIDForShare obtiene el dispositivo con bloqueo compartido (SELECT FOR SHARE).
func (r *DeviceRepo) GetByDeviceIDForShare(ctx context.Context, deviceID string) (*entity.Device, error) {
	return r.getOne(ctx, `SELECT `+deviceColumns+` FROM devices WHERE device_id = $1 FOR SHARE`, deviceID)
}

// SetVerified cambia el flag de verificación.
func (r *DeviceRepo) SetVerified(ctx context.Context, deviceID string, verified bool, now time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE devices SET verified = $2, updated_at = $3 WHERE device_id = $1`,
		deviceID, verified, now,
	)
	if err != nil {
		return fmt.Errorf("update device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDeviceNotFound
	}
	return nil
}

// List lista dispositivos por estado con paginación, pendientes más antiguos primero.
func (r *DeviceRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Device, int, error) {
	where := ""
	switch status {
	case entity.DeviceStatusPending:
		where = "WHERE verified = FALSE"
	case entity.DeviceStatusVerified:
		where = "WHERE verified = TRUE"
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM devices `+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count devices: %w", err)
	}

	query := `SELECT ` + deviceColumns + ` FROM devices ` + where + ` ORDER BY created_at ASC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list devices: %w", err)
	}
	list, err := scanDevices(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListByUser lista los dispositivos de un usuario.
func (r *DeviceRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Device, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE user_id = $1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list devices by user: %w", err)
	}
	return scanDevices(rows)
}

func (r *DeviceRepo) getOne(ctx context.Context, query, deviceID string) (*entity.Device, error) {
	var d entity.Device
	err := r.q.QueryRow(ctx, query, deviceID).Scan(
		&d.ID, &d.DeviceID, &d.UserID, &d.Description, &d.Verified, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get device: %w", err)
	}
	return &d, nil
}

func scanDevices(rows pgx.Rows) ([]*entity.Device, error) {
	defer rows.Close()
	var list []*entity.Device
	for rows.Next() {
		var d entity.Device
		if err := rows.Scan(&d.ID, &d.DeviceID, &d.UserID, &d.Description, &d.Verified, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
