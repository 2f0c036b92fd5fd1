package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ahorro-api/internal/domain/entity"
)

// SessionRepository registro de sesiones de refresh.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// FindByHashForUpdate busca la sesión por hash del token, usuario y dispositivo y la bloquea.
	// Devuelve (nil, nil) si no existe; la expiración la decide el caso de uso.
	FindByHashForUpdate(ctx context.Context, tokenHash, userID, deviceID string) (*entity.Session, error)
	// Rotate reemplaza el hash del token y actualiza la última actividad.
	Rotate(ctx context.Context, id, newTokenHash string, now time.Time) error
	// Touch solo actualiza la última actividad.
	Touch(ctx context.Context, id string, now time.Time) error
	DeleteByID(ctx context.Context, id string) error
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
	DeleteAllForUserDevice(ctx context.Context, userID, deviceID string) (int64, error)
	DeleteAllForDevice(ctx context.Context, deviceID string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
