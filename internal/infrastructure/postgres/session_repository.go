package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación de SessionRepository sobre PostgreSQL (usable con pool o tx).
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador de sesiones. Pasar pool o tx (Querier).
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

// Create inserta la sesión; TokenHash ya viene calculado.
func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, device_id, token_hash, expires_at, last_activity_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.UserID, s.DeviceID, s.TokenHash, s.ExpiresAt, s.LastActivityAt, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// FindByHashForUpdate busca la sesión por hash, usuario y dispositivo y bloquea la fila.
func (r *SessionRepo) FindByHashForUpdate(ctx context.Context, tokenHash, userID, deviceID string) (*entity.Session, error) {
	var s entity.Session
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, device_id, token_hash, expires_at, last_activity_at, created_at
		FROM sessions
		WHERE token_hash = $1 AND user_id = $2 AND device_id = $3
		FOR UPDATE`, tokenHash, userID, deviceID,
	).Scan(&s.ID, &s.UserID, &s.DeviceID, &s.TokenHash, &s.ExpiresAt, &s.LastActivityAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &s, nil
}

// Rotate reemplaza el hash del token (el anterior deja de encontrarse) y actualiza la actividad.
func (r *SessionRepo) Rotate(ctx context.Context, id, newTokenHash string, now time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE sessions SET token_hash = $2, last_activity_at = $3 WHERE id = $1`,
		id, newTokenHash, now)
	if err != nil {
		return fmt.Errorf("rotate session: %w", err)
	}
	return nil
}

// Touch actualiza la última actividad.
func (r *SessionRepo) Touch(ctx context.Context, id string, now time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE sessions SET last_activity_at = $2 WHERE id = $1`, id, now)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// DeleteByID elimina una sesión.
func (r *SessionRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteAllForUser elimina todas las sesiones del usuario.
func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	return r.deleteWhere(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
}

// DeleteAllForUserDevice elimina las sesiones del usuario en un dispositivo (logout).
func (r *SessionRepo) DeleteAllForUserDevice(ctx context.Context, userID, deviceID string) (int64, error) {
	return r.deleteWhere(ctx, `DELETE FROM sessions WHERE user_id = $1 AND device_id = $2`, userID, deviceID)
}

// DeleteAllForDevice elimina las sesiones de un dispositivo (revocación).
func (r *SessionRepo) DeleteAllForDevice(ctx context.Context, deviceID string) (int64, error) {
	return r.deleteWhere(ctx, `DELETE FROM sessions WHERE device_id = $1`, deviceID)
}

// DeleteExpired elimina las sesiones vencidas en now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.deleteWhere(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
}

func (r *SessionRepo) deleteWhere(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
