package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementa repository.SessionRepository.
type SessionRepo struct {
	s    *Store
	inTx bool
}

// NewSessionRepository construye el repositorio.
func NewSessionRepository(s *Store) *SessionRepo {
	return &SessionRepo{s: s}
}

// Create inserta la sesión. El dispositivo debe existir y el hash ser único.
func (r *SessionRepo) Create(ctx context.Context, sess *entity.Session) error {
	return r.s.exec(ctx, r.inTx, "session.Create", func(st *state) error {
		if _, ok := st.devices[sess.DeviceID]; !ok {
			return fmt.Errorf("insert session: dispositivo %s inexistente", sess.DeviceID)
		}
		for _, existing := range st.sessions {
			if existing.TokenHash == sess.TokenHash {
				return fmt.Errorf("insert session: token_hash duplicado")
			}
		}
		st.sessions[sess.ID] = *sess
		return nil
	})
}

// FindByHashForUpdate busca por hash, usuario y dispositivo.
func (r *SessionRepo) FindByHashForUpdate(ctx context.Context, tokenHash, userID, deviceID string) (*entity.Session, error) {
	var out *entity.Session
	err := r.s.exec(ctx, r.inTx, "session.FindByHashForUpdate", func(st *state) error {
		for _, sess := range st.sessions {
			if sess.TokenHash == tokenHash && sess.UserID == userID && sess.DeviceID == deviceID {
				sess := sess
				out = &sess
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Rotate reemplaza el hash y actualiza la última actividad.
func (r *SessionRepo) Rotate(ctx context.Context, id, newTokenHash string, now time.Time) error {
	return r.update(ctx, "session.Rotate", id, func(sess *entity.Session) {
		sess.TokenHash = newTokenHash
		sess.LastActivityAt = now
	})
}

// Touch actualiza la última actividad.
func (r *SessionRepo) Touch(ctx context.Context, id string, now time.Time) error {
	return r.update(ctx, "session.Touch", id, func(sess *entity.Session) {
		sess.LastActivityAt = now
	})
}

func (r *SessionRepo) update(ctx context.Context, op, id string, fn func(*entity.Session)) error {
	return r.s.exec(ctx, r.inTx, op, func(st *state) error {
		sess, ok := st.sessions[id]
		if !ok {
			return nil
		}
		fn(&sess)
		st.sessions[id] = sess
		return nil
	})
}

// DeleteByID borra una sesión.
func (r *SessionRepo) DeleteByID(ctx context.Context, id string) error {
	return r.s.exec(ctx, r.inTx, "session.DeleteByID", func(st *state) error {
		delete(st.sessions, id)
		return nil
	})
}

// DeleteAllForUser borra todas las sesiones del usuario.
func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	return r.deleteWhere(ctx, "session.DeleteAllForUser", func(s entity.Session) bool { return s.UserID == userID })
}

// DeleteAllForUserDevice borra las sesiones del usuario en el dispositivo.
func (r *SessionRepo) DeleteAllForUserDevice(ctx context.Context, userID, deviceID string) (int64, error) {
	return r.deleteWhere(ctx, "session.DeleteAllForUserDevice", func(s entity.Session) bool {
		return s.UserID == userID && s.DeviceID == deviceID
	})
}

// DeleteAllForDevice borra las sesiones del dispositivo.
func (r *SessionRepo) DeleteAllForDevice(ctx context.Context, deviceID string) (int64, error) {
	return r.deleteWhere(ctx, "session.DeleteAllForDevice", func(s entity.Session) bool { return s.DeviceID == deviceID })
}

// DeleteExpired borra las sesiones vencidas en now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.deleteWhere(ctx, "session.DeleteExpired", func(s entity.Session) bool { return s.IsExpired(now) })
}

func (r *SessionRepo) deleteWhere(ctx context.Context, op string, match func(entity.Session) bool) (int64, error) {
	var n int64
	err := r.s.exec(ctx, r.inTx, op, func(st *state) error {
		for id, sess := range st.sessions {
			if match(sess) {
				delete(st.sessions, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

// Count devuelve cuántas sesiones hay para el usuario y el dispositivo.
func (r *SessionRepo) Count(ctx context.Context, userID, deviceID string) int {
	var n int
	_ = r.s.exec(ctx, r.inTx, "session.Count", func(st *state) error {
		for _, sess := range st.sessions {
			if sess.UserID == userID && sess.DeviceID == deviceID {
				n++
			}
		}
		return nil
	})
	return n
}
