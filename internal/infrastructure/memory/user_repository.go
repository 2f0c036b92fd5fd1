package memory

import (
	"context"

	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementa repository.UserRepository.
type UserRepo struct {
	s    *Store
	inTx bool
}

// NewUserRepository construye el repositorio.
func NewUserRepository(s *Store) *UserRepo {
	return &UserRepo{s: s}
}

// Create inserta el usuario. Email repetido devuelve ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	return r.s.exec(ctx, r.inTx, "user.Create", func(st *state) error {
		for _, existing := range st.users {
			if existing.Email == u.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.s.exec(ctx, r.inTx, "user.GetByID", func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

// GetByEmail obtiene un usuario por email normalizado.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.s.exec(ctx, r.inTx, "user.GetByEmail", func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}
