package memory

import (
	"context"
	"time"

	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementa repository.AccountRepository.
type AccountRepo struct {
	s    *Store
	inTx bool
}

// NewAccountRepository construye el repositorio.
func NewAccountRepository(s *Store) *AccountRepo {
	return &AccountRepo{s: s}
}

// Create inserta la cuenta; una segunda cuenta para el mismo usuario es un conflicto.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	return r.s.exec(ctx, r.inTx, "account.Create", func(st *state) error {
		for _, existing := range st.accounts {
			if existing.UserID == a.UserID {
				return domain.ErrConflict
			}
		}
		st.accounts[a.ID] = *a
		return nil
	})
}

// GetByUserID obtiene la cuenta del usuario o (nil, nil).
func (r *AccountRepo) GetByUserID(ctx context.Context, userID string) (*entity.Account, error) {
	return r.byUser(ctx, "account.GetByUserID", userID)
}

// GetByUserIDForUpdate igual que GetByUserID.
func (r *AccountRepo) GetByUserIDForUpdate(ctx context.Context, userID string) (*entity.Account, error) {
	return r.byUser(ctx, "account.GetByUserIDForUpdate", userID)
}

func (r *AccountRepo) byUser(ctx context.Context, op, userID string) (*entity.Account, error) {
	var out *entity.Account
	err := r.s.exec(ctx, r.inTx, op, func(st *state) error {
		for _, a := range st.accounts {
			if a.UserID == userID {
				a := a
				out = &a
				return nil
			}
		}
		return nil
	})
	return out, err
}

// AddToBalance aplica delta. Igual que el CHECK de la tabla, un saldo negativo se rechaza
// con ErrInsufficientFunds.
func (r *AccountRepo) AddToBalance(ctx context.Context, accountID string, delta decimal.Decimal) (decimal.Decimal, time.Time, error) {
	var (
		balance decimal.Decimal
		updated time.Time
	)
	err := r.s.exec(ctx, r.inTx, "account.AddToBalance", func(st *state) error {
		a, ok := st.accounts[accountID]
		if !ok {
			return domain.ErrAccountNotFound
		}
		next := a.Balance.Add(delta)
		if next.IsNegative() {
			return domain.ErrInsufficientFunds
		}
		a.Balance = next
		a.UpdatedAt = time.Now().UTC()
		st.accounts[accountID] = a
		balance, updated = a.Balance, a.UpdatedAt
		return nil
	})
	return balance, updated, err
}
