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
	"github.com/shopspring/decimal"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación de AccountRepository sobre PostgreSQL (usable con pool o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador de cuentas. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// Create inserta la cuenta del usuario.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, a.ID, a.UserID, a.Balance, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByUserID obtiene la cuenta del usuario sin bloquear.
func (r *AccountRepo) GetByUserID(ctx context.Context, userID string) (*entity.Account, error) {
	return r.getOne(ctx, `
		SELECT id, user_id, balance, created_at, updated_at
		FROM accounts WHERE user_id = $1`, userID)
}

// GetByUserIDForUpdate obtiene la cuenta y bloquea la fila (SELECT FOR UPDATE).
func (r *AccountRepo) GetByUserIDForUpdate(ctx context.Context, userID string) (*entity.Account, error) {
	return r.getOne(ctx, `
		SELECT id, user_id, balance, created_at, updated_at
		FROM accounts WHERE user_id = $1
		FOR UPDATE`, userID)
}

// AddToBalance suma delta al saldo en la DB (no lee-modifica-escribe en memoria).
// El CHECK (balance >= 0) de la tabla es la última barrera ante un saldo negativo.
func (r *AccountRepo) AddToBalance(ctx context.Context, accountID string, delta decimal.Decimal) (decimal.Decimal, time.Time, error) {
	var (
		balance   decimal.Decimal
		updatedAt time.Time
	)
	err := r.q.QueryRow(ctx, `
		UPDATE accounts SET balance = balance + $2, updated_at = now()
		WHERE id = $1
		RETURNING balance, updated_at`, accountID, delta,
	).Scan(&balance, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, time.Time{}, domain.ErrAccountNotFound
		}
		if isCheckViolation(err) {
			return decimal.Zero, time.Time{}, domain.ErrInsufficientFunds
		}
		return decimal.Zero, time.Time{}, fmt.Errorf("update balance: %w", err)
	}
	return balance, updatedAt, nil
}

func (r *AccountRepo) getOne(ctx context.Context, query, userID string) (*entity.Account, error) {
	var a entity.Account
	err := r.q.QueryRow(ctx, query, userID).Scan(&a.ID, &a.UserID, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}
