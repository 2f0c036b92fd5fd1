package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AccountRepository puerto de persistencia de cuentas. Devuelve (nil, nil) si no hay fila.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByUserID(ctx context.Context, userID string) (*entity.Account, error)
	// GetByUserIDForUpdate bloquea la fila de la cuenta hasta el fin de la tx.
	GetByUserIDForUpdate(ctx context.Context, userID string) (*entity.Account, error)
	// AddToBalance aplica delta al saldo y devuelve el saldo resultante.
	AddToBalance(ctx context.Context, accountID string, delta decimal.Decimal) (decimal.Decimal, time.Time, error)
}
