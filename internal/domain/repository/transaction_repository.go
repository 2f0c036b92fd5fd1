package repository

import (
	"context"

	"github.com/jhoicas/ahorro-api/internal/domain/entity"
)

// TransactionRepository puerto de persistencia de movimientos (solo inserción y lectura).
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	// ListByAccount devuelve los movimientos más recientes primero y el total.
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*entity.Transaction, int, error)
}
