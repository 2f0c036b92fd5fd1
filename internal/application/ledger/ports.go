package ledger

import (
	"context"

	"github.com/jhoicas/ahorro-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad del motor de saldos: movimiento y saldo se persisten juntos o no se persisten.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(
		accountRepo repository.AccountRepository,
		transactionRepo repository.TransactionRepository,
	) error) error
}
