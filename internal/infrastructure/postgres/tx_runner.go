package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/ahorro-api/internal/application/auth"
	"github.com/jhoicas/ahorro-api/internal/application/device"
	"github.com/jhoicas/ahorro-api/internal/application/ledger"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
)

var (
	_ ledger.TxRunner = (*TxRunner)(nil)
	_ device.TxRunner = (*TxRunner)(nil)
	_ auth.TxRunner   = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED).
// El aislamiento entre operaciones concurrentes lo dan los bloqueos de fila explícitos
// (FOR UPDATE / FOR SHARE) de cada repositorio.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia la transacción, ejecuta fn y hace Commit; cualquier error deja la tx en Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunLedger transacción del motor de saldos: cuenta y movimientos.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewAccountRepository(tx), NewTransactionRepository(tx))
	})
}

// RunDevices transacción sobre dispositivos y sesiones (verify/unverify, login, refresh).
func (r *TxRunner) RunDevices(ctx context.Context, fn func(
	deviceRepo repository.DeviceRepository,
	sessionRepo repository.SessionRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewDeviceRepository(tx), NewSessionRepository(tx))
	})
}

// RunRegistration transacción del registro: usuario, dispositivo y cuenta.
func (r *TxRunner) RunRegistration(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	deviceRepo repository.DeviceRepository,
	accountRepo repository.AccountRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewDeviceRepository(tx), NewAccountRepository(tx))
	})
}
