package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el resumen de administración.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// CountCustomers cantidad de usuarios con rol CUSTOMER.
func (r *AnalyticsRepo) CountCustomers(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1`, entity.RoleCustomer,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

// TotalBalance suma de saldos de todas las cuentas.
func (r *AnalyticsRepo) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(balance), 0) FROM accounts`,
	).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total balance: %w", err)
	}
	return total, nil
}

// SumByType suma y cuenta los movimientos de un tipo con created_at en [from, to).
func (r *AnalyticsRepo) SumByType(ctx context.Context, txType string, from, to time.Time) (decimal.Decimal, int, error) {
	const query = `
	SELECT COALESCE(SUM(amount), 0), COUNT(*)
	FROM transactions
	WHERE type = $1
	  AND created_at >= $2
	  AND created_at <  $3`

	var (
		sum   decimal.Decimal
		count int
	)
	if err := r.pool.QueryRow(ctx, query, txType, from, to).Scan(&sum, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("sum transactions: %w", err)
	}
	return sum, count, nil
}

// CountPendingDevices dispositivos esperando verificación.
func (r *AnalyticsRepo) CountPendingDevices(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM devices WHERE verified = FALSE`,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending devices: %w", err)
	}
	return n, nil
}
