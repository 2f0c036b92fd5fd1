package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsRepository consultas de solo lectura para el resumen del panel de administración.
type AnalyticsRepository interface {
	CountCustomers(ctx context.Context) (int, error)
	// TotalBalance suma los saldos de todas las cuentas (dinero en custodia).
	TotalBalance(ctx context.Context) (decimal.Decimal, error)
	// SumByType suma y cuenta los movimientos de un tipo en [from, to).
	// Usa COALESCE para devolver cero si no hay movimientos.
	SumByType(ctx context.Context, txType string, from, to time.Time) (decimal.Decimal, int, error)
	CountPendingDevices(ctx context.Context) (int, error)
}
