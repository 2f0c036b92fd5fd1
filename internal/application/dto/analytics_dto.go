package dto

import "github.com/shopspring/decimal"

// MovementTotals suma y cantidad de movimientos de un tipo en un período.
type MovementTotals struct {
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// AnalyticsSummaryResponse respuesta de GET /api/admin/analytics/summary.
type AnalyticsSummaryResponse struct {
	Customers      int             `json:"customers"`
	TotalBalance   decimal.Decimal `json:"totalBalance"` // dinero en custodia
	PendingDevices int             `json:"pendingDevices"`

	// Día actual (00:00 – 23:59)
	TodayDeposits    MovementTotals `json:"todayDeposits"`
	TodayWithdrawals MovementTotals `json:"todayWithdrawals"`

	// Mes en curso (día 1 – hoy)
	MonthDeposits    MovementTotals `json:"monthDeposits"`
	MonthWithdrawals MovementTotals `json:"monthWithdrawals"`

	DateLabel string `json:"dateLabel"` // ej: "Octubre 2026"
}
