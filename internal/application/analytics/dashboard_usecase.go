// Package analytics contiene el resumen de operación para el panel de administración.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ahorro-api/internal/application/dto"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DashboardUseCase genera el resumen del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// GetSummary construye el AnalyticsSummaryResponse.
//
// Las consultas corren en paralelo:
//  1. clientes, saldo en custodia y dispositivos pendientes
//  2. depósitos y retiros de hoy
//  3. depósitos y retiros del mes
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.AnalyticsSummaryResponse, error) {
	now := uc.now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	// ── Goroutines para paralelizar las consultas DB ──────────────────────────
	type countResult struct {
		n   int
		err error
	}
	type balanceResult struct {
		total decimal.Decimal
		err   error
	}
	type totalsResult struct {
		totals dto.MovementTotals
		err    error
	}

	customersCh := make(chan countResult, 1)
	pendingCh := make(chan countResult, 1)
	balanceCh := make(chan balanceResult, 1)
	todayDepCh := make(chan totalsResult, 1)
	todayWdrCh := make(chan totalsResult, 1)
	monthDepCh := make(chan totalsResult, 1)
	monthWdrCh := make(chan totalsResult, 1)

	sum := func(ch chan<- totalsResult, txType string, from, to time.Time) {
		amount, count, err := uc.analyticsRepo.SumByType(ctx, txType, from, to)
		ch <- totalsResult{dto.MovementTotals{Amount: amount.Round(2), Count: count}, err}
	}

	go func() {
		n, err := uc.analyticsRepo.CountCustomers(ctx)
		customersCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountPendingDevices(ctx)
		pendingCh <- countResult{n, err}
	}()
	go func() {
		total, err := uc.analyticsRepo.TotalBalance(ctx)
		balanceCh <- balanceResult{total, err}
	}()
	go sum(todayDepCh, entity.TransactionDeposit, todayStart, tomorrow)
	go sum(todayWdrCh, entity.TransactionWithdrawal, todayStart, tomorrow)
	go sum(monthDepCh, entity.TransactionDeposit, monthStart, tomorrow)
	go sum(monthWdrCh, entity.TransactionWithdrawal, monthStart, tomorrow)

	customers := <-customersCh
	pending := <-pendingCh
	balance := <-balanceCh
	todayDep := <-todayDepCh
	todayWdr := <-todayWdrCh
	monthDep := <-monthDepCh
	monthWdr := <-monthWdrCh

	if customers.err != nil {
		return nil, fmt.Errorf("dashboard: clientes: %w", customers.err)
	}
	if pending.err != nil {
		return nil, fmt.Errorf("dashboard: dispositivos pendientes: %w", pending.err)
	}
	if balance.err != nil {
		return nil, fmt.Errorf("dashboard: saldo total: %w", balance.err)
	}
	for _, r := range []totalsResult{todayDep, todayWdr, monthDep, monthWdr} {
		if r.err != nil {
			return nil, fmt.Errorf("dashboard: movimientos: %w", r.err)
		}
	}

	return &dto.AnalyticsSummaryResponse{
		Customers:        customers.n,
		TotalBalance:     balance.total.Round(2),
		PendingDevices:   pending.n,
		TodayDeposits:    todayDep.totals,
		TodayWithdrawals: todayWdr.totals,
		MonthDeposits:    monthDep.totals,
		MonthWithdrawals: monthWdr.totals,
		DateLabel:        monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
