package memory

import (
	"context"
	"time"

	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo implementa repository.AnalyticsRepository.
type AnalyticsRepo struct {
	s *Store
}

// NewAnalyticsRepository construye el repositorio.
func NewAnalyticsRepository(s *Store) *AnalyticsRepo {
	return &AnalyticsRepo{s: s}
}

// CountCustomers cuenta usuarios CUSTOMER.
func (r *AnalyticsRepo) CountCustomers(ctx context.Context) (int, error) {
	var n int
	err := r.s.exec(ctx, false, "analytics.CountCustomers", func(st *state) error {
		for _, u := range st.users {
			if u.Role == entity.RoleCustomer {
				n++
			}
		}
		return nil
	})
	return n, err
}

// TotalBalance suma los saldos.
func (r *AnalyticsRepo) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.s.exec(ctx, false, "analytics.TotalBalance", func(st *state) error {
		for _, a := range st.accounts {
			total = total.Add(a.Balance)
		}
		return nil
	})
	return total, err
}

// SumByType suma y cuenta movimientos del tipo en [from, to).
func (r *AnalyticsRepo) SumByType(ctx context.Context, txType string, from, to time.Time) (decimal.Decimal, int, error) {
	var (
		sum   = decimal.Zero
		count int
	)
	err := r.s.exec(ctx, false, "analytics.SumByType", func(st *state) error {
		for _, t := range st.transactions {
			if t.Type == txType && !t.CreatedAt.Before(from) && t.CreatedAt.Before(to) {
				sum = sum.Add(t.Amount)
				count++
			}
		}
		return nil
	})
	return sum, count, err
}

// CountPendingDevices cuenta dispositivos sin verificar.
func (r *AnalyticsRepo) CountPendingDevices(ctx context.Context) (int, error) {
	var n int
	err := r.s.exec(ctx, false, "analytics.CountPendingDevices", func(st *state) error {
		for _, d := range st.devices {
			if !d.Verified {
				n++
			}
		}
		return nil
	})
	return n, err
}
