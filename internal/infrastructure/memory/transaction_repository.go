package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementa repository.TransactionRepository.
type TransactionRepo struct {
	s    *Store
	inTx bool
}

// NewTransactionRepository construye el repositorio.
func NewTransactionRepository(s *Store) *TransactionRepo {
	return &TransactionRepo{s: s}
}

// Create inserta el movimiento.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	return r.s.exec(ctx, r.inTx, "transaction.Create", func(st *state) error {
		if _, ok := st.accounts[t.AccountID]; !ok {
			return domain.ErrAccountNotFound
		}
		st.transactions = append(st.transactions, *t)
		return nil
	})
}

// ListByAccount más recientes primero; a igual fecha, el último insertado primero.
func (r *TransactionRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*entity.Transaction, int, error) {
	var (
		page  []*entity.Transaction
		total int
	)
	err := r.s.exec(ctx, r.inTx, "transaction.ListByAccount", func(st *state) error {
		var all []*entity.Transaction
		for i := len(st.transactions) - 1; i >= 0; i-- {
			if st.transactions[i].AccountID == accountID {
				t := st.transactions[i]
				all = append(all, &t)
			}
		}
		sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
		total = len(all)
		page = paginate(all, limit, offset)
		return nil
	})
	return page, total, err
}
