// Package statement genera el extracto de cuenta en PDF.
package statement

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
)

// MaxTransactions movimientos incluidos en el extracto.
const MaxTransactions = 100

// UseCase descarga del extracto.
type UseCase struct {
	userRepo        repository.UserRepository
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	generator       PDFGenerator
	now             func() time.Time
}

// NewUseCase construye el caso de uso inyectando todas sus dependencias.
func NewUseCase(
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	generator PDFGenerator,
) *UseCase {
	return &UseCase{
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		generator:       generator,
		now:             time.Now,
	}
}

// Download arma el extracto del usuario con sus últimos movimientos.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrUserNotFound     si el usuario no existe.
//   - domain.ErrAccountNotFound  si el usuario no tiene cuenta.
func (uc *UseCase) Download(ctx context.Context, userID string) (pdfBytes []byte, filename string, err error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("extracto: obtener usuario: %w", err)
	}
	if user == nil {
		return nil, "", domain.ErrUserNotFound
	}

	account, err := uc.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("extracto: obtener cuenta: %w", err)
	}
	if account == nil {
		return nil, "", domain.ErrAccountNotFound
	}

	txs, _, err := uc.transactionRepo.ListByAccount(ctx, account.ID, MaxTransactions, 0)
	if err != nil {
		return nil, "", fmt.Errorf("extracto: obtener movimientos: %w", err)
	}

	now := uc.now()
	pdfBytes, err = uc.generator.GenerateStatementPDF(ctx, &Data{
		User:         user,
		Account:      account,
		Transactions: txs,
		GeneratedAt:  now,
	})
	if err != nil {
		return nil, "", fmt.Errorf("extracto: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("extracto_%s.pdf", now.Format("20060102"))
	return pdfBytes, filename, nil
}
