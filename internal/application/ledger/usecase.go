// Package ledger implementa el motor de saldos: depósitos y retiros atómicos sobre la cuenta
// del usuario con la invariante de saldo no negativo.
package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ahorro-api/internal/application/dto"
	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
	"github.com/jhoicas/ahorro-api/pkg/logger"
	"github.com/jhoicas/ahorro-api/pkg/money"
	"github.com/shopspring/decimal"
)

// Config reglas del motor.
type Config struct {
	MaxAmount decimal.Decimal
	Locale    string // para el saldo mostrado en ErrInsufficientFunds
}

// UseCase depósitos, retiros y consultas de la cuenta.
type UseCase struct {
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	txRunner        TxRunner
	money           *money.Formatter
	maxAmount       decimal.Decimal
	log             *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	txRunner TxRunner,
	cfg Config,
	log *logger.Logger,
) *UseCase {
	maxAmount := cfg.MaxAmount
	if !maxAmount.IsPositive() {
		maxAmount = DefaultMaxAmount
	}
	return &UseCase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		txRunner:        txRunner,
		money:           money.NewFormatter(cfg.Locale),
		maxAmount:       maxAmount,
		log:             log.Component("ledger"),
	}
}

// Deposit acredita amount en la cuenta del usuario.
func (uc *UseCase) Deposit(ctx context.Context, userID string, in dto.MovementRequest) (*dto.MovementResponse, error) {
	return uc.apply(ctx, userID, entity.TransactionDeposit, in, "Depósito realizado exitosamente")
}

// Withdraw debita amount de la cuenta del usuario. Si el saldo no alcanza devuelve
// ErrInsufficientFunds con el saldo disponible formateado y no persiste nada.
func (uc *UseCase) Withdraw(ctx context.Context, userID string, in dto.MovementRequest) (*dto.MovementResponse, error) {
	return uc.apply(ctx, userID, entity.TransactionWithdrawal, in, "Retiro realizado exitosamente")
}

// apply bloquea la cuenta (SELECT FOR UPDATE), valida fondos, inserta el movimiento y
// actualiza el saldo, todo en la misma transacción. Operaciones sobre la misma cuenta se
// serializan; cuentas distintas no se bloquean entre sí.
func (uc *UseCase) apply(ctx context.Context, userID, txType string, in dto.MovementRequest, okMsg string) (*dto.MovementResponse, error) {
	if err := ValidateAmount(in.Amount, uc.maxAmount); err != nil {
		return nil, err
	}
	desc := normalizeDescription(in.Description)
	if desc != nil && len(*desc) > 255 {
		return nil, domain.ValidationError("la descripción admite como máximo 255 caracteres")
	}

	var (
		created *entity.Transaction
		balance decimal.Decimal
	)
	err := uc.txRunner.RunLedger(ctx, func(accountRepo repository.AccountRepository, transactionRepo repository.TransactionRepository) error {
		account, err := accountRepo.GetByUserIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrAccountNotFound
		}
		if txType == entity.TransactionWithdrawal && account.Balance.LessThan(in.Amount) {
			return domain.ErrInsufficientFunds.WithMessage(
				"fondos insuficientes. Saldo disponible: " + uc.money.Format(account.Balance),
			)
		}

		t := &entity.Transaction{
			ID:          uuid.New().String(),
			AccountID:   account.ID,
			Type:        txType,
			Amount:      in.Amount,
			Description: desc,
			CreatedAt:   time.Now(),
		}
		if err := transactionRepo.Create(ctx, t); err != nil {
			return err
		}
		newBalance, _, err := accountRepo.AddToBalance(ctx, account.ID, t.Delta())
		if err != nil {
			return err
		}
		created, balance = t, newBalance
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("transaction_id", created.ID).
		Str("user_id", userID).
		Str("type", txType).
		Str("amount", created.Amount.String()).
		Msg("movimiento registrado")

	return &dto.MovementResponse{
		Transaction: dto.NewTransactionResponse(created),
		Balance:     balance,
		Message:     okMsg,
	}, nil
}

// GetBalance devuelve el saldo actual y la fecha de su última modificación.
func (uc *UseCase) GetBalance(ctx context.Context, userID string) (*dto.BalanceResponse, error) {
	account, err := uc.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	return &dto.BalanceResponse{Balance: account.Balance, LastUpdated: account.UpdatedAt}, nil
}

// ListTransactions historial paginado, más reciente primero.
func (uc *UseCase) ListTransactions(ctx context.Context, userID string, page dto.PageRequest) (*dto.TransactionListResponse, error) {
	page.DefaultPage()
	account, err := uc.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	list, total, err := uc.transactionRepo.ListByAccount(ctx, account.ID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, dto.NewTransactionResponse(t))
	}
	return &dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func normalizeDescription(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
