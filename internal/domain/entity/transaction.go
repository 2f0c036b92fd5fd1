package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción.
const (
	TransactionDeposit    = "DEPOSIT"
	TransactionWithdrawal = "WITHDRAWAL"
)

// Transaction movimiento inmutable sobre una cuenta. Amount siempre es positivo;
// el signo lo da Type.
type Transaction struct {
	ID          string
	AccountID   string
	Type        string
	Amount      decimal.Decimal
	Description *string
	CreatedAt   time.Time
}

// Delta devuelve el efecto del movimiento sobre el saldo.
func (t *Transaction) Delta() decimal.Decimal {
	if t.Type == TransactionWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}
