package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account cuenta de ahorro, una por usuario. El saldo nunca es negativo y solo lo
// modifica el motor de saldos.
type Account struct {
	ID        string
	UserID    string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
