package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementRequest entrada de depósito o retiro. Amount acepta número o texto en JSON.
type MovementRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=255"`
}

// TransactionResponse salida de un movimiento.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// MovementResponse salida de depósito/retiro: el movimiento y el saldo resultante de la misma tx.
type MovementResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Balance     decimal.Decimal     `json:"balance"`
	Message     string              `json:"message"`
}

// BalanceResponse salida de GET /api/account/balance.
type BalanceResponse struct {
	Balance     decimal.Decimal `json:"balance"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// TransactionListResponse página del historial de movimientos.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// CustomerDetailResponse vista de administración de un cliente.
type CustomerDetailResponse struct {
	User    UserResponse     `json:"user"`
	Account *BalanceResponse `json:"account,omitempty"`
	Devices []DeviceResponse `json:"devices"`
}
