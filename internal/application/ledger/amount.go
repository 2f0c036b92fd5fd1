package ledger

import (
	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultMaxAmount tope por operación cuando la configuración no indica otro.
var DefaultMaxAmount = decimal.NewFromInt(1000000)

// Ventana de exponentes aceptada. Comparar o redondear un decimal reescala el coeficiente
// a 10^|exp|, así que "1e999999999" se rechaza antes de cualquier aritmética.
const (
	minAmountExponent = -10
	maxAmountExponent = 7
)

// ValidateAmount exige monto positivo, no mayor a limit y con a lo sumo dos decimales
// significativos ("123.450" es válido, "0.001" no). Nunca redondea ni trunca.
func ValidateAmount(amount, limit decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount.WithMessage("el monto debe ser mayor que cero")
	}
	if exp := amount.Exponent(); exp < minAmountExponent || exp > maxAmountExponent {
		return domain.ErrInvalidAmount.WithMessage("el monto está fuera del rango admitido")
	}
	if amount.GreaterThan(limit) {
		return domain.ErrInvalidAmount.WithMessage("el monto supera el máximo permitido por operación")
	}
	if !amount.Equal(amount.Round(2)) {
		return domain.ErrInvalidAmount.WithMessage("el monto admite como máximo dos decimales")
	}
	return nil
}
