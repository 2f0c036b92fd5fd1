// Package money formatea montos para mostrarlos a personas (mensajes de error, PDF).
// En JSON los montos viajan como decimal canónico; este paquete es solo de presentación.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter formatea decimales según un locale BCP 47.
type Formatter struct {
	printer    *message.Printer
	decimalSep string
}

// NewFormatter construye un formatter; un locale inválido cae a es-CO.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse("es-CO")
	}
	p := message.NewPrinter(tag)
	return &Formatter{printer: p, decimalSep: decimalSeparator(p)}
}

// decimalSeparator obtiene el separador decimal del locale formateando 1.5 (exacto en binario).
func decimalSeparator(p *message.Printer) string {
	s := p.Sprint(number.Decimal(1.5, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
	sep := strings.TrimSuffix(strings.TrimPrefix(s, "1"), "5")
	if sep == "" {
		return "."
	}
	return sep
}

// Format devuelve el monto con separadores del locale y hasta dos decimales.
// Ej. es-CO: 1234567.89 -> "1.234.567,89"; 0 -> "0".
// La parte entera se agrupa con el printer y los centavos salen del decimal, sin pasar por float.
func (f *Formatter) Format(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	whole := d.Truncate(0)
	cents := strings.TrimRight(d.Sub(whole).StringFixed(2)[2:], "0") // "0.89" -> "89"

	var out string
	if n := whole.BigInt(); n.IsInt64() {
		out = f.printer.Sprint(number.Decimal(n.Int64()))
	} else {
		out = n.String()
	}
	if cents != "" {
		out += f.decimalSep + cents
	}
	return sign + out
}
