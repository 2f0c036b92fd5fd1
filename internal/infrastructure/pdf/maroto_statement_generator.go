// Package pdf genera el extracto de cuenta en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la app      │  EXTRACTO + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TITULAR: Nombre / Email / N° de cuenta                      │
//	│  SALDO ACTUAL                                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Descripción | Monto                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/ahorro-api/internal/application/statement"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
	colorGreen   = &props.Color{Red: 20, Green: 120, Blue: 60}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ statement.PDFGenerator = (*MarotoStatementGenerator)(nil)

// MarotoStatementGenerator implementa statement.PDFGenerator usando Maroto v2.
type MarotoStatementGenerator struct {
	appName string
	money   *money.Formatter
}

// NewMarotoStatementGenerator construye el generador; locale define el formato de los montos.
func NewMarotoStatementGenerator(appName, locale string) *MarotoStatementGenerator {
	return &MarotoStatementGenerator{appName: appName, money: money.NewFormatter(locale)}
}

// GenerateStatementPDF genera el PDF y devuelve sus bytes.
func (g *MarotoStatementGenerator) GenerateStatementPDF(_ context.Context, data *statement.Data) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Extracto de cuenta", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(holderRow(data.User, data.Account))
	m.AddRows(g.balanceRow(data.Account))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(data.Transactions) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	m.AddRows(g.tableRows(data.Transactions)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(data.Transactions)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoStatementGenerator) headerRow(data *statement.Data) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.appName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("EXTRACTO DE CUENTA DE AHORROS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+data.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func holderRow(user *entity.User, account *entity.Account) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("TITULAR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(user.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Email: %s   |   Cuenta: %s", user.Email, account.ID), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoStatementGenerator) balanceRow(account *entity.Account) core.Row {
	return row.New(12).Add(
		col.New(6).Add(text.New("SALDO DISPONIBLE", props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 3,
		})),
		col.New(6).Add(text.New("$"+g.money.Format(account.Balance), props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 3, align.Left),
		h("Tipo", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Monto", 3, align.Right),
	)
}

func (g *MarotoStatementGenerator) tableRows(txs []*entity.Transaction) []core.Row {
	result := make([]core.Row, 0, len(txs))
	for _, t := range txs {
		label, sign, color := "Depósito", "+", colorGreen
		if t.Type == entity.TransactionWithdrawal {
			label, sign, color = "Retiro", "-", colorRed
		}
		desc := "—"
		if t.Description != nil {
			desc = *t.Description
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(t.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(label, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(desc, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(sign+"$"+g.money.Format(t.Amount), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1, Color: color,
			})),
		))
	}
	return result
}

func footerRow(count int) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			fmt.Sprintf("Se muestran los últimos %d movimientos (máximo %d). "+
				"Este documento es informativo y no reemplaza la certificación bancaria.",
				count, statement.MaxTransactions),
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}
