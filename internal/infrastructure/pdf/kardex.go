// Package pdf implementa la generación del kardex de una variante con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la variante + SKU  │  Fecha de emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Stock actual / Costo / Mínimo / Máximo             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Cantidad | Anterior | Nuevo | Motivo  │
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
	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGreen   = &props.Color{Red: 0, Green: 120, Blue: 60}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// KardexGenerator implementa inventory.KardexPDFGenerator usando Maroto v2.
type KardexGenerator struct{}

// NewKardexGenerator construye el generador.
func NewKardexGenerator() *KardexGenerator { return &KardexGenerator{} }

// GenerateKardexPDF genera el PDF del kardex y devuelve sus bytes. Los
// movimientos llegan del más reciente al más antiguo.
func (g *KardexGenerator) GenerateKardexPDF(
	_ context.Context,
	variante *entity.Variante,
	movimientos []*entity.Movimiento,
	tipos map[string]*entity.TipoMovimiento,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex "+variante.SKU, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(variante))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(resumenRow(variante))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableMovimientoRows(movimientos, tipos) {
		m.AddRows(r)
	}

	if len(movimientos) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin movimientos registrados para esta variante.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre + SKU (izq) y título del reporte (der).
func headerRow(variante *entity.Variante) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(variante.Nombre, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SKU: "+variante.SKU, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Historial de movimientos", props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// resumenRow: existencias y parámetros de reposición de la variante.
func resumenRow(variante *entity.Variante) core.Row {
	item := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 7, Color: colorGray, Top: 1,
			}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6}),
		)
	}
	return row.New(14).Add(
		item("STOCK ACTUAL", variante.Stock.String()),
		item("PRECIO COSTO", "$"+variante.PrecioCosto.StringFixed(2)),
		item("STOCK MÍNIMO", decimalOrDash(variante.StockMinimo)),
		item("STOCK MÁXIMO", decimalOrDash(variante.StockMaximo)),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 3, align.Left),
		h("Cantidad", 1, align.Right),
		h("Anterior", 1, align.Right),
		h("Nuevo", 1, align.Right),
		h("Motivo", 4, align.Left),
	)
}

// tableMovimientoRows: una fila por movimiento, cantidad coloreada por signo.
func tableMovimientoRows(movimientos []*entity.Movimiento, tipos map[string]*entity.TipoMovimiento) []core.Row {
	result := make([]core.Row, 0, len(movimientos))
	for _, mv := range movimientos {
		nombreTipo := mv.TipoMovimientoID
		if t, ok := tipos[mv.TipoMovimientoID]; ok {
			nombreTipo = t.Nombre
		}
		colorCantidad := colorGreen
		if mv.Cantidad.IsNegative() {
			colorCantidad = colorRed
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(
				mv.Fecha.Format("02/01/2006 15:04"),
				props.Text{Size: 7, Align: align.Left, Top: 1},
			)),
			col.New(3).Add(text.New(
				nombreTipo,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				mv.Cantidad.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorCantidad},
			)),
			col.New(1).Add(text.New(
				mv.StockAnterior.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorGray},
			)),
			col.New(1).Add(text.New(
				mv.StockNuevo.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(4).Add(text.New(
				mv.Motivo,
				props.Text{Size: 7, Align: align.Left, Top: 1, Left: 1, Color: colorGray},
			)),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func decimalOrDash(d *decimal.Decimal) string {
	if d == nil {
		return "—"
	}
	return d.String()
}
