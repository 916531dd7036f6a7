// Package pdf implementa la generación del Comprobante de Pedido: el
// documento imprimible que acompaña cada pedido entre la planta y la tienda.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: MILHOJAS — Comprobante de Pedido                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  INFO: ID pedido | Solicitante | Fechas | Estado             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Cantidad                                  │
//	│  TOTAL UNIDADES                                              │
//	│  NOVEDAD REPORTADA (solo si existe)                          │
//	│  FOOTER: leyenda de comprobante interno                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

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

	"github.com/milhojas/pedidos-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 146, Green: 95, Blue: 22} // ámbar panadería
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// VoucherGenerator genera el comprobante de pedido con Maroto v2.
type VoucherGenerator struct{}

// NewVoucherGenerator construye el generador.
func NewVoucherGenerator() *VoucherGenerator { return &VoucherGenerator{} }

// GenerateOrderVoucher genera el PDF del comprobante y devuelve sus bytes.
// productNames resuelve ProductID → nombre de catálogo; los productos ya
// eliminados se imprimen con un marcador genérico.
func (g *VoucherGenerator) GenerateOrderVoucher(order *entity.Order, productNames map[string]string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Comprobante de Pedido", true).
		WithAuthor("MILHOJAS Villa de Leyva", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRows(order)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range itemRows(order, productNames) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(totalRow(order))

	if order.Novedades != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(novedadRows(order)...)
	}

	m.AddRows(line.NewRow(6))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título del comprobante.
func headerRow() core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("MILHOJAS — Comprobante de Pedido", props.Text{
				Style: fontstyle.Bold, Size: 15, Color: colorPrimary, Top: 1,
			}),
			text.New("Villa de Leyva — Planta de Producción", props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
	)
}

// infoRows: metadatos del pedido (ID abreviado, solicitante, fechas, estado).
func infoRows(order *entity.Order) []core.Row {
	label := func(k, v string) core.Row {
		return row.New(6).Add(
			col.New(3).Add(text.New(k, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
			col.New(9).Add(text.New(v, props.Text{Size: 9, Top: 1})),
		)
	}
	rows := []core.Row{
		label("ID PEDIDO:", "#"+shortID(order.ID)),
		label("SOLICITANTE:", order.StoreName),
		label("FECHA PEDIDO:", order.CreatedAt.Format("02/01/2006 15:04")),
		label("ESTADO:", strings.ToUpper(order.Status)),
	}
	if order.DispatchedAt != nil {
		rows = append(rows, label("FECHA DESPACHO:", order.DispatchedAt.Format("02/01/2006 15:04")))
	}
	if order.ReceivedAt != nil {
		rows = append(rows, label("FECHA RECEPCIÓN:", order.ReceivedAt.Format("02/01/2006 15:04")))
	}
	return rows
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	return row.New(8).Add(
		col.New(9).Add(text.New("Producto", props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		})),
		col.New(3).Add(text.New("Cantidad", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
	)
}

// itemRows: una fila por línea de pedido.
func itemRows(order *entity.Order, productNames map[string]string) []core.Row {
	result := make([]core.Row, 0, len(order.Items))
	for _, it := range order.Items {
		name := productNames[it.ProductID]
		if name == "" {
			name = "Producto"
		}
		result = append(result, row.New(7).Add(
			col.New(9).Add(text.New(name, props.Text{Size: 9, Top: 1})),
			col.New(3).Add(text.New(fmt.Sprintf("x %d", it.Quantity), props.Text{
				Size: 9, Align: align.Right, Top: 1,
			})),
		))
	}
	return result
}

// totalRow: total de unidades del pedido.
func totalRow(order *entity.Order) core.Row {
	return row.New(9).Add(
		col.New(12).Add(text.New(
			fmt.Sprintf("TOTAL UNIDADES: %d", order.TotalUnits()),
			props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2},
		)),
	)
}

// novedadRows: bloque resaltado con la discrepancia reportada en recepción.
func novedadRows(order *entity.Order) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(text.New("NOVEDAD REPORTADA:", props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorRed, Top: 1,
		}))),
		row.New(8).Add(col.New(12).Add(text.New(order.Novedades, props.Text{
			Size: 9, Color: colorRed, Top: 1,
		}))),
	}
}

// footerRow: leyenda de documento interno.
func footerRow() core.Row {
	return row.New(8).Add(
		col.New(12).Add(text.New(
			"Este documento es un comprobante interno de solicitud de pedido para la planta de producción Milhojas Villa de Leyva.",
			props.Text{Size: 7, Color: colorGray, Align: align.Center, Top: 2},
		)),
	)
}

// shortID: los últimos 6 caracteres del UUID en mayúsculas, como se muestra
// el pedido en pantalla.
func shortID(id string) string {
	if len(id) <= 6 {
		return strings.ToUpper(id)
	}
	return strings.ToUpper(id[len(id)-6:])
}
