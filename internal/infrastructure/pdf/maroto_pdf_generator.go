// Package pdf genera el reporte del dashboard en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la app   │  Mes + fecha de generación     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPIs: Insumos | Productos | Producciones | Ventas          │
//	│  TOTALES: Ventas del día / Ventas del mes                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Insumos con bajo stock                               │
//	│  TABLA: Productos con bajo stock                             │
//	│  TABLA: Ventas recientes                                     │
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

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/inventory"
	"github.com/jhoicas/gestion-stock/pkg/format"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarning = &props.Color{Red: 176, Green: 106, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator genera el reporte del dashboard con Maroto v2.
type MarotoPDFGenerator struct {
	appName string
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(appName string) *MarotoPDFGenerator {
	if appName == "" {
		appName = "Gestión de Stock"
	}
	return &MarotoPDFGenerator{appName: appName}
}

// GenerateDashboardPDF genera el PDF del resumen y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDashboardPDF(_ context.Context, s inventory.Summary) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de stock "+s.EtiquetaMes, true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.appName, s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(countersRow(s))
	m.AddRows(totalsRows(s)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionRow("Insumos con bajo stock (menos de 10)"))
	m.AddRows(stockRows(insumoItems(s.InsumosBajoStock), "No hay insumos con bajo stock")...)

	m.AddRows(sectionRow("Productos con bajo stock (menos de 5)"))
	m.AddRows(stockRows(productoItems(s.ProductosBajoStock), "No hay productos con bajo stock")...)

	m.AddRows(sectionRow("Ventas recientes"))
	m.AddRows(ventasRows(s.VentasRecientes)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(appName string, s inventory.Summary) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(appName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Resumen de inventario", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(s.EtiquetaMes, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Generado: "+format.DateTime(s.GeneradoEn), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func countersRow(s inventory.Summary) core.Row {
	kpi := func(label string, n int) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(format.Number(n), props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: colorPrimary, Top: 6,
			}),
		)
	}
	return row.New(16).Add(
		kpi("Insumos", s.TotalInsumos),
		kpi("Productos", s.TotalProductos),
		kpi("Producciones", s.TotalProducciones),
		kpi("Ventas", s.TotalVentas),
	)
}

// totalsRows: ventas del día y del mes alineadas a la derecha.
func totalsRows(s inventory.Summary) []core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1})
	}
	value := func(v string) core.Component {
		return text.New(v, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 1,
		})
	}
	return []core.Row{
		row.New(7).Add(
			col.New(6),
			col.New(3).Add(label("Ventas del día:")),
			col.New(3).Add(value(format.Currency(s.TotalVentasDelDia, false))),
		),
		row.New(7).Add(
			col.New(6),
			col.New(3).Add(label("Ventas del mes:")),
			col.New(3).Add(value(format.Currency(s.TotalVentasDelMes, false))),
		),
	}
}

func sectionRow(title string) core.Row {
	return row.New(9).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 3}),
	))
}

type stockItem struct {
	nombre   string
	cantidad string
	unidad   string
}

func insumoItems(in []entity.Insumo) []stockItem {
	out := make([]stockItem, 0, len(in))
	for _, i := range in {
		out = append(out, stockItem{i.Nombre, format.Quantity(i.Cantidad), i.Unidad})
	}
	return out
}

func productoItems(in []entity.Producto) []stockItem {
	out := make([]stockItem, 0, len(in))
	for _, p := range in {
		out = append(out, stockItem{p.Nombre, format.Quantity(p.Cantidad), p.Unidad})
	}
	return out
}

func stockRows(items []stockItem, empty string) []core.Row {
	if len(items) == 0 {
		return []core.Row{emptyRow(empty)}
	}
	rows := []core.Row{tableHeader([]string{"Nombre", "Cantidad", "Unidad"}, []int{6, 3, 3})}
	for _, it := range items {
		rows = append(rows, row.New(6).Add(
			col.New(6).Add(text.New(it.nombre, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(it.cantidad, props.Text{Size: 8, Align: align.Right, Top: 1, Color: colorWarning})),
			col.New(3).Add(text.New(it.unidad, props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	return rows
}

func ventasRows(ventas []entity.Venta) []core.Row {
	if len(ventas) == 0 {
		return []core.Row{emptyRow("No hay ventas registradas")}
	}
	rows := []core.Row{tableHeader(
		[]string{"Fecha", "Producto", "Cant.", "Precio Unit.", "Total"},
		[]int{3, 3, 1, 2, 3},
	)}
	for _, v := range ventas {
		rows = append(rows, row.New(6).Add(
			col.New(3).Add(text.New(format.DateTime(v.Fecha), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(dto.NombreProductoVenta(v), props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(format.Quantity(v.Cantidad), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(format.Currency(v.PrecioUnitario, false), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(3).Add(text.New(format.Total(v.Cantidad, v.PrecioUnitario), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, len(labels))
	for i, l := range labels {
		cols[i] = col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1, Left: 1,
		}))
	}
	return row.New(6).Add(cols...)
}

func emptyRow(msg string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
	))
}
