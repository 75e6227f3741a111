// Package inventory contiene las reglas de negocio puras del stock: agregación
// del dashboard y conciliación de producciones contra el stock de insumos.
// Todas las funciones trabajan sobre snapshots explícitos, sin leer cachés.
package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// Umbrales fijos de bajo stock y tamaño del widget de ventas recientes.
const (
	UmbralInsumoBajoStock   = 10
	UmbralProductoBajoStock = 5
	VentasRecientesMax      = 5
)

// Snapshot las cuatro colecciones tal como se obtuvieron. Pueden no ser
// consistentes entre sí: cada una se pide por separado.
type Snapshot struct {
	Insumos      []entity.Insumo
	Productos    []entity.Producto
	Producciones []entity.Produccion
	Ventas       []entity.Venta
}

// Summary resultado de agregar un Snapshot.
type Summary struct {
	TotalInsumos      int
	TotalProductos    int
	TotalProducciones int
	TotalVentas       int

	InsumosBajoStock   []entity.Insumo
	ProductosBajoStock []entity.Producto
	VentasRecientes    []entity.Venta

	TotalVentasDelMes decimal.Decimal
	TotalVentasDelDia decimal.Decimal

	EtiquetaMes string
	GeneradoEn  time.Time
}

// Summarize agrega el snapshot. "Hoy" y "este mes" se evalúan con la fecha de
// pared de now (su Location): una venta cuenta para el día si su fecha local
// coincide con la de now, sin usar límites UTC.
func Summarize(s Snapshot, now time.Time) Summary {
	out := Summary{
		TotalInsumos:       len(s.Insumos),
		TotalProductos:     len(s.Productos),
		TotalProducciones:  len(s.Producciones),
		TotalVentas:        len(s.Ventas),
		InsumosBajoStock:   InsumosBajoStock(s.Insumos),
		ProductosBajoStock: ProductosBajoStock(s.Productos),
		VentasRecientes:    VentasRecientes(s.Ventas, VentasRecientesMax),
		TotalVentasDelMes:  decimal.Zero,
		TotalVentasDelDia:  decimal.Zero,
		EtiquetaMes:        monthLabel(now),
		GeneradoEn:         now,
	}

	loc := now.Location()
	year, month, day := now.Date()
	for _, v := range s.Ventas {
		vy, vm, vd := v.Fecha.In(loc).Date()
		if vy != year || vm != month {
			continue
		}
		total := v.Total()
		out.TotalVentasDelMes = out.TotalVentasDelMes.Add(total)
		if vd == day {
			out.TotalVentasDelDia = out.TotalVentasDelDia.Add(total)
		}
	}
	return out
}

// InsumosBajoStock filtra insumos con cantidad < 10 conservando el orden.
func InsumosBajoStock(insumos []entity.Insumo) []entity.Insumo {
	umbral := decimal.NewFromInt(UmbralInsumoBajoStock)
	out := make([]entity.Insumo, 0)
	for _, i := range insumos {
		if i.Cantidad.LessThan(umbral) {
			out = append(out, i)
		}
	}
	return out
}

// ProductosBajoStock filtra productos con cantidad < 5 conservando el orden.
func ProductosBajoStock(productos []entity.Producto) []entity.Producto {
	umbral := decimal.NewFromInt(UmbralProductoBajoStock)
	out := make([]entity.Producto, 0)
	for _, p := range productos {
		if p.Cantidad.LessThan(umbral) {
			out = append(out, p)
		}
	}
	return out
}

// VentasRecientes devuelve las n ventas más recientes por fecha descendente.
// No modifica el slice recibido.
func VentasRecientes(ventas []entity.Venta, n int) []entity.Venta {
	sorted := make([]entity.Venta, len(ventas))
	copy(sorted, ventas)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fecha.After(sorted[j].Fecha)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
