package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/inventory"
)

// DashboardSummaryDTO respuesta de GET /api/dashboard.
// Contadores, listas de bajo stock, ventas recientes y totales del día y del mes.
type DashboardSummaryDTO struct {
	TotalInsumos      int `json:"total_insumos"`
	TotalProductos    int `json:"total_productos"`
	TotalProducciones int `json:"total_producciones"`
	TotalVentas       int `json:"total_ventas"`

	InsumosBajoStock   []StockItemDTO    `json:"insumos_bajo_stock"`
	ProductosBajoStock []StockItemDTO    `json:"productos_bajo_stock"`
	VentasRecientes    []VentaResumenDTO `json:"ventas_recientes"`

	TotalVentasDelMes decimal.Decimal `json:"total_ventas_mes"`
	TotalVentasDelDia decimal.Decimal `json:"total_ventas_dia"`

	DateLabel   string    `json:"date_label"` // ej: "Febrero 2026"
	GeneratedAt time.Time `json:"generated_at"`
}

// StockItemDTO fila de las listas de bajo stock.
type StockItemDTO struct {
	ID       int64           `json:"id"`
	Nombre   string          `json:"nombre"`
	Cantidad decimal.Decimal `json:"cantidad"`
	Unidad   string          `json:"unidad"`
}

// VentaResumenDTO venta del widget de ventas recientes.
type VentaResumenDTO struct {
	ID             int64           `json:"id"`
	Producto       string          `json:"producto"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Total          decimal.Decimal `json:"total"`
	Fecha          time.Time       `json:"fecha"`
}

// NewDashboardSummaryDTO convierte el resumen de dominio. Las listas nunca son nil.
func NewDashboardSummaryDTO(s inventory.Summary) DashboardSummaryDTO {
	out := DashboardSummaryDTO{
		TotalInsumos:       s.TotalInsumos,
		TotalProductos:     s.TotalProductos,
		TotalProducciones:  s.TotalProducciones,
		TotalVentas:        s.TotalVentas,
		InsumosBajoStock:   make([]StockItemDTO, 0, len(s.InsumosBajoStock)),
		ProductosBajoStock: make([]StockItemDTO, 0, len(s.ProductosBajoStock)),
		VentasRecientes:    make([]VentaResumenDTO, 0, len(s.VentasRecientes)),
		TotalVentasDelMes:  s.TotalVentasDelMes,
		TotalVentasDelDia:  s.TotalVentasDelDia,
		DateLabel:          s.EtiquetaMes,
		GeneratedAt:        s.GeneradoEn,
	}
	for _, in := range s.InsumosBajoStock {
		out.InsumosBajoStock = append(out.InsumosBajoStock, StockItemDTO{ID: in.ID, Nombre: in.Nombre, Cantidad: in.Cantidad, Unidad: in.Unidad})
	}
	for _, p := range s.ProductosBajoStock {
		out.ProductosBajoStock = append(out.ProductosBajoStock, StockItemDTO{ID: p.ID, Nombre: p.Nombre, Cantidad: p.Cantidad, Unidad: p.Unidad})
	}
	for _, v := range s.VentasRecientes {
		out.VentasRecientes = append(out.VentasRecientes, VentaResumenDTO{
			ID:             v.ID,
			Producto:       NombreProductoVenta(v),
			Cantidad:       v.Cantidad,
			PrecioUnitario: v.PrecioUnitario,
			Total:          v.Total(),
			Fecha:          v.Fecha,
		})
	}
	return out
}

// NombreProductoVenta nombre del producto embebido o "N/A".
func NombreProductoVenta(v entity.Venta) string {
	if v.Producto == nil || v.Producto.Nombre == "" {
		return "N/A"
	}
	return v.Producto.Nombre
}
