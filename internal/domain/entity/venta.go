package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Venta salida de stock de un producto.
type Venta struct {
	ID             int64           `json:"id,omitempty"`
	ProductoID     int64           `json:"producto_id"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Fecha          time.Time       `json:"fecha"`
	Producto       *Producto       `json:"Producto,omitempty"`
	CreatedAt      *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
}

// Total cantidad × precio unitario.
func (v Venta) Total() decimal.Decimal {
	return v.Cantidad.Mul(v.PrecioUnitario)
}
