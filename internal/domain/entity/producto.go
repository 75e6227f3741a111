package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto bien terminado en stock. InsumosIDs es informativo: no indica cantidades consumidas.
type Producto struct {
	ID          int64            `json:"id,omitempty"`
	Nombre      string           `json:"nombre"`
	Cantidad    decimal.Decimal  `json:"cantidad"`
	Unidad      string           `json:"unidad"`
	PrecioVenta *decimal.Decimal `json:"precio_venta,omitempty"`
	InsumosIDs  []int64          `json:"insumos_ids"`
	CreatedAt   *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time       `json:"updatedAt,omitempty"`
}
