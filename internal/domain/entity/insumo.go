package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Insumo materia prima que se consume en las producciones.
type Insumo struct {
	ID             int64            `json:"id,omitempty"`
	Nombre         string           `json:"nombre"`
	Cantidad       decimal.Decimal  `json:"cantidad"`
	Unidad         string           `json:"unidad"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario,omitempty"`
	CreatedAt      *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time       `json:"updatedAt,omitempty"`
}
