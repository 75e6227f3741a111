package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produccion evento que convierte insumos en stock de un producto.
// ProductoID vacío significa que la API creó un producto nuevo.
type Produccion struct {
	ID                int64              `json:"id,omitempty"`
	NombreProducto    string             `json:"nombre_producto"`
	CantidadProducida decimal.Decimal    `json:"cantidad_producida"`
	UnidadProducto    string             `json:"unidad_producto"`
	Fecha             time.Time          `json:"fecha"`
	ProductoID        *int64             `json:"producto_id,omitempty"`
	Producto          *Producto          `json:"producto,omitempty"`
	InsumosUtilizados []ProduccionInsumo `json:"insumos_utilizados,omitempty"`
	CreatedAt         *time.Time         `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time         `json:"updatedAt,omitempty"`
}

// ProduccionInsumo consumo de un insumo dentro de una producción.
type ProduccionInsumo struct {
	ID                int64           `json:"id,omitempty"`
	InsumoID          int64           `json:"insumo_id"`
	CantidadUtilizada decimal.Decimal `json:"cantidad_utilizada"`
	Insumo            *Insumo         `json:"insumo,omitempty"`
}

// InsumoConsumido línea del payload de escritura de una producción.
type InsumoConsumido struct {
	InsumoID          int64           `json:"insumo_id"`
	CantidadUtilizada decimal.Decimal `json:"cantidad_utilizada"`
}

// ProduccionInput cuerpo de POST/PUT /producciones.
// Lleva ProductoID (producto existente) o PrecioVenta (producto nuevo), nunca ambos.
type ProduccionInput struct {
	NombreProducto    string            `json:"nombre_producto"`
	CantidadProducida decimal.Decimal   `json:"cantidad_producida"`
	UnidadProducto    string            `json:"unidad_producto"`
	Fecha             time.Time         `json:"fecha"`
	Insumos           []InsumoConsumido `json:"insumos"`
	ProductoID        *int64            `json:"producto_id,omitempty"`
	PrecioVenta       *decimal.Decimal  `json:"precio_venta,omitempty"`
}
