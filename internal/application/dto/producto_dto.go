package dto

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/pkg/format"
)

// ProductoForm campos del formulario de producto.
type ProductoForm struct {
	Nombre      string  `form:"nombre" json:"nombre"`
	Cantidad    string  `form:"cantidad" json:"cantidad"`
	Unidad      string  `form:"unidad" json:"unidad"`
	PrecioVenta string  `form:"precio_venta" json:"precio_venta"`
	InsumosIDs  []int64 `form:"insumos_ids" json:"insumos_ids"`
}

// NewProductoForm precarga el formulario para editar un producto existente.
func NewProductoForm(p *entity.Producto) ProductoForm {
	if p == nil {
		return ProductoForm{Cantidad: "0"}
	}
	f := ProductoForm{
		Nombre:     p.Nombre,
		Cantidad:   p.Cantidad.String(),
		Unidad:     p.Unidad,
		InsumosIDs: append([]int64(nil), p.InsumosIDs...),
	}
	if p.PrecioVenta != nil {
		f.PrecioVenta = p.PrecioVenta.String()
	}
	return f
}

// Validate aplica las reglas del formulario.
func (f *ProductoForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Nombre, validation.Required.Error("El nombre es requerido")),
		validation.Field(&f.Cantidad,
			validation.Required.Error("La cantidad es requerida"),
			MinDecimal(decimalZero, false, "La cantidad debe ser mayor o igual a 0"),
		),
		validation.Field(&f.Unidad, validation.Required.Error("La unidad es requerida")),
		validation.Field(&f.PrecioVenta, MinDecimal(decimalZero, false, "El precio debe ser mayor o igual a 0")),
	)
}

// HasInsumo usado por la plantilla para marcar los checkbox.
func (f ProductoForm) HasInsumo(id int64) bool {
	for _, v := range f.InsumosIDs {
		if v == id {
			return true
		}
	}
	return false
}

// ToEntity valida y convierte el formulario. Un precio vacío o 0 se omite.
func (f *ProductoForm) ToEntity() (*entity.Producto, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	cantidad, err := ParseDecimal(f.Cantidad)
	if err != nil {
		return nil, fmt.Errorf("producto: cantidad: %w", domain.ErrInvalidInput)
	}
	precio, err := parseOptionalDecimal(f.PrecioVenta)
	if err != nil {
		return nil, fmt.Errorf("producto: precio_venta: %w", domain.ErrInvalidInput)
	}
	if precio != nil && precio.IsZero() {
		precio = nil
	}
	ids := make([]int64, 0, len(f.InsumosIDs))
	for _, id := range f.InsumosIDs {
		if id > 0 {
			ids = append(ids, id)
		}
	}
	return &entity.Producto{
		Nombre:      strings.TrimSpace(f.Nombre),
		Cantidad:    cantidad,
		Unidad:      strings.TrimSpace(f.Unidad),
		PrecioVenta: precio,
		InsumosIDs:  ids,
	}, nil
}

// ProductoOption opción de un <select> de productos.
type ProductoOption struct {
	ID    int64
	Label string
}

// NewProductoOption arma la etiqueta con el stock conocido.
func NewProductoOption(p entity.Producto) ProductoOption {
	return ProductoOption{
		ID:    p.ID,
		Label: fmt.Sprintf("%s (Stock: %s %s)", p.Nombre, format.Quantity(p.Cantidad), p.Unidad),
	}
}
