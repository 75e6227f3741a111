package dto

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/pkg/format"
)

// InsumoForm campos del formulario de insumo tal como llegan del navegador.
type InsumoForm struct {
	Nombre         string `form:"nombre" json:"nombre"`
	Cantidad       string `form:"cantidad" json:"cantidad"`
	Unidad         string `form:"unidad" json:"unidad"`
	PrecioUnitario string `form:"precio_unitario" json:"precio_unitario"`
}

// NewInsumoForm precarga el formulario para editar un insumo existente.
func NewInsumoForm(in *entity.Insumo) InsumoForm {
	if in == nil {
		return InsumoForm{Cantidad: "0"}
	}
	f := InsumoForm{
		Nombre:   in.Nombre,
		Cantidad: in.Cantidad.String(),
		Unidad:   in.Unidad,
	}
	if in.PrecioUnitario != nil {
		f.PrecioUnitario = in.PrecioUnitario.String()
	}
	return f
}

// Validate aplica las reglas del formulario.
func (f *InsumoForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Nombre, validation.Required.Error("El nombre es requerido")),
		validation.Field(&f.Cantidad,
			validation.Required.Error("La cantidad es requerida"),
			MinDecimal(decimalZero, false, "La cantidad debe ser mayor o igual a 0"),
		),
		validation.Field(&f.Unidad, validation.Required.Error("La unidad es requerida")),
		validation.Field(&f.PrecioUnitario, MinDecimal(decimalZero, false, "El precio debe ser mayor o igual a 0")),
	)
}

// ToEntity valida y convierte el formulario en el cuerpo para la API.
func (f *InsumoForm) ToEntity() (*entity.Insumo, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	cantidad, err := ParseDecimal(f.Cantidad)
	if err != nil {
		return nil, fmt.Errorf("insumo: cantidad: %w", domain.ErrInvalidInput)
	}
	precio, err := parseOptionalDecimal(f.PrecioUnitario)
	if err != nil {
		return nil, fmt.Errorf("insumo: precio_unitario: %w", domain.ErrInvalidInput)
	}
	return &entity.Insumo{
		Nombre:         strings.TrimSpace(f.Nombre),
		Cantidad:       cantidad,
		Unidad:         strings.TrimSpace(f.Unidad),
		PrecioUnitario: precio,
	}, nil
}

// InsumoOption opción de un <select> de insumos: "Harina (Stock: 12 kg)".
type InsumoOption struct {
	ID    int64
	Label string
}

// NewInsumoOption arma la etiqueta con el stock conocido.
func NewInsumoOption(in entity.Insumo) InsumoOption {
	return InsumoOption{
		ID:    in.ID,
		Label: fmt.Sprintf("%s (Stock: %s %s)", in.Nombre, format.Quantity(in.Cantidad), in.Unidad),
	}
}
