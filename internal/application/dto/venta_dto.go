package dto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/inventory"
	"github.com/jhoicas/gestion-stock/pkg/format"
)

// VentaForm campos del formulario de venta.
type VentaForm struct {
	ProductoID     string `form:"producto_id" json:"producto_id"`
	Cantidad       string `form:"cantidad" json:"cantidad"`
	PrecioUnitario string `form:"precio_unitario" json:"precio_unitario"`
	Fecha          string `form:"fecha" json:"fecha"`
}

// NewVentaForm precarga el formulario; para una venta nueva la fecha es now.
func NewVentaForm(v *entity.Venta, now time.Time) VentaForm {
	if v == nil {
		return VentaForm{ProductoID: "0", Cantidad: "0", PrecioUnitario: "0", Fecha: format.InputDateTime(now)}
	}
	return VentaForm{
		ProductoID:     strconv.FormatInt(v.ProductoID, 10),
		Cantidad:       v.Cantidad.String(),
		PrecioUnitario: v.PrecioUnitario.String(),
		Fecha:          format.InputDateTime(v.Fecha),
	}
}

// SelectedProductoID id elegido en el select (0 = ninguno).
func (f VentaForm) SelectedProductoID() int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(f.ProductoID), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// Total vista previa cantidad × precio; 0 si algún campo no es numérico.
func (f VentaForm) Total() decimal.Decimal {
	c, err1 := ParseDecimal(f.Cantidad)
	p, err2 := ParseDecimal(f.PrecioUnitario)
	if err1 != nil || err2 != nil {
		return decimal.Zero
	}
	return c.Mul(p)
}

// Validate aplica las reglas del formulario. El máximo de cantidad es el stock
// conocido del producto elegido en el snapshot `productos` (orientativo).
func (f *VentaForm) Validate(productos []entity.Producto) error {
	var stockMax *decimal.Decimal
	maxMsg := ""
	if p := inventory.BuscarProducto(productos, f.SelectedProductoID()); p != nil {
		stockMax = &p.Cantidad
		maxMsg = fmt.Sprintf("No puede vender más de %s unidades disponibles", format.Quantity(p.Cantidad))
	}
	return validation.ValidateStruct(f,
		validation.Field(&f.ProductoID, validation.By(func(interface{}) error {
			if f.SelectedProductoID() == 0 {
				return errors.New("Debe seleccionar un producto")
			}
			return nil
		})),
		validation.Field(&f.Cantidad,
			validation.Required.Error("La cantidad es requerida"),
			MinDecimal(decimalMinQt, false, "La cantidad debe ser mayor a 0"),
			MaxDecimal(stockMax, maxMsg),
		),
		validation.Field(&f.PrecioUnitario,
			validation.Required.Error("El precio unitario es requerido"),
			MinDecimal(decimalMinQt, false, "El precio debe ser mayor a 0"),
		),
		validation.Field(&f.Fecha,
			validation.Required.Error("La fecha es requerida"),
			validation.By(validFecha),
		),
	)
}

// ToEntity valida y convierte el formulario.
func (f *VentaForm) ToEntity(productos []entity.Producto) (*entity.Venta, error) {
	if err := f.Validate(productos); err != nil {
		return nil, err
	}
	cantidad, err := ParseDecimal(f.Cantidad)
	if err != nil {
		return nil, fmt.Errorf("venta: cantidad: %w", domain.ErrInvalidInput)
	}
	precio, err := ParseDecimal(f.PrecioUnitario)
	if err != nil {
		return nil, fmt.Errorf("venta: precio_unitario: %w", domain.ErrInvalidInput)
	}
	fecha, err := format.ParseFecha(f.Fecha)
	if err != nil {
		return nil, fmt.Errorf("venta: fecha: %w", domain.ErrInvalidInput)
	}
	return &entity.Venta{
		ProductoID:     f.SelectedProductoID(),
		Cantidad:       cantidad,
		PrecioUnitario: precio,
		Fecha:          fecha.UTC(),
	}, nil
}

func validFecha(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := format.ParseFecha(s); err != nil {
		return errors.New(format.InvalidDate)
	}
	return nil
}
