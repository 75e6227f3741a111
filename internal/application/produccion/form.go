// Package produccion contiene el formulario de producción: la elección entre
// producto existente o nuevo, las filas de insumos consumidos y su
// conciliación contra el stock conocido de insumos.
package produccion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/inventory"
	"github.com/jhoicas/gestion-stock/pkg/format"
)

// Modo elección de producto del formulario.
type Modo string

const (
	ModoExistente Modo = "existente"
	ModoNuevo     Modo = "nuevo"
)

// UnidadPorDefecto unidad propuesta para un producto nuevo.
const UnidadPorDefecto = "unidades"

var cantidadMinima = decimal.RequireFromString("0.01")

// Fila una línea de insumo consumido. InsumoID 0 = sin seleccionar.
type Fila struct {
	InsumoID int64
	Cantidad string
}

// Form estado del formulario de producción.
type Form struct {
	ID                int64  `json:"id"`
	Modo              Modo   `json:"modo"`
	ProductoID        int64  `json:"producto_id"`
	NombreProducto    string `json:"nombre_producto"`
	CantidadProducida string `json:"cantidad_producida"`
	UnidadProducto    string `json:"unidad_producto"`
	PrecioVenta       string `json:"precio_venta"`
	Fecha             string `json:"fecha"`
	Filas             []Fila `json:"-"`
}

// NuevoForm arma el formulario para crear (p nil) o editar una producción.
// Una producción con producto_id se edita en modo existente.
func NuevoForm(p *entity.Produccion, now time.Time) *Form {
	if p == nil {
		return &Form{
			Modo:              ModoNuevo,
			CantidadProducida: "0",
			UnidadProducto:    UnidadPorDefecto,
			Fecha:             format.InputDateTime(now),
		}
	}
	f := &Form{
		ID:                p.ID,
		Modo:              ModoNuevo,
		NombreProducto:    p.NombreProducto,
		CantidadProducida: p.CantidadProducida.String(),
		UnidadProducto:    p.UnidadProducto,
		Fecha:             format.InputDateTime(p.Fecha),
	}
	if f.UnidadProducto == "" {
		f.UnidadProducto = UnidadPorDefecto
	}
	if p.ProductoID != nil && *p.ProductoID != 0 {
		f.Modo = ModoExistente
		f.ProductoID = *p.ProductoID
	}
	if p.Producto != nil && p.Producto.PrecioVenta != nil {
		f.PrecioVenta = p.Producto.PrecioVenta.String()
	}
	for _, u := range p.InsumosUtilizados {
		f.Filas = append(f.Filas, Fila{InsumoID: u.InsumoID, Cantidad: u.CantidadUtilizada.String()})
	}
	return f
}

// EsEdicion indica si el formulario edita una producción existente.
func (f *Form) EsEdicion() bool { return f.ID != 0 }

// SetModo cambia de modo. Al pasar a modo nuevo se descarta el producto elegido
// y, si no es una edición, se limpian nombre, unidad y precio (el precio queda
// vacío, no en 0).
func (f *Form) SetModo(m Modo) {
	if m != ModoExistente {
		m = ModoNuevo
	}
	f.Modo = m
	if m == ModoExistente {
		return
	}
	f.ProductoID = 0
	if !f.EsEdicion() {
		f.NombreProducto = ""
		f.UnidadProducto = UnidadPorDefecto
		f.PrecioVenta = ""
	}
}

// SeleccionarProducto elige el producto en modo existente. Para una producción
// nueva completa nombre, unidad y precio desde el registro del producto.
func (f *Form) SeleccionarProducto(id int64, productos []entity.Producto) {
	if f.Modo != ModoExistente {
		return
	}
	f.ProductoID = id
	p := inventory.BuscarProducto(productos, id)
	if p == nil || f.EsEdicion() {
		return
	}
	f.NombreProducto = p.Nombre
	f.UnidadProducto = p.Unidad
	f.PrecioVenta = ""
	if p.PrecioVenta != nil {
		f.PrecioVenta = p.PrecioVenta.String()
	}
}

// CamposSoloLectura indica si nombre y unidad se muestran de solo lectura:
// modo existente con un producto conocido seleccionado.
func (f *Form) CamposSoloLectura(productos []entity.Producto) bool {
	return f.Modo == ModoExistente && inventory.BuscarProducto(productos, f.ProductoID) != nil
}

// AgregarFila agrega una fila vacía de insumo.
func (f *Form) AgregarFila() {
	f.Filas = append(f.Filas, Fila{Cantidad: "0"})
}

// QuitarFila elimina la fila i; índices fuera de rango se ignoran.
func (f *Form) QuitarFila(i int) {
	if i < 0 || i >= len(f.Filas) {
		return
	}
	f.Filas = append(f.Filas[:i:i], f.Filas[i+1:]...)
}

func (f *Form) seleccionados() []int64 {
	ids := make([]int64, len(f.Filas))
	for i, r := range f.Filas {
		ids[i] = r.InsumoID
	}
	return ids
}

// InsumosDisponibles opciones de la fila i: insumos no elegidos en otra fila.
func (f *Form) InsumosDisponibles(i int, insumos []entity.Insumo) []entity.Insumo {
	return inventory.InsumosDisponibles(insumos, f.seleccionados(), i)
}

// MaximoFila stock conocido del insumo de la fila i (orientativo); nil si no hay insumo.
func (f *Form) MaximoFila(i int, insumos []entity.Insumo) *entity.Insumo {
	if i < 0 || i >= len(f.Filas) {
		return nil
	}
	return inventory.BuscarInsumo(insumos, f.Filas[i].InsumoID)
}

// CostoEstimado costo de los insumos de las filas según su precio_unitario.
// Las filas sin insumo o con cantidad no numérica no suman.
func (f *Form) CostoEstimado(insumos []entity.Insumo) decimal.Decimal {
	consumos := make([]entity.InsumoConsumido, 0, len(f.Filas))
	for _, r := range f.Filas {
		c, err := dto.ParseDecimal(r.Cantidad)
		if r.InsumoID == 0 || err != nil {
			continue
		}
		consumos = append(consumos, entity.InsumoConsumido{InsumoID: r.InsumoID, CantidadUtilizada: c})
	}
	return inventory.CostoInsumos(consumos, insumos)
}

// ClaveFila nombre del campo de la fila i en los errores de validación.
func ClaveFila(i int, campo string) string {
	return "insumos." + strconv.Itoa(i) + "." + campo
}

// Validar devuelve los errores por campo contra el snapshot de insumos y productos.
func (f *Form) Validar(insumos []entity.Insumo, productos []entity.Producto) error {
	err := validation.ValidateStruct(f,
		validation.Field(&f.NombreProducto, validation.Required.Error("El nombre del producto es requerido")),
		validation.Field(&f.CantidadProducida,
			validation.Required.Error("La cantidad producida es requerida"),
			dto.MinDecimal(cantidadMinima, false, "La cantidad debe ser mayor a 0"),
		),
		validation.Field(&f.UnidadProducto, validation.Required.Error("La unidad es requerida")),
		validation.Field(&f.Fecha,
			validation.Required.Error("La fecha es requerida"),
			validation.By(fechaValida),
		),
		validation.Field(&f.ProductoID, validation.By(func(interface{}) error {
			if f.Modo == ModoExistente && f.ProductoID == 0 {
				return errors.New("Debe seleccionar un producto")
			}
			return nil
		})),
		validation.Field(&f.PrecioVenta, validation.By(func(interface{}) error {
			if f.Modo != ModoNuevo {
				return nil
			}
			if _, err := f.precioNuevo(); err != nil {
				return err
			}
			return nil
		})),
	)
	if err != nil {
		if _, ok := dto.FieldErrors(err); !ok {
			return err
		}
	}
	return dto.MergeErrors(err, f.validarFilas(insumos))
}

func (f *Form) validarFilas(insumos []entity.Insumo) dto.ValidationErrors {
	out := dto.ValidationErrors{}
	for _, i := range inventory.FilasDuplicadas(f.seleccionados()) {
		out[ClaveFila(i, "insumo_id")] = "El insumo ya fue seleccionado en otra fila"
	}
	for i, r := range f.Filas {
		if r.InsumoID == 0 {
			out[ClaveFila(i, "insumo_id")] = "Debe seleccionar un insumo"
		}
		key := ClaveFila(i, "cantidad_utilizada")
		if strings.TrimSpace(r.Cantidad) == "" {
			out[key] = "La cantidad es requerida"
			continue
		}
		c, err := dto.ParseDecimal(r.Cantidad)
		if err != nil {
			out[key] = "Debe ser un número"
			continue
		}
		if c.LessThan(cantidadMinima) {
			out[key] = "La cantidad debe ser mayor a 0"
			continue
		}
		if in := inventory.BuscarInsumo(insumos, r.InsumoID); in != nil && inventory.ExcedeStock(c, in.Cantidad) {
			out[key] = fmt.Sprintf("No puede usar más de %s %s", format.Quantity(in.Cantidad), in.Unidad)
		}
	}
	return out
}

// precioNuevo precio de venta del producto nuevo: obligatorio, numérico y > 0.
func (f *Form) precioNuevo() (decimal.Decimal, error) {
	if strings.TrimSpace(f.PrecioVenta) == "" {
		return decimal.Zero, domain.ErrMissingSalePrice
	}
	p, err := dto.ParseDecimal(f.PrecioVenta)
	if err != nil || !p.IsPositive() {
		return decimal.Zero, domain.ErrMissingSalePrice
	}
	return p, nil
}

// Payload arma el cuerpo para la API. Lleva producto_id sólo en modo existente
// y precio_venta sólo en modo nuevo; sin precio válido falla con ErrMissingSalePrice.
func (f *Form) Payload() (*entity.ProduccionInput, error) {
	cantidad, err := dto.ParseDecimal(f.CantidadProducida)
	if err != nil {
		return nil, fmt.Errorf("produccion: cantidad_producida: %w", domain.ErrInvalidInput)
	}
	fecha, err := format.ParseFecha(f.Fecha)
	if err != nil {
		return nil, fmt.Errorf("produccion: fecha: %w", domain.ErrInvalidInput)
	}
	in := &entity.ProduccionInput{
		NombreProducto:    strings.TrimSpace(f.NombreProducto),
		CantidadProducida: cantidad,
		UnidadProducto:    strings.TrimSpace(f.UnidadProducto),
		Fecha:             fecha.UTC(),
		Insumos:           make([]entity.InsumoConsumido, 0, len(f.Filas)),
	}
	for i, r := range f.Filas {
		c, err := dto.ParseDecimal(r.Cantidad)
		if err != nil {
			return nil, fmt.Errorf("produccion: fila %d: %w", i, domain.ErrInvalidInput)
		}
		in.Insumos = append(in.Insumos, entity.InsumoConsumido{InsumoID: r.InsumoID, CantidadUtilizada: c})
	}
	switch f.Modo {
	case ModoExistente:
		if f.ProductoID != 0 {
			id := f.ProductoID
			in.ProductoID = &id
		}
	default:
		precio, err := f.precioNuevo()
		if err != nil {
			return nil, err
		}
		in.PrecioVenta = &precio
	}
	return in, nil
}

func fechaValida(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := format.ParseFecha(s); err != nil {
		return errors.New(format.InvalidDate)
	}
	return nil
}
