package dto_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func fieldErrors(t *testing.T, err error) dto.ValidationErrors {
	t.Helper()
	require.Error(t, err)
	fe, ok := dto.FieldErrors(err)
	require.True(t, ok, "debe ser un error de validación: %v", err)
	return fe
}

// ──────────────────────────────────────────────────────────────────────────────
// Insumos
// ──────────────────────────────────────────────────────────────────────────────

func TestInsumoForm_CamposRequeridos(t *testing.T) {
	f := dto.InsumoForm{}
	fe := fieldErrors(t, f.Validate())

	assert.Equal(t, "El nombre es requerido", fe["nombre"])
	assert.Equal(t, "La cantidad es requerida", fe["cantidad"])
	assert.Equal(t, "La unidad es requerida", fe["unidad"])
	assert.False(t, fe.Has("precio_unitario"), "el precio es opcional")
}

func TestInsumoForm_CantidadNegativa(t *testing.T) {
	f := dto.InsumoForm{Nombre: "Harina", Cantidad: "-1", Unidad: "kg", PrecioUnitario: "-5"}
	fe := fieldErrors(t, f.Validate())

	assert.Equal(t, "La cantidad debe ser mayor o igual a 0", fe["cantidad"])
	assert.Equal(t, "El precio debe ser mayor o igual a 0", fe["precio_unitario"])
}

func TestInsumoForm_ToEntity(t *testing.T) {
	f := dto.InsumoForm{Nombre: " Harina ", Cantidad: "12,5", Unidad: "kg", PrecioUnitario: "3500"}
	in, err := f.ToEntity()
	require.NoError(t, err)

	assert.Equal(t, "Harina", in.Nombre)
	assert.True(t, in.Cantidad.Equal(decimal.RequireFromString("12.5")))
	require.NotNil(t, in.PrecioUnitario)
	assert.True(t, in.PrecioUnitario.Equal(decimal.NewFromInt(3500)))
}

func TestInsumoForm_PrecioVacioSeOmite(t *testing.T) {
	f := dto.InsumoForm{Nombre: "Sal", Cantidad: "0", Unidad: "kg"}
	in, err := f.ToEntity()
	require.NoError(t, err)
	assert.Nil(t, in.PrecioUnitario)
}

func TestNewInsumoOption_Etiqueta(t *testing.T) {
	opt := dto.NewInsumoOption(entity.Insumo{ID: 3, Nombre: "Harina", Cantidad: decimal.NewFromInt(1200), Unidad: "kg"})
	assert.Equal(t, int64(3), opt.ID)
	assert.Equal(t, "Harina (Stock: 1.200 kg)", opt.Label)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductoForm_PrecioCeroSeOmite(t *testing.T) {
	f := dto.ProductoForm{Nombre: "Pan", Cantidad: "4", Unidad: "u", PrecioVenta: "0", InsumosIDs: []int64{1, 0, 2}}
	p, err := f.ToEntity()
	require.NoError(t, err)

	assert.Nil(t, p.PrecioVenta)
	assert.Equal(t, []int64{1, 2}, p.InsumosIDs)
}

func TestProductoForm_HasInsumo(t *testing.T) {
	f := dto.NewProductoForm(&entity.Producto{Nombre: "Pan", InsumosIDs: []int64{4, 9}})
	assert.True(t, f.HasInsumo(9))
	assert.False(t, f.HasInsumo(1))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func productosVenta() []entity.Producto {
	return []entity.Producto{{ID: 1, Nombre: "Pan", Cantidad: decimal.NewFromInt(8), Unidad: "u"}}
}

func TestVentaForm_SinProducto(t *testing.T) {
	f := dto.VentaForm{ProductoID: "0", Cantidad: "1", PrecioUnitario: "100", Fecha: "2024-03-10T10:00"}
	fe := fieldErrors(t, f.Validate(productosVenta()))
	assert.Equal(t, "Debe seleccionar un producto", fe["producto_id"])
}

func TestVentaForm_ExcedeStock(t *testing.T) {
	f := dto.VentaForm{ProductoID: "1", Cantidad: "9", PrecioUnitario: "100", Fecha: "2024-03-10T10:00"}
	fe := fieldErrors(t, f.Validate(productosVenta()))
	assert.Equal(t, "No puede vender más de 8 unidades disponibles", fe["cantidad"])
}

func TestVentaForm_MinimosYFecha(t *testing.T) {
	f := dto.VentaForm{ProductoID: "1", Cantidad: "0", PrecioUnitario: "0", Fecha: ""}
	fe := fieldErrors(t, f.Validate(productosVenta()))

	assert.Equal(t, "La cantidad debe ser mayor a 0", fe["cantidad"])
	assert.Equal(t, "El precio debe ser mayor a 0", fe["precio_unitario"])
	assert.Equal(t, "La fecha es requerida", fe["fecha"])
}

func TestVentaForm_ToEntityYTotal(t *testing.T) {
	f := dto.VentaForm{ProductoID: "1", Cantidad: "2", PrecioUnitario: "5000", Fecha: "2024-03-10T10:00"}
	assert.True(t, f.Total().Equal(decimal.NewFromInt(10000)))

	v, err := f.ToEntity(productosVenta())
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.ProductoID)
	assert.True(t, v.Total().Equal(decimal.NewFromInt(10000)))
	assert.False(t, v.Fecha.IsZero())
}

func TestVentaForm_TotalNoNumerico(t *testing.T) {
	f := dto.VentaForm{Cantidad: "abc", PrecioUnitario: "10"}
	assert.True(t, f.Total().IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestNewDashboardSummaryDTO_ListasNoNulas(t *testing.T) {
	out := dto.NewDashboardSummaryDTO(inventory.Summarize(inventory.Snapshot{}, time.Now()))

	assert.NotNil(t, out.InsumosBajoStock)
	assert.NotNil(t, out.ProductosBajoStock)
	assert.NotNil(t, out.VentasRecientes)
	assert.True(t, out.TotalVentasDelDia.IsZero())
}

func TestNombreProductoVenta_SinProducto(t *testing.T) {
	assert.Equal(t, "N/A", dto.NombreProductoVenta(entity.Venta{}))
	assert.Equal(t, "Pan", dto.NombreProductoVenta(entity.Venta{Producto: &entity.Producto{Nombre: "Pan"}}))
}

func TestParseDecimal_ComaDecimal(t *testing.T) {
	d, err := dto.ParseDecimal("2,75")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("2.75")))

	_, err = dto.ParseDecimal("x")
	assert.Error(t, err)
}
