package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/memstore"
)

// Los repositorios del store satisfacen los puertos de dominio.
var (
	_ repository.InsumoRepository     = memstore.InsumoRepository{}
	_ repository.ProductoRepository   = memstore.ProductoRepository{}
	_ repository.ProduccionRepository = memstore.ProduccionRepository{}
	_ repository.VentaRepository      = memstore.VentaRepository{}
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func seed(t *testing.T, s *memstore.Store) (harina, azucar *entity.Insumo) {
	t.Helper()
	ctx := context.Background()
	var err error
	harina, err = s.Insumos().Create(ctx, &entity.Insumo{Nombre: "Harina", Cantidad: dec(10), Unidad: "kg"})
	require.NoError(t, err)
	azucar, err = s.Insumos().Create(ctx, &entity.Insumo{Nombre: "Azúcar", Cantidad: dec(4), Unidad: "kg"})
	require.NoError(t, err)
	return harina, azucar
}

func TestInsumos_CRUD(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	harina, _ := seed(t, s)

	got, err := s.Insumos().GetByID(ctx, harina.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Harina", got.Nombre)

	missing, err := s.Insumos().GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = s.Insumos().Update(ctx, 999, &entity.Insumo{Nombre: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Insumos().Delete(ctx, harina.ID))
	list, err := s.Insumos().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.ErrorIs(t, s.Insumos().Delete(ctx, harina.ID), domain.ErrNotFound)
}

func TestProduccion_ProductoNuevoDescuentaInsumos(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	harina, azucar := seed(t, s)
	precio := dec(45000)

	p, err := s.Producciones().Create(ctx, &entity.ProduccionInput{
		NombreProducto: "Torta", CantidadProducida: dec(3), UnidadProducto: "u", Fecha: time.Now(),
		Insumos: []entity.InsumoConsumido{
			{InsumoID: harina.ID, CantidadUtilizada: dec(2)},
			{InsumoID: azucar.ID, CantidadUtilizada: dec(1)},
		},
		PrecioVenta: &precio,
	})
	require.NoError(t, err)
	require.NotNil(t, p.ProductoID)
	require.NotNil(t, p.Producto)
	assert.True(t, p.Producto.Cantidad.Equal(dec(3)))
	require.Len(t, p.InsumosUtilizados, 2)
	assert.Equal(t, "Harina", p.InsumosUtilizados[0].Insumo.Nombre)

	h, _ := s.Insumos().GetByID(ctx, harina.ID)
	assert.True(t, h.Cantidad.Equal(dec(8)))

	require.NoError(t, s.Producciones().Delete(ctx, p.ID))
	h, _ = s.Insumos().GetByID(ctx, harina.ID)
	assert.True(t, h.Cantidad.Equal(dec(10)), "borrar la producción devuelve el insumo")
}

func TestProduccion_StockInsuficienteNoModifica(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	harina, _ := seed(t, s)
	precio := dec(1)

	_, err := s.Producciones().Create(ctx, &entity.ProduccionInput{
		NombreProducto: "Pan", CantidadProducida: dec(1), UnidadProducto: "u",
		Insumos: []entity.InsumoConsumido{
			{InsumoID: harina.ID, CantidadUtilizada: dec(6)},
			{InsumoID: harina.ID, CantidadUtilizada: dec(6)},
		},
		PrecioVenta: &precio,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	h, _ := s.Insumos().GetByID(ctx, harina.ID)
	assert.True(t, h.Cantidad.Equal(dec(10)))
	productos, _ := s.Productos().List(ctx)
	assert.Empty(t, productos)
}

func TestProduccion_ProductoExistenteSuma(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	harina, _ := seed(t, s)
	pan, err := s.Productos().Create(ctx, &entity.Producto{Nombre: "Pan", Cantidad: dec(2), Unidad: "u"})
	require.NoError(t, err)

	_, err = s.Producciones().Create(ctx, &entity.ProduccionInput{
		NombreProducto: "Pan", CantidadProducida: dec(5), UnidadProducto: "u",
		Insumos:    []entity.InsumoConsumido{{InsumoID: harina.ID, CantidadUtilizada: dec(1)}},
		ProductoID: &pan.ID,
	})
	require.NoError(t, err)

	got, _ := s.Productos().GetByID(ctx, pan.ID)
	assert.True(t, got.Cantidad.Equal(dec(7)))
}

func TestVenta_DescuentaYRevierte(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	pan, err := s.Productos().Create(ctx, &entity.Producto{Nombre: "Pan", Cantidad: dec(5), Unidad: "u"})
	require.NoError(t, err)

	v, err := s.Ventas().Create(ctx, &entity.Venta{ProductoID: pan.ID, Cantidad: dec(2), PrecioUnitario: dec(5000), Fecha: time.Now()})
	require.NoError(t, err)
	require.NotNil(t, v.Producto)
	assert.Equal(t, "Pan", v.Producto.Nombre)

	_, err = s.Ventas().Update(ctx, v.ID, &entity.Venta{ProductoID: pan.ID, Cantidad: dec(9), PrecioUnitario: dec(5000)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	got, _ := s.Productos().GetByID(ctx, pan.ID)
	assert.True(t, got.Cantidad.Equal(dec(3)), "una actualización fallida no cambia el stock")

	require.NoError(t, s.Ventas().Delete(ctx, v.ID))
	got, _ = s.Productos().GetByID(ctx, pan.ID)
	assert.True(t, got.Cantidad.Equal(dec(5)))
}
