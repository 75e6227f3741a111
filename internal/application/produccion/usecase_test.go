package produccion_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/produccion"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes que cuentan llamadas
// ──────────────────────────────────────────────────────────────────────────────

type fakeProducciones struct {
	creates, updates int
	last             *entity.ProduccionInput
	err              error
}

func (f *fakeProducciones) List(context.Context) ([]entity.Produccion, error) { return nil, nil }
func (f *fakeProducciones) GetByID(context.Context, int64) (*entity.Produccion, error) {
	return nil, nil
}
func (f *fakeProducciones) Create(_ context.Context, in *entity.ProduccionInput) (*entity.Produccion, error) {
	f.creates++
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	return &entity.Produccion{ID: 1, NombreProducto: in.NombreProducto}, nil
}
func (f *fakeProducciones) Update(_ context.Context, id int64, in *entity.ProduccionInput) (*entity.Produccion, error) {
	f.updates++
	f.last = in
	return &entity.Produccion{ID: id, NombreProducto: in.NombreProducto}, nil
}
func (f *fakeProducciones) Delete(context.Context, int64) error { return nil }

type fakeInsumos struct {
	items         []entity.Insumo
	lists, writes int
}

func (f *fakeInsumos) List(context.Context) ([]entity.Insumo, error) {
	f.lists++
	return append([]entity.Insumo(nil), f.items...), nil
}
func (f *fakeInsumos) GetByID(context.Context, int64) (*entity.Insumo, error) { return nil, nil }
func (f *fakeInsumos) Create(_ context.Context, in *entity.Insumo) (*entity.Insumo, error) {
	f.writes++
	out := *in
	out.ID = int64(len(f.items) + 1)
	f.items = append(f.items, out)
	return &out, nil
}
func (f *fakeInsumos) Update(context.Context, int64, *entity.Insumo) (*entity.Insumo, error) {
	f.writes++
	return nil, nil
}
func (f *fakeInsumos) Delete(context.Context, int64) error {
	f.writes++
	return nil
}

type fakeProductos struct {
	items []entity.Producto
	err   error
}

func (f *fakeProductos) List(context.Context) ([]entity.Producto, error) { return f.items, f.err }
func (f *fakeProductos) GetByID(context.Context, int64) (*entity.Producto, error) {
	return nil, nil
}
func (f *fakeProductos) Create(context.Context, *entity.Producto) (*entity.Producto, error) {
	return nil, nil
}
func (f *fakeProductos) Update(context.Context, int64, *entity.Producto) (*entity.Producto, error) {
	return nil, nil
}
func (f *fakeProductos) Delete(context.Context, int64) error { return nil }

func newUseCase() (*produccion.UseCase, *fakeProducciones, *fakeInsumos) {
	prods := &fakeProducciones{}
	ins := &fakeInsumos{items: insumosFixture()}
	uc := produccion.NewUseCase(prods, ins, &fakeProductos{items: productosFixture()})
	return uc, prods, ins
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardar
// ──────────────────────────────────────────────────────────────────────────────

// Sin precio de venta en modo nuevo no debe haber llamada a la API.
func TestGuardar_SinPrecioNoLlamaALaAPI(t *testing.T) {
	uc, prods, _ := newUseCase()
	f := formNuevoValido()
	f.PrecioVenta = ""

	_, err := uc.Guardar(context.Background(), f, produccion.Catalogo{Insumos: insumosFixture(), Productos: productosFixture()})
	require.Error(t, err)

	fe, ok := dto.FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrMissingSalePrice.Error(), fe["precio_venta"])
	assert.Zero(t, prods.creates)
	assert.Zero(t, prods.updates)
}

func TestGuardar_CreaUnaVez(t *testing.T) {
	uc, prods, _ := newUseCase()

	out, err := uc.Guardar(context.Background(), formNuevoValido(), produccion.Catalogo{Insumos: insumosFixture(), Productos: productosFixture()})
	require.NoError(t, err)
	assert.Equal(t, "Torta", out.NombreProducto)
	assert.Equal(t, 1, prods.creates)
	require.NotNil(t, prods.last.PrecioVenta)
}

func TestGuardar_EdicionActualiza(t *testing.T) {
	uc, prods, _ := newUseCase()
	f := formNuevoValido()
	f.ID = 7

	out, err := uc.Guardar(context.Background(), f, produccion.Catalogo{Insumos: insumosFixture(), Productos: productosFixture()})
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.ID)
	assert.Equal(t, 1, prods.updates)
	assert.Zero(t, prods.creates)
}

func TestGuardar_ErrorDeAPISePropaga(t *testing.T) {
	uc, prods, _ := newUseCase()
	prods.err = domain.ErrUnavailable

	_, err := uc.Guardar(context.Background(), formNuevoValido(), produccion.Catalogo{Insumos: insumosFixture(), Productos: productosFixture()})
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	_, isValidation := dto.FieldErrors(err)
	assert.False(t, isValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo y modal de insumo
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalogo(t *testing.T) {
	uc, _, _ := newUseCase()
	cat, err := uc.Catalogo(context.Background())
	require.NoError(t, err)
	assert.Len(t, cat.Insumos, 3)
	assert.Len(t, cat.Productos, 1)
}

func TestCatalogo_ErrorDeProductos(t *testing.T) {
	prods := &fakeProducciones{}
	uc := produccion.NewUseCase(prods, &fakeInsumos{}, &fakeProductos{err: errors.New("boom")})

	_, err := uc.Catalogo(context.Background())
	assert.Error(t, err)
}

func TestCrearInsumo_RefrescaLista(t *testing.T) {
	uc, _, ins := newUseCase()

	created, lista, err := uc.CrearInsumo(context.Background(), dto.InsumoForm{Nombre: "Levadura", Cantidad: "2", Unidad: "kg"})
	require.NoError(t, err)
	assert.Equal(t, "Levadura", created.Nombre)
	assert.Len(t, lista, 4)
	assert.Equal(t, 1, ins.writes)
	assert.Equal(t, 1, ins.lists)
}

func TestCrearInsumo_Invalido(t *testing.T) {
	uc, _, ins := newUseCase()

	_, _, err := uc.CrearInsumo(context.Background(), dto.InsumoForm{})
	_, ok := dto.FieldErrors(err)
	assert.True(t, ok)
	assert.Zero(t, ins.writes)
}
