package cache

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

// Claves de colección. Una escritura invalida su colección y las que cambian
// como efecto en la API (stock de insumos y productos). Se invalida también si
// la escritura falló: la API pudo haberla aplicado antes de responder con error.
// GetByID cachea el "no existe" como nil.
const (
	KeyInsumos      = "insumos"
	KeyProductos    = "productos"
	KeyProducciones = "producciones"
	KeyVentas       = "ventas"
)

var (
	_ repository.InsumoRepository     = (*InsumoRepository)(nil)
	_ repository.ProductoRepository   = (*ProductoRepository)(nil)
	_ repository.ProduccionRepository = (*ProduccionRepository)(nil)
	_ repository.VentaRepository      = (*VentaRepository)(nil)
)

// ── Insumos ──────────────────────────────────────────────────────────────────

// InsumoRepository decorador con cache de repository.InsumoRepository.
type InsumoRepository struct {
	q     *QueryClient
	inner repository.InsumoRepository
}

// NewInsumoRepository envuelve inner.
func NewInsumoRepository(q *QueryClient, inner repository.InsumoRepository) *InsumoRepository {
	return &InsumoRepository{q: q, inner: inner}
}

func (r *InsumoRepository) List(ctx context.Context) ([]entity.Insumo, error) {
	return Fetch(ctx, r.q, KeyInsumos, r.inner.List)
}

func (r *InsumoRepository) GetByID(ctx context.Context, id int64) (*entity.Insumo, error) {
	return Fetch(ctx, r.q, Key(KeyInsumos, id), func(ctx context.Context) (*entity.Insumo, error) {
		return r.inner.GetByID(ctx, id)
	})
}

func (r *InsumoRepository) Create(ctx context.Context, in *entity.Insumo) (*entity.Insumo, error) {
	out, err := r.inner.Create(ctx, in)
	r.q.Invalidate(ctx, KeyInsumos)
	return out, err
}

func (r *InsumoRepository) Update(ctx context.Context, id int64, in *entity.Insumo) (*entity.Insumo, error) {
	out, err := r.inner.Update(ctx, id, in)
	r.q.Invalidate(ctx, KeyInsumos, KeyProducciones)
	return out, err
}

func (r *InsumoRepository) Delete(ctx context.Context, id int64) error {
	err := r.inner.Delete(ctx, id)
	r.q.Invalidate(ctx, KeyInsumos, KeyProducciones)
	return err
}

// ── Productos ────────────────────────────────────────────────────────────────

// ProductoRepository decorador con cache de repository.ProductoRepository.
type ProductoRepository struct {
	q     *QueryClient
	inner repository.ProductoRepository
}

// NewProductoRepository envuelve inner.
func NewProductoRepository(q *QueryClient, inner repository.ProductoRepository) *ProductoRepository {
	return &ProductoRepository{q: q, inner: inner}
}

func (r *ProductoRepository) List(ctx context.Context) ([]entity.Producto, error) {
	return Fetch(ctx, r.q, KeyProductos, r.inner.List)
}

func (r *ProductoRepository) GetByID(ctx context.Context, id int64) (*entity.Producto, error) {
	return Fetch(ctx, r.q, Key(KeyProductos, id), func(ctx context.Context) (*entity.Producto, error) {
		return r.inner.GetByID(ctx, id)
	})
}

func (r *ProductoRepository) Create(ctx context.Context, in *entity.Producto) (*entity.Producto, error) {
	out, err := r.inner.Create(ctx, in)
	r.q.Invalidate(ctx, KeyProductos)
	return out, err
}

func (r *ProductoRepository) Update(ctx context.Context, id int64, in *entity.Producto) (*entity.Producto, error) {
	out, err := r.inner.Update(ctx, id, in)
	r.q.Invalidate(ctx, KeyProductos, KeyVentas, KeyProducciones)
	return out, err
}

func (r *ProductoRepository) Delete(ctx context.Context, id int64) error {
	err := r.inner.Delete(ctx, id)
	r.q.Invalidate(ctx, KeyProductos, KeyVentas, KeyProducciones)
	return err
}

// ── Producciones ─────────────────────────────────────────────────────────────

// ProduccionRepository decorador con cache. Toda escritura invalida además
// insumos y productos porque la API mueve su stock.
type ProduccionRepository struct {
	q     *QueryClient
	inner repository.ProduccionRepository
}

// NewProduccionRepository envuelve inner.
func NewProduccionRepository(q *QueryClient, inner repository.ProduccionRepository) *ProduccionRepository {
	return &ProduccionRepository{q: q, inner: inner}
}

func (r *ProduccionRepository) List(ctx context.Context) ([]entity.Produccion, error) {
	return Fetch(ctx, r.q, KeyProducciones, r.inner.List)
}

func (r *ProduccionRepository) GetByID(ctx context.Context, id int64) (*entity.Produccion, error) {
	return Fetch(ctx, r.q, Key(KeyProducciones, id), func(ctx context.Context) (*entity.Produccion, error) {
		return r.inner.GetByID(ctx, id)
	})
}

func (r *ProduccionRepository) Create(ctx context.Context, in *entity.ProduccionInput) (*entity.Produccion, error) {
	out, err := r.inner.Create(ctx, in)
	r.q.Invalidate(ctx, KeyProducciones, KeyInsumos, KeyProductos)
	return out, err
}

func (r *ProduccionRepository) Update(ctx context.Context, id int64, in *entity.ProduccionInput) (*entity.Produccion, error) {
	out, err := r.inner.Update(ctx, id, in)
	r.q.Invalidate(ctx, KeyProducciones, KeyInsumos, KeyProductos)
	return out, err
}

func (r *ProduccionRepository) Delete(ctx context.Context, id int64) error {
	err := r.inner.Delete(ctx, id)
	r.q.Invalidate(ctx, KeyProducciones, KeyInsumos, KeyProductos)
	return err
}

// ── Ventas ───────────────────────────────────────────────────────────────────

// VentaRepository decorador con cache. Las escrituras invalidan además productos.
type VentaRepository struct {
	q     *QueryClient
	inner repository.VentaRepository
}

// NewVentaRepository envuelve inner.
func NewVentaRepository(q *QueryClient, inner repository.VentaRepository) *VentaRepository {
	return &VentaRepository{q: q, inner: inner}
}

func (r *VentaRepository) List(ctx context.Context) ([]entity.Venta, error) {
	return Fetch(ctx, r.q, KeyVentas, r.inner.List)
}

func (r *VentaRepository) GetByID(ctx context.Context, id int64) (*entity.Venta, error) {
	return Fetch(ctx, r.q, Key(KeyVentas, id), func(ctx context.Context) (*entity.Venta, error) {
		return r.inner.GetByID(ctx, id)
	})
}

func (r *VentaRepository) Create(ctx context.Context, in *entity.Venta) (*entity.Venta, error) {
	out, err := r.inner.Create(ctx, in)
	r.q.Invalidate(ctx, KeyVentas, KeyProductos)
	return out, err
}

func (r *VentaRepository) Update(ctx context.Context, id int64, in *entity.Venta) (*entity.Venta, error) {
	out, err := r.inner.Update(ctx, id, in)
	r.q.Invalidate(ctx, KeyVentas, KeyProductos)
	return out, err
}

func (r *VentaRepository) Delete(ctx context.Context, id int64) error {
	err := r.inner.Delete(ctx, id)
	r.q.Invalidate(ctx, KeyVentas, KeyProductos)
	return err
}
