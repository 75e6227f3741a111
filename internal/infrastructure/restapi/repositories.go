package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

var (
	_ repository.InsumoRepository     = (*InsumoRepository)(nil)
	_ repository.ProductoRepository   = (*ProductoRepository)(nil)
	_ repository.ProduccionRepository = (*ProduccionRepository)(nil)
	_ repository.VentaRepository      = (*VentaRepository)(nil)
)

// resource operaciones CRUD sobre una colección; R es el recurso y W el cuerpo de escritura.
type resource[R, W any] struct {
	c    *Client
	path string
}

// list devuelve una colección vacía si la respuesta no trae data.
func (r resource[R, W]) list(ctx context.Context) ([]R, error) {
	var out []R
	if err := r.c.Do(ctx, http.MethodGet, r.path, nil, &out); err != nil {
		return nil, fmt.Errorf("listar %s: %w", r.path, err)
	}
	if out == nil {
		out = []R{}
	}
	return out, nil
}

// get devuelve (nil, nil) ante 404.
func (r resource[R, W]) get(ctx context.Context, id int64) (*R, error) {
	var out R
	var found bool
	err := r.c.Do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", r.path, id), nil, &rawTarget[R]{v: &out, found: &found})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("obtener %s/%d: %w", r.path, id, err)
	}
	if !found {
		return nil, nil
	}
	return &out, nil
}

func (r resource[R, W]) create(ctx context.Context, in *W) (*R, error) {
	var out R
	if err := r.c.Do(ctx, http.MethodPost, r.path, in, &out); err != nil {
		return nil, fmt.Errorf("crear %s: %w", r.path, err)
	}
	return &out, nil
}

func (r resource[R, W]) update(ctx context.Context, id int64, in *W) (*R, error) {
	var out R
	if err := r.c.Do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", r.path, id), in, &out); err != nil {
		return nil, fmt.Errorf("actualizar %s/%d: %w", r.path, id, err)
	}
	return &out, nil
}

func (r resource[R, W]) delete(ctx context.Context, id int64) error {
	if err := r.c.Do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", r.path, id), nil, nil); err != nil {
		return fmt.Errorf("eliminar %s/%d: %w", r.path, id, err)
	}
	return nil
}

// rawTarget registra si la respuesta trajo data (un data null equivale a no encontrado).
type rawTarget[R any] struct {
	v     *R
	found *bool
}

func (t *rawTarget[R]) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	*t.found = true
	return json.Unmarshal(b, t.v)
}

// InsumoRepository /insumos.
type InsumoRepository struct{ r resource[entity.Insumo, entity.Insumo] }

// NewInsumoRepository construye el repositorio.
func NewInsumoRepository(c *Client) *InsumoRepository {
	return &InsumoRepository{r: resource[entity.Insumo, entity.Insumo]{c: c, path: "/insumos"}}
}

func (x *InsumoRepository) List(ctx context.Context) ([]entity.Insumo, error) { return x.r.list(ctx) }
func (x *InsumoRepository) GetByID(ctx context.Context, id int64) (*entity.Insumo, error) {
	return x.r.get(ctx, id)
}
func (x *InsumoRepository) Create(ctx context.Context, in *entity.Insumo) (*entity.Insumo, error) {
	return x.r.create(ctx, in)
}
func (x *InsumoRepository) Update(ctx context.Context, id int64, in *entity.Insumo) (*entity.Insumo, error) {
	return x.r.update(ctx, id, in)
}
func (x *InsumoRepository) Delete(ctx context.Context, id int64) error { return x.r.delete(ctx, id) }

// ProductoRepository /productos.
type ProductoRepository struct{ r resource[entity.Producto, entity.Producto] }

// NewProductoRepository construye el repositorio.
func NewProductoRepository(c *Client) *ProductoRepository {
	return &ProductoRepository{r: resource[entity.Producto, entity.Producto]{c: c, path: "/productos"}}
}

func (x *ProductoRepository) List(ctx context.Context) ([]entity.Producto, error) {
	return x.r.list(ctx)
}
func (x *ProductoRepository) GetByID(ctx context.Context, id int64) (*entity.Producto, error) {
	return x.r.get(ctx, id)
}
func (x *ProductoRepository) Create(ctx context.Context, in *entity.Producto) (*entity.Producto, error) {
	return x.r.create(ctx, in)
}
func (x *ProductoRepository) Update(ctx context.Context, id int64, in *entity.Producto) (*entity.Producto, error) {
	return x.r.update(ctx, id, in)
}
func (x *ProductoRepository) Delete(ctx context.Context, id int64) error { return x.r.delete(ctx, id) }

// ProduccionRepository /producciones. Las escrituras envían ProduccionInput.
type ProduccionRepository struct {
	r resource[entity.Produccion, entity.ProduccionInput]
}

// NewProduccionRepository construye el repositorio.
func NewProduccionRepository(c *Client) *ProduccionRepository {
	return &ProduccionRepository{r: resource[entity.Produccion, entity.ProduccionInput]{c: c, path: "/producciones"}}
}

func (x *ProduccionRepository) List(ctx context.Context) ([]entity.Produccion, error) {
	return x.r.list(ctx)
}
func (x *ProduccionRepository) GetByID(ctx context.Context, id int64) (*entity.Produccion, error) {
	return x.r.get(ctx, id)
}
func (x *ProduccionRepository) Create(ctx context.Context, in *entity.ProduccionInput) (*entity.Produccion, error) {
	return x.r.create(ctx, in)
}
func (x *ProduccionRepository) Update(ctx context.Context, id int64, in *entity.ProduccionInput) (*entity.Produccion, error) {
	return x.r.update(ctx, id, in)
}
func (x *ProduccionRepository) Delete(ctx context.Context, id int64) error {
	return x.r.delete(ctx, id)
}

// VentaRepository /ventas.
type VentaRepository struct{ r resource[entity.Venta, entity.Venta] }

// NewVentaRepository construye el repositorio.
func NewVentaRepository(c *Client) *VentaRepository {
	return &VentaRepository{r: resource[entity.Venta, entity.Venta]{c: c, path: "/ventas"}}
}

func (x *VentaRepository) List(ctx context.Context) ([]entity.Venta, error) { return x.r.list(ctx) }
func (x *VentaRepository) GetByID(ctx context.Context, id int64) (*entity.Venta, error) {
	return x.r.get(ctx, id)
}
func (x *VentaRepository) Create(ctx context.Context, in *entity.Venta) (*entity.Venta, error) {
	return x.r.create(ctx, writableVenta(in))
}
func (x *VentaRepository) Update(ctx context.Context, id int64, in *entity.Venta) (*entity.Venta, error) {
	return x.r.update(ctx, id, writableVenta(in))
}
func (x *VentaRepository) Delete(ctx context.Context, id int64) error { return x.r.delete(ctx, id) }

// writableVenta quita el producto embebido del cuerpo de escritura.
func writableVenta(in *entity.Venta) *entity.Venta {
	out := *in
	out.Producto = nil
	return &out
}
