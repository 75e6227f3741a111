package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

// VentaUseCase casos de uso CRUD para ventas. La cantidad se valida contra el
// último stock conocido del producto; la API tiene la última palabra.
type VentaUseCase struct {
	repo      repository.VentaRepository
	productos repository.ProductoRepository
}

// NewVentaUseCase construye el caso de uso.
func NewVentaUseCase(repo repository.VentaRepository, productos repository.ProductoRepository) *VentaUseCase {
	return &VentaUseCase{repo: repo, productos: productos}
}

func (uc *VentaUseCase) List(ctx context.Context) ([]entity.Venta, error) {
	return uc.repo.List(ctx)
}

// GetByID devuelve domain.ErrNotFound si la venta no existe.
func (uc *VentaUseCase) GetByID(ctx context.Context, id int64) (*entity.Venta, error) {
	v, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("venta %d: %w", id, domain.ErrNotFound)
	}
	return v, nil
}

// Productos opciones del formulario de venta.
func (uc *VentaUseCase) Productos(ctx context.Context) ([]entity.Producto, error) {
	return uc.productos.List(ctx)
}

// Create valida contra productos y crea la venta.
func (uc *VentaUseCase) Create(ctx context.Context, f dto.VentaForm, productos []entity.Producto) (*entity.Venta, error) {
	v, err := f.ToEntity(productos)
	if err != nil {
		return nil, err
	}
	return uc.repo.Create(ctx, v)
}

// Update valida contra productos y actualiza la venta.
func (uc *VentaUseCase) Update(ctx context.Context, id int64, f dto.VentaForm, productos []entity.Producto) (*entity.Venta, error) {
	v, err := f.ToEntity(productos)
	if err != nil {
		return nil, err
	}
	return uc.repo.Update(ctx, id, v)
}

func (uc *VentaUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}
