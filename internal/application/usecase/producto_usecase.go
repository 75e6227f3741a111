package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

// ProductoUseCase casos de uso CRUD para productos.
type ProductoUseCase struct {
	repo repository.ProductoRepository
}

// NewProductoUseCase construye el caso de uso.
func NewProductoUseCase(repo repository.ProductoRepository) *ProductoUseCase {
	return &ProductoUseCase{repo: repo}
}

func (uc *ProductoUseCase) List(ctx context.Context) ([]entity.Producto, error) {
	return uc.repo.List(ctx)
}

// GetByID devuelve domain.ErrNotFound si el producto no existe.
func (uc *ProductoUseCase) GetByID(ctx context.Context, id int64) (*entity.Producto, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %d: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (uc *ProductoUseCase) Create(ctx context.Context, f dto.ProductoForm) (*entity.Producto, error) {
	p, err := f.ToEntity()
	if err != nil {
		return nil, err
	}
	return uc.repo.Create(ctx, p)
}

func (uc *ProductoUseCase) Update(ctx context.Context, id int64, f dto.ProductoForm) (*entity.Producto, error) {
	p, err := f.ToEntity()
	if err != nil {
		return nil, err
	}
	return uc.repo.Update(ctx, id, p)
}

func (uc *ProductoUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}
