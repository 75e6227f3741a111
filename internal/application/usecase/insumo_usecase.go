package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

// InsumoUseCase casos de uso CRUD para insumos. El stock lo mueven producciones en la API.
type InsumoUseCase struct {
	repo repository.InsumoRepository
}

// NewInsumoUseCase construye el caso de uso.
func NewInsumoUseCase(repo repository.InsumoRepository) *InsumoUseCase {
	return &InsumoUseCase{repo: repo}
}

// List devuelve todos los insumos.
func (uc *InsumoUseCase) List(ctx context.Context) ([]entity.Insumo, error) {
	return uc.repo.List(ctx)
}

// GetByID devuelve domain.ErrNotFound si el insumo no existe.
func (uc *InsumoUseCase) GetByID(ctx context.Context, id int64) (*entity.Insumo, error) {
	in, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, fmt.Errorf("insumo %d: %w", id, domain.ErrNotFound)
	}
	return in, nil
}

// Create valida el formulario y crea el insumo.
func (uc *InsumoUseCase) Create(ctx context.Context, f dto.InsumoForm) (*entity.Insumo, error) {
	in, err := f.ToEntity()
	if err != nil {
		return nil, err
	}
	return uc.repo.Create(ctx, in)
}

// Update valida el formulario y actualiza el insumo.
func (uc *InsumoUseCase) Update(ctx context.Context, id int64, f dto.InsumoForm) (*entity.Insumo, error) {
	in, err := f.ToEntity()
	if err != nil {
		return nil, err
	}
	return uc.repo.Update(ctx, id, in)
}

// Delete elimina el insumo.
func (uc *InsumoUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}
