package repository

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// InsumoRepository puerto de acceso a la colección /insumos.
// GetByID devuelve (nil, nil) si el recurso no existe.
type InsumoRepository interface {
	List(ctx context.Context) ([]entity.Insumo, error)
	GetByID(ctx context.Context, id int64) (*entity.Insumo, error)
	Create(ctx context.Context, in *entity.Insumo) (*entity.Insumo, error)
	Update(ctx context.Context, id int64, in *entity.Insumo) (*entity.Insumo, error)
	Delete(ctx context.Context, id int64) error
}
