package repository

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// VentaRepository puerto de acceso a la colección /ventas.
// GetByID devuelve (nil, nil) si el recurso no existe.
type VentaRepository interface {
	List(ctx context.Context) ([]entity.Venta, error)
	GetByID(ctx context.Context, id int64) (*entity.Venta, error)
	Create(ctx context.Context, in *entity.Venta) (*entity.Venta, error)
	Update(ctx context.Context, id int64, in *entity.Venta) (*entity.Venta, error)
	Delete(ctx context.Context, id int64) error
}
