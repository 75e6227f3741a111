package repository

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// ProductoRepository puerto de acceso a la colección /productos.
// GetByID devuelve (nil, nil) si el recurso no existe.
type ProductoRepository interface {
	List(ctx context.Context) ([]entity.Producto, error)
	GetByID(ctx context.Context, id int64) (*entity.Producto, error)
	Create(ctx context.Context, in *entity.Producto) (*entity.Producto, error)
	Update(ctx context.Context, id int64, in *entity.Producto) (*entity.Producto, error)
	Delete(ctx context.Context, id int64) error
}
