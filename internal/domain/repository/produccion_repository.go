package repository

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// ProduccionRepository puerto de acceso a la colección /producciones.
// Las escrituras usan ProduccionInput; la API aplica los movimientos de stock.
type ProduccionRepository interface {
	List(ctx context.Context) ([]entity.Produccion, error)
	GetByID(ctx context.Context, id int64) (*entity.Produccion, error)
	Create(ctx context.Context, in *entity.ProduccionInput) (*entity.Produccion, error)
	Update(ctx context.Context, id int64, in *entity.ProduccionInput) (*entity.Produccion, error)
	Delete(ctx context.Context, id int64) error
}
