package produccion

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

// Catalogo snapshot de insumos y productos contra el que se concilia el formulario.
type Catalogo struct {
	Insumos   []entity.Insumo
	Productos []entity.Producto
}

// UseCase guarda producciones y da de alta insumos desde el formulario.
type UseCase struct {
	producciones repository.ProduccionRepository
	insumos      repository.InsumoRepository
	productos    repository.ProductoRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	producciones repository.ProduccionRepository,
	insumos repository.InsumoRepository,
	productos repository.ProductoRepository,
) *UseCase {
	return &UseCase{producciones: producciones, insumos: insumos, productos: productos}
}

// Catalogo obtiene insumos y productos en paralelo.
func (uc *UseCase) Catalogo(ctx context.Context) (Catalogo, error) {
	type insumosResult struct {
		items []entity.Insumo
		err   error
	}
	type productosResult struct {
		items []entity.Producto
		err   error
	}
	insumosCh := make(chan insumosResult, 1)
	productosCh := make(chan productosResult, 1)

	go func() {
		items, err := uc.insumos.List(ctx)
		insumosCh <- insumosResult{items, err}
	}()
	go func() {
		items, err := uc.productos.List(ctx)
		productosCh <- productosResult{items, err}
	}()

	ins := <-insumosCh
	prods := <-productosCh
	if ins.err != nil {
		return Catalogo{}, fmt.Errorf("produccion: insumos: %w", ins.err)
	}
	if prods.err != nil {
		return Catalogo{}, fmt.Errorf("produccion: productos: %w", prods.err)
	}
	return Catalogo{Insumos: ins.items, Productos: prods.items}, nil
}

// Guardar valida el formulario contra cat y crea o actualiza la producción.
// Un formulario inválido no llega a la API.
func (uc *UseCase) Guardar(ctx context.Context, f *Form, cat Catalogo) (*entity.Produccion, error) {
	if err := f.Validar(cat.Insumos, cat.Productos); err != nil {
		return nil, err
	}
	in, err := f.Payload()
	if err != nil {
		return nil, err
	}
	if f.EsEdicion() {
		out, err := uc.producciones.Update(ctx, f.ID, in)
		if err != nil {
			return nil, fmt.Errorf("produccion: actualizar %d: %w", f.ID, err)
		}
		return out, nil
	}
	out, err := uc.producciones.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("produccion: crear: %w", err)
	}
	return out, nil
}

// CrearInsumo da de alta un insumo desde el modal y devuelve la lista de
// insumos vuelta a pedir para que el nuevo quede seleccionable.
func (uc *UseCase) CrearInsumo(ctx context.Context, form dto.InsumoForm) (*entity.Insumo, []entity.Insumo, error) {
	in, err := form.ToEntity()
	if err != nil {
		return nil, nil, err
	}
	created, err := uc.insumos.Create(ctx, in)
	if err != nil {
		return nil, nil, fmt.Errorf("produccion: crear insumo: %w", err)
	}
	insumos, err := uc.insumos.List(ctx)
	if err != nil {
		return created, nil, fmt.Errorf("produccion: refrescar insumos: %w", err)
	}
	return created, insumos, nil
}

// List devuelve las producciones.
func (uc *UseCase) List(ctx context.Context) ([]entity.Produccion, error) {
	return uc.producciones.List(ctx)
}

// GetByID devuelve domain.ErrNotFound si la producción no existe.
func (uc *UseCase) GetByID(ctx context.Context, id int64) (*entity.Produccion, error) {
	p, err := uc.producciones.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("produccion %d: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// Delete elimina la producción; la API revierte sus movimientos de stock.
func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	return uc.producciones.Delete(ctx, id)
}
