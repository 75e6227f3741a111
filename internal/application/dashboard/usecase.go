// Package dashboard arma el resumen del panel principal a partir de las cuatro
// colecciones de la API.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/inventory"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

// UseCase genera el resumen del dashboard.
//
// Cada colección se pide por separado (no hay snapshot transaccional); el
// resultado puede mezclar estados de distintos instantes.
type UseCase struct {
	insumos      repository.InsumoRepository
	productos    repository.ProductoRepository
	producciones repository.ProduccionRepository
	ventas       repository.VentaRepository
	now          func() time.Time
}

// NewUseCase construye el caso de uso. now define el reloj y la zona horaria
// con la que se evalúan "hoy" y "este mes".
func NewUseCase(
	insumos repository.InsumoRepository,
	productos repository.ProductoRepository,
	producciones repository.ProduccionRepository,
	ventas repository.VentaRepository,
	now func() time.Time,
) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{insumos: insumos, productos: productos, producciones: producciones, ventas: ventas, now: now}
}

// Snapshot obtiene las cuatro colecciones en paralelo.
func (uc *UseCase) Snapshot(ctx context.Context) (inventory.Snapshot, error) {
	type insumosResult struct {
		items []entity.Insumo
		err   error
	}
	type productosResult struct {
		items []entity.Producto
		err   error
	}
	type produccionesResult struct {
		items []entity.Produccion
		err   error
	}
	type ventasResult struct {
		items []entity.Venta
		err   error
	}

	insumosCh := make(chan insumosResult, 1)
	productosCh := make(chan productosResult, 1)
	produccionesCh := make(chan produccionesResult, 1)
	ventasCh := make(chan ventasResult, 1)

	go func() {
		items, err := uc.insumos.List(ctx)
		insumosCh <- insumosResult{items, err}
	}()
	go func() {
		items, err := uc.productos.List(ctx)
		productosCh <- productosResult{items, err}
	}()
	go func() {
		items, err := uc.producciones.List(ctx)
		produccionesCh <- produccionesResult{items, err}
	}()
	go func() {
		items, err := uc.ventas.List(ctx)
		ventasCh <- ventasResult{items, err}
	}()

	ins := <-insumosCh
	prods := <-productosCh
	producciones := <-produccionesCh
	ventas := <-ventasCh

	if ins.err != nil {
		return inventory.Snapshot{}, fmt.Errorf("dashboard: insumos: %w", ins.err)
	}
	if prods.err != nil {
		return inventory.Snapshot{}, fmt.Errorf("dashboard: productos: %w", prods.err)
	}
	if producciones.err != nil {
		return inventory.Snapshot{}, fmt.Errorf("dashboard: producciones: %w", producciones.err)
	}
	if ventas.err != nil {
		return inventory.Snapshot{}, fmt.Errorf("dashboard: ventas: %w", ventas.err)
	}

	return inventory.Snapshot{
		Insumos:      ins.items,
		Productos:    prods.items,
		Producciones: producciones.items,
		Ventas:       ventas.items,
	}, nil
}

// Summary agrega el snapshot con la hora actual.
func (uc *UseCase) Summary(ctx context.Context) (inventory.Summary, error) {
	snap, err := uc.Snapshot(ctx)
	if err != nil {
		return inventory.Summary{}, err
	}
	return inventory.Summarize(snap, uc.now()), nil
}

// GetSummary devuelve el resumen como DTO para GET /api/dashboard.
func (uc *UseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	s, err := uc.Summary(ctx)
	if err != nil {
		return nil, err
	}
	out := dto.NewDashboardSummaryDTO(s)
	return &out, nil
}
