package memstore

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// ProduccionRepository implementa repository.ProduccionRepository aplicando
// los movimientos de stock de cada producción.
type ProduccionRepository struct{ s *Store }

func (r ProduccionRepository) List(_ context.Context) ([]entity.Produccion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Produccion, 0, len(r.s.producciones))
	for _, id := range sortedKeys(r.s.producciones) {
		out = append(out, r.s.produccionView(r.s.producciones[id]))
	}
	return out, nil
}

func (r ProduccionRepository) GetByID(_ context.Context, id int64) (*entity.Produccion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.producciones[id]
	if !ok {
		return nil, nil
	}
	p = r.s.produccionView(p)
	return &p, nil
}

func (r ProduccionRepository) Create(_ context.Context, in *entity.ProduccionInput) (*entity.Produccion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b := r.s.backup()
	productoID, err := r.s.aplicarProduccion(in)
	if err != nil {
		r.s.restore(b)
		return nil, err
	}
	p := r.s.newProduccion(in, productoID)
	p.ID = r.s.nextID()
	p.CreatedAt = r.s.stamp()
	p.UpdatedAt = p.CreatedAt
	r.s.producciones[p.ID] = p
	out := r.s.produccionView(p)
	return &out, nil
}

func (r ProduccionRepository) Update(_ context.Context, id int64, in *entity.ProduccionInput) (*entity.Produccion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.producciones[id]
	if !ok {
		return nil, notFound("produccion", id)
	}
	b := r.s.backup()
	r.s.revertirProduccion(prev)
	productoID, err := r.s.aplicarProduccion(in)
	if err != nil {
		r.s.restore(b)
		return nil, err
	}
	p := r.s.newProduccion(in, productoID)
	p.ID = id
	p.CreatedAt = prev.CreatedAt
	p.UpdatedAt = r.s.stamp()
	r.s.producciones[id] = p
	out := r.s.produccionView(p)
	return &out, nil
}

func (r ProduccionRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.producciones[id]
	if !ok {
		return notFound("produccion", id)
	}
	r.s.revertirProduccion(p)
	delete(r.s.producciones, id)
	return nil
}

func (s *Store) newProduccion(in *entity.ProduccionInput, productoID int64) entity.Produccion {
	pid := productoID
	p := entity.Produccion{
		NombreProducto:    in.NombreProducto,
		CantidadProducida: in.CantidadProducida,
		UnidadProducto:    in.UnidadProducto,
		Fecha:             in.Fecha,
		ProductoID:        &pid,
		InsumosUtilizados: make([]entity.ProduccionInsumo, 0, len(in.Insumos)),
	}
	for _, c := range in.Insumos {
		p.InsumosUtilizados = append(p.InsumosUtilizados, entity.ProduccionInsumo{
			ID:                s.nextID(),
			InsumoID:          c.InsumoID,
			CantidadUtilizada: c.CantidadUtilizada,
		})
	}
	return p
}
