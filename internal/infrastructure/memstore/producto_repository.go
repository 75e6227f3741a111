package memstore

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// ProductoRepository implementa repository.ProductoRepository sobre el Store.
type ProductoRepository struct{ s *Store }

func (r ProductoRepository) List(_ context.Context) ([]entity.Producto, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Producto, 0, len(r.s.productos))
	for _, id := range sortedKeys(r.s.productos) {
		out = append(out, r.s.productos[id])
	}
	return out, nil
}

func (r ProductoRepository) GetByID(_ context.Context, id int64) (*entity.Producto, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.productos[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r ProductoRepository) Create(_ context.Context, in *entity.Producto) (*entity.Producto, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := *in
	out.ID = r.s.nextID()
	out.InsumosIDs = append([]int64{}, in.InsumosIDs...)
	out.CreatedAt = r.s.stamp()
	out.UpdatedAt = out.CreatedAt
	r.s.productos[out.ID] = out
	return &out, nil
}

func (r ProductoRepository) Update(_ context.Context, id int64, in *entity.Producto) (*entity.Producto, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.productos[id]
	if !ok {
		return nil, notFound("producto", id)
	}
	out := *in
	out.ID = id
	out.InsumosIDs = append([]int64{}, in.InsumosIDs...)
	out.CreatedAt = prev.CreatedAt
	out.UpdatedAt = r.s.stamp()
	r.s.productos[id] = out
	return &out, nil
}

func (r ProductoRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.productos[id]; !ok {
		return notFound("producto", id)
	}
	delete(r.s.productos, id)
	return nil
}
