package memstore

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// InsumoRepository implementa repository.InsumoRepository sobre el Store.
type InsumoRepository struct{ s *Store }

// List devuelve los insumos ordenados por id.
func (r InsumoRepository) List(_ context.Context) ([]entity.Insumo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Insumo, 0, len(r.s.insumos))
	for _, id := range sortedKeys(r.s.insumos) {
		out = append(out, r.s.insumos[id])
	}
	return out, nil
}

func (r InsumoRepository) GetByID(_ context.Context, id int64) (*entity.Insumo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	in, ok := r.s.insumos[id]
	if !ok {
		return nil, nil
	}
	return &in, nil
}

func (r InsumoRepository) Create(_ context.Context, in *entity.Insumo) (*entity.Insumo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := *in
	out.ID = r.s.nextID()
	out.CreatedAt = r.s.stamp()
	out.UpdatedAt = out.CreatedAt
	r.s.insumos[out.ID] = out
	return &out, nil
}

func (r InsumoRepository) Update(_ context.Context, id int64, in *entity.Insumo) (*entity.Insumo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.insumos[id]
	if !ok {
		return nil, notFound("insumo", id)
	}
	out := *in
	out.ID = id
	out.CreatedAt = prev.CreatedAt
	out.UpdatedAt = r.s.stamp()
	r.s.insumos[id] = out
	return &out, nil
}

func (r InsumoRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.insumos[id]; !ok {
		return notFound("insumo", id)
	}
	delete(r.s.insumos, id)
	return nil
}
