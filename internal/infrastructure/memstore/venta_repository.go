package memstore

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// VentaRepository implementa repository.VentaRepository. Crear una venta
// descuenta el stock del producto; borrarla lo devuelve.
type VentaRepository struct{ s *Store }

func (r VentaRepository) List(_ context.Context) ([]entity.Venta, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Venta, 0, len(r.s.ventas))
	for _, id := range sortedKeys(r.s.ventas) {
		out = append(out, r.s.ventaView(r.s.ventas[id]))
	}
	return out, nil
}

func (r VentaRepository) GetByID(_ context.Context, id int64) (*entity.Venta, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.ventas[id]
	if !ok {
		return nil, nil
	}
	v = r.s.ventaView(v)
	return &v, nil
}

func (r VentaRepository) Create(_ context.Context, in *entity.Venta) (*entity.Venta, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v := *in
	v.Producto = nil
	if err := r.s.aplicarVenta(v); err != nil {
		return nil, err
	}
	v.ID = r.s.nextID()
	v.CreatedAt = r.s.stamp()
	v.UpdatedAt = v.CreatedAt
	r.s.ventas[v.ID] = v
	out := r.s.ventaView(v)
	return &out, nil
}

func (r VentaRepository) Update(_ context.Context, id int64, in *entity.Venta) (*entity.Venta, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.ventas[id]
	if !ok {
		return nil, notFound("venta", id)
	}
	b := r.s.backup()
	r.s.revertirVenta(prev)
	v := *in
	v.Producto = nil
	if err := r.s.aplicarVenta(v); err != nil {
		r.s.restore(b)
		return nil, err
	}
	v.ID = id
	v.CreatedAt = prev.CreatedAt
	v.UpdatedAt = r.s.stamp()
	r.s.ventas[id] = v
	out := r.s.ventaView(v)
	return &out, nil
}

func (r VentaRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.ventas[id]
	if !ok {
		return notFound("venta", id)
	}
	r.s.revertirVenta(v)
	delete(r.s.ventas, id)
	return nil
}
