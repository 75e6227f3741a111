// Package memstore implementa los repositorios de dominio en memoria del
// proceso. Reproduce los efectos de stock que aplica la API: una producción
// descuenta insumos y suma (o crea) el producto, una venta descuenta el producto.
package memstore

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// Store estado compartido por los cuatro repositorios.
type Store struct {
	mu           sync.RWMutex
	insumos      map[int64]entity.Insumo
	productos    map[int64]entity.Producto
	producciones map[int64]entity.Produccion
	ventas       map[int64]entity.Venta
	seq          int64
	now          func() time.Time
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		insumos:      make(map[int64]entity.Insumo),
		productos:    make(map[int64]entity.Producto),
		producciones: make(map[int64]entity.Produccion),
		ventas:       make(map[int64]entity.Venta),
		now:          time.Now,
	}
}

// Insumos repositorio de insumos.
func (s *Store) Insumos() InsumoRepository { return InsumoRepository{s: s} }

// Productos repositorio de productos.
func (s *Store) Productos() ProductoRepository { return ProductoRepository{s: s} }

// Producciones repositorio de producciones.
func (s *Store) Producciones() ProduccionRepository { return ProduccionRepository{s: s} }

// Ventas repositorio de ventas.
func (s *Store) Ventas() VentaRepository { return VentaRepository{s: s} }

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) stamp() *time.Time {
	t := s.now().UTC()
	return &t
}

func sortedKeys[T any](m map[int64]T) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("memstore: %s %d: %w", kind, id, domain.ErrNotFound)
}

func insufficient(kind, nombre string, disponible decimal.Decimal) error {
	return fmt.Errorf("memstore: stock insuficiente de %s %q (disponible %s): %w", kind, nombre, disponible, domain.ErrInvalidInput)
}

// ── Efectos de stock (requieren s.mu tomado) ─────────────────────────────────

// aplicarProduccion descuenta los insumos y suma al producto. Si la producción
// no trae producto_id crea el producto con precio_venta y devuelve su id.
func (s *Store) aplicarProduccion(in *entity.ProduccionInput) (int64, error) {
	requerido := make(map[int64]decimal.Decimal, len(in.Insumos))
	for _, c := range in.Insumos {
		requerido[c.InsumoID] = requerido[c.InsumoID].Add(c.CantidadUtilizada)
	}
	for id, cantidad := range requerido {
		ins, ok := s.insumos[id]
		if !ok {
			return 0, notFound("insumo", id)
		}
		if cantidad.GreaterThan(ins.Cantidad) {
			return 0, insufficient("insumo", ins.Nombre, ins.Cantidad)
		}
	}
	var productoID int64
	if in.ProductoID != nil {
		productoID = *in.ProductoID
		if _, ok := s.productos[productoID]; !ok {
			return 0, notFound("producto", productoID)
		}
	} else if in.PrecioVenta == nil {
		return 0, fmt.Errorf("memstore: %w", domain.ErrMissingSalePrice)
	}

	for _, c := range in.Insumos {
		ins := s.insumos[c.InsumoID]
		ins.Cantidad = ins.Cantidad.Sub(c.CantidadUtilizada)
		ins.UpdatedAt = s.stamp()
		s.insumos[c.InsumoID] = ins
	}
	if productoID != 0 {
		p := s.productos[productoID]
		p.Cantidad = p.Cantidad.Add(in.CantidadProducida)
		p.UpdatedAt = s.stamp()
		s.productos[productoID] = p
		return productoID, nil
	}
	precio := *in.PrecioVenta
	ids := make([]int64, 0, len(in.Insumos))
	for _, c := range in.Insumos {
		ids = append(ids, c.InsumoID)
	}
	p := entity.Producto{
		ID:          s.nextID(),
		Nombre:      in.NombreProducto,
		Cantidad:    in.CantidadProducida,
		Unidad:      in.UnidadProducto,
		PrecioVenta: &precio,
		InsumosIDs:  ids,
		CreatedAt:   s.stamp(),
		UpdatedAt:   s.stamp(),
	}
	s.productos[p.ID] = p
	return p.ID, nil
}

// revertirProduccion devuelve los insumos y resta lo producido del producto.
func (s *Store) revertirProduccion(p entity.Produccion) {
	for _, u := range p.InsumosUtilizados {
		if ins, ok := s.insumos[u.InsumoID]; ok {
			ins.Cantidad = ins.Cantidad.Add(u.CantidadUtilizada)
			s.insumos[u.InsumoID] = ins
		}
	}
	if p.ProductoID == nil {
		return
	}
	if prod, ok := s.productos[*p.ProductoID]; ok {
		prod.Cantidad = prod.Cantidad.Sub(p.CantidadProducida)
		s.productos[*p.ProductoID] = prod
	}
}

func (s *Store) aplicarVenta(v entity.Venta) error {
	p, ok := s.productos[v.ProductoID]
	if !ok {
		return notFound("producto", v.ProductoID)
	}
	if v.Cantidad.GreaterThan(p.Cantidad) {
		return insufficient("producto", p.Nombre, p.Cantidad)
	}
	p.Cantidad = p.Cantidad.Sub(v.Cantidad)
	p.UpdatedAt = s.stamp()
	s.productos[v.ProductoID] = p
	return nil
}

func (s *Store) revertirVenta(v entity.Venta) {
	if p, ok := s.productos[v.ProductoID]; ok {
		p.Cantidad = p.Cantidad.Add(v.Cantidad)
		s.productos[v.ProductoID] = p
	}
}

// stockBackup copia de cantidades para deshacer una actualización fallida.
type stockBackup struct {
	insumos   map[int64]entity.Insumo
	productos map[int64]entity.Producto
}

func (s *Store) backup() stockBackup {
	b := stockBackup{
		insumos:   make(map[int64]entity.Insumo, len(s.insumos)),
		productos: make(map[int64]entity.Producto, len(s.productos)),
	}
	for k, v := range s.insumos {
		b.insumos[k] = v
	}
	for k, v := range s.productos {
		b.productos[k] = v
	}
	return b
}

func (s *Store) restore(b stockBackup) {
	s.insumos = b.insumos
	s.productos = b.productos
}

// ── Vistas con relaciones embebidas, como las devuelve la API ────────────────

func (s *Store) ventaView(v entity.Venta) entity.Venta {
	if p, ok := s.productos[v.ProductoID]; ok {
		v.Producto = &p
	}
	return v
}

func (s *Store) produccionView(p entity.Produccion) entity.Produccion {
	if p.ProductoID != nil {
		if prod, ok := s.productos[*p.ProductoID]; ok {
			p.Producto = &prod
		}
	}
	lines := make([]entity.ProduccionInsumo, len(p.InsumosUtilizados))
	for i, u := range p.InsumosUtilizados {
		if ins, ok := s.insumos[u.InsumoID]; ok {
			u.Insumo = &ins
		}
		lines[i] = u
	}
	p.InsumosUtilizados = lines
	return p
}
