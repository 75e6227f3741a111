package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// InsumosDisponibles devuelve los insumos elegibles para la fila `fila`: todos
// menos los ya seleccionados en otras filas. Un id 0 significa "sin seleccionar".
func InsumosDisponibles(insumos []entity.Insumo, seleccionados []int64, fila int) []entity.Insumo {
	usados := make(map[int64]struct{}, len(seleccionados))
	for i, id := range seleccionados {
		if i == fila || id == 0 {
			continue
		}
		usados[id] = struct{}{}
	}
	out := make([]entity.Insumo, 0, len(insumos))
	for _, in := range insumos {
		if _, ok := usados[in.ID]; ok {
			continue
		}
		out = append(out, in)
	}
	return out
}

// FilasDuplicadas devuelve los índices de filas cuyo insumo ya aparece en una fila anterior.
func FilasDuplicadas(seleccionados []int64) []int {
	vistos := make(map[int64]struct{}, len(seleccionados))
	var dup []int
	for i, id := range seleccionados {
		if id == 0 {
			continue
		}
		if _, ok := vistos[id]; ok {
			dup = append(dup, i)
			continue
		}
		vistos[id] = struct{}{}
	}
	return dup
}

// BuscarInsumo busca por id en el snapshot; nil si no está.
func BuscarInsumo(insumos []entity.Insumo, id int64) *entity.Insumo {
	for i := range insumos {
		if insumos[i].ID == id {
			return &insumos[i]
		}
	}
	return nil
}

// BuscarProducto busca por id en el snapshot; nil si no está.
func BuscarProducto(productos []entity.Producto, id int64) *entity.Producto {
	for i := range productos {
		if productos[i].ID == id {
			return &productos[i]
		}
	}
	return nil
}

// ExcedeStock indica si cantidad supera el stock conocido. Es una verificación
// orientativa: el snapshot puede estar desactualizado y la API decide.
func ExcedeStock(cantidad, stock decimal.Decimal) bool {
	return cantidad.GreaterThan(stock)
}

// CostoInsumos estima el costo de los insumos consumidos usando precio_unitario.
// Los insumos sin precio o fuera del snapshot no suman.
func CostoInsumos(consumos []entity.InsumoConsumido, insumos []entity.Insumo) decimal.Decimal {
	total := decimal.Zero
	for _, c := range consumos {
		in := BuscarInsumo(insumos, c.InsumoID)
		if in == nil || in.PrecioUnitario == nil {
			continue
		}
		total = total.Add(c.CantidadUtilizada.Mul(*in.PrecioUnitario))
	}
	return total
}
