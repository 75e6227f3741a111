package produccion

import (
	"net/url"
	"strconv"
	"strings"
)

// Acciones que puede enviar el formulario (botón pulsado).
const (
	AccionGuardar          = "guardar"
	AccionAgregarInsumo    = "agregar_insumo"
	AccionQuitarPrefijo    = "quitar:"
	AccionActualizar       = "actualizar"
	AccionAbrirModalInsumo = "abrir_modal_insumo"
	AccionCrearInsumo      = "crear_insumo"
)

// ParseForm reconstruye el formulario desde el POST. Las filas llegan como
// campos repetidos insumo_id / cantidad_utilizada en el mismo orden.
// Si el modo enviado difiere de modo_anterior se aplica SetModo.
func ParseForm(v url.Values) *Form {
	f := &Form{
		ID:                parseID(v.Get("id")),
		Modo:              parseModo(v.Get("modo_anterior")),
		ProductoID:        parseID(v.Get("producto_id")),
		NombreProducto:    v.Get("nombre_producto"),
		CantidadProducida: v.Get("cantidad_producida"),
		UnidadProducto:    v.Get("unidad_producto"),
		PrecioVenta:       v.Get("precio_venta"),
		Fecha:             v.Get("fecha"),
	}
	if v.Get("modo_anterior") == "" {
		f.Modo = parseModo(v.Get("modo"))
	}
	ids := v["insumo_id"]
	cantidades := v["cantidad_utilizada"]
	for i, raw := range ids {
		r := Fila{InsumoID: parseID(raw)}
		if i < len(cantidades) {
			r.Cantidad = cantidades[i]
		}
		f.Filas = append(f.Filas, r)
	}
	if m := parseModo(v.Get("modo")); v.Get("modo") != "" && m != f.Modo {
		f.SetModo(m)
	}
	return f
}

// Aplicar ejecuta las acciones que sólo cambian el estado del formulario.
// Devuelve true si la acción pide guardar.
func (f *Form) Aplicar(accion string) bool {
	switch {
	case accion == AccionGuardar:
		return true
	case accion == AccionAgregarInsumo:
		f.AgregarFila()
	case strings.HasPrefix(accion, AccionQuitarPrefijo):
		i, err := strconv.Atoi(strings.TrimPrefix(accion, AccionQuitarPrefijo))
		if err == nil {
			f.QuitarFila(i)
		}
	}
	return false
}

func parseModo(s string) Modo {
	if Modo(strings.TrimSpace(s)) == ModoExistente {
		return ModoExistente
	}
	return ModoNuevo
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
