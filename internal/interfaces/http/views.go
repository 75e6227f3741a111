package http

import (
	"embed"
	"fmt"
	"io/fs"
	nethttp "net/http"
	"slices"

	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/produccion"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/pkg/format"
)

//go:embed templates
var templatesFS embed.FS

const layoutMain = "layouts/main"

// NewViews motor de plantillas HTML embebidas con las funciones de formato.
func NewViews() *html.Engine {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(fmt.Sprintf("http: plantillas embebidas: %v", err))
	}
	engine := html.NewFileSystem(nethttp.FS(sub), ".html")
	engine.AddFuncMap(map[string]interface{}{
		"moneda": func(v any) string { return format.Currency(v, false) },
		"monedaDecimales": func(v any) string {
			return format.Currency(v, true)
		},
		"numero":    format.Number,
		"fecha":     format.Date,
		"fechaHora": format.DateTime,
		"cantidad":  format.Quantity,
		"total":     format.Total,
		"claveFila": produccion.ClaveFila,
		"nombreProducto": func(v entity.Venta) string {
			return dto.NombreProductoVenta(v)
		},
		"esPositivo": func(d *decimal.Decimal) bool { return d != nil && d.IsPositive() },
		"dict":       dict,
	})
	return engine
}

// dict arma un map para pasar varios valores a un parcial: (dict "Name" "x" "Value" y).
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: cantidad impar de argumentos")
	}
	out := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: la clave %v no es string", pairs[i])
		}
		out[k] = pairs[i+1]
	}
	return out, nil
}

// Opciones de los <select>, ordenadas con colación española (ñ y acentos en su lugar).

func insumoOptions(insumos []entity.Insumo) []dto.InsumoOption {
	sorted := slices.Clone(insumos)
	cl := collate.New(language.Spanish, collate.IgnoreCase)
	slices.SortStableFunc(sorted, func(a, b entity.Insumo) int {
		return cl.CompareString(a.Nombre, b.Nombre)
	})
	out := make([]dto.InsumoOption, 0, len(sorted))
	for _, in := range sorted {
		out = append(out, dto.NewInsumoOption(in))
	}
	return out
}

func productoOptions(productos []entity.Producto) []dto.ProductoOption {
	sorted := slices.Clone(productos)
	cl := collate.New(language.Spanish, collate.IgnoreCase)
	slices.SortStableFunc(sorted, func(a, b entity.Producto) int {
		return cl.CompareString(a.Nombre, b.Nombre)
	})
	out := make([]dto.ProductoOption, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, dto.NewProductoOption(p))
	}
	return out
}
