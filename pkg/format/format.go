// Package format reúne el formateo de moneda (Guaraníes), números y fechas
// con las convenciones de es-PY: punto como separador de miles y coma decimal.
package format

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

const (
	currencyPrefix = "Gs "
	// InvalidDate se devuelve cuando la fecha no se puede interpretar.
	InvalidDate = "Fecha inválida"

	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006, 15:04"
)

var location atomic.Pointer[time.Location]

// SetLocation fija la zona horaria usada para mostrar fechas (por defecto time.Local).
func SetLocation(loc *time.Location) {
	if loc != nil {
		location.Store(loc)
	}
}

// Location devuelve la zona horaria activa.
func Location() *time.Location {
	if loc := location.Load(); loc != nil {
		return loc
	}
	return time.Local
}

// Currency formatea un monto como "Gs 5.000" (o "Gs 5.000,50" con decimales).
// nil, cadenas no numéricas y valores no finitos se muestran como "Gs 0".
func Currency(amount any, showDecimals bool) string {
	d, ok := toDecimal(amount)
	if !ok {
		return currencyPrefix + "0"
	}
	return currencyPrefix + formatDecimal(d, showDecimals)
}

// Amount formatea el monto sin símbolo de moneda.
func Amount(amount any, showDecimals bool) string {
	d, ok := toDecimal(amount)
	if !ok {
		return "0"
	}
	return formatDecimal(d, showDecimals)
}

// Total calcula cantidad × precio unitario y lo formatea como moneda.
func Total(quantity, unitPrice decimal.Decimal) string {
	return Currency(quantity.Mul(unitPrice), false)
}

// Number formatea un entero con separador de miles.
func Number(n any) string {
	return Amount(n, false)
}

// Date formatea como "31/12/2023". Acepta time.Time, *time.Time o string.
func Date(v any) string {
	t, ok := toTime(v)
	if !ok {
		return InvalidDate
	}
	return t.In(Location()).Format(dateLayout)
}

// DateTime formatea como "31/12/2023, 14:30".
func DateTime(v any) string {
	t, ok := toTime(v)
	if !ok {
		return InvalidDate
	}
	return t.In(Location()).Format(dateTimeLayout)
}

// Quantity muestra cantidades de stock sin ceros de relleno (12.5 → "12,5").
func Quantity(d decimal.Decimal) string {
	s := d.String()
	intPart, frac, _ := strings.Cut(s, ".")
	out := groupThousands(intPart)
	if frac != "" {
		out += "," + frac
	}
	return out
}

func formatDecimal(d decimal.Decimal, showDecimals bool) string {
	places := int32(0)
	if showDecimals {
		places = 2
	}
	s := d.StringFixed(places)
	intPart, frac, _ := strings.Cut(s, ".")
	out := groupThousands(intPart)
	if frac != "" {
		out += "," + frac
	}
	return out
}

func groupThousands(intPart string) string {
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}
	if len(intPart) <= 3 {
		return sign + intPart
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String()
}

// numericPrefix acepta el prefijo numérico de una cadena ("12abc" → "12").
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false
		}
		return *n, true
	case decimal.NullDecimal:
		return n.Decimal, n.Valid
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return decimal.RequireFromString(strconv.FormatUint(uint64(n), 10)), true
	case uint64:
		return decimal.RequireFromString(strconv.FormatUint(n, 10)), true
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case string:
		m := numericPrefix.FindString(strings.TrimSpace(n))
		if m == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(normalizeNumber(m))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// normalizeNumber adapta el prefijo a lo que acepta decimal ("+.5" → "0.5", "12." → "12").
func normalizeNumber(m string) string {
	sign := ""
	switch {
	case strings.HasPrefix(m, "-"):
		sign, m = "-", m[1:]
	case strings.HasPrefix(m, "+"):
		m = m[1:]
	}
	if strings.HasPrefix(m, ".") {
		m = "0" + m
	}
	mantissa, exp, hasExp := strings.Cut(strings.ToLower(m), "e")
	mantissa = strings.TrimSuffix(mantissa, ".")
	if hasExp {
		return sign + mantissa + "e" + exp
	}
	return sign + mantissa
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case string:
		parsed, err := ParseFecha(t)
		return parsed, err == nil
	default:
		return time.Time{}, false
	}
}

// Formatos aceptados al leer fechas: ISO-8601 de la API y "datetime-local" de los formularios.
// Los que no llevan zona se interpretan en Location().
var (
	zonedLayouts = []string{time.RFC3339Nano, time.RFC3339}
	localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"}
)

// ParseFecha interpreta una fecha en cualquiera de los formatos aceptados.
func ParseFecha(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range zonedLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	for _, layout := range localLayouts {
		t, err := time.ParseInLocation(layout, s, Location())
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// InputDateTime devuelve el valor para un <input type="datetime-local">.
func InputDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Location()).Format("2006-01-02T15:04")
}
