package dto

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors errores de formulario por campo (se muestran junto al campo).
type ValidationErrors map[string]string

// Error implementa error.
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// Has indica si hay error para el campo.
func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// FieldErrors convierte el error de ozzo-validation en ValidationErrors.
// Devuelve false si err no es un error de validación.
func FieldErrors(err error) (ValidationErrors, bool) {
	var own ValidationErrors
	if errors.As(err, &own) {
		return own, true
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	out := make(ValidationErrors, len(verrs))
	for field, e := range verrs {
		if e != nil {
			out[field] = e.Error()
		}
	}
	return out, true
}

// MergeErrors agrega errores de validación adicionales a err (que puede ser nil).
func MergeErrors(err error, extra ValidationErrors) error {
	if len(extra) == 0 {
		return err
	}
	if err == nil {
		return extra
	}
	base, ok := FieldErrors(err)
	if !ok {
		return err
	}
	for k, v := range extra {
		if _, exists := base[k]; !exists {
			base[k] = v
		}
	}
	return base
}

// ParseDecimal interpreta números de formularios; acepta coma decimal.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

// parseOptionalDecimal devuelve nil si el campo está vacío.
func parseOptionalDecimal(s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := ParseDecimal(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// MinDecimal regla para campos numéricos en texto: vacío pasa (usar Required aparte).
// Con exclusive el valor debe ser estrictamente mayor.
func MinDecimal(min decimal.Decimal, exclusive bool, msg string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return nil
		}
		d, err := ParseDecimal(s)
		if err != nil {
			return errors.New("Debe ser un número")
		}
		if d.LessThan(min) || (exclusive && d.Equal(min)) {
			return errors.New(msg)
		}
		return nil
	})
}

// MaxDecimal regla de máximo orientativo (stock conocido). Un max nil no limita.
func MaxDecimal(max *decimal.Decimal, msg string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if max == nil || strings.TrimSpace(s) == "" {
			return nil
		}
		d, err := ParseDecimal(s)
		if err != nil {
			return nil
		}
		if d.GreaterThan(*max) {
			return errors.New(msg)
		}
		return nil
	})
}

var (
	decimalZero  = decimal.Zero
	decimalMinQt = decimal.RequireFromString("0.01")
)
