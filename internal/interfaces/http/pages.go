package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/restapi"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// Valor del campo confirmar que autoriza una eliminación.
const confirmarSi = "si"

// render dibuja la vista dentro del layout principal.
func render(c *fiber.Ctx, status int, view string, data fiber.Map) error {
	if c.Locals(LocalAPIDegradada) != nil {
		data["APIDegradada"] = true
	}
	return c.Status(status).Render(view, data, layoutMain)
}

// renderPageError estado de error de página: mensaje y enlace "Reintentar" a la misma URL.
func renderPageError(c *fiber.Ctx, log *logger.Logger, title, active string, err error) error {
	log.Error().Err(err).Str("request_id", GetRequestID(c)).Str("path", c.Path()).Msg("error al cargar datos")
	return render(c, statusFor(err), "error", fiber.Map{
		"Title":      title,
		"Active":     active,
		"Mensaje":    mensajeError(err),
		"Reintentar": c.OriginalURL(),
	})
}

// statusFor traduce un error de dominio a status HTTP.
func statusFor(err error) int {
	if _, ok := dto.FieldErrors(err); ok {
		return fiber.StatusUnprocessableEntity
	}
	switch {
	case errors.Is(err, domain.ErrMissingSalePrice), errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusBadGateway
	}
}

// mensajeError texto para el usuario; prioriza el mensaje que devolvió la API.
func mensajeError(err error) string {
	var apiErr *restapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, domain.ErrMissingSalePrice):
		return domain.ErrMissingSalePrice.Error()
	case errors.Is(err, domain.ErrNotFound):
		return "El registro no existe o fue eliminado"
	case errors.Is(err, domain.ErrUnavailable):
		return "No se pudo conectar con la API de stock. Intente nuevamente en unos segundos"
	case errors.Is(err, domain.ErrInvalidInput):
		return "Los datos enviados no son válidos"
	default:
		return "Ocurrió un error inesperado. Intente nuevamente"
	}
}

// logWriteError registra un error de escritura; se muestra como alerta bloqueante.
func logWriteError(c *fiber.Ctx, log *logger.Logger, op string, err error) {
	log.Error().Err(err).Str("request_id", GetRequestID(c)).Str("op", op).Msg("error al guardar")
}

// idParam lee :id; 0 si no es un entero positivo.
func idParam(c *fiber.Ctx) int64 {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// idQuery lee un id de la query string (?editar=3).
func idQuery(c *fiber.Ctx, key string) int64 {
	id, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// splitErrors separa errores de validación (inline) del resto (alerta).
func splitErrors(err error) (dto.ValidationErrors, bool) {
	if fe, ok := dto.FieldErrors(err); ok {
		return fe, true
	}
	return nil, false
}

// renderConfirm pantalla de confirmación de eliminación (no consulta la API).
func renderConfirm(c *fiber.Ctx, title, active, pregunta string, id int64) error {
	return render(c, fiber.StatusOK, "confirmar_eliminar", fiber.Map{
		"Title":    title,
		"Active":   active,
		"Pregunta": pregunta,
		"Accion":   "/" + active + "/" + strconv.FormatInt(id, 10) + "/eliminar",
		"Volver":   "/" + active,
	})
}
