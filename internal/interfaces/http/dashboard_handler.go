package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	appdashboard "github.com/jhoicas/gestion-stock/internal/application/dashboard"
	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain/inventory"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// dashboardReporter genera el reporte PDF del resumen. Lo implementa *pdf.MarotoPDFGenerator.
type dashboardReporter interface {
	GenerateDashboardPDF(ctx context.Context, s inventory.Summary) ([]byte, error)
}

// DashboardHandler maneja la página principal y sus salidas JSON y PDF.
type DashboardHandler struct {
	uc       *appdashboard.UseCase
	reporter dashboardReporter
	log      *logger.Logger
}

// NewDashboardHandler construye el handler. reporter nil deshabilita el PDF.
func NewDashboardHandler(uc *appdashboard.UseCase, reporter dashboardReporter, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, reporter: reporter, log: log}
}

// Page GET /. Cualquier colección que falle deja la página en estado de error.
func (h *DashboardHandler) Page(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return renderPageError(c, h.log, "Dashboard", "dashboard", err)
	}
	return render(c, fiber.StatusOK, "dashboard", fiber.Map{
		"Title":   "Dashboard",
		"Active":  "dashboard",
		"Summary": summary,
	})
}

// GetSummary devuelve el resumen del dashboard.
// @Summary      Resumen del dashboard
// @Description  Contadores por entidad, insumos (< 10) y productos (< 5) con stock bajo, las 5 ventas más recientes y los totales de ventas del día y del mes.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		h.log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("resumen del dashboard")
		return c.Status(statusFor(err)).JSON(dto.ErrorResponse{
			Code: "UPSTREAM", Message: mensajeError(err),
		})
	}
	return c.JSON(summary)
}

// Report GET /dashboard/reporte.pdf.
func (h *DashboardHandler) Report(c *fiber.Ctx) error {
	if h.reporter == nil {
		return fiber.ErrNotFound
	}
	summary, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return renderPageError(c, h.log, "Dashboard", "dashboard", err)
	}
	out, err := h.reporter.GenerateDashboardPDF(c.UserContext(), summary)
	if err != nil {
		h.log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("reporte PDF")
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo generar el reporte")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="dashboard-%s.pdf"`, summary.GeneradoEn.Format("2006-01-02")))
	return c.Send(out)
}
