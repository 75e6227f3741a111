package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/inventory"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// Acción del formulario de venta que sólo recalcula el total.
const accionCalcular = "calcular"

// VentaHandler páginas de ventas. El formulario valida la cantidad contra el
// último stock conocido del producto elegido.
type VentaHandler struct {
	uc  *usecase.VentaUseCase
	log *logger.Logger
	now func() time.Time
}

// NewVentaHandler construye el handler.
func NewVentaHandler(uc *usecase.VentaUseCase, log *logger.Logger, now func() time.Time) *VentaHandler {
	if now == nil {
		now = time.Now
	}
	return &VentaHandler{uc: uc, log: log, now: now}
}

// List GET /ventas (?accion=nuevo, ?editar={id}).
func (h *VentaHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if c.Query("accion") == "nuevo" {
		return h.renderForm(c, fiber.StatusOK, 0, dto.NewVentaForm(nil, h.now()), nil, nil, "")
	}
	if id := idQuery(c, "editar"); id != 0 {
		v, err := h.uc.GetByID(ctx, id)
		if err != nil {
			return renderPageError(c, h.log, "Ventas", "ventas", err)
		}
		return h.renderForm(c, fiber.StatusOK, id, dto.NewVentaForm(v, h.now()), nil, nil, "")
	}
	items, err := h.uc.List(ctx)
	if err != nil {
		return renderPageError(c, h.log, "Ventas", "ventas", err)
	}
	return h.renderList(c, fiber.StatusOK, items, "")
}

// Create POST /ventas.
func (h *VentaHandler) Create(c *fiber.Ctx) error {
	return h.save(c, 0)
}

// Update POST /ventas/:id.
func (h *VentaHandler) Update(c *fiber.Ctx) error {
	id := idParam(c)
	if id == 0 {
		return fiber.ErrNotFound
	}
	return h.save(c, id)
}

func (h *VentaHandler) save(c *fiber.Ctx, id int64) error {
	var form dto.VentaForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "formulario inválido")
	}
	ctx := c.UserContext()
	productos, err := h.uc.Productos(ctx)
	if err != nil {
		return renderPageError(c, h.log, "Ventas", "ventas", err)
	}
	if c.FormValue("accion") == accionCalcular {
		return h.renderForm(c, fiber.StatusOK, id, form, productos, nil, "")
	}
	if id == 0 {
		_, err = h.uc.Create(ctx, form, productos)
	} else {
		_, err = h.uc.Update(ctx, id, form, productos)
	}
	if err != nil {
		if errs, ok := splitErrors(err); ok {
			return h.renderForm(c, fiber.StatusUnprocessableEntity, id, form, productos, errs, "")
		}
		logWriteError(c, h.log, "guardar venta", err)
		return h.renderForm(c, statusFor(err), id, form, productos, nil, "Error al guardar la venta: "+mensajeError(err))
	}
	return c.Redirect("/ventas", fiber.StatusSeeOther)
}

// ConfirmDelete GET /ventas/:id/eliminar.
func (h *VentaHandler) ConfirmDelete(c *fiber.Ctx) error {
	id := idParam(c)
	if id == 0 {
		return fiber.ErrNotFound
	}
	return renderConfirm(c, "Ventas", "ventas", "¿Está seguro de que desea eliminar esta venta?", id)
}

// Delete POST /ventas/:id/eliminar.
func (h *VentaHandler) Delete(c *fiber.Ctx) error {
	id := idParam(c)
	if id == 0 || c.FormValue("confirmar") != confirmarSi {
		return c.Redirect("/ventas", fiber.StatusSeeOther)
	}
	ctx := c.UserContext()
	if err := h.uc.Delete(ctx, id); err != nil {
		logWriteError(c, h.log, "eliminar venta", err)
		items, lerr := h.uc.List(ctx)
		if lerr != nil {
			return renderPageError(c, h.log, "Ventas", "ventas", lerr)
		}
		return h.renderList(c, statusFor(err), items, "Error al eliminar la venta: "+mensajeError(err))
	}
	return c.Redirect("/ventas", fiber.StatusSeeOther)
}

func (h *VentaHandler) renderList(c *fiber.Ctx, status int, items []entity.Venta, alert string) error {
	return render(c, status, "ventas", fiber.Map{
		"Title":  "Ventas",
		"Active": "ventas",
		"Items":  items,
		"Alert":  alert,
	})
}

// renderForm productos nil = se piden a la API.
func (h *VentaHandler) renderForm(c *fiber.Ctx, status int, id int64, form dto.VentaForm, productos []entity.Producto, errs dto.ValidationErrors, alert string) error {
	if productos == nil {
		var err error
		productos, err = h.uc.Productos(c.UserContext())
		if err != nil {
			return renderPageError(c, h.log, "Ventas", "ventas", err)
		}
	}
	data := fiber.Map{
		"Title":     "Ventas",
		"Active":    "ventas",
		"EditID":    id,
		"Form":      form,
		"Productos": productoOptions(productos),
		"Errors":    errs,
		"Alert":     alert,
		"Total":     form.Total(),
	}
	if p := inventory.BuscarProducto(productos, form.SelectedProductoID()); p != nil {
		data["Seleccionado"] = p
	}
	return render(c, status, "venta_form", data)
}
