package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// InsumoHandler páginas de insumos: listado, formulario y eliminación.
type InsumoHandler struct {
	uc  *usecase.InsumoUseCase
	log *logger.Logger
}

// NewInsumoHandler construye el handler.
func NewInsumoHandler(uc *usecase.InsumoUseCase, log *logger.Logger) *InsumoHandler {
	return &InsumoHandler{uc: uc, log: log}
}

// List GET /insumos. Con ?accion=nuevo o ?editar={id} muestra el formulario en lugar de la tabla.
func (h *InsumoHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if c.Query("accion") == "nuevo" {
		return h.renderForm(c, fiber.StatusOK, 0, dto.NewInsumoForm(nil), nil, "")
	}
	if id := idQuery(c, "editar"); id != 0 {
		in, err := h.uc.GetByID(ctx, id)
		if err != nil {
			return renderPageError(c, h.log, "Insumos", "insumos", err)
		}
		return h.renderForm(c, fiber.StatusOK, id, dto.NewInsumoForm(in), nil, "")
	}
	items, err := h.uc.List(ctx)
	if err != nil {
		return renderPageError(c, h.log, "Insumos", "insumos", err)
	}
	return h.renderList(c, fiber.StatusOK, items, "")
}

// Create POST /insumos.
func (h *InsumoHandler) Create(c *fiber.Ctx) error {
	var form dto.InsumoForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "formulario inválido")
	}
	if _, err := h.uc.Create(c.UserContext(), form); err != nil {
		return h.formError(c, 0, form, err)
	}
	return c.Redirect("/insumos", fiber.StatusSeeOther)
}

// Update POST /insumos/:id.
func (h *InsumoHandler) Update(c *fiber.Ctx) error {
	id := idParam(c)
	if id == 0 {
		return fiber.ErrNotFound
	}
	var form dto.InsumoForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "formulario inválido")
	}
	if _, err := h.uc.Update(c.UserContext(), id, form); err != nil {
		return h.formError(c, id, form, err)
	}
	return c.Redirect("/insumos", fiber.StatusSeeOther)
}

// ConfirmDelete GET /insumos/:id/eliminar.
func (h *InsumoHandler) ConfirmDelete(c *fiber.Ctx) error {
	id := idParam(c)
	if id == 0 {
		return fiber.ErrNotFound
	}
	return renderConfirm(c, "Insumos", "insumos", "¿Está seguro de que desea eliminar este insumo?", id)
}

// Delete POST /insumos/:id/eliminar. Sin confirmar=si vuelve al listado sin llamar a la API.
func (h *InsumoHandler) Delete(c *fiber.Ctx) error {
	id := idParam(c)
	if id == 0 || c.FormValue("confirmar") != confirmarSi {
		return c.Redirect("/insumos", fiber.StatusSeeOther)
	}
	ctx := c.UserContext()
	if err := h.uc.Delete(ctx, id); err != nil {
		logWriteError(c, h.log, "eliminar insumo", err)
		items, lerr := h.uc.List(ctx)
		if lerr != nil {
			return renderPageError(c, h.log, "Insumos", "insumos", lerr)
		}
		return h.renderList(c, statusFor(err), items, "Error al eliminar el insumo: "+mensajeError(err))
	}
	return c.Redirect("/insumos", fiber.StatusSeeOther)
}

func (h *InsumoHandler) formError(c *fiber.Ctx, id int64, form dto.InsumoForm, err error) error {
	if errs, ok := splitErrors(err); ok {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, id, form, errs, "")
	}
	logWriteError(c, h.log, "guardar insumo", err)
	return h.renderForm(c, statusFor(err), id, form, nil, "Error al guardar el insumo: "+mensajeError(err))
}

func (h *InsumoHandler) renderList(c *fiber.Ctx, status int, items []entity.Insumo, alert string) error {
	return render(c, status, "insumos", fiber.Map{
		"Title":  "Insumos",
		"Active": "insumos",
		"Items":  items,
		"Alert":  alert,
	})
}

func (h *InsumoHandler) renderForm(c *fiber.Ctx, status int, id int64, form dto.InsumoForm, errs dto.ValidationErrors, alert string) error {
	return render(c, status, "insumo_form", fiber.Map{
		"Title":  "Insumos",
		"Active": "insumos",
		"EditID": id,
		"Form":   form,
		"Errors": errs,
		"Alert":  alert,
	})
}
