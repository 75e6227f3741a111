package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// ProductoHandler páginas de productos. El formulario ofrece los insumos como casillas.
type ProductoHandler struct {
	uc      *usecase.ProductoUseCase
	insumos *usecase.InsumoUseCase
	log     *logger.Logger
}

// NewProductoHandler construye el handler.
func NewProductoHandler(uc *usecase.ProductoUseCase, insumos *usecase.InsumoUseCase, log *logger.Logger) *ProductoHandler {
	return &ProductoHandler{uc: uc, insumos: insumos, log: log}
}

// List GET /productos (?accion=nuevo, ?editar={id}).
func (h *ProductoHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if c.Query("accion") == "nuevo" {
		return h.renderForm(c, fiber.StatusOK, 0, dto.NewProductoForm(nil), nil, "")
	}
	if id := idQuery(c, "editar"); id != 0 {
		p, err := h.uc.GetByID(ctx, id)
		if err != nil {
			return renderPageError(c, h.log, "Productos", "productos", err)
		}
		return h.renderForm(c, fiber.StatusOK, id, dto.NewProductoForm(p), nil, "")
	}
	items, err := h.uc.List(ctx)
	if err != nil {
		return renderPageError(c, h.log, "Productos", "productos", err)
	}
	return h.renderList(c, fiber.StatusOK, items, "")
}

// Create POST /productos.
func (h *ProductoHandler) Create(c *fiber.Ctx) error {
	var form dto.ProductoForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "formulario inválido")
	}
	if _, err := h.uc.Create(c.UserContext(), form); err != nil {
		return h.formError(c, 0, form, err)
	}
	return c.Redirect("/productos", fiber.StatusSeeOther)
}

// Update POST /productos/:id.
func (h *ProductoHandler) Update(c *fiber.Ctx) error {
	id := idParam(c)
	if id == 0 {
		return fiber.ErrNotFound
	}
	var form dto.ProductoForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "formulario inválido")
	}
	if _, err := h.uc.Update(c.UserContext(), id, form); err != nil {
		return h.formError(c, id, form, err)
	}
	return c.Redirect("/productos", fiber.StatusSeeOther)
}

// ConfirmDelete GET /productos/:id/eliminar.
func (h *ProductoHandler) ConfirmDelete(c *fiber.Ctx) error {
	id := idParam(c)
	if id == 0 {
		return fiber.ErrNotFound
	}
	return renderConfirm(c, "Productos", "productos", "¿Está seguro de que desea eliminar este producto?", id)
}

// Delete POST /productos/:id/eliminar.
func (h *ProductoHandler) Delete(c *fiber.Ctx) error {
	id := idParam(c)
	if id == 0 || c.FormValue("confirmar") != confirmarSi {
		return c.Redirect("/productos", fiber.StatusSeeOther)
	}
	ctx := c.UserContext()
	if err := h.uc.Delete(ctx, id); err != nil {
		logWriteError(c, h.log, "eliminar producto", err)
		items, lerr := h.uc.List(ctx)
		if lerr != nil {
			return renderPageError(c, h.log, "Productos", "productos", lerr)
		}
		return h.renderList(c, statusFor(err), items, "Error al eliminar el producto: "+mensajeError(err))
	}
	return c.Redirect("/productos", fiber.StatusSeeOther)
}

func (h *ProductoHandler) formError(c *fiber.Ctx, id int64, form dto.ProductoForm, err error) error {
	if errs, ok := splitErrors(err); ok {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, id, form, errs, "")
	}
	logWriteError(c, h.log, "guardar producto", err)
	return h.renderForm(c, statusFor(err), id, form, nil, "Error al guardar el producto: "+mensajeError(err))
}

func (h *ProductoHandler) renderList(c *fiber.Ctx, status int, items []entity.Producto, alert string) error {
	return render(c, status, "productos", fiber.Map{
		"Title":  "Productos",
		"Active": "productos",
		"Items":  items,
		"Alert":  alert,
	})
}

func (h *ProductoHandler) renderForm(c *fiber.Ctx, status int, id int64, form dto.ProductoForm, errs dto.ValidationErrors, alert string) error {
	insumos, err := h.insumos.List(c.UserContext())
	if err != nil {
		return renderPageError(c, h.log, "Productos", "productos", err)
	}
	return render(c, status, "producto_form", fiber.Map{
		"Title":   "Productos",
		"Active":  "productos",
		"EditID":  id,
		"Form":    form,
		"Insumos": insumoOptions(insumos),
		"Errors":  errs,
		"Alert":   alert,
	})
}
