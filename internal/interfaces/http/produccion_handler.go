package http

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/produccion"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// ProduccionHandler páginas de producciones. El formulario es una máquina de
// estados que vive en el POST: cada botón envía una acción y la página se vuelve
// a dibujar con el estado resultante hasta que se guarda.
type ProduccionHandler struct {
	uc  *produccion.UseCase
	log *logger.Logger
	now func() time.Time
}

// NewProduccionHandler construye el handler.
func NewProduccionHandler(uc *produccion.UseCase, log *logger.Logger, now func() time.Time) *ProduccionHandler {
	if now == nil {
		now = time.Now
	}
	return &ProduccionHandler{uc: uc, log: log, now: now}
}

// filaView fila de insumo lista para la plantilla.
type filaView struct {
	Index       int
	InsumoID    int64
	Cantidad    string
	Opciones    []dto.InsumoOption
	Unidad      string
	ErrInsumo   string
	ErrCantidad string
}

// modalInsumo estado del modal "Nuevo Insumo".
type modalInsumo struct {
	Form   dto.InsumoForm
	Errors dto.ValidationErrors
	Alert  string
}

// List GET /producciones (?accion=nuevo, ?editar={id}).
func (h *ProduccionHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if c.Query("accion") == "nuevo" {
		return h.renderForm(c, fiber.StatusOK, produccion.NuevoForm(nil, h.now()), nil, nil, "", nil)
	}
	if id := idQuery(c, "editar"); id != 0 {
		p, err := h.uc.GetByID(ctx, id)
		if err != nil {
			return renderPageError(c, h.log, "Producciones", "producciones", err)
		}
		return h.renderForm(c, fiber.StatusOK, produccion.NuevoForm(p, h.now()), nil, nil, "", nil)
	}
	items, err := h.uc.List(ctx)
	if err != nil {
		return renderPageError(c, h.log, "Producciones", "producciones", err)
	}
	return h.renderList(c, fiber.StatusOK, items, "")
}

// Form POST /producciones/formulario. Aplica la acción pulsada; sólo "guardar"
// llega a la API de producciones y sólo si el formulario es válido.
func (h *ProduccionHandler) Form(c *fiber.Ctx) error {
	ctx := c.UserContext()
	vals := formValues(c)
	f := produccion.ParseForm(vals)
	accion := vals.Get("accion")

	cat, err := h.uc.Catalogo(ctx)
	if err != nil {
		return renderPageError(c, h.log, "Producciones", "producciones", err)
	}
	if f.Modo == produccion.ModoExistente && vals.Get("producto_id") != vals.Get("producto_anterior") {
		f.SeleccionarProducto(f.ProductoID, cat.Productos)
	}

	switch accion {
	case produccion.AccionAbrirModalInsumo:
		return h.renderForm(c, fiber.StatusOK, f, &cat, nil, "", &modalInsumo{Form: dto.NewInsumoForm(nil)})
	case produccion.AccionCrearInsumo:
		return h.crearInsumo(c, f, cat, vals)
	}

	if !f.Aplicar(accion) {
		return h.renderForm(c, fiber.StatusOK, f, &cat, nil, "", nil)
	}
	if _, err := h.uc.Guardar(ctx, f, cat); err != nil {
		if errs, ok := splitErrors(err); ok {
			return h.renderForm(c, fiber.StatusUnprocessableEntity, f, &cat, errs, "", nil)
		}
		logWriteError(c, h.log, "guardar produccion", err)
		return h.renderForm(c, statusFor(err), f, &cat, nil, "Error al guardar la producción: "+mensajeError(err), nil)
	}
	return c.Redirect("/producciones", fiber.StatusSeeOther)
}

// crearInsumo alta desde el modal. Si sale bien el modal se cierra y el insumo
// queda disponible en las filas; si no, el modal sigue abierto con los errores.
func (h *ProduccionHandler) crearInsumo(c *fiber.Ctx, f *produccion.Form, cat produccion.Catalogo, vals url.Values) error {
	form := dto.InsumoForm{
		Nombre:         vals.Get("insumo_nombre"),
		Cantidad:       vals.Get("insumo_cantidad"),
		Unidad:         vals.Get("insumo_unidad"),
		PrecioUnitario: vals.Get("insumo_precio_unitario"),
	}
	created, insumos, err := h.uc.CrearInsumo(c.UserContext(), form)
	switch {
	case created == nil && err != nil:
		if errs, ok := splitErrors(err); ok {
			return h.renderForm(c, fiber.StatusUnprocessableEntity, f, &cat, nil, "", &modalInsumo{Form: form, Errors: errs})
		}
		logWriteError(c, h.log, "crear insumo", err)
		return h.renderForm(c, statusFor(err), f, &cat, nil, "", &modalInsumo{Form: form, Alert: "Error al guardar el insumo: " + mensajeError(err)})
	case err != nil:
		// creado pero no se pudo refrescar la lista: se agrega a la conocida
		h.log.Warn().Err(err).Str("request_id", GetRequestID(c)).Msg("no se pudo refrescar insumos")
		cat.Insumos = append(cat.Insumos, *created)
	default:
		cat.Insumos = insumos
	}
	return h.renderForm(c, fiber.StatusOK, f, &cat, nil, "", nil)
}

// ConfirmDelete GET /producciones/:id/eliminar.
func (h *ProduccionHandler) ConfirmDelete(c *fiber.Ctx) error {
	id := idParam(c)
	if id == 0 {
		return fiber.ErrNotFound
	}
	return renderConfirm(c, "Producciones", "producciones", "¿Está seguro de que desea eliminar esta producción?", id)
}

// Delete POST /producciones/:id/eliminar.
func (h *ProduccionHandler) Delete(c *fiber.Ctx) error {
	id := idParam(c)
	if id == 0 || c.FormValue("confirmar") != confirmarSi {
		return c.Redirect("/producciones", fiber.StatusSeeOther)
	}
	ctx := c.UserContext()
	if err := h.uc.Delete(ctx, id); err != nil {
		logWriteError(c, h.log, "eliminar produccion", err)
		items, lerr := h.uc.List(ctx)
		if lerr != nil {
			return renderPageError(c, h.log, "Producciones", "producciones", lerr)
		}
		return h.renderList(c, statusFor(err), items, "Error al eliminar la producción: "+mensajeError(err))
	}
	return c.Redirect("/producciones", fiber.StatusSeeOther)
}

func (h *ProduccionHandler) renderList(c *fiber.Ctx, status int, items []entity.Produccion, alert string) error {
	return render(c, status, "producciones", fiber.Map{
		"Title":  "Producciones",
		"Active": "producciones",
		"Items":  items,
		"Alert":  alert,
	})
}

// renderForm cat nil = se pide el catálogo a la API.
func (h *ProduccionHandler) renderForm(c *fiber.Ctx, status int, f *produccion.Form, cat *produccion.Catalogo, errs dto.ValidationErrors, alert string, modal *modalInsumo) error {
	if cat == nil {
		loaded, err := h.uc.Catalogo(c.UserContext())
		if err != nil {
			return renderPageError(c, h.log, "Producciones", "producciones", err)
		}
		cat = &loaded
	}
	filas := make([]filaView, 0, len(f.Filas))
	for i, r := range f.Filas {
		fv := filaView{
			Index:       i,
			InsumoID:    r.InsumoID,
			Cantidad:    r.Cantidad,
			Opciones:    insumoOptions(f.InsumosDisponibles(i, cat.Insumos)),
			ErrInsumo:   errs[produccion.ClaveFila(i, "insumo_id")],
			ErrCantidad: errs[produccion.ClaveFila(i, "cantidad_utilizada")],
		}
		if in := f.MaximoFila(i, cat.Insumos); in != nil {
			fv.Unidad = in.Unidad
		}
		filas = append(filas, fv)
	}
	return render(c, status, "produccion_form", fiber.Map{
		"Title":       "Producciones",
		"Active":      "producciones",
		"Form":        f,
		"Existente":   f.Modo == produccion.ModoExistente,
		"SoloLectura": f.CamposSoloLectura(cat.Productos),
		"Productos":   productoOptions(cat.Productos),
		"Filas":       filas,
		"Costo":       f.CostoEstimado(cat.Insumos),
		"Errors":      errs,
		"Alert":       alert,
		"Modal":       modal,
	})
}

// formValues cuerpo application/x-www-form-urlencoded con campos repetidos.
func formValues(c *fiber.Ctx) url.Values {
	v := url.Values{}
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		v.Add(string(key), string(value))
	})
	return v
}
