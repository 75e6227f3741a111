package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appdashboard "github.com/jhoicas/gestion-stock/internal/application/dashboard"
	"github.com/jhoicas/gestion-stock/internal/application/produccion"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InsumoUC     *usecase.InsumoUseCase
	ProductoUC   *usecase.ProductoUseCase
	VentaUC      *usecase.VentaUseCase
	ProduccionUC *produccion.UseCase
	DashboardUC  *appdashboard.UseCase
	Reporter     dashboardReporter
	Logger       *logger.Logger
	Now          func() time.Time
	// Store modo de datos ("api" o "memoria"), informado en /health.
	Store string
	// APIEstado estado del circuit breaker de la API ("closed", "open", "half-open"); nil en modo memoria.
	APIEstado func() string
}

// Router registra las páginas, el JSON del dashboard y /health.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(APIStatus(func() bool {
		return deps.APIEstado != nil && deps.APIEstado() == "open"
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{"status": "ok", "store": deps.Store}
		if deps.APIEstado != nil {
			body["api_circuit"] = deps.APIEstado()
		}
		return c.JSON(body)
	})

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Reporter, deps.Logger)
	app.Get("/", dashboardHandler.Page)
	app.Get("/dashboard/reporte.pdf", dashboardHandler.Report)
	app.Get("/api/dashboard", dashboardHandler.GetSummary)

	// Insumos
	insumos := app.Group("/insumos")
	insumoHandler := NewInsumoHandler(deps.InsumoUC, deps.Logger)
	insumos.Get("/", insumoHandler.List)
	insumos.Post("/", insumoHandler.Create)
	insumos.Post("/:id", insumoHandler.Update)
	insumos.Get("/:id/eliminar", insumoHandler.ConfirmDelete)
	insumos.Post("/:id/eliminar", insumoHandler.Delete)

	// Productos
	productos := app.Group("/productos")
	productoHandler := NewProductoHandler(deps.ProductoUC, deps.InsumoUC, deps.Logger)
	productos.Get("/", productoHandler.List)
	productos.Post("/", productoHandler.Create)
	productos.Post("/:id", productoHandler.Update)
	productos.Get("/:id/eliminar", productoHandler.ConfirmDelete)
	productos.Post("/:id/eliminar", productoHandler.Delete)

	// Producciones (el formulario se maneja entero en /formulario)
	producciones := app.Group("/producciones")
	produccionHandler := NewProduccionHandler(deps.ProduccionUC, deps.Logger, deps.Now)
	producciones.Get("/", produccionHandler.List)
	producciones.Post("/formulario", produccionHandler.Form)
	producciones.Get("/:id/eliminar", produccionHandler.ConfirmDelete)
	producciones.Post("/:id/eliminar", produccionHandler.Delete)

	// Ventas
	ventas := app.Group("/ventas")
	ventaHandler := NewVentaHandler(deps.VentaUC, deps.Logger, deps.Now)
	ventas.Get("/", ventaHandler.List)
	ventas.Post("/", ventaHandler.Create)
	ventas.Post("/:id", ventaHandler.Update)
	ventas.Get("/:id/eliminar", ventaHandler.ConfirmDelete)
	ventas.Post("/:id/eliminar", ventaHandler.Delete)
}
