package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appdashboard "github.com/jhoicas/gestion-stock/internal/application/dashboard"
	"github.com/jhoicas/gestion-stock/internal/application/produccion"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/cache"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/memstore"
	infrapdf "github.com/jhoicas/gestion-stock/internal/infrastructure/pdf"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/restapi"
	httpRouter "github.com/jhoicas/gestion-stock/internal/interfaces/http"
	"github.com/jhoicas/gestion-stock/pkg/config"
	"github.com/jhoicas/gestion-stock/pkg/format"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// repos los cuatro puertos de datos, ya sea contra la API o en memoria.
type repos struct {
	insumos      repository.InsumoRepository
	productos    repository.ProductoRepository
	producciones repository.ProduccionRepository
	ventas       repository.VentaRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	loc := cfg.App.Location()
	format.SetLocation(loc)
	now := func() time.Time { return time.Now().In(loc) }

	ctx := context.Background()

	// Origen de datos: API REST externa o store en memoria
	var (
		base      repos
		apiEstado func() string
	)
	switch cfg.App.Store {
	case "memoria":
		store := memstore.New()
		base = repos{store.Insumos(), store.Productos(), store.Producciones(), store.Ventas()}
		log.Warn().Msg("STORE=memoria: los datos se pierden al reiniciar")
	default:
		client := restapi.NewClient(restapi.Config{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.API.Timeout,
			Retries: cfg.API.Retries,
			Breaker: restapi.NewCircuitBreaker(restapi.CircuitBreakerConfig{
				FailureThreshold: cfg.API.FailureThreshold,
				OpenTimeout:      cfg.API.OpenTimeout,
			}),
			Logger: log.Named("restapi"),
		})
		base = repos{
			restapi.NewInsumoRepository(client),
			restapi.NewProductoRepository(client),
			restapi.NewProduccionRepository(client),
			restapi.NewVentaRepository(client),
		}
		apiEstado = func() string { return client.BreakerState().String() }
		log.Info().Str("api_url", cfg.API.BaseURL).Msg("usando API de stock")
	}

	// Caché de consultas: memoria del proceso o Redis compartido
	var store cache.Store = cache.NewMemoryStore()
	if cfg.Cache.Backend == "redis" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		store = cache.NewRedisStore(rdb, 10*cfg.Cache.TTL)
	}
	queries := cache.NewQueryClient(store, cfg.Cache.TTL, cache.WithLogger(log.Named("cache")))
	defer queries.Wait()

	insumoRepo := cache.NewInsumoRepository(queries, base.insumos)
	productoRepo := cache.NewProductoRepository(queries, base.productos)
	produccionRepo := cache.NewProduccionRepository(queries, base.producciones)
	ventaRepo := cache.NewVentaRepository(queries, base.ventas)

	insumoUC := usecase.NewInsumoUseCase(insumoRepo)
	productoUC := usecase.NewProductoUseCase(productoRepo)
	ventaUC := usecase.NewVentaUseCase(ventaRepo, productoRepo)
	produccionUC := produccion.NewUseCase(produccionRepo, insumoRepo, productoRepo)
	dashboardUC := appdashboard.NewUseCase(insumoRepo, productoRepo, produccionRepo, ventaRepo, now)

	// PDF: resumen del dashboard
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Views:        httpRouter.NewViews(),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.API.Timeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Gestión de Stock",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		InsumoUC:     insumoUC,
		ProductoUC:   productoUC,
		VentaUC:      ventaUC,
		ProduccionUC: produccionUC,
		DashboardUC:  dashboardUC,
		Reporter:     pdfGenerator,
		Logger:       log,
		Now:          now,
		Store:        cfg.App.Store,
		APIEstado:    apiEstado,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
