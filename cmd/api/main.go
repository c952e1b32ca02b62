package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/expense-tracker-api/internal/application/dto"
	"github.com/jhoicas/expense-tracker-api/internal/application/exchange"
	"github.com/jhoicas/expense-tracker-api/internal/application/ports"
	"github.com/jhoicas/expense-tracker-api/internal/application/usecase"
	domainexchange "github.com/jhoicas/expense-tracker-api/internal/domain/exchange"
	"github.com/jhoicas/expense-tracker-api/internal/domain/repository"
	"github.com/jhoicas/expense-tracker-api/internal/infrastructure/memory"
	"github.com/jhoicas/expense-tracker-api/internal/infrastructure/postgres"
	"github.com/jhoicas/expense-tracker-api/internal/infrastructure/ratesapi"
	httpRouter "github.com/jhoicas/expense-tracker-api/internal/interfaces/http"
	"github.com/jhoicas/expense-tracker-api/pkg/config"
	"github.com/jhoicas/expense-tracker-api/pkg/logger"

	_ "github.com/jhoicas/expense-tracker-api/docs"
)

// @title        Expense Tracker API
// @version      1.0
// @description  Gastos personales por categoría, estadísticas y tipos de cambio.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization
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
		Str("storage", cfg.Storage.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	var (
		categoryRepo repository.CategoryRepository
		expenseRepo  repository.ExpenseRepository
	)
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		store := memory.NewStore()
		categoryRepo, expenseRepo = store.Categories(), store.Expenses()
	default:
		if cfg.DB.AutoMigrate {
			if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		categoryRepo = postgres.NewCategoryRepository(pool)
		expenseRepo = postgres.NewExpenseRepository(pool)
	}

	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	expenseUC := usecase.NewExpenseUseCase(expenseRepo, categoryRepo, time.Now)

	// Prioridad: open.er-api.com, luego frankfurter.app, luego tabla estática.
	gateway := exchange.NewGateway(
		[]ports.RateProvider{
			ratesapi.NewOpenERAPI(cfg.Exchange.OpenERAPIURL),
			ratesapi.NewFrankfurter(cfg.Exchange.FrankfurterURL),
		},
		exchange.Config{
			Timeout:  cfg.Exchange.Timeout,
			Fallback: domainexchange.DefaultFallbackTable(),
		},
		log.Zerolog(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Expense Tracker API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Service: cfg.App.Name})
	})

	if !cfg.JWT.Enabled() {
		log.Warn().Msg("JWT_SECRET vacío: la API no requiere autenticación")
	}
	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC:  categoryUC,
		ExpenseUC:   expenseUC,
		Gateway:     gateway,
		RateLimiter: httpRouter.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		JWTSecret:   cfg.JWT.Secret,
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
