package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/expense-tracker-api/internal/application/exchange"
	"github.com/jhoicas/expense-tracker-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC  *usecase.CategoryUseCase
	ExpenseUC   *usecase.ExpenseUseCase
	Gateway     *exchange.Gateway
	RateLimiter *RateLimiter // nil = sin límite
	JWTSecret   string       // vacío = API abierta
}

// Router registra las rutas de la API bajo /api.
func Router(app *fiber.App, deps RouterDeps) {
	var middlewares []fiber.Handler
	if deps.JWTSecret != "" {
		middlewares = append(middlewares, AuthMiddleware(deps.JWTSecret))
	}
	api := app.Group("/api", middlewares...)

	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Replace)
	categories.Patch("/:id", categoryHandler.Patch)
	categories.Delete("/:id", categoryHandler.Delete)

	// /stats antes de /:id
	expenses := api.Group("/expenses")
	expenseHandler := NewExpenseHandler(deps.ExpenseUC)
	expenses.Get("/", expenseHandler.List)
	expenses.Post("/", expenseHandler.Create)
	expenses.Get("/stats", expenseHandler.Stats)
	expenses.Get("/:id", expenseHandler.GetByID)
	expenses.Put("/:id", expenseHandler.Replace)
	expenses.Patch("/:id", expenseHandler.Patch)
	expenses.Delete("/:id", expenseHandler.Delete)

	exchangeHandler := NewExchangeHandler(deps.Gateway)
	limited := deps.RateLimiter.Middleware()
	api.Get("/exchange-rates", limited, exchangeHandler.Rates)
	api.Post("/convert-currency", limited, exchangeHandler.Convert)
}
