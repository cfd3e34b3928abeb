package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
	"github.com/prassaaa/dashboard-rokokgs-sub000/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC   stockService
	Actors    actorResolver
	JWTSecret string
	JWTIssuer string
	Logger    *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (Bearer Token + Actor resuelto en BD)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer), ActorMiddleware(deps.Actors))

	stocks := protected.Group("/stocks")
	stockHandler := NewStockHandler(deps.StockUC, deps.Logger)
	view := RequireCapability(entity.CapabilityViewStock)
	stocks.Get("/", view, stockHandler.List)
	stocks.Get("/low", view, stockHandler.ListLow)
	stocks.Post("/", RequireCapability(entity.CapabilityCreateStock), stockHandler.Initialize)
	stocks.Get("/:id", view, stockHandler.Get)
	stocks.Post("/:id/adjust", RequireCapability(entity.CapabilityEditStock), stockHandler.Adjust)
	stocks.Get("/:id/movements", view, stockHandler.Movements)
}
