package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Settlement *SettlementHandler
	AppName    string
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	// Rutas protegidas (requieren Bearer Token; el sujeto es la sesión)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	settlements := api.Group("/settlements")
	settlements.Get("/", deps.Settlement.Get)
	settlements.Get("/export", deps.Settlement.Export)
	settlements.Post("/cache/invalidate", deps.Settlement.InvalidateCache)
}
