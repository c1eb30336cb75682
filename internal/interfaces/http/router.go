package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/allocation"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine *allocation.Engine
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Ciclo de compra
	purchases := api.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.Engine)
	purchases.Post("/", purchaseHandler.Receive)
	purchases.Put("/:id/fees", purchaseHandler.UpdateFees)
	purchases.Post("/:id/cancel", purchaseHandler.Cancel)
	api.Post("/lots/:id/lines", purchaseHandler.AddLine)
	api.Post("/lines/:id/reduce", purchaseHandler.ReduceLine)

	// Saldos y movimientos
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Engine)
	stock.Post("/transfers", stockHandler.Transfer)
	stock.Post("/depletions", stockHandler.Deplete)
	stock.Get("/items/:id/on-hand", stockHandler.OnHand)
	stock.Get("/movements", stockHandler.Movements)

	// Ciclo de vendedor
	vendors := api.Group("/vendors")
	vendorHandler := NewVendorHandler(deps.Engine)
	vendors.Post("/:id/allocations", vendorHandler.Assign)
	vendors.Post("/:id/consumptions", vendorHandler.Consume)
	vendors.Post("/:id/restores", vendorHandler.Restore)
}
