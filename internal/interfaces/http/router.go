package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/analytics"
	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/application/serviceorder"
	"github.com/jhoicas/taller-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC      *usecase.ProductUseCase
	StockLedger    *inventory.StockLedgerUseCase
	StockAlerts    *inventory.StockAlertUseCase
	ServiceOrderUC *serviceorder.ServiceOrderUseCase
	DashboardUC    *analytics.DashboardUseCase
	JWTSecret      string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(RoleAdmin)

	// Órdenes de servicio
	orders := protected.Group("/service-orders")
	orderHandler := NewServiceOrderHandler(deps.ServiceOrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/statistics", orderHandler.Statistics)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id/observations", orderHandler.UpdateObservations)
	orders.Post("/:id/items", orderHandler.AddItem)
	orders.Put("/:id/items/:itemId", orderHandler.UpdateItem)
	orders.Delete("/:id/items/:itemId", orderHandler.RemoveItem)
	orders.Post("/:id/complete", orderHandler.Complete)
	orders.Post("/:id/cancel", orderHandler.Cancel)

	// Libro de stock y alertas
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockLedger, deps.StockAlerts)
	invGroup.Post("/movements", adminOnly, inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/alerts", inventoryHandler.Alerts)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/products/:id/ledger-check", inventoryHandler.LedgerCheck)

	// Catálogo
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/categories", productHandler.Categories)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)

	// Tablero
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
}
