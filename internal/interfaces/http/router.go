package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/adjustments"
	"github.com/jhoicas/ledger-api/internal/application/orders"
	"github.com/jhoicas/ledger-api/internal/application/reports"
	"github.com/jhoicas/ledger-api/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SalesUC       *sales.UseCase
	OrdersUC      *orders.UseCase
	AdjustmentsUC *adjustments.UseCase
	ReportsUC     *reports.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Ventas
	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)

	// Órdenes de compra
	ordersGroup := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrdersUC)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id/items", orderHandler.UpdateItems)
	ordersGroup.Post("/:id/complete", orderHandler.Complete)
	ordersGroup.Post("/:id/cancel", orderHandler.Cancel)

	// Ajustes y devoluciones
	adjGroup := api.Group("/adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentsUC)
	adjGroup.Post("/", adjustmentHandler.Create)
	adjGroup.Get("/", adjustmentHandler.List)
	adjGroup.Get("/:id", adjustmentHandler.GetByID)

	// Stock actual e historial por fila
	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.ReportsUC)
	stockGroup.Get("/", stockHandler.List)
	stockGroup.Get("/:product_id/:size_id", stockHandler.Get)
	stockGroup.Get("/:product_id/:size_id/history", stockHandler.History)

	// Reportería
	reportsGroup := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportsUC)
	reportsGroup.Get("/movements", reportHandler.Movements)
	reportsGroup.Get("/summary", reportHandler.Summary)
	reportsGroup.Get("/stock-at", reportHandler.StockAt)
	reportsGroup.Get("/low-stock", reportHandler.LowStock)
	reportsGroup.Get("/replay", reportHandler.VerifyReplay)
}
