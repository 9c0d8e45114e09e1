package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/stock"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	"github.com/jhoicas/Facturacion-api/internal/observability"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	CreateInvoice *billing.CreateInvoiceUseCase
	DraftUC       *billing.DraftUseCase
	Reservation   *stock.ReservationService
	Metrics       *observability.Metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/restock", productHandler.Restock)
	products.Get("/:id/movements", productHandler.ListMovements)

	// Stock (reserva directa, sin factura)
	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Reservation, deps.Metrics)
	stockGroup.Post("/reserve", stockHandler.Reserve)

	// Invoices
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.Metrics)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Delete("/:id", invoiceHandler.Delete)

	// Drafts
	drafts := api.Group("/drafts")
	draftHandler := NewDraftHandler(deps.DraftUC)
	drafts.Post("/", draftHandler.Upsert)
	drafts.Put("/:id", draftHandler.UpdateByID)
	drafts.Get("/", draftHandler.List)
	drafts.Get("/:id", draftHandler.GetByID)
	drafts.Delete("/:id", draftHandler.Delete)
}
