package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/doorline/internal/config"
	"github.com/example/doorline/internal/handlers"
	"github.com/example/doorline/internal/middleware"
	"github.com/example/doorline/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	orderService := services.NewOrderService(db)
	paymentService := services.NewPaymentService(db)
	stockService := services.NewStockService(db)
	openaiService := services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)

	authHandler := handlers.NewAuthHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, orderService)
	partnerHandler := handlers.NewPartnerHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db, paymentService)
	stockHandler := handlers.NewStockHandler(db, stockService)
	inventoryHandler := handlers.NewInventoryHandler(db)
	assistantHandler := handlers.NewAssistantHandler(db, openaiService)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	groups := protected.Group("/order-groups")
	groups.Post("/", orderHandler.CreateGroup)
	groups.Get("/", orderHandler.ListGroups)
	groups.Get("/:id", orderHandler.GetGroup)
	groups.Put("/:id/close", orderHandler.CloseGroup)

	subOrders := protected.Group("/sub-orders")
	subOrders.Post("/", orderHandler.CreateSubOrder)
	subOrders.Get("/", orderHandler.ListSubOrders)
	subOrders.Get("/:id", orderHandler.GetSubOrder)
	subOrders.Put("/:id", orderHandler.EditSubOrder)
	subOrders.Put("/:id/cancel", orderHandler.CancelSubOrder)
	subOrders.Delete("/:id", orderHandler.DeleteSubOrder)

	partners := protected.Group("/partners")
	partners.Get("/", partnerHandler.ListPartners)
	partners.Post("/", partnerHandler.CreatePartner)
	partners.Get("/:id", partnerHandler.GetPartner)
	partners.Put("/:id", partnerHandler.UpdatePartner)
	partners.Delete("/:id", partnerHandler.DeletePartner)

	payments := protected.Group("/payments")
	payments.Get("/", paymentHandler.ListPayments)
	payments.Post("/", paymentHandler.CreatePayment)
	payments.Get("/:id", paymentHandler.GetPayment)
	payments.Post("/:id/pay", paymentHandler.Pay)
	payments.Delete("/:id", paymentHandler.DeletePayment)

	stock := protected.Group("/stock-orders")
	stock.Get("/", stockHandler.ListStockOrders)
	stock.Post("/", stockHandler.CreateStockOrder)
	stock.Put("/:id/receive", stockHandler.ReceiveStockOrder)
	stock.Put("/:id/cancel", stockHandler.CancelStockOrder)

	protected.Get("/stock-movements", stockHandler.ListStockMovements)

	inventory := protected.Group("/inventory")
	inventory.Get("/", inventoryHandler.ListItems)
	inventory.Post("/", inventoryHandler.CreateItem)
	inventory.Get("/:id", inventoryHandler.GetItem)
	inventory.Put("/:id", inventoryHandler.UpdateItem)
	inventory.Delete("/:id", inventoryHandler.DeleteItem)

	assistant := protected.Group("/assistant")
	assistant.Post("/inventory", assistantHandler.InventoryAssistant)
	assistant.Post("/reports", assistantHandler.ReportsAssistant)
}
