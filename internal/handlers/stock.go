package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/doorline/internal/models"
	"github.com/example/doorline/internal/services"
	"github.com/example/doorline/internal/utils"
)

// StockHandler manages inbound stock order endpoints.
type StockHandler struct {
	db    *gorm.DB
	stock *services.StockService
}

// NewStockHandler constructs StockHandler.
func NewStockHandler(db *gorm.DB, stock *services.StockService) *StockHandler {
	return &StockHandler{db: db, stock: stock}
}

// ListStockOrders returns paginated stock orders, newest row first.
func (h *StockHandler) ListStockOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.StockOrder{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if supplier := c.Query("supplier_name"); supplier != "" {
		query = query.Where("supplier_name = ?", supplier)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.StockOrder
	if err := query.Order("row_number desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type stockOrderRequest struct {
	SupplierName    string   `json:"supplier_name"`
	Source          string   `json:"source"`
	ItemName        string   `json:"item_name"`
	ProductCategory string   `json:"product_category"`
	Quantity        int      `json:"quantity"`
	Price           *float64 `json:"price"`
}

// CreateStockOrder inserts a stock order with the next sequential row number.
func (h *StockHandler) CreateStockOrder(c *fiber.Ctx) error {
	var req stockOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.ItemName == "" || req.SupplierName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "supplier and item name are required")
	}
	if req.Source == "" {
		req.Source = models.StockSourceSupplier
	}

	order, err := h.stock.Create(services.StockOrderInput{
		SupplierName:    req.SupplierName,
		Source:          req.Source,
		ItemName:        req.ItemName,
		ProductCategory: req.ProductCategory,
		Quantity:        req.Quantity,
		Price:           req.Price,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// ReceiveStockOrder marks a stock order received and records the inbound
// stock movement.
func (h *StockHandler) ReceiveStockOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.stock.Receive(id)
	if err != nil {
		return mapStockError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// CancelStockOrder marks a stock order cancelled.
func (h *StockHandler) CancelStockOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.stock.Cancel(id)
	if err != nil {
		return mapStockError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// ListStockMovements returns paginated stock movement entries.
func (h *StockHandler) ListStockMovements(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.StockMovement{})

	if direction := c.Query("direction"); direction != "" {
		query = query.Where("direction = ?", direction)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var movements []models.StockMovement
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&movements).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    movements,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

func mapStockError(err error) error {
	switch {
	case errors.Is(err, services.ErrStockOrderNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrStockOrderFinalized):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return err
}
