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

// OrderHandler manages order group and sub-order endpoints.
type OrderHandler struct {
	db     *gorm.DB
	orders *services.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, orders *services.OrderService) *OrderHandler {
	return &OrderHandler{db: db, orders: orders}
}

// CreateGroup closes the active group and opens the next one in the sequence.
func (h *OrderHandler) CreateGroup(c *fiber.Ctx) error {
	group, err := h.orders.CreateGroup()
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": group})
}

// ListGroups returns paginated order groups, newest first.
func (h *OrderHandler) ListGroups(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.OrderGroup{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var groups []models.OrderGroup
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&groups).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    groups,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetGroup returns a single order group with its sub-orders.
func (h *OrderHandler) GetGroup(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var group models.OrderGroup
	if err := h.db.Preload("SubOrders").First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order group not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": group})
}

// CloseGroup marks an order group closed. Sub-orders keep their own statuses.
func (h *OrderHandler) CloseGroup(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	group, err := h.orders.CloseGroup(id)
	if err != nil {
		return mapOrderError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": group})
}

type subOrderRequest struct {
	OrderGroupID        string   `json:"order_group_id"`
	PartnerType         string   `json:"partner_type"`
	PartnerName         string   `json:"partner_name"`
	ProductCategory     string   `json:"product_category"`
	ActiveDoorWidth     *float64 `json:"active_door_width"`
	ActiveDoorHeight    *float64 `json:"active_door_height"`
	ActiveDoorDirection string   `json:"active_door_direction"`
	FixedDoorWidth      *float64 `json:"fixed_door_width"`
	FixedDoorHeight     *float64 `json:"fixed_door_height"`
	FixedDoorDirection  string   `json:"fixed_door_direction"`
	InsertWidth         *float64 `json:"insert_width"`
	InsertHeight        *float64 `json:"insert_height"`
	InsertColor         string   `json:"insert_color"`
	Drilling            string   `json:"drilling"`
	Finish              string   `json:"finish"`
	Frame               string   `json:"frame"`
	Quantity            int      `json:"quantity"`
	Price               *float64 `json:"price"`
	InstallerPrice      *float64 `json:"installer_price"`
	Notes               string   `json:"notes"`
}

func (r subOrderRequest) toInput() services.SubOrderInput {
	return services.SubOrderInput{
		PartnerType:         r.PartnerType,
		PartnerName:         r.PartnerName,
		ProductCategory:     r.ProductCategory,
		ActiveDoorWidth:     r.ActiveDoorWidth,
		ActiveDoorHeight:    r.ActiveDoorHeight,
		ActiveDoorDirection: r.ActiveDoorDirection,
		FixedDoorWidth:      r.FixedDoorWidth,
		FixedDoorHeight:     r.FixedDoorHeight,
		FixedDoorDirection:  r.FixedDoorDirection,
		InsertWidth:         r.InsertWidth,
		InsertHeight:        r.InsertHeight,
		InsertColor:         r.InsertColor,
		Drilling:            r.Drilling,
		Finish:              r.Finish,
		Frame:               r.Frame,
		Quantity:            r.Quantity,
		Price:               r.Price,
		InstallerPrice:      r.InstallerPrice,
		Notes:               r.Notes,
	}
}

// CreateSubOrder attaches a new sub-order to the requested group, defaulting
// to the currently active one.
func (h *OrderHandler) CreateSubOrder(c *fiber.Ctx) error {
	var req subOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var groupID *uuid.UUID
	if req.OrderGroupID != "" {
		id, err := uuid.Parse(req.OrderGroupID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order_group_id")
		}
		groupID = &id
	}

	sub, err := h.orders.CreateSubOrder(groupID, req.toInput())
	if err != nil {
		return mapOrderError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": sub})
}

// ListSubOrders returns paginated sub-orders with optional filters.
func (h *OrderHandler) ListSubOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.SubOrder{})

	if groupID := c.Query("group_id"); groupID != "" {
		id, err := uuid.Parse(groupID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid group_id")
		}
		query = query.Where("order_group_id = ?", id)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if partnerType := c.Query("partner_type"); partnerType != "" {
		query = query.Where("partner_type = ?", partnerType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var subOrders []models.SubOrder
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&subOrders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    subOrders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetSubOrder returns a single sub-order.
func (h *OrderHandler) GetSubOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var sub models.SubOrder
	if err := h.db.First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "sub-order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": sub})
}

// EditSubOrder replaces the mutable fields of a sub-order.
func (h *OrderHandler) EditSubOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req subOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	sub, err := h.orders.EditSubOrder(id, req.toInput())
	if err != nil {
		return mapOrderError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": sub})
}

// CancelSubOrder marks a sub-order cancelled without deleting it.
func (h *OrderHandler) CancelSubOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	sub, err := h.orders.CancelSubOrder(id)
	if err != nil {
		return mapOrderError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": sub})
}

// DeleteSubOrder removes a sub-order permanently.
func (h *OrderHandler) DeleteSubOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.orders.DeleteSubOrder(id); err != nil {
		return mapOrderError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func mapOrderError(err error) error {
	switch {
	case errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrSubOrderNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNoActiveGroup),
		errors.Is(err, services.ErrGroupClosed),
		errors.Is(err, services.ErrSubOrderCancelled):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrPartnerRequired),
		errors.Is(err, services.ErrPartnerInactive),
		errors.Is(err, services.ErrUnknownCategory),
		errors.Is(err, services.ErrMissingDimensions):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}
