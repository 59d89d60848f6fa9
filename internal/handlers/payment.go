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

// PaymentHandler manages the customer/supplier payment ledger endpoints.
type PaymentHandler struct {
	db       *gorm.DB
	payments *services.PaymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(db *gorm.DB, payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{db: db, payments: payments}
}

// ListPayments returns paginated payment records with optional filters.
func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Payment{})

	if kind := c.Query("kind"); kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if partner := c.Query("partner_name"); partner != "" {
		query = query.Where("partner_name = ?", partner)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var payments []models.Payment
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&payments).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payments,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetPayment returns a single payment record.
func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var payment models.Payment
	if err := h.db.First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "payment not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": payment})
}

// CreatePayment persists a new payment record with a freshly computed open
// debt and status.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	var payload models.Payment
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.PartnerName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "partner name is required")
	}
	if payload.Kind == "" {
		payload.Kind = models.PaymentKindCustomer
	}

	services.RecomputePayment(&payload)

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

type payRequest struct {
	Amount float64 `json:"amount"`
}

// Pay records an incoming amount against a payment record.
func (h *PaymentHandler) Pay(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req payRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payment, err := h.payments.RecordPayment(id, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrInvalidAmount):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": payment})
}

// DeletePayment removes a payment record.
func (h *PaymentHandler) DeletePayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Payment{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
