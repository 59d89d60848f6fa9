package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/doorline/internal/models"
	"github.com/example/doorline/internal/utils"
)

// PartnerHandler manages the supplier/contractor reference list.
type PartnerHandler struct {
	db *gorm.DB
}

// NewPartnerHandler constructs PartnerHandler.
func NewPartnerHandler(db *gorm.DB) *PartnerHandler {
	return &PartnerHandler{db: db}
}

// ListPartners returns paginated partners. The order form uses
// ?status=active&partner_type=supplier to populate its dropdowns.
func (h *PartnerHandler) ListPartners(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Partner{})

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

	var partners []models.Partner
	if err := query.Order("name asc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&partners).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    partners,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetPartner returns a single partner by ID.
func (h *PartnerHandler) GetPartner(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var partner models.Partner
	if err := h.db.First(&partner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "partner not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": partner})
}

// CreatePartner persists a new partner, active by default.
func (h *PartnerHandler) CreatePartner(c *fiber.Ctx) error {
	var payload models.Partner
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "partner name is required")
	}
	if payload.Status == "" {
		payload.Status = models.PartnerStatusActive
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdatePartner updates an existing partner.
func (h *PartnerHandler) UpdatePartner(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var partner models.Partner
	if err := h.db.First(&partner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "partner not found")
		}
		return err
	}

	var payload models.Partner
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payload.ID = partner.ID
	if err := h.db.Model(&partner).Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": partner})
}

// DeletePartner removes a partner by ID.
func (h *PartnerHandler) DeletePartner(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Partner{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
