package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/doorline/internal/models"
)

// Business-rule errors surfaced to handlers for status-code mapping.
var (
	ErrNoActiveGroup     = errors.New("no active order group")
	ErrGroupNotFound     = errors.New("order group not found")
	ErrGroupClosed       = errors.New("order group is already closed")
	ErrSubOrderNotFound  = errors.New("sub-order not found")
	ErrSubOrderCancelled = errors.New("sub-order is cancelled")
	ErrPartnerRequired   = errors.New("partner name is required")
	ErrPartnerInactive   = errors.New("partner is not on the active partner list")
	ErrUnknownCategory   = errors.New("unknown product category")
	ErrMissingDimensions = errors.New("missing required dimensions for product category")
)

// groupNumberPattern extracts the numeric suffix of a group number ("C48" -> 48).
var groupNumberPattern = regexp.MustCompile(`^C(\d+)$`)

// seedGroupNumber is the suffix the sequence continues from when no groups
// exist yet, so the first generated group is "C48".
const seedGroupNumber = 47

// categoryFields marks which dimension field sets a product category uses.
type categoryFields struct {
	activeDoor bool
	fixedDoor  bool
	insert     bool
}

var categories = map[string]categoryFields{
	models.CategoryDoorD80:     {activeDoor: true},
	models.CategoryDoorD82:     {activeDoor: true},
	models.CategoryDoorD88:     {activeDoor: true},
	models.CategoryDoorD100:    {activeDoor: true},
	models.CategoryDoorRHK:     {activeDoor: true},
	models.CategoryWingAndHalf: {activeDoor: true, fixedDoor: true},
	models.CategoryDoubleWing:  {activeDoor: true, fixedDoor: true},
	models.CategoryInsert:      {insert: true},
}

// SubOrderInput carries the mutable sub-order fields submitted by the order form.
type SubOrderInput struct {
	PartnerType         string
	PartnerName         string
	ProductCategory     string
	ActiveDoorWidth     *float64
	ActiveDoorHeight    *float64
	ActiveDoorDirection string
	FixedDoorWidth      *float64
	FixedDoorHeight     *float64
	FixedDoorDirection  string
	InsertWidth         *float64
	InsertHeight        *float64
	InsertColor         string
	Drilling            string
	Finish              string
	Frame               string
	Quantity            int
	Price               *float64
	InstallerPrice      *float64
	Notes               string
}

// OrderService owns the order group numbering scheme and the status
// transitions of groups and sub-orders.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService constructs an OrderService.
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateGroup closes the currently active group (if any) and opens the next
// one in the sequence. The whole step runs in a transaction and the unique
// index on group_number serializes concurrent callers; on a duplicate-number
// conflict the sequence is re-read and retried once.
func (s *OrderService) CreateGroup() (*models.OrderGroup, error) {
	group, err := s.createGroupOnce()
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		group, err = s.createGroupOnce()
	}
	return group, err
}

func (s *OrderService) createGroupOnce() (*models.OrderGroup, error) {
	var created models.OrderGroup

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OrderGroup{}).
			Where("status = ?", models.GroupStatusActive).
			Update("status", models.GroupStatusClosed).Error; err != nil {
			return fmt.Errorf("close active group: %w", err)
		}

		next := seedGroupNumber + 1
		var last models.OrderGroup
		err := tx.Order("created_at desc").First(&last).Error
		switch {
		case err == nil:
			if m := groupNumberPattern.FindStringSubmatch(last.GroupNumber); m != nil {
				if n, convErr := strconv.Atoi(m[1]); convErr == nil {
					next = n + 1
				}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// empty store, continue from the seed
		default:
			return fmt.Errorf("load latest group: %w", err)
		}

		created = models.OrderGroup{
			GroupNumber: fmt.Sprintf("C%d", next),
			Status:      models.GroupStatusActive,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("insert group %s: %w", created.GroupNumber, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// CloseGroup flips an active group to closed. Sub-order statuses are
// independent and are not touched.
func (s *OrderService) CloseGroup(id uuid.UUID) (*models.OrderGroup, error) {
	var group models.OrderGroup

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&group, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		if group.Status == models.GroupStatusClosed {
			return ErrGroupClosed
		}

		group.Status = models.GroupStatusClosed
		return tx.Model(&models.OrderGroup{}).Where("id = ?", group.ID).
			Update("status", models.GroupStatusClosed).Error
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// CreateSubOrder validates the order form against its product category and
// inserts the sub-order into the target group, defaulting to the active one.
// The full order number composes the group number with the group's own
// running counter, advanced in the same transaction.
func (s *OrderService) CreateSubOrder(groupID *uuid.UUID, in SubOrderInput) (*models.SubOrder, error) {
	var created models.SubOrder

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var group models.OrderGroup
		if groupID != nil {
			if err := tx.First(&group, "id = ?", *groupID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrGroupNotFound
				}
				return err
			}
		} else {
			if err := tx.First(&group, "status = ?", models.GroupStatusActive).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNoActiveGroup
				}
				return err
			}
		}

		if err := validateSubOrderInput(tx, &in); err != nil {
			return err
		}
		normalizeSubOrderInput(&in)

		group.LastSubNumber++
		if err := tx.Model(&models.OrderGroup{}).Where("id = ?", group.ID).
			Update("last_sub_number", group.LastSubNumber).Error; err != nil {
			return fmt.Errorf("advance sub-order counter: %w", err)
		}

		created = models.SubOrder{
			OrderGroupID:    group.ID,
			FullOrderNumber: fmt.Sprintf("%s-%d", group.GroupNumber, group.LastSubNumber),
			Status:          models.SubOrderStatusActive,
		}
		applySubOrderInput(&created, in)

		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("insert sub-order %s: %w", created.FullOrderNumber, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// EditSubOrder replaces the mutable fields of a sub-order. The status, full
// order number, and group reference never change. Cancelled sub-orders reject
// edits.
func (s *OrderService) EditSubOrder(id uuid.UUID, in SubOrderInput) (*models.SubOrder, error) {
	var updated models.SubOrder

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var sub models.SubOrder
		if err := tx.First(&sub, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubOrderNotFound
			}
			return err
		}
		if sub.Status == models.SubOrderStatusCancelled {
			return ErrSubOrderCancelled
		}

		if err := validateSubOrderInput(tx, &in); err != nil {
			return err
		}
		normalizeSubOrderInput(&in)

		applySubOrderInput(&sub, in)
		if err := tx.Save(&sub).Error; err != nil {
			return fmt.Errorf("update sub-order %s: %w", sub.FullOrderNumber, err)
		}
		updated = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// CancelSubOrder flips an active sub-order to cancelled. The record and all
// its fields are retained for history; cancelling twice is rejected.
func (s *OrderService) CancelSubOrder(id uuid.UUID) (*models.SubOrder, error) {
	var sub models.SubOrder

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sub, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubOrderNotFound
			}
			return err
		}
		if sub.Status == models.SubOrderStatusCancelled {
			return ErrSubOrderCancelled
		}

		sub.Status = models.SubOrderStatusCancelled
		return tx.Model(&models.SubOrder{}).Where("id = ?", sub.ID).
			Update("status", models.SubOrderStatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// DeleteSubOrder removes a sub-order permanently, regardless of status.
func (s *OrderService) DeleteSubOrder(id uuid.UUID) error {
	result := s.db.Delete(&models.SubOrder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubOrderNotFound
	}
	return nil
}

func validateSubOrderInput(tx *gorm.DB, in *SubOrderInput) error {
	if strings.TrimSpace(in.PartnerName) == "" {
		return ErrPartnerRequired
	}

	fields, ok := categories[in.ProductCategory]
	if !ok {
		return ErrUnknownCategory
	}

	var count int64
	if err := tx.Model(&models.Partner{}).
		Where("name = ? AND status = ?", in.PartnerName, models.PartnerStatusActive).
		Count(&count).Error; err != nil {
		return fmt.Errorf("look up partner %q: %w", in.PartnerName, err)
	}
	if count == 0 {
		return ErrPartnerInactive
	}

	if fields.activeDoor && (in.ActiveDoorWidth == nil || in.ActiveDoorHeight == nil || in.ActiveDoorDirection == "") {
		return ErrMissingDimensions
	}
	if fields.fixedDoor && (in.FixedDoorWidth == nil || in.FixedDoorHeight == nil) {
		return ErrMissingDimensions
	}
	if fields.insert && (in.InsertWidth == nil || in.InsertHeight == nil) {
		return ErrMissingDimensions
	}
	return nil
}

// normalizeSubOrderInput clears field sets that do not apply to the category
// so they are stored as NULL, and defaults the quantity to 1.
func normalizeSubOrderInput(in *SubOrderInput) {
	fields := categories[in.ProductCategory]

	if !fields.activeDoor {
		in.ActiveDoorWidth = nil
		in.ActiveDoorHeight = nil
		in.ActiveDoorDirection = ""
	}
	if !fields.fixedDoor {
		in.FixedDoorWidth = nil
		in.FixedDoorHeight = nil
		in.FixedDoorDirection = ""
	}
	if !fields.insert {
		in.InsertWidth = nil
		in.InsertHeight = nil
		in.InsertColor = ""
	}

	if in.Quantity < 1 {
		in.Quantity = 1
	}
}

func applySubOrderInput(sub *models.SubOrder, in SubOrderInput) {
	sub.PartnerType = in.PartnerType
	sub.PartnerName = in.PartnerName
	sub.ProductCategory = in.ProductCategory
	sub.ActiveDoorWidth = in.ActiveDoorWidth
	sub.ActiveDoorHeight = in.ActiveDoorHeight
	sub.ActiveDoorDirection = in.ActiveDoorDirection
	sub.FixedDoorWidth = in.FixedDoorWidth
	sub.FixedDoorHeight = in.FixedDoorHeight
	sub.FixedDoorDirection = in.FixedDoorDirection
	sub.InsertWidth = in.InsertWidth
	sub.InsertHeight = in.InsertHeight
	sub.InsertColor = in.InsertColor
	sub.Drilling = in.Drilling
	sub.Finish = in.Finish
	sub.Frame = in.Frame
	sub.Quantity = in.Quantity
	sub.Price = in.Price
	sub.InstallerPrice = in.InstallerPrice
	sub.Notes = in.Notes
}
