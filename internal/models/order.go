package models

import (
	"github.com/google/uuid"
)

// Order group statuses. At most one group is active at any time.
const (
	GroupStatusActive = "active"
	GroupStatusClosed = "closed"
)

// Sub-order statuses.
const (
	SubOrderStatusActive    = "active"
	SubOrderStatusCancelled = "cancelled"
)

// Product categories. Door categories use the active-door dimension fields,
// the two multi-wing categories additionally use the fixed-door fields, and
// inserts use only the insert fields.
const (
	CategoryDoorD80     = "door-d80"
	CategoryDoorD82     = "door-d82"
	CategoryDoorD88     = "door-d88"
	CategoryDoorD100    = "door-d100"
	CategoryDoorRHK     = "door-rhk"
	CategoryWingAndHalf = "wing-and-half"
	CategoryDoubleWing  = "double-wing"
	CategoryInsert      = "insert"
)

// OrderGroup is a numbered batch of sub-orders ("C48", "C49", ...).
// LastSubNumber is the per-group counter used to compose full order numbers.
type OrderGroup struct {
	BaseModel
	GroupNumber   string     `gorm:"uniqueIndex" json:"group_number"`
	Status        string     `gorm:"index" json:"status"`
	LastSubNumber int        `json:"last_sub_number"`
	SubOrders     []SubOrder `json:"sub_orders,omitempty"`
}

// SubOrder is a single door or insert line item inside an order group.
// Dimension fields are pointers so columns irrelevant to the category stay
// NULL instead of reading as zero measurements.
type SubOrder struct {
	BaseModel
	OrderGroupID    uuid.UUID   `gorm:"type:uuid;index" json:"order_group_id"`
	OrderGroup      *OrderGroup `json:"order_group,omitempty"`
	FullOrderNumber string      `gorm:"uniqueIndex" json:"full_order_number"`
	PartnerType     string      `json:"partner_type"`
	PartnerName     string      `gorm:"index" json:"partner_name"`
	ProductCategory string      `gorm:"index" json:"product_category"`

	ActiveDoorWidth     *float64 `json:"active_door_width"`
	ActiveDoorHeight    *float64 `json:"active_door_height"`
	ActiveDoorDirection string   `json:"active_door_direction"`
	FixedDoorWidth      *float64 `json:"fixed_door_width"`
	FixedDoorHeight     *float64 `json:"fixed_door_height"`
	FixedDoorDirection  string   `json:"fixed_door_direction"`
	InsertWidth         *float64 `json:"insert_width"`
	InsertHeight        *float64 `json:"insert_height"`
	InsertColor         string   `json:"insert_color"`

	Drilling       string   `json:"drilling"`
	Finish         string   `json:"finish"`
	Frame          string   `json:"frame"`
	Quantity       int      `json:"quantity"`
	Price          *float64 `json:"price"`
	InstallerPrice *float64 `json:"installer_price"`
	Notes          string   `json:"notes"`
	Status         string   `gorm:"index" json:"status"`
}
