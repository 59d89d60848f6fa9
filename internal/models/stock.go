package models

import (
	"time"

	"github.com/google/uuid"
)

// Stock order statuses and sources.
const (
	StockOrderStatusOrdered   = "ordered"
	StockOrderStatusReceived  = "received"
	StockOrderStatusCancelled = "cancelled"

	StockSourceSupplier = "supplier"
	StockSourceReseller = "reseller"
)

// Stock movement directions.
const (
	MovementDirectionIn  = "in"
	MovementDirectionOut = "out"
)

// StockOrder is an inbound replenishment order, numbered by a simple
// sequential row counter independent of the customer-facing order groups.
type StockOrder struct {
	BaseModel
	RowNumber       int        `gorm:"uniqueIndex" json:"row_number"`
	SupplierName    string     `gorm:"index" json:"supplier_name"`
	Source          string     `json:"source"`
	ItemName        string     `json:"item_name"`
	ProductCategory string     `json:"product_category"`
	Quantity        int        `json:"quantity"`
	Price           *float64   `json:"price"`
	Status          string     `gorm:"index" json:"status"`
	ReceivedAt      *time.Time `json:"received_at"`
}

// StockMovement records a quantity entering or leaving stock. One is written
// whenever a stock order is received.
type StockMovement struct {
	BaseModel
	StockOrderID uuid.UUID `gorm:"type:uuid;index" json:"stock_order_id"`
	ItemName     string    `json:"item_name"`
	Quantity     int       `json:"quantity"`
	Direction    string    `json:"direction"`
}
