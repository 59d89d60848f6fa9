package models

// InventoryItem is a stocked product line shown on the inventory screens and
// fed to the inventory assistant.
type InventoryItem struct {
	BaseModel
	Name            string  `gorm:"index" json:"name"`
	ProductCategory string  `gorm:"index" json:"product_category"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	Location        string  `json:"location"`
	Notes           string  `json:"notes"`
}
