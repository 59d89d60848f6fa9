package models

// Partner types and statuses.
const (
	PartnerTypeSupplier   = "supplier"
	PartnerTypeContractor = "contractor"

	PartnerStatusActive   = "active"
	PartnerStatusInactive = "inactive"
)

// Partner is a supplier or contractor counterparty. Sub-orders and payments
// reference partners by name; the active list drives the order form dropdown.
type Partner struct {
	BaseModel
	Name        string `gorm:"index" json:"name"`
	PartnerType string `gorm:"index" json:"partner_type"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	City        string `json:"city"`
	Status      string `gorm:"index" json:"status"`
}
