package models

import "time"

// Payment kinds and statuses.
const (
	PaymentKindCustomer = "customer"
	PaymentKindSupplier = "supplier"

	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"
	PaymentStatusOverdue = "overdue"
)

// Payment tracks money owed to or by a partner. OpenDebt and Status are
// recomputed on every write, never read back stale.
type Payment struct {
	BaseModel
	Kind        string     `gorm:"index" json:"kind"`
	PartnerName string     `gorm:"index" json:"partner_name"`
	TotalAmount float64    `json:"total_amount"`
	PaidAmount  float64    `json:"paid_amount"`
	OpenDebt    float64    `json:"open_debt"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `gorm:"index" json:"status"`
}
