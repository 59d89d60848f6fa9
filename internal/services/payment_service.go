package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/doorline/internal/models"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvalidAmount   = errors.New("payment amount must be positive")
)

// PaymentService maintains the customer/supplier payment ledger.
type PaymentService struct {
	db *gorm.DB
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// RecordPayment adds amount to paid_amount and recomputes the open debt and
// status. There is no reconciliation beyond the threshold check: paid at or
// above total means paid.
func (s *PaymentService) RecordPayment(id uuid.UUID, amount float64) (*models.Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var payment models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		payment.PaidAmount += amount
		RecomputePayment(&payment)

		if err := tx.Save(&payment).Error; err != nil {
			return fmt.Errorf("update payment %s: %w", payment.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// RecomputePayment refreshes the open debt and status from the amount columns.
// A past due date marks an unpaid record overdue.
func RecomputePayment(p *models.Payment) {
	p.OpenDebt = p.TotalAmount - p.PaidAmount
	if p.OpenDebt < 0 {
		p.OpenDebt = 0
	}

	switch {
	case p.PaidAmount >= p.TotalAmount:
		p.Status = models.PaymentStatusPaid
	case p.DueDate != nil && p.DueDate.Before(time.Now()):
		p.Status = models.PaymentStatusOverdue
	default:
		p.Status = models.PaymentStatusPending
	}
}
