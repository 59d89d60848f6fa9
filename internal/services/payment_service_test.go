package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/doorline/internal/models"
)

func createPayment(t *testing.T, db *gorm.DB, total, paid float64, due *time.Time) models.Payment {
	payment := models.Payment{
		Kind:        models.PaymentKindCustomer,
		PartnerName: "Hadar Doors",
		TotalAmount: total,
		PaidAmount:  paid,
		DueDate:     due,
	}
	RecomputePayment(&payment)
	require.NoError(t, db.Create(&payment).Error)
	return payment
}

func TestRecordPaymentFull(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	payment := createPayment(t, db, 1000, 0, nil)

	updated, err := svc.RecordPayment(payment.ID, 1000)
	require.NoError(t, err)

	assert.Equal(t, float64(1000), updated.PaidAmount)
	assert.Equal(t, float64(0), updated.OpenDebt)
	assert.Equal(t, models.PaymentStatusPaid, updated.Status)
}

func TestRecordPaymentPartial(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	payment := createPayment(t, db, 1000, 0, nil)

	updated, err := svc.RecordPayment(payment.ID, 400)
	require.NoError(t, err)

	assert.Equal(t, float64(400), updated.PaidAmount)
	assert.Equal(t, float64(600), updated.OpenDebt)
	assert.Equal(t, models.PaymentStatusPending, updated.Status)
}

func TestRecordPaymentOverdue(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)

	yesterday := time.Now().Add(-24 * time.Hour)
	payment := createPayment(t, db, 1000, 0, &yesterday)
	assert.Equal(t, models.PaymentStatusOverdue, payment.Status)

	updated, err := svc.RecordPayment(payment.ID, 300)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusOverdue, updated.Status)

	// settling the full amount clears the overdue flag
	updated, err = svc.RecordPayment(payment.ID, 700)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.Status)
}

func TestRecordPaymentOverpaymentFloorsDebt(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	payment := createPayment(t, db, 1000, 0, nil)

	updated, err := svc.RecordPayment(payment.ID, 1200)
	require.NoError(t, err)

	assert.Equal(t, float64(1200), updated.PaidAmount)
	assert.Equal(t, float64(0), updated.OpenDebt)
	assert.Equal(t, models.PaymentStatusPaid, updated.Status)
}

func TestRecordPaymentErrors(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	payment := createPayment(t, db, 1000, 0, nil)

	_, err := svc.RecordPayment(payment.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.RecordPayment(payment.ID, -50)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.RecordPayment(uuid.New(), 100)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}
