package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/doorline/internal/models"
)

func stockInput(item string) StockOrderInput {
	return StockOrderInput{
		SupplierName:    "Hadar Doors",
		Source:          models.StockSourceSupplier,
		ItemName:        item,
		ProductCategory: models.CategoryDoorD80,
		Quantity:        4,
		Price:           f64(350),
	}
}

func TestCreateStockOrderRowNumbers(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)

	first, err := svc.Create(stockInput("D80 blank"))
	require.NoError(t, err)
	second, err := svc.Create(stockInput("D82 blank"))
	require.NoError(t, err)

	assert.Equal(t, 1, first.RowNumber)
	assert.Equal(t, 2, second.RowNumber)
	assert.Equal(t, models.StockOrderStatusOrdered, first.Status)
}

func TestCreateStockOrderDefaultsQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)

	in := stockInput("D80 blank")
	in.Quantity = 0
	order, err := svc.Create(in)
	require.NoError(t, err)
	assert.Equal(t, 1, order.Quantity)
}

func TestReceiveStockOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)

	order, err := svc.Create(stockInput("D80 blank"))
	require.NoError(t, err)

	received, err := svc.Receive(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StockOrderStatusReceived, received.Status)
	assert.NotNil(t, received.ReceivedAt)

	var movement models.StockMovement
	require.NoError(t, db.First(&movement, "stock_order_id = ?", order.ID).Error)
	assert.Equal(t, models.MovementDirectionIn, movement.Direction)
	assert.Equal(t, order.ItemName, movement.ItemName)
	assert.Equal(t, order.Quantity, movement.Quantity)

	// terminal states reject further transitions
	_, err = svc.Receive(order.ID)
	assert.ErrorIs(t, err, ErrStockOrderFinalized)
	_, err = svc.Cancel(order.ID)
	assert.ErrorIs(t, err, ErrStockOrderFinalized)
}

func TestCancelStockOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)

	order, err := svc.Create(stockInput("D80 blank"))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StockOrderStatusCancelled, cancelled.Status)

	// no movement is written for cancelled orders
	var count int64
	require.NoError(t, db.Model(&models.StockMovement{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	_, err = svc.Receive(order.ID)
	assert.ErrorIs(t, err, ErrStockOrderFinalized)
}

func TestStockOrderNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)

	_, err := svc.Receive(uuid.New())
	assert.ErrorIs(t, err, ErrStockOrderNotFound)
	_, err = svc.Cancel(uuid.New())
	assert.ErrorIs(t, err, ErrStockOrderNotFound)
}
