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
	ErrStockOrderNotFound  = errors.New("stock order not found")
	ErrStockOrderFinalized = errors.New("stock order is already received or cancelled")
)

// StockOrderInput carries the fields of a new inbound stock order.
type StockOrderInput struct {
	SupplierName    string
	Source          string
	ItemName        string
	ProductCategory string
	Quantity        int
	Price           *float64
}

// StockService manages inbound stock orders and their movement entries.
type StockService struct {
	db *gorm.DB
}

// NewStockService constructs a StockService.
func NewStockService(db *gorm.DB) *StockService {
	return &StockService{db: db}
}

// Create inserts a stock order with the next sequential row number.
func (s *StockService) Create(in StockOrderInput) (*models.StockOrder, error) {
	var created models.StockOrder

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var maxRow int64
		if err := tx.Model(&models.StockOrder{}).
			Select("COALESCE(MAX(row_number), 0)").Scan(&maxRow).Error; err != nil {
			return fmt.Errorf("read last row number: %w", err)
		}

		quantity := in.Quantity
		if quantity < 1 {
			quantity = 1
		}

		created = models.StockOrder{
			RowNumber:       int(maxRow) + 1,
			SupplierName:    in.SupplierName,
			Source:          in.Source,
			ItemName:        in.ItemName,
			ProductCategory: in.ProductCategory,
			Quantity:        quantity,
			Price:           in.Price,
			Status:          models.StockOrderStatusOrdered,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("insert stock order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Receive transitions an ordered stock order to received, stamps the receipt
// time, and writes the matching inbound stock movement in the same
// transaction.
func (s *StockService) Receive(id uuid.UUID) (*models.StockOrder, error) {
	var order models.StockOrder

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStockOrderNotFound
			}
			return err
		}
		if order.Status != models.StockOrderStatusOrdered {
			return ErrStockOrderFinalized
		}

		now := time.Now()
		order.Status = models.StockOrderStatusReceived
		order.ReceivedAt = &now
		if err := tx.Model(&models.StockOrder{}).Where("id = ?", order.ID).
			Updates(map[string]any{
				"status":      models.StockOrderStatusReceived,
				"received_at": &now,
			}).Error; err != nil {
			return fmt.Errorf("update stock order %d: %w", order.RowNumber, err)
		}

		movement := models.StockMovement{
			StockOrderID: order.ID,
			ItemName:     order.ItemName,
			Quantity:     order.Quantity,
			Direction:    models.MovementDirectionIn,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return fmt.Errorf("insert stock movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Cancel transitions an ordered stock order to cancelled.
func (s *StockService) Cancel(id uuid.UUID) (*models.StockOrder, error) {
	var order models.StockOrder

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStockOrderNotFound
			}
			return err
		}
		if order.Status != models.StockOrderStatusOrdered {
			return ErrStockOrderFinalized
		}

		order.Status = models.StockOrderStatusCancelled
		return tx.Model(&models.StockOrder{}).Where("id = ?", order.ID).
			Update("status", models.StockOrderStatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
