package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/example/doorline/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Partner{},
		&models.OrderGroup{},
		&models.SubOrder{},
		&models.Payment{},
		&models.StockOrder{},
		&models.StockMovement{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createActivePartner(t *testing.T, db *gorm.DB, name string) models.Partner {
	partner := models.Partner{
		Name:        name,
		PartnerType: models.PartnerTypeSupplier,
		Status:      models.PartnerStatusActive,
	}
	if err := db.Create(&partner).Error; err != nil {
		t.Fatalf("Failed to create partner: %v", err)
	}
	return partner
}

func f64(v float64) *float64 {
	return &v
}

func doorInput(partner string) SubOrderInput {
	return SubOrderInput{
		PartnerType:         models.PartnerTypeSupplier,
		PartnerName:         partner,
		ProductCategory:     models.CategoryDoorD82,
		ActiveDoorWidth:     f64(880),
		ActiveDoorHeight:    f64(1940),
		ActiveDoorDirection: "R",
		Quantity:            2,
		Price:               f64(500),
	}
}

func TestCreateGroupSequence(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	expected := []string{"C48", "C49", "C50"}
	for _, want := range expected {
		group, err := svc.CreateGroup()
		require.NoError(t, err)
		assert.Equal(t, want, group.GroupNumber)
		assert.Equal(t, models.GroupStatusActive, group.Status)

		var activeCount int64
		require.NoError(t, db.Model(&models.OrderGroup{}).
			Where("status = ?", models.GroupStatusActive).
			Count(&activeCount).Error)
		assert.Equal(t, int64(1), activeCount, "exactly one group must stay active")
	}

	var closed []models.OrderGroup
	require.NoError(t, db.Where("status = ?", models.GroupStatusClosed).
		Order("group_number asc").Find(&closed).Error)
	require.Len(t, closed, 2)
	assert.Equal(t, "C48", closed[0].GroupNumber)
	assert.Equal(t, "C49", closed[1].GroupNumber)
}

func TestCreateSubOrderCategoryFields(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	createActivePartner(t, db, "Hadar Doors")

	_, err := svc.CreateGroup()
	require.NoError(t, err)

	t.Run("insert category keeps only insert fields", func(t *testing.T) {
		sub, err := svc.CreateSubOrder(nil, SubOrderInput{
			PartnerType:     models.PartnerTypeSupplier,
			PartnerName:     "Hadar Doors",
			ProductCategory: models.CategoryInsert,
			InsertWidth:     f64(600),
			InsertHeight:    f64(400),
			InsertColor:     "white",
			// door fields sent by a sloppy client must not be stored
			ActiveDoorWidth:  f64(880),
			ActiveDoorHeight: f64(1940),
		})
		require.NoError(t, err)

		assert.NotNil(t, sub.InsertWidth)
		assert.NotNil(t, sub.InsertHeight)
		assert.Equal(t, "white", sub.InsertColor)
		assert.Nil(t, sub.ActiveDoorWidth)
		assert.Nil(t, sub.ActiveDoorHeight)
		assert.Empty(t, sub.ActiveDoorDirection)
		assert.Nil(t, sub.FixedDoorWidth)
	})

	t.Run("door category keeps only door fields", func(t *testing.T) {
		sub, err := svc.CreateSubOrder(nil, SubOrderInput{
			PartnerType:         models.PartnerTypeSupplier,
			PartnerName:         "Hadar Doors",
			ProductCategory:     models.CategoryDoorD80,
			ActiveDoorWidth:     f64(800),
			ActiveDoorHeight:    f64(2000),
			ActiveDoorDirection: "L",
			InsertWidth:         f64(600),
			InsertHeight:        f64(400),
		})
		require.NoError(t, err)

		assert.NotNil(t, sub.ActiveDoorWidth)
		assert.NotNil(t, sub.ActiveDoorHeight)
		assert.Equal(t, "L", sub.ActiveDoorDirection)
		assert.Nil(t, sub.InsertWidth)
		assert.Nil(t, sub.InsertHeight)
		assert.Empty(t, sub.InsertColor)
	})

	t.Run("double wing requires fixed door fields", func(t *testing.T) {
		_, err := svc.CreateSubOrder(nil, SubOrderInput{
			PartnerType:         models.PartnerTypeSupplier,
			PartnerName:         "Hadar Doors",
			ProductCategory:     models.CategoryDoubleWing,
			ActiveDoorWidth:     f64(800),
			ActiveDoorHeight:    f64(2000),
			ActiveDoorDirection: "R",
		})
		assert.ErrorIs(t, err, ErrMissingDimensions)
	})
}

func TestCreateSubOrderNumbering(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	createActivePartner(t, db, "Hadar Doors")

	group, err := svc.CreateGroup()
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		sub, err := svc.CreateSubOrder(nil, doorInput("Hadar Doors"))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("C48-%d", i), sub.FullOrderNumber)
		assert.Equal(t, group.ID, sub.OrderGroupID)
		assert.Equal(t, models.SubOrderStatusActive, sub.Status)
	}

	// numbering is scoped per group
	_, err = svc.CreateGroup()
	require.NoError(t, err)
	sub, err := svc.CreateSubOrder(nil, doorInput("Hadar Doors"))
	require.NoError(t, err)
	assert.Equal(t, "C49-1", sub.FullOrderNumber)
}

func TestCreateSubOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	createActivePartner(t, db, "Hadar Doors")

	inactive := models.Partner{
		Name:        "Old Supplier",
		PartnerType: models.PartnerTypeSupplier,
		Status:      models.PartnerStatusInactive,
	}
	require.NoError(t, db.Create(&inactive).Error)

	_, err := svc.CreateGroup()
	require.NoError(t, err)

	_, err = svc.CreateSubOrder(nil, SubOrderInput{ProductCategory: models.CategoryDoorD80})
	assert.ErrorIs(t, err, ErrPartnerRequired)

	in := doorInput("Old Supplier")
	_, err = svc.CreateSubOrder(nil, in)
	assert.ErrorIs(t, err, ErrPartnerInactive)

	in = doorInput("Hadar Doors")
	in.ProductCategory = "garage-door"
	_, err = svc.CreateSubOrder(nil, in)
	assert.ErrorIs(t, err, ErrUnknownCategory)

	in = doorInput("Hadar Doors")
	in.ActiveDoorHeight = nil
	_, err = svc.CreateSubOrder(nil, in)
	assert.ErrorIs(t, err, ErrMissingDimensions)
}

func TestCreateSubOrderDefaultsQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	createActivePartner(t, db, "Hadar Doors")

	_, err := svc.CreateGroup()
	require.NoError(t, err)

	in := doorInput("Hadar Doors")
	in.Quantity = 0
	sub, err := svc.CreateSubOrder(nil, in)
	require.NoError(t, err)
	assert.Equal(t, 1, sub.Quantity)
}

func TestCreateSubOrderNoActiveGroup(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	createActivePartner(t, db, "Hadar Doors")

	_, err := svc.CreateSubOrder(nil, doorInput("Hadar Doors"))
	assert.ErrorIs(t, err, ErrNoActiveGroup)
}

func TestCreateSubOrderExplicitGroup(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	createActivePartner(t, db, "Hadar Doors")

	first, err := svc.CreateGroup()
	require.NoError(t, err)
	_, err = svc.CreateGroup()
	require.NoError(t, err)

	// target the closed first group explicitly
	sub, err := svc.CreateSubOrder(&first.ID, doorInput("Hadar Doors"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, sub.OrderGroupID)
	assert.Equal(t, "C48-1", sub.FullOrderNumber)
}

func TestCancelSubOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	createActivePartner(t, db, "Hadar Doors")

	_, err := svc.CreateGroup()
	require.NoError(t, err)
	sub, err := svc.CreateSubOrder(nil, doorInput("Hadar Doors"))
	require.NoError(t, err)

	cancelled, err := svc.CancelSubOrder(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubOrderStatusCancelled, cancelled.Status)

	// all other fields stay untouched
	var reloaded models.SubOrder
	require.NoError(t, db.First(&reloaded, "id = ?", sub.ID).Error)
	assert.Equal(t, sub.FullOrderNumber, reloaded.FullOrderNumber)
	assert.Equal(t, sub.Quantity, reloaded.Quantity)
	require.NotNil(t, reloaded.Price)
	assert.Equal(t, *sub.Price, *reloaded.Price)
	require.NotNil(t, reloaded.ActiveDoorWidth)
	assert.Equal(t, *sub.ActiveDoorWidth, *reloaded.ActiveDoorWidth)

	// cancelled sub-orders reject further mutations
	_, err = svc.CancelSubOrder(sub.ID)
	assert.ErrorIs(t, err, ErrSubOrderCancelled)
	_, err = svc.EditSubOrder(sub.ID, doorInput("Hadar Doors"))
	assert.ErrorIs(t, err, ErrSubOrderCancelled)
}

func TestEditSubOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	createActivePartner(t, db, "Hadar Doors")

	group, err := svc.CreateGroup()
	require.NoError(t, err)
	sub, err := svc.CreateSubOrder(nil, doorInput("Hadar Doors"))
	require.NoError(t, err)

	in := doorInput("Hadar Doors")
	in.ActiveDoorWidth = f64(900)
	in.Quantity = 5
	in.Notes = "rush order"
	updated, err := svc.EditSubOrder(sub.ID, in)
	require.NoError(t, err)

	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, "rush order", updated.Notes)
	require.NotNil(t, updated.ActiveDoorWidth)
	assert.Equal(t, float64(900), *updated.ActiveDoorWidth)

	// identity fields never change on edit
	assert.Equal(t, sub.FullOrderNumber, updated.FullOrderNumber)
	assert.Equal(t, group.ID, updated.OrderGroupID)
	assert.Equal(t, models.SubOrderStatusActive, updated.Status)
}

func TestEditSubOrderSwitchCategoryClearsFields(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	createActivePartner(t, db, "Hadar Doors")

	_, err := svc.CreateGroup()
	require.NoError(t, err)
	sub, err := svc.CreateSubOrder(nil, doorInput("Hadar Doors"))
	require.NoError(t, err)

	updated, err := svc.EditSubOrder(sub.ID, SubOrderInput{
		PartnerType:     models.PartnerTypeSupplier,
		PartnerName:     "Hadar Doors",
		ProductCategory: models.CategoryInsert,
		InsertWidth:     f64(600),
		InsertHeight:    f64(400),
		Quantity:        1,
	})
	require.NoError(t, err)

	assert.Nil(t, updated.ActiveDoorWidth)
	assert.Empty(t, updated.ActiveDoorDirection)
	require.NotNil(t, updated.InsertWidth)

	var reloaded models.SubOrder
	require.NoError(t, db.First(&reloaded, "id = ?", sub.ID).Error)
	assert.Nil(t, reloaded.ActiveDoorWidth, "door columns must be NULL after switching to insert")
}

func TestDeleteSubOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	createActivePartner(t, db, "Hadar Doors")

	_, err := svc.CreateGroup()
	require.NoError(t, err)
	sub, err := svc.CreateSubOrder(nil, doorInput("Hadar Doors"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSubOrder(sub.ID))

	var reloaded models.SubOrder
	err = db.First(&reloaded, "id = ?", sub.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, svc.DeleteSubOrder(sub.ID), ErrSubOrderNotFound)
}

func TestCloseGroupKeepsSubOrdersActive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	createActivePartner(t, db, "Hadar Doors")

	group, err := svc.CreateGroup()
	require.NoError(t, err)
	sub, err := svc.CreateSubOrder(nil, doorInput("Hadar Doors"))
	require.NoError(t, err)

	closed, err := svc.CloseGroup(group.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GroupStatusClosed, closed.Status)

	var reloaded models.SubOrder
	require.NoError(t, db.First(&reloaded, "id = ?", sub.ID).Error)
	assert.Equal(t, models.SubOrderStatusActive, reloaded.Status)

	_, err = svc.CloseGroup(group.ID)
	assert.ErrorIs(t, err, ErrGroupClosed)

	_, err = svc.CloseGroup(uuid.New())
	assert.ErrorIs(t, err, ErrGroupNotFound)
}
