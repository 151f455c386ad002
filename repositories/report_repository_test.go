package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/osmanaliaydemir/getir-sub003/controllers/idgen"
	"github.com/osmanaliaydemir/getir-sub003/database"
	"github.com/osmanaliaydemir/getir-sub003/models"
)

func setupReportDB(t *testing.T) (*gorm.DB, models.Merchant) {
	t.Helper()

	idgen.Init()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	user := models.User{Name: "Owner", Email: "owner@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	merchant := models.Merchant{Name: "Market", OwnerID: user.ID, IsActive: true}
	require.NoError(t, db.Create(&merchant).Error)

	settings := models.StockSettings{
		MerchantID:          merchant.ID,
		LowStockAlerts:      true,
		DefaultMinimumStock: 10,
		DefaultMaximumStock: 100,
		IsActive:            true,
	}
	require.NoError(t, db.Create(&settings).Error)

	items := []models.StockItem{
		{MerchantID: merchant.ID, ItemID: 1, Name: "Bread", Price: decimal.NewFromInt(2), Quantity: 0, IsActive: true},
		{MerchantID: merchant.ID, ItemID: 2, Name: "Eggs", Price: decimal.NewFromInt(5), Quantity: 4, IsAvailable: true, IsActive: true},
		{MerchantID: merchant.ID, ItemID: 3, Name: "Milk", Price: decimal.NewFromInt(3), Quantity: 50, IsAvailable: true, IsActive: true},
		{MerchantID: merchant.ID, ItemID: 4, Name: "Rice", Price: decimal.NewFromInt(10), Quantity: 200, IsAvailable: true, IsActive: true},
	}
	for i := range items {
		require.NoError(t, db.Create(&items[i]).Error)
	}

	return db, merchant
}

func TestGetInventoryLevels(t *testing.T) {
	db, merchant := setupReportDB(t)

	repo := NewReportRepository(db)
	levels, err := repo.GetInventoryLevels(merchant.ID)
	require.NoError(t, err)
	require.Len(t, levels, 4)

	statuses := map[string]string{}
	for _, level := range levels {
		statuses[level.Name] = level.Status
	}
	assert.Equal(t, "out_of_stock", statuses["Bread"])
	assert.Equal(t, "low_stock", statuses["Eggs"])
	assert.Equal(t, "in_stock", statuses["Milk"])
	assert.Equal(t, "overstock", statuses["Rice"])

	// Alphabetical: Bread, Eggs, Milk, Rice.
	assert.Equal(t, "Bread", levels[0].Name)
	assert.True(t, levels[1].StockValue.Equal(decimal.NewFromInt(20)), "4 eggs at 5 each")
}

func TestGetStockSummary(t *testing.T) {
	db, merchant := setupReportDB(t)

	repo := NewReportRepository(db)
	summary, err := repo.GetStockSummary(merchant.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalItems)
	assert.Equal(t, 1, summary.OutOfStockItems)
	assert.Equal(t, 1, summary.LowStockItems)
	assert.Equal(t, 1, summary.OverstockItems)
	// 0*2 + 4*5 + 50*3 + 200*10
	assert.True(t, summary.TotalValue.Equal(decimal.NewFromInt(2170)))
}

func TestGetTurnover(t *testing.T) {
	db, merchant := setupReportDB(t)

	histories := []models.StockHistory{
		{ItemID: 3, PreviousQuantity: 60, NewQuantity: 50, ChangeAmount: -10, ChangeType: models.ChangeTypeSale, ChangedAt: time.Now().Add(-time.Hour)},
		{ItemID: 3, PreviousQuantity: 50, NewQuantity: 55, ChangeAmount: 5, ChangeType: models.ChangeTypeReturn, ChangedAt: time.Now().Add(-time.Hour)},
	}
	for i := range histories {
		require.NoError(t, db.Create(&histories[i]).Error)
	}

	repo := NewReportRepository(db)
	items, err := repo.GetTurnover(merchant.ID, time.Now().Add(-24*time.Hour), time.Now())
	require.NoError(t, err)
	require.Len(t, items, 4)

	byName := map[string]TurnoverItem{}
	for _, item := range items {
		byName[item.Name] = item
	}
	// Only the sale counts as outbound movement.
	assert.Equal(t, 10, byName["Milk"].StockOut)
	assert.InDelta(t, 0.2, byName["Milk"].TurnoverRate, 0.001)
	assert.Equal(t, 0, byName["Bread"].StockOut)
}

func TestGetSlowMoving(t *testing.T) {
	db, merchant := setupReportDB(t)

	history := models.StockHistory{
		ItemID:       3,
		ChangeAmount: -1,
		ChangeType:   models.ChangeTypeSale,
		ChangedAt:    time.Now(),
	}
	require.NoError(t, db.Create(&history).Error)

	repo := NewReportRepository(db)
	items, err := repo.GetSlowMoving(merchant.ID, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	names := map[string]bool{}
	for _, item := range items {
		names[item.Name] = true
	}
	// Milk moved inside the window; everything else is slow.
	assert.False(t, names["Milk"])
	assert.True(t, names["Bread"])
	assert.True(t, names["Eggs"])
	assert.True(t, names["Rice"])
}

func TestGetValuation(t *testing.T) {
	db, merchant := setupReportDB(t)

	repo := NewReportRepository(db)
	valuation, err := repo.GetValuation(merchant.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, valuation.ItemCount)
	assert.True(t, valuation.TotalValue.Equal(decimal.NewFromInt(2170)))
	require.Len(t, valuation.Items, 4)
	assert.Equal(t, "Bread", valuation.Items[0].Name)
	assert.True(t, valuation.Items[3].TotalValue.Equal(decimal.NewFromInt(2000)))
}
