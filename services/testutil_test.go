package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/osmanaliaydemir/getir-sub003/controllers/idgen"
	"github.com/osmanaliaydemir/getir-sub003/database"
	"github.com/osmanaliaydemir/getir-sub003/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	idgen.Init()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// seedMerchant creates a user, their merchant and active stock
// settings with the given thresholds.
func seedMerchant(t *testing.T, db *gorm.DB, minStock, maxStock int) (models.User, models.Merchant, models.StockSettings) {
	t.Helper()

	user := models.User{Name: "Owner", Email: fmt.Sprintf("%s@example.com", uuid.NewString()), Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	merchant := models.Merchant{Name: "Market", OwnerID: user.ID, Email: user.Email, IsActive: true}
	if err := db.Create(&merchant).Error; err != nil {
		t.Fatalf("failed to seed merchant: %v", err)
	}

	settings := models.StockSettings{
		MerchantID:          merchant.ID,
		AutoStockReduction:  true,
		LowStockAlerts:      true,
		OverstockAlerts:     true,
		DefaultMinimumStock: minStock,
		DefaultMaximumStock: maxStock,
		IsActive:            true,
	}
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}

	return user, merchant, settings
}

func seedItem(t *testing.T, db *gorm.DB, merchantID, itemID uint, quantity int) models.StockItem {
	t.Helper()

	item := models.StockItem{
		MerchantID:  merchantID,
		ItemID:      itemID,
		Name:        fmt.Sprintf("Item %d", itemID),
		ExternalID:  fmt.Sprintf("EXT-%d", itemID),
		Price:       decimal.NewFromFloat(9.50),
		Quantity:    quantity,
		IsAvailable: quantity > 0,
		IsActive:    true,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to seed stock item: %v", err)
	}
	return item
}
