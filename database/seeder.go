// database/seeder.go
package database

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/rand"
	"gorm.io/gorm"

	"github.com/osmanaliaydemir/getir-sub003/models"
)

func RunSeeders(db *gorm.DB) {
	SeedUserMaster(db)
	SeedMerchant(db)
	SeedStockItems(db)
	SeedOrders(db)
}

func SeedUserMaster(db *gorm.DB) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	user := models.User{
		Name:     "Demo Owner",
		Email:    "owner@example.com",
		Password: string(hashed),
	}

	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&user).Error; err != nil {
				log.Fatalf("Failed to create seed user: %v", err)
			}
		} else {
			log.Fatalf("Unexpected DB error: %v", err)
		}
	}
}

func SeedMerchant(db *gorm.DB) {
	var owner models.User
	if err := db.Where("email = ?", "owner@example.com").First(&owner).Error; err != nil {
		log.Fatalf("Seed user missing: %v", err)
	}

	merchant := models.Merchant{
		Name:     "Demo Market",
		OwnerID:  owner.ID,
		Email:    owner.Email,
		IsActive: true,
	}

	var existing models.Merchant
	if err := db.Where("owner_id = ?", owner.ID).First(&existing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&merchant).Error; err != nil {
				log.Fatalf("Failed to create seed merchant: %v", err)
			}
			existing = merchant
		} else {
			log.Fatalf("Unexpected DB error: %v", err)
		}
	}

	settings := models.StockSettings{
		MerchantID:          existing.ID,
		AutoStockReduction:  true,
		LowStockAlerts:      true,
		OverstockAlerts:     false,
		DefaultMinimumStock: 10,
		DefaultMaximumStock: 1000,
		SyncIntervalMinutes: 60,
		IsActive:            true,
	}

	var existingSettings models.StockSettings
	if err := db.Where("merchant_id = ?", existing.ID).First(&existingSettings).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			db.Create(&settings)
		}
	}
}

func SeedStockItems(db *gorm.DB) {
	var merchant models.Merchant
	if err := db.Where("name = ?", "Demo Market").First(&merchant).Error; err != nil {
		log.Fatalf("Seed merchant missing: %v", err)
	}

	names := []string{"Milk 1L", "Bread", "Eggs 10pk", "Butter 250g", "Orange Juice", "Coffee 500g"}

	for i, name := range names {
		item := models.StockItem{
			MerchantID: merchant.ID,
			ItemID:     uint(i + 1),
			Name:       name,
			ExternalID: fmt.Sprintf("EXT-%03d", i+1),
			Price:      decimal.NewFromInt(int64(rand.Intn(90) + 10)).Div(decimal.NewFromInt(4)),
			Quantity:   rand.Intn(120),
			IsActive:   true,
		}
		item.IsAvailable = item.Quantity > 0

		var existing models.StockItem
		err := db.Where("merchant_id = ? AND item_id = ? AND variant_id IS NULL", merchant.ID, item.ItemID).First(&existing).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				db.Create(&item)
			}
		}
	}
}

func SeedOrders(db *gorm.DB) {
	var merchant models.Merchant
	if err := db.Where("name = ?", "Demo Market").First(&merchant).Error; err != nil {
		log.Fatalf("Seed merchant missing: %v", err)
	}

	order := models.Order{
		MerchantID:  merchant.ID,
		OrderNumber: "ORD-0001",
		Status:      "confirmed",
		Lines: []models.OrderLine{
			{ItemID: 1, Quantity: 2},
			{ItemID: 2, Quantity: 1},
		},
	}

	var existing models.Order
	if err := db.Where("order_number = ?", order.OrderNumber).First(&existing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			db.Create(&order)
		}
	}
}
