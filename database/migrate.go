// database/migrate.go
package database

import (
	"gorm.io/gorm"

	"github.com/osmanaliaydemir/getir-sub003/models"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Merchant{},
		&models.StockItem{},
		&models.StockHistory{},
		&models.StockSettings{},
		&models.StockAlert{},
		&models.StockSyncSession{},
		&models.StockSyncDetail{},
		&models.StockCountSession{},
		&models.StockCountItem{},
		&models.StockDiscrepancy{},
		&models.Order{},
		&models.OrderLine{},
	)
}
