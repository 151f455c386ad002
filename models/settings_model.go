package models

import (
	"time"

	"gorm.io/gorm"
)

// StockSettings holds the per-merchant stock policy. One row per
// merchant, replaced wholesale on update.
type StockSettings struct {
	gorm.Model
	MerchantID          uint       `json:"merchant_id" gorm:"uniqueIndex"`
	AutoStockReduction  bool       `json:"auto_stock_reduction" gorm:"default:true"`
	LowStockAlerts      bool       `json:"low_stock_alerts" gorm:"default:true"`
	OverstockAlerts     bool       `json:"overstock_alerts" gorm:"default:false"`
	DefaultMinimumStock int        `json:"default_minimum_stock" gorm:"default:10"`
	DefaultMaximumStock int        `json:"default_maximum_stock" gorm:"default:1000"`
	EnableStockSync     bool       `json:"enable_stock_sync" gorm:"default:false"`
	ExternalSystemID    string     `json:"external_system_id"`
	SyncApiKey          string     `json:"-"`
	SyncApiUrl          string     `json:"sync_api_url"`
	SyncIntervalMinutes int        `json:"sync_interval_minutes" gorm:"default:60"`
	LastSyncAt          *time.Time `json:"last_sync_at"`
	IsActive            bool       `json:"is_active" gorm:"default:true"`
}
