package models

import (
	"time"

	"github.com/osmanaliaydemir/getir-sub003/controllers/idgen"
	"github.com/osmanaliaydemir/getir-sub003/types"
	"gorm.io/gorm"
)

const (
	AlertTypeLowStock   = "low_stock"
	AlertTypeOutOfStock = "out_of_stock"
	AlertTypeOverstock  = "overstock"
)

// StockAlert records a threshold crossing for one ledger row. At most
// one unresolved alert may exist per (item_id, variant_id, alert_type).
type StockAlert struct {
	ID              types.SnowflakeID `json:"id" gorm:"primaryKey"`
	ItemID          uint              `json:"item_id" gorm:"index"`
	VariantID       *uint             `json:"variant_id"`
	MerchantID      uint              `json:"merchant_id" gorm:"index"`
	AlertType       string            `json:"alert_type"`
	CurrentStock    int               `json:"current_stock"`
	MinimumStock    int               `json:"minimum_stock"`
	MaximumStock    int               `json:"maximum_stock"`
	Message         string            `json:"message"`
	IsResolved      bool              `json:"is_resolved" gorm:"default:false"`
	ResolvedBy      *uint             `json:"resolved_by"`
	ResolvedAt      *time.Time        `json:"resolved_at"`
	ResolutionNotes string            `json:"resolution_notes"`
	CreatedAt       time.Time         `json:"created_at"`
}

func (a *StockAlert) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == 0 {
		a.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}
