package models

import (
	"time"

	"github.com/osmanaliaydemir/getir-sub003/controllers/idgen"
	"github.com/osmanaliaydemir/getir-sub003/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock change types recorded in stock_histories.
const (
	ChangeTypeSale             = "sale"
	ChangeTypeReturn           = "return"
	ChangeTypeManualAdjustment = "manual_adjustment"
	ChangeTypeCorrection       = "correction"
	ChangeTypeSync             = "sync"
)

// StockItem is the ledger row holding the current quantity for a
// product or a specific product variant. VariantID is null for the
// base product row; (item_id, variant_id) is unique.
type StockItem struct {
	gorm.Model
	MerchantID  uint            `json:"merchant_id" gorm:"index"`
	ItemID      uint            `json:"item_id" gorm:"uniqueIndex:idx_item_variant"`
	VariantID   *uint           `json:"variant_id" gorm:"uniqueIndex:idx_item_variant"`
	Name        string          `json:"name"`
	ExternalID  string          `json:"external_id" gorm:"index"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(18,2)"`
	Quantity    int             `json:"quantity" gorm:"default:0"`
	IsAvailable bool            `json:"is_available" gorm:"default:false"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
}

// StockHistory is the append-only record of every applied ledger
// change. ChangeAmount is always new_quantity - previous_quantity.
type StockHistory struct {
	ID               types.SnowflakeID `json:"id" gorm:"primaryKey"`
	ItemID           uint              `json:"item_id" gorm:"index"`
	VariantID        *uint             `json:"variant_id"`
	PreviousQuantity int               `json:"previous_quantity"`
	NewQuantity      int               `json:"new_quantity"`
	ChangeAmount     int               `json:"change_amount"`
	ChangeType       string            `json:"change_type"`
	Reason           string            `json:"reason"`
	OrderID          *uint             `json:"order_id"`
	ReferenceNumber  string            `json:"reference_number"`
	ChangedBy        int               `json:"changed_by"`
	ChangedAt        time.Time         `json:"changed_at"`
}

func (h *StockHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == 0 {
		h.ID = types.SnowflakeID(idgen.GenerateID())
	}
	if h.ChangedAt.IsZero() {
		h.ChangedAt = time.Now().UTC()
	}
	return
}
