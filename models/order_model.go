package models

import (
	"gorm.io/gorm"
)

const (
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
)

// Order and OrderLine back the order-line source consumed by the
// reduce/restore operations. The stock core only reads them.
type Order struct {
	gorm.Model
	MerchantID  uint        `json:"merchant_id" gorm:"index"`
	OrderNumber string      `json:"order_number" gorm:"unique"`
	Status      string      `json:"status"`
	Lines       []OrderLine `json:"lines" gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

type OrderLine struct {
	gorm.Model
	OrderID   uint  `json:"order_id" gorm:"index"`
	ItemID    uint  `json:"item_id"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}
