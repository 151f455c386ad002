package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CountStatusInProgress = "in_progress"
	CountStatusCompleted  = "completed"

	DiscrepancyStatusPending  = "pending"
	DiscrepancyStatusResolved = "resolved"
)

// StockCountSession is one physical count run. It only records
// observations; corrections go through the ledger separately.
type StockCountSession struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	MerchantID       uint       `json:"merchant_id" gorm:"index"`
	CountDate        time.Time  `json:"count_date"`
	CountType        string     `json:"count_type"`
	Status           string     `json:"status"`
	DiscrepancyCount int        `json:"discrepancy_count"`
	Notes            string     `json:"notes"`
	CreatedBy        uint       `json:"created_by"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}

func (s *StockCountSession) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

type StockCountItem struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CountSessionID   uuid.UUID `json:"count_session_id" gorm:"type:uuid;index"`
	ItemID           uint      `json:"item_id"`
	VariantID        *uint     `json:"variant_id"`
	ExpectedQuantity int       `json:"expected_quantity"`
	CountedQuantity  int       `json:"counted_quantity"`
	Variance         int       `json:"variance"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
}

func (i *StockCountItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// StockDiscrepancy is created for every counted item whose counted
// quantity differs from the ledger quantity at count time.
type StockDiscrepancy struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	CountSessionID     uuid.UUID  `json:"count_session_id" gorm:"type:uuid;index"`
	ItemID             uint       `json:"item_id"`
	VariantID          *uint      `json:"variant_id"`
	ExpectedQuantity   int        `json:"expected_quantity"`
	ActualQuantity     int        `json:"actual_quantity"`
	Variance           int        `json:"variance"`
	VariancePercentage float64    `json:"variance_percentage"`
	Status             string     `json:"status"`
	ResolutionNotes    string     `json:"resolution_notes"`
	CreatedAt          time.Time  `json:"created_at"`
	ResolvedAt         *time.Time `json:"resolved_at"`
}

func (d *StockDiscrepancy) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
