package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SyncTypeManual    = "manual"
	SyncTypeScheduled = "scheduled"

	SyncStatusInProgress     = "in_progress"
	SyncStatusSuccess        = "success"
	SyncStatusPartialSuccess = "partial_success"
	SyncStatusFailed         = "failed"

	SyncDetailSuccess = "success"
	SyncDetailFailed  = "failed"
)

// StockSyncSession is one reconciliation run against an external
// inventory system.
type StockSyncSession struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	MerchantID       uint       `json:"merchant_id" gorm:"index"`
	ExternalSystemID string     `json:"external_system_id"`
	SyncType         string     `json:"sync_type"`
	Status           string     `json:"status"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	SyncedItemsCount int        `json:"synced_items_count"`
	FailedItemsCount int        `json:"failed_items_count"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (s *StockSyncSession) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// StockSyncDetail is the per-item outcome of a sync session. Failed
// items carry the error code; ItemID is nil when the external id never
// resolved to a local ledger row.
type StockSyncDetail struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SyncSessionID     uuid.UUID `json:"sync_session_id" gorm:"type:uuid;index"`
	ItemID            *uint     `json:"item_id"`
	ExternalItemID    string    `json:"external_item_id"`
	ExternalVariantID string    `json:"external_variant_id"`
	PreviousQuantity  int       `json:"previous_quantity"`
	NewQuantity       int       `json:"new_quantity"`
	Status            string    `json:"status"`
	ErrorCode         string    `json:"error_code"`
	ErrorMessage      string    `json:"error_message"`
	CreatedAt         time.Time `json:"created_at"`
}

func (d *StockSyncDetail) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
