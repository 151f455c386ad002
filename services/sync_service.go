package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/osmanaliaydemir/getir-sub003/models"
	"gorm.io/gorm"
)

// SyncService reconciles the local ledger against an external
// inventory snapshot. Per-item failures are captured as data; only a
// systemic failure outside the item loop rolls the session back.
type SyncService struct {
	DB    *gorm.DB
	Stock *StockService
}

func NewSyncService(DB *gorm.DB, stock *StockService) *SyncService {
	return &SyncService{DB: DB, Stock: stock}
}

type ExternalStockItem struct {
	ExternalItemID    string `json:"external_item_id" validate:"required"`
	ExternalVariantID string `json:"external_variant_id"`
	Quantity          int    `json:"quantity"`
	IsAvailable       bool   `json:"is_available"`
}

type SyncRequest struct {
	MerchantID       uint                `json:"merchant_id" validate:"required"`
	ExternalSystemID string              `json:"external_system_id"`
	SyncType         string              `json:"sync_type"`
	Items            []ExternalStockItem `json:"items"`
}

type SyncItemError struct {
	ExternalItemID    string `json:"external_item_id"`
	ExternalVariantID string `json:"external_variant_id"`
	Message           string `json:"message"`
	Code              string `json:"code"`
}

type SyncResult struct {
	SessionID   uuid.UUID       `json:"session_id"`
	Status      string          `json:"status"`
	TotalItems  int             `json:"total_items"`
	SyncedItems int             `json:"synced_items"`
	FailedItems int             `json:"failed_items"`
	Errors      []SyncItemError `json:"errors"`
}

// SynchronizeWithExternal runs one sync session over the supplied
// external snapshot. Items that fail to resolve or to apply are
// recorded and skipped; the session plus every per-item success commit
// atomically at the end.
func (s *SyncService) SynchronizeWithExternal(req SyncRequest) (*SyncResult, error) {
	var settings models.StockSettings
	if err := s.DB.Where("merchant_id = ? AND is_active = ?", req.MerchantID, true).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSyncNotEnabled
		}
		return nil, err
	}
	if !settings.EnableStockSync {
		return nil, ErrSyncNotEnabled
	}

	syncType := req.SyncType
	if syncType == "" {
		syncType = models.SyncTypeManual
	}

	result := &SyncResult{}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		session := models.StockSyncSession{
			MerchantID:       req.MerchantID,
			ExternalSystemID: req.ExternalSystemID,
			SyncType:         syncType,
			Status:           models.SyncStatusInProgress,
			StartedAt:        time.Now().UTC(),
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		for _, external := range req.Items {
			if err := s.syncItem(tx, &session, external, result); err != nil {
				// Unexpected per-item error: captured, not fatal.
				log.Println("Error syncing external item", external.ExternalItemID, ":", err)
				s.recordFailure(tx, &session, external, "SYNC_ERROR", err.Error(), result)
			}
		}

		now := time.Now().UTC()
		session.CompletedAt = &now
		session.SyncedItemsCount = result.SyncedItems
		session.FailedItemsCount = result.FailedItems
		if result.FailedItems > 0 {
			session.Status = models.SyncStatusPartialSuccess
		} else {
			session.Status = models.SyncStatusSuccess
		}
		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		settings.LastSyncAt = &now
		if err := tx.Save(&settings).Error; err != nil {
			return err
		}

		result.SessionID = session.ID
		result.Status = session.Status
		result.TotalItems = len(req.Items)
		return nil
	})
	if err != nil {
		log.Println("Error synchronizing stock for merchant", req.MerchantID, ":", err)
		return nil, err
	}

	return result, nil
}

func (s *SyncService) syncItem(tx *gorm.DB, session *models.StockSyncSession, external ExternalStockItem, result *SyncResult) error {
	var item models.StockItem
	err := tx.Where("merchant_id = ? AND external_id = ? AND is_active = ?",
		session.MerchantID, external.ExternalItemID, true).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.recordFailure(tx, session, external, "PRODUCT_NOT_FOUND", "Product not found", result)
		return nil
	}
	if err != nil {
		return err
	}

	previousQuantity := item.Quantity
	if _, err := s.Stock.Adjust(tx, AdjustParams{
		ItemID:          item.ItemID,
		VariantID:       item.VariantID,
		Delta:           external.Quantity - previousQuantity,
		ChangeType:      models.ChangeTypeSync,
		Reason:          "External system synchronization",
		ReferenceNumber: session.ID.String(),
	}); err != nil {
		return err
	}

	// Availability follows the external flag on sync, not the derived
	// quantity > 0 rule.
	if err := tx.Model(&models.StockItem{}).Where("id = ?", item.ID).
		Update("is_available", external.IsAvailable).Error; err != nil {
		return err
	}

	detail := models.StockSyncDetail{
		SyncSessionID:     session.ID,
		ItemID:            &item.ItemID,
		ExternalItemID:    external.ExternalItemID,
		ExternalVariantID: external.ExternalVariantID,
		PreviousQuantity:  previousQuantity,
		NewQuantity:       external.Quantity,
		Status:            models.SyncDetailSuccess,
	}
	if err := tx.Create(&detail).Error; err != nil {
		return err
	}

	result.SyncedItems++
	return nil
}

func (s *SyncService) recordFailure(tx *gorm.DB, session *models.StockSyncSession, external ExternalStockItem, code, message string, result *SyncResult) {
	detail := models.StockSyncDetail{
		SyncSessionID:     session.ID,
		ExternalItemID:    external.ExternalItemID,
		ExternalVariantID: external.ExternalVariantID,
		Status:            models.SyncDetailFailed,
		ErrorCode:         code,
		ErrorMessage:      message,
	}
	if err := tx.Create(&detail).Error; err != nil {
		log.Println("Failed to record sync detail:", err)
	}

	result.Errors = append(result.Errors, SyncItemError{
		ExternalItemID:    external.ExternalItemID,
		ExternalVariantID: external.ExternalVariantID,
		Message:           message,
		Code:              code,
	})
	result.FailedItems++
}

// SyncHistory lists sync sessions of a merchant, newest first.
func (s *SyncService) SyncHistory(merchantID uint, from, to *time.Time) ([]models.StockSyncSession, error) {
	query := s.DB.Where("merchant_id = ?", merchantID)
	if from != nil {
		query = query.Where("started_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("started_at <= ?", *to)
	}

	var sessions []models.StockSyncSession
	err := query.Order("started_at desc").Find(&sessions).Error
	return sessions, err
}

type SyncStatus struct {
	Enabled             bool       `json:"enabled"`
	ExternalSystemID    string     `json:"external_system_id"`
	LastSyncAt          *time.Time `json:"last_sync_at"`
	LastSessionStatus   string     `json:"last_session_status"`
	SyncIntervalMinutes int        `json:"sync_interval_minutes"`
	LastSessionAt       *time.Time `json:"last_session_at"`
}

// SyncStatus reports the merchant's sync configuration and the outcome
// of the most recent session.
func (s *SyncService) SyncStatus(merchantID uint) (*SyncStatus, error) {
	var settings models.StockSettings
	if err := s.DB.Where("merchant_id = ? AND is_active = ?", merchantID, true).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSyncNotConfigured
		}
		return nil, err
	}

	status := &SyncStatus{
		Enabled:             settings.EnableStockSync,
		ExternalSystemID:    settings.ExternalSystemID,
		LastSyncAt:          settings.LastSyncAt,
		SyncIntervalMinutes: settings.SyncIntervalMinutes,
	}

	var lastSession models.StockSyncSession
	if err := s.DB.Where("merchant_id = ?", merchantID).Order("started_at desc").First(&lastSession).Error; err == nil {
		status.LastSessionStatus = lastSession.Status
		startedAt := lastSession.StartedAt
		status.LastSessionAt = &startedAt
	}

	return status, nil
}

type ExternalSystemConfigRequest struct {
	EnableStockSync     bool   `json:"enable_stock_sync"`
	ExternalSystemID    string `json:"external_system_id" validate:"required"`
	ApiKey              string `json:"api_key"`
	ApiUrl              string `json:"api_url"`
	SyncIntervalMinutes int    `json:"sync_interval_minutes" validate:"min=0"`
}

// ConfigureExternalSystem stores the external connection settings for
// the merchant owned by ownerID.
func (s *SyncService) ConfigureExternalSystem(req ExternalSystemConfigRequest, ownerID uint) error {
	var merchant models.Merchant
	if err := s.DB.Where("owner_id = ?", ownerID).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMerchantNotFound
		}
		return err
	}

	var settings models.StockSettings
	err := s.DB.Where("merchant_id = ?", merchant.ID).First(&settings).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	settings.MerchantID = merchant.ID
	settings.EnableStockSync = req.EnableStockSync
	settings.ExternalSystemID = req.ExternalSystemID
	settings.SyncApiKey = req.ApiKey
	settings.SyncApiUrl = req.ApiUrl
	settings.SyncIntervalMinutes = req.SyncIntervalMinutes
	settings.IsActive = true

	return s.DB.Save(&settings).Error
}

// ScheduleAutomaticSync enables sync with the given interval. The
// periodic trigger itself lives outside this service.
func (s *SyncService) ScheduleAutomaticSync(merchantID uint, intervalMinutes int) error {
	var settings models.StockSettings
	if err := s.DB.Where("merchant_id = ? AND is_active = ?", merchantID, true).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSettingsNotFound
		}
		return err
	}

	settings.EnableStockSync = true
	settings.SyncIntervalMinutes = intervalMinutes
	return s.DB.Save(&settings).Error
}

func (s *SyncService) CancelAutomaticSync(merchantID uint) error {
	var settings models.StockSettings
	if err := s.DB.Where("merchant_id = ? AND is_active = ?", merchantID, true).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSettingsNotFound
		}
		return err
	}

	settings.EnableStockSync = false
	return s.DB.Save(&settings).Error
}

type ConnectionTestResult struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	TestedAt time.Time `json:"tested_at"`
}

// TestConnection verifies that sync is configured for the merchant.
// The actual external call is the transport's concern, not ours.
func (s *SyncService) TestConnection(merchantID uint) (*ConnectionTestResult, error) {
	var settings models.StockSettings
	if err := s.DB.Where("merchant_id = ? AND is_active = ?", merchantID, true).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSyncNotConfigured
		}
		return nil, err
	}
	if !settings.EnableStockSync {
		return nil, ErrSyncNotConfigured
	}

	return &ConnectionTestResult{
		Success:  true,
		Message:  "Connection successful",
		TestedAt: time.Now().UTC(),
	}, nil
}
