package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/osmanaliaydemir/getir-sub003/models"
	"gorm.io/gorm"
)

// InventoryService reconciles physical counts against the ledger. A
// count only records observations; corrections are applied separately
// through the ledger after human approval.
type InventoryService struct {
	DB    *gorm.DB
	Stock *StockService
}

func NewInventoryService(DB *gorm.DB, stock *StockService) *InventoryService {
	return &InventoryService{DB: DB, Stock: stock}
}

type CountItemInput struct {
	ItemID          uint   `json:"item_id" validate:"required"`
	VariantID       *uint  `json:"variant_id"`
	CountedQuantity int    `json:"counted_quantity" validate:"min=0"`
	Notes           string `json:"notes"`
}

type CountRequest struct {
	CountType string           `json:"count_type"`
	Notes     string           `json:"notes"`
	Items     []CountItemInput `json:"items" validate:"required,dive"`
}

type CountResult struct {
	SessionID        uuid.UUID                 `json:"session_id"`
	Status           string                    `json:"status"`
	ItemCount        int                       `json:"item_count"`
	DiscrepancyCount int                       `json:"discrepancy_count"`
	Discrepancies    []models.StockDiscrepancy `json:"discrepancies"`
}

// PerformCount records a physical count session. For every submitted
// item the expected quantity is read from the ledger and a discrepancy
// row is created iff counted != expected. The ledger itself is never
// written here.
func (s *InventoryService) PerformCount(ownerID uint, req CountRequest) (*CountResult, error) {
	var merchant models.Merchant
	if err := s.DB.Where("owner_id = ?", ownerID).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, err
	}

	result := &CountResult{}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		session := models.StockCountSession{
			MerchantID: merchant.ID,
			CountDate:  time.Now().UTC(),
			CountType:  req.CountType,
			Notes:      req.Notes,
			Status:     models.CountStatusInProgress,
			CreatedBy:  ownerID,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		for _, input := range req.Items {
			expected, _ := s.Stock.CurrentQuantity(tx, input.ItemID, input.VariantID)
			variance := input.CountedQuantity - expected

			countItem := models.StockCountItem{
				CountSessionID:   session.ID,
				ItemID:           input.ItemID,
				VariantID:        input.VariantID,
				ExpectedQuantity: expected,
				CountedQuantity:  input.CountedQuantity,
				Variance:         variance,
				Notes:            input.Notes,
			}
			if err := tx.Create(&countItem).Error; err != nil {
				return err
			}

			if variance != 0 {
				variancePercentage := float64(0)
				if expected > 0 {
					variancePercentage = float64(variance) / float64(expected) * 100
				}

				discrepancy := models.StockDiscrepancy{
					CountSessionID:     session.ID,
					ItemID:             input.ItemID,
					VariantID:          input.VariantID,
					ExpectedQuantity:   expected,
					ActualQuantity:     input.CountedQuantity,
					Variance:           variance,
					VariancePercentage: variancePercentage,
					Status:             models.DiscrepancyStatusPending,
				}
				if err := tx.Create(&discrepancy).Error; err != nil {
					return err
				}
				result.Discrepancies = append(result.Discrepancies, discrepancy)
			}
		}

		now := time.Now().UTC()
		session.Status = models.CountStatusCompleted
		session.CompletedAt = &now
		session.DiscrepancyCount = len(result.Discrepancies)
		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		result.SessionID = session.ID
		result.Status = session.Status
		result.ItemCount = len(req.Items)
		result.DiscrepancyCount = session.DiscrepancyCount
		return nil
	})
	if err != nil {
		log.Println("Error performing inventory count for merchant", merchant.ID, ":", err)
		return nil, err
	}

	return result, nil
}

type InventoryAdjustment struct {
	ItemID      uint  `json:"item_id" validate:"required"`
	VariantID   *uint `json:"variant_id"`
	NewQuantity int   `json:"new_quantity"`
}

type AdjustmentResult struct {
	Applied int                 `json:"applied"`
	Skipped []SkippedAdjustment `json:"skipped"`
}

// ApplyAdjustments applies approved corrections to the ledger in one
// transaction. Entries the requesting user does not own are skipped
// and reported back instead of aborting the batch; applied entries
// commit together.
func (s *InventoryService) ApplyAdjustments(adjustments []InventoryAdjustment, requestedBy uint, reason string) (*AdjustmentResult, error) {
	result := &AdjustmentResult{}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, adjustment := range adjustments {
			item, err := lockItem(tx, adjustment.ItemID, adjustment.VariantID)
			if err != nil {
				var serviceErr *ServiceError
				if errors.As(err, &serviceErr) {
					result.Skipped = append(result.Skipped, SkippedAdjustment{
						ItemID:    adjustment.ItemID,
						VariantID: adjustment.VariantID,
						Code:      serviceErr.Code,
						Message:   serviceErr.Message,
					})
					continue
				}
				return err
			}

			var merchant models.Merchant
			if err := tx.First(&merchant, item.MerchantID).Error; err != nil || merchant.OwnerID != requestedBy {
				result.Skipped = append(result.Skipped, SkippedAdjustment{
					ItemID:    adjustment.ItemID,
					VariantID: adjustment.VariantID,
					Code:      ErrAccessDenied.Code,
					Message:   ErrAccessDenied.Message,
				})
				continue
			}

			if _, err := s.Stock.Adjust(tx, AdjustParams{
				ItemID:     adjustment.ItemID,
				VariantID:  adjustment.VariantID,
				Delta:      adjustment.NewQuantity - item.Quantity,
				ChangeType: models.ChangeTypeCorrection,
				Reason:     reason,
				ChangedBy:  int(requestedBy),
			}); err != nil {
				return err
			}
			result.Applied++
		}
		return nil
	})
	if err != nil {
		log.Println("Error applying inventory adjustments:", err)
		return nil, err
	}

	return result, nil
}

// Discrepancies lists discrepancies of a merchant's count sessions,
// newest first.
func (s *InventoryService) Discrepancies(merchantID uint, from *time.Time) ([]models.StockDiscrepancy, error) {
	sessionIDs := s.DB.Model(&models.StockCountSession{}).
		Select("id").Where("merchant_id = ?", merchantID)

	query := s.DB.Where("count_session_id IN (?)", sessionIDs)
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}

	var discrepancies []models.StockDiscrepancy
	err := query.Order("created_at desc").Find(&discrepancies).Error
	return discrepancies, err
}

// CountHistory lists count sessions of a merchant, newest first.
func (s *InventoryService) CountHistory(merchantID uint, from, to *time.Time) ([]models.StockCountSession, error) {
	query := s.DB.Where("merchant_id = ?", merchantID)
	if from != nil {
		query = query.Where("count_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("count_date <= ?", *to)
	}

	var sessions []models.StockCountSession
	err := query.Order("count_date desc").Find(&sessions).Error
	return sessions, err
}
