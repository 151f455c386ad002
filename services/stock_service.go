package services

import (
	"errors"
	"log"

	"github.com/osmanaliaydemir/getir-sub003/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockService is the authoritative ledger for stock quantities. Every
// applied change goes through Adjust so the history stays complete.
type StockService struct {
	DB *gorm.DB
}

func NewStockService(DB *gorm.DB) *StockService {
	return &StockService{DB: DB}
}

type AdjustParams struct {
	ItemID          uint
	VariantID       *uint
	Delta           int
	ChangeType      string
	Reason          string
	OrderID         *uint
	ReferenceNumber string
	ChangedBy       int
}

type UpdateStockRequest struct {
	ItemID      uint   `json:"item_id" validate:"required"`
	VariantID   *uint  `json:"variant_id"`
	NewQuantity int    `json:"new_quantity"`
	Reason      string `json:"reason"`
}

// SkippedAdjustment reports a bulk-operation entry that was not
// applied, with the code explaining why.
type SkippedAdjustment struct {
	ItemID    uint   `json:"item_id"`
	VariantID *uint  `json:"variant_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// lockItem fetches the ledger row for (itemID, variantID) with a row
// lock so concurrent adjustments to the same item serialize.
func lockItem(tx *gorm.DB, itemID uint, variantID *uint) (*models.StockItem, error) {
	var item models.StockItem
	query := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("item_id = ?", itemID)
	if variantID != nil {
		query = query.Where("variant_id = ?", *variantID)
	} else {
		query = query.Where("variant_id IS NULL")
	}
	if err := query.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Adjust applies a delta to one ledger row inside the caller's
// transaction and appends the matching history entry. Availability is
// recomputed on every write. Quantity is not clamped at zero; a
// negative ledger is representable and visible to callers.
func (s *StockService) Adjust(tx *gorm.DB, p AdjustParams) (int, error) {
	item, err := lockItem(tx, p.ItemID, p.VariantID)
	if err != nil {
		return 0, err
	}

	previousQuantity := item.Quantity
	newQuantity := previousQuantity + p.Delta

	if p.Delta == 0 {
		return newQuantity, nil
	}

	item.Quantity = newQuantity
	item.IsAvailable = newQuantity > 0
	if err := tx.Model(item).Updates(map[string]interface{}{
		"quantity":     item.Quantity,
		"is_available": item.IsAvailable,
	}).Error; err != nil {
		return 0, err
	}

	history := models.StockHistory{
		ItemID:           p.ItemID,
		VariantID:        p.VariantID,
		PreviousQuantity: previousQuantity,
		NewQuantity:      newQuantity,
		ChangeAmount:     newQuantity - previousQuantity,
		ChangeType:       p.ChangeType,
		Reason:           p.Reason,
		OrderID:          p.OrderID,
		ReferenceNumber:  p.ReferenceNumber,
		ChangedBy:        p.ChangedBy,
	}
	if err := tx.Create(&history).Error; err != nil {
		return 0, err
	}

	return newQuantity, nil
}

// ReduceForOrder reduces stock for every line of a confirmed order in
// one transaction. A missing item on any line rolls back the whole
// order. The HTTP caller triggers an alert scan for the order's
// merchant after a successful reduce.
func (s *StockService) ReduceForOrder(orderID uint, changedBy int) (*models.Order, error) {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, line := range order.Lines {
			if _, err := s.Adjust(tx, AdjustParams{
				ItemID:          line.ItemID,
				VariantID:       line.VariantID,
				Delta:           -line.Quantity,
				ChangeType:      models.ChangeTypeSale,
				Reason:          "Order confirmed",
				OrderID:         &order.ID,
				ReferenceNumber: order.OrderNumber,
				ChangedBy:       changedBy,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Println("Error reducing stock for order:", err)
		return nil, err
	}

	return order, nil
}

// RestoreForOrder returns stock for every line of a cancelled order in
// one transaction, the exact inverse of ReduceForOrder.
func (s *StockService) RestoreForOrder(orderID uint, changedBy int) (*models.Order, error) {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, line := range order.Lines {
			if _, err := s.Adjust(tx, AdjustParams{
				ItemID:          line.ItemID,
				VariantID:       line.VariantID,
				Delta:           line.Quantity,
				ChangeType:      models.ChangeTypeReturn,
				Reason:          "Order cancelled",
				OrderID:         &order.ID,
				ReferenceNumber: order.OrderNumber,
				ChangedBy:       changedBy,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Println("Error restoring stock for order:", err)
		return nil, err
	}

	return order, nil
}

func (s *StockService) loadOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("Lines").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// UpdateStockLevel sets an absolute quantity on one ledger row after
// verifying that the requesting user owns the merchant.
func (s *StockService) UpdateStockLevel(req UpdateStockRequest, requestedBy uint) (int, error) {
	var newQuantity int
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		newQuantity, err = s.updateStockLevelTx(tx, req, requestedBy)
		return err
	})
	return newQuantity, err
}

func (s *StockService) updateStockLevelTx(tx *gorm.DB, req UpdateStockRequest, requestedBy uint) (int, error) {
	item, err := lockItem(tx, req.ItemID, req.VariantID)
	if err != nil {
		return 0, err
	}

	var merchant models.Merchant
	if err := tx.First(&merchant, item.MerchantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrMerchantNotFound
		}
		return 0, err
	}
	if merchant.OwnerID != requestedBy {
		return 0, ErrAccessDenied
	}

	return s.Adjust(tx, AdjustParams{
		ItemID:     req.ItemID,
		VariantID:  req.VariantID,
		Delta:      req.NewQuantity - item.Quantity,
		ChangeType: models.ChangeTypeManualAdjustment,
		Reason:     req.Reason,
		ChangedBy:  int(requestedBy),
	})
}

// BulkUpdateStockLevels applies a batch of absolute updates in one
// transaction. The first failing entry aborts and rolls back the batch.
func (s *StockService) BulkUpdateStockLevels(reqs []UpdateStockRequest, requestedBy uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		for _, req := range reqs {
			if _, err := s.updateStockLevelTx(tx, req, requestedBy); err != nil {
				return err
			}
		}
		return nil
	})
}

type HistoryFilter struct {
	ItemID    uint
	VariantID *uint
	From      *string
	To        *string
}

// History returns the newest ledger changes for one item, capped at
// 100 rows.
func (s *StockService) History(filter HistoryFilter) ([]models.StockHistory, error) {
	query := s.DB.Where("item_id = ?", filter.ItemID)
	if filter.VariantID != nil {
		query = query.Where("variant_id = ?", *filter.VariantID)
	}
	if filter.From != nil && *filter.From != "" {
		query = query.Where("changed_at >= ?", *filter.From)
	}
	if filter.To != nil && *filter.To != "" {
		query = query.Where("changed_at <= ?", *filter.To)
	}

	var histories []models.StockHistory
	if err := query.Order("changed_at desc, id desc").Limit(100).Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}

// CurrentQuantity reads the quantity of one ledger row without
// locking. Returns 0 with ok=false when the row does not exist.
func (s *StockService) CurrentQuantity(tx *gorm.DB, itemID uint, variantID *uint) (int, bool) {
	var item models.StockItem
	query := tx.Where("item_id = ?", itemID)
	if variantID != nil {
		query = query.Where("variant_id = ?", *variantID)
	} else {
		query = query.Where("variant_id IS NULL")
	}
	if err := query.First(&item).Error; err != nil {
		return 0, false
	}
	return item.Quantity, true
}
