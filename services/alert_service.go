package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/osmanaliaydemir/getir-sub003/models"
	"gorm.io/gorm"
)

// AlertService evaluates stock thresholds, deduplicates alerts and
// manages the alert lifecycle.
type AlertService struct {
	DB       *gorm.DB
	Notifier Notifier
}

func NewAlertService(DB *gorm.DB, notifier Notifier) *AlertService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &AlertService{DB: DB, Notifier: notifier}
}

// thresholdRule pairs a predicate with the alert type it produces.
// Rules are evaluated top to bottom; the first match wins.
type thresholdRule struct {
	alertType string
	matches   func(quantity int, settings models.StockSettings) bool
}

var thresholdRules = []thresholdRule{
	{models.AlertTypeOutOfStock, func(q int, s models.StockSettings) bool {
		return s.LowStockAlerts && q == 0
	}},
	{models.AlertTypeLowStock, func(q int, s models.StockSettings) bool {
		return s.LowStockAlerts && q <= s.DefaultMinimumStock
	}},
	{models.AlertTypeOverstock, func(q int, s models.StockSettings) bool {
		return s.OverstockAlerts && q >= s.DefaultMaximumStock
	}},
}

// EvaluateStockLevel is the pure threshold policy: it maps a quantity
// and the merchant settings to an alert type, or reports that no alert
// applies.
func EvaluateStockLevel(quantity int, settings models.StockSettings) (string, bool) {
	for _, rule := range thresholdRules {
		if rule.matches(quantity, settings) {
			return rule.alertType, true
		}
	}
	return "", false
}

func alertMessage(alertType string, item models.StockItem, settings models.StockSettings) string {
	switch alertType {
	case models.AlertTypeOutOfStock:
		return fmt.Sprintf("Product '%s' is out of stock", item.Name)
	case models.AlertTypeLowStock:
		return fmt.Sprintf("Product '%s' has low stock (%d remaining, minimum: %d)",
			item.Name, item.Quantity, settings.DefaultMinimumStock)
	default:
		return fmt.Sprintf("Product '%s' is overstocked (%d units, maximum: %d)",
			item.Name, item.Quantity, settings.DefaultMaximumStock)
	}
}

// Scan evaluates every active item of a merchant against the threshold
// policy. An item whose (item, variant, type) triple already has an
// unresolved alert is skipped. New alerts are persisted in one batch
// and handed to the notifier fire-and-forget.
func (s *AlertService) Scan(merchantID uint) ([]models.StockAlert, error) {
	var merchant models.Merchant
	if err := s.DB.First(&merchant, merchantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, err
	}

	var settings models.StockSettings
	if err := s.DB.Where("merchant_id = ? AND is_active = ?", merchantID, true).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // alerts not configured, no-op
		}
		return nil, err
	}
	if !settings.LowStockAlerts && !settings.OverstockAlerts {
		return nil, nil
	}

	var items []models.StockItem
	if err := s.DB.Where("merchant_id = ? AND is_active = ?", merchantID, true).Find(&items).Error; err != nil {
		return nil, err
	}

	var alerts []models.StockAlert
	for _, item := range items {
		alertType, ok := EvaluateStockLevel(item.Quantity, settings)
		if !ok {
			continue
		}

		var existing models.StockAlert
		query := s.DB.Where("item_id = ? AND alert_type = ? AND is_resolved = ?", item.ItemID, alertType, false)
		if item.VariantID != nil {
			query = query.Where("variant_id = ?", *item.VariantID)
		} else {
			query = query.Where("variant_id IS NULL")
		}
		if err := query.First(&existing).Error; err == nil {
			continue // unresolved alert of this kind already exists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		alerts = append(alerts, models.StockAlert{
			ItemID:       item.ItemID,
			VariantID:    item.VariantID,
			MerchantID:   merchantID,
			AlertType:    alertType,
			CurrentStock: item.Quantity,
			MinimumStock: settings.DefaultMinimumStock,
			MaximumStock: settings.DefaultMaximumStock,
			Message:      alertMessage(alertType, item, settings),
		})
	}

	if len(alerts) > 0 {
		if err := s.DB.Create(&alerts).Error; err != nil {
			return nil, err
		}
		for _, alert := range alerts {
			go s.Notifier.Notify(alert)
		}
	}

	return alerts, nil
}

// ResolveAlert marks an alert resolved. Resolving an alert twice is
// rejected so resolution notes are never overwritten silently.
func (s *AlertService) ResolveAlert(alertID int64, resolvedBy uint, notes string) error {
	var user models.User
	if err := s.DB.First(&user, resolvedBy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	var alert models.StockAlert
	if err := s.DB.First(&alert, "id = ?", alertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	if alert.IsResolved {
		return ErrAlertAlreadyResolved
	}

	now := time.Now().UTC()
	alert.IsResolved = true
	alert.ResolvedAt = &now
	alert.ResolvedBy = &resolvedBy
	alert.ResolutionNotes = notes

	return s.DB.Save(&alert).Error
}

// Alerts lists the unresolved alerts of a merchant, newest first.
func (s *AlertService) Alerts(merchantID uint) ([]models.StockAlert, error) {
	var alerts []models.StockAlert
	err := s.DB.Where("merchant_id = ? AND is_resolved = ?", merchantID, false).
		Order("created_at desc").Find(&alerts).Error
	return alerts, err
}

type AlertStatistics struct {
	TotalAlerts      int        `json:"total_alerts"`
	LowStockAlerts   int        `json:"low_stock_alerts"`
	OutOfStockAlerts int        `json:"out_of_stock_alerts"`
	OverstockAlerts  int        `json:"overstock_alerts"`
	ResolvedAlerts   int        `json:"resolved_alerts"`
	UnresolvedAlerts int        `json:"unresolved_alerts"`
	FirstOccurrence  *time.Time `json:"first_occurrence"`
	LastOccurrence   *time.Time `json:"last_occurrence"`
}

// Statistics aggregates a merchant's alerts in a date range. No side
// effects.
func (s *AlertService) Statistics(merchantID uint, from, to *time.Time) (*AlertStatistics, error) {
	var merchant models.Merchant
	if err := s.DB.First(&merchant, merchantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, err
	}

	query := s.DB.Where("merchant_id = ?", merchantID)
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var alerts []models.StockAlert
	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}

	stats := &AlertStatistics{TotalAlerts: len(alerts)}
	for _, alert := range alerts {
		switch alert.AlertType {
		case models.AlertTypeLowStock:
			stats.LowStockAlerts++
		case models.AlertTypeOutOfStock:
			stats.OutOfStockAlerts++
		case models.AlertTypeOverstock:
			stats.OverstockAlerts++
		}
		if alert.IsResolved {
			stats.ResolvedAlerts++
		} else {
			stats.UnresolvedAlerts++
		}
		createdAt := alert.CreatedAt
		if stats.FirstOccurrence == nil || createdAt.Before(*stats.FirstOccurrence) {
			first := createdAt
			stats.FirstOccurrence = &first
		}
		if stats.LastOccurrence == nil || createdAt.After(*stats.LastOccurrence) {
			last := createdAt
			stats.LastOccurrence = &last
		}
	}

	return stats, nil
}

type StockSettingsRequest struct {
	AutoStockReduction  bool   `json:"auto_stock_reduction"`
	LowStockAlerts      bool   `json:"low_stock_alerts"`
	OverstockAlerts     bool   `json:"overstock_alerts"`
	DefaultMinimumStock int    `json:"default_minimum_stock" validate:"min=0"`
	DefaultMaximumStock int    `json:"default_maximum_stock" validate:"min=0"`
	EnableStockSync     bool   `json:"enable_stock_sync"`
	ExternalSystemID    string `json:"external_system_id"`
}

// ConfigureSettings replaces the merchant's stock settings wholesale,
// creating the row on first use.
func (s *AlertService) ConfigureSettings(req StockSettingsRequest, ownerID uint) (*models.StockSettings, error) {
	var merchant models.Merchant
	if err := s.DB.Where("owner_id = ?", ownerID).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, err
	}

	var settings models.StockSettings
	err := s.DB.Where("merchant_id = ?", merchant.ID).First(&settings).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings.MerchantID = merchant.ID
	settings.AutoStockReduction = req.AutoStockReduction
	settings.LowStockAlerts = req.LowStockAlerts
	settings.OverstockAlerts = req.OverstockAlerts
	settings.DefaultMinimumStock = req.DefaultMinimumStock
	settings.DefaultMaximumStock = req.DefaultMaximumStock
	settings.EnableStockSync = req.EnableStockSync
	settings.ExternalSystemID = req.ExternalSystemID
	settings.IsActive = true

	if err := s.DB.Save(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
