package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmanaliaydemir/getir-sub003/models"
)

func TestEvaluateStockLevel(t *testing.T) {
	settings := models.StockSettings{
		LowStockAlerts:      true,
		OverstockAlerts:     true,
		DefaultMinimumStock: 10,
		DefaultMaximumStock: 100,
	}

	tests := []struct {
		name      string
		quantity  int
		settings  models.StockSettings
		alertType string
		triggered bool
	}{
		{"zero is out of stock, not low stock", 0, settings, models.AlertTypeOutOfStock, true},
		{"at minimum is low stock", 10, settings, models.AlertTypeLowStock, true},
		{"below minimum is low stock", 3, settings, models.AlertTypeLowStock, true},
		{"negative falls under minimum", -2, settings, models.AlertTypeLowStock, true},
		{"between thresholds is fine", 50, settings, "", false},
		{"at maximum is overstock", 100, settings, models.AlertTypeOverstock, true},
		{"above maximum is overstock", 140, settings, models.AlertTypeOverstock, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alertType, triggered := EvaluateStockLevel(tt.quantity, tt.settings)
			assert.Equal(t, tt.triggered, triggered)
			if tt.triggered {
				assert.Equal(t, tt.alertType, alertType)
			}
		})
	}

	t.Run("low stock disabled", func(t *testing.T) {
		s := settings
		s.LowStockAlerts = false
		_, triggered := EvaluateStockLevel(0, s)
		assert.False(t, triggered)
		_, triggered = EvaluateStockLevel(5, s)
		assert.False(t, triggered)
	})

	t.Run("overstock disabled", func(t *testing.T) {
		s := settings
		s.OverstockAlerts = false
		_, triggered := EvaluateStockLevel(500, s)
		assert.False(t, triggered)
	})
}

func TestScanCreatesAndDeduplicatesAlerts(t *testing.T) {
	db := setupTestDB(t)
	_, merchant, _ := seedMerchant(t, db, 10, 100)
	seedItem(t, db, merchant.ID, 1, 0)   // out of stock
	seedItem(t, db, merchant.ID, 2, 5)   // low stock
	seedItem(t, db, merchant.ID, 3, 50)  // fine
	seedItem(t, db, merchant.ID, 4, 200) // overstock

	svc := NewAlertService(db, NopNotifier{})

	created, err := svc.Scan(merchant.ID)
	require.NoError(t, err)
	require.Len(t, created, 3)

	byType := map[string]int{}
	for _, alert := range created {
		byType[alert.AlertType]++
		assert.NotEmpty(t, alert.Message)
		assert.NotZero(t, alert.ID)
	}
	assert.Equal(t, 1, byType[models.AlertTypeOutOfStock])
	assert.Equal(t, 1, byType[models.AlertTypeLowStock])
	assert.Equal(t, 1, byType[models.AlertTypeOverstock])

	// Second scan with unchanged stock creates nothing new.
	created, err = svc.Scan(merchant.ID)
	require.NoError(t, err)
	assert.Empty(t, created)

	var count int64
	require.NoError(t, db.Model(&models.StockAlert{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestScanWithoutSettingsIsNoop(t *testing.T) {
	db := setupTestDB(t)
	_, merchant, settings := seedMerchant(t, db, 10, 100)
	seedItem(t, db, merchant.ID, 1, 0)
	require.NoError(t, db.Delete(&settings).Error)

	svc := NewAlertService(db, NopNotifier{})

	created, err := svc.Scan(merchant.ID)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestScanUnknownMerchant(t *testing.T) {
	db := setupTestDB(t)

	svc := NewAlertService(db, NopNotifier{})

	_, err := svc.Scan(99)
	assert.ErrorIs(t, err, ErrMerchantNotFound)
}

func TestResolveAlertTwice(t *testing.T) {
	db := setupTestDB(t)
	user, merchant, _ := seedMerchant(t, db, 10, 100)
	seedItem(t, db, merchant.ID, 1, 0)

	svc := NewAlertService(db, NopNotifier{})

	created, err := svc.Scan(merchant.ID)
	require.NoError(t, err)
	require.Len(t, created, 1)

	alertID := int64(created[0].ID)
	require.NoError(t, svc.ResolveAlert(alertID, user.ID, "restocked"))

	var alert models.StockAlert
	require.NoError(t, db.First(&alert, "id = ?", alertID).Error)
	assert.True(t, alert.IsResolved)
	require.NotNil(t, alert.ResolvedBy)
	assert.Equal(t, user.ID, *alert.ResolvedBy)
	assert.NotNil(t, alert.ResolvedAt)
	assert.Equal(t, "restocked", alert.ResolutionNotes)

	err = svc.ResolveAlert(alertID, user.ID, "again")
	assert.ErrorIs(t, err, ErrAlertAlreadyResolved)
}

func TestResolveAlertUnknownUser(t *testing.T) {
	db := setupTestDB(t)

	svc := NewAlertService(db, NopNotifier{})

	err := svc.ResolveAlert(1, 99, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAlertStatistics(t *testing.T) {
	db := setupTestDB(t)
	user, merchant, _ := seedMerchant(t, db, 10, 100)
	seedItem(t, db, merchant.ID, 1, 0)
	seedItem(t, db, merchant.ID, 2, 5)

	svc := NewAlertService(db, NopNotifier{})

	created, err := svc.Scan(merchant.ID)
	require.NoError(t, err)
	require.Len(t, created, 2)

	require.NoError(t, svc.ResolveAlert(int64(created[0].ID), user.ID, "done"))

	stats, err := svc.Statistics(merchant.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalAlerts)
	assert.Equal(t, 1, stats.ResolvedAlerts)
	assert.Equal(t, 1, stats.UnresolvedAlerts)
	assert.Equal(t, 1, stats.OutOfStockAlerts)
	assert.Equal(t, 1, stats.LowStockAlerts)
	assert.NotNil(t, stats.FirstOccurrence)
	assert.NotNil(t, stats.LastOccurrence)

	// A window in the past matches nothing.
	past := time.Now().Add(-48 * time.Hour)
	pastEnd := past.Add(time.Hour)
	stats, err = svc.Statistics(merchant.ID, &past, &pastEnd)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalAlerts)
	assert.Nil(t, stats.FirstOccurrence)
}

func TestConfigureSettingsUpsert(t *testing.T) {
	db := setupTestDB(t)
	user, merchant, _ := seedMerchant(t, db, 10, 100)

	svc := NewAlertService(db, NopNotifier{})

	updated, err := svc.ConfigureSettings(StockSettingsRequest{
		LowStockAlerts:      true,
		OverstockAlerts:     true,
		DefaultMinimumStock: 20,
		DefaultMaximumStock: 500,
	}, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.DefaultMinimumStock)
	assert.Equal(t, 500, updated.DefaultMaximumStock)

	var count int64
	require.NoError(t, db.Model(&models.StockSettings{}).Where("merchant_id = ?", merchant.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRestoreKeepsLowStockAlertOpen(t *testing.T) {
	db := setupTestDB(t)
	user, merchant, _ := seedMerchant(t, db, 10, 1000)
	seedItem(t, db, merchant.ID, 1, 20)

	order := models.Order{
		MerchantID:  merchant.ID,
		OrderNumber: "ORD-2001",
		Status:      "confirmed",
		Lines:       []models.OrderLine{{ItemID: 1, Quantity: 15}},
	}
	require.NoError(t, db.Create(&order).Error)

	stock := NewStockService(db)
	alerts := NewAlertService(db, NopNotifier{})

	_, err := stock.ReduceForOrder(order.ID, int(user.ID))
	require.NoError(t, err)

	created, err := alerts.Scan(merchant.ID)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, models.AlertTypeLowStock, created[0].AlertType)

	_, err = stock.RestoreForOrder(order.ID, int(user.ID))
	require.NoError(t, err)

	// Back above the minimum the alert stays open until someone
	// resolves it.
	var alert models.StockAlert
	require.NoError(t, db.First(&alert, "id = ?", created[0].ID).Error)
	assert.False(t, alert.IsResolved)

	rescan, err := alerts.Scan(merchant.ID)
	require.NoError(t, err)
	assert.Empty(t, rescan)

	var total int64
	require.NoError(t, db.Model(&models.StockAlert{}).Where("merchant_id = ?", merchant.ID).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}
