package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmanaliaydemir/getir-sub003/models"
)

func TestPerformCountRecordsDiscrepancies(t *testing.T) {
	db := setupTestDB(t)
	user, merchant, _ := seedMerchant(t, db, 10, 1000)
	seedItem(t, db, merchant.ID, 1, 20)
	seedItem(t, db, merchant.ID, 2, 8)

	svc := NewInventoryService(db, NewStockService(db))

	result, err := svc.PerformCount(user.ID, CountRequest{
		CountType: "full",
		Items: []CountItemInput{
			{ItemID: 1, CountedQuantity: 20}, // matches
			{ItemID: 2, CountedQuantity: 6},  // short by 2
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.CountStatusCompleted, result.Status)
	assert.Equal(t, 2, result.ItemCount)
	assert.Equal(t, 1, result.DiscrepancyCount)
	require.Len(t, result.Discrepancies, 1)

	discrepancy := result.Discrepancies[0]
	assert.Equal(t, uint(2), discrepancy.ItemID)
	assert.Equal(t, 8, discrepancy.ExpectedQuantity)
	assert.Equal(t, 6, discrepancy.ActualQuantity)
	assert.Equal(t, -2, discrepancy.Variance)
	assert.InDelta(t, -25.0, discrepancy.VariancePercentage, 0.001)
	assert.Equal(t, models.DiscrepancyStatusPending, discrepancy.Status)

	// Counting observes the ledger, it never writes it.
	var item models.StockItem
	require.NoError(t, db.Where("item_id = ?", 2).First(&item).Error)
	assert.Equal(t, 8, item.Quantity)

	var historyCount int64
	require.NoError(t, db.Model(&models.StockHistory{}).Count(&historyCount).Error)
	assert.Equal(t, int64(0), historyCount)

	var countItems []models.StockCountItem
	require.NoError(t, db.Where("count_session_id = ?", result.SessionID).Find(&countItems).Error)
	assert.Len(t, countItems, 2)
}

func TestPerformCountUnknownItemCountsAgainstZero(t *testing.T) {
	db := setupTestDB(t)
	user, _, _ := seedMerchant(t, db, 10, 1000)

	svc := NewInventoryService(db, NewStockService(db))

	result, err := svc.PerformCount(user.ID, CountRequest{
		Items: []CountItemInput{
			{ItemID: 7, CountedQuantity: 5},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Discrepancies, 1)
	assert.Equal(t, 0, result.Discrepancies[0].ExpectedQuantity)
	assert.Equal(t, 5, result.Discrepancies[0].Variance)
	// Division guard: no expected quantity means no percentage.
	assert.Equal(t, 0.0, result.Discrepancies[0].VariancePercentage)
}

func TestPerformCountWithoutMerchant(t *testing.T) {
	db := setupTestDB(t)

	svc := NewInventoryService(db, NewStockService(db))

	_, err := svc.PerformCount(99, CountRequest{})
	assert.ErrorIs(t, err, ErrMerchantNotFound)
}

func TestApplyAdjustmentsReportsSkipped(t *testing.T) {
	db := setupTestDB(t)
	user, merchant, _ := seedMerchant(t, db, 10, 1000)
	_, otherMerchant, _ := seedMerchant(t, db, 10, 1000)
	seedItem(t, db, merchant.ID, 1, 20)
	seedItem(t, db, otherMerchant.ID, 2, 30)

	svc := NewInventoryService(db, NewStockService(db))

	result, err := svc.ApplyAdjustments([]InventoryAdjustment{
		{ItemID: 1, NewQuantity: 25},
		{ItemID: 2, NewQuantity: 5},  // someone else's stock
		{ItemID: 99, NewQuantity: 1}, // unknown
	}, user.ID, "Count reconciliation")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Applied)
	require.Len(t, result.Skipped, 2)

	codes := map[uint]string{}
	for _, skipped := range result.Skipped {
		codes[skipped.ItemID] = skipped.Code
	}
	assert.Equal(t, "ACCESS_DENIED", codes[2])
	assert.Equal(t, "PRODUCT_NOT_FOUND", codes[99])

	var item models.StockItem
	require.NoError(t, db.Where("item_id = ?", 1).First(&item).Error)
	assert.Equal(t, 25, item.Quantity)

	var untouched models.StockItem
	require.NoError(t, db.Where("item_id = ?", 2).First(&untouched).Error)
	assert.Equal(t, 30, untouched.Quantity)

	var history models.StockHistory
	require.NoError(t, db.Where("item_id = ?", 1).First(&history).Error)
	assert.Equal(t, models.ChangeTypeCorrection, history.ChangeType)
	assert.Equal(t, "Count reconciliation", history.Reason)
}

func TestDiscrepanciesScopedToMerchant(t *testing.T) {
	db := setupTestDB(t)
	user, merchant, _ := seedMerchant(t, db, 10, 1000)
	otherUser, _, _ := seedMerchant(t, db, 10, 1000)
	seedItem(t, db, merchant.ID, 1, 10)

	svc := NewInventoryService(db, NewStockService(db))

	_, err := svc.PerformCount(user.ID, CountRequest{
		Items: []CountItemInput{{ItemID: 1, CountedQuantity: 4}},
	})
	require.NoError(t, err)

	discrepancies, err := svc.Discrepancies(merchant.ID, nil)
	require.NoError(t, err)
	assert.Len(t, discrepancies, 1)

	var otherMerchant models.Merchant
	require.NoError(t, db.Where("owner_id = ?", otherUser.ID).First(&otherMerchant).Error)

	discrepancies, err = svc.Discrepancies(otherMerchant.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, discrepancies)
}

func TestCountHistory(t *testing.T) {
	db := setupTestDB(t)
	user, merchant, _ := seedMerchant(t, db, 10, 1000)
	seedItem(t, db, merchant.ID, 1, 10)

	svc := NewInventoryService(db, NewStockService(db))

	for i := 0; i < 2; i++ {
		_, err := svc.PerformCount(user.ID, CountRequest{
			Items: []CountItemInput{{ItemID: 1, CountedQuantity: 10}},
		})
		require.NoError(t, err)
	}

	sessions, err := svc.CountHistory(merchant.ID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
	for _, session := range sessions {
		assert.Equal(t, models.CountStatusCompleted, session.Status)
		assert.Equal(t, 0, session.DiscrepancyCount)
	}
}
