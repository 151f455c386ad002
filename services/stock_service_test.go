package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmanaliaydemir/getir-sub003/models"
)

func TestAdjustAppendsHistory(t *testing.T) {
	db := setupTestDB(t)
	_, merchant, _ := seedMerchant(t, db, 10, 1000)
	seedItem(t, db, merchant.ID, 1, 20)

	svc := NewStockService(db)

	newQuantity, err := svc.Adjust(db, AdjustParams{
		ItemID:     1,
		Delta:      5,
		ChangeType: models.ChangeTypeManualAdjustment,
		Reason:     "Restock",
		ChangedBy:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, newQuantity)

	var history []models.StockHistory
	require.NoError(t, db.Where("item_id = ?", 1).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, 20, history[0].PreviousQuantity)
	assert.Equal(t, 25, history[0].NewQuantity)
	assert.Equal(t, 5, history[0].ChangeAmount)
	assert.Equal(t, models.ChangeTypeManualAdjustment, history[0].ChangeType)
	assert.False(t, history[0].ChangedAt.IsZero())
}

func TestAdjustZeroDeltaWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	_, merchant, _ := seedMerchant(t, db, 10, 1000)
	seedItem(t, db, merchant.ID, 1, 20)

	svc := NewStockService(db)

	newQuantity, err := svc.Adjust(db, AdjustParams{
		ItemID:     1,
		Delta:      0,
		ChangeType: models.ChangeTypeManualAdjustment,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, newQuantity)

	var count int64
	require.NoError(t, db.Model(&models.StockHistory{}).Where("item_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAdjustAllowsNegativeQuantity(t *testing.T) {
	db := setupTestDB(t)
	_, merchant, _ := seedMerchant(t, db, 10, 1000)
	seedItem(t, db, merchant.ID, 1, 4)

	svc := NewStockService(db)

	newQuantity, err := svc.Adjust(db, AdjustParams{
		ItemID:     1,
		Delta:      -10,
		ChangeType: models.ChangeTypeSale,
		ChangedBy:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, -6, newQuantity)

	var item models.StockItem
	require.NoError(t, db.Where("item_id = ?", 1).First(&item).Error)
	assert.Equal(t, -6, item.Quantity)
	assert.False(t, item.IsAvailable)
}

func TestAdjustUnknownItem(t *testing.T) {
	db := setupTestDB(t)
	seedMerchant(t, db, 10, 1000)

	svc := NewStockService(db)

	_, err := svc.Adjust(db, AdjustParams{
		ItemID:     99,
		Delta:      1,
		ChangeType: models.ChangeTypeManualAdjustment,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateStockLevelRequiresOwnership(t *testing.T) {
	db := setupTestDB(t)
	_, merchant, _ := seedMerchant(t, db, 10, 1000)
	intruder, _, _ := seedMerchant(t, db, 10, 1000)
	seedItem(t, db, merchant.ID, 1, 20)

	svc := NewStockService(db)

	_, err := svc.UpdateStockLevel(UpdateStockRequest{ItemID: 1, NewQuantity: 5}, intruder.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	var item models.StockItem
	require.NoError(t, db.Where("item_id = ?", 1).First(&item).Error)
	assert.Equal(t, 20, item.Quantity)
}

func TestReduceAndRestoreForOrderRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	user, merchant, _ := seedMerchant(t, db, 10, 1000)
	seedItem(t, db, merchant.ID, 1, 20)
	seedItem(t, db, merchant.ID, 2, 8)

	order := models.Order{
		MerchantID:  merchant.ID,
		OrderNumber: "ORD-1",
		Status:      "confirmed",
		Lines: []models.OrderLine{
			{ItemID: 1, Quantity: 3},
			{ItemID: 2, Quantity: 2},
		},
	}
	require.NoError(t, db.Create(&order).Error)

	svc := NewStockService(db)

	reduced, err := svc.ReduceForOrder(order.ID, int(user.ID))
	require.NoError(t, err)
	assert.Len(t, reduced.Lines, 2)

	var item models.StockItem
	require.NoError(t, db.Where("item_id = ?", 1).First(&item).Error)
	assert.Equal(t, 17, item.Quantity)

	_, err = svc.RestoreForOrder(order.ID, int(user.ID))
	require.NoError(t, err)

	item = models.StockItem{}
	require.NoError(t, db.Where("item_id = ?", 1).First(&item).Error)
	assert.Equal(t, 20, item.Quantity)

	var second models.StockItem
	require.NoError(t, db.Where("item_id = ?", 2).First(&second).Error)
	assert.Equal(t, 8, second.Quantity)

	var history []models.StockHistory
	require.NoError(t, db.Order("id").Find(&history).Error)
	require.Len(t, history, 4)
	assert.Equal(t, models.ChangeTypeSale, history[0].ChangeType)
	assert.Equal(t, models.ChangeTypeReturn, history[2].ChangeType)
	require.NotNil(t, history[0].OrderID)
	assert.Equal(t, order.ID, *history[0].OrderID)
}

func TestReduceForOrderUnknownOrder(t *testing.T) {
	db := setupTestDB(t)

	svc := NewStockService(db)

	_, err := svc.ReduceForOrder(42, 1)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestBulkUpdateRollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)
	user, merchant, _ := seedMerchant(t, db, 10, 1000)
	seedItem(t, db, merchant.ID, 1, 20)

	svc := NewStockService(db)

	err := svc.BulkUpdateStockLevels([]UpdateStockRequest{
		{ItemID: 1, NewQuantity: 50},
		{ItemID: 99, NewQuantity: 10},
	}, user.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	var item models.StockItem
	require.NoError(t, db.Where("item_id = ?", 1).First(&item).Error)
	assert.Equal(t, 20, item.Quantity)
}

func TestHistoryNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	user, merchant, _ := seedMerchant(t, db, 10, 1000)
	seedItem(t, db, merchant.ID, 1, 0)

	svc := NewStockService(db)

	for _, quantity := range []int{5, 12, 7} {
		_, err := svc.UpdateStockLevel(UpdateStockRequest{ItemID: 1, NewQuantity: quantity}, user.ID)
		require.NoError(t, err)
	}

	history, err := svc.History(HistoryFilter{ItemID: 1})
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 7, history[0].NewQuantity)
	assert.Equal(t, 5, history[2].NewQuantity)
}
