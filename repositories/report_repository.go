package repositories

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportRepository holds the read-only reporting queries over the
// ledger and its history. Nothing in here mutates state.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db}
}

type InventoryLevel struct {
	ItemID       uint            `json:"item_id"`
	VariantID    *uint           `json:"variant_id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	IsAvailable  bool            `json:"is_available"`
	MinimumStock int             `json:"minimum_stock"`
	MaximumStock int             `json:"maximum_stock"`
	Price        decimal.Decimal `json:"price"`
	StockValue   decimal.Decimal `json:"stock_value"`
	Status       string          `json:"status"`
}

// GetInventoryLevels returns the current ledger rows of a merchant
// with a derived level status. Thresholds fall back to 10/1000 when
// the merchant has no settings row.
func (r *ReportRepository) GetInventoryLevels(merchantID uint) ([]InventoryLevel, error) {
	sqlLevels := `SELECT a.item_id, a.variant_id, a.name, a.quantity, a.is_available, a.price,
	COALESCE(b.default_minimum_stock, 10) AS minimum_stock,
	COALESCE(b.default_maximum_stock, 1000) AS maximum_stock,
	CASE
		WHEN a.quantity = 0 THEN 'out_of_stock'
		WHEN a.quantity <= COALESCE(b.default_minimum_stock, 10) THEN 'low_stock'
		WHEN a.quantity >= COALESCE(b.default_maximum_stock, 1000) THEN 'overstock'
		ELSE 'in_stock'
	END AS status
	FROM stock_items a
	LEFT JOIN stock_settings b ON a.merchant_id = b.merchant_id
	WHERE a.merchant_id = ? AND a.is_active = ? AND a.deleted_at IS NULL
	ORDER BY a.name ASC`

	var levels []InventoryLevel
	if err := r.db.Raw(sqlLevels, merchantID, true).Scan(&levels).Error; err != nil {
		return nil, err
	}

	for i := range levels {
		levels[i].StockValue = levels[i].Price.Mul(decimal.NewFromInt(int64(levels[i].Quantity)))
	}

	return levels, nil
}

type StockSummary struct {
	TotalItems      int             `json:"total_items"`
	LowStockItems   int             `json:"low_stock_items"`
	OutOfStockItems int             `json:"out_of_stock_items"`
	OverstockItems  int             `json:"overstock_items"`
	TotalValue      decimal.Decimal `json:"total_value"`
}

// GetStockSummary aggregates the current levels into a single summary
// row for the report endpoint.
func (r *ReportRepository) GetStockSummary(merchantID uint) (*StockSummary, error) {
	levels, err := r.GetInventoryLevels(merchantID)
	if err != nil {
		return nil, err
	}

	summary := &StockSummary{TotalItems: len(levels), TotalValue: decimal.Zero}
	for _, level := range levels {
		switch level.Status {
		case "low_stock":
			summary.LowStockItems++
		case "out_of_stock":
			summary.OutOfStockItems++
		case "overstock":
			summary.OverstockItems++
		}
		summary.TotalValue = summary.TotalValue.Add(level.StockValue)
	}

	return summary, nil
}

type TurnoverItem struct {
	ItemID       uint            `json:"item_id"`
	Name         string          `json:"name"`
	CurrentStock int             `json:"current_stock"`
	StockOut     int             `json:"stock_out"`
	TurnoverRate float64         `json:"turnover_rate"`
	Price        decimal.Decimal `json:"price"`
	StockValue   decimal.Decimal `json:"stock_value"`
}

// GetTurnover computes, per item, the total outbound movement in the
// period against the current stock level.
func (r *ReportRepository) GetTurnover(merchantID uint, from, to time.Time) ([]TurnoverItem, error) {
	sqlTurnover := `SELECT a.item_id, a.name, a.quantity AS current_stock, a.price,
	COALESCE(SUM(CASE WHEN h.change_amount < 0 THEN -h.change_amount ELSE 0 END), 0) AS stock_out
	FROM stock_items a
	LEFT JOIN stock_histories h ON h.item_id = a.item_id
		AND h.changed_at >= ? AND h.changed_at <= ?
	WHERE a.merchant_id = ? AND a.is_active = ? AND a.deleted_at IS NULL
	GROUP BY a.item_id, a.name, a.quantity, a.price`

	var items []TurnoverItem
	if err := r.db.Raw(sqlTurnover, from, to, merchantID, true).Scan(&items).Error; err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].CurrentStock > 0 {
			items[i].TurnoverRate = float64(items[i].StockOut) / float64(items[i].CurrentStock)
		}
		items[i].StockValue = items[i].Price.Mul(decimal.NewFromInt(int64(items[i].CurrentStock)))
	}

	return items, nil
}

type SlowMovingItem struct {
	ItemID       uint            `json:"item_id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	StockValue   decimal.Decimal `json:"stock_value"`
	LastMovement *time.Time      `json:"last_movement"`
}

// GetSlowMoving returns items without any ledger movement since the
// cutoff date, least recently moved first.
func (r *ReportRepository) GetSlowMoving(merchantID uint, cutoff time.Time) ([]SlowMovingItem, error) {
	sqlSlowMoving := `SELECT a.item_id, a.name, a.quantity, a.price,
	MAX(h.changed_at) AS last_movement
	FROM stock_items a
	LEFT JOIN stock_histories h ON h.item_id = a.item_id
	WHERE a.merchant_id = ? AND a.is_active = ? AND a.deleted_at IS NULL
	GROUP BY a.item_id, a.name, a.quantity, a.price
	HAVING MAX(h.changed_at) IS NULL OR MAX(h.changed_at) < ?
	ORDER BY last_movement ASC`

	// last_movement is an aggregate: drivers disagree on whether it
	// arrives as time.Time or text, so it is scanned loosely.
	type slowMovingRow struct {
		ItemID       uint
		Name         string
		Quantity     int
		Price        decimal.Decimal
		LastMovement interface{}
	}

	var rows []slowMovingRow
	if err := r.db.Raw(sqlSlowMoving, merchantID, true, cutoff).Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]SlowMovingItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, SlowMovingItem{
			ItemID:       row.ItemID,
			Name:         row.Name,
			Quantity:     row.Quantity,
			Price:        row.Price,
			StockValue:   row.Price.Mul(decimal.NewFromInt(int64(row.Quantity))),
			LastMovement: parseMovementTime(row.LastMovement),
		})
	}

	return items, nil
}

func parseMovementTime(value interface{}) *time.Time {
	switch v := value.(type) {
	case time.Time:
		return &v
	case *time.Time:
		return v
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05.999999999-07:00", time.RFC3339Nano, "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, v); err == nil {
				return &t
			}
		}
	case []byte:
		return parseMovementTime(string(v))
	}
	return nil
}

type ValuationItem struct {
	ItemID     uint            `json:"item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalValue decimal.Decimal `json:"total_value"`
}

type Valuation struct {
	GeneratedAt time.Time       `json:"generated_at"`
	TotalValue  decimal.Decimal `json:"total_value"`
	ItemCount   int             `json:"item_count"`
	Items       []ValuationItem `json:"items"`
}

// GetValuation values the merchant's current stock at unit price.
func (r *ReportRepository) GetValuation(merchantID uint) (*Valuation, error) {
	sqlValuation := `SELECT a.item_id, a.name, a.quantity, a.price AS unit_price
	FROM stock_items a
	WHERE a.merchant_id = ? AND a.is_active = ? AND a.deleted_at IS NULL
	ORDER BY a.name ASC`

	var items []ValuationItem
	if err := r.db.Raw(sqlValuation, merchantID, true).Scan(&items).Error; err != nil {
		return nil, err
	}

	valuation := &Valuation{
		GeneratedAt: time.Now().UTC(),
		TotalValue:  decimal.Zero,
		ItemCount:   len(items),
	}
	for i := range items {
		items[i].TotalValue = items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		valuation.TotalValue = valuation.TotalValue.Add(items[i].TotalValue)
	}
	valuation.Items = items

	return valuation, nil
}
