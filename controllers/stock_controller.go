package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/osmanaliaydemir/getir-sub003/services"
)

type StockController struct {
	DB     *gorm.DB
	Stock  *services.StockService
	Alerts *services.AlertService
}

func NewStockController(DB *gorm.DB, stock *services.StockService, alerts *services.AlertService) *StockController {
	return &StockController{DB: DB, Stock: stock, Alerts: alerts}
}

// scanAlerts re-evaluates thresholds after a ledger write. Alert
// failures never fail the stock operation that triggered them.
func (c *StockController) scanAlerts(merchantID uint) {
	if _, err := c.Alerts.Scan(merchantID); err != nil {
		log.Println("alert scan failed for merchant", merchantID, ":", err)
	}
}

func (c *StockController) UpdateStock(ctx *fiber.Ctx) error {
	var req services.UpdateStockRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := currentUserID(ctx)
	newQuantity, err := c.Stock.UpdateStockLevel(req, userID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if merchant, err := merchantForUser(c.DB, userID); err == nil {
		c.scanAlerts(merchant.ID)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Stock updated successfully",
		"data": fiber.Map{
			"item_id":      req.ItemID,
			"variant_id":   req.VariantID,
			"new_quantity": newQuantity,
		},
	})
}

type BulkUpdateStockInput struct {
	Items []services.UpdateStockRequest `json:"items" validate:"required,dive"`
}

func (c *StockController) BulkUpdateStock(ctx *fiber.Ctx) error {
	var input BulkUpdateStockInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := currentUserID(ctx)
	if err := c.Stock.BulkUpdateStockLevels(input.Items, userID); err != nil {
		return errorResponse(ctx, err)
	}

	if merchant, err := merchantForUser(c.DB, userID); err == nil {
		c.scanAlerts(merchant.ID)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Stock updated successfully",
		"data":    fiber.Map{"updated": len(input.Items)},
	})
}

func (c *StockController) GetHistory(ctx *fiber.Ctx) error {
	itemID, err := ctx.ParamsInt("itemId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	filter := services.HistoryFilter{ItemID: uint(itemID)}
	if v := ctx.QueryInt("variant_id", -1); v >= 0 {
		variantID := uint(v)
		filter.VariantID = &variantID
	}
	if from := ctx.Query("from"); from != "" {
		filter.From = &from
	}
	if to := ctx.Query("to"); to != "" {
		filter.To = &to
	}

	history, err := c.Stock.History(filter)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"history": history},
	})
}

func (c *StockController) ReduceForOrder(ctx *fiber.Ctx) error {
	orderID, err := ctx.ParamsInt("orderId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	userID := currentUserID(ctx)
	order, err := c.Stock.ReduceForOrder(uint(orderID), int(userID))
	if err != nil {
		return errorResponse(ctx, err)
	}

	c.scanAlerts(order.MerchantID)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Stock reduced for order",
		"data": fiber.Map{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"lines":        len(order.Lines),
		},
	})
}

func (c *StockController) RestoreForOrder(ctx *fiber.Ctx) error {
	orderID, err := ctx.ParamsInt("orderId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	userID := currentUserID(ctx)
	order, err := c.Stock.RestoreForOrder(uint(orderID), int(userID))
	if err != nil {
		return errorResponse(ctx, err)
	}

	c.scanAlerts(order.MerchantID)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Stock restored for order",
		"data": fiber.Map{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"lines":        len(order.Lines),
		},
	})
}
