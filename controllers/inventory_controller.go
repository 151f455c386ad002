package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/osmanaliaydemir/getir-sub003/repositories"
	"github.com/osmanaliaydemir/getir-sub003/services"
)

type InventoryController struct {
	DB        *gorm.DB
	Inventory *services.InventoryService
	Alerts    *services.AlertService
}

func NewInventoryController(DB *gorm.DB, inventory *services.InventoryService, alerts *services.AlertService) *InventoryController {
	return &InventoryController{DB: DB, Inventory: inventory, Alerts: alerts}
}

func (c *InventoryController) PerformCount(ctx *fiber.Ctx) error {
	var req services.CountRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := c.Inventory.PerformCount(currentUserID(ctx), req)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Stock count completed",
		"data":    result,
	})
}

func (c *InventoryController) GetCountHistory(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	from := parseTimeQuery(ctx.Query("from"))
	to := parseTimeQuery(ctx.Query("to"))

	sessions, err := c.Inventory.CountHistory(merchant.ID, from, to)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"sessions": sessions},
	})
}

func (c *InventoryController) GetDiscrepancies(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	from := parseTimeQuery(ctx.Query("from"))

	discrepancies, err := c.Inventory.Discrepancies(merchant.ID, from)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"discrepancies": discrepancies},
	})
}

type ApplyAdjustmentsInput struct {
	Adjustments []services.InventoryAdjustment `json:"adjustments" validate:"required,dive"`
	Reason      string                         `json:"reason"`
}

func (c *InventoryController) ApplyAdjustments(ctx *fiber.Ctx) error {
	var input ApplyAdjustmentsInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := currentUserID(ctx)
	result, err := c.Inventory.ApplyAdjustments(input.Adjustments, userID, input.Reason)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if merchant, err := merchantForUser(c.DB, userID); err == nil {
		if _, err := c.Alerts.Scan(merchant.ID); err != nil {
			log.Println("alert scan failed for merchant", merchant.ID, ":", err)
		}
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Adjustments applied",
		"data":    result,
	})
}

func (c *InventoryController) GetLevels(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	reportRepo := repositories.NewReportRepository(c.DB)
	levels, err := reportRepo.GetInventoryLevels(merchant.ID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"levels": levels},
	})
}

func (c *InventoryController) ExportLevelsExcel(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	reportRepo := repositories.NewReportRepository(c.DB)
	levels, err := reportRepo.GetInventoryLevels(merchant.ID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Item ID")
	f.SetCellValue(sheet, "B1", "Item Name")
	f.SetCellValue(sheet, "C1", "Quantity")
	f.SetCellValue(sheet, "D1", "Minimum Stock")
	f.SetCellValue(sheet, "E1", "Maximum Stock")
	f.SetCellValue(sheet, "F1", "Unit Price")
	f.SetCellValue(sheet, "G1", "Stock Value")
	f.SetCellValue(sheet, "H1", "Status")

	for i, level := range levels {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), level.ItemID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), level.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), level.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), level.MinimumStock)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), level.MaximumStock)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", i+2), level.Price.String())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", i+2), level.StockValue.String())
		f.SetCellValue(sheet, fmt.Sprintf("H%d", i+2), level.Status)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="inventory_levels.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Failed to generate Excel")
	}

	return nil
}

func (c *InventoryController) GetSummary(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	reportRepo := repositories.NewReportRepository(c.DB)
	summary, err := reportRepo.GetStockSummary(merchant.ID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}

func (c *InventoryController) GetTurnover(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	to := time.Now()
	from := to.AddDate(0, -1, 0)
	if t := parseTimeQuery(ctx.Query("from")); t != nil {
		from = *t
	}
	if t := parseTimeQuery(ctx.Query("to")); t != nil {
		to = *t
	}

	reportRepo := repositories.NewReportRepository(c.DB)
	items, err := reportRepo.GetTurnover(merchant.ID, from, to)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"items": items, "from": from, "to": to},
	})
}

func (c *InventoryController) GetSlowMoving(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	days := ctx.QueryInt("days", 30)
	cutoff := time.Now().AddDate(0, 0, -days)

	reportRepo := repositories.NewReportRepository(c.DB)
	items, err := reportRepo.GetSlowMoving(merchant.ID, cutoff)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"items": items, "cutoff": cutoff},
	})
}

func (c *InventoryController) GetValuation(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	reportRepo := repositories.NewReportRepository(c.DB)
	valuation, err := reportRepo.GetValuation(merchant.ID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    valuation,
	})
}
