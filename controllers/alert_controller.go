package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/osmanaliaydemir/getir-sub003/models"
	"github.com/osmanaliaydemir/getir-sub003/services"
)

type AlertController struct {
	DB     *gorm.DB
	Alerts *services.AlertService
}

func NewAlertController(DB *gorm.DB, alerts *services.AlertService) *AlertController {
	return &AlertController{DB: DB, Alerts: alerts}
}

func (c *AlertController) Scan(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	created, err := c.Alerts.Scan(merchant.ID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Alert scan completed",
		"data": fiber.Map{
			"created": len(created),
			"alerts":  created,
		},
	})
}

func (c *AlertController) GetAlerts(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	alerts, err := c.Alerts.Alerts(merchant.ID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"alerts": alerts},
	})
}

type ResolveAlertInput struct {
	Notes string `json:"notes"`
}

func (c *AlertController) ResolveAlert(ctx *fiber.Ctx) error {
	alertID, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid alert ID"})
	}

	var input ResolveAlertInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.Alerts.ResolveAlert(alertID, currentUserID(ctx), input.Notes); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Alert resolved successfully",
	})
}

func (c *AlertController) GetStatistics(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	from := parseTimeQuery(ctx.Query("from"))
	to := parseTimeQuery(ctx.Query("to"))

	stats, err := c.Alerts.Statistics(merchant.ID, from, to)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

func (c *AlertController) GetSettings(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	var settings models.StockSettings
	if err := c.DB.Where("merchant_id = ?", merchant.ID).First(&settings).Error; err != nil {
		return errorResponse(ctx, services.ErrSettingsNotFound)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    settings,
	})
}

func (c *AlertController) UpdateSettings(ctx *fiber.Ctx) error {
	var req services.StockSettingsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	settings, err := c.Alerts.ConfigureSettings(req, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Stock settings updated successfully",
		"data":    settings,
	})
}
