package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/osmanaliaydemir/getir-sub003/models"
	"github.com/osmanaliaydemir/getir-sub003/services"
)

type SyncController struct {
	DB   *gorm.DB
	Sync *services.SyncService
}

func NewSyncController(DB *gorm.DB, sync *services.SyncService) *SyncController {
	return &SyncController{DB: DB, Sync: sync}
}

func (c *SyncController) Synchronize(ctx *fiber.Ctx) error {
	var req services.SyncRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.SyncType == "" {
		req.SyncType = models.SyncTypeManual
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := c.Sync.SynchronizeWithExternal(req)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Stock synchronization completed",
		"data":    result,
	})
}

func (c *SyncController) GetHistory(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	from := parseTimeQuery(ctx.Query("from"))
	to := parseTimeQuery(ctx.Query("to"))

	sessions, err := c.Sync.SyncHistory(merchant.ID, from, to)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"sessions": sessions},
	})
}

func (c *SyncController) GetStatus(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	status, err := c.Sync.SyncStatus(merchant.ID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    status,
	})
}

func (c *SyncController) Configure(ctx *fiber.Ctx) error {
	var req services.ExternalSystemConfigRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.Sync.ConfigureExternalSystem(req, currentUserID(ctx)); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "External system configured successfully",
	})
}

func (c *SyncController) TestConnection(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := c.Sync.TestConnection(merchant.ID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

type ScheduleSyncInput struct {
	IntervalMinutes int `json:"interval_minutes" validate:"required,min=1"`
}

func (c *SyncController) Schedule(ctx *fiber.Ctx) error {
	var input ScheduleSyncInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := c.Sync.ScheduleAutomaticSync(merchant.ID, input.IntervalMinutes); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Automatic sync scheduled",
	})
}

func (c *SyncController) CancelSchedule(ctx *fiber.Ctx) error {
	merchant, err := merchantForUser(c.DB, currentUserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := c.Sync.CancelAutomaticSync(merchant.ID); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Automatic sync cancelled",
	})
}
