package controllers

import (
	"errors"
	"time"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/osmanaliaydemir/getir-sub003/models"
	"github.com/osmanaliaydemir/getir-sub003/services"
)

var validate = validator.New()

// errorResponse maps service errors to HTTP statuses. Anything that is
// not a ServiceError is treated as an internal failure.
func errorResponse(ctx *fiber.Ctx, err error) error {
	var serviceErr *services.ServiceError
	if errors.As(err, &serviceErr) {
		return ctx.Status(statusForCode(serviceErr.Code)).JSON(fiber.Map{
			"success": false,
			"code":    serviceErr.Code,
			"message": serviceErr.Message,
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

func statusForCode(code string) int {
	switch code {
	case "ACCESS_DENIED":
		return fiber.StatusForbidden
	case "ALERT_ALREADY_RESOLVED":
		return fiber.StatusConflict
	case "SYNC_NOT_ENABLED", "SYNC_NOT_CONFIGURED":
		return fiber.StatusBadRequest
	case "ORDER_NOT_FOUND", "PRODUCT_NOT_FOUND", "MERCHANT_NOT_FOUND",
		"USER_NOT_FOUND", "SETTINGS_NOT_FOUND", "ALERT_NOT_FOUND":
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func currentUserID(ctx *fiber.Ctx) uint {
	userID, _ := ctx.Locals("userID").(float64)
	return uint(userID)
}

// merchantForUser resolves the merchant owned by the authenticated
// user. Merchant-scoped reads go through this.
func merchantForUser(db *gorm.DB, userID uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := db.Where("owner_id = ?", userID).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrMerchantNotFound
		}
		return nil, err
	}
	return &merchant, nil
}

func parseTimeQuery(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
