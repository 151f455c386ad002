package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/osmanaliaydemir/getir-sub003/config"
	"github.com/osmanaliaydemir/getir-sub003/controllers"
	"github.com/osmanaliaydemir/getir-sub003/middleware"
)

func SetupInventoryRoutes(app *fiber.App, inventoryController *controllers.InventoryController) {
	api := app.Group(config.MAIN_ROUTES+"/inventory", middleware.AuthMiddleware)
	api.Post("/count", inventoryController.PerformCount)
	api.Get("/count/history", inventoryController.GetCountHistory)
	api.Get("/discrepancies", inventoryController.GetDiscrepancies)
	api.Post("/adjust", inventoryController.ApplyAdjustments)
	api.Get("/levels", inventoryController.GetLevels)
	api.Get("/levels/excel", inventoryController.ExportLevelsExcel)
	api.Get("/summary", inventoryController.GetSummary)
	api.Get("/reports/turnover", inventoryController.GetTurnover)
	api.Get("/reports/slow-moving", inventoryController.GetSlowMoving)
	api.Get("/reports/valuation", inventoryController.GetValuation)
}
