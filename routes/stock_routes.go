package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/osmanaliaydemir/getir-sub003/config"
	"github.com/osmanaliaydemir/getir-sub003/controllers"
	"github.com/osmanaliaydemir/getir-sub003/middleware"
)

func SetupStockRoutes(app *fiber.App, stockController *controllers.StockController) {
	api := app.Group(config.MAIN_ROUTES+"/stock", middleware.AuthMiddleware)
	api.Put("/update", stockController.UpdateStock)
	api.Put("/bulk-update", stockController.BulkUpdateStock)
	api.Get("/history/:itemId", stockController.GetHistory)
	api.Post("/reduce-for-order/:orderId", stockController.ReduceForOrder)
	api.Post("/restore-for-order/:orderId", stockController.RestoreForOrder)
}
