package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/osmanaliaydemir/getir-sub003/config"
	"github.com/osmanaliaydemir/getir-sub003/controllers"
	"github.com/osmanaliaydemir/getir-sub003/middleware"
)

func SetupAlertRoutes(app *fiber.App, alertController *controllers.AlertController) {
	api := app.Group(config.MAIN_ROUTES+"/stock-alerts", middleware.AuthMiddleware)
	api.Get("/", alertController.GetAlerts)
	api.Post("/scan", alertController.Scan)
	api.Put("/:id/resolve", alertController.ResolveAlert)
	api.Get("/statistics", alertController.GetStatistics)
	api.Get("/settings", alertController.GetSettings)
	api.Put("/settings", alertController.UpdateSettings)
}
