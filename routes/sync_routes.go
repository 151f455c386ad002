package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/osmanaliaydemir/getir-sub003/config"
	"github.com/osmanaliaydemir/getir-sub003/controllers"
	"github.com/osmanaliaydemir/getir-sub003/middleware"
)

func SetupSyncRoutes(app *fiber.App, syncController *controllers.SyncController) {
	api := app.Group(config.MAIN_ROUTES+"/stock-sync", middleware.AuthMiddleware)
	api.Post("/sync", syncController.Synchronize)
	api.Get("/history", syncController.GetHistory)
	api.Get("/status", syncController.GetStatus)
	api.Post("/configure", syncController.Configure)
	api.Post("/test-connection", syncController.TestConnection)
	api.Post("/schedule", syncController.Schedule)
	api.Post("/cancel-schedule", syncController.CancelSchedule)
}
