package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/osmanaliaydemir/getir-sub003/config"
	"github.com/osmanaliaydemir/getir-sub003/controllers"
	"github.com/osmanaliaydemir/getir-sub003/middleware"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controllers.NewAuthController(db)

	api := app.Group(config.MAIN_ROUTES + "/auth")
	api.Post("/login", authController.Login)
	api.Get("/profile", middleware.AuthMiddleware, authController.Profile)
}
