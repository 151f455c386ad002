package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/osmanaliaydemir/getir-sub003/config"
	"github.com/osmanaliaydemir/getir-sub003/controllers"
	"github.com/osmanaliaydemir/getir-sub003/controllers/idgen"
	"github.com/osmanaliaydemir/getir-sub003/database"
	"github.com/osmanaliaydemir/getir-sub003/routes"
	"github.com/osmanaliaydemir/getir-sub003/services"
)

func main() {

	config.LoadConfig()

	app := fiber.New()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	var notifier services.Notifier = services.NopNotifier{}
	if config.SMTPUser != "" && config.AlertMailTo != "" {
		notifier = services.NewEmailNotifier(
			config.SMTPHost,
			config.SMTPPort,
			config.SMTPUser,
			config.SMTPPassword,
			strings.Split(config.AlertMailTo, ","),
		)
	}

	stockService := services.NewStockService(db)
	alertService := services.NewAlertService(db, notifier)
	syncService := services.NewSyncService(db, stockService)
	inventoryService := services.NewInventoryService(db, stockService)

	stockController := controllers.NewStockController(db, stockService, alertService)
	alertController := controllers.NewAlertController(db, alertService)
	syncController := controllers.NewSyncController(db, syncService)
	inventoryController := controllers.NewInventoryController(db, inventoryService, alertService)

	config.SetupCORS(app)

	routes.SetupAuthRoutes(app, db)
	routes.SetupStockRoutes(app, stockController)
	routes.SetupAlertRoutes(app, alertController)
	routes.SetupSyncRoutes(app, syncController)
	routes.SetupInventoryRoutes(app, inventoryController)

	port := config.APP_PORT
	fmt.Println("🚀 Server running on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}

}
