package main

import (
	"log"

	"workforce-backend/config"
	"workforce-backend/internal/apperror"
	"workforce-backend/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	config.ConnectDB()

	app := fiber.New(fiber.Config{
		ErrorHandler: apperror.Handler,
	})

	app.Use(cors.New())
	app.Use(logger.New())

	routes.SetupAuthRoutes(app, config.DB)
	routes.SetupClockRoutes(app, config.DB)
	routes.SetupBreakRoutes(app, config.DB)
	routes.SetupRestrictionRoutes(app, config.DB)
	routes.SetupOverrideRoutes(app, config.DB)

	addr := ":" + config.GetEnv("PORT", "3000")
	log.Printf("listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatal(err)
	}
}
