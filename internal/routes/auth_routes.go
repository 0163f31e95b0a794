package routes

import (
	"workforce-backend/internal/handler"
	"workforce-backend/internal/middleware"
	"workforce-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	userRepo := repository.NewUserRepository(db)
	hdl := handler.NewAuthHandler(userRepo)

	api := app.Group("/api/auth")

	api.Post("/login", hdl.Login)
	api.Get("/me", middleware.Auth, hdl.Me)
}
