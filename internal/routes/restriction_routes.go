package routes

import (
	"workforce-backend/internal/handler"
	"workforce-backend/internal/middleware"
	"workforce-backend/internal/model"
	"workforce-backend/internal/repository"
	"workforce-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRestrictionRoutes(app *fiber.App, db *gorm.DB) {
	teamRepo := repository.NewTeamRepository(db)
	userRepo := repository.NewUserRepository(db)
	breakRepo := repository.NewBreakRepository(db)
	restrictionRepo := repository.NewRestrictionRepository(db)

	resolver := service.NewPolicyResolver(breakRepo, restrictionRepo, teamRepo)
	evaluator := service.NewRestrictionEvaluator(resolver)
	restrictions := service.NewRestrictionService(restrictionRepo, teamRepo, userRepo, resolver)
	hdl := handler.NewRestrictionHandler(restrictions, evaluator)

	api := app.Group("/api/restrictions", middleware.Auth)

	api.Get("/validate", hdl.Validate)
	api.Get("/effective", hdl.Effective)

	admin := api.Group("/", middleware.RequireRole(model.RoleAdmin))
	admin.Post("/", hdl.Create)
	admin.Get("/", hdl.List)
	admin.Get("/:id", hdl.Get)
	admin.Put("/:id", hdl.Update)
	admin.Delete("/:id", hdl.Delete)
}
