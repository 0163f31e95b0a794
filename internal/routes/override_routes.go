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

func SetupOverrideRoutes(app *fiber.App, db *gorm.DB) {
	teamRepo := repository.NewTeamRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	breakRepo := repository.NewBreakRepository(db)
	restrictionRepo := repository.NewRestrictionRepository(db)
	overrideRepo := repository.NewOverrideRepository(db)

	resolver := service.NewPolicyResolver(breakRepo, restrictionRepo, teamRepo)
	evaluator := service.NewRestrictionEvaluator(resolver)
	overrides := service.NewOverrideService(overrideRepo, teamRepo, orgRepo, evaluator, newNotifier(userRepo))
	hdl := handler.NewOverrideHandler(overrides)

	api := app.Group("/api/overrides", middleware.Auth)

	api.Post("/", hdl.Create)
	api.Get("/pending", middleware.RequireRole(model.RoleManager), hdl.ListPending)
	api.Get("/", hdl.ListMine)
	api.Post("/:id/review", middleware.RequireRole(model.RoleManager), hdl.Review)
}
