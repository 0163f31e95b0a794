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

func SetupClockRoutes(app *fiber.App, db *gorm.DB) {
	clockRepo := repository.NewClockRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	breakRepo := repository.NewBreakRepository(db)
	restrictionRepo := repository.NewRestrictionRepository(db)

	resolver := service.NewPolicyResolver(breakRepo, restrictionRepo, teamRepo)
	evaluator := service.NewRestrictionEvaluator(resolver)
	clocks := service.NewClockService(clockRepo, teamRepo, orgRepo, evaluator, newNotifier(userRepo))
	hdl := handler.NewClockHandler(clocks)

	api := app.Group("/api/clocks", middleware.Auth)

	api.Post("/in", hdl.ClockIn)
	api.Post("/out", hdl.ClockOut)
	api.Get("/status", hdl.Status)
	api.Get("/history", hdl.History)

	api.Get("/pending", middleware.RequireRole(model.RoleManager), hdl.ListPending)
	api.Post("/:id/approve", middleware.RequireRole(model.RoleManager), hdl.Approve)
	api.Post("/:id/reject", middleware.RequireRole(model.RoleManager), hdl.Reject)
}
