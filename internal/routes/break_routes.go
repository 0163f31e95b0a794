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

func SetupBreakRoutes(app *fiber.App, db *gorm.DB) {
	clockRepo := repository.NewClockRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	breakRepo := repository.NewBreakRepository(db)
	restrictionRepo := repository.NewRestrictionRepository(db)

	resolver := service.NewPolicyResolver(breakRepo, restrictionRepo, teamRepo)
	evaluator := service.NewRestrictionEvaluator(resolver)
	clocks := service.NewClockService(clockRepo, teamRepo, orgRepo, evaluator, newNotifier(userRepo))
	breaks := service.NewBreakService(breakRepo, clockRepo, teamRepo, userRepo, resolver)
	hdl := handler.NewBreakHandler(breaks, clocks)

	api := app.Group("/api/breaks", middleware.Auth)

	api.Post("/start", hdl.Start)
	api.Post("/end", hdl.End)
	api.Get("/status", hdl.Status)
	api.Get("/entries", hdl.ListEntries)
	api.Get("/policies/effective", hdl.EffectivePolicy)

	admin := api.Group("/policies", middleware.RequireRole(model.RoleAdmin))
	admin.Post("/", hdl.CreatePolicy)
	admin.Get("/", hdl.ListPolicies)
	admin.Get("/:id", hdl.GetPolicy)
	admin.Put("/:id", hdl.UpdatePolicy)
	admin.Delete("/:id", hdl.DeletePolicy)
	admin.Post("/:id/windows", hdl.AddWindow)
	admin.Delete("/:id/windows/:windowId", hdl.DeleteWindow)

	// Deduction rides on the clock entry id.
	api.Get("/deduction/:id", hdl.Deduction)
}
