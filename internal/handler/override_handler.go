package handler

import (
	"workforce-backend/internal/middleware"
	"workforce-backend/internal/model"
	"workforce-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OverrideHandler struct {
	overrides *service.OverrideService
}

func NewOverrideHandler(overrides *service.OverrideService) *OverrideHandler {
	return &OverrideHandler{overrides: overrides}
}

func (h *OverrideHandler) Create(c *fiber.Ctx) error {
	var input service.CreateOverrideInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	request, err := h.overrides.Create(middleware.OrgID(c), middleware.UserID(c), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

func (h *OverrideHandler) Review(c *fiber.Ctx) error {
	requestID, err := c.ParamsInt("id")
	if err != nil || requestID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}

	var input service.ReviewOverrideInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	request, err := h.overrides.Review(middleware.OrgID(c), middleware.UserID(c), middleware.Role(c), uint(requestID), input)
	if err != nil {
		return err
	}
	return c.JSON(request)
}

func (h *OverrideHandler) ListPending(c *fiber.Ctx) error {
	page, err := h.overrides.ListPending(middleware.OrgID(c), middleware.UserID(c), middleware.Role(c), pagination(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// ListMine returns the caller's own request history.
func (h *OverrideHandler) ListMine(c *fiber.Ctx) error {
	filter := model.OverrideFilter{}
	if s := c.Query("status"); s != "" {
		status := model.OverrideStatus(s)
		filter.Status = &status
	}
	if s := c.Query("requested_action"); s != "" {
		action, ok := model.ParseClockAction(s)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "requested_action must be clock_in or clock_out"})
		}
		filter.RequestedAction = &action
	}

	page, err := h.overrides.ListUserRequests(middleware.OrgID(c), middleware.UserID(c), filter, pagination(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}
