package handler

import (
	"workforce-backend/internal/middleware"
	"workforce-backend/internal/model"
	"workforce-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type RestrictionHandler struct {
	restrictions *service.RestrictionService
	evaluator    *service.RestrictionEvaluator
}

func NewRestrictionHandler(restrictions *service.RestrictionService, evaluator *service.RestrictionEvaluator) *RestrictionHandler {
	return &RestrictionHandler{restrictions: restrictions, evaluator: evaluator}
}

// Validate lets a client check a clock action before attempting it.
func (h *RestrictionHandler) Validate(c *fiber.Ctx) error {
	action, ok := model.ParseClockAction(c.Query("action", string(model.ActionClockIn)))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "action must be clock_in or clock_out"})
	}
	result, err := h.evaluator.ValidateClockAction(middleware.OrgID(c), middleware.UserID(c), action)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *RestrictionHandler) Create(c *fiber.Ctx) error {
	var input service.CreateRestrictionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	restriction, err := h.restrictions.Create(middleware.OrgID(c), middleware.Role(c), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(restriction)
}

func (h *RestrictionHandler) Get(c *fiber.Ctx) error {
	restrictionID, err := c.ParamsInt("id")
	if err != nil || restrictionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid restriction id"})
	}

	restriction, err := h.restrictions.Get(middleware.OrgID(c), uint(restrictionID))
	if err != nil {
		return err
	}
	return c.JSON(restriction)
}

func (h *RestrictionHandler) List(c *fiber.Ctx) error {
	p := pagination(c)
	restrictions, total, err := h.restrictions.List(middleware.OrgID(c), p)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":        restrictions,
		"total":       total,
		"page":        p.Page,
		"per_page":    p.PerPage,
		"total_pages": model.TotalPages(total, p.PerPage),
	})
}

func (h *RestrictionHandler) Update(c *fiber.Ctx) error {
	restrictionID, err := c.ParamsInt("id")
	if err != nil || restrictionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid restriction id"})
	}

	var input service.UpdateRestrictionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	restriction, err := h.restrictions.Update(middleware.OrgID(c), uint(restrictionID), middleware.Role(c), input)
	if err != nil {
		return err
	}
	return c.JSON(restriction)
}

func (h *RestrictionHandler) Delete(c *fiber.Ctx) error {
	restrictionID, err := c.ParamsInt("id")
	if err != nil || restrictionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid restriction id"})
	}

	if err := h.restrictions.Delete(middleware.OrgID(c), uint(restrictionID), middleware.Role(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Effective lists the restrictions applying to the caller right now.
func (h *RestrictionHandler) Effective(c *fiber.Ctx) error {
	restrictions, err := h.restrictions.Effective(middleware.OrgID(c), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"restrictions": restrictions})
}
