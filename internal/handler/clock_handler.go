package handler

import (
	"time"

	"workforce-backend/internal/middleware"
	"workforce-backend/internal/model"
	"workforce-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ClockHandler struct {
	clocks *service.ClockService
}

func NewClockHandler(clocks *service.ClockService) *ClockHandler {
	return &ClockHandler{clocks: clocks}
}

type clockRequest struct {
	Notes string `json:"notes"`
}

func (h *ClockHandler) ClockIn(c *fiber.Ctx) error {
	var req clockRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	entry, err := h.clocks.ClockIn(middleware.OrgID(c), middleware.UserID(c), req.Notes)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *ClockHandler) ClockOut(c *fiber.Ctx) error {
	var req clockRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	entry, err := h.clocks.ClockOut(middleware.OrgID(c), middleware.UserID(c), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(entry)
}

func (h *ClockHandler) Status(c *fiber.Ctx) error {
	status, err := h.clocks.GetCurrentStatus(middleware.OrgID(c), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(status)
}

func (h *ClockHandler) History(c *fiber.Ctx) error {
	filter := model.ClockFilter{}
	if s := c.Query("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date must be YYYY-MM-DD"})
		}
		filter.StartDate = &t
	}
	if s := c.Query("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date must be YYYY-MM-DD"})
		}
		filter.EndDate = &t
	}
	if s := c.Query("status"); s != "" {
		status := model.ClockStatusValue(s)
		filter.Status = &status
	}

	page, err := h.clocks.GetHistory(middleware.OrgID(c), middleware.UserID(c), filter, pagination(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *ClockHandler) Approve(c *fiber.Ctx) error {
	entryID, err := c.ParamsInt("id")
	if err != nil || entryID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid entry id"})
	}

	transition, err := h.clocks.ApproveEntry(middleware.OrgID(c), uint(entryID), middleware.UserID(c), middleware.Role(c))
	if err != nil {
		return err
	}
	return c.JSON(transition.Current)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *ClockHandler) Reject(c *fiber.Ctx) error {
	entryID, err := c.ParamsInt("id")
	if err != nil || entryID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid entry id"})
	}

	var req rejectRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	transition, err := h.clocks.RejectEntry(middleware.OrgID(c), uint(entryID), middleware.UserID(c), middleware.Role(c), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(transition.Current)
}

func (h *ClockHandler) ListPending(c *fiber.Ctx) error {
	filter := model.PendingClockFilter{}
	if v := c.QueryInt("team_id"); v > 0 {
		teamID := uint(v)
		filter.TeamID = &teamID
	}
	if v := c.QueryInt("organization_id"); v > 0 {
		orgID := uint(v)
		filter.OrganizationID = &orgID
	}

	page, err := h.clocks.ListPending(middleware.OrgID(c), middleware.UserID(c), middleware.Role(c), filter, pagination(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// pagination reads page/per_page query params with sane defaults.
func pagination(c *fiber.Ctx) model.Pagination {
	return model.NormalizePagination(c.QueryInt("page", 1), c.QueryInt("per_page", 20))
}
