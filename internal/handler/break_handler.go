package handler

import (
	"time"

	"workforce-backend/internal/middleware"
	"workforce-backend/internal/model"
	"workforce-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BreakHandler struct {
	breaks *service.BreakService
	clocks *service.ClockService
}

func NewBreakHandler(breaks *service.BreakService, clocks *service.ClockService) *BreakHandler {
	return &BreakHandler{breaks: breaks, clocks: clocks}
}

type startBreakRequest struct {
	ClockEntryID uint   `json:"clock_entry_id"`
	Notes        string `json:"notes"`
}

func (h *BreakHandler) Start(c *fiber.Ctx) error {
	var req startBreakRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ClockEntryID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "clock_entry_id is required"})
	}

	entry, err := h.breaks.StartBreak(middleware.OrgID(c), middleware.UserID(c), req.ClockEntryID, req.Notes)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

type endBreakRequest struct {
	Notes string `json:"notes"`
}

func (h *BreakHandler) End(c *fiber.Ctx) error {
	var req endBreakRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	entry, err := h.breaks.EndBreak(middleware.OrgID(c), middleware.UserID(c), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(entry)
}

func (h *BreakHandler) Status(c *fiber.Ctx) error {
	status, err := h.breaks.GetBreakStatus(middleware.OrgID(c), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(status)
}

func (h *BreakHandler) ListEntries(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	filter := model.BreakEntryFilter{UserID: &userID}
	if v := c.QueryInt("clock_entry_id"); v > 0 {
		id := uint(v)
		filter.ClockEntryID = &id
	}
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

	page, err := h.breaks.ListEntries(middleware.OrgID(c), filter, pagination(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// Deduction reports the break minutes charged against one of the
// caller's sessions.
func (h *BreakHandler) Deduction(c *fiber.Ctx) error {
	entryID, err := c.ParamsInt("id")
	if err != nil || entryID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid entry id"})
	}

	orgID := middleware.OrgID(c)
	userID := middleware.UserID(c)

	status, err := h.clocks.GetEntry(orgID, userID, uint(entryID))
	if err != nil {
		return err
	}

	deduction, err := h.breaks.CalculateDeduction(orgID, userID, status)
	if err != nil {
		return err
	}
	return c.JSON(deduction)
}

func (h *BreakHandler) EffectivePolicy(c *fiber.Ctx) error {
	policy, err := h.breaks.GetEffectivePolicy(middleware.OrgID(c), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(policy)
}

// --- policy administration ---

func (h *BreakHandler) CreatePolicy(c *fiber.Ctx) error {
	var input service.CreateBreakPolicyInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	policy, err := h.breaks.CreatePolicy(middleware.OrgID(c), middleware.Role(c), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(policy)
}

func (h *BreakHandler) GetPolicy(c *fiber.Ctx) error {
	policyID, err := c.ParamsInt("id")
	if err != nil || policyID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid policy id"})
	}

	policy, err := h.breaks.GetPolicy(middleware.OrgID(c), uint(policyID))
	if err != nil {
		return err
	}
	return c.JSON(policy)
}

func (h *BreakHandler) ListPolicies(c *fiber.Ctx) error {
	p := pagination(c)
	policies, total, err := h.breaks.ListPolicies(middleware.OrgID(c), p)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":        policies,
		"total":       total,
		"page":        p.Page,
		"per_page":    p.PerPage,
		"total_pages": model.TotalPages(total, p.PerPage),
	})
}

func (h *BreakHandler) UpdatePolicy(c *fiber.Ctx) error {
	policyID, err := c.ParamsInt("id")
	if err != nil || policyID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid policy id"})
	}

	var input service.UpdateBreakPolicyInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	policy, err := h.breaks.UpdatePolicy(middleware.OrgID(c), uint(policyID), middleware.Role(c), input)
	if err != nil {
		return err
	}
	return c.JSON(policy)
}

func (h *BreakHandler) DeletePolicy(c *fiber.Ctx) error {
	policyID, err := c.ParamsInt("id")
	if err != nil || policyID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid policy id"})
	}

	if err := h.breaks.DeletePolicy(middleware.OrgID(c), uint(policyID), middleware.Role(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BreakHandler) AddWindow(c *fiber.Ctx) error {
	policyID, err := c.ParamsInt("id")
	if err != nil || policyID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid policy id"})
	}

	var input service.BreakWindowInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	window, err := h.breaks.AddWindow(middleware.OrgID(c), uint(policyID), middleware.Role(c), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(window)
}

func (h *BreakHandler) DeleteWindow(c *fiber.Ctx) error {
	policyID, err := c.ParamsInt("id")
	if err != nil || policyID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid policy id"})
	}
	windowID, err := c.ParamsInt("windowId")
	if err != nil || windowID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid window id"})
	}

	if err := h.breaks.DeleteWindow(middleware.OrgID(c), uint(policyID), uint(windowID), middleware.Role(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
