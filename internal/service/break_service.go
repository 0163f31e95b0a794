package service

import (
	"errors"
	"time"

	"workforce-backend/internal/apperror"
	"workforce-backend/internal/model"
	"workforce-backend/internal/repository"

	"gorm.io/gorm"
)

// BreakService owns break tracking inside open sessions plus the
// admin-managed break policy configuration.
type BreakService struct {
	breakRepo repository.BreakRepository
	clockRepo repository.ClockRepository
	teamRepo  repository.TeamRepository
	userRepo  repository.UserRepository
	resolver  *PolicyResolver
}

func NewBreakService(breakRepo repository.BreakRepository, clockRepo repository.ClockRepository, teamRepo repository.TeamRepository, userRepo repository.UserRepository, resolver *PolicyResolver) *BreakService {
	return &BreakService{
		breakRepo: breakRepo,
		clockRepo: clockRepo,
		teamRepo:  teamRepo,
		userRepo:  userRepo,
		resolver:  resolver,
	}
}

// StartBreak opens a tracked break on the user's open session. Only
// valid under explicit tracking; automatic policies derive break
// minutes from windows and never create entries.
func (s *BreakService) StartBreak(orgID, userID, clockEntryID uint, notes string) (*model.BreakEntry, error) {
	effective, err := s.resolver.ResolveBreakPolicy(orgID, userID)
	if err != nil {
		return nil, err
	}
	if effective.Policy == nil {
		return nil, apperror.Validation("no break policy is configured for you, contact your administrator")
	}
	if effective.Policy.TrackingMode != model.BreakExplicit {
		return nil, apperror.Validation("your break policy uses automatic deduction, breaks are not tracked manually")
	}

	entry, err := s.clockRepo.FindByID(orgID, clockEntryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("clock entry not found")
		}
		return nil, apperror.Internal(err)
	}
	if entry.UserID != userID {
		return nil, apperror.NotFound("clock entry not found")
	}
	if entry.ClockOut != nil {
		return nil, apperror.Validation("cannot start a break on a closed session")
	}

	breakEntry := &model.BreakEntry{
		OrganizationID:   orgID,
		UserID:           userID,
		ClockEntryID:     entry.ID,
		OpenClockEntryID: &entry.ID,
		BreakStart:       time.Now(),
		Notes:            notes,
	}
	if err := s.breakRepo.CreateEntry(breakEntry); err != nil {
		if errors.Is(err, repository.ErrDuplicateOpen) {
			return nil, apperror.Conflict("a break is already running on this session, end it first")
		}
		return nil, apperror.Internal(err)
	}
	return breakEntry, nil
}

// EndBreak closes the user's currently open break.
func (s *BreakService) EndBreak(orgID, userID uint, notes string) (*model.BreakEntry, error) {
	open, err := s.breakRepo.FindOpenByUser(orgID, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if open == nil {
		return nil, apperror.NotFound("you do not have an active break to end")
	}

	now := time.Now()
	duration := int(now.Sub(open.BreakStart).Minutes())
	entry, err := s.breakRepo.CloseEntry(orgID, open.ID, now, duration, notes)
	if err != nil {
		if errors.Is(err, repository.ErrStale) {
			return nil, apperror.Conflict("break was already ended")
		}
		return nil, apperror.Internal(err)
	}
	return entry, nil
}

func (s *BreakService) GetBreakStatus(orgID, userID uint) (*model.BreakStatus, error) {
	open, err := s.breakRepo.FindOpenByUser(orgID, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	effective, err := s.resolver.ResolveBreakPolicy(orgID, userID)
	if err != nil {
		return nil, err
	}

	status := &model.BreakStatus{IsOnBreak: open != nil, CurrentBreak: open, Policy: effective}
	if open != nil {
		elapsed := int(time.Since(open.BreakStart).Minutes())
		status.ElapsedMinutes = &elapsed
	}
	return status, nil
}

func (s *BreakService) ListEntries(orgID uint, filter model.BreakEntryFilter, p model.Pagination) (*model.PaginatedBreakEntries, error) {
	entries, total, err := s.breakRepo.ListEntries(orgID, filter, p)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &model.PaginatedBreakEntries{
		Data:       entries,
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: model.TotalPages(total, p.PerPage),
	}, nil
}

// CalculateDeduction reports the break minutes a session carries. In
// automatic mode that is the overlap between the session and the
// policy's windows for that day, capped per window; in explicit mode it
// is the sum of tracked entries.
func (s *BreakService) CalculateDeduction(orgID, userID uint, entry *model.ClockEntry) (*model.BreakDeduction, error) {
	effective, err := s.resolver.ResolveBreakPolicy(orgID, userID)
	if err != nil {
		return nil, err
	}
	if effective.Policy == nil {
		return &model.BreakDeduction{TotalMinutes: 0, Source: "none"}, nil
	}

	if effective.Policy.TrackingMode == model.BreakAutomatic {
		end := time.Now()
		if entry.ClockOut != nil {
			end = *entry.ClockOut
		}
		total := automaticDeduction(effective.Policy.Windows, entry.ClockIn, end)
		return &model.BreakDeduction{TotalMinutes: total, Source: "auto_deduct"}, nil
	}

	entries, err := s.breakRepo.GetEntriesForClockEntry(entry.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	total := 0
	for _, e := range entries {
		if e.DurationMinutes != nil {
			total += *e.DurationMinutes
		}
	}
	return &model.BreakDeduction{TotalMinutes: total, Source: "tracked", Entries: entries}, nil
}

// automaticDeduction sums the overlap of [start,end] with each window
// on the session's starting weekday, capping each window at its
// configured maximum.
func automaticDeduction(windows []model.BreakWindow, start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	weekday := int(start.Weekday())
	startMin := start.Hour()*60 + start.Minute()
	endMin := startMin + int(end.Sub(start).Minutes())

	total := 0
	for _, w := range windows {
		if w.Weekday != weekday {
			continue
		}
		ws, err1 := minutesOfDay(w.WindowStart)
		we, err2 := minutesOfDay(w.WindowEnd)
		if err1 != nil || err2 != nil {
			continue
		}
		overlap := min(endMin, we) - max(startMin, ws)
		if overlap <= 0 {
			continue
		}
		if w.MaxDurationMinutes > 0 && overlap > w.MaxDurationMinutes {
			overlap = w.MaxDurationMinutes
		}
		total += overlap
	}
	return total
}

// ------- policy administration (Admin+) -------

type BreakWindowInput struct {
	Weekday            int    `json:"weekday"`
	WindowStart        string `json:"window_start"`
	WindowEnd          string `json:"window_end"`
	MinDurationMinutes int    `json:"min_duration_minutes"`
	MaxDurationMinutes int    `json:"max_duration_minutes"`
}

type CreateBreakPolicyInput struct {
	TeamID       *uint              `json:"team_id"`
	UserID       *uint              `json:"user_id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	TrackingMode string             `json:"tracking_mode"`
	Windows      []BreakWindowInput `json:"windows"`
}

func (s *BreakService) CreatePolicy(orgID uint, role model.Role, input CreateBreakPolicyInput) (*model.BreakPolicy, error) {
	if role < model.RoleAdmin {
		return nil, apperror.Forbidden("only admins can manage break policies")
	}
	if input.Name == "" {
		return nil, apperror.Validation("policy name is required")
	}
	mode := model.BreakTrackingMode(input.TrackingMode)
	if mode != model.BreakAutomatic && mode != model.BreakExplicit {
		return nil, apperror.Validation("tracking_mode must be automatic or explicit")
	}
	if input.TeamID != nil && input.UserID != nil {
		return nil, apperror.Validation("a policy is scoped to a team or a user, not both")
	}
	if err := s.validateScope(orgID, input.TeamID, input.UserID); err != nil {
		return nil, err
	}

	windows := make([]model.BreakWindow, 0, len(input.Windows))
	for _, w := range input.Windows {
		if err := validateBreakWindow(w); err != nil {
			return nil, err
		}
		windows = append(windows, model.BreakWindow{
			Weekday:            w.Weekday,
			WindowStart:        w.WindowStart,
			WindowEnd:          w.WindowEnd,
			MinDurationMinutes: w.MinDurationMinutes,
			MaxDurationMinutes: w.MaxDurationMinutes,
		})
	}

	policy := &model.BreakPolicy{
		OrganizationID: orgID,
		TeamID:         input.TeamID,
		UserID:         input.UserID,
		Name:           input.Name,
		Description:    input.Description,
		TrackingMode:   mode,
		IsActive:       true,
		Windows:        windows,
	}
	if err := s.breakRepo.CreatePolicy(policy); err != nil {
		return nil, apperror.Internal(err)
	}
	return policy, nil
}

func (s *BreakService) validateScope(orgID uint, teamID, userID *uint) error {
	if teamID != nil {
		if _, err := s.teamRepo.FindByID(orgID, *teamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.Validation("team does not belong to this organization")
			}
			return apperror.Internal(err)
		}
	}
	if userID != nil {
		if _, err := s.userRepo.FindByOrgAndID(orgID, *userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.Validation("user does not belong to this organization")
			}
			return apperror.Internal(err)
		}
	}
	return nil
}

func validateBreakWindow(w BreakWindowInput) error {
	if w.Weekday < 0 || w.Weekday > 6 {
		return apperror.Validation("weekday must be between 0 (Sunday) and 6 (Saturday)")
	}
	start, err := minutesOfDay(w.WindowStart)
	if err != nil {
		return apperror.Validation("window start must be HH:MM")
	}
	end, err := minutesOfDay(w.WindowEnd)
	if err != nil {
		return apperror.Validation("window end must be HH:MM")
	}
	if end < start {
		return apperror.Validation("window end must not precede window start")
	}
	if w.MinDurationMinutes <= 0 {
		return apperror.Validation("minimum duration must be greater than zero")
	}
	if w.MaxDurationMinutes < w.MinDurationMinutes {
		return apperror.Validation("maximum duration must not be less than minimum duration")
	}
	return nil
}

func (s *BreakService) GetPolicy(orgID, policyID uint) (*model.BreakPolicy, error) {
	policy, err := s.breakRepo.FindPolicyByID(orgID, policyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("break policy not found")
		}
		return nil, apperror.Internal(err)
	}
	return policy, nil
}

func (s *BreakService) ListPolicies(orgID uint, p model.Pagination) ([]model.BreakPolicy, int64, error) {
	policies, total, err := s.breakRepo.ListPolicies(orgID, p)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return policies, total, nil
}

type UpdateBreakPolicyInput struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	TrackingMode *string `json:"tracking_mode"`
	IsActive     *bool   `json:"is_active"`
}

func (s *BreakService) UpdatePolicy(orgID, policyID uint, role model.Role, input UpdateBreakPolicyInput) (*model.BreakPolicy, error) {
	if role < model.RoleAdmin {
		return nil, apperror.Forbidden("only admins can manage break policies")
	}
	policy, err := s.GetPolicy(orgID, policyID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		policy.Name = *input.Name
	}
	if input.Description != nil {
		policy.Description = *input.Description
	}
	if input.TrackingMode != nil {
		mode := model.BreakTrackingMode(*input.TrackingMode)
		if mode != model.BreakAutomatic && mode != model.BreakExplicit {
			return nil, apperror.Validation("tracking_mode must be automatic or explicit")
		}
		policy.TrackingMode = mode
	}
	if input.IsActive != nil {
		policy.IsActive = *input.IsActive
	}

	if err := s.breakRepo.UpdatePolicy(policy); err != nil {
		return nil, apperror.Internal(err)
	}
	return policy, nil
}

func (s *BreakService) DeletePolicy(orgID, policyID uint, role model.Role) error {
	if role < model.RoleAdmin {
		return apperror.Forbidden("only admins can manage break policies")
	}
	if err := s.breakRepo.DeletePolicy(orgID, policyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("break policy not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (s *BreakService) AddWindow(orgID, policyID uint, role model.Role, input BreakWindowInput) (*model.BreakWindow, error) {
	if role < model.RoleAdmin {
		return nil, apperror.Forbidden("only admins can manage break windows")
	}
	if _, err := s.GetPolicy(orgID, policyID); err != nil {
		return nil, err
	}
	if err := validateBreakWindow(input); err != nil {
		return nil, err
	}

	window := &model.BreakWindow{
		BreakPolicyID:      policyID,
		Weekday:            input.Weekday,
		WindowStart:        input.WindowStart,
		WindowEnd:          input.WindowEnd,
		MinDurationMinutes: input.MinDurationMinutes,
		MaxDurationMinutes: input.MaxDurationMinutes,
	}
	if err := s.breakRepo.AddWindow(window); err != nil {
		return nil, apperror.Internal(err)
	}
	return window, nil
}

func (s *BreakService) DeleteWindow(orgID, policyID, windowID uint, role model.Role) error {
	if role < model.RoleAdmin {
		return apperror.Forbidden("only admins can manage break windows")
	}
	if _, err := s.GetPolicy(orgID, policyID); err != nil {
		return err
	}
	if err := s.breakRepo.DeleteWindow(policyID, windowID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("window not found for this policy")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (s *BreakService) GetEffectivePolicy(orgID, userID uint) (*model.EffectivePolicy, error) {
	return s.resolver.ResolveBreakPolicy(orgID, userID)
}
