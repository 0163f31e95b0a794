package service

import (
	"errors"

	"workforce-backend/internal/apperror"
	"workforce-backend/internal/model"
	"workforce-backend/internal/repository"

	"gorm.io/gorm"
)

// RestrictionService is the admin surface for clock restrictions.
type RestrictionService struct {
	restrictionRepo repository.RestrictionRepository
	teamRepo        repository.TeamRepository
	userRepo        repository.UserRepository
	resolver        *PolicyResolver
}

func NewRestrictionService(restrictionRepo repository.RestrictionRepository, teamRepo repository.TeamRepository, userRepo repository.UserRepository, resolver *PolicyResolver) *RestrictionService {
	return &RestrictionService{
		restrictionRepo: restrictionRepo,
		teamRepo:        teamRepo,
		userRepo:        userRepo,
		resolver:        resolver,
	}
}

type RestrictionWindowInput struct {
	Action      string `json:"action"`
	Weekday     *int   `json:"weekday"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
}

type CreateRestrictionInput struct {
	TeamID  *uint                    `json:"team_id"`
	UserID  *uint                    `json:"user_id"`
	Mode    string                   `json:"mode"`
	Windows []RestrictionWindowInput `json:"windows"`
}

func (s *RestrictionService) Create(orgID uint, role model.Role, input CreateRestrictionInput) (*model.ClockRestriction, error) {
	if role < model.RoleAdmin {
		return nil, apperror.Forbidden("only admins can manage clock restrictions")
	}
	mode := model.RestrictionMode(input.Mode)
	if mode != model.RestrictionForbid && mode != model.RestrictionFlexible {
		return nil, apperror.Validation("mode must be forbid or flexible")
	}
	if input.TeamID == nil && input.UserID == nil {
		return nil, apperror.Validation("a restriction must target a team or a user")
	}
	if input.TeamID != nil && input.UserID != nil {
		return nil, apperror.Validation("a restriction targets a team or a user, not both")
	}
	if err := s.validateScope(orgID, input.TeamID, input.UserID); err != nil {
		return nil, err
	}

	windows, err := buildRestrictionWindows(input.Windows)
	if err != nil {
		return nil, err
	}

	restriction := &model.ClockRestriction{
		OrganizationID: orgID,
		TeamID:         input.TeamID,
		UserID:         input.UserID,
		Mode:           mode,
		IsActive:       true,
		Windows:        windows,
	}
	if err := s.restrictionRepo.Create(restriction); err != nil {
		return nil, apperror.Internal(err)
	}
	return restriction, nil
}

func buildRestrictionWindows(inputs []RestrictionWindowInput) ([]model.RestrictionWindow, error) {
	windows := make([]model.RestrictionWindow, 0, len(inputs))
	for _, in := range inputs {
		action, ok := model.ParseClockAction(in.Action)
		if !ok {
			return nil, apperror.Validation("window action must be clock_in or clock_out")
		}
		windows = append(windows, model.RestrictionWindow{
			Action:      action,
			Weekday:     in.Weekday,
			WindowStart: in.WindowStart,
			WindowEnd:   in.WindowEnd,
		})
	}
	if err := ValidateWindows(windows); err != nil {
		return nil, err
	}
	return windows, nil
}

func (s *RestrictionService) validateScope(orgID uint, teamID, userID *uint) error {
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

func (s *RestrictionService) Get(orgID, restrictionID uint) (*model.ClockRestriction, error) {
	restriction, err := s.restrictionRepo.FindByID(orgID, restrictionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("restriction not found")
		}
		return nil, apperror.Internal(err)
	}
	return restriction, nil
}

func (s *RestrictionService) List(orgID uint, p model.Pagination) ([]model.ClockRestriction, int64, error) {
	restrictions, total, err := s.restrictionRepo.List(orgID, p)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return restrictions, total, nil
}

type UpdateRestrictionInput struct {
	Mode     *string `json:"mode"`
	IsActive *bool   `json:"is_active"`
	// Windows, when present, replaces the full window set.
	Windows *[]RestrictionWindowInput `json:"windows"`
}

func (s *RestrictionService) Update(orgID, restrictionID uint, role model.Role, input UpdateRestrictionInput) (*model.ClockRestriction, error) {
	if role < model.RoleAdmin {
		return nil, apperror.Forbidden("only admins can manage clock restrictions")
	}
	restriction, err := s.Get(orgID, restrictionID)
	if err != nil {
		return nil, err
	}

	if input.Mode != nil {
		mode := model.RestrictionMode(*input.Mode)
		if mode != model.RestrictionForbid && mode != model.RestrictionFlexible {
			return nil, apperror.Validation("mode must be forbid or flexible")
		}
		restriction.Mode = mode
	}
	if input.IsActive != nil {
		restriction.IsActive = *input.IsActive
	}

	if err := s.restrictionRepo.Update(restriction); err != nil {
		return nil, apperror.Internal(err)
	}

	if input.Windows != nil {
		windows, err := buildRestrictionWindows(*input.Windows)
		if err != nil {
			return nil, err
		}
		if err := s.restrictionRepo.ReplaceWindows(restriction.ID, windows); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	return s.Get(orgID, restrictionID)
}

func (s *RestrictionService) Delete(orgID, restrictionID uint, role model.Role) error {
	if role < model.RoleAdmin {
		return apperror.Forbidden("only admins can manage clock restrictions")
	}
	if err := s.restrictionRepo.Delete(orgID, restrictionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("restriction not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

// Effective returns every restriction currently applying to the user.
func (s *RestrictionService) Effective(orgID, userID uint) ([]model.ClockRestriction, error) {
	restrictions, err := s.resolver.ResolveClockRestrictions(orgID, userID)
	if err != nil {
		return nil, err
	}
	return restrictions, nil
}
