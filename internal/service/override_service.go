package service

import (
	"errors"

	"workforce-backend/internal/apperror"
	"workforce-backend/internal/model"
	"workforce-backend/internal/repository"

	"gorm.io/gorm"
)

// OverrideService runs the request/review workflow for clock actions
// blocked by flexible restrictions.
type OverrideService struct {
	overrideRepo repository.OverrideRepository
	teamRepo     repository.TeamRepository
	orgRepo      repository.OrganizationRepository
	evaluator    *RestrictionEvaluator
	notifier     Notifier
}

func NewOverrideService(overrideRepo repository.OverrideRepository, teamRepo repository.TeamRepository, orgRepo repository.OrganizationRepository, evaluator *RestrictionEvaluator, notifier Notifier) *OverrideService {
	return &OverrideService{
		overrideRepo: overrideRepo,
		teamRepo:     teamRepo,
		orgRepo:      orgRepo,
		evaluator:    evaluator,
		notifier:     notifier,
	}
}

type CreateOverrideInput struct {
	Action string `json:"requested_action"`
	Reason string `json:"reason"`
}

// Create files an override request. The action must currently be
// denied, and denied only by flexible restrictions.
func (s *OverrideService) Create(orgID, userID uint, input CreateOverrideInput) (*model.ClockOverrideRequest, error) {
	action, ok := model.ParseClockAction(input.Action)
	if !ok {
		return nil, apperror.Validation("requested_action must be clock_in or clock_out")
	}
	if input.Reason == "" {
		return nil, apperror.Validation("a justification is required to request an override")
	}

	result, err := s.evaluator.ValidateClockAction(orgID, userID, action)
	if err != nil {
		return nil, err
	}
	if result.Allowed {
		return nil, apperror.Validation("this action is not currently restricted, no override is needed")
	}
	if !result.CanRequestOverride {
		return nil, apperror.Validation("this restriction cannot be overridden")
	}

	existing, err := s.overrideRepo.FindPendingByUserAction(orgID, userID, action)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("you already have a pending override request for this action")
	}

	request := &model.ClockOverrideRequest{
		OrganizationID:  orgID,
		UserID:          userID,
		RequestedAction: action,
		Reason:          input.Reason,
		Status:          model.OverridePending,
	}
	if err := s.overrideRepo.Create(request); err != nil {
		return nil, apperror.Internal(err)
	}
	return request, nil
}

type ReviewOverrideInput struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

// Review resolves a pending request. Approval executes the requested
// clock action in the same transaction that flips the status, so a
// request can never be executed twice.
func (s *OverrideService) Review(orgID, reviewerID uint, role model.Role, requestID uint, input ReviewOverrideInput) (*model.ClockOverrideRequest, error) {
	if role < model.RoleManager {
		return nil, apperror.Forbidden("only managers can review override requests")
	}

	request, err := s.overrideRepo.FindByID(orgID, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("override request not found")
		}
		return nil, apperror.Internal(err)
	}
	if request.Status != model.OverridePending {
		return nil, apperror.Conflict("this request has already been reviewed")
	}
	if role == model.RoleManager {
		manages, err := s.teamRepo.ManagesUser(orgID, reviewerID, request.UserID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if !manages {
			return nil, apperror.Forbidden("you can only review requests from your own team members")
		}
	}

	previous := *request

	var updated *model.ClockOverrideRequest
	var entry *model.ClockEntry
	if input.Approve {
		org, err := s.orgRepo.GetByID(orgID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		updated, entry, err = s.overrideRepo.ApproveAndExecute(orgID, requestID, reviewerID, input.Notes, org.RequireClockApproval)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrStale):
				return nil, apperror.Conflict("this request has already been reviewed")
			case errors.Is(err, repository.ErrDuplicateOpen):
				return nil, apperror.Conflict("the employee is already clocked in, approval would open a second session")
			case errors.Is(err, repository.ErrNoOpenSession):
				return nil, apperror.Conflict("the employee has no open session to clock out of")
			default:
				return nil, apperror.Internal(err)
			}
		}
	} else {
		updated, err = s.overrideRepo.Reject(orgID, requestID, reviewerID, input.Notes)
		if err != nil {
			if errors.Is(err, repository.ErrStale) {
				return nil, apperror.Conflict("this request has already been reviewed")
			}
			return nil, apperror.Internal(err)
		}
	}

	s.notifier.OverrideResolved(model.OverrideTransition{
		Previous: previous,
		Current:  *updated,
		Entry:    entry,
	})
	return updated, nil
}

// ListPending returns reviewable requests for the caller. Managers see
// only requests from members of teams they manage.
func (s *OverrideService) ListPending(orgID, reviewerID uint, role model.Role, p model.Pagination) (*model.PaginatedOverrideRequests, error) {
	if role < model.RoleManager {
		return nil, apperror.Forbidden("only managers can view pending override requests")
	}

	var userIDs []uint
	if role == model.RoleManager {
		teamIDs, err := s.teamRepo.GetManagedTeamIDs(orgID, reviewerID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		userIDs, err = s.teamRepo.MemberIDsOfTeams(teamIDs)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if len(userIDs) == 0 {
			return &model.PaginatedOverrideRequests{Data: []model.ClockOverrideRequest{}, Page: p.Page, PerPage: p.PerPage}, nil
		}
	}

	requests, total, err := s.overrideRepo.ListPending(orgID, userIDs, p)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &model.PaginatedOverrideRequests{
		Data:       requests,
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: model.TotalPages(total, p.PerPage),
	}, nil
}

// ListUserRequests returns the caller's own override history.
func (s *OverrideService) ListUserRequests(orgID, userID uint, filter model.OverrideFilter, p model.Pagination) (*model.PaginatedOverrideRequests, error) {
	filter.UserID = &userID
	requests, total, err := s.overrideRepo.List(orgID, filter, p)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &model.PaginatedOverrideRequests{
		Data:       requests,
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: model.TotalPages(total, p.PerPage),
	}, nil
}
