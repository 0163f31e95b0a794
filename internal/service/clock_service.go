package service

import (
	"errors"
	"time"

	"workforce-backend/internal/apperror"
	"workforce-backend/internal/model"
	"workforce-backend/internal/repository"

	"gorm.io/gorm"
)

// ClockService owns the clock-in/out session lifecycle and the review
// of completed entries.
type ClockService struct {
	clockRepo repository.ClockRepository
	teamRepo  repository.TeamRepository
	orgRepo   repository.OrganizationRepository
	evaluator *RestrictionEvaluator
	notifier  Notifier
}

func NewClockService(clockRepo repository.ClockRepository, teamRepo repository.TeamRepository, orgRepo repository.OrganizationRepository, evaluator *RestrictionEvaluator, notifier Notifier) *ClockService {
	return &ClockService{
		clockRepo: clockRepo,
		teamRepo:  teamRepo,
		orgRepo:   orgRepo,
		evaluator: evaluator,
		notifier:  notifier,
	}
}

// ClockIn opens a new session. The open-row unique index is the
// authority on the one-open-session invariant; the pre-check only
// produces a friendlier message for the common case.
func (s *ClockService) ClockIn(orgID, userID uint, notes string) (*model.ClockEntry, error) {
	open, err := s.clockRepo.FindOpenByUser(orgID, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if open != nil {
		return nil, apperror.Conflict("you are already clocked in, clock out first")
	}

	if err := s.gate(orgID, userID, model.ActionClockIn); err != nil {
		return nil, err
	}

	entry := &model.ClockEntry{
		OrganizationID: orgID,
		UserID:         userID,
		OpenUserID:     &userID,
		ClockIn:        time.Now(),
		Status:         model.ClockPending,
		Notes:          notes,
	}
	if err := s.clockRepo.Create(entry); err != nil {
		if errors.Is(err, repository.ErrDuplicateOpen) {
			return nil, apperror.Conflict("you are already clocked in, clock out first")
		}
		return nil, apperror.Internal(err)
	}
	return entry, nil
}

// ClockOut closes the open session. The final status depends on whether
// the organization requires manager approval of completed entries.
func (s *ClockService) ClockOut(orgID, userID uint, notes string) (*model.ClockEntry, error) {
	open, err := s.clockRepo.FindOpenByUser(orgID, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if open == nil {
		return nil, apperror.NotFound("you are not clocked in")
	}

	if err := s.gate(orgID, userID, model.ActionClockOut); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.GetByID(orgID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	status := model.ClockApproved
	if org.RequireClockApproval {
		status = model.ClockPending
	}

	entry, err := s.clockRepo.Close(orgID, open.ID, time.Now(), status, notes)
	if err != nil {
		if errors.Is(err, repository.ErrStale) {
			return nil, apperror.Conflict("session was already closed")
		}
		return nil, apperror.Internal(err)
	}
	return entry, nil
}

func (s *ClockService) gate(orgID, userID uint, action model.ClockAction) error {
	validation, err := s.evaluator.ValidateClockAction(orgID, userID, action)
	if err != nil {
		return err
	}
	if validation.Allowed {
		return nil
	}
	if validation.CanRequestOverride {
		return apperror.Validation(validation.Reason + "; you can request an override with justification")
	}
	return apperror.Validation(validation.Reason)
}

func (s *ClockService) GetCurrentStatus(orgID, userID uint) (*model.ClockStatus, error) {
	entry, err := s.clockRepo.FindOpenByUser(orgID, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	status := &model.ClockStatus{IsClockedIn: entry != nil, CurrentEntry: entry}
	if entry != nil {
		elapsed := int64(time.Since(entry.ClockIn).Minutes())
		status.ElapsedMinutes = &elapsed
	}
	return status, nil
}

// GetEntry returns one of the caller's own entries. Entries belonging
// to other users come back as not found.
func (s *ClockService) GetEntry(orgID, userID, entryID uint) (*model.ClockEntry, error) {
	entry, err := s.clockRepo.FindByID(orgID, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("clock entry not found")
		}
		return nil, apperror.Internal(err)
	}
	if entry.UserID != userID {
		return nil, apperror.NotFound("clock entry not found")
	}
	return entry, nil
}

func (s *ClockService) GetHistory(orgID, userID uint, filter model.ClockFilter, p model.Pagination) (*model.PaginatedClockEntries, error) {
	entries, total, err := s.clockRepo.ListByUser(orgID, userID, filter, p)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &model.PaginatedClockEntries{
		Data:       entries,
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: model.TotalPages(total, p.PerPage),
	}, nil
}

// ApproveEntry transitions a completed Pending entry to Approved. The
// transition is a conditional update, so of two concurrent reviewers
// exactly one wins and the other gets a Conflict.
func (s *ClockService) ApproveEntry(orgID, entryID, approverID uint, role model.Role) (*model.EntryTransition, error) {
	previous, err := s.reviewable(orgID, entryID, approverID, role)
	if err != nil {
		return nil, err
	}

	entry, err := s.clockRepo.Approve(orgID, entryID, approverID)
	if err != nil {
		if errors.Is(err, repository.ErrStale) {
			return nil, apperror.Conflict("entry has already been reviewed")
		}
		return nil, apperror.Internal(err)
	}

	transition := &model.EntryTransition{Previous: *previous, Current: *entry}
	s.notifier.EntryReviewed(*transition)
	return transition, nil
}

func (s *ClockService) RejectEntry(orgID, entryID, approverID uint, role model.Role, reason string) (*model.EntryTransition, error) {
	previous, err := s.reviewable(orgID, entryID, approverID, role)
	if err != nil {
		return nil, err
	}

	entry, err := s.clockRepo.Reject(orgID, entryID, approverID, reason)
	if err != nil {
		if errors.Is(err, repository.ErrStale) {
			return nil, apperror.Conflict("entry has already been reviewed")
		}
		return nil, apperror.Internal(err)
	}

	transition := &model.EntryTransition{Previous: *previous, Current: *entry}
	s.notifier.EntryReviewed(*transition)
	return transition, nil
}

// reviewable loads the entry and checks the reviewer may decide on it.
// Cross-tenant lookups come back NotFound, never Forbidden.
func (s *ClockService) reviewable(orgID, entryID, reviewerID uint, role model.Role) (*model.ClockEntry, error) {
	if role < model.RoleManager {
		return nil, apperror.Forbidden("only managers can review clock entries")
	}

	entry, err := s.clockRepo.FindByID(orgID, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("clock entry not found")
		}
		return nil, apperror.Internal(err)
	}
	if entry.ClockOut == nil {
		return nil, apperror.Validation("cannot review an open clock entry")
	}
	if entry.Status != model.ClockPending {
		return nil, apperror.Conflict("entry has already been reviewed")
	}

	if role == model.RoleManager {
		manages, err := s.teamRepo.ManagesUser(orgID, reviewerID, entry.UserID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if !manages {
			return nil, apperror.Forbidden("you can only review entries for members of your teams")
		}
	}
	return entry, nil
}

// ListPending returns the approval queue scoped by role: managers see
// their managed teams, admins the whole organization, superadmins any
// organization named in the filter.
func (s *ClockService) ListPending(callerOrgID, approverID uint, role model.Role, filter model.PendingClockFilter, p model.Pagination) (*model.PaginatedClockEntries, error) {
	if role < model.RoleManager {
		return nil, apperror.Forbidden("only managers can view pending entries")
	}

	orgID := callerOrgID
	if role == model.RoleSuperAdmin && filter.OrganizationID != nil {
		orgID = *filter.OrganizationID
	}

	userIDs, err := s.scopeUserIDs(orgID, approverID, role, filter.TeamID)
	if err != nil {
		return nil, err
	}
	if userIDs != nil && len(userIDs) == 0 {
		return &model.PaginatedClockEntries{Data: []model.ClockEntry{}, Page: p.Page, PerPage: p.PerPage}, nil
	}

	entries, total, err := s.clockRepo.ListPending(orgID, userIDs, p)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &model.PaginatedClockEntries{
		Data:       entries,
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: model.TotalPages(total, p.PerPage),
	}, nil
}

// scopeUserIDs resolves the set of user ids a reviewer may see. A nil
// slice means no restriction (whole organization).
func (s *ClockService) scopeUserIDs(orgID, reviewerID uint, role model.Role, teamID *uint) ([]uint, error) {
	if role >= model.RoleAdmin {
		if teamID == nil {
			return nil, nil
		}
		ids, err := s.teamRepo.MemberIDsOfTeams([]uint{*teamID})
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if ids == nil {
			ids = []uint{}
		}
		return ids, nil
	}

	managed, err := s.teamRepo.GetManagedTeamIDs(orgID, reviewerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if teamID != nil {
		found := false
		for _, id := range managed {
			if id == *teamID {
				found = true
				break
			}
		}
		if !found {
			return nil, apperror.Forbidden("you do not manage this team")
		}
		managed = []uint{*teamID}
	}
	ids, err := s.teamRepo.MemberIDsOfTeams(managed)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}
