package service

import (
	"workforce-backend/internal/apperror"
	"workforce-backend/internal/model"
	"workforce-backend/internal/repository"
)

// PolicyResolver computes which break policy and which clock
// restrictions actually apply to a user.
//
// Break policy precedence: user-level beats team-level beats the org
// default. When a user belongs to several teams with policies, the most
// recently created team policy wins. Clock restrictions do not use
// precedence at all: every active matching restriction applies at once.
type PolicyResolver struct {
	breakRepo       repository.BreakRepository
	restrictionRepo repository.RestrictionRepository
	teamRepo        repository.TeamRepository
}

func NewPolicyResolver(breakRepo repository.BreakRepository, restrictionRepo repository.RestrictionRepository, teamRepo repository.TeamRepository) *PolicyResolver {
	return &PolicyResolver{
		breakRepo:       breakRepo,
		restrictionRepo: restrictionRepo,
		teamRepo:        teamRepo,
	}
}

// ResolveBreakPolicy returns the single effective policy for the user,
// or a result with a nil policy and source "none" when nothing applies.
func (r *PolicyResolver) ResolveBreakPolicy(orgID, userID uint) (*model.EffectivePolicy, error) {
	userPolicy, err := r.breakRepo.FindUserPolicy(orgID, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if userPolicy != nil {
		return &model.EffectivePolicy{Policy: userPolicy, SourceLevel: "user"}, nil
	}

	teamIDs, err := r.teamRepo.GetUserTeamIDs(orgID, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	teamPolicies, err := r.breakRepo.FindTeamPolicies(orgID, teamIDs)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(teamPolicies) > 0 {
		// Repository orders by created_at desc, so the first entry is
		// the documented tie-break winner.
		return &model.EffectivePolicy{Policy: &teamPolicies[0], SourceLevel: "team"}, nil
	}

	orgPolicy, err := r.breakRepo.FindOrgDefaultPolicy(orgID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if orgPolicy != nil {
		return &model.EffectivePolicy{Policy: orgPolicy, SourceLevel: "organization"}, nil
	}

	return &model.EffectivePolicy{Policy: nil, SourceLevel: "none"}, nil
}

// ResolveClockRestrictions returns all active restrictions matching the
// user's scope. An empty slice means the user can clock freely.
func (r *PolicyResolver) ResolveClockRestrictions(orgID, userID uint) ([]model.ClockRestriction, error) {
	teamIDs, err := r.teamRepo.GetUserTeamIDs(orgID, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	restrictions, err := r.restrictionRepo.FindActiveForUser(orgID, userID, teamIDs)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return restrictions, nil
}
