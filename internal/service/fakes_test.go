package service

import (
	"time"

	"workforce-backend/internal/model"
	"workforce-backend/internal/repository"

	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the storage-layer guarantees
// the real implementations get from unique indexes and conditional
// updates, so service tests exercise the same failure paths.

type fakeTeamRepo struct {
	teams        map[uint]*model.Team
	userTeams    map[uint][]uint // userID -> teamIDs
	managedTeams map[uint][]uint // managerID -> teamIDs
	members      map[uint][]uint // teamID -> userIDs
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		teams:        map[uint]*model.Team{},
		userTeams:    map[uint][]uint{},
		managedTeams: map[uint][]uint{},
		members:      map[uint][]uint{},
	}
}

func (f *fakeTeamRepo) FindByID(orgID, teamID uint) (*model.Team, error) {
	team, ok := f.teams[teamID]
	if !ok || team.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return team, nil
}

func (f *fakeTeamRepo) GetUserTeamIDs(orgID, userID uint) ([]uint, error) {
	return f.userTeams[userID], nil
}

func (f *fakeTeamRepo) GetManagedTeamIDs(orgID, managerID uint) ([]uint, error) {
	return f.managedTeams[managerID], nil
}

func (f *fakeTeamRepo) IsMember(teamID, userID uint) (bool, error) {
	for _, id := range f.members[teamID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeamRepo) ManagesUser(orgID, managerID, userID uint) (bool, error) {
	for _, teamID := range f.managedTeams[managerID] {
		for _, id := range f.members[teamID] {
			if id == userID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeTeamRepo) MemberIDsOfTeams(teamIDs []uint) ([]uint, error) {
	var ids []uint
	for _, teamID := range teamIDs {
		ids = append(ids, f.members[teamID]...)
	}
	return ids, nil
}

type fakeClockRepo struct {
	entries map[uint]*model.ClockEntry
	nextID  uint
}

func newFakeClockRepo() *fakeClockRepo {
	return &fakeClockRepo{entries: map[uint]*model.ClockEntry{}, nextID: 1}
}

func (f *fakeClockRepo) Create(entry *model.ClockEntry) error {
	if entry.OpenUserID != nil {
		for _, e := range f.entries {
			if e.OpenUserID != nil && *e.OpenUserID == *entry.OpenUserID {
				return repository.ErrDuplicateOpen
			}
		}
	}
	entry.ID = f.nextID
	f.nextID++
	copied := *entry
	f.entries[entry.ID] = &copied
	return nil
}

func (f *fakeClockRepo) FindOpenByUser(orgID, userID uint) (*model.ClockEntry, error) {
	for _, e := range f.entries {
		if e.OrganizationID == orgID && e.UserID == userID && e.ClockOut == nil {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeClockRepo) FindByID(orgID, entryID uint) (*model.ClockEntry, error) {
	e, ok := f.entries[entryID]
	if !ok || e.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeClockRepo) Close(orgID, entryID uint, clockOut time.Time, status model.ClockStatusValue, notes string) (*model.ClockEntry, error) {
	e, ok := f.entries[entryID]
	if !ok || e.OrganizationID != orgID || e.ClockOut != nil {
		return nil, repository.ErrStale
	}
	e.ClockOut = &clockOut
	e.OpenUserID = nil
	e.Status = status
	if notes != "" {
		e.Notes = notes
	}
	copied := *e
	return &copied, nil
}

func (f *fakeClockRepo) Approve(orgID, entryID, approverID uint) (*model.ClockEntry, error) {
	e, ok := f.entries[entryID]
	if !ok || e.OrganizationID != orgID || e.Status != model.ClockPending || e.ClockOut == nil {
		return nil, repository.ErrStale
	}
	now := time.Now()
	e.Status = model.ClockApproved
	e.ApprovedBy = &approverID
	e.ApprovedAt = &now
	copied := *e
	return &copied, nil
}

func (f *fakeClockRepo) Reject(orgID, entryID, approverID uint, reason string) (*model.ClockEntry, error) {
	e, ok := f.entries[entryID]
	if !ok || e.OrganizationID != orgID || e.Status != model.ClockPending || e.ClockOut == nil {
		return nil, repository.ErrStale
	}
	now := time.Now()
	e.Status = model.ClockRejected
	e.ApprovedBy = &approverID
	e.ApprovedAt = &now
	e.RejectReason = reason
	copied := *e
	return &copied, nil
}

func (f *fakeClockRepo) ListByUser(orgID, userID uint, filter model.ClockFilter, p model.Pagination) ([]model.ClockEntry, int64, error) {
	var out []model.ClockEntry
	for _, e := range f.entries {
		if e.OrganizationID == orgID && e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeClockRepo) ListPending(orgID uint, userIDs []uint, p model.Pagination) ([]model.ClockEntry, int64, error) {
	var out []model.ClockEntry
	for _, e := range f.entries {
		if e.OrganizationID != orgID || e.Status != model.ClockPending || e.ClockOut == nil {
			continue
		}
		if userIDs != nil {
			found := false
			for _, id := range userIDs {
				if id == e.UserID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

type fakeOrgRepo struct {
	org *model.Organization
}

func (f *fakeOrgRepo) GetByID(id uint) (*model.Organization, error) {
	if f.org == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.org, nil
}

type fakeUserRepo struct {
	users map[uint]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*model.User{}}
}

func (f *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByOrgAndID(orgID, id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok || u.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

type fakeBreakRepo struct {
	userPolicies map[uint]*model.BreakPolicy // userID -> policy
	teamPolicies []model.BreakPolicy
	orgPolicy    *model.BreakPolicy
	policies     map[uint]*model.BreakPolicy
	entries      map[uint]*model.BreakEntry
	nextID       uint
}

func newFakeBreakRepo() *fakeBreakRepo {
	return &fakeBreakRepo{
		userPolicies: map[uint]*model.BreakPolicy{},
		policies:     map[uint]*model.BreakPolicy{},
		entries:      map[uint]*model.BreakEntry{},
		nextID:       1,
	}
}

func (f *fakeBreakRepo) CreatePolicy(policy *model.BreakPolicy) error {
	policy.ID = f.nextID
	f.nextID++
	f.policies[policy.ID] = policy
	return nil
}

func (f *fakeBreakRepo) FindPolicyByID(orgID, policyID uint) (*model.BreakPolicy, error) {
	p, ok := f.policies[policyID]
	if !ok || p.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeBreakRepo) ListPolicies(orgID uint, p model.Pagination) ([]model.BreakPolicy, int64, error) {
	var out []model.BreakPolicy
	for _, policy := range f.policies {
		if policy.OrganizationID == orgID {
			out = append(out, *policy)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeBreakRepo) UpdatePolicy(policy *model.BreakPolicy) error {
	f.policies[policy.ID] = policy
	return nil
}

func (f *fakeBreakRepo) DeletePolicy(orgID, policyID uint) error {
	p, ok := f.policies[policyID]
	if !ok || p.OrganizationID != orgID {
		return gorm.ErrRecordNotFound
	}
	delete(f.policies, policyID)
	return nil
}

func (f *fakeBreakRepo) AddWindow(window *model.BreakWindow) error {
	p, ok := f.policies[window.BreakPolicyID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	window.ID = f.nextID
	f.nextID++
	p.Windows = append(p.Windows, *window)
	return nil
}

func (f *fakeBreakRepo) DeleteWindow(policyID, windowID uint) error {
	p, ok := f.policies[policyID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i, w := range p.Windows {
		if w.ID == windowID {
			p.Windows = append(p.Windows[:i], p.Windows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeBreakRepo) GetWindows(policyID uint) ([]model.BreakWindow, error) {
	p, ok := f.policies[policyID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p.Windows, nil
}

func (f *fakeBreakRepo) FindUserPolicy(orgID, userID uint) (*model.BreakPolicy, error) {
	return f.userPolicies[userID], nil
}

func (f *fakeBreakRepo) FindTeamPolicies(orgID uint, teamIDs []uint) ([]model.BreakPolicy, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	return f.teamPolicies, nil
}

func (f *fakeBreakRepo) FindOrgDefaultPolicy(orgID uint) (*model.BreakPolicy, error) {
	return f.orgPolicy, nil
}

func (f *fakeBreakRepo) CreateEntry(entry *model.BreakEntry) error {
	if entry.OpenClockEntryID != nil {
		for _, e := range f.entries {
			if e.OpenClockEntryID != nil && *e.OpenClockEntryID == *entry.OpenClockEntryID {
				return repository.ErrDuplicateOpen
			}
		}
	}
	entry.ID = f.nextID
	f.nextID++
	copied := *entry
	f.entries[entry.ID] = &copied
	return nil
}

func (f *fakeBreakRepo) FindOpenByUser(orgID, userID uint) (*model.BreakEntry, error) {
	for _, e := range f.entries {
		if e.OrganizationID == orgID && e.UserID == userID && e.BreakEnd == nil {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBreakRepo) CloseEntry(orgID, entryID uint, end time.Time, duration int, notes string) (*model.BreakEntry, error) {
	e, ok := f.entries[entryID]
	if !ok || e.OrganizationID != orgID || e.BreakEnd != nil {
		return nil, repository.ErrStale
	}
	e.BreakEnd = &end
	e.OpenClockEntryID = nil
	e.DurationMinutes = &duration
	if notes != "" {
		e.Notes = notes
	}
	copied := *e
	return &copied, nil
}

func (f *fakeBreakRepo) ListEntries(orgID uint, filter model.BreakEntryFilter, p model.Pagination) ([]model.BreakEntry, int64, error) {
	var out []model.BreakEntry
	for _, e := range f.entries {
		if e.OrganizationID != orgID {
			continue
		}
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBreakRepo) GetEntriesForClockEntry(clockEntryID uint) ([]model.BreakEntry, error) {
	var out []model.BreakEntry
	for _, e := range f.entries {
		if e.ClockEntryID == clockEntryID {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakeRestrictionRepo struct {
	restrictions map[uint]*model.ClockRestriction
	active       []model.ClockRestriction
	nextID       uint
}

func newFakeRestrictionRepo() *fakeRestrictionRepo {
	return &fakeRestrictionRepo{restrictions: map[uint]*model.ClockRestriction{}, nextID: 1}
}

func (f *fakeRestrictionRepo) Create(restriction *model.ClockRestriction) error {
	restriction.ID = f.nextID
	f.nextID++
	f.restrictions[restriction.ID] = restriction
	return nil
}

func (f *fakeRestrictionRepo) FindByID(orgID, restrictionID uint) (*model.ClockRestriction, error) {
	r, ok := f.restrictions[restrictionID]
	if !ok || r.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeRestrictionRepo) List(orgID uint, p model.Pagination) ([]model.ClockRestriction, int64, error) {
	var out []model.ClockRestriction
	for _, r := range f.restrictions {
		if r.OrganizationID == orgID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRestrictionRepo) Update(restriction *model.ClockRestriction) error {
	f.restrictions[restriction.ID] = restriction
	return nil
}

func (f *fakeRestrictionRepo) Delete(orgID, restrictionID uint) error {
	r, ok := f.restrictions[restrictionID]
	if !ok || r.OrganizationID != orgID {
		return gorm.ErrRecordNotFound
	}
	delete(f.restrictions, restrictionID)
	return nil
}

func (f *fakeRestrictionRepo) ReplaceWindows(restrictionID uint, windows []model.RestrictionWindow) error {
	r, ok := f.restrictions[restrictionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Windows = windows
	return nil
}

func (f *fakeRestrictionRepo) FindActiveForUser(orgID, userID uint, teamIDs []uint) ([]model.ClockRestriction, error) {
	return f.active, nil
}

type fakeOverrideRepo struct {
	requests map[uint]*model.ClockOverrideRequest
	clocks   *fakeClockRepo
	// executions counts how many times an approval actually ran a
	// clock action.
	executions int
	nextID     uint
}

func newFakeOverrideRepo(clocks *fakeClockRepo) *fakeOverrideRepo {
	return &fakeOverrideRepo{
		requests: map[uint]*model.ClockOverrideRequest{},
		clocks:   clocks,
		nextID:   1,
	}
}

func (f *fakeOverrideRepo) Create(request *model.ClockOverrideRequest) error {
	request.ID = f.nextID
	f.nextID++
	copied := *request
	f.requests[request.ID] = &copied
	return nil
}

func (f *fakeOverrideRepo) FindByID(orgID, requestID uint) (*model.ClockOverrideRequest, error) {
	r, ok := f.requests[requestID]
	if !ok || r.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeOverrideRepo) FindPendingByUserAction(orgID, userID uint, action model.ClockAction) (*model.ClockOverrideRequest, error) {
	for _, r := range f.requests {
		if r.OrganizationID == orgID && r.UserID == userID &&
			r.RequestedAction == action && r.Status == model.OverridePending {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeOverrideRepo) ApproveAndExecute(orgID, requestID, reviewerID uint, notes string, requireApproval bool) (*model.ClockOverrideRequest, *model.ClockEntry, error) {
	r, ok := f.requests[requestID]
	if !ok || r.OrganizationID != orgID || r.Status != model.OverridePending {
		return nil, nil, repository.ErrStale
	}

	now := time.Now()
	var entry *model.ClockEntry
	switch r.RequestedAction {
	case model.ActionClockIn:
		entry = &model.ClockEntry{
			OrganizationID: orgID,
			UserID:         r.UserID,
			OpenUserID:     &r.UserID,
			ClockIn:        now,
			Status:         model.ClockPending,
		}
		if err := f.clocks.Create(entry); err != nil {
			return nil, nil, err
		}
	case model.ActionClockOut:
		open, _ := f.clocks.FindOpenByUser(orgID, r.UserID)
		if open == nil {
			return nil, nil, repository.ErrNoOpenSession
		}
		status := model.ClockApproved
		if requireApproval {
			status = model.ClockPending
		}
		closed, err := f.clocks.Close(orgID, open.ID, now, status, "")
		if err != nil {
			return nil, nil, err
		}
		entry = closed
	}
	f.executions++

	r.Status = model.OverrideApproved
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &now
	r.ReviewNotes = notes
	r.ResultingClockEntryID = &entry.ID
	copied := *r
	return &copied, entry, nil
}

func (f *fakeOverrideRepo) Reject(orgID, requestID, reviewerID uint, notes string) (*model.ClockOverrideRequest, error) {
	r, ok := f.requests[requestID]
	if !ok || r.OrganizationID != orgID || r.Status != model.OverridePending {
		return nil, repository.ErrStale
	}
	now := time.Now()
	r.Status = model.OverrideRejected
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &now
	r.ReviewNotes = notes
	copied := *r
	return &copied, nil
}

func (f *fakeOverrideRepo) ListPending(orgID uint, userIDs []uint, p model.Pagination) ([]model.ClockOverrideRequest, int64, error) {
	var out []model.ClockOverrideRequest
	for _, r := range f.requests {
		if r.OrganizationID != orgID || r.Status != model.OverridePending {
			continue
		}
		if userIDs != nil {
			found := false
			for _, id := range userIDs {
				if id == r.UserID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOverrideRepo) List(orgID uint, filter model.OverrideFilter, p model.Pagination) ([]model.ClockOverrideRequest, int64, error) {
	var out []model.ClockOverrideRequest
	for _, r := range f.requests {
		if r.OrganizationID != orgID {
			continue
		}
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	entries   []model.EntryTransition
	overrides []model.OverrideTransition
}

func (n *recordingNotifier) EntryReviewed(t model.EntryTransition) {
	n.entries = append(n.entries, t)
}

func (n *recordingNotifier) OverrideResolved(t model.OverrideTransition) {
	n.overrides = append(n.overrides, t)
}
