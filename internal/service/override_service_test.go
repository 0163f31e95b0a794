package service

import (
	"testing"
	"time"

	"workforce-backend/internal/apperror"
	"workforce-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type overrideFixture struct {
	overrides    *fakeOverrideRepo
	clocks       *fakeClockRepo
	teams        *fakeTeamRepo
	restrictions *fakeRestrictionRepo
	notifier     *recordingNotifier
	service      *OverrideService
}

// newOverrideFixture wires a flexible restriction denying clock_in at
// the fixed evaluation time (Monday 20:00).
func newOverrideFixture(org *model.Organization) *overrideFixture {
	clocks := newFakeClockRepo()
	overrides := newFakeOverrideRepo(clocks)
	teams := newFakeTeamRepo()
	restrictions := newFakeRestrictionRepo()
	restrictions.active = []model.ClockRestriction{{
		Mode: model.RestrictionFlexible,
		Windows: []model.RestrictionWindow{
			{Action: model.ActionClockIn, WindowStart: "09:00", WindowEnd: "18:00"},
		},
	}}

	resolver := NewPolicyResolver(newFakeBreakRepo(), restrictions, teams)
	evaluator := NewRestrictionEvaluator(resolver)
	evaluator.now = func() time.Time { return time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC) }

	notifier := &recordingNotifier{}
	return &overrideFixture{
		overrides:    overrides,
		clocks:       clocks,
		teams:        teams,
		restrictions: restrictions,
		notifier:     notifier,
		service:      NewOverrideService(overrides, teams, &fakeOrgRepo{org: org}, evaluator, notifier),
	}
}

func TestCreateOverrideRequest(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})

	request, err := f.service.Create(1, 7, CreateOverrideInput{Action: "clock_in", Reason: "train delay"})
	require.NoError(t, err)
	assert.Equal(t, model.OverridePending, request.Status)
	assert.Equal(t, model.ActionClockIn, request.RequestedAction)
}

func TestCreateOverrideRequiresReason(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})

	_, err := f.service.Create(1, 7, CreateOverrideInput{Action: "clock_in"})
	assertKind(t, err, apperror.KindValidation)
}

func TestCreateOverrideInvalidAction(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})

	_, err := f.service.Create(1, 7, CreateOverrideInput{Action: "teleport", Reason: "why not"})
	assertKind(t, err, apperror.KindValidation)
}

func TestCreateOverrideWhenNotRestricted(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})

	// clock_out has no windows, so it is not restricted.
	_, err := f.service.Create(1, 7, CreateOverrideInput{Action: "clock_out", Reason: "forgot"})
	assertKind(t, err, apperror.KindValidation)
}

func TestCreateOverrideAgainstForbidRestriction(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})
	f.restrictions.active[0].Mode = model.RestrictionForbid

	_, err := f.service.Create(1, 7, CreateOverrideInput{Action: "clock_in", Reason: "please"})
	assertKind(t, err, apperror.KindValidation)
}

func TestCreateDuplicatePendingOverrideConflicts(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})

	_, err := f.service.Create(1, 7, CreateOverrideInput{Action: "clock_in", Reason: "train delay"})
	require.NoError(t, err)

	_, err = f.service.Create(1, 7, CreateOverrideInput{Action: "clock_in", Reason: "still delayed"})
	assertKind(t, err, apperror.KindConflict)
}

func pendingRequest(t *testing.T, f *overrideFixture) *model.ClockOverrideRequest {
	t.Helper()
	request, err := f.service.Create(1, 7, CreateOverrideInput{Action: "clock_in", Reason: "train delay"})
	require.NoError(t, err)

	// Manager 2 manages team 10 with user 7.
	f.teams.managedTeams[2] = []uint{10}
	f.teams.members[10] = []uint{7}
	return request
}

func TestApproveOverrideExecutesClockIn(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})
	request := pendingRequest(t, f)

	reviewed, err := f.service.Review(1, 2, model.RoleManager, request.ID, ReviewOverrideInput{Approve: true, Notes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, model.OverrideApproved, reviewed.Status)
	require.NotNil(t, reviewed.ResultingClockEntryID)

	// The approval opened a session for the employee.
	open, err := f.clocks.FindOpenByUser(1, 7)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, *reviewed.ResultingClockEntryID, open.ID)
	assert.Equal(t, 1, f.overrides.executions)
	assert.Len(t, f.notifier.overrides, 1)
}

func TestApproveOverrideExactlyOnce(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})
	request := pendingRequest(t, f)

	_, err := f.service.Review(1, 2, model.RoleManager, request.ID, ReviewOverrideInput{Approve: true})
	require.NoError(t, err)

	_, err = f.service.Review(1, 2, model.RoleManager, request.ID, ReviewOverrideInput{Approve: true})
	assertKind(t, err, apperror.KindConflict)
	assert.Equal(t, 1, f.overrides.executions)
}

func TestApproveClockInWhileAlreadyClockedIn(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})
	request := pendingRequest(t, f)

	// The employee clocked in some other way before the review.
	userID := uint(7)
	require.NoError(t, f.clocks.Create(&model.ClockEntry{
		OrganizationID: 1, UserID: 7, OpenUserID: &userID, ClockIn: time.Now(),
	}))

	_, err := f.service.Review(1, 2, model.RoleManager, request.ID, ReviewOverrideInput{Approve: true})
	assertKind(t, err, apperror.KindConflict)
}

func TestApproveClockOutOverride(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})
	// clock_out denied too so the request can exist.
	f.restrictions.active[0].Windows = append(f.restrictions.active[0].Windows,
		model.RestrictionWindow{Action: model.ActionClockOut, WindowStart: "09:00", WindowEnd: "18:00"})

	userID := uint(7)
	require.NoError(t, f.clocks.Create(&model.ClockEntry{
		OrganizationID: 1, UserID: 7, OpenUserID: &userID,
		ClockIn: time.Now().Add(-4 * time.Hour), Status: model.ClockPending,
	}))

	request, err := f.service.Create(1, 7, CreateOverrideInput{Action: "clock_out", Reason: "stuck on site"})
	require.NoError(t, err)
	f.teams.managedTeams[2] = []uint{10}
	f.teams.members[10] = []uint{7}

	reviewed, err := f.service.Review(1, 2, model.RoleManager, request.ID, ReviewOverrideInput{Approve: true})
	require.NoError(t, err)
	require.NotNil(t, reviewed.ResultingClockEntryID)

	open, err := f.clocks.FindOpenByUser(1, 7)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestApproveClockOutWithoutOpenSession(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})
	f.restrictions.active[0].Windows = append(f.restrictions.active[0].Windows,
		model.RestrictionWindow{Action: model.ActionClockOut, WindowStart: "09:00", WindowEnd: "18:00"})

	// Open a session only long enough to create the request, then
	// close it before the review.
	userID := uint(7)
	session := &model.ClockEntry{OrganizationID: 1, UserID: 7, OpenUserID: &userID, ClockIn: time.Now()}
	require.NoError(t, f.clocks.Create(session))
	request, err := f.service.Create(1, 7, CreateOverrideInput{Action: "clock_out", Reason: "stuck"})
	require.NoError(t, err)
	_, err = f.clocks.Close(1, session.ID, time.Now(), model.ClockApproved, "")
	require.NoError(t, err)

	f.teams.managedTeams[2] = []uint{10}
	f.teams.members[10] = []uint{7}

	_, err = f.service.Review(1, 2, model.RoleManager, request.ID, ReviewOverrideInput{Approve: true})
	assertKind(t, err, apperror.KindConflict)
}

func TestRejectOverride(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})
	request := pendingRequest(t, f)

	reviewed, err := f.service.Review(1, 2, model.RoleManager, request.ID, ReviewOverrideInput{Approve: false, Notes: "no"})
	require.NoError(t, err)
	assert.Equal(t, model.OverrideRejected, reviewed.Status)
	assert.Nil(t, reviewed.ResultingClockEntryID)
	assert.Equal(t, 0, f.overrides.executions)

	open, err := f.clocks.FindOpenByUser(1, 7)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestReviewRequiresManager(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})
	request := pendingRequest(t, f)

	_, err := f.service.Review(1, 7, model.RoleEmployee, request.ID, ReviewOverrideInput{Approve: true})
	assertKind(t, err, apperror.KindForbidden)
}

func TestManagerCannotReviewOutsideTeamsOverride(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})
	request := pendingRequest(t, f)

	_, err := f.service.Review(1, 3, model.RoleManager, request.ID, ReviewOverrideInput{Approve: true})
	assertKind(t, err, apperror.KindForbidden)
}

func TestListPendingOverridesManagerScope(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})
	pendingRequest(t, f)
	p := model.NormalizePagination(1, 20)

	page, err := f.service.ListPending(1, 2, model.RoleManager, p)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	// A manager with no teams sees an empty queue.
	page, err = f.service.ListPending(1, 3, model.RoleManager, p)
	require.NoError(t, err)
	assert.Empty(t, page.Data)

	_, err = f.service.ListPending(1, 7, model.RoleEmployee, p)
	assertKind(t, err, apperror.KindForbidden)
}

func TestListUserRequests(t *testing.T) {
	f := newOverrideFixture(&model.Organization{})
	pendingRequest(t, f)

	page, err := f.service.ListUserRequests(1, 7, model.OverrideFilter{}, model.NormalizePagination(1, 20))
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	page, err = f.service.ListUserRequests(1, 8, model.OverrideFilter{}, model.NormalizePagination(1, 20))
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}
