package service

import (
	"testing"
	"time"

	"workforce-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluatorWith(restrictions []model.ClockRestriction, now time.Time) *RestrictionEvaluator {
	restrictionRepo := newFakeRestrictionRepo()
	restrictionRepo.active = restrictions
	resolver := NewPolicyResolver(newFakeBreakRepo(), restrictionRepo, newFakeTeamRepo())
	evaluator := NewRestrictionEvaluator(resolver)
	evaluator.now = func() time.Time { return now }
	return evaluator
}

// 2026-03-02 is a Monday.
func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func window(action model.ClockAction, start, end string) model.RestrictionWindow {
	return model.RestrictionWindow{Action: action, WindowStart: start, WindowEnd: end}
}

func TestValidateClockActionNoRestrictions(t *testing.T) {
	evaluator := evaluatorWith(nil, at(20, 0))

	result, err := evaluator.ValidateClockAction(1, 1, model.ActionClockIn)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.False(t, result.CanRequestOverride)
}

func TestValidateClockActionOutsideForbidWindow(t *testing.T) {
	restrictions := []model.ClockRestriction{{
		Mode:    model.RestrictionForbid,
		Windows: []model.RestrictionWindow{window(model.ActionClockIn, "09:00", "18:00")},
	}}
	evaluator := evaluatorWith(restrictions, at(20, 0))

	result, err := evaluator.ValidateClockAction(1, 1, model.ActionClockIn)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.False(t, result.CanRequestOverride)
	assert.Equal(t, "Clock in is only allowed between 09:00 and 18:00", result.Reason)
}

func TestValidateClockActionOutsideFlexibleWindow(t *testing.T) {
	restrictions := []model.ClockRestriction{{
		Mode:    model.RestrictionFlexible,
		Windows: []model.RestrictionWindow{window(model.ActionClockIn, "09:00", "18:00")},
	}}
	evaluator := evaluatorWith(restrictions, at(20, 0))

	result, err := evaluator.ValidateClockAction(1, 1, model.ActionClockIn)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.True(t, result.CanRequestOverride)
}

func TestValidateClockActionWindowEdgesInclusive(t *testing.T) {
	restrictions := []model.ClockRestriction{{
		Mode:    model.RestrictionForbid,
		Windows: []model.RestrictionWindow{window(model.ActionClockIn, "09:00", "18:00")},
	}}

	for _, tc := range []struct {
		name    string
		now     time.Time
		allowed bool
	}{
		{"at start", at(9, 0), true},
		{"at end", at(18, 0), true},
		{"minute before start", at(8, 59), false},
		{"minute after end", at(18, 1), false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			evaluator := evaluatorWith(restrictions, tc.now)
			result, err := evaluator.ValidateClockAction(1, 1, model.ActionClockIn)
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, result.Allowed)
		})
	}
}

func TestValidateClockActionOtherActionUnconstrained(t *testing.T) {
	// Windows exist only for clock_in; clock_out stays free.
	restrictions := []model.ClockRestriction{{
		Mode:    model.RestrictionForbid,
		Windows: []model.RestrictionWindow{window(model.ActionClockIn, "09:00", "18:00")},
	}}
	evaluator := evaluatorWith(restrictions, at(20, 0))

	result, err := evaluator.ValidateClockAction(1, 1, model.ActionClockOut)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestValidateClockActionWeekdayScoping(t *testing.T) {
	monday := 1
	tuesday := 2
	restrictions := []model.ClockRestriction{{
		Mode: model.RestrictionForbid,
		Windows: []model.RestrictionWindow{
			{Action: model.ActionClockIn, Weekday: &tuesday, WindowStart: "09:00", WindowEnd: "18:00"},
		},
	}}

	// Monday 10:00: the only window is Tuesday's, so nothing permits
	// the action today.
	evaluator := evaluatorWith(restrictions, at(10, 0))
	result, err := evaluator.ValidateClockAction(1, 1, model.ActionClockIn)
	require.NoError(t, err)
	assert.False(t, result.Allowed)

	restrictions[0].Windows = append(restrictions[0].Windows,
		model.RestrictionWindow{Action: model.ActionClockIn, Weekday: &monday, WindowStart: "09:00", WindowEnd: "18:00"})
	evaluator = evaluatorWith(restrictions, at(10, 0))
	result, err = evaluator.ValidateClockAction(1, 1, model.ActionClockIn)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestValidateClockActionMostRestrictiveWins(t *testing.T) {
	restrictions := []model.ClockRestriction{
		{
			Mode:    model.RestrictionFlexible,
			Windows: []model.RestrictionWindow{window(model.ActionClockIn, "09:00", "18:00")},
		},
		{
			Mode:    model.RestrictionForbid,
			Windows: []model.RestrictionWindow{window(model.ActionClockIn, "10:00", "11:00")},
		},
	}
	evaluator := evaluatorWith(restrictions, at(20, 0))

	result, err := evaluator.ValidateClockAction(1, 1, model.ActionClockIn)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	// One forbid denial closes the override path even though a
	// flexible restriction also denies.
	assert.False(t, result.CanRequestOverride)
	assert.Equal(t, "Clock in is only allowed between 10:00 and 11:00", result.Reason)
}

func TestValidateClockActionOneDenialDenies(t *testing.T) {
	// The permissive restriction allows 20:00 but the second one does
	// not; the action is denied.
	restrictions := []model.ClockRestriction{
		{
			Mode:    model.RestrictionFlexible,
			Windows: []model.RestrictionWindow{window(model.ActionClockIn, "00:00", "23:59")},
		},
		{
			Mode:    model.RestrictionFlexible,
			Windows: []model.RestrictionWindow{window(model.ActionClockIn, "09:00", "18:00")},
		},
	}
	evaluator := evaluatorWith(restrictions, at(20, 0))

	result, err := evaluator.ValidateClockAction(1, 1, model.ActionClockIn)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.True(t, result.CanRequestOverride)
}

func TestValidateWindows(t *testing.T) {
	valid := []model.RestrictionWindow{window(model.ActionClockIn, "09:00", "18:00")}
	assert.NoError(t, ValidateWindows(valid))

	badWeekday := 7
	for name, windows := range map[string][]model.RestrictionWindow{
		"bad action":       {{Action: "sleep_in", WindowStart: "09:00", WindowEnd: "18:00"}},
		"bad weekday":      {{Action: model.ActionClockIn, Weekday: &badWeekday, WindowStart: "09:00", WindowEnd: "18:00"}},
		"bad start":        {window(model.ActionClockIn, "9am", "18:00")},
		"bad end":          {window(model.ActionClockIn, "09:00", "25:61")},
		"end before start": {window(model.ActionClockIn, "18:00", "09:00")},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ValidateWindows(windows))
		})
	}
}
