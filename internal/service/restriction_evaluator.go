package service

import (
	"fmt"
	"time"

	"workforce-backend/internal/apperror"
	"workforce-backend/internal/model"
)

// RestrictionEvaluator decides whether a clock action is allowed right
// now.
//
// Window semantics, applied uniformly here and at restriction
// create/update validation: a window is the PERMITTED range for its
// action, inclusive at both edges. A restriction denies an action when
// it has windows for that action and none of them covers the current
// instant; a restriction with no windows for the action leaves it
// unconstrained. With several restrictions the most restrictive wins:
// one denial denies, and the override path stays open only when every
// denying restriction is in flexible mode.
type RestrictionEvaluator struct {
	resolver *PolicyResolver
	now      func() time.Time
}

func NewRestrictionEvaluator(resolver *PolicyResolver) *RestrictionEvaluator {
	return &RestrictionEvaluator{resolver: resolver, now: time.Now}
}

// ValidateClockAction evaluates all matching restrictions against the
// organization-local current time.
func (e *RestrictionEvaluator) ValidateClockAction(orgID, userID uint, action model.ClockAction) (*model.ValidationResult, error) {
	restrictions, err := e.resolver.ResolveClockRestrictions(orgID, userID)
	if err != nil {
		return nil, err
	}
	return e.evaluate(restrictions, action, e.now()), nil
}

func (e *RestrictionEvaluator) evaluate(restrictions []model.ClockRestriction, action model.ClockAction, now time.Time) *model.ValidationResult {
	result := &model.ValidationResult{Allowed: true, Restrictions: restrictions}

	overridable := true
	for i := range restrictions {
		restriction := &restrictions[i]
		denied, reason := deniesAction(restriction, action, now)
		if !denied {
			continue
		}
		result.Allowed = false
		if restriction.Mode == model.RestrictionForbid {
			overridable = false
			// A forbid denial is the authoritative reason.
			result.Reason = reason
		} else if result.Reason == "" {
			result.Reason = reason
		}
	}

	if !result.Allowed {
		result.CanRequestOverride = overridable
	}
	return result
}

func deniesAction(restriction *model.ClockRestriction, action model.ClockAction, now time.Time) (bool, string) {
	var actionWindows []model.RestrictionWindow
	for _, w := range restriction.Windows {
		if w.Action == action {
			actionWindows = append(actionWindows, w)
		}
	}
	if len(actionWindows) == 0 {
		return false, ""
	}

	minute := now.Hour()*60 + now.Minute()
	weekday := int(now.Weekday())
	for _, w := range actionWindows {
		if w.Weekday != nil && *w.Weekday != weekday {
			continue
		}
		start, _ := minutesOfDay(w.WindowStart)
		end, _ := minutesOfDay(w.WindowEnd)
		if minute >= start && minute <= end {
			return false, ""
		}
	}
	return true, denialReason(action, actionWindows)
}

func denialReason(action model.ClockAction, windows []model.RestrictionWindow) string {
	name := "Clock in"
	if action == model.ActionClockOut {
		name = "Clock out"
	}
	if len(windows) == 1 {
		return fmt.Sprintf("%s is only allowed between %s and %s",
			name, windows[0].WindowStart, windows[0].WindowEnd)
	}
	return fmt.Sprintf("%s is not allowed at this time", name)
}

// ValidateWindows enforces the window rules at restriction create and
// update time, with the same polarity and inclusivity used above.
func ValidateWindows(windows []model.RestrictionWindow) error {
	for _, w := range windows {
		if _, ok := model.ParseClockAction(string(w.Action)); !ok {
			return apperror.Validation("window action must be clock_in or clock_out")
		}
		if w.Weekday != nil && (*w.Weekday < 0 || *w.Weekday > 6) {
			return apperror.Validation("window weekday must be between 0 (Sunday) and 6 (Saturday)")
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
	}
	return nil
}

// minutesOfDay parses "HH:MM" into minutes since midnight.
func minutesOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
