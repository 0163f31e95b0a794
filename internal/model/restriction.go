package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RestrictionMode string

const (
	// RestrictionForbid denies absolutely; no override path exists.
	RestrictionForbid RestrictionMode = "forbid"
	// RestrictionFlexible denies but lets the user appeal through an
	// override request.
	RestrictionFlexible RestrictionMode = "flexible"
)

type ClockAction string

const (
	ActionClockIn  ClockAction = "clock_in"
	ActionClockOut ClockAction = "clock_out"
)

func ParseClockAction(s string) (ClockAction, bool) {
	switch ClockAction(s) {
	case ActionClockIn, ActionClockOut:
		return ClockAction(s), true
	}
	return "", false
}

// ClockRestriction limits when matching users may clock. Scope is team
// or user level; all active restrictions matching a user apply at once,
// most restrictive wins. Windows denote the PERMITTED range: an action
// is allowed when some window for it covers the current instant, and a
// restriction with no window for an action leaves that action
// unconstrained.
type ClockRestriction struct {
	gorm.Model
	OrganizationID uint            `json:"organization_id" gorm:"index;not null"`
	TeamID         *uint           `json:"team_id" gorm:"index"`
	UserID         *uint           `json:"user_id" gorm:"index"`
	Mode           RestrictionMode `json:"mode" gorm:"type:varchar(16);not null"`
	IsActive       bool            `json:"is_active" gorm:"default:true"`

	Windows []RestrictionWindow `json:"windows" gorm:"foreignKey:ClockRestrictionID"`
}

func (r *ClockRestriction) ScopeLevel() string {
	if r.UserID != nil {
		return "user"
	}
	return "team"
}

// RestrictionWindow is a permitted range for one action. Weekday is
// nullable: NULL applies every day. Start and end are "HH:MM" strings
// in the organization's local time, inclusive at both edges.
type RestrictionWindow struct {
	gorm.Model
	ClockRestrictionID uint        `json:"clock_restriction_id" gorm:"index;not null"`
	Action             ClockAction `json:"action" gorm:"type:varchar(16);not null"`
	Weekday            *int        `json:"weekday"`
	WindowStart        string      `json:"window_start" gorm:"type:varchar(5);not null"`
	WindowEnd          string      `json:"window_end" gorm:"type:varchar(5);not null"`
}

// ValidationResult is the RestrictionEvaluator verdict.
type ValidationResult struct {
	Allowed            bool               `json:"allowed"`
	Reason             string             `json:"reason,omitempty"`
	CanRequestOverride bool               `json:"can_request_override"`
	Restrictions       []ClockRestriction `json:"restrictions,omitempty"`
}

type OverrideStatus string

const (
	OverridePending  OverrideStatus = "pending"
	OverrideApproved OverrideStatus = "approved"
	OverrideRejected OverrideStatus = "rejected"
)

// ClockOverrideRequest is a user appeal against a flexible-mode denial.
// Pending is the only non-terminal state. ResultingClockEntryID links
// the clock entry an approval executed, which is also the replay guard:
// a request with the link set can never authorize a second action.
type ClockOverrideRequest struct {
	gorm.Model
	Reference             uuid.UUID      `json:"reference" gorm:"type:char(36);uniqueIndex"`
	OrganizationID        uint           `json:"organization_id" gorm:"index;not null"`
	UserID                uint           `json:"user_id" gorm:"index;not null"`
	RequestedAction       ClockAction    `json:"requested_action" gorm:"type:varchar(16);not null"`
	Reason                string         `json:"reason" gorm:"not null"`
	Status                OverrideStatus `json:"status" gorm:"type:varchar(16);default:pending;index"`
	ReviewedBy            *uint          `json:"reviewed_by"`
	ReviewedAt            *time.Time     `json:"reviewed_at"`
	ReviewNotes           string         `json:"review_notes,omitempty"`
	ResultingClockEntryID *uint          `json:"resulting_clock_entry_id"`
}

func (r *ClockOverrideRequest) BeforeCreate(tx *gorm.DB) error {
	if r.Reference == uuid.Nil {
		r.Reference = uuid.New()
	}
	return nil
}

type OverrideFilter struct {
	UserID          *uint
	Status          *OverrideStatus
	RequestedAction *ClockAction
}

type PaginatedOverrideRequests struct {
	Data       []ClockOverrideRequest `json:"data"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PerPage    int                    `json:"per_page"`
	TotalPages int64                  `json:"total_pages"`
}

// OverrideTransition carries before/after states of a reviewed request
// for the external audit and notification collaborators.
type OverrideTransition struct {
	Previous ClockOverrideRequest `json:"previous"`
	Current  ClockOverrideRequest `json:"current"`
	// Entry is set when an approval executed the requested action.
	Entry *ClockEntry `json:"entry,omitempty"`
}
