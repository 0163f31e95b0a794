package model

import (
	"time"

	"gorm.io/gorm"
)

type BreakTrackingMode string

const (
	// BreakAutomatic derives break minutes from configured windows
	// overlapping the session; no BreakEntry rows are created.
	BreakAutomatic BreakTrackingMode = "automatic"
	// BreakExplicit requires the user to start and end breaks.
	BreakExplicit BreakTrackingMode = "explicit"
)

// BreakPolicy is admin-managed configuration. Scope is encoded by the
// nullable TeamID/UserID pair: both NULL = org default, TeamID set =
// team policy, UserID set = user policy.
type BreakPolicy struct {
	gorm.Model
	OrganizationID uint              `json:"organization_id" gorm:"index;not null"`
	TeamID         *uint             `json:"team_id" gorm:"index"`
	UserID         *uint             `json:"user_id" gorm:"index"`
	Name           string            `json:"name" gorm:"not null"`
	Description    string            `json:"description"`
	TrackingMode   BreakTrackingMode `json:"tracking_mode" gorm:"type:varchar(16);default:explicit"`
	IsActive       bool              `json:"is_active" gorm:"default:true"`

	Windows []BreakWindow `json:"windows" gorm:"foreignKey:BreakPolicyID"`
}

// ScopeLevel reports where the policy sits in the precedence chain.
func (p *BreakPolicy) ScopeLevel() string {
	switch {
	case p.UserID != nil:
		return "user"
	case p.TeamID != nil:
		return "team"
	default:
		return "organization"
	}
}

// BreakWindow is a weekday time range on a policy. Weekday follows
// time.Weekday numbering: 0 = Sunday.
type BreakWindow struct {
	gorm.Model
	BreakPolicyID      uint   `json:"break_policy_id" gorm:"index;not null"`
	Weekday            int    `json:"weekday" gorm:"not null"`
	WindowStart        string `json:"window_start" gorm:"type:varchar(5);not null"`
	WindowEnd          string `json:"window_end" gorm:"type:varchar(5);not null"`
	MinDurationMinutes int    `json:"min_duration_minutes"`
	MaxDurationMinutes int    `json:"max_duration_minutes"`
}

// BreakEntry is a tracked break inside an open clock session, created
// only under explicit tracking. OpenClockEntryID mirrors ClockEntryID
// while the break is open and is cleared on end; its unique index
// enforces at most one open break per session.
type BreakEntry struct {
	gorm.Model
	OrganizationID   uint       `json:"organization_id" gorm:"index;not null"`
	UserID           uint       `json:"user_id" gorm:"index;not null"`
	ClockEntryID     uint       `json:"clock_entry_id" gorm:"index;not null"`
	OpenClockEntryID *uint      `json:"-" gorm:"uniqueIndex"`
	BreakStart       time.Time  `json:"break_start" gorm:"not null"`
	BreakEnd         *time.Time `json:"break_end"`
	DurationMinutes  *int       `json:"duration_minutes"`
	Notes            string     `json:"notes"`
}

type BreakStatus struct {
	IsOnBreak      bool             `json:"is_on_break"`
	CurrentBreak   *BreakEntry      `json:"current_break,omitempty"`
	ElapsedMinutes *int             `json:"elapsed_minutes,omitempty"`
	Policy         *EffectivePolicy `json:"policy"`
}

// EffectivePolicy is PolicyResolver output: the winning policy (nil when
// none is configured) plus the precedence level it came from.
type EffectivePolicy struct {
	Policy      *BreakPolicy `json:"policy"`
	SourceLevel string       `json:"source_level"`
}

// BreakDeduction reports how many break minutes a session carries and
// where the number came from ("auto_deduct", "tracked" or "none").
type BreakDeduction struct {
	TotalMinutes int          `json:"total_minutes"`
	Source       string       `json:"source"`
	Entries      []BreakEntry `json:"entries,omitempty"`
}

type BreakEntryFilter struct {
	UserID       *uint
	ClockEntryID *uint
	StartDate    *time.Time
	EndDate      *time.Time
}

type PaginatedBreakEntries struct {
	Data       []BreakEntry `json:"data"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	TotalPages int64        `json:"total_pages"`
}
