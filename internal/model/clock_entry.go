package model

import (
	"time"

	"gorm.io/gorm"
)

type ClockStatusValue string

const (
	ClockPending  ClockStatusValue = "pending"
	ClockApproved ClockStatusValue = "approved"
	ClockRejected ClockStatusValue = "rejected"
)

// ClockEntry is one work session. ClockOut stays NULL while the session
// is open. OpenUserID mirrors UserID for open rows and is cleared on
// clock-out; its unique index is what makes "at most one open session
// per user" hold under concurrent requests (MySQL has no partial unique
// indexes, and unique indexes ignore NULLs).
type ClockEntry struct {
	gorm.Model
	OrganizationID uint             `json:"organization_id" gorm:"index;not null"`
	UserID         uint             `json:"user_id" gorm:"index;not null"`
	OpenUserID     *uint            `json:"-" gorm:"uniqueIndex"`
	ClockIn        time.Time        `json:"clock_in" gorm:"not null"`
	ClockOut       *time.Time       `json:"clock_out"`
	Status         ClockStatusValue `json:"status" gorm:"type:varchar(16);default:pending;index"`
	ApprovedBy     *uint            `json:"approved_by"`
	ApprovedAt     *time.Time       `json:"approved_at"`
	Notes          string           `json:"notes"`
	RejectReason   string           `json:"reject_reason,omitempty"`
}

func (e *ClockEntry) DurationMinutes() *int64 {
	if e.ClockOut == nil {
		return nil
	}
	m := int64(e.ClockOut.Sub(e.ClockIn).Minutes())
	return &m
}

// ClockStatus is the live session view returned by GET /clocks/status.
type ClockStatus struct {
	IsClockedIn    bool        `json:"is_clocked_in"`
	CurrentEntry   *ClockEntry `json:"current_entry,omitempty"`
	ElapsedMinutes *int64      `json:"elapsed_minutes,omitempty"`
}

type ClockFilter struct {
	UserID    *uint
	StartDate *time.Time
	EndDate   *time.Time
	Status    *ClockStatusValue
}

// PendingClockFilter scopes the approval queue. OrganizationID is only
// honored for SuperAdmin callers.
type PendingClockFilter struct {
	OrganizationID *uint
	TeamID         *uint
}

type Pagination struct {
	Page    int
	PerPage int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// NormalizePagination clamps caller-supplied values to sane bounds.
func NormalizePagination(page, perPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return Pagination{Page: page, PerPage: perPage}
}

type PaginatedClockEntries struct {
	Data       []ClockEntry `json:"data"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	TotalPages int64        `json:"total_pages"`
}

func TotalPages(total int64, perPage int) int64 {
	if perPage <= 0 {
		return 0
	}
	return (total + int64(perPage) - 1) / int64(perPage)
}

// EntryTransition carries the before/after states of a reviewed entry so
// external audit and notification collaborators can record the change.
type EntryTransition struct {
	Previous ClockEntry `json:"previous"`
	Current  ClockEntry `json:"current"`
}
