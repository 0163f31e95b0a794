package model

import "gorm.io/gorm"

type Organization struct {
	gorm.Model
	Name string `json:"name" gorm:"not null"`

	// When true, completed clock entries wait for a manager review.
	// When false, clock-out marks the entry approved immediately.
	RequireClockApproval bool `json:"require_clock_approval" gorm:"default:true"`

	Users []User `json:"-"`
	Teams []Team `json:"-"`
}

type Team struct {
	gorm.Model
	OrganizationID uint   `json:"organization_id" gorm:"index;not null"`
	Name           string `json:"name" gorm:"not null"`
	ManagerID      *uint  `json:"manager_id"`

	Members []TeamMember `json:"-"`
}

type TeamMember struct {
	gorm.Model
	TeamID uint `json:"team_id" gorm:"uniqueIndex:idx_team_user;not null"`
	UserID uint `json:"user_id" gorm:"uniqueIndex:idx_team_user;not null"`
}
