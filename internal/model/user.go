package model

import "gorm.io/gorm"

// Role ranks form a total order: Employee < Manager < Admin < SuperAdmin.
// Authorization checks compare ranks with >=, never string equality.
type Role int

const (
	RoleEmployee Role = iota + 1
	RoleManager
	RoleAdmin
	RoleSuperAdmin
)

func (r Role) String() string {
	switch r {
	case RoleEmployee:
		return "employee"
	case RoleManager:
		return "manager"
	case RoleAdmin:
		return "admin"
	case RoleSuperAdmin:
		return "superadmin"
	}
	return "unknown"
}

// ParseRole maps the wire form back to a rank. Unknown strings come back
// as RoleEmployee so a malformed claim can never gain privileges.
func ParseRole(s string) Role {
	switch s {
	case "manager":
		return RoleManager
	case "admin":
		return RoleAdmin
	case "superadmin":
		return RoleSuperAdmin
	default:
		return RoleEmployee
	}
}

type User struct {
	gorm.Model
	OrganizationID uint   `json:"organization_id" gorm:"index;not null"`
	Name           string `json:"name"`
	Email          string `json:"email" gorm:"unique;not null"`
	Password       string `json:"-"`
	Role           string `json:"role" gorm:"default:employee"`
	IsActive       bool   `json:"is_active" gorm:"default:true"`

	Organization Organization `json:"-" gorm:"foreignKey:OrganizationID"`
}

func (u *User) Rank() Role {
	return ParseRole(u.Role)
}
