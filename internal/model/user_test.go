package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleOrdering(t *testing.T) {
	assert.True(t, RoleEmployee < RoleManager)
	assert.True(t, RoleManager < RoleAdmin)
	assert.True(t, RoleAdmin < RoleSuperAdmin)
}

func TestParseRoleRoundTrip(t *testing.T) {
	for _, role := range []Role{RoleEmployee, RoleManager, RoleAdmin, RoleSuperAdmin} {
		assert.Equal(t, role, ParseRole(role.String()))
	}
}

func TestParseRoleUnknownFallsBackToEmployee(t *testing.T) {
	// A forged or stale claim must never grant privileges.
	assert.Equal(t, RoleEmployee, ParseRole("root"))
	assert.Equal(t, RoleEmployee, ParseRole(""))
}

func TestUserRank(t *testing.T) {
	u := User{Role: "manager"}
	assert.Equal(t, RoleManager, u.Rank())
}
