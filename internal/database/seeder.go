package database

import (
	"log"

	"workforce-backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAll loads a small working dataset: one organization with a team,
// one user per role, an org-default break policy and a sample clock
// restriction. Safe to run repeatedly.
func SeedAll(db *gorm.DB) {
	org := model.Organization{Name: "Acme Logistics", RequireClockApproval: true}
	db.FirstOrCreate(&org, model.Organization{Name: org.Name})

	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	users := []model.User{
		{OrganizationID: org.ID, Name: "Sam Admin", Email: "admin@acme.test", Role: "admin"},
		{OrganizationID: org.ID, Name: "Morgan Manager", Email: "manager@acme.test", Role: "manager"},
		{OrganizationID: org.ID, Name: "Evan Employee", Email: "employee@acme.test", Role: "employee"},
		{OrganizationID: org.ID, Name: "Sky Root", Email: "root@acme.test", Role: "superadmin"},
	}
	for i := range users {
		users[i].Password = string(password)
		users[i].IsActive = true
		db.FirstOrCreate(&users[i], model.User{Email: users[i].Email})
	}

	var manager, employee model.User
	db.Where("email = ?", "manager@acme.test").First(&manager)
	db.Where("email = ?", "employee@acme.test").First(&employee)

	team := model.Team{OrganizationID: org.ID, Name: "Warehouse", ManagerID: &manager.ID}
	db.FirstOrCreate(&team, model.Team{OrganizationID: org.ID, Name: team.Name})

	member := model.TeamMember{TeamID: team.ID, UserID: employee.ID}
	db.FirstOrCreate(&member, model.TeamMember{TeamID: team.ID, UserID: employee.ID})

	// Org-default policy: explicit tracking, lunch window on weekdays.
	policy := model.BreakPolicy{
		OrganizationID: org.ID,
		Name:           "Default breaks",
		TrackingMode:   model.BreakExplicit,
		IsActive:       true,
	}
	db.FirstOrCreate(&policy, model.BreakPolicy{OrganizationID: org.ID, Name: policy.Name})
	for weekday := 1; weekday <= 5; weekday++ {
		window := model.BreakWindow{
			BreakPolicyID:      policy.ID,
			Weekday:            weekday,
			WindowStart:        "12:00",
			WindowEnd:          "14:00",
			MinDurationMinutes: 15,
			MaxDurationMinutes: 60,
		}
		db.FirstOrCreate(&window, model.BreakWindow{BreakPolicyID: policy.ID, Weekday: weekday})
	}

	// Team restriction: clocking in is only permitted 06:00-10:00, with
	// an override path.
	restriction := model.ClockRestriction{
		OrganizationID: org.ID,
		TeamID:         &team.ID,
		Mode:           model.RestrictionFlexible,
		IsActive:       true,
	}
	db.FirstOrCreate(&restriction, model.ClockRestriction{OrganizationID: org.ID, TeamID: &team.ID})

	window := model.RestrictionWindow{
		ClockRestrictionID: restriction.ID,
		Action:             model.ActionClockIn,
		WindowStart:        "06:00",
		WindowEnd:          "10:00",
	}
	db.FirstOrCreate(&window, model.RestrictionWindow{
		ClockRestrictionID: restriction.ID,
		Action:             model.ActionClockIn,
	})

	log.Println("seeding complete")
}
