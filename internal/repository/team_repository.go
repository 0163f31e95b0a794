package repository

import (
	"workforce-backend/internal/model"

	"gorm.io/gorm"
)

type TeamRepository interface {
	FindByID(orgID, teamID uint) (*model.Team, error)
	GetUserTeamIDs(orgID, userID uint) ([]uint, error)
	GetManagedTeamIDs(orgID, managerID uint) ([]uint, error)
	IsMember(teamID, userID uint) (bool, error)
	// ManagesUser reports whether managerID manages any team userID
	// belongs to within the organization.
	ManagesUser(orgID, managerID, userID uint) (bool, error)
	MemberIDsOfTeams(teamIDs []uint) ([]uint, error)
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db}
}

func (r *teamRepository) FindByID(orgID, teamID uint) (*model.Team, error) {
	var team model.Team
	err := r.db.Where("organization_id = ? AND id = ?", orgID, teamID).First(&team).Error
	return &team, err
}

func (r *teamRepository) GetUserTeamIDs(orgID, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.TeamMember{}).
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("teams.organization_id = ? AND team_members.user_id = ?", orgID, userID).
		Pluck("team_members.team_id", &ids).Error
	return ids, err
}

func (r *teamRepository) GetManagedTeamIDs(orgID, managerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Team{}).
		Where("organization_id = ? AND manager_id = ?", orgID, managerID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *teamRepository) IsMember(teamID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *teamRepository) ManagesUser(orgID, managerID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.TeamMember{}).
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("teams.organization_id = ? AND teams.manager_id = ? AND team_members.user_id = ?",
			orgID, managerID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *teamRepository) MemberIDsOfTeams(teamIDs []uint) ([]uint, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.Model(&model.TeamMember{}).
		Distinct("user_id").
		Where("team_id IN ?", teamIDs).
		Pluck("user_id", &ids).Error
	return ids, err
}
