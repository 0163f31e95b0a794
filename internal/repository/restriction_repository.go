package repository

import (
	"workforce-backend/internal/model"

	"gorm.io/gorm"
)

type RestrictionRepository interface {
	Create(restriction *model.ClockRestriction) error
	FindByID(orgID, restrictionID uint) (*model.ClockRestriction, error)
	List(orgID uint, p model.Pagination) ([]model.ClockRestriction, int64, error)
	Update(restriction *model.ClockRestriction) error
	Delete(orgID, restrictionID uint) error
	ReplaceWindows(restrictionID uint, windows []model.RestrictionWindow) error
	// FindActiveForUser returns every active restriction whose scope
	// matches the user: user-scoped rows for the user plus team-scoped
	// rows for any of the given teams. They all apply simultaneously.
	FindActiveForUser(orgID, userID uint, teamIDs []uint) ([]model.ClockRestriction, error)
}

type restrictionRepository struct {
	db *gorm.DB
}

func NewRestrictionRepository(db *gorm.DB) RestrictionRepository {
	return &restrictionRepository{db}
}

func (r *restrictionRepository) Create(restriction *model.ClockRestriction) error {
	return r.db.Create(restriction).Error
}

func (r *restrictionRepository) FindByID(orgID, restrictionID uint) (*model.ClockRestriction, error) {
	var restriction model.ClockRestriction
	err := r.db.Preload("Windows").
		Where("organization_id = ? AND id = ?", orgID, restrictionID).
		First(&restriction).Error
	if err != nil {
		return nil, err
	}
	return &restriction, nil
}

func (r *restrictionRepository) List(orgID uint, p model.Pagination) ([]model.ClockRestriction, int64, error) {
	query := r.db.Model(&model.ClockRestriction{}).Where("organization_id = ?", orgID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var restrictions []model.ClockRestriction
	err := r.db.Preload("Windows").
		Where("organization_id = ?", orgID).
		Order("created_at desc").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&restrictions).Error
	return restrictions, total, err
}

func (r *restrictionRepository) Update(restriction *model.ClockRestriction) error {
	return r.db.Omit("Windows").Save(restriction).Error
}

func (r *restrictionRepository) Delete(orgID, restrictionID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("organization_id = ? AND id = ?", orgID, restrictionID).
			Delete(&model.ClockRestriction{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("clock_restriction_id = ?", restrictionID).
			Delete(&model.RestrictionWindow{}).Error
	})
}

func (r *restrictionRepository) ReplaceWindows(restrictionID uint, windows []model.RestrictionWindow) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("clock_restriction_id = ?", restrictionID).
			Delete(&model.RestrictionWindow{}).Error; err != nil {
			return err
		}
		for i := range windows {
			windows[i].ClockRestrictionID = restrictionID
		}
		if len(windows) == 0 {
			return nil
		}
		return tx.Create(&windows).Error
	})
}

func (r *restrictionRepository) FindActiveForUser(orgID, userID uint, teamIDs []uint) ([]model.ClockRestriction, error) {
	query := r.db.Preload("Windows").
		Where("organization_id = ? AND is_active = ?", orgID, true)
	if len(teamIDs) > 0 {
		query = query.Where("user_id = ? OR (team_id IN ? AND user_id IS NULL)", userID, teamIDs)
	} else {
		query = query.Where("user_id = ?", userID)
	}

	var restrictions []model.ClockRestriction
	err := query.Order("created_at desc").Find(&restrictions).Error
	return restrictions, err
}
