package repository

import (
	"errors"
	"time"

	"workforce-backend/internal/model"

	"gorm.io/gorm"
)

type BreakRepository interface {
	// Policy CRUD (admin-managed configuration).
	CreatePolicy(policy *model.BreakPolicy) error
	FindPolicyByID(orgID, policyID uint) (*model.BreakPolicy, error)
	ListPolicies(orgID uint, p model.Pagination) ([]model.BreakPolicy, int64, error)
	UpdatePolicy(policy *model.BreakPolicy) error
	DeletePolicy(orgID, policyID uint) error
	AddWindow(window *model.BreakWindow) error
	DeleteWindow(policyID, windowID uint) error
	GetWindows(policyID uint) ([]model.BreakWindow, error)

	// Policy resolution inputs.
	FindUserPolicy(orgID, userID uint) (*model.BreakPolicy, error)
	// FindTeamPolicies returns active team-scoped policies for the
	// given teams, most recently created first.
	FindTeamPolicies(orgID uint, teamIDs []uint) ([]model.BreakPolicy, error)
	FindOrgDefaultPolicy(orgID uint) (*model.BreakPolicy, error)

	// Break entries (explicit tracking).
	CreateEntry(entry *model.BreakEntry) error
	FindOpenByUser(orgID, userID uint) (*model.BreakEntry, error)
	// CloseEntry is guarded by "break_end IS NULL"; zero affected rows
	// is ErrStale.
	CloseEntry(orgID, entryID uint, end time.Time, duration int, notes string) (*model.BreakEntry, error)
	ListEntries(orgID uint, filter model.BreakEntryFilter, p model.Pagination) ([]model.BreakEntry, int64, error)
	GetEntriesForClockEntry(clockEntryID uint) ([]model.BreakEntry, error)
}

type breakRepository struct {
	db *gorm.DB
}

func NewBreakRepository(db *gorm.DB) BreakRepository {
	return &breakRepository{db}
}

func (r *breakRepository) CreatePolicy(policy *model.BreakPolicy) error {
	return r.db.Create(policy).Error
}

func (r *breakRepository) FindPolicyByID(orgID, policyID uint) (*model.BreakPolicy, error) {
	var policy model.BreakPolicy
	err := r.db.Preload("Windows").
		Where("organization_id = ? AND id = ?", orgID, policyID).
		First(&policy).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *breakRepository) ListPolicies(orgID uint, p model.Pagination) ([]model.BreakPolicy, int64, error) {
	query := r.db.Model(&model.BreakPolicy{}).Where("organization_id = ?", orgID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var policies []model.BreakPolicy
	err := r.db.Preload("Windows").
		Where("organization_id = ?", orgID).
		Order("created_at desc").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&policies).Error
	return policies, total, err
}

func (r *breakRepository) UpdatePolicy(policy *model.BreakPolicy) error {
	return r.db.Omit("Windows").Save(policy).Error
}

func (r *breakRepository) DeletePolicy(orgID, policyID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("organization_id = ? AND id = ?", orgID, policyID).
			Delete(&model.BreakPolicy{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("break_policy_id = ?", policyID).Delete(&model.BreakWindow{}).Error
	})
}

func (r *breakRepository) AddWindow(window *model.BreakWindow) error {
	return r.db.Create(window).Error
}

func (r *breakRepository) DeleteWindow(policyID, windowID uint) error {
	res := r.db.Where("break_policy_id = ? AND id = ?", policyID, windowID).
		Delete(&model.BreakWindow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *breakRepository) GetWindows(policyID uint) ([]model.BreakWindow, error) {
	var windows []model.BreakWindow
	err := r.db.Where("break_policy_id = ?", policyID).
		Order("weekday asc, window_start asc").
		Find(&windows).Error
	return windows, err
}

func (r *breakRepository) FindUserPolicy(orgID, userID uint) (*model.BreakPolicy, error) {
	var policy model.BreakPolicy
	err := r.db.Preload("Windows").
		Where("organization_id = ? AND user_id = ? AND is_active = ?", orgID, userID, true).
		Order("created_at desc").
		First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *breakRepository) FindTeamPolicies(orgID uint, teamIDs []uint) ([]model.BreakPolicy, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	var policies []model.BreakPolicy
	err := r.db.Preload("Windows").
		Where("organization_id = ? AND team_id IN ? AND user_id IS NULL AND is_active = ?",
			orgID, teamIDs, true).
		Order("created_at desc").
		Find(&policies).Error
	return policies, err
}

func (r *breakRepository) FindOrgDefaultPolicy(orgID uint) (*model.BreakPolicy, error) {
	var policy model.BreakPolicy
	err := r.db.Preload("Windows").
		Where("organization_id = ? AND team_id IS NULL AND user_id IS NULL AND is_active = ?",
			orgID, true).
		Order("created_at desc").
		First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *breakRepository) CreateEntry(entry *model.BreakEntry) error {
	err := r.db.Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateOpen
	}
	return err
}

func (r *breakRepository) FindOpenByUser(orgID, userID uint) (*model.BreakEntry, error) {
	var entry model.BreakEntry
	err := r.db.Where("organization_id = ? AND user_id = ? AND break_end IS NULL", orgID, userID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *breakRepository) CloseEntry(orgID, entryID uint, end time.Time, duration int, notes string) (*model.BreakEntry, error) {
	updates := map[string]interface{}{
		"break_end":           end,
		"open_clock_entry_id": nil,
		"duration_minutes":    duration,
	}
	if notes != "" {
		updates["notes"] = notes
	}
	res := r.db.Model(&model.BreakEntry{}).
		Where("organization_id = ? AND id = ? AND break_end IS NULL", orgID, entryID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStale
	}

	var entry model.BreakEntry
	if err := r.db.Where("organization_id = ? AND id = ?", orgID, entryID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *breakRepository) ListEntries(orgID uint, filter model.BreakEntryFilter, p model.Pagination) ([]model.BreakEntry, int64, error) {
	query := r.db.Model(&model.BreakEntry{}).Where("organization_id = ?", orgID)
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ClockEntryID != nil {
		query = query.Where("clock_entry_id = ?", *filter.ClockEntryID)
	}
	if filter.StartDate != nil {
		query = query.Where("break_start >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("break_start <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.BreakEntry
	err := query.Order("break_start desc").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&entries).Error
	return entries, total, err
}

func (r *breakRepository) GetEntriesForClockEntry(clockEntryID uint) ([]model.BreakEntry, error) {
	var entries []model.BreakEntry
	err := r.db.Where("clock_entry_id = ?", clockEntryID).
		Order("break_start asc").
		Find(&entries).Error
	return entries, err
}
