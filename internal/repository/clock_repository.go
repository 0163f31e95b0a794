package repository

import (
	"errors"
	"time"

	"workforce-backend/internal/model"

	"gorm.io/gorm"
)

type ClockRepository interface {
	// Create inserts an open entry. The unique index on open_user_id
	// rejects a second open entry for the same user; that surfaces as
	// ErrDuplicateOpen.
	Create(entry *model.ClockEntry) error
	FindOpenByUser(orgID, userID uint) (*model.ClockEntry, error)
	FindByID(orgID, entryID uint) (*model.ClockEntry, error)
	// Close sets clock_out and the post-session status, guarded by
	// "clock_out IS NULL". Zero affected rows is ErrStale.
	Close(orgID, entryID uint, clockOut time.Time, status model.ClockStatusValue, notes string) (*model.ClockEntry, error)
	// Approve and Reject are conditional Pending->terminal updates.
	// Zero affected rows is ErrStale (already reviewed).
	Approve(orgID, entryID, approverID uint) (*model.ClockEntry, error)
	Reject(orgID, entryID, approverID uint, reason string) (*model.ClockEntry, error)
	ListByUser(orgID, userID uint, filter model.ClockFilter, p model.Pagination) ([]model.ClockEntry, int64, error)
	// ListPending returns completed entries awaiting review. A non-nil
	// userIDs slice narrows the result to those users.
	ListPending(orgID uint, userIDs []uint, p model.Pagination) ([]model.ClockEntry, int64, error)
}

type clockRepository struct {
	db *gorm.DB
}

func NewClockRepository(db *gorm.DB) ClockRepository {
	return &clockRepository{db}
}

func (r *clockRepository) Create(entry *model.ClockEntry) error {
	err := r.db.Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateOpen
	}
	return err
}

func (r *clockRepository) FindOpenByUser(orgID, userID uint) (*model.ClockEntry, error) {
	var entry model.ClockEntry
	err := r.db.Where("organization_id = ? AND user_id = ? AND clock_out IS NULL", orgID, userID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *clockRepository) FindByID(orgID, entryID uint) (*model.ClockEntry, error) {
	var entry model.ClockEntry
	err := r.db.Where("organization_id = ? AND id = ?", orgID, entryID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *clockRepository) Close(orgID, entryID uint, clockOut time.Time, status model.ClockStatusValue, notes string) (*model.ClockEntry, error) {
	updates := map[string]interface{}{
		"clock_out":    clockOut,
		"open_user_id": nil,
		"status":       status,
	}
	if notes != "" {
		updates["notes"] = notes
	}
	res := r.db.Model(&model.ClockEntry{}).
		Where("organization_id = ? AND id = ? AND clock_out IS NULL", orgID, entryID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStale
	}
	return r.FindByID(orgID, entryID)
}

func (r *clockRepository) Approve(orgID, entryID, approverID uint) (*model.ClockEntry, error) {
	now := time.Now()
	res := r.db.Model(&model.ClockEntry{}).
		Where("organization_id = ? AND id = ? AND status = ? AND clock_out IS NOT NULL",
			orgID, entryID, model.ClockPending).
		Updates(map[string]interface{}{
			"status":      model.ClockApproved,
			"approved_by": approverID,
			"approved_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStale
	}
	return r.FindByID(orgID, entryID)
}

func (r *clockRepository) Reject(orgID, entryID, approverID uint, reason string) (*model.ClockEntry, error) {
	now := time.Now()
	res := r.db.Model(&model.ClockEntry{}).
		Where("organization_id = ? AND id = ? AND status = ? AND clock_out IS NOT NULL",
			orgID, entryID, model.ClockPending).
		Updates(map[string]interface{}{
			"status":        model.ClockRejected,
			"approved_by":   approverID,
			"approved_at":   now,
			"reject_reason": reason,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStale
	}
	return r.FindByID(orgID, entryID)
}

func (r *clockRepository) ListByUser(orgID, userID uint, filter model.ClockFilter, p model.Pagination) ([]model.ClockEntry, int64, error) {
	query := r.db.Model(&model.ClockEntry{}).
		Where("organization_id = ? AND user_id = ?", orgID, userID)
	query = applyClockFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.ClockEntry
	err := query.Order("clock_in desc").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&entries).Error
	return entries, total, err
}

func (r *clockRepository) ListPending(orgID uint, userIDs []uint, p model.Pagination) ([]model.ClockEntry, int64, error) {
	query := r.db.Model(&model.ClockEntry{}).
		Where("organization_id = ? AND status = ? AND clock_out IS NOT NULL", orgID, model.ClockPending)
	if userIDs != nil {
		query = query.Where("user_id IN ?", userIDs)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.ClockEntry
	err := query.Order("clock_in desc").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&entries).Error
	return entries, total, err
}

func applyClockFilter(query *gorm.DB, filter model.ClockFilter) *gorm.DB {
	if filter.StartDate != nil {
		query = query.Where("clock_in >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("clock_in <= ?", *filter.EndDate)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}
