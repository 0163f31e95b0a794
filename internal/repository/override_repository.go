package repository

import (
	"errors"
	"time"

	"workforce-backend/internal/model"

	"gorm.io/gorm"
)

type OverrideRepository interface {
	Create(request *model.ClockOverrideRequest) error
	FindByID(orgID, requestID uint) (*model.ClockOverrideRequest, error)
	FindPendingByUserAction(orgID, userID uint, action model.ClockAction) (*model.ClockOverrideRequest, error)
	// ApproveAndExecute flips the request Pending->Approved and runs
	// the requested clock action in the same database transaction, so
	// either both happen or neither does. Zero affected rows on the
	// status flip is ErrStale; a failed action rolls the flip back.
	ApproveAndExecute(orgID, requestID, reviewerID uint, notes string, requireApproval bool) (*model.ClockOverrideRequest, *model.ClockEntry, error)
	// Reject is a conditional Pending->Rejected update; zero affected
	// rows is ErrStale.
	Reject(orgID, requestID, reviewerID uint, notes string) (*model.ClockOverrideRequest, error)
	ListPending(orgID uint, userIDs []uint, p model.Pagination) ([]model.ClockOverrideRequest, int64, error)
	List(orgID uint, filter model.OverrideFilter, p model.Pagination) ([]model.ClockOverrideRequest, int64, error)
}

type overrideRepository struct {
	db *gorm.DB
}

func NewOverrideRepository(db *gorm.DB) OverrideRepository {
	return &overrideRepository{db}
}

func (r *overrideRepository) Create(request *model.ClockOverrideRequest) error {
	return r.db.Create(request).Error
}

func (r *overrideRepository) FindByID(orgID, requestID uint) (*model.ClockOverrideRequest, error) {
	var request model.ClockOverrideRequest
	err := r.db.Where("organization_id = ? AND id = ?", orgID, requestID).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *overrideRepository) FindPendingByUserAction(orgID, userID uint, action model.ClockAction) (*model.ClockOverrideRequest, error) {
	var request model.ClockOverrideRequest
	err := r.db.Where(
		"organization_id = ? AND user_id = ? AND requested_action = ? AND status = ?",
		orgID, userID, action, model.OverridePending,
	).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *overrideRepository) ApproveAndExecute(orgID, requestID, reviewerID uint, notes string, requireApproval bool) (*model.ClockOverrideRequest, *model.ClockEntry, error) {
	var request model.ClockOverrideRequest
	var entry model.ClockEntry

	err := r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		res := tx.Model(&model.ClockOverrideRequest{}).
			Where("organization_id = ? AND id = ? AND status = ?",
				orgID, requestID, model.OverridePending).
			Updates(map[string]interface{}{
				"status":       model.OverrideApproved,
				"reviewed_by":  reviewerID,
				"reviewed_at":  now,
				"review_notes": notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStale
		}

		if err := tx.Where("organization_id = ? AND id = ?", orgID, requestID).
			First(&request).Error; err != nil {
			return err
		}

		switch request.RequestedAction {
		case model.ActionClockIn:
			entry = model.ClockEntry{
				OrganizationID: orgID,
				UserID:         request.UserID,
				OpenUserID:     &request.UserID,
				ClockIn:        now,
				Status:         model.ClockPending,
				Notes:          "via approved override " + request.Reference.String(),
			}
			if err := tx.Create(&entry).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrDuplicateOpen
				}
				return err
			}
		case model.ActionClockOut:
			var open model.ClockEntry
			err := tx.Where("organization_id = ? AND user_id = ? AND clock_out IS NULL",
				orgID, request.UserID).First(&open).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoOpenSession
			}
			if err != nil {
				return err
			}

			status := model.ClockApproved
			if requireApproval {
				status = model.ClockPending
			}
			res := tx.Model(&model.ClockEntry{}).
				Where("organization_id = ? AND id = ? AND clock_out IS NULL", orgID, open.ID).
				Updates(map[string]interface{}{
					"clock_out":    now,
					"open_user_id": nil,
					"status":       status,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrStale
			}
			if err := tx.Where("organization_id = ? AND id = ?", orgID, open.ID).
				First(&entry).Error; err != nil {
				return err
			}
		}

		request.ResultingClockEntryID = &entry.ID
		return tx.Model(&model.ClockOverrideRequest{}).
			Where("id = ?", request.ID).
			Update("resulting_clock_entry_id", entry.ID).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &request, &entry, nil
}

func (r *overrideRepository) Reject(orgID, requestID, reviewerID uint, notes string) (*model.ClockOverrideRequest, error) {
	res := r.db.Model(&model.ClockOverrideRequest{}).
		Where("organization_id = ? AND id = ? AND status = ?",
			orgID, requestID, model.OverridePending).
		Updates(map[string]interface{}{
			"status":       model.OverrideRejected,
			"reviewed_by":  reviewerID,
			"reviewed_at":  time.Now(),
			"review_notes": notes,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStale
	}
	return r.FindByID(orgID, requestID)
}

func (r *overrideRepository) ListPending(orgID uint, userIDs []uint, p model.Pagination) ([]model.ClockOverrideRequest, int64, error) {
	query := r.db.Model(&model.ClockOverrideRequest{}).
		Where("organization_id = ? AND status = ?", orgID, model.OverridePending)
	if userIDs != nil {
		query = query.Where("user_id IN ?", userIDs)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []model.ClockOverrideRequest
	err := query.Order("created_at asc").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&requests).Error
	return requests, total, err
}

func (r *overrideRepository) List(orgID uint, filter model.OverrideFilter, p model.Pagination) ([]model.ClockOverrideRequest, int64, error) {
	query := r.db.Model(&model.ClockOverrideRequest{}).Where("organization_id = ?", orgID)
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.RequestedAction != nil {
		query = query.Where("requested_action = ?", *filter.RequestedAction)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []model.ClockOverrideRequest
	err := query.Order("created_at desc").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&requests).Error
	return requests, total, err
}
