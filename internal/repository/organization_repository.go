package repository

import (
	"workforce-backend/internal/model"

	"gorm.io/gorm"
)

type OrganizationRepository interface {
	GetByID(id uint) (*model.Organization, error)
}

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db}
}

func (r *organizationRepository) GetByID(id uint) (*model.Organization, error) {
	var org model.Organization
	err := r.db.First(&org, id).Error
	return &org, err
}
