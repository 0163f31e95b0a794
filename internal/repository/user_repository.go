package repository

import (
	"workforce-backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByOrgAndID(orgID, id uint) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, id).Error
	return &user, err
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Organization").Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *userRepository) FindByOrgAndID(orgID, id uint) (*model.User, error) {
	var user model.User
	err := r.db.Where("organization_id = ? AND id = ?", orgID, id).First(&user).Error
	return &user, err
}
