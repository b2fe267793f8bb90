package repository

import (
	"time"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/pkg/logger"
	"gorm.io/gorm"
)

type AdminRepository interface {
	FindByUsername(username string) (*model.Admin, error)
	FindByID(id string) (*model.Admin, error)
	UpdateLastLogin(id string, at time.Time) error
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) FindByUsername(username string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) FindByID(id string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.First(&admin, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) UpdateLastLogin(id string, at time.Time) error {
	if err := r.db.Model(&model.Admin{}).Where("id = ?", id).Update("last_login_at", at).Error; err != nil {
		logger.Error("Failed to update admin last login", err, map[string]interface{}{
			"admin_id": id,
		})
		return err
	}
	return nil
}
