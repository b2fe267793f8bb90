package repository

import (
	"time"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/pkg/logger"
	"gorm.io/gorm"
)

// ApplicationReview is the admin decision recorded on an application.
type ApplicationReview struct {
	Status          model.ApplicationStatus
	ReviewedBy      string
	ReviewedAt      time.Time
	RejectionReason *string
}

type ApplicationRepository interface {
	Create(application *model.Application) error
	FindByID(id string) (*model.Application, error)
	EmailExists(email string) (bool, error)
	List(status *model.ApplicationStatus, page Page) ([]model.Application, int64, error)
	UpdateReview(id string, review ApplicationReview) error
	Delete(id string) error
	CountByStatus(status model.ApplicationStatus) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(application *model.Application) error {
	logger.Debug("Creating application in database", map[string]interface{}{
		"email": application.Email,
	})

	if err := r.db.Create(application).Error; err != nil {
		logger.Error("Failed to create application in database", err, map[string]interface{}{
			"email": application.Email,
		})
		return err
	}
	return nil
}

func (r *applicationRepository) FindByID(id string) (*model.Application, error) {
	var application model.Application
	if err := r.db.First(&application, "id = ?", id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find application by ID", err, map[string]interface{}{
				"application_id": id,
			})
		}
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Application{}).Where("LOWER(email) = LOWER(?)", email).Count(&count).Error
	if err != nil {
		logger.Error("Failed to check application email", err)
		return false, err
	}
	return count > 0, nil
}

func (r *applicationRepository) List(status *model.ApplicationStatus, page Page) ([]model.Application, int64, error) {
	query := r.db.Model(&model.Application{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count applications", err)
		return nil, 0, err
	}

	var applications []model.Application
	if err := page.apply(query.Order("received_at DESC, id ASC")).Find(&applications).Error; err != nil {
		logger.Error("Failed to list applications", err)
		return nil, 0, err
	}
	return applications, total, nil
}

// UpdateReview records status, reviewer and review time. The rejection reason
// is only written when one is supplied.
func (r *applicationRepository) UpdateReview(id string, review ApplicationReview) error {
	updates := map[string]interface{}{
		"status":      review.Status,
		"reviewed_by": review.ReviewedBy,
		"reviewed_at": review.ReviewedAt,
	}
	if review.RejectionReason != nil {
		updates["rejection_reason"] = *review.RejectionReason
	}

	result := r.db.Model(&model.Application{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to update application review", result.Error, map[string]interface{}{
			"application_id": id,
			"status":         review.Status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *applicationRepository) Delete(id string) error {
	result := r.db.Delete(&model.Application{}, "id = ?", id)
	if result.Error != nil {
		logger.Error("Failed to delete application", result.Error, map[string]interface{}{
			"application_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *applicationRepository) CountByStatus(status model.ApplicationStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Application{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
