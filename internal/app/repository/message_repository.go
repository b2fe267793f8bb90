package repository

import (
	"time"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/pkg/logger"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(message *model.ContactMessage) error
	FindByID(id string) (*model.ContactMessage, error)
	List(statuses []model.MessageStatus, page Page) ([]model.ContactMessage, int64, error)
	UpdateStatus(id string, status model.MessageStatus) error
	MarkRead(id string, at time.Time) (bool, error)
	Delete(id string) error
	CountByStatus(statuses ...model.MessageStatus) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *model.ContactMessage) error {
	if err := r.db.Create(message).Error; err != nil {
		logger.Error("Failed to create contact message", err, map[string]interface{}{
			"email": message.Email,
		})
		return err
	}
	return nil
}

func (r *messageRepository) FindByID(id string) (*model.ContactMessage, error) {
	var message model.ContactMessage
	if err := r.db.First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) List(statuses []model.MessageStatus, page Page) ([]model.ContactMessage, int64, error) {
	query := r.db.Model(&model.ContactMessage{})
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count contact messages", err)
		return nil, 0, err
	}

	var messages []model.ContactMessage
	if err := page.apply(query.Order("created_at DESC, id ASC")).Find(&messages).Error; err != nil {
		logger.Error("Failed to list contact messages", err)
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *messageRepository) UpdateStatus(id string, status model.MessageStatus) error {
	updates := map[string]interface{}{"status": status}
	if status == model.MessageStatusUnread {
		updates["read_at"] = nil
	}

	result := r.db.Model(&model.ContactMessage{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to update contact message status", result.Error, map[string]interface{}{
			"message_id": id,
			"status":     status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkRead moves an unread message to read. It returns false when the
// message was not unread.
func (r *messageRepository) MarkRead(id string, at time.Time) (bool, error) {
	result := r.db.Model(&model.ContactMessage{}).
		Where("id = ? AND status = ?", id, model.MessageStatusUnread).
		Updates(map[string]interface{}{"status": model.MessageStatusRead, "read_at": at})
	if result.Error != nil {
		logger.Error("Failed to mark contact message read", result.Error, map[string]interface{}{
			"message_id": id,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *messageRepository) Delete(id string) error {
	result := r.db.Delete(&model.ContactMessage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *messageRepository) CountByStatus(statuses ...model.MessageStatus) (int64, error) {
	var count int64
	query := r.db.Model(&model.ContactMessage{})
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Count(&count).Error
	return count, err
}
