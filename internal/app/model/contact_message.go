package model

import (
	"time"

	"gorm.io/gorm"
)

type MessageStatus string

const (
	MessageStatusUnread   MessageStatus = "unread"
	MessageStatusRead     MessageStatus = "read"
	MessageStatusArchived MessageStatus = "archived"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessageStatusUnread, MessageStatusRead, MessageStatusArchived:
		return true
	}
	return false
}

type ContactMessage struct {
	ID        string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	FullName  string        `gorm:"type:varchar(255);not null" json:"full_name"`
	Email     string        `gorm:"type:varchar(255);not null" json:"email"`
	Phone     string        `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Subject   string        `gorm:"type:varchar(255);not null" json:"subject"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Status    MessageStatus `gorm:"type:varchar(20);default:'unread';index" json:"status"`
	CreatedAt time.Time     `gorm:"index" json:"created_at"`
	ReadAt    *time.Time    `json:"read_at,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = newID()
	}
	if m.Status == "" {
		m.Status = MessageStatusUnread
	}
	return nil
}
