package model

import (
	"time"

	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// Valid reports whether s is one of the known application statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusUnderReview, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application is a public request to become a listed artist.
type Application struct {
	ID                string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	FullName          string            `gorm:"type:varchar(255);not null" json:"full_name"`
	Age               int               `gorm:"not null" json:"age"`
	StartedArtAt      string            `gorm:"type:varchar(100)" json:"started_art_at,omitempty"`
	SchoolCollege     string            `gorm:"type:varchar(255)" json:"school_college,omitempty"`
	City              string            `gorm:"type:varchar(100);not null" json:"city"`
	District          string            `gorm:"type:varchar(100);not null" json:"district"`
	Email             string            `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone             string            `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Socials           Socials           `gorm:"type:text" json:"socials,omitempty"`
	Message           string            `gorm:"type:text" json:"message,omitempty"`
	Bio               string            `gorm:"type:text" json:"bio,omitempty"`
	ProfilePicture    string            `gorm:"type:varchar(500)" json:"profile_picture,omitempty"` // storage key
	ProfilePictureURL string            `gorm:"-" json:"profile_picture_url,omitempty"`
	Status            ApplicationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ReviewedBy        string            `gorm:"type:varchar(100)" json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time        `json:"reviewed_at,omitempty"`
	RejectionReason   string            `gorm:"type:text" json:"rejection_reason,omitempty"`
	ReceivedAt        time.Time         `gorm:"autoCreateTime;index" json:"received_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func (Application) TableName() string {
	return "artist_applications"
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.Status == "" {
		a.Status = ApplicationStatusPending
	}
	return nil
}
