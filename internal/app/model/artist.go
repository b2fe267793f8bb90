package model

import (
	"time"

	"gorm.io/gorm"
)

type ArtistStatus string

const (
	ArtistStatusActive  ArtistStatus = "active"
	ArtistStatusDeleted ArtistStatus = "deleted"
)

// Artist is a promoted applicant whose artworks can be listed.
// Rows are never removed; deletion flips Status to deleted.
type Artist struct {
	ID                string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	FullName          string       `gorm:"type:varchar(255);not null;index" json:"full_name"`
	Age               int          `gorm:"not null" json:"age"`
	StartedArtSince   string       `gorm:"type:varchar(100)" json:"started_art_since,omitempty"`
	CollegeSchool     string       `gorm:"type:varchar(255)" json:"college_school,omitempty"`
	City              string       `gorm:"type:varchar(100)" json:"city,omitempty"`
	District          string       `gorm:"type:varchar(100)" json:"district,omitempty"`
	Email             string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone             string       `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Socials           Socials      `gorm:"type:text" json:"socials,omitempty"`
	Bio               string       `gorm:"type:text" json:"bio,omitempty"`
	ProfilePicture    string       `gorm:"type:varchar(500)" json:"profile_picture,omitempty"`
	ProfilePictureURL string       `gorm:"-" json:"profile_picture_url,omitempty"`
	ArtsUploaded      int          `gorm:"not null;default:0" json:"arts_uploaded"` // non-deleted artworks
	ArtsSold          int          `gorm:"not null;default:0" json:"arts_sold"`
	Status            ArtistStatus `gorm:"type:varchar(20);default:'active';index" json:"status"`
	JoinedAt          time.Time    `gorm:"autoCreateTime;index" json:"joined_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

func (Artist) TableName() string {
	return "artists"
}

func (a *Artist) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.Status == "" {
		a.Status = ArtistStatusActive
	}
	return nil
}

// IsActive reports whether the artist can own new artworks.
func (a *Artist) IsActive() bool {
	return a.Status == ArtistStatusActive
}
