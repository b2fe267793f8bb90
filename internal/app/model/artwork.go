package model

import (
	"time"

	"gorm.io/gorm"
)

type ArtworkStatus string
type ColorType string

const (
	ArtworkStatusListed    ArtworkStatus = "listed"
	ArtworkStatusOrdered   ArtworkStatus = "ordered"
	ArtworkStatusSold      ArtworkStatus = "sold"
	ArtworkStatusDelivered ArtworkStatus = "delivered"
	ArtworkStatusDeleted   ArtworkStatus = "deleted"

	ColorTypeBlackAndWhite ColorType = "black_and_white"
	ColorTypeColor         ColorType = "color"
)

// Valid reports whether s is a known artwork status.
func (s ArtworkStatus) Valid() bool {
	switch s {
	case ArtworkStatusListed, ArtworkStatusOrdered, ArtworkStatusSold, ArtworkStatusDelivered, ArtworkStatusDeleted:
		return true
	}
	return false
}

// CountsAsSold reports whether the artwork contributes to an artist's sold counter.
func (s ArtworkStatus) CountsAsSold() bool {
	return s == ArtworkStatusSold || s == ArtworkStatusDelivered
}

func (c ColorType) Valid() bool {
	return c == ColorTypeBlackAndWhite || c == ColorTypeColor
}

type Artwork struct {
	ID          string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	ArtistID    string        `gorm:"type:varchar(36);not null;index" json:"artist_id"`
	Name        string        `gorm:"type:varchar(255);not null;index" json:"name"`
	Category    string        `gorm:"type:varchar(100);not null;index" json:"category"`
	Cost        float64       `gorm:"type:decimal(12,2);not null" json:"cost"`
	Image       string        `gorm:"type:varchar(500);not null" json:"image"` // storage key
	ImageURL    string        `gorm:"-" json:"image_url,omitempty"`
	Description string        `gorm:"type:text" json:"description,omitempty"`
	WorkHours   int           `json:"work_hours,omitempty"`
	Size        string        `gorm:"type:varchar(100)" json:"size,omitempty"`
	ColorType   ColorType     `gorm:"type:varchar(20);default:'color'" json:"color_type"`
	Status      ArtworkStatus `gorm:"type:varchar(20);default:'listed';index" json:"status"`
	UploadedAt  time.Time     `gorm:"autoCreateTime;index" json:"uploaded_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Artist *Artist `gorm:"foreignKey:ArtistID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"artist,omitempty"`
}

func (Artwork) TableName() string {
	return "artworks"
}

func (a *Artwork) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.Status == "" {
		a.Status = ArtworkStatusListed
	}
	if a.ColorType == "" {
		a.ColorType = ColorTypeColor
	}
	return nil
}
